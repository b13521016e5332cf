// Package server is the server-rendered surface of the picker.
package server

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/text/language"

	"github.com/Its-donkey/admin-picker/internal/ui/app"
	"github.com/Its-donkey/admin-picker/internal/ui/render"
	"github.com/Its-donkey/admin-picker/logging"
)

const shutdownTimeout = 5 * time.Second

// Options configures the HTTP surface.
type Options struct {
	Listen   string
	App      *app.App
	Renderer *render.Renderer
	Logger   *logging.Logger
	// Language is used when the request expresses no preference.
	Language language.Tag
	// APIBase, when set, is reverse-proxied under /api/ so the browser build
	// can reach the directory API from the same origin.
	APIBase string
	// WASMDir, when set, holds main.wasm and wasm_exec.js, served under /wasm/
	// and booted by the /app shell.
	WASMDir string
}

// Server serves the picker over HTTP.
type Server struct {
	app      *app.App
	renderer *render.Renderer
	logger   *logging.Logger
	fallback language.Tag
	apiBase  *url.URL
	wasmDir  string
}

// New validates opts and builds a Server.
func New(opts Options) (*Server, error) {
	if opts.App == nil {
		return nil, errors.New("server: app is required")
	}
	s := &Server{
		app:      opts.App,
		renderer: opts.Renderer,
		logger:   opts.Logger,
		fallback: opts.Language,
	}
	if s.renderer == nil {
		r, err := render.New()
		if err != nil {
			return nil, err
		}
		s.renderer = r
	}
	if s.fallback == language.Und {
		s.fallback = opts.App.Language()
	}
	if base := strings.TrimSpace(opts.APIBase); base != "" {
		u, err := url.Parse(base)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("server: invalid API base %q", base)
		}
		s.apiBase = u
	}
	if dir := strings.TrimSpace(opts.WASMDir); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("resolve wasm dir: %w", err)
		}
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			return nil, fmt.Errorf("wasm dir %s is invalid: %v", abs, err)
		}
		s.wasmDir = abs
	}
	return s, nil
}

// Handler returns the routed handler wrapped in request logging and panic recovery.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.UseEncodedPath()

	r.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	r.HandleFunc("/tabs/{tab}", s.handleTab).Methods(http.MethodPost)
	r.HandleFunc("/admins/{tag}/select", s.handleSelect).Methods(http.MethodPost)
	r.HandleFunc("/dialog/cancel", s.handleCancel).Methods(http.MethodPost)
	r.HandleFunc("/dialog/confirm", s.handleConfirm).Methods(http.MethodPost)
	r.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/static/styles.css", s.handleStyles).Methods(http.MethodGet)
	r.HandleFunc("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if s.apiBase != nil {
		r.PathPrefix("/api/").Handler(http.StripPrefix("/api", apiProxyHandler(s.apiBase)))
	}
	if s.wasmDir != "" {
		mime.AddExtensionType(".wasm", "application/wasm")
		r.HandleFunc("/app", s.handleShell).Methods(http.MethodGet)
		r.PathPrefix("/wasm/").Handler(http.StripPrefix("/wasm/", staticHandler(s.wasmDir)))
	}

	return logging.NewHTTPLogger(s.logger).Middleware(logging.Recover(s.logger, r))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, opts Options) error {
	srv, err := New(opts)
	if err != nil {
		return err
	}
	listen := opts.Listen
	if listen == "" {
		listen = "127.0.0.1:4173"
	}

	httpServer := &http.Server{
		Addr:              listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	srv.logger.Info("http", "serving admin picker", map[string]any{
		"url":    "http://" + listen,
		"api":    proxyTarget(srv.apiBase),
		"wasm":   srv.wasmDir != "",
		"admins": srv.app.State().Len(),
	})

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	}
}

func apiProxyHandler(target *url.URL) http.Handler {
	proxy := httputil.NewSingleHostReverseProxy(target)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Host = target.Host
		proxy.ServeHTTP(w, r)
	})
}

func staticHandler(root string) http.Handler {
	fileServer := http.FileServer(http.Dir(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".wasm") {
			w.Header().Set("Content-Type", "application/wasm")
		}
		fileServer.ServeHTTP(w, r)
	})
}

func proxyTarget(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.String()
}
