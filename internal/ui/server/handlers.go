package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"golang.org/x/text/language"

	"github.com/Its-donkey/admin-picker/internal/ui/app"
	"github.com/Its-donkey/admin-picker/internal/ui/i18n"
	"github.com/Its-donkey/admin-picker/internal/ui/render"
	"github.com/Its-donkey/admin-picker/internal/ui/selection"
	"github.com/Its-donkey/admin-picker/internal/ui/state"
)

// requestLanguage resolves and, when it came from the query string, persists the request language.
func (s *Server) requestLanguage(w http.ResponseWriter, r *http.Request) language.Tag {
	tag, persist := i18n.ResolveTag(r, s.fallback)
	if persist {
		i18n.SetLanguageCookie(w, tag)
	}
	return tag
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	tag := s.requestLanguage(w, r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := s.renderer.Page(w, s.app.Page(tag)); err != nil {
		s.logger.Error("http", "render page failed", err, nil)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

func (s *Server) handleShell(w http.ResponseWriter, r *http.Request) {
	tag := s.requestLanguage(w, r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	bundle := render.Bundle{Runtime: "/wasm/wasm_exec.js", Module: "/wasm/main.wasm"}
	if err := s.renderer.Shell(w, s.app.Page(tag), bundle); err != nil {
		s.logger.Error("http", "render shell failed", err, nil)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

func (s *Server) handleTab(w http.ResponseWriter, r *http.Request) {
	tab := mux.Vars(r)["tab"]
	if _, err := s.app.SwitchTab(tab); err != nil {
		if errors.Is(err, state.ErrUnknownTab) {
			http.Error(w, "unknown tab", http.StatusBadRequest)
			return
		}
		s.logger.Error("http", "switch tab failed", err, map[string]any{"tab": tab})
		http.Error(w, "failed to switch tab", http.StatusInternalServerError)
		return
	}
	seeOther(w, r)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	tag, err := url.PathUnescape(mux.Vars(r)["tag"])
	if err != nil {
		http.Error(w, "invalid admin tag", http.StatusBadRequest)
		return
	}
	switch err := s.app.SelectTag(tag); {
	case err == nil, errors.Is(err, selection.ErrSubmitting):
		seeOther(w, r)
	case errors.Is(err, app.ErrUnknownAdmin):
		http.Error(w, "admin not found", http.StatusNotFound)
	case errors.Is(err, selection.ErrNotSelectable):
		http.Error(w, "admin is not available", http.StatusConflict)
	default:
		s.logger.Error("http", "select admin failed", err, map[string]any{"admin_tag": tag})
		http.Error(w, "failed to select admin", http.StatusInternalServerError)
	}
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.app.Cancel()
	seeOther(w, r)
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	tag, _ := i18n.ResolveTag(r, s.fallback)
	s.app.Confirm(i18n.NewContext(r.Context(), tag))
	seeOther(w, r)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	// The outcome is part of the state the next page shows.
	_ = s.app.Load(r.Context())
	seeOther(w, r)
}

type healthResponse struct {
	Status    string `json:"status"`
	Admins    int    `json:"admins"`
	Loaded    bool   `json:"loaded"`
	LoadError string `json:"load_error,omitempty"`
	Bridge    bool   `json:"bridge"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.app.State().Snapshot()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:    "ok",
		Admins:    len(snap.Admins),
		Loaded:    snap.Loaded,
		LoadError: snap.LoadError,
		Bridge:    s.app.Bridge().Available(),
	})
}

func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write(render.Stylesheet())
}

func seeOther(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
