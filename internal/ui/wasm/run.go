//go:build js && wasm

package wasm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"syscall/js"

	"golang.org/x/text/language"

	"github.com/Its-donkey/admin-picker/internal/ui/app"
	"github.com/Its-donkey/admin-picker/internal/ui/bridge"
	"github.com/Its-donkey/admin-picker/internal/ui/directory"
	"github.com/Its-donkey/admin-picker/internal/ui/i18n"
	"github.com/Its-donkey/admin-picker/internal/ui/model"
	"github.com/Its-donkey/admin-picker/internal/ui/render"
	"github.com/Its-donkey/admin-picker/internal/ui/selection"
	"github.com/Its-donkey/admin-picker/logging"
)

const (
	defaultAPIBase = "/api"
	themeColor     = "#151729"
)

// pageConfig is read from window.ADMIN_PICKER_CONFIG when the host page sets it.
type pageConfig struct {
	APIBase  string `json:"apiBase"`
	LogLevel string `json:"logLevel"`
}

// RunApp takes over the server-rendered picker and blocks forever.
func RunApp() {
	done := make(chan struct{})
	window := js.Global()

	cfg := readPageConfig(window)
	level, err := logging.ParseLevel(cfg.LogLevel)
	logger := logging.New(level, newConsoleWriter())
	if err != nil {
		logger.Warn("wasm", "invalid log level, using info", map[string]any{"value": cfg.LogLevel})
	}

	renderer, err := render.New()
	if err != nil {
		logger.Error("wasm", "templates unavailable", err, nil)
		return
	}

	var host bridge.Bridge
	if tg := NewTelegram(logger); tg != nil {
		host = tg
	}

	picker, err := app.New(app.Options{
		Directory: directory.New(absoluteURL(window, cfg.APIBase), directory.WithLogger(logger)),
		Bridge:    host,
		Surface:   NewDOM(renderer, logger),
		Notifier:  alertNotifier(window),
		Logger:    logger,
		Language:  documentLanguage(window),
		Theme:     model.Theme{HeaderColor: themeColor, BackgroundColor: themeColor},
	})
	if err != nil {
		logger.Error("wasm", "picker init failed", err, nil)
		return
	}

	exposeUpdateAdmins(window, picker, logger)
	hookGlobalErrors(window, logger)

	go picker.Start(context.Background())
	<-done
}

func readPageConfig(window js.Value) pageConfig {
	cfg := pageConfig{APIBase: defaultAPIBase}
	raw := window.Get("ADMIN_PICKER_CONFIG")
	if !raw.Truthy() {
		return cfg
	}
	var fromPage pageConfig
	text := window.Get("JSON").Call("stringify", raw).String()
	if err := json.Unmarshal([]byte(text), &fromPage); err != nil {
		return cfg
	}
	if strings.TrimSpace(fromPage.APIBase) != "" {
		cfg.APIBase = fromPage.APIBase
	}
	cfg.LogLevel = fromPage.LogLevel
	return cfg
}

// absoluteURL resolves a path such as /api against the page origin; the
// fetch-backed HTTP client needs a full URL.
func absoluteURL(window js.Value, base string) string {
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		return base
	}
	origin := window.Get("location").Get("origin").String()
	return strings.TrimSuffix(origin, "/") + "/" + strings.TrimPrefix(base, "/")
}

func documentLanguage(window js.Value) language.Tag {
	lang := window.Get("document").Get("documentElement").Get("lang")
	if lang.Truthy() {
		if tag, ok := i18n.ParseTag(lang.String()); ok {
			return tag
		}
	}
	return language.Russian
}

func alertNotifier(window js.Value) selection.Notifier {
	return selection.NotifierFunc(func(n model.Notice) {
		if window.Get("alert").Type() == js.TypeFunction {
			window.Call("alert", n.Text)
		}
	})
}

// exposeUpdateAdmins installs window.updateAdmins(list) for hosts that push a
// fresh directory without a fetch.
func exposeUpdateAdmins(window js.Value, picker *app.App, logger *logging.Logger) {
	window.Set("updateAdmins", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) == 0 || !args[0].Truthy() {
			logger.Warn("wasm", "updateAdmins called without a list", nil)
			return nil
		}
		text := window.Get("JSON").Call("stringify", args[0]).String()
		var raw []model.Admin
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			logger.Error("wasm", "updateAdmins payload rejected", err, nil)
			return nil
		}
		picker.ReplaceAdmins(directory.Normalize(raw, logger))
		return nil
	}))
}

func hookGlobalErrors(window js.Value, logger *logging.Logger) {
	window.Call("addEventListener", "error", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			logger.Error("wasm", "uncaught error", errors.New(args[0].Get("message").String()), nil)
			args[0].Call("preventDefault")
		}
		return nil
	}))
	window.Call("addEventListener", "unhandledrejection", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			reason := args[0].Get("reason")
			logger.Error("wasm", "unhandled rejection", errors.New(js.Global().Get("String").Invoke(reason).String()), nil)
			args[0].Call("preventDefault")
		}
		return nil
	}))
}
