//go:build js && wasm

package wasm

import (
	"encoding/json"
	"errors"
	"fmt"
	"syscall/js"

	"github.com/Its-donkey/admin-picker/internal/ui/model"
	"github.com/Its-donkey/admin-picker/logging"
)

// Telegram is the bridge to window.Telegram.WebApp.
type Telegram struct {
	webApp js.Value
	logger *logging.Logger
	funcs  []js.Func
}

// NewTelegram returns the Telegram bridge, or nil when the page is not hosted by Telegram.
func NewTelegram(logger *logging.Logger) *Telegram {
	tg := js.Global().Get("Telegram")
	if !tg.Truthy() {
		return nil
	}
	webApp := tg.Get("WebApp")
	if !webApp.Truthy() {
		return nil
	}
	return &Telegram{webApp: webApp, logger: logger}
}

// Available reports whether the host accepts sendData.
func (t *Telegram) Available() bool {
	return t.webApp.Get("sendData").Type() == js.TypeFunction
}

// Init expands the view, signals readiness and applies the theme colours.
func (t *Telegram) Init(theme model.Theme) error {
	return guard(func() {
		t.callIfPresent("expand")
		t.callIfPresent("ready")
		if theme.HeaderColor != "" {
			t.callIfPresent("setHeaderColor", theme.HeaderColor)
		}
		if theme.BackgroundColor != "" {
			t.callIfPresent("setBackgroundColor", theme.BackgroundColor)
		}
		if t.webApp.Get("onEvent").Type() != js.TypeFunction {
			return
		}
		themeChanged := js.FuncOf(func(this js.Value, args []js.Value) any {
			t.logger.Info("bridge", "host theme changed", map[string]any{"color_scheme": t.webApp.Get("colorScheme").String()})
			return nil
		})
		viewportChanged := js.FuncOf(func(this js.Value, args []js.Value) any {
			fields := map[string]any{}
			if height := t.webApp.Get("viewportHeight"); height.Type() == js.TypeNumber {
				fields["height"] = height.Float()
			}
			t.logger.Debug("bridge", "host viewport changed", fields)
			return nil
		})
		t.funcs = append(t.funcs, themeChanged, viewportChanged)
		t.webApp.Call("onEvent", "themeChanged", themeChanged)
		t.webApp.Call("onEvent", "viewportChanged", viewportChanged)
	})
}

// Send hands payload to the host.
func (t *Telegram) Send(payload []byte) error {
	if !t.Available() {
		return errors.New("telegram: sendData unavailable")
	}
	return guard(func() { t.webApp.Call("sendData", string(payload)) })
}

// Close dismisses the web app.
func (t *Telegram) Close() error {
	return guard(func() { t.callIfPresent("close") })
}

// User returns initDataUnsafe.user when the host provides one.
func (t *Telegram) User() (model.UserData, bool) {
	initData := t.webApp.Get("initDataUnsafe")
	if !initData.Truthy() {
		return model.UserData{}, false
	}
	user := initData.Get("user")
	if !user.Truthy() {
		return model.UserData{}, false
	}
	raw := js.Global().Get("JSON").Call("stringify", user).String()
	var data model.UserData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.logger.Warn("bridge", "unreadable host user", map[string]any{"error": err.Error()})
		return model.UserData{}, false
	}
	return data, data.ID != 0
}

func (t *Telegram) callIfPresent(method string, args ...any) {
	if t.webApp.Get(method).Type() == js.TypeFunction {
		t.webApp.Call(method, args...)
	}
}

// guard turns a JavaScript exception raised inside fn into an error.
func guard(fn func()) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if jsErr, ok := rec.(js.Error); ok {
				err = jsErr
				return
			}
			err = fmt.Errorf("%v", rec)
		}
	}()
	fn()
	return nil
}
