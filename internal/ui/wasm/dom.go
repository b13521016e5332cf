//go:build js && wasm

package wasm

import (
	"fmt"
	"syscall/js"

	"github.com/Its-donkey/admin-picker/internal/ui/app"
	"github.com/Its-donkey/admin-picker/internal/ui/render"
	"github.com/Its-donkey/admin-picker/internal/ui/view"
	"github.com/Its-donkey/admin-picker/logging"
)

const cardStagger = 0.05

// DOM patches the server-rendered markup in place.
type DOM struct {
	document js.Value
	renderer *render.Renderer
	logger   *logging.Logger
	funcs    []js.Func
}

// NewDOM returns a surface over the current document.
func NewDOM(renderer *render.Renderer, logger *logging.Logger) *DOM {
	return &DOM{
		document: js.Global().Get("document"),
		renderer: renderer,
		logger:   logger,
	}
}

// Bind routes form submits, card clicks, overlay clicks and Escape to h.
func (d *DOM) Bind(h app.Handlers) {
	d.listen("submit", func(event js.Value) {
		form := event.Get("target")
		if !form.Truthy() || form.Get("tagName").String() != "FORM" {
			return
		}
		action := ParseAction(form.Call("getAttribute", "action").String())
		if action.Kind == ActionNone {
			return
		}
		event.Call("preventDefault")
		Dispatch(action, h)
	})

	d.listen("click", func(event js.Value) {
		target := event.Get("target")
		if !target.Truthy() || target.Get("closest").Type() != js.TypeFunction {
			return
		}
		if target.Get("id").String() == "modal-overlay" {
			if h.Cancel != nil {
				h.Cancel()
			}
			return
		}
		if target.Call("closest", "form").Truthy() {
			return
		}
		card := target.Call("closest", ".admin-card[data-interactive]")
		if card.Truthy() && h.SelectTag != nil {
			h.SelectTag(card.Get("dataset").Get("adminTag").String())
		}
	})

	d.listen("keydown", func(event js.Value) {
		if event.Get("key").String() == "Escape" && h.Cancel != nil {
			h.Cancel()
		}
	})
}

// Render applies page to the document.
func (d *DOM) Render(page view.Page) {
	d.document.Set("title", page.Title)
	d.renderTabs(page.Tabs)
	for _, panel := range page.Panels {
		d.renderPanel(panel)
	}
	d.renderDialog(page.Dialog)
	d.renderNotice(page.Notice)
}

func (d *DOM) renderTabs(tabs []view.TabButton) {
	for _, tab := range tabs {
		btn := d.document.Call("querySelector", fmt.Sprintf(`.tab-btn[data-tab="%s"]`, tab.ID))
		if !btn.Truthy() {
			continue
		}
		btn.Get("classList").Call("toggle", "active", tab.Active)
		if count := btn.Call("querySelector", ".tab-count"); count.Truthy() {
			count.Set("textContent", tab.Count)
		}
	}
}

func (d *DOM) renderPanel(panel view.Panel) {
	section := d.document.Call("getElementById", string(panel.ID))
	if !section.Truthy() {
		d.logger.Warn("dom", "panel container missing", map[string]any{"tab": string(panel.ID)})
		return
	}
	html, err := d.renderer.PanelHTML(panel)
	if err != nil {
		d.logger.Error("dom", "render panel failed", err, map[string]any{"tab": string(panel.ID)})
		return
	}
	section.Set("outerHTML", html)

	cards := d.document.Call("querySelectorAll", "#"+string(panel.ID)+" .admin-card")
	for i := 0; i < cards.Length(); i++ {
		card := cards.Index(i)
		card.Get("classList").Call("add", "animate-in")
		card.Get("style").Set("animationDelay", fmt.Sprintf("%.2fs", float64(i)*cardStagger))
	}
}

func (d *DOM) renderDialog(dialog view.Dialog) {
	overlay := d.document.Call("getElementById", "modal-overlay")
	if !overlay.Truthy() {
		return
	}
	html, err := d.renderer.DialogHTML(dialog)
	if err != nil {
		d.logger.Error("dom", "render dialog failed", err, nil)
		return
	}
	overlay.Set("outerHTML", html)
}

func (d *DOM) renderNotice(notice *view.Notice) {
	slot := d.document.Call("getElementById", "notice")
	if !slot.Truthy() {
		return
	}
	if notice == nil {
		slot.Set("innerHTML", "")
		return
	}
	el := d.document.Call("createElement", "div")
	el.Set("className", "notice notice-"+notice.Kind)
	el.Call("setAttribute", "role", "alert")
	el.Set("textContent", notice.Text)
	slot.Set("innerHTML", "")
	slot.Call("appendChild", el)
}

func (d *DOM) listen(event string, fn func(js.Value)) {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			fn(args[0])
		}
		return nil
	})
	d.funcs = append(d.funcs, cb)
	d.document.Call("addEventListener", event, cb)
}
