package wasm

import (
	"net/url"
	"strings"

	"github.com/Its-donkey/admin-picker/internal/ui/app"
)

// ActionKind names a form action the page can post.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionTab
	ActionSelect
	ActionCancel
	ActionConfirm
	ActionRefresh
)

// Action is a decoded form action path.
type Action struct {
	Kind ActionKind
	Arg  string
}

// ParseAction decodes the action attribute of a rendered form. The paths are
// the same ones the HTTP surface routes, so one template serves both.
func ParseAction(action string) Action {
	if u, err := url.Parse(action); err == nil {
		action = u.EscapedPath()
	}
	parts := strings.Split(strings.Trim(action, "/"), "/")
	switch {
	case len(parts) == 2 && parts[0] == "tabs":
		return Action{Kind: ActionTab, Arg: parts[1]}
	case len(parts) == 3 && parts[0] == "admins" && parts[2] == "select":
		tag, err := url.PathUnescape(parts[1])
		if err != nil {
			return Action{}
		}
		return Action{Kind: ActionSelect, Arg: tag}
	case len(parts) == 2 && parts[0] == "dialog" && parts[1] == "cancel":
		return Action{Kind: ActionCancel}
	case len(parts) == 2 && parts[0] == "dialog" && parts[1] == "confirm":
		return Action{Kind: ActionConfirm}
	case len(parts) == 1 && parts[0] == "refresh":
		return Action{Kind: ActionRefresh}
	}
	return Action{}
}

// Dispatch forwards a to the matching handler. It reports false for unknown actions.
func Dispatch(a Action, h app.Handlers) bool {
	var fn func()
	switch a.Kind {
	case ActionTab:
		if h.SwitchTab != nil {
			fn = func() { h.SwitchTab(a.Arg) }
		}
	case ActionSelect:
		if h.SelectTag != nil {
			fn = func() { h.SelectTag(a.Arg) }
		}
	case ActionCancel:
		fn = h.Cancel
	case ActionConfirm:
		fn = h.Confirm
	case ActionRefresh:
		fn = h.Refresh
	}
	if fn == nil {
		return false
	}
	fn()
	return true
}
