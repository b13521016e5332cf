// Package selection drives the pick-and-confirm dialog: idle, selecting, submitting, idle.
package selection

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/text/language"

	"github.com/Its-donkey/admin-picker/internal/ui/bridge"
	"github.com/Its-donkey/admin-picker/internal/ui/directory"
	"github.com/Its-donkey/admin-picker/internal/ui/i18n"
	"github.com/Its-donkey/admin-picker/internal/ui/model"
	"github.com/Its-donkey/admin-picker/internal/ui/state"
	"github.com/Its-donkey/admin-picker/logging"
)

const defaultCloseDelay = time.Second

var (
	// ErrNotSelectable is returned when selecting an admin that is not available.
	ErrNotSelectable = errors.New("admin is not available")
	// ErrSubmitting is returned when selecting while a submission is in flight.
	ErrSubmitting = errors.New("submission in progress")
)

// Submitter relays a selection over HTTP. *directory.Client satisfies it.
type Submitter interface {
	SelectAdmin(ctx context.Context, req model.SelectRequest) (model.SelectResponse, error)
}

// Notifier surfaces a transient alert.
type Notifier interface {
	Notify(model.Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(model.Notice)

func (f NotifierFunc) Notify(n model.Notice) { f(n) }

// Options configures a Flow.
type Options struct {
	State     *state.App
	Bridge    bridge.Bridge
	Submitter Submitter
	Notifier  Notifier
	Logger    *logging.Logger
	// Language is used for notices when the context carries none.
	Language language.Tag
	// CloseDelay separates a bridge send from the request to close the host view.
	CloseDelay time.Duration
	// AfterFunc schedules the close; defaults to time.AfterFunc.
	AfterFunc func(time.Duration, func())
	Now       func() time.Time
}

// Flow owns the selection state machine.
type Flow struct {
	state      *state.App
	bridge     bridge.Bridge
	submitter  Submitter
	notifier   Notifier
	logger     *logging.Logger
	lang       language.Tag
	closeDelay time.Duration
	afterFunc  func(time.Duration, func())
	now        func() time.Time
}

// New builds a Flow. A nil bridge is treated as unavailable.
func New(opts Options) *Flow {
	f := &Flow{
		state:      opts.State,
		bridge:     bridge.Resolve(opts.Bridge),
		submitter:  opts.Submitter,
		notifier:   opts.Notifier,
		logger:     opts.Logger,
		lang:       opts.Language,
		closeDelay: opts.CloseDelay,
		afterFunc:  opts.AfterFunc,
		now:        opts.Now,
	}
	if f.state == nil {
		f.state = state.New()
	}
	if f.notifier == nil {
		f.notifier = NotifierFunc(func(model.Notice) {})
	}
	if f.lang == language.Und {
		f.lang = language.Russian
	}
	if f.closeDelay <= 0 {
		f.closeDelay = defaultCloseDelay
	}
	if f.afterFunc == nil {
		f.afterFunc = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	if f.now == nil {
		f.now = time.Now
	}
	return f
}

// Select opens the dialog for admin.
func (f *Flow) Select(admin model.Admin) error {
	if !admin.Available() {
		return ErrNotSelectable
	}
	if !f.state.OpenSelection(admin) {
		return ErrSubmitting
	}
	f.logger.Debug("selection", "admin selected", map[string]any{"admin_tag": admin.Tag})
	return nil
}

// Cancel dismisses the dialog. It does nothing while idle or submitting.
func (f *Flow) Cancel() bool {
	if f.state.Phase() != state.PhaseSelecting {
		return false
	}
	return f.state.CloseSelection()
}

// Confirm submits the selected admin and reports whether a submission ran.
// With nothing selected, or a submission already running, it does nothing.
func (f *Flow) Confirm(ctx context.Context) bool {
	admin, ok := f.state.BeginSubmit()
	if !ok {
		return false
	}
	defer f.state.CloseSelection()

	lang := f.lang
	if tag, ok := i18n.FromContext(ctx); ok {
		lang = tag
	}
	p := i18n.Printer(lang)

	if f.bridge.Available() {
		if err := f.sendViaBridge(admin); err != nil {
			f.logger.Error("selection", "bridge send failed", err, map[string]any{"admin_tag": admin.Tag})
			f.notifier.Notify(model.Notice{Kind: model.NoticeError, Text: p.Sprintf(i18n.KeySelectTransportFailed)})
		}
		return true
	}

	if f.submitter == nil {
		f.logger.Warn("selection", "no submitter configured", map[string]any{"admin_tag": admin.Tag})
		f.notifier.Notify(model.Notice{Kind: model.NoticeError, Text: p.Sprintf(i18n.KeySelectTransportFailed)})
		return true
	}

	user, ok := f.bridge.User()
	if !ok {
		user = model.UserData{
			ID:        f.now().UnixMilli(),
			FirstName: p.Sprintf(i18n.KeyPlaceholderUser),
		}
	}

	resp, err := f.submitter.SelectAdmin(ctx, model.SelectRequest{AdminTag: admin.Tag, UserData: user})
	var appErr *directory.ApplicationError
	switch {
	case err == nil:
		f.logger.Info("selection", "admin notified", map[string]any{"admin_tag": admin.Tag, "user_id": user.ID})
		f.notifier.Notify(model.Notice{Kind: model.NoticeSuccess, Text: p.Sprintf(i18n.KeySelectSuccess, resp.Message)})
	case errors.As(err, &appErr):
		f.logger.Warn("selection", "selection rejected", map[string]any{"admin_tag": admin.Tag, "error": appErr.Message})
		f.notifier.Notify(model.Notice{Kind: model.NoticeError, Text: p.Sprintf(i18n.KeySelectFailed, appErr.Message)})
	default:
		f.logger.Error("selection", "selection request failed", err, map[string]any{"admin_tag": admin.Tag})
		f.notifier.Notify(model.Notice{Kind: model.NoticeError, Text: p.Sprintf(i18n.KeySelectTransportFailed)})
	}
	return true
}

func (f *Flow) sendViaBridge(admin model.Admin) error {
	payload, err := json.Marshal(model.BridgeMessage{Action: model.BridgeActionSelectAdmin, AdminTag: admin.Tag})
	if err != nil {
		return err
	}
	if err := f.bridge.Send(payload); err != nil {
		return err
	}
	f.logger.Info("selection", "selection sent to host", map[string]any{"admin_tag": admin.Tag})
	f.afterFunc(f.closeDelay, func() {
		if err := f.bridge.Close(); err != nil {
			f.logger.Warn("bridge", "close failed", map[string]any{"error": err.Error()})
		}
	})
	return nil
}
