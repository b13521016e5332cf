// Package app wires the picker together and runs its lifecycle: start-up, fetch
// and render cycles, the one-shot safeguard re-fetch and user interactions.
package app

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/Its-donkey/admin-picker/internal/ui/bridge"
	"github.com/Its-donkey/admin-picker/internal/ui/directory"
	"github.com/Its-donkey/admin-picker/internal/ui/i18n"
	"github.com/Its-donkey/admin-picker/internal/ui/model"
	"github.com/Its-donkey/admin-picker/internal/ui/selection"
	"github.com/Its-donkey/admin-picker/internal/ui/state"
	"github.com/Its-donkey/admin-picker/internal/ui/view"
	"github.com/Its-donkey/admin-picker/logging"
)

const defaultSafeguardDelay = time.Second

// ErrUnknownAdmin is returned when a card click names a tag that is not in the directory.
var ErrUnknownAdmin = errors.New("unknown admin")

// Fetcher lists the directory. *directory.Client satisfies it.
type Fetcher interface {
	FetchAdmins(ctx context.Context) ([]model.Admin, error)
}

// Handlers are the interactions a surface forwards to the app.
type Handlers struct {
	SwitchTab func(tab string)
	SelectTag func(tag string)
	Cancel    func()
	Confirm   func()
	Refresh   func()
}

// Surface is a push-style display: it receives every page as state changes.
// Pull-style surfaces such as the HTTP server call Page instead.
type Surface interface {
	Bind(Handlers)
	Render(view.Page)
}

// Options configures an App.
type Options struct {
	Directory Fetcher
	// Submitter defaults to Directory when it implements selection.Submitter.
	Submitter selection.Submitter
	Bridge    bridge.Bridge
	Surface   Surface
	// Notifier defaults to the state's notice slot.
	Notifier selection.Notifier
	Logger   *logging.Logger
	Language language.Tag
	Theme    model.Theme

	SafeguardDelay time.Duration
	CloseDelay     time.Duration
	AfterFunc      func(time.Duration, func())
}

// App is the picker's composition root.
type App struct {
	state     *state.App
	flow      *selection.Flow
	directory Fetcher
	bridge    bridge.Bridge
	surface   Surface
	logger    *logging.Logger
	lang      language.Tag
	theme     model.Theme

	safeguardDelay time.Duration
	afterFunc      func(time.Duration, func())

	startOnce sync.Once
}

// New builds an App. The bridge is resolved here, once.
func New(opts Options) (*App, error) {
	if opts.Directory == nil {
		return nil, errors.New("app: directory is required")
	}
	a := &App{
		state:          state.New(),
		directory:      opts.Directory,
		bridge:         bridge.Resolve(opts.Bridge),
		surface:        opts.Surface,
		logger:         opts.Logger,
		lang:           opts.Language,
		theme:          opts.Theme,
		safeguardDelay: opts.SafeguardDelay,
		afterFunc:      opts.AfterFunc,
	}
	if a.lang == language.Und {
		a.lang = language.Russian
	}
	if a.safeguardDelay <= 0 {
		a.safeguardDelay = defaultSafeguardDelay
	}
	if a.afterFunc == nil {
		a.afterFunc = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}

	submitter := opts.Submitter
	if submitter == nil {
		if s, ok := opts.Directory.(selection.Submitter); ok {
			submitter = s
		}
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = selection.NotifierFunc(a.state.SetNotice)
	}
	a.flow = selection.New(selection.Options{
		State:      a.state,
		Bridge:     a.bridge,
		Submitter:  submitter,
		Notifier:   notifier,
		Logger:     a.logger,
		Language:   a.lang,
		CloseDelay: opts.CloseDelay,
		AfterFunc:  a.afterFunc,
	})
	return a, nil
}

// State exposes the shared application state.
func (a *App) State() *state.App { return a.state }

// Bridge returns the resolved host bridge.
func (a *App) Bridge() bridge.Bridge { return a.bridge }

// Language returns the default UI language.
func (a *App) Language() language.Tag { return a.lang }

// Start initialises the bridge, binds the surface, schedules the safeguard and
// runs the first fetch. Only the first call does anything.
func (a *App) Start(ctx context.Context) {
	a.startOnce.Do(func() {
		if err := a.bridge.Init(a.theme); err != nil {
			a.logger.Error("bridge", "host init failed", err, nil)
		}
		if a.surface != nil {
			a.surface.Bind(a.handlers(ctx))
		}

		// Armed before the first fetch so a slow initial load is re-checked.
		a.afterFunc(a.safeguardDelay, func() {
			if a.state.Len() > 0 {
				return
			}
			a.logger.Info("app", "directory still empty, re-fetching", nil)
			a.Go("safeguard", func() { _ = a.Load(ctx) })
		})

		_ = a.Load(ctx)
		a.logger.Info("app", "picker started", map[string]any{
			"admins":           a.state.Len(),
			"bridge_available": a.bridge.Available(),
			"language":         a.lang.String(),
		})
	})
}

// Load runs one fetch and render cycle. Failures clear the directory and are
// shown in place of both partitions; the error is also returned.
func (a *App) Load(ctx context.Context) error {
	a.state.BeginLoad()
	a.render()

	admins, err := a.directory.FetchAdmins(ctx)
	if err != nil {
		a.logger.Error("directory", "fetch admins failed", err, nil)
		a.state.FailLoad(directory.Message(err))
		a.render()
		return fmt.Errorf("load admins: %w", err)
	}
	a.state.ReplaceAdmins(admins)
	a.render()
	return nil
}

// ReplaceAdmins swaps the directory from outside a fetch cycle and re-renders.
func (a *App) ReplaceAdmins(admins []model.Admin) {
	a.state.ReplaceAdmins(admins)
	a.logger.Info("app", "admins replaced", map[string]any{"count": len(admins)})
	a.render()
}

// SwitchTab activates tab; it reports whether anything changed.
func (a *App) SwitchTab(tab string) (bool, error) {
	changed, err := a.state.SwitchTab(state.Tab(tab))
	if err != nil {
		return false, err
	}
	if changed {
		a.render()
	}
	return changed, nil
}

// SelectTag opens the dialog for the admin with tag.
func (a *App) SelectTag(tag string) error {
	admin, ok := a.state.Find(tag)
	if !ok {
		return ErrUnknownAdmin
	}
	if err := a.flow.Select(admin); err != nil {
		return err
	}
	a.render()
	return nil
}

// Cancel dismisses the dialog.
func (a *App) Cancel() bool {
	if !a.flow.Cancel() {
		return false
	}
	a.render()
	return true
}

// Confirm submits the current selection. It renders the busy dialog first.
func (a *App) Confirm(ctx context.Context) bool {
	if a.state.Phase() != state.PhaseSelecting {
		return false
	}
	defer a.render()
	if a.surface != nil {
		// Show the busy state before the network call blocks.
		snap := a.state.Snapshot()
		if snap.Selected != nil {
			snap.Phase = state.PhaseSubmitting
			snap.Notice = nil
			a.surface.Render(view.Build(snap, i18n.Printer(a.lang), a.lang.String()))
		}
	}
	return a.flow.Confirm(ctx)
}

// Page builds the page for lang and consumes the pending notice.
func (a *App) Page(lang language.Tag) view.Page {
	snap := a.state.Snapshot()
	snap.Notice = nil
	if n, ok := a.state.TakeNotice(); ok {
		snap.Notice = &n
	}
	return view.Build(snap, i18n.Printer(lang), lang.String())
}

// Go runs fn on its own goroutine. A panic is logged, never repaired.
func (a *App) Go(name string, fn func()) {
	go func() {
		defer a.Recover(name)
		fn()
	}()
}

// Recover logs a recovered panic. It must be deferred directly.
func (a *App) Recover(name string) {
	if rec := recover(); rec != nil {
		a.logger.Error("app", "unhandled panic", fmt.Errorf("%s: %v", name, rec), map[string]any{
			"stack": string(debug.Stack()),
		})
	}
}

func (a *App) handlers(ctx context.Context) Handlers {
	return Handlers{
		SwitchTab: func(tab string) {
			if _, err := a.SwitchTab(tab); err != nil {
				a.logger.Warn("app", "tab switch ignored", map[string]any{"tab": tab, "error": err.Error()})
			}
		},
		SelectTag: func(tag string) {
			if err := a.SelectTag(tag); err != nil {
				a.logger.Debug("app", "card click ignored", map[string]any{"admin_tag": tag, "error": err.Error()})
			}
		},
		Cancel: func() { a.Cancel() },
		Confirm: func() {
			a.Go("confirm", func() { a.Confirm(ctx) })
		},
		Refresh: func() {
			a.Go("refresh", func() { _ = a.Load(ctx) })
		},
	}
}

func (a *App) render() {
	if a.surface == nil {
		return
	}
	a.surface.Render(a.Page(a.lang))
}
