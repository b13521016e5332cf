// Package state holds the picker's single application state object.
package state

import (
	"errors"
	"sync"

	"github.com/Its-donkey/admin-picker/internal/ui/model"
)

// Tab identifies one of the two directory views.
type Tab string

const (
	TabAvailable   Tab = "available"
	TabUnavailable Tab = "unavailable"
)

// Tabs lists the view identifiers in display order.
var Tabs = []Tab{TabAvailable, TabUnavailable}

// ErrUnknownTab is returned when switching to a tab that does not exist.
var ErrUnknownTab = errors.New("unknown tab")

// ParseTab validates a tab identifier coming from a surface.
func ParseTab(value string) (Tab, error) {
	for _, tab := range Tabs {
		if string(tab) == value {
			return tab, nil
		}
	}
	return "", ErrUnknownTab
}

// Phase is the selection flow's position.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSelecting
	PhaseSubmitting
)

func (p Phase) String() string {
	switch p {
	case PhaseSelecting:
		return "selecting"
	case PhaseSubmitting:
		return "submitting"
	default:
		return "idle"
	}
}

// Snapshot is an immutable copy of the state handed to renderers.
type Snapshot struct {
	Admins     []model.Admin
	Loaded     bool
	Loading    bool
	LoadError  string
	CurrentTab Tab
	Selected   *model.Admin
	Phase      Phase
	Notice     *model.Notice
}

// App is the process-wide application state. Every component receives the same *App.
// Fetch results are applied in the order they resolve; the last one wins.
type App struct {
	mu         sync.RWMutex
	admins     []model.Admin
	loaded     bool
	loading    bool
	loadErr    string
	currentTab Tab
	selected   *model.Admin
	phase      Phase
	notice     *model.Notice
}

// New returns a state showing the available tab with an empty directory.
func New() *App {
	return &App{currentTab: TabAvailable}
}

// Snapshot returns a copy of the current state.
//
// Callers can safely modify the returned slices without affecting the state.
func (a *App) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	snap := Snapshot{
		Admins:     append([]model.Admin(nil), a.admins...),
		Loaded:     a.loaded,
		Loading:    a.loading,
		LoadError:  a.loadErr,
		CurrentTab: a.currentTab,
		Phase:      a.phase,
	}
	if a.selected != nil {
		selected := *a.selected
		snap.Selected = &selected
	}
	if a.notice != nil {
		notice := *a.notice
		snap.Notice = &notice
	}
	return snap
}

// Admins returns a copy of the directory.
func (a *App) Admins() []model.Admin {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]model.Admin(nil), a.admins...)
}

// Len reports how many admins are held.
func (a *App) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.admins)
}

// Find returns the admin with the given tag.
func (a *App) Find(tag string) (model.Admin, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, admin := range a.admins {
		if admin.Tag == tag {
			return admin, true
		}
	}
	return model.Admin{}, false
}

// BeginLoad marks a fetch cycle as in flight.
func (a *App) BeginLoad() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loading = true
}

// ReplaceAdmins swaps in a freshly fetched directory and clears any load error.
func (a *App) ReplaceAdmins(admins []model.Admin) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.admins = append([]model.Admin(nil), admins...)
	a.loaded = true
	a.loading = false
	a.loadErr = ""
}

// FailLoad empties the directory and records the user-visible failure message.
func (a *App) FailLoad(message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.admins = nil
	a.loaded = true
	a.loading = false
	a.loadErr = message
}

// CurrentTab returns the active view.
func (a *App) CurrentTab() Tab {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.currentTab
}

// SwitchTab activates tab. It reports false when tab was already active.
func (a *App) SwitchTab(tab Tab) (bool, error) {
	if _, err := ParseTab(string(tab)); err != nil {
		return false, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.currentTab == tab {
		return false, nil
	}
	a.currentTab = tab
	return true, nil
}

// Phase returns the selection phase.
func (a *App) Phase() Phase {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.phase
}

// Selected returns the chosen admin, if any.
func (a *App) Selected() (model.Admin, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.selected == nil {
		return model.Admin{}, false
	}
	return *a.selected, true
}

// OpenSelection records admin as chosen and opens the dialog.
// It refuses while a submission is in flight.
func (a *App) OpenSelection(admin model.Admin) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.phase == PhaseSubmitting {
		return false
	}
	a.selected = &admin
	a.phase = PhaseSelecting
	return true
}

// BeginSubmit moves from selecting to submitting and returns the admin being submitted.
func (a *App) BeginSubmit() (model.Admin, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.phase != PhaseSelecting || a.selected == nil {
		return model.Admin{}, false
	}
	a.phase = PhaseSubmitting
	return *a.selected, true
}

// CloseSelection clears the selection and returns to idle. It reports whether anything changed.
func (a *App) CloseSelection() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	changed := a.phase != PhaseIdle || a.selected != nil
	a.selected = nil
	a.phase = PhaseIdle
	return changed
}

// SetNotice stores a transient alert for the next render.
func (a *App) SetNotice(n model.Notice) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.notice = &n
}

// TakeNotice returns and clears the pending alert.
func (a *App) TakeNotice() (model.Notice, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.notice == nil {
		return model.Notice{}, false
	}
	n := *a.notice
	a.notice = nil
	return n, true
}
