// Package bridge abstracts the host messaging shell the picker may be embedded in.
package bridge

import (
	"sync"

	"github.com/Its-donkey/admin-picker/internal/ui/model"
)

// Bridge is the host capability set. Implementations must be safe to call
// when the host lacks a feature; they report that through Available.
type Bridge interface {
	// Available reports whether Send reaches a host.
	Available() bool
	// Init applies the theme and signals readiness to the host.
	Init(theme model.Theme) error
	// Send relays payload to the host. Delivery is not acknowledged.
	Send(payload []byte) error
	// Close asks the host to dismiss the embedded view.
	Close() error
	// User returns the identity the host exposes, if any.
	User() (model.UserData, bool)
}

// Unavailable is the bridge used when no host is present. Every call is a no-op.
type Unavailable struct{}

func (Unavailable) Available() bool              { return false }
func (Unavailable) Init(model.Theme) error       { return nil }
func (Unavailable) Send([]byte) error            { return nil }
func (Unavailable) Close() error                 { return nil }
func (Unavailable) User() (model.UserData, bool) { return model.UserData{}, false }

// Resolve returns b, or Unavailable when b is nil.
func Resolve(b Bridge) Bridge {
	if b == nil {
		return Unavailable{}
	}
	return b
}

// Recorder is an in-memory Bridge used to observe host traffic.
type Recorder struct {
	Present  bool
	Identity *model.UserData
	InitErr  error
	SendErr  error

	mu     sync.Mutex
	theme  model.Theme
	sent   [][]byte
	closed int
	inited int
}

func (r *Recorder) Available() bool { return r.Present }

func (r *Recorder) Init(theme model.Theme) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inited++
	r.theme = theme
	return r.InitErr
}

func (r *Recorder) Send(payload []byte) error {
	if r.SendErr != nil {
		return r.SendErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, append([]byte(nil), payload...))
	return nil
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed++
	return nil
}

func (r *Recorder) User() (model.UserData, bool) {
	if r.Identity == nil {
		return model.UserData{}, false
	}
	return *r.Identity, true
}

// Sent returns the payloads passed to Send.
func (r *Recorder) Sent() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]byte(nil), r.sent...)
}

// Closes reports how many times Close was called.
func (r *Recorder) Closes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Inits reports how many times Init was called and the last theme applied.
func (r *Recorder) Inits() (int, model.Theme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inited, r.theme
}
