// Package navigate defines the user-facing effects the session client may
// trigger: moving the user to another view and showing a notice.
package navigate

import (
	"fmt"
	"sync"
)

// Target is a view the client can send the user to.
type Target string

const (
	// None means no navigation.
	None Target = ""
	// Login is the login entry point.
	Login Target = "/login"
	// Root is the application root.
	Root Target = "/"
)

// Navigator переключает текущий view
type Navigator interface {
	Navigate(target Target)
}

// Notifier показывает пользователю уведомление
type Notifier interface {
	Notify(message string)
}

// Redirect is returned by operations that already navigated the user away.
// Callers must not navigate again; the cause is available through Unwrap.
type Redirect struct {
	Cause  error
	Target Target
}

func (r *Redirect) Error() string {
	return fmt.Sprintf("redirected to %s: %v", r.Target, r.Cause)
}

func (r *Redirect) Unwrap() error {
	return r.Cause
}

// Recorder implements Navigator and Notifier by remembering every call.
// It is safe for concurrent use.
type Recorder struct {
	targets []Target
	notices []string
	mu      sync.Mutex
}

// Navigate records target.
func (r *Recorder) Navigate(target Target) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets = append(r.targets, target)
}

// Notify records message.
func (r *Recorder) Notify(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, message)
}

// Targets returns a copy of recorded navigations in order.
func (r *Recorder) Targets() []Target {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Target(nil), r.targets...)
}

// Notices returns a copy of recorded notices in order.
func (r *Recorder) Notices() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.notices...)
}

// Last returns the most recent navigation target or None.
func (r *Recorder) Last() Target {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.targets) == 0 {
		return None
	}
	return r.targets[len(r.targets)-1]
}

// Discard ignores every navigation and notice.
type Discard struct{}

func (Discard) Navigate(Target) {}
func (Discard) Notify(string)   {}
