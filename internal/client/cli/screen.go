package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/iudanet/freelancehub/internal/client/guard"
	"github.com/iudanet/freelancehub/internal/client/iocli"
	"github.com/iudanet/freelancehub/internal/client/navigate"
)

// Screen is the terminal Navigator and Notifier. Navigation prints where the
// user has been sent; the loading indicator goes to a separate status writer.
type Screen struct {
	io      iocli.IO
	status  io.Writer
	current navigate.Target
	mu      sync.Mutex
}

var (
	_ navigate.Navigator = (*Screen)(nil)
	_ navigate.Notifier  = (*Screen)(nil)
)

// NewScreen создает Screen. status может быть nil.
func NewScreen(out iocli.IO, status io.Writer) *Screen {
	if status == nil {
		status = io.Discard
	}
	return &Screen{io: out, status: status, current: navigate.Root}
}

// Navigate показывает, куда перенаправлен пользователь
func (s *Screen) Navigate(target navigate.Target) {
	s.mu.Lock()
	s.current = target
	s.mu.Unlock()

	switch target {
	case navigate.Login:
		s.io.Println("→ Please log in: run 'freelancehub login'")
	case navigate.Root:
		s.io.Println("→ Back to the start page")
	case navigate.None:
	default:
		s.io.Printf("→ %s\n", target)
	}
}

// Notify показывает уведомление
func (s *Screen) Notify(message string) {
	s.io.Printf("⚠️  %s\n", message)
}

// Loading is the neutral indicator shown while a guard check is pending.
func (s *Screen) Loading(req guard.Requirement) {
	_, _ = fmt.Fprintln(s.status, "Checking session...")
}

// Current returns the last navigation target.
func (s *Screen) Current() navigate.Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
