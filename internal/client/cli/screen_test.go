package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iudanet/freelancehub/internal/client/guard"
	"github.com/iudanet/freelancehub/internal/client/navigate"
)

func TestScreen(t *testing.T) {
	term := newTerminal()
	status := &bytes.Buffer{}
	s := NewScreen(term.mock, status)

	assert.Equal(t, navigate.Root, s.Current())

	s.Navigate(navigate.Login)
	assert.Equal(t, navigate.Login, s.Current())

	s.Navigate(navigate.None)
	assert.Equal(t, navigate.None, s.Current())

	s.Notify("You are banned!")
	s.Loading(guard.RequireAdmin)

	assert.Equal(t, "→ Please log in: run 'freelancehub login'\n⚠️  You are banned!\n", term.String())
	assert.Equal(t, "Checking session...\n", status.String())
}

func TestScreen_NilStatus(t *testing.T) {
	term := newTerminal()
	s := NewScreen(term.mock, nil)

	assert.NotPanics(t, func() { s.Loading(guard.RequireAuthenticated) })
	assert.Empty(t, term.String())
}
