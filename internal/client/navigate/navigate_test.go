package navigate

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	assert.Equal(t, None, r.Last())

	r.Navigate(Login)
	r.Navigate(Root)
	r.Notify("You are banned!")

	assert.Equal(t, []Target{Login, Root}, r.Targets())
	assert.Equal(t, Root, r.Last())
	assert.Equal(t, []string{"You are banned!"}, r.Notices())
}

func TestRecorder_Concurrent(t *testing.T) {
	r := &Recorder{}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Navigate(Login)
			r.Notify("x")
		}()
	}
	wg.Wait()

	assert.Len(t, r.Targets(), 50)
	assert.Len(t, r.Notices(), 50)
}

func TestRedirect(t *testing.T) {
	cause := errors.New("boom")
	err := error(&Redirect{Target: Login, Cause: cause})

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "redirected to /login: boom", err.Error())

	var redirect *Redirect
	assert.True(t, errors.As(err, &redirect))
	assert.Equal(t, Login, redirect.Target)
}
