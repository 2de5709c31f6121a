package fakeapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/freelancehub/internal/models"
	"github.com/iudanet/freelancehub/pkg/api"
)

func TestLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"))

	// другие клиенты не затронуты
	assert.True(t, l.allow("10.0.0.2"))

	now = now.Add(time.Minute)
	assert.True(t, l.allow("10.0.0.1"), "new window")

	now = now.Add(5 * time.Minute)
	assert.True(t, l.allow("10.0.0.3"))
	assert.NotContains(t, l.windows, "10.0.0.2", "stale windows are pruned")
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "127.0.0.1:5000", "203.0.113.5"},
		{"real ip", map[string]string{"X-Real-IP": "203.0.113.9"}, "127.0.0.1:5000", "203.0.113.9"},
		{"remote addr", nil, "192.0.2.7:41234", "192.0.2.7"},
		{"remote without port", nil, "192.0.2.7", "192.0.2.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/login", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(r))
		})
	}
}

func TestLoginLimit(t *testing.T) {
	s, ts := newTestServer(t, WithLoginLimit(2, time.Minute))
	s.AddUser("u@x.io", "password1", models.RoleClient)

	wrong := api.LoginRequest{Email: "u@x.io", Password: "nope"}
	for i := 0; i < 2; i++ {
		resp, _ := doJSON(t, ts, http.MethodPost, "/login", "", wrong)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	resp, data := doJSON(t, ts, http.MethodPost, "/login", "", api.LoginRequest{Email: "u@x.io", Password: "password1"})
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))
	e := decodeError(t, data)
	assert.Equal(t, api.KindRateLimited, e.Kind)

	// остальные маршруты не ограничены
	resp, _ = doJSON(t, ts, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
