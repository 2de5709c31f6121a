package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheus_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := NewPrometheus(reg)
	require.NoError(t, err)

	p.ObserveRequest("GET", "/user/auth", 200, 10*time.Millisecond)
	p.ObserveRequest("GET", "/user/auth", 401, 5*time.Millisecond)
	p.ObserveRequest("GET", "/user/auth", 0, time.Millisecond)
	p.ObserveRefresh("success")
	p.ObserveRefresh("success")
	p.ObserveInterception("token_expired")

	assert.Equal(t, 1.0, testutil.ToFloat64(p.requests.WithLabelValues("GET", "/user/auth", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.requests.WithLabelValues("GET", "/user/auth", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.refreshes.WithLabelValues("success")))
	assert.Equal(t, 1, testutil.CollectAndCount(p.interceptions))

	expected := `
# HELP freelancehub_client_interceptions_total Failed responses handled by the session client, by rule.
# TYPE freelancehub_client_interceptions_total counter
freelancehub_client_interceptions_total{rule="token_expired"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(p.interceptions, strings.NewReader(expected)))
}

func TestNewPrometheus_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheus(reg)
	require.NoError(t, err)

	_, err = NewPrometheus(reg)
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	r.ObserveRequest("GET", "/", 200, time.Second)
	r.ObserveRefresh("failure")
	r.ObserveInterception("banned")
}
