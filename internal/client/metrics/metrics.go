// Package metrics instruments the session client with Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "freelancehub_client"

// Recorder receives session client events.
type Recorder interface {
	// ObserveRequest records one HTTP round trip; status 0 means transport error
	ObserveRequest(method, route string, status int, elapsed time.Duration)
	// ObserveRefresh records one refresh attempt: "success" | "failure" | "no_token"
	ObserveRefresh(result string)
	// ObserveInterception records which interception rule handled a failure
	ObserveInterception(rule string)
}

// Nop discards everything.
type Nop struct{}

func (Nop) ObserveRequest(string, string, int, time.Duration) {}
func (Nop) ObserveRefresh(string)                             {}
func (Nop) ObserveInterception(string)                        {}

// Prometheus - реализация Recorder на prometheus коллекторах
type Prometheus struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	refreshes     *prometheus.CounterVec
	interceptions *prometheus.CounterVec
}

// NewPrometheus создает коллекторы и регистрирует их в reg
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "HTTP requests sent to the marketplace API.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Latency of HTTP requests sent to the marketplace API.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_refresh_total",
			Help:      "Token refresh attempts by result.",
		}, []string{"result"}),
		interceptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interceptions_total",
			Help:      "Failed responses handled by the session client, by rule.",
		}, []string{"rule"}),
	}

	for _, c := range []prometheus.Collector{p.requests, p.duration, p.refreshes, p.interceptions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	p.requests.WithLabelValues(method, route, code).Inc()
	p.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (p *Prometheus) ObserveRefresh(result string) {
	p.refreshes.WithLabelValues(result).Inc()
}

func (p *Prometheus) ObserveInterception(rule string) {
	p.interceptions.WithLabelValues(rule).Inc()
}
