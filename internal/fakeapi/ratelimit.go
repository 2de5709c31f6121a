package fakeapi

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iudanet/freelancehub/pkg/api"
)

// limiter - фиксированное окно попыток на ключ (IP клиента)
type limiter struct {
	windows map[string]*window
	now     func() time.Time
	rate    int
	period  time.Duration
	mu      sync.Mutex
}

type window struct {
	start time.Time
	used  int
}

func newLimiter(rate int, period time.Duration) *limiter {
	return &limiter{
		windows: make(map[string]*window),
		now:     time.Now,
		rate:    rate,
		period:  period,
	}
}

// allow расходует попытку key; false, если окно исчерпано
func (l *limiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.period {
		l.pruneLocked(now)
		w = &window{start: now}
		l.windows[key] = w
	}
	if w.used >= l.rate {
		return false
	}
	w.used++
	return true
}

// pruneLocked удаляет окна, неактивные дольше двух периодов
func (l *limiter) pruneLocked(now time.Time) {
	for key, w := range l.windows {
		if now.Sub(w.start) > 2*l.period {
			delete(l.windows, key)
		}
	}
}

// limited отвечает 429, когда клиент исчерпал попытки
func (s *Server) limited(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)
		if !s.limiter.allow(key) {
			s.logger.Warn("rate limit exceeded",
				"ip", key,
				"route", routeTemplate(r),
			)
			w.Header().Set("Retry-After", strconv.Itoa(int(s.limiter.period.Seconds())))
			s.writeError(w, http.StatusTooManyRequests, api.KindRateLimited, "Too many attempts, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP: первый адрес X-Forwarded-For, затем X-Real-IP, затем RemoteAddr
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
