package fakeapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/iudanet/freelancehub/internal/models"
	"github.com/iudanet/freelancehub/pkg/api"
)

type contextKey string

const userIDKey contextKey = "user_id"

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

// WriteHeader captures the status code
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Write captures the number of bytes written
func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// logging логирует метод, шаблон маршрута, статус и длительность.
// Токены и тела запросов не логируются.
func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		logLevel := slog.LevelInfo
		if wrapped.statusCode >= 500 {
			logLevel = slog.LevelError
		} else if wrapped.statusCode >= 400 {
			logLevel = slog.LevelWarn
		}

		s.logger.Log(r.Context(), logLevel, "HTTP request",
			"method", r.Method,
			"route", routeTemplate(r),
			"request_id", r.Header.Get("X-Request-ID"),
			"status", wrapped.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes_written", wrapped.written,
		)
	})
}

// recovery перехватывает panic и возвращает 500 с JSON телом
func (s *Server) recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("Panic recovered",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				s.writeJSON(w, http.StatusInternalServerError, api.ErrorResponse{Error: "Internal Server Error"})
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// counting считает обращения к маршрутам, см. Hits
func (s *Server) counting(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + routeTemplate(r)
		s.mu.Lock()
		s.hits[key]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

// requireUser проверяет Bearer access token и бан пользователя
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			s.writeError(w, http.StatusUnauthorized, api.KindUnauthenticated, "Missing access token")
			return
		}

		c, err := s.tokens.parse(token)
		if err != nil {
			if !errors.Is(err, errTokenExpired) {
				s.logger.Debug("access token rejected", "error", err)
			}
			s.writeError(w, http.StatusUnauthorized, api.KindTokenExpired, "Invalid access token")
			return
		}

		s.mu.Lock()
		acc, found := s.users[c.ID]
		banned := found && acc.user.Banned
		s.mu.Unlock()

		if !found {
			s.writeError(w, http.StatusUnauthorized, api.KindUnauthenticated, "User not found")
			return
		}
		if banned {
			s.writeError(w, http.StatusForbidden, api.KindBanned, "User is banned")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, c.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin пропускает только администраторов; роль берется из хранилища,
// а не из токена
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return s.requireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		acc := s.users[userID(r)]
		isAdmin := acc != nil && acc.user.Role == models.RoleAdmin
		s.mu.Unlock()

		if !isAdmin {
			s.writeError(w, http.StatusForbidden, api.KindForbidden, "Access denied: Admins only")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func userID(r *http.Request) int {
	id, _ := r.Context().Value(userIDKey).(int)
	return id
}
