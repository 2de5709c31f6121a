package fakeapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/iudanet/freelancehub/internal/models"
	"github.com/iudanet/freelancehub/internal/validation"
	"github.com/iudanet/freelancehub/pkg/api"
)

// decode читает JSON тело; при ошибке отвечает 400
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.logger.WarnContext(r.Context(), "failed to decode request", slog.Any("error", err))
		s.writeError(w, http.StatusBadRequest, api.KindValidation, "Invalid request body")
		return false
	}
	return true
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// register обрабатывает POST /register
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if !s.decode(w, r, &req) {
		return
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"email", req.Email},
		{"password", req.Password},
		{"role", req.Role},
		{"name", req.Name},
		{"surname", req.Surname},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		s.writeErrorFields(w, http.StatusBadRequest, api.KindValidation, "Missing required fields", missing)
		return
	}
	if err := validation.ValidateRegistrationRole(req.Role); err != nil {
		s.writeError(w, http.StatusBadRequest, api.KindValidation, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[req.Email]; exists {
		s.writeError(w, http.StatusConflict, api.KindValidation, "Email already registered")
		return
	}
	id := s.addUserLocked(req.Email, req.Password, models.Role(req.Role), req.Name, req.Surname)

	s.logger.InfoContext(r.Context(), "user registered successfully", slog.Int("user_id", id))
	s.writeMessage(w, http.StatusCreated, "User registered successfully")
}

// login обрабатывает POST /login
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !s.decode(w, r, &req) {
		return
	}

	var missing []string
	if req.Email == "" {
		missing = append(missing, "email")
	}
	if req.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		s.writeErrorFields(w, http.StatusBadRequest, api.KindValidation, "Missing required fields", missing)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[req.Email]
	if !ok {
		s.writeError(w, http.StatusUnauthorized, api.KindUnauthenticated, "User not found")
		return
	}
	acc := s.users[id]
	if acc.password != req.Password {
		s.writeError(w, http.StatusUnauthorized, api.KindUnauthenticated, "Incorrect password")
		return
	}

	resp, err := s.issuePairLocked(&acc.user)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to issue tokens", slog.Any("error", err))
		s.writeError(w, http.StatusInternalServerError, "", "internal server error")
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// refreshTokens обрабатывает POST /refresh
func (s *Server) refreshTokens(w http.ResponseWriter, r *http.Request) {
	var req api.RefreshRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.refresh[req.RefreshToken]
	acc := s.users[id]
	if !ok || acc == nil {
		s.writeError(w, http.StatusUnauthorized, api.KindUnauthenticated, "Invalid refresh token")
		return
	}

	if !s.rotateRefresh {
		access, err := s.tokens.issueAccess(&acc.user)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, "", "internal server error")
			return
		}
		s.writeJSON(w, http.StatusOK, api.TokenResponse{AccessToken: access})
		return
	}

	delete(s.refresh, req.RefreshToken)
	resp, err := s.issuePairLocked(&acc.user)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to issue tokens", slog.Any("error", err))
		s.writeError(w, http.StatusInternalServerError, "", "internal server error")
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) issuePairLocked(user *models.User) (*api.TokenResponse, error) {
	access, err := s.tokens.issueAccess(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.issueRefresh()
	if err != nil {
		return nil, err
	}
	s.refresh[refresh] = user.ID
	return &api.TokenResponse{AccessToken: access, RefreshToken: refresh}, nil
}

// revokeLocked отзывает refresh token пользователя
func (s *Server) revokeLocked(id int) {
	for token, owner := range s.refresh {
		if owner == id {
			delete(s.refresh, token)
		}
	}
}

// authCheck обрабатывает GET /user/auth
func (s *Server) authCheck(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.currentLocked(w, r)
	if !ok {
		return
	}
	u := acc.user
	s.writeJSON(w, http.StatusOK, api.AuthResponse{Email: u.Email, Role: string(u.Role), ID: u.ID})
}

// logout обрабатывает POST /user/logout
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.revokeLocked(userID(r))
	s.mu.Unlock()

	s.writeMessage(w, http.StatusOK, "Logged out")
}

// currentLocked возвращает текущего пользователя; если он удален, отвечает 401
func (s *Server) currentLocked(w http.ResponseWriter, r *http.Request) (*account, bool) {
	acc, ok := s.users[userID(r)]
	if !ok {
		s.writeError(w, http.StatusUnauthorized, api.KindUnauthenticated, "User not found")
		return nil, false
	}
	return acc, true
}
