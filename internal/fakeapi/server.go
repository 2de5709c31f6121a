// Package fakeapi is an in-memory implementation of the marketplace backend
// used for local development and client tests.
package fakeapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/iudanet/freelancehub/internal/models"
	"github.com/iudanet/freelancehub/pkg/api"
)

// ErrorStyle selects the error body format.
type ErrorStyle int

const (
	// StyleStructured sends {"error", "kind"}
	StyleStructured ErrorStyle = iota
	// StyleLegacy sends only {"error"}, like older backends
	StyleLegacy
)

// DefaultAccessTTL - время жизни access token по умолчанию
const DefaultAccessTTL = 15 * time.Minute

type account struct {
	password string
	user     models.User
}

type attachment struct {
	fileName      string
	data          []byte
	applicationID int
}

// Server хранит пользователей, вакансии и отклики в памяти
type Server struct {
	router        *mux.Router
	logger        *slog.Logger
	tokens        *tokenIssuer
	limiter       *limiter
	users         map[int]*account
	byEmail       map[string]int
	refresh       map[string]int
	skills        map[int]*models.Skill
	jobs          map[int]*models.Job
	applications  map[int]*models.Application
	attachments   map[int]*attachment
	hits          map[string]int
	secret        string
	accessTTL     time.Duration
	nextID        int
	loginRate     int
	loginPeriod   time.Duration
	style         ErrorStyle
	mu            sync.Mutex
	rotateRefresh bool
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

func WithAccessTTL(ttl time.Duration) Option {
	return func(s *Server) { s.accessTTL = ttl }
}

func WithSecret(secret string) Option {
	return func(s *Server) { s.secret = secret }
}

func WithErrorStyle(style ErrorStyle) Option {
	return func(s *Server) { s.style = style }
}

// WithRotateRefresh controls whether /refresh issues a new refresh token.
// When disabled only access_token is returned.
func WithRotateRefresh(rotate bool) Option {
	return func(s *Server) { s.rotateRefresh = rotate }
}

// WithLoginLimit allows at most rate /login and /register attempts per client
// IP within period. Zero rate disables the limit.
func WithLoginLimit(rate int, period time.Duration) Option {
	return func(s *Server) {
		s.loginRate = rate
		s.loginPeriod = period
	}
}

// New создает сервер с пустым состоянием
func New(opts ...Option) *Server {
	s := &Server{
		logger:        slog.Default(),
		users:         make(map[int]*account),
		byEmail:       make(map[string]int),
		refresh:       make(map[string]int),
		skills:        make(map[int]*models.Skill),
		jobs:          make(map[int]*models.Job),
		applications:  make(map[int]*models.Application),
		attachments:   make(map[int]*attachment),
		hits:          make(map[string]int),
		secret:        "fakeapi-secret",
		accessTTL:     DefaultAccessTTL,
		rotateRefresh: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tokens = newTokenIssuer(s.secret, s.accessTTL)
	if s.loginRate > 0 {
		s.limiter = newLimiter(s.loginRate, s.loginPeriod)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.recovery, s.logging, s.counting)

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.Handle("/register", s.limited(http.HandlerFunc(s.register))).Methods(http.MethodPost)
	r.Handle("/login", s.limited(http.HandlerFunc(s.login))).Methods(http.MethodPost)
	r.HandleFunc("/refresh", s.refreshTokens).Methods(http.MethodPost)

	user := func(path string, h http.HandlerFunc, method string) {
		r.Handle(path, s.requireUser(h)).Methods(method)
	}
	admin := func(path string, h http.HandlerFunc, method string) {
		r.Handle(path, s.requireAdmin(h)).Methods(method)
	}

	user("/jobs", s.listJobs, http.MethodGet)
	user("/jobs/{id:[0-9]+}", s.getJob, http.MethodGet)
	user("/freelancers", s.listProfiles(models.RoleFreelancer), http.MethodGet)
	user("/freelancers/{id:[0-9]+}", s.getProfile(models.RoleFreelancer), http.MethodGet)
	user("/clients", s.listProfiles(models.RoleClient), http.MethodGet)
	user("/clients/{id:[0-9]+}", s.getProfile(models.RoleClient), http.MethodGet)
	user("/skills", s.listSkills, http.MethodGet)

	user("/user", s.getUser, http.MethodGet)
	user("/user", s.updateUser, http.MethodPut)
	user("/user", s.deleteUser, http.MethodDelete)
	user("/user/auth", s.authCheck, http.MethodGet)
	user("/user/logout", s.logout, http.MethodPost)
	user("/user/client", s.updateClientData, http.MethodPut)
	user("/user/freelancer", s.updateFreelancerData, http.MethodPut)
	user("/user/freelancer/skills", s.addFreelancerSkill, http.MethodPost)
	user("/user/freelancer/skills", s.removeFreelancerSkill, http.MethodDelete)

	user("/user/client/jobs", s.listClientJobs, http.MethodGet)
	user("/user/client/jobs", s.createJob, http.MethodPost)
	user("/user/client/jobs/{id:[0-9]+}", s.getClientJob, http.MethodGet)
	user("/user/client/jobs/{id:[0-9]+}", s.updateJob, http.MethodPut)
	user("/user/client/jobs/{id:[0-9]+}", s.deleteJob, http.MethodDelete)
	user("/user/client/jobs/{id:[0-9]+}/complete", s.completeJob, http.MethodPut)
	user("/user/client/jobs/applications/{id:[0-9]+}", s.reviewApplication, http.MethodPut)

	user("/user/freelancer/applications", s.listApplications, http.MethodGet)
	user("/user/freelancer/applications", s.apply, http.MethodPost)
	user("/user/freelancer/applications/{id:[0-9]+}", s.getApplication, http.MethodGet)
	user("/user/freelancer/applications/{id:[0-9]+}", s.updateApplication, http.MethodPut)
	user("/user/freelancer/applications/{id:[0-9]+}", s.deleteApplication, http.MethodDelete)
	user("/user/attachments/{id:[0-9]+}", s.downloadAttachment, http.MethodGet)

	admin("/admin/users", s.adminListUsers, http.MethodGet)
	admin("/admin/users/{id:[0-9]+}", s.adminUpdateUser, http.MethodPut)
	admin("/admin/users/{id:[0-9]+}", s.adminDeleteUser, http.MethodDelete)
	admin("/admin/skills", s.adminCreateSkill, http.MethodPost)
	admin("/admin/skills/{id:[0-9]+}", s.adminUpdateSkill, http.MethodPut)
	admin("/admin/skills/{id:[0-9]+}", s.adminDeleteSkill, http.MethodDelete)
	admin("/admin/jobs/{id:[0-9]+}", s.adminDeleteJob, http.MethodDelete)

	return r
}

// AddUser заводит пользователя и возвращает его id. Пустые имя и фамилия
// допустимы. Администраторов можно создать только так.
func (s *Server) AddUser(email, password string, role models.Role) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(email, password, role, "", "")
}

func (s *Server) addUserLocked(email, password string, role models.Role, name, surname string) int {
	s.nextID++
	u := models.User{
		ID:      s.nextID,
		Email:   email,
		Role:    role,
		Name:    name,
		Surname: surname,
	}
	switch role {
	case models.RoleClient:
		u.ClientData = &models.ClientData{}
	case models.RoleFreelancer:
		u.FreelancerData = &models.FreelancerData{}
	}
	s.users[u.ID] = &account{user: u, password: password}
	s.byEmail[email] = u.ID
	return u.ID
}

// AddSkill добавляет навык в справочник
func (s *Server) AddSkill(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.skills[s.nextID] = &models.Skill{ID: s.nextID, Name: name}
	return s.nextID
}

// AddJob публикует вакансию от имени клиента
func (s *Server) AddJob(clientID int, req api.JobRequest) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	job := s.newJobLocked(clientID, req)
	return job.ID
}

// AddApplication создает отклик фрилансера, опционально с вложением
func (s *Server) AddApplication(freelancerID, jobID int, description, fileName string, data []byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	app := s.newApplicationLocked(freelancerID, jobID, description)
	if fileName != "" {
		s.attachLocked(app, fileName, data)
	}
	return app.ID
}

// SetBanned блокирует или разблокирует пользователя
func (s *Server) SetBanned(id int, banned bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.users[id]; ok {
		acc.user.Banned = banned
	}
}

// ExpireTokens делает все уже выданные access token недействительными.
// Refresh token продолжают работать.
func (s *Server) ExpireTokens() {
	s.tokens.expireAll()
}

// RevokeRefreshTokens отзывает все refresh token
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = make(map[string]int)
}

// Hits returns how many requests matched route, keyed as "METHOD /template",
// e.g. "GET /jobs/{id:[0-9]+}".
func (s *Server) Hits(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[key]
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, kind api.ErrorKind, message string) {
	s.writeErrorFields(w, status, kind, message, nil)
}

func (s *Server) writeErrorFields(w http.ResponseWriter, status int, kind api.ErrorKind, message string, missing []string) {
	resp := api.ErrorResponse{Error: message, MissingFields: missing}
	if s.style == StyleStructured {
		resp.Kind = kind
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) writeMessage(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.MessageResponse{Message: message})
}

func sortedByID[T any](m map[int]T, keep func(T) bool) []T {
	ids := make([]int, 0, len(m))
	for id, v := range m {
		if keep == nil || keep(v) {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}
