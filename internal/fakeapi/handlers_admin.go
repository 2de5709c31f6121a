package fakeapi

import (
	"net/http"
	"strings"

	"github.com/iudanet/freelancehub/internal/models"
	"github.com/iudanet/freelancehub/pkg/api"
)

func (s *Server) adminListUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	accounts := sortedByID(s.users, nil)
	users := make([]models.User, 0, len(accounts))
	for _, a := range accounts {
		users = append(users, a.user)
	}
	s.writeJSON(w, http.StatusOK, users)
}

// adminUpdateUser меняет email, роль или бан пользователя
func (s *Server) adminUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req api.AdminUpdateUserRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.users[pathID(r)]
	if !ok {
		s.writeError(w, http.StatusNotFound, "", "User not found")
		return
	}

	if req.Role != "" {
		role := models.Role(req.Role)
		if !role.Valid() {
			s.writeError(w, http.StatusBadRequest, api.KindValidation, "Invalid role")
			return
		}
		acc.user.Role = role
		if role == models.RoleClient && acc.user.ClientData == nil {
			acc.user.ClientData = &models.ClientData{}
		}
		if role == models.RoleFreelancer && acc.user.FreelancerData == nil {
			acc.user.FreelancerData = &models.FreelancerData{}
		}
	}
	if req.Email != "" && req.Email != acc.user.Email {
		if _, taken := s.byEmail[req.Email]; taken {
			s.writeError(w, http.StatusConflict, api.KindValidation, "Email already registered")
			return
		}
		delete(s.byEmail, acc.user.Email)
		acc.user.Email = req.Email
		s.byEmail[req.Email] = acc.user.ID
	}
	if req.Banned != nil {
		acc.user.Banned = *req.Banned
	}

	s.writeMessage(w, http.StatusOK, "User updated successfully")
}

func (s *Server) adminDeleteUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := pathID(r)
	if _, ok := s.users[id]; !ok {
		s.writeError(w, http.StatusNotFound, "", "User not found")
		return
	}
	s.deleteUserLocked(id)
	s.writeMessage(w, http.StatusOK, "User deleted successfully")
}

func (s *Server) adminCreateSkill(w http.ResponseWriter, r *http.Request) {
	var req api.SkillRequest
	if !s.decode(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.SkillName)
	if name == "" {
		s.writeErrorFields(w, http.StatusBadRequest, api.KindValidation, "Missing required fields", []string{"skill_name"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sk := range s.skills {
		if strings.EqualFold(sk.Name, name) {
			s.writeError(w, http.StatusConflict, api.KindValidation, "Skill already exists")
			return
		}
	}
	s.nextID++
	skill := &models.Skill{ID: s.nextID, Name: name}
	s.skills[skill.ID] = skill
	s.writeJSON(w, http.StatusCreated, *skill)
}

func (s *Server) adminUpdateSkill(w http.ResponseWriter, r *http.Request) {
	var req api.SkillRequest
	if !s.decode(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.SkillName)
	if name == "" {
		s.writeErrorFields(w, http.StatusBadRequest, api.KindValidation, "Missing required fields", []string{"skill_name"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	skill, ok := s.skills[pathID(r)]
	if !ok {
		s.writeError(w, http.StatusNotFound, "", "Skill not found")
		return
	}
	skill.Name = name
	s.writeMessage(w, http.StatusOK, "Skill updated successfully")
}

func (s *Server) adminDeleteSkill(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := pathID(r)
	if _, ok := s.skills[id]; !ok {
		s.writeError(w, http.StatusNotFound, "", "Skill not found")
		return
	}
	delete(s.skills, id)
	s.writeMessage(w, http.StatusOK, "Skill deleted successfully")
}

func (s *Server) adminDeleteJob(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := pathID(r)
	if _, ok := s.jobs[id]; !ok {
		s.writeError(w, http.StatusNotFound, "", "Job not found")
		return
	}
	s.deleteJobLocked(id)
	s.writeMessage(w, http.StatusOK, "Job deleted successfully")
}
