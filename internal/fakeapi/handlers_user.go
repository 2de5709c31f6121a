package fakeapi

import (
	"net/http"

	"github.com/iudanet/freelancehub/internal/models"
	"github.com/iudanet/freelancehub/internal/validation"
	"github.com/iudanet/freelancehub/pkg/api"
)

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.currentLocked(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, acc.user)
}

// updateUser меняет email или пароль. Неверный текущий пароль - 400, а не
// 401, чтобы не завершать сессию.
func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateUserRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.currentLocked(w, r)
	if !ok {
		return
	}

	if req.Email != "" && req.Email != acc.user.Email {
		if err := validation.ValidateEmail(req.Email); err != nil {
			s.writeError(w, http.StatusBadRequest, api.KindValidation, err.Error())
			return
		}
		if _, taken := s.byEmail[req.Email]; taken {
			s.writeError(w, http.StatusConflict, api.KindValidation, "Email already registered")
			return
		}
		delete(s.byEmail, acc.user.Email)
		acc.user.Email = req.Email
		s.byEmail[req.Email] = acc.user.ID
	}

	if req.NewPassword != "" {
		if req.Password != acc.password {
			s.writeError(w, http.StatusBadRequest, api.KindValidation, "Incorrect password")
			return
		}
		if err := validation.ValidatePassword(req.NewPassword); err != nil {
			s.writeError(w, http.StatusBadRequest, api.KindValidation, err.Error())
			return
		}
		acc.password = req.NewPassword
	}

	s.writeMessage(w, http.StatusOK, "User updated successfully")
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.currentLocked(w, r)
	if !ok {
		return
	}
	s.deleteUserLocked(acc.user.ID)
	s.writeMessage(w, http.StatusOK, "User deleted successfully")
}

func (s *Server) deleteUserLocked(id int) {
	acc := s.users[id]
	if acc == nil {
		return
	}
	s.revokeLocked(id)
	delete(s.byEmail, acc.user.Email)
	delete(s.users, id)
	for jobID, job := range s.jobs {
		if job.ClientID == id {
			s.deleteJobLocked(jobID)
		}
	}
	for appID, app := range s.applications {
		if app.UserID == id {
			s.deleteApplicationLocked(appID)
		}
	}
}

func (s *Server) updateClientData(w http.ResponseWriter, r *http.Request) {
	var req api.ClientDataRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.roleLocked(w, r, models.RoleClient)
	if !ok {
		return
	}

	setString(&acc.user.Name, req.Name)
	setString(&acc.user.Surname, req.Surname)
	data := acc.user.ClientData
	setString(&data.CompanyName, req.CompanyName)
	setString(&data.Industry, req.Industry)
	setString(&data.Location, req.Location)
	setString(&data.Description, req.Description)

	s.writeMessage(w, http.StatusOK, "Client data updated successfully")
}

func (s *Server) updateFreelancerData(w http.ResponseWriter, r *http.Request) {
	var req api.FreelancerDataRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.roleLocked(w, r, models.RoleFreelancer)
	if !ok {
		return
	}

	setString(&acc.user.Name, req.Name)
	setString(&acc.user.Surname, req.Surname)
	data := acc.user.FreelancerData
	setString(&data.Title, req.Title)
	setString(&data.Description, req.Description)
	setString(&data.WorkType, req.WorkType)
	if req.HourlyRate != nil {
		data.HourlyRate = *req.HourlyRate
	}
	if req.HoursPerWeek != nil {
		data.HoursPerWeek = *req.HoursPerWeek
	}

	s.writeMessage(w, http.StatusOK, "Freelancer data updated successfully")
}

func (s *Server) addFreelancerSkill(w http.ResponseWriter, r *http.Request) {
	var req api.SkillRefRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.roleLocked(w, r, models.RoleFreelancer)
	if !ok {
		return
	}
	skill, found := s.skills[req.SkillID]
	if !found {
		s.writeError(w, http.StatusNotFound, "", "Skill not found")
		return
	}

	data := acc.user.FreelancerData
	for _, have := range data.Skills {
		if have.ID == skill.ID {
			s.writeError(w, http.StatusConflict, api.KindValidation, "Skill already added")
			return
		}
	}
	data.Skills = append(data.Skills, *skill)
	s.writeMessage(w, http.StatusCreated, "Skill added successfully")
}

func (s *Server) removeFreelancerSkill(w http.ResponseWriter, r *http.Request) {
	var req api.SkillRefRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.roleLocked(w, r, models.RoleFreelancer)
	if !ok {
		return
	}

	data := acc.user.FreelancerData
	for i, have := range data.Skills {
		if have.ID == req.SkillID {
			data.Skills = append(data.Skills[:i], data.Skills[i+1:]...)
			s.writeMessage(w, http.StatusOK, "Skill removed successfully")
			return
		}
	}
	s.writeError(w, http.StatusNotFound, "", "Skill not found")
}

// roleLocked возвращает текущего пользователя, если у него нужная роль
func (s *Server) roleLocked(w http.ResponseWriter, r *http.Request, role models.Role) (*account, bool) {
	acc, ok := s.currentLocked(w, r)
	if !ok {
		return nil, false
	}
	if acc.user.Role != role {
		s.writeError(w, http.StatusForbidden, api.KindForbidden, "Access denied: "+string(role)+"s only")
		return nil, false
	}
	return acc, true
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
