package fakeapi

import (
	"encoding/base64"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/iudanet/freelancehub/internal/models"
	"github.com/iudanet/freelancehub/internal/validation"
	"github.com/iudanet/freelancehub/pkg/api"
)

func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs := sortedByID(s.jobs, func(j *models.Job) bool { return j.Status == models.JobStatusOpen })
	s.writeJSON(w, http.StatusOK, s.publicJobsLocked(jobs))
}

func (s *Server) getJob(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[pathID(r)]
	if !ok {
		s.writeError(w, http.StatusNotFound, "", "Job not found")
		return
	}
	s.writeJSON(w, http.StatusOK, s.publicJobsLocked([]*models.Job{job})[0])
}

func (s *Server) publicJobsLocked(jobs []*models.Job) []models.Job {
	out := make([]models.Job, 0, len(jobs))
	for _, j := range jobs {
		job := *j
		job.Applications = nil
		job.ApplicationCount = s.countApplicationsLocked(j.ID)
		out = append(out, job)
	}
	return out
}

func (s *Server) listProfiles(role models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		accounts := sortedByID(s.users, func(a *account) bool { return a.user.Role == role })
		profiles := make([]models.PublicProfile, 0, len(accounts))
		for _, a := range accounts {
			profiles = append(profiles, publicProfile(a.user))
		}
		s.writeJSON(w, http.StatusOK, profiles)
	}
}

func (s *Server) getProfile(role models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		acc, ok := s.users[pathID(r)]
		if !ok || acc.user.Role != role {
			s.writeError(w, http.StatusNotFound, "", "User not found")
			return
		}
		s.writeJSON(w, http.StatusOK, publicProfile(acc.user))
	}
}

func publicProfile(u models.User) models.PublicProfile {
	return models.PublicProfile{
		ID:             u.ID,
		Name:           u.Name,
		Surname:        u.Surname,
		ClientData:     u.ClientData,
		FreelancerData: u.FreelancerData,
	}
}

func (s *Server) listSkills(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	skills := sortedByID(s.skills, nil)
	out := make([]models.Skill, 0, len(skills))
	for _, sk := range skills {
		out = append(out, *sk)
	}
	s.writeJSON(w, http.StatusOK, out)
}

// Вакансии клиента

func (s *Server) listClientJobs(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.roleLocked(w, r, models.RoleClient)
	if !ok {
		return
	}
	jobs := sortedByID(s.jobs, func(j *models.Job) bool { return j.ClientID == acc.user.ID })
	s.writeJSON(w, http.StatusOK, s.publicJobsLocked(jobs))
}

func (s *Server) getClientJob(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.ownJobLocked(w, r)
	if !ok {
		return
	}

	out := *job
	apps := sortedByID(s.applications, func(a *models.Application) bool { return a.JobID == job.ID })
	out.Applications = make([]models.Application, 0, len(apps))
	for _, a := range apps {
		out.Applications = append(out.Applications, *a)
	}
	out.ApplicationCount = len(apps)
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) createJob(w http.ResponseWriter, r *http.Request) {
	var req api.JobRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := validation.ValidateJob(req); err != nil {
		s.writeError(w, http.StatusBadRequest, api.KindValidation, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.roleLocked(w, r, models.RoleClient)
	if !ok {
		return
	}
	if !s.skillsExistLocked(w, req.Skills) {
		return
	}
	job := s.newJobLocked(acc.user.ID, req)
	s.writeJSON(w, http.StatusCreated, *job)
}

func (s *Server) updateJob(w http.ResponseWriter, r *http.Request) {
	var req api.JobRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := validation.ValidateJob(req); err != nil {
		s.writeError(w, http.StatusBadRequest, api.KindValidation, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.ownJobLocked(w, r)
	if !ok {
		return
	}
	if job.Status != models.JobStatusOpen {
		s.writeError(w, http.StatusBadRequest, api.KindValidation, "Only open jobs can be edited")
		return
	}
	if !s.skillsExistLocked(w, req.Skills) {
		return
	}
	s.applyJobRequestLocked(job, req)
	s.writeJSON(w, http.StatusOK, *job)
}

func (s *Server) deleteJob(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.ownJobLocked(w, r)
	if !ok {
		return
	}
	s.deleteJobLocked(job.ID)
	s.writeMessage(w, http.StatusOK, "Job deleted successfully")
}

func (s *Server) completeJob(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.ownJobLocked(w, r)
	if !ok {
		return
	}
	if job.Status != models.JobStatusInProgress {
		s.writeError(w, http.StatusBadRequest, api.KindValidation, "Only jobs in progress can be completed")
		return
	}
	job.Status = models.JobStatusCompleted
	s.writeMessage(w, http.StatusOK, "Job completed successfully")
}

// reviewApplication принимает или отклоняет отклик. Принятие переводит
// вакансию в работу.
func (s *Server) reviewApplication(w http.ResponseWriter, r *http.Request) {
	var req api.ReviewApplicationRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := validation.ValidateReview(req); err != nil {
		s.writeError(w, http.StatusBadRequest, api.KindValidation, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.roleLocked(w, r, models.RoleClient)
	if !ok {
		return
	}
	app, found := s.applications[pathID(r)]
	if !found {
		s.writeError(w, http.StatusNotFound, "", "Application not found")
		return
	}
	job := s.jobs[app.JobID]
	if job == nil || job.ClientID != acc.user.ID {
		s.writeError(w, http.StatusNotFound, "", "Application not found")
		return
	}

	app.Status = req.Status
	app.RejectionReason = req.RejectionReason
	if req.Status == models.ApplicationAccepted && job.Status == models.JobStatusOpen {
		job.Status = models.JobStatusInProgress
	}
	s.writeMessage(w, http.StatusOK, "Application updated successfully")
}

func (s *Server) ownJobLocked(w http.ResponseWriter, r *http.Request) (*models.Job, bool) {
	acc, ok := s.roleLocked(w, r, models.RoleClient)
	if !ok {
		return nil, false
	}
	job, found := s.jobs[pathID(r)]
	if !found || job.ClientID != acc.user.ID {
		s.writeError(w, http.StatusNotFound, "", "Job not found")
		return nil, false
	}
	return job, true
}

func (s *Server) skillsExistLocked(w http.ResponseWriter, ids []int) bool {
	for _, id := range ids {
		if _, ok := s.skills[id]; !ok {
			s.writeError(w, http.StatusBadRequest, api.KindValidation, "Unknown skill "+strconv.Itoa(id))
			return false
		}
	}
	return true
}

func (s *Server) newJobLocked(clientID int, req api.JobRequest) *models.Job {
	s.nextID++
	job := &models.Job{ID: s.nextID, ClientID: clientID, Status: models.JobStatusOpen}
	s.applyJobRequestLocked(job, req)
	s.jobs[job.ID] = job
	return job
}

func (s *Server) applyJobRequestLocked(job *models.Job, req api.JobRequest) {
	job.Title = req.Title
	job.Description = req.Description
	job.Type = req.Type
	job.Rate = req.Rate
	job.Length = req.Length
	job.HoursPerWeek = req.HoursPerWeek
	job.Amount = req.Amount
	job.Skills = nil
	for _, id := range req.Skills {
		if sk, ok := s.skills[id]; ok {
			job.Skills = append(job.Skills, *sk)
		}
	}
}

func (s *Server) deleteJobLocked(id int) {
	delete(s.jobs, id)
	for appID, app := range s.applications {
		if app.JobID == id {
			s.deleteApplicationLocked(appID)
		}
	}
}

func (s *Server) countApplicationsLocked(jobID int) int {
	n := 0
	for _, app := range s.applications {
		if app.JobID == jobID {
			n++
		}
	}
	return n
}

// Отклики фрилансера

func (s *Server) listApplications(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.roleLocked(w, r, models.RoleFreelancer)
	if !ok {
		return
	}
	apps := sortedByID(s.applications, func(a *models.Application) bool { return a.UserID == acc.user.ID })
	out := make([]models.Application, 0, len(apps))
	for _, a := range apps {
		out = append(out, *a)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) getApplication(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.ownApplicationLocked(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, *app)
}

func (s *Server) apply(w http.ResponseWriter, r *http.Request) {
	var req api.ApplicationRequest
	if !s.decode(w, r, &req) {
		return
	}
	file, ok := s.decodeFile(w, req)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.roleLocked(w, r, models.RoleFreelancer)
	if !ok {
		return
	}
	job, found := s.jobs[req.JobID]
	if !found || job.Status != models.JobStatusOpen {
		s.writeError(w, http.StatusNotFound, "", "Job not found")
		return
	}
	for _, a := range s.applications {
		if a.JobID == job.ID && a.UserID == acc.user.ID {
			s.writeError(w, http.StatusConflict, api.KindValidation, "You have already applied to this job")
			return
		}
	}

	app := s.newApplicationLocked(acc.user.ID, job.ID, req.Description)
	if req.FileName != "" {
		s.attachLocked(app, req.FileName, file)
	}
	s.writeJSON(w, http.StatusCreated, *app)
}

func (s *Server) updateApplication(w http.ResponseWriter, r *http.Request) {
	var req api.ApplicationRequest
	if !s.decode(w, r, &req) {
		return
	}
	file, ok := s.decodeFile(w, req)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.ownApplicationLocked(w, r)
	if !ok {
		return
	}
	if app.Status != models.ApplicationPending {
		s.writeError(w, http.StatusBadRequest, api.KindValidation, "Only pending applications can be edited")
		return
	}

	app.Description = req.Description
	if req.FileName != "" {
		if app.Attachment != nil {
			delete(s.attachments, app.Attachment.ID)
		}
		s.attachLocked(app, req.FileName, file)
	}
	s.writeJSON(w, http.StatusOK, *app)
}

func (s *Server) deleteApplication(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.ownApplicationLocked(w, r)
	if !ok {
		return
	}
	s.deleteApplicationLocked(app.ID)
	s.writeMessage(w, http.StatusOK, "Application deleted successfully")
}

func (s *Server) decodeFile(w http.ResponseWriter, req api.ApplicationRequest) ([]byte, bool) {
	if req.FileName == "" {
		return nil, true
	}
	data, err := base64.StdEncoding.DecodeString(req.FileBase64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, api.KindValidation, "Invalid file encoding")
		return nil, false
	}
	return data, true
}

func (s *Server) ownApplicationLocked(w http.ResponseWriter, r *http.Request) (*models.Application, bool) {
	acc, ok := s.roleLocked(w, r, models.RoleFreelancer)
	if !ok {
		return nil, false
	}
	app, found := s.applications[pathID(r)]
	if !found || app.UserID != acc.user.ID {
		s.writeError(w, http.StatusNotFound, "", "Application not found")
		return nil, false
	}
	return app, true
}

func (s *Server) newApplicationLocked(freelancerID, jobID int, description string) *models.Application {
	s.nextID++
	app := &models.Application{
		ID:          s.nextID,
		JobID:       jobID,
		UserID:      freelancerID,
		Description: description,
		Status:      models.ApplicationPending,
		CreatedAt:   time.Now().UTC(),
	}
	if job, ok := s.jobs[jobID]; ok {
		app.JobTitle = job.Title
	}
	s.applications[app.ID] = app
	return app
}

func (s *Server) attachLocked(app *models.Application, fileName string, data []byte) {
	s.nextID++
	s.attachments[s.nextID] = &attachment{fileName: fileName, data: data, applicationID: app.ID}
	app.Attachment = &models.Attachment{ID: s.nextID, FileName: fileName}
}

func (s *Server) deleteApplicationLocked(id int) {
	if app, ok := s.applications[id]; ok && app.Attachment != nil {
		delete(s.attachments, app.Attachment.ID)
	}
	delete(s.applications, id)
}

// downloadAttachment отдает файл автору отклика, клиенту вакансии и админу
func (s *Server) downloadAttachment(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.currentLocked(w, r)
	if !ok {
		return
	}
	att, found := s.attachments[pathID(r)]
	if !found {
		s.writeError(w, http.StatusNotFound, "", "Attachment not found")
		return
	}

	app := s.applications[att.applicationID]
	allowed := acc.user.Role == models.RoleAdmin
	if app != nil {
		if app.UserID == acc.user.ID {
			allowed = true
		}
		if job := s.jobs[app.JobID]; job != nil && job.ClientID == acc.user.ID {
			allowed = true
		}
	}
	if !allowed {
		s.writeError(w, http.StatusForbidden, api.KindForbidden, "You do not have permission to download this attachment")
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(att.fileName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": att.fileName}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(att.data); err != nil {
		s.logger.Error("failed to write attachment", "error", err)
	}
}
