package api

// UpdateUserRequest covers both email change and password change.
type UpdateUserRequest struct {
	Email       string `json:"email,omitempty"`
	Password    string `json:"password,omitempty"`
	NewPassword string `json:"new_password,omitempty"`
}

// AdminUpdateUserRequest is sent by the admin user panel.
type AdminUpdateUserRequest struct {
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	Banned *bool  `json:"ban,omitempty"`
}

// ClientDataRequest обновляет профиль клиента (поля опциональны)
type ClientDataRequest struct {
	Name        *string `json:"name,omitempty"`
	Surname     *string `json:"surname,omitempty"`
	CompanyName *string `json:"company_name,omitempty"`
	Industry    *string `json:"industry,omitempty"`
	Location    *string `json:"location,omitempty"`
	Description *string `json:"description,omitempty"`
}

// FreelancerDataRequest обновляет профиль фрилансера (поля опциональны)
type FreelancerDataRequest struct {
	Name         *string  `json:"name,omitempty"`
	Surname      *string  `json:"surname,omitempty"`
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	WorkType     *string  `json:"work_type,omitempty"`
	HourlyRate   *float64 `json:"hourly_rate,omitempty"`
	HoursPerWeek *int     `json:"hours_per_week,omitempty"`
}

// SkillRefRequest references a skill by id (add/remove freelancer skill).
type SkillRefRequest struct {
	SkillID int `json:"skill_id"`
}

// SkillRequest создает или переименовывает навык (admin)
type SkillRequest struct {
	SkillName string `json:"skill_name"`
}

// JobRequest представляет форму создания/редактирования вакансии
type JobRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Type         string `json:"type"`
	Rate         string `json:"rate"`
	Length       string `json:"length"`
	HoursPerWeek string `json:"hours_per_week"`
	Skills       []int  `json:"skills"`
	Amount       int    `json:"amount"`
}

// ApplicationRequest представляет отклик фрилансера на вакансию
type ApplicationRequest struct {
	Description string `json:"description"`
	FileName    string `json:"file_name,omitempty"`
	FileBase64  string `json:"file_base64,omitempty"`
	JobID       int    `json:"job_id,omitempty"`
}

// ReviewApplicationRequest принимает или отклоняет отклик (client)
type ReviewApplicationRequest struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason"`
}
