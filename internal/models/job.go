package models

import "time"

// Job field enumerations.
const (
	JobTypeOngoing = "ongoing"
	JobTypeOneTime = "one-time"

	RateHourly = "hourly"
	RateFixed  = "fixed"

	JobStatusOpen       = "open"
	JobStatusInProgress = "in-progress"
	JobStatusCompleted  = "completed"
)

// Application statuses.
const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

// Skill - навык из справочника
type Skill struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
}

// Job представляет вакансию клиента
type Job struct {
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Type             string        `json:"type"`
	Rate             string        `json:"rate"`
	Length           string        `json:"length"`
	HoursPerWeek     string        `json:"hours_per_week"`
	Status           string        `json:"status"`
	Skills           []Skill       `json:"skills,omitempty"`
	Applications     []Application `json:"applications,omitempty"`
	ID               int           `json:"id"`
	ClientID         int           `json:"client_id,omitempty"`
	Amount           int           `json:"amount"`
	ApplicationCount int           `json:"application_count,omitempty"`
}

// Application представляет отклик фрилансера на вакансию
type Application struct {
	CreatedAt       time.Time   `json:"created_at"`
	Attachment      *Attachment `json:"attachment,omitempty"`
	JobTitle        string      `json:"job_title,omitempty"`
	Description     string      `json:"description"`
	Status          string      `json:"status"`
	RejectionReason string      `json:"rejection_reason,omitempty"`
	ID              int         `json:"id"`
	JobID           int         `json:"job_id"`
	UserID          int         `json:"user_id"`
}

// Attachment описывает файл, приложенный к отклику
type Attachment struct {
	FileName string `json:"file_name"`
	ID       int    `json:"id"`
}

// AttachmentFile is a downloaded attachment body.
type AttachmentFile struct {
	FileName    string
	ContentType string
	Data        []byte
}
