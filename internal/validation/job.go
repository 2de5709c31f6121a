package validation

import (
	"fmt"
	"strings"

	"github.com/iudanet/freelancehub/internal/models"
	"github.com/iudanet/freelancehub/pkg/api"
)

const (
	// MaxJobTitleLen максимальная длина заголовка вакансии
	MaxJobTitleLen = 30
	// MaxHourlyAmount максимальная почасовая ставка
	MaxHourlyAmount = 1000
	// MaxFixedAmount максимальная фиксированная сумма
	MaxFixedAmount = 1000000
)

var (
	validJobTypes = map[string]bool{
		models.JobTypeOngoing: true,
		models.JobTypeOneTime: true,
	}
	validRates = map[string]bool{
		models.RateHourly: true,
		models.RateFixed:  true,
	}
	validLengths = map[string]bool{
		"<1":   true,
		"1-3":  true,
		"3-6":  true,
		"6-12": true,
		"12+":  true,
	}
	validHoursPerWeek = map[string]bool{
		"<10":   true,
		"10-20": true,
		"20-40": true,
		"40-60": true,
		"80+":   true,
	}
)

// ValidateJob проверяет форму вакансии перед отправкой на сервер
func ValidateJob(job api.JobRequest) error {
	title := strings.TrimSpace(job.Title)
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if len(title) > MaxJobTitleLen {
		return fmt.Errorf("title must not exceed %d characters", MaxJobTitleLen)
	}
	if strings.TrimSpace(job.Description) == "" {
		return fmt.Errorf("description is required")
	}
	if !validJobTypes[job.Type] {
		return fmt.Errorf("invalid job type %q", job.Type)
	}
	if !validRates[job.Rate] {
		return fmt.Errorf("invalid rate %q", job.Rate)
	}
	if !validLengths[job.Length] {
		return fmt.Errorf("invalid length %q", job.Length)
	}
	if !validHoursPerWeek[job.HoursPerWeek] {
		return fmt.Errorf("invalid hours per week %q", job.HoursPerWeek)
	}

	limit := MaxFixedAmount
	if job.Rate == models.RateHourly {
		limit = MaxHourlyAmount
	}
	if job.Amount < 1 || job.Amount > limit {
		return fmt.Errorf("amount must be between 1 and %d for %s rate", limit, job.Rate)
	}

	return nil
}

// ValidateReview checks an application decision.
func ValidateReview(req api.ReviewApplicationRequest) error {
	switch req.Status {
	case models.ApplicationAccepted:
		if req.RejectionReason != "" {
			return fmt.Errorf("rejection reason is only allowed when rejecting")
		}
		return nil
	case models.ApplicationRejected:
		return nil
	default:
		return fmt.Errorf("status must be %q or %q", models.ApplicationAccepted, models.ApplicationRejected)
	}
}
