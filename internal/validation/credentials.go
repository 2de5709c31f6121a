package validation

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/iudanet/freelancehub/internal/models"
)

const (
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 8
	// MaxNameLen максимальная длина имени и фамилии
	MaxNameLen = 50
)

// ValidateEmail проверяет формат email
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email cannot be empty")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email format")
	}

	return nil
}

// ValidatePassword проверяет минимальные требования к паролю
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	return nil
}

// ValidateRegistrationRole checks the role picked at sign-up.
// Admins are never self-registered.
func ValidateRegistrationRole(role string) error {
	switch models.Role(role) {
	case models.RoleClient, models.RoleFreelancer:
		return nil
	case "":
		return fmt.Errorf("role cannot be empty")
	default:
		return fmt.Errorf("role must be %q or %q", models.RoleClient, models.RoleFreelancer)
	}
}

// ValidateName проверяет имя или фамилию
func ValidateName(field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%s cannot be empty", field)
	}
	if len(value) > MaxNameLen {
		return fmt.Errorf("%s must not exceed %d characters", field, MaxNameLen)
	}
	return nil
}
