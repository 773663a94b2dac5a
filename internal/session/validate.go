package session

import (
	"regexp"
	"strings"

	"github.com/healthbridge/wellness-client/internal/domain"
	"github.com/healthbridge/wellness-client/internal/dto"
)

const minPasswordLength = 8

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// validateRegistration runs the client-side field checks. Nothing is
// transmitted when it fails.
func validateRegistration(req dto.RegisterRequest) *domain.ValidationError {
	fields := make(map[string]string)

	if strings.TrimSpace(req.FirstName) == "" {
		fields["first_name"] = "First name is required"
	}
	if strings.TrimSpace(req.LastName) == "" {
		fields["last_name"] = "Last name is required"
	}
	if strings.TrimSpace(req.Email) == "" {
		fields["email"] = "Email is required"
	} else if !emailRegex.MatchString(req.Email) {
		fields["email"] = "Email is invalid"
	}
	if req.Password == "" {
		fields["password"] = "Password is required"
	} else if len(req.Password) < minPasswordLength {
		fields["password"] = "Password must be at least 8 characters"
	}
	if req.Password != req.PasswordConfirm {
		fields["password_confirm"] = "Passwords do not match"
	}
	if !req.DataConsent {
		fields["data_consent"] = "You must consent to data usage to register"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// validateNewPassword checks a replacement password before transmission.
func validateNewPassword(password string) *domain.ValidationError {
	if len(password) < minPasswordLength {
		return domain.NewValidationError("new_password", "Password must be at least 8 characters")
	}
	return nil
}

// sanitizeEmail normalizes an email address for transmission.
func sanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
