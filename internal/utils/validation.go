package utils

import (
	"regexp"
	"strings"
)

const (
	maxPasswordBytes = 72
	minPasswordBytes = 8
	maxTitleLength   = 200
	maxDescLength    = 1000
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidationError carries the exact detail string returned to the client
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Detail
}

// NewValidationError builds a client-facing validation failure
func NewValidationError(detail string) error {
	return &ValidationError{Detail: detail}
}

// ValidateEmail checks the address against a basic syntactic pattern
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return NewValidationError("Invalid email format")
	}
	return nil
}

// ValidatePassword enforces the length bounds. The upper bound is the bcrypt
// input limit in bytes, not characters.
func ValidatePassword(password string) error {
	if len(password) < minPasswordBytes {
		return NewValidationError("Password must be at least 8 characters")
	}
	if len(password) > maxPasswordBytes {
		return NewValidationError("Password exceeds maximum length of 72 bytes")
	}
	return nil
}

// ValidateTitle checks a trimmed title's upper bound
func ValidateTitle(title string) error {
	if len([]rune(title)) > maxTitleLength {
		return NewValidationError("Title must be less than 200 characters")
	}
	return nil
}

// ValidateDescription checks the description's upper bound
func ValidateDescription(description string) error {
	if len([]rune(description)) > maxDescLength {
		return NewValidationError("Description must be less than 1000 characters")
	}
	return nil
}

// TrimTitle normalizes a title before validation and storage
func TrimTitle(title string) string {
	return strings.TrimSpace(title)
}
