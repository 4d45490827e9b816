// Package validate checks request fields before they are sent to a vendor API.
package validate

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// ErrInvalid is matched by every validation error.
var ErrInvalid = errors.New("validation failed")

// Error represents a validation error.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("validation: %s - %s", e.Field, e.Message)
}

// Unwrap returns ErrInvalid.
func (e *Error) Unwrap() error { return ErrInvalid }

// New creates a new validation error.
func New(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

// Newf creates a new validation error with formatted message.
func Newf(field, format string, args ...any) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

// E.164: leading +, country code 1-9, at most 15 digits in total.
var phoneRegex = regexp.MustCompile(`^\+[1-9][0-9]{6,14}$`)

// PhoneNumber validates an E.164 phone number such as +14155550123.
func PhoneNumber(field, number string) error {
	if number == "" {
		return New(field, "cannot be empty")
	}
	if !phoneRegex.MatchString(number) {
		return Newf(field, "invalid E.164 number %q", number)
	}
	return nil
}

// NormalizePhone strips spaces, dashes, dots and parentheses and adds the
// leading + when missing. The result still needs PhoneNumber.
func NormalizePhone(number string) string {
	number = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')':
			return -1
		}
		return r
	}, number)
	if number != "" && !strings.HasPrefix(number, "+") {
		number = "+" + number
	}
	return number
}

var codeRegex = regexp.MustCompile(`^[0-9]{4,10}$`)

// VerificationCode validates a one-time code of 4 to 10 digits.
func VerificationCode(code string) error {
	if code == "" {
		return New("code", "cannot be empty")
	}
	if !codeRegex.MatchString(code) {
		return New("code", "must be 4 to 10 digits")
	}
	return nil
}

// URL validates an absolute http(s) URL.
func URL(field, raw string) error {
	if raw == "" {
		return New(field, "cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Newf(field, "invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(field, "must start with http:// or https://")
	}
	if u.Host == "" {
		return New(field, "missing host")
	}
	return nil
}

// Positive validates that a value is positive.
func Positive(field string, value int) error {
	if value <= 0 {
		return Newf(field, "must be positive, got %d", value)
	}
	return nil
}

// InRange validates that a value is within a range.
func InRange(field string, value, min, max int) error {
	if value < min || value > max {
		return Newf(field, "must be between %d and %d, got %d", min, max, value)
	}
	return nil
}

// Required validates that a string is not empty.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return Newf(field, "is required")
	}
	return nil
}

// MaxLength validates string length in characters.
func MaxLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return Newf(field, "exceeds maximum length of %d", max)
	}
	return nil
}

// OneOf validates that value is one of allowed.
func OneOf(field, value string, allowed ...string) error {
	if !slices.Contains(allowed, value) {
		return Newf(field, "invalid value %q, expected one of %s", value, strings.Join(allowed, ", "))
	}
	return nil
}
