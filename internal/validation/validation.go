package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// ValidateRequired checks that a field is not empty.
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return common.Validationf("%s is required", fieldName)
	}
	return nil
}

// ValidateMinLength checks the minimum length of a string.
func ValidateMinLength(value string, minLength int, fieldName string) error {
	if utf8.RuneCountInString(value) < minLength {
		return common.Validationf("%s must be at least %s characters long", fieldName, strconv.Itoa(minLength))
	}
	return nil
}

// ValidateMaxLength checks the maximum length of a string.
func ValidateMaxLength(value string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(value) > maxLength {
		return common.Validationf("%s must be at most %s characters long", fieldName, strconv.Itoa(maxLength))
	}
	return nil
}

// ValidateEmail checks basic email format.
func ValidateEmail(email string) error {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return common.Validationf("email must have a valid format")
	}
	return nil
}

// ValidateUsername checks username format: 3-30 characters from the
// letter/digit/underscore/dot/hyphen set.
func ValidateUsername(username string) error {
	if err := ValidateRequired(username, "username"); err != nil {
		return err
	}
	if err := ValidateMinLength(username, 3, "username"); err != nil {
		return err
	}
	if err := ValidateMaxLength(username, 30, "username"); err != nil {
		return err
	}
	if !usernamePattern.MatchString(username) {
		return common.Validationf("username may only contain letters, digits, '_', '.' and '-'")
	}
	return nil
}

// ValidateDateRange checks that an optional end date does not precede the
// start date.
func ValidateDateRange(startDate time.Time, endDate *time.Time) error {
	if endDate != nil && endDate.Before(startDate) {
		return common.Validationf("end date must be after start date")
	}
	return nil
}

// ValidateTitle runs the shared title rules used by groups, events,
// prayers and posts.
func ValidateTitle(title, fieldName string) error {
	if err := ValidateRequired(title, fieldName); err != nil {
		return err
	}
	return ValidateMaxLength(title, 200, fieldName)
}
