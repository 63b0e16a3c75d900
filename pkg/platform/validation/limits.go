package validation

import (
	"fmt"

	dErrors "saasbase/pkg/domain-errors"
)

// HTTP body limits
const (
	// MaxBodySize is the maximum allowed request body size (64 KB).
	MaxBodySize = 64 * 1024
)

// String length limits
const (
	MaxTenantNameLength = 128

	MaxEmailLength = 255

	MaxFullNameLength = 255

	MinPasswordLength = 8

	// MaxPasswordLength is the bcrypt input limit in bytes.
	MaxPasswordLength = 72

	MaxProjectNameLength = 255

	MaxTaskTitleLength = 255

	MaxDescriptionLength = 10000

	// MaxSearchLength bounds free-text list filters.
	MaxSearchLength = 100
)

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}

// CheckStringRange validates that a string length lies within [min, max] bytes.
func CheckStringRange(fieldName, value string, min, max int) error {
	if len(value) < min {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must be at least %d characters", fieldName, min))
	}
	return CheckStringLength(fieldName, value, max)
}
