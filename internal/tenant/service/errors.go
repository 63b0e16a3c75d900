package service

import (
	"errors"

	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/sentinel"
)

// Error wrapping helpers translate sentinel errors to domain errors.

func wrapTenantErr(err error, action string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "tenant not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, action)
}

// transitionConflict maps a lifecycle invariant violation to a conflict.
func transitionConflict(err error, msg string) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		return dErrors.New(dErrors.CodeConflict, msg)
	}
	return err
}
