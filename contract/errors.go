package contract

import (
	"errors"
	"fmt"
)

// ValidationError is a rejected operation. Reason is stable and safe to show to users.
type ValidationError struct {
	Reason string
	Field  string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Reason, e.Field)
	}
	return e.Reason
}

// Is matches on Reason so field-specific errors still compare equal to the sentinels.
func (e *ValidationError) Is(target error) bool {
	var t *ValidationError
	if !errors.As(target, &t) {
		return false
	}
	return t.Reason == e.Reason
}

var (
	ErrNotEditable          = &ValidationError{Reason: "not editable"}
	ErrSignatureRequired    = &ValidationError{Reason: "signature name required"}
	ErrAlreadySigned        = &ValidationError{Reason: "already signed"}
	ErrPlannerMustSignFirst = &ValidationError{Reason: "planner must sign first"}
	ErrCommentRequired      = &ValidationError{Reason: "revision comment required"}
	ErrNotRevisable         = &ValidationError{Reason: "revisions not allowed"}
	ErrInvalidTransition    = &ValidationError{Reason: "invalid status transition"}
	ErrInvalidRole          = &ValidationError{Reason: "invalid role"}
	ErrOutOfRange           = &ValidationError{Reason: "value out of range"}
	ErrInvalidValue         = &ValidationError{Reason: "invalid field value"}
)

// ErrNoRecord is returned when an operation needs a saved contract and there is none.
var ErrNoRecord = errors.New("contract not saved")

func fieldError(base *ValidationError, field string) error {
	return &ValidationError{Reason: base.Reason, Field: field}
}
