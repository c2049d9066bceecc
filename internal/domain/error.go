package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrNotFound               = errors.New("entity not found")
	ErrAlreadyExists          = errors.New("entity already exists")
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrInvalidStateTransition = errors.New("state transition not allowed")
	ErrDuplicateCallback      = errors.New("gateway callback already processed")
	ErrPaymentNotSettled      = errors.New("payment is not completed")
	ErrDeadlinePassed         = errors.New("grant application deadline has passed")
	ErrTicketClosed           = errors.New("support ticket is closed")
	ErrNotRenewable           = errors.New("subscription is not due for renewal")
	ErrLockNotAcquired        = errors.New("could not acquire lock")
	ErrOperationFailed        = errors.New("storage operation failed")
	ErrInvalidExecContext     = errors.New("invalid executor context")
	ErrReadDatabaseRow        = errors.New("failed to read database row")
)

// StateTransitionError reports exactly which transition was refused so callers
// can surface current vs. requested state instead of a generic failure.
type StateTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("%s: transition %q -> %q is not allowed", e.Entity, e.From, e.To)
}

func (e *StateTransitionError) Unwrap() error { return ErrInvalidStateTransition }

func NewStateTransitionError(entity, from, to string) error {
	return &StateTransitionError{Entity: entity, From: from, To: to}
}

// ValidationError names the field and the violated rule.
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Rule)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidArgument }

func NewValidationError(field, rule string) error {
	return &ValidationError{Field: field, Rule: rule}
}
