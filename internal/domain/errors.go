package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for simple conditions without extra context.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrNoChanges      = errors.New("no changes supplied")
)

// TransitionError is returned when a requested status is not reachable from
// the record's current status. The message names both states and is shown
// to API callers verbatim.
type TransitionError struct {
	Type ResourceType
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("Cannot transition from %s to %s", e.From, e.To)
}

// UnknownResourceTypeError is returned when a request names a resource type
// with no registered descriptor.
type UnknownResourceTypeError struct {
	Type ResourceType
}

func (e *UnknownResourceTypeError) Error() string {
	return fmt.Sprintf("unknown resource type %q", e.Type)
}
