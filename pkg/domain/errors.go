package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownState is returned when a table references a state outside its declared set.
	ErrUnknownState = errors.New("unknown state")

	// ErrAmbiguousTransition is returned when two transitions share a (state, input) pair.
	ErrAmbiguousTransition = errors.New("ambiguous transition")

	// ErrEmptySymbol is returned when a transition has an empty input symbol.
	ErrEmptySymbol = errors.New("empty input symbol")

	// ErrDuplicateState is returned when a declared state set lists a state twice.
	ErrDuplicateState = errors.New("duplicate state")

	// ErrEmptyTable is returned when a table has no transitions.
	ErrEmptyTable = errors.New("table has no transitions")

	// ErrNoMatch is returned when no transition applies to the current state and input.
	ErrNoMatch = errors.New("no matching transition")

	// ErrLineTooLong is reported by line sources when a line exceeds the buffer limit.
	ErrLineTooLong = errors.New("line too long")

	// ErrTableNotFound is returned when a loader has no table with the requested name.
	ErrTableNotFound = errors.New("table not found")

	// ErrRunNotFound is returned when a run ID cannot be found in the store.
	ErrRunNotFound = errors.New("run not found")
)

// ValidationError describes one defect found while loading a table.
// Index is the position of the offending transition, or -1 when the
// defect is not tied to a transition.
type ValidationError struct {
	Index  int
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("transition %d: %s: %v", e.Index, e.Reason, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}

// StuckError occurs when a run reaches a state from which no transition
// accepts the remaining input. Position is the byte offset into the line.
type StuckError struct {
	State     State
	Position  int
	Remaining string
}

func (e *StuckError) Error() string {
	return fmt.Sprintf("no transition from state %q at position %d (remaining %q)", e.State, e.Position, e.Remaining)
}

func (e *StuckError) Unwrap() error {
	return ErrNoMatch
}
