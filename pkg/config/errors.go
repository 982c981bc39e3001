package config

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError is a single configuration problem.
type ValidationError struct {
	QuestionID string // empty for settings-level problems
	Field      string
	Reason     string
	Value      any
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.QuestionID != "" {
		fmt.Fprintf(&b, "question %q: ", e.QuestionID)
	}
	fmt.Fprintf(&b, "field %q: %s", e.Field, e.Reason)
	if e.Value != nil {
		fmt.Fprintf(&b, " (got %v)", e.Value)
	}
	return b.String()
}

// AggregateError collects several validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// ValidationErrors returns the individual errors if err is an AggregateError.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}

func aggregate(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &AggregateError{Errors: errs}
}
