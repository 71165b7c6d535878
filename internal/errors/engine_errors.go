// Package errors provides categorized engine errors so callers can tell
// recoverable data problems from hard failures.
package errors

import "fmt"

// Category classifies engine errors.
type Category string

const (
	CategoryData       Category = "DATA"
	CategoryStrategy   Category = "STRATEGY"
	CategoryAnalysis   Category = "ANALYSIS"
	CategoryExecution  Category = "EXECUTION"
	CategoryConfig     Category = "CONFIG"
	CategoryValidation Category = "VALIDATION"
)

// EngineError is a categorized error with the component and operation it
// came from.
type EngineError struct {
	Category   Category
	Component  string
	Operation  string
	Message    string
	Underlying error
}

func (e *EngineError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s: %s: %v", e.Category, e.Component, e.Operation, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s: %s", e.Category, e.Component, e.Operation, e.Message)
}

// Unwrap supports errors.Is / errors.As chains through the underlying error.
func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// New creates a categorized error.
func New(category Category, component, operation, message string) *EngineError {
	return &EngineError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
	}
}

// Wrap attaches category and origin to an existing error. Returns nil for a
// nil err so call sites can wrap unconditionally.
func Wrap(err error, category Category, component, operation string) *EngineError {
	if err == nil {
		return nil
	}
	return &EngineError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
	}
}
