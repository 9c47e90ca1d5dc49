// Package errors defines the typed failures surfaced by stackrender's loaders,
// style stores and rendering service. Render-time conditions inside a template
// are diagnostics, not errors; these types only cover failures that stop a
// request.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrUnknownMode is returned when a caller names a render mode that does not exist.
var ErrUnknownMode = stdErrors.New("unknown render mode")

// ErrStyleScopeNotFound is returned by style stores that hold no entry for a scope.
var ErrStyleScopeNotFound = stdErrors.New("style scope not found")

// ParseError represents a YAML or JSON decoding failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError reports a field of a config or question document that
// failed validation.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RenderError is a request-level failure of the rendering service, such as
// an unknown mode or a missing attempt.
type RenderError struct {
	Mode       string
	QuestionID string
	Err        error
}

// NewRenderError constructs a RenderError.
func NewRenderError(mode, questionID string, err error) error {
	return &RenderError{Mode: mode, QuestionID: questionID, Err: err}
}

func (e *RenderError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.QuestionID != "":
		return fmt.Sprintf("render error [%s] on question %s: %v", e.Mode, e.QuestionID, e.Err)
	case e.Mode != "":
		return fmt.Sprintf("render error [%s]: %v", e.Mode, e.Err)
	default:
		return fmt.Sprintf("render error: %v", e.Err)
	}
}

// Unwrap exposes the root error.
func (e *RenderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StoreError indicates a style store could not serve a scope.
type StoreError struct {
	Store   string
	Scope   string
	Message string
	Err     error
}

// NewStoreError constructs a StoreError for the named store backend.
func NewStoreError(store, scope string, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &StoreError{Store: store, Scope: scope, Message: message, Err: err}
}

func (e *StoreError) Error() string {
	if e == nil {
		return ""
	}
	if e.Scope != "" {
		return fmt.Sprintf("style store error [%s] scope %q: %s", e.Store, e.Scope, e.Message)
	}
	return fmt.Sprintf("style store error [%s]: %s", e.Store, e.Message)
}

// Unwrap exposes the underlying error.
func (e *StoreError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
