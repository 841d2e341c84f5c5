// Package apperr defines the typed errors returned across ppguess.
//
// Every failure in an analysis run is terminal, so the kinds here exist to let
// the CLI pick an exit status and the MCP server pick an error message, not to
// drive retries.
package apperr

import (
	"errors"
	"fmt"
)

// Kind categorises an application error.
type Kind string

const (
	KindLoad     Kind = "load"
	KindShape    Kind = "shape"
	KindArgument Kind = "argument"
	KindRender   Kind = "render"
	KindConfig   Kind = "config"
)

// Error is a structured application error.
type Error struct {
	Kind    Kind   `json:"kind"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, msg)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewLoadError reports an image that could not be opened or decoded.
func NewLoadError(path, message string, cause error) *Error {
	return &Error{Kind: KindLoad, Path: path, Message: message, Cause: cause}
}

// NewShapeError reports an image with no pixels to analyze.
func NewShapeError(message string) *Error {
	return &Error{Kind: KindShape, Message: message}
}

// NewArgumentError reports an invalid caller-supplied value.
func NewArgumentError(message string, cause error) *Error {
	return &Error{Kind: KindArgument, Message: message, Cause: cause}
}

// NewRenderError reports a plot that could not be drawn or written.
func NewRenderError(path, message string, cause error) *Error {
	return &Error{Kind: KindRender, Path: path, Message: message, Cause: cause}
}

// NewConfigError reports an invalid configuration value.
func NewConfigError(message string, cause error) *Error {
	return &Error{Kind: KindConfig, Message: message, Cause: cause}
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
