// Package errors provides custom error types for the mapnotes system.
// These errors enable programmatic error checking at the component boundaries
// that turn failures into user notifications.
//
// The taxonomy has three user-facing classes:
//   - NetworkFailure: the request could not complete or the server failed (5xx)
//   - ValidationFailure: the backend rejected the payload (4xx)
//   - EmptyUpdatePayload: the client refused to send an update with no content
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is, As and Join are re-exported so callers need a single errors import.
var (
	Is   = errors.Is
	As   = errors.As
	Join = errors.Join
)

// Common sentinel errors for the mapnotes system
var (
	// ErrNetworkFailure indicates a request could not complete or the server returned 5xx
	ErrNetworkFailure = errors.New("network failure")

	// ErrValidationFailure indicates the backend rejected the request payload (4xx)
	ErrValidationFailure = errors.New("validation failure")

	// ErrEmptyUpdatePayload indicates an update with neither text nor image
	ErrEmptyUpdatePayload = errors.New("update needs text or an image")

	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")

	// ErrBusy indicates an operation was refused because another is in flight
	ErrBusy = errors.New("operation already in progress")
)

// NetworkError represents a request that could not complete or a server-side failure.
type NetworkError struct {
	Operation  string // "fetch markers", "create marker", ...
	Endpoint   string
	StatusCode int // zero when no response was received
	Message    string
	Err        error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s returned %d: %s", e.Operation, e.Endpoint, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Operation, e.Endpoint, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *NetworkError) Is(target error) bool {
	if target == ErrCanceled {
		return errors.Is(e.Err, context.Canceled)
	}
	return target == ErrNetworkFailure
}

// NewNetworkError creates a new NetworkError for a failed round trip.
func NewNetworkError(operation, endpoint string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Err: err}
}

// ValidationError represents a validation failure, either detected locally
// or reported by the backend with a 4xx status.
type ValidationError struct {
	Field      string
	Value      any
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("validation failed (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	if target == ErrValidationFailure || target == ErrInvalidInput {
		return true
	}
	return e.StatusCode == http.StatusNotFound && target == ErrNotFound
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// TimeoutError represents a request that exceeded its deadline. A timeout is
// also a network failure from the caller's point of view.
type TimeoutError struct {
	Operation string
	Duration  string
	Err       error
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	if e.Duration != "" {
		return fmt.Sprintf("operation %s timed out after %s", e.Operation, e.Duration)
	}
	return fmt.Sprintf("operation %s timed out", e.Operation)
}

// Unwrap implements errors.Unwrap
func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout || target == ErrNetworkFailure
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(operation, duration string, err error) *TimeoutError {
	return &TimeoutError{Operation: operation, Duration: duration, Err: err}
}

// ParseError represents an error when decoding a response body
type ParseError struct {
	Format  string // "json", "timestamp", ...
	Source  string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s parse error in %s: %s", e.Format, e.Source, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support. A response we cannot decode came from a
// misbehaving server, which callers treat like any other server failure.
func (e *ParseError) Is(target error) bool {
	return target == ErrNetworkFailure
}

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "create", "load", "read", "post"
	Resource  string // "marker", "update", "image", "config"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// Helper functions for error checking

// IsNetworkFailure checks if an error is a network or server failure
func IsNetworkFailure(err error) bool {
	return errors.Is(err, ErrNetworkFailure)
}

// IsValidationFailure checks if an error is a rejected payload
func IsValidationFailure(err error) bool {
	return errors.Is(err, ErrValidationFailure)
}

// IsEmptyUpdatePayload checks if an error is the client-side empty update guard
func IsEmptyUpdatePayload(err error) bool {
	return errors.Is(err, ErrEmptyUpdatePayload)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, source string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, Source: source, Message: err.Error(), Err: err}
}

// WrapNetwork wraps an error as a NetworkError
func WrapNetwork(operation, endpoint string, err error) error {
	if err == nil {
		return nil
	}
	return NewNetworkError(operation, endpoint, err)
}
