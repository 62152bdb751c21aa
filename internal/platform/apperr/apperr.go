// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

/*
Package apperr defines the centralized error handling framework for Critiq.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Taxonomy: Named constructors for every error kind the API can return.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"net/http"
)

// AppError is the canonical error type for the Critiq API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "DUPLICATE_REVIEW").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Title") // Returns "Title not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthenticated creates a 401 [AppError] for anonymous actors attempting
// an operation that requires an identity.
func Unauthenticated(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHENTICATED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError] for authenticated-but-unauthorized actors.
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// Conflict creates a 409 [AppError] for state conflicts that have no more
// specific taxonomy entry (e.g. deleting a category still referenced by titles).
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// # Domain Taxonomy

// DuplicateReview creates a 409 [AppError] for a second review on the same
// title by the same author. The (title, author) pair is unique.
func DuplicateReview() *AppError {
	return &AppError{
		Code:       "DUPLICATE_REVIEW",
		Message:    "You have already reviewed this title",
		HTTPStatus: http.StatusConflict,
	}
}

// DuplicateUser creates a 409 [AppError] for a username or email that is
// already registered.
func DuplicateUser(msg string) *AppError {
	return &AppError{
		Code:       "DUPLICATE_USER",
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ConflictingIdentity creates a 409 [AppError] for a signup whose username
// and email each belong to different existing accounts.
func ConflictingIdentity() *AppError {
	return &AppError{
		Code:       "CONFLICTING_IDENTITY",
		Message:    "Username and email belong to different accounts",
		HTTPStatus: http.StatusConflict,
	}
}

// InvalidConfirmationCode creates a 400 [AppError] for a missing, expired,
// or mismatched confirmation code during token exchange.
func InvalidConfirmationCode() *AppError {
	return &AppError{
		Code:       "INVALID_CONFIRMATION_CODE",
		Message:    "Confirmation code is invalid or expired",
		HTTPStatus: http.StatusBadRequest,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// ServiceUnavailable creates a 503 [AppError] for degraded dependencies.
func ServiceUnavailable(msg string) *AppError {
	return &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    msg,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsNotFound reports whether err carries the NOT_FOUND code.
func IsNotFound(err error) bool {
	ae := As(err)
	return ae != nil && ae.Code == "NOT_FOUND"
}

// IsCode reports whether err carries the given machine-readable code.
func IsCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
