package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Flash categories shared by errors and handlers.
const (
	CategorySuccess = "success"
	CategoryError   = "error"
	CategoryWarning = "warning"
)

// FlowError standardizes application failures. Every expected failure in
// the account flows recovers locally as a redirect plus a one-shot flash;
// Message and Category are the exact flash the visitor sees. HTTPStatus is
// used only when a FlowError escapes to the error middleware unmapped.
type FlowError struct {
	Code       string
	Message    string
	Category   string
	HTTPStatus int
	Err        error
}

func (e *FlowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

// NewFlowError constructs a FlowError.
func NewFlowError(code, message, category string, status int) *FlowError {
	return &FlowError{Code: code, Message: message, Category: category, HTTPStatus: status}
}

// NewDuplicateEmail signals a registration against an email already on file.
func NewDuplicateEmail() error {
	return NewFlowError("DUPLICATE_EMAIL", "Email already registered", CategoryError, http.StatusConflict)
}

// NewInvalidCredentials covers both unknown email and wrong password; the
// single message keeps the two cases indistinguishable to the caller.
func NewInvalidCredentials() error {
	return NewFlowError("INVALID_CREDENTIALS", "Invalid email or password", CategoryError, http.StatusUnauthorized)
}

// NewPendingApproval signals verified credentials on an unapproved account.
func NewPendingApproval() error {
	return NewFlowError("PENDING_APPROVAL", "Your account is pending approval. Please wait for admin approval.", CategoryWarning, http.StatusForbidden)
}

// NewUnauthenticated signals a protected page hit without a session.
func NewUnauthenticated() error {
	return NewFlowError("UNAUTHENTICATED", "Please login first", CategoryError, http.StatusUnauthorized)
}

// NewUserNotFound signals an approval against a nonexistent account id.
func NewUserNotFound() error {
	return NewFlowError("USER_NOT_FOUND", "User not found", CategoryError, http.StatusNotFound)
}

// NewInternalError wraps unexpected failures.
func NewInternalError(err error) error {
	return &FlowError{
		Code:       "INTERNAL_ERROR",
		Message:    "Something went wrong",
		Category:   CategoryError,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToFlowError converts generic errors to FlowError.
func ToFlowError(err error) *FlowError {
	if err == nil {
		return nil
	}
	var flowErr *FlowError
	if errors.As(err, &flowErr) {
		return flowErr
	}
	if fe, ok := NewInternalError(err).(*FlowError); ok {
		return fe
	}
	return &FlowError{
		Code:       "INTERNAL_ERROR",
		Message:    "Something went wrong",
		Category:   CategoryError,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
