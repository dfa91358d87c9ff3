package errors

import (
	"errors"
	"fmt"
)

const (
	ErrorFailedToConnectToTheDatabase = "Failed to connect to the database"
	ErrorFailedToRunTheServer         = "Failed to run the server"
	ErrorFailedToShutdownTheServer    = "Failed to shutdown the server"
	ErrFailedDecodeRequestBody        = "Failed to decode request body"
	ErrInvalidRequestBody             = "Invalid request body"
	ErrFailedToCreateTransaction      = "Failed to create transaction"
	ErrFailedToSearchTransactions     = "Failed to search transactions"
	ErrFailedToBuildGraphData         = "Failed to build graph data"
	ErrFailedToAggregateTransactions  = "Failed to aggregate transactions"
	ErrFailedToRenderReport           = "Failed to render report"
	ErrTransactionNotFound            = "Transaction not found"
	ErrInvalidGeneratorAction         = "Invalid action"
	ErrMissingCredentials             = "Missing credentials"
	ErrInvalidCredentials             = "Invalid credentials"
)

// ValidationError reports malformed or missing caller input.
type ValidationError struct {
	Message string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func NewValidationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports a lookup miss or an empty aggregate source.
type NotFoundError struct {
	Message string
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// ConflictError reports an insert that collides with an existing transaction id.
type ConflictError struct{}

func NewConflictError() *ConflictError {
	return &ConflictError{}
}

func (e *ConflictError) Error() string {
	return "transaction already exists"
}

// AuthError reports a missing or invalid credential.
type AuthError struct {
	Message string
}

func NewAuthError(message string) *AuthError {
	return &AuthError{Message: message}
}

func (e *AuthError) Error() string {
	return e.Message
}

// StoreError wraps a persistence failure. The cause is logged server side and
// never leaks into the response body.
type StoreError struct {
	Op  string
	Err error
}

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
