package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInsufficientBalance = 4001
	CodeInvalidParameter    = 4002
	CodeUnauthorized        = 4010
	CodeForbidden           = 4030
	CodeSessionNotFound     = 4040
	CodeWalletNotFound      = 4041
	CodeInvalidState        = 4090
	CodeConcurrentUpdate    = 4091
	CodeRateLimited         = 4290

	// 5xxx - Server errors
	CodeInternalServer     = 5000
	CodeUpstreamService    = 5020
	CodeDatabaseConnection = 5030
)

// Base error types
var (
	// ErrInsufficientBalance is returned when a reservation or a charge exceeds the funds of a wallet
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidParameter is returned when an input is rejected before any mutation
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrSessionNotFound is returned when no session matches the id and user
	ErrSessionNotFound = errors.New("session not found")

	// ErrWalletNotFound is returned when a wallet lookup finds nothing
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrTransactionNotFound is returned when a ledger lookup finds nothing
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvalidState is returned when a session status forbids the operation
	ErrInvalidState = errors.New("invalid session state")

	// ErrUpstreamService is returned when the assessment collaborator fails
	ErrUpstreamService = errors.New("upstream service error")

	// ErrConcurrentUpdate is returned when a row stays locked or serialization keeps failing after retries
	ErrConcurrentUpdate = errors.New("concurrent update, please retry")

	// ErrDuplicateWallet is returned when a wallet for the user already exists
	ErrDuplicateWallet = errors.New("wallet already exists")

	// ErrDuplicateKey is returned when a unique key is taken, typically by a concurrent request
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrConstraintViolation is returned when a database constraint is violated
	ErrConstraintViolation = errors.New("database constraint violation")

	// ErrDatabaseConnection is returned when there's a problem connecting to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrUnauthorized is returned when the bearer token is missing or invalid
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the token subject does not own the resource
	ErrForbidden = errors.New("forbidden")

	// ErrRateLimited is returned when a client exceeds its request budget
	ErrRateLimited = errors.New("too many requests")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientBalance):
		return CodeInsufficientBalance
	case errors.Is(err, ErrInvalidParameter):
		return CodeInvalidParameter
	case errors.Is(err, ErrSessionNotFound):
		return CodeSessionNotFound
	case errors.Is(err, ErrWalletNotFound):
		return CodeWalletNotFound
	case errors.Is(err, ErrInvalidState):
		return CodeInvalidState
	case errors.Is(err, ErrConcurrentUpdate), errors.Is(err, ErrDuplicateKey), errors.Is(err, ErrDuplicateWallet):
		return CodeConcurrentUpdate
	case errors.Is(err, ErrUpstreamService):
		return CodeUpstreamService
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrRateLimited):
		return CodeRateLimited
	case errors.Is(err, ErrDatabaseConnection):
		return CodeDatabaseConnection
	default:
		return CodeInternalServer
	}
}

// InsufficientBalanceError carries both sides of a failed funds check
type InsufficientBalanceError struct {
	UserID    uint64
	Operation string
	Requested string
	Available string
}

// Error implements the error interface
func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for user %d on %s: requested %s, available %s",
		e.UserID, e.Operation, e.Requested, e.Available)
}

// Is checks if the target error is an ErrInsufficientBalance
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientBalanceError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_balance",
		"user_id":    e.UserID,
		"operation":  e.Operation,
		"requested":  e.Requested,
		"available":  e.Available,
		"error_code": CodeInsufficientBalance,
	}
}

// NewInsufficientBalanceError creates a new detailed insufficient balance error
func NewInsufficientBalanceError(userID uint64, operation, requested, available string) error {
	return &InsufficientBalanceError{
		UserID:    userID,
		Operation: operation,
		Requested: requested,
		Available: available,
	}
}

// InvalidParameterError names the rejected field
type InvalidParameterError struct {
	Field  string
	Reason string
}

// Error implements the error interface
func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
}

// Is checks if the target error is an ErrInvalidParameter
func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// LogFields returns a map of fields for structured logging
func (e *InvalidParameterError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "invalid_parameter",
		"field":      e.Field,
		"reason":     e.Reason,
		"error_code": CodeInvalidParameter,
	}
}

// NewInvalidParameterError creates a new invalid parameter error
func NewInvalidParameterError(field, reason string) error {
	return &InvalidParameterError{Field: field, Reason: reason}
}

// InvalidStateError describes an operation refused by the session state machine
type InvalidStateError struct {
	SessionID string
	Status    string
	Operation string
}

// Error implements the error interface
func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s session %s in status %s", e.Operation, e.SessionID, e.Status)
}

// Is checks if the target error is an ErrInvalidState
func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

// LogFields returns a map of fields for structured logging
func (e *InvalidStateError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "invalid_state",
		"session_id": e.SessionID,
		"status":     e.Status,
		"operation":  e.Operation,
		"error_code": CodeInvalidState,
	}
}

// NewInvalidStateError creates a new invalid state error
func NewInvalidStateError(sessionID, status, operation string) error {
	return &InvalidStateError{SessionID: sessionID, Status: status, Operation: operation}
}

// UpstreamServiceError wraps a failure of an external collaborator
type UpstreamServiceError struct {
	Service string
	Err     error
}

// Error implements the error interface
func (e *UpstreamServiceError) Error() string {
	return fmt.Sprintf("%s service failed: %v", e.Service, e.Err)
}

// Unwrap returns the underlying error
func (e *UpstreamServiceError) Unwrap() error {
	return e.Err
}

// Is checks if the target error is an ErrUpstreamService
func (e *UpstreamServiceError) Is(target error) bool {
	return target == ErrUpstreamService
}

// LogFields returns a map of fields for structured logging
func (e *UpstreamServiceError) LogFields() map[string]any {
	fields := map[string]any{
		"error_type": "upstream_service",
		"service":    e.Service,
		"error_code": CodeUpstreamService,
	}
	if e.Err != nil {
		fields["error"] = e.Err.Error()
	}
	return fields
}

// NewUpstreamServiceError creates a new upstream service error
func NewUpstreamServiceError(service string, err error) error {
	return &UpstreamServiceError{Service: service, Err: err}
}

// LogFields returns the structured fields of a typed error, or a plain error field
func LogFields(err error) map[string]any {
	var withFields interface{ LogFields() map[string]any }
	if errors.As(err, &withFields) {
		return withFields.LogFields()
	}
	return map[string]any{
		"error":      err.Error(),
		"error_code": ErrorCode(err),
	}
}

// IsInsufficientBalanceError checks if the error is related to insufficient balance
func IsInsufficientBalanceError(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}

// IsInvalidParameterError checks if the error is a validation failure
func IsInvalidParameterError(err error) bool {
	return errors.Is(err, ErrInvalidParameter)
}

// IsInvalidStateError checks if the error comes from the session state machine
func IsInvalidStateError(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// IsUpstreamServiceError checks if the error comes from an external collaborator
func IsUpstreamServiceError(err error) bool {
	return errors.Is(err, ErrUpstreamService)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrWalletNotFound) ||
		errors.Is(err, ErrTransactionNotFound)
}

// IsTransientError reports whether retrying the whole unit of work may succeed
func IsTransientError(err error) bool {
	return errors.Is(err, ErrConcurrentUpdate) ||
		errors.Is(err, ErrDuplicateKey) ||
		errors.Is(err, ErrDuplicateWallet)
}

// Outcome names the class of an operation result for metrics labels
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, ErrInvalidParameter):
		return "invalid_parameter"
	case IsNotFoundError(err):
		return "not_found"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case IsTransientError(err):
		return "conflict"
	case errors.Is(err, ErrUpstreamService):
		return "upstream_error"
	default:
		return "error"
	}
}
