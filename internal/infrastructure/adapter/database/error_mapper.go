package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainErr "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	"gorm.io/gorm"
)

// EntityType represents the type of entity for errors mapping
type EntityType string

const (
	// EntityTypeWallet represents the wallet entity
	EntityTypeWallet EntityType = "wallet"
	// EntityTypeTransaction represents the ledger transaction entity
	EntityTypeTransaction EntityType = "transaction"
	// EntityTypeSession represents the coaching session entity
	EntityTypeSession EntityType = "session"
)

// ErrorMapper maps raw database errors that escape the repositories
// (begin, commit, exhausted retries) to domain errors.
// Errors that already carry a domain sentinel pass through unchanged.
type ErrorMapper struct{}

// NewErrorMapper creates a new ErrorMapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{}
}

// MapError maps a database error to a domain error
func (m *ErrorMapper) MapError(err error, operation string) error {
	if err == nil {
		return nil
	}
	if isDomainError(err) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr.ErrSessionNotFound
	}

	errMsg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errMsg, "deadlock") ||
		strings.Contains(errMsg, "serialization") ||
		strings.Contains(errMsg, "could not serialize") ||
		strings.Contains(errMsg, "database is locked") ||
		strings.Contains(errMsg, "lock timeout"):
		return fmt.Errorf("%w: %s", domainErr.ErrConcurrentUpdate, operation)

	case strings.Contains(errMsg, "duplicate key") ||
		strings.Contains(errMsg, "unique constraint"):
		return fmt.Errorf("%w: %s", domainErr.ErrDuplicateKey, operation)

	case strings.Contains(errMsg, "check constraint") ||
		strings.Contains(errMsg, "foreign key constraint"):
		return fmt.Errorf("%w: %s", domainErr.ErrConstraintViolation, operation)

	case strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "no connection") ||
		strings.Contains(errMsg, "connection reset"):
		return domainErr.ErrDatabaseConnection

	case strings.Contains(errMsg, "timeout"):
		return fmt.Errorf("%w: %s operation timed out", domainErr.ErrDatabaseConnection, operation)

	default:
		return fmt.Errorf("%w: %s: %s", domainErr.ErrInternalServer, operation, err.Error())
	}
}

// MapEntityNotFoundError maps database errors to specific entity not found errors
func (m *ErrorMapper) MapEntityNotFoundError(err error, entityType EntityType) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		switch entityType {
		case EntityTypeWallet:
			return domainErr.ErrWalletNotFound
		case EntityTypeTransaction:
			return domainErr.ErrTransactionNotFound
		case EntityTypeSession:
			return domainErr.ErrSessionNotFound
		}
	}

	return m.MapError(err, string(entityType))
}

var domainSentinels = []error{
	domainErr.ErrInsufficientBalance,
	domainErr.ErrInvalidParameter,
	domainErr.ErrSessionNotFound,
	domainErr.ErrWalletNotFound,
	domainErr.ErrTransactionNotFound,
	domainErr.ErrInvalidState,
	domainErr.ErrUpstreamService,
	domainErr.ErrConcurrentUpdate,
	domainErr.ErrDuplicateWallet,
	domainErr.ErrDuplicateKey,
	domainErr.ErrConstraintViolation,
	domainErr.ErrDatabaseConnection,
	domainErr.ErrInternalServer,
}

func isDomainError(err error) bool {
	for _, sentinel := range domainSentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
