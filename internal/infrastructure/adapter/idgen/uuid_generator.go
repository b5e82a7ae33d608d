package idgen

import (
	"github.com/google/uuid"

	coreport "github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
)

var _ coreport.IDGenerator = (*UUIDGenerator)(nil)

// UUIDGenerator issues random version 4 UUIDs
type UUIDGenerator struct{}

// NewUUIDGenerator creates a new UUIDGenerator
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewID returns a new UUID in its canonical string form
func (g *UUIDGenerator) NewID() string {
	return uuid.New().String()
}

// IsValid reports whether id parses as a UUID
func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
