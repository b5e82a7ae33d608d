package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Session represents the database model for coaching sessions
type Session struct {
	ID              string          `gorm:"primaryKey;size:36"`
	UserID          uint64          `gorm:"not null;index"`
	ActivityType    string          `gorm:"not null;size:32"`
	DurationMinutes decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Cost            decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Status          string          `gorm:"not null;size:20;index:idx_sessions_status_reserved_at,priority:1;index:idx_sessions_status_due_at,priority:1"`
	ReservedAt      time.Time       `gorm:"not null;index:idx_sessions_status_reserved_at,priority:2"`
	StartedAt       *time.Time
	DueAt           *time.Time `gorm:"index:idx_sessions_status_due_at,priority:2"`
	CompletedAt     *time.Time
	CancelledAt     *time.Time
	TransactionID   *string        `gorm:"size:36"`
	Metadata        datatypes.JSON `gorm:"not null"`
	CreatedAt       time.Time      `gorm:"not null"`
	UpdatedAt       time.Time      `gorm:"not null"`
}

// TableName specifies the table name for Session
func (Session) TableName() string {
	return "coaching_sessions"
}
