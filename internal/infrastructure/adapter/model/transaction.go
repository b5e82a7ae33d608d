package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents the database model for ledger rows.
// Rows are inserted once and never updated.
type Transaction struct {
	ID              string          `gorm:"primaryKey;size:36"`
	WalletID        string          `gorm:"not null;size:36;index"`
	UserID          uint64          `gorm:"not null;index:idx_transactions_user_created,priority:1;uniqueIndex:idx_transactions_user_idempotency,priority:1"`
	Type            string          `gorm:"not null;size:20"`
	Amount          decimal.Decimal `gorm:"type:numeric(20,2);not null;check:chk_transactions_amount_positive,amount > 0"`
	BalanceBefore   decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	BalanceAfter    decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	SessionID       *string         `gorm:"size:36;index"`
	PaymentMethodID *string         `gorm:"size:255"`
	IdempotencyKey  *string         `gorm:"size:128;uniqueIndex:idx_transactions_user_idempotency,priority:2"`
	RelatedID       *string         `gorm:"size:36;index"`
	Description     string          `gorm:"size:500"`
	CreatedAt       time.Time       `gorm:"not null;index:idx_transactions_user_created,priority:2"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
