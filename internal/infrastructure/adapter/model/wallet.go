package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet represents the database model for wallets
type Wallet struct {
	ID              string          `gorm:"primaryKey;size:36"`
	UserID          uint64          `gorm:"not null;uniqueIndex:idx_wallets_user_id"`
	Balance         decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0;check:chk_wallets_balance_covers_reserved,balance >= reserved_balance"`
	ReservedBalance decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0;check:chk_wallets_reserved_non_negative,reserved_balance >= 0"`
	Currency        string          `gorm:"size:3;not null"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName specifies the table name for Wallet
func (Wallet) TableName() string {
	return "wallets"
}
