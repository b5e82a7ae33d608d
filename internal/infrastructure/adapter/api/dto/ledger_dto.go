package dto

import "time"

// TransactionItem is one ledger row
type TransactionItem struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Amount          string    `json:"amount"`
	BalanceBefore   string    `json:"balance_before"`
	BalanceAfter    string    `json:"balance_after"`
	SessionID       string    `json:"session_id,omitempty"`
	PaymentMethodID string    `json:"payment_method_id,omitempty"`
	RelatedID       string    `json:"related_id,omitempty"`
	Description     string    `json:"description,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// TransactionListResponse is a page of ledger rows, newest first
type TransactionListResponse struct {
	UserID       uint64            `json:"user_id"`
	Type         string            `json:"transaction_type,omitempty"`
	Limit        int               `json:"limit"`
	Offset       int               `json:"offset"`
	Transactions []TransactionItem `json:"transactions"`
}
