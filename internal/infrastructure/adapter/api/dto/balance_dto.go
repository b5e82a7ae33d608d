package dto

// BalanceResponse represents the API response for a user's balance
type BalanceResponse struct {
	UserID           uint64 `json:"user_id"`
	Balance          string `json:"balance"`
	ReservedBalance  string `json:"reserved_balance"`
	AvailableBalance string `json:"available_balance"`
	Currency         string `json:"currency"`
}

// TopUpRequest represents the API request for crediting a wallet.
// The idempotency_key bound matches wallet.MaxIdempotencyKeyLength.
type TopUpRequest struct {
	Amount          string `json:"amount" binding:"required,amount"`
	PaymentMethodID string `json:"payment_method_id" binding:"required,max=64"`
	IdempotencyKey  string `json:"idempotency_key" binding:"omitempty,max=128"`
}

// TopUpResponse represents the API response for a processed top-up
type TopUpResponse struct {
	TransactionID      string `json:"transaction_id"`
	Amount             string `json:"amount"`
	BonusAmount        string `json:"bonus_amount"`
	BonusPercentage    string `json:"bonus_percentage"`
	TotalAmount        string `json:"total_amount"`
	BalanceBefore      string `json:"balance_before"`
	BalanceAfter       string `json:"balance_after"`
	BonusTransactionID string `json:"bonus_transaction_id,omitempty"`
	Replayed           bool   `json:"replayed,omitempty"`
}
