package handler

import (
	"net/http"
	"strconv"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/usecase"
	walletuc "github.com/amirhossein-jamali/coaching-wallet/internal/domain/usecase/wallet"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// WalletHandler handles balance, top-up and ledger requests
type WalletHandler struct {
	walletUseCase usecase.WalletUseCase
	logger        coreport.Logger
}

// NewWalletHandler creates a new wallet handler instance
func NewWalletHandler(walletUseCase usecase.WalletUseCase, logger coreport.Logger) *WalletHandler {
	return &WalletHandler{
		walletUseCase: walletUseCase,
		logger:        logger,
	}
}

// GetBalance handles the GET /user/{userId}/balance endpoint
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	result, err := h.walletUseCase.GetBalance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, "Error getting wallet balance", err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		UserID:           result.UserID,
		Balance:          entity.FormatAmount(result.Balance),
		ReservedBalance:  entity.FormatAmount(result.ReservedBalance),
		AvailableBalance: entity.FormatAmount(result.AvailableBalance),
		Currency:         result.Currency,
	})
}

// TopUp handles the POST /user/{userId}/topup endpoint
func (h *WalletHandler) TopUp(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var req dto.TopUpRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	// The header wins over the body so retries can reuse the same payload
	idempotencyKey := req.IdempotencyKey
	if header := c.GetHeader("Idempotency-Key"); header != "" {
		idempotencyKey = header
	}

	result, err := h.walletUseCase.TopUp(c.Request.Context(), usecase.TopUpRequest{
		UserID:          userID,
		Amount:          req.Amount,
		PaymentMethodID: req.PaymentMethodID,
		IdempotencyKey:  idempotencyKey,
	})
	if err != nil {
		respondError(c, h.logger, "Error processing top-up", err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	c.JSON(status, dto.TopUpResponse{
		TransactionID:      result.TransactionID,
		Amount:             entity.FormatAmount(result.Amount),
		BonusAmount:        entity.FormatAmount(result.BonusAmount),
		BonusPercentage:    entity.FormatAmount(result.BonusPercentage),
		TotalAmount:        entity.FormatAmount(result.TotalAmount),
		BalanceBefore:      entity.FormatAmount(result.BalanceBefore),
		BalanceAfter:       entity.FormatAmount(result.BalanceAfter),
		BonusTransactionID: result.BonusTransactionID,
		Replayed:           result.Replayed,
	})
}

// ListTransactions handles the GET /user/{userId}/transactions endpoint
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	limit, err := queryInt(c, "limit")
	if err != nil {
		respondError(c, h.logger, "Invalid transaction listing", err)
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		respondError(c, h.logger, "Invalid transaction listing", err)
		return
	}

	if limit == 0 {
		limit = walletuc.DefaultPageSize
	}

	txType := c.Query("transaction_type")
	rows, err := h.walletUseCase.ListTransactions(c.Request.Context(), usecase.ListTransactionsRequest{
		UserID: userID,
		Type:   txType,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondError(c, h.logger, "Error listing transactions", err)
		return
	}

	items := make([]dto.TransactionItem, 0, len(rows))
	for _, tx := range rows {
		items = append(items, toTransactionItem(tx))
	}

	c.JSON(http.StatusOK, dto.TransactionListResponse{
		UserID:       userID,
		Type:         txType,
		Limit:        limit,
		Offset:       offset,
		Transactions: items,
	})
}

func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domainerr.NewInvalidParameterError(name, "must be an integer")
	}
	return value, nil
}

func toTransactionItem(tx *entity.Transaction) dto.TransactionItem {
	return dto.TransactionItem{
		ID:              tx.ID,
		Type:            string(tx.Type),
		Amount:          entity.FormatAmount(tx.Amount),
		BalanceBefore:   entity.FormatAmount(tx.BalanceBefore),
		BalanceAfter:    entity.FormatAmount(tx.BalanceAfter),
		SessionID:       tx.SessionID,
		PaymentMethodID: tx.PaymentMethodID,
		RelatedID:       tx.RelatedID,
		Description:     tx.Description,
		CreatedAt:       tx.CreatedAt,
	}
}
