package handler

import (
	"net/http"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/usecase"
	sessionuc "github.com/amirhossein-jamali/coaching-wallet/internal/domain/usecase/session"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SessionHandler handles coaching session requests
type SessionHandler struct {
	sessionUseCase usecase.SessionUseCase
	logger         coreport.Logger
}

// NewSessionHandler creates a new session handler instance
func NewSessionHandler(sessionUseCase usecase.SessionUseCase, logger coreport.Logger) *SessionHandler {
	return &SessionHandler{
		sessionUseCase: sessionUseCase,
		logger:         logger,
	}
}

// StartSession handles the POST /user/{userId}/sessions endpoint
func (h *SessionHandler) StartSession(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var req dto.StartSessionRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	view, err := h.sessionUseCase.StartSession(c.Request.Context(), usecase.StartSessionRequest{
		UserID:           userID,
		ActivityType:     req.ActivityType,
		EstimatedMinutes: req.EstimatedDurationMinutes,
		Track:            req.Params.Track,
		Language:         req.Params.Language,
		VideoID:          req.Params.VideoID,
		Extras:           req.Params.Extras,
	})
	if err != nil {
		respondError(c, h.logger, "Error starting session", err)
		return
	}

	resp := toSessionResponse(view.Session)
	resp.ReservedAmount = entity.FormatAmount(view.ReservedAmount)
	resp.AvailableBalance = entity.FormatAmount(view.AvailableBalance)
	c.JSON(http.StatusCreated, resp)
}

// GetSession handles the GET /user/{userId}/sessions/{sessionId} endpoint
func (h *SessionHandler) GetSession(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	session, err := h.sessionUseCase.GetSession(c.Request.Context(), c.Param("sessionId"), userID)
	if err != nil {
		respondError(c, h.logger, "Error getting session", err)
		return
	}

	c.JSON(http.StatusOK, toSessionResponse(session))
}

// ListSessions handles the GET /user/{userId}/sessions endpoint
func (h *SessionHandler) ListSessions(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	limit, err := queryInt(c, "limit")
	if err != nil {
		respondError(c, h.logger, "Invalid session listing", err)
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		respondError(c, h.logger, "Invalid session listing", err)
		return
	}
	if limit == 0 {
		limit = sessionuc.DefaultPageSize
	}

	status := c.Query("status")
	sessions, err := h.sessionUseCase.ListSessions(c.Request.Context(), usecase.ListSessionsRequest{
		UserID: userID,
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondError(c, h.logger, "Error listing sessions", err)
		return
	}

	items := make([]dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		items = append(items, toSessionResponse(session))
	}

	c.JSON(http.StatusOK, dto.SessionListResponse{
		UserID:   userID,
		Status:   status,
		Limit:    limit,
		Offset:   offset,
		Sessions: items,
	})
}

// EstimateCost handles the GET /pricing/estimate endpoint
func (h *SessionHandler) EstimateCost(c *gin.Context) {
	minutes, err := queryInt(c, "duration_minutes")
	if err != nil {
		respondError(c, h.logger, "Invalid cost estimate", err)
		return
	}

	estimate, err := h.sessionUseCase.EstimateCost(c.Request.Context(), c.Query("activity_type"), minutes)
	if err != nil {
		respondError(c, h.logger, "Error estimating cost", err)
		return
	}

	c.JSON(http.StatusOK, dto.CostEstimateResponse{
		ActivityType:             string(estimate.ActivityType),
		EstimatedDurationMinutes: estimate.EstimatedMinutes,
		RatePerMinute:            entity.FormatAmount(estimate.RatePerMinute),
		EstimatedCost:            entity.FormatAmount(estimate.Cost),
	})
}

// Interact handles the POST /user/{userId}/sessions/{sessionId}/interact endpoint
func (h *SessionHandler) Interact(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var req dto.InteractRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	interaction := usecase.InteractRequest{
		SessionID:       c.Param("sessionId"),
		UserID:          userID,
		EventIndex:      req.EventIndex,
		Answer:          req.Answer,
		PositionSeconds: req.PositionSeconds,
	}
	if req.ProgressPercent != "" {
		// the binding already checked the format
		percent := decimal.RequireFromString(req.ProgressPercent)
		interaction.ProgressPercent = &percent
	}

	result, err := h.sessionUseCase.Interact(c.Request.Context(), interaction)
	if err != nil {
		respondError(c, h.logger, "Error recording interaction", err)
		return
	}

	resp := dto.InteractResponse{
		SessionID: result.SessionID,
		Status:    string(result.Status),
		Score:     result.Score,
		SubScores: result.SubScores,
		Feedback:  result.Feedback,
	}
	if result.ProgressPercent != nil {
		resp.ProgressPercent = entity.FormatAmount(*result.ProgressPercent)
	}
	c.JSON(http.StatusOK, resp)
}

// CompleteSession handles the POST /user/{userId}/sessions/{sessionId}/complete endpoint
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	// An empty body completes with the defaults
	var req dto.CompleteSessionRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, h.logger, &req) {
		return
	}

	completion := usecase.CompleteSessionRequest{
		SessionID:             c.Param("sessionId"),
		UserID:                userID,
		ActualDurationMinutes: req.ActualDurationMinutes,
	}
	if req.CompletionPercent != "" {
		percent := decimal.RequireFromString(req.CompletionPercent)
		completion.CompletionPercent = &percent
	}

	settlement, err := h.sessionUseCase.CompleteSession(c.Request.Context(), completion)
	if err != nil {
		respondError(c, h.logger, "Error completing session", err)
		return
	}

	resp := toSettlementResponse(settlement)
	resp.CompletedAt = &settlement.SettledAt
	c.JSON(http.StatusOK, resp)
}

// CancelSession handles the POST /user/{userId}/sessions/{sessionId}/cancel endpoint
func (h *SessionHandler) CancelSession(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	settlement, err := h.sessionUseCase.CancelSession(c.Request.Context(), c.Param("sessionId"), userID)
	if err != nil {
		respondError(c, h.logger, "Error cancelling session", err)
		return
	}

	resp := toSettlementResponse(settlement)
	resp.CancelledAt = &settlement.SettledAt
	c.JSON(http.StatusOK, resp)
}

func toSessionResponse(s *entity.Session) dto.SessionResponse {
	resp := dto.SessionResponse{
		SessionID:       s.ID,
		UserID:          s.UserID,
		ActivityType:    string(s.ActivityType),
		Status:          string(s.Status),
		DurationMinutes: s.DurationMinutes.String(),
		Cost:            entity.FormatAmount(s.Cost),
		ReservedAt:      s.ReservedAt,
		StartedAt:       s.StartedAt,
		CompletedAt:     s.CompletedAt,
		CancelledAt:     s.CancelledAt,
	}
	if s.Status.IsOpen() {
		resp.ReservedAmount = entity.FormatAmount(s.Cost)
	}

	if transcript, ok := s.Metadata.Transcript(); ok {
		resp.Timeline = transcript.Timeline
		if len(transcript.Answers) > 0 {
			avg := transcript.AverageScore()
			resp.AverageScore = &avg
		}
	}
	if voice, ok := s.Metadata.Voice(); ok {
		resp.Track = voice.Track
		resp.Language = voice.Language
	}
	if video, ok := s.Metadata.Video(); ok {
		resp.VideoURL = video.VideoURL
		resp.ProgressPercent = entity.FormatAmount(video.ProgressPercent)
	}
	return resp
}

func toSettlementResponse(s *usecase.SettlementView) dto.SettlementResponse {
	return dto.SettlementResponse{
		SessionID:           s.SessionID,
		Status:              string(s.Status),
		ReservedAmount:      entity.FormatAmount(s.ReservedAmount),
		ActualCost:          entity.FormatAmount(s.ActualCost),
		RefundAmount:        entity.FormatAmount(s.RefundAmount),
		ActualMinutes:       s.ActualMinutes.String(),
		ChargeTransactionID: s.ChargeTransactionID,
		RefundTransactionID: s.RefundTransactionID,
	}
}
