package dto

import (
	"time"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
)

// SessionParams carries the activity-specific booking options
type SessionParams struct {
	Track    string            `json:"track" binding:"omitempty,max=32"`
	Language string            `json:"language" binding:"omitempty,max=8"`
	VideoID  string            `json:"video_id" binding:"omitempty,max=64"`
	Extras   map[string]string `json:"extras"`
}

// StartSessionRequest represents the API request for booking a session
type StartSessionRequest struct {
	ActivityType             string        `json:"activity_type" binding:"required,oneof=voice_standard voice_realtime video"`
	Params                   SessionParams `json:"params"`
	EstimatedDurationMinutes int           `json:"estimated_duration_minutes" binding:"required,gt=0"`
}

// SessionResponse represents a session and the wallet state around it
type SessionResponse struct {
	SessionID        string                 `json:"session_id"`
	UserID           uint64                 `json:"user_id"`
	ActivityType     string                 `json:"activity_type"`
	Status           string                 `json:"status"`
	DurationMinutes  string                 `json:"duration_minutes"`
	ReservedAmount   string                 `json:"reserved_amount,omitempty"`
	Cost             string                 `json:"cost"`
	AvailableBalance string                 `json:"available_balance,omitempty"`
	ReservedAt       time.Time              `json:"reserved_at"`
	StartedAt        *time.Time             `json:"started_at,omitempty"`
	CompletedAt      *time.Time             `json:"completed_at,omitempty"`
	CancelledAt      *time.Time             `json:"cancelled_at,omitempty"`
	Track            string                 `json:"track,omitempty"`
	Language         string                 `json:"language,omitempty"`
	Timeline         []entity.TimelineEvent `json:"timeline,omitempty"`
	AverageScore     *int                   `json:"average_score,omitempty"`
	VideoURL         string                 `json:"video_url,omitempty"`
	ProgressPercent  string                 `json:"progress_percent,omitempty"`
}

// InteractRequest carries either an answer to a timeline event or a video progress report
type InteractRequest struct {
	EventIndex      *int   `json:"event_index" binding:"omitempty,gte=0"`
	Answer          string `json:"answer" binding:"omitempty,max=4000"`
	ProgressPercent string `json:"progress_percent" binding:"omitempty,amount"`
	PositionSeconds int    `json:"position_seconds" binding:"omitempty,gte=0"`
}

// InteractResponse represents the outcome of an interaction
type InteractResponse struct {
	SessionID       string         `json:"session_id"`
	Status          string         `json:"status"`
	Score           *int           `json:"score,omitempty"`
	SubScores       map[string]int `json:"sub_scores,omitempty"`
	Feedback        string         `json:"feedback,omitempty"`
	ProgressPercent string         `json:"progress_percent,omitempty"`
}

// CompleteSessionRequest carries the optional usage report
type CompleteSessionRequest struct {
	ActualDurationMinutes *int   `json:"actual_duration_minutes" binding:"omitempty,gte=0"`
	CompletionPercent     string `json:"completion_percent" binding:"omitempty,amount"`
}

// SettlementResponse is the receipt of a completed or cancelled session
type SettlementResponse struct {
	SessionID           string     `json:"session_id"`
	Status              string     `json:"status"`
	ReservedAmount      string     `json:"reserved_amount"`
	ActualCost          string     `json:"actual_cost"`
	RefundAmount        string     `json:"refund_amount"`
	ActualMinutes       string     `json:"actual_minutes"`
	ChargeTransactionID string     `json:"charge_transaction_id,omitempty"`
	RefundTransactionID string     `json:"refund_transaction_id,omitempty"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	CancelledAt         *time.Time `json:"cancelled_at,omitempty"`
}

// SessionListResponse represents a page of a user's sessions
type SessionListResponse struct {
	UserID   uint64            `json:"user_id"`
	Status   string            `json:"status,omitempty"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
	Sessions []SessionResponse `json:"sessions"`
}

// CostEstimateResponse represents the price of a booking before it is made
type CostEstimateResponse struct {
	ActivityType             string `json:"activity_type"`
	EstimatedDurationMinutes int    `json:"estimated_duration_minutes"`
	RatePerMinute            string `json:"rate_per_minute"`
	EstimatedCost            string `json:"estimated_cost"`
}
