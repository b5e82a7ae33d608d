package assessment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	coreport "github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/gateway"
)

var _ gateway.Assessor = (*HTTPAssessor)(nil)

// maxErrorBody caps how much of a failed response is kept for logging
const maxErrorBody = 1 << 10

type assessRequest struct {
	SessionID string `json:"session_id"`
	Track     string `json:"track"`
	Language  string `json:"language"`
	Prompt    string `json:"prompt"`
	Answer    string `json:"answer"`
}

type assessResponse struct {
	Overall   *int           `json:"overall"`
	SubScores map[string]int `json:"sub_scores"`
	Feedback  string         `json:"feedback"`
}

// HTTPAssessor scores answers through a remote JSON endpoint
type HTTPAssessor struct {
	client   *http.Client
	endpoint string
	apiKey   string
	logger   coreport.Logger
}

// NewHTTPAssessor creates an assessor posting to endpoint. Each call is bounded by timeout
// in addition to any deadline on the caller's context.
func NewHTTPAssessor(endpoint, apiKey string, timeout time.Duration, logger coreport.Logger) *HTTPAssessor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPAssessor{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
		apiKey:   apiKey,
		logger:   logger,
	}
}

// Assess implements gateway.Assessor
func (a *HTTPAssessor) Assess(ctx context.Context, req gateway.AssessmentRequest) (*gateway.Assessment, error) {
	payload, err := json.Marshal(assessRequest{
		SessionID: req.SessionID,
		Track:     req.Track,
		Language:  req.Language,
		Prompt:    req.Prompt,
		Answer:    req.Answer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode assessment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build assessment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("assessment request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		a.logger.Error("Assessment service error", map[string]any{
			"status_code": resp.StatusCode,
			"body":        string(body),
			"session_id":  req.SessionID,
		})
		return nil, fmt.Errorf("assessment service returned status %d", resp.StatusCode)
	}

	var result assessResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse assessment response: %w", err)
	}
	if result.Overall == nil {
		return nil, fmt.Errorf("assessment response has no overall score")
	}

	return &gateway.Assessment{
		Overall:   *result.Overall,
		SubScores: result.SubScores,
		Feedback:  result.Feedback,
	}, nil
}
