package assessment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/logger"
)

func TestHTTPAssessor_Assess(t *testing.T) {
	// Arrange
	var received assessRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"overall":72,"sub_scores":{"fluency":18,"relevance":20},"feedback":"Good"}`))
	}))
	defer server.Close()

	assessor := NewHTTPAssessor(server.URL, "secret", time.Second, logger.NewNoopLogger())

	// Act
	result, err := assessor.Assess(context.Background(), gateway.AssessmentRequest{
		SessionID: "s-1",
		Track:     "interview",
		Language:  "en",
		Prompt:    "Walk me through your most recent role.",
		Answer:    "I led a team of four engineers.",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 72, result.Overall)
	assert.Equal(t, 18, result.SubScores["fluency"])
	assert.Equal(t, "Good", result.Feedback)
	assert.Equal(t, "s-1", received.SessionID)
	assert.Equal(t, "interview", received.Track)
	assert.Equal(t, "I led a team of four engineers.", received.Answer)
}

func TestHTTPAssessor_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("overloaded"))
	}))
	defer server.Close()

	rec := logger.NewRecordingLogger()
	assessor := NewHTTPAssessor(server.URL, "", time.Second, rec)

	result, err := assessor.Assess(context.Background(), gateway.AssessmentRequest{SessionID: "s-1", Answer: "hello"})

	assert.Nil(t, result)
	assert.ErrorContains(t, err, "status 503")
	assert.NotEmpty(t, rec.Messages(core.LogLevelError))
}

func TestHTTPAssessor_MissingOverall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"feedback":"no score"}`))
	}))
	defer server.Close()

	assessor := NewHTTPAssessor(server.URL, "", time.Second, logger.NewNoopLogger())

	_, err := assessor.Assess(context.Background(), gateway.AssessmentRequest{Answer: "hello"})

	assert.ErrorContains(t, err, "no overall score")
}

func TestHTTPAssessor_ContextDeadline(t *testing.T) {
	// Arrange
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	assessor := NewHTTPAssessor(server.URL, "", 5*time.Second, logger.NewNoopLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// Act
	_, err := assessor.Assess(ctx, gateway.AssessmentRequest{Answer: "hello"})

	// Assert
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
