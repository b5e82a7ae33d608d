package gateway

import "context"

// AssessmentRequest is the answer to score plus the context it was given in
type AssessmentRequest struct {
	SessionID string
	Track     string
	Language  string
	Prompt    string
	Answer    string
}

// Assessment is the opaque scorer's verdict. Scores are within [0,100].
type Assessment struct {
	Overall   int
	SubScores map[string]int
	Feedback  string
}

// Assessor scores answers given during voice-coaching sessions.
// Calls are blocking and may fail; they never touch the wallet.
type Assessor interface {
	Assess(ctx context.Context, req AssessmentRequest) (*Assessment, error)
}
