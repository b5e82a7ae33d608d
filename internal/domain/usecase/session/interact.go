package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/usecase"
	"github.com/shopspring/decimal"
)

// MaxAnswerLength bounds an answer transcript
const MaxAnswerLength = 4000

// VideoAssessmentTrack is the track sent to the assessor for in-video questions
const VideoAssessmentTrack = "video"

const assessmentService = "assessment"

// answerContext is what the assessor needs to know about the session besides the prompt
type answerContext struct {
	track         string
	language      string
	questionsOnly bool
}

// Interact records an answer to a timeline event or video progress. It touches session
// metadata only. The assessor runs outside the storage transaction; the session status
// is re-checked under the row lock before anything is written.
func (u *SessionUseCase) Interact(ctx context.Context, req usecase.InteractRequest) (*usecase.InteractionResult, error) {
	if err := validateRef(req.SessionID, req.UserID); err != nil {
		return nil, err
	}

	session, err := u.uow.GetSessionRepository(ctx).Get(ctx, req.SessionID, req.UserID)
	if err != nil {
		return nil, err
	}
	if err := session.EnsureOpen("interact"); err != nil {
		return nil, err
	}

	switch state := session.Metadata.State.(type) {
	case *entity.VoiceState:
		if req.EventIndex == nil {
			return nil, errs.NewInvalidParameterError("event_index", "required for voice sessions")
		}
		return u.answer(ctx, session, &state.Transcript, answerContext{track: state.Track, language: state.Language}, req)
	case *entity.VideoState:
		if req.EventIndex == nil {
			return u.progress(ctx, req)
		}
		if req.ProgressPercent != nil {
			return nil, errs.NewInvalidParameterError("progress_percent", "cannot be sent together with event_index")
		}
		return u.answer(ctx, session, &state.Transcript,
			answerContext{track: VideoAssessmentTrack, language: entity.DefaultLanguage, questionsOnly: true}, req)
	default:
		return nil, fmt.Errorf("%w: session %s has no activity state", errs.ErrInternalServer, session.ID)
	}
}

func (u *SessionUseCase) answer(
	ctx context.Context,
	session *entity.Session,
	transcript *entity.Transcript,
	actx answerContext,
	req usecase.InteractRequest,
) (*usecase.InteractionResult, error) {
	event, ok := transcript.Event(*req.EventIndex)
	if !ok {
		return nil, errs.NewInvalidParameterError("event_index",
			fmt.Sprintf("must be between 0 and %d", len(transcript.Timeline)-1))
	}
	if actx.questionsOnly && event.Type != entity.TimelineQuestion {
		return nil, errs.NewInvalidParameterError("event_index",
			fmt.Sprintf("event %d is a %s prompt, not a question", event.Index, event.Type))
	}
	answer := strings.TrimSpace(req.Answer)
	if answer == "" {
		return nil, errs.NewInvalidParameterError("answer", "empty value")
	}
	if len(answer) > MaxAnswerLength {
		return nil, errs.NewInvalidParameterError("answer", fmt.Sprintf("longer than %d characters", MaxAnswerLength))
	}

	assessCtx, cancel := u.timeProvider.WithTimeout(ctx, coreport.Duration(u.settings.AssessmentTimeout))
	defer cancel()

	assessment, err := u.assessor.Assess(assessCtx, gateway.AssessmentRequest{
		SessionID: session.ID,
		Track:     actx.track,
		Language:  actx.language,
		Prompt:    event.Prompt,
		Answer:    answer,
	})
	if err == nil {
		err = validateAssessment(assessment)
	}
	if err != nil {
		u.logger.Warn("Assessment failed, answer not recorded", map[string]any{
			"sessionId":  session.ID,
			"eventIndex": event.Index,
			"error":      err.Error(),
		})
		return nil, errs.NewUpstreamServiceError(assessmentService, err)
	}

	var status entity.SessionStatus
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		repo := u.uow.GetSessionRepository(txCtx)
		locked, err := repo.GetForUpdate(txCtx, req.SessionID, req.UserID)
		if err != nil {
			return err
		}

		from := locked.Status
		if err := locked.Activate(u.timeProvider); err != nil {
			return err
		}
		stored, ok := locked.Metadata.Transcript()
		if !ok {
			return fmt.Errorf("%w: session %s lost its activity state", errs.ErrInternalServer, locked.ID)
		}
		stored.RecordAnswer(entity.RecordedAnswer{
			EventIndex: event.Index,
			Answer:     answer,
			Overall:    assessment.Overall,
			SubScores:  assessment.SubScores,
			Feedback:   assessment.Feedback,
			RecordedAt: u.timeProvider.Now(),
		})

		if err := repo.Update(txCtx, locked); err != nil {
			return err
		}
		u.transitioned(locked, from)
		status = locked.Status
		return nil
	})
	if err != nil {
		return nil, err
	}

	score := assessment.Overall
	return &usecase.InteractionResult{
		SessionID: req.SessionID,
		Status:    status,
		Score:     &score,
		SubScores: assessment.SubScores,
		Feedback:  assessment.Feedback,
	}, nil
}

func validateAssessment(a *gateway.Assessment) error {
	if a == nil {
		return fmt.Errorf("empty assessment")
	}
	if a.Overall < 0 || a.Overall > 100 {
		return fmt.Errorf("overall score %d outside 0-100", a.Overall)
	}
	for name, score := range a.SubScores {
		if score < 0 || score > 100 {
			return fmt.Errorf("sub-score %s=%d outside 0-100", name, score)
		}
	}
	return nil
}

func (u *SessionUseCase) progress(ctx context.Context, req usecase.InteractRequest) (*usecase.InteractionResult, error) {
	if req.ProgressPercent == nil {
		return nil, errs.NewInvalidParameterError("progress_percent", "required for video sessions unless event_index is sent")
	}
	if err := validatePercent("progress_percent", *req.ProgressPercent); err != nil {
		return nil, err
	}
	if req.PositionSeconds < 0 {
		return nil, errs.NewInvalidParameterError("position_seconds", "cannot be negative")
	}

	var result *usecase.InteractionResult
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		repo := u.uow.GetSessionRepository(txCtx)
		locked, err := repo.GetForUpdate(txCtx, req.SessionID, req.UserID)
		if err != nil {
			return err
		}

		from := locked.Status
		if err := locked.Activate(u.timeProvider); err != nil {
			return err
		}
		video, ok := locked.Metadata.Video()
		if !ok {
			return fmt.Errorf("%w: session %s lost its video state", errs.ErrInternalServer, locked.ID)
		}
		video.Advance(entity.RoundAmount(*req.ProgressPercent), req.PositionSeconds)

		if err := repo.Update(txCtx, locked); err != nil {
			return err
		}
		u.transitioned(locked, from)

		progress := video.ProgressPercent
		result = &usecase.InteractionResult{
			SessionID:       locked.ID,
			Status:          locked.Status,
			ProgressPercent: &progress,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func validatePercent(field string, percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return errs.NewInvalidParameterError(field, "must be between 0 and 100")
	}
	return nil
}
