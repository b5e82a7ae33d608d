package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ActivityState is the activity-specific part of session metadata.
// Implemented only by VoiceState and VideoState.
type ActivityState interface {
	Kind() ActivityKind
	activityState()
}

// TimelineEventType classifies a timeline entry
type TimelineEventType string

// Timeline event types
const (
	TimelineWarmup   TimelineEventType = "warmup"
	TimelineQuestion TimelineEventType = "question"
	TimelineWrapup   TimelineEventType = "wrapup"
	TimelinePractice TimelineEventType = "practice"
)

// TimelineEvent is one planned prompt of a session
type TimelineEvent struct {
	Index    int               `json:"index"`
	AtMinute int               `json:"at_minute"`
	Type     TimelineEventType `json:"type"`
	Prompt   string            `json:"prompt"`
}

// RecordedAnswer is an assessed answer to a timeline event
type RecordedAnswer struct {
	EventIndex int            `json:"event_index"`
	Answer     string         `json:"answer"`
	Overall    int            `json:"overall"`
	SubScores  map[string]int `json:"sub_scores,omitempty"`
	Feedback   string         `json:"feedback,omitempty"`
	RecordedAt time.Time      `json:"recorded_at"`
}

// Transcript is the planned timeline of a session and the answers given to it
type Transcript struct {
	Timeline []TimelineEvent  `json:"timeline"`
	Answers  []RecordedAnswer `json:"answers"`
}

// Event returns the timeline event at index
func (t *Transcript) Event(index int) (TimelineEvent, bool) {
	if index < 0 || index >= len(t.Timeline) {
		return TimelineEvent{}, false
	}
	return t.Timeline[index], true
}

// RecordAnswer appends an assessed answer, replacing an earlier answer to the same event
func (t *Transcript) RecordAnswer(answer RecordedAnswer) {
	for i := range t.Answers {
		if t.Answers[i].EventIndex == answer.EventIndex {
			t.Answers[i] = answer
			return
		}
	}
	t.Answers = append(t.Answers, answer)
}

// normalize replaces missing slices so rows written before videos carried questions read back empty
func (t *Transcript) normalize() {
	if t.Timeline == nil {
		t.Timeline = []TimelineEvent{}
	}
	if t.Answers == nil {
		t.Answers = []RecordedAnswer{}
	}
}

// AverageScore returns the mean overall score of recorded answers
func (t *Transcript) AverageScore() int {
	if len(t.Answers) == 0 {
		return 0
	}
	total := 0
	for _, a := range t.Answers {
		total += a.Overall
	}
	return total / len(t.Answers)
}

// VoiceState holds the timeline and answers of a voice-coaching session
type VoiceState struct {
	Track    string `json:"track"`
	Language string `json:"language"`
	Transcript
}

// Kind implements ActivityState
func (*VoiceState) Kind() ActivityKind { return ActivityKindVoice }

func (*VoiceState) activityState() {}

// VideoState holds playback progress and the in-video questions of a video-coaching session
type VideoState struct {
	VideoID         string          `json:"video_id"`
	VideoURL        string          `json:"video_url"`
	ProgressPercent decimal.Decimal `json:"progress_percent"`
	PositionSeconds int             `json:"position_seconds"`
	Transcript
}

// Kind implements ActivityState
func (*VideoState) Kind() ActivityKind { return ActivityKindVideo }

func (*VideoState) activityState() {}

// Advance records playback progress. Progress never moves backwards.
func (v *VideoState) Advance(percent decimal.Decimal, positionSeconds int) {
	if percent.GreaterThan(v.ProgressPercent) {
		v.ProgressPercent = percent
	}
	if positionSeconds > v.PositionSeconds {
		v.PositionSeconds = positionSeconds
	}
}

// SessionMetadata is the tagged activity state plus free-form extras
type SessionMetadata struct {
	State  ActivityState
	Extras map[string]string
}

// Voice returns the voice state when the session is a voice session
func (m SessionMetadata) Voice() (*VoiceState, bool) {
	v, ok := m.State.(*VoiceState)
	return v, ok
}

// Video returns the video state when the session is a video session
func (m SessionMetadata) Video() (*VideoState, bool) {
	v, ok := m.State.(*VideoState)
	return v, ok
}

// Transcript returns the timeline and answers of either activity
func (m SessionMetadata) Transcript() (*Transcript, bool) {
	switch state := m.State.(type) {
	case *VoiceState:
		return &state.Transcript, true
	case *VideoState:
		return &state.Transcript, true
	}
	return nil, false
}

type metadataEnvelope struct {
	Kind   ActivityKind      `json:"kind"`
	Voice  *VoiceState       `json:"voice,omitempty"`
	Video  *VideoState       `json:"video,omitempty"`
	Extras map[string]string `json:"extras,omitempty"`
}

// MarshalJSON writes the metadata with a kind discriminator
func (m SessionMetadata) MarshalJSON() ([]byte, error) {
	env := metadataEnvelope{Extras: m.Extras}
	switch state := m.State.(type) {
	case *VoiceState:
		env.Kind = ActivityKindVoice
		env.Voice = state
	case *VideoState:
		env.Kind = ActivityKindVideo
		env.Video = state
	case nil:
		return nil, fmt.Errorf("session metadata has no activity state")
	}
	return json.Marshal(env)
}

// UnmarshalJSON reads metadata written by MarshalJSON
func (m *SessionMetadata) UnmarshalJSON(data []byte) error {
	var env metadataEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	switch env.Kind {
	case ActivityKindVoice:
		if env.Voice == nil {
			env.Voice = &VoiceState{}
		}
		env.Voice.Transcript.normalize()
		m.State = env.Voice
	case ActivityKindVideo:
		if env.Video == nil {
			env.Video = &VideoState{}
		}
		env.Video.Transcript.normalize()
		m.State = env.Video
	default:
		return fmt.Errorf("unknown session metadata kind %q", string(env.Kind))
	}
	m.Extras = env.Extras
	return nil
}
