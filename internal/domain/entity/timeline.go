package entity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// QuestionIntervalMinutes is the spacing between planned voice prompts
const QuestionIntervalMinutes = 5

// DefaultTrack and DefaultLanguage apply when a voice session omits them
const (
	DefaultTrack    = "general"
	DefaultLanguage = "en"
)

var trackPrompts = map[string][]string{
	"general": {
		"Tell me about something you learned this week.",
		"Describe a place you would like to visit and why.",
		"What is a habit you want to build, and how will you start?",
		"Explain a hobby of yours to someone who has never tried it.",
	},
	"interview": {
		"Walk me through your most recent role.",
		"Describe a conflict at work and how you resolved it.",
		"What is a project you are proud of?",
		"Where do you see yourself in three years?",
	},
	"presentation": {
		"Open your talk with a one-minute hook.",
		"Summarize your main argument in three sentences.",
		"Answer a skeptical question from the audience.",
		"Close your talk with a clear call to action.",
	},
	"pronunciation": {
		"Read aloud: the quick brown fox jumps over the lazy dog.",
		"Describe your morning routine slowly and clearly.",
		"Repeat a tongue twister of your choice three times.",
		"Tell a short story using at least five past-tense verbs.",
	},
}

// Tracks returns the supported voice tracks in sorted order
func Tracks() []string {
	tracks := make([]string, 0, len(trackPrompts))
	for t := range trackPrompts {
		tracks = append(tracks, t)
	}
	sort.Strings(tracks)
	return tracks
}

// NewVoiceState plans the timeline of a voice session: a warmup, one question every
// QuestionIntervalMinutes, and a wrapup in the final minute.
func NewVoiceState(track, language string, durationMinutes int) (*VoiceState, error) {
	track = strings.ToLower(strings.TrimSpace(track))
	if track == "" {
		track = DefaultTrack
	}
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		language = DefaultLanguage
	}

	prompts, ok := trackPrompts[track]
	if !ok {
		return nil, fmt.Errorf("unknown track %q, expected one of %s", track, strings.Join(Tracks(), ", "))
	}

	timeline := []TimelineEvent{{
		Index:    0,
		AtMinute: 0,
		Type:     TimelineWarmup,
		Prompt:   "Introduce yourself and tell me what you want to practice today.",
	}}

	for minute, n := QuestionIntervalMinutes, 0; minute < durationMinutes; minute, n = minute+QuestionIntervalMinutes, n+1 {
		timeline = append(timeline, TimelineEvent{
			Index:    len(timeline),
			AtMinute: minute,
			Type:     TimelineQuestion,
			Prompt:   prompts[n%len(prompts)],
		})
	}

	wrapAt := durationMinutes - 1
	if wrapAt < 0 {
		wrapAt = 0
	}
	timeline = append(timeline, TimelineEvent{
		Index:    len(timeline),
		AtMinute: wrapAt,
		Type:     TimelineWrapup,
		Prompt:   "Summarize what you practiced and one thing you will improve.",
	})

	return &VoiceState{
		Track:      track,
		Language:   language,
		Transcript: Transcript{Timeline: timeline, Answers: []RecordedAnswer{}},
	}, nil
}

// VideoFirstPromptMinute is when the first in-video prompt appears
const VideoFirstPromptMinute = 2

var videoQuestions = []string{
	"What was the main idea of the part you just watched?",
	"Which example from the video would you use yourself, and why?",
	"Restate the last key point in your own words.",
	"What would you ask the speaker about this section?",
}

var videoPractice = []string{
	"Pause and repeat the last sentence aloud.",
	"Shadow the speaker for the next thirty seconds.",
	"Write down two new words you heard.",
}

// NewVideoState plans the in-video prompts of a video session. Questions and practice
// prompts alternate every QuestionIntervalMinutes from VideoFirstPromptMinute on. A video
// too short for that still gets a single question at its start.
func NewVideoState(videoID, videoURL string, durationMinutes int) *VideoState {
	timeline := []TimelineEvent{}
	for minute, n := VideoFirstPromptMinute, 0; minute < durationMinutes; minute, n = minute+QuestionIntervalMinutes, n+1 {
		event := TimelineEvent{Index: len(timeline), AtMinute: minute}
		if n%2 == 0 {
			event.Type = TimelineQuestion
			event.Prompt = videoQuestions[(n/2)%len(videoQuestions)]
		} else {
			event.Type = TimelinePractice
			event.Prompt = videoPractice[(n/2)%len(videoPractice)]
		}
		timeline = append(timeline, event)
	}
	if len(timeline) == 0 {
		timeline = append(timeline, TimelineEvent{Type: TimelineQuestion, Prompt: videoQuestions[0]})
	}

	return &VideoState{
		VideoID:         videoID,
		VideoURL:        videoURL,
		ProgressPercent: decimal.Zero,
		Transcript:      Transcript{Timeline: timeline, Answers: []RecordedAnswer{}},
	}
}
