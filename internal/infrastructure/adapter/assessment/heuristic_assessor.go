package assessment

import (
	"context"
	"strings"
	"unicode"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/gateway"
)

var _ gateway.Assessor = (*HeuristicAssessor)(nil)

// Sub-score names. Each is worth up to 25 points; together they make the overall score.
const (
	ScoreFluency    = "fluency"
	ScoreVocabulary = "vocabulary"
	ScoreStructure  = "structure"
	ScoreRelevance  = "relevance"
)

const subScoreMax = 25

// HeuristicAssessor scores answers locally from length, word variety, sentence
// structure and overlap with the prompt. It is used when no remote endpoint is configured.
type HeuristicAssessor struct{}

// NewHeuristicAssessor creates a new HeuristicAssessor
func NewHeuristicAssessor() *HeuristicAssessor {
	return &HeuristicAssessor{}
}

// Assess implements gateway.Assessor
func (h *HeuristicAssessor) Assess(ctx context.Context, req gateway.AssessmentRequest) (*gateway.Assessment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	words := tokenize(req.Answer)
	scores := map[string]int{
		ScoreFluency:    fluency(words),
		ScoreVocabulary: vocabulary(words),
		ScoreStructure:  structure(req.Answer),
		ScoreRelevance:  relevance(tokenize(req.Prompt), words),
	}

	overall := 0
	for _, s := range scores {
		overall += s
	}

	return &gateway.Assessment{
		Overall:   overall,
		SubScores: scores,
		Feedback:  feedback(scores),
	}, nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// fluency rewards answers of 40 words or more
func fluency(words []string) int {
	return clamp(len(words)*subScoreMax/40, 0, subScoreMax)
}

// vocabulary rewards the share of distinct words, scaled by how much was said
func vocabulary(words []string) int {
	if len(words) == 0 {
		return 0
	}
	distinct := make(map[string]struct{}, len(words))
	for _, w := range words {
		distinct[w] = struct{}{}
	}
	score := len(distinct) * subScoreMax / len(words)
	if len(words) < 10 {
		score = score * len(words) / 10
	}
	return clamp(score, 0, subScoreMax)
}

// structure rewards complete sentences of moderate length
func structure(text string) int {
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	complete := 0
	for _, s := range sentences {
		n := len(strings.Fields(s))
		if n >= 4 && n <= 30 {
			complete++
		}
	}
	return clamp(complete*8, 0, subScoreMax)
}

// relevance rewards reuse of the prompt's content words
func relevance(prompt, answer []string) int {
	keywords := make(map[string]struct{})
	for _, w := range prompt {
		if len(w) > 3 {
			keywords[w] = struct{}{}
		}
	}
	if len(keywords) == 0 {
		if len(answer) > 0 {
			return subScoreMax
		}
		return 0
	}

	hits := 0
	for _, w := range answer {
		if _, ok := keywords[w]; ok {
			hits++
			delete(keywords, w)
		}
	}
	return clamp(10+hits*5, 0, subScoreMax)
}

func feedback(scores map[string]int) string {
	weakest, lowest := "", subScoreMax+1
	for _, name := range []string{ScoreFluency, ScoreVocabulary, ScoreStructure, ScoreRelevance} {
		if scores[name] < lowest {
			weakest, lowest = name, scores[name]
		}
	}

	if lowest >= 20 {
		return "Great answer. Keep practicing at this level."
	}

	switch weakest {
	case ScoreFluency:
		return "Try to speak for longer and develop your ideas further."
	case ScoreVocabulary:
		return "Vary your word choice and avoid repeating the same words."
	case ScoreStructure:
		return "Use complete sentences with a clear beginning and end."
	default:
		return "Stay closer to the question and refer back to its key points."
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
