package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"multitalent/internal/llm"
)

const (
	feedbackInvalidFormat = "Formato inválido (no-JSON)."
	feedbackEmpty         = "Sin comentarios."

	summarizerTemperature = 0.7
	summarizerMaxTokens   = 8000

	scorerV3Temperature = 0
	scorerV3MaxTokens   = 900
)

// Gateway is the slice of the LLM client the scoring pipeline needs.
type Gateway interface {
	Chat(ctx context.Context, msgs []llm.Message, opts llm.ChatOptions) (string, error)
	MaxTokens() int
}

// Result is a bounded score with short feedback. Score is always in [0,100].
type Result struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// Scorer evaluates a candidate against a vacancy via the gateway. Transport
// failures propagate to the caller; a malformed model reply never does — the
// pipeline must not block on a reply the model got wrong.
type Scorer struct {
	gw  Gateway
	log *zap.Logger
}

func NewScorer(gw Gateway, log *zap.Logger) *Scorer {
	return &Scorer{gw: gw, log: log}
}

// ScoreLegacy compares a position title and skill lists against the raw CV
// text.
func (s *Scorer) ScoreLegacy(ctx context.Context, position string, requiredSkills, niceToHaves []string, minYears int, applicant, cvText string) (Result, error) {
	raw, err := s.gw.Chat(ctx, []llm.Message{
		{Role: "system", Content: systemPromptLegacy()},
		{Role: "user", Content: userPromptLegacy(position, requiredSkills, niceToHaves, minYears, applicant, cvText)},
	}, llm.ChatOptions{ResponseFormat: llm.FormatJSONObject})
	if err != nil {
		return Result{}, fmt.Errorf("legacy scoring: %w", err)
	}
	return parseResult(raw), nil
}

// ScoreV2 compares the declared profiles against the raw CV text.
func (s *Scorer) ScoreV2(ctx context.Context, applicant ApplicantProfile, vacancy VacancyProfile, cvText string) (Result, error) {
	raw, err := s.gw.Chat(ctx, []llm.Message{
		{Role: "system", Content: systemPromptV2()},
		{Role: "user", Content: comparisonPromptV2(applicant, vacancy, cvText)},
	}, llm.ChatOptions{ResponseFormat: llm.FormatJSONObject})
	if err != nil {
		return Result{}, fmt.Errorf("v2 scoring: %w", err)
	}
	return parseResult(raw), nil
}

// ScoreV3 compares the declared profiles against structured CV evidence.
// Temperature 0: with the evidence fixed, the verdict should not drift.
func (s *Scorer) ScoreV3(ctx context.Context, applicant ApplicantProfile, vacancy VacancyProfile, evidence CVEvidence) (Result, error) {
	raw, err := s.gw.Chat(ctx, []llm.Message{
		{Role: "system", Content: systemPromptV3()},
		{Role: "user", Content: comparisonPromptV3(applicant, vacancy, evidence)},
	}, llm.ChatOptions{
		ResponseFormat: llm.FormatJSONObject,
		Temperature:    llm.Temp(scorerV3Temperature),
		MaxTokens:      capTokens(scorerV3MaxTokens, s.gw.MaxTokens()),
	})
	if err != nil {
		return Result{}, fmt.Errorf("v3 scoring: %w", err)
	}
	return parseResult(raw), nil
}

func parseResult(raw string) Result {
	var obj struct {
		Score    any    `json:"score"`
		Feedback string `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return Result{Score: 0, Feedback: feedbackInvalidFormat}
	}

	feedback := strings.TrimSpace(obj.Feedback)
	if feedback == "" {
		feedback = feedbackEmpty
	}
	return Result{
		Score:    clamp(coerceScore(obj.Score), 0, 100),
		Feedback: feedback,
	}
}

// coerceScore turns whatever the model put under "score" into an int; anything
// non-numeric falls to 0. A string must be a whole number: "7.5" is not a
// score, a fractional JSON number is truncated.
func coerceScore(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return parsed
		}
		return 0
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return int(f)
		}
		return 0
	default:
		return 0
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func capTokens(want, budget int) int {
	if budget > 0 && want > budget {
		return budget
	}
	return want
}
