package scoring

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"multitalent/internal/llm"
)

// Summarizer condenses raw CV text into structured, evidence-only JSON. The
// model is a parser here, not an evaluator: nothing absent from the text may
// appear in the output.
type Summarizer struct {
	gw  Gateway
	log *zap.Logger
}

func NewSummarizer(gw Gateway, log *zap.Logger) *Summarizer {
	return &Summarizer{gw: gw, log: log}
}

// Summarize normalizes the text and asks the gateway for the structured form.
// Gateway (transport) errors propagate; a reply that fails to parse as the
// expected schema degrades to an empty evidence object carrying the normalized
// text, never an error.
func (s *Summarizer) Summarize(ctx context.Context, cvText string) (CVEvidence, error) {
	normalized := normalizeCVText(cvText)

	raw, err := s.gw.Chat(ctx, []llm.Message{
		{Role: "system", Content: systemPromptCVParser()},
		{Role: "user", Content: userPromptCVParser(normalized)},
	}, llm.ChatOptions{
		ResponseFormat: llm.FormatJSONObject,
		Temperature:    llm.Temp(summarizerTemperature),
		MaxTokens:      capTokens(summarizerMaxTokens, s.gw.MaxTokens()),
	})
	if err != nil {
		return CVEvidence{}, fmt.Errorf("summarize cv: %w", err)
	}

	var evidence CVEvidence
	if err := json.Unmarshal([]byte(raw), &evidence); err != nil {
		s.log.Warn("cv summary reply not parseable; using empty evidence", zap.Error(err))
		return emptyEvidence(normalized), nil
	}
	ensureEvidenceLists(&evidence)
	return evidence, nil
}

// ensureEvidenceLists keeps the missing-list convention: [] rather than null.
func ensureEvidenceLists(ev *CVEvidence) {
	if ev.Educacion == nil {
		ev.Educacion = []Education{}
	}
	if ev.Experiencia == nil {
		ev.Experiencia = []Experience{}
	}
	if ev.Habilidades == nil {
		ev.Habilidades = []string{}
	}
	if ev.Certificaciones == nil {
		ev.Certificaciones = []Certification{}
	}
	if ev.Idiomas == nil {
		ev.Idiomas = []LanguageSkill{}
	}
	for i := range ev.Experiencia {
		if ev.Experiencia[i].Funciones == nil {
			ev.Experiencia[i].Funciones = []string{}
		}
	}
}
