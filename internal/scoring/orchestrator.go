package scoring

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"multitalent/internal/database"
)

// ErrNoCVReference means the payload carried neither a presigned URL nor a
// bucket/key pair; the task has nothing to score.
var ErrNoCVReference = errors.New("cv reference unresolvable: no presigned_url or s3_key")

// CVReference points at the stored CV, either through a temporary signed URL
// or a bucket/key pair.
type CVReference struct {
	Storage      string `json:"storage"`
	PresignedURL string `json:"presigned_url,omitempty"`
	S3Bucket     string `json:"s3_bucket,omitempty"`
	S3Key        string `json:"s3_key,omitempty"`
}

// Payload is a scoring request. ApplicantProfile/VacancyProfile select the v3
// or v2 strategies; Position with skill lists selects the legacy one.
type Payload struct {
	PostulationID uint  `json:"postulation_id"`
	VacancyID     *uint `json:"vacancy_id"`

	Position           string   `json:"position,omitempty"`
	RequiredSkills     []string `json:"required_skills,omitempty"`
	NiceToHaves        []string `json:"nice_to_haves,omitempty"`
	MinYearsExperience int      `json:"min_years_experience,omitempty"`
	Applicant          string   `json:"applicant,omitempty"`

	CV CVReference `json:"cv"`

	ApplicantProfile *ApplicantProfile `json:"applicant_profile,omitempty"`
	VacancyProfile   *VacancyProfile   `json:"vacancy_profile,omitempty"`
}

// TextExtractor turns a CV file into plain text.
type TextExtractor interface {
	ExtractFile(path string) (string, error)
}

// CVSummarizer produces structured evidence from raw CV text.
type CVSummarizer interface {
	Summarize(ctx context.Context, cvText string) (CVEvidence, error)
}

// CandidateScorer exposes the three scoring strategies.
type CandidateScorer interface {
	ScoreLegacy(ctx context.Context, position string, requiredSkills, niceToHaves []string, minYears int, applicant, cvText string) (Result, error)
	ScoreV2(ctx context.Context, applicant ApplicantProfile, vacancy VacancyProfile, cvText string) (Result, error)
	ScoreV3(ctx context.Context, applicant ApplicantProfile, vacancy VacancyProfile, evidence CVEvidence) (Result, error)
}

// CVFetcher materializes a CV reference into a local file.
type CVFetcher interface {
	FetchToFile(ctx context.Context, ref CVReference, dst string) error
}

// ResultStore appends AI result rows.
type ResultStore interface {
	Create(row *database.PostulationAIResult) error
}

// Submitter hands a task to the background worker pool. Submit reports whether
// the task was accepted; a full queue rejects it.
type Submitter interface {
	Submit(task func(ctx context.Context)) bool
}

// Orchestrator drives fetch → extract → summarize → score → persist for one
// scoring request. It owns failure isolation: no error leaves Process; the
// outcome is always observable as a result row, success or failure alike.
type Orchestrator struct {
	extractor  TextExtractor
	summarizer CVSummarizer
	scorer     CandidateScorer
	fetcher    CVFetcher
	results    ResultStore
	pool       Submitter
	log        *zap.Logger
}

func NewOrchestrator(
	extractor TextExtractor,
	summarizer CVSummarizer,
	scorer CandidateScorer,
	fetcher CVFetcher,
	results ResultStore,
	pool Submitter,
	log *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		extractor:  extractor,
		summarizer: summarizer,
		scorer:     scorer,
		fetcher:    fetcher,
		results:    results,
		pool:       pool,
		log:        log,
	}
}

// TriggerAsync queues the scoring task on the worker pool and returns
// immediately; the HTTP request that created the postulation does not wait.
// A rejected submission is recorded as a failure row so the outcome never
// silently disappears.
func (o *Orchestrator) TriggerAsync(payload Payload) {
	accepted := o.pool.Submit(func(ctx context.Context) {
		o.Process(ctx, payload)
	})
	if !accepted {
		o.log.Error("scoring queue full", zap.Uint("postulation_id", payload.PostulationID))
		o.persist(payload, Result{Score: 0, Feedback: "Error: scoring queue full"})
		return
	}
	o.log.Info("scoring queued", zap.Uint("postulation_id", payload.PostulationID))
}

// Process runs the pipeline in the calling goroutine. Used directly for tests
// and scheduled batch runs; TriggerAsync runs the same code on the pool.
func (o *Orchestrator) Process(ctx context.Context, payload Payload) {
	result, err := o.process(ctx, payload)
	if err == nil {
		o.persist(payload, result)
		return
	}

	o.log.Error("scoring failed",
		zap.Uint("postulation_id", payload.PostulationID),
		zap.Error(err),
	)
	// Record the failure so the outcome stays observable from the result
	// store; if even this write fails there is nothing left to do but log.
	o.persist(payload, Result{Score: 0, Feedback: "Error: " + err.Error()})
}

func (o *Orchestrator) process(ctx context.Context, payload Payload) (Result, error) {
	tmp, err := os.CreateTemp("", "cv-*.pdf")
	if err != nil {
		return Result{}, fmt.Errorf("scratch file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := o.fetcher.FetchToFile(ctx, payload.CV, tmpPath); err != nil {
		return Result{}, err
	}

	text, err := o.extractor.ExtractFile(tmpPath)
	if err != nil {
		return Result{}, fmt.Errorf("extract cv text: %w", err)
	}
	o.log.Info("cv text extracted",
		zap.Uint("postulation_id", payload.PostulationID),
		zap.Int("chars", len(text)),
	)

	switch {
	case payload.ApplicantProfile != nil && payload.VacancyProfile != nil:
		evidence, err := o.summarizer.Summarize(ctx, text)
		if err != nil {
			return Result{}, err
		}
		return o.scorer.ScoreV3(ctx, *payload.ApplicantProfile, *payload.VacancyProfile, evidence)

	case payload.ApplicantProfile != nil || payload.VacancyProfile != nil:
		var applicant ApplicantProfile
		var vacancy VacancyProfile
		if payload.ApplicantProfile != nil {
			applicant = *payload.ApplicantProfile
		}
		if payload.VacancyProfile != nil {
			vacancy = *payload.VacancyProfile
		}
		return o.scorer.ScoreV2(ctx, applicant, vacancy, text)

	case payload.Position != "":
		return o.scorer.ScoreLegacy(ctx,
			payload.Position,
			payload.RequiredSkills,
			payload.NiceToHaves,
			payload.MinYearsExperience,
			payload.Applicant,
			text,
		)

	default:
		// Malformed request: score raw text against nothing.
		return o.scorer.ScoreV2(ctx, ApplicantProfile{}, VacancyProfile{}, text)
	}
}

func (o *Orchestrator) persist(payload Payload, result Result) {
	row := &database.PostulationAIResult{
		PostulationID: payload.PostulationID,
		VacancyID:     payload.VacancyID,
		Score:         result.Score,
		Feedback:      result.Feedback,
		CreatedAt:     time.Now().UTC(),
	}
	if err := o.results.Create(row); err != nil {
		o.log.Error("persist scoring result failed",
			zap.Uint("postulation_id", payload.PostulationID),
			zap.Error(err),
		)
		return
	}
	o.log.Info("scoring result saved",
		zap.Uint("postulation_id", payload.PostulationID),
		zap.Int("score", result.Score),
	)
}
