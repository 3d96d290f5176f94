package postulation

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"multitalent/internal/database"
	"multitalent/internal/mail"
	"multitalent/internal/realtime"
)

// StatusStore persists the durability-critical part of a transition.
type StatusStore interface {
	UpdateStatus(p *database.Postulation) error
}

// VacancyLookup fetches the lightweight vacancy columns for event enrichment.
type VacancyLookup interface {
	GetLite(id uint) (*database.Vacancy, error)
}

// Service applies status transitions and dispatches their side effects. The
// status write is atomic and propagates failure; email and realtime push are
// strictly downstream and can only be logged, never rolled into the outcome.
type Service struct {
	store       StatusStore
	vacancies   VacancyLookup
	mailer      mail.Mailer
	emitter     realtime.Emitter
	frontendURL string
	log         *zap.Logger
}

func NewService(
	store StatusStore,
	vacancies VacancyLookup,
	mailer mail.Mailer,
	emitter realtime.Emitter,
	frontendURL string,
	log *zap.Logger,
) *Service {
	return &Service{
		store:       store,
		vacancies:   vacancies,
		mailer:      mailer,
		emitter:     emitter,
		frontendURL: frontendURL,
		log:         log,
	}
}

// Transition validates and applies a status change on p.
//
// Order matters: legality check (no mutation on violation), persist (failure
// propagates and restores p), then side effects. A committed status change is
// never undone by a failing notification.
func (s *Service) Transition(ctx context.Context, p *database.Postulation, target Status, sendEmail bool) error {
	prev := Status(strings.ToLower(strings.TrimSpace(p.Status)))
	if err := CanTransition(prev, target); err != nil {
		return err
	}

	prevStatus := p.Status
	prevUpdated := p.UpdatedAt
	p.Status = string(target)
	p.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateStatus(p); err != nil {
		p.Status = prevStatus
		p.UpdatedAt = prevUpdated
		return err
	}

	p.LastMailTo = ""
	p.LastMailSent = false
	p.LastMailError = ""

	if sendEmail && target == StatusAccepted {
		s.sendAcceptance(ctx, p)
	}

	s.emitUpdated(ctx, p)
	return nil
}

// sendAcceptance notifies the applicant. A postulation without a usable email
// address is a logged no-op; a send failure is recorded on the in-memory
// record and logged.
func (s *Service) sendAcceptance(ctx context.Context, p *database.Postulation) {
	var to string
	if p.Applicant != nil {
		to = strings.TrimSpace(p.Applicant.Email)
	}
	if to == "" {
		s.log.Warn("postulation has no applicant email; skipping acceptance mail",
			zap.Uint("postulation_id", p.ID),
		)
		return
	}

	var name string
	if p.Applicant != nil {
		name = strings.TrimSpace(p.Applicant.Nombre)
	}
	portal := strings.TrimRight(s.frontendURL, "/") + "/my-applications"

	s.log.Info("sending acceptance mail",
		zap.Uint("postulation_id", p.ID),
		zap.String("to", to),
	)
	if err := s.mailer.Send(ctx, to, mail.AcceptanceSubject, mail.AcceptanceHTML(name, portal)); err != nil {
		p.LastMailError = err.Error()
		s.log.Error("acceptance mail failed",
			zap.Uint("postulation_id", p.ID),
			zap.Error(err),
		)
		return
	}
	p.LastMailTo = to
	p.LastMailSent = true
}

// emitUpdated pushes the realtime event. Vacancy enrichment runs a fresh
// lightweight query instead of touching a lazy relation; every failure here is
// logged and ignored.
func (s *Service) emitUpdated(ctx context.Context, p *database.Postulation) {
	if s.emitter == nil {
		s.log.Debug("realtime emitter unavailable; skipping event",
			zap.Uint("postulation_id", p.ID),
		)
		return
	}

	event := realtime.Event{
		ID:        p.ID,
		Status:    p.Status,
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
		VacancyID: p.VacancyID,
	}

	if s.vacancies != nil {
		if vac, err := s.vacancies.GetLite(p.VacancyID); err != nil {
			s.log.Warn("vacancy enrichment failed", zap.Uint("vacancy_id", p.VacancyID), zap.Error(err))
		} else {
			event.Vacancy = &realtime.VacancyInfo{
				ID:       vac.ID,
				Title:    vac.Title,
				Location: vac.Location,
				Modality: vac.Modality,
			}
		}
	}

	if err := s.emitter.EmitPostulationUpdated(p.ApplicantID, event); err != nil {
		s.log.Warn("postulation_updated emit failed",
			zap.Uint("postulation_id", p.ID),
			zap.Error(err),
		)
	}
}
