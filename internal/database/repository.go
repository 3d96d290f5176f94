package database

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type PostulationRepository struct {
	db *gorm.DB
}

func NewPostulationRepository(db *gorm.DB) *PostulationRepository {
	return &PostulationRepository{db: db}
}

func (r *PostulationRepository) Create(p *Postulation) error {
	return r.db.Create(p).Error
}

func (r *PostulationRepository) GetByID(id uint) (*Postulation, error) {
	var p Postulation
	if err := r.db.Preload("Applicant").Preload("Vacancy").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostulationRepository) ListByVacancy(vacancyID uint, limit, offset int) ([]Postulation, error) {
	var rows []Postulation
	err := r.db.Where("vacancy_id = ?", vacancyID).
		Order("id DESC").Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatus persists the already-mutated status fields of p. It is the
// durability-critical write of a transition; callers propagate its error.
func (r *PostulationRepository) UpdateStatus(p *Postulation) error {
	return r.db.Model(&Postulation{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"status":        p.Status,
			"status_reason": p.StatusReason,
			"updated_at":    p.UpdatedAt,
		}).Error
}

// UpdateProfile applies profile-field edits. The status column is never part of
// fields; transitions go through the postulation service only.
func (r *PostulationRepository) UpdateProfile(id uint, fields map[string]any) error {
	delete(fields, "status")
	delete(fields, "status_reason")
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now().UTC()
	return r.db.Model(&Postulation{}).Where("id = ?", id).Updates(fields).Error
}

func (r *PostulationRepository) Delete(id uint) error {
	return r.db.Delete(&Postulation{}, id).Error
}

type VacancyRepository struct {
	db *gorm.DB
}

func NewVacancyRepository(db *gorm.DB) *VacancyRepository {
	return &VacancyRepository{db: db}
}

func (r *VacancyRepository) GetByID(id uint) (*Vacancy, error) {
	var v Vacancy
	if err := r.db.First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// GetLite loads only the columns needed to enrich realtime events, on purpose
// through a fresh query rather than a preloaded relation.
func (r *VacancyRepository) GetLite(id uint) (*Vacancy, error) {
	var v Vacancy
	err := r.db.Select("id", "title", "location", "modality").First(&v, id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

type AIResultRepository struct {
	db *gorm.DB
}

func NewAIResultRepository(db *gorm.DB) *AIResultRepository {
	return &AIResultRepository{db: db}
}

func (r *AIResultRepository) Create(row *PostulationAIResult) error {
	return r.db.Create(row).Error
}

// LatestByPostulation returns the most recent result row, or (nil, nil) when no
// scoring has completed yet.
func (r *AIResultRepository) LatestByPostulation(postulationID uint) (*PostulationAIResult, error) {
	var row PostulationAIResult
	err := r.db.Where("postulation_id = ?", postulationID).
		Order("created_at DESC, id DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

type ApplicantRepository struct {
	db *gorm.DB
}

func NewApplicantRepository(db *gorm.DB) *ApplicantRepository {
	return &ApplicantRepository{db: db}
}

func (r *ApplicantRepository) GetByID(id uint) (*Applicant, error) {
	var a Applicant
	if err := r.db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}
