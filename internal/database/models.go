package database

import "time"

// Applicant is a registered candidate of the web portal.
type Applicant struct {
	ID        uint   `gorm:"primaryKey"`
	Nombre    string `gorm:"size:120"`
	Email     string `gorm:"size:255;not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Postulations []Postulation `gorm:"foreignKey:ApplicantID"`
}

// Vacancy is an open position managed from the admin panel.
type Vacancy struct {
	ID               uint   `gorm:"primaryKey"`
	Title            string `gorm:"size:255;not null"`
	Location         string `gorm:"size:255"`
	Modality         string `gorm:"size:64"`
	Area             string `gorm:"size:120"`
	RoleObjective    string `gorm:"type:text"`
	Responsibilities string `gorm:"type:text"`
	ReqEducation     string `gorm:"type:text"`
	ReqExperience    string `gorm:"type:text"`
	ReqKnowledge     string `gorm:"type:text"`
	Description      string `gorm:"type:text"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Postulation is one applicant's application to one vacancy. Exactly one row
// exists per (applicant, vacancy) pair; the status field is mutated only by the
// postulation service, never by direct assignment in handler code.
type Postulation struct {
	ID          uint `gorm:"primaryKey"`
	VacancyID   uint `gorm:"not null;index;uniqueIndex:uq_postulation_applicant_vacancy"`
	ApplicantID uint `gorm:"not null;index;uniqueIndex:uq_postulation_applicant_vacancy"`

	ResidenceAddr  *string  `gorm:"type:text"`
	Age            *int16   `gorm:"type:smallint"`
	RoleExpYears   *float64 `gorm:"type:numeric(4,1)"`
	ExpectedSalary *float64 `gorm:"type:numeric(12,2)"`
	Credential     *string  `gorm:"size:20"`
	Number         *string  `gorm:"size:20"`

	// Object key (or full URL) of the stored CV.
	CVPath string `gorm:"type:text;not null"`

	Status       string  `gorm:"size:32;not null;default:'submitted';index"`
	StatusReason *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Applicant *Applicant `gorm:"foreignKey:ApplicantID"`
	Vacancy   *Vacancy   `gorm:"foreignKey:VacancyID"`

	// Per-call side-effect bookkeeping, reset on every transition. Not persisted.
	LastMailTo    string `gorm:"-" json:"-"`
	LastMailSent  bool   `gorm:"-" json:"-"`
	LastMailError string `gorm:"-" json:"-"`
}

// PostulationAIResult is an append-only scoring record. A row with score 0 and
// an "Error: ..." feedback is a recorded failure, not a real score. Reads take
// the most recently created row per postulation.
type PostulationAIResult struct {
	ID            uint   `gorm:"primaryKey"`
	PostulationID uint   `gorm:"not null;index"`
	VacancyID     *uint  `gorm:"index"`
	Score         int    `gorm:"not null"`
	Feedback      string `gorm:"type:text;not null"`
	CreatedAt     time.Time
}
