// Package realtime pushes postulation updates to connected applicants over
// websockets. Emission is best-effort; the hiring pipeline never waits on it.
package realtime

// Event is the payload of a "postulation_updated" push.
type Event struct {
	ID        uint         `json:"id"`
	Status    string       `json:"status"`
	UpdatedAt string       `json:"updated_at"`
	VacancyID uint         `json:"vacancy_id"`
	Vacancy   *VacancyInfo `json:"vacancy,omitempty"`
}

// VacancyInfo is the lightweight enrichment attached to events.
type VacancyInfo struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Modality string `json:"modality"`
}

// Emitter delivers events to one applicant's connections.
type Emitter interface {
	EmitPostulationUpdated(applicantID uint, event Event) error
}
