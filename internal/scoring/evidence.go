package scoring

// CVEvidence is the strict, evidence-only summary of a CV produced by the
// Summarizer and consumed by the v3 scorer. JSON keys follow the parser schema
// the model is instructed with (Spanish field names). Unknown scalars stay
// null; unknown lists stay empty — no other placeholder is valid.
type CVEvidence struct {
	Identidad       Identity        `json:"identidad"`
	Educacion       []Education     `json:"educacion"`
	Experiencia     []Experience    `json:"experiencia"`
	Habilidades     []string        `json:"habilidades"`
	Certificaciones []Certification `json:"certificaciones"`
	Idiomas         []LanguageSkill `json:"idiomas"`
	Links           Links           `json:"links"`

	// Raw carries the normalized input text when the model reply could not be
	// parsed; callers must tolerate an otherwise all-empty evidence object.
	Raw string `json:"_raw,omitempty"`

	// HabilidadesTokens is the tokenized view added before v3 scoring.
	HabilidadesTokens []string `json:"_habilidades_tokens,omitempty"`
}

type Identity struct {
	Nombre    *string `json:"nombre"`
	Email     *string `json:"email"`
	Telefono  *string `json:"telefono"`
	Ubicacion *string `json:"ubicacion"`
}

type Education struct {
	Titulo      string  `json:"titulo"`
	Institucion string  `json:"institucion"`
	Periodo     *string `json:"periodo"`
}

type Experience struct {
	Puesto    string   `json:"puesto"`
	Empresa   *string  `json:"empresa"`
	Periodo   *string  `json:"periodo"`
	Funciones []string `json:"funciones"`

	FuncionesTokens []string `json:"_funciones_tokens,omitempty"`
}

type Certification struct {
	Nombre string  `json:"nombre"`
	Emisor *string `json:"emisor"`
	URL    *string `json:"url"`
}

type LanguageSkill struct {
	Idioma string  `json:"idioma"`
	Nivel  *string `json:"nivel"`
}

type Links struct {
	Linkedin *string `json:"linkedin"`
	Github   *string `json:"github"`
}

func emptyEvidence(raw string) CVEvidence {
	return CVEvidence{
		Educacion:       []Education{},
		Experiencia:     []Experience{},
		Habilidades:     []string{},
		Certificaciones: []Certification{},
		Idiomas:         []LanguageSkill{},
		Raw:             raw,
	}
}

// ApplicantProfile is the declared profile assembled from the postulation at
// request time. All fields are optional; absent values print as empty.
type ApplicantProfile struct {
	ResidenceAddr  *string  `json:"residence_addr"`
	Age            *int     `json:"age"`
	RoleExpYears   *float64 `json:"role_exp_years"`
	ExpectedSalary *float64 `json:"expected_salary"`
	Name           *string  `json:"name"`
	Email          *string  `json:"email"`
	Phone          *string  `json:"phone"`
	Credential     *string  `json:"credential"`
}

// VacancyProfile is the vacancy-side view handed to the scorers.
type VacancyProfile struct {
	Location          *string `json:"location"`
	Modality          *string `json:"modality"`
	RoleObjective     *string `json:"role_objective"`
	Responsibilities  *string `json:"responsibilities"`
	ReqEducation      *string `json:"req_education"`
	ReqExperience     *string `json:"req_experience"`
	ReqKnowledge      *string `json:"req_knowledge"`
	ChargeTitle       *string `json:"charge_title"`
	ChargeDescription *string `json:"charge_description"`
	ChargeArea        *string `json:"charge_area"`
}
