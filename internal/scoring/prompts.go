package scoring

import (
	"encoding/json"
	"fmt"
	"strings"
)

func systemPromptLegacy() string {
	return "Eres un evaluador técnico de RRHH. Analizas CVs para un puesto específico. " +
		"Usa la rúbrica: experiencia (0..40), conocimientos (0..40), ajuste general (0..20). " +
		"Devuelve SOLO JSON: {score:int 0..100, feedback:str 1–3 frases}."
}

func userPromptLegacy(position string, requiredSkills, niceToHaves []string, minYears int, applicant, cvText string) string {
	return fmt.Sprintf(`### CONTEXTO
- Puesto: %s
- Requisitos obligatorios: %s
- Deseables: %s
- Experiencia mínima requerida (años): %d

### POSTULANTE (declarado)
%s

### CV (texto completo)
%s

### INSTRUCCIONES
Evalúa con la rúbrica: experiencia (0..40), conocimientos (0..40), ajuste general (0..20).
Responde SOLO JSON:
{
  "score": <entero 0..100>,
  "feedback": "<1 a 3 frases concisas>"
}
`,
		position,
		strings.Join(requiredSkills, ", "),
		strings.Join(niceToHaves, ", "),
		minYears,
		applicant,
		cvText,
	)
}

func systemPromptV2() string {
	return "Eres un evaluador técnico de RRHH. Compara el perfil del postulante y su CV con el perfil del cargo. " +
		"Rúbrica: experiencia (0..40), conocimientos (0..40), ajuste general (0..20). " +
		"Devuelve SOLO JSON: {score:int 0..100, feedback:str 1–3 frases}."
}

func formatApplicantBlock(title string, p ApplicantProfile) string {
	lines := []string{"[" + title + "]"}
	appendLine := func(label, val string) {
		if strings.TrimSpace(val) != "" {
			lines = append(lines, fmt.Sprintf("- %s: %s", label, val))
		}
	}
	appendLine("Residencia", strPtr(p.ResidenceAddr))
	appendLine("Edad", intPtr(p.Age))
	appendLine("Años en el rol", floatPtr(p.RoleExpYears))
	appendLine("Aspiración salarial", floatPtr(p.ExpectedSalary))
	appendLine("Identificación", strPtr(p.Credential))
	appendLine("Teléfono", strPtr(p.Phone))
	return strings.Join(lines, "\n")
}

func formatVacancyBlock(title string, p VacancyProfile) string {
	lines := []string{"[" + title + "]"}
	appendLine := func(label, val string) {
		if strings.TrimSpace(val) != "" {
			lines = append(lines, fmt.Sprintf("- %s: %s", label, val))
		}
	}
	appendLine("Cargo", strPtr(p.ChargeTitle))
	appendLine("Área", strPtr(p.ChargeArea))
	appendLine("Objetivo del rol", strPtr(p.RoleObjective))
	appendLine("Modalidad", strPtr(p.Modality))
	appendLine("Ubicación", strPtr(p.Location))
	appendLine("Responsabilidades", strPtr(p.Responsibilities))
	appendLine("Requisitos (educación)", strPtr(p.ReqEducation))
	appendLine("Requisitos (experiencia)", strPtr(p.ReqExperience))
	appendLine("Requisitos (conocimientos)", strPtr(p.ReqKnowledge))
	appendLine("Descripción del cargo", strPtr(p.ChargeDescription))
	return strings.Join(lines, "\n")
}

func comparisonPromptV2(applicant ApplicantProfile, vacancy VacancyProfile, cvText string) string {
	return fmt.Sprintf(`
%s

%s

[INICIO CV - COMPLETO]
%s
[FIN CV - COMPLETO]
INSTRUCCIONES
1) Evalúa experiencia, conocimientos y ajuste general (educación/ubicación/modalidad).
2) Verifica consistencia entre perfil declarado y CV.
3) No penalices aspiración salarial salvo incompatibilidad evidente.
4) Devuelve SOLO JSON con:
{
  "score": <entero 0..100>,
  "feedback": "<3 frases concisas>"
}
`,
		formatApplicantBlock("PERFIL DEL POSTULANTE", applicant),
		formatVacancyBlock("PERFIL DEL CARGO", vacancy),
		cvText,
	)
}

func systemPromptCVParser() string {
	return "Eres un estricto PARSER de currículums. Tu tarea es LEER el texto del CV y devolver " +
		"UN JSON ESTRICTO con secciones estructuradas SOLO con información presente en el texto.\n" +
		"PROHIBIDO inventar, inferir de contexto o agregar campos que no estén literal o inequívocamente presentes.\n" +
		"Si algún campo no aparece, devuélvelo como null o [].\n" +
		"Formato JSON:\n" +
		"{\n" +
		"  \"identidad\": { \"nombre\": null|string, \"email\": null|string, \"telefono\": null|string, \"ubicacion\": null|string },\n" +
		"  \"educacion\": [ { \"titulo\": string, \"institucion\": string, \"periodo\": string|null } ],\n" +
		"  \"experiencia\": [ { \"puesto\": string, \"empresa\": string|null, \"periodo\": string|null, \"funciones\": [string] } ],\n" +
		"  \"habilidades\": [string],\n" +
		"  \"certificaciones\": [ { \"nombre\": string, \"emisor\": string|null, \"url\": string|null } ],\n" +
		"  \"idiomas\": [ { \"idioma\": string, \"nivel\": string|null } ],\n" +
		"  \"links\": { \"linkedin\": string|null, \"github\": string|null }\n" +
		"}\n" +
		"Responde SOLO con JSON válido. No comentes."
}

func userPromptCVParser(cvText string) string {
	return "CV (TEXTO):\n" +
		"----------------------------------------\n" +
		cvText + "\n" +
		"----------------------------------------\n" +
		"Devuelve el JSON solicitado. NO inventes."
}

func systemPromptV3() string {
	return "Eres un evaluador de RRHH para múltiples industrias. " +
		"Usa el JSON estructurado del CV (sin inventar) para comparar contra el perfil de la vacante.\n" +
		"Rúbrica: experiencia (0..40), conocimientos (0..40), ajuste general (0..20: educación/ubicación/modalidad).\n" +
		"Evalúa explicitando la evidencia encontrada en el JSON del CV para cada bloque.\n" +
		"Si hay discrepancias entre 'PERFIL DEL POSTULANTE' y 'CV_JSON' en identidad/ubicación, prioriza 'CV_JSON'.\n" +
		"Responde SOLO JSON: {score:int 0..100, feedback:str 1–3 frases}."
}

func comparisonPromptV3(applicant ApplicantProfile, vacancy VacancyProfile, evidence CVEvidence) string {
	// Tokenized views ride along with the raw evidence so the model sees
	// normalized terms without losing the original wording.
	evidence.HabilidadesTokens = canonicalizeTerms(evidence.Habilidades)
	for i := range evidence.Experiencia {
		evidence.Experiencia[i].FuncionesTokens = canonicalizeTerms(evidence.Experiencia[i].Funciones)
	}
	cvJSON, err := json.Marshal(evidence)
	if err != nil {
		cvJSON = []byte("{}")
	}

	return fmt.Sprintf(`
[PERFIL DEL POSTULANTE]
- Residencia: %s
- Edad: %s
- Años en el rol: %s
- Aspiración salarial: %s
- Identificación: %s
- Teléfono: %s

%s

[CV_JSON — SOLO EVIDENCIA DEL CV (+ vistas tokenizadas genéricas)]
%s

GUÍAS DE EVALUACIÓN (GENÉRICAS, MULTI-INDUSTRIA)
- Distingue entre competencias núcleo del rol, herramientas de soporte y habilidades blandas a partir de los textos de requisitos y responsabilidades de la vacante.
- No sobre-ponderes herramientas de soporte frente a competencias núcleo del rol.
- Si 'funciones' está vacío pero existen 'puesto' y 'periodo', puntúa experiencia con base en esos campos (sin inventar funciones).
- Para roles de entrada (ej.: pasantía, intern, trainee, junior), considera los requerimientos secundarios como deseables: su ausencia debe impactar menos que la falta de competencias núcleo.
- Mantén coherencia con la modalidad/ubicación/educación solicitadas para el ajuste general.

INSTRUCCIONES
1) Puntúa experiencia (0..40) usando 'experiencia' del CV_JSON (puesto, periodo y, si existen, funciones).
2) Puntúa conocimientos (0..40) comparando los requerimientos de la vacante con la evidencia ('habilidades' y, si aplica, funciones o logros) del CV_JSON.
3) Puntúa ajuste general (0..20) con educación, idioma.
4) No inventes datos fuera del CV_JSON. Si algo no está, no lo cuentes como evidencia.
5) No califiques la ubicacion de la residencia del postulante.
6) Da automaticamente una calificación de 0 por incompatibilidad del perfil con la vacante, y explica claramente la razón en el feedback.
7) Devuelve SOLO JSON:
{
  "score": <entero 0..100>,
  "feedback": "<frases concisas>"
}
`,
		strPtr(applicant.ResidenceAddr),
		intPtr(applicant.Age),
		floatPtr(applicant.RoleExpYears),
		floatPtr(applicant.ExpectedSalary),
		strPtr(applicant.Credential),
		strPtr(applicant.Phone),
		formatVacancyBlock("PERFIL DEL CARGO", vacancy),
		string(cvJSON),
	)
}

func strPtr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intPtr(p *int) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%d", *p)
}

func floatPtr(p *float64) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%g", *p)
}
