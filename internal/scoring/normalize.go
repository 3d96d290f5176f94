package scoring

import (
	"regexp"
	"strings"
)

var (
	hspaceRe   = regexp.MustCompile(`[ \t]+`)
	newlinesRe = regexp.MustCompile(`\n{3,}`)
	sectionRe  = regexp.MustCompile(`(?i)\b(HABILIDADES|COMPETENCIAS|SKILLS|EXPERIENCIA|EXPERIENCE|EDUCACION|EDUCATION|CERTIFICADOS|CERTIFICATIONS|IDIOMAS|LANGUAGES|RESUMEN|RESUME|SOBRE MI|ABOUT|PROYECTOS|PROJECTS|CONTACTO|REFERENCIAS)\b`)
	termSplitRe = regexp.MustCompile(`[,/|;()\[\]{}<>•·]+`)

	bulletReplacer = strings.NewReplacer("•", "- ", "●", "- ", "·", "- ")
)

// normalizeCVText is mechanical cleanup applied before parsing: collapse runs
// of horizontal whitespace, stabilize newlines, tag common section headers and
// unify bullet glyphs. No domain-specific rewriting.
func normalizeCVText(cvText string) string {
	text := hspaceRe.ReplaceAllString(cvText, " ")
	text = newlinesRe.ReplaceAllString(text, "\n\n")
	text = sectionRe.ReplaceAllString(text, "\n### $1\n")
	text = bulletReplacer.Replace(text)
	return strings.TrimSpace(text)
}

// canonicalizeTerms splits composite labels on common delimiters, lowercases
// and de-duplicates them, preserving first-seen order. It adds no terms and
// assumes no domain equivalences.
func canonicalizeTerms(items []string) []string {
	if len(items) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{})
	result := make([]string, 0, len(items))
	for _, raw := range items {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		for _, part := range termSplitRe.Split(s, -1) {
			p := strings.ToLower(strings.TrimSpace(part))
			if p == "" {
				continue
			}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			result = append(result, p)
		}
	}
	return result
}
