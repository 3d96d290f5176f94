package mail

import (
	"strings"
	"testing"
)

func TestAcceptanceHTML(t *testing.T) {
	html := AcceptanceHTML("Ana Pérez", "http://front/my-applications")
	if !strings.Contains(html, "Ana Pérez") {
		t.Error("greeting should carry the applicant name")
	}
	if !strings.Contains(html, "http://front/my-applications") {
		t.Error("cta should link to the portal")
	}
}

func TestAcceptanceHTMLDefaultsName(t *testing.T) {
	html := AcceptanceHTML("", "http://front")
	if !strings.Contains(html, "Postulante") {
		t.Error("empty name should fall back to the generic greeting")
	}
}

func TestAcceptanceHTMLEscapes(t *testing.T) {
	html := AcceptanceHTML("<script>alert(1)</script>", "http://front")
	if strings.Contains(html, "<script>") {
		t.Error("name must be escaped")
	}
}
