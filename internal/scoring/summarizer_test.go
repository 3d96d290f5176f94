package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestSummarizeParsesEvidence(t *testing.T) {
	gw := &stubGateway{reply: `{
		"identidad": {"nombre": "Ana Pérez", "email": "ana@example.com", "telefono": null, "ubicacion": "Quito"},
		"educacion": [{"titulo": "Ing. Sistemas", "institucion": "EPN", "periodo": "2015-2020"}],
		"experiencia": [{"puesto": "Backend Dev", "empresa": "Acme", "periodo": null, "funciones": ["apis"]}],
		"habilidades": ["go", "sql"],
		"certificaciones": [],
		"idiomas": [{"idioma": "inglés", "nivel": "B2"}],
		"links": {"linkedin": null, "github": null}
	}`}
	s := NewSummarizer(gw, zap.NewNop())

	ev, err := s.Summarize(context.Background(), "ANA PÉREZ\nEXPERIENCIA\nBackend Dev")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if ev.Identidad.Nombre == nil || *ev.Identidad.Nombre != "Ana Pérez" {
		t.Errorf("identidad = %+v", ev.Identidad)
	}
	if len(ev.Habilidades) != 2 || ev.Habilidades[0] != "go" {
		t.Errorf("habilidades = %v", ev.Habilidades)
	}
	if len(ev.Experiencia) != 1 || ev.Experiencia[0].Puesto != "Backend Dev" {
		t.Errorf("experiencia = %+v", ev.Experiencia)
	}
}

func TestSummarizeMalformedReplyDegradesToEmptyEvidence(t *testing.T) {
	gw := &stubGateway{reply: "no puedo procesar este documento"}
	s := NewSummarizer(gw, zap.NewNop())

	ev, err := s.Summarize(context.Background(), "some   cv   text")
	if err != nil {
		t.Fatalf("a malformed reply must not surface as an error: %v", err)
	}
	if ev.Raw == "" || !strings.Contains(ev.Raw, "some cv text") {
		t.Errorf("_raw should carry the normalized input, got %q", ev.Raw)
	}
	if ev.Habilidades == nil || len(ev.Habilidades) != 0 {
		t.Errorf("habilidades should be empty non-nil, got %#v", ev.Habilidades)
	}
	if len(ev.Experiencia) != 0 {
		t.Errorf("experiencia should be empty, got %+v", ev.Experiencia)
	}
}

func TestSummarizeGatewayErrorPropagates(t *testing.T) {
	wantErr := errors.New("rate limited")
	s := NewSummarizer(&stubGateway{err: wantErr}, zap.NewNop())

	if _, err := s.Summarize(context.Background(), "cv"); !errors.Is(err, wantErr) {
		t.Fatalf("got %v, want wrapped %v", err, wantErr)
	}
}

func TestSummarizeFillsMissingLists(t *testing.T) {
	gw := &stubGateway{reply: `{"identidad": {"nombre": "Ana"}, "experiencia": [{"puesto": "Dev"}]}`}
	s := NewSummarizer(gw, zap.NewNop())

	ev, err := s.Summarize(context.Background(), "cv")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if ev.Habilidades == nil || ev.Educacion == nil || ev.Certificaciones == nil || ev.Idiomas == nil {
		t.Error("absent lists must come back empty, not nil")
	}
	if ev.Experiencia[0].Funciones == nil {
		t.Error("funciones must come back empty, not nil")
	}
}

func TestSummarizeCapsTokenBudget(t *testing.T) {
	gw := &stubGateway{reply: `{}`, maxTokens: 4000}
	s := NewSummarizer(gw, zap.NewNop())

	if _, err := s.Summarize(context.Background(), "cv"); err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if gw.lastOpts.MaxTokens != 4000 {
		t.Errorf("max tokens %d, want budget cap 4000", gw.lastOpts.MaxTokens)
	}
	if gw.lastOpts.Temperature == nil || *gw.lastOpts.Temperature != 0.7 {
		t.Errorf("temperature %v, want explicit 0.7", gw.lastOpts.Temperature)
	}
}
