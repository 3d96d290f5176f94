package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"multitalent/internal/config"
)

func TestSendPostsProviderPayload(t *testing.T) {
	var got sendRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := New(config.Mail{
		Endpoint:  srv.URL,
		APIKey:    "sk-mail",
		FromEmail: "no-reply@multitalent.local",
		FromName:  "Multitalent",
	}, zap.NewNop())

	err := c.Send(context.Background(), "ana@example.com", AcceptanceSubject, "<p>hola</p>")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if auth != "Bearer sk-mail" {
		t.Errorf("authorization = %q", auth)
	}
	if len(got.Personalizations) != 1 || got.Personalizations[0].To[0].Email != "ana@example.com" {
		t.Errorf("recipients = %+v", got.Personalizations)
	}
	if got.From.Email != "no-reply@multitalent.local" {
		t.Errorf("from = %+v", got.From)
	}
	if got.Subject != AcceptanceSubject {
		t.Errorf("subject = %q", got.Subject)
	}
	if len(got.Content) != 1 || got.Content[0].Type != "text/html" {
		t.Errorf("content = %+v", got.Content)
	}
}

func TestSendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors": ["bad recipient"]}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New(config.Mail{Endpoint: srv.URL, FromEmail: "x@y"}, zap.NewNop())
	err := c.Send(context.Background(), "broken", "s", "<p></p>")
	if err == nil || !strings.Contains(err.Error(), "status 400") {
		t.Fatalf("got %v, want status error", err)
	}
	if !strings.Contains(err.Error(), "bad recipient") {
		t.Errorf("error should carry the provider detail: %v", err)
	}
}

func TestSendWithoutEndpointIsNoop(t *testing.T) {
	c := New(config.Mail{}, zap.NewNop())
	if err := c.Send(context.Background(), "ana@example.com", "s", "<p></p>"); err != nil {
		t.Fatalf("unconfigured mailer must not error: %v", err)
	}
}
