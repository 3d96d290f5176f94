package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"multitalent/internal/config"
)

func completionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "gpt-4o",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": content},
			},
		},
	})
	return string(body)
}

func newTestClient(baseURL string) *Client {
	return NewClient(config.OpenAI{
		APIKey:    "test-key",
		Model:     "gpt-4o",
		MaxTokens: 1000,
		BaseURL:   baseURL,
	}, zap.NewNop())
}

func TestChatWithoutKeyFailsFast(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := NewClient(config.OpenAI{Model: "gpt-4o", MaxTokens: 1000, BaseURL: srv.URL + "/v1"}, zap.NewNop())
	_, err := c.Chat(context.Background(), []Message{{Role: "user", Content: "hola"}}, ChatOptions{})
	if !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("got %v, want ErrNoAPIKey", err)
	}
	if hits.Load() != 0 {
		t.Error("no request may leave the process without a key")
	}
}

func TestChatReturnsContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody(`{"score": 73, "feedback": "ok"}`)))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL + "/v1")
	got, err := c.Chat(context.Background(), []Message{{Role: "user", Content: "hola"}}, ChatOptions{ResponseFormat: FormatJSONObject})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if got != `{"score": 73, "feedback": "ok"}` {
		t.Errorf("content = %q", got)
	}
}

func TestChatRetriesThenSucceeds(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, `{"error": {"message": "upstream"}}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody("segunda vez")))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL + "/v1")
	got, err := c.Chat(context.Background(), []Message{{Role: "user", Content: "hola"}}, ChatOptions{})
	if err != nil {
		t.Fatalf("Chat after retry: %v", err)
	}
	if got != "segunda vez" {
		t.Errorf("content = %q", got)
	}
	if hits.Load() != 2 {
		t.Errorf("server hit %d times, want 2", hits.Load())
	}
}

func TestChatTemperatureReachesTheWire(t *testing.T) {
	var bodies []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		bodies = append(bodies, body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody("ok")))
	}))
	defer srv.Close()

	c := NewClient(config.OpenAI{
		APIKey:      "test-key",
		Model:       "gpt-4o",
		MaxTokens:   1000,
		Temperature: 0.7,
		BaseURL:     srv.URL + "/v1",
	}, zap.NewNop())

	msgs := []Message{{Role: "user", Content: "hola"}}
	if _, err := c.Chat(context.Background(), msgs, ChatOptions{}); err != nil {
		t.Fatalf("Chat (default temperature): %v", err)
	}
	if _, err := c.Chat(context.Background(), msgs, ChatOptions{Temperature: Temp(0)}); err != nil {
		t.Fatalf("Chat (explicit zero): %v", err)
	}

	if len(bodies) != 2 {
		t.Fatalf("captured %d requests, want 2", len(bodies))
	}

	// No override: the configured default must be serialized.
	got, ok := bodies[0]["temperature"].(float64)
	if !ok {
		t.Fatal("default temperature missing from the request body")
	}
	if got < 0.69 || got > 0.71 {
		t.Errorf("default temperature on wire = %v, want 0.7", got)
	}

	// Explicit zero: must be present (as the smallest nonzero stand-in), not
	// dropped by omitempty and left to the API default.
	got, ok = bodies[1]["temperature"].(float64)
	if !ok {
		t.Fatal("explicit zero temperature dropped from the request body")
	}
	if got < 0 || got > 1e-20 {
		t.Errorf("zero temperature on wire = %v, want an effectively-zero value", got)
	}
}

func TestChatExhaustsRetries(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, `{"error": {"message": "down"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL + "/v1")
	_, err := c.Chat(context.Background(), []Message{{Role: "user", Content: "hola"}}, ChatOptions{})
	if err == nil {
		t.Fatal("want the last transport error after exhausting retries")
	}
	if hits.Load() != 3 {
		t.Errorf("server hit %d times, want 3", hits.Load())
	}
}
