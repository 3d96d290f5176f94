// Package llm is the gateway to the chat-completions endpoint. It owns the
// transport policy (timeout, retry with exponential backoff); interpretation of
// the reply belongs to the caller.
package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"multitalent/internal/config"
)

// ErrNoAPIKey is returned without any retry when the client was built without a
// credential.
var ErrNoAPIKey = errors.New("openai api key not configured")

const (
	defaultRetries = 3
	backoffBase    = 1.5
	requestTimeout = 60 * time.Second
)

// FormatJSONObject asks the model for a single JSON object; FormatText leaves
// the reply free-form.
const (
	FormatJSONObject = "json_object"
	FormatText       = "text"
)

type Message struct {
	Role    string
	Content string
}

type ChatOptions struct {
	ResponseFormat string
	// Temperature nil means the configured default; an explicit value (zero
	// included) overrides it for this call.
	Temperature *float64
	MaxTokens   int
}

// Temp builds a per-call temperature override.
func Temp(v float64) *float64 {
	return &v
}

type Client struct {
	api         *openai.Client
	model       string
	maxTokens   int
	temperature float64
	hasKey      bool
	retries     int
	log         *zap.Logger
}

func NewClient(cfg config.OpenAI, log *zap.Logger) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &Client{
		api:         openai.NewClientWithConfig(oc),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		hasKey:      cfg.APIKey != "",
		retries:     defaultRetries,
		log:         log,
	}
}

// MaxTokens exposes the configured token budget so callers can cap per-call
// budgets against it.
func (c *Client) MaxTokens() int {
	return c.maxTokens
}

// Chat sends the conversation and returns the raw message content, unmodified
// and untruncated. Transport, HTTP and decode errors are retried with
// exponential backoff (1s, 1.5s, 2.25s); the last error is returned after the
// final attempt.
func (c *Client) Chat(ctx context.Context, msgs []Message, opts ChatOptions) (string, error) {
	if !c.hasKey {
		return "", ErrNoAPIKey
	}

	temp := c.temperature
	if opts.Temperature != nil {
		temp = *opts.Temperature
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: float32(temp),
		MaxTokens:   opts.MaxTokens,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(msgs)),
	}
	// The request field is omitempty, which would silently drop an exact 0 and
	// leave the API at its own default; the smallest nonzero float stands in.
	if req.Temperature == 0 {
		req.Temperature = math.SmallestNonzeroFloat32
	}
	if req.MaxTokens <= 0 || req.MaxTokens > c.maxTokens {
		req.MaxTokens = c.maxTokens
	}
	for _, m := range msgs {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	if opts.ResponseFormat == FormatJSONObject {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	var lastErr error
	for attempt := 0; attempt < c.retries; attempt++ {
		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		resp, err := c.api.CreateChatCompletion(reqCtx, req)
		cancel()

		if err == nil {
			if len(resp.Choices) == 0 {
				err = fmt.Errorf("chat completion returned no choices")
			} else {
				return resp.Choices[0].Message.Content, nil
			}
		}

		lastErr = err
		c.log.Warn("chat completion attempt failed",
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)

		if attempt < c.retries-1 {
			wait := time.Duration(math.Pow(backoffBase, float64(attempt)) * float64(time.Second))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	return "", lastErr
}
