// AngelaMos | 2026
// client.go

// Package llm talks to an OpenAI compatible chat-completions endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/carterperez-dev/marketplace-api/internal/config"
)

// Generator produces a single assistant reply for a system context and a
// user message.
type Generator interface {
	Generate(ctx context.Context, systemContext, message string) (string, error)
}

const maxResponseBytes = 1 << 20

var (
	ErrEmptyResponse    = errors.New("no choices in completion response")
	ErrResponseTooLarge = errors.New("completion response exceeds size limit")
)

// APIError is a non-200 reply from the provider. Error() includes the
// provider's message so callers can classify quota and billing failures.
type APIError struct {
	StatusCode int
	Message    string
	Type       string
	Code       string
}

func (e *APIError) Error() string {
	parts := []string{fmt.Sprintf("status %d", e.StatusCode)}
	if e.Type != "" {
		parts = append(parts, "type "+e.Type)
	}
	if e.Code != "" {
		parts = append(parts, "code "+e.Code)
	}
	return fmt.Sprintf("completion API error (%s): %s", strings.Join(parts, ", "), e.Message)
}

type OpenAIClient struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

func NewOpenAIClient(cfg config.AssistantConfig) *OpenAIClient {
	return &OpenAIClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Generate issues one completion request. Failures are returned as is;
// there is no retry.
func (c *OpenAIClient) Generate(
	ctx context.Context,
	systemContext, message string,
) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemContext},
			{Role: "user", Content: message},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/chat/completions",
		bytes.NewReader(body),
	)
	if err != nil {
		return "", fmt.Errorf("create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send completion request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}
	if len(raw) > maxResponseBytes {
		return "", ErrResponseTooLarge
	}

	if resp.StatusCode != http.StatusOK {
		return "", decodeError(resp.StatusCode, raw)
	}

	var out completionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("parse completion response: %w", err)
	}

	if len(out.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	slog.DebugContext(ctx, "completion received",
		"model", out.Model,
		"total_tokens", out.Usage.TotalTokens,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return out.Choices[0].Message.Content, nil
}

func decodeError(status int, raw []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Error.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
		return apiErr
	}

	apiErr.Message = env.Error.Message
	apiErr.Type = env.Error.Type
	if env.Error.Code != nil {
		apiErr.Code = fmt.Sprint(env.Error.Code)
	}
	return apiErr
}
