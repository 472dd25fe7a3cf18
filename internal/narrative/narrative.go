// Package narrative sends fact payloads to a hosted language model and
// returns commentary prose. The service sits behind the Provider interface
// so everything upstream stays deterministic and testable.
package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pitchside/crease/internal/config"
)

// ServiceError reports a failed narrative-service call: network failure,
// authentication failure, timeout, or a malformed response. Callers show a
// fallback message instead of failing the whole request.
type ServiceError struct {
	Reason string
	Err    error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("narrative service: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("narrative service: %s", e.Reason)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Provider is the interface for text-generation services.
type Provider interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
	IsConfigured() bool
}

// chatProvider calls an OpenAI-compatible chat-completions endpoint. Groq
// and OpenAI both speak this API.
type chatProvider struct {
	name    string
	Model   string
	BaseURL string
	APIKey  string
	client  *http.Client
}

const (
	groqBaseURL   = "https://api.groq.com/openai/v1"
	openAIBaseURL = "https://api.openai.com/v1"

	// Low temperature keeps commentary anchored to the supplied facts.
	temperature = 0.1
)

// NewGroqProvider creates a provider for the Groq chat-completions API.
func NewGroqProvider(model, apiKey string, timeout time.Duration) Provider {
	return &chatProvider{
		name:    "groq",
		Model:   model,
		BaseURL: groqBaseURL,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// NewOpenAIProvider creates a provider for the OpenAI chat-completions API.
func NewOpenAIProvider(model, apiKey string, timeout time.Duration) Provider {
	return &chatProvider{
		name:    "openai",
		Model:   model,
		BaseURL: openAIBaseURL,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// IsConfigured reports whether a credential is present.
func (p *chatProvider) IsConfigured() bool {
	return p.APIKey != ""
}

// Generate sends one best-effort chat-completion request. No retries; any
// failure surfaces as a *ServiceError.
func (p *chatProvider) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if p.APIKey == "" {
		return "", &ServiceError{Reason: p.name + " API key not configured"}
	}

	body := map[string]any{
		"model": p.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens":  maxTokens,
		"temperature": temperature,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", &ServiceError{Reason: "marshaling request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.BaseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", &ServiceError{Reason: "creating request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", &ServiceError{Reason: p.name + " request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", &ServiceError{Reason: fmt.Sprintf("%s returned %d: %s", p.name, resp.StatusCode, string(respBody))}
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &ServiceError{Reason: "decoding response", Err: err}
	}

	if len(result.Choices) == 0 {
		return "", &ServiceError{Reason: "no choices in " + p.name + " response"}
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

// CreateProvider builds the configured provider, failing fast when the
// credential env var is absent so a misconfiguration never surfaces
// mid-request.
func CreateProvider(cfg config.Narrative) (Provider, error) {
	apiKey := os.Getenv(cfg.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("narrative credential missing: set %s in the environment", cfg.APIKeyEnv)
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	switch strings.ToLower(cfg.Provider) {
	case "", "groq":
		return NewGroqProvider(cfg.Model, apiKey, timeout), nil
	case "openai":
		return NewOpenAIProvider(cfg.OpenAIModel, apiKey, timeout), nil
	default:
		return nil, fmt.Errorf("unknown narrative provider %q", cfg.Provider)
	}
}
