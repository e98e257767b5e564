package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"explainer/internal/config"
	"explainer/internal/core"
)

var (
	// ErrEmptyResponse is returned when a backend answers with no text.
	ErrEmptyResponse = errors.New("empty response from model")

	// ErrMissingAPIKey is returned when a remote backend has no credentials.
	ErrMissingAPIKey = errors.New("API key is required")
)

// Params are the fixed generation parameters a prompt is sent with.
// Backends ignore the fields their API has no equivalent for; MinTokens in
// particular is recorded for tracing only.
type Params struct {
	MaxTokens    int     // Upper bound on generated tokens
	MinTokens    int     // Lower bound on generated tokens
	Temperature  float32 // Sampling temperature
	TopP         float32 // Nucleus sampling threshold, 0 leaves the backend default
	RepeatWindow int     // Repetition-avoidance window, 0 leaves the backend default
}

// Request is one generation call.
type Request struct {
	System  string             // System instruction, may be empty
	Prompt  string             // The user turn
	History []core.ChatMessage // Prior turns, oldest first
	Params  Params
}

// Backend generates text from a prompt.
type Backend interface {
	// Name identifies the backend and model, e.g. "ollama:gemma3".
	Name() string

	// Generate blocks until the backend returns text or fails.
	Generate(ctx context.Context, req Request) (string, error)
}

// HTTPStatusError captures non-2xx upstream responses.
type HTTPStatusError struct {
	Backend    string
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d from %s: %s", e.Backend, e.StatusCode, e.URL, e.Body)
}

// defaultHTTPClient is shared by the HTTP backends. The request context
// carries the per-call timeout.
func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 5 * time.Minute}
}

// NewBackend builds the backend for the given mode from the AI configuration.
// There is no fallback: a remote mode without credentials is an error.
func NewBackend(ctx context.Context, cfg config.AI, mode core.BackendMode) (Backend, error) {
	switch mode {
	case core.ModeLocal:
		return NewOllama(cfg.Ollama.BaseURL, cfg.Ollama.Model), nil
	case core.ModeRemote:
		switch cfg.RemoteProvider {
		case config.ProviderGemini:
			return NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		case config.ProviderOpenRouter, "":
			return NewOpenRouter(cfg.OpenRouter.APIKey, cfg.OpenRouter.Model, WithBaseURL(cfg.OpenRouter.BaseURL))
		default:
			return nil, fmt.Errorf("unknown remote provider %q", cfg.RemoteProvider)
		}
	default:
		return nil, fmt.Errorf("unknown backend mode %q", mode)
	}
}
