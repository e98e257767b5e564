// Package summarize produces short level-tuned summaries of a text.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"explainer/internal/core"
	"explainer/internal/llm"
	"explainer/internal/logger"

	"github.com/google/uuid"
)

// Params are the generation parameters for summaries: short and unsampled.
var Params = llm.Params{
	MaxTokens:   100,
	MinTokens:   30,
	Temperature: 0,
}

// ErrNoText is returned when there is nothing to summarize.
var ErrNoText = errors.New("no text to summarize")

// Summary is one generated summary.
type Summary struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Level       core.Level `json:"level"`
	BackendUsed string     `json:"backend_used"`
	Prompt      string     `json:"prompt"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// Summarizer handles summarization using a language model backend
type Summarizer struct {
	backend llm.Backend
}

// NewSummarizer creates a new summarizer with the given backend
func NewSummarizer(backend llm.Backend) *Summarizer {
	return &Summarizer{backend: backend}
}

// Summarize summarizes text for level. The backend is called once and the
// whole text is sent; a failed call is returned, not retried.
func (s *Summarizer) Summarize(ctx context.Context, text string, level core.Level) (Summary, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Summary{}, ErrNoText
	}
	if s.backend == nil {
		return Summary{}, errors.New("no language model backend configured")
	}

	parsed, ok := core.ParseLevel(string(level))
	if !ok {
		logger.Warn("Unknown summary level, using expert", "level", string(level))
	}
	level = parsed
	prompt := BuildSummaryPrompt(text, level)

	response, err := s.backend.Generate(ctx, llm.Request{Prompt: prompt, Params: Params})
	if err != nil {
		return Summary{}, fmt.Errorf("failed to generate summary: %w", err)
	}
	response = strings.TrimSpace(response)
	if response == "" {
		return Summary{}, fmt.Errorf("failed to generate summary: %w", llm.ErrEmptyResponse)
	}

	return Summary{
		ID:          uuid.NewString(),
		Text:        response,
		Level:       level,
		BackendUsed: s.backend.Name(),
		Prompt:      prompt,
		GeneratedAt: time.Now(),
	}, nil
}
