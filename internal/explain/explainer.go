// Package explain turns source text into level- or style-tuned explanations.
//
// One Explainer serves every front end: topic and text explanations by
// audience level, web page explanations, and chat-assistant answers by style.
// Every call returns a Result; failures never surface as panics or as text
// that looks like an explanation.
package explain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"explainer/internal/core"
	"explainer/internal/fetch"
	"explainer/internal/llm"
	"explainer/internal/logger"
)

// LevelParams are the generation parameters for level explanations.
var LevelParams = llm.Params{
	MaxTokens:    300,
	MinTokens:    100,
	Temperature:  0.7,
	TopP:         0.9,
	RepeatWindow: 2,
}

// ChatParams are the generation parameters for chat-assistant answers.
var ChatParams = llm.Params{
	MaxTokens:   150,
	Temperature: 0.8,
}

// TopicSource looks up a topic summary.
type TopicSource interface {
	Summary(ctx context.Context, topic string) (string, error)
}

// PageSource fetches readable text from a web page.
type PageSource interface {
	Fetch(ctx context.Context, rawURL string) (fetch.Page, error)
}

// Factory returns the explainer for a backend mode. An error means the mode
// cannot be served with the current configuration.
type Factory func(ctx context.Context, mode core.BackendMode) (*Explainer, error)

// Explainer runs the fetch, prompt, generate and post-process pipeline.
type Explainer struct {
	backend llm.Backend
	topics  TopicSource
	pages   PageSource
	timeout time.Duration
	now     func() time.Time
}

// Option configures an Explainer.
type Option func(*Explainer)

// WithTopicSource sets the knowledge source used by ExplainTopic.
func WithTopicSource(topics TopicSource) Option {
	return func(e *Explainer) { e.topics = topics }
}

// WithPageSource sets the page fetcher used by ExplainURL.
func WithPageSource(pages PageSource) Option {
	return func(e *Explainer) { e.pages = pages }
}

// WithTimeout bounds each backend call. Zero means no bound.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Explainer) { e.timeout = timeout }
}

// New creates an Explainer on backend.
func New(backend llm.Backend, opts ...Option) *Explainer {
	e := &Explainer{backend: backend, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Backend returns the backend the explainer generates with.
func (e *Explainer) Backend() llm.Backend {
	return e.backend
}

// ExplainLevel explains req.SourceText for req.Level.
func (e *Explainer) ExplainLevel(ctx context.Context, req core.ExplanationRequest) Result {
	level, ok := core.ParseLevel(string(req.Level))
	if !ok {
		logger.Warn("Unknown explanation level, using expert", "level", string(req.Level))
	}

	prompt := BuildLevelPrompt(req.SourceText, level)
	text, err := e.generate(ctx, llm.Request{Prompt: prompt, Params: LevelParams})
	if err != nil {
		logger.Error("Explanation generation failed", err, "level", string(level))
		return Failed(ReasonGenerationFailed, err)
	}

	return succeeded(core.GeneratedExplanation{
		Text:        PostProcess(level, text),
		Level:       level,
		BackendUsed: e.backend.Name(),
		Prompt:      prompt,
		GeneratedAt: e.now(),
	})
}

// ExplainTopic fetches the topic summary and explains it for level.
func (e *Explainer) ExplainTopic(ctx context.Context, topic string, level core.Level) Result {
	if e.topics == nil {
		return MissingConfig(errors.New("no topic source configured"))
	}

	summary, err := e.topics.Summary(ctx, topic)
	if errors.Is(err, fetch.ErrTopicNotFound) {
		logger.Info("Topic not found", "topic", topic)
		return Failed(ReasonTopicNotFound, err)
	}
	if err != nil {
		logger.Error("Topic fetch failed", err, "topic", topic)
		return Failed(ReasonFetchFailed, err)
	}

	return e.ExplainLevel(ctx, core.ExplanationRequest{SourceText: summary, Level: level, Topic: topic})
}

// ExplainURL fetches a web page and explains its text for level.
func (e *Explainer) ExplainURL(ctx context.Context, rawURL string, level core.Level) Result {
	if e.pages == nil {
		return MissingConfig(errors.New("no page fetcher configured"))
	}

	page, err := e.pages.Fetch(ctx, rawURL)
	if err != nil {
		logger.Error("Page fetch failed", err, "url", rawURL)
		return Failed(ReasonFetchFailed, err)
	}

	return e.ExplainLevel(ctx, core.ExplanationRequest{SourceText: page.Text, Level: level, SourceURL: page.URL})
}

// ExplainStyle answers req.SourceText in req.Style. History holds the prior
// conversation turns, oldest first, and may be nil.
func (e *Explainer) ExplainStyle(ctx context.Context, req core.ExplanationRequest, history []core.ChatMessage) Result {
	style := req.Style
	if style == "" {
		style = core.StyleDefault
	}

	prompt := BuildQuestion(BuildStylePrompt(req.SourceText, style))
	text, err := e.generate(ctx, llm.Request{
		System:  SystemPrompt,
		Prompt:  prompt,
		History: history,
		Params:  ChatParams,
	})
	if err != nil {
		logger.Error("Chat generation failed", err, "style", string(style))
		return Failed(ReasonGenerationFailed, err)
	}

	return succeeded(core.GeneratedExplanation{
		Text:        text,
		Style:       style,
		Subheading:  Subheading(style),
		BackendUsed: e.backend.Name(),
		Prompt:      prompt,
		GeneratedAt: e.now(),
	})
}

// generate calls the backend, converting a panic into an error.
func (e *Explainer) generate(ctx context.Context, req llm.Request) (text string, err error) {
	if e.backend == nil {
		return "", errors.New("no language model backend configured")
	}

	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%s backend panicked: %v", e.backend.Name(), r)
		}
	}()

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err = e.backend.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	logger.Debug("Generated explanation", "backend", e.backend.Name(), "chars", len(text), "duration", time.Since(start).String())

	text = strings.TrimSpace(text)
	if text == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}
