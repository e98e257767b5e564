// Package observability provides optional LLM tracing.
package observability

import (
	"context"

	"explainer/internal/config"
	"explainer/internal/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LangFuseClient records LLM traces. It logs traces locally through the
// application logger; nothing is sent over the network.
type LangFuseClient struct {
	enabled bool
	log     *zerolog.Logger
	config  config.Tracing
}

// TraceClient represents a trace for tracking operations
type TraceClient struct {
	id   string
	name string
}

// ID returns the trace identifier.
func (t *TraceClient) ID() string {
	if t == nil {
		return ""
	}
	return t.id
}

// TraceOptions contains options for creating traces
type TraceOptions struct {
	Name      string            // Trace name (e.g., "explain_level")
	SessionID string            // Optional session identifier
	Tags      []string          // Optional tags for filtering
	Metadata  map[string]string // Optional metadata
}

// GenerationOptions contains options for LLM generation tracking
type GenerationOptions struct {
	Backend     string // Backend name including the model, e.g. "ollama:gemma3"
	Prompt      string
	Completion  string
	Temperature float32
	MaxTokens   int
	MinTokens   int
	LatencyMs   int64
	Err         error
}

// NewLangFuseClient creates a tracing client from the tracing configuration.
// A disabled configuration, or one without a key, yields a client whose
// methods are no-ops.
func NewLangFuseClient(cfg config.Tracing) (*LangFuseClient, error) {
	log := logger.Get()

	if !cfg.Enabled {
		return &LangFuseClient{enabled: false, log: log, config: cfg}, nil
	}

	if cfg.APIKey == "" {
		log.Warn().Msg("Tracing enabled but no tracing key configured (set LANGFUSE_SECRET_KEY or LANGCHAIN_API_KEY), continuing without tracing")
		return &LangFuseClient{enabled: false, log: log, config: cfg}, nil
	}

	log.Info().Str("host", cfg.Host).Msg("LLM tracing enabled (local logging mode)")

	return &LangFuseClient{enabled: true, log: log, config: cfg}, nil
}

// IsEnabled returns whether tracing is enabled
func (l *LangFuseClient) IsEnabled() bool {
	return l != nil && l.enabled
}

// CreateTrace creates a new trace for tracking a complete operation
func (l *LangFuseClient) CreateTrace(ctx context.Context, opts TraceOptions) (*TraceClient, error) {
	if !l.IsEnabled() {
		return nil, nil
	}

	trace := &TraceClient{
		id:   "trace_" + uuid.NewString(),
		name: opts.Name,
	}

	event := l.log.Debug().
		Str("trace_id", trace.id).
		Str("name", opts.Name).
		Strs("tags", opts.Tags)
	if opts.SessionID != "" {
		event = event.Str("session_id", opts.SessionID)
	}
	for k, v := range opts.Metadata {
		event = event.Str(k, v)
	}
	event.Msg("trace created")

	return trace, nil
}

// TrackGeneration tracks an LLM generation
func (l *LangFuseClient) TrackGeneration(trace *TraceClient, opts GenerationOptions) error {
	if !l.IsEnabled() || trace == nil {
		return nil
	}

	event := l.log.Info()
	if opts.Err != nil {
		event = l.log.Warn().Err(opts.Err)
	}

	event.
		Str("trace_id", trace.id).
		Str("trace", trace.name).
		Str("backend", opts.Backend).
		Float32("temperature", opts.Temperature).
		Int("max_tokens", opts.MaxTokens).
		Int("min_tokens", opts.MinTokens).
		Int("prompt_chars", len(opts.Prompt)).
		Int("completion_chars", len(opts.Completion)).
		Int("estimated_tokens", EstimateTokens(opts.Prompt, opts.Completion)).
		Int64("latency_ms", opts.LatencyMs).
		Msg("generation tracked")

	return nil
}

// Flush is a no-op in local logging mode.
func (l *LangFuseClient) Flush() error {
	return nil
}

// EstimateTokens approximates token usage at four characters per token.
func EstimateTokens(prompt, completion string) int {
	return (len(prompt) + len(completion)) / 4
}
