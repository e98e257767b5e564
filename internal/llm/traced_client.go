package llm

import (
	"context"
	"time"

	"explainer/internal/observability"
)

// TracedBackend wraps a Backend with generation tracing
type TracedBackend struct {
	backend Backend
	tracer  *observability.LangFuseClient
}

// NewTracedBackend wraps backend. When tracing is disabled the backend is
// returned unchanged.
func NewTracedBackend(backend Backend, tracer *observability.LangFuseClient) Backend {
	if !tracer.IsEnabled() {
		return backend
	}
	return &TracedBackend{backend: backend, tracer: tracer}
}

// Name implements Backend.
func (tb *TracedBackend) Name() string {
	return tb.backend.Name()
}

// Generate implements Backend.
func (tb *TracedBackend) Generate(ctx context.Context, req Request) (string, error) {
	trace, err := tb.tracer.CreateTrace(ctx, observability.TraceOptions{
		Name: "text_generation",
		Tags: []string{"llm", "generation"},
	})
	if err != nil {
		// If tracing fails, continue without it
		return tb.backend.Generate(ctx, req)
	}

	startTime := time.Now()
	result, genErr := tb.backend.Generate(ctx, req)

	_ = tb.tracer.TrackGeneration(trace, observability.GenerationOptions{
		Backend:     tb.backend.Name(),
		Prompt:      req.Prompt,
		Completion:  result,
		Temperature: req.Params.Temperature,
		MaxTokens:   req.Params.MaxTokens,
		MinTokens:   req.Params.MinTokens,
		LatencyMs:   time.Since(startTime).Milliseconds(),
		Err:         genErr,
	})

	return result, genErr
}
