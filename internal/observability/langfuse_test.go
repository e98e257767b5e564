package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"explainer/internal/config"
	"explainer/internal/logger"
)

func TestNewLangFuseClient_Disabled(t *testing.T) {
	client, err := NewLangFuseClient(config.Tracing{})
	if err != nil {
		t.Fatalf("NewLangFuseClient failed: %v", err)
	}
	if client.IsEnabled() {
		t.Error("Expected disabled client")
	}

	trace, err := client.CreateTrace(context.Background(), TraceOptions{Name: "noop"})
	if err != nil || trace != nil {
		t.Errorf("Expected nil trace from disabled client, got %v, %v", trace, err)
	}
	if err := client.TrackGeneration(trace, GenerationOptions{}); err != nil {
		t.Errorf("TrackGeneration on disabled client returned %v", err)
	}
}

func TestNewLangFuseClient_EnabledWithoutKey(t *testing.T) {
	var buf bytes.Buffer
	logger.Configure(logger.Options{Level: "warn", Format: "json", Output: &buf})
	defer logger.Configure(logger.Options{})

	client, err := NewLangFuseClient(config.Tracing{Enabled: true})
	if err != nil {
		t.Fatalf("Tracing without a key must not fail, got %v", err)
	}
	if client.IsEnabled() {
		t.Error("Expected tracing to stay disabled without a key")
	}
	if !strings.Contains(buf.String(), "no tracing key configured") {
		t.Errorf("Expected a warning, got %q", buf.String())
	}
}

func TestTrackGeneration_Logs(t *testing.T) {
	var buf bytes.Buffer
	logger.Configure(logger.Options{Level: "debug", Format: "json", Output: &buf})
	defer logger.Configure(logger.Options{})

	client, err := NewLangFuseClient(config.Tracing{Enabled: true, APIKey: "sk-lf-test"})
	if err != nil {
		t.Fatalf("NewLangFuseClient failed: %v", err)
	}

	trace, err := client.CreateTrace(context.Background(), TraceOptions{Name: "explain_level", SessionID: "s-1"})
	if err != nil {
		t.Fatalf("CreateTrace failed: %v", err)
	}
	if !strings.HasPrefix(trace.ID(), "trace_") {
		t.Errorf("Unexpected trace ID %q", trace.ID())
	}

	err = client.TrackGeneration(trace, GenerationOptions{
		Backend:    "ollama:gemma3",
		Prompt:     "Explain photosynthesis",
		Completion: "Plants make food.",
		MaxTokens:  300,
		Err:        errors.New("partial"),
	})
	if err != nil {
		t.Fatalf("TrackGeneration failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"generation tracked", `"backend":"ollama:gemma3"`, `"max_tokens":300`, "partial", trace.ID()} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected log output to contain %q, got %s", want, out)
		}
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens("abcd", "efgh"); got != 2 {
		t.Errorf("EstimateTokens = %d, want 2", got)
	}
}
