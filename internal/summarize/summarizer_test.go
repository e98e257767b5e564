package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"explainer/internal/core"
	"explainer/internal/llm"
)

// mockBackend implements llm.Backend for testing
type mockBackend struct {
	responses []string
	errs      []error
	prompts   []string
	params    []llm.Params
}

func (m *mockBackend) Name() string { return "mock" }

func (m *mockBackend) Generate(ctx context.Context, req llm.Request) (string, error) {
	i := len(m.prompts)
	m.prompts = append(m.prompts, req.Prompt)
	m.params = append(m.params, req.Params)
	if i < len(m.errs) && m.errs[i] != nil {
		return "", m.errs[i]
	}
	if i < len(m.responses) {
		return m.responses[i], nil
	}
	return "A summary.", nil
}

func TestBuildSummaryPrompt(t *testing.T) {
	tests := []struct {
		level core.Level
		want  string
	}{
		{core.LevelChild, "Summarize this for a 10 year old:Rain falls."},
		{core.LevelTeen, "Summarize this for a High School Student:Rain falls."},
		{core.LevelExpert, "Summarize this technically for a college Student:Rain falls."},
		{core.Level(""), "Summarize this technically for a college Student:Rain falls."},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			if got := BuildSummaryPrompt("Rain falls.", tt.level); got != tt.want {
				t.Errorf("BuildSummaryPrompt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummarize_AllLevels(t *testing.T) {
	for _, level := range core.Levels() {
		backend := &mockBackend{responses: []string{"  Short summary.  "}}
		s := NewSummarizer(backend)

		summary, err := s.Summarize(context.Background(), "Water evaporates and condenses.", level)
		if err != nil {
			t.Fatalf("Summarize(%s) error = %v", level, err)
		}
		if summary.Text != "Short summary." {
			t.Errorf("Text = %q", summary.Text)
		}
		if summary.Level != level {
			t.Errorf("Level = %q, want %q", summary.Level, level)
		}
		if summary.ID == "" || summary.BackendUsed != "mock" {
			t.Errorf("unexpected summary metadata: %+v", summary)
		}
		if backend.params[0] != Params {
			t.Errorf("params = %+v, want %+v", backend.params[0], Params)
		}
	}
}

func TestSummarize_FailureIsNotRetried(t *testing.T) {
	failure := errors.New("backend down")
	backend := &mockBackend{errs: []error{failure, nil}}
	s := NewSummarizer(backend)

	_, err := s.Summarize(context.Background(), "Some text.", core.LevelChild)
	if !errors.Is(err, failure) {
		t.Fatalf("error = %v, want wrapped %v", err, failure)
	}
	if len(backend.prompts) != 1 {
		t.Errorf("calls = %d, want 1", len(backend.prompts))
	}
}

func TestSummarize_EmptyInput(t *testing.T) {
	s := NewSummarizer(&mockBackend{})
	if _, err := s.Summarize(context.Background(), "   ", core.LevelChild); !errors.Is(err, ErrNoText) {
		t.Errorf("error = %v, want ErrNoText", err)
	}
}

func TestSummarize_EmptyResponse(t *testing.T) {
	backend := &mockBackend{responses: []string{"   "}}
	s := NewSummarizer(backend)

	_, err := s.Summarize(context.Background(), "One two three. Four five six.", core.LevelExpert)
	if !errors.Is(err, llm.ErrEmptyResponse) {
		t.Fatalf("error = %v, want ErrEmptyResponse", err)
	}
	if len(backend.prompts) != 1 {
		t.Errorf("calls = %d, want 1", len(backend.prompts))
	}
}

func TestSummarize_SendsWholeText(t *testing.T) {
	text := strings.Repeat("光合作用", 400)
	backend := &mockBackend{}
	s := NewSummarizer(backend)

	summary, err := s.Summarize(context.Background(), text, core.LevelTeen)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	want := "Summarize this for a High School Student:" + text
	if backend.prompts[0] != want || summary.Prompt != want {
		t.Errorf("prompt was altered: got %d bytes, want %d", len(backend.prompts[0]), len(want))
	}
	if !utf8.ValidString(backend.prompts[0]) {
		t.Error("prompt is not valid UTF-8")
	}
}
