package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"explainer/internal/core"
	"explainer/internal/explain"
	"explainer/internal/fetch"
)

func TestNewRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()

	want := []string{"topic", "text", "url", "ask", "chat", "tui", "summarize", "speak", "voices", "audio", "serve"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	clean, _, err := root.Find([]string{"audio", "clean"})
	if err != nil || clean.Name() != "clean" {
		t.Error("audio clean not registered")
	}
}

func TestLevelFlagsDefaults(t *testing.T) {
	cmd := NewTopicCmd()
	if got := cmd.Flags().Lookup("level").DefValue; got != "child" {
		t.Errorf("level default = %q", got)
	}
	if got := cmd.Flags().Lookup("format").DefValue; got != formatTerminal {
		t.Errorf("format default = %q", got)
	}
}

func TestPrintResult_Terminal(t *testing.T) {
	var buf bytes.Buffer
	result := explain.Result{
		Status: explain.StatusOK,
		Explanation: core.GeneratedExplanation{
			Text:        "Plants make food.",
			BackendUsed: "ollama:gemma3",
		},
	}

	if err := printResult(&buf, result, levelTitle("Photosynthesis", core.LevelChild), formatTerminal); err != nil {
		t.Fatalf("printResult() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Photosynthesis, explained for a 10-year-old", "Plants make food.", "via ollama:gemma3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintResult_Failure(t *testing.T) {
	var buf bytes.Buffer
	result := explain.Failed(explain.ReasonTopicNotFound, fetch.ErrTopicNotFound)

	err := printResult(&buf, result, "", formatTerminal)
	if err == nil {
		t.Fatal("expected an error for a failed result")
	}
	if !strings.Contains(buf.String(), fetch.NotFoundMessage) {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPrintResult_JSON(t *testing.T) {
	var buf bytes.Buffer
	result := explain.Failed(explain.ReasonGenerationFailed, errors.New("timeout"))

	_ = printResult(&buf, result, "", formatJSON)

	var decoded jsonResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Status != explain.StatusFailed || decoded.Message != "Error generating explanation: timeout" {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.Explanation != nil {
		t.Error("failed result must not carry an explanation")
	}
}

func TestPrintResult_BadFormat(t *testing.T) {
	var buf bytes.Buffer
	err := printResult(&buf, explain.Result{Status: explain.StatusOK}, "", "yaml")
	if err == nil || !strings.Contains(err.Error(), "invalid format") {
		t.Errorf("error = %v", err)
	}
}

func TestLevelTitle(t *testing.T) {
	tests := []struct {
		subject string
		level   core.Level
		want    string
	}{
		{"", core.LevelTeen, "📘 Explanation for a high school student"},
		{"Gravity", core.LevelExpert, "📘 Gravity, explained for an expert"},
		{"Gravity", core.Level("unknown"), "📘 Gravity, explained for an expert"},
	}
	for _, tt := range tests {
		if got := levelTitle(tt.subject, tt.level); got != tt.want {
			t.Errorf("levelTitle(%q, %q) = %q, want %q", tt.subject, tt.level, got, tt.want)
		}
	}
}
