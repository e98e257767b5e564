package integration

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"explainer/internal/core"
	"explainer/internal/explain"
	"explainer/internal/fetch"
	"explainer/internal/interactive"
	"explainer/internal/llm"
	"explainer/internal/summarize"
	"explainer/internal/tts"
	"explainer/test/mocks"
)

// TestExplainWorkflow runs topic lookup, explanation and summary through mocks
func TestExplainWorkflow(t *testing.T) {
	ctx := context.Background()

	backend := &mocks.MockBackend{}
	topics := &mocks.MockTopicSource{Summaries: map[string]string{
		"Photosynthesis": "Photosynthesis is the process plants use to turn light into chemical energy.",
	}}
	e := explain.New(backend, explain.WithTopicSource(topics), explain.WithPageSource(&mocks.MockPageSource{}))

	t.Run("TopicForEveryLevel", func(t *testing.T) {
		for _, level := range core.Levels() {
			result := e.ExplainTopic(ctx, "Photosynthesis", level)
			if !result.OK() {
				t.Fatalf("%s: %s", level, result.Display())
			}
			if result.Explanation.Level != level {
				t.Errorf("level = %q, want %q", result.Explanation.Level, level)
			}
		}
		if got := len(backend.Requests()); got != 3 {
			t.Errorf("backend calls = %d, want 3", got)
		}
	})

	t.Run("MissingTopic", func(t *testing.T) {
		result := e.ExplainTopic(ctx, "Not A Real Topic", core.LevelChild)
		if result.Display() != fetch.NotFoundMessage {
			t.Errorf("display = %q", result.Display())
		}
	})

	t.Run("PageExplanation", func(t *testing.T) {
		result := e.ExplainURL(ctx, "https://example.com/page", core.LevelTeen)
		if !result.OK() || !strings.HasPrefix(result.Explanation.Text, "Key Points to Remember:") {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("Summary", func(t *testing.T) {
		s := summarize.NewSummarizer(backend)
		summary, err := s.Summarize(ctx, "Long passage about leaves.", core.LevelChild)
		if err != nil {
			t.Fatalf("Summarize failed: %v", err)
		}
		last := backend.Requests()[len(backend.Requests())-1]
		if last.Prompt != "Summarize this for a 10 year old:Long passage about leaves." {
			t.Errorf("prompt = %q", last.Prompt)
		}
		if summary.Text == "" {
			t.Error("expected summary text")
		}
	})
}

// TestChatWorkflow runs a chat session with memory and speech through mocks
func TestChatWorkflow(t *testing.T) {
	calls := 0
	backend := &mocks.MockBackend{GenerateFunc: func(ctx context.Context, req llm.Request) (string, error) {
		calls++
		if calls == 2 {
			return "", errors.New("temporary failure")
		}
		return "Answer number " + string(rune('0'+calls)), nil
	}}
	speaker := &mocks.MockSpeaker{}

	var out bytes.Buffer
	input := strings.NewReader("first question\nsecond question\nthird question\n/play\n/exit\n")
	h := interactive.NewChatHandler(explain.New(backend), nil,
		interactive.WithIO(input, &out),
		interactive.WithSpeaker(speaker, core.VoiceConfig{}, false),
	)

	if err := h.RunChatLoop(context.Background()); err != nil {
		t.Fatalf("RunChatLoop failed: %v", err)
	}

	// The failed exchange is not remembered.
	if got := h.Memory().Len(); got != 4 {
		t.Errorf("memory = %d messages, want 4", got)
	}
	if said := speaker.Said(); len(said) != 1 || said[0] != "Answer number 3" {
		t.Errorf("said = %v", said)
	}
	if !strings.Contains(out.String(), "temporary failure") {
		t.Error("failure not reported to the user")
	}
	requests := backend.Requests()
	if len(requests[2].History) != 2 {
		t.Errorf("third call history = %d, want 2", len(requests[2].History))
	}
}

// TestDirectSpeech speaks through the mock engine without a player
func TestDirectSpeech(t *testing.T) {
	engine := mocks.NewMockEngine()
	engine.VoicesFunc = func(ctx context.Context) ([]tts.Voice, error) {
		return nil, errors.New("voice listing unavailable")
	}

	synth, err := tts.NewSynthesizer(engine, tts.Options{Mode: tts.ModeDirect})
	if err != nil {
		t.Fatalf("NewSynthesizer failed: %v", err)
	}

	done, err := synth.Say(context.Background(), "**Hello** _world_", core.VoiceConfig{Gender: core.GenderFemale})
	if err != nil {
		t.Fatalf("Say failed: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("speech failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("speech did not finish")
	}

	if spoken := engine.Spoken(); len(spoken) != 1 || spoken[0] != "Hello world" {
		t.Errorf("spoken = %v", spoken)
	}
	if !errors.Is(synth.Stop(), tts.ErrStopUnsupported) {
		t.Error("direct mode must not support stop")
	}
}
