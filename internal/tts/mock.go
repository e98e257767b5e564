package tts

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Mock is an engine for tests and machines without speech support. It
// writes silent WAV files and records what it was asked to say.
type Mock struct {
	mu     sync.Mutex
	spoken []string
	voices []Voice
}

// NewMock creates a mock engine with one male and one female voice.
func NewMock() *Mock {
	return &Mock{
		voices: []Voice{
			{ID: "mock-default", Name: "Mock Default", Language: "en"},
			{ID: "mock-male", Name: "Mock Male", Language: "en"},
			{ID: "mock-female", Name: "Mock Female", Language: "en"},
		},
	}
}

// Name implements Engine.
func (m *Mock) Name() string {
	return "mock"
}

// Voices implements Engine.
func (m *Mock) Voices(ctx context.Context) ([]Voice, error) {
	return append([]Voice(nil), m.voices...), nil
}

// mockFormat is 16 kHz mono 16-bit PCM.
var mockFormat = wavFormat{AudioFormat: 1, Channels: 1, SampleRate: 16000, BitsPerSample: 16}

// SynthesizeToFile implements Engine. The file holds 10ms of silence per word.
func (m *Mock) SynthesizeToFile(ctx context.Context, text string, voice Voice, rate int, path string) error {
	m.record(text)

	words := len(strings.Fields(text))
	samples := make([]byte, words*int(mockFormat.byteRate())/100)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create mock audio file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return writeWAV(f, mockFormat, samples)
}

// Speak implements Engine.
func (m *Mock) Speak(ctx context.Context, text string, voice Voice, rate int) error {
	m.record(text)
	return ctx.Err()
}

func (m *Mock) record(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spoken = append(m.spoken, text)
}

// Spoken returns every text passed to the engine, oldest first.
func (m *Mock) Spoken() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.spoken...)
}
