package mocks

import (
	"context"
	"sync"

	"explainer/internal/core"
	"explainer/internal/fetch"
	"explainer/internal/llm"
	"explainer/internal/tts"
)

// MockBackend provides a mock implementation of llm.Backend
type MockBackend struct {
	NameValue    string
	GenerateFunc func(ctx context.Context, req llm.Request) (string, error)

	mu       sync.Mutex
	requests []llm.Request
}

func (m *MockBackend) Name() string {
	if m.NameValue != "" {
		return m.NameValue
	}
	return "mock:model"
}

func (m *MockBackend) Generate(ctx context.Context, req llm.Request) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return "Mock explanation. It has two sentences.", nil
}

// Requests returns the requests received so far.
func (m *MockBackend) Requests() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]llm.Request(nil), m.requests...)
}

// MockTopicSource provides a mock implementation of explain.TopicSource
type MockTopicSource struct {
	SummaryFunc func(ctx context.Context, topic string) (string, error)
	Summaries   map[string]string
}

func (m *MockTopicSource) Summary(ctx context.Context, topic string) (string, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx, topic)
	}
	if s, ok := m.Summaries[topic]; ok {
		return s, nil
	}
	return "", fetch.ErrTopicNotFound
}

// MockPageSource provides a mock implementation of explain.PageSource
type MockPageSource struct {
	FetchFunc func(ctx context.Context, rawURL string) (fetch.Page, error)
}

func (m *MockPageSource) Fetch(ctx context.Context, rawURL string) (fetch.Page, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, rawURL)
	}
	return fetch.Page{URL: rawURL, Title: "Mock Page", Text: "Mock page content"}, nil
}

// MockSpeaker provides a mock implementation of interactive.Speaker
type MockSpeaker struct {
	SayFunc func(ctx context.Context, text string, cfg core.VoiceConfig) (<-chan error, error)

	mu      sync.Mutex
	said    []string
	stopped int
}

func (m *MockSpeaker) Say(ctx context.Context, text string, cfg core.VoiceConfig) (<-chan error, error) {
	m.mu.Lock()
	m.said = append(m.said, text)
	m.mu.Unlock()

	if m.SayFunc != nil {
		return m.SayFunc(ctx, text, cfg)
	}
	done := make(chan error)
	close(done)
	return done, nil
}

func (m *MockSpeaker) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped++
	return nil
}

// Said returns the texts passed to Say.
func (m *MockSpeaker) Said() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.said...)
}

// Stopped returns how many times Stop was called.
func (m *MockSpeaker) Stopped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// MockEngine wraps tts.Mock so tests can inject voice listing failures.
type MockEngine struct {
	*tts.Mock
	VoicesFunc func(ctx context.Context) ([]tts.Voice, error)
}

// NewMockEngine creates a MockEngine backed by the silent mock engine.
func NewMockEngine() *MockEngine {
	return &MockEngine{Mock: tts.NewMock()}
}

func (m *MockEngine) Voices(ctx context.Context) ([]tts.Voice, error) {
	if m.VoicesFunc != nil {
		return m.VoicesFunc(ctx)
	}
	return m.Mock.Voices(ctx)
}
