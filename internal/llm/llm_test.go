package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"explainer/internal/config"
	"explainer/internal/core"
	"explainer/internal/observability"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Ollama
// ---------------------------------------------------------------------------

func TestOllama_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gemma3", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, float32(0.8), req.Options.Temperature)
		assert.Equal(t, 150, req.Options.NumPredict)
		require.Len(t, req.Messages, 4)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "assistant", req.Messages[2].Role)
		assert.Equal(t, "Question: why is the sky blue?", req.Messages[3].Content)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ollamaChatResponse{
			Model:   "gemma3",
			Message: ollamaMessage{Role: "assistant", Content: "  Light scatters.  "},
		})
	}))
	defer srv.Close()

	backend := NewOllama(srv.URL, "gemma3")
	text, err := backend.Generate(context.Background(), Request{
		System: "You are a helpful assistant.",
		Prompt: "Question: why is the sky blue?",
		History: []core.ChatMessage{
			{Role: core.RoleUser, Content: "hi"},
			{Role: core.RoleAssistant, Content: "hello"},
		},
		Params: Params{MaxTokens: 150, Temperature: 0.8},
	})

	require.NoError(t, err)
	assert.Equal(t, "Light scatters.", text)
	assert.Equal(t, "ollama:gemma3", backend.Name())
}

func TestOllama_Generate_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllama(srv.URL, "missing").Generate(context.Background(), Request{Prompt: "x"})
	require.Error(t, err)

	var statusErr *HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "model not found")
}

func TestOllama_Generate_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ollamaChatResponse{Message: ollamaMessage{Content: "   "}})
	}))
	defer srv.Close()

	_, err := NewOllama(srv.URL, "gemma3").Generate(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOllama_Generate_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewOllama(url, "gemma3").Generate(context.Background(), Request{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama not accessible")
}

func TestOllama_IsAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	ok, err := NewOllama(srv.URL, "").IsAvailable(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

// ---------------------------------------------------------------------------
// OpenRouter
// ---------------------------------------------------------------------------

func TestChatURL(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"https://openrouter.ai/api/v1", "https://openrouter.ai/api/v1/chat/completions"},
		{"https://openrouter.ai/api/v1/", "https://openrouter.ai/api/v1/chat/completions"},
		{"http://localhost:8080", "http://localhost:8080/v1/chat/completions"},
		{"", "https://openrouter.ai/api/v1/chat/completions"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, chatURL(tc.base), "base=%q", tc.base)
	}
}

func TestNewOpenRouter_MissingKey(t *testing.T) {
	_, err := NewOpenRouter("  ", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestOpenRouter_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-or-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "mistralai/mistral-7b-instruct", req.Model)
		require.NotNil(t, req.Temperature)
		assert.Equal(t, float32(0.8), *req.Temperature)
		assert.Nil(t, req.TopP)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "Question: gravity", req.Messages[1].Content)

		_, _ = w.Write([]byte(`{"id":"gen-1","choices":[{"index":0,"message":{"role":"assistant","content":"Things fall."}}]}`))
	}))
	defer srv.Close()

	backend, err := NewOpenRouter("sk-or-test", "", WithBaseURL(srv.URL))
	require.NoError(t, err)

	text, err := backend.Generate(context.Background(), Request{
		System: "You are a helpful assistant.",
		Prompt: "Question: gravity",
		Params: Params{Temperature: 0.8},
	})
	require.NoError(t, err)
	assert.Equal(t, "Things fall.", text)
}

func TestOpenRouter_Generate_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"gen-2","choices":[]}`))
	}))
	defer srv.Close()

	backend, err := NewOpenRouter("sk-or-test", "", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = backend.Generate(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenRouter_Generate_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer srv.Close()

	backend, err := NewOpenRouter("sk-or-wrong", "", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	_, err = backend.Generate(context.Background(), Request{Prompt: "x"})
	var statusErr *HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}

// ---------------------------------------------------------------------------
// Gemini helpers
// ---------------------------------------------------------------------------

func TestNewGemini_MissingKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestToGeminiHistory(t *testing.T) {
	contents := toGeminiHistory([]core.ChatMessage{
		{Role: core.RoleUser, Content: "What is DNA?"},
		{Role: core.RoleAssistant, Content: "A molecule."},
	})
	require.Len(t, contents, 2)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
	assert.Equal(t, genai.Text("A molecule."), contents[1].Parts[0])
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("Cells "), genai.Text("divide.")}},
		}},
	}
	text, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, "Cells divide.", text)

	_, err = responseText(&genai.GenerateContentResponse{})
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = responseText(nil)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

// ---------------------------------------------------------------------------
// Factory and tracing
// ---------------------------------------------------------------------------

func TestNewBackend(t *testing.T) {
	ai := config.AI{
		RemoteProvider: config.ProviderOpenRouter,
		Ollama:         config.OllamaConfig{BaseURL: "http://localhost:11434", Model: "gemma3"},
		OpenRouter:     config.OpenRouterConfig{APIKey: "sk-or-test", Model: "mistralai/mistral-7b-instruct"},
	}

	local, err := NewBackend(context.Background(), ai, core.ModeLocal)
	require.NoError(t, err)
	assert.Equal(t, "ollama:gemma3", local.Name())

	remote, err := NewBackend(context.Background(), ai, core.ModeRemote)
	require.NoError(t, err)
	assert.Equal(t, "openrouter:mistralai/mistral-7b-instruct", remote.Name())

	ai.OpenRouter.APIKey = ""
	_, err = NewBackend(context.Background(), ai, core.ModeRemote)
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewBackend(context.Background(), ai, core.BackendMode("Online"))
	assert.Error(t, err)
}

type stubBackend struct {
	text string
	err  error
}

func (s stubBackend) Name() string { return "stub" }

func (s stubBackend) Generate(ctx context.Context, req Request) (string, error) {
	return s.text, s.err
}

func TestNewTracedBackend(t *testing.T) {
	disabled, err := observability.NewLangFuseClient(config.Tracing{})
	require.NoError(t, err)
	inner := stubBackend{text: "ok"}
	assert.Equal(t, Backend(inner), NewTracedBackend(inner, disabled), "disabled tracing must not wrap")

	enabled, err := observability.NewLangFuseClient(config.Tracing{Enabled: true, APIKey: "k"})
	require.NoError(t, err)

	traced := NewTracedBackend(stubBackend{err: errors.New("boom")}, enabled)
	assert.Equal(t, "stub", traced.Name())
	_, err = traced.Generate(context.Background(), Request{Prompt: "x"})
	assert.EqualError(t, err, "boom")
}
