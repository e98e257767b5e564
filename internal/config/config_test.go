package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearSecrets blanks every environment variable the loader reads so tests
// do not pick up a developer's real keys.
func clearSecrets(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENROUTER_API_KEY", "OPENAI_API_KEY",
		"GEMINI_API_KEY", "GOOGLE_GEMINI_API_KEY", "GOOGLE_AI_API_KEY",
		"OLLAMA_HOST", "OLLAMA_BASE_URL",
		"LANGFUSE_SECRET_KEY", "LANGCHAIN_API_KEY",
		"DEBUG", "EXPLAINER_DEBUG", "EXPLAINER_AI_MODE",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "explainer.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearSecrets(t)
	Reset()
	defer Reset()

	cfg, err := Load(writeConfig(t, "app:\n  debug: false\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.AI.Mode != "local" {
		t.Errorf("Expected default mode local, got %q", cfg.AI.Mode)
	}
	if cfg.AI.Ollama.Model != "gemma3" {
		t.Errorf("Expected default Ollama model gemma3, got %q", cfg.AI.Ollama.Model)
	}
	if cfg.AI.OpenRouter.BaseURL != "https://openrouter.ai/api/v1" {
		t.Errorf("Unexpected OpenRouter base URL %q", cfg.AI.OpenRouter.BaseURL)
	}
	if cfg.TTS.Rate != 150 {
		t.Errorf("Expected default rate 150, got %d", cfg.TTS.Rate)
	}
	if cfg.Tracing.Enabled {
		t.Error("Tracing must stay disabled without a key")
	}
	if cfg.AI.ParsedTimeout() != 120*time.Second {
		t.Errorf("Expected 120s timeout, got %v", cfg.AI.ParsedTimeout())
	}
}

func TestLoad_RemoteWithoutKeyFailsFast(t *testing.T) {
	clearSecrets(t)
	Reset()
	defer Reset()

	_, err := Load(writeConfig(t, "ai:\n  mode: remote\n"))
	if err == nil {
		t.Fatal("Expected error when remote mode has no API key")
	}
	if !strings.Contains(err.Error(), "OpenRouter API key is required") {
		t.Errorf("Expected descriptive API key error, got: %v", err)
	}
}

func TestLoad_RemoteGeminiFromEnv(t *testing.T) {
	clearSecrets(t)
	t.Setenv("GOOGLE_AI_API_KEY", "gm-test-key")
	Reset()
	defer Reset()

	cfg, err := Load(writeConfig(t, "ai:\n  mode: remote\n  remote_provider: gemini\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.AI.Gemini.APIKey != "gm-test-key" {
		t.Errorf("Expected Gemini key from alias variable, got %q", cfg.AI.Gemini.APIKey)
	}
}

func TestLoad_TracingEnabledByKeyPresence(t *testing.T) {
	clearSecrets(t)
	t.Setenv("LANGCHAIN_API_KEY", "lc-key")
	Reset()
	defer Reset()

	cfg, err := Load(writeConfig(t, "logging:\n  level: debug\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Tracing.Enabled {
		t.Error("Expected tracing to be enabled when a key is present")
	}
	if _, present := os.LookupEnv("LANGCHAIN_TRACING_V2"); present {
		t.Error("Loading configuration must not write into the process environment")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad mode", "ai:\n  mode: cloud\n", "Unknown ai.mode"},
		{"bad rate", "tts:\n  rate: 400\n", "tts.rate must be between 100 and 250"},
		{"bad tts mode", "tts:\n  mode: stream\n", "Unknown tts.mode"},
		{"bad timeout", "ai:\n  timeout: soon\n", "invalid duration for ai.timeout"},
		{"bad provider", "ai:\n  mode: remote\n  remote_provider: acme\n", "Unknown ai.remote_provider"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearSecrets(t)
			Reset()
			defer Reset()

			_, err := Load(writeConfig(t, tc.content))
			if err == nil {
				t.Fatalf("Expected error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Expected error containing %q, got: %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateRemote(t *testing.T) {
	ai := AI{RemoteProvider: ProviderOpenRouter, OpenRouter: OpenRouterConfig{APIKey: "PLACEHOLDER"}}
	if err := ValidateRemote(ai); err == nil {
		t.Error("Expected placeholder key to be rejected")
	}

	ai.OpenRouter.APIKey = "sk-or-real"
	if err := ValidateRemote(ai); err != nil {
		t.Errorf("Expected valid key to pass, got %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandPath("~/audio"); got != filepath.Join(home, "audio") {
		t.Errorf("expandPath(~/audio) = %q", got)
	}
	t.Setenv("EXPLAINER_TEST_DIR", "/tmp/x")
	if got := expandPath("$EXPLAINER_TEST_DIR/audio"); got != "/tmp/x/audio" {
		t.Errorf("expandPath with env = %q", got)
	}
}
