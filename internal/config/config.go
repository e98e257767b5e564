package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Remote provider names accepted in ai.remote_provider.
const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

// Config holds all application configuration
type Config struct {
	App     App     `mapstructure:"app"`
	AI      AI      `mapstructure:"ai"`
	Wiki    Wiki    `mapstructure:"wiki"`
	TTS     TTS     `mapstructure:"tts"`
	Server  Server  `mapstructure:"server"`
	Tracing Tracing `mapstructure:"tracing"`
	Logging Logging `mapstructure:"logging"`
}

// App holds general application configuration
type App struct {
	Debug      bool   `mapstructure:"debug"`
	ConfigFile string `mapstructure:"config_file"`
}

// AI holds language model backend configuration
type AI struct {
	Mode           string           `mapstructure:"mode"`            // local or remote
	RemoteProvider string           `mapstructure:"remote_provider"` // openrouter or gemini
	Timeout        string           `mapstructure:"timeout"`
	Ollama         OllamaConfig     `mapstructure:"ollama"`
	OpenRouter     OpenRouterConfig `mapstructure:"openrouter"`
	Gemini         GeminiConfig     `mapstructure:"gemini"`
}

// OllamaConfig holds the local model server configuration
type OllamaConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// OpenRouterConfig holds the OpenAI-compatible remote endpoint configuration
type OpenRouterConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// GeminiConfig holds Google Gemini configuration
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// Wiki holds knowledge source configuration
type Wiki struct {
	Language  string `mapstructure:"language"`
	UserAgent string `mapstructure:"user_agent"`
	Timeout   string `mapstructure:"timeout"`
}

// TTS holds text-to-speech configuration
type TTS struct {
	Engine          string `mapstructure:"engine"` // auto, espeak, say, mock
	Mode            string `mapstructure:"mode"`   // file or direct
	Rate            int    `mapstructure:"rate"`
	Gender          string `mapstructure:"gender"`
	OutputDirectory string `mapstructure:"output_directory"`
	Player          string `mapstructure:"player"` // empty means detect
}

// Server holds web form server configuration
type Server struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Tracing holds optional LLM tracing configuration. Tracing is enabled only
// when a key is present.
type Tracing struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
	Host    string `mapstructure:"host"`
}

// Logging holds logging configuration
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

var globalConfig *Config

// Load loads the configuration from .env, the config file and the environment.
// It runs once per process; later calls return the cached configuration.
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
		}
	}

	v := viper.GetViper()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		v.SetConfigName(".explainer")
		v.SetConfigType("yaml")
	}

	setDefaults(v)
	bindEnvironmentVariables(v)

	v.SetEnvPrefix("EXPLAINER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	config.App.ConfigFile = v.ConfigFileUsed()

	if err := postProcessConfig(config); err != nil {
		return nil, fmt.Errorf("error post-processing config: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.debug", false)

	v.SetDefault("ai.mode", "local")
	v.SetDefault("ai.remote_provider", ProviderOpenRouter)
	v.SetDefault("ai.timeout", "120s")
	v.SetDefault("ai.ollama.base_url", "http://localhost:11434")
	v.SetDefault("ai.ollama.model", "gemma3")
	v.SetDefault("ai.openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("ai.openrouter.model", "mistralai/mistral-7b-instruct")
	v.SetDefault("ai.gemini.model", "gemini-1.5-flash-latest")

	v.SetDefault("wiki.language", "en")
	v.SetDefault("wiki.user_agent", "EducationalExplainer/1.0 (https://github.com/SahilB2k/educational-explainer)")
	v.SetDefault("wiki.timeout", "15s")

	v.SetDefault("tts.engine", "auto")
	v.SetDefault("tts.mode", "file")
	v.SetDefault("tts.rate", 150)
	v.SetDefault("tts.gender", "default")
	v.SetDefault("tts.output_directory", "audio")
	v.SetDefault("tts.player", "")

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 5000)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.host", "https://cloud.langfuse.com")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// bindEnvironmentVariables sets up flexible environment variable binding
func bindEnvironmentVariables(v *viper.Viper) {
	bindEnvKeys(v, "ai.openrouter.api_key", []string{
		"OPENROUTER_API_KEY",
		"OPENAI_API_KEY",
	})

	bindEnvKeys(v, "ai.gemini.api_key", []string{
		"GEMINI_API_KEY",
		"GOOGLE_GEMINI_API_KEY",
		"GOOGLE_AI_API_KEY",
	})

	bindEnvKeys(v, "ai.ollama.base_url", []string{
		"OLLAMA_HOST",
		"OLLAMA_BASE_URL",
	})

	bindEnvKeys(v, "tracing.api_key", []string{
		"LANGFUSE_SECRET_KEY",
		"LANGCHAIN_API_KEY",
	})

	bindEnvKeys(v, "app.debug", []string{
		"DEBUG",
		"EXPLAINER_DEBUG",
	})
}

// bindEnvKeys binds the first found environment variable to a viper key
func bindEnvKeys(v *viper.Viper, viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			v.Set(viperKey, value)
			return
		}
	}
}

// postProcessConfig applies post-processing to configuration values
func postProcessConfig(config *Config) error {
	if config.TTS.OutputDirectory != "" {
		config.TTS.OutputDirectory = expandPath(config.TTS.OutputDirectory)
	}

	// A present tracing key switches tracing on; an absent one leaves it off.
	if isValidAPIKey(config.Tracing.APIKey) {
		config.Tracing.Enabled = true
	}

	config.AI.Mode = strings.ToLower(strings.TrimSpace(config.AI.Mode))
	config.AI.RemoteProvider = strings.ToLower(strings.TrimSpace(config.AI.RemoteProvider))

	durations := map[string]string{
		"ai.timeout":   config.AI.Timeout,
		"wiki.timeout": config.Wiki.Timeout,
	}

	for key, duration := range durations {
		if duration != "" {
			if _, err := time.ParseDuration(duration); err != nil {
				return fmt.Errorf("invalid duration for %s: %s", key, duration)
			}
		}
	}

	return nil
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// validateConfig ensures required configuration is present
func validateConfig(config *Config) error {
	var errors []string

	switch config.AI.Mode {
	case "local":
	case "remote":
		errors = append(errors, validateRemote(config.AI)...)
	default:
		errors = append(errors, fmt.Sprintf("Unknown ai.mode: %q. Supported: local, remote", config.AI.Mode))
	}

	if config.TTS.Rate != 0 && (config.TTS.Rate < 100 || config.TTS.Rate > 250) {
		errors = append(errors, fmt.Sprintf("tts.rate must be between 100 and 250, got %d", config.TTS.Rate))
	}

	switch config.TTS.Mode {
	case "file", "direct":
	default:
		errors = append(errors, fmt.Sprintf("Unknown tts.mode: %q. Supported: file, direct", config.TTS.Mode))
	}

	if config.Server.Port < 0 || config.Server.Port > 65535 {
		errors = append(errors, fmt.Sprintf("server.port out of range: %d", config.Server.Port))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// validateRemote reports missing credentials for the selected remote provider.
func validateRemote(ai AI) []string {
	switch ai.RemoteProvider {
	case ProviderOpenRouter:
		if !isValidAPIKey(ai.OpenRouter.APIKey) {
			return []string{"OpenRouter API key is required in remote mode. Set OPENROUTER_API_KEY environment variable or ai.openrouter.api_key in config file"}
		}
	case ProviderGemini:
		if !isValidAPIKey(ai.Gemini.APIKey) {
			return []string{"Gemini API key is required in remote mode. Set GEMINI_API_KEY environment variable or ai.gemini.api_key in config file.\nGet your API key from: https://makersuite.google.com/app/apikey"}
		}
	default:
		return []string{fmt.Sprintf("Unknown ai.remote_provider: %q. Supported: %s, %s", ai.RemoteProvider, ProviderOpenRouter, ProviderGemini)}
	}
	return nil
}

// ValidateRemote checks the remote provider credentials on demand, for
// commands that switch to remote mode after the configuration was loaded.
func ValidateRemote(ai AI) error {
	if errs := validateRemote(ai); len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// Convenience getters for commonly used configuration values
func GetTTS() TTS       { return Get().TTS }
func GetServer() Server { return Get().Server }

// ParsedTimeout returns the AI timeout, or zero when unset.
func (a AI) ParsedTimeout() time.Duration {
	d, _ := time.ParseDuration(a.Timeout)
	return d
}

// ParsedTimeout returns the knowledge source timeout, or zero when unset.
func (w Wiki) ParsedTimeout() time.Duration {
	d, _ := time.ParseDuration(w.Timeout)
	return d
}

// isValidAPIKey checks if an API key is valid (not empty and not a placeholder)
func isValidAPIKey(apiKey string) bool {
	if apiKey == "" {
		return false
	}

	placeholders := []string{
		"your-api-key", "your-openrouter-key", "your-gemini-key",
		"YOUR_API_KEY", "PLACEHOLDER", "TODO", "CHANGE_ME",
	}

	for _, placeholder := range placeholders {
		if apiKey == placeholder {
			return false
		}
	}

	return true
}

// Reset clears the global configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viper.Reset()
}
