package handlers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"explainer/internal/config"
	"explainer/internal/core"
	"explainer/internal/explain"
	"explainer/internal/fetch"
	"explainer/internal/llm"
	"explainer/internal/logger"
	"explainer/internal/observability"
	"explainer/internal/tts"
)

// app wires the configured services for a command run.
type app struct {
	cfg    *config.Config
	tracer *observability.LangFuseClient
	topics *fetch.WikipediaClient
	pages  *fetch.PageFetcher

	mu         sync.Mutex
	explainers map[core.BackendMode]*explain.Explainer
}

func newApp() (*app, error) {
	cfg := config.Get()

	tracer, err := observability.NewLangFuseClient(cfg.Tracing)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:        cfg,
		tracer:     tracer,
		topics:     fetch.NewWikipediaClient(cfg.Wiki),
		pages:      fetch.NewPageFetcher(cfg.Wiki.ParsedTimeout(), cfg.Wiki.UserAgent),
		explainers: make(map[core.BackendMode]*explain.Explainer),
	}, nil
}

// close flushes pending traces.
func (a *app) close() {
	if err := a.tracer.Flush(); err != nil {
		logger.Warn("Failed to flush traces", "error", err.Error())
	}
}

// mode resolves a --mode flag, empty meaning the configured mode.
func (a *app) mode(flag string) (core.BackendMode, error) {
	if strings.TrimSpace(flag) == "" {
		flag = a.cfg.AI.Mode
	}
	return core.ParseBackendMode(flag)
}

// explainer returns the explainer for mode, building its backend on first use.
// It satisfies explain.Factory.
func (a *app) explainer(ctx context.Context, mode core.BackendMode) (*explain.Explainer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if e, ok := a.explainers[mode]; ok {
		return e, nil
	}

	if mode == core.ModeRemote {
		if err := config.ValidateRemote(a.cfg.AI); err != nil {
			return nil, err
		}
	}
	backend, err := llm.NewBackend(ctx, a.cfg.AI, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s backend: %w", mode, err)
	}
	logger.Debug("Backend ready", "mode", string(mode), "backend", backend.Name())
	if ollama, ok := backend.(*llm.Ollama); ok {
		if up, err := ollama.IsAvailable(ctx); !up {
			logger.Warn("Ollama is not reachable, generation will fail until it is started", "url", a.cfg.AI.Ollama.BaseURL, "error", fmt.Sprint(err))
		}
	}

	e := explain.New(llm.NewTracedBackend(backend, a.tracer),
		explain.WithTopicSource(a.topics),
		explain.WithPageSource(a.pages),
		explain.WithTimeout(a.cfg.AI.ParsedTimeout()),
	)
	a.explainers[mode] = e
	return e, nil
}

// resolve returns the explainer for a --mode flag or a failed Result
// describing why none is available.
func (a *app) resolve(ctx context.Context, modeFlag string) (*explain.Explainer, core.BackendMode, *explain.Result) {
	mode, err := a.mode(modeFlag)
	if err != nil {
		failed := explain.MissingConfig(err)
		return nil, "", &failed
	}
	e, err := a.explainer(ctx, mode)
	if err != nil {
		failed := explain.MissingConfig(err)
		return nil, mode, &failed
	}
	return e, mode, nil
}

// synthesizer builds the speech synthesizer from the TTS configuration.
func (a *app) synthesizer() (*tts.Synthesizer, error) {
	engine, err := tts.DetectEngine(a.cfg.TTS.Engine)
	if err != nil {
		return nil, err
	}
	mode, err := tts.ParseMode(a.cfg.TTS.Mode)
	if err != nil {
		return nil, err
	}

	opts := tts.Options{Mode: mode, OutputDirectory: a.cfg.TTS.OutputDirectory}
	if mode == tts.ModeFile {
		player, err := tts.DetectPlayer(a.cfg.TTS.Player)
		if err != nil {
			return nil, err
		}
		opts.Player = tts.NewPlayer(player)
	}
	return tts.NewSynthesizer(engine, opts)
}

// voice builds the voice settings from flags, falling back to configuration.
func (a *app) voice(rate int, gender string) (core.VoiceConfig, error) {
	if rate == 0 {
		rate = a.cfg.TTS.Rate
	}
	if gender == "" {
		gender = a.cfg.TTS.Gender
	}
	g, err := core.ParseGender(gender)
	if err != nil {
		return core.VoiceConfig{}, err
	}
	return core.VoiceConfig{Rate: rate, Gender: g}.Normalized(), nil
}
