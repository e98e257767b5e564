package tts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"explainer/internal/core"
	"explainer/internal/logger"
	"explainer/internal/markdown"

	"github.com/google/uuid"
)

// Mode selects how speech reaches the speakers.
type Mode string

const (
	// ModeFile synthesizes to a WAV file and plays it with a stoppable player.
	ModeFile Mode = "file"
	// ModeDirect lets the engine speak synchronously; it cannot be stopped.
	ModeDirect Mode = "direct"
)

// ParseMode accepts "file" or "direct"; empty means file.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ModeFile:
		return ModeFile, nil
	case ModeDirect:
		return ModeDirect, nil
	}
	return "", fmt.Errorf("unknown speech mode %q (valid: file, direct)", value)
}

// audioPrefix names every generated clip.
const audioPrefix = "tts_"

// Options configure a Synthesizer.
type Options struct {
	Mode            Mode
	OutputDirectory string  // Where clips are kept; defaults to "audio"
	Player          *Player // Required in file mode
}

// Synthesizer normalizes text, picks a voice, and speaks.
type Synthesizer struct {
	engine    Engine
	mode      Mode
	outputDir string
	player    *Player
}

// NewSynthesizer creates a synthesizer on engine.
func NewSynthesizer(engine Engine, opts Options) (*Synthesizer, error) {
	if engine == nil {
		return nil, ErrNoEngine
	}
	if opts.Mode == "" {
		opts.Mode = ModeFile
	}
	if opts.OutputDirectory == "" {
		opts.OutputDirectory = "audio"
	}
	if opts.Mode == ModeFile && opts.Player == nil {
		return nil, errPlayerMissing
	}

	return &Synthesizer{
		engine:    engine,
		mode:      opts.Mode,
		outputDir: opts.OutputDirectory,
		player:    opts.Player,
	}, nil
}

// Engine returns the underlying speech engine.
func (s *Synthesizer) Engine() Engine {
	return s.engine
}

// Mode returns the playback mode.
func (s *Synthesizer) Mode() Mode {
	return s.mode
}

// Voices lists the engine's voices.
func (s *Synthesizer) Voices(ctx context.Context) ([]Voice, error) {
	return s.engine.Voices(ctx)
}

// resolveVoice picks the voice for gender, falling back to the engine default.
func (s *Synthesizer) resolveVoice(ctx context.Context, gender core.Gender) Voice {
	if gender == core.GenderDefault {
		return Voice{}
	}
	voices, err := s.engine.Voices(ctx)
	if err != nil {
		logger.Warn("Could not list voices, using engine default", "engine", s.engine.Name(), "error", err.Error())
		return Voice{}
	}
	voice, ok := SelectVoice(voices, gender)
	if !ok {
		logger.Debug("No voice matches gender, using engine default", "gender", string(gender))
	}
	return voice
}

// Prepare renders text to a new uniquely named WAV clip in the output
// directory. The engine writes to a temporary file first; the clip is the
// validated, rewritten copy.
func (s *Synthesizer) Prepare(ctx context.Context, text string, cfg core.VoiceConfig) (Clip, error) {
	cfg = cfg.Normalized()
	spoken := strings.TrimSpace(markdown.Strip(text))
	if spoken == "" {
		return Clip{}, ErrEmptyText
	}
	voice := s.resolveVoice(ctx, cfg.Gender)

	raw, err := os.CreateTemp("", "explainer-raw-*.wav")
	if err != nil {
		return Clip{}, fmt.Errorf("failed to create temporary audio file: %w", err)
	}
	rawPath := raw.Name()
	_ = raw.Close()
	defer func() { _ = os.Remove(rawPath) }()

	if err := s.engine.SynthesizeToFile(ctx, spoken, voice, cfg.Rate, rawPath); err != nil {
		return Clip{}, err
	}

	data, err := os.ReadFile(rawPath)
	if err != nil {
		return Clip{}, fmt.Errorf("failed to read synthesized audio: %w", err)
	}
	format, samples, err := parseWAV(data)
	if err != nil {
		return Clip{}, fmt.Errorf("engine %s produced invalid audio: %w", s.engine.Name(), err)
	}

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return Clip{}, fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(s.outputDir, audioPrefix+uuid.NewString()+".wav")

	out, err := os.Create(path)
	if err != nil {
		return Clip{}, fmt.Errorf("failed to create audio file: %w", err)
	}
	if err := writeWAV(out, format, samples); err != nil {
		_ = out.Close()
		return Clip{}, fmt.Errorf("failed to write audio file: %w", err)
	}
	if err := out.Close(); err != nil {
		return Clip{}, fmt.Errorf("failed to write audio file: %w", err)
	}

	return Clip{
		Path:     path,
		Text:     spoken,
		Voice:    voice,
		Rate:     cfg.Rate,
		Duration: format.duration(len(samples)),
	}, nil
}

// Say speaks text in the background and returns at once. In file mode the
// clip is prepared synchronously and handed to the player; a clip already
// playing is stopped. The channel reports the outcome and may be ignored.
func (s *Synthesizer) Say(ctx context.Context, text string, cfg core.VoiceConfig) (<-chan error, error) {
	if s.mode == ModeDirect {
		cfg = cfg.Normalized()
		spoken := strings.TrimSpace(markdown.Strip(text))
		if spoken == "" {
			return nil, ErrEmptyText
		}
		voice := s.resolveVoice(ctx, cfg.Gender)

		result := make(chan error, 1)
		go func() {
			defer close(result)
			result <- s.engine.Speak(context.WithoutCancel(ctx), spoken, voice, cfg.Rate)
		}()
		return result, nil
	}

	clip, err := s.Prepare(ctx, text, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Audio saved", "path", clip.Path, "duration", clip.Duration.String())
	return s.player.Play(clip), nil
}

// Stop interrupts playback in file mode. Direct mode returns ErrStopUnsupported.
func (s *Synthesizer) Stop() error {
	if s.mode == ModeDirect {
		return ErrStopUnsupported
	}
	return s.player.Stop()
}

// Playing reports whether a clip is playing in file mode.
func (s *Synthesizer) Playing() bool {
	return s.mode == ModeFile && s.player.Playing()
}

// CleanAudio removes generated clips from dir and returns how many were removed.
func CleanAudio(dir string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, audioPrefix+"*.wav"))
	if err != nil {
		return 0, fmt.Errorf("failed to list audio files: %w", err)
	}

	removed := 0
	for _, path := range matches {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed++
	}
	return removed, nil
}
