// Package tts reads explanations aloud through the operating system's speech
// engine and plays the result through an external audio player.
package tts

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

var (
	// ErrNoEngine is returned when no supported speech engine is installed.
	ErrNoEngine = errors.New("no speech engine available (install espeak-ng, or use macOS say)")

	// ErrStopUnsupported is returned by Stop in direct mode, where the engine
	// speaks synchronously and cannot be interrupted.
	ErrStopUnsupported = errors.New("stop is not supported in direct speech mode")

	// ErrEmptyText is returned when there is nothing left to say after normalization.
	ErrEmptyText = errors.New("nothing to speak")
)

// Voice is one voice reported by an engine.
type Voice struct {
	ID       string // Identifier passed back to the engine
	Name     string // Human-readable name
	Gender   string // "male", "female" or empty when the engine does not report it
	Language string
}

// Engine is an OS speech engine.
type Engine interface {
	// Name identifies the engine, e.g. "espeak-ng".
	Name() string

	// Voices lists the installed voices.
	Voices(ctx context.Context) ([]Voice, error)

	// SynthesizeToFile writes a WAV rendering of text to path.
	SynthesizeToFile(ctx context.Context, text string, voice Voice, rate int, path string) error

	// Speak plays text directly and blocks until the engine finishes.
	Speak(ctx context.Context, text string, voice Voice, rate int) error
}

// commandRunner runs an external program and returns its standard output.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return out, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// lookPath is exec.LookPath, replaceable in tests.
var lookPath = exec.LookPath

// Engine names accepted by DetectEngine.
const (
	EngineAuto   = "auto"
	EngineEspeak = "espeak"
	EngineSay    = "say"
	EngineMock   = "mock"
)

// GetAvailableEngines returns the engine names accepted by DetectEngine.
func GetAvailableEngines() []string {
	return []string{EngineAuto, EngineEspeak, EngineSay, EngineMock}
}

// DetectEngine returns the requested engine, or for "auto" the first one
// installed on this system: say on macOS, then espeak-ng or espeak.
func DetectEngine(preferred string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(preferred)) {
	case EngineMock:
		return NewMock(), nil
	case EngineSay:
		if e := NewSay(); e != nil {
			return e, nil
		}
		return nil, fmt.Errorf("say: %w", ErrNoEngine)
	case EngineEspeak:
		if e := NewEspeak(); e != nil {
			return e, nil
		}
		return nil, fmt.Errorf("espeak: %w", ErrNoEngine)
	case EngineAuto, "":
		if runtime.GOOS == "darwin" {
			if e := NewSay(); e != nil {
				return e, nil
			}
		}
		if e := NewEspeak(); e != nil {
			return e, nil
		}
		return nil, ErrNoEngine
	default:
		return nil, fmt.Errorf("unknown speech engine %q (available: %s)", preferred, strings.Join(GetAvailableEngines(), ", "))
	}
}

// EstimateDuration estimates speaking time in seconds at rate words per minute.
func EstimateDuration(text string, rate int) float64 {
	if rate <= 0 {
		return 0
	}
	return float64(len(strings.Fields(text))) * 60 / float64(rate)
}
