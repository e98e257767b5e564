package tts

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"explainer/internal/logger"
)

// Clip is one synthesized utterance on disk. It is handed to the playback
// goroutine by value and never shared.
type Clip struct {
	Path     string
	Text     string
	Voice    Voice
	Rate     int
	Duration time.Duration
}

// playFunc runs a player process to completion or until ctx is cancelled.
type playFunc func(ctx context.Context, name string, args ...string) error

func runPlayer(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// playerCandidates are tried in order by DetectPlayer.
var playerCandidates = []string{"afplay", "paplay", "aplay", "ffplay"}

// DetectPlayer returns the preferred player if set, otherwise the first
// supported player found in PATH.
func DetectPlayer(preferred string) (string, error) {
	if preferred = strings.TrimSpace(preferred); preferred != "" {
		if _, err := lookPath(preferred); err != nil {
			return "", fmt.Errorf("audio player %q not found: %w", preferred, err)
		}
		return preferred, nil
	}

	for _, candidate := range playerCandidates {
		if candidate == "afplay" && runtime.GOOS != "darwin" {
			continue
		}
		if _, err := lookPath(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no audio player found (tried %s)", strings.Join(playerCandidates, ", "))
}

// playerArgs returns the command line that plays path with player.
func playerArgs(player, path string) []string {
	switch filepath.Base(player) {
	case "aplay":
		return []string{"-q", path}
	case "ffplay":
		return []string{"-nodisp", "-autoexit", "-loglevel", "quiet", path}
	default:
		return []string{path}
	}
}

// Player plays clips one at a time through an external player process.
// Starting a clip stops the one already playing.
type Player struct {
	command string
	play    playFunc

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPlayer creates a player that runs command, e.g. "aplay".
func NewPlayer(command string) *Player {
	return &Player{command: command, play: runPlayer}
}

// Play starts clip on a new goroutine and returns at once. The returned
// channel yields the playback error (nil when finished or stopped) and is
// then closed. Callers may ignore it.
func (p *Player) Play(clip Clip) <-chan error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	result := make(chan error, 1)
	p.cancel, p.done = cancel, done

	go func(clip Clip) {
		logger.Debug("Playing audio", "path", clip.Path, "player", p.command)
		err := p.play(ctx, p.command, playerArgs(p.command, clip.Path)...)
		if ctx.Err() != nil {
			err = nil
		}
		if err != nil {
			err = fmt.Errorf("playback of %s failed: %w", clip.Path, err)
		}
		close(done)
		result <- err
		close(result)
	}(clip)

	return result
}

// Stop ends the current playback, if any, and waits for the player process
// to exit.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	return nil
}

func (p *Player) stopLocked() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel, p.done = nil, nil
}

// Playing reports whether a clip is currently playing.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == nil {
		return false
	}
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// errPlayerMissing is returned by Synthesizer in file mode without a player.
var errPlayerMissing = errors.New("file playback mode requires an audio player")
