package tts

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

// Say drives the macOS say command.
type Say struct {
	binary string
	run    commandRunner
}

// NewSay returns the macOS engine, or nil on other systems or when say is
// missing.
func NewSay() *Say {
	if runtime.GOOS != "darwin" {
		return nil
	}
	path, err := lookPath("say")
	if err != nil {
		return nil
	}
	return &Say{binary: path, run: runCommand}
}

// Name implements Engine.
func (s *Say) Name() string {
	return "say"
}

// sayVoiceLine matches `say -v '?'` output, e.g.
// "Bad News            en_US    # The light you see at the end of the tunnel..."
var sayVoiceLine = regexp.MustCompile(`^(.+?)\s+([a-z]{2,3}[_-][A-Za-z0-9]+)\s+#`)

// Voices implements Engine. say does not report voice gender.
func (s *Say) Voices(ctx context.Context) ([]Voice, error) {
	out, err := s.run(ctx, s.binary, "-v", "?")
	if err != nil {
		return nil, fmt.Errorf("failed to list voices: %w", err)
	}
	return parseSayVoices(out), nil
}

func parseSayVoices(out []byte) []Voice {
	var voices []Voice
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		m := sayVoiceLine.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		voices = append(voices, Voice{ID: name, Name: name, Language: m[2]})
	}
	return voices
}

func (s *Say) args(voice Voice, rate int) []string {
	var args []string
	if voice.ID != "" {
		args = append(args, "-v", voice.ID)
	}
	if rate > 0 {
		args = append(args, "-r", strconv.Itoa(rate))
	}
	return args
}

// SynthesizeToFile implements Engine. The file is 16-bit little-endian PCM WAV.
func (s *Say) SynthesizeToFile(ctx context.Context, text string, voice Voice, rate int, path string) error {
	args := append(s.args(voice, rate), "--file-format=WAVE", "--data-format=LEI16@22050", "-o", path, text)
	if _, err := s.run(ctx, s.binary, args...); err != nil {
		return fmt.Errorf("say synthesis failed: %w", err)
	}
	return nil
}

// Speak implements Engine.
func (s *Say) Speak(ctx context.Context, text string, voice Voice, rate int) error {
	args := append(s.args(voice, rate), text)
	if _, err := s.run(ctx, s.binary, args...); err != nil {
		return fmt.Errorf("say failed: %w", err)
	}
	return nil
}
