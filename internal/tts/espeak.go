package tts

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Espeak drives espeak-ng, or the older espeak binary.
type Espeak struct {
	binary string
	run    commandRunner
}

// NewEspeak returns an engine on the first espeak binary found in PATH, or
// nil when neither is installed.
func NewEspeak() *Espeak {
	for _, binary := range []string{"espeak-ng", "espeak"} {
		if path, err := lookPath(binary); err == nil {
			return &Espeak{binary: path, run: runCommand}
		}
	}
	return nil
}

// Name implements Engine.
func (e *Espeak) Name() string {
	return "espeak"
}

// Voices implements Engine by parsing `espeak --voices`:
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  en-us           --/M      English_(America)  gmw/en-US            (en 3)
func (e *Espeak) Voices(ctx context.Context) ([]Voice, error) {
	out, err := e.run(ctx, e.binary, "--voices")
	if err != nil {
		return nil, fmt.Errorf("failed to list voices: %w", err)
	}
	return parseEspeakVoices(out), nil
}

func parseEspeakVoices(out []byte) []Voice {
	var voices []Voice
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 || fields[0] == "Pty" {
			continue
		}

		gender := ""
		if _, g, ok := strings.Cut(fields[2], "/"); ok {
			switch strings.ToUpper(g) {
			case "M":
				gender = "male"
			case "F":
				gender = "female"
			}
		}

		voices = append(voices, Voice{
			ID:       fields[1],
			Name:     strings.ReplaceAll(fields[3], "_", " "),
			Gender:   gender,
			Language: fields[1],
		})
	}
	return voices
}

func (e *Espeak) args(voice Voice, rate int) []string {
	var args []string
	if voice.ID != "" {
		args = append(args, "-v", voice.ID)
	}
	if rate > 0 {
		args = append(args, "-s", strconv.Itoa(rate))
	}
	return args
}

// SynthesizeToFile implements Engine.
func (e *Espeak) SynthesizeToFile(ctx context.Context, text string, voice Voice, rate int, path string) error {
	args := append(e.args(voice, rate), "-w", path, "--", text)
	if _, err := e.run(ctx, e.binary, args...); err != nil {
		return fmt.Errorf("espeak synthesis failed: %w", err)
	}
	return nil
}

// Speak implements Engine.
func (e *Espeak) Speak(ctx context.Context, text string, voice Voice, rate int) error {
	args := append(e.args(voice, rate), "--", text)
	if _, err := e.run(ctx, e.binary, args...); err != nil {
		return fmt.Errorf("espeak failed: %w", err)
	}
	return nil
}
