package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"explainer/internal/core"
	"explainer/internal/explain"
	"explainer/internal/tts"

	"github.com/charmbracelet/lipgloss"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8"))
	bodyStyle    = lipgloss.NewStyle().Width(80)
)

// Output formats accepted by --format.
const (
	formatTerminal = "terminal"
	formatJSON     = "json"
)

// jsonResult is the --format json rendering of a Result
type jsonResult struct {
	Status      explain.Status             `json:"status"`
	Reason      explain.Reason             `json:"reason,omitempty"`
	Message     string                     `json:"message,omitempty"`
	Explanation *core.GeneratedExplanation `json:"explanation,omitempty"`
}

// printResult writes result in the requested format. A failed result is
// reported as an error after printing so the command exits non-zero.
func printResult(w io.Writer, result explain.Result, title, format string) error {
	switch format {
	case formatJSON:
		out := jsonResult{Status: result.Status, Reason: result.Reason}
		if result.OK() {
			explanation := result.Explanation
			out.Explanation = &explanation
		} else {
			out.Message = result.Display()
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	case formatTerminal, "":
		if !result.OK() {
			fmt.Fprintln(w, errorStyle.Render("⚠️ "+result.Display()))
			break
		}
		if title != "" {
			fmt.Fprintln(w, headingStyle.Render(title))
		}
		if result.Explanation.Subheading != "" {
			fmt.Fprintln(w, headingStyle.Render(result.Explanation.Subheading))
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, bodyStyle.Render(result.Explanation.Text))
		fmt.Fprintln(w)
		fmt.Fprintln(w, subtleStyle.Render("via "+result.Explanation.BackendUsed))
	default:
		return fmt.Errorf("invalid format %q (valid: %s, %s)", format, formatTerminal, formatJSON)
	}

	if !result.OK() {
		return fmt.Errorf("explanation failed: %s", result.Reason)
	}
	return nil
}

// audience names the reader a level is written for.
func audience(level core.Level) string {
	switch level {
	case core.LevelChild:
		return "for a 10-year-old"
	case core.LevelTeen:
		return "for a high school student"
	default:
		return "for an expert"
	}
}

// levelTitle is the heading printed above a level explanation.
func levelTitle(subject string, level core.Level) string {
	if subject == "" {
		return "📘 Explanation " + audience(level)
	}
	return fmt.Sprintf("📘 %s, explained %s", subject, audience(level))
}

// speakText reads text aloud and waits for playback to finish.
func speakText(ctx context.Context, a *app, text string, voice core.VoiceConfig, w io.Writer) error {
	synth, err := a.synthesizer()
	if err != nil {
		return fmt.Errorf("speech unavailable: %w", err)
	}
	fmt.Fprintln(w, subtleStyle.Render(fmt.Sprintf("🔊 Speaking with %s at %d wpm (~%.0fs)...",
		synth.Engine().Name(), voice.Rate, tts.EstimateDuration(text, voice.Rate))))

	done, err := synth.Say(ctx, text, voice)
	if err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		_ = synth.Stop()
		return ctx.Err()
	}
}

// joinArgs joins positional arguments into one text.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
