package handlers

import (
	"encoding/json"
	"fmt"

	"explainer/internal/core"
	"explainer/internal/llm"
	"explainer/internal/summarize"

	"github.com/spf13/cobra"
)

// NewSummarizeCmd creates the summarize command
func NewSummarizeCmd() *cobra.Command {
	var (
		level  string
		mode   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "summarize [text...]",
		Short: "Summarize a passage for a chosen level",
		Long: `Produce a short summary of a passage for a 10-year-old, a high school
student or a college student.

Examples:
  explainer summarize "The mitochondrion is the powerhouse of the cell..." --level child
  explainer summarize "$(cat notes.txt)" --level expert --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lvl, ok := core.ParseLevel(level)
			if !ok {
				return fmt.Errorf("unknown level %q (valid: child, teen, expert)", level)
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			m, err := a.mode(mode)
			if err != nil {
				return err
			}
			backend, err := llm.NewBackend(cmd.Context(), a.cfg.AI, m)
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}

			s := summarize.NewSummarizer(llm.NewTracedBackend(backend, a.tracer))
			summary, err := s.Summarize(cmd.Context(), joinArgs(args), lvl)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if format == formatJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			fmt.Fprintln(w, headingStyle.Render("📝 Summary "+audience(lvl)))
			fmt.Fprintln(w)
			fmt.Fprintln(w, bodyStyle.Render(summary.Text))
			return nil
		},
	}

	cmd.Flags().StringVarP(&level, "level", "l", string(core.LevelChild), "Audience level: child, teen, expert")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Backend mode (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", formatTerminal, "Output format: terminal, json")
	return cmd
}
