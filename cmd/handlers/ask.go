package handlers

import (
	"explainer/internal/core"
	"explainer/internal/explain"

	"github.com/spf13/cobra"
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	var (
		style  string
		mode   string
		format string
		speak  bool
		rate   int
		gender string
	)

	cmd := &cobra.Command{
		Use:   "ask [question...]",
		Short: "Ask the explainer bot one question in a chosen style",
		Long: `Ask a single question. Styles: default, child_friendly, examples_only, expert
(the selector labels such as "🧒 Child-Friendly" are accepted too).

Examples:
  explainer ask "How do vaccines work?" --style examples_only
  explainer ask "What is entropy?" --style expert --mode "🛰️ Online"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := core.ParseStyle(style)
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			var result explain.Result
			if e, m, failed := a.resolve(ctx, mode); failed != nil {
				result = *failed
			} else {
				result = e.ExplainStyle(ctx, core.ExplanationRequest{SourceText: joinArgs(args), Style: s, BackendMode: m}, nil)
			}

			if err := printResult(cmd.OutOrStdout(), result, "", format); err != nil {
				return err
			}
			if speak {
				voice, err := a.voice(rate, gender)
				if err != nil {
					return err
				}
				return speakText(ctx, a, result.Explanation.Text, voice, cmd.OutOrStdout())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&style, "style", "s", string(core.StyleDefault), "Explanation style")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Backend mode (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", formatTerminal, "Output format: terminal, json")
	cmd.Flags().BoolVar(&speak, "speak", false, "Read the answer aloud")
	cmd.Flags().IntVar(&rate, "rate", 0, "Speech rate in words per minute (100-250)")
	cmd.Flags().StringVar(&gender, "voice", "", "Voice gender: default, male, female")
	return cmd
}
