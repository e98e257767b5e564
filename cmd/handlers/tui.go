package handlers

import (
	"explainer/internal/core"
	"explainer/internal/logger"
	"explainer/internal/tui"

	"github.com/spf13/cobra"
)

// NewTUICmd creates the TUI command
func NewTUICmd() *cobra.Command {
	var (
		style  string
		mode   string
		speak  bool
		rate   int
		gender string
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch the terminal chat assistant",
		Long:  `Launch the full-screen chat assistant with style and model selectors, a history panel and play/stop controls.`,
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

			m, err := a.mode(mode)
			if err != nil {
				return err
			}

			opts := tui.Options{
				Explainers: a.explainer,
				Mode:       m,
				Style:      s,
				AutoSpeak:  speak,
			}
			if synth, err := a.synthesizer(); err != nil {
				logger.Warn("Speech disabled", "error", err.Error())
			} else {
				voice, err := a.voice(rate, gender)
				if err != nil {
					return err
				}
				opts.Speaker, opts.Voice = synth, voice
			}

			return tui.Run(opts)
		},
	}

	cmd.Flags().StringVarP(&style, "style", "s", string(core.StyleDefault), "Initial explanation style")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Initial backend mode (default from config)")
	cmd.Flags().BoolVar(&speak, "speak", false, "Read every answer aloud")
	cmd.Flags().IntVar(&rate, "rate", 0, "Speech rate in words per minute (100-250)")
	cmd.Flags().StringVar(&gender, "voice", "", "Voice gender: default, male, female")
	return cmd
}
