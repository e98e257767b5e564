package handlers

import (
	"fmt"

	"explainer/internal/core"
	"explainer/internal/interactive"
	"explainer/internal/logger"

	"github.com/spf13/cobra"
)

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	var (
		style  string
		mode   string
		speak  bool
		rate   int
		gender string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start a line-based conversation that remembers earlier answers",
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
			e, err := a.explainer(cmd.Context(), m)
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}

			opts := []interactive.ChatOption{
				interactive.WithIO(cmd.InOrStdin(), cmd.OutOrStdout()),
				interactive.WithStyle(s),
			}
			if synth, err := a.synthesizer(); err != nil {
				logger.Warn("Speech disabled", "error", err.Error())
			} else {
				voice, err := a.voice(rate, gender)
				if err != nil {
					return err
				}
				opts = append(opts, interactive.WithSpeaker(synth, voice, speak))
			}

			return interactive.NewChatHandler(e, nil, opts...).RunChatLoop(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&style, "style", "s", string(core.StyleDefault), "Initial explanation style")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Backend mode (default from config)")
	cmd.Flags().BoolVar(&speak, "speak", false, "Read every answer aloud")
	cmd.Flags().IntVar(&rate, "rate", 0, "Speech rate in words per minute (100-250)")
	cmd.Flags().StringVar(&gender, "voice", "", "Voice gender: default, male, female")
	return cmd
}
