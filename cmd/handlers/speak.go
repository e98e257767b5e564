package handlers

import (
	"fmt"
	"strings"

	"explainer/internal/config"
	"explainer/internal/tts"

	"github.com/spf13/cobra"
)

// NewSpeakCmd creates the speak command
func NewSpeakCmd() *cobra.Command {
	var (
		rate   int
		gender string
	)

	cmd := &cobra.Command{
		Use:   "speak [text...]",
		Short: "Read text aloud with the configured speech engine",
		Long: `Read text aloud. Markdown markup is removed before speaking.

Examples:
  explainer speak "Plants turn sunlight into food." --rate 130 --voice female`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			voice, err := a.voice(rate, gender)
			if err != nil {
				return err
			}
			return speakText(cmd.Context(), a, joinArgs(args), voice, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&rate, "rate", 0, "Speech rate in words per minute (100-250)")
	cmd.Flags().StringVar(&gender, "voice", "", "Voice gender: default, male, female")
	return cmd
}

// NewVoicesCmd creates the voices command
func NewVoicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List the voices of the speech engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := tts.DetectEngine(config.GetTTS().Engine)
			if err != nil {
				return err
			}
			voices, err := engine.Voices(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list voices: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("🗣️ %s voices (%d)", engine.Name(), len(voices))))
			for _, v := range voices {
				details := []string{v.Language}
				if v.Gender != "" {
					details = append(details, v.Gender)
				}
				fmt.Fprintf(w, "  %-24s %s\n", v.Name, subtleStyle.Render(strings.Join(details, ", ")))
			}
			return nil
		},
	}
}

// NewAudioCmd creates the audio command group
func NewAudioCmd() *cobra.Command {
	audioCmd := &cobra.Command{
		Use:   "audio",
		Short: "Manage generated audio files",
	}

	var dir string
	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove generated audio clips",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = config.GetTTS().OutputDirectory
			}
			removed, err := tts.CleanAudio(dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🧹 Removed %d audio file(s) from %s\n", removed, dir)
			return nil
		},
	}
	cleanCmd.Flags().StringVar(&dir, "dir", "", "Audio directory (default from config)")

	audioCmd.AddCommand(cleanCmd)
	return audioCmd
}
