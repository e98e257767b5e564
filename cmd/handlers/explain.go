package handlers

import (
	"context"
	"fmt"

	"explainer/internal/core"
	"explainer/internal/explain"
	"explainer/internal/fetch"

	"github.com/spf13/cobra"
)

// levelOptions are the flags shared by topic, text and url
type levelOptions struct {
	level  string
	mode   string
	format string
	speak  bool
	rate   int
	gender string
}

func (o *levelOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.level, "level", "l", string(core.LevelChild), "Audience level: child, teen, expert")
	cmd.Flags().StringVarP(&o.mode, "mode", "m", "", `Backend: local, remote, "🛰️ Online" or "💻 Offline" (default from config)`)
	cmd.Flags().StringVarP(&o.format, "format", "f", formatTerminal, "Output format: terminal, json")
	cmd.Flags().BoolVar(&o.speak, "speak", false, "Read the explanation aloud")
	cmd.Flags().IntVar(&o.rate, "rate", 0, "Speech rate in words per minute (100-250)")
	cmd.Flags().StringVar(&o.gender, "voice", "", "Voice gender: default, male, female")
}

// NewTopicCmd creates the topic command
func NewTopicCmd() *cobra.Command {
	var opts levelOptions
	cmd := &cobra.Command{
		Use:   "topic [name]",
		Short: "Explain a Wikipedia topic at a chosen level",
		Long: `Look the topic up on Wikipedia and explain its summary for the chosen audience.

Examples:
  explainer topic Photosynthesis --level child
  explainer topic "Black hole" --level expert --speak`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := joinArgs(args)
			return runLevel(cmd, opts, topic, func(ctx context.Context, e *explain.Explainer, level core.Level, _ core.BackendMode) explain.Result {
				return e.ExplainTopic(ctx, topic, level)
			})
		},
	}
	opts.register(cmd)
	return cmd
}

// NewTextCmd creates the text command
func NewTextCmd() *cobra.Command {
	var opts levelOptions
	cmd := &cobra.Command{
		Use:   "text [text...]",
		Short: "Explain a passage at a chosen level",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := joinArgs(args)
			return runLevel(cmd, opts, "", func(ctx context.Context, e *explain.Explainer, level core.Level, mode core.BackendMode) explain.Result {
				return e.ExplainLevel(ctx, core.ExplanationRequest{SourceText: text, Level: level, BackendMode: mode})
			})
		},
	}
	opts.register(cmd)
	return cmd
}

// NewURLCmd creates the url command
func NewURLCmd() *cobra.Command {
	var opts levelOptions
	cmd := &cobra.Command{
		Use:   "url [URL]",
		Short: "Explain the text of a web page at a chosen level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := fetch.ValidateURL(args[0]); err != nil {
				return err
			}
			return runLevel(cmd, opts, args[0], func(ctx context.Context, e *explain.Explainer, level core.Level, _ core.BackendMode) explain.Result {
				return e.ExplainURL(ctx, args[0], level)
			})
		},
	}
	opts.register(cmd)
	return cmd
}

func runLevel(cmd *cobra.Command, opts levelOptions, subject string, run func(context.Context, *explain.Explainer, core.Level, core.BackendMode) explain.Result) error {
	level, ok := core.ParseLevel(opts.level)
	if !ok {
		return fmt.Errorf("unknown level %q (valid: child, teen, expert)", opts.level)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	var result explain.Result
	if e, mode, failed := a.resolve(ctx, opts.mode); failed != nil {
		result = *failed
	} else {
		result = run(ctx, e, level, mode)
	}

	if err := printResult(cmd.OutOrStdout(), result, levelTitle(subject, level), opts.format); err != nil {
		return err
	}
	if opts.speak {
		voice, err := a.voice(opts.rate, opts.gender)
		if err != nil {
			return err
		}
		return speakText(ctx, a, result.Explanation.Text, voice, cmd.OutOrStdout())
	}
	return nil
}
