/*
Copyright © 2025 Your Name

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package handlers

import (
	"fmt"
	"os"

	"explainer/internal/config"
	"explainer/internal/logger"

	"github.com/spf13/cobra"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "explainer",
		Short: "Explain topics, passages and web pages at the right level",
		Long: `Explainer turns a topic, a passage or a web page into an explanation
tuned for a 10-year-old, a high school student or an expert, and can
read the answer aloud.

Answers come from a local model (Ollama) or a hosted endpoint
(OpenRouter or Gemini); topic summaries come from Wikipedia.

Examples:
  # Explain a Wikipedia topic to a child
  explainer topic Photosynthesis --level child

  # Ask the chat assistant with a style, using the hosted model
  explainer ask "Why is the sky blue?" --style child_friendly --mode remote

  # Start a conversation with memory
  explainer chat

  # Serve the web forms on http://127.0.0.1:5000
  explainer serve`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.explainer.yaml)")

	rootCmd.AddCommand(NewTopicCmd())
	rootCmd.AddCommand(NewTextCmd())
	rootCmd.AddCommand(NewURLCmd())
	rootCmd.AddCommand(NewAskCmd())
	rootCmd.AddCommand(NewChatCmd())
	rootCmd.AddCommand(NewTUICmd())
	rootCmd.AddCommand(NewSummarizeCmd())
	rootCmd.AddCommand(NewSpeakCmd())
	rootCmd.AddCommand(NewVoicesCmd())
	rootCmd.AddCommand(NewAudioCmd())
	rootCmd.AddCommand(NewServeCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig loads the configuration once and applies the logging settings.
func initConfig() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	level := cfg.Logging.Level
	if cfg.App.Debug {
		level = "debug"
	}
	logger.Configure(logger.Options{Level: level, Format: cfg.Logging.Format})

	if cfg.App.ConfigFile != "" {
		logger.Debug("Using config file", "path", cfg.App.ConfigFile)
	}
	return nil
}
