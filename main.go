package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	// Version information (set at build time)
	version = "dev"

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5A8DEE"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))
)

// options are the command-line overrides applied on top of file and environment configuration
type options struct {
	configPath    string
	provider      string
	model         string
	memoryPath    string
	characterPath string
	logLevel      string
	metricsAddr   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "vivi",
		Short: "VIVI - a personality-driven conversational agent",
		Long: titleStyle.Render("VIVI") + `

Chat with a persistent, personality-driven agent backed by a local or hosted LLM.
Every turn is remembered in a JSON memory file.

Type "exit" or "!stop" to leave.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), modeText, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "config.yaml", "path to the YAML config file")
	flags.StringVar(&opts.provider, "provider", "", "llm provider: ollama, openai, deepseek, ark")
	flags.StringVarP(&opts.model, "model", "m", "", "llm model name")
	flags.StringVar(&opts.memoryPath, "memory", "", "memory file path")
	flags.StringVar(&opts.characterPath, "character", "", "character file path")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat by typing (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), modeText, opts)
		},
	}

	voiceCmd := &cobra.Command{
		Use:   "voice",
		Short: "Talk to VIVI and hear her answer with an animated avatar",
		Long: `Records a fixed window from the default microphone, transcribes it,
and speaks the reply while animating the avatar. Press Ctrl+C during
a reply to quit immediately.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), modeVoice, opts)
		},
	}

	rootCmd.AddCommand(chatCmd, voiceCmd)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
