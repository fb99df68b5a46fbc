// Contactform is a contact form with live validation and a confirmation
// dialog, served to browsers and drawn in the terminal.
//
// Two forms are available. The classic form confirms a valid submission
// immediately. The async form simulates a network round trip that can
// fail and be retried.
//
// Usage:
//
//	contactform [command] [flags]
//
// Running without arguments opens the terminal form.
// See 'contactform --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/contactform/internal/config"
	"github.com/muurk/contactform/internal/logging"
	"github.com/muurk/contactform/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	configPath string
	logLevel   string
)

// settings is the effective configuration, loaded before any command runs
var settings *config.Settings

var rootCmd = &cobra.Command{
	Use:   "contactform",
	Short: "Contact form with live validation",
	Long: `A contact form with client-side style validation and a confirmation dialog.

The classic form requires every field and confirms a valid submission
immediately. The async form simulates a network round trip that succeeds
most of the time and can be retried when it fails.

The same forms are available in the browser (serve), as a full-screen
terminal form (tui) and as line-by-line prompts (prompt).

If no command is specified, the terminal form will launch automatically.`,
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: platform config dir)/contactform/config.yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file and "+logging.LogLevelEnvVar)

	rootCmd.AddCommand(versionCmd)
}

// loadSettings reads the config file, applies the global flag overrides and
// initializes logging. Interactive commands log to stderr.
func loadSettings(cmd *cobra.Command, args []string) error {
	s, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		if !logging.ValidLevel(logLevel) {
			return fmt.Errorf("invalid log level %q (use debug, info, warn or error)", logLevel)
		}
		s.LogLevel = logLevel
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	settings = s

	output := "stderr"
	if cmd.Name() == "serve" {
		output = "stdout"
	}
	return logging.InitializeWithOutput(s.LogLevel, output)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// No config needed
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "contactform %s (commit: %s)\n", version.Version, version.Commit)
	},
}
