package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/expect/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	jsonOutput bool
	logLevel   string
	logFormat  string

	logger = logging.Nop()

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "expect",
	Short: "expect works with ordered HTTP expectation fixtures",
	Long: `expect checks and describes the fixture files used by expect test clients.

A fixture lists, in order, the HTTP requests a test expects its code to send
and the response or error each one resolves to. Fixtures are YAML or JSON and
may reference environment variables as ${VAR} or ${VAR:-default}.`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(cmd)
	},
}

// newLogger builds the command logger from the log flags, falling back to the
// environment when neither flag was given.
func newLogger(cmd *cobra.Command) *slog.Logger {
	flags := cmd.Flags()
	if !flags.Changed("log-level") && !flags.Changed("log-format") {
		return logging.FromEnv(os.Stderr)
	}
	return logging.New(logging.Config{
		Level:  logging.ParseLevel(logLevel),
		Format: logging.ParseFormat(logFormat),
		Output: cmd.ErrOrStderr(),
	})
}

// Execute runs the root command with os.Args and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
}
