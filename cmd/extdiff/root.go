package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/felixgeelhaar/extdiff/internal/adapters/filesystem"
	"github.com/felixgeelhaar/extdiff/internal/adapters/logging"
	"github.com/felixgeelhaar/extdiff/internal/domain/config"
	"github.com/felixgeelhaar/extdiff/internal/ports"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	verbose   bool
	logFormat string
	yesFlag   bool
)

// appConfig and logger are set by loadSettings before any subcommand runs.
var appConfig = &config.Config{}

var logger ports.Logger = logging.NewNopLogger()

var rootCmd = &cobra.Command{
	Use:   "extdiff",
	Short: "Compare git revisions with external diff tools",
	Long: `extdiff extends diff with --using, which stages the requested revisions
as temporary files and opens them in an external tool such as meld,
kdiff3 or vimdiff.

Examples:
  extdiff diff                          # built-in diff, HEAD vs working tree
  extdiff diff --using meld             # same comparison in meld
  extdiff diff --using meld -r main     # main vs working tree
  extdiff diff --using kdiff3 -r v1.0 -r v1.1 src/
  extdiff diff --using vimdiff --diff-options "-R" README.md`,
	SilenceErrors:     true, // We handle error formatting ourselves
	SilenceUsage:      true, // Don't show usage on error
	PersistentPreRunE: loadSettings,
}

// Execute loads extensions and runs the root command.
func Execute() error {
	if err := loadExtensions(); err != nil {
		return err
	}
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/extdiff/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
	rootCmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "auto-confirm all prompts")

	// Register flag completions
	registerFlagCompletions()

	rootCmd.AddCommand(diffCmd, toolsCmd, versionCmd)
}

// loadSettings reads the config file and sets up the logger.
func loadSettings(cmd *cobra.Command, _ []string) error {
	path, explicit := config.Locate(cfgFile)
	cfg, err := config.NewLoader(filesystem.NewRealFileSystem()).Load(path, explicit)
	if err != nil {
		return err
	}

	l, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return err
	}

	appConfig = cfg
	logger = l
	cmd.SetContext(ports.ContextWithLogger(cmd.Context(), l))
	return nil
}

// newLogger builds the console logger. Flags win over the config file;
// --verbose always means debug.
func newLogger(w io.Writer, cfg config.LogConfig) (*logging.ConsoleLogger, error) {
	level := ports.LevelWarn
	if cfg.Level != "" {
		parsed, err := ports.ParseLevel(cfg.Level)
		if err != nil {
			return nil, config.NewUserError(config.ErrCodeValidationFailed, "invalid log level").
				WithContext("log.level").
				WithSuggestion("Use one of debug, info, warn, error.").
				WithUnderlying(err)
		}
		level = parsed
	}
	if verbose {
		level = ports.LevelDebug
	}

	name := cfg.Format
	if logFormat != "" {
		name = logFormat
	}
	format, err := logging.ParseFormat(name)
	if err != nil {
		return nil, config.NewUserError(config.ErrCodeUsage, "invalid log format").
			WithContext("--log-format").
			WithSuggestion("Use text or json.").
			WithUnderlying(err)
	}

	return logging.NewConsoleLogger(
		logging.WithOutput(w),
		logging.WithLevel(level),
		logging.WithFormat(format),
	), nil
}

// formatError returns a user-friendly error message.
// With verbose=false: shows only the user message and suggestion.
// With verbose=true: also shows the underlying technical error.
func formatError(err error) string {
	var list *config.ErrorList
	if errors.As(err, &list) && list.Len() > 1 {
		if !verbose {
			return list.Error()
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%d errors occurred:\n", list.Len())
		for _, e := range list.Errors() {
			b.WriteString(e.Format())
			b.WriteString("\n")
		}
		return b.String()
	}

	var userErr *config.UserError
	if errors.As(toUserError(err), &userErr) {
		msg := userErr.Message
		if userErr.Context != "" {
			msg += fmt.Sprintf(" (at %s)", userErr.Context)
		}
		if userErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", userErr.Suggestion)
		}
		if verbose && userErr.Underlying != nil {
			msg += fmt.Sprintf("\n\nTechnical details: %v", userErr.Underlying)
		}
		return msg
	}
	return err.Error()
}

// printError prints an error message to stderr with proper formatting.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "extdiff: %s\n", formatError(err))
}

// registerFlagCompletions sets up custom completions for global flags.
func registerFlagCompletions() {
	// Complete --config with YAML and TOML files
	_ = rootCmd.RegisterFlagCompletionFunc("config", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "yml", "toml"}, cobra.ShellCompDirectiveFilterFileExt
	})

	_ = rootCmd.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{
			"text\tHuman-readable key=value lines",
			"json\tOne JSON object per line",
		}, cobra.ShellCompDirectiveNoFileComp
	})
}
