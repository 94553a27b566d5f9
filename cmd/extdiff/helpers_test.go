package main

import (
	"bytes"
	"testing"

	"github.com/felixgeelhaar/extdiff/internal/domain/config"
	"github.com/stretchr/testify/require"
)

// saveGlobals restores package-level CLI state when the test ends.
func saveGlobals(t *testing.T) {
	t.Helper()
	prevCfg, prevVerbose, prevFormat, prevYes := cfgFile, verbose, logFormat, yesFlag
	prevConfig, prevLogger := appConfig, logger
	prevRevisions, prevPrefix := diffRevisions, diffPrefix
	t.Cleanup(func() {
		cfgFile, verbose, logFormat, yesFlag = prevCfg, prevVerbose, prevFormat, prevYes
		appConfig, logger = prevConfig, prevLogger
		diffRevisions, diffPrefix = prevRevisions, prevPrefix
	})
}

// executeCommand runs the CLI with an isolated config home.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	saveGlobals(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(config.EnvConfig, "")

	require.NoError(t, loadExtensions())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		_ = diffCmd.Flags().Set("using", "")
		_ = diffCmd.Flags().Set("diff-options", "")
	})

	err := Execute()
	return out.String(), err
}
