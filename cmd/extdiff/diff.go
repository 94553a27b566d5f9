package main

import (
	"github.com/felixgeelhaar/extdiff/internal/adapters/command"
	"github.com/felixgeelhaar/extdiff/internal/adapters/git"
	"github.com/felixgeelhaar/extdiff/internal/domain/extension"
	"github.com/felixgeelhaar/extdiff/internal/ports"
	"github.com/spf13/cobra"
)

var (
	diffRevisions []string
	diffPrefix    string
)

var diffCmd = &cobra.Command{
	Use:   "diff [flags] [paths...]",
	Short: "Show differences between revisions",
	Long: `Show differences between two revisions, or between a revision and the
working tree.

Without -r the working tree is compared with HEAD. One -r compares that
revision with the working tree; two compare the revisions with each other.
A single -r A..B is the same as -r A -r B, and A...B compares the merge
base of A and B with B.

Exit status is 0 without differences and 1 with differences. With --using
it is the external tool's exit status.

Examples:
  extdiff diff                             # HEAD vs working tree
  extdiff diff -r main -r feature docs/    # two revisions, one directory
  extdiff diff -r main...feature           # what feature adds to main
  extdiff diff -p before/:after/           # custom path prefixes`,
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringArrayVarP(&diffRevisions, "revision", "r", nil, "revision to compare (repeat for two)")
	diffCmd.Flags().StringVarP(&diffPrefix, "prefix", "p", "", "old:new path prefixes for the built-in diff")
}

func runDiff(cmd *cobra.Command, args []string) error {
	differ := git.NewBuiltinDiff(command.NewRealLauncher(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	code, err := differ.Run(cmd.Context(), git.DiffOptions{
		Revisions: diffRevisions,
		Paths:     args,
		Prefix:    diffPrefix,
	})
	if err != nil {
		return err
	}

	logger.Debug(cmd.Context(), "built-in diff finished", ports.F("exit_code", code))
	if code != 0 {
		return &extension.ExitError{Code: code}
	}
	return nil
}
