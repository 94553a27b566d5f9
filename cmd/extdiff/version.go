package main

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/extdiff/internal/adapters/git"
	"github.com/spf13/cobra"
)

// Version information set by build flags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "extdiff %s\n", version)
		_, _ = fmt.Fprintf(out, "  commit: %s\n", commit)
		_, _ = fmt.Fprintf(out, "  built:  %s\n", date)

		gitVersion, err := git.Version(cmd.Context(), gitRunner())
		if err != nil {
			gitVersion = "not found"
		}
		_, _ = fmt.Fprintf(out, "  git:    %s\n", gitVersion)
		if names := extensions.Names(); len(names) > 0 {
			_, _ = fmt.Fprintf(out, "  extensions: %s\n", strings.Join(names, ", "))
		}
	},
}
