package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/extdiff/internal/adapters/command"
	"github.com/felixgeelhaar/extdiff/internal/adapters/filesystem"
	"github.com/felixgeelhaar/extdiff/internal/domain/difftool"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var toolsAvailableOnly bool

var toolsCmd = &cobra.Command{
	Use:     "tools",
	Aliases: []string{"ls-tools"},
	Short:   "List known external diff tools",
	Long: `List the tools --using knows about, from the built-in set, git's
difftool.<name>.path settings and the extdiff config file.

Tree tools receive two directories and compare them recursively. List
tools are started once per changed file.`,
	Args: cobra.NoArgs,
	RunE: runTools,
}

func init() {
	toolsCmd.Flags().BoolVar(&toolsAvailableOnly, "available", false, "only show tools found on PATH")
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	foundStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func runTools(cmd *cobra.Command, _ []string) error {
	fs := filesystem.NewRealFileSystem()
	catalog, err := buildCatalog(fs, localGitConfig(cmd.Context(), fs))
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(cmd.OutOrStdout(), renderTools(catalog, command.NewRealLauncher(), toolsAvailableOnly))
	return nil
}

// renderTools lays out one row per tool with padded columns.
func renderTools(catalog *difftool.Catalog, locator difftool.Locator, availableOnly bool) string {
	title := cases.Title(language.English)
	rows := [][]string{{"NAME", "KIND", "AVAILABLE", "COMMAND"}}
	styles := []lipgloss.Style{headerStyle}

	for _, tool := range catalog.List() {
		path, err := locator.LookPath(tool.Executable())
		found := err == nil
		if availableOnly && !found {
			continue
		}

		available, style := "no", missingStyle
		if found {
			available, style = "yes", foundStyle
		}
		commandLine := strings.Join(append([]string{tool.Executable()}, tool.Options...), " ")
		if found && path != tool.Executable() {
			commandLine += " (" + path + ")"
		}
		rows = append(rows, []string{tool.Name, title.String(tool.Kind()), available, commandLine})
		styles = append(styles, style)
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	for r, row := range rows {
		for i, cell := range row {
			if i == 2 {
				cell = styles[r].Render(cell)
			} else if r == 0 {
				cell = headerStyle.Render(cell)
			}
			if i < len(row)-1 {
				cell += strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+2)
			}
			b.WriteString(cell)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
