package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/felixgeelhaar/extdiff/internal/adapters/command"
	"github.com/felixgeelhaar/extdiff/internal/adapters/filesystem"
	"github.com/felixgeelhaar/extdiff/internal/adapters/git"
	"github.com/felixgeelhaar/extdiff/internal/domain/config"
	"github.com/felixgeelhaar/extdiff/internal/domain/difftool"
	"github.com/felixgeelhaar/extdiff/internal/domain/extension"
	"github.com/felixgeelhaar/extdiff/internal/domain/invoke"
	"github.com/felixgeelhaar/extdiff/internal/ports"
	"github.com/spf13/cobra"
)

// extensions holds everything that extends the built-in commands.
var extensions = extension.NewRegistry()

// loadExtensions applies the registry to rootCmd once per process.
var loadExtensions = sync.OnceValue(func() error {
	if err := extensions.Register(extension.NewUsing(newInvoker, toolNames)); err != nil {
		return err
	}
	return extensions.Load(rootCmd)
})

// newInvoker opens the repository in the working directory and wires an
// invoker to it. It only runs when --using is given.
func newInvoker(cmd *cobra.Command) (extension.Runner, error) {
	ctx := cmd.Context()
	runner := gitRunner()
	fs := filesystem.NewRealFileSystem()

	if err := git.CheckVersion(ctx, runner); err != nil {
		return nil, err
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	repo, err := git.Open(ctx, runner, fs, wd)
	if err != nil {
		return nil, err
	}

	repoConfig, err := repo.ConfigPath(ctx)
	if err != nil {
		logger.Warn(ctx, "cannot locate repository git config", ports.F("error", err))
	}
	catalog, err := buildCatalog(fs, repoConfig)
	if err != nil {
		return nil, err
	}

	return invoke.New(catalog, repo, command.NewRealLauncher(), fs,
		invoke.WithLogger(logger),
		invoke.WithPrompter(newTerminalPrompter(os.Stdin, cmd.ErrOrStderr())),
	), nil
}

// buildCatalog layers difftool paths from git config and then the extdiff
// config file over the built-in tools. repoConfig may be empty.
func buildCatalog(fs ports.FileSystem, repoConfig string) (*difftool.Catalog, error) {
	catalog := difftool.DefaultCatalog()

	paths, err := config.NewLoader(fs).DifftoolPaths(config.GitConfigPaths(repoConfig))
	if err != nil {
		return nil, err
	}
	if err := config.ApplyDifftoolPaths(catalog, paths); err != nil {
		return nil, err
	}
	if err := appConfig.Apply(catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// gitRunner runs git in the C locale.
func gitRunner() *command.RealRunner {
	return command.NewRealRunner(command.WithEnv(git.Env...))
}

// localGitConfig returns the config file of the repository containing the
// working directory, or "" outside a repository.
func localGitConfig(ctx context.Context, fs ports.FileSystem) string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	repo, err := git.Open(ctx, gitRunner(), fs, wd)
	if err != nil {
		return ""
	}
	path, err := repo.ConfigPath(ctx)
	if err != nil {
		return ""
	}
	return path
}

// toolNames completes --using with the configured tools.
func toolNames() []string {
	fs := filesystem.NewRealFileSystem()
	catalog, err := buildCatalog(fs, localGitConfig(context.Background(), fs))
	if err != nil {
		return nil
	}
	tools := catalog.List()
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name+"\t"+tool.Kind()+" tool")
	}
	return names
}
