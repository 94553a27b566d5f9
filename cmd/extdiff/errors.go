package main

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/extdiff/internal/adapters/git"
	"github.com/felixgeelhaar/extdiff/internal/domain/config"
	"github.com/felixgeelhaar/extdiff/internal/domain/invoke"
	"github.com/felixgeelhaar/extdiff/internal/domain/revision"
)

// toUserError attaches a code and suggestion to errors the user can act on.
// UserErrors and unknown errors are returned unchanged.
func toUserError(err error) error {
	if config.GetUserError(err) != nil {
		return err
	}

	var (
		notFound *invoke.ToolNotFoundError
		revErr   *invoke.RevisionResolutionError
		optErr   *invoke.OptionsWithoutToolError
		ioErr    *invoke.StagingIOError
	)

	switch {
	case errors.As(err, &optErr):
		return config.NewUserError(config.ErrCodeOptionsWithoutTool, optErr.Error()).
			WithSuggestion("Name the tool as well, e.g. --using vimdiff --diff-options " + fmt.Sprintf("%q", optErr.Options) + ".")

	case errors.As(err, &notFound):
		if notFound.Name == "" {
			return config.NewUserError(config.ErrCodeToolNotFound, notFound.Error()).
				WithSuggestion("Pass a tool name, e.g. --using meld. Run 'extdiff tools' to see known tools.")
		}
		return config.NewUserError(config.ErrCodeToolNotFound, notFound.Error()).
			WithSuggestion(fmt.Sprintf("Install %s, or point to it with a 'command' entry in the extdiff config or git's difftool.%s.path.", notFound.Name, notFound.Name)).
			WithUnderlying(notFound.Err)

	case errors.As(err, &revErr):
		suggestion := "Check the revision with 'git rev-parse --verify <rev>'."
		if errors.Is(err, revision.ErrTooManySpecs) {
			suggestion = "Give at most two revisions: -r OLD -r NEW, or -r OLD..NEW."
		}
		return config.NewUserError(config.ErrCodeRevisionInvalid, "invalid revision").
			WithContext(revErr.Spec).
			WithSuggestion(suggestion).
			WithUnderlying(err)

	case errors.As(err, &ioErr):
		return config.NewUserError(config.ErrCodeStagingFailed, "failed to stage files for the diff tool").
			WithContext(ioErr.Path).
			WithSuggestion("Check free space and permissions in the temporary directory ($TMPDIR).").
			WithUnderlying(err)

	case errors.Is(err, git.ErrNotRepository):
		return config.NewUserError(config.ErrCodeNotRepository, "not inside a git working tree").
			WithSuggestion("Run extdiff from a directory of a git repository.").
			WithUnderlying(err)

	case errors.Is(err, git.ErrOutsideRepository):
		return config.NewUserError(config.ErrCodeUsage, "path is outside the repository").
			WithSuggestion("Pass paths inside the working tree.").
			WithUnderlying(err)

	case errors.Is(err, git.ErrGitTooOld):
		return config.NewUserError(config.ErrCodeGitTooOld, "installed git is too old").
			WithSuggestion(fmt.Sprintf("Upgrade git to %s or newer.", git.MinVersion[1:])).
			WithUnderlying(err)

	case errors.Is(err, git.ErrBadPrefix):
		return config.NewUserError(config.ErrCodeUsage, "invalid --prefix").
			WithSuggestion(`Use old:new, e.g. --prefix "before/:after/".`).
			WithUnderlying(err)
	}
	return err
}
