package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/felixgeelhaar/extdiff/internal/adapters/git"
	"github.com/felixgeelhaar/extdiff/internal/domain/config"
	"github.com/felixgeelhaar/extdiff/internal/domain/invoke"
	"github.com/felixgeelhaar/extdiff/internal/domain/revision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToUserError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		code       string
		suggestion string
	}{
		{
			name:       "options without tool",
			err:        &invoke.OptionsWithoutToolError{Options: "-R"},
			code:       config.ErrCodeOptionsWithoutTool,
			suggestion: `--diff-options "-R"`,
		},
		{
			name:       "no tool name",
			err:        &invoke.ToolNotFoundError{},
			code:       config.ErrCodeToolNotFound,
			suggestion: "extdiff tools",
		},
		{
			name:       "tool missing",
			err:        fmt.Errorf("run: %w", &invoke.ToolNotFoundError{Name: "meld"}),
			code:       config.ErrCodeToolNotFound,
			suggestion: "difftool.meld.path",
		},
		{
			name:       "bad revision",
			err:        &invoke.RevisionResolutionError{Spec: "nope", Err: errors.New("unknown revision")},
			code:       config.ErrCodeRevisionInvalid,
			suggestion: "git rev-parse",
		},
		{
			name:       "too many revisions",
			err:        &invoke.RevisionResolutionError{Spec: "a b c", Err: revision.ErrTooManySpecs},
			code:       config.ErrCodeRevisionInvalid,
			suggestion: "at most two",
		},
		{
			name:       "staging failure",
			err:        &invoke.StagingIOError{Op: "write", Path: "/tmp/x", Err: errors.New("disk full")},
			code:       config.ErrCodeStagingFailed,
			suggestion: "TMPDIR",
		},
		{
			name:       "not a repository",
			err:        fmt.Errorf("%w: /tmp", git.ErrNotRepository),
			code:       config.ErrCodeNotRepository,
			suggestion: "git repository",
		},
		{
			name:       "outside repository",
			err:        fmt.Errorf("%w: /etc/passwd", git.ErrOutsideRepository),
			code:       config.ErrCodeUsage,
			suggestion: "inside the working tree",
		},
		{
			name:       "git too old",
			err:        fmt.Errorf("%w: found v2.20.0", git.ErrGitTooOld),
			code:       config.ErrCodeGitTooOld,
			suggestion: "2.30.0",
		},
		{
			name:       "bad prefix",
			err:        git.ErrBadPrefix,
			code:       config.ErrCodeUsage,
			suggestion: "old:new",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var userErr *config.UserError
			require.True(t, errors.As(toUserError(tt.err), &userErr))
			assert.Equal(t, tt.code, userErr.Code)
			assert.Contains(t, userErr.Suggestion, tt.suggestion)
		})
	}
}

func TestToUserError_PassThrough(t *testing.T) {
	t.Parallel()

	plain := errors.New("something else")
	assert.Same(t, plain, toUserError(plain))

	userErr := config.NewUserError(config.ErrCodeUsage, "already friendly")
	assert.Equal(t, error(userErr), toUserError(userErr))
}

func TestFormatError_Verbose(t *testing.T) {
	saveGlobals(t)
	err := &invoke.RevisionResolutionError{Spec: "nope", Err: errors.New("unknown revision")}

	verbose = false
	msg := formatError(err)
	assert.Contains(t, msg, "invalid revision (at nope)")
	assert.NotContains(t, msg, "Technical details")

	verbose = true
	assert.Contains(t, formatError(err), "Technical details: cannot resolve revision \"nope\": unknown revision")
}

func TestFormatError_ErrorList(t *testing.T) {
	t.Parallel()

	list := config.NewErrorList()
	list.AddValidation("tools[0].name", "is required", "Give the tool a name.")
	list.AddValidation("log.format", "unknown format", "Use 'text' or 'json'.")

	msg := formatError(list)
	assert.Contains(t, msg, "2 errors occurred")
	assert.Contains(t, msg, "log.format")
}

func TestFormatError_ErrorListVerbose(t *testing.T) {
	saveGlobals(t)
	verbose = true

	list := config.NewErrorList()
	list.AddValidation("tools[0].name", "is required", "Give the tool a name.")
	list.AddValidation("log.format", "unknown format", "Use 'text' or 'json'.")

	msg := formatError(list)
	assert.Contains(t, msg, "2 errors occurred")
	assert.Contains(t, msg, "[VALIDATION_FAILED] tools[0].name: is required")
	assert.Contains(t, msg, "Suggestion: Use 'text' or 'json'.")
}
