package ports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandResult_Success(t *testing.T) {
	t.Parallel()

	assert.True(t, CommandResult{ExitCode: 0, Stdout: "output"}.Success())
	assert.False(t, CommandResult{ExitCode: 1, Stderr: "error"}.Success())
}

func TestProcessSpec_Argv(t *testing.T) {
	t.Parallel()

	spec := ProcessSpec{Command: "meld", Args: []string{"-a", "old", "new"}}
	assert.Equal(t, []string{"meld", "-a", "old", "new"}, spec.Argv())

	// The spec's own slice must not be aliased by the result.
	argv := spec.Argv()
	argv[1] = "changed"
	assert.Equal(t, "-a", spec.Args[0])
}

func TestProcessSpec_Argv_NoArgs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"kdiff3"}, ProcessSpec{Command: "kdiff3"}.Argv())
}
