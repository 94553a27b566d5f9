package extension

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExtension struct {
	name    string
	command string
	calls   int
	err     error
}

func (e *recordingExtension) Name() string    { return e.name }
func (e *recordingExtension) Command() string { return e.command }
func (e *recordingExtension) Extend(_ *cobra.Command) error {
	e.calls++
	return e.err
}

func newHost() *cobra.Command {
	root := &cobra.Command{Use: "extdiff"}
	root.AddCommand(&cobra.Command{Use: "diff", Aliases: []string{"di"}, RunE: func(*cobra.Command, []string) error { return nil }})
	return root
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NoError(t, r.Register(&recordingExtension{name: "using", command: "diff"}))
	require.NoError(t, r.Register(&recordingExtension{name: "alpha", command: "diff"}))

	assert.ErrorIs(t, r.Register(nil), ErrNilExtension)
	assert.ErrorIs(t, r.Register(&recordingExtension{command: "diff"}), ErrEmptyExtensionName)

	err := r.Register(&recordingExtension{name: "using", command: "diff"})
	var exists *ExtensionExistsError
	assert.ErrorAs(t, err, &exists)

	assert.Equal(t, []string{"alpha", "using"}, r.Names())
}

func TestRegistry_LoadAppliesOnceAndSeals(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	ext := &recordingExtension{name: "using", command: "diff"}
	viaAlias := &recordingExtension{name: "short", command: "di"}
	require.NoError(t, r.Register(ext))
	require.NoError(t, r.Register(viaAlias))

	root := newHost()
	require.NoError(t, r.Load(root))
	assert.Equal(t, 1, ext.calls)
	assert.Equal(t, 1, viaAlias.calls)

	assert.ErrorIs(t, r.Load(root), ErrSealed)
	assert.ErrorIs(t, r.Register(&recordingExtension{name: "late", command: "diff"}), ErrSealed)
	assert.Equal(t, 1, ext.calls)
}

func TestRegistry_LoadErrors(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NoError(t, r.Register(&recordingExtension{name: "log", command: "log"}))
	err := r.Load(newHost())
	var target *TargetNotFoundError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "log", target.Command)

	boom := errors.New("boom")
	r = NewRegistry()
	require.NoError(t, r.Register(&recordingExtension{name: "bad", command: "diff", err: boom}))
	assert.ErrorIs(t, r.Load(newHost()), boom)
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	code, ok := ExitCode(&ExitError{Code: 3})
	assert.True(t, ok)
	assert.Equal(t, 3, code)
	assert.Equal(t, "exit status 3", (&ExitError{Code: 3}).Error())

	_, ok = ExitCode(errors.New("other"))
	assert.False(t, ok)
}
