package git

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/extdiff/internal/domain/revision"
	"github.com/felixgeelhaar/extdiff/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinArgs(t *testing.T) {
	tests := []struct {
		name string
		opts DiffOptions
		want []string
	}{
		{
			name: "defaults to HEAD against the working tree",
			opts: DiffOptions{},
			want: []string{"diff", "--exit-code", "HEAD", "--"},
		},
		{
			name: "single revision",
			opts: DiffOptions{Revisions: []string{"v1.0"}, Paths: []string{"a.txt"}},
			want: []string{"diff", "--exit-code", "v1.0", "--", "a.txt"},
		},
		{
			name: "range",
			opts: DiffOptions{Revisions: []string{"1..2"}},
			want: []string{"diff", "--exit-code", "1", "2", "--"},
		},
		{
			name: "open range compares with the working tree",
			opts: DiffOptions{Revisions: []string{"1.."}},
			want: []string{"diff", "--exit-code", "1", "--"},
		},
		{
			name: "repeated flag",
			opts: DiffOptions{Revisions: []string{"1", "2"}},
			want: []string{"diff", "--exit-code", "1", "2", "--"},
		},
		{
			name: "merge base",
			opts: DiffOptions{Revisions: []string{"main...topic"}},
			want: []string{"diff", "--exit-code", "main...topic", "--"},
		},
		{
			name: "prefix",
			opts: DiffOptions{Prefix: "old/:new/"},
			want: []string{"diff", "--exit-code", "--src-prefix=old/", "--dst-prefix=new/", "HEAD", "--"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := BuiltinArgs(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, args)
		})
	}
}

func TestBuiltinArgs_Errors(t *testing.T) {
	_, err := BuiltinArgs(DiffOptions{Prefix: "old/"})
	assert.ErrorIs(t, err, ErrBadPrefix)

	_, err = BuiltinArgs(DiffOptions{Revisions: []string{"1", "2", "3"}})
	assert.ErrorIs(t, err, revision.ErrTooManySpecs)
}

func TestBuiltinDiff_Run(t *testing.T) {
	launcher := mocks.NewLauncher()
	launcher.SetExitCode(1)

	code, err := NewBuiltinDiff(launcher, nil, nil).Run(context.Background(), DiffOptions{Paths: []string{"a.txt"}})
	require.NoError(t, err)
	assert.Equal(t, 1, code)
	require.Len(t, launcher.Launches(), 1)
	assert.Equal(t, []string{"git", "diff", "--exit-code", "HEAD", "--", "a.txt"}, launcher.Launches()[0].Argv())
}

func TestBuiltinDiff_LaunchError(t *testing.T) {
	launcher := mocks.NewLauncher()
	launcher.SetError(errors.New("git: not found"))

	_, err := NewBuiltinDiff(launcher, nil, nil).Run(context.Background(), DiffOptions{})
	assert.Error(t, err)
}

func TestSplitPrefix(t *testing.T) {
	src, dst, err := SplitPrefix("a/:b/")
	require.NoError(t, err)
	assert.Equal(t, "a/", src)
	assert.Equal(t, "b/", dst)

	src, dst, err = SplitPrefix(":")
	require.NoError(t, err)
	assert.Empty(t, src)
	assert.Empty(t, dst)
}
