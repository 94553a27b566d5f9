package git

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/extdiff/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		output  string
		want    string
		wantErr bool
	}{
		{output: "git version 2.43.0\n", want: "v2.43.0"},
		{output: "git version 2.39.3 (Apple Git-145)\n", want: "v2.39.3"},
		{output: "git version 2.45.1.windows.1\n", want: "v2.45.1"},
		{output: "git version 2.30\n", want: "v2.30.0"},
		{output: "hg version 6.0\n", wantErr: true},
		{output: "git version banana\n", wantErr: true},
		{output: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			got, err := parseVersion(tt.output)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckVersion(t *testing.T) {
	runner := mocks.NewCommandRunner()
	runner.AddOutput("git", []string{"--version"}, "git version 2.43.0\n")
	assert.NoError(t, CheckVersion(context.Background(), runner))

	runner.Reset()
	runner.AddOutput("git", []string{"--version"}, "git version 2.20.1\n")
	err := CheckVersion(context.Background(), runner)
	assert.ErrorIs(t, err, ErrGitTooOld)

	runner.Reset()
	runner.AddFailure("git", []string{"--version"}, 1, "boom")
	assert.Error(t, CheckVersion(context.Background(), runner))
}
