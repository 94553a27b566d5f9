package git

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/extdiff/internal/domain/invoke"
	"github.com/felixgeelhaar/extdiff/internal/domain/revision"
	"github.com/felixgeelhaar/extdiff/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDiff = `diff --git a/a.txt b/a.txt
index 8c7e5a6..7371f47 100644
--- a/a.txt
+++ b/a.txt
@@ -1 +1 @@
-A
+B
diff --git a/new.txt b/new.txt
new file mode 100644
index 0000000..e69de29
diff --git a/gone.txt b/gone.txt
deleted file mode 100644
index ce01362..0000000
--- a/gone.txt
+++ /dev/null
@@ -1 +0,0 @@
-hello
diff --git a/old.c b/new.c
similarity index 100%
rename from old.c
rename to new.c
diff --git a/run.sh b/run.sh
old mode 100644
new mode 100755
`

func TestParseChanges(t *testing.T) {
	changes, err := parseChanges(sampleDiff)
	require.NoError(t, err)

	assert.Equal(t, []invoke.Change{
		{Op: invoke.OpModified, OldPath: "a.txt", NewPath: "a.txt", TextChanged: true},
		{Op: invoke.OpAdded, NewPath: "new.txt", TextChanged: true},
		{Op: invoke.OpDeleted, OldPath: "gone.txt", TextChanged: true},
		{Op: invoke.OpRenamed, OldPath: "old.c", NewPath: "new.c", TextChanged: false},
		{Op: invoke.OpModified, OldPath: "run.sh", NewPath: "run.sh", TextChanged: false},
	}, changes)
}

func TestParseChanges_Empty(t *testing.T) {
	changes, err := parseChanges("")
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestChanges_Arguments(t *testing.T) {
	diffArgs := []string{
		"diff", "--no-color", "--no-ext-diff", "--no-textconv", "--no-relative",
		"--src-prefix=a/", "--dst-prefix=b/", "-M", "-U0",
	}

	tests := []struct {
		name string
		pair revision.Pair
		want []string
	}{
		{
			name: "revision against working tree",
			pair: revision.Pair{Old: revision.Side{Kind: revision.KindBase, ID: headID}, New: revision.WorkingTree()},
			want: append(append([]string{}, diffArgs...), headID, "--", "a.txt"),
		},
		{
			name: "two revisions",
			pair: revision.Pair{
				Old: revision.Side{Kind: revision.KindRevision, Spec: "HEAD", ID: headID},
				New: revision.Side{Kind: revision.KindRevision, Spec: "topic", ID: topicID},
			},
			want: append(append([]string{}, diffArgs...), headID, topicID, "--", "a.txt"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := mocks.NewCommandRunner()
			repo := openTestRepo(t, runner, mocks.NewFileSystem(), testRoot)
			runner.AddOutput("git", git(tt.want...), sampleDiff)

			changes, err := repo.Changes(context.Background(), tt.pair, []string{"a.txt"})
			require.NoError(t, err)
			assert.Len(t, changes, 5)
		})
	}
}

func TestChanges_WorkingTreeOnOldSide(t *testing.T) {
	repo := openTestRepo(t, mocks.NewCommandRunner(), mocks.NewFileSystem(), testRoot)

	_, err := repo.Changes(context.Background(), revision.Pair{Old: revision.WorkingTree(), New: revision.At("HEAD")}, nil)
	assert.Error(t, err)
}

func TestChanges_GitFailure(t *testing.T) {
	runner := mocks.NewCommandRunner()
	repo := openTestRepo(t, runner, mocks.NewFileSystem(), testRoot)
	runner.AddFailure("git", git("diff", "--no-color", "--no-ext-diff", "--no-textconv", "--no-relative",
		"--src-prefix=a/", "--dst-prefix=b/", "-M", "-U0", headID, "--"), 128, "fatal: bad revision")

	_, err := repo.Changes(context.Background(), revision.Pair{Old: revision.Side{Kind: revision.KindBase, ID: headID}, New: revision.WorkingTree()}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad revision")
}
