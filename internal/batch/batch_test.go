package batch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idstamp/internal/tagger"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun_StampsEveryCandidate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `[{"x":1}]`)
	writeFile(t, dir, "b.json", `[{"y":2},{"y":3}]`)

	summary, err := Run(dir)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Stamped)
	assert.Equal(t, 0, summary.Failed)
	assert.Len(t, summary.Results, 2)
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, dir, summary.Dir)

	for _, result := range summary.Results {
		require.NoError(t, result.Err)
		_, statErr := os.Stat(result.Output)
		assert.NoError(t, statErr, "output file should exist for %s", result.Input)
	}
}

func TestRun_ContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.json", `not valid json`)
	valid := writeFile(t, dir, "good.json", `[{"x":1}]`)

	summary, err := Run(dir)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Stamped)
	assert.Equal(t, 1, summary.Failed)
	assert.Len(t, summary.Results, 2)

	var failed, stamped *Result
	for i := range summary.Results {
		if summary.Results[i].Err != nil {
			failed = &summary.Results[i]
		} else {
			stamped = &summary.Results[i]
		}
	}
	require.NotNil(t, failed)
	require.NotNil(t, stamped)
	assert.ErrorIs(t, failed.Err, tagger.ErrParse)
	assert.Equal(t, valid, stamped.Input)
	_, statErr := os.Stat(tagger.OutputPath(valid))
	assert.NoError(t, statErr)
}

func TestRun_EmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "not json")

	summary, err := Run(dir)
	require.NoError(t, err)

	assert.True(t, summary.Empty())
	assert.Equal(t, 0, summary.Stamped)
	assert.Equal(t, 0, summary.Failed)
}

func TestRun_CaseInsensitiveExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "upper.JSON", `[{"x":1}]`)
	writeFile(t, dir, "mixed.Json", `[{"x":2}]`)

	summary, err := Run(dir)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Stamped)
}

func TestRun_SkipsDirectoriesAndNonJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "trap.json"), 0755))
	writeFile(t, dir, "skip.jsonl", `{"x":1}`)
	writeFile(t, dir, "keep.json", `[{"x":1}]`)

	summary, err := Run(dir)
	require.NoError(t, err)

	require.Len(t, summary.Results, 1)
	assert.Equal(t, filepath.Join(dir, "keep.json"), summary.Results[0].Input)
}

func TestRun_NonRecursive(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0755))
	writeFile(t, sub, "deep.json", `[{"x":1}]`)

	summary, err := Run(dir)
	require.NoError(t, err)

	assert.True(t, summary.Empty())
}

func TestRun_MissingDirectory(t *testing.T) {
	_, err := Run(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}

func TestRunWith_CountsMatchCandidates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `[]`)
	writeFile(t, dir, "b.json", `[]`)
	writeFile(t, dir, "c.json", `[]`)

	boom := errors.New("boom")
	calls := 0
	summary, err := RunWith(dir, func(path string) (string, error) {
		calls++
		if calls == 2 {
			return "", boom
		}
		return path + ".out", nil
	})
	require.NoError(t, err)

	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, summary.Stamped)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, len(summary.Results), summary.Stamped+summary.Failed)
}
