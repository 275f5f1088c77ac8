package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	base := []string{"--config", filepath.Join(t.TempDir(), "config.toml")}
	cmd.SetArgs(append(args[:1:1], append(base, args[1:]...)...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCopyCommandFromStdin(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "A1-front.jpg"), []byte("a"), 0o644))

	out, err := runCLI(t, "A1\nZZ\n", "copy",
		"--source", src, "--dest", dst, "--serials", "-", "--lock-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "2 serials")
	assert.FileExists(t, filepath.Join(dst, "A1-front.jpg"))
}

func TestCopyCommandJobFileAndLargeMatches(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	for i := 0; i < 8; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(src, fmt.Sprintf("Q9-%d.jpg", i)), []byte("q"), 0o644))
	}
	job := filepath.Join(t.TempDir(), "job.yaml")
	body := fmt.Sprintf("source: %q\ndestination: %q\nserials: [Q9]\n", src, dst)
	require.NoError(t, os.WriteFile(job, []byte(body), 0o644))

	t.Run("without --yes nobody can confirm", func(t *testing.T) {
		_, err := runCLI(t, "", "copy", "--job", job, "--lock-dir", t.TempDir())
		require.NoError(t, err)
		entries, err := os.ReadDir(dst)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("--yes copies", func(t *testing.T) {
		out, err := runCLI(t, "", "copy", "--job", job, "--yes", "--verbose", "--lock-dir", t.TempDir())
		require.NoError(t, err)
		assert.Contains(t, out, "Q9-0.jpg")
		entries, err := os.ReadDir(dst)
		require.NoError(t, err)
		assert.Len(t, entries, 8)
	})
}

func TestCopyCommandValidation(t *testing.T) {
	_, err := runCLI(t, "", "copy", "--dest", t.TempDir(), "--serials", "-")
	assert.ErrorContains(t, err, "source folder")

	_, err = runCLI(t, "", "copy", "--job", "a.yaml", "--serials", "b.txt")
	assert.Error(t, err)
}
