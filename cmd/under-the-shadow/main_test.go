package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execRoot(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Under the Shadow dev")
}

func TestEndingsCommand(t *testing.T) {
	out, err := execRoot(t, "", "endings")
	require.NoError(t, err)
	assert.Contains(t, out, "death-debt")
	assert.Contains(t, out, "easter-sleep")

	out, err = execRoot(t, "", "endings", "--achievements")
	require.NoError(t, err)
	assert.Contains(t, out, "death-wish")
}

func TestReplPlaysSavesAndLists(t *testing.T) {
	dir := t.TempDir()
	script := strings.Join([]string{
		"pick option b",
		"drink water",
		"save",
		"quit",
	}, "\n")
	out, err := execRoot(t, script, "repl", "--data-dir", dir, "--seed", "9", "--slot", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Week 1/45")
	assert.Contains(t, out, "Saved to slot 3.")

	out, err = execRoot(t, "", "saves", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "slot 3")
	assert.Contains(t, out, "week 1")
}

func TestReplResumeAndLoad(t *testing.T) {
	dir := t.TempDir()
	_, err := execRoot(t, "choose a\nsave 2\nquit\n", "repl", "--data-dir", dir, "--seed", "4", "--store", "sqlite")
	require.NoError(t, err)

	out, err := execRoot(t, "status\nload 2\nload 7\n", "repl", "--data-dir", dir, "--store", "sqlite", "--slot", "2", "--resume")
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded slot 2.")
	assert.Contains(t, out, "Load failed")
}

func TestResumeMissingSlotFails(t *testing.T) {
	_, err := execRoot(t, "", "repl", "--data-dir", t.TempDir(), "--slot", "5", "--resume")
	require.Error(t, err)
}

func TestSlotArg(t *testing.T) {
	assert.Equal(t, 1, slotArg(nil, 1))
	assert.Equal(t, 4, slotArg([]string{"4"}, 1))
	assert.Equal(t, 1, slotArg([]string{"four"}, 1))
}
