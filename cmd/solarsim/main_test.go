package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteResultsAndMonthly(t *testing.T) {
	sh, _, _ := testShell(t)
	run, err := sh.sess.CurrentRun()
	require.NoError(t, err)

	dir := t.TempDir()
	resultsPath := filepath.Join(dir, "results.csv")
	monthlyPath := filepath.Join(dir, "monthly.csv")

	require.NoError(t, writeResults(resultsPath, run.Results))
	require.NoError(t, writeMonthly(monthlyPath, run))

	data, err := os.ReadFile(resultsPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, len(run.Results)+1)
	assert.True(t, strings.HasPrefix(lines[0], "ts,solar_w,"))

	data, err = os.ReadFile(monthlyPath)
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 13)
}

func TestWriteResults_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "results.csv")
	assert.Error(t, writeResults(path, nil))
}
