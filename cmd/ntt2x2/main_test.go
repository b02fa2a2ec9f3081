package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	err := newApp(&stdout, &stderr).Run(append([]string{"ntt2x2"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestRun(t *testing.T) {

	stdout, stderr, err := runApp(t, "--json-logs", "run", "--logn", "7", "--layout", "bit-reversed", "--workers", "2", "--count", "3", "--metrics")
	require.NoError(t, err, stderr)

	assert.Contains(t, stderr, "All transforms match the textbook NTT")
	assert.Contains(t, stdout, "0: [")
	assert.Contains(t, stdout, "2: [")

	// logN = 7: one direct pass, two transposed passes, one bypass pass of 32 rows each.
	assert.Contains(t, stdout, `ntt2x2_pipeline_row_reads_total{phase="transposed"} 192`)
	assert.Contains(t, stdout, `ntt2x2_pipeline_passes_total{phase="bypass"} 3`)
}

func TestRunConfig(t *testing.T) {

	path := filepath.Join(t.TempDir(), "ntt2x2.yml")
	require.NoError(t, os.WriteFile(path, []byte("parameters:\n  logn: 4\nworkers: 1\nseed: abc\n"), 0o600))

	stdout, stderr, err := runApp(t, "--config", path, "run")
	require.NoError(t, err, stderr)
	assert.Equal(t, 1, strings.Count(stdout, "\n"))

	_, _, err = runApp(t, "--config", path, "run", "--logn", "12")
	require.Error(t, err)

	_, _, err = runApp(t, "--config", filepath.Join(t.TempDir(), "missing.yml"), "run")
	require.Error(t, err)
}

func TestVector(t *testing.T) {

	stdout, _, err := runApp(t, "vector", "--head", "4")
	require.NoError(t, err)
	assert.Contains(t, stdout, "N=512 q=12289")
	assert.Contains(t, stdout, "NTT(1)   = [1 1 1 1 ...]")
	assert.Contains(t, stdout, "NTT(1+X) = [")
}

func TestPatterns(t *testing.T) {

	stdout, _, err := runApp(t, "patterns", "--read-latency", "0")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")

	// Header plus floor(logN/2) merged passes and one bypass pass per odd logN.
	passes := 0
	for logN := 3; logN <= 11; logN++ {
		passes += logN/2 + logN%2
	}
	require.Len(t, lines, passes+1)

	assert.Contains(t, stdout, "bypass(l=10)")
	assert.Contains(t, stdout, "merged(l=2,s=5)")
}
