package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pro7ech/ntt2x2/pipeline"
)

func TestRead(t *testing.T) {

	rawYAML := `
parameters:
  logn: 10
  layout: bit-reversed
  read_latency: 0
workers: 3
seed: falcon-1024
loglevel: debug
json_logs: true
`
	c, err := Read(strings.NewReader(rawYAML))
	require.NoError(t, err)

	assert.Equal(t, 10, c.Parameters.LogN)
	assert.Equal(t, pipeline.LayoutBitReversed, c.Parameters.Layout)
	require.NotNil(t, c.Parameters.ReadLatency)
	assert.Equal(t, 0, *c.Parameters.ReadLatency)
	assert.Equal(t, 3, c.Workers)
	assert.Equal(t, "falcon-1024", c.Seed)
	assert.Equal(t, "debug", c.Logger().MinLevel)
	assert.True(t, c.Logger().JSON)

	params, err := c.PipelineParameters()
	require.NoError(t, err)
	assert.Equal(t, 256, params.Rows())
	assert.Equal(t, 0, params.ReadLatency())
}

func TestReadDefaults(t *testing.T) {

	c, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	c, err = Read(strings.NewReader("seed: other\n"))
	require.NoError(t, err)
	assert.Equal(t, 9, c.Parameters.LogN)
	assert.Equal(t, "other", c.Seed)
}

func TestReadErrors(t *testing.T) {
	for _, rawYAML := range []string{
		"unknown: 1\n",
		"parameters:\n  logn: 13\n",
		"parameters:\n  logn: 9\n  layout: spiral\n",
		"workers: 0\n",
		"workers: [\n",
	} {
		_, err := Read(strings.NewReader(rawYAML))
		assert.Error(t, err, rawYAML)
	}
}

func TestLoad(t *testing.T) {

	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yml"))
	require.Error(t, err)
	assert.Equal(t, ErrNoConfigFile, errors.Cause(err))

	want := Default()
	want.Parameters.LogN = 11
	want.Workers = 2

	var buf bytes.Buffer
	require.NoError(t, want.Write(&buf))

	path := filepath.Join(dir, "ntt2x2.yml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	have, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, have.Source())
	assert.Equal(t, want.Parameters, have.Parameters)
	assert.Equal(t, want.Workers, have.Workers)
}
