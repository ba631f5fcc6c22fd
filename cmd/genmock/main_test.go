package main

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/iris2odim/internal/iris"
)

func TestRun_WritesDecodableFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "volume.raw.gz")

	require.NoError(t, run([]string{"--out", out, "--sweeps", "2", "--rays", "72", "--bins", "30", "--types", "dbz2,zdr2", "--gzip"}))

	assert.Equal(t, iris.FormatIRIS, iris.Probe(out))
	raw, err := iris.NewDecoder(slog.Default()).Decode(t.Context(), out)
	require.NoError(t, err)
	require.Len(t, raw.Sweeps, 2)
	require.Len(t, raw.Sweeps[0].Fields, 2)
	assert.Equal(t, iris.DataDBZ2, raw.Sweeps[0].Fields[0].Header.DataType)
	assert.Len(t, raw.Sweeps[0].Fields[0].Rays, 72)
}

func TestRun_Rejects(t *testing.T) {
	assert.Error(t, run(nil))
	assert.Error(t, run([]string{"--out", filepath.Join(t.TempDir(), "x.raw"), "--types", "NOPE"}))
	assert.Error(t, run([]string{"--out", filepath.Join(t.TempDir(), "x.raw"), "--rays", "0"}))
}
