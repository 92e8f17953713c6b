package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"meshapprox/src/surface/vsa"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "opts.toml", `
metric = "l2"
seeding = "random"
max_proxies = 12
chord_error = 0.05
pca_plane = true
`},
		{"yaml", "opts.yaml", `
metric: L2
seeding: random
max_proxies: 12
chord_error: 0.05
pca_plane: true
`},
		{"yml", "opts.yml", "metric: l2\nseeding: Random\nmax_proxies: 12\nchord_error: 0.05\npca_plane: true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := Load(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)

			want := vsa.DefaultOptions()
			want.Metric = vsa.L2
			want.Seeding = vsa.Random
			want.MaxProxies = 12
			want.ChordError = 0.05
			want.PCAPlane = true
			assert.Equal(t, want, opts)
		})
	}
}

func TestLoadEmptyFileGivesDefaults(t *testing.T) {
	for _, name := range []string{"empty.toml", "empty.yaml"} {
		opts, err := Load(writeFile(t, name, ""))
		require.NoError(t, err, name)
		assert.Equal(t, vsa.DefaultOptions(), opts, name)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		is      error
		msg     string
	}{
		{"extension", "opts.json", `{}`, ErrUnknownFormat, ""},
		{"unknown toml key", "opts.toml", "proxies = 3\n", nil, ""},
		{"unknown yaml key", "opts.yaml", "proxies: 3\n", nil, "proxies"},
		{"toml metric", "opts.toml", `metric = "l3"`, nil, "unknown metric"},
		{"yaml metric", "opts.yaml", "metric: l3\n", nil, "unknown metric"},
		{"target", "opts.yaml", "max_proxies: 0\n", vsa.ErrInvalidTarget, ""},
		{"error drop", "opts.toml", "min_error_drop = 1.5\n", vsa.ErrInvalidTarget, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			if tt.is != nil {
				require.True(t, errors.Is(err, tt.is), "got %v", err)
			}
			if tt.msg != "" {
				require.ErrorContains(t, err, tt.msg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRead(t *testing.T) {
	f, err := DecoderFor("TOML")
	require.NoError(t, err)
	opts, err := Read(strings.NewReader("iterations = 4\nrandom_seed = 9\n"), f)
	require.NoError(t, err)
	assert.Equal(t, 4, opts.Iterations)
	assert.Equal(t, int64(9), opts.RandomSeed)
}
