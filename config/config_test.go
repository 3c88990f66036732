package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wippyai/pari-runtime/engine"
	"github.com/wippyai/pari-runtime/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
	assert.Equal(t, engine.DefaultStackSize, s.StackSize)
	assert.Equal(t, engine.DefaultMaxPrime, s.MaxPrime)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("GOPARI_STACK_SIZE", "200000000")
	t.Setenv("GOPARI_PRECISION", "256")

	s, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, uint64(200000000), s.StackSize)
	assert.Equal(t, 256, s.Precision)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, "pari.yaml", "stack_size: 50000000\nrealprecision: 50\nmin_version: \">= 2.13\"\n")

	s, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, uint64(50000000), s.StackSize)
	assert.Equal(t, 50, s.RealPrecision)
	assert.Equal(t, ">= 2.13", s.MinVersion)
	assert.Equal(t, engine.DefaultMaxPrime, s.MaxPrime)
}

func TestLoad_JSONFile(t *testing.T) {
	path := writeFile(t, "pari.json", `{"max_prime": 500000, "verbose": true}`)

	s, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, uint64(500000), s.MaxPrime)
	assert.True(t, s.Verbose)
}

func TestLoad_TOMLRejected(t *testing.T) {
	path := writeFile(t, "pari.toml", "stack_size = 50000000\n")

	_, err := Load(New(), path)
	require.Error(t, err)
	assert.Equal(t, errors.KindInvalidInput, errors.KindOf(err))
}

func TestLoad_InvalidFile(t *testing.T) {
	path := writeFile(t, "pari.yaml", "stack_size: 10\nunknown_key: true\n")

	_, err := Load(New(), path)
	require.Error(t, err)
	assert.Equal(t, errors.KindInvalidInput, errors.KindOf(err))
	assert.Contains(t, err.Error(), "/stack_size")
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("GOPARI_PRECISION", "-5")

	_, err := Load(New(), "")
	assert.Equal(t, errors.KindInvalidInput, errors.KindOf(err))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Equal(t, errors.KindNotFound, errors.KindOf(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		valid    bool
		keywords []string
	}{
		{"empty document", "", true, nil},
		{"all keys", "stack_size: 2000000\nmax_prime: 0\nprecision: 128\nrealprecision: 38\nmin_version: '>= 2.11'\nverbose: true\n", true, nil},
		{"stack too small", "stack_size: 1024\n", false, []string{"minimum"}},
		{"wrong type", "precision: high\n", false, []string{"type"}},
		{"unknown key", "stacksize: 1\n", false, []string{"additionalProperties"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Validate([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid)

			var got []string
			for _, is := range res.Issues {
				got = append(got, is.Keyword)
				assert.NotEmpty(t, is.Message)
			}
			assert.Equal(t, tt.keywords, got)
			if tt.valid {
				assert.NoError(t, res.Err())
			} else {
				assert.Error(t, res.Err())
			}
		})
	}
}

func TestValidate_BadYAML(t *testing.T) {
	_, err := Validate([]byte("stack_size: [1,"))
	assert.Error(t, err)
}

func TestSettings_Engine(t *testing.T) {
	log := zap.NewNop()
	s := Settings{StackSize: 1 << 24, MaxPrime: 1000, Precision: 192, MinVersion: ">= 2.15"}

	cfg := s.Engine(log)
	assert.Same(t, log, cfg.Logger)
	assert.Equal(t, uint64(1<<24), cfg.StackSize)
	assert.Equal(t, uint64(1000), cfg.MaxPrime)
	assert.Equal(t, 192, cfg.PrecisionBits)
	assert.Equal(t, ">= 2.15", cfg.MinVersion)
}
