package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/layerconf/internal/fragment"
)

func writeRoot(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.config")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestApp_RunTextOutput(t *testing.T) {
	root := writeRoot(t, `
		process {
			memory = '2GB'
			$chewbbaca.queue = 'chewBBACA'
		}
	`)
	cfg, err := NewConfig(Config{
		ConfigPath:   root,
		Process:      "chewbbaca",
		Attempt:      1,
		OutputFormat: "text",
		LogLevel:     "error",
	})
	require.NoError(t, err)

	var out, logs bytes.Buffer
	a, err := NewApp(&out, &logs, cfg, fragment.NewLoader())
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, out.String(), "process.memory = 2GB\n")
	assert.Contains(t, out.String(), "process.queue = chewBBACA\n")
}

func TestApp_RunJSONOutput(t *testing.T) {
	root := writeRoot(t, `
		docker {
			enabled = true
		}
		process.cpus = 4
	`)
	cfg, err := NewConfig(Config{
		ConfigPath:   root,
		Attempt:      2,
		OutputFormat: "json",
		LogLevel:     "error",
	})
	require.NoError(t, err)

	var out, logs bytes.Buffer
	a, err := NewApp(&out, &logs, cfg, fragment.NewLoader())
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, true, decoded["docker.enabled"])
	assert.EqualValues(t, 4, decoded["process.cpus"])
}

func TestApp_LoadFailureIsFatal(t *testing.T) {
	cfg, err := NewConfig(Config{
		ConfigPath: filepath.Join(t.TempDir(), "missing.config"),
		LogLevel:   "error",
	})
	require.NoError(t, err)

	var out, logs bytes.Buffer
	_, err = NewApp(&out, &logs, cfg, fragment.NewLoader())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestNewConfig_Validation(t *testing.T) {
	_, err := NewConfig(Config{})
	require.Error(t, err)

	cfg, err := NewConfig(Config{ConfigPath: "p.config"})
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Attempt, "attempt defaults to 1")

	_, err = NewConfig(Config{ConfigPath: "p.config", Attempt: -2})
	require.Error(t, err)
}
