package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_ResolvesConfig(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	configSrc := `
		process {
			memory = '2GB'
		}
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.config")
	err := os.WriteFile(filePath, []byte(configSrc), 0600)
	require.NoError(t, err, "failed to set up test file")

	args := []string{"-log-level", "error", filePath}
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	// --- Act ---
	runErr := run(out, logs, args)

	// --- Assert ---
	require.NoError(t, runErr)
	require.Contains(t, out.String(), "process.memory = 2GB")
}

func TestRun_LoadErrorIsReturned(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A fragment with a syntax error must fail the load, not resolve partially.
	invalidSrc := `
		process {
			memory =
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.config")
	err := os.WriteFile(filePath, []byte(invalidSrc), 0600)
	require.NoError(t, err, "failed to set up test file")

	args := []string{filePath}
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	// --- Act ---
	runErr := run(out, logs, args)

	// --- Assert ---
	require.Error(t, runErr, "run() should return the fatal load error")
	require.Contains(t, runErr.Error(), "failed to load configuration")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	// --- Act ---
	err := run(out, logs, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Providing an unknown flag will cause cli.Parse to return an error.
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	// --- Act ---
	err := run(out, logs, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}
