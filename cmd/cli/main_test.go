package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/stepsolver/internal/cli"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestRun_OsFs(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	system := `
parameters {
  r = 2
}

equation {
  left  = "area"
  right = "r * r * 3"
}
`
	require.NoError(t, os.WriteFile(filePath, []byte(system), 0600))
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, errOut, []string{filePath}, afero.NewOsFs())

	// --- Assert ---
	require.NoError(t, err, errOut.String())
	require.Equal(t, "area = 12\nr = 2\n", out.String())
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-h"}, afero.NewMemMapFs())

	require.NoError(t, err, "run() should return a nil error for help")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"}, afero.NewMemMapFs())

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, cli.ExitUsage, exitErr.Code)
	require.Contains(t, exitErr.Message, "unknown flag: --this-is-not-a-valid-flag")
}

func TestRun_SyntaxError(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte("equation {\n  left = \"a\"\n"), 0600))

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{filePath}, afero.NewOsFs())

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, cli.ExitFailure, exitErr.Code)
	require.Contains(t, exitErr.Message, "failed to parse HCL file")
}
