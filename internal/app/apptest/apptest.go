// Package apptest builds throwaway rasa configurations for command tests.
package apptest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshsymonds/rasa/internal/app"
)

const baseConfig = `data_dir: %q
log:
  level: error
  format: text
analysis:
  step_delay: 0s
  max_files: 2
ui:
  alt_screen: false
  markdown_style: notty
`

// Options writes a config rooted in a temporary data directory and returns
// global options pointing at it. extra is appended to the YAML verbatim.
func Options(t *testing.T, extra string) *app.Options {
	t.Helper()

	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	content := []byte(fmt.Sprintf(baseConfig, dataDir) + extra)

	path := filepath.Join(dir, "rasa.yaml")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	return &app.Options{ConfigPath: path}
}

// New builds an App from opts and closes it when the test ends.
func New(t *testing.T, opts *app.Options) *app.App {
	t.Helper()

	a, err := app.New(*opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// LoggedIn returns options whose data directory already holds an admin
// session.
func LoggedIn(t *testing.T, extra string) *app.Options {
	t.Helper()

	opts := Options(t, extra)
	a := New(t, opts)
	_, err := a.Sessions.Login("Admin", "Admin123")
	require.NoError(t, err)
	return opts
}
