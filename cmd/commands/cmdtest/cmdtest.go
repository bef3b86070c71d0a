// Package cmdtest sets up an isolated environment for command tests.
package cmdtest

import (
	"bytes"
	"path/filepath"
	"testing"

	"nathanbeddoewebdev/skyglass/internal/config"
	"nathanbeddoewebdev/skyglass/internal/database"
	"nathanbeddoewebdev/skyglass/internal/logging"
	"nathanbeddoewebdev/skyglass/internal/providers"

	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"
)

// Setup points config, history and cache at temp locations, swaps the
// keyring for an in-memory mock and registers the built-in providers.
// It returns the config path.
func Setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	path := filepath.Join(dir, "config.json")
	config.SetPath(path)
	t.Cleanup(config.ResetPath)

	database.SetPath(filepath.Join(dir, "state.db"))
	t.Cleanup(database.ResetPath)

	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	keyring.MockInit()

	providers.Reset()
	providers.RegisterDefaults()
	t.Cleanup(providers.Reset)

	logging.Discard()
	return path
}

// Exec runs cmd with args and returns what it wrote to stdout and stderr
// along with the error from Execute.
func Exec(t *testing.T, cmd *cobra.Command, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}
