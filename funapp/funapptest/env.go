package funapptest

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// Env provides a chainable builder for setting funapp env vars
// via t.Setenv. Create one with [SetBaseEnv].
type Env struct {
	t testing.TB
}

// SetBaseEnv sets the funapp env vars to test defaults.
// Port is required because each test must use a unique port to avoid collisions.
//
// Defaults:
//   - FUN_LISTEN: "localhost:<port>"
//   - FUN_SERVICE_NAME: "test"
//   - FUN_OTEL_EXPORTER: "none"
//   - FUN_LOG_LEVEL: "error"
//   - FUN_CONFIG_FILE: ""
//   - FUN_RADIUS: ""
//   - FUN_H2C: "false"
func SetBaseEnv(t testing.TB, port int) *Env {
	t.Helper()
	t.Setenv("FUN_LISTEN", "localhost:"+strconv.Itoa(port))
	t.Setenv("FUN_SERVICE_NAME", "test")
	t.Setenv("FUN_OTEL_EXPORTER", "none")
	t.Setenv("FUN_LOG_LEVEL", "error")
	t.Setenv("FUN_CONFIG_FILE", "")
	t.Setenv("FUN_H2C", "false")
	unsetenv(t, "FUN_RADIUS")
	return &Env{t: t}
}

// Radius sets FUN_RADIUS.
func (e *Env) Radius(r int) *Env {
	e.t.Helper()
	e.t.Setenv("FUN_RADIUS", strconv.Itoa(r))
	return e
}

// H2C overrides FUN_H2C.
func (e *Env) H2C(enabled bool) *Env {
	e.t.Helper()
	e.t.Setenv("FUN_H2C", strconv.FormatBool(enabled))
	return e
}

// BufferLimit overrides FUN_BUFFER_LIMIT.
func (e *Env) BufferLimit(n int) *Env {
	e.t.Helper()
	e.t.Setenv("FUN_BUFFER_LIMIT", strconv.Itoa(n))
	return e
}

// ConfigFile writes the yaml to a temporary file and points FUN_CONFIG_FILE at it.
func (e *Env) ConfigFile(yaml string) *Env {
	e.t.Helper()

	path := filepath.Join(e.t.TempDir(), "fun.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		e.t.Fatalf("funapptest: write config file: %v", err)
	}

	e.t.Setenv("FUN_CONFIG_FILE", path)
	return e
}

// unsetenv removes the variable for the duration of the test.
func unsetenv(t testing.TB, key string) {
	t.Helper()
	t.Setenv(key, "") // registers the restore

	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("funapptest: unset %s: %v", key, err)
	}
}
