package testutil

import (
	"os"
	"testing"
)

// SetTestEnvironment forces GO_ENV=test for the current process. Call it
// from TestMain before m.Run so every test in the package runs guarded.
func SetTestEnvironment() {
	os.Setenv("GO_ENV", "test")
}

// RequireTestEnvironment fails the test immediately unless GO_ENV is
// "test". Handler tests open their own in-memory database, but this
// guard keeps a stray configuration from ever pointing them at a real
// MySQL instance.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: tests must run with GO_ENV=test. Current GO_ENV=%q.", env)
	}
}

// RequireTestEnvironmentOrSkip skips instead of failing. Use it for
// optional tests that touch external services.
func RequireTestEnvironmentOrSkip(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Skipf("Skipping test: GO_ENV must be 'test' (current: %q)", env)
	}
}
