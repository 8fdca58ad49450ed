package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := NewConfigError("metrics-addr", "must be host:port")

	want := "config error in metrics-addr: must be host:port"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestCommandError(t *testing.T) {
	inner := fmt.Errorf("validation failed")
	err := NewCommandError("lint", inner)

	want := "command lint failed: validation failed"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if !errors.Is(err, inner) {
		t.Error("errors.Is() did not match the wrapped error")
	}
}
