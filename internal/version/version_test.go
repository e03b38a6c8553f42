package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldVersion, oldCommit, oldDate })

	Version, Commit, Date = "1.2.3", "unknown", "unknown"
	if got := String(); !strings.HasPrefix(got, "sett version 1.2.3 (") {
		t.Errorf("String() = %q", got)
	}

	Commit, Date = "0123456789abcdef", "2026-01-01T00:00:00Z"
	if got := String(); !strings.Contains(got, "commit: 01234567,") {
		t.Errorf("String() = %q, want short commit", got)
	}

	Commit = "abc"
	if got := String(); !strings.Contains(got, "commit: abc,") {
		t.Errorf("String() = %q, want short commit kept", got)
	}
}

func TestUserAgent(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "0.9.0"
	if got := UserAgent(); got != "sett/0.9.0" {
		t.Errorf("UserAgent() = %q", got)
	}
}
