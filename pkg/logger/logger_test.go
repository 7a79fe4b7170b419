package logger

import "testing"

func TestNewDefaultsOutputToStdout(t *testing.T) {
	l, err := New(&Config{Level: "info", Format: "console"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l == nil {
		t.Fatal("expected a usable logger")
	}
	l.Info("startup")
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(&Config{Level: "chatty", Output: "stdout"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
