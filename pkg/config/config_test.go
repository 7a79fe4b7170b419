package config

import (
	"os"
	"path/filepath"
	"testing"
)

const minimalYAML = `
environment: development
server:
  port: 8080
fmp:
  api_key: fk
openai:
  api_key: ok
backend:
  type: none
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadWithEnvPortOverride(t *testing.T) {
	path := writeConfig(t, minimalYAML)

	t.Setenv("PORT", "9090")
	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Server.Port != 9090 {
		t.Fatalf("expected PORT override, got %d", c.Server.Port)
	}
}

func TestLoadWithEnvKeepsYAMLPortWithoutEnv(t *testing.T) {
	path := writeConfig(t, minimalYAML)

	t.Setenv("PORT", "")
	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Server.Port != 8080 {
		t.Fatalf("expected yaml port, got %d", c.Server.Port)
	}
}
