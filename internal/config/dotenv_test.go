package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotEnv_KeepsExistingValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("PINGPONG_DOTENV_NEW=from-file\nPINGPONG_DOTENV_SET=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("PINGPONG_DOTENV_SET", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("PINGPONG_DOTENV_NEW") })

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	if got := os.Getenv("PINGPONG_DOTENV_NEW"); got != "from-file" {
		t.Fatalf("expected value from file, got %q", got)
	}
	if got := os.Getenv("PINGPONG_DOTENV_SET"); got != "from-env" {
		t.Fatalf("expected existing value kept, got %q", got)
	}
}
