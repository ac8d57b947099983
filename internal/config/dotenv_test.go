package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotEnv_LoadsValuesAndIgnoresNoise(t *testing.T) {
	t.Setenv("DB_PATH", "")
	t.Setenv("PORT", "")
	t.Setenv("SHOP_TOKEN", "")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := []byte(`
# local development values

DB_PATH=./cycletime.db
export PORT=9090
SHOP_TOKEN="taller-123"
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("DB_PATH"); got != "./cycletime.db" {
		t.Fatalf("DB_PATH=%q, want %q", got, "./cycletime.db")
	}
	if got := os.Getenv("PORT"); got != "9090" {
		t.Fatalf("PORT=%q, want %q", got, "9090")
	}
	if got := os.Getenv("SHOP_TOKEN"); got != "taller-123" {
		t.Fatalf("SHOP_TOKEN=%q, want %q", got, "taller-123")
	}
}

func TestLoadDotEnv_DoesNotOverwriteExistingEnv(t *testing.T) {
	t.Setenv("DB_PATH", "/var/lib/cycletime/prod.db")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("DB_PATH=./dev.db\n"), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("DB_PATH"); got != "/var/lib/cycletime/prod.db" {
		t.Fatalf("DB_PATH=%q, want %q", got, "/var/lib/cycletime/prod.db")
	}
}

func TestLoadDotEnv_StripsSingleQuotes(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("TOKEN_SECRET='clave con espacios'\n"), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("TOKEN_SECRET"); got != "clave con espacios" {
		t.Fatalf("TOKEN_SECRET=%q, want %q", got, "clave con espacios")
	}
}
