package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/himanishpuri/DupeDNA/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DUPEDNA_DB_FOLDER", "DUPEDNA_OUTPUT_SCRIPT", "DUPEDNA_DESTINATION", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	t.Setenv("HOME", t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearEnv(t)

	cfg, resolved, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent")
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if cfg.Dedupe.Threshold != 90 {
		t.Fatalf("unexpected default threshold: %d", cfg.Dedupe.Threshold)
	}
	if cfg.Dedupe.Strategy != "earliest-creation" {
		t.Fatalf("unexpected default strategy: %q", cfg.Dedupe.Strategy)
	}
	if cfg.Output.Script != "move_duplicates.sh" {
		t.Fatalf("unexpected default script: %q", cfg.Output.Script)
	}
	if cfg.Catalog.CatalogFile != "digikam4.db" || cfg.Catalog.SimilarityFile != "similarity.db" {
		t.Fatalf("unexpected catalog files: %+v", cfg.Catalog)
	}
	if cfg.Catalog.DBFolder != "" {
		t.Fatalf("expected empty db folder, got %q", cfg.Catalog.DBFolder)
	}
	if err := cfg.RequireDBFolder(); err == nil {
		t.Fatal("expected RequireDBFolder to fail without a folder")
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "*" {
		t.Fatalf("unexpected origins: %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoadFileAndExpandPaths(t *testing.T) {
	clearEnv(t)
	home := os.Getenv("HOME")

	path := writeConfig(t, `
[catalog]
db_folder = "~/Pictures/digikam"

[dedupe]
threshold = 95
top = 50
strategy = "Largest-File"
destination = "~/dupes"
workers = 4

[output]
script = "/tmp/out.sh"
format = "JSON"

[server]
port = 9090
allowed_origins = ["http://localhost:3000", " "]

[logging]
level = "DEBUG"
`)

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Catalog.DBFolder != filepath.Join(home, "Pictures", "digikam") {
		t.Fatalf("unexpected db folder: %q", cfg.Catalog.DBFolder)
	}
	if cfg.Dedupe.Destination != filepath.Join(home, "dupes") {
		t.Fatalf("unexpected destination: %q", cfg.Dedupe.Destination)
	}
	if cfg.Dedupe.Strategy != "largest-file" {
		t.Fatalf("strategy not normalized: %q", cfg.Dedupe.Strategy)
	}
	if cfg.Dedupe.Threshold != 95 || cfg.Dedupe.Top != 50 || cfg.Dedupe.Workers != 4 {
		t.Fatalf("unexpected dedupe section: %+v", cfg.Dedupe)
	}
	if cfg.Output.Format != "json" {
		t.Fatalf("format not normalized: %q", cfg.Output.Format)
	}
	if cfg.Server.Port != 9090 || len(cfg.Server.AllowedOrigins) != 1 {
		t.Fatalf("unexpected server section: %+v", cfg.Server)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected log level: %q", cfg.Logging.Level)
	}
}

func TestRelativeDestinationIsKept(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[dedupe]\ndestination = \"quarantine/photos\"\n")

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Dedupe.Destination != "quarantine/photos" {
		t.Fatalf("destination should stay relative, got %q", cfg.Dedupe.Destination)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	folder := t.TempDir()
	t.Setenv("DUPEDNA_DB_FOLDER", folder)
	t.Setenv("DUPEDNA_OUTPUT_SCRIPT", "/tmp/from-env.sh")
	t.Setenv("DUPEDNA_DESTINATION", "/srv/env-dupes")
	t.Setenv("LOG_LEVEL", "warn")

	path := writeConfig(t, "[catalog]\ndb_folder = \"/nowhere\"\n[output]\nscript = \"file.sh\"\n")

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Catalog.DBFolder != folder {
		t.Fatalf("expected db folder from env, got %q", cfg.Catalog.DBFolder)
	}
	if cfg.Output.Script != "/tmp/from-env.sh" {
		t.Fatalf("expected script from env, got %q", cfg.Output.Script)
	}
	if cfg.Dedupe.Destination != "/srv/env-dupes" {
		t.Fatalf("expected destination from env, got %q", cfg.Dedupe.Destination)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected level from env, got %q", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"threshold", "[dedupe]\nthreshold = 150\n", "dedupe.threshold"},
		{"negative top", "[dedupe]\ntop = -1\n", "dedupe.top"},
		{"strategy", "[dedupe]\nstrategy = \"newest\"\n", "dedupe.strategy"},
		{"format", "[output]\nformat = \"xml\"\n", "output.format"},
		{"port", "[server]\nport = 70000\n", "server.port"},
		{"level", "[logging]\nlevel = \"loud\"\n", "logging.level"},
		{"unknown key", "[dedupe]\nthreshhold = 80\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := config.Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	if err := config.WriteDefault(path, false); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read written config: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("written config is not valid TOML: %v", err)
	}
	if decoded.Dedupe.Threshold != config.Default().Dedupe.Threshold {
		t.Fatalf("unexpected threshold after round trip: %d", decoded.Dedupe.Threshold)
	}

	if err := config.WriteDefault(path, false); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}
	if err := config.WriteDefault(path, true); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	const key = "DUPEDNA_DOTENV_TEST"
	t.Setenv(key, "")
	os.Unsetenv(key)

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte(key+"=from-dotenv\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	if err := config.LoadDotEnv(filepath.Join(dir, "absent.env"), envFile); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}
	if got := os.Getenv(key); got != "from-dotenv" {
		t.Fatalf("expected value from .env, got %q", got)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := config.ExpandPath("~/a/../b")
	if err != nil {
		t.Fatalf("ExpandPath failed: %v", err)
	}
	if got != filepath.Join(home, "b") {
		t.Fatalf("unexpected expansion: %q", got)
	}
	if got, _ := config.ExpandPath(""); got != "" {
		t.Fatalf("expected empty path to stay empty, got %q", got)
	}
}
