package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Storage.Driver != DriverSQLite || cfg.Storage.SQLitePath != "pitak.db" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Audit.BufferSize != 64 || cfg.Audit.RetrySchedule != "*/5 * * * *" {
		t.Errorf("audit = %+v", cfg.Audit)
	}
	if cfg.Sheets.Enabled() {
		t.Error("sheets mirror should be disabled by default")
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	envFile := filepath.Join(dir, "test.env")
	content := "APP_PORT=9100\nSTORAGE_DRIVER=mongodb\nMONGODB_DB_NAME=fields\nAUDIT_BUFFER_SIZE=8\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		for _, key := range []string{"APP_PORT", "STORAGE_DRIVER", "MONGODB_DB_NAME", "AUDIT_BUFFER_SIZE"} {
			os.Unsetenv(key)
		}
	})

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	if cfg.Server.Port != "9100" || cfg.Storage.Driver != DriverMongoDB || cfg.MongoDB.DBName != "fields" || cfg.Audit.BufferSize != 8 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"driver":       {"STORAGE_DRIVER": "postgres"},
		"buffer":       {"AUDIT_BUFFER_SIZE": "lots"},
		"buffer zero":  {"AUDIT_BUFFER_SIZE": "0"},
		"sheets alone": {"GOOGLE_SHEET_DATABASE_ID": "sheet-1"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(""); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestValidateNil(t *testing.T) {
	var cfg *Config
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "nil") {
		t.Fatalf("err = %v", err)
	}
}
