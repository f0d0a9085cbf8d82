package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_ReadWrite(t *testing.T) {
	original := NewConfig("/home/user/.local/share/journal")
	original.Timezone = "Asia/Tokyo"
	original.Server.AllowedOrigins = []string{"https://chat.example.com"}
	original.Vaults = []VaultConfig{
		{Type: "filesystem", Name: "local", FSVaultRoot: "/backup/vault"},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf, nil)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.Timezone != "Asia/Tokyo" {
		t.Errorf("Timezone = %q, want %q", got.Timezone, "Asia/Tokyo")
	}
	if got.Server.Addr != ":8787" {
		t.Errorf("Server.Addr = %q, want %q", got.Server.Addr, ":8787")
	}
	if len(got.Server.AllowedOrigins) != 1 || got.Server.AllowedOrigins[0] != "https://chat.example.com" {
		t.Errorf("Server.AllowedOrigins = %v", got.Server.AllowedOrigins)
	}
	if len(got.Vaults) != 1 || got.Vaults[0].FSVaultRoot != "/backup/vault" {
		t.Fatalf("Vaults = %+v", got.Vaults)
	}
	if !got.Log.Console {
		t.Error("Log.Console = false, want true")
	}
}

func TestManager_Read_KeepsBaseValues(t *testing.T) {
	base := NewConfig("/data/journal")
	input := strings.NewReader(`
timezone = "Europe/Berlin"

[log]
level = "debug"
`)

	got, err := (&Manager{}).Read(input, base)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.Timezone != "Europe/Berlin" {
		t.Errorf("Timezone = %q, want Europe/Berlin", got.Timezone)
	}
	if got.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", got.Log.Level)
	}
	if got.Log.MaxSizeMB != 100 {
		t.Errorf("Log.MaxSizeMB = %d, want default 100", got.Log.MaxSizeMB)
	}
	if got.Server.MCPPath != DefaultMCPPath {
		t.Errorf("Server.MCPPath = %q, want %q", got.Server.MCPPath, DefaultMCPPath)
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/data/journal")

	if cfg.LogDir != "/data/journal/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/journal/log")
	}
	if cfg.Database.DataDir != "/data/journal/data" {
		t.Errorf("Database.DataDir = %q, want %q", cfg.Database.DataDir, "/data/journal/data")
	}
	if cfg.Encryption.PublicKeyPath != "/data/journal/keys/journal.pub" {
		t.Errorf("Encryption.PublicKeyPath = %q", cfg.Encryption.PublicKeyPath)
	}
	if cfg.Server.MCPPath != "/mcp" {
		t.Errorf("Server.MCPPath = %q, want /mcp", cfg.Server.MCPPath)
	}
}

func TestConfig_DatabasePath(t *testing.T) {
	tests := []struct {
		name    string
		db      DatabaseConfig
		want    string
		wantErr bool
	}{
		{name: "memory", db: DatabaseConfig{Type: "memory"}, want: ":memory:"},
		{name: "data dir", db: DatabaseConfig{Type: "sqlite", DataDir: "/d"}, want: "/d/journal.db"},
		{name: "explicit path wins", db: DatabaseConfig{Type: "sqlite", DataDir: "/d", Path: "/x/j.sqlite"}, want: "/x/j.sqlite"},
		{name: "missing dir", db: DatabaseConfig{Type: "sqlite"}, wantErr: true},
		{name: "unknown type", db: DatabaseConfig{Type: "postgres"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Database: tt.db}
			got, err := cfg.DatabasePath()
			if (err != nil) != tt.wantErr {
				t.Fatalf("DatabasePath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("DatabasePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfig_Location(t *testing.T) {
	cfg := &Config{Timezone: "Asia/Tokyo"}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location() error = %v", err)
	}
	if loc.String() != "Asia/Tokyo" {
		t.Errorf("Location() = %v, want Asia/Tokyo", loc)
	}

	cfg.Timezone = "Nowhere/Special"
	if _, err := cfg.Location(); err == nil {
		t.Error("Location() expected error for unknown zone")
	}
}

func TestApplyEnv(t *testing.T) {
	env := func(vals map[string]string) func(string) string {
		return func(k string) string { return vals[k] }
	}

	t.Run("port", func(t *testing.T) {
		cfg := NewConfig("/d")
		if err := ApplyEnv(cfg, env(map[string]string{"PORT": "9000"})); err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}
		if cfg.Server.Addr != ":9000" {
			t.Errorf("Server.Addr = %q, want :9000", cfg.Server.Addr)
		}
	})

	t.Run("address wins over port", func(t *testing.T) {
		cfg := NewConfig("/d")
		err := ApplyEnv(cfg, env(map[string]string{"PORT": "9000", "JOURNAL_ADDR": "127.0.0.1:7000"}))
		if err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}
		if cfg.Server.Addr != "127.0.0.1:7000" {
			t.Errorf("Server.Addr = %q, want 127.0.0.1:7000", cfg.Server.Addr)
		}
	})

	t.Run("db path forces sqlite", func(t *testing.T) {
		cfg := NewConfig("/d")
		cfg.Database.Type = "memory"
		if err := ApplyEnv(cfg, env(map[string]string{"DB_PATH": "/tmp/j.db"})); err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}
		path, err := cfg.DatabasePath()
		if err != nil {
			t.Fatalf("DatabasePath() error = %v", err)
		}
		if path != "/tmp/j.db" {
			t.Errorf("DatabasePath() = %q, want /tmp/j.db", path)
		}
	})

	t.Run("level and timezone", func(t *testing.T) {
		cfg := NewConfig("/d")
		err := ApplyEnv(cfg, env(map[string]string{"LOG_LEVEL": "warn", "JOURNAL_TIMEZONE": "Asia/Tokyo"}))
		if err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}
		if cfg.Log.Level != "warn" || cfg.Timezone != "Asia/Tokyo" {
			t.Errorf("Log.Level = %q, Timezone = %q", cfg.Log.Level, cfg.Timezone)
		}
	})

	t.Run("bad port", func(t *testing.T) {
		cfg := NewConfig("/d")
		if err := ApplyEnv(cfg, env(map[string]string{"PORT": "eighty"})); err == nil {
			t.Error("ApplyEnv() expected error for non-numeric PORT")
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		dir := t.TempDir()
		cfg, err := Load(filepath.Join(dir, "absent.toml"), dir, func(string) string { return "" })
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Server.Addr != ":8787" {
			t.Errorf("Server.Addr = %q, want :8787", cfg.Server.Addr)
		}
	})

	t.Run("file then env", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "journal.toml")
		content := "timezone = \"Asia/Tokyo\"\n[server]\naddr = \":1234\"\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		cfg, err := Load(path, dir, func(k string) string {
			if k == "LOG_LEVEL" {
				return "debug"
			}
			return ""
		})
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Timezone != "Asia/Tokyo" || cfg.Server.Addr != ":1234" || cfg.Log.Level != "debug" {
			t.Errorf("Load() = timezone %q addr %q level %q", cfg.Timezone, cfg.Server.Addr, cfg.Log.Level)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "journal.toml")
		if err := os.WriteFile(path, []byte("timezone = "), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		if _, err := Load(path, dir, nil); err == nil {
			t.Error("Load() expected error for malformed file")
		}
	})
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "journal.toml")

		if err := Init(path, NewConfig(dir)); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "journal.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}
		if err := Init(path, cfg); err == nil {
			t.Error("second Init() expected error, got nil")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.toml")
	if err := Init(path, NewConfig(dir)); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	cfg, err := ReadFromFile(path)
	if err != nil {
		t.Fatalf("ReadFromFile() error = %v", err)
	}
	if cfg.BaseDir != dir {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, dir)
	}

	if _, err := ReadFromFile(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("ReadFromFile() expected error for missing file")
	}
}
