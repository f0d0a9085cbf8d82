package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultPort    = 8787
	DefaultMCPPath = "/mcp"
)

// Config represents the main configuration for the journal server.
type Config struct {
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Timezone   string           `toml:"timezone"` // IANA name; "today" is computed here
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Log        LogConfig        `toml:"log"`
	Vaults     []VaultConfig    `toml:"vaults"`
	Encryption EncryptionConfig `toml:"encryption"`
}

// ServerConfig holds the HTTP transport settings.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	MCPPath        string   `toml:"mcp_path"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// DatabaseConfig represents configuration for the journal database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
	Path    string `toml:"path,omitempty"`     // overrides data_dir/journal.db
}

// LogConfig controls the log file rotation and verbosity.
type LogConfig struct {
	Level      string `toml:"level"` // debug, info, warn, error
	Console    bool   `toml:"console"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// EncryptionConfig holds paths to the age key pair used for backups.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default), "test" or "none"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// VaultConfig represents configuration for a backup destination.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type VaultConfig struct {
	Type string `toml:"type"` // "memory", "s3", or "filesystem"
	Name string `toml:"name"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket string `toml:"s3_bucket,omitempty"`
	S3Prefix string `toml:"s3_prefix,omitempty"`
	S3Region string `toml:"s3_region,omitempty"`
	// S3Endpoint points at an S3-compatible service such as MinIO; it
	// switches to path-style addressing.
	S3Endpoint string `toml:"s3_endpoint,omitempty"`
	// Static credentials; when empty the default AWS credential chain is used.
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSVaultRoot string `toml:"fs_vault_root,omitempty"`
}

// NewConfig creates a Config with defaults rooted at baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		Timezone: "UTC",
		Server: ServerConfig{
			Addr:           fmt.Sprintf(":%d", DefaultPort),
			MCPPath:        DefaultMCPPath,
			AllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "data"),
		},
		Log: LogConfig{
			Level:      "info",
			Console:    true,
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
		Encryption: EncryptionConfig{
			Type:           "age",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "journal.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "journal.key"),
		},
	}
}

// DatabasePath returns the SQLite file to open, or ":memory:".
func (c *Config) DatabasePath() (string, error) {
	switch c.Database.Type {
	case "memory":
		return ":memory:", nil
	case "sqlite", "":
		if c.Database.Path != "" {
			return c.Database.Path, nil
		}
		if c.Database.DataDir == "" {
			return "", fmt.Errorf("data_dir or path required for sqlite database")
		}
		return filepath.Join(c.Database.DataDir, "journal.db"), nil
	default:
		return "", fmt.Errorf("unknown database type: %s", c.Database.Type)
	}
}

// Location loads the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader. Keys missing from the
// input keep the values already in base; a nil base starts from zero values.
func (m *Manager) Read(r io.Reader, base *Config) (*Config, error) {
	cfg := base
	if cfg == nil {
		cfg = &Config{}
	}
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	return readFromFile(path, nil)
}

func readFromFile(path string, base *Config) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f, base)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Load builds the effective config: defaults for baseDir, then the file at
// path if it exists, then environment overrides from getenv.
func Load(path, baseDir string, getenv func(string) string) (*Config, error) {
	cfg := NewConfig(baseDir)
	if path != "" {
		loaded, err := readFromFile(path, cfg)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		if err == nil {
			cfg = loaded
		}
	}
	if err := ApplyEnv(cfg, getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides config values from the environment:
//   - PORT: listen on ":PORT"
//   - JOURNAL_ADDR: full listen address, wins over PORT
//   - DB_PATH: SQLite file path
//   - LOG_LEVEL: log level
//   - JOURNAL_TIMEZONE: time zone for "today"
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Server.Addr = fmt.Sprintf(":%d", port)
	}
	envOverride(getenv, &cfg.Server.Addr, "JOURNAL_ADDR")
	if v := getenv("DB_PATH"); v != "" {
		cfg.Database.Type = "sqlite"
		cfg.Database.Path = v
	}
	envOverride(getenv, &cfg.Log.Level, "LOG_LEVEL")
	envOverride(getenv, &cfg.Timezone, "JOURNAL_TIMEZONE")
	return nil
}

func envOverride(getenv func(string) string, dst *string, key string) {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		*dst = v
	}
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
