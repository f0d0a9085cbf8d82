package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths locates the config file and the data directory.
type Paths struct {
	ConfigFile string
	BaseDir    string // holds the database, keys, logs and the default local vault
}

// DefaultPaths resolves Paths from the environment. Lookup order, first hit wins:
//
//	config file: JOURNAL_CONFIG_PATH, $XDG_CONFIG_HOME/journal.toml, ~/.config/journal.toml
//	base dir:    JOURNAL_HOME, $XDG_DATA_HOME/journal, ~/.local/share/journal
//
// A nil getenv reads the process environment.
func DefaultPaths(getenv func(string) string) (Paths, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	configFile, err := resolvePath(getenv, "JOURNAL_CONFIG_PATH", "XDG_CONFIG_HOME", "journal.toml", ".config")
	if err != nil {
		return Paths{}, err
	}
	baseDir, err := resolvePath(getenv, "JOURNAL_HOME", "XDG_DATA_HOME", "journal", filepath.Join(".local", "share"))
	if err != nil {
		return Paths{}, err
	}
	return Paths{ConfigFile: configFile, BaseDir: baseDir}, nil
}

func resolvePath(getenv func(string) string, override, xdgVar, name, homeRel string) (string, error) {
	if v := getenv(override); v != "" {
		return v, nil
	}
	if v := getenv(xdgVar); v != "" && filepath.IsAbs(v) {
		return filepath.Join(v, name), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory (set %s): %w", override, err)
	}
	return filepath.Join(home, homeRel, name), nil
}
