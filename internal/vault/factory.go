package vault

import (
	"context"
	"fmt"

	"journal-coach/internal/backup"
	"journal-coach/internal/config"
)

// NewVaultFromConfig creates a Vault implementation based on the vault config type.
func NewVaultFromConfig(ctx context.Context, cfg config.VaultConfig) (backup.Vault, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryVault(cfg.Name), nil
	case "s3":
		return NewS3Vault(ctx, cfg)
	case "filesystem":
		if cfg.FSVaultRoot == "" {
			return nil, fmt.Errorf("filesystem vault requires fs_vault_root to be set")
		}
		return NewFileSystemVault(cfg.Name, cfg.FSVaultRoot)
	default:
		return nil, fmt.Errorf("unknown vault type: %s", cfg.Type)
	}
}

// Select returns the vault called name, or the first configured vault when
// name is empty.
func Select(vaults []config.VaultConfig, name string) (config.VaultConfig, error) {
	if len(vaults) == 0 {
		return config.VaultConfig{}, fmt.Errorf("no vaults configured: add a [[vaults]] section to the config file")
	}
	if name == "" {
		return vaults[0], nil
	}
	for _, v := range vaults {
		if v.Name == name {
			return v, nil
		}
	}
	return config.VaultConfig{}, fmt.Errorf("vault %q not found in config", name)
}
