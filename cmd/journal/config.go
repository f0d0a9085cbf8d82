package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"journal-coach/internal/app"
	"journal-coach/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := app.DefaultPaths(nil)
		if err != nil {
			return fmt.Errorf("failed to resolve paths: %w", err)
		}

		cfg := config.NewConfig(paths.BaseDir)
		cfg.Vaults = []config.VaultConfig{
			{Type: "filesystem", Name: "local", FSVaultRoot: filepath.Join(paths.BaseDir, "vault")},
		}

		if err := config.Init(paths.ConfigFile, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", paths.ConfigFile)
		fmt.Printf("Base Dir: %s\n", paths.BaseDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("# Configuration from %s with environment overrides\n\n", path)
		return (&config.Manager{}).Write(os.Stdout, cfg)
	},
}

var configVaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage vaults",
}

var configVaultCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that a vault is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultName, _ := cmd.Flags().GetString("vault")

		a, err := newApp("vault", app.SchemaSkip, os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close()

		name, err := a.CheckVault(cmd.Context(), vaultName)
		if err != nil {
			return err
		}
		fmt.Printf("Vault %s is ready\n", name)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configVaultCmd)
	configVaultCmd.AddCommand(configVaultCheckCmd)
	configVaultCheckCmd.Flags().String("vault", "", "Vault name (default: first configured)")
}
