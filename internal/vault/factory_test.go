package vault

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"journal-coach/internal/config"
)

func TestNewVaultFromConfig(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     config.VaultConfig
		want    string
		wantErr bool
	}{
		{name: "memory", cfg: config.VaultConfig{Type: "memory", Name: "m"}, want: "*vault.MemoryVault"},
		{name: "filesystem", cfg: config.VaultConfig{Type: "filesystem", Name: "fs", FSVaultRoot: filepath.Join(t.TempDir(), "v")}, want: "*vault.FileSystemVault"},
		{name: "filesystem without root", cfg: config.VaultConfig{Type: "filesystem", Name: "fs"}, wantErr: true},
		{name: "s3 without bucket", cfg: config.VaultConfig{Type: "s3", Name: "s3"}, wantErr: true},
		{name: "s3", cfg: config.VaultConfig{Type: "s3", Name: "s3", S3Bucket: "b", S3Region: "us-east-1", S3AccessKeyID: "id", S3SecretAccessKey: "secret"}, want: "*vault.S3Vault"},
		{name: "unknown", cfg: config.VaultConfig{Type: "ftp"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewVaultFromConfig(ctx, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewVaultFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := typeName(v); got != tt.want {
				t.Errorf("NewVaultFromConfig() type = %s, want %s", got, tt.want)
			}
			if v.Name() != tt.cfg.Name {
				t.Errorf("Name() = %q, want %q", v.Name(), tt.cfg.Name)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	vaults := []config.VaultConfig{{Name: "local"}, {Name: "offsite"}}

	if got, err := Select(vaults, ""); err != nil || got.Name != "local" {
		t.Errorf("Select(\"\") = %q, %v; want local", got.Name, err)
	}
	if got, err := Select(vaults, "offsite"); err != nil || got.Name != "offsite" {
		t.Errorf("Select(offsite) = %q, %v", got.Name, err)
	}
	if _, err := Select(vaults, "nope"); err == nil {
		t.Error("Select(nope) expected error")
	}
	if _, err := Select(nil, ""); err == nil {
		t.Error("Select() with no vaults expected error")
	}
}

func TestNormalizePrefix(t *testing.T) {
	tests := map[string]string{
		"":          "",
		"/":         "",
		"backups":   "backups/",
		"/backups/": "backups/",
		"a//b/":     "a/b/",
	}
	for in, want := range tests {
		if got := normalizePrefix(in); got != want {
			t.Errorf("normalizePrefix(%q) = %q, want %q", in, got, want)
		}
	}
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
