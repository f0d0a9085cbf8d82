package testutil

import (
	"journal-coach/internal/backup"
	"journal-coach/internal/encryption"
	"journal-coach/internal/vault"
)

// NewTestVault creates a new in-memory vault for testing.
func NewTestVault() *vault.MemoryVault {
	return vault.NewMemoryVault("test-vault")
}

// NewTestEncryptor returns a deterministic encryptor that needs no keys.
func NewTestEncryptor() backup.Encryptor {
	return encryption.NewMarkerEncryptor()
}
