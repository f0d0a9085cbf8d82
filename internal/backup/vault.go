package backup

import (
	"context"
	"io"
	"time"
)

// Object describes one snapshot stored in a vault.
type Object struct {
	Name       string
	Size       int64
	ModifiedAt time.Time
}

// Vault provides an interface for backup storage backends.
// All operations stream through io.Reader/io.Writer so snapshots are never
// held in memory by the caller.
type Vault interface {
	// Name identifies the vault in logs and run records.
	Name() string

	// Put stores a snapshot under name, replacing any previous object.
	// size is the number of bytes that will be read from r.
	Put(ctx context.Context, name string, r io.Reader, size int64) error

	// Get retrieves the snapshot stored under name and writes it to w.
	Get(ctx context.Context, name string, w io.Writer) error

	// List returns every stored snapshot, newest first.
	List(ctx context.Context) ([]Object, error)

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup(ctx context.Context) error
}
