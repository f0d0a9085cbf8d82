package vault

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"journal-coach/internal/backup"
)

// MemoryVault is an in-memory implementation of the Vault interface.
// It is useful for testing and is safe for concurrent use.
type MemoryVault struct {
	name    string
	mu      sync.RWMutex
	objects map[string]memoryObject
	now     func() time.Time
}

type memoryObject struct {
	data       []byte
	modifiedAt time.Time
}

// NewMemoryVault creates a new in-memory vault with the given name.
func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{
		name:    name,
		objects: make(map[string]memoryObject),
		now:     time.Now,
	}
}

func (m *MemoryVault) Name() string { return m.name }

// Put stores a snapshot, replacing any previous object with the same name.
func (m *MemoryVault) Put(_ context.Context, name string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects[name] = memoryObject{data: data, modifiedAt: m.now()}
	return nil
}

// Get writes the snapshot called name to w.
func (m *MemoryVault) Get(_ context.Context, name string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if _, err := io.Copy(w, bytes.NewReader(obj.data)); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// List returns all stored snapshots, newest first.
func (m *MemoryVault) List(_ context.Context) ([]backup.Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	objs := make([]backup.Object, 0, len(m.objects))
	for name, obj := range m.objects {
		objs = append(objs, backup.Object{Name: name, Size: int64(len(obj.data)), ModifiedAt: obj.modifiedAt})
	}
	sortNewestFirst(objs)
	return objs, nil
}

// ValidateSetup always succeeds for in-memory vault.
func (m *MemoryVault) ValidateSetup(context.Context) error {
	return nil
}

// Compile-time check that MemoryVault implements backup.Vault interface
var _ backup.Vault = (*MemoryVault)(nil)
