package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"journal-coach/internal/database"
	"journal-coach/internal/journal"
)

// Run statuses recorded in the backup_runs table.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusError   = "error"
)

// SnapshotPrefix starts every snapshot name written by Backup.
const SnapshotPrefix = "journal-"

// Database is the part of the store the backup service needs.
type Database interface {
	BackupTo(ctx context.Context, destPath string) error
	CreateBackupRun(ctx context.Context, operation, parameters string) (*database.BackupRun, error)
	FinishBackupRun(ctx context.Context, id int64, status string) error
	ListBackupRuns(ctx context.Context, limit int) ([]*database.BackupRun, error)
}

// Service snapshots the journal database into a vault and restores it.
type Service struct {
	db        Database
	vault     Vault
	encryptor Encryptor
	logger    journal.Logger
	clock     journal.Clock
	idgen     IDGenerator
}

// NewService creates a new Service with the provided dependencies.
func NewService(db Database, vault Vault, encryptor Encryptor, logger journal.Logger, clock journal.Clock, idgen IDGenerator) *Service {
	return &Service{
		db:        db,
		vault:     vault,
		encryptor: encryptor,
		logger:    logger,
		clock:     clock,
		idgen:     idgen,
	}
}

// Backup copies the live database, encrypts the copy and uploads it.
// The run is recorded whether or not it succeeds.
func (s *Service) Backup(ctx context.Context) (*Object, error) {
	if !s.encryptor.IsConfigured() {
		return nil, fmt.Errorf("encryption keys not found: run `journal keys init` first")
	}

	run, err := s.db.CreateBackupRun(ctx, "backup", "vault="+s.vault.Name())
	if err != nil {
		return nil, err
	}

	obj, err := s.backup(ctx)
	s.finish(ctx, run.ID, err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("backup uploaded", "vault", s.vault.Name(), "name", obj.Name, "size", obj.Size)
	return obj, nil
}

func (s *Service) backup(ctx context.Context) (*Object, error) {
	tmpDir, err := os.MkdirTemp("", "journal-backup-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	plainPath := filepath.Join(tmpDir, "journal.db")
	if err := s.db.BackupTo(ctx, plainPath); err != nil {
		return nil, err
	}

	sealedPath := plainPath + s.encryptor.Extension()
	if err := s.encryptFile(plainPath, sealedPath); err != nil {
		return nil, err
	}

	f, err := os.Open(sealedPath)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat snapshot: %w", err)
	}

	now := s.clock.Now().UTC()
	name := fmt.Sprintf("%s%s-%s.db%s", SnapshotPrefix, now.Format("20060102T150405Z"), shortID(s.idgen.New()), s.encryptor.Extension())
	if err := s.vault.Put(ctx, name, f, info.Size()); err != nil {
		return nil, fmt.Errorf("uploading snapshot: %w", err)
	}

	return &Object{Name: name, Size: info.Size(), ModifiedAt: now}, nil
}

func (s *Service) encryptFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("creating encrypted snapshot: %w", err)
	}

	if err := s.encryptor.Encrypt(in, out); err != nil {
		out.Close()
		return fmt.Errorf("encrypting snapshot: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing encrypted snapshot: %w", err)
	}
	return nil
}

// List returns the snapshots stored in the vault, newest first.
func (s *Service) List(ctx context.Context) ([]Object, error) {
	objs, err := s.vault.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing vault %s: %w", s.vault.Name(), err)
	}
	return objs, nil
}

// History returns the most recent backup and restore runs.
func (s *Service) History(ctx context.Context, limit int) ([]*database.BackupRun, error) {
	return s.db.ListBackupRuns(ctx, limit)
}

// Restore downloads the snapshot called name, decrypts it with dec and
// writes the database to outputPath. An existing file at outputPath is never
// overwritten; the live database is never touched.
func (s *Service) Restore(ctx context.Context, name, outputPath string, dec DecryptionContext) error {
	if name == "" || filepath.Base(name) != name {
		return fmt.Errorf("invalid snapshot name %q", name)
	}
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("output %s already exists", outputPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking output path: %w", err)
	}

	run, err := s.db.CreateBackupRun(ctx, "restore", "name="+name)
	if err != nil {
		return err
	}

	err = s.restore(ctx, name, outputPath, dec)
	s.finish(ctx, run.ID, err)
	if err != nil {
		return err
	}

	s.logger.Info("snapshot restored", "name", name, "output", outputPath)
	return nil
}

func (s *Service) restore(ctx context.Context, name, outputPath string, dec DecryptionContext) error {
	sealed, err := os.CreateTemp("", "journal-restore-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(sealed.Name())
	defer sealed.Close()

	if err := s.vault.Get(ctx, name, sealed); err != nil {
		return fmt.Errorf("downloading snapshot: %w", err)
	}
	if _, err := sealed.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	out, err := os.CreateTemp(filepath.Dir(outputPath), ".restore-*")
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	tmpPath := out.Name()
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if err := dec.Decrypt(sealed, out); err != nil {
		out.Close()
		return fmt.Errorf("decrypting snapshot: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		return fmt.Errorf("moving restored database into place: %w", err)
	}

	success = true
	return nil
}

// finish records the outcome of a run. A failure to record is only logged.
func (s *Service) finish(ctx context.Context, id int64, runErr error) {
	status := StatusSuccess
	if runErr != nil {
		status = StatusError
		s.logger.Error("backup run failed", "run", id, "error", runErr)
	}
	if err := s.db.FinishBackupRun(context.WithoutCancel(ctx), id, status); err != nil {
		s.logger.Warn("could not record backup run", "run", id, "error", err)
	}
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
