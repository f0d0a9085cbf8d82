package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"journal-coach/internal/backup"
	"journal-coach/internal/config"
	"journal-coach/internal/database"
	"journal-coach/internal/database/migrations"
	"journal-coach/internal/encryption"
	"journal-coach/internal/journal"
	"journal-coach/internal/tools"
	"journal-coach/internal/transport"
	"journal-coach/internal/vault"
)

// SchemaMode controls what NewJournalApp does with the database schema.
type SchemaMode int

const (
	// SchemaCheck refuses to open a database whose schema is not current.
	SchemaCheck SchemaMode = iota
	// SchemaMigrate applies pending migrations on open.
	SchemaMigrate
	// SchemaSkip leaves the schema alone.
	SchemaSkip
)

// Options tune NewJournalApp. The zero value checks the schema, uses the
// wall clock and logs to the log file only.
type Options struct {
	// Component is written into every log line, e.g. "serve".
	Component string
	// Console receives log lines when the config enables console logging.
	// In stdio mode this must not be stdout.
	Console io.Writer
	Schema  SchemaMode
	Clock   journal.Clock
}

// JournalApp is the application layer between the CLI and the journal
// services. It constructs every dependency from config and owns the store
// and the log file until Close.
type JournalApp struct {
	cfg       *config.Config
	clock     journal.Clock
	store     *database.SQLiteStore
	slog      *slog.Logger
	logger    journal.Logger
	logCloser io.Closer
	service   *journal.Service
	agg       *journal.Aggregator
}

// NewJournalApp creates a fully wired JournalApp from the given config.
// The caller must call Close when done.
func NewJournalApp(cfg *config.Config, opts Options) (*JournalApp, error) {
	clock := opts.Clock
	if clock == nil {
		clock = journal.RealClock{}
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	sl, logCloser, err := newLogger(cfg.Log, cfg.LogDir, opts.Component, opts.Console)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: sl}

	store, err := database.NewStoreFromConfig(cfg, clock)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	switch opts.Schema {
	case SchemaMigrate:
		err = store.MigrateUp()
	case SchemaCheck:
		if err = store.CheckMigrations(); err != nil {
			err = fmt.Errorf("database schema out of date (run `journal db migrate`): %w", err)
		}
	}
	if err != nil {
		store.Close()
		logCloser.Close()
		return nil, err
	}

	return &JournalApp{
		cfg:       cfg,
		clock:     clock,
		store:     store,
		slog:      sl,
		logger:    logger,
		logCloser: logCloser,
		service:   journal.NewService(store, clock, logger, journal.Options{Location: loc}),
		agg:       journal.NewAggregator(store, clock, loc, logger),
	}, nil
}

// Logger returns the application logger.
func (a *JournalApp) Logger() journal.Logger {
	return a.logger
}

// Dispatcher returns a new tool dispatcher over the app's store.
func (a *JournalApp) Dispatcher() *tools.Dispatcher {
	return tools.NewDispatcher(a.service, a.agg, a.logger)
}

// Serve runs the HTTP transport until ctx is cancelled.
func (a *JournalApp) Serve(ctx context.Context, version string) error {
	sessions := transport.NewSessionFactory(a.service, a.agg, a.logger, version)
	srv := transport.NewHTTPServer(a.cfg.Server, sessions, a.logger)
	return srv.ListenAndServe(ctx)
}

// ServeStdio serves a single MCP session over in/out.
func (a *JournalApp) ServeStdio(ctx context.Context, version string, in io.Reader, out io.Writer) error {
	errLog := slog.NewLogLogger(a.slog.Handler(), slog.LevelError)
	a.logger.Info("serving stdio", "database", a.store.Path())
	return transport.ServeStdio(ctx, a.Dispatcher(), version, in, out, errLog)
}

// DatabasePath returns the path of the open database.
func (a *JournalApp) DatabasePath() string {
	return a.store.Path()
}

// MigrateUp applies pending schema migrations.
func (a *JournalApp) MigrateUp() error {
	return a.store.MigrateUp()
}

// MigrationStatus reports the current and latest schema versions.
func (a *JournalApp) MigrationStatus() (migrations.Status, error) {
	return a.store.MigrationStatus()
}

// InitKeys generates the backup key pair, sealing the private key with
// passphrase.
func (a *JournalApp) InitKeys(passphrase string) error {
	enc, err := encryption.NewEncryptorFromConfig(a.cfg.Encryption)
	if err != nil {
		return err
	}
	if err := enc.Setup(passphrase); err != nil {
		return fmt.Errorf("creating keys: %w", err)
	}
	a.logger.Info("backup keys created", "public_key", a.cfg.Encryption.PublicKeyPath)
	return nil
}

// CheckVault verifies that the named vault (or the first one) is reachable.
func (a *JournalApp) CheckVault(ctx context.Context, vaultName string) (string, error) {
	v, err := a.openVault(ctx, vaultName)
	if err != nil {
		return "", err
	}
	if err := v.ValidateSetup(ctx); err != nil {
		return v.Name(), fmt.Errorf("vault %s: %w", v.Name(), err)
	}
	return v.Name(), nil
}

// Backup snapshots the database into the named vault (or the first one).
func (a *JournalApp) Backup(ctx context.Context, vaultName string) (*backup.Object, error) {
	svc, _, err := a.backupService(ctx, vaultName)
	if err != nil {
		return nil, err
	}
	return svc.Backup(ctx)
}

// ListBackups lists the snapshots in the named vault, newest first.
func (a *JournalApp) ListBackups(ctx context.Context, vaultName string) ([]backup.Object, error) {
	svc, _, err := a.backupService(ctx, vaultName)
	if err != nil {
		return nil, err
	}
	return svc.List(ctx)
}

// BackupHistory returns the most recent backup and restore runs.
func (a *JournalApp) BackupHistory(ctx context.Context, limit int) ([]*database.BackupRun, error) {
	return a.store.ListBackupRuns(ctx, limit)
}

// Restore downloads the snapshot called name from the vault and writes the
// decrypted database to outputPath. passphrase unlocks the private key.
func (a *JournalApp) Restore(ctx context.Context, vaultName, name, outputPath, passphrase string) error {
	svc, enc, err := a.backupService(ctx, vaultName)
	if err != nil {
		return err
	}
	dec, err := enc.Unlock(passphrase)
	if err != nil {
		return fmt.Errorf("unlocking private key: %w", err)
	}
	return svc.Restore(ctx, name, outputPath, dec)
}

func (a *JournalApp) openVault(ctx context.Context, vaultName string) (backup.Vault, error) {
	vcfg, err := vault.Select(a.cfg.Vaults, vaultName)
	if err != nil {
		return nil, err
	}
	v, err := vault.NewVaultFromConfig(ctx, vcfg)
	if err != nil {
		return nil, fmt.Errorf("creating vault: %w", err)
	}
	return v, nil
}

func (a *JournalApp) backupService(ctx context.Context, vaultName string) (*backup.Service, backup.Encryptor, error) {
	v, err := a.openVault(ctx, vaultName)
	if err != nil {
		return nil, nil, err
	}
	enc, err := encryption.NewEncryptorFromConfig(a.cfg.Encryption)
	if err != nil {
		return nil, nil, fmt.Errorf("creating encryptor: %w", err)
	}
	svc := backup.NewService(a.store, v, enc, a.logger, a.clock, backup.UUIDGenerator{})
	return svc, enc, nil
}

// Close closes the database and the log file.
func (a *JournalApp) Close() error {
	var firstErr error
	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}
	if err := a.logCloser.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing log file: %w", err)
	}
	return firstErr
}
