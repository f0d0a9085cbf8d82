package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"journal-coach/internal/database/migrations"
	"journal-coach/internal/database/queries"
	"journal-coach/internal/journal"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// BackupRun records one backup or restore invocation.
type BackupRun struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt *time.Time
	Operation  string
	Parameters string
	Status     string
}

// SQLiteStore implements journal.Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	queries *queries.Queries
	clock   journal.Clock
	path    string
}

// NewSQLiteStore opens the database at path. path can be a file path or
// ":memory:". The schema is not touched; call MigrateUp before first use.
func NewSQLiteStore(path string, clock journal.Clock) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	s := NewSQLiteStoreFromDB(db, clock)
	s.path = path
	return s, nil
}

// NewSQLiteStoreFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteStoreFromDB(db *sql.DB, clock journal.Clock) *SQLiteStore {
	if clock == nil {
		clock = journal.RealClock{}
	}
	return &SQLiteStore{
		db:      db,
		queries: queries.New(db),
		clock:   clock,
	}
}

// OpenConnection opens and configures a SQLite database connection.
// File databases use WAL and a busy timeout so that concurrent tool calls
// wait for the writer instead of failing. An in-memory database is limited
// to one connection since every connection would otherwise get its own,
// empty database.
func OpenConnection(path string) (*sql.DB, error) {
	dsn := path
	if path != MemoryPath {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		dsn = path + sep + "_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == MemoryPath {
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func (s *SQLiteStore) now() string {
	return formatTimestamp(s.clock.Now())
}

// Diary operations

func (s *SQLiteStore) DiaryByDate(ctx context.Context, date string) (*journal.DiaryEntry, error) {
	row, err := s.queries.GetDiaryByDate(ctx, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding diary by date: %w", err)
	}
	return toDiaryEntry(row)
}

func (s *SQLiteStore) UpsertDiary(ctx context.Context, in journal.DiaryInput) (*journal.DiaryEntry, error) {
	now := s.now()
	tags := tagColumns(in.Tags)
	row, err := s.queries.UpsertDiary(ctx, queries.UpsertDiaryParams{
		Date:      in.Date,
		Content:   in.Content,
		Tag1:      tags[0],
		Tag2:      tags[1],
		Tag3:      tags[2],
		Tag4:      tags[3],
		Tag5:      tags[4],
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("upserting diary: %w", err)
	}
	return toDiaryEntry(row)
}

func (s *SQLiteStore) ListDiariesInRange(ctx context.Context, start, end string) ([]journal.DiaryEntry, error) {
	rows, err := s.queries.ListDiariesInRange(ctx, queries.ListDiariesInRangeParams{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return nil, fmt.Errorf("listing diaries: %w", err)
	}

	result := make([]journal.DiaryEntry, 0, len(rows))
	for _, row := range rows {
		d, err := toDiaryEntry(row)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	return result, nil
}

// Todo operations

func (s *SQLiteStore) ListTodos(ctx context.Context) ([]journal.Todo, error) {
	rows, err := s.queries.ListTodos(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}

	result := make([]journal.Todo, 0, len(rows))
	for _, row := range rows {
		t, err := toTodo(row)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	return result, nil
}

func (s *SQLiteStore) FindTodoByClientID(ctx context.Context, clientID string) (*journal.Todo, error) {
	row, err := s.queries.GetTodoByClientID(ctx, nullString(clientID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding todo by client id: %w", err)
	}
	return toTodo(row)
}

// InsertTodo creates a todo. When another writer already inserted clientID,
// that row is returned instead.
func (s *SQLiteStore) InsertTodo(ctx context.Context, title, clientID string) (*journal.Todo, error) {
	now := s.now()
	row, err := s.queries.InsertTodo(ctx, queries.InsertTodoParams{
		ClientID:  nullString(clientID),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if errors.Is(err, sql.ErrNoRows) && clientID != "" {
		existing, err := s.FindTodoByClientID(ctx, clientID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("todo with client id %q vanished after conflict", clientID)
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("inserting todo: %w", err)
	}
	return toTodo(row)
}

func (s *SQLiteStore) SetTodoDone(ctx context.Context, id int64, done bool) error {
	err := s.queries.SetTodoDone(ctx, queries.SetTodoDoneParams{
		IsDone:    boolToInt(done),
		UpdatedAt: s.now(),
		ID:        id,
	})
	if err != nil {
		return fmt.Errorf("updating todo: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteTodo(ctx context.Context, id int64) error {
	if err := s.queries.DeleteTodo(ctx, id); err != nil {
		return fmt.Errorf("deleting todo: %w", err)
	}
	return nil
}

// Weekly task operations

func (s *SQLiteStore) ListWeeklyTasks(ctx context.Context, weekStartDate string) ([]journal.WeeklyTask, error) {
	rows, err := s.queries.ListWeeklyTasks(ctx, weekStartDate)
	if err != nil {
		return nil, fmt.Errorf("listing weekly tasks: %w", err)
	}

	result := make([]journal.WeeklyTask, 0, len(rows))
	for _, row := range rows {
		t, err := toWeeklyTask(row)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	return result, nil
}

func (s *SQLiteStore) FindWeeklyTaskByClientID(ctx context.Context, clientID string) (*journal.WeeklyTask, error) {
	row, err := s.queries.GetWeeklyTaskByClientID(ctx, nullString(clientID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding weekly task by client id: %w", err)
	}
	return toWeeklyTask(row)
}

// InsertWeeklyTask creates a weekly task. When another writer already
// inserted clientID, that row is returned instead.
func (s *SQLiteStore) InsertWeeklyTask(ctx context.Context, weekStartDate, title, clientID string) (*journal.WeeklyTask, error) {
	now := s.now()
	row, err := s.queries.InsertWeeklyTask(ctx, queries.InsertWeeklyTaskParams{
		ClientID:      nullString(clientID),
		WeekStartDate: weekStartDate,
		Title:         title,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if errors.Is(err, sql.ErrNoRows) && clientID != "" {
		existing, err := s.FindWeeklyTaskByClientID(ctx, clientID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("weekly task with client id %q vanished after conflict", clientID)
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("inserting weekly task: %w", err)
	}
	return toWeeklyTask(row)
}

func (s *SQLiteStore) SetWeeklyTaskDone(ctx context.Context, id int64, done bool) error {
	err := s.queries.SetWeeklyTaskDone(ctx, queries.SetWeeklyTaskDoneParams{
		IsDone:    boolToInt(done),
		UpdatedAt: s.now(),
		ID:        id,
	})
	if err != nil {
		return fmt.Errorf("updating weekly task: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteWeeklyTask(ctx context.Context, id int64) error {
	if err := s.queries.DeleteWeeklyTask(ctx, id); err != nil {
		return fmt.Errorf("deleting weekly task: %w", err)
	}
	return nil
}

// Analysis operations

func (s *SQLiteStore) UpsertAnalysis(ctx context.Context, in journal.AnalysisInput) (*journal.Analysis, error) {
	row, err := s.queries.UpsertAnalysis(ctx, queries.UpsertAnalysisParams{
		PeriodType: string(in.PeriodType),
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		Summary:    in.Summary,
		CreatedAt:  s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("upserting analysis: %w", err)
	}
	return toAnalysis(row)
}

func (s *SQLiteStore) LatestAnalyses(ctx context.Context, limit int) ([]journal.Analysis, error) {
	rows, err := s.queries.ListLatestAnalyses(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}

	result := make([]journal.Analysis, 0, len(rows))
	for _, row := range rows {
		a, err := toAnalysis(row)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, nil
}

// Backup run tracking

func (s *SQLiteStore) CreateBackupRun(ctx context.Context, operation, parameters string) (*BackupRun, error) {
	row, err := s.queries.InsertBackupRun(ctx, queries.InsertBackupRunParams{
		StartedAt:  s.now(),
		Operation:  operation,
		Parameters: parameters,
	})
	if err != nil {
		return nil, fmt.Errorf("creating backup run: %w", err)
	}
	return toBackupRun(row)
}

func (s *SQLiteStore) FinishBackupRun(ctx context.Context, id int64, status string) error {
	err := s.queries.FinishBackupRun(ctx, queries.FinishBackupRunParams{
		FinishedAt: nullString(s.now()),
		Status:     status,
		ID:         id,
	})
	if err != nil {
		return fmt.Errorf("finishing backup run: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListBackupRuns(ctx context.Context, limit int) ([]*BackupRun, error) {
	rows, err := s.queries.ListBackupRuns(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing backup runs: %w", err)
	}

	result := make([]*BackupRun, 0, len(rows))
	for _, row := range rows {
		r, err := toBackupRun(row)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteStore) Path() string {
	return s.path
}

// MigrateUp applies pending schema migrations.
func (s *SQLiteStore) MigrateUp() error {
	return migrations.MigrateUp(s.db)
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteStore) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// MigrationStatus reports the schema version against the embedded migrations.
func (s *SQLiteStore) MigrationStatus() (migrations.Status, error) {
	return migrations.GetStatus(s.db)
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
func (s *SQLiteStore) BackupTo(ctx context.Context, destPath string) error {
	_, err := s.db.ExecContext(ctx, "VACUUM INTO ?", destPath)
	if err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Compile-time check that SQLiteStore implements journal.Store interface
var _ journal.Store = (*SQLiteStore)(nil)
