package migrations

import (
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestMigrateUp_FreshDatabase(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	tables := []string{"diaries", "todos", "weekly_tasks", "analyses", "backup_runs", "schema_migrations"}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s was not created: %v", table, err)
		}
	}
}

func TestCheckDBMigrationStatus_FreshDatabase(t *testing.T) {
	db := openTestDB(t)

	err := CheckDBMigrationStatus(db)
	if !errors.Is(err, ErrNoVersion) {
		t.Errorf("CheckDBMigrationStatus() error = %v, want ErrNoVersion", err)
	}
}

func TestCheckDBMigrationStatus_AfterMigration(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	if err := CheckDBMigrationStatus(db); err != nil {
		t.Errorf("CheckDBMigrationStatus() after migration returned error: %v", err)
	}
}

func TestGetStatus(t *testing.T) {
	db := openTestDB(t)

	before, err := GetStatus(db)
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if before.Current != 0 || before.Latest == 0 || before.UpToDate() {
		t.Errorf("GetStatus() before migration = %+v", before)
	}

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	after, err := GetStatus(db)
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if !after.UpToDate() || after.Current != before.Latest {
		t.Errorf("GetStatus() after migration = %+v", after)
	}
}

func TestMigrateUp_Idempotent(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("First MigrateUp() failed: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Errorf("Second MigrateUp() failed: %v (should be idempotent)", err)
	}
	if err := CheckDBMigrationStatus(db); err != nil {
		t.Errorf("CheckDBMigrationStatus() after double migration returned error: %v", err)
	}
}

func TestSchema_DiaryDateUnique(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	insert := "INSERT INTO diaries (date, content, created_at, updated_at) VALUES ('2024-01-15', 'x', 'a', 'a')"
	if _, err := db.Exec(insert); err != nil {
		t.Fatalf("Failed to insert first diary: %v", err)
	}
	if _, err := db.Exec(insert); err == nil {
		t.Error("Expected unique constraint violation for duplicate date, but insert succeeded")
	}
}

func TestSchema_TodoConstraints(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	tests := []struct {
		name    string
		stmt    string
		wantErr bool
	}{
		{"valid", "INSERT INTO todos (client_id, title, created_at, updated_at) VALUES ('c1', 'milk', 'a', 'a')", false},
		{"duplicate client id", "INSERT INTO todos (client_id, title, created_at, updated_at) VALUES ('c1', 'eggs', 'a', 'a')", true},
		{"null client ids do not collide", "INSERT INTO todos (title, created_at, updated_at) VALUES ('a', 'a', 'a')", false},
		{"second null client id", "INSERT INTO todos (title, created_at, updated_at) VALUES ('b', 'a', 'a')", false},
		{"empty title", "INSERT INTO todos (title, created_at, updated_at) VALUES ('', 'a', 'a')", true},
		{"bad done flag", "INSERT INTO todos (title, is_done, created_at, updated_at) VALUES ('c', 2, 'a', 'a')", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.Exec(tt.stmt)
			if (err != nil) != tt.wantErr {
				t.Errorf("Exec() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSchema_AnalysisNaturalKey(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	insert := "INSERT INTO analyses (period_type, start_date, end_date, summary, created_at) VALUES (?, '2024-01-01', '2024-01-07', 's', 'a')"
	if _, err := db.Exec(insert, "week"); err != nil {
		t.Fatalf("Failed to insert analysis: %v", err)
	}
	if _, err := db.Exec(insert, "week"); err == nil {
		t.Error("Expected unique constraint violation for duplicate natural key")
	}
	if _, err := db.Exec(insert, "year"); err == nil {
		t.Error("Expected check constraint violation for unknown period type")
	}
}

// openTestDB opens an in-memory SQLite database for testing. A single
// connection keeps every statement on the same in-memory database.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	return db
}
