package database

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"journal-coach/internal/journal"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// newTestStore creates a new in-memory store with migrations applied.
func newTestStore(t *testing.T) (*SQLiteStore, *stepClock) {
	t.Helper()

	clock := &stepClock{now: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)}
	s, err := NewSQLiteStore(MemoryPath, clock)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := s.MigrateUp(); err != nil {
		s.Close()
		t.Fatalf("failed to migrate: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})

	return s, clock
}

func TestSQLiteStore_Diaries(t *testing.T) {
	ctx := context.Background()

	t.Run("returns nil when diary not found", func(t *testing.T) {
		s, _ := newTestStore(t)

		d, err := s.DiaryByDate(ctx, "2024-01-15")
		if err != nil {
			t.Fatalf("DiaryByDate() error = %v", err)
		}
		if d != nil {
			t.Errorf("DiaryByDate() = %+v, want nil", d)
		}
	})

	t.Run("upsert replaces content and keeps createdAt", func(t *testing.T) {
		s, clock := newTestStore(t)

		first, err := s.UpsertDiary(ctx, journal.DiaryInput{Date: "2024-01-15", Content: "first", Tags: []string{"work", "health"}})
		if err != nil {
			t.Fatalf("UpsertDiary() error = %v", err)
		}

		clock.Advance(time.Hour)
		second, err := s.UpsertDiary(ctx, journal.DiaryInput{Date: "2024-01-15", Content: "second", Tags: []string{"family"}})
		if err != nil {
			t.Fatalf("UpsertDiary() error = %v", err)
		}

		if second.ID != first.ID {
			t.Errorf("ID = %d, want %d", second.ID, first.ID)
		}
		if second.Content != "second" {
			t.Errorf("Content = %q, want %q", second.Content, "second")
		}
		if len(second.Tags) != 1 || second.Tags[0] != "family" {
			t.Errorf("Tags = %v, want [family]", second.Tags)
		}
		if !second.CreatedAt.Equal(first.CreatedAt) {
			t.Errorf("CreatedAt = %v, want %v", second.CreatedAt, first.CreatedAt)
		}
		if !second.UpdatedAt.After(first.UpdatedAt) {
			t.Errorf("UpdatedAt = %v, want after %v", second.UpdatedAt, first.UpdatedAt)
		}

		got, err := s.DiaryByDate(ctx, "2024-01-15")
		if err != nil {
			t.Fatalf("DiaryByDate() error = %v", err)
		}
		if got.Content != "second" {
			t.Errorf("stored Content = %q, want %q", got.Content, "second")
		}
	})

	t.Run("keeps at most five tags", func(t *testing.T) {
		s, _ := newTestStore(t)

		d, err := s.UpsertDiary(ctx, journal.DiaryInput{
			Date: "2024-01-15",
			Tags: []string{"a", "b", "c", "d", "e", "f"},
		})
		if err != nil {
			t.Fatalf("UpsertDiary() error = %v", err)
		}
		if len(d.Tags) != 5 {
			t.Errorf("len(Tags) = %d, want 5", len(d.Tags))
		}
		if d.Content != "" {
			t.Errorf("Content = %q, want empty", d.Content)
		}
	})

	t.Run("lists range in date order", func(t *testing.T) {
		s, _ := newTestStore(t)

		for _, date := range []string{"2024-01-10", "2024-01-01", "2024-01-07", "2023-12-31", "2024-01-08"} {
			if _, err := s.UpsertDiary(ctx, journal.DiaryInput{Date: date, Content: date}); err != nil {
				t.Fatalf("UpsertDiary(%s) error = %v", date, err)
			}
		}

		got, err := s.ListDiariesInRange(ctx, "2024-01-01", "2024-01-07")
		if err != nil {
			t.Fatalf("ListDiariesInRange() error = %v", err)
		}
		if len(got) != 2 || got[0].Date != "2024-01-01" || got[1].Date != "2024-01-07" {
			t.Errorf("ListDiariesInRange() = %+v", got)
		}
	})
}

func TestSQLiteStore_Todos(t *testing.T) {
	ctx := context.Background()

	t.Run("lists newest first", func(t *testing.T) {
		s, _ := newTestStore(t)

		for _, title := range []string{"one", "two", "three"} {
			if _, err := s.InsertTodo(ctx, title, ""); err != nil {
				t.Fatalf("InsertTodo() error = %v", err)
			}
		}

		todos, err := s.ListTodos(ctx)
		if err != nil {
			t.Fatalf("ListTodos() error = %v", err)
		}
		if len(todos) != 3 || todos[0].Title != "three" || todos[2].Title != "one" {
			t.Errorf("ListTodos() = %+v", todos)
		}
	})

	t.Run("finds by client id", func(t *testing.T) {
		s, _ := newTestStore(t)

		created, err := s.InsertTodo(ctx, "buy milk", "c-1")
		if err != nil {
			t.Fatalf("InsertTodo() error = %v", err)
		}
		if created.ClientID != "c-1" {
			t.Errorf("ClientID = %q, want c-1", created.ClientID)
		}

		found, err := s.FindTodoByClientID(ctx, "c-1")
		if err != nil {
			t.Fatalf("FindTodoByClientID() error = %v", err)
		}
		if found == nil || found.ID != created.ID {
			t.Errorf("FindTodoByClientID() = %+v, want id %d", found, created.ID)
		}

		missing, err := s.FindTodoByClientID(ctx, "c-2")
		if err != nil {
			t.Fatalf("FindTodoByClientID() error = %v", err)
		}
		if missing != nil {
			t.Errorf("FindTodoByClientID() = %+v, want nil", missing)
		}
	})

	t.Run("conflicting insert returns existing row", func(t *testing.T) {
		s, _ := newTestStore(t)

		first, err := s.InsertTodo(ctx, "buy milk", "c-1")
		if err != nil {
			t.Fatalf("InsertTodo() error = %v", err)
		}
		second, err := s.InsertTodo(ctx, "buy milk again", "c-1")
		if err != nil {
			t.Fatalf("second InsertTodo() error = %v", err)
		}
		if second.ID != first.ID || second.Title != "buy milk" {
			t.Errorf("second InsertTodo() = %+v, want row %d", second, first.ID)
		}

		todos, _ := s.ListTodos(ctx)
		if len(todos) != 1 {
			t.Errorf("len(todos) = %d, want 1", len(todos))
		}
	})

	t.Run("set done and delete tolerate unknown ids", func(t *testing.T) {
		s, _ := newTestStore(t)

		todo, err := s.InsertTodo(ctx, "buy milk", "")
		if err != nil {
			t.Fatalf("InsertTodo() error = %v", err)
		}
		if err := s.SetTodoDone(ctx, todo.ID, true); err != nil {
			t.Fatalf("SetTodoDone() error = %v", err)
		}
		if err := s.SetTodoDone(ctx, 999, true); err != nil {
			t.Errorf("SetTodoDone(unknown) error = %v", err)
		}

		todos, _ := s.ListTodos(ctx)
		if !todos[0].IsDone {
			t.Error("IsDone = false after SetTodoDone(true)")
		}

		if err := s.DeleteTodo(ctx, 999); err != nil {
			t.Errorf("DeleteTodo(unknown) error = %v", err)
		}
		if err := s.DeleteTodo(ctx, todo.ID); err != nil {
			t.Fatalf("DeleteTodo() error = %v", err)
		}
		todos, _ = s.ListTodos(ctx)
		if len(todos) != 0 {
			t.Errorf("len(todos) = %d, want 0", len(todos))
		}
	})
}

func TestSQLiteStore_WeeklyTasks(t *testing.T) {
	ctx := context.Background()

	t.Run("lists incomplete first then newest", func(t *testing.T) {
		s, _ := newTestStore(t)

		var ids []int64
		for _, title := range []string{"a", "b", "c"} {
			task, err := s.InsertWeeklyTask(ctx, "2024-01-14", title, "")
			if err != nil {
				t.Fatalf("InsertWeeklyTask() error = %v", err)
			}
			ids = append(ids, task.ID)
		}
		if _, err := s.InsertWeeklyTask(ctx, "2024-01-07", "other week", ""); err != nil {
			t.Fatalf("InsertWeeklyTask() error = %v", err)
		}
		if err := s.SetWeeklyTaskDone(ctx, ids[2], true); err != nil {
			t.Fatalf("SetWeeklyTaskDone() error = %v", err)
		}

		tasks, err := s.ListWeeklyTasks(ctx, "2024-01-14")
		if err != nil {
			t.Fatalf("ListWeeklyTasks() error = %v", err)
		}

		var titles []string
		for _, task := range tasks {
			titles = append(titles, task.Title)
		}
		if fmt.Sprint(titles) != "[b a c]" {
			t.Errorf("titles = %v, want [b a c]", titles)
		}
	})

	t.Run("client id dedup", func(t *testing.T) {
		s, _ := newTestStore(t)

		first, err := s.InsertWeeklyTask(ctx, "2024-01-14", "plan", "w-1")
		if err != nil {
			t.Fatalf("InsertWeeklyTask() error = %v", err)
		}
		found, err := s.FindWeeklyTaskByClientID(ctx, "w-1")
		if err != nil || found == nil || found.ID != first.ID {
			t.Fatalf("FindWeeklyTaskByClientID() = %+v, %v", found, err)
		}
		second, err := s.InsertWeeklyTask(ctx, "2024-01-14", "plan", "w-1")
		if err != nil {
			t.Fatalf("second InsertWeeklyTask() error = %v", err)
		}
		if second.ID != first.ID {
			t.Errorf("second ID = %d, want %d", second.ID, first.ID)
		}
	})

	t.Run("delete", func(t *testing.T) {
		s, _ := newTestStore(t)

		task, _ := s.InsertWeeklyTask(ctx, "2024-01-14", "plan", "")
		if err := s.DeleteWeeklyTask(ctx, task.ID); err != nil {
			t.Fatalf("DeleteWeeklyTask() error = %v", err)
		}
		if err := s.DeleteWeeklyTask(ctx, task.ID); err != nil {
			t.Errorf("second DeleteWeeklyTask() error = %v", err)
		}
		tasks, _ := s.ListWeeklyTasks(ctx, "2024-01-14")
		if len(tasks) != 0 {
			t.Errorf("len(tasks) = %d, want 0", len(tasks))
		}
	})
}

func TestSQLiteStore_Analyses(t *testing.T) {
	ctx := context.Background()

	t.Run("upsert by natural key", func(t *testing.T) {
		s, clock := newTestStore(t)
		in := journal.AnalysisInput{PeriodType: journal.PeriodWeek, StartDate: "2024-01-07", EndDate: "2024-01-13", Summary: "v1"}

		first, err := s.UpsertAnalysis(ctx, in)
		if err != nil {
			t.Fatalf("UpsertAnalysis() error = %v", err)
		}

		clock.Advance(time.Minute)
		in.Summary = "v2"
		second, err := s.UpsertAnalysis(ctx, in)
		if err != nil {
			t.Fatalf("UpsertAnalysis() error = %v", err)
		}

		if second.ID != first.ID || second.Summary != "v2" {
			t.Errorf("second UpsertAnalysis() = %+v", second)
		}
		if !second.CreatedAt.Equal(first.CreatedAt) {
			t.Errorf("CreatedAt changed: %v -> %v", first.CreatedAt, second.CreatedAt)
		}

		history, err := s.LatestAnalyses(ctx, 30)
		if err != nil {
			t.Fatalf("LatestAnalyses() error = %v", err)
		}
		if len(history) != 1 {
			t.Errorf("len(history) = %d, want 1", len(history))
		}
	})

	t.Run("latest is newest first and limited", func(t *testing.T) {
		s, clock := newTestStore(t)

		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 35; i++ {
			d := start.AddDate(0, 0, 7*i)
			_, err := s.UpsertAnalysis(ctx, journal.AnalysisInput{
				PeriodType: journal.PeriodWeek,
				StartDate:  journal.FormatDate(d),
				EndDate:    journal.FormatDate(d.AddDate(0, 0, 6)),
				Summary:    "s",
			})
			if err != nil {
				t.Fatalf("UpsertAnalysis() error = %v", err)
			}
			clock.Advance(time.Second)
		}

		history, err := s.LatestAnalyses(ctx, journal.HistoryLimit)
		if err != nil {
			t.Fatalf("LatestAnalyses() error = %v", err)
		}
		if len(history) != journal.HistoryLimit {
			t.Fatalf("len(history) = %d, want %d", len(history), journal.HistoryLimit)
		}
		if history[0].StartDate != journal.FormatDate(start.AddDate(0, 0, 7*34)) {
			t.Errorf("history[0].StartDate = %s, want newest", history[0].StartDate)
		}
		for i := 1; i < len(history); i++ {
			if history[i].CreatedAt.After(history[i-1].CreatedAt) {
				t.Errorf("history not in descending order at %d", i)
			}
		}
	})
}

func TestSQLiteStore_RowMappingRejectsBadRows(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.db.Exec("INSERT INTO diaries (date, content, created_at, updated_at) VALUES ('2024-01-15', '', 'yesterday', 'yesterday')")
	if err != nil {
		t.Fatalf("raw insert error = %v", err)
	}

	if _, err := s.DiaryByDate(ctx, "2024-01-15"); err == nil {
		t.Error("DiaryByDate() expected error for unparseable timestamp")
	}
}

func TestSQLiteStore_BackupRuns(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(t)

	run, err := s.CreateBackupRun(ctx, "backup", "vault=local")
	if err != nil {
		t.Fatalf("CreateBackupRun() error = %v", err)
	}
	if run.ID == 0 || run.Status != "running" || run.FinishedAt != nil {
		t.Errorf("CreateBackupRun() = %+v", run)
	}

	clock.Advance(time.Minute)
	if err := s.FinishBackupRun(ctx, run.ID, "success"); err != nil {
		t.Fatalf("FinishBackupRun() error = %v", err)
	}
	if _, err := s.CreateBackupRun(ctx, "restore", "name=x"); err != nil {
		t.Fatalf("CreateBackupRun() error = %v", err)
	}

	runs, err := s.ListBackupRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListBackupRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	if runs[0].Operation != "restore" {
		t.Errorf("runs[0].Operation = %q, want restore", runs[0].Operation)
	}
	if runs[1].Status != "success" || runs[1].FinishedAt == nil {
		t.Errorf("runs[1] = %+v", runs[1])
	}
}

func TestSQLiteStore_BackupTo(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if _, err := s.InsertTodo(ctx, "survives backup", ""); err != nil {
		t.Fatalf("InsertTodo() error = %v", err)
	}

	dest := filepath.Join(t.TempDir(), "copy.db")
	if err := s.BackupTo(ctx, dest); err != nil {
		t.Fatalf("BackupTo() error = %v", err)
	}

	copied, err := NewSQLiteStore(dest, nil)
	if err != nil {
		t.Fatalf("NewSQLiteStore(copy) error = %v", err)
	}
	defer copied.Close()

	if err := copied.CheckMigrations(); err != nil {
		t.Errorf("CheckMigrations() on copy error = %v", err)
	}
	todos, err := copied.ListTodos(ctx)
	if err != nil {
		t.Fatalf("ListTodos() error = %v", err)
	}
	if len(todos) != 1 || todos[0].Title != "survives backup" {
		t.Errorf("ListTodos() on copy = %+v", todos)
	}
}

func TestSQLiteStore_CheckMigrations(t *testing.T) {
	s, err := NewSQLiteStore(MemoryPath, nil)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer s.Close()

	if err := s.CheckMigrations(); err == nil {
		t.Error("CheckMigrations() expected error before MigrateUp")
	}
	if err := s.MigrateUp(); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}
	if err := s.CheckMigrations(); err != nil {
		t.Errorf("CheckMigrations() error = %v", err)
	}
}
