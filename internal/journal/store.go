package journal

import "context"

// DiaryInput is the full replacement written by an upsert.
type DiaryInput struct {
	Date    string
	Content string
	Tags    []string
}

// AnalysisInput identifies an analysis by its natural key plus the summary
// to store under it.
type AnalysisInput struct {
	PeriodType PeriodType
	StartDate  string
	EndDate    string
	Summary    string
}

// DiaryStore persists diary entries keyed by date.
type DiaryStore interface {
	// DiaryByDate returns the entry for date, or nil if there is none.
	DiaryByDate(ctx context.Context, date string) (*DiaryEntry, error)

	// UpsertDiary replaces content and tags of the entry for in.Date,
	// creating it if needed. CreatedAt is preserved on replace.
	UpsertDiary(ctx context.Context, in DiaryInput) (*DiaryEntry, error)

	// ListDiariesInRange returns entries with start <= date <= end, oldest first.
	ListDiariesInRange(ctx context.Context, start, end string) ([]DiaryEntry, error)
}

// TodoStore persists todos.
type TodoStore interface {
	// ListTodos returns every todo, newest id first.
	ListTodos(ctx context.Context) ([]Todo, error)

	// FindTodoByClientID returns the todo created with clientID, or nil.
	FindTodoByClientID(ctx context.Context, clientID string) (*Todo, error)

	// InsertTodo creates a todo. An empty clientID is stored as absent.
	InsertTodo(ctx context.Context, title, clientID string) (*Todo, error)

	// SetTodoDone updates the completion flag. An unknown id is not an error.
	SetTodoDone(ctx context.Context, id int64, done bool) error

	// DeleteTodo removes a todo. An unknown id is not an error.
	DeleteTodo(ctx context.Context, id int64) error
}

// WeeklyTaskStore persists weekly tasks.
type WeeklyTaskStore interface {
	// ListWeeklyTasks returns the tasks of one week, incomplete first, then
	// newest id first.
	ListWeeklyTasks(ctx context.Context, weekStartDate string) ([]WeeklyTask, error)

	// FindWeeklyTaskByClientID returns the task created with clientID, or nil.
	FindWeeklyTaskByClientID(ctx context.Context, clientID string) (*WeeklyTask, error)

	// InsertWeeklyTask creates a task for the given week.
	InsertWeeklyTask(ctx context.Context, weekStartDate, title, clientID string) (*WeeklyTask, error)

	// SetWeeklyTaskDone updates the completion flag. An unknown id is not an error.
	SetWeeklyTaskDone(ctx context.Context, id int64, done bool) error

	// DeleteWeeklyTask removes a task. An unknown id is not an error.
	DeleteWeeklyTask(ctx context.Context, id int64) error
}

// AnalysisStore persists saved analyses.
type AnalysisStore interface {
	// UpsertAnalysis stores the summary under the natural key, replacing the
	// summary of an existing row.
	UpsertAnalysis(ctx context.Context, in AnalysisInput) (*Analysis, error)

	// LatestAnalyses returns up to limit analyses, newest first.
	LatestAnalyses(ctx context.Context, limit int) ([]Analysis, error)
}

// Store is the collection store consumed by the service and the aggregator.
type Store interface {
	DiaryStore
	TodoStore
	WeeklyTaskStore
	AnalysisStore

	// Close releases the underlying connection.
	Close() error
}
