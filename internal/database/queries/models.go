package queries

import "database/sql"

// Rows mirror the tables column for column. Conversion to domain types
// happens in the database package.

type Diary struct {
	ID        int64
	Date      string
	Content   string
	Tag1      sql.NullString
	Tag2      sql.NullString
	Tag3      sql.NullString
	Tag4      sql.NullString
	Tag5      sql.NullString
	CreatedAt string
	UpdatedAt string
}

type Todo struct {
	ID        int64
	ClientID  sql.NullString
	Title     string
	IsDone    int64
	CreatedAt string
	UpdatedAt string
}

type WeeklyTask struct {
	ID            int64
	ClientID      sql.NullString
	WeekStartDate string
	Title         string
	IsDone        int64
	CreatedAt     string
	UpdatedAt     string
}

type Analysis struct {
	ID         int64
	PeriodType string
	StartDate  string
	EndDate    string
	Summary    string
	CreatedAt  string
}

type BackupRun struct {
	ID         int64
	StartedAt  string
	FinishedAt sql.NullString
	Operation  string
	Parameters string
	Status     string
}
