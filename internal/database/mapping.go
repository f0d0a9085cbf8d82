package database

import (
	"database/sql"
	"fmt"
	"time"

	"journal-coach/internal/database/queries"
	"journal-coach/internal/journal"
)

// timestampLayout is fixed width so that text order is time order.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(column, s string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("column %s: bad timestamp %q", column, s)
	}
	return t, nil
}

func parseDone(v int64) (bool, error) {
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("column is_done: unexpected value %d", v)
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// tagColumns spreads tags over the five tag columns.
func tagColumns(tags []string) [journal.MaxTags]sql.NullString {
	var cols [journal.MaxTags]sql.NullString
	for i, t := range tags {
		if i == journal.MaxTags {
			break
		}
		cols[i] = nullString(t)
	}
	return cols
}

func toDiaryEntry(row queries.Diary) (*journal.DiaryEntry, error) {
	if _, err := journal.ParseDate(row.Date); err != nil {
		return nil, fmt.Errorf("diary %d: %w", row.ID, err)
	}
	created, err := parseTimestamp("created_at", row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("diary %d: %w", row.ID, err)
	}
	updated, err := parseTimestamp("updated_at", row.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("diary %d: %w", row.ID, err)
	}

	tags := make([]string, 0, journal.MaxTags)
	for _, col := range []sql.NullString{row.Tag1, row.Tag2, row.Tag3, row.Tag4, row.Tag5} {
		if col.Valid && col.String != "" {
			tags = append(tags, col.String)
		}
	}

	return &journal.DiaryEntry{
		ID:        row.ID,
		Date:      row.Date,
		Content:   row.Content,
		Tags:      tags,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

func toTodo(row queries.Todo) (*journal.Todo, error) {
	done, err := parseDone(row.IsDone)
	if err != nil {
		return nil, fmt.Errorf("todo %d: %w", row.ID, err)
	}
	created, err := parseTimestamp("created_at", row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("todo %d: %w", row.ID, err)
	}
	updated, err := parseTimestamp("updated_at", row.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("todo %d: %w", row.ID, err)
	}
	return &journal.Todo{
		ID:        row.ID,
		ClientID:  row.ClientID.String,
		Title:     row.Title,
		IsDone:    done,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

func toWeeklyTask(row queries.WeeklyTask) (*journal.WeeklyTask, error) {
	if _, err := journal.ParseDate(row.WeekStartDate); err != nil {
		return nil, fmt.Errorf("weekly task %d: %w", row.ID, err)
	}
	done, err := parseDone(row.IsDone)
	if err != nil {
		return nil, fmt.Errorf("weekly task %d: %w", row.ID, err)
	}
	created, err := parseTimestamp("created_at", row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("weekly task %d: %w", row.ID, err)
	}
	updated, err := parseTimestamp("updated_at", row.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("weekly task %d: %w", row.ID, err)
	}
	return &journal.WeeklyTask{
		ID:            row.ID,
		ClientID:      row.ClientID.String,
		WeekStartDate: row.WeekStartDate,
		Title:         row.Title,
		IsDone:        done,
		CreatedAt:     created,
		UpdatedAt:     updated,
	}, nil
}

func toAnalysis(row queries.Analysis) (*journal.Analysis, error) {
	p := journal.PeriodType(row.PeriodType)
	if !p.Valid() {
		return nil, fmt.Errorf("analysis %d: unknown period type %q", row.ID, row.PeriodType)
	}
	created, err := parseTimestamp("created_at", row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("analysis %d: %w", row.ID, err)
	}
	return &journal.Analysis{
		ID:         row.ID,
		PeriodType: p,
		StartDate:  row.StartDate,
		EndDate:    row.EndDate,
		Summary:    row.Summary,
		CreatedAt:  created,
	}, nil
}

func toBackupRun(row queries.BackupRun) (*BackupRun, error) {
	started, err := parseTimestamp("started_at", row.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("backup run %d: %w", row.ID, err)
	}
	run := &BackupRun{
		ID:         row.ID,
		StartedAt:  started,
		Operation:  row.Operation,
		Parameters: row.Parameters,
		Status:     row.Status,
	}
	if row.FinishedAt.Valid {
		finished, err := parseTimestamp("finished_at", row.FinishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("backup run %d: %w", row.ID, err)
		}
		run.FinishedAt = &finished
	}
	return run, nil
}
