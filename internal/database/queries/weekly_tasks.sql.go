package queries

import (
	"context"
	"database/sql"
)

const listWeeklyTasks = `-- name: ListWeeklyTasks :many
SELECT id, client_id, week_start_date, title, is_done, created_at, updated_at
FROM weekly_tasks
WHERE week_start_date = ?
ORDER BY is_done ASC, id DESC
`

func (q *Queries) ListWeeklyTasks(ctx context.Context, weekStartDate string) ([]WeeklyTask, error) {
	rows, err := q.db.QueryContext(ctx, listWeeklyTasks, weekStartDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []WeeklyTask
	for rows.Next() {
		var i WeeklyTask
		if err := rows.Scan(
			&i.ID,
			&i.ClientID,
			&i.WeekStartDate,
			&i.Title,
			&i.IsDone,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getWeeklyTaskByClientID = `-- name: GetWeeklyTaskByClientID :one
SELECT id, client_id, week_start_date, title, is_done, created_at, updated_at
FROM weekly_tasks
WHERE client_id = ?
`

func (q *Queries) GetWeeklyTaskByClientID(ctx context.Context, clientID sql.NullString) (WeeklyTask, error) {
	row := q.db.QueryRowContext(ctx, getWeeklyTaskByClientID, clientID)
	var i WeeklyTask
	err := row.Scan(
		&i.ID,
		&i.ClientID,
		&i.WeekStartDate,
		&i.Title,
		&i.IsDone,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertWeeklyTask = `-- name: InsertWeeklyTask :one
INSERT INTO weekly_tasks (client_id, week_start_date, title, is_done, created_at, updated_at)
VALUES (?, ?, ?, 0, ?, ?)
ON CONFLICT (client_id) DO NOTHING
RETURNING id, client_id, week_start_date, title, is_done, created_at, updated_at
`

type InsertWeeklyTaskParams struct {
	ClientID      sql.NullString
	WeekStartDate string
	Title         string
	CreatedAt     string
	UpdatedAt     string
}

// InsertWeeklyTask returns sql.ErrNoRows when client_id is already taken.
func (q *Queries) InsertWeeklyTask(ctx context.Context, arg InsertWeeklyTaskParams) (WeeklyTask, error) {
	row := q.db.QueryRowContext(ctx, insertWeeklyTask,
		arg.ClientID,
		arg.WeekStartDate,
		arg.Title,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var i WeeklyTask
	err := row.Scan(
		&i.ID,
		&i.ClientID,
		&i.WeekStartDate,
		&i.Title,
		&i.IsDone,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const setWeeklyTaskDone = `-- name: SetWeeklyTaskDone :exec
UPDATE weekly_tasks
SET is_done = ?, updated_at = ?
WHERE id = ?
`

type SetWeeklyTaskDoneParams struct {
	IsDone    int64
	UpdatedAt string
	ID        int64
}

func (q *Queries) SetWeeklyTaskDone(ctx context.Context, arg SetWeeklyTaskDoneParams) error {
	_, err := q.db.ExecContext(ctx, setWeeklyTaskDone, arg.IsDone, arg.UpdatedAt, arg.ID)
	return err
}

const deleteWeeklyTask = `-- name: DeleteWeeklyTask :exec
DELETE FROM weekly_tasks
WHERE id = ?
`

func (q *Queries) DeleteWeeklyTask(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteWeeklyTask, id)
	return err
}
