package queries

import (
	"context"
	"database/sql"
)

const insertBackupRun = `-- name: InsertBackupRun :one
INSERT INTO backup_runs (started_at, operation, parameters, status)
VALUES (?, ?, ?, 'running')
RETURNING id, started_at, finished_at, operation, parameters, status
`

type InsertBackupRunParams struct {
	StartedAt  string
	Operation  string
	Parameters string
}

func (q *Queries) InsertBackupRun(ctx context.Context, arg InsertBackupRunParams) (BackupRun, error) {
	row := q.db.QueryRowContext(ctx, insertBackupRun, arg.StartedAt, arg.Operation, arg.Parameters)
	var i BackupRun
	err := row.Scan(
		&i.ID,
		&i.StartedAt,
		&i.FinishedAt,
		&i.Operation,
		&i.Parameters,
		&i.Status,
	)
	return i, err
}

const finishBackupRun = `-- name: FinishBackupRun :exec
UPDATE backup_runs
SET finished_at = ?, status = ?
WHERE id = ?
`

type FinishBackupRunParams struct {
	FinishedAt sql.NullString
	Status     string
	ID         int64
}

func (q *Queries) FinishBackupRun(ctx context.Context, arg FinishBackupRunParams) error {
	_, err := q.db.ExecContext(ctx, finishBackupRun, arg.FinishedAt, arg.Status, arg.ID)
	return err
}

const listBackupRuns = `-- name: ListBackupRuns :many
SELECT id, started_at, finished_at, operation, parameters, status
FROM backup_runs
ORDER BY id DESC
LIMIT ?
`

func (q *Queries) ListBackupRuns(ctx context.Context, limit int64) ([]BackupRun, error) {
	rows, err := q.db.QueryContext(ctx, listBackupRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BackupRun
	for rows.Next() {
		var i BackupRun
		if err := rows.Scan(
			&i.ID,
			&i.StartedAt,
			&i.FinishedAt,
			&i.Operation,
			&i.Parameters,
			&i.Status,
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
