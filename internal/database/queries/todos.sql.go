package queries

import (
	"context"
	"database/sql"
)

const listTodos = `-- name: ListTodos :many
SELECT id, client_id, title, is_done, created_at, updated_at
FROM todos
ORDER BY id DESC
`

func (q *Queries) ListTodos(ctx context.Context) ([]Todo, error) {
	rows, err := q.db.QueryContext(ctx, listTodos)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Todo
	for rows.Next() {
		var i Todo
		if err := rows.Scan(
			&i.ID,
			&i.ClientID,
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

const getTodoByClientID = `-- name: GetTodoByClientID :one
SELECT id, client_id, title, is_done, created_at, updated_at
FROM todos
WHERE client_id = ?
`

func (q *Queries) GetTodoByClientID(ctx context.Context, clientID sql.NullString) (Todo, error) {
	row := q.db.QueryRowContext(ctx, getTodoByClientID, clientID)
	var i Todo
	err := row.Scan(
		&i.ID,
		&i.ClientID,
		&i.Title,
		&i.IsDone,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertTodo = `-- name: InsertTodo :one
INSERT INTO todos (client_id, title, is_done, created_at, updated_at)
VALUES (?, ?, 0, ?, ?)
ON CONFLICT (client_id) DO NOTHING
RETURNING id, client_id, title, is_done, created_at, updated_at
`

type InsertTodoParams struct {
	ClientID  sql.NullString
	Title     string
	CreatedAt string
	UpdatedAt string
}

// InsertTodo returns sql.ErrNoRows when client_id is already taken.
func (q *Queries) InsertTodo(ctx context.Context, arg InsertTodoParams) (Todo, error) {
	row := q.db.QueryRowContext(ctx, insertTodo,
		arg.ClientID,
		arg.Title,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var i Todo
	err := row.Scan(
		&i.ID,
		&i.ClientID,
		&i.Title,
		&i.IsDone,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const setTodoDone = `-- name: SetTodoDone :exec
UPDATE todos
SET is_done = ?, updated_at = ?
WHERE id = ?
`

type SetTodoDoneParams struct {
	IsDone    int64
	UpdatedAt string
	ID        int64
}

func (q *Queries) SetTodoDone(ctx context.Context, arg SetTodoDoneParams) error {
	_, err := q.db.ExecContext(ctx, setTodoDone, arg.IsDone, arg.UpdatedAt, arg.ID)
	return err
}

const deleteTodo = `-- name: DeleteTodo :exec
DELETE FROM todos
WHERE id = ?
`

func (q *Queries) DeleteTodo(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteTodo, id)
	return err
}
