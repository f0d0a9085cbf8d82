package queries

import (
	"context"
	"database/sql"
)

const getDiaryByDate = `-- name: GetDiaryByDate :one
SELECT id, date, content, tag1, tag2, tag3, tag4, tag5, created_at, updated_at
FROM diaries
WHERE date = ?
`

func (q *Queries) GetDiaryByDate(ctx context.Context, date string) (Diary, error) {
	row := q.db.QueryRowContext(ctx, getDiaryByDate, date)
	var i Diary
	err := row.Scan(
		&i.ID,
		&i.Date,
		&i.Content,
		&i.Tag1,
		&i.Tag2,
		&i.Tag3,
		&i.Tag4,
		&i.Tag5,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertDiary = `-- name: UpsertDiary :one
INSERT INTO diaries (date, content, tag1, tag2, tag3, tag4, tag5, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (date) DO UPDATE SET
    content = excluded.content,
    tag1 = excluded.tag1,
    tag2 = excluded.tag2,
    tag3 = excluded.tag3,
    tag4 = excluded.tag4,
    tag5 = excluded.tag5,
    updated_at = excluded.updated_at
RETURNING id, date, content, tag1, tag2, tag3, tag4, tag5, created_at, updated_at
`

type UpsertDiaryParams struct {
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

func (q *Queries) UpsertDiary(ctx context.Context, arg UpsertDiaryParams) (Diary, error) {
	row := q.db.QueryRowContext(ctx, upsertDiary,
		arg.Date,
		arg.Content,
		arg.Tag1,
		arg.Tag2,
		arg.Tag3,
		arg.Tag4,
		arg.Tag5,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var i Diary
	err := row.Scan(
		&i.ID,
		&i.Date,
		&i.Content,
		&i.Tag1,
		&i.Tag2,
		&i.Tag3,
		&i.Tag4,
		&i.Tag5,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listDiariesInRange = `-- name: ListDiariesInRange :many
SELECT id, date, content, tag1, tag2, tag3, tag4, tag5, created_at, updated_at
FROM diaries
WHERE date >= ? AND date <= ?
ORDER BY date ASC
`

type ListDiariesInRangeParams struct {
	StartDate string
	EndDate   string
}

func (q *Queries) ListDiariesInRange(ctx context.Context, arg ListDiariesInRangeParams) ([]Diary, error) {
	rows, err := q.db.QueryContext(ctx, listDiariesInRange, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Diary
	for rows.Next() {
		var i Diary
		if err := rows.Scan(
			&i.ID,
			&i.Date,
			&i.Content,
			&i.Tag1,
			&i.Tag2,
			&i.Tag3,
			&i.Tag4,
			&i.Tag5,
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
