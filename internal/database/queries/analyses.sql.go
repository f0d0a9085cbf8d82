package queries

import "context"

const upsertAnalysis = `-- name: UpsertAnalysis :one
INSERT INTO analyses (period_type, start_date, end_date, summary, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (period_type, start_date, end_date) DO UPDATE SET
    summary = excluded.summary
RETURNING id, period_type, start_date, end_date, summary, created_at
`

type UpsertAnalysisParams struct {
	PeriodType string
	StartDate  string
	EndDate    string
	Summary    string
	CreatedAt  string
}

func (q *Queries) UpsertAnalysis(ctx context.Context, arg UpsertAnalysisParams) (Analysis, error) {
	row := q.db.QueryRowContext(ctx, upsertAnalysis,
		arg.PeriodType,
		arg.StartDate,
		arg.EndDate,
		arg.Summary,
		arg.CreatedAt,
	)
	var i Analysis
	err := row.Scan(
		&i.ID,
		&i.PeriodType,
		&i.StartDate,
		&i.EndDate,
		&i.Summary,
		&i.CreatedAt,
	)
	return i, err
}

const listLatestAnalyses = `-- name: ListLatestAnalyses :many
SELECT id, period_type, start_date, end_date, summary, created_at
FROM analyses
ORDER BY created_at DESC, id DESC
LIMIT ?
`

func (q *Queries) ListLatestAnalyses(ctx context.Context, limit int64) ([]Analysis, error) {
	rows, err := q.db.QueryContext(ctx, listLatestAnalyses, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Analysis
	for rows.Next() {
		var i Analysis
		if err := rows.Scan(
			&i.ID,
			&i.PeriodType,
			&i.StartDate,
			&i.EndDate,
			&i.Summary,
			&i.CreatedAt,
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
