package journal

import (
	"context"
	"time"
)

// HistoryLimit is the number of saved analyses shown on the dashboard.
const HistoryLimit = 30

// BuildParams are the inputs of a dashboard build. Draft and Suggestions
// are overlays produced by the current call; they are never persisted.
type BuildParams struct {
	// ViewDate seeds the view. Empty means today.
	ViewDate    string
	Draft       *AnalysisDraft
	Suggestions *Suggestions
}

// Aggregator builds dashboard snapshots from the store. It holds no state of
// its own; two builds without an intervening write return the same snapshot
// as long as the date does not change.
type Aggregator struct {
	store    Store
	clock    Clock
	location *time.Location
	logger   Logger
}

// NewAggregator creates an aggregator. A nil location means UTC.
func NewAggregator(store Store, clock Clock, location *time.Location, logger Logger) *Aggregator {
	if location == nil {
		location = time.UTC
	}
	return &Aggregator{
		store:    store,
		clock:    clock,
		location: location,
		logger:   logger,
	}
}

// ResolveDate returns viewDate, validated, or today's date when it is empty.
func (a *Aggregator) ResolveDate(viewDate string) (time.Time, error) {
	return resolveDate(a.clock, a.location, viewDate)
}

func resolveDate(clock Clock, loc *time.Location, viewDate string) (time.Time, error) {
	if viewDate == "" {
		return Today(clock, loc), nil
	}
	d, err := ParseDate(viewDate)
	if err != nil {
		return time.Time{}, Invalid("viewDate", "%v", err)
	}
	return d, nil
}

// Build resolves the view and reads every collection the dashboard shows.
func (a *Aggregator) Build(ctx context.Context, params BuildParams) (*Snapshot, error) {
	day, err := a.ResolveDate(params.ViewDate)
	if err != nil {
		return nil, err
	}
	view := View{
		Date:          FormatDate(day),
		WeekStartDate: FormatDate(WeekStart(day)),
	}

	diary, err := a.store.DiaryByDate(ctx, view.Date)
	if err != nil {
		return nil, &RenderError{Op: "load diary", Err: err}
	}

	todos, err := a.store.ListTodos(ctx)
	if err != nil {
		return nil, &RenderError{Op: "list todos", Err: err}
	}

	tasks, err := a.store.ListWeeklyTasks(ctx, view.WeekStartDate)
	if err != nil {
		return nil, &RenderError{Op: "list weekly tasks", Err: err}
	}

	history, err := a.store.LatestAnalyses(ctx, HistoryLimit)
	if err != nil {
		return nil, &RenderError{Op: "list analyses", Err: err}
	}

	snap := &Snapshot{
		View:            view,
		Diary:           diary,
		Todos:           nonNil(todos),
		WeeklyTasks:     nonNil(tasks),
		AnalysisDraft:   params.Draft,
		AnalysisHistory: nonNil(history),
		Suggestions:     params.Suggestions,
	}

	a.logger.Debug("built dashboard",
		"date", view.Date,
		"todos", len(snap.Todos),
		"weekly_tasks", len(snap.WeeklyTasks),
		"analyses", len(snap.AnalysisHistory),
	)
	return snap, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

