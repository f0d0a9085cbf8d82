package journal

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Options configures a Service. Zero values select the defaults.
type Options struct {
	// Location is the time zone "today" is computed in. Defaults to UTC.
	Location *time.Location
	Tags     TagPolicy
	Analysis AnalysisPolicy
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Tags == nil {
		o.Tags = NewKeywordTagger(nil)
	}
	if o.Analysis == nil {
		o.Analysis = TemplateAnalyzer{}
	}
	return o
}

// Service performs the journal mutations and policy runs. Every method
// performs at most one write.
type Service struct {
	store    Store
	clock    Clock
	logger   Logger
	tags     TagPolicy
	analysis AnalysisPolicy
	location *time.Location
}

// NewService creates a new Service with the provided dependencies.
func NewService(store Store, clock Clock, logger Logger, opts Options) *Service {
	opts = opts.withDefaults()
	return &Service{
		store:    store,
		clock:    clock,
		logger:   logger,
		tags:     opts.Tags,
		analysis: opts.Analysis,
		location: opts.Location,
	}
}

// SaveDiary replaces the diary entry for date. Tags beyond MaxTags are
// dropped.
func (s *Service) SaveDiary(ctx context.Context, date, content string, tags []string) (*DiaryEntry, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, Invalid("date", "%v", err)
	}
	kept := make([]string, 0, MaxTags)
	for _, t := range tags {
		if len(kept) == MaxTags {
			break
		}
		if strings.TrimSpace(t) == "" {
			return nil, Invalid("tags", "tags must not be blank")
		}
		kept = append(kept, t)
	}

	entry, err := s.store.UpsertDiary(ctx, DiaryInput{Date: date, Content: content, Tags: kept})
	if err != nil {
		return nil, storageErr("save diary", err)
	}

	s.logger.Info("diary saved", "date", date, "tags", len(kept))
	return entry, nil
}

// SuggestTags runs the tag policy on content. Nothing is stored.
func (s *Service) SuggestTags(content string) []string {
	return s.tags.SuggestTags(content)
}

// AddTodo creates a todo. If clientID is set and a todo was already created
// with it, that todo is returned instead and created is false.
func (s *Service) AddTodo(ctx context.Context, title, clientID string) (todo *Todo, created bool, err error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, false, Invalid("title", "must not be empty")
	}

	if clientID != "" {
		existing, err := s.store.FindTodoByClientID(ctx, clientID)
		if err != nil {
			return nil, false, storageErr("find todo", err)
		}
		if existing != nil {
			s.logger.Debug("todo already exists", "client_id", clientID, "id", existing.ID)
			return existing, false, nil
		}
	}

	todo, err = s.store.InsertTodo(ctx, title, clientID)
	if err != nil {
		return nil, false, storageErr("add todo", err)
	}

	s.logger.Info("todo added", "id", todo.ID)
	return todo, true, nil
}

// SetTodoDone marks a todo done or not done. An unknown id is a no-op.
func (s *Service) SetTodoDone(ctx context.Context, id int64, done bool) error {
	if id <= 0 {
		return Invalid("id", "must be a positive integer")
	}
	if err := s.store.SetTodoDone(ctx, id, done); err != nil {
		return storageErr("update todo", err)
	}
	s.logger.Info("todo updated", "id", id, "done", done)
	return nil
}

// DeleteTodo removes a todo. An unknown id is a no-op.
func (s *Service) DeleteTodo(ctx context.Context, id int64) error {
	if id <= 0 {
		return Invalid("id", "must be a positive integer")
	}
	if err := s.store.DeleteTodo(ctx, id); err != nil {
		return storageErr("delete todo", err)
	}
	s.logger.Info("todo deleted", "id", id)
	return nil
}

// ResolveWeekStart picks the week a weekly task belongs to: the week of
// weekStartDate when given, otherwise the week of viewDate, otherwise the
// current week.
func (s *Service) ResolveWeekStart(weekStartDate, viewDate string) (string, error) {
	if weekStartDate != "" {
		d, err := ParseDate(weekStartDate)
		if err != nil {
			return "", Invalid("weekStartDate", "%v", err)
		}
		return FormatDate(WeekStart(d)), nil
	}
	d, err := resolveDate(s.clock, s.location, viewDate)
	if err != nil {
		return "", err
	}
	return FormatDate(WeekStart(d)), nil
}

// AddWeeklyTask creates a task in the week starting at weekStartDate, which
// must already be normalized. The clientID rule is the same as AddTodo.
func (s *Service) AddWeeklyTask(ctx context.Context, weekStartDate, title, clientID string) (task *WeeklyTask, created bool, err error) {
	d, err := ParseDate(weekStartDate)
	if err != nil {
		return nil, false, Invalid("weekStartDate", "%v", err)
	}
	if !WeekStart(d).Equal(d) {
		return nil, false, Invalid("weekStartDate", "%s is not the first day of a week", weekStartDate)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, false, Invalid("title", "must not be empty")
	}

	if clientID != "" {
		existing, err := s.store.FindWeeklyTaskByClientID(ctx, clientID)
		if err != nil {
			return nil, false, storageErr("find weekly task", err)
		}
		if existing != nil {
			s.logger.Debug("weekly task already exists", "client_id", clientID, "id", existing.ID)
			return existing, false, nil
		}
	}

	task, err = s.store.InsertWeeklyTask(ctx, weekStartDate, title, clientID)
	if err != nil {
		return nil, false, storageErr("add weekly task", err)
	}

	s.logger.Info("weekly task added", "id", task.ID, "week", weekStartDate)
	return task, true, nil
}

// SetWeeklyTaskDone marks a weekly task done or not done. An unknown id is a
// no-op.
func (s *Service) SetWeeklyTaskDone(ctx context.Context, id int64, done bool) error {
	if id <= 0 {
		return Invalid("id", "must be a positive integer")
	}
	if err := s.store.SetWeeklyTaskDone(ctx, id, done); err != nil {
		return storageErr("update weekly task", err)
	}
	s.logger.Info("weekly task updated", "id", id, "done", done)
	return nil
}

// DeleteWeeklyTask removes a weekly task. An unknown id is a no-op.
func (s *Service) DeleteWeeklyTask(ctx context.Context, id int64) error {
	if id <= 0 {
		return Invalid("id", "must be a positive integer")
	}
	if err := s.store.DeleteWeeklyTask(ctx, id); err != nil {
		return storageErr("delete weekly task", err)
	}
	s.logger.Info("weekly task deleted", "id", id)
	return nil
}

// RunAnalysis summarizes the diaries of the period starting at startDate.
// The draft is returned, not saved.
func (s *Service) RunAnalysis(ctx context.Context, p PeriodType, startDate string) (*AnalysisDraft, error) {
	if !p.Valid() {
		return nil, Invalid("periodType", "must be %q or %q", PeriodWeek, PeriodMonth)
	}
	start, err := ParseDate(startDate)
	if err != nil {
		return nil, Invalid("startDate", "%v", err)
	}
	end, err := PeriodEnd(p, start)
	if err != nil {
		return nil, &RenderError{Op: "period end", Err: err}
	}
	endDate := FormatDate(end)

	entries, err := s.store.ListDiariesInRange(ctx, startDate, endDate)
	if err != nil {
		return nil, storageErr("list diaries", err)
	}

	draft := &AnalysisDraft{
		PeriodType: p,
		StartDate:  startDate,
		EndDate:    endDate,
		Summary:    s.analysis.Summarize(p, startDate, endDate, entries),
	}
	s.logger.Debug("analysis drafted", "period", p, "start", startDate, "end", endDate, "entries", len(entries))
	return draft, nil
}

// SaveAnalysis stores a summary under its natural key. Saving the same key
// again replaces the summary.
func (s *Service) SaveAnalysis(ctx context.Context, in AnalysisInput) (*Analysis, error) {
	if !in.PeriodType.Valid() {
		return nil, Invalid("periodType", "must be %q or %q", PeriodWeek, PeriodMonth)
	}
	if _, err := ParseDate(in.StartDate); err != nil {
		return nil, Invalid("startDate", "%v", err)
	}
	if _, err := ParseDate(in.EndDate); err != nil {
		return nil, Invalid("endDate", "%v", err)
	}
	if strings.TrimSpace(in.Summary) == "" {
		return nil, Invalid("summary", "must not be empty")
	}

	saved, err := s.store.UpsertAnalysis(ctx, in)
	if err != nil {
		return nil, storageErr("save analysis", err)
	}

	s.logger.Info("analysis saved", "id", saved.ID, "period", fmt.Sprintf("%s %s..%s", in.PeriodType, in.StartDate, in.EndDate))
	return saved, nil
}
