package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"journal-coach/internal/journal"
)

// ErrUnknownTool is returned by Call for a name outside the catalog.
var ErrUnknownTool = errors.New("unknown tool")

// Reply is the outcome of a successful tool call: an optional message for
// the user and the dashboard as it stands after the call.
type Reply struct {
	Message   string
	Dashboard *journal.Snapshot
}

type handlerFunc func(ctx context.Context, args map[string]any) (*Reply, error)

// Dispatcher routes tool calls to the journal service and always answers
// with a freshly built dashboard. It holds no per-call state.
type Dispatcher struct {
	svc      *journal.Service
	agg      *journal.Aggregator
	logger   journal.Logger
	handlers map[string]handlerFunc
}

// NewDispatcher creates a Dispatcher over the given service and aggregator.
func NewDispatcher(svc *journal.Service, agg *journal.Aggregator, logger journal.Logger) *Dispatcher {
	d := &Dispatcher{svc: svc, agg: agg, logger: logger}
	d.handlers = map[string]handlerFunc{
		ToolLoadDashboard:     d.loadDashboard,
		ToolGetDiaryByDate:    d.getDiaryByDate,
		ToolSaveDiary:         d.saveDiary,
		ToolGenerateDiaryTags: d.generateDiaryTags,
		ToolAddTodo:           d.addTodo,
		ToolSetTodoDone:       d.setTodoDone,
		ToolDeleteTodo:        d.deleteTodo,
		ToolAddWeeklyTask:     d.addWeeklyTask,
		ToolSetWeeklyTaskDone: d.setWeeklyTaskDone,
		ToolDeleteWeeklyTask:  d.deleteWeeklyTask,
		ToolRunAnalysis:       d.runAnalysis,
		ToolSaveAnalysis:      d.saveAnalysis,
	}
	return d
}

// Call runs the tool called name. Errors are a *journal.ValidationError
// (nothing was changed), a *journal.StorageError, a *journal.RenderError
// or ErrUnknownTool. A panic inside a handler is reported as a RenderError.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]any) (reply *Reply, err error) {
	h, ok := d.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			reply = nil
			err = &journal.RenderError{Op: name, Err: fmt.Errorf("panic: %v", r)}
		}
		if err != nil {
			d.logger.Warn("tool call failed", "tool", name, "error", err)
			return
		}
		d.logger.Info("tool call", "tool", name, "duration", time.Since(start))
	}()

	return h(ctx, args)
}

// render finishes every call: the dashboard for viewDate plus this call's
// overlays only.
func (d *Dispatcher) render(ctx context.Context, viewDate, message string, draft *journal.AnalysisDraft, suggestions *journal.Suggestions) (*Reply, error) {
	snap, err := d.agg.Build(ctx, journal.BuildParams{
		ViewDate:    viewDate,
		Draft:       draft,
		Suggestions: suggestions,
	})
	if err != nil {
		return nil, err
	}
	return &Reply{Message: message, Dashboard: snap}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (d *Dispatcher) loadDashboard(ctx context.Context, raw map[string]any) (*Reply, error) {
	var args viewArgs
	if err := decode(raw, &args); err != nil {
		return nil, err
	}
	return d.render(ctx, args.ViewDate, "", nil, nil)
}

func (d *Dispatcher) getDiaryByDate(ctx context.Context, raw map[string]any) (*Reply, error) {
	var args diaryByDateArgs
	if err := decode(raw, &args); err != nil {
		return nil, err
	}
	return d.render(ctx, args.Date, "", nil, nil)
}

func (d *Dispatcher) saveDiary(ctx context.Context, raw map[string]any) (*Reply, error) {
	var args saveDiaryArgs
	if err := decode(raw, &args); err != nil {
		return nil, err
	}
	if _, err := d.svc.SaveDiary(ctx, args.Date, args.Content, args.Tags); err != nil {
		return nil, err
	}
	return d.render(ctx, firstNonEmpty(args.ViewDate, args.Date), "Diary saved.", nil, nil)
}

func (d *Dispatcher) generateDiaryTags(ctx context.Context, raw map[string]any) (*Reply, error) {
	var args diaryTagsArgs
	if err := decode(raw, &args); err != nil {
		return nil, err
	}
	tags := d.svc.SuggestTags(args.Content)
	return d.render(ctx, args.ViewDate, "", nil, &journal.Suggestions{DiaryTags: tags})
}

func (d *Dispatcher) addTodo(ctx context.Context, raw map[string]any) (*Reply, error) {
	var args addTodoArgs
	if err := decode(raw, &args); err != nil {
		return nil, err
	}
	if _, _, err := d.svc.AddTodo(ctx, args.Title, args.ClientID); err != nil {
		return nil, err
	}
	return d.render(ctx, args.ViewDate, "Todo added.", nil, nil)
}

func (d *Dispatcher) setTodoDone(ctx context.Context, raw map[string]any) (*Reply, error) {
	var args setDoneArgs
	if err := decode(raw, &args); err != nil {
		return nil, err
	}
	if err := d.svc.SetTodoDone(ctx, args.ID, *args.IsDone); err != nil {
		return nil, err
	}
	return d.render(ctx, args.ViewDate, "", nil, nil)
}

func (d *Dispatcher) deleteTodo(ctx context.Context, raw map[string]any) (*Reply, error) {
	var args deleteArgs
	if err := decode(raw, &args); err != nil {
		return nil, err
	}
	if err := d.svc.DeleteTodo(ctx, args.ID); err != nil {
		return nil, err
	}
	return d.render(ctx, args.ViewDate, "Todo deleted.", nil, nil)
}

func (d *Dispatcher) addWeeklyTask(ctx context.Context, raw map[string]any) (*Reply, error) {
	var args addWeeklyTaskArgs
	if err := decode(raw, &args); err != nil {
		return nil, err
	}
	week, err := d.svc.ResolveWeekStart(args.WeekStartDate, args.ViewDate)
	if err != nil {
		return nil, err
	}
	if _, _, err := d.svc.AddWeeklyTask(ctx, week, args.Title, args.ClientID); err != nil {
		return nil, err
	}
	return d.render(ctx, args.ViewDate, "Weekly task added.", nil, nil)
}

func (d *Dispatcher) setWeeklyTaskDone(ctx context.Context, raw map[string]any) (*Reply, error) {
	var args setDoneArgs
	if err := decode(raw, &args); err != nil {
		return nil, err
	}
	if err := d.svc.SetWeeklyTaskDone(ctx, args.ID, *args.IsDone); err != nil {
		return nil, err
	}
	return d.render(ctx, args.ViewDate, "", nil, nil)
}

func (d *Dispatcher) deleteWeeklyTask(ctx context.Context, raw map[string]any) (*Reply, error) {
	var args deleteArgs
	if err := decode(raw, &args); err != nil {
		return nil, err
	}
	if err := d.svc.DeleteWeeklyTask(ctx, args.ID); err != nil {
		return nil, err
	}
	return d.render(ctx, args.ViewDate, "Weekly task deleted.", nil, nil)
}

func (d *Dispatcher) runAnalysis(ctx context.Context, raw map[string]any) (*Reply, error) {
	var args runAnalysisArgs
	if err := decode(raw, &args); err != nil {
		return nil, err
	}
	draft, err := d.svc.RunAnalysis(ctx, journal.PeriodType(args.PeriodType), args.StartDate)
	if err != nil {
		return nil, err
	}
	return d.render(ctx, firstNonEmpty(args.ViewDate, args.StartDate), "", draft, nil)
}

func (d *Dispatcher) saveAnalysis(ctx context.Context, raw map[string]any) (*Reply, error) {
	var args saveAnalysisArgs
	if err := decode(raw, &args); err != nil {
		return nil, err
	}
	_, err := d.svc.SaveAnalysis(ctx, journal.AnalysisInput{
		PeriodType: journal.PeriodType(args.PeriodType),
		StartDate:  args.StartDate,
		EndDate:    args.EndDate,
		Summary:    args.Summary,
	})
	if err != nil {
		return nil, err
	}
	return d.render(ctx, firstNonEmpty(args.ViewDate, args.StartDate), "Analysis saved.", nil, nil)
}
