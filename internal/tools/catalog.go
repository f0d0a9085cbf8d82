package tools

// ToolInfo describes one tool of the catalog. Invoking and Invoked are short
// status lines a host may show while and after the tool runs.
type ToolInfo struct {
	Name        string
	Title       string
	Description string
	Invoking    string
	Invoked     string

	ReadOnly    bool
	Destructive bool
	Idempotent  bool
}

// maxStatusLen bounds Invoking and Invoked.
const maxStatusLen = 64

const (
	ToolLoadDashboard     = "load_dashboard"
	ToolGetDiaryByDate    = "get_diary_by_date"
	ToolSaveDiary         = "save_diary"
	ToolGenerateDiaryTags = "generate_diary_tags"
	ToolAddTodo           = "add_todo"
	ToolSetTodoDone       = "set_todo_done"
	ToolDeleteTodo        = "delete_todo"
	ToolAddWeeklyTask     = "add_weekly_task"
	ToolSetWeeklyTaskDone = "set_weekly_task_done"
	ToolDeleteWeeklyTask  = "delete_weekly_task"
	ToolRunAnalysis       = "run_analysis"
	ToolSaveAnalysis      = "save_analysis"
)

var catalog = []ToolInfo{
	{
		Name:        ToolLoadDashboard,
		Title:       "Load dashboard",
		Description: "Use this when you need the latest dashboard data for a date.",
		Invoking:    "Loading dashboard...",
		Invoked:     "Dashboard loaded",
		ReadOnly:    true,
		Idempotent:  true,
	},
	{
		Name:        ToolGetDiaryByDate,
		Title:       "Get diary by date",
		Description: "Use this when you need to display the diary entry for a specific date.",
		Invoking:    "Loading diary...",
		Invoked:     "Diary loaded",
		ReadOnly:    true,
		Idempotent:  true,
	},
	{
		Name:        ToolSaveDiary,
		Title:       "Save diary",
		Description: "Use this when the user wants to create or update a diary entry for a date.",
		Invoking:    "Saving diary...",
		Invoked:     "Diary saved",
		Idempotent:  true,
	},
	{
		Name:        ToolGenerateDiaryTags,
		Title:       "Generate diary tags",
		Description: "Use this when the user wants tag suggestions for the current diary content.",
		Invoking:    "Suggesting tags...",
		Invoked:     "Tags suggested",
		ReadOnly:    true,
		Idempotent:  true,
	},
	{
		Name:        ToolAddTodo,
		Title:       "Add todo",
		Description: "Use this when the user wants to add a new todo item. Pass a clientId to make retries safe.",
		Invoking:    "Adding todo...",
		Invoked:     "Todo added",
	},
	{
		Name:        ToolSetTodoDone,
		Title:       "Set todo done",
		Description: "Use this when the widget toggles completion for a todo item.",
		Invoking:    "Updating status...",
		Invoked:     "Status updated",
		Idempotent:  true,
	},
	{
		Name:        ToolDeleteTodo,
		Title:       "Delete todo",
		Description: "Use this when the user explicitly wants to delete a todo item.",
		Invoking:    "Deleting todo...",
		Invoked:     "Todo deleted",
		Destructive: true,
		Idempotent:  true,
	},
	{
		Name:        ToolAddWeeklyTask,
		Title:       "Add weekly task",
		Description: "Use this when the user wants to add a task for a week. Defaults to the week of viewDate, or the current week.",
		Invoking:    "Adding weekly task...",
		Invoked:     "Weekly task added",
	},
	{
		Name:        ToolSetWeeklyTaskDone,
		Title:       "Set weekly task done",
		Description: "Use this when the widget toggles completion for a weekly task item.",
		Invoking:    "Updating status...",
		Invoked:     "Status updated",
		Idempotent:  true,
	},
	{
		Name:        ToolDeleteWeeklyTask,
		Title:       "Delete weekly task",
		Description: "Use this when the user explicitly wants to delete a weekly task.",
		Invoking:    "Deleting weekly task...",
		Invoked:     "Weekly task deleted",
		Destructive: true,
		Idempotent:  true,
	},
	{
		Name:        ToolRunAnalysis,
		Title:       "Run analysis",
		Description: "Use this when the user wants an analysis for a week or month. The result is a draft until save_analysis is called.",
		Invoking:    "Generating analysis...",
		Invoked:     "Analysis generated",
		ReadOnly:    true,
		Idempotent:  true,
	},
	{
		Name:        ToolSaveAnalysis,
		Title:       "Save analysis",
		Description: "Use this when the user confirms they want to save the analysis draft.",
		Invoking:    "Saving analysis...",
		Invoked:     "Analysis saved",
		Idempotent:  true,
	},
}

// Catalog returns the fixed tool catalog in registration order.
func Catalog() []ToolInfo {
	out := make([]ToolInfo, len(catalog))
	copy(out, catalog)
	return out
}
