package tools

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"journal-coach/internal/journal"
)

// ServerName is reported to MCP clients during initialization.
const ServerName = "journal-coach"

const instructions = `Journal Coach keeps a personal diary, a todo list, weekly tasks and period analyses.
Every tool returns the full dashboard for the viewed date in structuredContent; render it instead of
asking for the data again. Dates are YYYY-MM-DD and weeks start on Sunday. Pass a clientId to
add_todo and add_weekly_task so that a retried call does not create a duplicate. run_analysis only
drafts a summary; call save_analysis with the draft when the user wants to keep it.`

const genericFailure = "The request could not be completed. Please try again."

const datePattern = `^\d{4}-\d{2}-\d{2}$`

// NewServer returns an MCP server exposing the catalog backed by d.
func NewServer(d *Dispatcher, version string) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	Register(s, d)
	return s
}

// Register adds every catalog tool to s.
func Register(s *server.MCPServer, d *Dispatcher) {
	for _, info := range catalog {
		s.AddTool(definition(info), d.handler(info.Name))
	}
}

func (d *Dispatcher) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := req.Params.Arguments.(map[string]any)
		reply, err := d.Call(ctx, name, args)
		if err != nil {
			return errorResult(err), nil
		}
		return toResult(reply), nil
	}
}

func toResult(reply *Reply) *mcp.CallToolResult {
	content := []mcp.Content{}
	if reply.Message != "" {
		content = append(content, mcp.NewTextContent(reply.Message))
	}
	return &mcp.CallToolResult{
		Content:           content,
		StructuredContent: reply.Dashboard,
	}
}

// errorResult exposes validation reasons to the caller. Anything else is
// reported generically; the cause has already been logged by Call.
func errorResult(err error) *mcp.CallToolResult {
	var ve *journal.ValidationError
	if errors.As(err, &ve) || errors.Is(err, ErrUnknownTool) {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(genericFailure)
}

func definition(info ToolInfo) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(info.Description),
		mcp.WithTitleAnnotation(info.Title),
		mcp.WithReadOnlyHintAnnotation(info.ReadOnly),
		mcp.WithDestructiveHintAnnotation(info.Destructive),
		mcp.WithIdempotentHintAnnotation(info.Idempotent),
		mcp.WithOpenWorldHintAnnotation(false),
		dateParam("viewDate", false, "Date the dashboard is shown for. Defaults to today."),
	}
	return mcp.NewTool(info.Name, append(opts, params(info.Name)...)...)
}

func params(name string) []mcp.ToolOption {
	switch name {
	case ToolGetDiaryByDate:
		return []mcp.ToolOption{dateParam("date", true, "Date of the diary entry.")}
	case ToolSaveDiary:
		return []mcp.ToolOption{
			dateParam("date", true, "Date of the diary entry."),
			mcp.WithString("content", mcp.Description("Diary text. Replaces any existing text for the date.")),
			mcp.WithArray("tags",
				mcp.Description("Up to 5 non-empty tags."),
				mcp.Items(map[string]any{"type": "string", "minLength": 1}),
			),
		}
	case ToolGenerateDiaryTags:
		return []mcp.ToolOption{
			mcp.WithString("content", mcp.Description("Diary text to suggest tags for.")),
		}
	case ToolAddTodo:
		return []mcp.ToolOption{
			mcp.WithString("title", mcp.Required(), mcp.MinLength(1), mcp.Description("Todo title.")),
			clientIDParam(),
		}
	case ToolSetTodoDone, ToolSetWeeklyTaskDone:
		return []mcp.ToolOption{
			idParam(),
			mcp.WithBoolean("isDone", mcp.Required(), mcp.Description("New completion state.")),
		}
	case ToolDeleteTodo, ToolDeleteWeeklyTask:
		return []mcp.ToolOption{idParam()}
	case ToolAddWeeklyTask:
		return []mcp.ToolOption{
			dateParam("weekStartDate", false, "Any date in the target week; it is moved to the week's Sunday."),
			mcp.WithString("title", mcp.Required(), mcp.MinLength(1), mcp.Description("Task title.")),
			clientIDParam(),
		}
	case ToolRunAnalysis:
		return []mcp.ToolOption{
			periodParam(),
			dateParam("startDate", true, "First day of the period."),
		}
	case ToolSaveAnalysis:
		return []mcp.ToolOption{
			periodParam(),
			dateParam("startDate", true, "First day of the period."),
			dateParam("endDate", true, "Last day of the period."),
			mcp.WithString("summary", mcp.Required(), mcp.MinLength(1), mcp.Description("Summary text, usually the draft from run_analysis.")),
		}
	default:
		return nil
	}
}

func dateParam(name string, required bool, desc string) mcp.ToolOption {
	opts := []mcp.PropertyOption{mcp.Pattern(datePattern), mcp.Description(desc + " Format YYYY-MM-DD.")}
	if required {
		opts = append(opts, mcp.Required())
	}
	return mcp.WithString(name, opts...)
}

func idParam() mcp.ToolOption {
	return mcp.WithNumber("id", mcp.Required(), mcp.Min(1), mcp.Description("Item id from the dashboard."))
}

func clientIDParam() mcp.ToolOption {
	return mcp.WithString("clientId", mcp.Description("Caller-chosen token; repeating it returns the existing item instead of adding another."))
}

func periodParam() mcp.ToolOption {
	return mcp.WithString("periodType", mcp.Required(), mcp.Enum(string(journal.PeriodWeek), string(journal.PeriodMonth)), mcp.Description("Length of the period."))
}
