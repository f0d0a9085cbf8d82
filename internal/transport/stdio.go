package transport

import (
	"context"
	"io"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"journal-coach/internal/tools"
)

// ServeStdio serves one MCP session over in/out until ctx is cancelled or
// in is closed. Protocol errors go to errLog; out carries only protocol
// messages.
func ServeStdio(ctx context.Context, d *tools.Dispatcher, version string, in io.Reader, out io.Writer, errLog *log.Logger) error {
	stdio := server.NewStdioServer(tools.NewServer(d, version))
	if errLog != nil {
		stdio.SetErrorLogger(errLog)
	}
	return stdio.Listen(ctx, in, out)
}
