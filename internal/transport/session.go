package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"

	"journal-coach/internal/journal"
	"journal-coach/internal/tools"
)

// Sessions hands out a request-scoped MCP handler. The handler is only
// valid inside fn; everything built for it is released when With returns.
type Sessions interface {
	With(ctx context.Context, fn func(h http.Handler) error) error
}

// SessionFactory builds a fresh dispatcher and MCP server for every inbound
// HTTP request. Nothing is shared between requests except the store.
type SessionFactory struct {
	svc     *journal.Service
	agg     *journal.Aggregator
	logger  journal.Logger
	version string
}

var _ Sessions = (*SessionFactory)(nil)

func NewSessionFactory(svc *journal.Service, agg *journal.Aggregator, logger journal.Logger, version string) *SessionFactory {
	return &SessionFactory{svc: svc, agg: agg, logger: logger, version: version}
}

// With runs fn against a stateless streamable-HTTP MCP handler. It fails
// without calling fn when the factory is not wired or ctx is already done,
// and turns a panic while building or serving the session into an error.
func (f *SessionFactory) With(ctx context.Context, fn func(h http.Handler) error) (err error) {
	if f.svc == nil || f.agg == nil {
		return errors.New("opening session: journal service not configured")
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("opening session: %w", err)
	}

	id := uuid.NewString()
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if r == http.ErrAbortHandler {
			panic(r)
		}
		err = fmt.Errorf("session %s: panic: %v", id, r)
	}()

	d := tools.NewDispatcher(f.svc, f.agg, f.logger)
	mcpServer := tools.NewServer(d, f.version)
	h := server.NewStreamableHTTPServer(mcpServer, server.WithStateLess(true))

	f.logger.Debug("session opened", "session", id)
	defer f.logger.Debug("session closed", "session", id)

	return fn(h)
}
