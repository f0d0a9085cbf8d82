package transport

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"journal-coach/internal/config"
	"journal-coach/internal/journal"
	"journal-coach/internal/testutil"
	"journal-coach/internal/tools"
)

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()
	clock := testutil.FixedClock()
	store := testutil.NewTestStore(t, clock)
	logger := journal.NewNopLogger()
	svc := journal.NewService(store, clock, logger, journal.Options{})
	agg := journal.NewAggregator(store, clock, nil, logger)

	cfg := config.NewConfig(t.TempDir()).Server
	return NewHTTPServer(cfg, NewSessionFactory(svc, agg, logger, "test"), logger)
}

func serve(t *testing.T, s *HTTPServer, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func rpc(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	return req
}

func TestHTTPServer_Routes(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"health", http.MethodGet, "/", http.StatusOK, HealthText},
		{"unknown path", http.MethodGet, "/nope", http.StatusNotFound, "Not Found"},
		{"unknown nested path", http.MethodPost, "/api/mcp", http.StatusNotFound, "Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, s, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestHTTPServer_Preflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/mcp", nil)
	req.Header.Set("Origin", "https://chat.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "content-type, mcp-session-id")

	rec := serve(t, s, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
	allowed := strings.ToLower(rec.Header().Get("Access-Control-Allow-Headers"))
	for _, h := range []string{"content-type", "mcp-session-id"} {
		if !strings.Contains(allowed, h) {
			t.Errorf("Allow-Headers = %q, missing %s", allowed, h)
		}
	}
}

func TestHTTPServer_ExposesSessionHeader(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://chat.example.com")
	rec := serve(t, s, req)

	if got := rec.Header().Get("Access-Control-Expose-Headers"); !strings.EqualFold(got, "Mcp-Session-Id") {
		t.Errorf("Expose-Headers = %q", got)
	}
}

func TestHTTPServer_Initialize(t *testing.T) {
	s := newTestServer(t)

	rec := serve(t, s, rpc(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"journal-coach"`) {
		t.Errorf("initialize response does not name the server: %s", rec.Body.String())
	}
}

func TestHTTPServer_ToolCallsShareStore(t *testing.T) {
	s := newTestServer(t)

	rec := serve(t, s, rpc(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"add_todo","arguments":{"title":"buy milk"}}}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("add_todo status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Todo added.") {
		t.Errorf("add_todo response = %s", rec.Body.String())
	}

	// A second request gets a new session but sees the same data.
	rec = serve(t, s, rpc(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"load_dashboard","arguments":{}}}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("load_dashboard status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "buy milk") {
		t.Errorf("load_dashboard response = %s", rec.Body.String())
	}
}

type failingSessions struct{}

func (failingSessions) With(context.Context, func(http.Handler) error) error {
	return errors.New("boom")
}

func TestHTTPServer_SessionFailure(t *testing.T) {
	cfg := config.NewConfig(t.TempDir()).Server
	s := NewHTTPServer(cfg, failingSessions{}, journal.NewNopLogger())

	rec := serve(t, s, rpc(`{}`))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if rec.Body.String() != "Internal server error" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestHTTPServer_ListenAndServeStopsOnCancel(t *testing.T) {
	cfg := config.NewConfig(t.TempDir()).Server
	cfg.Addr = "127.0.0.1:0"
	s := NewHTTPServer(cfg, failingSessions{}, journal.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.ListenAndServe(ctx); err != nil {
		t.Errorf("ListenAndServe() after cancel = %v", err)
	}
}

func TestServeStdio(t *testing.T) {
	clock := testutil.FixedClock()
	store := testutil.NewTestStore(t, clock)
	logger := journal.NewNopLogger()
	svc := journal.NewService(store, clock, logger, journal.Options{})
	agg := journal.NewAggregator(store, clock, nil, logger)

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		inW.Close()
		outR.Close()
	})

	go ServeStdio(ctx, tools.NewDispatcher(svc, agg, logger), "test", inR, outW, nil)

	go func() {
		io.WriteString(inW, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"add_todo","arguments":{"title":"stdio todo"}}}`+"\n")
	}()

	line, err := bufio.NewReader(outR).ReadString('\n')
	if err != nil {
		t.Fatalf("reading response: %v", err)
	}
	if !strings.Contains(line, "Todo added.") {
		t.Errorf("response = %s", line)
	}

	todos, err := store.ListTodos(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(todos) != 1 || todos[0].Title != "stdio todo" {
		t.Errorf("todos = %+v", todos)
	}
}
