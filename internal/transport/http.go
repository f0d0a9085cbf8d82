package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"journal-coach/internal/config"
	"journal-coach/internal/journal"
)

// HealthText is the body of GET /.
const HealthText = "Journal Coach MCP server"

const shutdownTimeout = 10 * time.Second

// HTTPServer serves the MCP endpoint and a health check.
type HTTPServer struct {
	engine   *gin.Engine
	srv      *http.Server
	sessions Sessions
	logger   journal.Logger
}

func NewHTTPServer(cfg config.ServerConfig, sessions Sessions, logger journal.Logger) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)

	s := &HTTPServer{
		engine:   gin.New(),
		sessions: sessions,
		logger:   logger,
	}

	r := s.engine
	r.Use(gin.Recovery(), accessLog(logger))
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, HealthText)
	})

	path := cfg.MCPPath
	if path == "" {
		path = config.DefaultMCPPath
	}
	for _, method := range []string{http.MethodPost, http.MethodGet, http.MethodDelete} {
		r.Handle(method, path, s.handleMCP)
		r.Handle(method, path+"/*rest", s.handleMCP)
	}

	r.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "Not Found")
	})

	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

// ListenAndServe blocks until ctx is cancelled or the listener fails. On
// cancellation in-flight requests get shutdownTimeout to finish.
func (s *HTTPServer) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down")
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (s *HTTPServer) handleMCP(c *gin.Context) {
	err := s.sessions.With(c.Request.Context(), func(h http.Handler) error {
		h.ServeHTTP(c.Writer, c.Request)
		return nil
	})
	if err != nil {
		s.logger.Error("mcp session failed", "error", err)
		if !c.Writer.Written() {
			c.String(http.StatusInternalServerError, "Internal server error")
		}
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodPost, http.MethodGet, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Content-Type", "Mcp-Session-Id", "Mcp-Protocol-Version"},
		ExposeHeaders: []string{"Mcp-Session-Id"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func accessLog(logger journal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client", c.ClientIP(),
		)
	}
}
