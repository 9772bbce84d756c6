// Package web serves the single analysis page and its JSON counterpart.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/phux/phishcheck/app"
)

const sessionCookie = "phishcheck_session"

var ErrMissingAnalyzer = errors.New("web server requires an analyzer")

type analyzer interface {
	Analyze(context.Context, string) (*app.Result, error)
}

// Options configures the web server.
type Options struct {
	Analyzer   analyzer
	Logger     *slog.Logger
	SessionTTL time.Duration
	Debug      bool
}

// Server bundles the gin engine with the per-browser sessions it renders.
type Server struct {
	engine   *gin.Engine
	sessions *sessionStore
	logger   *slog.Logger
}

// New constructs a gin engine with recovery, request logging, CORS and the
// page, API and health routes.
func New(opts Options) (*Server, error) {
	if opts.Analyzer == nil {
		return nil, ErrMissingAnalyzer
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(loggingMiddleware(logger))
	engine.SetHTMLTemplate(pageTemplate)

	s := &Server{
		engine: engine,
		sessions: newSessionStore(ttl, func() *app.Session {
			return app.NewSession(opts.Analyzer)
		}),
		logger: logger,
	}

	engine.GET("/", s.handleIndex)
	engine.POST("/analyze", s.handleAnalyzeForm)
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	api.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))
	api.POST("/analyze", s.handleAnalyzeAPI)
	// preflights are answered by the cors middleware before this runs
	api.OPTIONS("/analyze", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web: listen on %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// session returns the caller's session, issuing a cookie for new visitors.
func (s *Server) session(c *gin.Context) *app.Session {
	id, _ := c.Cookie(sessionCookie)
	session, id, created := s.sessions.get(id)
	if created {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
	}

	return session
}

func (s *Server) logOutcome(input string, result *app.Result, err error) {
	switch {
	case err == nil:
		s.logger.Info("analysis finished", "url", input, "verdict", result.Verdict, "findings", len(result.Findings))
	case errors.Is(err, app.ErrEmptyURL), errors.Is(err, app.ErrBusy):
		s.logger.Debug("submission rejected", "url", input, "error", err)
	default:
		s.logger.Warn("analysis failed", "url", input, "error", err)
	}
}

func loggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info(
			"http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
