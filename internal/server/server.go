// Package server exposes the dashboard and the JSON API for the assistant
// operations.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"smartsdlc/internal/assistant"
	"smartsdlc/internal/config"
	"smartsdlc/internal/session"
)

const (
	maxBodyBytes        = 1 << 20  // 1 MiB for JSON bodies
	maxUploadBytes      = 10 << 20 // 10 MiB for PDF uploads
	shutdownGracePeriod = 10 * time.Second
	readTimeout         = 30 * time.Second
	writeTimeout        = 90 * time.Second
	idleTimeout         = 120 * time.Second
)

//go:embed templates/*.html
var templateFS embed.FS

type Server struct {
	cfg      config.Config
	asst     assistant.Assistant
	sessions *session.Store
	app      *echo.Echo
	address  string
}

// New constructs an HTTP server wired with routing and middleware.
func New(cfg config.Config, asst assistant.Assistant, sessions *session.Store) (*Server, error) {
	if asst == nil {
		return nil, errors.New("assistant must not be nil")
	}
	if sessions == nil {
		return nil, errors.New("session store must not be nil")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apiErrorHandler

	pages, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse dashboard templates: %w", err)
	}
	e.Renderer = &pageRenderer{templates: pages}

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogLatency: true,
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"error", v.Error,
			)
			return nil
		},
	}))
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
	}))

	srv := &Server{
		cfg:      cfg,
		asst:     asst,
		sessions: sessions,
		app:      e,
		address:  fmt.Sprintf(":%d", cfg.Server.Port),
	}

	srv.registerRoutes()

	return srv, nil
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	slog.Info("starting server", "addr", s.address, "client", s.cfg.Watsonx.Client, "model", s.cfg.Watsonx.ModelID)

	httpServer := &http.Server{
		Addr:         s.address,
		Handler:      s.app,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.app.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		if err := s.app.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		slog.Info("server shutdown complete")
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) registerRoutes() {
	s.app.GET("/", s.handleDashboard)
	s.app.GET("/health", s.handleHealth)
	s.app.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.app.Group("/api/v1")
	api.POST("/code", s.handleGenerateCode)
	api.POST("/tests", s.handleGenerateTests)
	api.POST("/fixes", s.handleFixBugs)
	api.POST("/summary", s.handleSummarize)
	api.POST("/classify", s.handleClassify)
	api.POST("/chat", s.handleChat)
}

type pageRenderer struct {
	templates *template.Template
}

func (r *pageRenderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
