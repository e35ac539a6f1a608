package ui

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"clasificador/adapters/excel"
	"clasificador/app"
	"clasificador/internal"
	"clasificador/internal/config"
	"clasificador/internal/usage"
)

// Server is the HTTP front of the classifier: one upload runs one batch.
type Server struct {
	router   *gin.Engine
	cfg      config.ServerConfig
	pipeline *app.Pipeline
	reader   *excel.DataReader
	slots    *semaphore.Weighted
	logger   *internal.Logger
	usage    *usage.Service
	now      func() time.Time
}

// ServerOption customizes a Server.
type ServerOption func(*Server)

// WithUsage exposes classifier usage counters on GET /usage.
func WithUsage(svc *usage.Service) ServerOption {
	return func(s *Server) { s.usage = svc }
}

// NewServer creates a new web server instance
func NewServer(cfg config.ServerConfig, pipeline *app.Pipeline, logger *internal.Logger, opts ...ServerOption) *Server {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	if cfg.MaxConcurrentBatches < 1 {
		cfg.MaxConcurrentBatches = 1
	}
	if cfg.MaxUploadMB < 1 {
		cfg.MaxUploadMB = 32
	}

	s := &Server{
		router:   gin.New(),
		cfg:      cfg,
		pipeline: pipeline,
		reader:   excel.NewDataReader(logger),
		slots:    semaphore.NewWeighted(cfg.MaxConcurrentBatches),
		logger:   logger.Named("ui"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router.MaxMultipartMemory = cfg.MaxUploadBytes()
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	if s.usage != nil {
		s.router.GET("/usage", s.handleUsage)
	}
	s.router.POST("/process-excel", s.handleProcessExcel)

	api := s.router.Group("/api")
	api.POST("/process-excel", s.handleProcessExcel)
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
// Batches are long: the shutdown grace covers a full upload.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
