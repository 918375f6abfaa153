package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mindfiredigital/PivotHead-sub001/config"
	"github.com/mindfiredigital/PivotHead-sub001/recommend"
)

// ============================================================================
// HTTP ADAPTER — JSON endpoints over profile, recommend, engine and sampler
// ============================================================================
// Routes:
//   GET  /healthz
//   POST /profile              pivot state → profile
//   POST /recommend            pivot state → profile + ranked charts
//   POST /chart-data/:type     pivot state → chart data (or table/text)
//   POST /sample               values → sampled values
//   POST /analyze              pivot state → recommendations + chart, in parallel
//   POST /upload               CSV/XLSX file → schema + state + recommendations
//
// Bad input answers 400 with {"error": "..."}. Nothing is persisted.
// ============================================================================

const shutdownTimeout = 10 * time.Second

// Server serves the chart pipeline over HTTP.
type Server struct {
	cfg         *config.Config
	logger      *zap.Logger
	recommender *recommend.Engine
	router      *gin.Engine
}

// NewServer builds the router. Thresholds come from cfg.RulesFile when set.
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	thresholds, err := cfg.Thresholds()
	if err != nil {
		return nil, fmt.Errorf("failed to load thresholds: %w", err)
	}

	s := &Server{
		cfg:    cfg,
		logger: logger.Named("api"),
		recommender: recommend.NewEngine(
			recommend.WithThresholds(thresholds),
			recommend.WithLogger(logger),
		),
	}
	s.router = s.setupRouter()
	return s, nil
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLogger(s.logger))
	r.Use(bodyLimit(s.cfg.Server.MaxBodyBytes))

	r.GET("/healthz", s.handleHealth)
	r.POST("/profile", s.handleProfile)
	r.POST("/recommend", s.handleRecommend)
	r.POST("/chart-data/:type", s.handleChartData)
	r.POST("/sample", s.handleSample)
	r.POST("/analyze", s.handleAnalyze)
	r.POST("/upload", s.handleUpload)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
