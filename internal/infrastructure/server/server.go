package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/stationfiles/internal/api/http"
	"github.com/GriffinCanCode/stationfiles/internal/api/middleware"
	"github.com/GriffinCanCode/stationfiles/internal/domain/station"
	"github.com/GriffinCanCode/stationfiles/internal/infrastructure/config"
	"github.com/GriffinCanCode/stationfiles/internal/infrastructure/logging"
	"github.com/GriffinCanCode/stationfiles/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/stationfiles/internal/infrastructure/playback"
	"github.com/GriffinCanCode/stationfiles/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/stationfiles/internal/infrastructure/security"
	"github.com/GriffinCanCode/stationfiles/internal/infrastructure/store"
	"github.com/GriffinCanCode/stationfiles/internal/infrastructure/tracing"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	http    *http.Server
	store   *store.SQLite
	tracer  *tracing.Tracer
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing station file manager",
		zap.String("addr", cfg.Addr()),
		zap.String("stations", cfg.Stations.BaseDir),
		zap.String("db", cfg.Store.Path),
	)

	// Initialize metrics first (needed by other components)
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(registry)

	tracer := tracing.New("stationfiles", logger)

	db, err := store.Open(cfg.Store.Path)
	if err != nil {
		tracer.Close()
		return nil, fmt.Errorf("failed to open metadata store: %w", err)
	}
	logger.Info("Metadata store ready", zap.String("path", cfg.Store.Path))

	stations := station.NewDirectoryResolver(cfg.Stations.BaseDir, cfg.Stations.MediaDir)

	breakers := resilience.NewGroup(resilience.Settings{
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	opts := []playback.Option{
		playback.WithMetrics(metrics),
		playback.WithTracer(tracer),
		playback.WithBreakers(breakers),
	}
	if cfg.Playback.WebhookURL != "" {
		opts = append(opts, playback.WithNotifier(playback.NewNotifier(playback.NotifierConfig{
			URL:     cfg.Playback.WebhookURL,
			Retries: cfg.Playback.WebhookRetries,
		}, logger)))
		logger.Info("Playback reload webhook enabled", zap.String("url", cfg.Playback.WebhookURL))
	}
	writer, err := playback.NewWriter(playback.Config{
		Dir:    cfg.Playback.Dir,
		Format: cfg.Playback.Format,
	}, db, stations, logger, opts...)
	if err != nil {
		db.Close()
		tracer.Close()
		return nil, fmt.Errorf("failed to create playback writer: %w", err)
	}

	csrf, err := security.NewCSRF(cfg.Security.CSRFSecret, cfg.Security.CSRFTTL)
	if err != nil {
		db.Close()
		tracer.Close()
		return nil, err
	}
	if cfg.Security.CSRFSecret == "" {
		logger.Warn("CSRF_SECRET not set, tokens will not survive a restart")
	}

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	handlers := apihttp.NewHandlers(stations, db, writer, csrf, metrics, logger, apihttp.Options{
		Marker:         cfg.Stations.Marker,
		FlattenInclude: cfg.Batch.FlattenInclude,
		UploadMax:      cfg.Limits.UploadMax(),
		TokenScope:     security.ScopeFiles,
	})

	// Register routes
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))

	handlers.Register(
		router.Group("", middleware.BodyLimit(cfg.Limits.PostMax())),
		middleware.CSRF(csrf, security.ScopeFiles, logger),
	)

	logger.Info("Server initialized successfully",
		zap.Int64("post_max", cfg.Limits.PostMax()),
		zap.Int64("upload_max", cfg.Limits.UploadMax()),
	)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           gzhttp.GzipHandler(router),
			ReadHeaderTimeout: 10 * time.Second,
		},
		store:   db,
		tracer:  tracer,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

// Handler returns the compressed root handler
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run starts the HTTP server and blocks until it stops. A graceful shutdown
// returns nil.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx ends
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server...")
	return s.http.Shutdown(ctx)
}

// Close releases the store and tracer and flushes the logger
func (s *Server) Close() error {
	s.tracer.Close()

	var err error
	if cerr := s.store.Close(); cerr != nil {
		s.logger.Error("Failed to close metadata store", zap.Error(cerr))
		err = fmt.Errorf("failed to close metadata store: %w", cerr)
	}

	// Sync logger before exit
	_ = s.logger.Sync()
	return err
}
