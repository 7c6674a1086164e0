package studio

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Lumos-Labs-HQ/flashcharts/internal/analytics"
	"github.com/Lumos-Labs-HQ/flashcharts/internal/config"
	"github.com/Lumos-Labs-HQ/flashcharts/internal/database"
	"github.com/Lumos-Labs-HQ/flashcharts/internal/studio/common"
)

const sweepInterval = time.Minute

type Server struct {
	app     *fiber.App
	service *Service
	limiter *rateLimiter
	logger  *slog.Logger
	port    int
	idle    time.Duration

	stopOnce sync.Once
	stop     chan struct{}
}

// NewServer wires the analytics API around an already connected adapter.
func NewServer(cfg *config.Config, adapter database.DatabaseAdapter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	dialect := adapter.Dialect()
	if cfg.Analytics.IntegerCast != nil {
		dialect = dialect.WithIntegerCast(*cfg.Analytics.IntegerCast)
	}
	pipeline := analytics.NewPipeline(dialect, adapter, logger,
		analytics.WithQueryTimeout(cfg.Analytics.QueryTimeout),
	)

	server := &Server{
		service: NewService(adapter, pipeline, cfg.Analytics.MaxSessions, logger),
		limiter: newRateLimiter(cfg.Analytics.RateLimit.RequestsPerSecond, cfg.Analytics.RateLimit.Burst),
		logger:  logger,
		port:    cfg.Studio.Port,
		idle:    cfg.Analytics.SessionIdleTimeout,
		stop:    make(chan struct{}),
	}
	server.app = common.NewApp("flashcharts", server.handleError)
	server.setupRoutes()
	return server
}

// App exposes the underlying Fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) setupRoutes() {
	s.app.Use(requestID())
	s.app.Use(requestLogger(s.logger))

	db := s.app.Group("/database")
	db.Get("/tables", s.handleGetTables)
	db.Get("/tables/:name/columns", s.handleGetTableColumns)

	api := s.app.Group("/analytics", s.limiter.handler())
	api.Post("/aggregate", s.handleAggregate)
}

func (s *Server) Start(openBrowser bool) error {
	go s.janitor()
	return common.StartServer(s.app, &s.port, "flashcharts studio", openBrowser)
}

func (s *Server) Shutdown() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return s.app.Shutdown()
}

// janitor periodically drops idle sessions and rate limiters.
func (s *Server) janitor() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.service.Sweep(s.idle)
			s.limiter.sweep(10 * time.Minute)
		}
	}
}
