package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"incident-worker-go/internal/api/handlers"
	"incident-worker-go/internal/config"
	"incident-worker-go/internal/stream"
)

type Server struct {
	config *config.Config
	router *gin.Engine
	server *http.Server

	healthHandler  *handlers.HealthHandler
	streamHandler  *handlers.StreamHandler
	sourceHandler  *handlers.SourceHandler
	systemHandler  *handlers.SystemHandler
	previewHandler *handlers.PreviewHandler
}

// Dependencies are the optional collaborators of the API. Messaging and
// Preview may be nil when NATS or the preview are disabled.
type Dependencies struct {
	Checker   handlers.SourceChecker
	Messaging handlers.ConnectionChecker
	Preview   handlers.Previewer
}

// NewServer builds the HTTP API
func NewServer(cfg *config.Config, manager *stream.Manager, deps Dependencies) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		config:         cfg,
		router:         gin.New(),
		healthHandler:  handlers.NewHealthHandler(cfg.WorkerID, cfg.Version, deps.Messaging),
		streamHandler:  handlers.NewStreamHandler(manager),
		sourceHandler:  handlers.NewSourceHandler(deps.Checker),
		systemHandler:  handlers.NewSystemHandler(cfg.WorkerID, manager),
		previewHandler: handlers.NewPreviewHandler(manager, deps.Preview),
	}

	s.setupMiddleware()
	s.setupRoutes()
	s.setupSwagger()

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	log.Info().Int("port", s.config.Port).Msg("Starting incident worker API")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Stopping incident worker API")
	return s.server.Shutdown(ctx)
}
