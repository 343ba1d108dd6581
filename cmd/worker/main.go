package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"incident-worker-go/internal/api"
	"incident-worker-go/internal/api/handlers"
	"incident-worker-go/internal/capture"
	"incident-worker-go/internal/config"
	"incident-worker-go/internal/logging"
	"incident-worker-go/internal/models"
	"incident-worker-go/internal/services/incidents"
	"incident-worker-go/internal/services/messaging"
	"incident-worker-go/internal/services/publisher/mjpeg"
	"incident-worker-go/internal/services/streamcapture"
	"incident-worker-go/internal/stream"
	"incident-worker-go/internal/zones"
)

// @title Incident Worker API
// @version 1.0.0
// @description Captures video streams, keeps a rolling buffer per stream and publishes incident clips around triggers
// @BasePath /
func main() {
	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logging.Setup(cfg)

	log.Info().
		Str("worker_id", cfg.WorkerID).
		Str("version", cfg.Version).
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Str("stream_id", cfg.StreamID).
		Bool("context_camera", cfg.ContextURL != "").
		Bool("nats_enabled", cfg.NatsEnabled).
		Msg("Starting incident worker")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	var zoneCfg *zones.Config
	if cfg.ZonesFile != "" {
		var err error
		zoneCfg, err = zones.Load(cfg.ZonesFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.ZonesFile).Msg("Failed to load zones")
		}
	}

	captureSvc := streamcapture.NewService(cfg)

	// Incident transport
	var (
		publisher    incidents.Publisher = incidents.NewLogPublisher(logging.NewServiceLogger(cfg, "incidents"))
		messagingSvc *messaging.Service
		natsStatus   handlers.ConnectionChecker
	)
	if cfg.NatsEnabled {
		var err error
		messagingSvc, err = messaging.NewService(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to NATS")
		}
		publisher = messagingSvc
		natsStatus = messagingSvc
	}
	incidentSvc := incidents.NewService(cfg, publisher, captureSvc.EncodeDataURL)

	// Captures
	backoff := capture.Backoff{
		Min:       cfg.ReconnectBackoffMin,
		Max:       cfg.ReconnectBackoffMax,
		JitterPct: cfg.ReconnectJitterPct,
	}
	streamLog := logging.WithStream(logging.NewServiceLogger(cfg, "stream"), cfg.StreamID)

	primary := capture.New(cfg.StreamURL, captureSvc.Opener(), capture.Options{
		Realtime: cfg.Realtime,
		Backoff:  backoff,
		Logger:   &streamLog,
	})
	var contextCam stream.Source
	if cfg.ContextURL != "" {
		contextCam = capture.New(cfg.ContextURL, captureSvc.Opener(), capture.Options{
			Realtime: cfg.ContextRealtime,
			Backoff:  backoff,
			Logger:   &streamLog,
		})
	}

	var (
		preview   *mjpeg.Publisher
		previewer handlers.Previewer
	)
	if cfg.PreviewFPS > 0 {
		preview = mjpeg.NewPublisher(func(f *models.Frame) ([]byte, error) {
			return streamcapture.EncodeJPEG(f, cfg.ImageQuality)
		}, cfg.PreviewFPS)
		previewer = preview
	}

	manager := stream.NewManager()
	s := stream.New(stream.Config{
		ID:            cfg.StreamID,
		BufferSeconds: cfg.BufferSeconds,
		QueueSize:     cfg.IncidentQueueSize,
		Sink:          incidentSvc,
		Zones:         zoneCfg,
		OnDecode:      onDecode(streamLog, preview),
		Logger:        &streamLog,
	}, primary, contextCam)
	if err := manager.Add(s); err != nil {
		log.Fatal().Err(err).Msg("Failed to start stream")
	}

	// External detectors request incidents on <TriggersSubject>.<stream id>
	if messagingSvc != nil {
		trigger := func(streamID, reason string, metadata map[string]interface{}) (string, error) {
			st, err := manager.Get(streamID)
			if err != nil {
				return "", err
			}
			return st.Trigger(reason, metadata)
		}
		_, err := messagingSvc.Subscribe(incidentSvc.TriggerSubscription(), func(subject string, data []byte) {
			if _, err := incidentSvc.HandleTrigger(subject, data, trigger); err != nil {
				log.Warn().Err(err).Str("subject", subject).Msg("Trigger request rejected")
			}
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to subscribe to trigger requests")
		}
	}

	// Create and start server
	server := api.NewServer(cfg, manager, api.Dependencies{
		Checker:   captureSvc,
		Messaging: natsStatus,
		Preview:   previewer,
	})
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutdown signal received")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	manager.StopAll()

	if messagingSvc != nil {
		if err := messagingSvc.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to shutdown messaging")
		}
	}

	published, failed := incidentSvc.Stats()
	log.Info().
		Uint64("incidents_published", published).
		Uint64("incidents_failed", failed).
		Msg("Shutdown complete")
}

// onDecode feeds the preview and reports decode progress at debug level
// every 1000 frames. preview may be nil.
func onDecode(logger zerolog.Logger, preview *mjpeg.Publisher) stream.DecodeHandler {
	return func(f stream.Frame) {
		if preview != nil {
			if err := preview.PublishFrame(f.StreamID, f.Primary); err != nil {
				logger.Debug().Err(err).Msg("Preview frame dropped")
			}
		}

		if f.Number%1000 != 0 {
			return
		}
		logger.Debug().
			Uint64("frame", f.Number).
			Int("width", f.Primary.Width).
			Int("height", f.Primary.Height).
			Bool("context_frame", f.Context != nil).
			Msg("Decode progress")
	}
}
