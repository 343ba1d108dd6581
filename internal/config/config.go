package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"incident-worker-go/internal/buffer"
)

type Config struct {
	// Application
	Version     string
	Environment string
	WorkerID    string
	Port        int
	LogLevel    string

	// Logdy (lightweight web log viewer)
	LogdyEnabled bool
	LogdyHost    string
	LogdyPort    int

	// Stream sources
	// StreamURL feeds the processing loop; ContextURL (optional) feeds the incident buffer
	StreamID        string
	StreamURL       string
	ContextURL      string
	Realtime        bool
	ContextRealtime bool

	// Incident buffer: seconds retained before and after a trigger
	BufferSeconds     float64
	IncidentQueueSize int

	// Backoff/Jitter config for reconnections
	ReconnectBackoffMin time.Duration
	ReconnectBackoffMax time.Duration
	ReconnectJitterPct  int

	// Decoded frame size (0 keeps the source size)
	OutputWidth  int
	OutputHeight int

	// JPEG quality (1-100) for incident key frames, previews and source thumbnails
	ImageQuality int

	// MJPEG preview rate per stream, 0 disables /streams/:id/preview
	PreviewFPS float64

	// Zones document (lanes, crosswalks, roi, traffic light), optional
	ZonesFile string

	// NATS (for incident publishing)
	// Default: nats://localhost:4222 (works with Docker Compose setup)
	// Docker: Use nats://nats:4222 if running worker in Docker
	NatsEnabled        bool
	NatsURL            string
	NatsConnectTimeout time.Duration
	NatsReconnectWait  time.Duration
	NatsMaxReconnects  int
	NatsDrainTimeout   time.Duration // For graceful shutdown

	// Incidents via NATS, published on <IncidentsSubject>.<stream id>
	IncidentsSubject string
	// Trigger requests from external detectors arrive on <TriggersSubject>.<stream id>
	TriggersSubject string

	// Swagger Configuration
	SwaggerHost string

	// Graceful Shutdown
	ShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found or error loading .env file, using environment variables and defaults")
	} else {
		log.Info().Msg("Loaded configuration from .env file")
	}

	return &Config{
		// Application
		Version:     getEnv("VERSION", "1.0.0"),
		Environment: getEnv("ENVIRONMENT", "development"),
		WorkerID:    getEnv("WORKER_ID", "worker-1"),
		Port:        getEnvInt("PORT", 8000),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Logdy (lightweight web log viewer)
		LogdyEnabled: getEnvBool("LOGDY_ENABLED", false),
		LogdyHost:    getEnv("LOGDY_HOST", "localhost"),
		LogdyPort:    getEnvInt("LOGDY_PORT", 8080),

		// Stream sources
		StreamID:        getEnv("STREAM_ID", "stream-1"),
		StreamURL:       getEnv("STREAM_URL", ""),
		ContextURL:      getEnv("CONTEXT_URL", ""),
		Realtime:        getEnvBool("REALTIME", true),
		ContextRealtime: getEnvBool("CONTEXT_REALTIME", true),

		// Incident buffer
		BufferSeconds:     getEnvFloat("BUFFER_SECONDS", 5),
		IncidentQueueSize: getEnvInt("INCIDENT_QUEUE_SIZE", 16),

		// Backoff/Jitter
		ReconnectBackoffMin: getEnvDuration("RECONNECT_BACKOFF_MIN", 100*time.Millisecond),
		ReconnectBackoffMax: getEnvDuration("RECONNECT_BACKOFF_MAX", 30*time.Second),
		ReconnectJitterPct:  getEnvInt("RECONNECT_JITTER_PCT", 20),

		// Decoded frame size
		OutputWidth:  getEnvInt("OUTPUT_WIDTH", 0),
		OutputHeight: getEnvInt("OUTPUT_HEIGHT", 0),

		ImageQuality: getEnvInt("IMAGE_QUALITY", 95),
		PreviewFPS:   getEnvFloat("PREVIEW_FPS", 5),

		ZonesFile: getEnv("ZONES_FILE", ""),

		// NATS (configured for Docker Compose setup)
		NatsEnabled:        getEnvBool("NATS_ENABLED", true),
		NatsURL:            getNatsURL(),
		NatsConnectTimeout: getEnvDuration("NATS_CONNECT_TIMEOUT", 10*time.Second),
		NatsReconnectWait:  getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		NatsMaxReconnects:  getEnvInt("NATS_MAX_RECONNECTS", -1), // -1 = unlimited
		NatsDrainTimeout:   getEnvDuration("NATS_DRAIN_TIMEOUT", 5*time.Second),

		IncidentsSubject: getEnv("INCIDENTS_SUBJECT", "incidents"),
		TriggersSubject:  getEnv("TRIGGERS_SUBJECT", "triggers"),

		// Swagger Configuration
		SwaggerHost: getEnv("SWAGGER_HOST", "localhost"),

		// Graceful Shutdown
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

// Validate rejects settings the worker cannot start with
func (c *Config) Validate() error {
	var errs []error

	if c.StreamURL == "" {
		errs = append(errs, errors.New("STREAM_URL is required"))
	}
	if c.BufferSeconds <= 0 {
		errs = append(errs, fmt.Errorf("BUFFER_SECONDS must be positive, got %g", c.BufferSeconds))
	} else if c.BufferSeconds > buffer.MaxSeconds {
		errs = append(errs, fmt.Errorf("BUFFER_SECONDS must be at most %d, got %g", buffer.MaxSeconds, c.BufferSeconds))
	}
	if c.IncidentQueueSize < 1 {
		errs = append(errs, fmt.Errorf("INCIDENT_QUEUE_SIZE must be at least 1, got %d", c.IncidentQueueSize))
	}
	if c.ReconnectBackoffMin <= 0 || c.ReconnectBackoffMax < c.ReconnectBackoffMin {
		errs = append(errs, fmt.Errorf("invalid reconnect backoff range %s..%s", c.ReconnectBackoffMin, c.ReconnectBackoffMax))
	}
	if c.ReconnectJitterPct < 0 || c.ReconnectJitterPct > 100 {
		errs = append(errs, fmt.Errorf("RECONNECT_JITTER_PCT must be within 0..100, got %d", c.ReconnectJitterPct))
	}
	if c.ImageQuality < 1 || c.ImageQuality > 100 {
		errs = append(errs, fmt.Errorf("IMAGE_QUALITY must be within 1..100, got %d", c.ImageQuality))
	}
	if c.PreviewFPS < 0 {
		errs = append(errs, fmt.Errorf("PREVIEW_FPS must not be negative, got %g", c.PreviewFPS))
	}
	if (c.OutputWidth == 0) != (c.OutputHeight == 0) || c.OutputWidth < 0 || c.OutputHeight < 0 {
		errs = append(errs, fmt.Errorf("OUTPUT_WIDTH and OUTPUT_HEIGHT must both be set or both be 0, got %dx%d", c.OutputWidth, c.OutputHeight))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Helper functions for Docker environment detection
func isRunningInDocker() bool {
	// Check for Docker-specific environment indicators
	if os.Getenv("DOCKER_CONTAINER") == "true" {
		return true
	}

	// Check for .dockerenv file
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	return false
}

// getNatsURL returns the appropriate NATS URL based on environment
func getNatsURL() string {
	if envURL := os.Getenv("NATS_URL"); envURL != "" {
		return envURL
	}

	// If running in Docker, use service name; otherwise use localhost
	if isRunningInDocker() {
		return "nats://nats:4222"
	}

	return "nats://localhost:4222"
}
