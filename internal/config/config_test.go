package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		StreamURL:           "rtsp://camera/main",
		BufferSeconds:       5,
		IncidentQueueSize:   16,
		ReconnectBackoffMin: 100 * time.Millisecond,
		ReconnectBackoffMax: 30 * time.Second,
		ReconnectJitterPct:  20,
		ImageQuality:        95,
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "STREAM_ID", "STREAM_URL", "CONTEXT_URL", "REALTIME", "BUFFER_SECONDS",
		"RECONNECT_BACKOFF_MIN", "RECONNECT_BACKOFF_MAX", "IMAGE_QUALITY", "INCIDENTS_SUBJECT",
		"PREVIEW_FPS", "TRIGGERS_SUBJECT",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("NATS_URL", "nats://example:4222")

	cfg := Load()

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "stream-1", cfg.StreamID)
	assert.Empty(t, cfg.StreamURL)
	assert.Empty(t, cfg.ContextURL)
	assert.True(t, cfg.Realtime)
	assert.Equal(t, 5.0, cfg.BufferSeconds)
	assert.Equal(t, 100*time.Millisecond, cfg.ReconnectBackoffMin)
	assert.Equal(t, 30*time.Second, cfg.ReconnectBackoffMax)
	assert.Equal(t, 95, cfg.ImageQuality)
	assert.Equal(t, "incidents", cfg.IncidentsSubject)
	assert.Equal(t, "triggers", cfg.TriggersSubject)
	assert.Equal(t, 5.0, cfg.PreviewFPS)
	assert.Equal(t, "nats://example:4222", cfg.NatsURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("STREAM_URL", "rtsp://camera/main")
	t.Setenv("CONTEXT_URL", "rtsp://camera/wide")
	t.Setenv("REALTIME", "false")
	t.Setenv("BUFFER_SECONDS", "2.5")
	t.Setenv("RECONNECT_BACKOFF_MIN", "250ms")
	t.Setenv("OUTPUT_WIDTH", "1280")
	t.Setenv("OUTPUT_HEIGHT", "720")

	cfg := Load()

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "rtsp://camera/main", cfg.StreamURL)
	assert.Equal(t, "rtsp://camera/wide", cfg.ContextURL)
	assert.False(t, cfg.Realtime)
	assert.Equal(t, 2.5, cfg.BufferSeconds)
	assert.Equal(t, 250*time.Millisecond, cfg.ReconnectBackoffMin)
	assert.Equal(t, 1280, cfg.OutputWidth)
	assert.Equal(t, 720, cfg.OutputHeight)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PORT", "eighty")
	t.Setenv("BUFFER_SECONDS", "five")
	t.Setenv("REALTIME", "maybe")
	t.Setenv("SHUTDOWN_TIMEOUT", "30")

	cfg := Load()

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, 5.0, cfg.BufferSeconds)
	assert.True(t, cfg.Realtime)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		message string
	}{
		{"missing stream url", func(c *Config) { c.StreamURL = "" }, "STREAM_URL"},
		{"zero buffer", func(c *Config) { c.BufferSeconds = 0 }, "BUFFER_SECONDS"},
		{"negative buffer", func(c *Config) { c.BufferSeconds = -1 }, "BUFFER_SECONDS"},
		{"oversized buffer", func(c *Config) { c.BufferSeconds = 1e13 }, "BUFFER_SECONDS must be at most 600"},
		{"empty queue", func(c *Config) { c.IncidentQueueSize = 0 }, "INCIDENT_QUEUE_SIZE"},
		{"inverted backoff", func(c *Config) { c.ReconnectBackoffMax = time.Millisecond }, "backoff"},
		{"jitter", func(c *Config) { c.ReconnectJitterPct = 150 }, "RECONNECT_JITTER_PCT"},
		{"quality", func(c *Config) { c.ImageQuality = 0 }, "IMAGE_QUALITY"},
		{"negative preview rate", func(c *Config) { c.PreviewFPS = -1 }, "PREVIEW_FPS"},
		{"half output size", func(c *Config) { c.OutputWidth = 640 }, "OUTPUT_WIDTH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.StreamURL = ""
	cfg.BufferSeconds = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STREAM_URL")
	assert.Contains(t, err.Error(), "BUFFER_SECONDS")
}
