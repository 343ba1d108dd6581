package logging

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync/atomic"

	"github.com/logdyhq/logdy-core/logdy"
	"github.com/rs/zerolog/log"

	"incident-worker-go/internal/config"
)

// logdyWriter tees zerolog JSON events into the Logdy UI, one message per
// event line. Console formatting never reaches it, so Logdy can parse the
// fields of stream and incident logs.
type logdyWriter struct {
	send func(line string)
	sent atomic.Uint64
}

func newLogdyWriter(send func(line string)) *logdyWriter {
	return &logdyWriter{send: send}
}

func (w *logdyWriter) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(p, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		w.send(string(line))
		w.sent.Add(1)
	}
	return len(p), nil
}

func logdyAddress(cfg *config.Config) (string, error) {
	if cfg.LogdyPort <= 0 || cfg.LogdyPort > 65535 {
		return "", fmt.Errorf("invalid LOGDY_PORT %d", cfg.LogdyPort)
	}
	if cfg.LogdyPort == cfg.Port {
		return "", fmt.Errorf("LOGDY_PORT %d collides with the API port", cfg.LogdyPort)
	}
	host := cfg.LogdyHost
	if host == "" {
		host = "localhost"
	}
	return net.JoinHostPort(host, strconv.Itoa(cfg.LogdyPort)), nil
}

// StartLogdy starts the embedded Logdy web UI and returns a writer to tee logs into, plus the UI URL
func StartLogdy(cfg *config.Config) (io.Writer, string, error) {
	addr, err := logdyAddress(cfg)
	if err != nil {
		return nil, "", err
	}
	host, port, _ := net.SplitHostPort(addr)

	ld := logdy.InitializeLogdy(logdy.Config{
		ServerIp:   host,
		ServerPort: port,
	}, nil)

	url := "http://" + addr
	log.Info().Str("url", url).Msg("Logdy UI available")
	return newLogdyWriter(func(line string) { ld.LogString(line) }), url, nil
}
