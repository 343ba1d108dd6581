package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"incident-worker-go/internal/config"
)

type Service struct {
	conn   *nats.Conn
	cfg    *config.Config
	log    zerolog.Logger
	closed chan struct{}
}

func NewService(cfg *config.Config) (*Service, error) {
	s := &Service{
		cfg:    cfg,
		log:    log.With().Str("service", "messaging").Logger(),
		closed: make(chan struct{}),
	}

	opts := []nats.Option{
		nats.Name("incident-worker-" + cfg.WorkerID),
		nats.Timeout(cfg.NatsConnectTimeout),
		nats.ReconnectWait(cfg.NatsReconnectWait),
		nats.MaxReconnects(cfg.NatsMaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			s.log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			s.log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			close(s.closed)
		}),
	}

	conn, err := nats.Connect(cfg.NatsURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NatsURL, err)
	}
	s.conn = conn

	s.log.Info().Str("url", cfg.NatsURL).Msg("NATS connection established")
	return s, nil
}

// Publish sends data as JSON
func (s *Service) Publish(subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	return s.conn.Publish(subject, payload)
}

// Subscribe delivers raw message payloads together with the concrete subject
func (s *Service) Subscribe(subject string, handler func(subject string, data []byte)) (*nats.Subscription, error) {
	return s.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
}

func (s *Service) IsConnected() bool {
	return s.conn != nil && s.conn.IsConnected()
}

// Shutdown drains subscriptions and pending publishes, bounded by ctx and the
// configured drain timeout
func (s *Service) Shutdown(ctx context.Context) error {
	if s.conn == nil {
		return nil
	}

	if err := s.conn.Drain(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to drain NATS connection gracefully, closing immediately")
		s.conn.Close()
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.NatsDrainTimeout)
	defer cancel()

	select {
	case <-s.closed:
		s.log.Info().Msg("NATS connection drained")
	case <-ctx.Done():
		s.log.Warn().Msg("NATS drain timed out, closing immediately")
		s.conn.Close()
	}
	return nil
}
