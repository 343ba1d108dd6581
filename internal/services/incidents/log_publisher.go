package incidents

import (
	"github.com/rs/zerolog"

	"incident-worker-go/internal/models"
)

// LogPublisher writes incidents to the log instead of a broker. Used when NATS is disabled.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: logger}
}

func (p *LogPublisher) Publish(subject string, data interface{}) error {
	e := p.log.Info().Str("subject", subject)
	if payload, ok := data.(*models.IncidentPayload); ok {
		e = e.Str("incident_id", payload.IncidentID).
			Str("reason", payload.Reason).
			Int("frame_count", payload.FrameCount).
			Interface("metadata", payload.Metadata)
	}
	e.Msg("Incident not sent, NATS is disabled")
	return nil
}
