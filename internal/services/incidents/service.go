package incidents

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"incident-worker-go/internal/config"
	"incident-worker-go/internal/models"
)

// Publisher sends a JSON document on a subject, usually the NATS messaging service
type Publisher interface {
	Publish(subject string, data interface{}) error
}

// FrameEncoder renders a frame as an image data URL
type FrameEncoder func(frame *models.Frame) (string, error)

// TriggerFunc schedules an incident on a stream and returns its ID
type TriggerFunc func(streamID, reason string, metadata map[string]interface{}) (string, error)

// Service publishes completed incidents and turns trigger messages into
// incident requests
type Service struct {
	publisher        Publisher
	encode           FrameEncoder
	incidentsSubject string
	triggersSubject  string
	log              zerolog.Logger

	published atomic.Uint64
	failed    atomic.Uint64
}

// NewService creates the incident service. encode may be nil, in which case
// payloads carry no key frame.
func NewService(cfg *config.Config, publisher Publisher, encode FrameEncoder) *Service {
	return &Service{
		publisher:        publisher,
		encode:           encode,
		incidentsSubject: cfg.IncidentsSubject,
		triggersSubject:  cfg.TriggersSubject,
		log:              log.With().Str("worker_id", cfg.WorkerID).Str("service", "incidents").Logger(),
	}
}

// Subject returns the subject incidents of a stream are published on
func (s *Service) Subject(streamID string) string {
	return s.incidentsSubject + "." + streamID
}

// TriggerSubscription returns the wildcard subject trigger requests arrive on
func (s *Service) TriggerSubscription() string {
	return s.triggersSubject + ".*"
}

// HandleIncident publishes a completed incident
func (s *Service) HandleIncident(incident *models.Incident) error {
	payload := s.BuildPayload(incident)

	if err := s.publisher.Publish(s.Subject(incident.StreamID), payload); err != nil {
		s.failed.Add(1)
		return fmt.Errorf("failed to publish incident %s: %w", incident.ID, err)
	}
	s.published.Add(1)

	s.log.Info().
		Str("incident_id", incident.ID).
		Str("stream_id", incident.StreamID).
		Int("frame_count", payload.FrameCount).
		Bool("key_frame", payload.KeyFrame != nil).
		Msg("Published incident")
	return nil
}

// BuildPayload converts an incident to its published form. Encoding failures
// only drop the key frame.
func (s *Service) BuildPayload(incident *models.Incident) *models.IncidentPayload {
	payload := &models.IncidentPayload{
		IncidentID:  incident.ID,
		StreamID:    incident.StreamID,
		Reason:      incident.Reason,
		TriggeredAt: incident.TriggeredAt,
		CompletedAt: incident.CompletedAt,
		FrameCount:  len(incident.Frames),
		Metadata:    incident.Metadata,
	}

	if n := len(incident.Frames); n > 0 {
		first := incident.Frames[0].CapturedAt
		last := incident.Frames[n-1].CapturedAt
		payload.FirstFrame = &first
		payload.LastFrame = &last
	}

	key := incident.KeyFrame()
	if key == nil {
		return payload
	}
	payload.Width = key.Width
	payload.Height = key.Height

	if s.encode != nil {
		dataURL, err := s.encode(key)
		if err != nil {
			s.log.Warn().
				Err(err).
				Str("incident_id", incident.ID).
				Msg("Failed to encode key frame, publishing without it")
		} else {
			payload.KeyFrame = &dataURL
		}
	}

	return payload
}

// HandleTrigger decodes a trigger request received on <triggers>.<stream id>
func (s *Service) HandleTrigger(subject string, data []byte, trigger TriggerFunc) (string, error) {
	streamID, ok := strings.CutPrefix(subject, s.triggersSubject+".")
	if !ok || streamID == "" || strings.Contains(streamID, ".") {
		return "", fmt.Errorf("unexpected trigger subject %q", subject)
	}

	var req models.TriggerRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return "", fmt.Errorf("invalid trigger request: %w", err)
	}
	if req.Reason == "" {
		return "", errors.New("invalid trigger request: reason is required")
	}

	id, err := trigger(streamID, req.Reason, req.Metadata)
	if err != nil {
		return "", err
	}

	s.log.Info().
		Str("stream_id", streamID).
		Str("incident_id", id).
		Str("reason", req.Reason).
		Msg("Incident triggered over NATS")
	return id, nil
}

// Stats returns publish counters
func (s *Service) Stats() (published, failed uint64) {
	return s.published.Load(), s.failed.Load()
}
