package models

import (
	"time"
)

// Incident is a reconstructed event: the buffered frames before and after a
// trigger plus whatever metadata the trigger producer attached.
type Incident struct {
	ID          string
	StreamID    string
	Reason      string
	TriggeredAt time.Time
	CompletedAt time.Time
	PreFrames   int // Window length requested before the trigger
	Frames      []*Frame
	Metadata    map[string]interface{}
}

// KeyFrame returns the frame closest to the trigger moment, or nil for an empty clip
func (i *Incident) KeyFrame() *Frame {
	if len(i.Frames) == 0 {
		return nil
	}
	idx := len(i.Frames) - 1 - i.PreFrames
	if idx < 0 {
		idx = 0
	}
	return i.Frames[idx]
}

// IncidentPayload represents the structure published to NATS
type IncidentPayload struct {
	IncidentID  string                 `json:"incident_id"`
	StreamID    string                 `json:"stream_id"`
	Reason      string                 `json:"reason"`
	TriggeredAt time.Time              `json:"triggered_at"`
	CompletedAt time.Time              `json:"completed_at"`
	FrameCount  int                    `json:"frame_count"`
	FirstFrame  *time.Time             `json:"first_frame_at,omitempty"`
	LastFrame   *time.Time             `json:"last_frame_at,omitempty"`
	Width       int                    `json:"width,omitempty"`
	Height      int                    `json:"height,omitempty"`
	KeyFrame    *string                `json:"key_frame,omitempty"` // Base64 JPEG data URL
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}
