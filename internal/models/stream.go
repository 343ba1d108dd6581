package models

import (
	"time"
)

// StreamStatus represents the stream operational status
type StreamStatus string

const (
	StreamStatusStarting StreamStatus = "starting"
	StreamStatusRunning  StreamStatus = "running"
	StreamStatusStopped  StreamStatus = "stopped"
)

// String returns the string representation of StreamStatus
func (s StreamStatus) String() string {
	return string(s)
}

// CaptureStats is a snapshot of a capture's delivery counters
type CaptureStats struct {
	Source       string    `json:"source"`
	Realtime     bool      `json:"realtime"`
	TargetFPS    float64   `json:"target_fps"`
	LiveFPS      *float64  `json:"live_fps,omitempty"` // nil until one full second was measured
	Delivered    uint64    `json:"delivered"`
	Discarded    uint64    `json:"discarded"`
	Reconnects   uint64    `json:"reconnects"`
	LastFrameAt  time.Time `json:"last_frame_at"`
	Disconnected bool      `json:"disconnected"`
}

// BufferStats is a snapshot of a video buffer
type BufferStats struct {
	FPS             float64 `json:"fps"`
	WindowFrames    int     `json:"window_frames"`
	Capacity        int     `json:"capacity"`
	Retained        int     `json:"retained"`
	PendingTriggers int     `json:"pending_triggers"`
	FiredTriggers   uint64  `json:"fired_triggers"`
}

// StreamResponse for API
type StreamResponse struct {
	StreamID      string        `json:"stream_id"`
	Status        StreamStatus  `json:"status"`
	StartedAt     time.Time     `json:"started_at"`
	FramesDecoded uint64        `json:"frames_decoded"`
	Incidents     uint64        `json:"incidents"`
	Primary       CaptureStats  `json:"primary"`
	Context       *CaptureStats `json:"context,omitempty"`
	Buffer        *BufferStats  `json:"buffer,omitempty"`
}

// TriggerRequest schedules an incident clip on a stream
type TriggerRequest struct {
	Reason   string                 `json:"reason" binding:"required"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// TriggerResponse for API
type TriggerResponse struct {
	IncidentID string `json:"incident_id"`
	StreamID   string `json:"stream_id"`
	Message    string `json:"message"`
}

// ResizeBufferRequest changes the retention window of a stream's buffer
type ResizeBufferRequest struct {
	Seconds float64 `json:"seconds" binding:"required,gt=0,lte=600"`
}
