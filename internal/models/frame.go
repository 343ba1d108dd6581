package models

import (
	"time"
)

// Frame is a decoded video frame handed out by a capture.
// Frames are immutable once delivered; consumers must not modify Data.
type Frame struct {
	SourceID   string
	Seq        uint64
	Data       []byte
	Width      int
	Height     int
	Format     string        // e.g. "BGR24"
	Timestamp  time.Duration // Source-reported presentation time
	CapturedAt time.Time     // Wall clock time when the decode loop stored the frame
}
