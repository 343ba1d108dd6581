package capture

import (
	"time"

	"incident-worker-go/internal/models"
)

// Decoder is an open video source. Implementations are not required to be
// safe for concurrent use; the capture goroutine is the only caller.
type Decoder interface {
	// Read returns the next frame, or false when the source stopped producing
	// (end of file, dropped connection, decode error).
	Read() (*models.Frame, bool)
	// Position returns the source-reported presentation time of the last frame read
	Position() time.Duration
	// FPS returns the nominal frame rate reported by the source
	FPS() float64
	Close() error
}

// Opener opens a decoder for a named source (URL, file path or device id)
type Opener func(source string) (Decoder, error)
