package mjpeg

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"incident-worker-go/internal/models"
)

// ErrNoFrame is returned for streams that have not published a preview frame yet
var ErrNoFrame = errors.New("no preview frame yet")

// Encoder turns a decoded frame into JPEG bytes
type Encoder func(frame *models.Frame) ([]byte, error)

type latest struct {
	jpeg    []byte
	at      time.Time
	updated chan struct{} // closed and replaced on every new frame
}

// Publisher keeps the latest JPEG of each stream and serves it as an MJPEG
// multipart stream to any number of viewers
type Publisher struct {
	encode      Encoder
	minInterval time.Duration
	keepalive   time.Duration

	mu      sync.RWMutex
	streams map[string]*latest
}

// NewPublisher creates a preview publisher encoding at most maxFPS frames per
// second and stream
func NewPublisher(encode Encoder, maxFPS float64) *Publisher {
	var interval time.Duration
	if maxFPS > 0 {
		interval = time.Duration(float64(time.Second) / maxFPS)
	}
	return &Publisher{
		encode:      encode,
		minInterval: interval,
		keepalive:   2 * time.Second,
		streams:     make(map[string]*latest),
	}
}

func (p *Publisher) entry(streamID string) *latest {
	l, ok := p.streams[streamID]
	if !ok {
		l = &latest{updated: make(chan struct{})}
		p.streams[streamID] = l
	}
	return l
}

// PublishFrame encodes frame unless the previous preview of the stream is
// younger than the publish interval
func (p *Publisher) PublishFrame(streamID string, frame *models.Frame) error {
	if frame == nil {
		return nil
	}

	p.mu.RLock()
	l, ok := p.streams[streamID]
	skip := ok && l.jpeg != nil && frame.CapturedAt.Sub(l.at) < p.minInterval
	p.mu.RUnlock()
	if skip {
		return nil
	}

	jpeg, err := p.encode(frame)
	if err != nil {
		return fmt.Errorf("failed to encode preview frame: %w", err)
	}

	p.mu.Lock()
	l = p.entry(streamID)
	l.jpeg = jpeg
	l.at = frame.CapturedAt
	close(l.updated)
	l.updated = make(chan struct{})
	p.mu.Unlock()
	return nil
}

// Latest returns the newest JPEG of a stream
func (p *Publisher) Latest(streamID string) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	l, ok := p.streams[streamID]
	if !ok || len(l.jpeg) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFrame, streamID)
	}
	return l.jpeg, nil
}

// watch returns the current JPEG and a channel closed when it is replaced.
// ok is false once the stream was removed.
func (p *Publisher) watch(streamID string, create bool) (jpeg []byte, updated <-chan struct{}, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.streams[streamID]
	if !ok {
		if !create {
			return nil, nil, false
		}
		l = p.entry(streamID)
	}
	return l.jpeg, l.updated, true
}

// Remove forgets a stream and wakes its viewers
func (p *Publisher) Remove(streamID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if l, ok := p.streams[streamID]; ok {
		close(l.updated)
		delete(p.streams, streamID)
	}
}

func (p *Publisher) StreamMJPEGHTTP(w http.ResponseWriter, r *http.Request, streamID string) {
	boundary := "frame"
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+boundary)
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	writePart := func(jpeg []byte) bool {
		if _, err := io.WriteString(w, "--"+boundary+"\r\n"); err != nil {
			return false
		}
		if _, err := io.WriteString(w, "Content-Type: image/jpeg\r\n"); err != nil {
			return false
		}
		if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(jpeg)); err != nil {
			return false
		}
		if _, err := w.Write(jpeg); err != nil {
			return false
		}
		if _, err := io.WriteString(w, "\r\n"); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	jpeg, updated, _ := p.watch(streamID, true)
	if len(jpeg) > 0 && !writePart(jpeg) {
		return
	}

	keepaliveTicker := time.NewTicker(p.keepalive)
	defer keepaliveTicker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updated:
			var ok bool
			if jpeg, updated, ok = p.watch(streamID, false); !ok {
				return
			}
		case <-keepaliveTicker.C:
		}
		if len(jpeg) > 0 && !writePart(jpeg) {
			log.Debug().Str("stream_id", streamID).Msg("MJPEG viewer disconnected")
			return
		}
	}
}
