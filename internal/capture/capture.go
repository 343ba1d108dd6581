package capture

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"incident-worker-go/internal/models"
)

// Options configures a Capture
type Options struct {
	// Realtime selects newest-wins delivery: the decode loop never waits for
	// the consumer and overwrites an unread frame. When false the decode loop
	// blocks until the previous frame was taken (lock-step, no frame loss).
	Realtime bool
	Backoff  Backoff
	Logger   *zerolog.Logger
	// Clock stamps CapturedAt and drives live fps measurement. Defaults to time.Now.
	Clock func() time.Time
}

// Capture decodes a video source on its own goroutine and hands frames to a
// single consumer through a one-slot mailbox.
//
// When the source stops producing it is released and reopened with the same
// identifier; the consumer only observes a stall. Retries are paced by Backoff.
type Capture struct {
	source   string
	open     Opener
	realtime bool
	backoff  Backoff
	log      zerolog.Logger
	now      func() time.Time

	// --- Mailbox state, guarded by mu ---

	mu          sync.Mutex
	cond        *sync.Cond
	frame       *models.Frame // nil = empty slot
	running     bool
	seq         uint64
	delivered   uint64
	discarded   uint64
	lastFrameAt time.Time
	connected   bool

	targetFPS    float64
	hasTargetFPS bool

	liveFPS     float64
	hasLiveFPS  bool
	windowStart time.Time
	windowCount int

	reconnects atomic.Uint64

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New starts decoding source in the background
func New(source string, open Opener, opts Options) *Capture {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	opts.Backoff = opts.Backoff.withDefaults()

	logger := log.With().Str("component", "capture").Str("source", source).Logger()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("source", source).Logger()
	}

	c := &Capture{
		source:   source,
		open:     open,
		realtime: opts.Realtime,
		backoff:  opts.Backoff,
		log:      logger,
		now:      opts.Clock,
		running:  true,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	c.cond = sync.NewCond(&c.mu)
	c.windowStart = c.now()

	go c.run()
	return c
}

// Source returns the identifier the capture was opened with
func (c *Capture) Source() string {
	return c.source
}

// Realtime reports the delivery policy
func (c *Capture) Realtime() bool {
	return c.realtime
}

// Get blocks until a frame is available and takes it out of the mailbox.
// It returns nil once Close has been called.
func (c *Capture) Get() *models.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.frame == nil && c.running {
		c.cond.Wait()
	}
	if !c.running {
		return nil
	}

	frame := c.frame
	c.frame = nil

	// Wake a lock-step producer waiting for the slot
	c.cond.Broadcast()
	return frame
}

// TargetFPS blocks until the source reported its nominal frame rate at least
// once. The value is refreshed on every reopen. Returns 0 if the capture is
// closed before the source was ever opened.
func (c *Capture) TargetFPS() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	for !c.hasTargetFPS && c.running {
		c.cond.Wait()
	}
	return c.targetFPS
}

// LiveFPS returns the delivery rate measured over the last completed second.
// The second return value is false until one full window has elapsed.
func (c *Capture) LiveFPS() (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.liveFPS, c.hasLiveFPS
}

// Discarded returns how many frames were overwritten before being read.
// It only grows in realtime mode.
func (c *Capture) Discarded() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.discarded
}

// Reconnects returns how many times the source was released and reopened
func (c *Capture) Reconnects() uint64 {
	return c.reconnects.Load()
}

// Stats returns a snapshot of the capture counters
func (c *Capture) Stats() models.CaptureStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := models.CaptureStats{
		Source:       c.source,
		Realtime:     c.realtime,
		TargetFPS:    c.targetFPS,
		Delivered:    c.delivered,
		Discarded:    c.discarded,
		Reconnects:   c.reconnects.Load(),
		LastFrameAt:  c.lastFrameAt,
		Disconnected: !c.connected,
	}
	if c.hasLiveFPS {
		live := c.liveFPS
		stats.LiveFPS = &live
	}
	return stats
}

// Close stops the decode loop, wakes any blocked Get with nil and waits for
// the decode goroutine to exit. Safe to call more than once.
func (c *Capture) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.running = false
		c.frame = nil
		c.cond.Broadcast()
		c.mu.Unlock()

		close(c.stop)
	})
	<-c.done
}

func (c *Capture) run() {
	defer close(c.done)

	var dec Decoder
	defer func() {
		if dec != nil {
			dec.Close()
		}
	}()

	attempt := 0
	for c.isRunning() {
		if dec == nil {
			opened, err := c.open(c.source)
			if err != nil {
				attempt++
				c.log.Warn().
					Err(err).
					Int("attempt", attempt).
					Msg("Failed to open video source")
				if !c.sleep(c.backoff.Delay(attempt)) {
					return
				}
				continue
			}
			dec = opened
			c.onOpen(dec.FPS())
		}

		frame, ok := dec.Read()
		if !ok {
			attempt++
			c.reconnects.Add(1)
			c.log.Warn().
				Int("attempt", attempt).
				Msg("Video source stopped producing frames, reopening")

			dec.Close()
			dec = nil
			c.setConnected(false)

			if !c.sleep(c.backoff.Delay(attempt)) {
				return
			}
			continue
		}

		attempt = 0
		frame.Timestamp = dec.Position()
		if !c.deliver(frame) {
			return
		}
	}
}

// deliver stores frame in the mailbox. It returns false when the capture is
// shutting down.
func (c *Capture) deliver(frame *models.Frame) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.realtime {
		if c.frame != nil {
			c.discarded++
		}
	} else {
		for c.frame != nil && c.running {
			c.cond.Wait()
		}
	}
	if !c.running {
		return false
	}

	now := c.now()
	c.seq++
	frame.Seq = c.seq
	frame.SourceID = c.source
	frame.CapturedAt = now

	c.frame = frame
	c.delivered++
	c.lastFrameAt = now

	// Live fps: roll the measurement window once a full second has elapsed
	elapsed := now.Sub(c.windowStart)
	if elapsed >= time.Second {
		c.liveFPS = float64(c.windowCount) / elapsed.Seconds()
		c.hasLiveFPS = true
		c.windowCount = 0
		c.windowStart = now
	} else {
		c.windowCount++
	}

	c.cond.Broadcast()
	return true
}

func (c *Capture) onOpen(fps float64) {
	c.mu.Lock()
	c.targetFPS = fps
	c.hasTargetFPS = true
	c.connected = true
	c.cond.Broadcast()
	c.mu.Unlock()

	c.log.Info().
		Float64("target_fps", fps).
		Bool("realtime", c.realtime).
		Msg("Video source opened")
}

func (c *Capture) setConnected(connected bool) {
	c.mu.Lock()
	c.connected = connected
	c.mu.Unlock()
}

func (c *Capture) isRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// sleep waits for d or until Close; returns false on Close
func (c *Capture) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-c.stop:
		return false
	case <-timer.C:
		return true
	}
}
