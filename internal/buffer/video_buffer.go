package buffer

import (
	"errors"
	"fmt"
	"sync"

	"incident-worker-go/internal/models"
)

const (
	// DefaultSeconds is the retention window restored by ResizeToDefault
	DefaultSeconds = 5

	// MaxSeconds is the longest retention window a buffer accepts
	MaxSeconds = 600

	// maxWindowFrames caps a window at sources reporting absurd frame rates
	maxWindowFrames = 1 << 20
)

// ErrInvalidWindow is returned when fps*seconds rounds down to zero frames
// or the window is longer than MaxSeconds
var ErrInvalidWindow = errors.New("buffer window must hold at least one frame and at most 600 seconds")

// Callback receives the buffered frames, oldest first, and the metadata it
// was scheduled with.
type Callback func(frames []*models.Frame, metadata interface{})

type trigger struct {
	target   int // head position after the append that fires it
	callback Callback
	metadata interface{}
}

// VideoBuffer retains the most recent 2*seconds of frames so that a clip
// covering a window before and after a trigger can be rebuilt.
//
// AddFrame is expected to be called from a single goroutine. All methods are
// mutually exclusive; callbacks run after the lock is released and may call
// back into the buffer.
type VideoBuffer struct {
	mu        sync.Mutex
	fps       float64
	numFrames int
	frames    []*models.Frame
	head      int // next write position
	pending   []trigger
	fired     uint64
}

// New allocates a buffer holding 2*seconds of video at fps
func New(fps, seconds float64) (*VideoBuffer, error) {
	numFrames, err := windowFrames(fps, seconds)
	if err != nil {
		return nil, err
	}

	return &VideoBuffer{
		fps:       fps,
		numFrames: numFrames,
		frames:    make([]*models.Frame, 2*numFrames),
	}, nil
}

func windowFrames(fps, seconds float64) (int, error) {
	if !(fps > 0) || !(seconds > 0) || seconds > MaxSeconds || fps*seconds > maxWindowFrames {
		return 0, fmt.Errorf("%w: fps=%g seconds=%g", ErrInvalidWindow, fps, seconds)
	}
	n := int(fps * seconds)
	if n < 1 {
		return 0, fmt.Errorf("%w: fps=%g seconds=%g", ErrInvalidWindow, fps, seconds)
	}
	return n, nil
}

// AddFrame stores frame over the oldest slot and advances the head. If the
// first pending trigger targets the new head position it is removed and its
// callback receives the full buffer. Only the first pending trigger is
// examined per call.
func (b *VideoBuffer) AddFrame(frame *models.Frame) {
	b.mu.Lock()

	b.frames[b.head] = frame
	b.head = (b.head + 1) % len(b.frames)

	var (
		due      *trigger
		snapshot []*models.Frame
	)
	if len(b.pending) > 0 && b.pending[0].target == b.head {
		t := b.pending[0]
		b.pending = b.pending[1:]
		b.fired++
		due = &t
		snapshot = b.snapshot()
	}

	b.mu.Unlock()

	if due != nil {
		due.callback(snapshot, due.metadata)
	}
}

// Schedule registers callback to run once another window of frames has been
// appended. At that point the buffer holds the window before the call and the
// window after it.
func (b *VideoBuffer) Schedule(callback Callback, metadata interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending = append(b.pending, trigger{
		target:   (b.head + b.numFrames) % len(b.frames),
		callback: callback,
		metadata: metadata,
	})
}

// Frames returns the retained frames from oldest to newest
func (b *VideoBuffer) Frames() []*models.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot()
}

func (b *VideoBuffer) snapshot() []*models.Frame {
	size := len(b.frames)
	out := make([]*models.Frame, 0, size)
	for i := 0; i < size; i++ {
		if f := b.frames[(b.head+i)%size]; f != nil {
			out = append(out, f)
		}
	}
	return out
}

// Resize changes the retention window. The newest frames that fit are kept,
// and pending triggers keep their remaining distance, capped to the new
// capacity minus one.
func (b *VideoBuffer) Resize(seconds float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	numFrames, err := windowFrames(b.fps, seconds)
	if err != nil {
		return err
	}

	oldSize := len(b.frames)
	newSize := 2 * numFrames
	resized := make([]*models.Frame, newSize)

	// newest frame lands in the last slot so the head can restart at 0
	for i := 1; i <= min(oldSize, newSize); i++ {
		resized[newSize-i] = b.frames[(b.head-i+oldSize)%oldSize]
	}

	for i := range b.pending {
		remaining := (b.pending[i].target - b.head + oldSize) % oldSize
		b.pending[i].target = min(remaining, newSize-1)
	}

	b.numFrames = numFrames
	b.frames = resized
	b.head = 0
	return nil
}

// ResizeToDefault restores the DefaultSeconds window
func (b *VideoBuffer) ResizeToDefault() error {
	return b.Resize(DefaultSeconds)
}

// Stats returns a snapshot of the buffer geometry and trigger counters
func (b *VideoBuffer) Stats() models.BufferStats {
	b.mu.Lock()
	defer b.mu.Unlock()

	retained := 0
	for _, f := range b.frames {
		if f != nil {
			retained++
		}
	}

	return models.BufferStats{
		FPS:             b.fps,
		WindowFrames:    b.numFrames,
		Capacity:        len(b.frames),
		Retained:        retained,
		PendingTriggers: len(b.pending),
		FiredTriggers:   b.fired,
	}
}
