package stream

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"incident-worker-go/internal/buffer"
	"incident-worker-go/internal/models"
	"incident-worker-go/internal/zones"
)

var (
	// ErrNoContextBuffer is returned for buffer operations on a stream without a context camera
	ErrNoContextBuffer = errors.New("stream has no context camera")
	// ErrBufferNotReady is returned before the context camera reported its frame rate
	ErrBufferNotReady = errors.New("context buffer is not ready yet")
	// ErrStreamStopped is returned when triggering or starting a stopped stream
	ErrStreamStopped = errors.New("stream is stopped")
)

const defaultQueueSize = 16

// Source is a frame mailbox, usually a *capture.Capture
type Source interface {
	Get() *models.Frame
	TargetFPS() float64
	Stats() models.CaptureStats
	Close()
}

// IncidentSink receives completed incidents, one at a time
type IncidentSink interface {
	HandleIncident(incident *models.Incident) error
}

// Frame pairs a processing frame with the context frame decoded alongside it
type Frame struct {
	StreamID string
	Number   uint64
	Primary  *models.Frame
	Context  *models.Frame // nil without a context camera
}

// DecodeHandler is called on the decode goroutine for every frame pair
type DecodeHandler func(Frame)

// Config describes one stream
type Config struct {
	ID            string
	BufferSeconds float64
	QueueSize     int // completed incidents waiting for the sink
	OnDecode      DecodeHandler
	Sink          IncidentSink
	Zones         *zones.Config // converted to pixels once the first primary frame arrives
	Logger        *zerolog.Logger
}

// State is the lifecycle state of a stream
type State int32

const (
	StateStarting State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	return string(s.Status())
}

// Status maps the state onto the API status values
func (s State) Status() models.StreamStatus {
	switch s {
	case StateStarting:
		return models.StreamStatusStarting
	case StateRunning:
		return models.StreamStatusRunning
	default:
		return models.StreamStatusStopped
	}
}

// Stream drives a processing camera and an optional context camera. Context
// frames are retained in a VideoBuffer so incidents can be rebuilt from the
// moments before and after a trigger.
type Stream struct {
	id            string
	primary       Source
	context       Source
	bufferSeconds float64
	onDecode      DecodeHandler
	sink          IncidentSink
	zoneConfig    *zones.Config
	log           zerolog.Logger

	state     atomic.Int32
	startOnce sync.Once
	stopOnce  sync.Once

	mu        sync.RWMutex
	startedAt time.Time
	buffer    *buffer.VideoBuffer
	zoneSet   *zones.Set

	framesDecoded    atomic.Uint64
	incidents        atomic.Uint64
	droppedIncidents atomic.Uint64

	completed    chan *models.Incident
	decodeDone   chan struct{}
	dispatchDone chan struct{}
}

// New creates a stream over already started captures. contextCam may be nil.
func New(cfg Config, primary Source, contextCam Source) *Stream {
	if cfg.BufferSeconds <= 0 {
		cfg.BufferSeconds = buffer.DefaultSeconds
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}

	logger := log.With().Str("component", "stream").Str("stream_id", cfg.ID).Logger()
	if cfg.Logger != nil {
		logger = cfg.Logger.With().Str("stream_id", cfg.ID).Logger()
	}

	s := &Stream{
		id:            cfg.ID,
		primary:       primary,
		context:       contextCam,
		bufferSeconds: cfg.BufferSeconds,
		onDecode:      cfg.OnDecode,
		sink:          cfg.Sink,
		zoneConfig:    cfg.Zones,
		log:           logger,
		completed:     make(chan *models.Incident, cfg.QueueSize),
		decodeDone:    make(chan struct{}),
		dispatchDone:  make(chan struct{}),
	}
	s.state.Store(int32(StateStarting))
	return s
}

// ID returns the stream identifier
func (s *Stream) ID() string {
	return s.id
}

// State returns the current lifecycle state
func (s *Stream) State() State {
	return State(s.state.Load())
}

// Start launches the decode and incident dispatch goroutines
func (s *Stream) Start() error {
	if s.State() == StateStopped {
		return ErrStreamStopped
	}

	started := false
	s.startOnce.Do(func() {
		started = true
		s.mu.Lock()
		s.startedAt = time.Now()
		s.mu.Unlock()
		go s.decodeLoop()
		go s.dispatchLoop()
	})
	if !started {
		return fmt.Errorf("stream %s already started", s.id)
	}

	s.log.Info().
		Bool("context_camera", s.context != nil).
		Float64("buffer_seconds", s.bufferSeconds).
		Msg("Stream started")
	return nil
}

// Stop closes both captures, waits for the decode goroutine and delivers any
// incident that already completed.
func (s *Stream) Stop() {
	s.stopOnce.Do(func() {
		s.state.Store(int32(StateStopped))

		s.primary.Close()
		if s.context != nil {
			s.context.Close()
		}

		started := true
		s.startOnce.Do(func() { started = false })
		if started {
			<-s.decodeDone
			close(s.completed)
			<-s.dispatchDone
		}

		s.log.Info().
			Uint64("frames_decoded", s.framesDecoded.Load()).
			Uint64("incidents", s.incidents.Load()).
			Msg("Stream stopped")
	})
}

func (s *Stream) decodeLoop() {
	defer close(s.decodeDone)

	var buf *buffer.VideoBuffer
	if s.context != nil {
		fps := s.context.TargetFPS()
		if s.State() == StateStopped {
			return
		}

		var err error
		buf, err = buffer.New(fps, s.bufferSeconds)
		if err != nil {
			s.log.Error().
				Err(err).
				Float64("fps", fps).
				Msg("Cannot size context buffer, running without it")
		} else {
			s.mu.Lock()
			s.buffer = buf
			s.mu.Unlock()
		}
	}

	s.state.CompareAndSwap(int32(StateStarting), int32(StateRunning))

	for {
		primary := s.primary.Get()
		if primary == nil {
			return
		}
		if s.zoneConfig != nil && s.Zones() == nil {
			s.buildZones(primary.Width, primary.Height)
		}

		var contextFrame *models.Frame
		if s.context != nil {
			contextFrame = s.context.Get()
			if contextFrame == nil {
				return
			}
			if buf != nil {
				buf.AddFrame(contextFrame)
			}
		}

		number := s.framesDecoded.Add(1) - 1
		if s.onDecode != nil {
			s.onDecode(Frame{
				StreamID: s.id,
				Number:   number,
				Primary:  primary,
				Context:  contextFrame,
			})
		}
	}
}

func (s *Stream) buildZones(width, height int) {
	set, err := s.zoneConfig.ToImage(width, height)
	if err != nil {
		s.log.Error().Err(err).Int("width", width).Int("height", height).Msg("Failed to convert zones, disabling them")
		s.zoneConfig = nil
		return
	}
	s.mu.Lock()
	s.zoneSet = set
	s.mu.Unlock()
	s.log.Info().
		Int("lanes", len(set.Lanes)).
		Int("crosswalks", len(set.Crosswalks)).
		Bool("roi", set.ROI != nil).
		Msg("Zones converted to frame coordinates")
}

// Zones returns the zones in primary frame coordinates, nil until the first
// frame was decoded or when none are configured
func (s *Stream) Zones() *zones.Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.zoneSet
}

func (s *Stream) dispatchLoop() {
	defer close(s.dispatchDone)

	for incident := range s.completed {
		if s.sink == nil {
			continue
		}
		if err := s.sink.HandleIncident(incident); err != nil {
			s.log.Error().
				Err(err).
				Str("incident_id", incident.ID).
				Msg("Failed to deliver incident")
			continue
		}
		s.log.Info().
			Str("incident_id", incident.ID).
			Int("frames", len(incident.Frames)).
			Msg("Incident delivered")
	}
}

func (s *Stream) contextBuffer() (*buffer.VideoBuffer, error) {
	if s.context == nil {
		return nil, ErrNoContextBuffer
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.buffer == nil {
		return nil, ErrBufferNotReady
	}
	return s.buffer, nil
}

// Trigger schedules an incident clip and returns its ID. The clip completes
// once the post-trigger half of the buffer window has been decoded.
func (s *Stream) Trigger(reason string, metadata map[string]interface{}) (string, error) {
	if s.State() == StateStopped {
		return "", ErrStreamStopped
	}
	buf, err := s.contextBuffer()
	if err != nil {
		return "", err
	}

	incident := &models.Incident{
		ID:          uuid.NewString(),
		StreamID:    s.id,
		Reason:      reason,
		TriggeredAt: time.Now(),
		PreFrames:   buf.Stats().WindowFrames,
		Metadata:    s.annotate(metadata),
	}
	buf.Schedule(s.complete, incident)
	s.incidents.Add(1)

	s.log.Info().
		Str("incident_id", incident.ID).
		Str("reason", reason).
		Msg("Incident scheduled")

	return incident.ID, nil
}

// annotate adds zone placement when the metadata carries a pixel "box"
func (s *Stream) annotate(metadata map[string]interface{}) map[string]interface{} {
	set := s.Zones()
	if set == nil {
		return metadata
	}
	box, ok := zones.BoxFromMetadata(metadata["box"])
	if !ok {
		return metadata
	}

	out := make(map[string]interface{}, len(metadata)+1)
	for k, v := range metadata {
		out[k] = v
	}
	out["zones"] = set.Annotate(box)
	return out
}

// complete runs on the decode goroutine and must not block it
func (s *Stream) complete(frames []*models.Frame, metadata interface{}) {
	incident, ok := metadata.(*models.Incident)
	if !ok {
		return
	}
	incident.Frames = frames
	incident.CompletedAt = time.Now()

	select {
	case s.completed <- incident:
	default:
		s.droppedIncidents.Add(1)
		s.log.Warn().
			Str("incident_id", incident.ID).
			Msg("Incident queue full, dropping incident")
	}
}

// ResizeBuffer changes the retention window of the context buffer
func (s *Stream) ResizeBuffer(seconds float64) error {
	buf, err := s.contextBuffer()
	if err != nil {
		return err
	}
	if err := buf.Resize(seconds); err != nil {
		return err
	}
	s.log.Info().Float64("seconds", seconds).Msg("Context buffer resized")
	return nil
}

// ResetBuffer restores the default retention window
func (s *Stream) ResetBuffer() error {
	buf, err := s.contextBuffer()
	if err != nil {
		return err
	}
	return buf.ResizeToDefault()
}

// Stats returns a snapshot suitable for the API
func (s *Stream) Stats() models.StreamResponse {
	s.mu.RLock()
	startedAt := s.startedAt
	s.mu.RUnlock()

	resp := models.StreamResponse{
		StreamID:      s.id,
		Status:        s.State().Status(),
		StartedAt:     startedAt,
		FramesDecoded: s.framesDecoded.Load(),
		Incidents:     s.incidents.Load(),
		Primary:       s.primary.Stats(),
	}
	if s.context != nil {
		ctxStats := s.context.Stats()
		resp.Context = &ctxStats
	}
	if buf, err := s.contextBuffer(); err == nil {
		bufStats := buf.Stats()
		resp.Buffer = &bufStats
	}
	return resp
}

// DroppedIncidents returns how many completed incidents did not fit the queue
func (s *Stream) DroppedIncidents() uint64 {
	return s.droppedIncidents.Load()
}
