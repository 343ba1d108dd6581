package stream

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	// ErrStreamNotFound is returned when no stream is registered under an ID
	ErrStreamNotFound = errors.New("stream not found")
	// ErrStreamExists is returned when registering a duplicate ID
	ErrStreamExists = errors.New("stream already registered")
)

// Manager keeps the streams run by this worker
type Manager struct {
	streams map[string]*Stream
	mutex   sync.RWMutex
}

// NewManager creates an empty stream manager
func NewManager() *Manager {
	return &Manager{
		streams: make(map[string]*Stream),
	}
}

// Add registers and starts a stream
func (m *Manager) Add(s *Stream) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.streams[s.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrStreamExists, s.ID())
	}
	if err := s.Start(); err != nil {
		return fmt.Errorf("failed to start stream %s: %w", s.ID(), err)
	}

	m.streams[s.ID()] = s
	return nil
}

// Get returns a stream by ID
func (m *Manager) Get(id string) (*Stream, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	s, ok := m.streams[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStreamNotFound, id)
	}
	return s, nil
}

// List returns all streams ordered by ID
func (m *Manager) List() []*Stream {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	out := make([]*Stream, 0, len(m.streams))
	for _, s := range m.streams {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Remove stops a stream and forgets it
func (m *Manager) Remove(id string) error {
	m.mutex.Lock()
	s, ok := m.streams[id]
	delete(m.streams, id)
	m.mutex.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrStreamNotFound, id)
	}
	s.Stop()
	return nil
}

// StopAll stops every stream concurrently and waits for them
func (m *Manager) StopAll() {
	m.mutex.Lock()
	streams := make([]*Stream, 0, len(m.streams))
	for _, s := range m.streams {
		streams = append(streams, s)
	}
	m.streams = make(map[string]*Stream)
	m.mutex.Unlock()

	var wg sync.WaitGroup
	for _, s := range streams {
		wg.Add(1)
		go func(s *Stream) {
			defer wg.Done()
			s.Stop()
		}(s)
	}
	wg.Wait()

	log.Info().Int("streams", len(streams)).Msg("All streams stopped")
}
