package memory

import (
	"sync"

	"farmhand/internal/app/ports"
)

// Sink buffers recent commentary events in a bounded ring. Publishing
// never blocks and never fails; when the buffer is full the oldest
// event is dropped.
type Sink struct {
	mu     sync.Mutex
	events []ports.CommentaryEvent
	limit  int
}

func NewSink(limit int) *Sink {
	if limit <= 0 {
		limit = 256
	}
	return &Sink{limit: limit}
}

func (s *Sink) Publish(event ports.CommentaryEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if len(s.events) > s.limit {
		s.events = s.events[len(s.events)-s.limit:]
	}
}

// Drain returns the buffered events and clears the buffer.
func (s *Sink) Drain() []ports.CommentaryEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.events
	s.events = nil
	return out
}
