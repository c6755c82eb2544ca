package memory

import (
	"testing"

	"farmhand/internal/app/ports"
)

func TestSinkBuffersAndDrains(t *testing.T) {
	s := NewSink(4)
	s.Publish(ports.CommentaryEvent{Type: ports.EventTaskStarted})
	s.Publish(ports.CommentaryEvent{Type: ports.EventMilestone})

	events := s.Drain()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != ports.EventTaskStarted {
		t.Fatalf("expected oldest event first, got %q", events[0].Type)
	}
	if got := s.Drain(); len(got) != 0 {
		t.Fatalf("drain should clear the buffer, got %d events", len(got))
	}
}

func TestSinkDropsOldestWhenFull(t *testing.T) {
	s := NewSink(2)
	s.Publish(ports.CommentaryEvent{Type: "a"})
	s.Publish(ports.CommentaryEvent{Type: "b"})
	s.Publish(ports.CommentaryEvent{Type: "c"})

	events := s.Drain()
	if len(events) != 2 {
		t.Fatalf("expected buffer capped at 2, got %d", len(events))
	}
	if events[0].Type != "b" || events[1].Type != "c" {
		t.Fatalf("expected oldest dropped, got %+v", events)
	}
}
