package stream

import "io"

// EventReader provides events from a source (a codec, a recording).
// It returns io.EOF once the input is exhausted.
type EventReader interface {
	ReadEvent() (*Event, error)
}

// EventSink receives events (a codec writer, a recorder).
type EventSink interface {
	WriteEvent(*Event) error
}

// Flusher is implemented by sinks that buffer output. Serializer calls
// Flush when the stream ends.
type Flusher interface {
	Flush() error
}

// EmptyEventReader provides an empty event stream.
type EmptyEventReader struct{}

// ReadEvent returns io.EOF immediately (empty stream).
func (EmptyEventReader) ReadEvent() (*Event, error) {
	return nil, io.EOF
}

// EventRecorder is an EventSink keeping every event it receives.
type EventRecorder struct {
	Events []Event
}

func (r *EventRecorder) WriteEvent(ev *Event) error {
	r.Events = append(r.Events, *ev)
	return nil
}

// Reader returns an EventReader replaying the recorded events.
func (r *EventRecorder) Reader() *EventSlice {
	return NewEventSlice(r.Events)
}

// EventSlice reads events from a slice.
type EventSlice struct {
	events []Event
	i      int
}

func NewEventSlice(events []Event) *EventSlice {
	return &EventSlice{events: events}
}

func (s *EventSlice) ReadEvent() (*Event, error) {
	if s.i >= len(s.events) {
		return nil, io.EOF
	}
	ev := s.events[s.i]
	s.i++
	return &ev, nil
}
