package stream

import "github.com/kfoundation/go-kfoundation/ustring"

// Serializer implements ObjectSerializer over an EventSink, validating
// every token with a State before handing it to the sink.
type Serializer struct {
	sink  EventSink
	state *State
	err   error
}

var _ ObjectSerializer = (*Serializer)(nil)

// NewSerializer creates a Serializer writing to sink. If sink implements
// Flusher it is flushed by WriteStreamEnd.
func NewSerializer(sink EventSink) *Serializer {
	return &Serializer{sink: sink, state: NewState()}
}

// Queryable State Methods

// Depth returns the current nesting depth (0 = top level).
func (s *Serializer) Depth() int {
	return s.state.Depth()
}

// CurrentPath returns the path of the value being written.
func (s *Serializer) CurrentPath() string {
	return s.state.CurrentPath()
}

// Err returns the first error encountered.
func (s *Serializer) Err() error {
	return s.err
}

func (s *Serializer) write(ev *Event) ObjectSerializer {
	if s.err != nil {
		return s
	}
	if err := s.state.ProcessEvent(ev); err != nil {
		s.err = &ProtocolError{Op: ev.Type.String(), Path: s.state.CurrentPath(), Msg: err.Error()}
		return s
	}
	if err := s.sink.WriteEvent(ev); err != nil {
		s.err = err
	}
	return s
}

func (s *Serializer) WritePropertyName(name ustring.String) ObjectSerializer {
	return s.write(&Event{Type: EventProperty, Name: name})
}

func (s *Serializer) WriteString(v ustring.String) ObjectSerializer {
	return s.write(&Event{Type: EventString, String: v})
}

func (s *Serializer) WriteInteger(v int64) ObjectSerializer {
	return s.write(&Event{Type: EventInteger, Int: v})
}

func (s *Serializer) WriteDecimal(v float64) ObjectSerializer {
	return s.write(&Event{Type: EventDecimal, Float: v})
}

func (s *Serializer) WriteBool(v bool) ObjectSerializer {
	return s.write(&Event{Type: EventBool, Bool: v})
}

func (s *Serializer) WriteNull() ObjectSerializer {
	return s.write(&Event{Type: EventNull})
}

// WriteObjectBegin opens an object. name may be empty for formats that
// do not need a type name.
func (s *Serializer) WriteObjectBegin(name ustring.String) ObjectSerializer {
	return s.write(&Event{Type: EventObjectBegin, Name: name})
}

func (s *Serializer) WriteObjectEnd() ObjectSerializer {
	return s.write(&Event{Type: EventObjectEnd})
}

func (s *Serializer) WriteCollectionBegin() ObjectSerializer {
	return s.write(&Event{Type: EventCollectionBegin})
}

func (s *Serializer) WriteCollectionEnd() ObjectSerializer {
	return s.write(&Event{Type: EventCollectionEnd})
}

// WriteEvent writes a single event. It makes the Serializer an EventSink
// so that event producers can drive any codec.
func (s *Serializer) WriteEvent(ev *Event) error {
	if ev.Type == EventStreamEnd {
		return s.WriteStreamEnd()
	}
	s.write(ev)
	return s.err
}

func (s *Serializer) WriteStreamEnd() error {
	s.write(&Event{Type: EventStreamEnd})
	if s.err != nil {
		return s.err
	}
	if f, ok := s.sink.(Flusher); ok {
		s.err = f.Flush()
	}
	return s.err
}
