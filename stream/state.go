package stream

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// State tracks nesting of a token stream and rejects tokens that break
// it. It does no I/O; serializers and deserializers feed it every event.
//
// A rejected event leaves the state unchanged.
type State struct {
	stack []item
	roots int
	ended bool
}

type frameKind int

const (
	objFrame frameKind = iota
	collFrame
)

type item struct {
	kind   frameKind
	typ    string // object type name
	prop   string // last property name in an object
	hasKey bool   // property name not yet followed by a value
	index  int    // last item index in a collection
}

// NewState creates a new State for tracking structure state.
func NewState() *State {
	return &State{}
}

func (s *State) current() *item {
	return &s.stack[len(s.stack)-1]
}

// markValue records the start of a value checked by canStartValue.
func (s *State) markValue() {
	if len(s.stack) == 0 {
		s.roots++
		return
	}
	cur := s.current()
	switch cur.kind {
	case objFrame:
		cur.hasKey = false
	case collFrame:
		cur.index++
	}
}

func (s *State) canStartValue() error {
	if len(s.stack) == 0 {
		if s.roots > 0 {
			return errors.New("more than one root value")
		}
		return nil
	}
	cur := s.current()
	if cur.kind == objFrame && !cur.hasKey {
		return errors.New("value in object without property name")
	}
	return nil
}

// ProcessEvent processes an event and updates state/path tracking.
// Call this for each event in order.
func (s *State) ProcessEvent(event *Event) error {
	if s.ended {
		return fmt.Errorf("%s after end of stream", event.Type.Kind())
	}
	switch event.Type {
	case EventObjectBegin, EventCollectionBegin:
		if err := s.canStartValue(); err != nil {
			return err
		}
		s.markValue()
		it := item{kind: objFrame, typ: event.Name.String()}
		if event.Type == EventCollectionBegin {
			it = item{kind: collFrame, index: -1}
		}
		s.stack = append(s.stack, it)

	case EventObjectEnd:
		if len(s.stack) == 0 || s.current().kind != objFrame {
			return errors.New("object end without matching object begin")
		}
		if cur := s.current(); cur.hasKey {
			return fmt.Errorf("object end after property %q without value", cur.prop)
		}
		s.stack = s.stack[:len(s.stack)-1]

	case EventCollectionEnd:
		if len(s.stack) == 0 || s.current().kind != collFrame {
			return errors.New("collection end without matching collection begin")
		}
		s.stack = s.stack[:len(s.stack)-1]

	case EventString, EventInteger, EventDecimal, EventBool, EventNull, EventText:
		if err := s.canStartValue(); err != nil {
			return err
		}
		s.markValue()

	case EventProperty:
		if len(s.stack) == 0 || s.current().kind != objFrame {
			return errors.New("property name outside of an object")
		}
		cur := s.current()
		if cur.hasKey {
			return fmt.Errorf("property %q follows property %q without value", event.Name.String(), cur.prop)
		}
		cur.hasKey = true
		cur.prop = event.Name.String()

	case EventStreamEnd:
		if len(s.stack) > 0 {
			return fmt.Errorf("end of stream with %d open frames at %s", len(s.stack), s.CurrentPath())
		}
		s.ended = true

	default:
		return fmt.Errorf("unknown event type %d", event.Type)
	}
	return nil
}

// Depth returns the current nesting depth (0 = top level).
func (s *State) Depth() int {
	return len(s.stack)
}

// Ended reports whether the end of the stream was processed.
func (s *State) Ended() bool {
	return s.ended
}

// CurrentPath returns the path of the current position, for instance
// "Person.friends[2]". A root object contributes its type name.
func (s *State) CurrentPath() string {
	var b strings.Builder
	for i := range s.stack {
		it := &s.stack[i]
		switch it.kind {
		case objFrame:
			if i == 0 && it.typ != "" {
				b.WriteString(it.typ)
			}
			if it.prop != "" {
				if b.Len() > 0 {
					b.WriteByte('.')
				}
				b.WriteString(it.prop)
			}
		case collFrame:
			if it.index >= 0 {
				b.WriteByte('[')
				b.WriteString(strconv.Itoa(it.index))
				b.WriteByte(']')
			}
		}
	}
	return b.String()
}

// IsInObject returns true if currently inside an object.
func (s *State) IsInObject() bool {
	return len(s.stack) > 0 && s.current().kind == objFrame
}

// IsInCollection returns true if currently inside a collection.
func (s *State) IsInCollection() bool {
	return len(s.stack) > 0 && s.current().kind == collFrame
}

// ExpectsValue reports whether the next event must be a value: a property
// name is waiting for one.
func (s *State) ExpectsValue() bool {
	return len(s.stack) > 0 && s.current().hasKey
}

// CurrentProperty returns the last property name of the innermost object.
func (s *State) CurrentProperty() (string, bool) {
	if !s.IsInObject() {
		return "", false
	}
	cur := s.current()
	return cur.prop, cur.prop != ""
}

// CurrentIndex returns the index of the last item of the innermost
// collection.
func (s *State) CurrentIndex() (int, bool) {
	if !s.IsInCollection() {
		return 0, false
	}
	cur := s.current()
	return cur.index, cur.index >= 0
}
