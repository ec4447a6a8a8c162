package stream

import (
	"io"

	"github.com/kfoundation/go-kfoundation/debug"
	"github.com/kfoundation/go-kfoundation/ustring"
)

// Deserializer implements ObjectDeserializer over an EventReader with one
// event of lookahead. Consumed events are validated by a State.
type Deserializer struct {
	source EventReader
	state  *State

	// Lookahead buffer for the Try methods.
	pending *Event
	eof     bool
	last    Pos
	err     error
}

var _ ObjectDeserializer = (*Deserializer)(nil)

// NewDeserializer creates a Deserializer reading from source.
func NewDeserializer(source EventReader) *Deserializer {
	return &Deserializer{source: source, state: NewState()}
}

// Depth returns the current nesting depth (0 = top level).
func (d *Deserializer) Depth() int {
	return d.state.Depth()
}

// CurrentPath returns the path of the value being read.
func (d *Deserializer) CurrentPath() string {
	return d.state.CurrentPath()
}

// Pos returns the position of the last event read from the source.
func (d *Deserializer) Pos() Pos {
	return d.last
}

func (d *Deserializer) peekEvent() (*Event, error) {
	if d.pending != nil {
		return d.pending, nil
	}
	if d.err != nil {
		return nil, d.err
	}
	if d.eof {
		return &Event{Type: EventStreamEnd, Pos: d.last}, nil
	}
	ev, err := d.source.ReadEvent()
	if err == io.EOF {
		ev, err = &Event{Type: EventStreamEnd, Pos: d.last}, nil
	}
	if err != nil {
		d.err = WrapError(d.last, "read error", err)
		return nil, d.err
	}
	if debug.Events() {
		debug.Logf("kf: %s %s", ev.Pos, ev.Describe())
	}
	if ev.Pos.IsValid() {
		d.last = ev.Pos
	}
	d.pending = ev
	return ev, nil
}

// consume takes the pending event and feeds it to the state.
func (d *Deserializer) consume(ev *Event) error {
	d.pending = nil
	if ev.Type == EventStreamEnd {
		if d.eof {
			return nil
		}
		d.eof = true
		if d.state.Depth() > 0 {
			d.err = Errorf(ev.Pos, "unexpected end of input in %s", d.describeOpen())
			return d.err
		}
	}
	if err := d.state.ProcessEvent(ev); err != nil {
		d.err = &DeserializationError{Msg: "malformed structure", Pos: ev.Pos, Err: err}
		return d.err
	}
	return nil
}

func (d *Deserializer) describeOpen() string {
	if p := d.state.CurrentPath(); p != "" {
		return p
	}
	if d.state.IsInCollection() {
		return "collection"
	}
	return "object"
}

func (d *Deserializer) expect(t EventType) (*Event, error) {
	ev, err := d.peekEvent()
	if err != nil {
		return nil, err
	}
	if ev.Type != t {
		if ev.Type == EventStreamEnd && d.state.Depth() > 0 {
			return nil, Errorf(ev.Pos, "unexpected end of input in %s, expected %s", d.describeOpen(), t.Kind())
		}
		return nil, MismatchError(t.Kind(), ev)
	}
	return ev, d.consume(ev)
}

// Peek returns the type of the next event without consuming it.
func (d *Deserializer) Peek() (EventType, error) {
	ev, err := d.peekEvent()
	if err != nil {
		return 0, err
	}
	return ev.Type, nil
}

// ReadEvent consumes and returns the next event whatever its type. It
// returns io.EOF after the end of the stream.
func (d *Deserializer) ReadEvent() (*Event, error) {
	ev, err := d.peekEvent()
	if err != nil {
		return nil, err
	}
	if ev.Type == EventStreamEnd && d.eof {
		return nil, io.EOF
	}
	if err := d.consume(ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func (d *Deserializer) ReadObjectBegin() (ustring.String, error) {
	ev, err := d.expect(EventObjectBegin)
	if err != nil {
		return ustring.Empty, err
	}
	return ev.Name, nil
}

func (d *Deserializer) ReadObjectEnd() (ustring.String, error) {
	ev, err := d.expect(EventObjectEnd)
	if err != nil {
		return ustring.Empty, err
	}
	return ev.Name, nil
}

func (d *Deserializer) ReadCollectionBegin() error {
	_, err := d.expect(EventCollectionBegin)
	return err
}

func (d *Deserializer) TryReadCollectionEnd() (bool, error) {
	return d.try(EventCollectionEnd)
}

func (d *Deserializer) try(t EventType) (bool, error) {
	ev, err := d.peekEvent()
	if err != nil {
		return false, err
	}
	if ev.Type != t {
		return false, nil
	}
	return true, d.consume(ev)
}

func (d *Deserializer) TryReadPropertyName() (ustring.String, bool, error) {
	ev, err := d.peekEvent()
	if err != nil {
		return ustring.Empty, false, err
	}
	if ev.Type != EventProperty {
		return ustring.Empty, false, nil
	}
	if err := d.consume(ev); err != nil {
		return ustring.Empty, false, err
	}
	return ev.Name, true, nil
}

// TryReadNull consumes a null, including text that denotes one.
func (d *Deserializer) TryReadNull() (bool, error) {
	ev, err := d.peekEvent()
	if err != nil {
		return false, err
	}
	if ev.Type != EventNull && (ev.Type != EventText || ev.Guess != EventNull) {
		return false, nil
	}
	return true, d.consume(ev)
}

// scalar consumes the next event if it is one of kinds or text.
func (d *Deserializer) scalar(expected string, kinds ...EventType) (*Event, error) {
	ev, err := d.peekEvent()
	if err != nil {
		return nil, err
	}
	ok := ev.Type == EventText
	for _, k := range kinds {
		ok = ok || ev.Type == k
	}
	if !ok {
		if ev.Type == EventStreamEnd && d.state.Depth() > 0 {
			return nil, Errorf(ev.Pos, "unexpected end of input in %s, expected %s", d.describeOpen(), expected)
		}
		return nil, MismatchError(expected, ev)
	}
	return ev, d.consume(ev)
}

func (d *Deserializer) ReadStringLiteral() (ustring.String, error) {
	ev, err := d.scalar(EventString.Kind(), EventString)
	if err != nil {
		return ustring.Empty, err
	}
	return ev.String, nil
}

func (d *Deserializer) ReadIntegerLiteral() (int64, error) {
	ev, err := d.scalar(EventInteger.Kind(), EventInteger)
	if err != nil {
		return 0, err
	}
	if ev.Type == EventInteger {
		return ev.Int, nil
	}
	v, err := ParseInteger(ev.String.String())
	if err != nil {
		return 0, d.fail(ev, "expected integer literal", err)
	}
	return v, nil
}

// ReadDecimalLiteral reads a decimal; integers widen.
func (d *Deserializer) ReadDecimalLiteral() (float64, error) {
	ev, err := d.scalar(EventDecimal.Kind(), EventDecimal, EventInteger)
	if err != nil {
		return 0, err
	}
	switch ev.Type {
	case EventDecimal:
		return ev.Float, nil
	case EventInteger:
		return float64(ev.Int), nil
	}
	v, err := ParseDecimal(ev.String.String())
	if err != nil {
		return 0, d.fail(ev, "expected decimal literal", err)
	}
	return v, nil
}

func (d *Deserializer) ReadBooleanLiteral() (bool, error) {
	ev, err := d.scalar(EventBool.Kind(), EventBool)
	if err != nil {
		return false, err
	}
	if ev.Type == EventBool {
		return ev.Bool, nil
	}
	v, err := ParseBool(ev.String.String())
	if err != nil {
		return false, d.fail(ev, "expected boolean literal", err)
	}
	return v, nil
}

// ReadStreamEnd requires that the input holds nothing more.
func (d *Deserializer) ReadStreamEnd() error {
	if d.eof && d.pending == nil {
		return d.err
	}
	_, err := d.expect(EventStreamEnd)
	return err
}

// Skip consumes one complete value.
func (d *Deserializer) Skip() error {
	ev, err := d.peekEvent()
	if err != nil {
		return err
	}
	if !ev.IsValueStart() {
		return MismatchError("value", ev)
	}
	depth := d.state.Depth()
	for {
		ev, err := d.ReadEvent()
		if err != nil {
			return err
		}
		if ev.Type != EventProperty && d.state.Depth() == depth {
			return nil
		}
	}
}

func (d *Deserializer) fail(ev *Event, msg string, err error) error {
	d.err = &DeserializationError{Msg: msg, Pos: ev.Pos, Err: err}
	return d.err
}
