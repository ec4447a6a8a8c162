package json

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/kfoundation/go-kfoundation/stream"
	"github.com/kfoundation/go-kfoundation/ustring"

	jsoniter "github.com/json-iterator/go"
)

// decoder pulls events from a jsoniter iterator.
type decoder struct {
	it       *jsoniter.Iterator
	stack    []context
	rootDone bool
	err      error
}

type context struct {
	coll      bool
	wantValue bool
}

// ReadEvent returns the next event, or io.EOF after the root value.
func (d *decoder) ReadEvent() (*stream.Event, error) {
	if d.err != nil {
		return nil, d.err
	}
	ev, err := d.read()
	if err != nil {
		d.err = err
		return nil, err
	}
	return ev, nil
}

// check converts an iterator error. Running out of input is only an error
// inside a value.
func (d *decoder) check() error {
	err := d.it.Error
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		d.it.Error = nil
		return stream.Errorf(stream.Pos{}, "unexpected end of input")
	}
	return &stream.DeserializationError{Msg: "malformed JSON", Err: err}
}

func (d *decoder) read() (*stream.Event, error) {
	if len(d.stack) == 0 {
		if d.rootDone {
			return nil, d.trailing()
		}
		d.rootDone = true
		ev, err := d.value()
		if ev == nil && err == nil {
			return nil, io.EOF
		}
		return ev, err
	}
	top := &d.stack[len(d.stack)-1]
	if top.coll {
		more := d.it.ReadArray()
		if err := d.check(); err != nil {
			return nil, err
		}
		if !more {
			d.stack = d.stack[:len(d.stack)-1]
			return &stream.Event{Type: stream.EventCollectionEnd}, nil
		}
		return d.required()
	}
	if top.wantValue {
		top.wantValue = false
		return d.required()
	}
	field := d.it.ReadObject()
	if err := d.check(); err != nil {
		return nil, err
	}
	if field == "" && !d.valueFollows() {
		d.stack = d.stack[:len(d.stack)-1]
		return &stream.Event{Type: stream.EventObjectEnd}, nil
	}
	name, err := toUString(field)
	if err != nil {
		return nil, err
	}
	top.wantValue = true
	return &stream.Event{Type: stream.EventProperty, Name: name}, nil
}

// valueFollows tells an empty key, whose value comes next, from the end of
// the object, which ReadObject reports the same way.
func (d *decoder) valueFollows() bool {
	t := d.it.WhatIsNext()
	if errors.Is(d.it.Error, io.EOF) {
		d.it.Error = nil
	}
	return t != jsoniter.InvalidValue
}

func (d *decoder) trailing() error {
	t := d.it.WhatIsNext()
	if errors.Is(d.it.Error, io.EOF) {
		d.it.Error = nil
		return io.EOF
	}
	if t == jsoniter.InvalidValue && d.it.Error != nil {
		return d.check()
	}
	return stream.Errorf(stream.Pos{}, "unexpected content after root value")
}

func (d *decoder) required() (*stream.Event, error) {
	ev, err := d.value()
	if ev == nil && err == nil {
		return nil, stream.Errorf(stream.Pos{}, "unexpected end of input")
	}
	return ev, err
}

// value reads a scalar or opens a container. It returns nil, nil at the
// end of input.
func (d *decoder) value() (*stream.Event, error) {
	t := d.it.WhatIsNext()
	if errors.Is(d.it.Error, io.EOF) {
		d.it.Error = nil
		return nil, nil
	}
	switch t {
	case jsoniter.ObjectValue:
		d.stack = append(d.stack, context{})
		return &stream.Event{Type: stream.EventObjectBegin}, nil
	case jsoniter.ArrayValue:
		d.stack = append(d.stack, context{coll: true})
		return &stream.Event{Type: stream.EventCollectionBegin}, nil
	case jsoniter.StringValue:
		s := d.it.ReadString()
		if err := d.check(); err != nil {
			return nil, err
		}
		us, err := toUString(s)
		if err != nil {
			return nil, err
		}
		return &stream.Event{Type: stream.EventString, String: us}, nil
	case jsoniter.NumberValue:
		n := d.it.ReadNumber()
		if err := d.check(); err != nil {
			return nil, err
		}
		return number(string(n))
	case jsoniter.BoolValue:
		b := d.it.ReadBool()
		if err := d.check(); err != nil {
			return nil, err
		}
		return &stream.Event{Type: stream.EventBool, Bool: b}, nil
	case jsoniter.NilValue:
		d.it.ReadNil()
		if err := d.check(); err != nil {
			return nil, err
		}
		return &stream.Event{Type: stream.EventNull}, nil
	}
	if err := d.check(); err != nil {
		return nil, err
	}
	return nil, stream.Errorf(stream.Pos{}, "expected JSON value")
}

func number(s string) (*stream.Event, error) {
	if !strings.ContainsAny(s, ".eE") {
		i, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return &stream.Event{Type: stream.EventInteger, Int: i}, nil
		}
		if !errors.Is(err, strconv.ErrRange) {
			return nil, stream.Errorf(stream.Pos{}, "invalid number %q", s)
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, stream.Errorf(stream.Pos{}, "invalid number %q", s)
	}
	return &stream.Event{Type: stream.EventDecimal, Float: f}, nil
}

func toUString(s string) (ustring.String, error) {
	us, err := ustring.FromBytes([]byte(s))
	if err != nil {
		return ustring.Empty, &stream.DeserializationError{Msg: "invalid string", Err: err}
	}
	return us, nil
}
