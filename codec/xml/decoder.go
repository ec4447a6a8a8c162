package xml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/kfoundation/go-kfoundation/stream"
	"github.com/kfoundation/go-kfoundation/ustring"
)

type readKind int

const (
	rObject readKind = iota
	rProperty
	rList
	rItem
	rNull
)

type context struct {
	kind     readKind
	name     string
	text     []byte
	hasChild bool
}

// decoder pulls events from an encoding/xml token stream. Element text is
// reported as stream.EventText, typed later by whoever consumes it.
type decoder struct {
	d        *xml.Decoder
	stack    []context
	rootDone bool
	err      error
}

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

func (d *decoder) pos() stream.Pos {
	line, col := d.d.InputPos()
	return stream.Pos{Line: line, Col: col, Offset: d.d.InputOffset()}
}

func (d *decoder) read() (*stream.Event, error) {
	for {
		p := d.pos()
		tok, err := d.d.Token()
		if err != nil {
			if errors.Is(err, io.EOF) && len(d.stack) == 0 {
				return nil, io.EOF
			}
			if errors.Is(err, io.EOF) {
				return nil, stream.Errorf(p, "unexpected end of input, missing </%s>", d.stack[len(d.stack)-1].name)
			}
			var serr *xml.SyntaxError
			if errors.As(err, &serr) {
				return nil, stream.WrapError(stream.Pos{Line: serr.Line}, "malformed XML", err)
			}
			return nil, stream.WrapError(p, "malformed XML", err)
		}
		var ev *stream.Event
		switch t := tok.(type) {
		case xml.StartElement:
			ev, err = d.start(t.Name.Local, p)
		case xml.EndElement:
			ev, err = d.end(p)
		case xml.CharData:
			err = d.charData(t, p)
		}
		if err != nil {
			return nil, err
		}
		if ev != nil {
			ev.Pos = p
			return ev, nil
		}
	}
}

func (d *decoder) top() *context {
	if len(d.stack) == 0 {
		return nil
	}
	return &d.stack[len(d.stack)-1]
}

// value opens name as a value inside a collection, property or the root.
func (d *decoder) value(name string, p stream.Pos, inList bool) (*stream.Event, error) {
	switch name {
	case listElem:
		d.stack = append(d.stack, context{kind: rList, name: name})
		return &stream.Event{Type: stream.EventCollectionBegin}, nil
	case nullElem:
		d.stack = append(d.stack, context{kind: rNull, name: name})
		return &stream.Event{Type: stream.EventNull}, nil
	case itemElem:
		if !inList {
			return nil, stream.Errorf(p, "<item> outside of a list")
		}
		d.stack = append(d.stack, context{kind: rItem, name: name})
		return nil, nil
	}
	d.stack = append(d.stack, context{kind: rObject, name: name})
	return &stream.Event{Type: stream.EventObjectBegin, Name: ustring.Of(name)}, nil
}

func (d *decoder) start(name string, p stream.Pos) (*stream.Event, error) {
	top := d.top()
	if top == nil {
		if d.rootDone {
			return nil, stream.Errorf(p, "unexpected <%s> after root element", name)
		}
		d.rootDone = true
		return d.value(name, p, true)
	}
	switch top.kind {
	case rObject:
		d.stack = append(d.stack, context{kind: rProperty, name: name})
		return &stream.Event{Type: stream.EventProperty, Name: ustring.Of(name)}, nil
	case rProperty:
		if top.hasChild {
			return nil, stream.Errorf(p, "property <%s> holds more than one value", top.name)
		}
		if len(bytes.TrimSpace(top.text)) != 0 {
			return nil, stream.Errorf(p, "property <%s> mixes text and elements", top.name)
		}
		top.hasChild = true
		return d.value(name, p, false)
	case rList:
		return d.value(name, p, true)
	}
	return nil, stream.Errorf(p, "unexpected <%s> inside <%s>", name, top.name)
}

func (d *decoder) end(p stream.Pos) (*stream.Event, error) {
	c := d.stack[len(d.stack)-1]
	d.stack = d.stack[:len(d.stack)-1]
	switch c.kind {
	case rObject:
		return &stream.Event{Type: stream.EventObjectEnd, Name: ustring.Of(c.name)}, nil
	case rList:
		return &stream.Event{Type: stream.EventCollectionEnd}, nil
	case rProperty:
		if c.hasChild {
			return nil, nil
		}
		return text(c.text, p)
	case rItem:
		return text(c.text, p)
	}
	return nil, nil
}

func text(b []byte, p stream.Pos) (*stream.Event, error) {
	s, err := ustring.FromBytes(b)
	if err != nil {
		return nil, stream.WrapError(p, "invalid text", err)
	}
	return &stream.Event{Type: stream.EventText, String: s, Guess: stream.GuessText(s.String())}, nil
}

func (d *decoder) charData(b xml.CharData, p stream.Pos) error {
	top := d.top()
	blank := len(bytes.TrimSpace(b)) == 0
	switch {
	case top == nil || top.kind == rObject || top.kind == rList || top.kind == rNull:
		if !blank {
			where := "outside of the root element"
			if top != nil {
				where = fmt.Sprintf("inside <%s>", top.name)
			}
			return stream.Errorf(p, "unexpected text %s", where)
		}
	case top.kind == rProperty && top.hasChild:
		if !blank {
			return stream.Errorf(p, "property <%s> mixes text and elements", top.name)
		}
	default:
		top.text = append(top.text, b...)
	}
	return nil
}
