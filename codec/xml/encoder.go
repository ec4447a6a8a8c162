package xml

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"unicode"

	"github.com/kfoundation/go-kfoundation/stream"
)

const (
	listElem = "list"
	itemElem = "item"
	nullElem = "null"
)

type frameKind int

const (
	objFrame frameKind = iota
	propFrame
	listFrame
)

type frame struct {
	kind frameKind
	name string
}

type encoder struct {
	e       *xml.Encoder
	opts    *opts
	stack   []frame
	started bool
}

func (e *encoder) start(name string, kind frameKind) error {
	if !e.started {
		e.started = true
		if e.opts.header {
			pi := xml.ProcInst{Target: "xml", Inst: []byte(`version="1.0" encoding="UTF-8"`)}
			if err := e.e.EncodeToken(pi); err != nil {
				return err
			}
		}
	}
	e.stack = append(e.stack, frame{kind: kind, name: name})
	return e.e.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}})
}

func (e *encoder) end() error {
	f := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return e.e.EncodeToken(xml.EndElement{Name: xml.Name{Local: f.name}})
}

// afterValue closes the property element whose value was just written.
func (e *encoder) afterValue() error {
	if n := len(e.stack); n > 0 && e.stack[n-1].kind == propFrame {
		return e.end()
	}
	return nil
}

func (e *encoder) text(s string) error {
	inProp := len(e.stack) > 0 && e.stack[len(e.stack)-1].kind == propFrame
	if !inProp {
		if err := e.start(itemElem, listFrame); err != nil {
			return err
		}
	}
	if err := e.e.EncodeToken(xml.CharData(s)); err != nil {
		return err
	}
	return e.end()
}

func (e *encoder) WriteEvent(ev *stream.Event) error {
	switch ev.Type {
	case stream.EventObjectBegin:
		name := ev.Name.String()
		if name == "" {
			name = e.opts.defaultName
		}
		if err := checkTypeName(name); err != nil {
			return err
		}
		return e.start(name, objFrame)

	case stream.EventObjectEnd, stream.EventCollectionEnd:
		if err := e.end(); err != nil {
			return err
		}
		return e.afterValue()

	case stream.EventCollectionBegin:
		return e.start(listElem, listFrame)

	case stream.EventProperty:
		name := ev.Name.String()
		if !isName(name) {
			return &stream.ProtocolError{Op: ev.Type.String(), Msg: fmt.Sprintf("property name %q is not an XML name", name)}
		}
		return e.start(name, propFrame)

	case stream.EventNull:
		if err := e.start(nullElem, listFrame); err != nil {
			return err
		}
		if err := e.end(); err != nil {
			return err
		}
		return e.afterValue()

	case stream.EventString, stream.EventText:
		s := ev.String.String()
		for _, r := range s {
			if !isXMLChar(r) {
				return &stream.ProtocolError{Op: ev.Type.String(), Msg: fmt.Sprintf("character %U is not allowed in XML", r)}
			}
		}
		return e.text(s)

	case stream.EventInteger:
		return e.text(strconv.FormatInt(ev.Int, 10))

	case stream.EventDecimal:
		return e.text(formatDecimal(ev.Float))

	case stream.EventBool:
		return e.text(strconv.FormatBool(ev.Bool))
	}
	return nil
}

func (e *encoder) Flush() error {
	return e.e.Flush()
}

func formatDecimal(v float64) string {
	switch {
	case math.IsNaN(v):
		return ".nan"
	case math.IsInf(v, 1):
		return ".inf"
	case math.IsInf(v, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	for i := 0; i < len(s); i++ {
		if s[i] == '.' || s[i] == 'e' {
			return s
		}
	}
	return s + ".0"
}

func checkTypeName(name string) error {
	switch {
	case name == "":
		return &stream.ProtocolError{Op: stream.EventObjectBegin.String(), Msg: "XML objects need a type name"}
	case name == listElem || name == itemElem || name == nullElem:
		return &stream.ProtocolError{Op: stream.EventObjectBegin.String(), Msg: fmt.Sprintf("type name %q is reserved", name)}
	case !isName(name):
		return &stream.ProtocolError{Op: stream.EventObjectBegin.String(), Msg: fmt.Sprintf("type name %q is not an XML name", name)}
	}
	return nil
}

// isName accepts XML names without namespace prefixes.
func isName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}
