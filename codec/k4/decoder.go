package k4

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/kfoundation/go-kfoundation/stream"
	"github.com/kfoundation/go-kfoundation/ustring"
)

// scanner reads bytes and tracks the position of the next one.
type scanner struct {
	r    *bufio.Reader
	line int
	col  int
	off  int64
}

func (s *scanner) pos() stream.Pos {
	return stream.Pos{Line: s.line, Col: s.col, Offset: s.off}
}

func (s *scanner) peek() (byte, error) {
	b, err := s.r.Peek(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (s *scanner) next() (byte, error) {
	c, err := s.r.ReadByte()
	if err != nil {
		return 0, err
	}
	s.off++
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return c, nil
}

// decoder turns K4 text into events.
type decoder struct {
	s        scanner
	stack    []context
	rootDone bool
	err      error
}

type context struct {
	coll      bool
	wantValue bool
}

func newDecoder(r io.Reader) *decoder {
	return &decoder{s: scanner{r: bufio.NewReader(r), line: 1, col: 1}}
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

func (d *decoder) ioErr(err error) error {
	if errors.Is(err, io.EOF) {
		return stream.Errorf(d.s.pos(), "unexpected end of input")
	}
	return &stream.DeserializationError{Msg: "read error", Pos: d.s.pos(), Err: err}
}

// skipSpace skips whitespace and line comments. Reaching the end of input
// is not an error here.
func (d *decoder) skipSpace() error {
	for {
		c, err := d.s.peek()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return d.ioErr(err)
		}
		switch c {
		case ' ', '\t', '\n', '\r', ',':
			d.s.next()
		case '/':
			p := d.s.pos()
			d.s.next()
			c, err := d.s.peek()
			if err != nil || c != '/' {
				return stream.Errorf(p, "unexpected character '/'")
			}
			for {
				c, err := d.s.next()
				if err == io.EOF || c == '\n' {
					break
				}
				if err != nil {
					return d.ioErr(err)
				}
			}
		default:
			return nil
		}
	}
}

func (d *decoder) read() (*stream.Event, error) {
	if err := d.skipSpace(); err != nil {
		return nil, err
	}
	p := d.s.pos()
	c, err := d.s.peek()
	if err == io.EOF {
		if n := len(d.stack); n > 0 {
			closer := "']'"
			if d.stack[n-1].coll {
				closer = "'}'"
			}
			return nil, stream.Errorf(p, "unexpected end of input, missing %s", closer)
		}
		return nil, io.EOF
	}
	if err != nil {
		return nil, d.ioErr(err)
	}
	if len(d.stack) == 0 {
		if d.rootDone {
			return nil, stream.Errorf(p, "unexpected %q after root value", c)
		}
		d.rootDone = true
		return d.value(p, c)
	}
	top := &d.stack[len(d.stack)-1]
	switch {
	case top.coll:
		if c == '}' {
			d.s.next()
			d.stack = d.stack[:len(d.stack)-1]
			return &stream.Event{Type: stream.EventCollectionEnd, Pos: p}, nil
		}
		if c == ']' {
			return nil, stream.Errorf(p, "unexpected ']' in collection")
		}
		return d.value(p, c)
	case top.wantValue:
		top.wantValue = false
		if c == ']' || c == '}' || c == '=' {
			return nil, stream.Errorf(p, "expected value, found %q", c)
		}
		return d.value(p, c)
	case c == ']':
		d.s.next()
		d.stack = d.stack[:len(d.stack)-1]
		return &stream.Event{Type: stream.EventObjectEnd, Pos: p}, nil
	}
	name, err := d.propertyName(p, c)
	if err != nil {
		return nil, err
	}
	if err := d.skipSpace(); err != nil {
		return nil, err
	}
	if c, err := d.s.peek(); err != nil || c != '=' {
		return nil, stream.Errorf(d.s.pos(), "expected '=' after property %q", name.String())
	}
	d.s.next()
	top.wantValue = true
	return &stream.Event{Type: stream.EventProperty, Name: name, Pos: p}, nil
}

func (d *decoder) propertyName(p stream.Pos, c byte) (ustring.String, error) {
	switch {
	case c == '"':
		return d.quoted(p)
	case isIdentByte(c) && !isDigit(c) && c != '.' && c != '-':
		return d.ident(p)
	}
	return ustring.Empty, stream.Errorf(p, "expected property name, found %q", c)
}

func (d *decoder) value(p stream.Pos, c byte) (*stream.Event, error) {
	switch {
	case c == '[':
		d.s.next()
		d.stack = append(d.stack, context{})
		return &stream.Event{Type: stream.EventObjectBegin, Pos: p}, nil
	case c == '{':
		d.s.next()
		d.stack = append(d.stack, context{coll: true})
		return &stream.Event{Type: stream.EventCollectionBegin, Pos: p}, nil
	case c == '"':
		s, err := d.quoted(p)
		if err != nil {
			return nil, err
		}
		return &stream.Event{Type: stream.EventString, String: s, Pos: p}, nil
	case isDigit(c) || c == '-' || c == '+' || c == '.':
		return d.number(p)
	case isIdentByte(c):
		name, err := d.ident(p)
		if err != nil {
			return nil, err
		}
		if c, err := d.s.peek(); err == nil && c == '[' {
			d.s.next()
			d.stack = append(d.stack, context{})
			return &stream.Event{Type: stream.EventObjectBegin, Name: name, Pos: p}, nil
		}
		switch name.String() {
		case "true":
			return &stream.Event{Type: stream.EventBool, Bool: true, Pos: p}, nil
		case "false":
			return &stream.Event{Type: stream.EventBool, Pos: p}, nil
		case "null":
			return &stream.Event{Type: stream.EventNull, Pos: p}, nil
		}
		return nil, stream.Errorf(p, "unexpected identifier %q", name.String())
	}
	return nil, stream.Errorf(p, "unexpected character %q", c)
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isIdentByte(c byte) bool {
	return c >= 0x80 || c == '_' || c == '.' || c == '-' || isDigit(c) ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func (d *decoder) ident(p stream.Pos) (ustring.String, error) {
	var b []byte
	for {
		c, err := d.s.peek()
		if err != nil || !isIdentByte(c) {
			break
		}
		d.s.next()
		b = append(b, c)
	}
	s, err := ustring.FromBytes(b)
	if err != nil {
		return ustring.Empty, &stream.DeserializationError{Msg: "invalid name", Pos: p, Err: err}
	}
	return s, nil
}

func (d *decoder) number(p stream.Pos) (*stream.Event, error) {
	var b strings.Builder
	for {
		c, err := d.s.peek()
		if err != nil || !(isIdentByte(c) || c == '+') || c >= 0x80 {
			break
		}
		d.s.next()
		b.WriteByte(c)
	}
	text := b.String()
	digits := strings.TrimLeft(text, "+-")
	prefixed := len(digits) > 1 && digits[0] == '0' && strings.ContainsRune("xXoObB", rune(digits[1]))
	if !prefixed && strings.ContainsAny(text, ".eE") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, stream.Errorf(p, "invalid number %q", text)
		}
		return &stream.Event{Type: stream.EventDecimal, Float: f, Pos: p}, nil
	}
	i, err := strconv.ParseInt(text, 0, 64)
	if err == nil {
		return &stream.Event{Type: stream.EventInteger, Int: i, Pos: p}, nil
	}
	if errors.Is(err, strconv.ErrRange) && !prefixed {
		if f, ferr := strconv.ParseFloat(text, 64); ferr == nil {
			return &stream.Event{Type: stream.EventDecimal, Float: f, Pos: p}, nil
		}
	}
	return nil, stream.Errorf(p, "invalid number %q", text)
}

// quoted reads a double quoted string with JSON escapes.
func (d *decoder) quoted(p stream.Pos) (ustring.String, error) {
	d.s.next()
	var b []byte
	for {
		c, err := d.s.next()
		if err != nil {
			if err == io.EOF {
				return ustring.Empty, stream.Errorf(p, "unterminated string")
			}
			return ustring.Empty, d.ioErr(err)
		}
		switch c {
		case '"':
			s, err := ustring.FromBytes(b)
			if err != nil {
				return ustring.Empty, &stream.DeserializationError{Msg: "invalid string", Pos: p, Err: err}
			}
			return s, nil
		case '\\':
			b, err = d.escape(b)
			if err != nil {
				return ustring.Empty, err
			}
		default:
			b = append(b, c)
		}
	}
}

func (d *decoder) escape(b []byte) ([]byte, error) {
	p := d.s.pos()
	c, err := d.s.next()
	if err != nil {
		return nil, d.ioErr(err)
	}
	switch c {
	case '"', '\\', '/':
		return append(b, c), nil
	case 'b':
		return append(b, '\b'), nil
	case 'f':
		return append(b, '\f'), nil
	case 'n':
		return append(b, '\n'), nil
	case 'r':
		return append(b, '\r'), nil
	case 't':
		return append(b, '\t'), nil
	case 'u':
		u1, err := d.hex4()
		if err != nil {
			return nil, err
		}
		units := []uint16{u1}
		if u1 >= 0xD800 && u1 < 0xDC00 {
			if c, _ := d.s.next(); c != '\\' {
				return nil, stream.Errorf(p, "unpaired surrogate in escape")
			}
			if c, _ := d.s.next(); c != 'u' {
				return nil, stream.Errorf(p, "unpaired surrogate in escape")
			}
			u2, err := d.hex4()
			if err != nil {
				return nil, err
			}
			units = append(units, u2)
		}
		r, _, err := ustring.DecodeUTF16(units...)
		if err != nil {
			return nil, &stream.DeserializationError{Msg: "invalid escape", Pos: p, Err: err}
		}
		b, _ = ustring.AppendUTF8(b, r)
		return b, nil
	}
	return nil, stream.Errorf(p, "invalid escape '\\%c'", c)
}

func (d *decoder) hex4() (uint16, error) {
	p := d.s.pos()
	var v uint16
	for i := 0; i < 4; i++ {
		c, err := d.s.next()
		if err != nil {
			return 0, d.ioErr(err)
		}
		var n byte
		switch {
		case isDigit(c):
			n = c - '0'
		case 'a' <= c && c <= 'f':
			n = c - 'a' + 10
		case 'A' <= c && c <= 'F':
			n = c - 'A' + 10
		default:
			return 0, stream.Errorf(p, "invalid hex digit %q", c)
		}
		v = v<<4 | uint16(n)
	}
	return v, nil
}
