package k4

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"unicode"

	"github.com/kfoundation/go-kfoundation/stream"
)

// encoder renders events as K4 text. Nesting is validated by the
// stream.Serializer in front of it.
type encoder struct {
	w         *bufio.Writer
	opts      *opts
	stack     []frame
	afterProp bool
	buf       []byte
}

type frame struct {
	coll bool
	n    int
}

func newEncoder(w io.Writer, o *opts) *encoder {
	return &encoder{w: bufio.NewWriter(w), opts: o}
}

func (e *encoder) color(t stream.EventType, a ColorAttr, s string) string {
	if e.opts.colors == nil {
		return s
	}
	return e.opts.colors.Color(t, a, s)
}

func (e *encoder) newline(depth int) {
	e.w.WriteByte('\n')
	for i := 0; i < depth*e.opts.indent; i++ {
		e.w.WriteByte(' ')
	}
}

// separate writes what goes before a property or a collection item.
func (e *encoder) separate(f *frame) {
	if e.opts.indent > 0 {
		e.newline(len(e.stack))
	} else if f.n > 0 {
		e.w.WriteByte(' ')
	}
	f.n++
}

func (e *encoder) beforeValue() {
	if e.afterProp {
		e.afterProp = false
		return
	}
	if n := len(e.stack); n > 0 && e.stack[n-1].coll {
		e.separate(&e.stack[n-1])
	}
}

func (e *encoder) end(t stream.EventType, closer string) {
	f := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	if e.opts.indent > 0 && f.n > 0 {
		e.newline(len(e.stack))
	}
	e.w.WriteString(e.color(t, SepColor, closer))
}

func (e *encoder) WriteEvent(ev *stream.Event) error {
	switch ev.Type {
	case stream.EventObjectBegin:
		name := ev.Name.String()
		if name != "" && !isIdent(name) {
			return &stream.ProtocolError{Op: ev.Type.String(), Msg: fmt.Sprintf("type name %q is not an identifier", name)}
		}
		e.beforeValue()
		if name != "" {
			e.w.WriteString(e.color(ev.Type, TypeNameColor, name))
		}
		e.w.WriteString(e.color(ev.Type, SepColor, "["))
		e.stack = append(e.stack, frame{})

	case stream.EventObjectEnd:
		e.end(ev.Type, "]")

	case stream.EventCollectionBegin:
		e.beforeValue()
		e.w.WriteString(e.color(ev.Type, SepColor, "{"))
		e.stack = append(e.stack, frame{coll: true})

	case stream.EventCollectionEnd:
		e.end(ev.Type, "}")

	case stream.EventProperty:
		e.separate(&e.stack[len(e.stack)-1])
		name := ev.Name.String()
		if !isIdent(name) {
			name = string(appendQuoted(e.buf[:0], name))
		}
		e.w.WriteString(e.color(ev.Type, FieldColor, name))
		e.w.WriteString(e.color(ev.Type, SepColor, "="))
		e.afterProp = true

	case stream.EventString, stream.EventText:
		e.beforeValue()
		e.buf = appendQuoted(e.buf[:0], ev.String.String())
		e.scalar(stream.EventString, e.buf)

	case stream.EventInteger:
		e.beforeValue()
		e.scalar(ev.Type, strconv.AppendInt(e.buf[:0], ev.Int, 10))

	case stream.EventDecimal:
		if math.IsNaN(ev.Float) || math.IsInf(ev.Float, 0) {
			return &stream.ProtocolError{Op: ev.Type.String(), Msg: fmt.Sprintf("%v is not representable in K4", ev.Float)}
		}
		e.beforeValue()
		e.scalar(ev.Type, appendDecimal(e.buf[:0], ev.Float))

	case stream.EventBool:
		e.beforeValue()
		e.scalar(ev.Type, strconv.AppendBool(e.buf[:0], ev.Bool))

	case stream.EventNull:
		e.beforeValue()
		e.scalar(ev.Type, append(e.buf[:0], "null"...))

	case stream.EventStreamEnd:
		if e.opts.indent > 0 {
			e.w.WriteByte('\n')
		}
	}
	return nil
}

func (e *encoder) scalar(t stream.EventType, d []byte) {
	if e.opts.colors == nil {
		e.w.Write(d)
		return
	}
	e.w.WriteString(e.color(t, ValueColor, string(d)))
}

func (e *encoder) Flush() error {
	return e.w.Flush()
}

// appendDecimal formats v so that it always reads back as a decimal.
func appendDecimal(dst []byte, v float64) []byte {
	start := len(dst)
	dst = strconv.AppendFloat(dst, v, 'g', -1, 64)
	for _, c := range dst[start:] {
		if c == '.' || c == 'e' || c == 'E' {
			return dst
		}
	}
	return append(dst, ".0"...)
}

func appendQuoted(dst []byte, s string) []byte {
	const hex = "0123456789abcdef"
	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"', '\\':
			dst = append(dst, '\\', c)
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		default:
			if c < 0x20 {
				dst = append(dst, '\\', 'u', '0', '0', hex[c>>4], hex[c&0xF])
				continue
			}
			dst = append(dst, c)
		}
	}
	return append(dst, '"')
}

// isIdent reports whether s can be written as a bare name: a letter or
// underscore followed by letters, digits and "_.-".
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '.' || r == '-'):
		default:
			return false
		}
	}
	return true
}
