package yaml

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml/token"

	"github.com/kfoundation/go-kfoundation/stream"
)

type place int

const (
	atRoot place = iota
	afterKey
	afterDash
)

type frame struct {
	coll bool
	col  int
}

// encoder writes block style YAML. A container is opened lazily so that
// empty ones can be written in flow style.
type encoder struct {
	w      *bufio.Writer
	indent int
	stack  []frame

	at      place
	written bool
	// inline puts the next key or dash on the current line, right after
	// "- ".
	inline bool

	pending     bool
	pendingColl bool
	pendingTag  string
}

func (e *encoder) parentCol() int {
	if len(e.stack) == 0 {
		return 0
	}
	return e.stack[len(e.stack)-1].col
}

// open writes the header of the pending container once its first child
// is known.
func (e *encoder) open() {
	if !e.pending {
		return
	}
	e.pending = false
	f := frame{coll: e.pendingColl}
	switch e.at {
	case atRoot:
		f.col = 0
	case afterKey:
		f.col = e.parentCol() + e.indent
	case afterDash:
		f.col = e.parentCol() + 2
	}
	if e.pendingTag != "" {
		if e.at == afterKey {
			e.w.WriteByte(' ')
		}
		e.w.WriteString("!" + e.pendingTag)
		e.written = true
	} else if e.at != afterKey {
		e.inline = true
	}
	e.stack = append(e.stack, f)
}

func (e *encoder) newLine(col int) {
	if e.inline {
		e.inline = false
		return
	}
	if e.written {
		e.w.WriteByte('\n')
	}
	e.written = true
	for i := 0; i < col; i++ {
		e.w.WriteByte(' ')
	}
}

// beforeValue places the cursor where a value goes: after "key:", after a
// new "- " or at the start of the document.
func (e *encoder) beforeValue() {
	e.open()
	if n := len(e.stack); n > 0 && e.stack[n-1].coll {
		e.newLine(e.stack[n-1].col)
		e.w.WriteString("- ")
		e.at = afterDash
	}
}

func (e *encoder) scalar(s string) {
	e.beforeValue()
	if e.at == afterKey {
		e.w.WriteByte(' ')
	}
	e.w.WriteString(s)
	e.written = true
}

func (e *encoder) WriteEvent(ev *stream.Event) error {
	switch ev.Type {
	case stream.EventObjectBegin, stream.EventCollectionBegin:
		var tag string
		if ev.Type == stream.EventObjectBegin {
			tag = ev.Name.String()
			if tag != "" && !isTag(tag) {
				return &stream.ProtocolError{Op: ev.Type.String(), Msg: fmt.Sprintf("type name %q is not a YAML tag", tag)}
			}
		}
		e.beforeValue()
		e.pending, e.pendingColl, e.pendingTag = true, ev.Type == stream.EventCollectionBegin, tag

	case stream.EventObjectEnd, stream.EventCollectionEnd:
		if e.pending {
			e.pending = false
			if e.at == afterKey {
				e.w.WriteByte(' ')
			}
			switch {
			case e.pendingColl:
				e.w.WriteString("[]")
			case e.pendingTag != "":
				e.w.WriteString("!" + e.pendingTag + " {}")
			default:
				e.w.WriteString("{}")
			}
			e.written = true
			return nil
		}
		e.stack = e.stack[:len(e.stack)-1]

	case stream.EventProperty:
		e.open()
		e.newLine(e.stack[len(e.stack)-1].col)
		e.w.WriteString(quote(ev.Name.String()))
		e.w.WriteByte(':')
		e.at = afterKey

	case stream.EventString, stream.EventText:
		e.scalar(quote(ev.String.String()))

	case stream.EventInteger:
		e.scalar(strconv.FormatInt(ev.Int, 10))

	case stream.EventDecimal:
		e.scalar(formatDecimal(ev.Float))

	case stream.EventBool:
		e.scalar(strconv.FormatBool(ev.Bool))

	case stream.EventNull:
		e.scalar("null")

	case stream.EventStreamEnd:
		if e.written {
			e.w.WriteByte('\n')
		}
	}
	return nil
}

func (e *encoder) Flush() error {
	return e.w.Flush()
}

// quote returns s as a plain scalar when it reads back as the same string
// and double quoted otherwise.
func quote(s string) string {
	if s == "" || token.IsNeedQuoted(s) || stream.GuessText(s) != stream.EventString ||
		strings.TrimSpace(s) != s || strings.ContainsAny(s, "\n\t\"\\#:") ||
		strings.ContainsAny(s[:1], "!&*-?[]{},|>%@`'") {
		return strconv.Quote(s)
	}
	for _, r := range s {
		if !strconv.IsPrint(r) {
			return strconv.Quote(s)
		}
	}
	return s
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
	if strings.Contains(s, ".") {
		return s
	}
	if i := strings.IndexByte(s, 'e'); i >= 0 {
		return s[:i] + ".0" + s[i:]
	}
	return s + ".0"
}

func isTag(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case i > 0 && (c >= '0' && c <= '9' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}
