package json

import (
	"fmt"
	"math"
	"strconv"

	"github.com/kfoundation/go-kfoundation/stream"

	jsoniter "github.com/json-iterator/go"
)

const flushSize = 4096

// encoder writes events through a jsoniter stream. Opening brackets are
// held back until the first child or the end arrives so that empty
// containers come out as {} and [].
type encoder struct {
	s     *jsoniter.Stream
	stack []frame

	pending     bool
	pendingColl bool
}

type frame struct {
	coll bool
	n    int
}

func (e *encoder) open() {
	if !e.pending {
		return
	}
	e.pending = false
	if e.pendingColl {
		e.s.WriteArrayStart()
	} else {
		e.s.WriteObjectStart()
	}
}

func (e *encoder) beforeValue() {
	e.open()
	if n := len(e.stack); n > 0 && e.stack[n-1].coll {
		if e.stack[n-1].n > 0 {
			e.s.WriteMore()
		}
		e.stack[n-1].n++
	}
}

func (e *encoder) WriteEvent(ev *stream.Event) error {
	switch ev.Type {
	case stream.EventObjectBegin, stream.EventCollectionBegin:
		e.beforeValue()
		coll := ev.Type == stream.EventCollectionBegin
		e.pending, e.pendingColl = true, coll
		e.stack = append(e.stack, frame{coll: coll})

	case stream.EventObjectEnd, stream.EventCollectionEnd:
		e.stack = e.stack[:len(e.stack)-1]
		switch {
		case e.pending && e.pendingColl:
			e.pending = false
			e.s.WriteEmptyArray()
		case e.pending:
			e.pending = false
			e.s.WriteEmptyObject()
		case ev.Type == stream.EventCollectionEnd:
			e.s.WriteArrayEnd()
		default:
			e.s.WriteObjectEnd()
		}

	case stream.EventProperty:
		e.open()
		f := &e.stack[len(e.stack)-1]
		if f.n > 0 {
			e.s.WriteMore()
		}
		f.n++
		e.s.WriteObjectField(ev.Name.String())

	case stream.EventString, stream.EventText:
		e.beforeValue()
		e.s.WriteString(ev.String.String())

	case stream.EventInteger:
		e.beforeValue()
		e.s.WriteInt64(ev.Int)

	case stream.EventDecimal:
		if math.IsNaN(ev.Float) || math.IsInf(ev.Float, 0) {
			return &stream.ProtocolError{Op: ev.Type.String(), Msg: fmt.Sprintf("%v is not representable in JSON", ev.Float)}
		}
		e.beforeValue()
		e.s.WriteRaw(formatDecimal(ev.Float))

	case stream.EventBool:
		e.beforeValue()
		e.s.WriteBool(ev.Bool)

	case stream.EventNull:
		e.beforeValue()
		e.s.WriteNil()
	}
	if e.s.Error != nil {
		return e.s.Error
	}
	if e.s.Buffered() > flushSize {
		return e.s.Flush()
	}
	return nil
}

func (e *encoder) Flush() error {
	if e.s.Error != nil {
		return e.s.Error
	}
	return e.s.Flush()
}

// formatDecimal keeps a fraction or exponent so decimals read back as
// decimals.
func formatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	for i := 0; i < len(s); i++ {
		if s[i] == '.' || s[i] == 'e' {
			return s
		}
	}
	return s + ".0"
}
