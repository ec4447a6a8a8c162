package stream

import "github.com/kfoundation/go-kfoundation/ustring"

// Copy transcodes one complete value from src to dst. Text scalars are
// written as the literal kind their Guess names, or as strings when they
// do not parse as that kind.
func Copy(dst ObjectSerializer, src *Deserializer) error {
	ev, err := src.peekEvent()
	if err != nil {
		return err
	}
	if !ev.IsValueStart() {
		return MismatchError("value", ev)
	}
	depth := src.Depth()
	for {
		ev, err := src.ReadEvent()
		if err != nil {
			return err
		}
		emit(dst, ev)
		if err := dst.Err(); err != nil {
			return err
		}
		if ev.Type != EventProperty && src.Depth() == depth {
			return nil
		}
	}
}

// CopyAll copies the single root value of src, if any, and ends the
// output stream.
func CopyAll(dst ObjectSerializer, src *Deserializer) error {
	t, err := src.Peek()
	if err != nil {
		return err
	}
	if t != EventStreamEnd {
		if err := Copy(dst, src); err != nil {
			return err
		}
	}
	if err := src.ReadStreamEnd(); err != nil {
		return err
	}
	return dst.WriteStreamEnd()
}

func emit(dst ObjectSerializer, ev *Event) {
	switch ev.Type {
	case EventObjectBegin:
		dst.WriteObjectBegin(ev.Name)
	case EventObjectEnd:
		dst.WriteObjectEnd()
	case EventCollectionBegin:
		dst.WriteCollectionBegin()
	case EventCollectionEnd:
		dst.WriteCollectionEnd()
	case EventProperty:
		dst.WritePropertyName(ev.Name)
	case EventString:
		dst.WriteString(ev.String)
	case EventInteger:
		dst.WriteInteger(ev.Int)
	case EventDecimal:
		dst.WriteDecimal(ev.Float)
	case EventBool:
		dst.WriteBool(ev.Bool)
	case EventNull:
		dst.WriteNull()
	case EventText:
		emitText(dst, ev.String, ev.Guess)
	}
}

func emitText(dst ObjectSerializer, s ustring.String, guess EventType) {
	text := s.String()
	switch guess {
	case EventNull:
		dst.WriteNull()
		return
	case EventBool:
		if v, err := ParseBool(text); err == nil {
			dst.WriteBool(v)
			return
		}
	case EventInteger:
		if v, err := ParseInteger(text); err == nil {
			dst.WriteInteger(v)
			return
		}
	case EventDecimal:
		if v, err := ParseDecimal(text); err == nil {
			dst.WriteDecimal(v)
			return
		}
	}
	dst.WriteString(s)
}
