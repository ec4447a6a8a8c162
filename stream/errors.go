package stream

import (
	"fmt"
	"strings"
)

// ProtocolError reports a token written out of the well formed nesting
// order, or one the target format cannot represent.
type ProtocolError struct {
	Op   string
	Path string
	Msg  string
}

func (e *ProtocolError) Error() string {
	var b strings.Builder
	b.WriteString("protocol error")
	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	return b.String()
}

// DeserializationError reports input that does not match the expected
// shape: malformed syntax, a wrong literal kind, a wrong or missing type
// name, an unknown or missing property.
type DeserializationError struct {
	Msg string
	Pos Pos
	Err error
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

func (e *DeserializationError) Error() string {
	msg := e.Msg
	if e.Pos.IsValid() {
		msg += " at " + e.Pos.String()
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Errorf returns a DeserializationError at p.
func Errorf(p Pos, format string, args ...any) *DeserializationError {
	return &DeserializationError{Msg: fmt.Sprintf(format, args...), Pos: p}
}

// WrapError returns err if it already is a DeserializationError and wraps
// it otherwise.
func WrapError(p Pos, msg string, err error) error {
	if de, ok := err.(*DeserializationError); ok {
		return de
	}
	return &DeserializationError{Msg: msg, Pos: p, Err: err}
}

// MismatchError names the expected token kind and the one found.
func MismatchError(expected string, found *Event) *DeserializationError {
	if found.Type == EventStreamEnd {
		return Errorf(found.Pos, "unexpected end of input, expected %s", expected)
	}
	return Errorf(found.Pos, "expected %s, found %s", expected, found.Type.Kind())
}
