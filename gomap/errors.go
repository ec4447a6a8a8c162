package gomap

import (
	"errors"
	"fmt"

	"github.com/kfoundation/go-kfoundation/stream"
)

// MarshalError reports a value that could not be written.
type MarshalError struct {
	FieldPath string // e.g. "Person.friends[2].name"
	Message   string
	Err       error
}

func (e *MarshalError) Error() string {
	msg := joinMsg(e.Message, e.Err)
	if e.FieldPath != "" {
		return fmt.Sprintf("marshal error at %s: %s", e.FieldPath, msg)
	}
	return fmt.Sprintf("marshal error: %s", msg)
}

func (e *MarshalError) Unwrap() error {
	return e.Err
}

// UnmarshalError reports a document that could not be read into a value.
// Err is usually a *stream.DeserializationError.
type UnmarshalError struct {
	FieldPath string
	Message   string
	Err       error
}

func (e *UnmarshalError) Error() string {
	msg := joinMsg(e.Message, e.Err)
	if e.FieldPath != "" {
		return fmt.Sprintf("unmarshal error at %s: %s", e.FieldPath, msg)
	}
	return fmt.Sprintf("unmarshal error: %s", msg)
}

func (e *UnmarshalError) Unwrap() error {
	return e.Err
}

// TypeError reports a Go type the mapper cannot derive a reader or writer
// for.
type TypeError struct {
	Type    string
	Message string
	Err     error
}

func (e *TypeError) Error() string {
	msg := fmt.Sprintf("type error for %s: %s", e.Type, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TypeError) Unwrap() error {
	return e.Err
}

// readErr attaches path to err unless an inner reader already did.
func readErr(path string, err error) error {
	var ue *UnmarshalError
	if errors.As(err, &ue) {
		return err
	}
	var de *stream.DeserializationError
	if !errors.As(err, &de) {
		err = &stream.DeserializationError{Msg: "invalid value", Err: err}
	}
	return &UnmarshalError{FieldPath: path, Err: err}
}

func writeErr(path string, err error) error {
	var me *MarshalError
	if errors.As(err, &me) {
		return err
	}
	return &MarshalError{FieldPath: path, Err: err}
}

type poser interface {
	Pos() stream.Pos
}

// shapeErr reports a document of the wrong shape, at the deserializer's
// position when it knows one.
func shapeErr(d stream.ObjectDeserializer, path, format string, args ...any) error {
	var p stream.Pos
	if ps, ok := d.(poser); ok {
		p = ps.Pos()
	}
	de := stream.Errorf(p, format, args...)
	return &UnmarshalError{FieldPath: path, Err: de}
}

func joinMsg(msg string, err error) string {
	switch {
	case err == nil:
		return msg
	case msg == "":
		return err.Error()
	}
	return msg + ": " + err.Error()
}
