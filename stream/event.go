package stream

import (
	"fmt"
	"strconv"

	"github.com/kfoundation/go-kfoundation/ustring"
)

// Event is one token of the format independent object grammar. Events
// correspond one to one with the ObjectSerializer methods.
type Event struct {
	Type EventType

	// Name is the type name for object events and the property name for
	// EventProperty.
	Name ustring.String

	// Value fields (only the one matching Type is set). EventText carries
	// its raw text in String.
	String ustring.String
	Int    int64
	Float  float64
	Bool   bool

	// Guess is the literal kind an EventText most likely denotes.
	Guess EventType

	Pos Pos
}

// IsValueStart returns true if this event starts a value (as opposed to a
// property name or an end marker).
func (e *Event) IsValueStart() bool {
	return e.Type.IsValueStart()
}

// Describe renders the event for debug output and error messages.
func (e *Event) Describe() string {
	switch e.Type {
	case EventObjectBegin, EventObjectEnd:
		if e.Name.IsEmpty() {
			return e.Type.String()
		}
		return e.Type.String() + "(" + e.Name.String() + ")"
	case EventProperty:
		return "Property(" + strconv.Quote(e.Name.String()) + ")"
	case EventString:
		return "String(" + strconv.Quote(e.String.String()) + ")"
	case EventText:
		return "Text(" + strconv.Quote(e.String.String()) + " ~" + e.Guess.String() + ")"
	case EventInteger:
		return "Integer(" + strconv.FormatInt(e.Int, 10) + ")"
	case EventDecimal:
		return "Decimal(" + strconv.FormatFloat(e.Float, 'g', -1, 64) + ")"
	case EventBool:
		return "Bool(" + strconv.FormatBool(e.Bool) + ")"
	default:
		return e.Type.String()
	}
}

// EventType represents the type of a structural event.
type EventType int

const (
	EventObjectBegin EventType = iota
	EventObjectEnd
	EventCollectionBegin
	EventCollectionEnd
	EventProperty
	EventString
	EventInteger
	EventDecimal
	EventBool
	EventNull
	EventText      // untyped scalar from formats without literal kinds
	EventStreamEnd // end of input
)

func (t EventType) String() string {
	switch t {
	case EventObjectBegin:
		return "ObjectBegin"
	case EventObjectEnd:
		return "ObjectEnd"
	case EventCollectionBegin:
		return "CollectionBegin"
	case EventCollectionEnd:
		return "CollectionEnd"
	case EventProperty:
		return "Property"
	case EventString:
		return "String"
	case EventInteger:
		return "Integer"
	case EventDecimal:
		return "Decimal"
	case EventBool:
		return "Bool"
	case EventNull:
		return "Null"
	case EventText:
		return "Text"
	case EventStreamEnd:
		return "StreamEnd"
	default:
		return "Unknown"
	}
}

// Kind names the token for error messages ("property name", "object begin").
func (t EventType) Kind() string {
	switch t {
	case EventObjectBegin:
		return "object begin"
	case EventObjectEnd:
		return "object end"
	case EventCollectionBegin:
		return "collection begin"
	case EventCollectionEnd:
		return "collection end"
	case EventProperty:
		return "property name"
	case EventString:
		return "string literal"
	case EventInteger:
		return "integer literal"
	case EventDecimal:
		return "decimal literal"
	case EventBool:
		return "boolean literal"
	case EventNull:
		return "null"
	case EventText:
		return "text"
	case EventStreamEnd:
		return "end of input"
	default:
		return "unknown token"
	}
}

func (t EventType) IsValueStart() bool {
	switch t {
	case EventObjectBegin, EventCollectionBegin, EventString, EventInteger,
		EventDecimal, EventBool, EventNull, EventText:
		return true
	default:
		return false
	}
}

func (t EventType) IsScalar() bool {
	switch t {
	case EventString, EventInteger, EventDecimal, EventBool, EventNull, EventText:
		return true
	default:
		return false
	}
}

func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *EventType) UnmarshalText(d []byte) error {
	k := string(d)
	pt, ok := map[string]EventType{
		"ObjectBegin":     EventObjectBegin,
		"ObjectEnd":       EventObjectEnd,
		"CollectionBegin": EventCollectionBegin,
		"CollectionEnd":   EventCollectionEnd,
		"Property":        EventProperty,
		"String":          EventString,
		"Integer":         EventInteger,
		"Decimal":         EventDecimal,
		"Bool":            EventBool,
		"Null":            EventNull,
		"Text":            EventText,
		"StreamEnd":       EventStreamEnd,
	}[k]
	if ok {
		*t = pt
		return nil
	}
	return fmt.Errorf("unknown type %q", k)
}

// Pos is a position in the input. The zero value means unknown.
type Pos struct {
	Line   int // 1 based
	Col    int // 1 based, in bytes
	Offset int64
}

func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	if !p.IsValid() {
		return "?"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}
