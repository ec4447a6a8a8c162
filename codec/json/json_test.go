package json

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kfoundation/go-kfoundation/stream"
	"github.com/kfoundation/go-kfoundation/ustring"
)

var u = ustring.Of

var eventCmp = cmp.Comparer(func(a, b ustring.String) bool { return a.Equal(b) })

func TestWriteAda(t *testing.T) {
	var buf bytes.Buffer
	s := NewSerializer(&buf)
	s.WriteObjectBegin(u("Person")).
		WritePropertyName(u("name")).WriteString(u("Ada")).
		WritePropertyName(u("age")).WriteInteger(36).
		WriteObjectEnd()
	if err := s.WriteStreamEnd(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := buf.String(), `{"name":"Ada","age":36}`; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestWriteShapes(t *testing.T) {
	var buf bytes.Buffer
	s := NewSerializer(&buf)
	s.WriteCollectionBegin().
		WriteObjectBegin(ustring.Empty).WriteObjectEnd().
		WriteCollectionBegin().WriteCollectionEnd().
		WriteDecimal(2).WriteDecimal(0.5).WriteNull().WriteBool(false).
		WriteString(u("<a & \"b\">")).
		WriteObjectBegin(ustring.Empty).
		WritePropertyName(u("")).WriteInteger(1).
		WritePropertyName(u("xs")).WriteCollectionBegin().WriteInteger(1).WriteInteger(2).WriteCollectionEnd().
		WriteObjectEnd().
		WriteCollectionEnd()
	if err := s.WriteStreamEnd(); err != nil {
		t.Fatal(err)
	}
	want := `[{},[],2.0,0.5,null,false,"<a & \"b\">",{"":1,"xs":[1,2]}]`
	if got := buf.String(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestWriteNaN(t *testing.T) {
	s := NewSerializer(&bytes.Buffer{})
	s.WriteDecimal(math.Inf(1))
	var perr *stream.ProtocolError
	if !errors.As(s.Err(), &perr) {
		t.Errorf("expected ProtocolError, got %v", s.Err())
	}
}

func readAll(t *testing.T, d *stream.Deserializer) []stream.Event {
	t.Helper()
	var evs []stream.Event
	for {
		ev, err := d.ReadEvent()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		evs = append(evs, *ev)
		if ev.Type == stream.EventStreamEnd {
			return evs
		}
	}
}

func TestRead(t *testing.T) {
	in := ` {"name": "Adé", "age": 36, "h": 1.5e2, "big": 12345678901234567890,
	  "e": {}, "ea": [], "": null, "ok": true, "xs": [{"": {}}, -3]} `
	got := readAll(t, NewDeserializer(strings.NewReader(in)))
	want := []stream.Event{
		{Type: stream.EventObjectBegin},
		{Type: stream.EventProperty, Name: u("name")},
		{Type: stream.EventString, String: u("Adé")},
		{Type: stream.EventProperty, Name: u("age")},
		{Type: stream.EventInteger, Int: 36},
		{Type: stream.EventProperty, Name: u("h")},
		{Type: stream.EventDecimal, Float: 150},
		{Type: stream.EventProperty, Name: u("big")},
		{Type: stream.EventDecimal, Float: 12345678901234567890},
		{Type: stream.EventProperty, Name: u("e")},
		{Type: stream.EventObjectBegin},
		{Type: stream.EventObjectEnd},
		{Type: stream.EventProperty, Name: u("ea")},
		{Type: stream.EventCollectionBegin},
		{Type: stream.EventCollectionEnd},
		{Type: stream.EventProperty, Name: u("")},
		{Type: stream.EventNull},
		{Type: stream.EventProperty, Name: u("ok")},
		{Type: stream.EventBool, Bool: true},
		{Type: stream.EventProperty, Name: u("xs")},
		{Type: stream.EventCollectionBegin},
		{Type: stream.EventObjectBegin},
		{Type: stream.EventProperty, Name: u("")},
		{Type: stream.EventObjectBegin},
		{Type: stream.EventObjectEnd},
		{Type: stream.EventObjectEnd},
		{Type: stream.EventInteger, Int: -3},
		{Type: stream.EventCollectionEnd},
		{Type: stream.EventObjectEnd},
		{Type: stream.EventStreamEnd},
	}
	if diff := cmp.Diff(want, got, eventCmp); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripIndented(t *testing.T) {
	write := func(s stream.ObjectSerializer) error {
		s.WriteObjectBegin(ustring.Empty).
			WritePropertyName(u("name")).WriteString(u("Ada")).
			WritePropertyName(u("tags")).WriteCollectionBegin().WriteString(u("a")).WriteCollectionEnd().
			WritePropertyName(u("e")).WriteObjectBegin(ustring.Empty).WriteObjectEnd().
			WritePropertyName(u("f")).WriteDecimal(-0.25).
			WriteObjectEnd()
		return s.WriteStreamEnd()
	}
	rec := &stream.EventRecorder{}
	if err := write(stream.NewSerializer(rec)); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := write(NewSerializer(&buf, WithIndent(2))); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n  \"name\": \"Ada\"") {
		t.Errorf("output is not indented: %q", buf.String())
	}
	got := readAll(t, NewDeserializer(&buf))
	if diff := cmp.Diff(rec.Events, got, eventCmp); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestReadMalformed(t *testing.T) {
	tests := map[string]string{
		"missing object end": `{"name":"Ada"`,
		"missing array end":  `[1, 2`,
		"missing value":      `{"a":}`,
		"missing colon":      `{"a" 1}`,
		"bad literal":        `[tru]`,
		"trailing content":   `{} x`,
		"invalid utf8":       "[\"\xff\"]",
		"truncated":          `{"a":[{"b":1}`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			d := NewDeserializer(strings.NewReader(in))
			var err error
			for err == nil {
				_, err = d.ReadEvent()
			}
			var derr *stream.DeserializationError
			if !errors.As(err, &derr) {
				t.Fatalf("expected DeserializationError, got %v", err)
			}
		})
	}
}

func TestReadEmptyInput(t *testing.T) {
	d := NewDeserializer(strings.NewReader("  "))
	ty, err := d.Peek()
	if err != nil {
		t.Fatal(err)
	}
	if ty != stream.EventStreamEnd {
		t.Errorf("expected end of input, got %s", ty)
	}
}
