package gomap

import (
	"testing"

	"github.com/kfoundation/go-kfoundation/codec/k4"
	"github.com/kfoundation/go-kfoundation/stream"
	"github.com/kfoundation/go-kfoundation/ustring"
)

func TestListOfOptional(t *testing.T) {
	rw := ListOf(OptionalOf(String))
	if p := rw.Default().Policy; p != Required {
		t.Errorf("lists are required, got %s", p)
	}
	if p := OptionalOf(String).Default().Policy; p != Optional {
		t.Errorf("optional values are optional, got %s", p)
	}
	rec := &stream.EventRecorder{}
	s := stream.NewSerializer(rec)
	x := "x"
	if err := rw.Write(s, []*string{&x, nil}); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteStreamEnd(); err != nil {
		t.Fatal(err)
	}
	got, err := rw.Read(stream.NewDeserializer(rec.Reader()))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] == nil || *got[0] != "x" || got[1] != nil {
		t.Errorf("unexpected %v", got)
	}

	empty, err := ListOf(Int64).Read(k4.NewStringDeserializer("{}"))
	if err != nil {
		t.Fatal(err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected an empty list, got %#v", empty)
	}
}

func TestBuiltins(t *testing.T) {
	d := k4.NewStringDeserializer(`{true 7 -3 2.5 1 "ü" "ab" 9223372036854775807}`)
	if err := d.ReadCollectionBegin(); err != nil {
		t.Fatal(err)
	}
	if v, err := Bool.Read(d); err != nil || !v {
		t.Errorf("Bool: %v %v", v, err)
	}
	if v, err := Uint64.Read(d); err != nil || v != 7 {
		t.Errorf("Uint64: %v %v", v, err)
	}
	if _, err := Uint64.Read(d); err == nil {
		t.Error("Uint64: expected an error for -3")
	}
	if v, err := Float32.Read(d); err != nil || v != 2.5 {
		t.Errorf("Float32: %v %v", v, err)
	}
	if v, err := Float64.Read(d); err != nil || v != 1 {
		t.Errorf("Float64 should widen integers: %v %v", v, err)
	}
	if v, err := Char.Read(d); err != nil || !v.Equal(ustring.MustChar('ü')) {
		t.Errorf("Char: %v %v", v, err)
	}
	if _, err := Char.Read(d); err == nil {
		t.Error("Char: expected an error for two characters")
	}
	if v, err := Int64.Read(d); err != nil || v != 9223372036854775807 {
		t.Errorf("Int64: %v %v", v, err)
	}

	rec := &stream.EventRecorder{}
	s := stream.NewSerializer(rec)
	if err := Uint64.Write(s, 1<<63); err == nil {
		t.Error("Uint64: expected an error above MaxInt64")
	}
}
