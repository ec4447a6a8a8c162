package format

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"k4": K4, "k": K4, "K4": K4,
		"json": JSON, "j": JSON,
		"xml": XML, "x": XML,
		"yaml": YAML, "yml": YAML, "y": YAML,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", in, err)
		}
		if got != want {
			t.Errorf("%q: expected %s, got %s", in, want, got)
		}
	}
	if _, err := ParseFormat("toml"); !errors.Is(err, ErrBadFormat) {
		t.Errorf("expected ErrBadFormat, got %v", err)
	}
}

func TestTextRoundTrip(t *testing.T) {
	for _, f := range All() {
		d, err := f.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Format
		if err := back.UnmarshalText(d); err != nil {
			t.Fatal(err)
		}
		if back != f {
			t.Errorf("expected %s, got %s", f, back)
		}
	}
	if _, err := Format(42).MarshalText(); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestFromPath(t *testing.T) {
	for _, f := range All() {
		got, err := FromPath("dir/person" + f.Suffix())
		if err != nil {
			t.Fatal(err)
		}
		if got != f {
			t.Errorf("expected %s, got %s", f, got)
		}
	}
	if f, err := FromPath("a.yml"); err != nil || f != YAML {
		t.Errorf("expected yaml, got %s %v", f, err)
	}
	if _, err := FromPath("README"); !errors.Is(err, ErrBadFormat) {
		t.Errorf("expected ErrBadFormat, got %v", err)
	}
}
