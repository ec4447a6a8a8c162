package ustring

import (
	"bytes"
	"errors"
	"testing"
)

func TestUTF8SizeFirstOctet(t *testing.T) {
	tests := []struct {
		b    byte
		want int
	}{
		{0x00, 1},
		{'a', 1},
		{0x7F, 1},
		{0xC3, 2},
		{0xE2, 3},
		{0xF0, 4},
		{0xF4, 4},
	}
	for _, tt := range tests {
		got, err := UTF8SizeFirstOctet(tt.b)
		if err != nil {
			t.Fatalf("0x%02x: unexpected error: %v", tt.b, err)
		}
		if got != tt.want {
			t.Errorf("0x%02x: expected %d, got %d", tt.b, tt.want, got)
		}
	}
	for _, b := range []byte{0x80, 0xBF, 0xF8, 0xFF} {
		_, err := UTF8SizeFirstOctet(b)
		var encErr *EncodingError
		if !errors.As(err, &encErr) {
			t.Errorf("0x%02x: expected EncodingError, got %v", b, err)
		}
	}
}

func TestEuroSign(t *testing.T) {
	c, err := CharOf(0x20AC)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xE2, 0x82, 0xAC}
	if !bytes.Equal(c.UTF8(), want) {
		t.Errorf("expected % x, got % x", want, c.UTF8())
	}
	if c.String() != "€" {
		t.Errorf("expected €, got %q", c.String())
	}
	if u := c.UTF16(); len(u) != 1 || u[0] != 0x20AC {
		t.Errorf("unexpected utf16 %v", u)
	}
}

func TestUTF8RoundTripAllCodePoints(t *testing.T) {
	for r := rune(0); r <= MaxCodePoint; r++ {
		if r >= surrogateMin && r <= surrogateMax {
			continue
		}
		enc, err := EncodeUTF8(r)
		if err != nil {
			t.Fatalf("U+%04X: %v", r, err)
		}
		if n := UTF8SizeCodePoint(r); n != len(enc) {
			t.Fatalf("U+%04X: size %d, encoded %d bytes", r, n, len(enc))
		}
		got, n, err := DecodeUTF8(enc)
		if err != nil {
			t.Fatalf("U+%04X: decode: %v", r, err)
		}
		if got != r || n != len(enc) {
			t.Fatalf("U+%04X: decoded U+%04X (%d bytes)", r, got, n)
		}
	}
}

func TestDecodeUTF8Malformed(t *testing.T) {
	tests := map[string][]byte{
		"empty":             {},
		"lone continuation": {0x80},
		"bad continuation":  {0xE2, 0x28, 0xA1},
		"truncated":         {0xE2, 0x82},
		"overlong slash":    {0xC0, 0xAF},
		"overlong 3 byte":   {0xE0, 0x80, 0xAF},
		"surrogate":         {0xED, 0xA0, 0x80},
		"above max":         {0xF4, 0x90, 0x80, 0x80},
		"invalid lead":      {0xFF},
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := DecodeUTF8(in)
			var encErr *EncodingError
			if !errors.As(err, &encErr) {
				t.Fatalf("expected EncodingError, got %v", err)
			}
		})
	}
}

func TestCharOfInvalid(t *testing.T) {
	for _, r := range []rune{-1, 0xD800, 0xDFFF, 0x110000} {
		if _, err := CharOf(r); err == nil {
			t.Errorf("U+%04X: expected error", r)
		}
		if n := UTF8SizeCodePoint(r); n != -1 {
			t.Errorf("U+%04X: expected size -1, got %d", r, n)
		}
	}
}

func TestUTF16(t *testing.T) {
	units, err := EncodeUTF16(0x1F600)
	if err != nil {
		t.Fatal(err)
	}
	if len(units) != 2 || units[0] != 0xD83D || units[1] != 0xDE00 {
		t.Fatalf("unexpected units %x", units)
	}
	c, err := CharFromUTF16(units...)
	if err != nil {
		t.Fatal(err)
	}
	if c.CodePoint() != 0x1F600 {
		t.Errorf("expected U+1F600, got U+%04X", c.CodePoint())
	}
	if c.UTF8Len() != 4 {
		t.Errorf("expected 4 bytes, got %d", c.UTF8Len())
	}
	if _, err := CharFromUTF16(0xDE00); err == nil {
		t.Error("expected error for lone low surrogate")
	}
	if _, err := CharFromUTF16(0xD83D); err == nil {
		t.Error("expected error for truncated pair")
	}
	if _, err := CharFromUTF16(0xD83D, 0x0041); err == nil {
		t.Error("expected error for bad low surrogate")
	}
}

func TestCharFromUTF8(t *testing.T) {
	c, err := CharFromUTF8([]byte("ß"))
	if err != nil {
		t.Fatal(err)
	}
	if c.CodePoint() != 'ß' {
		t.Errorf("unexpected codepoint U+%04X", c.CodePoint())
	}
	if _, err := CharFromUTF8([]byte("ab")); err == nil {
		t.Error("expected error for trailing bytes")
	}
}

func TestCharClassification(t *testing.T) {
	tests := []struct {
		r                                  rune
		lower, upper, letter, digit, space bool
	}{
		{'a', true, false, true, false, false},
		{'Q', false, true, true, false, false},
		{'7', false, false, false, true, false},
		{' ', false, false, false, false, true},
		{'\t', false, false, false, false, true},
		{'é', true, false, true, false, false},
		{'Ж', false, true, true, false, false},
		{'€', false, false, false, false, false},
	}
	for _, tt := range tests {
		c := MustChar(tt.r)
		if c.IsLower() != tt.lower || c.IsUpper() != tt.upper || c.IsLetter() != tt.letter ||
			c.IsDigit() != tt.digit || c.IsSpace() != tt.space {
			t.Errorf("%q: unexpected classification", tt.r)
		}
		if c.IsAlphanumeric() != (tt.letter || tt.digit) {
			t.Errorf("%q: unexpected alphanumeric", tt.r)
		}
	}
}

func TestCharCase(t *testing.T) {
	if got := MustChar('é').ToUpper(); got.CodePoint() != 'É' {
		t.Errorf("expected É, got %s", got)
	}
	if got := MustChar('Ж').ToLower(); got.CodePoint() != 'ж' {
		t.Errorf("expected ж, got %s", got)
	}
	if !MustChar('k').EqualFold(MustChar('K')) {
		t.Error("expected k and K to fold")
	}
	if MustChar('k').EqualFold(MustChar('x')) {
		t.Error("expected k and x to differ")
	}
}

func TestCharWriteTo(t *testing.T) {
	var buf bytes.Buffer
	if _, err := MustChar('€').WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if err := WriteUTF8(&buf, 'x'); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "€x" {
		t.Errorf("expected €x, got %q", buf.String())
	}
}
