package ustring

import (
	"io"
	"unicode"
)

// Char is a single Unicode character. It keeps both the codepoint and its
// UTF-8 encoding. The zero value is U+0000.
type Char struct {
	cp   rune
	utf8 [4]byte
	n    uint8
}

// CharOf returns the character for codepoint r.
func CharOf(r rune) (Char, error) {
	c := Char{cp: r}
	d, err := AppendUTF8(c.utf8[:0], r)
	if err != nil {
		return Char{}, err
	}
	c.n = uint8(len(d))
	return c, nil
}

// MustChar is like CharOf but panics on invalid codepoints. It is meant
// for constants.
func MustChar(r rune) Char {
	c, err := CharOf(r)
	if err != nil {
		panic(err)
	}
	return c
}

// CharFromUTF8 decodes b, which must hold exactly one encoded character.
func CharFromUTF8(b []byte) (Char, error) {
	r, n, err := DecodeUTF8(b)
	if err != nil {
		return Char{}, err
	}
	if n != len(b) {
		return Char{}, encErr(n, "%d trailing bytes after character", len(b)-n)
	}
	return CharOf(r)
}

// CharFromUTF16 decodes a single UTF-16 unit or a surrogate pair.
func CharFromUTF16(units ...uint16) (Char, error) {
	r, n, err := DecodeUTF16(units...)
	if err != nil {
		return Char{}, err
	}
	if n != len(units) {
		return Char{}, encErr(n, "trailing UTF-16 units after character")
	}
	return CharOf(r)
}

func (c Char) CodePoint() rune { return c.cp }

// UTF8 returns a copy of the UTF-8 encoding of c.
func (c Char) UTF8() []byte {
	return append([]byte(nil), c.raw()...)
}

func (c Char) raw() []byte {
	if c.n == 0 {
		// zero value
		return []byte{0}
	}
	return c.utf8[:c.n]
}

// UTF8Len returns the number of bytes of the UTF-8 encoding of c.
func (c Char) UTF8Len() int {
	if c.n == 0 {
		return 1
	}
	return int(c.n)
}

// UTF16 returns the UTF-16 encoding of c.
func (c Char) UTF16() []uint16 {
	u, _ := EncodeUTF16(c.cp)
	return u
}

// WriteTo writes the UTF-8 encoding of c to w.
func (c Char) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.raw())
	return int64(n), err
}

func (c Char) IsLower() bool        { return unicode.IsLower(c.cp) }
func (c Char) IsUpper() bool        { return unicode.IsUpper(c.cp) }
func (c Char) IsLetter() bool       { return unicode.IsLetter(c.cp) }
func (c Char) IsDigit() bool        { return unicode.IsDigit(c.cp) }
func (c Char) IsAlphanumeric() bool { return c.IsLetter() || c.IsDigit() }
func (c Char) IsSpace() bool        { return unicode.IsSpace(c.cp) }

func (c Char) ToLower() Char { return MustChar(unicode.ToLower(c.cp)) }
func (c Char) ToUpper() Char { return MustChar(unicode.ToUpper(c.cp)) }

// EqualFold reports whether c and o are equal under simple case folding.
func (c Char) EqualFold(o Char) bool {
	return foldEq(c.cp, o.cp)
}

func (c Char) Equal(o Char) bool { return c.cp == o.cp }

func (c Char) String() string { return string(c.raw()) }

func foldEq(a, b rune) bool {
	if a == b {
		return true
	}
	if a < 0x80 && b < 0x80 {
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		return a == b
	}
	return unicode.ToLower(a) == unicode.ToLower(b) || unicode.ToUpper(a) == unicode.ToUpper(b)
}
