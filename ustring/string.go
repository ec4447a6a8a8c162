package ustring

import (
	"bytes"
	"hash/fnv"
	"io"
	"strings"
	"sync/atomic"
	"unicode"
)

// String is an immutable sequence of characters stored as UTF-8.
// The zero value is the empty string. Copies share their contents.
type String struct {
	p *payload
}

type payload struct {
	b []byte
	// n is the character count plus one; 0 means not yet counted.
	n atomic.Int64
}

// Empty is the empty string.
var Empty = String{}

func newString(b []byte, n int) String {
	if len(b) == 0 {
		return Empty
	}
	p := &payload{b: b}
	if n >= 0 {
		p.n.Store(int64(n) + 1)
	}
	return String{p: p}
}

// Of converts a Go string. Invalid UTF-8 sequences are replaced by U+FFFD.
func Of(s string) String {
	if s == "" {
		return Empty
	}
	s = strings.ToValidUTF8(s, "\uFFFD")
	return newString([]byte(s), -1)
}

// FromBytes returns a string holding a copy of b, which must be valid UTF-8.
func FromBytes(b []byte) (String, error) {
	n, err := validate(b)
	if err != nil {
		return Empty, err
	}
	return newString(bytes.Clone(b), n), nil
}

// FromBytesRange is FromBytes(b[off:off+size]).
func FromBytesRange(b []byte, off, size int) (String, error) {
	if off < 0 || size < 0 || off+size > len(b) {
		return Empty, &IndexError{Index: off + size, Len: len(b)}
	}
	return FromBytes(b[off : off+size])
}

// FromChars builds a string from characters.
func FromChars(cs ...Char) String {
	var b []byte
	for _, c := range cs {
		b = append(b, c.raw()...)
	}
	return newString(b, len(cs))
}

// ReadUTF8 reads exactly nOctets bytes of UTF-8 from r.
func ReadUTF8(r io.Reader, nOctets int) (String, error) {
	b := make([]byte, nOctets)
	if _, err := io.ReadFull(r, b); err != nil {
		return Empty, err
	}
	n, err := validate(b)
	if err != nil {
		return Empty, err
	}
	return newString(b, n), nil
}

func (s String) raw() []byte {
	if s.p == nil {
		return nil
	}
	return s.p.b
}

// Bytes returns a copy of the UTF-8 contents.
func (s String) Bytes() []byte {
	return bytes.Clone(s.raw())
}

// AppendTo appends the UTF-8 contents of s to dst.
func (s String) AppendTo(dst []byte) []byte {
	return append(dst, s.raw()...)
}

// WriteTo writes the UTF-8 contents of s to w.
func (s String) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s.raw())
	return int64(n), err
}

func (s String) String() string { return string(s.raw()) }

// ByteLen returns the length of s in bytes.
func (s String) ByteLen() int { return len(s.raw()) }

// Len returns the number of characters in s. It is computed on first use.
func (s String) Len() int {
	if s.p == nil {
		return 0
	}
	if n := s.p.n.Load(); n > 0 {
		return int(n - 1)
	}
	n := countChars(s.p.b)
	s.p.n.Store(int64(n) + 1)
	return n
}

func (s String) IsEmpty() bool { return len(s.raw()) == 0 }

// Equal compares the byte contents of s and o.
func (s String) Equal(o String) bool {
	return bytes.Equal(s.raw(), o.raw())
}

// Compare orders strings by their bytes, which is codepoint order.
func (s String) Compare(o String) int {
	return bytes.Compare(s.raw(), o.raw())
}

// Hash returns the FNV-1a hash of the byte contents.
func (s String) Hash() uint64 {
	h := fnv.New64a()
	h.Write(s.raw())
	return h.Sum64()
}

// EqualFold reports whether s and o are equal under simple case folding,
// comparing codepoint by codepoint.
func (s String) EqualFold(o String) bool {
	a, b := s.raw(), o.raw()
	for len(a) > 0 && len(b) > 0 {
		if a[0] < 0x80 && b[0] < 0x80 {
			if !foldEq(rune(a[0]), rune(b[0])) {
				return false
			}
			a, b = a[1:], b[1:]
			continue
		}
		ra, na, _ := DecodeUTF8(a)
		rb, nb, _ := DecodeUTF8(b)
		if !foldEq(ra, rb) {
			return false
		}
		a, b = a[na:], b[nb:]
	}
	return len(a) == len(b)
}

// IndexByte returns the byte offset of the first b at or after byte
// offset from, or -1.
func (s String) IndexByte(b byte, from int) int {
	d := s.raw()
	if from < 0 || from > len(d) {
		return -1
	}
	i := bytes.IndexByte(d[from:], b)
	if i < 0 {
		return -1
	}
	return from + i
}

// IndexChar returns the byte offset of the first c at or after byte
// offset from, or -1.
func (s String) IndexChar(c Char, from int) int {
	return s.indexBytes(c.raw(), from)
}

// Index returns the byte offset of the first sub at or after byte offset
// from, or -1.
func (s String) Index(sub String, from int) int {
	return s.indexBytes(sub.raw(), from)
}

func (s String) indexBytes(sub []byte, from int) int {
	d := s.raw()
	if from < 0 || from > len(d) {
		return -1
	}
	i := bytes.Index(d[from:], sub)
	if i < 0 {
		return -1
	}
	return from + i
}

func (s String) mapChars(f func(rune) rune) String {
	d := s.raw()
	out := make([]byte, 0, len(d))
	n := 0
	for i := 0; i < len(d); n++ {
		if d[i] < 0x80 {
			out, _ = AppendUTF8(out, f(rune(d[i])))
			i++
			continue
		}
		r, w, _ := DecodeUTF8(d[i:])
		out, _ = AppendUTF8(out, f(r))
		i += w
	}
	return newString(out, n)
}

func (s String) ToLower() String { return s.mapChars(unicode.ToLower) }
func (s String) ToUpper() String { return s.mapChars(unicode.ToUpper) }

// ToFirstUpper converts only the first character to upper case.
func (s String) ToFirstUpper() String { return s.mapFirst(unicode.ToUpper) }

// ToFirstLower converts only the first character to lower case.
func (s String) ToFirstLower() String { return s.mapFirst(unicode.ToLower) }

func (s String) mapFirst(f func(rune) rune) String {
	d := s.raw()
	if len(d) == 0 {
		return s
	}
	r, w, _ := DecodeUTF8(d)
	m := f(r)
	if m == r {
		return s
	}
	out, _ := AppendUTF8(make([]byte, 0, len(d)+1), m)
	out = append(out, d[w:]...)
	return newString(out, -1)
}

// offset returns the byte offset of character i, counting from byte
// offset start which holds character base.
func (s String) offset(i, base, start int) int {
	d := s.raw()
	j := start
	for k := base; k < i; k++ {
		n, _ := UTF8SizeFirstOctet(d[j])
		j += n
	}
	return j
}

// Sub returns the characters in [begin, end).
func (s String) Sub(begin, end int) (String, error) {
	n := s.Len()
	if begin < 0 || begin > n {
		return Empty, &IndexError{Index: begin, Len: n}
	}
	if end < begin || end > n {
		return Empty, &IndexError{Index: end, Len: n}
	}
	if begin == 0 && end == n {
		return s, nil
	}
	bo := s.offset(begin, 0, 0)
	eo := s.offset(end, begin, bo)
	return newString(s.raw()[bo:eo:eo], end-begin), nil
}

// SubFrom returns the characters from begin to the end of s.
func (s String) SubFrom(begin int) (String, error) {
	return s.Sub(begin, s.Len())
}

// Append returns s followed by o.
func (s String) Append(o String) String {
	switch {
	case s.IsEmpty():
		return o
	case o.IsEmpty():
		return s
	}
	b := make([]byte, 0, s.ByteLen()+o.ByteLen())
	b = append(append(b, s.raw()...), o.raw()...)
	n := -1
	if s.p.n.Load() > 0 && o.p.n.Load() > 0 {
		n = s.Len() + o.Len()
	}
	return newString(b, n)
}

// AppendBytes returns s followed by the UTF-8 bytes b.
func (s String) AppendBytes(b []byte) (String, error) {
	o, err := FromBytes(b)
	if err != nil {
		return Empty, err
	}
	return s.Append(o), nil
}

// AppendChar returns s followed by c.
func (s String) AppendChar(c Char) String {
	return s.Append(FromChars(c))
}

// Join concatenates strs with delim between each element.
func Join(strs []String, delim String) String {
	switch len(strs) {
	case 0:
		return Empty
	case 1:
		return strs[0]
	}
	size := delim.ByteLen() * (len(strs) - 1)
	for _, s := range strs {
		size += s.ByteLen()
	}
	b := make([]byte, 0, size)
	for i, s := range strs {
		if i > 0 {
			b = append(b, delim.raw()...)
		}
		b = append(b, s.raw()...)
	}
	return newString(b, -1)
}

func (s String) MarshalText() ([]byte, error) {
	return s.Bytes(), nil
}

func (s *String) UnmarshalText(d []byte) error {
	v, err := FromBytes(d)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
