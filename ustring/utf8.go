package ustring

import "io"

const (
	// MaxCodePoint is the largest Unicode codepoint.
	MaxCodePoint = 0x10FFFF

	surrogateMin = 0xD800
	surrogateMax = 0xDFFF
)

// ValidCodePoint reports whether r is a Unicode scalar value.
func ValidCodePoint(r rune) bool {
	return r >= 0 && r <= MaxCodePoint && (r < surrogateMin || r > surrogateMax)
}

// UTF8SizeFirstOctet returns the length of a UTF-8 sequence from its
// leading byte.
func UTF8SizeFirstOctet(b byte) (int, error) {
	switch {
	case b < 0x80:
		return 1, nil
	case b&0xE0 == 0xC0:
		return 2, nil
	case b&0xF0 == 0xE0:
		return 3, nil
	case b&0xF8 == 0xF0:
		return 4, nil
	case b&0xC0 == 0x80:
		return 0, encErr(-1, "continuation byte 0x%02x cannot start a sequence", b)
	default:
		return 0, encErr(-1, "invalid leading byte 0x%02x", b)
	}
}

// UTF8SizeCodePoint returns the number of bytes needed to encode r, or -1
// if r is not a valid codepoint.
func UTF8SizeCodePoint(r rune) int {
	switch {
	case !ValidCodePoint(r):
		return -1
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}

// AppendUTF8 appends the encoding of r to dst.
func AppendUTF8(dst []byte, r rune) ([]byte, error) {
	if !ValidCodePoint(r) {
		return dst, encErr(-1, "invalid codepoint U+%04X", r)
	}
	switch {
	case r < 0x80:
		return append(dst, byte(r)), nil
	case r < 0x800:
		return append(dst,
			0xC0|byte(r>>6),
			0x80|byte(r&0x3F)), nil
	case r < 0x10000:
		return append(dst,
			0xE0|byte(r>>12),
			0x80|byte((r>>6)&0x3F),
			0x80|byte(r&0x3F)), nil
	default:
		return append(dst,
			0xF0|byte(r>>18),
			0x80|byte((r>>12)&0x3F),
			0x80|byte((r>>6)&0x3F),
			0x80|byte(r&0x3F)), nil
	}
}

// EncodeUTF8 returns the UTF-8 encoding of r.
func EncodeUTF8(r rune) ([]byte, error) {
	return AppendUTF8(make([]byte, 0, 4), r)
}

// WriteUTF8 writes the UTF-8 encoding of r to w.
func WriteUTF8(w io.Writer, r rune) error {
	var buf [4]byte
	d, err := AppendUTF8(buf[:0], r)
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}

// minByLen is the smallest codepoint that needs a sequence of the index
// length; anything smaller is an over-long encoding.
var minByLen = [5]rune{0, 0, 0x80, 0x800, 0x10000}

// DecodeUTF8 decodes the first character in b and returns it together with
// the number of bytes it occupies.
func DecodeUTF8(b []byte) (rune, int, error) {
	if len(b) == 0 {
		return 0, 0, encErr(0, "empty input")
	}
	n, err := UTF8SizeFirstOctet(b[0])
	if err != nil {
		err.(*EncodingError).Offset = 0
		return 0, 0, err
	}
	if n == 1 {
		return rune(b[0]), 1, nil
	}
	if len(b) < n {
		return 0, 0, encErr(0, "truncated %d byte sequence", n)
	}
	r := rune(b[0]) & (0x7F >> n)
	for i := 1; i < n; i++ {
		c := b[i]
		if c&0xC0 != 0x80 {
			return 0, 0, encErr(i, "expected continuation byte, found 0x%02x", c)
		}
		r = r<<6 | rune(c&0x3F)
	}
	if r < minByLen[n] {
		return 0, 0, encErr(0, "over-long encoding of U+%04X", r)
	}
	if !ValidCodePoint(r) {
		return 0, 0, encErr(0, "invalid codepoint U+%04X", r)
	}
	return r, n, nil
}

// validate checks that b is well formed and returns its character count.
func validate(b []byte) (int, error) {
	count := 0
	for i := 0; i < len(b); {
		if b[i] < 0x80 {
			i++
			count++
			continue
		}
		_, n, err := DecodeUTF8(b[i:])
		if err != nil {
			e := err.(*EncodingError)
			e.Offset += i
			return 0, e
		}
		i += n
		count++
	}
	return count, nil
}

// countChars counts characters of a buffer already known to be valid.
func countChars(b []byte) int {
	n := 0
	for _, c := range b {
		if c&0xC0 != 0x80 {
			n++
		}
	}
	return n
}
