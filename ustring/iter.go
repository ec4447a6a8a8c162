package ustring

import "iter"

// Chars returns the characters of s. Every range over the result decodes
// s again from the start.
func (s String) Chars() iter.Seq[Char] {
	return func(yield func(Char) bool) {
		it := s.Iterator()
		for {
			c, ok := it.Next()
			if !ok || !yield(c) {
				return
			}
		}
	}
}

// CharIterator walks a String once, character by character.
type CharIterator struct {
	d []byte
	i int
}

// Iterator returns a single pass iterator positioned at the first character.
func (s String) Iterator() *CharIterator {
	return &CharIterator{d: s.raw()}
}

// Next returns the next character, or false when the string is exhausted.
func (it *CharIterator) Next() (Char, bool) {
	if it.i >= len(it.d) {
		return Char{}, false
	}
	b := it.d[it.i]
	if b < 0x80 {
		it.i++
		return Char{cp: rune(b), utf8: [4]byte{b}, n: 1}, true
	}
	n, _ := UTF8SizeFirstOctet(b)
	c := Char{n: uint8(n)}
	copy(c.utf8[:], it.d[it.i:it.i+n])
	c.cp, _, _ = DecodeUTF8(c.utf8[:n])
	it.i += n
	return c, true
}

// Offset returns the byte offset of the next character.
func (it *CharIterator) Offset() int { return it.i }
