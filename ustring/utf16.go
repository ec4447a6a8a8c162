package ustring

// EncodeUTF16 returns the UTF-16 encoding of r: one unit for the basic
// multilingual plane, a surrogate pair otherwise.
func EncodeUTF16(r rune) ([]uint16, error) {
	if !ValidCodePoint(r) {
		return nil, encErr(-1, "invalid codepoint U+%04X", r)
	}
	if r < 0x10000 {
		return []uint16{uint16(r)}, nil
	}
	r -= 0x10000
	return []uint16{
		uint16(0xD800 + (r >> 10)),
		uint16(0xDC00 + (r & 0x3FF)),
	}, nil
}

// DecodeUTF16 decodes the first character of units and returns it with the
// number of units consumed.
func DecodeUTF16(units ...uint16) (rune, int, error) {
	if len(units) == 0 {
		return 0, 0, encErr(0, "empty input")
	}
	w1 := rune(units[0])
	switch {
	case w1 < surrogateMin || w1 > surrogateMax:
		return w1, 1, nil
	case w1 >= 0xDC00:
		return 0, 0, encErr(0, "unpaired low surrogate 0x%04X", w1)
	case len(units) < 2:
		return 0, 0, encErr(0, "truncated surrogate pair")
	}
	w2 := rune(units[1])
	if w2 < 0xDC00 || w2 > surrogateMax {
		return 0, 0, encErr(1, "expected low surrogate, found 0x%04X", w2)
	}
	return 0x10000 + (w1-0xD800)<<10 + (w2 - 0xDC00), 2, nil
}
