package ustring

import "fmt"

// EncodingError reports a malformed UTF-8 or UTF-16 sequence.
type EncodingError struct {
	Offset int // byte (or UTF-16 unit) offset of the offending sequence, -1 if unknown
	Msg    string
}

func (e *EncodingError) Error() string {
	if e.Offset < 0 {
		return "encoding error: " + e.Msg
	}
	return fmt.Sprintf("encoding error at offset %d: %s", e.Offset, e.Msg)
}

func encErr(off int, format string, args ...any) *EncodingError {
	return &EncodingError{Offset: off, Msg: fmt.Sprintf(format, args...)}
}

// IndexError reports a character offset outside of a string.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d]", e.Index, e.Len)
}
