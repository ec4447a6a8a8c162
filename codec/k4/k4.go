// Package k4 implements the K4 notation, the native text format.
//
// A value is an object, a collection or a literal:
//
//	Person[name="Ada" age=36 friends={Person[name="Charles"]}]
//
// Objects are an optional type name followed by properties in square
// brackets, collections are items in braces. Strings are double quoted
// with JSON escapes; integers, decimals, true, false and null are bare.
// Whitespace separates tokens and "//" starts a comment running to the end
// of the line.
package k4

import (
	"io"
	"strings"

	"github.com/kfoundation/go-kfoundation/stream"

	"github.com/spf13/afero"
)

// NewSerializer returns a serializer writing K4 to w.
func NewSerializer(w io.Writer, opts ...Option) *stream.Serializer {
	return stream.NewSerializer(newEncoder(w, buildOpts(opts)))
}

// NewDeserializer returns a deserializer reading K4 from r.
func NewDeserializer(r io.Reader, _ ...Option) *stream.Deserializer {
	return stream.NewDeserializer(newDecoder(r))
}

// NewStringDeserializer reads K4 from an in-memory string.
func NewStringDeserializer(s string) *stream.Deserializer {
	return NewDeserializer(strings.NewReader(s))
}

// OpenFile opens path on fs for reading. The caller closes the returned
// file once done with the deserializer.
func OpenFile(fs afero.Fs, path string) (*stream.Deserializer, io.Closer, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return NewDeserializer(f), f, nil
}
