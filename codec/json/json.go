// Package json implements the token protocol over JSON.
//
// Objects become JSON objects and collections arrays. JSON has no place
// for type names: they are dropped on write and read back empty. Numbers
// without a fraction or exponent read as integers, others as decimals.
package json

import (
	"io"

	"github.com/kfoundation/go-kfoundation/stream"

	jsoniter "github.com/json-iterator/go"
)

// Option configures a JSON serializer or deserializer.
type Option func(*opts)

type opts struct {
	indent int
}

// WithIndent pretty prints with n spaces per level. 0, the default, writes
// compact JSON.
func WithIndent(n int) Option {
	return func(o *opts) {
		if n < 0 {
			n = 0
		}
		o.indent = n
	}
}

func buildOpts(os []Option) *opts {
	o := &opts{}
	for _, opt := range os {
		opt(o)
	}
	return o
}

var compact = jsoniter.Config{EscapeHTML: false}.Froze()

func config(o *opts) jsoniter.API {
	if o.indent == 0 {
		return compact
	}
	return jsoniter.Config{EscapeHTML: false, IndentionStep: o.indent}.Froze()
}

// NewSerializer returns a serializer writing JSON to w.
func NewSerializer(w io.Writer, opts ...Option) *stream.Serializer {
	o := buildOpts(opts)
	return stream.NewSerializer(&encoder{s: jsoniter.NewStream(config(o), w, flushSize)})
}

// NewDeserializer returns a deserializer reading JSON from r.
func NewDeserializer(r io.Reader, _ ...Option) *stream.Deserializer {
	return stream.NewDeserializer(&decoder{it: jsoniter.Parse(compact, r, 4096)})
}
