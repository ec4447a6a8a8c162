// Package yaml implements the token protocol over block style YAML.
//
// Objects are mappings tagged with their type name, collections are
// sequences:
//
//	!Person
//	name: Ada
//	tags:
//	  - a
//	  - !Tag
//	    label: b
//	boss: null
//	empty: !Person {}
//
// Plain scalars read back as stream.EventText typed by the YAML scalar
// rules; quoted and block scalars are strings.
package yaml

import (
	"bufio"
	"io"

	"github.com/kfoundation/go-kfoundation/stream"
)

// Option configures a YAML serializer.
type Option func(*opts)

type opts struct {
	indent int
}

// WithIndent sets the indentation of nested mappings and sequences.
// Values below 1 are ignored; the default is 2.
func WithIndent(n int) Option {
	return func(o *opts) {
		if n > 0 {
			o.indent = n
		}
	}
}

func buildOpts(os []Option) *opts {
	o := &opts{indent: 2}
	for _, opt := range os {
		opt(o)
	}
	return o
}

// NewSerializer returns a serializer writing YAML to w.
func NewSerializer(w io.Writer, opts ...Option) *stream.Serializer {
	o := buildOpts(opts)
	return stream.NewSerializer(&encoder{w: bufio.NewWriter(w), indent: o.indent})
}

// NewDeserializer returns a deserializer reading one YAML document from r.
func NewDeserializer(r io.Reader, _ ...Option) *stream.Deserializer {
	return stream.NewDeserializer(&decoder{r: r})
}
