// Package xml implements the token protocol over XML.
//
// An object is an element named after its type, holding one element per
// property:
//
//	<Person>
//	  <name>Ada</name>
//	  <tags>
//	    <list>
//	      <item>a</item>
//	      <Tag><label>b</label></Tag>
//	    </list>
//	  </tags>
//	  <boss><null/></boss>
//	</Person>
//
// Collections are <list> elements, scalar items are <item> elements and
// null is <null/>; these three names cannot be used as type names.
// Scalars are element text and read back as stream.EventText, so their
// literal kind is decided by the reader.
package xml

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/kfoundation/go-kfoundation/stream"
)

// Option configures an XML serializer.
type Option func(*opts)

type opts struct {
	indent      int
	header      bool
	defaultName string
}

// WithIndent puts each element on its own line, indented by n spaces per
// level.
func WithIndent(n int) Option {
	return func(o *opts) {
		if n < 0 {
			n = 0
		}
		o.indent = n
	}
}

// WithHeader starts the document with an XML declaration.
func WithHeader() Option {
	return func(o *opts) {
		o.header = true
	}
}

// WithDefaultTypeName names objects written without a type name, which
// are otherwise rejected.
func WithDefaultTypeName(name string) Option {
	return func(o *opts) {
		o.defaultName = name
	}
}

func buildOpts(os []Option) *opts {
	o := &opts{}
	for _, opt := range os {
		opt(o)
	}
	return o
}

// NewSerializer returns a serializer writing XML to w.
func NewSerializer(w io.Writer, opts ...Option) *stream.Serializer {
	o := buildOpts(opts)
	e := xml.NewEncoder(w)
	if o.indent > 0 {
		e.Indent("", strings.Repeat(" ", o.indent))
	}
	return stream.NewSerializer(&encoder{e: e, opts: o})
}

// NewDeserializer returns a deserializer reading XML from r.
func NewDeserializer(r io.Reader, _ ...Option) *stream.Deserializer {
	return stream.NewDeserializer(&decoder{d: xml.NewDecoder(r)})
}
