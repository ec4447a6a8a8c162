// Package kf selects codecs by format and moves Go values through them.
//
//	b, err := kf.Marshal(format.JSON, p, 0)
//	p, err := kf.ReadFile[Person](afero.NewOsFs(), "people/ada.yaml")
//
// Subpackages hold the pieces: stream defines the token protocol,
// codec/... the K4, JSON, XML and YAML codecs and gomap the mapping
// between Go values and tokens.
package kf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/kfoundation/go-kfoundation/codec/json"
	"github.com/kfoundation/go-kfoundation/codec/k4"
	"github.com/kfoundation/go-kfoundation/codec/xml"
	"github.com/kfoundation/go-kfoundation/codec/yaml"
	"github.com/kfoundation/go-kfoundation/format"
	"github.com/kfoundation/go-kfoundation/gomap"
	"github.com/kfoundation/go-kfoundation/stream"

	"github.com/spf13/afero"
)

// XMLObjectName is the element written for objects without a type name,
// such as Go maps, when the output is XML.
const XMLObjectName = "object"

// NewSerializer returns a serializer writing f to w. indent is the number
// of spaces per nesting level; 0 writes the most compact form f has.
func NewSerializer(f format.Format, w io.Writer, indent int) (*stream.Serializer, error) {
	switch f {
	case format.K4:
		return k4.NewSerializer(w, k4.WithIndent(indent)), nil
	case format.JSON:
		return json.NewSerializer(w, json.WithIndent(indent)), nil
	case format.XML:
		return xml.NewSerializer(w, xml.WithIndent(indent), xml.WithDefaultTypeName(XMLObjectName)), nil
	case format.YAML:
		return yaml.NewSerializer(w, yaml.WithIndent(indent)), nil
	}
	return nil, fmt.Errorf("%w: %d", format.ErrBadFormat, int(f))
}

// NewDeserializer returns a deserializer reading f from r.
func NewDeserializer(f format.Format, r io.Reader) (*stream.Deserializer, error) {
	switch f {
	case format.K4:
		return k4.NewDeserializer(r), nil
	case format.JSON:
		return json.NewDeserializer(r), nil
	case format.XML:
		return xml.NewDeserializer(r), nil
	case format.YAML:
		return yaml.NewDeserializer(r), nil
	}
	return nil, fmt.Errorf("%w: %d", format.ErrBadFormat, int(f))
}

// Encode writes v as a complete f document to w using the default mapper.
func Encode[T any](f format.Format, w io.Writer, v T, indent int) error {
	s, err := NewSerializer(f, w, indent)
	if err != nil {
		return err
	}
	if err := gomap.Write(nil, s, v); err != nil {
		return err
	}
	return s.WriteStreamEnd()
}

// Decode reads a complete f document holding one T from r.
func Decode[T any](f format.Format, r io.Reader) (T, error) {
	var zero T
	d, err := NewDeserializer(f, r)
	if err != nil {
		return zero, err
	}
	v, err := gomap.Read[T](nil, d)
	if err != nil {
		return zero, err
	}
	if err := d.ReadStreamEnd(); err != nil {
		return zero, err
	}
	return v, nil
}

// Marshal returns v as an f document.
func Marshal[T any](f format.Format, v T, indent int) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(f, &buf, v, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal reads one T from the f document data.
func Unmarshal[T any](f format.Format, data []byte) (T, error) {
	return Decode[T](f, bytes.NewReader(data))
}

// ReadFile reads one T from path on fs, in the format its suffix names.
func ReadFile[T any](fs afero.Fs, path string) (T, error) {
	var zero T
	f, err := format.FromPath(path)
	if err != nil {
		return zero, err
	}
	file, err := fs.Open(path)
	if err != nil {
		return zero, err
	}
	defer file.Close()
	v, err := Decode[T](f, file)
	if err != nil {
		return zero, fmt.Errorf("reading %s: %w", path, err)
	}
	return v, nil
}

// WriteFile writes v to path on fs, in the format its suffix names.
func WriteFile[T any](fs afero.Fs, path string, v T, indent int) error {
	f, err := format.FromPath(path)
	if err != nil {
		return err
	}
	b, err := Marshal(f, v, indent)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return afero.WriteFile(fs, path, b, 0o644)
}

// Convert transcodes the single document in r from src to dst on w.
func Convert(dst format.Format, w io.Writer, src format.Format, r io.Reader, indent int) error {
	d, err := NewDeserializer(src, r)
	if err != nil {
		return err
	}
	s, err := NewSerializer(dst, w, indent)
	if err != nil {
		return err
	}
	return stream.CopyAll(s, d)
}

// Check reads the whole document in r and reports the first error.
func Check(f format.Format, r io.Reader) error {
	d, err := NewDeserializer(f, r)
	if err != nil {
		return err
	}
	t, err := d.Peek()
	if err != nil {
		return err
	}
	if t != stream.EventStreamEnd {
		if err := d.Skip(); err != nil {
			return err
		}
	}
	return d.ReadStreamEnd()
}
