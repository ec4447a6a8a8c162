package gomap

import (
	"github.com/kfoundation/go-kfoundation/stream"
)

// DefaultPolicy says what a reader supplies for a property missing from
// the document.
type DefaultPolicy int

const (
	// Required fails the read.
	Required DefaultPolicy = iota
	// DefaultValue substitutes Default.Value.
	DefaultValue
	// Optional substitutes the zero value, nil for pointers.
	Optional
)

func (p DefaultPolicy) String() string {
	switch p {
	case Required:
		return "required"
	case DefaultValue:
		return "default"
	case Optional:
		return "optional"
	}
	return "unknown"
}

// Default is a reader's policy for absent properties.
type Default[T any] struct {
	Policy DefaultPolicy
	Value  T
}

// ValueReader reads one value of type T.
type ValueReader[T any] interface {
	Read(d stream.ObjectDeserializer) (T, error)
	Default() Default[T]
}

// ValueWriter writes one value of type T.
type ValueWriter[T any] interface {
	Write(s stream.ObjectSerializer, v T) error
}

// ValueReadWriter reads and writes values of type T.
type ValueReadWriter[T any] interface {
	ValueReader[T]
	ValueWriter[T]
}

type funcs[T any] struct {
	read  func(stream.ObjectDeserializer) (T, error)
	write func(stream.ObjectSerializer, T) error
	def   Default[T]
}

func (f *funcs[T]) Read(d stream.ObjectDeserializer) (T, error) { return f.read(d) }

func (f *funcs[T]) Write(s stream.ObjectSerializer, v T) error { return f.write(s, v) }

func (f *funcs[T]) Default() Default[T] { return f.def }

// NewReadWriter builds a required ValueReadWriter from two functions.
func NewReadWriter[T any](read func(stream.ObjectDeserializer) (T, error), write func(stream.ObjectSerializer, T) error) ValueReadWriter[T] {
	return &funcs[T]{read: read, write: write}
}

// WithDefault returns rw with absent properties read as v.
func WithDefault[T any](rw ValueReadWriter[T], v T) ValueReadWriter[T] {
	return &funcs[T]{read: rw.Read, write: rw.Write, def: Default[T]{Policy: DefaultValue, Value: v}}
}

// ListOf lifts rw to homogeneous collections.
func ListOf[T any](rw ValueReadWriter[T]) ValueReadWriter[[]T] {
	return &funcs[[]T]{
		read: func(d stream.ObjectDeserializer) ([]T, error) {
			if err := d.ReadCollectionBegin(); err != nil {
				return nil, err
			}
			res := []T{}
			for {
				end, err := d.TryReadCollectionEnd()
				if err != nil {
					return nil, err
				}
				if end {
					return res, nil
				}
				v, err := rw.Read(d)
				if err != nil {
					return nil, err
				}
				res = append(res, v)
			}
		},
		write: func(s stream.ObjectSerializer, vs []T) error {
			s.WriteCollectionBegin()
			for _, v := range vs {
				if err := rw.Write(s, v); err != nil {
					return err
				}
			}
			return s.WriteCollectionEnd().Err()
		},
	}
}

// OptionalOf lifts rw to optional values: nil reads from and writes as
// null, and an absent property reads as nil.
func OptionalOf[T any](rw ValueReadWriter[T]) ValueReadWriter[*T] {
	return &funcs[*T]{
		read: func(d stream.ObjectDeserializer) (*T, error) {
			null, err := d.TryReadNull()
			if err != nil || null {
				return nil, err
			}
			v, err := rw.Read(d)
			if err != nil {
				return nil, err
			}
			return &v, nil
		},
		write: func(s stream.ObjectSerializer, v *T) error {
			if v == nil {
				return s.WriteNull().Err()
			}
			return rw.Write(s, *v)
		},
		def: Default[*T]{Policy: Optional},
	}
}
