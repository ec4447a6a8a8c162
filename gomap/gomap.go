package gomap

import (
	"reflect"

	"github.com/kfoundation/go-kfoundation/stream"
)

type mapped[T any] struct {
	c      codec
	policy DefaultPolicy
	def    T
}

func (r *mapped[T]) Read(d stream.ObjectDeserializer) (T, error) {
	var x T
	err := r.c.read(d, reflect.ValueOf(&x).Elem(), "")
	return x, err
}

func (r *mapped[T]) Write(s stream.ObjectSerializer, v T) error {
	return r.c.write(s, reflect.ValueOf(&v).Elem(), "")
}

func (r *mapped[T]) Default() Default[T] {
	return Default[T]{Policy: r.policy, Value: r.def}
}

// ReadWriterFor returns the reader and writer m derives for T. A nil m
// means DefaultMapper.
func ReadWriterFor[T any](m *Mapper) (ValueReadWriter[T], error) {
	m = orDefault(m)
	t := reflect.TypeFor[T]()
	c, err := m.codecFor(t)
	if err != nil {
		return nil, err
	}
	r := &mapped[T]{c: c}
	policy, def := defaultsOf(c, t)
	r.policy = policy
	if def.IsValid() {
		reflect.ValueOf(&r.def).Elem().Set(def)
	}
	return r, nil
}

// ReaderFor returns the reader m derives for T.
func ReaderFor[T any](m *Mapper) (ValueReader[T], error) {
	return ReadWriterFor[T](m)
}

// WriterFor returns the writer m derives for T.
func WriterFor[T any](m *Mapper) (ValueWriter[T], error) {
	return ReadWriterFor[T](m)
}

// Read reads one T from d.
func Read[T any](m *Mapper, d stream.ObjectDeserializer) (T, error) {
	rw, err := ReadWriterFor[T](m)
	if err != nil {
		var zero T
		return zero, err
	}
	return rw.Read(d)
}

// Write writes v to s.
func Write[T any](m *Mapper, s stream.ObjectSerializer, v T) error {
	rw, err := ReadWriterFor[T](m)
	if err != nil {
		return err
	}
	return rw.Write(s, v)
}
