package gomap

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/kfoundation/go-kfoundation/stream"
	"github.com/kfoundation/go-kfoundation/ustring"
)

// codec reads and writes values of one Go type through reflection. path
// locates the value for error messages.
type codec interface {
	read(d stream.ObjectDeserializer, v reflect.Value, path string) error
	write(s stream.ObjectSerializer, v reflect.Value, path string) error
}

// defaulter is implemented by codecs carrying their own default policy.
type defaulter interface {
	defaults() (DefaultPolicy, reflect.Value)
}

func defaultsOf(c codec, t reflect.Type) (DefaultPolicy, reflect.Value) {
	if dc, ok := c.(defaulter); ok {
		return dc.defaults()
	}
	if t.Kind() == reflect.Pointer {
		return Optional, reflect.Zero(t)
	}
	return Required, reflect.Zero(t)
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

func fieldPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

var (
	ustringType         = reflect.TypeOf(ustring.String{})
	charType            = reflect.TypeOf(ustring.Char{})
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	serializableType    = reflect.TypeOf((*Serializable)(nil)).Elem()
	deserializableType  = reflect.TypeOf((*Deserializable)(nil)).Elem()
)

type boolCodec struct{}

func (boolCodec) read(d stream.ObjectDeserializer, v reflect.Value, path string) error {
	b, err := d.ReadBooleanLiteral()
	if err != nil {
		return readErr(path, err)
	}
	v.SetBool(b)
	return nil
}

func (boolCodec) write(s stream.ObjectSerializer, v reflect.Value, path string) error {
	if err := s.WriteBool(v.Bool()).Err(); err != nil {
		return writeErr(path, err)
	}
	return nil
}

type intCodec struct{}

func (intCodec) read(d stream.ObjectDeserializer, v reflect.Value, path string) error {
	i, err := d.ReadIntegerLiteral()
	if err != nil {
		return readErr(path, err)
	}
	if v.OverflowInt(i) {
		return shapeErr(d, path, "%d overflows %s", i, v.Type())
	}
	v.SetInt(i)
	return nil
}

func (intCodec) write(s stream.ObjectSerializer, v reflect.Value, path string) error {
	if err := s.WriteInteger(v.Int()).Err(); err != nil {
		return writeErr(path, err)
	}
	return nil
}

type uintCodec struct{}

func (uintCodec) read(d stream.ObjectDeserializer, v reflect.Value, path string) error {
	i, err := d.ReadIntegerLiteral()
	if err != nil {
		return readErr(path, err)
	}
	if i < 0 || v.OverflowUint(uint64(i)) {
		return shapeErr(d, path, "%d overflows %s", i, v.Type())
	}
	v.SetUint(uint64(i))
	return nil
}

func (uintCodec) write(s stream.ObjectSerializer, v reflect.Value, path string) error {
	u := v.Uint()
	if u > math.MaxInt64 {
		return &MarshalError{FieldPath: path, Message: fmt.Sprintf("%d does not fit an integer literal", u)}
	}
	if err := s.WriteInteger(int64(u)).Err(); err != nil {
		return writeErr(path, err)
	}
	return nil
}

type floatCodec struct{}

func (floatCodec) read(d stream.ObjectDeserializer, v reflect.Value, path string) error {
	f, err := d.ReadDecimalLiteral()
	if err != nil {
		return readErr(path, err)
	}
	v.SetFloat(f)
	return nil
}

func (floatCodec) write(s stream.ObjectSerializer, v reflect.Value, path string) error {
	if err := s.WriteDecimal(v.Float()).Err(); err != nil {
		return writeErr(path, err)
	}
	return nil
}

type stringCodec struct{}

func (stringCodec) read(d stream.ObjectDeserializer, v reflect.Value, path string) error {
	us, err := d.ReadStringLiteral()
	if err != nil {
		return readErr(path, err)
	}
	v.SetString(us.String())
	return nil
}

func (stringCodec) write(s stream.ObjectSerializer, v reflect.Value, path string) error {
	if err := s.WriteString(ustring.Of(v.String())).Err(); err != nil {
		return writeErr(path, err)
	}
	return nil
}

type ustringCodec struct{}

func (ustringCodec) read(d stream.ObjectDeserializer, v reflect.Value, path string) error {
	us, err := d.ReadStringLiteral()
	if err != nil {
		return readErr(path, err)
	}
	v.Set(reflect.ValueOf(us))
	return nil
}

func (ustringCodec) write(s stream.ObjectSerializer, v reflect.Value, path string) error {
	if err := s.WriteString(v.Interface().(ustring.String)).Err(); err != nil {
		return writeErr(path, err)
	}
	return nil
}

type charCodec struct{}

func (charCodec) read(d stream.ObjectDeserializer, v reflect.Value, path string) error {
	c, err := readChar(d)
	if err != nil {
		return readErr(path, err)
	}
	v.Set(reflect.ValueOf(c))
	return nil
}

func (charCodec) write(s stream.ObjectSerializer, v reflect.Value, path string) error {
	if err := Char.Write(s, v.Interface().(ustring.Char)); err != nil {
		return writeErr(path, err)
	}
	return nil
}

// textCodec maps encoding.TextMarshaler types to string literals.
type textCodec struct{}

func (textCodec) read(d stream.ObjectDeserializer, v reflect.Value, path string) error {
	us, err := d.ReadStringLiteral()
	if err != nil {
		return readErr(path, err)
	}
	p := reflect.New(v.Type())
	if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText(us.Bytes()); err != nil {
		return shapeErr(d, path, "invalid %s %q: %v", v.Type(), us, err)
	}
	v.Set(p.Elem())
	return nil
}

func (textCodec) write(s stream.ObjectSerializer, v reflect.Value, path string) error {
	b, err := as(v, textMarshalerType).(encoding.TextMarshaler).MarshalText()
	if err != nil {
		return &MarshalError{FieldPath: path, Message: "MarshalText failed", Err: err}
	}
	us, err := ustring.FromBytes(b)
	if err != nil {
		return &MarshalError{FieldPath: path, Message: "MarshalText returned invalid UTF-8", Err: err}
	}
	if err := s.WriteString(us).Err(); err != nil {
		return writeErr(path, err)
	}
	return nil
}

// as returns v, or a pointer to a copy of v when only the pointer type
// implements iface.
func as(v reflect.Value, iface reflect.Type) any {
	if v.Type().Implements(iface) {
		return v.Interface()
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p.Interface()
}

// ptrCodec reads null as nil and writes nil as null.
type ptrCodec struct {
	elem codec
}

func (c *ptrCodec) read(d stream.ObjectDeserializer, v reflect.Value, path string) error {
	null, err := d.TryReadNull()
	if err != nil {
		return readErr(path, err)
	}
	if null {
		v.SetZero()
		return nil
	}
	p := reflect.New(v.Type().Elem())
	if err := c.elem.read(d, p.Elem(), path); err != nil {
		return err
	}
	v.Set(p)
	return nil
}

func (c *ptrCodec) write(s stream.ObjectSerializer, v reflect.Value, path string) error {
	if v.IsNil() {
		if err := s.WriteNull().Err(); err != nil {
			return writeErr(path, err)
		}
		return nil
	}
	return c.elem.write(s, v.Elem(), path)
}

// sliceCodec maps slices to collections; a nil slice is null.
type sliceCodec struct {
	elem codec
}

func (c *sliceCodec) read(d stream.ObjectDeserializer, v reflect.Value, path string) error {
	null, err := d.TryReadNull()
	if err != nil {
		return readErr(path, err)
	}
	if null {
		v.SetZero()
		return nil
	}
	if err := d.ReadCollectionBegin(); err != nil {
		return readErr(path, err)
	}
	res := reflect.MakeSlice(v.Type(), 0, 0)
	for i := 0; ; i++ {
		end, err := d.TryReadCollectionEnd()
		if err != nil {
			return readErr(index(path, i), err)
		}
		if end {
			break
		}
		res = reflect.Append(res, reflect.Zero(v.Type().Elem()))
		if err := c.elem.read(d, res.Index(i), index(path, i)); err != nil {
			return err
		}
	}
	v.Set(res)
	return nil
}

func (c *sliceCodec) write(s stream.ObjectSerializer, v reflect.Value, path string) error {
	if v.IsNil() {
		if err := s.WriteNull().Err(); err != nil {
			return writeErr(path, err)
		}
		return nil
	}
	s.WriteCollectionBegin()
	for i := 0; i < v.Len(); i++ {
		if err := c.elem.write(s, v.Index(i), index(path, i)); err != nil {
			return err
		}
	}
	if err := s.WriteCollectionEnd().Err(); err != nil {
		return writeErr(path, err)
	}
	return nil
}

// mapCodec maps string keyed maps to untyped objects with sorted keys.
type mapCodec struct {
	elem codec
}

func (c *mapCodec) read(d stream.ObjectDeserializer, v reflect.Value, path string) error {
	null, err := d.TryReadNull()
	if err != nil {
		return readErr(path, err)
	}
	if null {
		v.SetZero()
		return nil
	}
	if _, err := d.ReadObjectBegin(); err != nil {
		return readErr(path, err)
	}
	t := v.Type()
	res := reflect.MakeMap(t)
	for {
		name, ok, err := d.TryReadPropertyName()
		if err != nil {
			return readErr(path, err)
		}
		if !ok {
			break
		}
		key := reflect.ValueOf(name.String()).Convert(t.Key())
		if res.MapIndex(key).IsValid() {
			return shapeErr(d, path, "duplicate property %q", name)
		}
		ev := reflect.New(t.Elem()).Elem()
		if err := c.elem.read(d, ev, fieldPath(path, name.String())); err != nil {
			return err
		}
		res.SetMapIndex(key, ev)
	}
	if _, err := d.ReadObjectEnd(); err != nil {
		return readErr(path, err)
	}
	v.Set(res)
	return nil
}

func (c *mapCodec) write(s stream.ObjectSerializer, v reflect.Value, path string) error {
	if v.IsNil() {
		if err := s.WriteNull().Err(); err != nil {
			return writeErr(path, err)
		}
		return nil
	}
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	s.WriteObjectBegin(ustring.Empty)
	for _, k := range keys {
		s.WritePropertyName(ustring.Of(k.String()))
		if err := c.elem.write(s, v.MapIndex(k), fieldPath(path, k.String())); err != nil {
			return err
		}
	}
	if err := s.WriteObjectEnd().Err(); err != nil {
		return writeErr(path, err)
	}
	return nil
}

// selfCodec delegates to the Serializable and Deserializable methods of
// the type.
type selfCodec struct{}

func (selfCodec) read(d stream.ObjectDeserializer, v reflect.Value, path string) error {
	p := reflect.New(v.Type())
	if err := p.Interface().(Deserializable).Deserialize(d); err != nil {
		return readErr(path, err)
	}
	v.Set(p.Elem())
	return nil
}

func (selfCodec) write(s stream.ObjectSerializer, v reflect.Value, path string) error {
	if err := as(v, serializableType).(Serializable).Serialize(s); err != nil {
		return writeErr(path, err)
	}
	return nil
}

// typedCodec bridges a registered ValueReadWriter.
type typedCodec[T any] struct {
	rw ValueReadWriter[T]
}

func (c typedCodec[T]) read(d stream.ObjectDeserializer, v reflect.Value, path string) error {
	x, err := c.rw.Read(d)
	if err != nil {
		return readErr(path, err)
	}
	v.Set(reflect.ValueOf(&x).Elem())
	return nil
}

func (c typedCodec[T]) write(s stream.ObjectSerializer, v reflect.Value, path string) error {
	if err := c.rw.Write(s, v.Interface().(T)); err != nil {
		return writeErr(path, err)
	}
	return nil
}

func (c typedCodec[T]) defaults() (DefaultPolicy, reflect.Value) {
	def := c.rw.Default()
	return def.Policy, reflect.ValueOf(&def.Value).Elem()
}
