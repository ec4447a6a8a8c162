package gomap

import (
	"fmt"
	"reflect"

	"github.com/kfoundation/go-kfoundation/stream"
	"github.com/kfoundation/go-kfoundation/ustring"
)

type memberInfo struct {
	MemberDesc
	index  []int // field index, nil for accessors
	method int   // accessor method index, -1 for fields
	codec  codec
	def    reflect.Value

	tagRequired bool
	tagOptional bool
}

func (mi *memberInfo) get(v reflect.Value) reflect.Value {
	if mi.index != nil {
		return v.FieldByIndex(mi.index)
	}
	return v.Method(mi.method).Call(nil)[0]
}

// structCodec reads and writes a struct as an object, either through a
// registered creator or field by field.
type structCodec struct {
	desc    *TypeDesc
	creator *creator
	members []*memberInfo
	byWire  map[string]int
}

func (c *structCodec) write(s stream.ObjectSerializer, v reflect.Value, path string) error {
	if path == "" {
		path = c.desc.Name
	}
	s.WriteObjectBegin(ustring.Of(c.desc.Name))
	for _, mi := range c.members {
		fv := mi.get(v)
		if mi.Policy == Optional && isNil(fv) {
			continue
		}
		s.WritePropertyName(ustring.Of(mi.Wire))
		if err := mi.codec.write(s, fv, fieldPath(path, mi.Wire)); err != nil {
			return err
		}
	}
	if err := s.WriteObjectEnd().Err(); err != nil {
		return writeErr(path, err)
	}
	return nil
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func (c *structCodec) read(d stream.ObjectDeserializer, v reflect.Value, path string) error {
	if path == "" {
		path = c.desc.Name
	}
	name, err := d.ReadObjectBegin()
	if err != nil {
		return readErr(path, err)
	}
	if err := c.checkName(d, name, path); err != nil {
		return err
	}
	vals := make([]reflect.Value, len(c.members))
	for {
		prop, ok, err := d.TryReadPropertyName()
		if err != nil {
			return readErr(path, err)
		}
		if !ok {
			break
		}
		i, known := c.byWire[prop.String()]
		if !known {
			return shapeErr(d, path, "unknown property %q in %s", prop, c.desc.Name)
		}
		if vals[i].IsValid() {
			return shapeErr(d, path, "duplicate property %q in %s", prop, c.desc.Name)
		}
		mi := c.members[i]
		fv := reflect.New(mi.Type).Elem()
		if err := mi.codec.read(d, fv, fieldPath(path, mi.Wire)); err != nil {
			return err
		}
		vals[i] = fv
	}
	end, err := d.ReadObjectEnd()
	if err != nil {
		return readErr(path, err)
	}
	if err := c.checkName(d, end, path); err != nil {
		return err
	}
	for i, mi := range c.members {
		if vals[i].IsValid() {
			continue
		}
		switch mi.Policy {
		case Required:
			return shapeErr(d, path, "missing required property %q in %s", mi.Wire, c.desc.Name)
		case DefaultValue:
			vals[i] = mi.def
		case Optional:
			vals[i] = reflect.Zero(mi.Type)
		}
	}
	if c.creator != nil {
		return c.create(d, v, vals, path)
	}
	res := reflect.New(v.Type()).Elem()
	for i, mi := range c.members {
		res.FieldByIndex(mi.index).Set(vals[i])
	}
	v.Set(res)
	return nil
}

func (c *structCodec) checkName(d stream.ObjectDeserializer, name ustring.String, path string) error {
	if !name.IsEmpty() && name.String() != c.desc.Name {
		return shapeErr(d, path, "found type %s while expecting %s", name, c.desc.Name)
	}
	return nil
}

func (c *structCodec) create(d stream.ObjectDeserializer, v reflect.Value, args []reflect.Value, path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = shapeErr(d, path, "creator of %s panicked: %v", c.desc.Name, r)
		}
	}()
	out := c.creator.fn.Call(args)
	if c.creator.hasErr && !out[1].IsNil() {
		cerr := out[1].Interface().(error)
		de := stream.WrapError(stream.Pos{}, fmt.Sprintf("creating %s", c.desc.Name), cerr)
		return &UnmarshalError{FieldPath: path, Err: de}
	}
	res := out[0]
	if c.creator.ptr {
		if res.IsNil() {
			return shapeErr(d, path, "creator of %s returned nil", c.desc.Name)
		}
		res = res.Elem()
	}
	v.Set(res)
	return nil
}
