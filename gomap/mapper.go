package gomap

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/kfoundation/go-kfoundation/debug"
	"github.com/kfoundation/go-kfoundation/stream"
)

// Serializable is implemented by types that write themselves.
type Serializable interface {
	Serialize(s stream.ObjectSerializer) error
}

// Deserializable is implemented by pointers to types that read
// themselves.
type Deserializable interface {
	Deserialize(d stream.ObjectDeserializer) error
}

// Mapper derives and caches readers and writers per Go type.
//
// Lookups are safe for concurrent use. Derivation happens once per type,
// under a lock, the first time the type is asked for; registrations must
// come before that.
type Mapper struct {
	cache sync.Map // reflect.Type -> codec

	mu       sync.Mutex
	creators map[reflect.Type]*creator
	custom   map[reflect.Type]codec
}

// NewMapper returns an empty Mapper.
func NewMapper() *Mapper {
	return &Mapper{
		creators: map[reflect.Type]*creator{},
		custom:   map[reflect.Type]codec{},
	}
}

var defaultMapper = NewMapper()

// DefaultMapper returns the process wide Mapper used when nil is passed.
func DefaultMapper() *Mapper {
	return defaultMapper
}

func orDefault(m *Mapper) *Mapper {
	if m == nil {
		return defaultMapper
	}
	return m
}

type creator struct {
	fn     reflect.Value
	ptr    bool // fn returns *T
	hasErr bool
	params []param
}

type param struct {
	member, wire string
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// RegisterCreator designates fn as the way to construct its result type.
// fn takes one argument per property and returns T, *T, (T, error) or
// (*T, error) for a struct type T. params name the members in fn's
// parameter order, each "member" or "member=wire"; a member is an exported
// field of T or a method of T without arguments, and is what writers read
// the property from.
func (m *Mapper) RegisterCreator(fn any, params ...string) error {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if fv.Kind() != reflect.Func {
		return &TypeError{Type: fmt.Sprint(ft), Message: "creator must be a function"}
	}
	if ft.IsVariadic() || ft.NumIn() != len(params) {
		return &TypeError{Type: ft.String(), Message: fmt.Sprintf("creator takes %d arguments, %d parameters named", ft.NumIn(), len(params))}
	}
	cr := &creator{fn: fv}
	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
		cr.hasErr = true
	default:
		return &TypeError{Type: ft.String(), Message: "creator must return T or (T, error)"}
	}
	t := ft.Out(0)
	if t.Kind() == reflect.Pointer {
		t, cr.ptr = t.Elem(), true
	}
	if t.Kind() != reflect.Struct {
		return &TypeError{Type: ft.String(), Message: "creator must return a struct or a pointer to one"}
	}
	for _, p := range params {
		member, wire, err := parseParam(p)
		if err != nil {
			return &TypeError{Type: t.String(), Message: "bad creator parameter", Err: err}
		}
		cr.params = append(cr.params, param{member: member, wire: wire})
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cache.Load(t); ok {
		return &TypeError{Type: t.String(), Message: "creator registered after the type was first used"}
	}
	m.creators[t] = cr
	return nil
}

// Register makes rw the reader and writer of T.
func Register[T any](m *Mapper, rw ValueReadWriter[T]) error {
	m = orDefault(m)
	t := reflect.TypeFor[T]()
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cache.Load(t); ok {
		return &TypeError{Type: t.String(), Message: "registered after the type was first used"}
	}
	m.custom[t] = typedCodec[T]{rw: rw}
	return nil
}

func (m *Mapper) codecFor(t reflect.Type) (codec, error) {
	if c, ok := m.cache.Load(t); ok {
		return c.(codec), nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.cache.Load(t); ok {
		return c.(codec), nil
	}
	building := map[reflect.Type]codec{}
	c, err := m.build(t, building)
	if err != nil {
		return nil, err
	}
	for bt, bc := range building {
		m.cache.Store(bt, bc)
	}
	return c, nil
}

// build derives the codec of t. Codecs under construction are kept in
// building so recursive types resolve to themselves.
func (m *Mapper) build(t reflect.Type, building map[reflect.Type]codec) (codec, error) {
	if c, ok := m.cache.Load(t); ok {
		return c.(codec), nil
	}
	if c, ok := building[t]; ok {
		return c, nil
	}
	c, err := m.derive(t, building)
	if err != nil {
		return nil, err
	}
	building[t] = c
	return c, nil
}

func (m *Mapper) derive(t reflect.Type, building map[reflect.Type]codec) (codec, error) {
	if c, ok := m.custom[t]; ok {
		return c, nil
	}
	pt := reflect.PointerTo(t)
	if t.Kind() != reflect.Pointer && pt.Implements(deserializableType) &&
		(t.Implements(serializableType) || pt.Implements(serializableType)) {
		return selfCodec{}, nil
	}
	switch t {
	case ustringType:
		return ustringCodec{}, nil
	case charType:
		return charCodec{}, nil
	}
	if t.Kind() != reflect.Pointer && pt.Implements(textUnmarshalerType) &&
		(t.Implements(textMarshalerType) || pt.Implements(textMarshalerType)) {
		return textCodec{}, nil
	}
	switch t.Kind() {
	case reflect.Bool:
		return boolCodec{}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intCodec{}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uintCodec{}, nil
	case reflect.Float32, reflect.Float64:
		return floatCodec{}, nil
	case reflect.String:
		return stringCodec{}, nil
	case reflect.Pointer:
		pc := &ptrCodec{}
		building[t] = pc
		elem, err := m.build(t.Elem(), building)
		if err != nil {
			return nil, err
		}
		pc.elem = elem
		return pc, nil
	case reflect.Slice:
		sc := &sliceCodec{}
		building[t] = sc
		elem, err := m.build(t.Elem(), building)
		if err != nil {
			return nil, err
		}
		sc.elem = elem
		return sc, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, &TypeError{Type: t.String(), Message: "map keys must be strings"}
		}
		mc := &mapCodec{}
		building[t] = mc
		elem, err := m.build(t.Elem(), building)
		if err != nil {
			return nil, err
		}
		mc.elem = elem
		return mc, nil
	case reflect.Struct:
		return m.deriveStruct(t, building)
	}
	return nil, &TypeError{Type: t.String(), Message: fmt.Sprintf("unsupported kind %s", t.Kind())}
}

func (m *Mapper) deriveStruct(t reflect.Type, building map[reflect.Type]codec) (codec, error) {
	sc := &structCodec{desc: &TypeDesc{Name: t.Name(), Type: t}}
	building[t] = sc
	name, err := typeNameOf(t)
	if err != nil {
		return nil, err
	}
	if name != "" {
		sc.desc.Name = name
	}
	var members []*memberInfo
	if cr, ok := m.creators[t]; ok {
		sc.creator = cr
		sc.desc.Creator = cr.fn.Type().String()
		members, err = creatorMembers(t, cr)
	} else {
		members, err = fieldMembers(t)
	}
	if err != nil {
		return nil, err
	}
	sc.byWire = make(map[string]int, len(members))
	for i, mi := range members {
		if _, dup := sc.byWire[mi.Wire]; dup {
			return nil, &TypeError{Type: t.String(), Message: fmt.Sprintf("property name %q used twice", mi.Wire)}
		}
		sc.byWire[mi.Wire] = i
		c, err := m.build(mi.Type, building)
		if err != nil {
			return nil, &TypeError{Type: t.String(), Message: fmt.Sprintf("member %s", mi.Member), Err: err}
		}
		mi.codec = c
		policy, def := defaultsOf(c, mi.Type)
		switch {
		case mi.tagRequired:
			policy = Required
		case mi.tagOptional:
			policy, def = Optional, reflect.Zero(mi.Type)
		}
		mi.Policy, mi.def = policy, def
		sc.desc.Members = append(sc.desc.Members, mi.MemberDesc)
	}
	sc.members = members
	if debug.Mapper() {
		debug.Logf("gomap: derived %s as %q with %d members (creator %t)", t, sc.desc.Name, len(members), sc.creator != nil)
	}
	return sc, nil
}

// typeNameOf finds a `kf:"type=Name"` tag on an anonymous field of t.
func typeNameOf(t reflect.Type) (string, error) {
	var name string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		tag, ok := f.Tag.Lookup("kf")
		if !ok {
			continue
		}
		ft, err := parseFieldTag(tag)
		if err != nil {
			return "", &TypeError{Type: t.String(), Message: "bad tag on " + f.Name, Err: err}
		}
		if ft.typeName == "" {
			continue
		}
		if name != "" {
			return "", &TypeError{Type: t.String(), Message: "more than one type name"}
		}
		name = ft.typeName
	}
	return name, nil
}

func fieldMembers(t reflect.Type) ([]*memberInfo, error) {
	var res []*memberInfo
	for _, f := range reflect.VisibleFields(t) {
		if f.Anonymous || !f.IsExported() || throughPointer(t, f.Index) {
			continue
		}
		ft, err := parseFieldTag(f.Tag.Get("kf"))
		if err != nil {
			return nil, &TypeError{Type: t.String(), Message: "bad tag on " + f.Name, Err: err}
		}
		if ft.omit {
			continue
		}
		mi := &memberInfo{
			MemberDesc: MemberDesc{Member: f.Name, Wire: f.Name, Type: f.Type},
			index:      f.Index,
			method:     -1,
		}
		if ft.wire != "" {
			mi.Wire = ft.wire
		}
		mi.tagRequired, mi.tagOptional = ft.required, ft.optional
		res = append(res, mi)
	}
	return res, nil
}

// throughPointer reports whether the field at idx is promoted through an
// embedded pointer, which a zero value cannot hold.
func throughPointer(t reflect.Type, idx []int) bool {
	for _, i := range idx[:len(idx)-1] {
		f := t.Field(i)
		if f.Type.Kind() == reflect.Pointer {
			return true
		}
		t = f.Type
	}
	return false
}

func creatorMembers(t reflect.Type, cr *creator) ([]*memberInfo, error) {
	ft := cr.fn.Type()
	var res []*memberInfo
	for i, p := range cr.params {
		mi := &memberInfo{
			MemberDesc: MemberDesc{Member: p.member, Wire: p.wire, Type: ft.In(i)},
			method:     -1,
		}
		var got reflect.Type
		if f, ok := t.FieldByName(p.member); ok && f.IsExported() && !throughPointer(t, f.Index) {
			mi.index, got = f.Index, f.Type
			if tag, ok := f.Tag.Lookup("kf"); ok {
				fTag, err := parseFieldTag(tag)
				if err != nil {
					return nil, &TypeError{Type: t.String(), Message: "bad tag on " + f.Name, Err: err}
				}
				mi.tagRequired, mi.tagOptional = fTag.required, fTag.optional
			}
		} else if meth, ok := t.MethodByName(p.member); ok && meth.Type.NumIn() == 1 && meth.Type.NumOut() == 1 {
			mi.method, got = meth.Index, meth.Type.Out(0)
		} else {
			return nil, &TypeError{Type: t.String(), Message: fmt.Sprintf("creator parameter %d: no exported field or accessor %s", i, p.member)}
		}
		if got != mi.Type {
			return nil, &TypeError{Type: t.String(), Message: fmt.Sprintf("creator parameter %d is %s but member %s is %s", i, mi.Type, p.member, got)}
		}
		res = append(res, mi)
	}
	return res, nil
}

// TypeDesc is the derived description of a struct type: its wire name,
// its members in property order and the creator, if any, building it.
type TypeDesc struct {
	Name    string
	Type    reflect.Type
	Members []MemberDesc
	Creator string
}

// MemberDesc describes one property.
type MemberDesc struct {
	Member string // Go field or accessor name
	Wire   string // property name
	Type   reflect.Type
	Policy DefaultPolicy
}

// Describe returns the description of struct type t.
func (m *Mapper) Describe(t reflect.Type) (*TypeDesc, error) {
	m = orDefault(m)
	c, err := m.codecFor(t)
	if err != nil {
		return nil, err
	}
	sc, ok := c.(*structCodec)
	if !ok {
		return nil, &TypeError{Type: t.String(), Message: "not a derived struct type"}
	}
	d := *sc.desc
	d.Members = append([]MemberDesc(nil), sc.desc.Members...)
	return &d, nil
}
