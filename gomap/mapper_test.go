package gomap

import (
	"bytes"
	"errors"
	"io"
	"net/netip"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kfoundation/go-kfoundation/codec/json"
	"github.com/kfoundation/go-kfoundation/codec/k4"
	"github.com/kfoundation/go-kfoundation/codec/xml"
	"github.com/kfoundation/go-kfoundation/codec/yaml"
	"github.com/kfoundation/go-kfoundation/stream"
	"github.com/kfoundation/go-kfoundation/ustring"
)

var valueCmp = []cmp.Option{
	cmp.Comparer(func(a, b ustring.String) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b ustring.Char) bool { return a.Equal(b) }),
}

type Person struct {
	name ustring.String
	age  int64
}

func NewPerson(name ustring.String, age int64) Person {
	return Person{name: name, age: age}
}

func (p Person) Name() ustring.String { return p.name }
func (p Person) Age() int64           { return p.age }

func personMapper(t *testing.T) *Mapper {
	t.Helper()
	m := NewMapper()
	if err := m.RegisterCreator(NewPerson, "Name=name", "Age=age"); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestCreatorJSON(t *testing.T) {
	m := personMapper(t)
	var buf bytes.Buffer
	s := json.NewSerializer(&buf)
	if err := Write(m, s, NewPerson(ustring.Of("Ada"), 36)); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteStreamEnd(); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), `{"name":"Ada","age":36}`; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	p, err := Read[Person](m, json.NewDeserializer(&buf))
	if err != nil {
		t.Fatal(err)
	}
	if p.Name().String() != "Ada" || p.Age() != 36 {
		t.Errorf("got %q %d", p.Name(), p.Age())
	}
}

type Member struct {
	Name  string  `kf:"field=name"`
	Email *string `kf:"field=email"`
}

type Team struct {
	TypeName `kf:"type=Squad"`
	Name     ustring.String     `kf:"field=name"`
	Members  []Member           `kf:"field=members"`
	Lead     *Member            `kf:"field=lead"`
	Scores   map[string]float64 `kf:"field=scores"`
	Tags     []string           `kf:"field=tags"`
	Active   bool               `kf:"field=active"`
	Count    uint16             `kf:"field=count"`
	Initial  ustring.Char       `kf:"field=initial"`
	Ratio    float32            `kf:"field=ratio"`
	Skip     string             `kf:"-"`
}

func sampleTeam() Team {
	email := "ada@example.org"
	return Team{
		Name:    ustring.Of("Core Team"),
		Members: []Member{{Name: "Ada", Email: &email}, {Name: "12"}},
		Lead:    &Member{Name: "Grace"},
		Scores:  map[string]float64{"a": 1.5, "b": -2},
		Active:  true,
		Count:   7,
		Initial: ustring.MustChar('é'),
		Ratio:   0.25,
	}
}

type codecPair struct {
	name string
	ser  func(w io.Writer) *stream.Serializer
	de   func(r io.Reader) *stream.Deserializer
}

var codecs = []codecPair{
	{"k4", func(w io.Writer) *stream.Serializer { return k4.NewSerializer(w) },
		func(r io.Reader) *stream.Deserializer { return k4.NewDeserializer(r) }},
	{"k4 indented", func(w io.Writer) *stream.Serializer { return k4.NewSerializer(w, k4.WithIndent(2)) },
		func(r io.Reader) *stream.Deserializer { return k4.NewDeserializer(r) }},
	{"json", func(w io.Writer) *stream.Serializer { return json.NewSerializer(w) },
		func(r io.Reader) *stream.Deserializer { return json.NewDeserializer(r) }},
	{"xml", func(w io.Writer) *stream.Serializer {
		return xml.NewSerializer(w, xml.WithIndent(2), xml.WithDefaultTypeName("map"))
	}, func(r io.Reader) *stream.Deserializer { return xml.NewDeserializer(r) }},
	{"yaml", func(w io.Writer) *stream.Serializer { return yaml.NewSerializer(w) },
		func(r io.Reader) *stream.Deserializer { return yaml.NewDeserializer(r) }},
}

func TestRoundTripAllFormats(t *testing.T) {
	want := sampleTeam()
	for _, c := range codecs {
		t.Run(c.name, func(t *testing.T) {
			var buf bytes.Buffer
			s := c.ser(&buf)
			if err := Write(nil, s, want); err != nil {
				t.Fatal(err)
			}
			if err := s.WriteStreamEnd(); err != nil {
				t.Fatal(err)
			}
			doc := buf.String()
			d := c.de(&buf)
			got, err := Read[Team](nil, d)
			if err != nil {
				t.Fatalf("%v\ndocument:\n%s", err, doc)
			}
			if err := d.ReadStreamEnd(); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(want, got, valueCmp...); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s\ndocument:\n%s", diff, doc)
			}
		})
	}
}

func TestPersonAllFormats(t *testing.T) {
	m := personMapper(t)
	for _, c := range codecs {
		t.Run(c.name, func(t *testing.T) {
			var buf bytes.Buffer
			s := c.ser(&buf)
			if err := Write(m, s, NewPerson(ustring.Of("Ada"), 36)); err != nil {
				t.Fatal(err)
			}
			if err := s.WriteStreamEnd(); err != nil {
				t.Fatal(err)
			}
			p, err := Read[Person](m, c.de(&buf))
			if err != nil {
				t.Fatal(err)
			}
			if p.Name().String() != "Ada" || p.Age() != 36 {
				t.Errorf("got %q %d", p.Name(), p.Age())
			}
		})
	}
}

func checkDeserializationError(t *testing.T, err error, contains string) {
	t.Helper()
	var de *stream.DeserializationError
	if !errors.As(err, &de) {
		t.Fatalf("expected DeserializationError, got %v", err)
	}
	var ue *UnmarshalError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnmarshalError, got %v", err)
	}
	if !strings.Contains(err.Error(), contains) {
		t.Errorf("expected %q in %q", contains, err.Error())
	}
}

func TestReadFailures(t *testing.T) {
	m := personMapper(t)
	tests := []struct {
		name, doc, contains string
		de                  func(string) *stream.Deserializer
	}{
		{"unknown property", `{"name":"Ada","age":36,"x":1}`, `unknown property "x"`, jsonString},
		{"missing property", `{"name":"Ada"}`, `missing required property "age"`, jsonString},
		{"wrong type name", `Robot[name="x" age=1]`, "found type Robot while expecting Person", k4.NewStringDeserializer},
		{"wrong literal", `{"name":1,"age":36}`, "expected string literal", jsonString},
		{"duplicate property", `{"name":"a","name":"b","age":1}`, `duplicate property "name"`, jsonString},
		{"missing end", `Person[name="Ada" age=36`, "unexpected end of input", k4.NewStringDeserializer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read[Person](m, tt.de(tt.doc))
			checkDeserializationError(t, err, tt.contains)
		})
	}
}

func jsonString(s string) *stream.Deserializer {
	return json.NewDeserializer(strings.NewReader(s))
}

func TestErrorPath(t *testing.T) {
	_, err := Read[Team](nil, jsonString(`{"name":"x","members":[{"name":"a"},{"name":2}]}`))
	var ue *UnmarshalError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnmarshalError, got %v", err)
	}
	if ue.FieldPath != "Squad.members[1].name" {
		t.Errorf("unexpected path %q", ue.FieldPath)
	}
}

func TestOverflow(t *testing.T) {
	type Small struct {
		V int8 `kf:"field=v"`
	}
	_, err := Read[Small](nil, jsonString(`{"v":300}`))
	checkDeserializationError(t, err, "overflows int8")
}

type Level int

func TestDefaults(t *testing.T) {
	type Config struct {
		Level   Level   `kf:"field=level"`
		Name    string  `kf:"field=name,optional"`
		Parent  *Level  `kf:"field=parent"`
		Retries int     `kf:"field=retries"`
		Must    *string `kf:"field=must,required"`
	}
	m := NewMapper()
	level := NewReadWriter(
		func(d stream.ObjectDeserializer) (Level, error) {
			v, err := Int.Read(d)
			return Level(v), err
		},
		func(s stream.ObjectSerializer, v Level) error { return Int.Write(s, int(v)) })
	if err := Register(m, WithDefault(level, Level(3))); err != nil {
		t.Fatal(err)
	}
	got, err := Read[Config](m, jsonString(`{"retries":2,"must":null}`))
	if err != nil {
		t.Fatal(err)
	}
	if got.Level != 3 || got.Name != "" || got.Parent != nil || got.Retries != 2 || got.Must != nil {
		t.Errorf("unexpected %+v", got)
	}

	desc, err := m.Describe(reflect.TypeOf(Config{}))
	if err != nil {
		t.Fatal(err)
	}
	var policies []DefaultPolicy
	for _, md := range desc.Members {
		policies = append(policies, md.Policy)
	}
	want := []DefaultPolicy{DefaultValue, Optional, Optional, Required, Required}
	if diff := cmp.Diff(want, policies); diff != "" {
		t.Errorf("policies mismatch (-want +got):\n%s", diff)
	}

	_, err = Read[Config](m, jsonString(`{"retries":2}`))
	checkDeserializationError(t, err, `missing required property "must"`)
}

func TestDescribe(t *testing.T) {
	m := personMapper(t)
	desc, err := m.Describe(reflect.TypeOf(Person{}))
	if err != nil {
		t.Fatal(err)
	}
	if desc.Name != "Person" || desc.Creator == "" || len(desc.Members) != 2 {
		t.Fatalf("unexpected %+v", desc)
	}
	for i, want := range []struct {
		member, wire string
		typ          reflect.Type
	}{
		{"Name", "name", reflect.TypeOf(ustring.String{})},
		{"Age", "age", reflect.TypeOf(int64(0))},
	} {
		md := desc.Members[i]
		if md.Member != want.member || md.Wire != want.wire || md.Type != want.typ || md.Policy != Required {
			t.Errorf("member %d: %+v", i, md)
		}
	}
	if _, err := m.Describe(reflect.TypeOf(0)); err == nil {
		t.Error("expected an error for a non struct type")
	}
}

type Tree struct {
	Label    string `kf:"field=label"`
	Children []Tree `kf:"field=children"`
	Parent   *Tree  `kf:"field=parent"`
}

func TestRecursiveTypes(t *testing.T) {
	tree := Tree{Label: "root", Children: []Tree{{Label: "leaf"}}}
	var buf bytes.Buffer
	s := k4.NewSerializer(&buf)
	if err := Write(nil, s, tree); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteStreamEnd(); err != nil {
		t.Fatal(err)
	}
	want := `Tree[label="root" children={Tree[label="leaf" children=null]}]`
	if got := buf.String(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	got, err := Read[Tree](nil, k4.NewStringDeserializer(want))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(tree, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	got, err = Read[Tree](nil, k4.NewStringDeserializer(`Tree[label="c" children={} parent=Tree[label="p" children=null]]`))
	if err != nil {
		t.Fatal(err)
	}
	if got.Parent == nil || got.Parent.Label != "p" || got.Children == nil || len(got.Children) != 0 {
		t.Errorf("unexpected %+v", got)
	}
}

func TestConcurrentDerivation(t *testing.T) {
	m := NewMapper()
	var wg sync.WaitGroup
	outs := make([]string, 16)
	errs := make([]error, 16)
	for i := range outs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var buf bytes.Buffer
			s := k4.NewSerializer(&buf)
			if err := Write(m, s, sampleTeam()); err != nil {
				errs[i] = err
				return
			}
			errs[i] = s.WriteStreamEnd()
			outs[i] = buf.String()
		}(i)
	}
	wg.Wait()
	for i := range outs {
		if errs[i] != nil {
			t.Fatal(errs[i])
		}
		if outs[i] != outs[0] {
			t.Errorf("output %d differs:\n%s\n%s", i, outs[i], outs[0])
		}
	}
}

type Point struct{ X, Y int64 }

func (p Point) Serialize(s stream.ObjectSerializer) error {
	return s.WriteCollectionBegin().WriteInteger(p.X).WriteInteger(p.Y).WriteCollectionEnd().Err()
}

func (p *Point) Deserialize(d stream.ObjectDeserializer) error {
	if err := d.ReadCollectionBegin(); err != nil {
		return err
	}
	var err error
	if p.X, err = d.ReadIntegerLiteral(); err != nil {
		return err
	}
	if p.Y, err = d.ReadIntegerLiteral(); err != nil {
		return err
	}
	end, err := d.TryReadCollectionEnd()
	if err != nil {
		return err
	}
	if !end {
		return errors.New("a point has two coordinates")
	}
	return nil
}

func TestSelfDescribingAndText(t *testing.T) {
	type Shape struct {
		At   Point      `kf:"field=at"`
		Host netip.Addr `kf:"field=host"`
	}
	v := Shape{At: Point{1, 2}, Host: netip.MustParseAddr("10.0.0.1")}
	var buf bytes.Buffer
	s := k4.NewSerializer(&buf)
	if err := Write(nil, s, v); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteStreamEnd(); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), `Shape[at={1 2} host="10.0.0.1"]`; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	got, err := Read[Shape](nil, k4.NewDeserializer(&buf))
	if err != nil {
		t.Fatal(err)
	}
	if got != v {
		t.Errorf("expected %+v, got %+v", v, got)
	}
	_, err = Read[Shape](nil, k4.NewStringDeserializer(`Shape[at={1 2 3} host="10.0.0.1"]`))
	checkDeserializationError(t, err, "two coordinates")
	_, err = Read[Shape](nil, k4.NewStringDeserializer(`Shape[at={1 2} host="nope"]`))
	checkDeserializationError(t, err, "invalid netip.Addr")
}

func TestTypeErrors(t *testing.T) {
	type WithChan struct {
		C chan int
	}
	_, err := ReadWriterFor[WithChan](NewMapper())
	var te *TypeError
	if !errors.As(err, &te) {
		t.Errorf("expected TypeError, got %v", err)
	}

	type IntKeys struct {
		M map[int]string
	}
	if _, err := ReadWriterFor[IntKeys](NewMapper()); !errors.As(err, &te) {
		t.Errorf("expected TypeError, got %v", err)
	}

	type Dup struct {
		A string `kf:"field=x"`
		B string `kf:"field=x"`
	}
	if _, err := ReadWriterFor[Dup](NewMapper()); !errors.As(err, &te) {
		t.Errorf("expected TypeError, got %v", err)
	}

	m := NewMapper()
	if _, err := ReadWriterFor[Level](m); err != nil {
		t.Fatal(err)
	}
	if err := Register(m, WithDefault(levelInt64(), Level(1))); !errors.As(err, &te) {
		t.Errorf("expected TypeError registering after use, got %v", err)
	}
}

func levelInt64() ValueReadWriter[Level] {
	return NewReadWriter(
		func(d stream.ObjectDeserializer) (Level, error) { v, err := Int64.Read(d); return Level(v), err },
		func(s stream.ObjectSerializer, v Level) error { return Int64.Write(s, int64(v)) })
}

func TestRegisterCreatorErrors(t *testing.T) {
	tests := map[string]struct {
		fn     any
		params []string
	}{
		"not a function":   {42, nil},
		"arity":            {NewPerson, []string{"Name=name"}},
		"no struct result": {func(int64) int64 { return 0 }, []string{"X"}},
		"bad second":       {func(int64) (Person, int) { return Person{}, 0 }, []string{"Age"}},
		"bad param spec":   {NewPerson, []string{"Name=", "Age"}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := NewMapper().RegisterCreator(tt.fn, tt.params...)
			var te *TypeError
			if !errors.As(err, &te) {
				t.Errorf("expected TypeError, got %v", err)
			}
		})
	}

	m := NewMapper()
	if err := m.RegisterCreator(NewPerson, "Age=name", "Name=age"); err != nil {
		t.Fatal(err)
	}
	var te *TypeError
	if _, err := ReadWriterFor[Person](m); !errors.As(err, &te) {
		t.Errorf("expected TypeError for mismatched member types, got %v", err)
	}

	m = NewMapper()
	if err := m.RegisterCreator(NewPerson, "Nick", "Age"); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadWriterFor[Person](m); !errors.As(err, &te) {
		t.Errorf("expected TypeError for a missing member, got %v", err)
	}
}

func TestCreatorError(t *testing.T) {
	type Even struct {
		N int64
	}
	m := NewMapper()
	err := m.RegisterCreator(func(n int64) (*Even, error) {
		if n%2 != 0 {
			return nil, errors.New("odd")
		}
		return &Even{N: n}, nil
	}, "N=n")
	if err != nil {
		t.Fatal(err)
	}
	v, err := Read[Even](m, jsonString(`{"n":4}`))
	if err != nil || v.N != 4 {
		t.Fatalf("got %v, %v", v, err)
	}
	_, err = Read[Even](m, jsonString(`{"n":3}`))
	checkDeserializationError(t, err, "odd")
}
