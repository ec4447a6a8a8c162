// Package gomap derives readers and writers that move Go values through
// the token protocol of package stream.
//
// # Usage
//
//	type Person struct {
//	    Name ustring.String `kf:"field=name"`
//	    Age  int64          `kf:"field=age"`
//	    Boss *Person        `kf:"field=boss"`
//	}
//	err := gomap.Write(nil, json.NewSerializer(w), p)
//	p, err := gomap.Read[Person](nil, json.NewDeserializer(r))
//
// A struct is an object named after its Go type, or after the name of an
// embedded TypeName tagged `kf:"type=Name"`. Its properties come from the
// parameters of a creator registered with Mapper.RegisterCreator, in
// parameter order, or else from its exported fields in declaration order.
//
// Field tags:
//
//	kf:"field=wire"   property name
//	kf:"-"            not mapped (also kf:"omit")
//	kf:"required"     absent property fails the read
//	kf:"optional"     absent property reads as the zero value
//
// Pointers are optional by default: nil is not written and an absent
// property reads as nil. Everything else is required unless its reader
// says otherwise (see WithDefault). Unknown properties, a mismatched type
// name and missing required properties fail with an *UnmarshalError
// wrapping a *stream.DeserializationError.
//
// Types may take over their own mapping by implementing Serializable and
// Deserializable, by implementing encoding.TextMarshaler and
// encoding.TextUnmarshaler (mapped to strings), or through Register.
package gomap
