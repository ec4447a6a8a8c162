package stream

import "github.com/kfoundation/go-kfoundation/ustring"

// ObjectSerializer is the writer role of the token protocol. Mutators
// return the serializer for chaining; the first error stops all further
// output and is reported by Err and WriteStreamEnd.
type ObjectSerializer interface {
	WritePropertyName(name ustring.String) ObjectSerializer
	WriteString(v ustring.String) ObjectSerializer
	WriteInteger(v int64) ObjectSerializer
	WriteDecimal(v float64) ObjectSerializer
	WriteBool(v bool) ObjectSerializer
	WriteNull() ObjectSerializer
	WriteObjectBegin(name ustring.String) ObjectSerializer
	WriteObjectEnd() ObjectSerializer
	WriteCollectionBegin() ObjectSerializer
	WriteCollectionEnd() ObjectSerializer

	// WriteStreamEnd terminates the document and flushes the codec.
	WriteStreamEnd() error
	Err() error
}

// ObjectDeserializer is the reader role of the token protocol. The Try
// methods peek at the next token and consume it only when it matches;
// every other read requires its token and fails with a
// *DeserializationError otherwise.
type ObjectDeserializer interface {
	// ReadObjectBegin returns the type name, empty if the format carries
	// none.
	ReadObjectBegin() (ustring.String, error)
	ReadObjectEnd() (ustring.String, error)
	ReadCollectionBegin() error
	TryReadCollectionEnd() (bool, error)
	ReadStringLiteral() (ustring.String, error)
	ReadIntegerLiteral() (int64, error)
	ReadDecimalLiteral() (float64, error)
	ReadBooleanLiteral() (bool, error)
	TryReadPropertyName() (ustring.String, bool, error)
	TryReadNull() (bool, error)
}
