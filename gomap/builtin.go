package gomap

import (
	"fmt"
	"math"

	"github.com/kfoundation/go-kfoundation/stream"
	"github.com/kfoundation/go-kfoundation/ustring"
)

// Built in readers and writers for the scalar types.
var (
	Bool ValueReadWriter[bool] = NewReadWriter(
		func(d stream.ObjectDeserializer) (bool, error) { return d.ReadBooleanLiteral() },
		func(s stream.ObjectSerializer, v bool) error { return s.WriteBool(v).Err() })

	Int ValueReadWriter[int] = NewReadWriter(
		func(d stream.ObjectDeserializer) (int, error) {
			v, err := d.ReadIntegerLiteral()
			if err != nil {
				return 0, err
			}
			if v < math.MinInt || v > math.MaxInt {
				return 0, fmt.Errorf("%d overflows int", v)
			}
			return int(v), nil
		},
		func(s stream.ObjectSerializer, v int) error { return s.WriteInteger(int64(v)).Err() })

	Int64 ValueReadWriter[int64] = NewReadWriter(
		func(d stream.ObjectDeserializer) (int64, error) { return d.ReadIntegerLiteral() },
		func(s stream.ObjectSerializer, v int64) error { return s.WriteInteger(v).Err() })

	Uint64 ValueReadWriter[uint64] = NewReadWriter(
		func(d stream.ObjectDeserializer) (uint64, error) {
			v, err := d.ReadIntegerLiteral()
			if err != nil {
				return 0, err
			}
			if v < 0 {
				return 0, fmt.Errorf("%d overflows uint64", v)
			}
			return uint64(v), nil
		},
		func(s stream.ObjectSerializer, v uint64) error {
			if v > math.MaxInt64 {
				return fmt.Errorf("%d does not fit an integer literal", v)
			}
			return s.WriteInteger(int64(v)).Err()
		})

	Float32 ValueReadWriter[float32] = NewReadWriter(
		func(d stream.ObjectDeserializer) (float32, error) {
			v, err := d.ReadDecimalLiteral()
			return float32(v), err
		},
		func(s stream.ObjectSerializer, v float32) error { return s.WriteDecimal(float64(v)).Err() })

	Float64 ValueReadWriter[float64] = NewReadWriter(
		func(d stream.ObjectDeserializer) (float64, error) { return d.ReadDecimalLiteral() },
		func(s stream.ObjectSerializer, v float64) error { return s.WriteDecimal(v).Err() })

	UString ValueReadWriter[ustring.String] = NewReadWriter(
		func(d stream.ObjectDeserializer) (ustring.String, error) { return d.ReadStringLiteral() },
		func(s stream.ObjectSerializer, v ustring.String) error { return s.WriteString(v).Err() })

	String ValueReadWriter[string] = NewReadWriter(
		func(d stream.ObjectDeserializer) (string, error) {
			v, err := d.ReadStringLiteral()
			return v.String(), err
		},
		func(s stream.ObjectSerializer, v string) error { return s.WriteString(ustring.Of(v)).Err() })

	Char ValueReadWriter[ustring.Char] = NewReadWriter(readChar,
		func(s stream.ObjectSerializer, v ustring.Char) error {
			return s.WriteString(ustring.FromChars(v)).Err()
		})
)

func readChar(d stream.ObjectDeserializer) (ustring.Char, error) {
	v, err := d.ReadStringLiteral()
	if err != nil {
		return ustring.Char{}, err
	}
	if v.Len() != 1 {
		return ustring.Char{}, fmt.Errorf("expected a single character, found %d", v.Len())
	}
	return ustring.CharFromUTF8(v.Bytes())
}
