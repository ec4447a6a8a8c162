// Package stream defines the format independent token protocol shared by
// every codec.
//
// A document is a sequence of events: object begin and end (with an
// optional type name), collection begin and end, property names and
// scalar literals. Writers implement ObjectSerializer, readers implement
// ObjectDeserializer. Codecs only translate between events and their
// grammar; Serializer and Deserializer supply validation, lookahead and
// error reporting on top of an EventSink or EventReader.
//
// # Example: Writing
//
//	s := json.NewSerializer(w)
//	s.WriteObjectBegin(ustring.Of("Person")).
//		WritePropertyName(ustring.Of("name")).WriteString(ustring.Of("Ada")).
//		WritePropertyName(ustring.Of("age")).WriteInteger(36).
//		WriteObjectEnd()
//	if err := s.WriteStreamEnd(); err != nil {
//	    return err
//	}
//
// # Example: Reading
//
//	d := json.NewDeserializer(r)
//	if _, err := d.ReadObjectBegin(); err != nil {
//	    return err
//	}
//	for {
//	    name, ok, err := d.TryReadPropertyName()
//	    if err != nil {
//	        return err
//	    }
//	    if !ok {
//	        break
//	    }
//	    // read the value of name
//	}
//	_, err := d.ReadObjectEnd()
//
// # Text
//
// Formats without literal kinds (XML text, YAML plain scalars) produce
// EventText. The Deserializer converts text to whatever literal the
// caller asks for; Copy converts it to the kind recorded in Event.Guess.
package stream
