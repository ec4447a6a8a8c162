// Package ustring provides a UTF-8 native character and string.
//
// A [String] keeps its contents as UTF-8 bytes and never converts them to
// another encoding. Byte length is O(1); character length is counted once
// on demand and remembered. Offsets passed to Sub and SubFrom are in
// characters (codepoints), offsets used by the Index functions are in bytes.
//
//	s := ustring.Of("€uro")
//	s.ByteLen()          // 6
//	s.Len()              // 4
//	t, _ := s.Sub(1, 4)  // "uro"
//
// A [Char] is a single codepoint together with its UTF-8 encoding.
//
//	c, _ := ustring.CharOf(0x20AC)
//	c.UTF8() // e2 82 ac
//
// Malformed encodings are reported as *EncodingError and out of range
// character offsets as *IndexError; no function substitutes the Unicode
// replacement character except [Of], which accepts arbitrary Go strings.
package ustring
