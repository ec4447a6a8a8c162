package gomap

import (
	"fmt"
	"strings"
)

// TypeName names the wire type of the struct embedding it:
//
//	type person struct {
//	    gomap.TypeName `kf:"type=Person"`
//	    Name string `kf:"field=name"`
//	}
type TypeName struct{}

// fieldTag is the parsed form of a `kf:"..."` tag.
type fieldTag struct {
	wire     string // field=
	typeName string // type=
	omit     bool
	required bool
	optional bool
}

// ParseStructTag parses a tag value into key/value pairs. Parts are
// separated by commas or spaces; a part without '=' is a flag with an
// empty value. Values may be single or double quoted.
func ParseStructTag(tag string) (map[string]string, error) {
	res := map[string]string{}
	var (
		parts []string
		cur   strings.Builder
		quote byte
	)
	flush := func() {
		if p := strings.TrimSpace(cur.String()); p != "" {
			parts = append(parts, p)
		}
		cur.Reset()
	}
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			cur.WriteByte(c)
		case c == '\'' || c == '"':
			quote = c
			cur.WriteByte(c)
		case c == ',' || c == ' ':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("invalid tag %q: unterminated quote", tag)
	}
	flush()
	for _, p := range parts {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if k == "" {
			return nil, fmt.Errorf("invalid tag: empty key in %q", p)
		}
		if ok {
			v = unquoteValue(strings.TrimSpace(v))
		}
		res[k] = v
	}
	return res, nil
}

func unquoteValue(v string) string {
	if len(v) >= 2 && (v[0] == '\'' || v[0] == '"') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

func parseFieldTag(tag string) (*fieldTag, error) {
	ft := &fieldTag{}
	if tag == "-" {
		ft.omit = true
		return ft, nil
	}
	parsed, err := ParseStructTag(tag)
	if err != nil {
		return nil, err
	}
	for k, v := range parsed {
		switch k {
		case "field":
			if v == "" {
				return nil, fmt.Errorf("invalid tag %q: field= needs a name", tag)
			}
			ft.wire = v
		case "type":
			if v == "" {
				return nil, fmt.Errorf("invalid tag %q: type= needs a name", tag)
			}
			ft.typeName = v
		case "omit", "-":
			ft.omit = true
		case "required":
			ft.required = true
		case "optional":
			ft.optional = true
		default:
			return nil, fmt.Errorf("invalid tag %q: unknown key %q", tag, k)
		}
	}
	if ft.required && ft.optional {
		return nil, fmt.Errorf("invalid tag %q: required and optional", tag)
	}
	return ft, nil
}

// parseParam parses a creator parameter spec, "member" or "member=wire".
func parseParam(p string) (member, wire string, err error) {
	member, wire, ok := strings.Cut(p, "=")
	member = strings.TrimSpace(member)
	wire = strings.TrimSpace(wire)
	if member == "" || (ok && wire == "") {
		return "", "", fmt.Errorf("invalid creator parameter %q", p)
	}
	if !ok {
		wire = member
	}
	return member, wire, nil
}
