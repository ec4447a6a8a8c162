// Package format names the wire formats and maps them to file suffixes.
package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

type Format int

const (
	K4 Format = iota
	JSON
	XML
	YAML
)

var ErrBadFormat = errors.New("bad format")

func ParseFormat(v string) (Format, error) {
	f, ok := map[string]Format{
		"k":    K4,
		"k4":   K4,
		"j":    JSON,
		"json": JSON,
		"x":    XML,
		"xml":  XML,
		"y":    YAML,
		"yml":  YAML,
		"yaml": YAML,
	}[strings.ToLower(v)]
	if ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case K4:
		return []byte("k4"), nil
	case JSON:
		return []byte("json"), nil
	case XML:
		return []byte("xml"), nil
	case YAML:
		return []byte("yaml"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

// Suffix returns the file extension for this format (including the dot).
func (f Format) Suffix() string {
	switch f {
	case K4:
		return ".k4"
	case JSON:
		return ".json"
	case XML:
		return ".xml"
	case YAML:
		return ".yaml"
	default:
		return ""
	}
}

// FromPath picks the format from the suffix of path.
func FromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return 0, fmt.Errorf("%w: %q has no suffix", ErrBadFormat, path)
	}
	return ParseFormat(ext)
}

// All returns all supported formats in preference order.
func All() []Format {
	return []Format{K4, JSON, XML, YAML}
}
