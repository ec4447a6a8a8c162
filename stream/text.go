package stream

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// GuessText classifies untyped scalar text: "null", "true"/"false",
// integers, decimals and otherwise strings.
func GuessText(s string) EventType {
	switch s {
	case "null", "Null", "NULL", "~":
		return EventNull
	case "true", "True", "TRUE", "false", "False", "FALSE":
		return EventBool
	}
	if _, err := ParseInteger(s); err == nil {
		return EventInteger
	}
	if _, err := ParseDecimal(s); err == nil {
		return EventDecimal
	}
	return EventString
}

// ParseInteger parses decimal integers and the 0x, 0o and 0b prefixed
// forms with optional sign.
func ParseInteger(s string) (int64, error) {
	if !looksNumeric(s) {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return strconv.ParseInt(s, 0, 64)
}

// ParseDecimal parses a floating point number, accepting the YAML spellings
// of infinity and NaN.
func ParseDecimal(s string) (float64, error) {
	switch strings.TrimLeft(s, "+-") {
	case ".inf", ".Inf", ".INF":
		if strings.HasPrefix(s, "-") {
			return math.Inf(-1), nil
		}
		return math.Inf(1), nil
	case ".nan", ".NaN", ".NAN":
		if s[0] == '.' {
			return math.NaN(), nil
		}
	}
	if !looksNumeric(s) {
		return 0, fmt.Errorf("invalid decimal %q", s)
	}
	return strconv.ParseFloat(s, 64)
}

// ParseBool accepts true and false in lower, title and upper case.
func ParseBool(s string) (bool, error) {
	switch s {
	case "true", "True", "TRUE":
		return true, nil
	case "false", "False", "FALSE":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

// looksNumeric rejects the words strconv accepts ("Inf", "NaN") and
// requires a digit after an optional sign or leading dot.
func looksNumeric(s string) bool {
	s = strings.TrimLeft(s, "+-")
	s = strings.TrimPrefix(s, ".")
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
