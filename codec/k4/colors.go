package k4

import (
	"strings"

	"github.com/kfoundation/go-kfoundation/stream"

	"github.com/fatih/color"
)

type Colorable struct {
	Type stream.EventType
	Attr ColorAttr
}

type ColorAttr int

const (
	TypeNameColor ColorAttr = iota
	FieldColor
	ValueColor
	SepColor
)

// Colors maps token kinds to terminal color functions.
type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	obj := color.RGB(196, 128, 128).SprintfFunc()
	coll := color.RGB(255, 0, 196).SprintfFunc()
	colors.Map[Colorable{Type: stream.EventObjectBegin, Attr: TypeNameColor}] = color.RGB(74, 92, 138).SprintfFunc()
	colors.Map[Colorable{Type: stream.EventObjectBegin, Attr: SepColor}] = obj
	colors.Map[Colorable{Type: stream.EventObjectEnd, Attr: SepColor}] = obj
	colors.Map[Colorable{Type: stream.EventCollectionBegin, Attr: SepColor}] = coll
	colors.Map[Colorable{Type: stream.EventCollectionEnd, Attr: SepColor}] = coll
	colors.Map[Colorable{Type: stream.EventProperty, Attr: FieldColor}] = color.RGB(128, 168, 196).SprintfFunc()
	colors.Map[Colorable{Type: stream.EventProperty, Attr: SepColor}] = obj

	able := Colorable{Attr: ValueColor}
	able.Type = stream.EventString
	colors.Map[able] = color.RGB(8, 196, 16).SprintfFunc()
	able.Type = stream.EventInteger
	colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()
	able.Type = stream.EventDecimal
	colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()
	able.Type = stream.EventNull
	colors.Map[able] = color.RGB(168, 0, 196).SprintfFunc()
	able.Type = stream.EventBool
	colors.Map[able] = color.CyanString

	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.ReplaceAll(v, "%", "%%"))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(t stream.EventType, a ColorAttr, s string) string {
	return c.Get(t, a)(s)
}

func (c *Colors) Get(t stream.EventType, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Type: t, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}
