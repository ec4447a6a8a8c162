package yaml

import (
	"io"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"

	"github.com/kfoundation/go-kfoundation/stream"
	"github.com/kfoundation/go-kfoundation/ustring"
)

// decoder parses the whole document on the first read and then replays
// the events of its syntax tree.
type decoder struct {
	r      io.Reader
	parsed bool
	events []stream.Event
	i      int
	err    error
}

func (d *decoder) ReadEvent() (*stream.Event, error) {
	if !d.parsed {
		d.parsed = true
		d.err = d.parse()
	}
	if d.i < len(d.events) {
		ev := &d.events[d.i]
		d.i++
		return ev, nil
	}
	if d.err != nil {
		return nil, d.err
	}
	return nil, io.EOF
}

func (d *decoder) parse() error {
	b, err := io.ReadAll(d.r)
	if err != nil {
		return stream.WrapError(stream.Pos{}, "read error", err)
	}
	f, err := parser.ParseBytes(b, 0)
	if err != nil {
		return stream.WrapError(stream.Pos{}, "malformed YAML", err)
	}
	seen := false
	for _, doc := range f.Docs {
		if doc == nil || isComment(doc.Body) {
			continue
		}
		if seen {
			return stream.Errorf(pos(doc.Body), "more than one YAML document")
		}
		seen = true
		if err := d.walk(doc.Body, ""); err != nil {
			return err
		}
	}
	return nil
}

func isComment(n ast.Node) bool {
	switch n.(type) {
	case nil, *ast.CommentNode, *ast.CommentGroupNode:
		return true
	}
	return false
}

func pos(n ast.Node) stream.Pos {
	tk := n.GetToken()
	if tk == nil || tk.Position == nil {
		return stream.Pos{}
	}
	return stream.Pos{Line: tk.Position.Line, Col: tk.Position.Column, Offset: int64(tk.Position.Offset)}
}

func (d *decoder) emit(ev stream.Event, n ast.Node) {
	ev.Pos = pos(n)
	d.events = append(d.events, ev)
}

func (d *decoder) text(n ast.Node, guess stream.EventType) {
	d.emit(stream.Event{Type: stream.EventText, String: ustring.Of(n.GetToken().Value), Guess: guess}, n)
}

// walk emits the events of n. tag is the local tag applying to n, if any.
func (d *decoder) walk(n ast.Node, tag string) error {
	switch n := n.(type) {
	case *ast.TagNode:
		name := n.Start.Value
		if strings.HasPrefix(name, "!!") {
			return d.walk(n.Value, tag)
		}
		name = strings.TrimPrefix(name, "!")
		switch n.Value.(type) {
		case *ast.MappingNode, *ast.MappingValueNode:
			return d.walk(n.Value, name)
		}
		return stream.Errorf(pos(n), "tag !%s on a value that is not a mapping", name)

	case *ast.MappingNode:
		d.emit(stream.Event{Type: stream.EventObjectBegin, Name: ustring.Of(tag)}, n)
		for _, v := range n.Values {
			if err := d.entry(v); err != nil {
				return err
			}
		}
		d.emit(stream.Event{Type: stream.EventObjectEnd, Name: ustring.Of(tag)}, n)

	case *ast.MappingValueNode:
		d.emit(stream.Event{Type: stream.EventObjectBegin, Name: ustring.Of(tag)}, n)
		if err := d.entry(n); err != nil {
			return err
		}
		d.emit(stream.Event{Type: stream.EventObjectEnd, Name: ustring.Of(tag)}, n)

	case *ast.SequenceNode:
		d.emit(stream.Event{Type: stream.EventCollectionBegin}, n)
		for _, v := range n.Values {
			if err := d.walk(v, ""); err != nil {
				return err
			}
		}
		d.emit(stream.Event{Type: stream.EventCollectionEnd}, n)

	case *ast.AnchorNode:
		return d.walk(n.Value, tag)

	case *ast.AliasNode:
		return stream.Errorf(pos(n), "YAML aliases are not supported")

	case *ast.StringNode:
		switch n.Token.Type {
		case token.DoubleQuoteType, token.SingleQuoteType:
			d.emit(stream.Event{Type: stream.EventString, String: ustring.Of(n.Value)}, n)
		default:
			d.emit(stream.Event{Type: stream.EventText, String: ustring.Of(n.Value), Guess: stream.EventString}, n)
		}

	case *ast.LiteralNode:
		d.emit(stream.Event{Type: stream.EventString, String: ustring.Of(n.Value.Value)}, n)

	case *ast.IntegerNode:
		d.text(n, stream.EventInteger)

	case *ast.FloatNode, *ast.InfinityNode, *ast.NanNode:
		d.text(n, stream.EventDecimal)

	case *ast.BoolNode:
		d.text(n, stream.EventBool)

	case *ast.NullNode:
		d.emit(stream.Event{Type: stream.EventNull}, n)

	case nil, *ast.CommentNode, *ast.CommentGroupNode:
		return nil

	default:
		return stream.Errorf(pos(n), "unsupported YAML node %s", n.Type())
	}
	return nil
}

func (d *decoder) entry(v *ast.MappingValueNode) error {
	var key string
	switch k := v.Key.(type) {
	case *ast.StringNode:
		key = k.Value
	default:
		key = k.GetToken().Value
	}
	d.emit(stream.Event{Type: stream.EventProperty, Name: ustring.Of(key)}, v.Key)
	if v.Value == nil {
		d.emit(stream.Event{Type: stream.EventNull}, v)
		return nil
	}
	return d.walk(v.Value, "")
}
