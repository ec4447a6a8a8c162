package k4

// Option configures a K4 serializer or deserializer.
type Option func(*opts)

type opts struct {
	indent int
	colors *Colors
}

// WithIndent puts one property or item per line, indented by n spaces per
// level. 0, the default, writes the whole value on one line.
func WithIndent(n int) Option {
	return func(o *opts) {
		if n < 0 {
			n = 0
		}
		o.indent = n
	}
}

// WithColors colors the output for terminals.
func WithColors(c *Colors) Option {
	return func(o *opts) {
		o.colors = c
	}
}

func buildOpts(os []Option) *opts {
	o := &opts{}
	for _, opt := range os {
		opt(o)
	}
	return o
}
