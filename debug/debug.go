package debug

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
)

type debug struct {
	Events bool
	Mapper bool
}

var (
	d   *debug
	mu  sync.Mutex
	out io.Writer = os.Stderr
)

func init() {
	d = &debug{}
	d.Events = boolEnv("KF_DEBUG_EVENTS")
	d.Mapper = boolEnv("KF_DEBUG_MAPPER")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

// Events reports whether deserializers log every event they consume.
func Events() bool {
	return d.Events
}

// Mapper reports whether the value mapper logs type derivations.
func Mapper() bool {
	return d.Mapper
}

// SetOutput redirects debug output; it returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

func Logf(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, format, args...)
	if n := len(format); n == 0 || format[n-1] != '\n' {
		fmt.Fprintln(out)
	}
}

func LogAny(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		Logf("%v", v)
		return
	}
	Logf("%s", b)
}
