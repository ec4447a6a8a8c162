package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/kfoundation/go-kfoundation/format"

	"github.com/spf13/afero"
)

func testConfig(t *testing.T, files map[string]string) *MainConfig {
	t.Helper()
	cfg := newMainConfig()
	cfg.FS = afero.NewMemMapFs()
	for name, content := range files {
		if err := afero.WriteFile(cfg.FS, name, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return cfg
}

func TestInFormat(t *testing.T) {
	cfg := newMainConfig()
	for file, want := range map[string]format.Format{
		"a.json": format.JSON,
		"a.yml":  format.YAML,
		"a.k4":   format.K4,
		"-":      format.K4,
	} {
		got, err := cfg.inFormat(file)
		if err != nil || got != want {
			t.Errorf("%s: got %v %v", file, got, err)
		}
	}
	if _, err := cfg.inFormat("noext"); !errors.Is(err, format.ErrBadFormat) {
		t.Errorf("expected ErrBadFormat, got %v", err)
	}
	x := format.XML
	cfg.InFormat = &x
	if got, _ := cfg.inFormat("a.json"); got != format.XML {
		t.Errorf("-I should win over the suffix, got %v", got)
	}
	if got := cfg.outFormat(); got != format.K4 {
		t.Errorf("expected k4 output by default, got %v", got)
	}
}

func TestConvertFiles(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		"a.json": `{"x":1}`,
		"b.xml":  `<P><y>two</y></P>`,
	})
	var buf bytes.Buffer
	if err := convertFiles(cfg, &buf, nil, []string{"a.json", "b.xml"}); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "[x=1]\nP[y=\"two\"]"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if err := convertFiles(cfg, &buf, nil, []string{"missing.json"}); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestCheckFiles(t *testing.T) {
	cfg := &CheckConfig{MainConfig: testConfig(t, map[string]string{
		"good.k4":  `A[x=1]`,
		"bad.json": `{"x":`,
	})}
	var buf bytes.Buffer
	failed, err := checkFiles(cfg, &buf, nil, []string{"good.k4", "bad.json"})
	if err != nil {
		t.Fatal(err)
	}
	if failed != 1 {
		t.Errorf("expected 1 failure, got %d", failed)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "good.k4: ok\nbad.json: ") {
		t.Errorf("unexpected report %q", out)
	}
}

func TestWriteDiff(t *testing.T) {
	var buf bytes.Buffer
	differs, err := writeDiff(&buf, "A[\n  x=1\n  y=2\n]\n", "A[\n  x=1\n  y=3\n]\n", false)
	if err != nil {
		t.Fatal(err)
	}
	if !differs {
		t.Fatal("expected a difference")
	}
	want := " A[\n   x=1\n-  y=2\n+  y=3\n ]\n"
	if got := buf.String(); got != want {
		t.Errorf("expected\n%s\ngot\n%s", want, got)
	}
	buf.Reset()
	if differs, _ := writeDiff(&buf, "same\n", "same\n", false); differs || buf.Len() != 0 {
		t.Errorf("expected no diff, got %q", buf.String())
	}
}

func TestCanonical(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		"a.json": `{"x":1,"l":[true]}`,
		"a.yaml": "x: 1\nl:\n  - true\n",
	})
	a, err := canonical(cfg, nil, "a.json")
	if err != nil {
		t.Fatal(err)
	}
	b, err := canonical(cfg, nil, "a.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("expected the same rendering:\n%s\n%s", a, b)
	}
}
