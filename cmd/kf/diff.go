package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/kfoundation/go-kfoundation"
	"github.com/kfoundation/go-kfoundation/format"

	"github.com/scott-cotton/cli"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	from, err := canonical(cfg.MainConfig, cc, args[0])
	if err != nil {
		return err
	}
	to, err := canonical(cfg.MainConfig, cc, args[1])
	if err != nil {
		return err
	}
	if cfg.Reverse {
		from, to = to, from
	}
	differs, err := writeDiff(cc.Out, from, to, cfg.colors(cc.Out) != nil)
	if err != nil {
		return err
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// canonical renders file as indented K4, one property or item per line.
func canonical(cfg *MainConfig, cc *cli.Context, file string) (string, error) {
	var buf bytes.Buffer
	err := cfg.withInput(cc, file, func(name string, r io.Reader) error {
		src, err := cfg.inFormat(name)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", cli.ErrUsage, name, err)
		}
		if err := kf.Convert(format.K4, &buf, src, r, viewIndent); err != nil {
			return fmt.Errorf("error decoding %s: %w", name, err)
		}
		return nil
	})
	return buf.String(), err
}

// writeDiff writes a line diff of from and to, prefixing removed lines
// with "-", added lines with "+" and common ones with " ".
func writeDiff(w io.Writer, from, to string, colored bool) (bool, error) {
	if from == to {
		return false, nil
	}
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	del := fmt.Sprint
	ins := fmt.Sprint
	if colored {
		del = color.New(color.FgRed).Sprint
		ins = color.New(color.FgGreen).Sprint
	}
	for _, d := range diffs {
		prefix, paint := " ", fmt.Sprint
		switch d.Type {
		case diffpatch.DiffDelete:
			prefix, paint = "-", del
		case diffpatch.DiffInsert:
			prefix, paint = "+", ins
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			if !strings.HasSuffix(line, "\n") {
				line += "\n"
			}
			if _, err := io.WriteString(w, paint(prefix+line)); err != nil {
				return true, err
			}
		}
	}
	return true, nil
}
