package main

import (
	"fmt"
	"io"
	"os"

	"github.com/kfoundation/go-kfoundation/codec/k4"
	"github.com/kfoundation/go-kfoundation/format"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
)

type MainConfig struct {
	Color  bool `cli:"name=color desc='color K4 output'"`
	Indent int  `cli:"name=indent desc='spaces per nesting level, 0 for compact'"`

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error

	FS   afero.Fs
	Main *cli.Command
}

func newMainConfig() *MainConfig {
	return &MainConfig{FS: afero.NewOsFs()}
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

// inFormat is the format of file: -I when given, else its suffix. Stdin
// defaults to K4.
func (cfg *MainConfig) inFormat(file string) (format.Format, error) {
	if cfg.InFormat != nil {
		return *cfg.InFormat, nil
	}
	if file == "-" {
		return format.K4, nil
	}
	return format.FromPath(file)
}

func (cfg *MainConfig) outFormat() format.Format {
	if cfg.OutFormat != nil {
		return *cfg.OutFormat
	}
	return format.K4
}

// colors returns the K4 colors for w: always with -color, never with
// -color=false, and otherwise when w is a terminal.
func (cfg *MainConfig) colors(w io.Writer) *k4.Colors {
	if cfg.Color {
		return k4.NewColors()
	}
	colorsSet := false
	if cfg.Main != nil {
		for _, opt := range cfg.Main.Opts {
			if opt.Name != "color" {
				continue
			}
			colorsSet = opt.Value != nil
			break
		}
	}
	if colorsSet {
		return nil
	}
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) {
		return k4.NewColors()
	}
	return nil
}

type ConvertConfig struct {
	*MainConfig

	Convert *cli.Command
}

type ViewConfig struct {
	*MainConfig

	View *cli.Command
}

type CheckConfig struct {
	*MainConfig
	Quiet bool `cli:"name=q desc='only report failures'"`

	Check *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='reverse the diff'"`

	Diff *cli.Command
}
