package main

import (
	"fmt"
	"io"

	"github.com/kfoundation/go-kfoundation"
	"github.com/kfoundation/go-kfoundation/codec/k4"
	"github.com/kfoundation/go-kfoundation/stream"

	"github.com/scott-cotton/cli"
)

const viewIndent = 2

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	return viewFiles(cfg.MainConfig, cc.Out, cc, args)
}

func viewFiles(cfg *MainConfig, w io.Writer, cc *cli.Context, files []string) error {
	indent := cfg.Indent
	if indent == 0 {
		indent = viewIndent
	}
	opts := []k4.Option{k4.WithIndent(indent)}
	if c := cfg.colors(w); c != nil {
		opts = append(opts, k4.WithColors(c))
	}
	return cfg.eachInput(cc, files, func(name string, r io.Reader) error {
		src, err := cfg.inFormat(name)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", cli.ErrUsage, name, err)
		}
		d, err := kf.NewDeserializer(src, r)
		if err != nil {
			return err
		}
		if err := stream.CopyAll(k4.NewSerializer(w, opts...), d); err != nil {
			return fmt.Errorf("error processing %s: %w", name, err)
		}
		return nil
	})
}
