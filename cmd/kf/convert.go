package main

import (
	"fmt"
	"io"

	"github.com/kfoundation/go-kfoundation"

	"github.com/scott-cotton/cli"
)

func convert(cfg *ConvertConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Convert.Parse(cc, args)
	if err != nil {
		return err
	}
	return convertFiles(cfg.MainConfig, cc.Out, cc, args)
}

func convertFiles(cfg *MainConfig, w io.Writer, cc *cli.Context, files []string) error {
	dst := cfg.outFormat()
	i := 0
	return cfg.eachInput(cc, files, func(name string, r io.Reader) error {
		if i > 0 {
			if _, err := w.Write([]byte("\n")); err != nil {
				return err
			}
		}
		i++
		src, err := cfg.inFormat(name)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", cli.ErrUsage, name, err)
		}
		if err := kf.Convert(dst, w, src, r, cfg.Indent); err != nil {
			return fmt.Errorf("error processing %s: %w", name, err)
		}
		return nil
	})
}
