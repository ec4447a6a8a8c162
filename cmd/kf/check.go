package main

import (
	"fmt"
	"io"

	"github.com/kfoundation/go-kfoundation"

	"github.com/scott-cotton/cli"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		cfg.Check.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	failed, err := checkFiles(cfg, cc.Out, cc, args)
	if err != nil {
		return err
	}
	if failed > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// checkFiles reports each input on w and returns how many failed.
func checkFiles(cfg *CheckConfig, w io.Writer, cc *cli.Context, files []string) (int, error) {
	failed := 0
	err := cfg.eachInput(cc, files, func(name string, r io.Reader) error {
		src, err := cfg.inFormat(name)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", cli.ErrUsage, name, err)
		}
		if err := kf.Check(src, r); err != nil {
			failed++
			_, werr := fmt.Fprintf(w, "%s: %v\n", name, err)
			return werr
		}
		if cfg.Quiet {
			return nil
		}
		_, err = fmt.Fprintf(w, "%s: ok\n", name)
		return err
	})
	return failed, err
}
