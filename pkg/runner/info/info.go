// Package info prints where the configuration came from and which backends
// it produced.
package info

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/todor/pkg/config"
	"tableflip.dev/todor/pkg/printers"
)

type Info struct {
	Config         *config.Config
	Backends       []string
	DefaultBackend string

	Out io.Writer
}

func (n *Info) Do(_ context.Context) error {
	if n.Config == nil {
		return errors.New("can not print info, no config")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("TODOR_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "TODOR_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "TODOR_CONFIG_PATH env var not set")
	}
	if n.Config.File != "" {
		_, _ = fmt.Fprintln(out, "Config file:", n.Config.File)
	} else {
		_, _ = fmt.Fprintln(out, "Config file: none, using defaults")
	}
	_, _ = fmt.Fprintln(out, "")

	if len(n.Backends) == 0 {
		_, _ = fmt.Fprintf(out, "  %s\n", "no backends")
		return nil
	}
	pp := printers.PrettyPrint{Out: out}
	pp.Backends(n.Backends, n.DefaultBackend)
	return nil
}
