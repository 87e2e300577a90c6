package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/todor/pkg/runner/info"
	"tableflip.dev/todor/pkg/schedule"
)

func addBackends(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "backends",
		Aliases: []string{"info"},
		Short:   "List the configured backends",
		Example: `
todor backends
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, reg, err := open(ctx)
			if err != nil {
				return err
			}
			defer reg.Close()

			def, err := reg.DefaultBackend(cfg.DefaultBackend)
			if err != nil {
				return err
			}
			i := info.Info{
				Config:         cfg,
				Backends:       schedule.IDs(reg.Backends),
				DefaultBackend: def,
			}
			return i.Do(ctx)
		},
	}

	topLevel.AddCommand(cmd)
}
