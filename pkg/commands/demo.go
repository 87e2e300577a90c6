package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/todor/pkg/commands/options"
	"tableflip.dev/todor/pkg/runner/ui"
)

func addDemo(topLevel *cobra.Command) {
	bo := &options.BackendOptions{}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Fill a backend with sample items",
		Long: "Add a handful of items due between a few minutes and a few days from now,\n" +
			"enough to see every colour in the interactive view.",
		Example: `
todor --config /tmp/demo.yaml demo
todor demo --backend journal:scratch
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, reg, err := open(ctx)
			if err != nil {
				return err
			}
			defer reg.Close()

			b, err := pick(cfg, reg, bo.Backend)
			if err != nil {
				return err
			}
			n, err := ui.SeedDemo(ctx, b, time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("Added %d items to %s\n", n, b.ID())
			return nil
		},
	}

	options.AddBackendArg(cmd, bo)
	topLevel.AddCommand(cmd)
}
