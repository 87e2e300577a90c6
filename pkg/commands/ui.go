package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/todor/pkg/config"
	"tableflip.dev/todor/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
todor ui
todor ui --config ~/.config/todor/work.yaml
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}

func runUI(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(co.File)
	if err != nil {
		return err
	}
	i := ui.UI{Config: cfg}
	return i.Do(ctx)
}
