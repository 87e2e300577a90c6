package commands

import (
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/todor/pkg/config"
)

func addConfig(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Example: `
todor config
TODOR_MAX_WIDTH=70 todor config
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(co.File)
			if err != nil {
				return err
			}
			return cfg.WriteTOML(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}
