package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/todor/pkg/commands/options"
	"tableflip.dev/todor/pkg/runner/get"
)

func addGet(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print the merged schedule once",
		Long: "Refresh every backend once and print the merged schedule, grouped by day.\n" +
			"Backends that fail are reported after the list.",
		Example: `
todor get
todor get --show-id
todor get --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, reg, err := open(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			defer reg.Close()

			s := get.Get{
				Backends: reg.Backends,
				ShowID:   io.ShowID,
				JSON:     output.JSON,
			}
			err = s.Do(ctx)
			return output.HandleError(err)
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
