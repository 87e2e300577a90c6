package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/todor/pkg/backend/gcal"
)

func addAuth(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "auth <gcal:name>",
		Short: "Authorize a Google Calendar backend",
		Long: "Walk through the OAuth consent for a google_cal backend and save the token\n" +
			"where its config points. Run once before the backend is first used.",
		Example: `
todor auth gcal:default
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			name := strings.TrimPrefix(args[0], "gcal:")
			for _, gc := range cfg.GoogleCal {
				if gc.Name == name {
					return gcal.Authorize(context.Background(), gc.Credentials, gc.Token, os.Stdin, os.Stdout)
				}
			}
			return fmt.Errorf("no google_cal backend named %q", name)
		},
	}

	topLevel.AddCommand(cmd)
}
