package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/todor/pkg/commands/options"
	"tableflip.dev/todor/pkg/runner/strike"
	"tableflip.dev/todor/pkg/schedule"
	"tableflip.dev/todor/pkg/snake"
)

func addClose(topLevel *cobra.Command) {
	bo := &options.BackendOptions{}
	io := &options.IDOptions{}
	i := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:     "close [text]",
		Aliases: []string{"ack", "strike"},
		Short:   "Close an item",
		Long: "Close the first item whose description starts with, or else contains, the text.\n" +
			"With --id the item is picked by its full id and the backend is taken from it.",
		Example: `
todor close dentist
todor close --backend gcal:work standup
todor close --id journal:default:2020-04-02-9f1c...
todor close -i
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 && io.ID == "" && !i.Interactive {
				return errors.New("requires some text or --id")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, reg, err := open(ctx)
			if err != nil {
				return err
			}
			defer reg.Close()

			backend := bo.Backend
			if backend == "" && io.ID != "" {
				backend = backendOf(io.ID)
			}
			text := strings.Join(args, " ")
			if i.Interactive {
				if backend == "" {
					def, _ := reg.DefaultBackend(cfg.DefaultBackend)
					if backend, err = snake.PickBackend(cmd, schedule.IDs(reg.Backends), def); err != nil {
						return err
					}
				}
				if text == "" && io.ID == "" {
					if text, err = snake.PromptText(cmd, "Close"); err != nil {
						return err
					}
				}
			}
			b, err := pick(cfg, reg, backend)
			if err != nil {
				return err
			}
			s := strike.Strike{
				Backend: b,
				ID:      io.ID,
				Text:    text,
			}
			return s.Do(ctx)
		},
	}

	options.AddBackendArg(cmd, bo)
	options.AddIDArgs(cmd, io)
	options.InteractiveArgs(cmd, i)
	topLevel.AddCommand(cmd)
}

// backendOf cuts "<kind>:<name>" off the front of an item id.
func backendOf(id string) string {
	parts := strings.SplitN(id, ":", 3)
	if len(parts) < 3 {
		return ""
	}
	return parts[0] + ":" + parts[1]
}
