package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/todor/pkg/commands/options"
	"tableflip.dev/todor/pkg/runner/add"
	"tableflip.dev/todor/pkg/schedule"
	"tableflip.dev/todor/pkg/snake"
)

func addAdd(topLevel *cobra.Command) {
	bo := &options.BackendOptions{}
	oo := &options.OnOptions{}
	i := &options.InteractiveOptions{}
	text := ""

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add an item to a backend",
		Long: "Add an item. The due date is read out of the text (\"tomorrow\", \"next friday\")\n" +
			"unless --on is given, and is the end of today when neither names a day.",
		Example: `
todor add buy milk tomorrow
todor add --backend tasks:work --on "2020-4-3 14:00" review the release
todor add -i
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 && !i.Interactive {
				return errors.New("requires some text")
			}
			text = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, reg, err := open(ctx)
			if err != nil {
				return err
			}
			defer reg.Close()

			if i.Interactive {
				if bo.Backend == "" {
					def, _ := reg.DefaultBackend(cfg.DefaultBackend)
					if bo.Backend, err = snake.PickBackend(cmd, schedule.IDs(reg.Backends), def); err != nil {
						return err
					}
				}
				if text == "" {
					if text, err = snake.PromptText(cmd, "Text"); err != nil {
						return err
					}
				}
			}
			b, err := pick(cfg, reg, bo.Backend)
			if err != nil {
				return err
			}
			on, err := oo.GetOn(time.Now())
			if err != nil {
				return err
			}
			s := add.Add{
				Backend: b,
				Text:    text,
				Due:     on,
			}
			return s.Do(ctx)
		},
	}

	options.AddBackendArg(cmd, bo)
	options.AddOnArgs(cmd, oo)
	options.InteractiveArgs(cmd, i)
	topLevel.AddCommand(cmd)
}
