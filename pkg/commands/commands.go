package commands

import (
	"context"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/todor/pkg/commands/options"
	"tableflip.dev/todor/pkg/config"
	"tableflip.dev/todor/pkg/logging"
	"tableflip.dev/todor/pkg/registry"
	"tableflip.dev/todor/pkg/schedule"
)

var (
	co = &options.ConfigOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "todor",
		Short: base.Wrap80("Today's todos and calendar events from every backend in one terminal view."),
		Long: base.Wrap80("todor merges journals, task databases, Todoist projects and Google " +
			"calendars into one list ordered by start time. Without a subcommand it opens the " +
			"interactive view, same as `todor ui`."),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd.Context())
		},
	}
	options.AddConfigArg(cmd, co)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addGet(topLevel)
	addAdd(topLevel)
	addClose(topLevel)
	addBackends(topLevel)
	addConfig(topLevel)
	addAuth(topLevel)
	addDemo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(co.File)
	if err != nil {
		return nil, err
	}
	if err := logging.Configure(cfg.LogFile); err != nil {
		return nil, err
	}
	logging.SetTraceEnabled(cfg.Trace)
	return cfg, nil
}

// open builds every configured backend. Callers close the registry.
func open(ctx context.Context) (*config.Config, *registry.Registry, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	reg, err := registry.Build(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, reg, nil
}

// pick returns the named backend, or the default one when id is empty.
func pick(cfg *config.Config, reg *registry.Registry, id string) (schedule.Backend, error) {
	if id == "" {
		def, err := reg.DefaultBackend(cfg.DefaultBackend)
		if err != nil {
			return nil, err
		}
		id = def
	}
	return schedule.Lookup(reg.Backends, id)
}
