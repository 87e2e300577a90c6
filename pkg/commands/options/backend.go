package options

import (
	"github.com/spf13/cobra"
)

// BackendOptions
type BackendOptions struct {
	Backend string
}

func AddBackendArg(cmd *cobra.Command, o *BackendOptions) {
	cmd.Flags().StringVarP(&o.Backend, "backend", "b", "",
		`Backend id, example: --backend="journal:default". Defaults to default_backend.`)
}
