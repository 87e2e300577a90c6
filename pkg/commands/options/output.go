package options

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/todor/pkg/schedule"
)

// OutputOptions
type OutputOptions struct {
	JSON bool

	// Out defaults to color.Output.
	Out io.Writer
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

// HandleError prints err as a JSON object when --json is set, naming the
// backend when one failed, and swallows it. Otherwise err is returned as is.
func (o *OutputOptions) HandleError(err error) error {
	if !o.JSON || err == nil {
		return err
	}
	out := map[string]string{
		"error": err.Error(),
	}
	var be *schedule.BackendError
	if errors.As(err, &be) {
		out["backend"] = be.Backend
	}
	w := o.Out
	if w == nil {
		w = color.Output
	}
	return json.NewEncoder(w).Encode(out)
}
