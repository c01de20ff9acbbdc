// Package cli wires the cobra command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/inkboard/inkboard/internal/app"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command. Running the binary with bare
// text interprets it directly, so `inkboard "create a red circle"` works
// without naming the subcommand.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}

	interpretCmd := newInterpretCommand(container)

	root := &cobra.Command{
		Use:   "inkboard [command text]",
		Short: "Inkboard - natural language whiteboard commands",
		Long:  "Inkboard interprets natural language into whiteboard operations, deterministically where possible and via generative backends otherwise.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			interpretCmd.SetArgs(args)
			return interpretCmd.ExecuteContext(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(interpretCmd)
	root.AddCommand(newServeCommand(container))
	root.AddCommand(newConfigCommand(container))
	return root, nil
}
