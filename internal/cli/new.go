package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gridsmith/gridsmith/internal/engine"
	"github.com/gridsmith/gridsmith/internal/index"
)

// NewNewCommand creates the new command.
func NewNewCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		height int
		width  int
	)

	cmd := &cobra.Command{
		Use:           "new <puzzle-file>",
		Short:         "Write a blank puzzle file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(rootOpts, args[0], height, width, cmd)
		},
	}

	cmd.Flags().IntVar(&height, "height", 5, "puzzle height")
	cmd.Flags().IntVar(&width, "width", 5, "puzzle width")
	return cmd
}

func runNew(opts *RootOptions, path string, height, width int, cmd *cobra.Command) error {
	e := engine.New(index.New())
	if err := e.SetDimensions(height, width); err != nil {
		return WrapExitError(ExitCommandError, "bad dimensions", err)
	}
	if err := e.SaveFile(path); err != nil {
		return WrapExitError(ExitCommandError, "writing puzzle", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Print(map[string]any{"output": path, "height": height, "width": width},
		func(w io.Writer) {
			fmt.Fprintf(w, "wrote %dx%d blank puzzle to %s\n", height, width, path)
		})
}
