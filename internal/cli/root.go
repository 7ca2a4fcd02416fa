// Package cli implements the gridsmith command tree.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gridsmith/gridsmith/internal/engine"
	"github.com/gridsmith/gridsmith/internal/index"
)

// RootOptions holds the global flags shared by every command.
type RootOptions struct {
	Quiet  bool   // suppress log output
	Format string // "text" | "json"
	Dict   string // word list path (text)
	DictDB string // word list path (sqlite)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the gridsmith CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "gridsmith",
		Short: "gridsmith - crossword construction engine",
		Long:  "An engine for building crossword grids: slot numbering, solvability checks, and dictionary-driven autofill.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Quiet {
				slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
			} else {
				// Logs go to stderr so JSON output stays parseable.
				slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Quiet, "quiet", "q", os.Getenv("GRIDSMITH_QUIET") != "", "suppress log output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Dict, "dict", os.Getenv("GRIDSMITH_DICT"), "word list file (WORD SCORE per line)")
	cmd.PersistentFlags().StringVar(&opts.DictDB, "dict-db", os.Getenv("GRIDSMITH_DICT_DB"), "word list SQLite database")

	cmd.AddCommand(NewNewCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewFillCommand(opts))
	cmd.AddCommand(NewWordsCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// loadIndex builds the word index from whichever dictionary flag is
// set. Commands that can run without a dictionary pass required=false
// and get an empty loaded index back.
func loadIndex(opts *RootOptions, required bool) (*index.Index, error) {
	idx := index.New()
	switch {
	case opts.Dict != "":
		if err := idx.LoadFromFile(opts.Dict); err != nil {
			return nil, WrapExitError(ExitCommandError, "loading word list", err)
		}
	case opts.DictDB != "":
		if err := idx.LoadFromDB(opts.DictDB); err != nil {
			return nil, WrapExitError(ExitCommandError, "loading word database", err)
		}
	case required:
		return nil, NewExitError(ExitCommandError, "a dictionary is required: pass --dict or --dict-db")
	default:
		idx.Finalize()
	}
	return idx, nil
}

// loadPuzzle builds an engine around idx and reads the puzzle file
// into it.
func loadPuzzle(path string, idx *index.Index, engineOpts ...engine.Option) (*engine.Engine, error) {
	e := engine.New(idx, engineOpts...)
	if err := e.LoadFile(path); err != nil {
		return nil, WrapExitError(ExitCommandError, "loading puzzle", err)
	}
	return e, nil
}
