package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// ShowResult is the JSON form of a rendered puzzle.
type ShowResult struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Grid   string     `json:"grid"`
	Clues  []ClueInfo `json:"clues"`
}

// ClueInfo describes one slot for display.
type ClueInfo struct {
	Number    int    `json:"number"`
	Direction string `json:"direction"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	Length    int    `json:"length"`
	Word      string `json:"word"`
	Hint      string `json:"hint,omitempty"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "show <puzzle-file>",
		Short:         "Render a puzzle and list its clues",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runShow(opts *RootOptions, path string, cmd *cobra.Command) error {
	idx, err := loadIndex(opts, false)
	if err != nil {
		return err
	}
	e, err := loadPuzzle(path, idx)
	if err != nil {
		return err
	}

	result := ShowResult{
		Width:  e.Width(),
		Height: e.Height(),
		Grid:   e.Render(),
	}
	for _, s := range e.Slots() {
		hint, _ := e.HintForSlot(&s)
		result.Clues = append(result.Clues, ClueInfo{
			Number:    s.Number,
			Direction: s.Direction.String(),
			Row:       s.Start.Row,
			Col:       s.Start.Col,
			Length:    s.Length,
			Word:      s.Word().String(),
			Hint:      hint,
		})
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Print(result, func(w io.Writer) {
		fmt.Fprint(w, result.Grid)
		for _, c := range result.Clues {
			fmt.Fprintf(w, "%d-%s at (%d, %d), %d letters: %q\n",
				c.Number, c.Direction, c.Row, c.Col, c.Length, c.Word)
		}
	})
}
