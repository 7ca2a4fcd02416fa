package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// ValidationResult holds the outcome of a puzzle validation.
type ValidationResult struct {
	ValidPattern bool   `json:"valid_pattern"`
	Solvability  string `json:"solvability,omitempty"`
	Solved       bool   `json:"solved"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var scoreMin int

	cmd := &cobra.Command{
		Use:   "validate <puzzle-file>",
		Short: "Check a puzzle's barrier pattern and solvability",
		Long: `Check that a puzzle's barrier pattern is valid (no two-cell runs)
and, when a dictionary is given, classify its solvability.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], scoreMin, cmd)
		},
	}

	cmd.Flags().IntVar(&scoreMin, "score-min", 1, "minimum acceptable word score for the solvability check")
	return cmd
}

func runValidate(opts *RootOptions, path string, scoreMin int, cmd *cobra.Command) error {
	idx, err := loadIndex(opts, false)
	if err != nil {
		return err
	}
	e, err := loadPuzzle(path, idx)
	if err != nil {
		return err
	}

	result := ValidationResult{ValidPattern: e.IsValidPattern()}
	hasDict := opts.Dict != "" || opts.DictDB != ""
	if result.ValidPattern && hasDict {
		result.Solvability = e.Classify(scoreMin).String()
		result.Solved = e.IsSolved()
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if err := formatter.Print(result, func(w io.Writer) {
		fmt.Fprintf(w, "pattern: %s\n", verdict(result.ValidPattern, "valid", "invalid"))
		if result.Solvability != "" {
			fmt.Fprintf(w, "solvability: %s\n", result.Solvability)
			fmt.Fprintf(w, "solved: %v\n", result.Solved)
		}
	}); err != nil {
		return err
	}

	if !result.ValidPattern {
		return NewExitError(ExitFailure, "barrier pattern is invalid")
	}
	if result.Solvability != "" && result.Solvability != "solvable" {
		return NewExitError(ExitFailure, fmt.Sprintf("puzzle is %s", result.Solvability))
	}
	return nil
}

func verdict(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
