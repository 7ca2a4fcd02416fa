package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gridsmith/gridsmith/internal/engine"
)

// FillResult is the JSON form of an autofill run.
type FillResult struct {
	Outcome    string `json:"outcome"`
	Nodes      int    `json:"nodes"`
	Iterations int    `json:"iterations"`
	ElapsedMS  int64  `json:"elapsed_ms"`
	Grid       string `json:"grid,omitempty"`
	Output     string `json:"output,omitempty"`
}

// NewFillCommand creates the fill command.
func NewFillCommand(rootOpts *RootOptions) *cobra.Command {
	params := engine.DefaultAutofillParams()
	var (
		paramsFile string
		output     string
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "fill <puzzle-file>",
		Short: "Auto-complete a puzzle from the dictionary",
		Long: `Run the depth-first fill search over the puzzle. The search starts
at the given score minimum and entropy and relaxes both between
iterations until a fill is found or the budget runs out.

A parameters file (--params, YAML) is read first; explicit flags
override its values.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if paramsFile != "" {
				fileParams, err := readParamsFile(paramsFile)
				if err != nil {
					return err
				}
				mergeParams(&fileParams, params, cmd)
				params = fileParams
			}
			return runFill(rootOpts, args[0], params, output, seed, cmd)
		},
	}

	cmd.Flags().IntVar(&params.SecondsLimit, "seconds", params.SecondsLimit, "wall-clock budget in seconds")
	cmd.Flags().IntVar(&params.BranchingFactorLimit, "branching", params.BranchingFactorLimit, "candidate cap per expansion (-1 for none)")
	cmd.Flags().IntVar(&params.Entropy, "entropy", params.Entropy, "percentage of each candidate list to shuffle")
	cmd.Flags().Float64Var(&params.EntropyDecay, "entropy-decay", params.EntropyDecay, "entropy multiplier between iterations")
	cmd.Flags().IntVar(&params.ScoreMin, "score-min", params.ScoreMin, "minimum acceptable word score")
	cmd.Flags().Float64Var(&params.ScoreMinDecay, "score-min-decay", params.ScoreMinDecay, "score minimum multiplier between iterations")
	cmd.Flags().BoolVar(&params.Rollback, "rollback", params.Rollback, "undo the search's edits when no fill is found")
	cmd.Flags().StringVar(&paramsFile, "params", "", "YAML file of autofill parameters")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the filled puzzle here (default: print only)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "fixed shuffle seed (0 for time-based)")

	return cmd
}

func readParamsFile(path string) (engine.AutofillParams, error) {
	params := engine.DefaultAutofillParams()
	data, err := os.ReadFile(path)
	if err != nil {
		return params, WrapExitError(ExitCommandError, "reading params file", err)
	}
	if err := yaml.Unmarshal(data, &params); err != nil {
		return params, WrapExitError(ExitCommandError, "parsing params file", err)
	}
	return params, nil
}

// mergeParams copies flag-set values over file-provided ones, so
// explicit flags always win.
func mergeParams(dst *engine.AutofillParams, flags engine.AutofillParams, cmd *cobra.Command) {
	if cmd.Flags().Changed("seconds") {
		dst.SecondsLimit = flags.SecondsLimit
	}
	if cmd.Flags().Changed("branching") {
		dst.BranchingFactorLimit = flags.BranchingFactorLimit
	}
	if cmd.Flags().Changed("entropy") {
		dst.Entropy = flags.Entropy
	}
	if cmd.Flags().Changed("entropy-decay") {
		dst.EntropyDecay = flags.EntropyDecay
	}
	if cmd.Flags().Changed("score-min") {
		dst.ScoreMin = flags.ScoreMin
	}
	if cmd.Flags().Changed("score-min-decay") {
		dst.ScoreMinDecay = flags.ScoreMinDecay
	}
	if cmd.Flags().Changed("rollback") {
		dst.Rollback = flags.Rollback
	}
}

func runFill(opts *RootOptions, path string, params engine.AutofillParams, output string, seed int64, cmd *cobra.Command) error {
	idx, err := loadIndex(opts, true)
	if err != nil {
		return err
	}

	var engineOpts []engine.Option
	if seed != 0 {
		engineOpts = append(engineOpts, engine.WithSeed(seed))
	}
	e, err := loadPuzzle(path, idx, engineOpts...)
	if err != nil {
		return err
	}

	fill, err := e.Autofill(params)
	if err != nil {
		return WrapExitError(ExitCommandError, "autofill", err)
	}

	result := FillResult{
		Outcome:    fill.Outcome.String(),
		Nodes:      fill.Nodes,
		Iterations: fill.Iterations,
		ElapsedMS:  fill.Elapsed.Milliseconds(),
	}
	if fill.Outcome == engine.OutcomeSolved {
		result.Grid = e.Render()
		if output != "" {
			if err := e.SaveFile(output); err != nil {
				return WrapExitError(ExitCommandError, "writing filled puzzle", err)
			}
			result.Output = output
		}
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if err := formatter.Print(result, func(w io.Writer) {
		fmt.Fprintf(w, "outcome: %s (%d nodes, %d iterations, %dms)\n",
			result.Outcome, result.Nodes, result.Iterations, result.ElapsedMS)
		if result.Grid != "" {
			fmt.Fprint(w, result.Grid)
		}
		if result.Output != "" {
			fmt.Fprintf(w, "wrote %s\n", result.Output)
		}
	}); err != nil {
		return err
	}

	if fill.Outcome != engine.OutcomeSolved {
		return NewExitError(ExitFailure, fmt.Sprintf("no fill found: %s", result.Outcome))
	}
	return nil
}
