package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gridsmith/gridsmith/internal/grid"
)

// WordMatch is one dictionary word matching a pattern.
type WordMatch struct {
	Word  string `json:"word"`
	Score int    `json:"score"`
}

// NewWordsCommand creates the words command.
func NewWordsCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		scoreMin int
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "words <pattern>",
		Short: "List dictionary words matching a pattern",
		Long: `List dictionary words matching a pattern, best score first.
Use '.' for unknown letters: "c.t" matches CAT, COT, CUT.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWords(rootOpts, args[0], scoreMin, limit, cmd)
		},
	}

	cmd.Flags().IntVar(&scoreMin, "score-min", 1, "drop words scoring below this")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of matches to print (0 for all)")
	return cmd
}

func runWords(opts *RootOptions, pattern string, scoreMin, limit int, cmd *cobra.Command) error {
	idx, err := loadIndex(opts, true)
	if err != nil {
		return err
	}

	partial := grid.ParseWord(pattern)
	if partial.Len() < 3 || partial.Len() >= grid.MaxDim {
		return NewExitError(ExitCommandError, fmt.Sprintf("pattern length %d outside [3, %d]", partial.Len(), grid.MaxDim-1))
	}

	// The trie hands back matches in traversal order; ranking is the
	// caller's job, so sort by score here.
	var matches []WordMatch
	for _, w := range idx.Solutions(partial) {
		score, ok := idx.FreqScore(w)
		if !ok || score < scoreMin {
			continue
		}
		matches = append(matches, WordMatch{Word: w.String(), Score: score})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Word < matches[j].Word
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Print(matches, func(w io.Writer) {
		for _, m := range matches {
			fmt.Fprintf(w, "%s %d\n", m.Word, m.Score)
		}
		if len(matches) == 0 {
			fmt.Fprintln(w, "no matches")
		}
	})
}
