package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func emptyPuzzle3x3(t *testing.T) string {
	return writeFile(t, "puzzle.txt", "3\n3\n , , ,\n , , ,\n , , ,\n")
}

func dict3x3File(t *testing.T) string {
	return writeFile(t, "words.txt", "CAT 50\nORE 50\nWED 50\nCOW 50\nARE 50\nTED 50\n")
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(append([]string{"--quiet"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestNew_CreatesBlankPuzzle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.txt")
	out, err := execute(t, "new", path, "--height", "3", "--width", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 3x4 blank puzzle")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "4\n3\n , , , ,\n , , , ,\n , , , ,\n", string(data))

	// The written file round-trips through validate.
	_, err = execute(t, "validate", path)
	assert.NoError(t, err)
}

func TestNew_BadDimensions(t *testing.T) {
	_, err := execute(t, "new", filepath.Join(t.TempDir(), "p.txt"), "--height", "2")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidate_ValidPattern(t *testing.T) {
	out, err := execute(t, "validate", emptyPuzzle3x3(t))
	require.NoError(t, err)
	assert.Contains(t, out, "pattern: valid")
}

func TestValidate_InvalidPattern(t *testing.T) {
	// Row 0 "A, ,-" leaves a two-cell run.
	puzzle := writeFile(t, "bad.txt", "3\n3\nA, ,-,\n , , ,\n , , ,\n")
	out, err := execute(t, "validate", puzzle)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "pattern: invalid")
}

func TestValidate_WithDictionary(t *testing.T) {
	out, err := execute(t, "--dict", dict3x3File(t), "validate", emptyPuzzle3x3(t))
	require.NoError(t, err)
	assert.Contains(t, out, "solvability: solvable")
}

func TestValidate_JSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "--dict", dict3x3File(t), "validate", emptyPuzzle3x3(t))
	require.NoError(t, err)
	var result ValidationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.ValidPattern)
	assert.Equal(t, "solvable", result.Solvability)
	assert.False(t, result.Solved)
}

func TestValidate_MissingPuzzle(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestShow(t *testing.T) {
	puzzle := writeFile(t, "p.txt", "3\n3\nC,A,T,\n , , ,\n-, , ,\n")
	out, err := execute(t, "show", puzzle)
	require.NoError(t, err)
	assert.Contains(t, out, "|C|A|T|")
	assert.Contains(t, out, "|=| | |")
	assert.Contains(t, out, "1-across")
}

func TestShow_JSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "show", emptyPuzzle3x3(t))
	require.NoError(t, err)
	var result ShowResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 3, result.Width)
	assert.Equal(t, 3, result.Height)
	assert.Len(t, result.Clues, 6)
}

func TestFill_HappyPath(t *testing.T) {
	output := filepath.Join(t.TempDir(), "solved.txt")
	out, err := execute(t,
		"--dict", dict3x3File(t),
		"fill", emptyPuzzle3x3(t),
		"--entropy", "0", "--score-min", "1", "--seconds", "5",
		"--seed", "7", "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "outcome: solved")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "3\n3\n"))
	assert.NotContains(t, string(data), " ,", "solved puzzle has no blank cells")
}

func TestFill_RequiresDictionary(t *testing.T) {
	_, err := execute(t, "fill", emptyPuzzle3x3(t))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestFill_NoSolution(t *testing.T) {
	dict := writeFile(t, "tiny.txt", "CAT 50\nDOG 50\n")
	_, err := execute(t,
		"--dict", dict,
		"fill", emptyPuzzle3x3(t),
		"--entropy", "0", "--score-min", "1", "--seconds", "5")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestFill_ParamsFile(t *testing.T) {
	params := writeFile(t, "params.yaml", strings.Join([]string{
		"seconds_limit: 5",
		"entropy: 0",
		"entropy_decay: 0.5",
		"score_min: 1",
		"score_min_decay: 0.5",
		"branching_factor_limit: -1",
		"rollback: true",
	}, "\n"))
	out, err := execute(t,
		"--dict", dict3x3File(t),
		"fill", emptyPuzzle3x3(t),
		"--params", params, "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "outcome: solved")
}

func TestFill_BadParamsFile(t *testing.T) {
	params := writeFile(t, "params.yaml", "seconds_limit: [not an int]\n")
	_, err := execute(t,
		"--dict", dict3x3File(t),
		"fill", emptyPuzzle3x3(t), "--params", params)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestWords(t *testing.T) {
	dict := writeFile(t, "w.txt", "CAT 90\nCOT 10\nCUT 50\nDOG 50\n")
	out, err := execute(t, "--dict", dict, "words", "c.t")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	// Best score first.
	assert.True(t, strings.HasPrefix(lines[0], "CAT"))
	assert.NotContains(t, out, "DOG")
}

func TestWords_NoMatches(t *testing.T) {
	out, err := execute(t, "--dict", dict3x3File(t), "words", "zz.")
	require.NoError(t, err)
	assert.Contains(t, out, "no matches")
}

func TestWords_BadPattern(t *testing.T) {
	_, err := execute(t, "--dict", dict3x3File(t), "words", "ab")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRoot_InvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "xml", "validate", "whatever")
	assert.Error(t, err)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "boom")))
	wrapped := WrapExitError(ExitFailure, "outer", assert.AnError)
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
	assert.ErrorIs(t, wrapped, assert.AnError)
}
