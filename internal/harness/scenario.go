// Package harness runs declarative conformance scenarios against the
// crossword engine. A scenario is a YAML file naming a starting grid,
// a dictionary, a sequence of edit steps, and expectations on the
// final state; the final rendering is also compared against a golden
// file. Scenarios document engine behavior in a form a reviewer can
// read without chasing test code.
package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is one conformance scenario.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario demonstrates.
	Description string `yaml:"description,omitempty"`

	// Grid is the starting grid, one string per row: '-' or '#' for a
	// barrier, '.' or ' ' for a blank, 'A'..'Z' for a letter.
	Grid []string `yaml:"grid"`

	// Dictionary lists "WORD SCORE" entries loaded before the steps
	// run, in order.
	Dictionary []string `yaml:"dictionary,omitempty"`

	// Steps are applied in order.
	Steps []Step `yaml:"steps,omitempty"`

	// Expect is checked after the last step.
	Expect Expect `yaml:"expect"`
}

// Step is one edit. Exactly one field may be set.
type Step struct {
	Set       *SetStep     `yaml:"set,omitempty"`
	SetSlot   *SlotStep    `yaml:"set_slot,omitempty"`
	ClearSlot *SlotRef     `yaml:"clear_slot,omitempty"`
	Barrier   *BarrierStep `yaml:"barrier,omitempty"`
	Lock      *LockStep    `yaml:"lock,omitempty"`
	Undo      int          `yaml:"undo,omitempty"`
	Redo      int          `yaml:"redo,omitempty"`
	ClearAll  bool         `yaml:"clear_all,omitempty"`
}

// SetStep writes one letter (or a blank) at a cell.
type SetStep struct {
	Row    int    `yaml:"row"`
	Col    int    `yaml:"col"`
	Letter string `yaml:"letter"`
}

// SlotRef names a slot by its start cell and direction.
type SlotRef struct {
	Row       int    `yaml:"row"`
	Col       int    `yaml:"col"`
	Direction string `yaml:"direction"`
}

// SlotStep fills a slot with a word.
type SlotStep struct {
	SlotRef `yaml:",inline"`
	Word    string `yaml:"word"`
}

// BarrierStep sets a barrier bit to Value.
type BarrierStep struct {
	Row      int  `yaml:"row"`
	Col      int  `yaml:"col"`
	Value    bool `yaml:"value"`
	Symmetry bool `yaml:"symmetry,omitempty"`
}

// LockStep sets a lock bit to Value.
type LockStep struct {
	Row   int  `yaml:"row"`
	Col   int  `yaml:"col"`
	Value bool `yaml:"value"`
}

// Expect describes the final state. Nil fields are not checked.
type Expect struct {
	ValidPattern *bool          `yaml:"valid_pattern,omitempty"`
	Solvability  string         `yaml:"solvability,omitempty"`
	Solved       *bool          `yaml:"solved,omitempty"`
	Numbers      map[string]int `yaml:"numbers,omitempty"` // "row,col" -> clue number
	HistorySize  *int           `yaml:"history_size,omitempty"`
}

// LoadScenario reads and validates one scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("harness: read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("harness: parse scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("harness: scenario %s has no name", path)
	}
	if len(s.Grid) == 0 {
		return nil, fmt.Errorf("harness: scenario %q has no grid", s.Name)
	}
	for i, row := range s.Grid {
		if len(row) != len(s.Grid[0]) {
			return nil, fmt.Errorf("harness: scenario %q row %d has length %d, want %d",
				s.Name, i, len(row), len(s.Grid[0]))
		}
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return nil, fmt.Errorf("harness: scenario %q step %d: %w", s.Name, i, err)
		}
	}
	return &s, nil
}

func (st Step) validate() error {
	set := 0
	if st.Set != nil {
		set++
	}
	if st.SetSlot != nil {
		set++
	}
	if st.ClearSlot != nil {
		set++
	}
	if st.Barrier != nil {
		set++
	}
	if st.Lock != nil {
		set++
	}
	if st.Undo > 0 {
		set++
	}
	if st.Redo > 0 {
		set++
	}
	if st.ClearAll {
		set++
	}
	if set != 1 {
		return fmt.Errorf("want exactly one operation, got %d", set)
	}
	return nil
}
