package domain

import "fmt"

// Transition defines one rule of a Mealy machine: in state From, reading Input
// moves the machine to To and emits Output.
//
// Input must be non-empty and may span several characters. Output may be empty.
type Transition struct {
	From   State  `json:"from" yaml:"from"`
	Input  string `json:"input" yaml:"input"`
	To     State  `json:"to" yaml:"to"`
	Output string `json:"output" yaml:"output"`
}

// String renders the transition for display: "s0, 00 > s0, 0".
// Symbols are not quoted; dsl.Format gives the exact line format.
func (t Transition) String() string {
	return fmt.Sprintf("%s, %s > %s, %s", t.From, t.Input, t.To, t.Output)
}
