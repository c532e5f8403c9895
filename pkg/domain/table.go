package domain

import (
	"fmt"
	"strings"
)

// Definition is the raw, unvalidated description of a table.
// It is what loaders and parsers produce and what NewTable consumes.
type Definition struct {
	Name        string       `json:"name" yaml:"name"`
	Initial     State        `json:"initial" yaml:"initial"`
	States      []State      `json:"states,omitempty" yaml:"states,omitempty"`
	Transitions []Transition `json:"transitions" yaml:"transitions"`
}

// Table is an immutable, validated transition table.
// It is safe for concurrent use by any number of runs.
type Table struct {
	name        string
	initial     State
	states      *StateSet
	transitions []Transition
	byState     map[State][]int
}

type pairKey struct {
	from  State
	input string
}

// NewTable validates def and builds a Table.
//
// When def.States is empty the declared state set is the union of the states
// used by the transitions, in order of first appearance. Every defect found is
// reported; the returned error is an *AggregateError of *ValidationError values.
func NewTable(def Definition) (*Table, error) {
	var errs []error
	fail := func(index int, reason string, err error) {
		errs = append(errs, &ValidationError{Index: index, Reason: reason, Err: err})
	}

	states := NewStateSet()
	if len(def.States) > 0 {
		for _, s := range def.States {
			if s == "" {
				fail(-1, "empty state label in declared set", ErrUnknownState)
				continue
			}
			if !states.Add(s) {
				fail(-1, fmt.Sprintf("state %q declared twice", s), ErrDuplicateState)
			}
		}
	} else {
		for _, t := range def.Transitions {
			if t.From != "" {
				states.Add(t.From)
			}
			if t.To != "" {
				states.Add(t.To)
			}
		}
	}

	if len(def.Transitions) == 0 {
		fail(-1, "nothing to run", ErrEmptyTable)
	}

	switch {
	case def.Initial == "":
		fail(-1, "initial state is required", ErrUnknownState)
	case !states.Contains(def.Initial):
		fail(-1, fmt.Sprintf("initial state %q is not declared", def.Initial), ErrUnknownState)
	}

	seen := make(map[pairKey]int, len(def.Transitions))
	byState := make(map[State][]int)
	for i, t := range def.Transitions {
		if !states.Contains(t.From) {
			fail(i, fmt.Sprintf("source state %q is not declared", t.From), ErrUnknownState)
		}
		if !states.Contains(t.To) {
			fail(i, fmt.Sprintf("destination state %q is not declared", t.To), ErrUnknownState)
		}
		if t.Input == "" {
			fail(i, fmt.Sprintf("transition from %q has no input", t.From), ErrEmptySymbol)
			continue
		}
		key := pairKey{from: t.From, input: t.Input}
		if prev, ok := seen[key]; ok {
			fail(i, fmt.Sprintf("(%s, %q) already defined by transition %d", t.From, t.Input, prev), ErrAmbiguousTransition)
			continue
		}
		seen[key] = i
		byState[t.From] = append(byState[t.From], i)
	}

	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}

	transitions := make([]Transition, len(def.Transitions))
	copy(transitions, def.Transitions)

	return &Table{
		name:        def.Name,
		initial:     def.Initial,
		states:      states,
		transitions: transitions,
		byState:     byState,
	}, nil
}

// MustTable is like NewTable but panics on error. Intended for tables compiled into the binary.
func MustTable(def Definition) *Table {
	t, err := NewTable(def)
	if err != nil {
		panic(fmt.Sprintf("mealy: invalid table %q: %v", def.Name, err))
	}
	return t
}

// Name returns the table name (may be empty).
func (t *Table) Name() string {
	return t.name
}

// Initial returns the initial state.
func (t *Table) Initial() State {
	return t.initial
}

// States returns the declared states in declaration order.
func (t *Table) States() []State {
	return t.states.Slice()
}

// HasState reports whether s is declared by the table.
func (t *Table) HasState(s State) bool {
	return t.states.Contains(s)
}

// Len returns the number of transitions.
func (t *Table) Len() int {
	return len(t.transitions)
}

// At returns the i-th transition in declaration order.
func (t *Table) At(i int) Transition {
	return t.transitions[i]
}

// Transitions returns a copy of all transitions in declaration order.
func (t *Table) Transitions() []Transition {
	out := make([]Transition, len(t.transitions))
	copy(out, t.transitions)
	return out
}

// From returns the indexes of the transitions leaving s, in declaration order.
// The returned slice must not be modified.
func (t *Table) From(s State) []int {
	return t.byState[s]
}

// Alphabet returns the distinct input symbols in order of first appearance.
func (t *Table) Alphabet() []string {
	seen := make(map[string]bool)
	var out []string
	for _, tr := range t.transitions {
		if !seen[tr.Input] {
			seen[tr.Input] = true
			out = append(out, tr.Input)
		}
	}
	return out
}

// Definition returns a Definition that rebuilds an identical table.
func (t *Table) Definition() Definition {
	return Definition{
		Name:        t.name,
		Initial:     t.initial,
		States:      t.States(),
		Transitions: t.Transitions(),
	}
}

// String lists the transitions one per line for display.
func (t *Table) String() string {
	var sb strings.Builder
	for _, tr := range t.transitions {
		sb.WriteString(tr.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
