package dsl

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/aretw0/mealy/pkg/domain"
)

// Format renders transitions in the line format, one transition per line.
// Parsing the result yields the same transitions in the same order.
func Format(transitions []domain.Transition) string {
	var sb strings.Builder
	for _, t := range transitions {
		fmt.Fprintf(&sb, "%s, %s > %s, %s\n",
			quote(string(t.From)), quote(t.Input), quote(string(t.To)), quote(t.Output))
	}
	return sb.String()
}

// Write renders a table in the line format to w. Loading the result gives
// back the same definition.
//
// An "@initial:" header is written when the initial state is not the first
// rule's source, and an "@states:" header when the declared states differ
// from the ones the rules name.
func Write(w io.Writer, table *domain.Table) error {
	var sb strings.Builder
	transitions := table.Transitions()

	if initial := table.Initial(); len(transitions) == 0 || transitions[0].From != initial {
		fmt.Fprintf(&sb, "@initial: %s\n", quote(string(initial)))
	}
	if states := table.States(); !slices.Equal(states, usedStates(transitions)) {
		labels := make([]string, len(states))
		for i, s := range states {
			labels[i] = quote(string(s))
		}
		fmt.Fprintf(&sb, "@states: %s\n", strings.Join(labels, ", "))
	}
	sb.WriteString(Format(transitions))

	_, err := io.WriteString(w, sb.String())
	return err
}

// usedStates lists the states named by transitions in order of first
// appearance, the set NewTable derives when none is declared.
func usedStates(transitions []domain.Transition) []domain.State {
	set := domain.NewStateSet()
	for _, t := range transitions {
		set.Add(t.From)
		set.Add(t.To)
	}
	return set.Slice()
}

// quote returns sym as is when the parser reads it back unchanged, and as a
// Go quoted string otherwise.
func quote(sym string) string {
	if strings.HasPrefix(sym, "@") || strings.ContainsAny(sym, " \t\r\n,>#\"") {
		return strconv.Quote(sym)
	}
	for _, r := range sym {
		if !unicode.IsPrint(r) {
			return strconv.Quote(sym)
		}
	}
	return sym
}
