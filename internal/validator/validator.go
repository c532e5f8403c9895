// Package validator analyses loaded tables for defects that do not prevent
// running them: missing (state, symbol) pairs, unreachable states and
// transitions that can never fire.
package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/mealy/pkg/domain"
)

// Pair is a (state, input symbol) combination.
type Pair struct {
	State domain.State `json:"state"`
	Input string       `json:"input"`
}

// Shadow describes a transition hidden by an earlier one from the same state
// whose input is a proper prefix of its own.
type Shadow struct {
	Index    int               `json:"index"`
	By       int               `json:"by"`
	Shadowed domain.Transition `json:"shadowed"`
	Winner   domain.Transition `json:"winner"`
}

// Report is the result of Analyze.
type Report struct {
	Table       string         `json:"table"`
	Initial     domain.State   `json:"initial"`
	States      []domain.State `json:"states"`
	Alphabet    []string       `json:"alphabet"`
	Transitions int            `json:"transitions"`
	Missing     []Pair         `json:"missing,omitempty"`
	Unreachable []domain.State `json:"unreachable,omitempty"`
	Shadowed    []Shadow       `json:"shadowed,omitempty"`
}

// Complete reports whether every state handles every symbol of the alphabet.
func (r Report) Complete() bool {
	return len(r.Missing) == 0
}

// Clean reports whether the analysis found nothing at all.
func (r Report) Clean() bool {
	return r.Complete() && len(r.Unreachable) == 0 && len(r.Shadowed) == 0
}

// Warnings renders every finding as one line.
func (r Report) Warnings() []string {
	var out []string
	for _, p := range r.Missing {
		out = append(out, fmt.Sprintf("state %s has no transition on %q", p.State, p.Input))
	}
	for _, s := range r.Unreachable {
		out = append(out, fmt.Sprintf("state %s is unreachable from %s", s, r.Initial))
	}
	for _, s := range r.Shadowed {
		out = append(out, fmt.Sprintf("transition %d (%s) is shadowed by transition %d (%s)", s.Index, s.Shadowed, s.By, s.Winner))
	}
	return out
}

// Analyze inspects table. It never fails: a loaded table is always runnable.
func Analyze(table *domain.Table) Report {
	r := Report{
		Table:       table.Name(),
		Initial:     table.Initial(),
		States:      table.States(),
		Alphabet:    table.Alphabet(),
		Transitions: table.Len(),
	}

	for _, s := range r.States {
		handled := make(map[string]bool)
		for _, i := range table.From(s) {
			handled[table.At(i).Input] = true
		}
		for _, sym := range r.Alphabet {
			if !handled[sym] {
				r.Missing = append(r.Missing, Pair{State: s, Input: sym})
			}
		}
	}

	visited := map[domain.State]bool{table.Initial(): true}
	queue := []domain.State{table.Initial()}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, i := range table.From(current) {
			next := table.At(i).To
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	for _, s := range r.States {
		if !visited[s] {
			r.Unreachable = append(r.Unreachable, s)
		}
	}

	for _, s := range r.States {
		idx := table.From(s)
		for j, later := range idx {
			for _, earlier := range idx[:j] {
				a, b := table.At(earlier), table.At(later)
				if len(a.Input) < len(b.Input) && strings.HasPrefix(b.Input, a.Input) {
					r.Shadowed = append(r.Shadowed, Shadow{Index: later, By: earlier, Shadowed: b, Winner: a})
					break
				}
			}
		}
	}

	return r
}

// Markdown renders the report as a markdown document.
func (r Report) Markdown() string {
	var sb strings.Builder

	name := r.Table
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(&sb, "# Table `%s`\n\n", name)
	fmt.Fprintf(&sb, "- **Initial state:** `%s`\n", r.Initial)
	fmt.Fprintf(&sb, "- **States:** %s\n", codeList(stateStrings(r.States)))
	fmt.Fprintf(&sb, "- **Alphabet:** %s\n", codeList(r.Alphabet))
	fmt.Fprintf(&sb, "- **Transitions:** %d\n\n", r.Transitions)

	if r.Clean() {
		sb.WriteString("The table is complete: every state is reachable and handles every symbol.\n")
		return sb.String()
	}

	if len(r.Missing) > 0 {
		sb.WriteString("## Missing transitions\n\n| State | Input |\n|---|---|\n")
		for _, p := range r.Missing {
			fmt.Fprintf(&sb, "| `%s` | `%s` |\n", p.State, p.Input)
		}
		sb.WriteString("\n")
	}
	if len(r.Unreachable) > 0 {
		sb.WriteString("## Unreachable states\n\n")
		for _, s := range r.Unreachable {
			fmt.Fprintf(&sb, "- `%s`\n", s)
		}
		sb.WriteString("\n")
	}
	if len(r.Shadowed) > 0 {
		sb.WriteString("## Shadowed transitions\n\n")
		for _, s := range r.Shadowed {
			fmt.Fprintf(&sb, "- `%s` never fires: `%s` is declared first\n", s.Shadowed, s.Winner)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func stateStrings(states []domain.State) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = string(s)
	}
	return out
}

func codeList(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = "`" + it + "`"
	}
	return strings.Join(quoted, ", ")
}
