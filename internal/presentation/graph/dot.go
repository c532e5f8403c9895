package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/mealy/pkg/domain"
)

// GenerateDot produces a Graphviz digraph for table.
// Render with: dot -Tpng table.dot > table.png
//
// With an overlay, the current state is filled red and the transitions taken
// are drawn in red.
func GenerateDot(table *domain.Table, overlay *Overlay) string {
	var sb strings.Builder

	visited := make(map[domain.State]bool)
	taken := make(map[int]bool)
	var current domain.State
	if overlay != nil {
		for _, s := range overlay.Visited {
			visited[s] = true
		}
		for _, i := range overlay.Taken {
			taken[i] = true
		}
		current = overlay.Current
	}

	name := table.Name()
	if name == "" {
		name = "G"
	}
	fmt.Fprintf(&sb, "digraph %s {\n", dotQuote(name))
	sb.WriteString("  graph [rankdir=LR,nodesep=0.3,ranksep=0.6]\n")
	sb.WriteString("  node [shape=\"circle\" style=\"filled\" fillcolor=\"#99ddc8\"]\n")
	sb.WriteString("  edge [fontsize=\"12\"]\n")

	for _, s := range table.States() {
		shape := "circle"
		if s == table.Initial() {
			shape = "doublecircle"
		}
		color, fill := "black", "#99ddc8"
		switch {
		case s == current:
			color, fill = "red", "#f98b8b"
		case visited[s]:
			fill = "#e1f5fe"
		}
		fmt.Fprintf(&sb, "  %s [shape=\"%s\", color=\"%s\", fillcolor=\"%s\"]\n", dotQuote(string(s)), shape, color, fill)
	}

	for i, t := range table.Transitions() {
		color := "black"
		if taken[i] {
			color = "red"
		}
		fmt.Fprintf(&sb, "  %s -> %s [color=\"%s\", label=%s]\n",
			dotQuote(string(t.From)), dotQuote(string(t.To)), color, dotQuote(edgeLabel(t)))
	}

	sb.WriteString("}\n")
	return sb.String()
}

func dotQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
