// Package graph renders transition tables as diagrams.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/mealy/pkg/domain"
)

// Overlay contains the states and transitions a run went through, to
// highlight on the diagram.
type Overlay struct {
	Visited []domain.State
	Current domain.State
	// Taken holds indexes of transitions fired, in table declaration order.
	Taken []int
}

// OverlayFromResult builds an overlay from a run over table.
// Transitions are identified by their (from, input) pair, which is unique.
func OverlayFromResult(table *domain.Table, res *domain.Result) *Overlay {
	o := &Overlay{Current: res.Final}
	seen := make(map[int]bool)
	for _, step := range res.Trace {
		o.Visited = append(o.Visited, step.From)
		for _, i := range table.From(step.From) {
			if table.At(i).Input == step.Input && !seen[i] {
				seen[i] = true
				o.Taken = append(o.Taken, i)
			}
		}
	}
	o.Visited = append(o.Visited, res.Final)
	return o
}

func edgeLabel(t domain.Transition) string {
	if t.Output == "" {
		return t.Input + " /"
	}
	return t.Input + " / " + t.Output
}

// GenerateMermaid produces a Mermaid flowchart for table.
// The initial state is drawn as a circle; every transition is one edge
// labelled "input / output", in declaration order, so edge i is transition i.
func GenerateMermaid(table *domain.Table, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, s := range table.States() {
		opener, closer := "[", "]"
		if s == table.Initial() {
			opener, closer = "((", "))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(string(s)), opener, s, closer)
	}

	for _, t := range table.Transitions() {
		label := strings.ReplaceAll(edgeLabel(t), "\"", "'")
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", sanitizeMermaidID(string(t.From)), label, sanitizeMermaidID(string(t.To)))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[string]bool)
		for _, s := range overlay.Visited {
			id := sanitizeMermaidID(string(s))
			if id != "" && !visited[id] && table.HasState(s) {
				visited[id] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", id)
			}
		}
		if overlay.Current != "" && table.HasState(overlay.Current) {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(string(overlay.Current)))
		}
		for _, i := range overlay.Taken {
			fmt.Fprintf(&sb, "    linkStyle %d stroke:#d32f2f,stroke-width:3px;\n", i)
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
