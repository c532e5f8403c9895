package tui

import (
	"github.com/charmbracelet/glamour"
)

// Renderer turns markdown into terminal output.
type Renderer func(string) (string, error)

// NewRenderer returns a glamour-backed renderer with automatic light/dark style.
// If glamour cannot be initialised the markdown is returned unchanged.
func NewRenderer() Renderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return Plain
	}
	return r.Render
}

// Plain is a Renderer that returns its input.
func Plain(markdown string) (string, error) {
	return markdown, nil
}
