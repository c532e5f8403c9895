// Package tui holds the terminal presentation helpers of the CLI.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	"  _ __ ___   ___  __ _| |_   _ ",
	" | '_ ` _ \\ / _ \\/ _` | | | | |",
	" | | | | | |  __/ (_| | | |_| |",
	" |_| |_| |_|\\___|\\__,_|_|\\__, |",
	"                          |___/ ",
}

var bannerColors = []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9", "#f472b6"}

// PrintBanner writes the ASCII banner followed by the version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()

	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, termenv.String(line).Foreground(p.Color(bannerColors[i])))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, termenv.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}

// FormatError renders a diagnostic as "error: <msg>", in red when the
// terminal supports colour.
func FormatError(err error) string {
	p := termenv.ColorProfile()
	return termenv.String("error: " + err.Error()).Foreground(p.Color("#ef4444")).String()
}

// FormatTrace renders one trace line, dimmed.
func FormatTrace(line string) string {
	return termenv.String(line).Faint().String()
}
