package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ShouldColor reports whether output to f should use ANSI colors.
func ShouldColor(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Render writes diagnostics to w in rustc-like layout. With colored=false
// the output is byte-stable plain text, suitable for snapshot comparison.
func Render(w io.Writer, diags []Diagnostic, colored bool) {
	errHead := color.New(color.FgRed, color.Bold)
	noteHead := color.New(color.FgCyan, color.Bold)
	helpHead := color.New(color.FgGreen, color.Bold)
	if !colored {
		errHead.DisableColor()
		noteHead.DisableColor()
		helpHead.DisableColor()
	}

	for _, d := range diags {
		errHead.Fprintf(w, "error[%s]", d.Code)
		fmt.Fprintf(w, ": %s\n", d.Message)
		if !d.Span.IsZero() {
			fmt.Fprintf(w, "  --> %s\n", d.Span)
		}
		for _, l := range d.Labels {
			fmt.Fprintf(w, "  --> %s: %s\n", l.Span, l.Message)
		}
		for _, n := range d.Notes {
			noteHead.Fprint(w, "  note")
			fmt.Fprintf(w, ": %s\n", n.Message)
			for _, sp := range n.Spans {
				fmt.Fprintf(w, "    --> %s\n", sp)
			}
		}
		for _, s := range d.Suggestions {
			helpHead.Fprint(w, "  help")
			fmt.Fprintf(w, ": %s\n", s)
		}
	}
	if len(diags) > 0 {
		errHead.Fprint(w, "error")
		fmt.Fprintf(w, ": aborting due to %d previous error(s)\n", len(diags))
	}
}
