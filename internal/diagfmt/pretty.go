// Package diagfmt renders diagnostics for terminals.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"basalt/internal/diag"
	"basalt/internal/source"
)

// PrettyOpts configure the human-readable renderer.
type PrettyOpts struct {
	// Color enables ANSI coloring.
	Color bool
	// Context prints the offending source line with a caret underline.
	Context bool
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	locColor     = color.New(color.Bold)
)

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

// Pretty renders the bag's diagnostics. Call bag.Sort() beforehand for a
// deterministic order. Each diagnostic prints as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line and a ^~~~ underline when Context is set, then
// the notes in the same shape.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		printEntry(w, fs, d.Severity, d.Code, d.Primary, d.Message, opts)
		for _, note := range d.Notes {
			printEntry(w, fs, diag.SevInfo, d.Code, note.Span, note.Msg, opts)
		}
	}
}

func printEntry(w io.Writer, fs *source.FileSet, sev diag.Severity, code diag.Code, sp source.Span, msg string, opts PrettyOpts) {
	location := "<unknown>"
	var line uint32
	var col uint32
	file := fs.Get(sp.File)
	if file != nil {
		start, _ := fs.Resolve(sp)
		line, col = start.Line, start.Col
		location = fmt.Sprintf("%s:%d:%d", file.Path, line, col)
	}

	sevLabel := sev.String()
	codeLabel := code.String()
	if opts.Color {
		location = locColor.Sprint(location)
		sevLabel = severityColor(sev).Sprint(sevLabel)
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n", location, sevLabel, codeLabel, msg)

	if !opts.Context || file == nil || line == 0 {
		return
	}
	text := file.GetLine(line)
	if text == "" {
		return
	}
	fmt.Fprintf(w, "  %s\n", text)
	fmt.Fprintf(w, "  %s\n", underline(text, col, sp.Len(), opts.Color))
}

// underline builds the ^~~~ marker, padding by the display width of the
// text before the span so wide runes stay aligned.
func underline(text string, col uint32, length uint32, colored bool) string {
	if col == 0 {
		col = 1
	}
	prefix := text
	if int(col-1) <= len(text) {
		prefix = text[:col-1]
	}
	pad := runewidth.StringWidth(prefix)

	rest := text[len(prefix):]
	span := rest
	if int(length) < len(rest) {
		span = rest[:length]
	}
	width := runewidth.StringWidth(span)
	if width < 1 {
		width = 1
	}

	marker := "^" + strings.Repeat("~", width-1)
	if colored {
		marker = errorColor.Sprint(marker)
	}
	return strings.Repeat(" ", pad) + marker
}
