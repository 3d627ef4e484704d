package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Printer writes styled messages to a writer, normally stderr. When the
// writer is not a terminal it emits plain text without boxes or colors.
type Printer struct {
	out    io.Writer
	width  int
	styled bool
}

// NewPrinter creates a Printer for w. If w is nil, os.Stderr is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stderr
	}
	return &Printer{
		out:    w,
		width:  GetTerminalWidth(w),
		styled: IsTerminal(w),
	}
}

// Styled reports whether the printer renders boxes and colors.
func (p *Printer) Styled() bool {
	return p.styled
}

// PrintError prints err with optional troubleshooting tips.
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	if p.styled {
		_, _ = fmt.Fprintln(p.out, RenderErrorBox(title, err, troubleshooting, p.width))
		return
	}
	_, _ = fmt.Fprint(p.out, RenderPlainError(err, troubleshooting))
}

// PrintUsageError prints a usage error followed by the command usage.
func (p *Printer) PrintUsageError(err error, usage string) {
	if p.styled {
		_, _ = fmt.Fprintln(p.out, RenderUsageError(err, usage))
		return
	}
	_, _ = fmt.Fprintf(p.out, "Error: %v\n\n%s\n", err, strings.TrimRight(usage, "\n"))
}

// RenderErrorBox renders an error box with troubleshooting
func RenderErrorBox(title string, err error, troubleshooting []string, width int) string {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	var lines []string
	lines = append(lines, "")
	lines = append(lines, ErrorTitleStyle.Render(FailureMarker+"  "+title))
	lines = append(lines, "")

	if err != nil {
		lines = append(lines, ErrorMessageStyle.Render("Error: "+err.Error()))
		lines = append(lines, "")
	}

	if len(troubleshooting) > 0 {
		var troubleLines []string
		troubleLines = append(troubleLines, TroubleshootingTitleStyle.Render("Troubleshooting:"))
		for _, tip := range troubleshooting {
			troubleLines = append(troubleLines, TroubleshootingItemStyle.Render("• "+tip))
		}
		lines = append(lines, TroubleshootingBoxStyle(width).Render(strings.Join(troubleLines, "\n")))
		lines = append(lines, "")
	}

	return ErrorBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// RenderPlainError renders an error and its tips as uncolored text, one
// line per item.
func RenderPlainError(err error, troubleshooting []string) string {
	var b strings.Builder
	if err != nil {
		b.WriteString("Error: " + err.Error() + "\n")
	}
	for _, tip := range troubleshooting {
		b.WriteString("  - " + tip + "\n")
	}
	return b.String()
}

// RenderUsageError renders a usage error headline above the usage text.
func RenderUsageError(err error, usage string) string {
	title := UsageTitleStyle.Render(FailureMarker + "  " + err.Error())
	body := UsageBodyStyle.Render(indent(usage, "  "))
	return title + "\n\n" + body
}
