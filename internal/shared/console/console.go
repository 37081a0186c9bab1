// Package console renders the human-readable progress report written to
// stdout. Structured diagnostics go through the log package instead.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Markers prefixed to report lines.
const (
	MarkStep    = "[*]"
	MarkSuccess = "[+]"
	MarkFailure = "[-]"
	MarkWarning = "[!]"
)

var (
	colorPass = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	colorWarn = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	colorFail = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	colorInfo = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
)

// Printer writes report lines with optional color.
type Printer struct {
	w       io.Writer
	step    lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	warning lipgloss.Style
	bold    lipgloss.Style
}

// New returns a Printer for w. mode is one of "always", "never" or "auto";
// auto colors only when w is a terminal and NO_COLOR is unset.
func New(w io.Writer, mode string) *Printer {
	p := &Printer{w: w}
	if useColor(w, mode) {
		p.step = lipgloss.NewStyle().Foreground(colorInfo)
		p.success = lipgloss.NewStyle().Foreground(colorPass).Bold(true)
		p.failure = lipgloss.NewStyle().Foreground(colorFail).Bold(true)
		p.warning = lipgloss.NewStyle().Foreground(colorWarn).Bold(true)
		p.bold = lipgloss.NewStyle().Bold(true)
	} else {
		p.step = lipgloss.NewStyle()
		p.success = lipgloss.NewStyle()
		p.failure = lipgloss.NewStyle()
		p.warning = lipgloss.NewStyle()
		p.bold = lipgloss.NewStyle()
	}
	return p
}

// ValidColorMode reports whether mode is accepted by New.
func ValidColorMode(mode string) bool {
	switch mode {
	case "always", "auto", "never":
		return true
	}
	return false
}

func useColor(w io.Writer, mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) line(style lipgloss.Style, mark, msg string) {
	fmt.Fprintf(p.w, "%s %s\n", style.Render(mark), msg) //nolint:errcheck // best-effort report
}

// Banner prints title underlined with '='.
func (p *Printer) Banner(title string) {
	fmt.Fprintln(p.w, p.bold.Render(title))   //nolint:errcheck
	fmt.Fprintln(p.w, strings.Repeat("=", 40)) //nolint:errcheck
}

// Step starts a new section, preceded by a blank line.
func (p *Printer) Step(msg string) {
	p.Blank()
	p.line(p.step, MarkStep, msg)
}

// Note prints a [*] line without opening a section.
func (p *Printer) Note(msg string) {
	p.line(p.step, MarkStep, msg)
}

func (p *Printer) Success(msg string) {
	p.line(p.success, MarkSuccess, msg)
}

func (p *Printer) Failure(msg string) {
	p.line(p.failure, MarkFailure, msg)
}

func (p *Printer) Warning(msg string) {
	p.line(p.warning, MarkWarning, msg)
}

// Detail prints an indented line under the previous marker line.
func (p *Printer) Detail(msg string) {
	fmt.Fprintf(p.w, "   %s\n", msg) //nolint:errcheck
}

// Bullets prints items as "   - item".
func (p *Printer) Bullets(items []string) {
	for _, item := range items {
		p.Detail("- " + item)
	}
}

// Numbered prints items as "   1. item".
func (p *Printer) Numbered(items []string) {
	for i, item := range items {
		p.Detail(fmt.Sprintf("%d. %s", i+1, item))
	}
}

// Plain prints msg with no marker.
func (p *Printer) Plain(msg string) {
	fmt.Fprintln(p.w, msg) //nolint:errcheck
}

func (p *Printer) Blank() {
	fmt.Fprintln(p.w) //nolint:errcheck
}
