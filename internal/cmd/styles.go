package cmd

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles decorates text output. The zero value renders plain text.
type Styles struct {
	enabled bool
	header  lipgloss.Style
	code    lipgloss.Style
	unknown lipgloss.Style
	failed  lipgloss.Style
	dim     lipgloss.Style
}

// PlainStyles renders without decoration
func PlainStyles() Styles {
	return Styles{}
}

// TerminalStyles renders with colors
func TerminalStyles() Styles {
	return Styles{
		enabled: true,
		header:  lipgloss.NewStyle().Bold(true).Underline(true),
		code:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		unknown: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		failed:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		dim:     lipgloss.NewStyle().Faint(true),
	}
}

// stylesFor colors output only for terminals
func stylesFor(w io.Writer) Styles {
	file, ok := w.(*os.File)
	if !ok {
		return PlainStyles()
	}
	if isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd()) {
		return TerminalStyles()
	}
	return PlainStyles()
}

func (s Styles) apply(style lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return style.Render(text)
}

// Header styles a table header
func (s Styles) Header(text string) string { return s.apply(s.header, text) }

// Code styles an identified language code
func (s Styles) Code(text string) string { return s.apply(s.code, text) }

// Unknown styles the unknown language sentinel
func (s Styles) Unknown(text string) string { return s.apply(s.unknown, text) }

// Failed styles an error message
func (s Styles) Failed(text string) string { return s.apply(s.failed, text) }

// Dim styles secondary details
func (s Styles) Dim(text string) string { return s.apply(s.dim, text) }
