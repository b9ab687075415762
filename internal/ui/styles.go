package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Adaptive colors shared by the table and the TUI.
var (
	colorWhite   = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim     = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen   = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed     = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow  = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorCyan    = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
	colorMagenta = lipgloss.AdaptiveColor{Light: "127", Dark: "170"}
)

// Styles holds the semantic styles for one output stream.
type Styles struct {
	r *lipgloss.Renderer

	Title       lipgloss.Style
	Header      lipgloss.Style
	Border      lipgloss.Style
	ID          lipgloss.Style
	Description lipgloss.Style
	Category    lipgloss.Style
	Created     lipgloss.Style
	Pending     lipgloss.Style
	Done        lipgloss.Style
	Success     lipgloss.Style
	Warning     lipgloss.Style
	Error       lipgloss.Style
	Hint        lipgloss.Style
	Selected    lipgloss.Style
}

// NewStyles builds styles bound to w. With noColor set, all color is
// stripped regardless of the terminal.
func NewStyles(w io.Writer, noColor bool) *Styles {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Styles{
		r:           r,
		Title:       r.NewStyle().Bold(true).Foreground(colorCyan),
		Header:      r.NewStyle().Bold(true).Foreground(colorWhite).Padding(0, 1),
		Border:      r.NewStyle().Foreground(colorDim),
		ID:          r.NewStyle().Foreground(colorCyan).Padding(0, 1),
		Description: r.NewStyle().Foreground(colorWhite).Padding(0, 1),
		Category:    r.NewStyle().Foreground(colorMagenta).Padding(0, 1),
		Created:     r.NewStyle().Foreground(colorDim).Padding(0, 1),
		Pending:     r.NewStyle().Foreground(colorRed),
		Done:        r.NewStyle().Foreground(colorGreen),
		Success:     r.NewStyle().Bold(true).Foreground(colorGreen),
		Warning:     r.NewStyle().Foreground(colorYellow),
		Error:       r.NewStyle().Bold(true).Foreground(colorRed),
		Hint:        r.NewStyle().Foreground(colorDim),
		Selected:    r.NewStyle().Bold(true).Foreground(colorCyan),
	}
}

// Renderer returns the lipgloss renderer the styles were built with.
func (s *Styles) Renderer() *lipgloss.Renderer {
	return s.r
}
