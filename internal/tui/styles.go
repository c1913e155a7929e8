package tui

import "github.com/charmbracelet/lipgloss"

// One Dark palette
var (
	ColorFgPrimary = lipgloss.Color("#ABB2BF")
	ColorFgMuted   = lipgloss.Color("#636B78")
	ColorRed       = lipgloss.Color("#E06C75")
	ColorGreen     = lipgloss.Color("#98C379")
	ColorYellow    = lipgloss.Color("#E5C07B")
	ColorBlue      = lipgloss.Color("#61AFEF")
	ColorMagenta   = lipgloss.Color("#C678DD")
	ColorCyan      = lipgloss.Color("#56B6C2")
	ColorBorder    = lipgloss.Color("#3F4451")
)

// confettiColors indexes celebrate.Cell.Color.
var confettiColors = []lipgloss.Color{
	ColorRed, ColorGreen, ColorYellow, ColorBlue, ColorMagenta, ColorCyan,
}

// Component styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta).
			Bold(true).
			PaddingLeft(1)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	InputFocusedStyle = InputStyle.
				BorderForeground(ColorBlue)

	InputPromptStyle = lipgloss.NewStyle().
				Foreground(ColorBlue).
				Bold(true)

	TaskStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary)

	TaskDoneStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			Strikethrough(true)

	CursorStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	ActionStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	ActionDisabledStyle = lipgloss.NewStyle().
				Foreground(ColorBorder)

	EmptyStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			Italic(true).
			PaddingLeft(2)

	ProgressLabelStyle = lipgloss.NewStyle().
				Foreground(ColorGreen).
				Bold(true)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ColorRed)

	CelebrateStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true).
			PaddingLeft(1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			PaddingLeft(1)
)
