package monitorui

import "github.com/charmbracelet/lipgloss"

// Monokai dark
var colors = struct {
	Header      lipgloss.Color
	Border      lipgloss.Color
	Row         lipgloss.Color
	SelectedFg  lipgloss.Color
	SelectedBg  lipgloss.Color
	Background  lipgloss.Color
	StatusOK    lipgloss.Color
	StatusError lipgloss.Color
	StatusWarn  lipgloss.Color
	Primary     lipgloss.Color
	Secondary   lipgloss.Color
	Highlight   lipgloss.Color
}{
	Header:      lipgloss.Color("#F8F8F2"),
	Border:      lipgloss.Color("#75715E"),
	Row:         lipgloss.Color("#F8F8F2"),
	SelectedFg:  lipgloss.Color("#272822"),
	SelectedBg:  lipgloss.Color("#A6E22E"),
	Background:  lipgloss.Color("#272822"),
	StatusOK:    lipgloss.Color("#A6E22E"),
	StatusError: lipgloss.Color("#F92672"),
	StatusWarn:  lipgloss.Color("#E6DB74"),
	Primary:     lipgloss.Color("#66D9EF"),
	Secondary:   lipgloss.Color("#AE81FF"),
	Highlight:   lipgloss.Color("#FD971F"),
}

type styles struct {
	Title       lipgloss.Style
	Info        lipgloss.Style
	Header      lipgloss.Style
	Row         lipgloss.Style
	RowSelected lipgloss.Style
	OK          lipgloss.Style
	Error       lipgloss.Style
	Warn        lipgloss.Style
	Help        lipgloss.Style
	Footer      lipgloss.Style
}

func newStyles() styles {
	return styles{
		Title: lipgloss.NewStyle().
			Foreground(colors.Primary).
			Bold(true),
		Info: lipgloss.NewStyle().
			Foreground(colors.Secondary),
		Header: lipgloss.NewStyle().
			Foreground(colors.Header).
			Background(colors.Secondary).
			Bold(true),
		Row: lipgloss.NewStyle().
			Foreground(colors.Row),
		RowSelected: lipgloss.NewStyle().
			Foreground(colors.SelectedFg).
			Background(colors.SelectedBg).
			Bold(true),
		OK:     lipgloss.NewStyle().Foreground(colors.StatusOK),
		Error:  lipgloss.NewStyle().Foreground(colors.StatusError),
		Warn:   lipgloss.NewStyle().Foreground(colors.StatusWarn),
		Help:   lipgloss.NewStyle().Foreground(colors.Secondary),
		Footer: lipgloss.NewStyle().Foreground(colors.Highlight),
	}
}
