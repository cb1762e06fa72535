package ui

import "github.com/charmbracelet/lipgloss"

// Theme is a named lipgloss palette. The active theme follows the
// persisted preference and can be flipped at runtime.
type Theme struct {
	Name string

	Header   lipgloss.Style
	Card     lipgloss.Style
	Image    lipgloss.Style
	Title    lipgloss.Style
	Summary  lipgloss.Style
	Meta     lipgloss.Style
	Bookmark lipgloss.Style
	Heart    lipgloss.Style
	Modal    lipgloss.Style
	Input    lipgloss.Style
	Notice   lipgloss.Style
	Status   lipgloss.Style
	Pill     lipgloss.Style
}

// DarkTheme is the default look.
func DarkTheme() Theme {
	return Theme{
		Name: "dark",
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c9d1d9")).
			Background(lipgloss.Color("#161b22")).
			Bold(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#30363d")).
			Padding(0, 2),
		Image: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#30363d")),
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f0f6fc")).
			Bold(true),
		Summary: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8b949e")),
		Meta: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6e7681")),
		Bookmark: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffcc00")),
		Heart: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff2d55")).
			Bold(true),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#58a6ff")).
			Padding(1, 3),
		Input: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c9d1d9")),
		Notice: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f85149")),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6e7681")).
			Background(lipgloss.Color("#161b22")),
		Pill: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0d1117")).
			Background(lipgloss.Color("#58a6ff")).
			Padding(0, 1),
	}
}

// LightTheme is the light-mode palette.
func LightTheme() Theme {
	return Theme{
		Name: "light",
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1f2328")).
			Background(lipgloss.Color("#eaeef2")).
			Bold(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#d0d7de")).
			Padding(0, 2),
		Image: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d0d7de")),
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1f2328")).
			Bold(true),
		Summary: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#57606a")),
		Meta: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8c959f")),
		Bookmark: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9a6700")),
		Heart: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cf222e")).
			Bold(true),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#0969da")).
			Padding(1, 3),
		Input: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1f2328")),
		Notice: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cf222e")),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#57606a")).
			Background(lipgloss.Color("#eaeef2")),
		Pill: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#0969da")).
			Padding(0, 1),
	}
}

// themeByName resolves a persisted preference.
func themeByName(name string) Theme {
	if name == "light" {
		return LightTheme()
	}
	return DarkTheme()
}
