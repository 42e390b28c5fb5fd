package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme of the live view.
type Theme struct {
	Name    string
	Title   lipgloss.Color
	TitleTo lipgloss.Color
	Canvas  lipgloss.Color
	Text    lipgloss.Color
	Value   lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
	Running lipgloss.Color
	Paused  lipgloss.Color
	Warning lipgloss.Color
}

var (
	ThemeChalk = Theme{
		Name:    "chalk",
		Title:   lipgloss.Color("#e5e7eb"),
		TitleTo: lipgloss.Color("#9ca3af"),
		Canvas:  lipgloss.Color("#f3f4f6"),
		Text:    lipgloss.Color("#ffffff"),
		Value:   lipgloss.Color("#60a5fa"),
		Muted:   lipgloss.Color("#6b7280"),
		Border:  lipgloss.Color("#374151"),
		Running: lipgloss.Color("#22c55e"),
		Paused:  lipgloss.Color("#f59e0b"),
		Warning: lipgloss.Color("#ef4444"),
	}

	ThemeBlueprint = Theme{
		Name:    "blueprint",
		Title:   lipgloss.Color("#93c5fd"),
		TitleTo: lipgloss.Color("#1d4ed8"),
		Canvas:  lipgloss.Color("#bfdbfe"),
		Text:    lipgloss.Color("#dbeafe"),
		Value:   lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#3b82f6"),
		Border:  lipgloss.Color("#1e40af"),
		Running: lipgloss.Color("#a7f3d0"),
		Paused:  lipgloss.Color("#fde68a"),
		Warning: lipgloss.Color("#fca5a5"),
	}

	ThemePhosphor = Theme{
		Name:    "phosphor",
		Title:   lipgloss.Color("#00ff00"),
		TitleTo: lipgloss.Color("#006600"),
		Canvas:  lipgloss.Color("#33ff33"),
		Text:    lipgloss.Color("#00ff00"),
		Value:   lipgloss.Color("#88ff88"),
		Muted:   lipgloss.Color("#005500"),
		Border:  lipgloss.Color("#003300"),
		Running: lipgloss.Color("#88ff88"),
		Paused:  lipgloss.Color("#ffff00"),
		Warning: lipgloss.Color("#ff0000"),
	}
)

// Themes in cycling order. The first is the default.
var Themes = []Theme{ThemeChalk, ThemeBlueprint, ThemePhosphor}

// ThemeIndex returns the position of name in Themes, or 0.
func ThemeIndex(name string) int {
	for i, t := range Themes {
		if t.Name == name {
			return i
		}
	}
	return 0
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
