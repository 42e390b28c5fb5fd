package viz

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	theme   Theme
	canvas  lipgloss.Style
	panel   lipgloss.Style
	header  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	hint    lipgloss.Style
	running lipgloss.Style
	paused  lipgloss.Style
	warning lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		theme: t,
		canvas: lipgloss.NewStyle().
			Foreground(t.Canvas).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Border),
		label:   lipgloss.NewStyle().Foreground(t.Muted),
		value:   lipgloss.NewStyle().Foreground(t.Value).Bold(true),
		hint:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		running: lipgloss.NewStyle().Foreground(t.Running).Bold(true),
		paused:  lipgloss.NewStyle().Foreground(t.Paused).Bold(true),
		warning: lipgloss.NewStyle().Foreground(t.Warning),
	}
}

// gradient colors each rune of text along a straight line between two hex
// colors.
func gradient(text string, from, to lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	sr, sg, sb := parseHex(string(from))
	er, eg, eb := parseHex(string(to))

	var out strings.Builder
	for i, c := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		r := sr + int(t*float64(er-sr))
		g := sg + int(t*float64(eg-sg))
		b := sb + int(t*float64(eb-sb))
		out.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(r, g, b))).Render(string(c)))
	}
	return out.String()
}

// parseHex reads #rrggbb. Anything else is white.
func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 255, 255, 255
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

func hexColor(r, g, b int) string {
	clamp := func(v int) int { return min(max(v, 0), 255) }
	return "#" + strconv.FormatInt(int64(1<<24|clamp(r)<<16|clamp(g)<<8|clamp(b)), 16)[1:]
}

// gauge renders frac of width as a filled bar.
func gauge(frac float64, width int) string {
	filled := min(max(int(frac*float64(width)+0.5), 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// sparkline samples the most recent values to fit width.
func sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}
	var out strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(sparkChars)-1))
		out.WriteRune(sparkChars[min(max(idx, 0), len(sparkChars)-1)])
	}
	return out.String()
}
