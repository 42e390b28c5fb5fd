package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/scenario"
)

var presetInfo = map[string]string{
	"cliff":      "ball rolling off a ledge",
	"incline":    "block on a frictional ramp",
	"oscillator": "damped spring oscillation",
	"projectile": "launch over flat ground",
	"push":       "applied force on a crate",
	"spring":     "two blocks joined by a spring",
}

const (
	pickMenu = iota
	pickLive
)

// Picker lists the built-in scenarios and opens the chosen one in a live
// view.
type Picker struct {
	state   int
	cursor  int
	presets []string
	opts    Options
	live    Model
	err     error
}

func NewPicker(opts Options) Picker {
	return Picker{presets: scenario.PresetNames(), opts: opts}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.state == pickLive {
		next, cmd := p.live.Update(msg)
		p.live = next.(Model)
		return p, cmd
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.presets)-1 {
			p.cursor++
		}
	case "enter":
		if len(p.presets) == 0 {
			return p, nil
		}
		name := p.presets[p.cursor]
		sc, err := scenario.Preset(name)
		if err != nil {
			p.err = err
			return p, nil
		}
		opts := p.opts
		opts.Name = name
		p.live = NewModel(sc, opts)
		p.state = pickLive
		return p, p.live.Init()
	}
	return p, nil
}

func (p Picker) View() string {
	if p.state == pickLive {
		return p.live.View()
	}
	st := newStyles(Themes[ThemeIndex(p.opts.Theme)])
	var b strings.Builder
	b.WriteString("\n  " + gradient("PHYSVIS", st.theme.Title, st.theme.TitleTo) + "\n")
	b.WriteString("  " + st.label.Render("scenario presets") + "\n\n")
	for i, name := range p.presets {
		line := fmt.Sprintf("%-12s %s", name, presetInfo[name])
		if i == p.cursor {
			b.WriteString("  " + st.value.Render("▸ "+line) + "\n")
		} else {
			b.WriteString("    " + st.label.Render(line) + "\n")
		}
	}
	if p.err != nil {
		b.WriteString("\n  " + st.warning.Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n  " + st.hint.Render("j/k navigate  enter open  q quit") + "\n")
	return b.String()
}

// RunPicker opens the preset menu in the alternate screen.
func RunPicker(opts Options) error {
	_, err := tea.NewProgram(NewPicker(opts), tea.WithAltScreen()).Run()
	return err
}
