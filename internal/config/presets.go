package config

import "sort"

// Profiles are named overrides applied on top of a loaded config.
var Profiles = map[string]func(*Config){
	"slow": func(c *Config) {
		c.TimeScale = 0.1
	},
	"realtime": func(c *Config) {
		c.TimeScale = 1.0
	},
	"hires": func(c *Config) {
		c.Canvas = CanvasConfig{Width: 1600, Height: 1200}
		c.StepRate = 120
		c.FrameRate = 60
	},
	"terminal": func(c *Config) {
		c.Canvas = CanvasConfig{Width: 640, Height: 480}
		c.FrameRate = 15
	},
}

// ApplyProfile applies the named profile and reports whether it exists.
func (c *Config) ApplyProfile(name string) bool {
	p, ok := Profiles[name]
	if !ok {
		return false
	}
	p(c)
	return true
}

func ListProfiles() []string {
	names := make([]string, 0, len(Profiles))
	for name := range Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
