package config

import "sort"

// Presets are named overrides applied on top of DefaultConfig.
var Presets = map[string]func(*Config){
	"assignment": func(c *Config) {},
	"coarse": func(c *Config) {
		c.Integration.Step = 500
		c.Integration.Steps = 1000
	},
	"fine": func(c *Config) {
		c.Integration.Step = 10
		c.Integration.Steps = 50000
	},
	// The radius at encounter moves by about 570 km per m/s of launch
	// velocity, so the bracket must narrow well below the default width
	// before the 1 km tolerance is met.
	"checked": func(c *Config) {
		c.Search.VMin = 900
		c.Search.MinWidth = 1e-6
		c.Search.CheckBracket = true
	},
	"euler": func(c *Config) {
		c.Integration.Integrator = "euler"
		c.Integration.Step = 5
		c.Integration.Steps = 100000
	},
}

func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
