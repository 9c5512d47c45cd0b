package config

import (
	"fmt"
	"sort"
)

// Presets are named layouts for common output sizes.
var Presets = map[string]LayoutConfig{
	"default": {ContainerWidth: 960, ViewportHeight: 620, Chrome: 80},
	"hd":      {ContainerWidth: 1280, ViewportHeight: 800, Chrome: 80},
	"fullhd":  {ContainerWidth: 1920, ViewportHeight: 1160, Chrome: 80},
	"square":  {ContainerWidth: 800, ViewportHeight: 880, Chrome: 80},
	"slide":   {ContainerWidth: 1024, ViewportHeight: 656, Chrome: 80},
	"thumb":   {ContainerWidth: 480, ViewportHeight: 400, Chrome: 80},
}

// GetPreset returns a copy of the default config with the named layout
// applied, or nil when no such preset exists.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Layout.ContainerWidth = p.ContainerWidth
	cfg.Layout.ViewportHeight = p.ViewportHeight
	cfg.Layout.Chrome = p.Chrome
	return cfg
}

// ApplyPreset replaces the layout sizes of cfg with the named preset,
// keeping its margins.
func ApplyPreset(cfg *Config, name string) error {
	p, ok := Presets[name]
	if !ok {
		return fmt.Errorf("%w: %s (available: %v)", ErrUnknownPreset, name, ListPresets())
	}
	cfg.Layout.ContainerWidth = p.ContainerWidth
	cfg.Layout.ViewportHeight = p.ViewportHeight
	cfg.Layout.Chrome = p.Chrome
	return nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
