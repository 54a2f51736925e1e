package app

import "flag"

// Config represents the viewer's command-line parameters.
type Config struct {
	ConfigPath   string
	Scale        int
	TPS          int
	StepsPerTick int
	Width        int
	HUDWidth     int
	Debug        bool
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Scale: 3, TPS: 30, StepsPerTick: 1, Width: 160, HUDWidth: 300}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "YAML scenario file (defaults when empty)")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "simulation ticks per second")
	fs.IntVar(&c.StepsPerTick, "steps", c.StepsPerTick, "solver steps per tick")
	fs.IntVar(&c.Width, "width", c.Width, "section raster width in pixels")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "HUD panel width in pixels (0 hides it)")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "enable debug logging")
}

// Normalize clamps out-of-range values to usable ones.
func (c *Config) Normalize() {
	c.Scale = max(c.Scale, 1)
	c.TPS = max(c.TPS, 1)
	c.StepsPerTick = max(c.StepsPerTick, 1)
	c.Width = max(c.Width, 16)
	c.HUDWidth = max(c.HUDWidth, 0)
}
