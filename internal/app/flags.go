package app

import "flag"

// Config represents the command-line parameters for the application.
type Config struct {
	Scale  int
	TPS    int
	Width  int
	Height int

	ConfigPath string
	Seed       int64
	Biome      string
	Sampler    string
	Radius     int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Scale: 1, TPS: 60, Width: 960, Height: 640, Seed: 1337, Biome: "default", Sampler: "simplex", Radius: 3}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.IntVar(&c.Width, "width", c.Width, "window width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "window height in pixels")
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "optional YAML config file")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "world seed for decorations")
	fs.StringVar(&c.Biome, "biome", c.Biome, "starting biome")
	fs.StringVar(&c.Sampler, "sampler", c.Sampler, "noise sampler (simplex, perlin)")
	fs.IntVar(&c.Radius, "radius", c.Radius, "streaming radius in chunks")
}

// Explicit returns the names of flags set on the command line.
func Explicit(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}
