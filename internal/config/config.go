// Package config handles voxtool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Generation GenerationConfig `yaml:"generation"`
	Export     ExportConfig     `yaml:"export"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// WorldConfig holds octree settings.
type WorldConfig struct {
	Depth         int   `yaml:"depth"`          // Octree depth; edge is 2^depth cells
	Seed          int64 `yaml:"seed"`           // Terrain noise seed
	OptimizeEvery int   `yaml:"optimize_every"` // Columns between Optimize passes, 0 disables
}

// GenerationConfig holds terrain noise settings.
type GenerationConfig struct {
	Scale       float64 `yaml:"scale"`
	Amplitude   float64 `yaml:"amplitude"`
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`
	Lacunarity  float64 `yaml:"lacunarity"`
	SeaLevel    int     `yaml:"sea_level"`
	DirtDepth   int     `yaml:"dirt_depth"`
}

// ExportConfig holds snapshot and export output settings.
type ExportConfig struct {
	OutDir string `yaml:"out_dir"`
	Codec  string `yaml:"codec"` // zstd, lz4 or none
	Level  int    `yaml:"level"` // Codec-specific compression level, 0 for default
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Depth:         6,
			Seed:          1337,
			OptimizeEvery: 256,
		},
		Generation: GenerationConfig{
			Scale:       0.03,
			Amplitude:   0.35,
			Octaves:     4,
			Persistence: 0.5,
			Lacunarity:  2.0,
			SeaLevel:    16,
			DirtDepth:   3,
		},
		Export: ExportConfig{
			OutDir: "out",
			Codec:  "zstd",
			Level:  0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
