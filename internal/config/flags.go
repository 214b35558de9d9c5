package config

import "flag"

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagDepth  = flag.Int("depth", 0, "Octree depth")
	flagSeed   = flag.Int64("seed", 0, "Terrain seed")
	flagOut    = flag.String("out", "", "Output directory")
	flagCodec  = flag.String("codec", "", "Snapshot codec (zstd, lz4, none)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments left after ParseFlags.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagDepth > 0 {
		cfg.World.Depth = *flagDepth
	}
	if *flagSeed != 0 {
		cfg.World.Seed = *flagSeed
	}
	if *flagOut != "" {
		cfg.Export.OutDir = *flagOut
	}
	if *flagCodec != "" {
		cfg.Export.Codec = *flagCodec
	}
}
