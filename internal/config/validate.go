package config

import (
	"errors"
	"fmt"

	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/hexane/pkg/octree"
)

// Codecs accepted by export.codec.
var Codecs = []string{"none", "zstd", "lz4"}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks that the settings describe a usable run.
func (c *Config) Validate() error {
	var errs []error

	if c.World.Depth < 1 || c.World.Depth > octree.MaxDepth {
		errs = append(errs, fmt.Errorf("world.depth %d out of range [1,%d]", c.World.Depth, octree.MaxDepth))
	}
	if c.World.OptimizeEvery < 0 {
		errs = append(errs, fmt.Errorf("world.optimize_every must not be negative"))
	}

	g := c.Generation
	if g.Scale <= 0 {
		errs = append(errs, fmt.Errorf("generation.scale must be positive"))
	}
	if g.Amplitude < 0 || g.Amplitude > 1 {
		errs = append(errs, fmt.Errorf("generation.amplitude %v out of range [0,1]", g.Amplitude))
	}
	if g.Octaves < 1 {
		errs = append(errs, fmt.Errorf("generation.octaves must be at least 1"))
	}
	if g.DirtDepth < 0 {
		errs = append(errs, fmt.Errorf("generation.dirt_depth must not be negative"))
	}

	if !validCodec(c.Export.Codec) {
		errs = append(errs, fmt.Errorf("export.codec %q not one of %v", c.Export.Codec, Codecs))
	}

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

func validCodec(name string) bool {
	for _, c := range Codecs {
		if c == name {
			return true
		}
	}
	return false
}
