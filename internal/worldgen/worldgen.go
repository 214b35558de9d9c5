// Package worldgen fills a voxel octree with height-field terrain driven by
// fractal simplex noise. It exists to feed voxtool with realistic worlds.
package worldgen

import (
	"context"
	stdmath "math"

	"github.com/ojrac/opensimplex-go"
	"go.uber.org/zap"

	"github.com/Faultbox/hexane/internal/config"
	"github.com/Faultbox/hexane/pkg/math"
	"github.com/Faultbox/hexane/pkg/octree"
	"github.com/Faultbox/hexane/pkg/voxel"
)

// Tree is the octree type the generator fills.
type Tree = octree.SparseOctree[voxel.Voxel]

// Stats summarizes a Fill run.
type Stats struct {
	Columns       int
	Placed        int
	Water         int
	Optimizations int
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for progress messages.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		g.log = l
	}
}

// WithOptimizeEvery makes Fill call Optimize after every n columns.
// n <= 0 disables intermediate passes.
func WithOptimizeEvery(n int) Option {
	return func(g *Generator) {
		g.optimizeEvery = n
	}
}

// Generator produces deterministic terrain for a seed.
type Generator struct {
	cfg           config.GenerationConfig
	noise         opensimplex.Noise
	optimizeEvery int
	log           *zap.Logger
}

// New returns a generator for seed.
func New(seed int64, cfg config.GenerationConfig, opts ...Option) *Generator {
	g := &Generator{
		cfg:   cfg,
		noise: opensimplex.New(seed),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// fractalNoise sums octaves of simplex noise and normalizes the result to
// [-1, 1].
func (g *Generator) fractalNoise(x, z float64) float64 {
	var sum, norm float64
	amplitude, frequency := 1.0, g.cfg.Scale

	for i := 0; i < g.cfg.Octaves; i++ {
		sum += g.noise.Eval2(x*frequency, z*frequency) * amplitude
		norm += amplitude
		amplitude *= g.cfg.Persistence
		frequency *= g.cfg.Lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// Height returns the surface cell of column (x, z) in a world of the given
// edge, in [0, edge).
func (g *Generator) Height(x, z, edge int) int {
	half := float64(edge) / 2
	h := int(stdmath.Round(half + g.fractalNoise(float64(x), float64(z))*g.cfg.Amplitude*half))
	return min(max(h, 0), edge-1)
}

// Column returns the voxels of column (x, z) from y = 0 upwards; the slice
// index is the y coordinate and cells without a voxel hold Error.
//
// The surface is Grass above sea level and Dirt below it. DirtDepth cells of
// Dirt lie under the surface (0 fills down to y = 0). Water fills the empty
// cells above an underwater surface up to SeaLevel.
func (g *Generator) Column(x, z, edge int) []voxel.Id {
	h := g.Height(x, z, edge)
	sea := min(g.cfg.SeaLevel, edge-1)

	col := make([]voxel.Id, max(h, sea)+1)

	bottom := 0
	if g.cfg.DirtDepth > 0 {
		bottom = max(h-g.cfg.DirtDepth, 0)
	}
	for y := bottom; y < h; y++ {
		col[y] = voxel.Dirt
	}

	if h < sea {
		col[h] = voxel.Dirt
		for y := h + 1; y <= sea; y++ {
			col[y] = voxel.Water
		}
	} else {
		col[h] = voxel.Grass
	}

	return col
}

// Fill places the terrain of every column of tree. Placement is column by
// column in x, z order; every optimizeEvery columns the tree is optimized
// so memory stays bounded. Fill stops early with ctx's error if ctx is
// cancelled.
func (g *Generator) Fill(ctx context.Context, tree *Tree) (Stats, error) {
	var stats Stats
	edge := tree.Edge()

	for x := 0; x < edge; x++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		for z := 0; z < edge; z++ {
			for y, id := range g.Column(x, z, edge) {
				if id == voxel.Error {
					continue
				}
				tree.Place(math.Vec3i{X: x, Y: y, Z: z}, voxel.Voxel{ID: id})
				stats.Placed++
				if id == voxel.Water {
					stats.Water++
				}
			}
			stats.Columns++

			if g.optimizeEvery > 0 && stats.Columns%g.optimizeEvery == 0 {
				tree.Optimize()
				stats.Optimizations++
				g.log.Debug("intermediate optimize",
					zap.Int("columns", stats.Columns),
					zap.Int("nodes", tree.Len()))
			}
		}
	}

	g.log.Info("terrain filled",
		zap.Int("edge", edge),
		zap.Int("columns", stats.Columns),
		zap.Int("placed", stats.Placed),
		zap.Int("water", stats.Water),
		zap.Int("optimizations", stats.Optimizations))

	return stats, nil
}
