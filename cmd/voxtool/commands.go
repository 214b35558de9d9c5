package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/hexane/internal/config"
	"github.com/Faultbox/hexane/internal/logger"
	"github.com/Faultbox/hexane/internal/snapshot"
	"github.com/Faultbox/hexane/internal/worldgen"
	"github.com/Faultbox/hexane/pkg/math"
	"github.com/Faultbox/hexane/pkg/mesh"
	"github.com/Faultbox/hexane/pkg/octree"
	"github.com/Faultbox/hexane/pkg/transform"
	"github.com/Faultbox/hexane/pkg/voxel"
)

var errUsage = errors.New("invalid usage")

// maxBitSetDepth is the deepest tree export writes a bit set for. The set
// spans every node index up to 8^depth, about 19 MB of words at depth 9.
const maxBitSetDepth = 9

func cmdGenerate(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	output := fs.String("o", "", "Snapshot path (default <out_dir>/world.hxot)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := *output
	if path == "" {
		path = filepath.Join(cfg.Export.OutDir, "world.hxot")
	}
	codec, err := snapshot.ParseCodec(cfg.Export.Codec)
	if err != nil {
		return err
	}

	tree, err := octree.New[voxel.Voxel](cfg.World.Depth, octree.WithLogger(logger.Named("octree")))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gen := worldgen.New(cfg.World.Seed, cfg.Generation,
		worldgen.WithOptimizeEvery(cfg.World.OptimizeEvery),
		worldgen.WithLogger(logger.Named("worldgen")))
	stats, err := gen.Fill(ctx, tree)
	if err != nil {
		return fmt.Errorf("generating terrain: %w", err)
	}
	tree.Optimize()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := snapshot.WriteOctreeFile(path, tree, codec, cfg.Export.Level); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	logger.Info("snapshot written", zap.String("path", path), zap.Stringer("codec", codec))

	fmt.Fprintf(out, "Snapshot: %s\n", path)
	fmt.Fprintf(out, "Depth:    %d (edge %d)\n", tree.Size(), tree.Edge())
	fmt.Fprintf(out, "Placed:   %d voxels in %d columns\n", stats.Placed, stats.Columns)
	fmt.Fprintf(out, "Nodes:    %d\n", tree.Len())
	return nil
}

func cmdInfo(args []string, out io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: voxtool info <snapshot>", errUsage)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	header, err := snapshot.ParseHeader(data)
	if err != nil {
		return err
	}
	tree, err := snapshot.ParseOctree(data)
	if err != nil {
		return err
	}

	stats := tree.Stats()
	fmt.Fprintf(out, "Snapshot:   %s\n", args[0])
	fmt.Fprintf(out, "Format:     %s\n", header)
	fmt.Fprintf(out, "File size:  %d bytes\n", len(data))
	fmt.Fprintf(out, "Depth:      %d (edge %d)\n", tree.Size(), tree.Edge())
	fmt.Fprintf(out, "Nodes:      %d\n", stats.Nodes)
	fmt.Fprintf(out, "Tombstones: %d\n", stats.Tombstones)
	fmt.Fprintf(out, "Leaves:     %d\n", stats.Leaves)
	fmt.Fprintf(out, "Filled:     %d\n", stats.Filled)
	return nil
}

func cmdExport(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	var regions []transform.Region
	fs.Func("region", "Cell box x0,y0,z0,x1,y1,z1 (repeatable, default whole tree)", func(s string) error {
		r, err := parseRegion(s)
		if err != nil {
			return err
		}
		regions = append(regions, r)
		return nil
	})
	expand := fs.Bool("expand", false, "Triangulate faces into an indexed quad mesh")
	name := fs.String("name", "", "Output file prefix (default snapshot base name)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: voxtool export [-region r] [-expand] <snapshot>", errUsage)
	}

	codec, err := snapshot.ParseCodec(cfg.Export.Codec)
	if err != nil {
		return err
	}
	tree, err := snapshot.ParseOctreeFile(fs.Arg(0))
	if err != nil {
		return err
	}
	if len(regions) == 0 {
		regions = []transform.Region{transform.Domain(tree.Edge())}
	}

	prefix := *name
	if prefix == "" {
		prefix = strings.TrimSuffix(filepath.Base(fs.Arg(0)), filepath.Ext(fs.Arg(0)))
	}
	if err := os.MkdirAll(cfg.Export.OutDir, 0755); err != nil {
		return err
	}
	meshPath := filepath.Join(cfg.Export.OutDir, prefix+".hxms")
	bitsPath := filepath.Join(cfg.Export.OutDir, prefix+".hxbs")

	log := logger.Named("export")
	var faces, vertices, bits int

	// Both transforms only read the tree.
	var g errgroup.Group
	g.Go(func() error {
		m := transform.ToMesh(tree, regions...)
		faces = len(m.Vertices)
		if *expand {
			m = mesh.Expand(m)
		}
		vertices = len(m.Vertices)
		log.Debug("mesh built", zap.Int("faces", faces), zap.Bool("expanded", *expand))
		return snapshot.WriteMeshFile(meshPath, m, codec, cfg.Export.Level)
	})
	writeBits := tree.Size() <= maxBitSetDepth
	if writeBits {
		g.Go(func() error {
			bs := transform.ToBitSet(tree, regions...)
			bits = bs.Count()
			log.Debug("bit set built", zap.Int("set", bits), zap.Uint("len", bs.Len()))
			return snapshot.WriteBitSetFile(bitsPath, bs, codec, cfg.Export.Level)
		})
	} else {
		log.Warn("skipping bit set",
			zap.Int("depth", tree.Size()),
			zap.Int("max_depth", maxBitSetDepth))
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("exporting: %w", err)
	}

	fmt.Fprintf(out, "Mesh:    %s (%d faces, %d vertices)\n", meshPath, faces, vertices)
	if writeBits {
		fmt.Fprintf(out, "Bit set: %s (%d nodes)\n", bitsPath, bits)
	} else {
		fmt.Fprintf(out, "Bit set: skipped (depth %d exceeds %d)\n", tree.Size(), maxBitSetDepth)
	}
	return nil
}

func cmdQuery(args []string, out io.Writer) error {
	if len(args) < 4 {
		return fmt.Errorf("%w: voxtool query <snapshot> <x> <y> <z>", errUsage)
	}

	var coords [3]int
	for i := range coords {
		v, err := strconv.Atoi(args[i+1])
		if err != nil {
			return fmt.Errorf("%w: coordinate %q: %v", errUsage, args[i+1], err)
		}
		coords[i] = v
	}
	pos := math.Vec3i{X: coords[0], Y: coords[1], Z: coords[2]}

	tree, err := snapshot.ParseOctreeFile(args[0])
	if err != nil {
		return err
	}
	if !tree.Contains(pos) {
		return fmt.Errorf("%w: %v outside tree of edge %d", errUsage, pos, tree.Edge())
	}

	v, ok := tree.Query(pos)
	if !ok {
		fmt.Fprintf(out, "%v: empty\n", pos)
		return nil
	}
	fmt.Fprintf(out, "%v: %s\n", pos, v.ID)
	return nil
}

// parseRegion parses "x0,y0,z0,x1,y1,z1".
func parseRegion(s string) (transform.Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 6 {
		return transform.Region{}, fmt.Errorf("region %q: want 6 comma-separated integers", s)
	}

	var v [6]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return transform.Region{}, fmt.Errorf("region %q: %w", s, err)
		}
		v[i] = n
	}

	return transform.Region{
		Start: math.Vec3i{X: v[0], Y: v[1], Z: v[2]},
		End:   math.Vec3i{X: v[3], Y: v[4], Z: v[5]},
	}, nil
}
