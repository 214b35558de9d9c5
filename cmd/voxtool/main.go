// voxtool is a CLI utility for generating, inspecting and exporting voxel
// octree snapshots.
package main

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/hexane/internal/config"
	"github.com/Faultbox/hexane/internal/logger"
)

func main() {
	config.ParseFlags()
	args := config.Args()

	if len(args) < 1 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	if command == "help" || command == "-h" || command == "--help" {
		printUsage(os.Stdout)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)

	switch command {
	case "generate", "gen":
		err = cmdGenerate(cfg, args, os.Stdout)
	case "info":
		err = cmdInfo(args, os.Stdout)
	case "export", "x":
		err = cmdExport(cfg, args, os.Stdout)
	case "query", "q":
		err = cmdQuery(args, os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `voxtool - sparse voxel octree utility

Usage:
  voxtool [global options] <command> [options]

Global options:
  -config <file>   Config file (default ./hexane.yaml, ./config.yaml, user config dir)
  -debug           Enable debug logging
  -depth <n>       Octree depth (edge = 2^n cells)
  -seed <n>        Terrain seed
  -out <dir>       Output directory
  -codec <name>    Snapshot codec: zstd, lz4 or none

Commands:
  generate [-o file]                        Generate terrain and write a snapshot
  info <snapshot>                           Show snapshot information
  export [-region r] [-expand] [-name p] <snapshot>
                                            Write mesh and bit set blobs
  query <snapshot> <x> <y> <z>              Print the voxel stored at a cell

Command options go before the snapshot path.
Regions are x0,y0,z0,x1,y1,z1 (end exclusive); -region may be repeated.

Examples:
  voxtool -depth 7 -seed 42 generate
  voxtool info out/world.hxot
  voxtool export -region 0,0,0,32,32,32 -expand out/world.hxot
  voxtool query out/world.hxot 10 20 30`)
}
