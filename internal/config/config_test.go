package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/hexane/pkg/octree"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 6, cfg.World.Depth)
	assert.Equal(t, 256, cfg.World.OptimizeEvery)

	assert.Equal(t, 4, cfg.Generation.Octaves)
	assert.Equal(t, 2.0, cfg.Generation.Lacunarity)

	assert.Equal(t, "zstd", cfg.Export.Codec)
	assert.Equal(t, "out", cfg.Export.OutDir)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.LogFile)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, configPath, `
world:
  depth: 8
  seed: 42
  optimize_every: 0

generation:
  scale: 0.01
  octaves: 6
  sea_level: 40

export:
  out_dir: "/tmp/voxels"
  codec: "lz4"
  level: 9

logging:
  level: "debug"
  log_file: "voxtool.log"
`)

	cfg := Default()
	require.NoError(t, loadFromFile(cfg, configPath))

	assert.Equal(t, 8, cfg.World.Depth)
	assert.Equal(t, int64(42), cfg.World.Seed)
	assert.Zero(t, cfg.World.OptimizeEvery)

	assert.Equal(t, 0.01, cfg.Generation.Scale)
	assert.Equal(t, 6, cfg.Generation.Octaves)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, 0.5, cfg.Generation.Persistence)

	assert.Equal(t, "lz4", cfg.Export.Codec)
	assert.Equal(t, 9, cfg.Export.Level)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "voxtool.log", cfg.Logging.LogFile)
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")
	writeConfig(t, configPath, `
world:
  depth: not a number
  invalid syntax here
`)

	assert.Error(t, loadFromFile(Default(), configPath))
}

func TestLoadFromFileMissing(t *testing.T) {
	assert.Error(t, loadFromFile(Default(), "/nonexistent/path/config.yaml"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"depth zero", func(c *Config) { c.World.Depth = 0 }, true},
		{"depth too deep", func(c *Config) { c.World.Depth = octree.MaxDepth + 1 }, true},
		{"max depth", func(c *Config) { c.World.Depth = octree.MaxDepth }, false},
		{"negative optimize_every", func(c *Config) { c.World.OptimizeEvery = -1 }, true},
		{"zero scale", func(c *Config) { c.Generation.Scale = 0 }, true},
		{"amplitude above one", func(c *Config) { c.Generation.Amplitude = 1.5 }, true},
		{"no octaves", func(c *Config) { c.Generation.Octaves = 0 }, true},
		{"unknown codec", func(c *Config) { c.Export.Codec = "brotli" }, true},
		{"codec none", func(c *Config) { c.Export.Codec = "none" }, false},
		{"bad log level", func(c *Config) { c.Logging.Level = "chatty" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	require.NotEmpty(t, dir)
	assert.Contains(t, []string{"hexane", "Hexane"}, filepath.Base(dir))
}

func TestFindConfigFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	assert.Empty(t, findConfigFile())

	writeConfig(t, "config.yaml", "world:\n  depth: 4\n")
	assert.Equal(t, "./config.yaml", findConfigFile())

	// hexane.yaml wins over config.yaml.
	writeConfig(t, "hexane.yaml", "world:\n  depth: 5\n")
	assert.Equal(t, "./hexane.yaml", findConfigFile())
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "depth and seed flags",
			setup: func() { *flagDepth = 9; *flagSeed = 7 },
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9, cfg.World.Depth)
				assert.Equal(t, int64(7), cfg.World.Seed)
			},
			teardown: func() { *flagDepth = 0; *flagSeed = 0 },
		},
		{
			name:  "out and codec flags",
			setup: func() { *flagOut = "/tmp/export"; *flagCodec = "none" },
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/tmp/export", cfg.Export.OutDir)
				assert.Equal(t, "none", cfg.Export.Codec)
			},
			teardown: func() { *flagOut = ""; *flagCodec = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, configPath, `
world:
  depth: 7
  seed: 99
`)

	*flagConfig = configPath
	*flagDepth = 10
	defer func() {
		*flagConfig = ""
		*flagDepth = 0
	}()

	cfg, err := Load()
	require.NoError(t, err)

	// Depth from flag, seed from file.
	assert.Equal(t, 10, cfg.World.Depth)
	assert.Equal(t, int64(99), cfg.World.Seed)
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, configPath, "export:\n  codec: rar\n")

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.World.Depth = 11
	cfg.Export.Codec = "lz4"
	require.NoError(t, cfg.SaveTo(path))

	loaded := Default()
	require.NoError(t, loadFromFile(loaded, path))
	assert.Equal(t, cfg, loaded)
}
