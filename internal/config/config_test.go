package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/blockrender"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blockrender.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `version: "1.0"
archives: [client.jar, /abs/pack.zip]
size: 64
output_dir: out
workers: 2
log_level: debug
fit: block
padding: 0.1
blocks:
  - id: stone
  - id: oak_stairs
    properties: {facing: south, half: top}
    size: 256
  - id: testmod:ruby_block
    output: ruby.png
tints:
  "*": {0: "#7fb238"}
  grass_block: {0: "#91bd59"}
`)

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(filepath.Dir(path), "client.jar"), "/abs/pack.zip"}, config.Archives)
	assert.Equal(t, 64, config.Size)
	assert.Equal(t, 2, config.Workers)
	assert.Equal(t, logrus.DebugLevel, config.Level())
	require.Len(t, config.Blocks, 3)

	assert.Equal(t, "minecraft_stone.png", config.OutputName(config.Blocks[0]))
	assert.Equal(t, "minecraft_oak_stairs_facing-south_half-top.png", config.OutputName(config.Blocks[1]))
	assert.Equal(t, filepath.Join("out", "ruby.png"), config.OutputPath(config.Blocks[2]))
	assert.Equal(t, 256, config.BlockSize(config.Blocks[1]))
	assert.Equal(t, 64, config.BlockSize(config.Blocks[0]))

	opts := config.RenderOptions("minecraft:grass_block")
	assert.Equal(t, blockrender.FitBlock, opts.Fit)
	assert.Equal(t, 0.1, opts.Padding)
	require.NotNil(t, opts.Tint)
	assert.Equal(t, color.NRGBA{R: 0x91, G: 0xbd, B: 0x59, A: 0xff}, opts.Tint(0))
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, opts.Tint(1))

	opts = config.RenderOptions("oak_leaves")
	assert.Equal(t, color.NRGBA{R: 0x7f, G: 0xb2, B: 0x38, A: 0xff}, opts.Tint(0))
	assert.Nil(t, opts.Outline)
}

func TestDefaults(t *testing.T) {
	path := writeConfig(t, `version: "1.0"`)
	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, config.Size)
	assert.Equal(t, DefaultWorkers, config.Workers)
	assert.Equal(t, DefaultOutputDir, config.OutputDir)
	assert.Equal(t, logrus.InfoLevel, config.Level())

	opts := config.RenderOptions("stone")
	assert.Equal(t, blockrender.FitGeometry, opts.Fit)
	assert.Nil(t, opts.Tint)

	assert.Equal(t, Default(), config)
}

func TestOutline(t *testing.T) {
	path := writeConfig(t, `version: "1.0"
outline: {width: 1.5, color: "#102030", join: round}
`)
	config, err := Load(path)
	require.NoError(t, err)
	opts := config.RenderOptions("stone")
	require.NotNil(t, opts.Outline)
	assert.Equal(t, 1.5, opts.Outline.Width)
	assert.Equal(t, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, opts.Outline.Color)
	assert.Equal(t, graphics.LineJoinRound, opts.Outline.Join)

	config.Outline = &OutlineConfig{Width: 1}
	opts = config.RenderOptions("stone")
	assert.Equal(t, color.NRGBA{A: 0xff}, opts.Outline.Color)
	assert.Equal(t, graphics.LineJoinMiter, opts.Outline.Join)
}

func TestLoad_FileNotFound(t *testing.T) {
	config, err := Load("/nonexistent/blockrender.yml")
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, `version: "1.0"
blocks:
  - this is invalid
    yaml syntax
`)
	config, err := Load(path)
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		errMsg string
	}{
		{"version", Config{Version: "2.0"}, "unsupported version: 2.0"},
		{"size", Config{Version: "1.0", Size: -1}, "size must be positive"},
		{"workers", Config{Version: "1.0", Workers: -3}, "workers must be positive"},
		{"log level", Config{Version: "1.0", LogLevel: "loud"}, "invalid log_level"},
		{"fit", Config{Version: "1.0", Fit: "stretch"}, "invalid fit"},
		{"padding", Config{Version: "1.0", Padding: 0.5}, "padding must be in"},
		{"outline width", Config{Version: "1.0", Outline: &OutlineConfig{}}, "outline.width"},
		{"outline colour", Config{Version: "1.0", Outline: &OutlineConfig{Width: 1, Color: "blue"}}, "outline.color"},
		{"outline join", Config{Version: "1.0", Outline: &OutlineConfig{Width: 1, Join: "square"}}, "outline.join"},
		{"block id", Config{Version: "1.0", Blocks: []Block{{}}}, "blocks[0]: id is required"},
		{"block size", Config{Version: "1.0", Blocks: []Block{{ID: "stone", Size: -2}}}, "block 'stone': size"},
		{"duplicate output", Config{Version: "1.0", Blocks: []Block{{ID: "stone"}, {ID: "minecraft:stone"}}}, "write the same file"},
		{"tint", Config{Version: "1.0", Tints: map[string]map[int]string{"grass_block": {0: "#12"}}}, "tints['grass_block'][0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
