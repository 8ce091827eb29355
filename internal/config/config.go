// seehuhn.de/go/blockrender - render voxel blocks from game resource packs
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package config reads the YAML configuration file of the blockrender
// command.
package config

import (
	"fmt"
	"image/color"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/blockrender"
	"seehuhn.de/go/blockrender/resource"
	"seehuhn.de/go/blockrender/texture"
)

// Default values for optional settings.
const (
	DefaultSize      = 128
	DefaultOutputDir = "."
	DefaultWorkers   = 4
	DefaultLogLevel  = "info"
)

// Config represents a blockrender.yml file.
type Config struct {
	Version   string         `yaml:"version"`
	Archives  []string       `yaml:"archives"`
	Size      int            `yaml:"size,omitempty"`
	OutputDir string         `yaml:"output_dir,omitempty"`
	Workers   int            `yaml:"workers,omitempty"`
	LogLevel  string         `yaml:"log_level,omitempty"`
	Fit       string         `yaml:"fit,omitempty"`     // "geometry" or "block"
	Padding   float64        `yaml:"padding,omitempty"` // fraction of the image size
	Outline   *OutlineConfig `yaml:"outline,omitempty"`
	Blocks    []Block        `yaml:"blocks,omitempty"`

	// Tints maps block ids to per-tint-index colours.  The key "*" gives
	// colours for all blocks without an entry of their own.
	Tints map[string]map[int]string `yaml:"tints,omitempty"`
}

// Block is one entry of the batch render list.
type Block struct {
	ID         string            `yaml:"id"`
	Properties map[string]string `yaml:"properties,omitempty"`
	Size       int               `yaml:"size,omitempty"`   // overrides Config.Size
	Output     string            `yaml:"output,omitempty"` // file name below output_dir
}

// OutlineConfig draws lines along the face edges.
type OutlineConfig struct {
	Width      float64 `yaml:"width"`
	Color      string  `yaml:"color,omitempty"`
	Join       string  `yaml:"join,omitempty"` // "miter", "round" or "bevel"
	MiterLimit float64 `yaml:"miter_limit,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{Version: "1.0"}
	c.applyDefaults()
	return c
}

// Load reads, validates and completes the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// archive paths are relative to the configuration file
	base := filepath.Dir(path)
	for i, a := range config.Archives {
		if !filepath.IsAbs(a) {
			config.Archives[i] = filepath.Join(base, a)
		}
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Size == 0 {
		c.Size = DefaultSize
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Validate checks the configuration and fills in default values.
func (c *Config) Validate() error {
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}
	c.applyDefaults()

	if c.Size < 0 {
		return fmt.Errorf("size must be positive, got %d", c.Size)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	if _, err := blockrender.ParseFitMode(c.Fit); err != nil {
		return fmt.Errorf("invalid fit: %w", err)
	}
	if c.Padding < 0 || c.Padding >= 0.5 {
		return fmt.Errorf("padding must be in [0, 0.5), got %g", c.Padding)
	}

	if o := c.Outline; o != nil {
		if o.Width <= 0 {
			return fmt.Errorf("outline.width must be positive, got %g", o.Width)
		}
		if o.Color != "" {
			if _, err := texture.ParseColor(o.Color); err != nil {
				return fmt.Errorf("outline.color: %w", err)
			}
		}
		if _, err := parseJoin(o.Join); err != nil {
			return fmt.Errorf("outline.join: %w", err)
		}
	}

	outputs := make(map[string]string)
	for i, b := range c.Blocks {
		if b.ID == "" {
			return fmt.Errorf("blocks[%d]: id is required", i)
		}
		if b.Size < 0 {
			return fmt.Errorf("block '%s': size must be positive, got %d", b.ID, b.Size)
		}
		out := c.OutputName(b)
		if other, seen := outputs[out]; seen {
			return fmt.Errorf("blocks '%s' and '%s' write the same file %s", other, b.ID, out)
		}
		outputs[out] = b.ID
	}

	for id, colours := range c.Tints {
		for idx, s := range colours {
			if _, err := texture.ParseColor(s); err != nil {
				return fmt.Errorf("tints['%s'][%d]: %w", id, idx, err)
			}
		}
	}

	return nil
}

// OutputName returns the file name for a rendered block, relative to
// OutputDir.
func (c *Config) OutputName(b Block) string {
	if b.Output != "" {
		return b.Output
	}
	id := resource.NewKey(resource.BlockStates, b.ID).ID()
	name := strings.ReplaceAll(id, ":", "_")
	for _, k := range slices.Sorted(maps.Keys(b.Properties)) {
		name += "_" + k + "-" + b.Properties[k]
	}
	return name + ".png"
}

// OutputPath returns the path of the image file for a rendered block.
func (c *Config) OutputPath(b Block) string {
	return filepath.Join(c.OutputDir, c.OutputName(b))
}

// BlockSize returns the image size for a block.
func (c *Config) BlockSize(b Block) int {
	if b.Size > 0 {
		return b.Size
	}
	return c.Size
}

// Palette returns the tint colours for a block.  Block ids are compared
// in their canonical "namespace:path" form.
func (c *Config) Palette(id string) texture.Palette {
	want := resource.NewKey(resource.BlockStates, id).ID()
	colours, ok := c.Tints["*"]
	for k, v := range c.Tints {
		if k != "*" && resource.NewKey(resource.BlockStates, k).ID() == want {
			colours, ok = v, true
			break
		}
	}
	if !ok {
		return nil
	}
	p := make(texture.Palette, len(colours))
	for idx, s := range colours {
		if col, err := texture.ParseColor(s); err == nil {
			p[idx] = col
		}
	}
	return p
}

// RenderOptions returns the render options for a block.
// The configuration must have been validated.
func (c *Config) RenderOptions(id string) *blockrender.Options {
	fit, _ := blockrender.ParseFitMode(c.Fit)
	opts := &blockrender.Options{
		Padding: c.Padding,
		Fit:     fit,
	}
	if p := c.Palette(id); p != nil {
		opts.Tint = p.Tint
	}
	if o := c.Outline; o != nil {
		join, _ := parseJoin(o.Join)
		col := color.NRGBA{A: 0xff}
		if o.Color != "" {
			col, _ = texture.ParseColor(o.Color)
		}
		opts.Outline = &blockrender.Outline{
			Width:      o.Width,
			Color:      col,
			Join:       join,
			MiterLimit: o.MiterLimit,
		}
	}
	return opts
}

// Level returns the configured log level.
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func parseJoin(s string) (graphics.LineJoinStyle, error) {
	switch s {
	case "", "miter":
		return graphics.LineJoinMiter, nil
	case "round":
		return graphics.LineJoinRound, nil
	case "bevel":
		return graphics.LineJoinBevel, nil
	}
	return 0, fmt.Errorf("unknown join style %q", s)
}
