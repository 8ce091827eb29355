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

package commands

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"seehuhn.de/go/blockrender/internal/config"
	"seehuhn.de/go/blockrender/model"
)

var (
	renderProps  []string
	renderSize   int
	renderOutput string
)

var renderCmd = &cobra.Command{
	Use:   "render BLOCK",
	Short: "Render a single block to a PNG file",
	Long: `Render a single block to a PNG file.

The block is given by its id, optionally followed by block-state
properties in brackets.  Properties can also be given with -p.

Examples:
  blockrender render stone -a client.jar
  blockrender render 'oak_stairs[facing=south,half=top]' -a client.jar -s 256
  blockrender render oak_fence -p north=true -p east=true -o fence.png`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringArrayVarP(&renderProps, "prop", "p", nil, "block-state property key=value (repeatable)")
	renderCmd.Flags().IntVarP(&renderSize, "size", "s", 0, "image size in pixels (default from config)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file (default derived from the block id)")
}

func runRender(cmd *cobra.Command, args []string) error {
	id, props, err := parseBlockArg(args[0])
	if err != nil {
		return err
	}
	for _, p := range renderProps {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return fmt.Errorf("malformed property %q (expected key=value)", p)
		}
		props[k] = v
	}

	block := config.Block{ID: id, Properties: props, Size: renderSize}
	out := renderOutput
	if out == "" {
		out = cfg.OutputPath(block)
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	img, err := s.RenderBlock(id, props, cfg.BlockSize(block), cfg.RenderOptions(id))
	if err != nil {
		return err
	}
	if err := writePNG(out, img); err != nil {
		return err
	}
	printSuccess("%s → %s", args[0], out)
	return nil
}

// parseBlockArg splits "id[key=value,...]" into the id and the property
// map.  The map is never nil.
func parseBlockArg(s string) (string, map[string]string, error) {
	id, rest, found := strings.Cut(s, "[")
	if !found {
		return s, make(map[string]string), nil
	}
	inner, ok := strings.CutSuffix(rest, "]")
	if !ok || id == "" {
		return "", nil, fmt.Errorf("malformed block %q", s)
	}
	props, err := model.ParseProps(inner)
	if err != nil {
		return "", nil, fmt.Errorf("block %q: %w", s, err)
	}
	return id, props, nil
}

// writePNG stores img at path, creating parent directories as needed.
func writePNG(path string, img image.Image) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return png.Encode(f, img)
}
