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
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"seehuhn.de/go/blockrender/model"
	"seehuhn.de/go/blockrender/texture"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve BLOCK",
	Short: "Show the models and textures used for a block",
	Long: `Show the models which make up a block, with their rotation, parent
chain and texture variables.

Example:
  blockrender resolve 'oak_stairs[facing=south]' -a client.jar`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	id, props, err := parseBlockArg(args[0])
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	placements, err := s.ResolveBlock(id, props)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "archives: %s\n", strings.Join(s.Pack().Layers(), ", "))
	palette := cfg.Palette(id)
	for i, pl := range placements {
		m := pl.Model
		cyan.Fprintf(out, "part %d: %s\n", i+1, m.Key.ID())
		fmt.Fprintf(out, "  rotation:  x=%d y=%d uvlock=%t\n", pl.X, pl.Y, pl.UVLock)
		fmt.Fprintf(out, "  chain:     %s\n", chainString(m))
		if m.Builtin != "" {
			fmt.Fprintf(out, "  builtin:   %s\n", m.Builtin)
		}
		fmt.Fprintf(out, "  elements:  %d\n", len(m.Elements))
		if !m.AmbientOcclusion {
			fmt.Fprintf(out, "  ambient occlusion off\n")
		}
		for _, idx := range tintIndices(m) {
			fmt.Fprintf(out, "  tint %d:    %s\n", idx, texture.FormatColor(palette.Tint(idx)))
		}
		for _, name := range slices.Sorted(maps.Keys(m.Textures)) {
			key, err := texture.ResolveKey(m, "#"+name)
			target := key.ID()
			if err != nil {
				target = red.Sprintf("error: %v", err)
			}
			fmt.Fprintf(out, "  #%-10s %s\n", name, target)
		}
	}
	return nil
}

// tintIndices returns the sorted tint indices used by the faces of m.
func tintIndices(m *model.Resolved) []int {
	seen := make(map[int]bool)
	for _, el := range m.Elements {
		for _, f := range el.Faces {
			if f.TintIndex >= 0 {
				seen[f.TintIndex] = true
			}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

func chainString(m *model.Resolved) string {
	ids := make([]string, len(m.Chain))
	for i, k := range m.Chain {
		ids[i] = k.ID()
	}
	return strings.Join(ids, " → ")
}
