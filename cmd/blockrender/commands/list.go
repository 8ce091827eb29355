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

	"github.com/spf13/cobra"

	"seehuhn.de/go/blockrender/resource"
)

var (
	listNamespace string
	listCategory  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the resources available in the archives",
	Long: `List the ids of all resources of one category found in the archives.
By default, block states are listed; these are the ids accepted by render.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listNamespace, "namespace", "n", "", "only list this namespace")
	listCmd.Flags().StringVar(&listCategory, "category", resource.BlockStates,
		"resource category: blockstates, models or textures")
}

func runList(cmd *cobra.Command, args []string) error {
	switch listCategory {
	case resource.BlockStates, resource.Models, resource.Textures:
	default:
		return fmt.Errorf("unknown category %q", listCategory)
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	keys, err := s.Pack().List(listNamespace, listCategory)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, k := range keys {
		fmt.Fprintln(out, k.ID())
	}
	log.WithField("count", len(keys)).Debug("listed resources")
	return nil
}
