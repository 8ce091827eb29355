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

// Package testpack provides a small synthetic resource pack in the game's
// archive layout.  It contains well-formed blocks of every kind the
// renderer supports, plus deliberately broken ones (cyclic parents, cyclic
// texture variables, missing files, malformed JSON) for error tests.
package testpack

import (
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/klauspost/compress/zip"

	"seehuhn.de/go/blockrender/resource"
)

// Blocks lists the well-formed blocks of the pack, which can all be
// resolved and rendered without properties.
var Blocks = []string{
	"minecraft:stone",
	"minecraft:glass",
	"minecraft:grass_block",
	"minecraft:oak_stairs",
	"minecraft:oak_fence",
	"minecraft:oak_slab",
	"minecraft:poppy",
	"minecraft:sea_lantern",
	"minecraft:old_stone",
	"minecraft:weighted_stone",
	"testmod:ruby_block",
}

// Broken lists blocks which fail to resolve or render, with a short
// description of the defect.
var Broken = map[string]string{
	"minecraft:cycle_block":             "two models name each other as parent",
	"minecraft:deep_block":              "parent chain longer than the default limit",
	"minecraft:texcycle_block":          "texture variables #a and #b refer to each other",
	"minecraft:missing_texture_block":   "texture variable resolves to an absent png",
	"minecraft:undefined_texture_block": "face refers to an undefined texture variable",
	"minecraft:broken_block":            "block state is not valid JSON",
	"minecraft:bad_texture_block":       "texture bytes are not a png image",
	"minecraft:missing_model_block":     "block state refers to an absent model",
}

// ReferenceSize is the size of the golden reference images rendered from
// this pack.
const ReferenceSize = 64

// ImageName returns the file name used for the rendered image of a block.
func ImageName(id string) string {
	return strings.ReplaceAll(id, ":", "_") + ".png"
}

// DeepChainLength is the number of models in the parent chain of
// "minecraft:deep_block", including the leaf.
const DeepChainLength = deepChain + 4

// Files returns all entries of the base pack, keyed by archive path.
func Files() map[string][]byte {
	files := make(map[string][]byte)
	for id, js := range blockStates {
		files[resource.NewKey(resource.BlockStates, id).ArchivePath()] = []byte(js)
	}
	for id, js := range models() {
		files[resource.NewKey(resource.Models, id).ArchivePath()] = []byte(js)
	}
	for id, data := range textures() {
		files[resource.NewKey(resource.Textures, id).ArchivePath()] = data
	}
	for id, js := range textureMeta {
		files[resource.NewKey(resource.TextureMeta, id).ArchivePath()] = []byte(js)
	}
	files["pack.mcmeta"] = []byte(`{"pack":{"pack_format":15,"description":"test pack"}}`)
	return files
}

// OverrideFiles returns a second pack which replaces the stone texture by a
// plain red one.  It is used to test archive layering.
func OverrideFiles() map[string][]byte {
	key := resource.NewKey(resource.Textures, "block/stone")
	return map[string][]byte{
		key.ArchivePath(): encodePNG(solid(16, 16, OverrideColor)),
	}
}

// Layer returns the base pack as an in-memory layer.
func Layer() *resource.MemLayer {
	return resource.NewMemLayer("testpack", Files())
}

// WriteZip stores the given entries as a zip archive at path.
func WriteZip(path string, files map[string][]byte) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	zw := zip.NewWriter(f)
	for _, name := range slices.Sorted(maps.Keys(files)) {
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		if _, err := w.Write(files[name]); err != nil {
			return err
		}
	}
	return zw.Close()
}

// WriteDir stores the given entries below the directory root.
func WriteDir(root string, files map[string][]byte) error {
	for name, data := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return err
		}
	}
	return nil
}
