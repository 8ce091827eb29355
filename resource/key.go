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

package resource

import (
	"strings"
)

// DefaultNamespace is used for identifiers which do not name a namespace.
const DefaultNamespace = "minecraft"

// Resource categories, as used in the archive directory layout.
const (
	BlockStates = "blockstates"
	Models      = "models"
	Textures    = "textures"
	TextureMeta = "texture_meta"
)

// Key identifies a single resource inside a pack.
//
// The zero Key is not a valid resource.
type Key struct {
	Namespace string
	Category  string
	Path      string
}

// NewKey returns the key for the resource id in the given category.
// The id has the form "namespace:path"; the namespace may be omitted,
// in which case [DefaultNamespace] is used.
func NewKey(category, id string) Key {
	ns, p := SplitID(id)
	return Key{Namespace: ns, Category: category, Path: p}
}

// SplitID splits "namespace:path" into its two parts.
func SplitID(id string) (namespace, path string) {
	ns, p, ok := strings.Cut(id, ":")
	if !ok {
		return DefaultNamespace, id
	}
	if ns == "" {
		ns = DefaultNamespace
	}
	return ns, p
}

// ID returns the "namespace:path" form of the key, without the category.
func (k Key) ID() string {
	return k.Namespace + ":" + k.Path
}

func (k Key) String() string {
	return k.Namespace + ":" + k.Category + "/" + k.Path
}

// ArchivePath returns the name of the archive entry holding the resource.
func (k Key) ArchivePath() string {
	category, ext := k.Category, ".json"
	switch k.Category {
	case Textures:
		ext = ".png"
	case TextureMeta:
		category, ext = Textures, ".png.mcmeta"
	}
	return "assets/" + k.Namespace + "/" + category + "/" + k.Path + ext
}

// ParseArchivePath is the inverse of [Key.ArchivePath].
// Entries outside the asset layout are reported as not ok.
func ParseArchivePath(name string) (Key, bool) {
	rest, ok := strings.CutPrefix(name, "assets/")
	if !ok {
		return Key{}, false
	}
	parts := strings.SplitN(rest, "/", 3)
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return Key{}, false
	}
	k := Key{Namespace: parts[0], Category: parts[1]}
	switch parts[1] {
	case BlockStates, Models:
		k.Path, ok = strings.CutSuffix(parts[2], ".json")
	case Textures:
		if p, isMeta := strings.CutSuffix(parts[2], ".png.mcmeta"); isMeta {
			k.Category, k.Path, ok = TextureMeta, p, true
		} else {
			k.Path, ok = strings.CutSuffix(parts[2], ".png")
		}
	default:
		return Key{}, false
	}
	if !ok || k.Path == "" {
		return Key{}, false
	}
	return k, true
}
