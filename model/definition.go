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

package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"seehuhn.de/go/blockrender/resource"
)

// Direction is one of the six axis-aligned face directions.
//
// The numeric order (down, north, east, south, west, up) is the order in
// which faces of equal depth are drawn.
type Direction uint8

// The six face directions.
const (
	Down Direction = iota
	North
	East
	South
	West
	Up
)

// Directions lists all face directions in drawing order.
var Directions = [6]Direction{Down, North, East, South, West, Up}

var directionNames = [6]string{"down", "north", "east", "south", "west", "up"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", d)
}

// ParseDirection converts a direction name to a Direction.
// The game also accepts "bottom" for down.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "down", "bottom":
		return Down, true
	case "up":
		return Up, true
	case "north":
		return North, true
	case "south":
		return South, true
	case "west":
		return West, true
	case "east":
		return East, true
	}
	return 0, false
}

// Normal returns the outward unit normal of a face, in block coordinates
// (x east, y up, z south).
func (d Direction) Normal() [3]float64 {
	switch d {
	case Down:
		return [3]float64{0, -1, 0}
	case Up:
		return [3]float64{0, 1, 0}
	case North:
		return [3]float64{0, 0, -1}
	case South:
		return [3]float64{0, 0, 1}
	case West:
		return [3]float64{-1, 0, 0}
	default:
		return [3]float64{1, 0, 0}
	}
}

// Axis names a coordinate axis of the block coordinate system.
type Axis uint8

// The three axes.
const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	return [...]string{"x", "y", "z"}[a%3]
}

// Rotation is the optional single-axis rotation of an element.
type Rotation struct {
	Origin  [3]float64
	Axis    Axis
	Angle   float64 // degrees, one of -45, -22.5, 0, 22.5, 45
	Rescale bool
}

// Face is one textured side of an element.
type Face struct {
	// UV is the texture rectangle (u1, v1, u2, v2) in 0-16 texture space.
	// If nil, the rectangle is derived from the element's extent.
	UV *[4]float64

	// Texture is the texture reference, normally a "#variable".
	Texture string

	// CullFace is the neighbour direction which hides this face, or ""
	// if the face is never culled.  Single blocks are drawn without
	// neighbours, so the renderer ignores this field.
	CullFace string

	// Rotation rotates the texture clockwise by 0, 90, 180 or 270 degrees.
	Rotation int

	// TintIndex selects a tint colour, or is -1 for untinted faces.
	TintIndex int
}

// Element is an axis-aligned cuboid of a model, in 0-16 block space.
type Element struct {
	From, To [3]float64
	Rotation *Rotation
	Shade    bool
	Faces    map[Direction]*Face
}

// Definition is a single model file, before parent models are merged in.
type Definition struct {
	Key resource.Key

	// Parent is the parent model, or nil for a root model.
	Parent *resource.Key

	// Builtin is set if the parent is one of the game's built-in
	// pseudo-models ("builtin/generated", "builtin/entity", ...),
	// which end the parent chain.
	Builtin string

	Textures         map[string]string
	Elements         []Element
	AmbientOcclusion *bool
}

type jsonModel struct {
	Parent           string            `json:"parent"`
	AmbientOcclusion *bool             `json:"ambientocclusion"`
	Textures         map[string]string `json:"textures"`
	Elements         []jsonElement     `json:"elements"`
}

type jsonElement struct {
	From     []float64 `json:"from"`
	To       []float64 `json:"to"`
	Rotation *struct {
		Origin  []float64 `json:"origin"`
		Axis    string    `json:"axis"`
		Angle   float64   `json:"angle"`
		Rescale bool      `json:"rescale"`
	} `json:"rotation"`
	Shade *bool                     `json:"shade"`
	Faces map[string]jsonElementFace `json:"faces"`
}

type jsonElementFace struct {
	UV        []float64 `json:"uv"`
	Texture   string    `json:"texture"`
	CullFace  string    `json:"cullface"`
	Rotation  int       `json:"rotation"`
	TintIndex *int      `json:"tintindex"`
}

// ParseModel decodes a model file.  Errors match [ErrParse].
func ParseModel(key resource.Key, data []byte) (*Definition, error) {
	var raw jsonModel
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", key, ErrParse, err)
	}

	def := &Definition{
		Key:              key,
		Textures:         raw.Textures,
		AmbientOcclusion: raw.AmbientOcclusion,
	}
	if def.Textures == nil {
		def.Textures = map[string]string{}
	}

	if raw.Parent != "" {
		if _, p := resource.SplitID(raw.Parent); strings.HasPrefix(p, "builtin/") {
			def.Builtin = p
		} else {
			parent := resource.NewKey(resource.Models, raw.Parent)
			def.Parent = &parent
		}
	}

	for i, je := range raw.Elements {
		el, err := je.decode()
		if err != nil {
			return nil, fmt.Errorf("%s: element %d: %w", key, i, err)
		}
		def.Elements = append(def.Elements, el)
	}
	return def, nil
}

func (je *jsonElement) decode() (Element, error) {
	var el Element
	var err error
	if el.From, err = vec3(je.From, "from"); err != nil {
		return el, err
	}
	if el.To, err = vec3(je.To, "to"); err != nil {
		return el, err
	}
	for i := range 3 {
		if el.From[i] < -16 || el.To[i] > 32 || el.From[i] > el.To[i] {
			return el, parseErrorf("extent %v-%v outside the valid range", el.From, el.To)
		}
	}

	if r := je.Rotation; r != nil {
		rot := &Rotation{Angle: r.Angle, Rescale: r.Rescale}
		if rot.Origin, err = vec3(r.Origin, "rotation origin"); err != nil {
			return el, err
		}
		switch r.Axis {
		case "x":
			rot.Axis = AxisX
		case "y":
			rot.Axis = AxisY
		case "z":
			rot.Axis = AxisZ
		default:
			return el, parseErrorf("invalid rotation axis %q", r.Axis)
		}
		switch r.Angle {
		case -45, -22.5, 0, 22.5, 45:
		default:
			return el, parseErrorf("invalid rotation angle %g", r.Angle)
		}
		el.Rotation = rot
	}

	el.Shade = je.Shade == nil || *je.Shade

	el.Faces = make(map[Direction]*Face, len(je.Faces))
	for name, jf := range je.Faces {
		dir, ok := ParseDirection(name)
		if !ok {
			return el, parseErrorf("invalid face direction %q", name)
		}
		f := &Face{
			Texture:   jf.Texture,
			Rotation:  jf.Rotation,
			TintIndex: -1,
		}
		if jf.TintIndex != nil {
			f.TintIndex = *jf.TintIndex
		}
		if jf.CullFace != "" {
			cull, ok := ParseDirection(jf.CullFace)
			if !ok {
				return el, parseErrorf("invalid cullface %q", jf.CullFace)
			}
			f.CullFace = cull.String()
		}
		switch f.Rotation {
		case 0, 90, 180, 270:
		default:
			return el, parseErrorf("%s face: invalid texture rotation %d", name, f.Rotation)
		}
		if jf.UV != nil {
			if len(jf.UV) != 4 {
				return el, parseErrorf("%s face: uv needs 4 values, got %d", name, len(jf.UV))
			}
			f.UV = &[4]float64{jf.UV[0], jf.UV[1], jf.UV[2], jf.UV[3]}
		}
		if f.Texture == "" {
			return el, parseErrorf("%s face: missing texture", name)
		}
		el.Faces[dir] = f
	}
	return el, nil
}

func vec3(v []float64, what string) ([3]float64, error) {
	if len(v) != 3 {
		return [3]float64{}, parseErrorf("%s needs 3 coordinates, got %d", what, len(v))
	}
	return [3]float64{v[0], v[1], v[2]}, nil
}

func parseErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrParse, fmt.Sprintf(format, args...))
}
