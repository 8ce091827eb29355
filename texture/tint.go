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

package texture

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// TintFunc maps the tint index of a face to a colour.  The sampled texture
// colour is multiplied by the tint colour, channel by channel.
type TintFunc func(tintIndex int) color.NRGBA

// White is the identity tint.
var White = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// NoTint leaves all faces unchanged.
func NoTint(int) color.NRGBA {
	return White
}

// Constant returns a TintFunc which uses c for every tint index.
func Constant(c color.NRGBA) TintFunc {
	return func(int) color.NRGBA { return c }
}

// Palette assigns tint colours to tint indices.  Indices not in the palette
// are left untinted.
type Palette map[int]color.NRGBA

// Tint implements [TintFunc].
func (p Palette) Tint(i int) color.NRGBA {
	if c, ok := p[i]; ok {
		return c
	}
	return White
}

// ParseColor parses a colour in hex notation: "#7fb238", "7fb238",
// "0x7fb238" or the short form "#7b3".
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimSpace(s)
	hex = strings.TrimPrefix(strings.TrimPrefix(hex, "0x"), "#")
	c, err := colorful.Hex("#" + strings.ToLower(hex))
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// FormatColor returns the "#rrggbb" form of c, ignoring alpha.
func FormatColor(c color.NRGBA) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// Multiply applies the tint t to the colour c.  Alpha is taken from c.
func Multiply(c, t color.NRGBA) color.NRGBA {
	return color.NRGBA{
		R: mul8(c.R, t.R),
		G: mul8(c.G, t.G),
		B: mul8(c.B, t.B),
		A: c.A,
	}
}

// mul8 returns round(a*b/255).
func mul8(a, b uint8) uint8 {
	x := uint32(a)*uint32(b) + 128
	return uint8((x + x>>8) >> 8)
}
