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

package testpack

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
)

// Colours used by the generated textures.
var (
	StoneColor    = color.NRGBA{R: 0x7d, G: 0x7d, B: 0x7d, A: 0xff}
	OverrideColor = color.NRGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}
	GlassColor    = color.NRGBA{R: 0xda, G: 0xf0, B: 0xf4, A: 0xff}
	GrassTopColor = color.NRGBA{R: 0x93, G: 0x93, B: 0x93, A: 0xff}
	PlanksColor   = color.NRGBA{R: 0xa2, G: 0x82, B: 0x4e, A: 0xff}

	// GlassStreakAlpha is the alpha value of the diagonal streak inside the
	// otherwise clear glass texture.
	GlassStreakAlpha uint8 = 0x60

	// SeaLanternFrames are the colours of the three animation frames.
	SeaLanternFrames = [3]color.NRGBA{
		{R: 0xac, G: 0xc8, B: 0xbe, A: 0xff},
		{R: 0x54, G: 0x6f, B: 0x68, A: 0xff},
		{R: 0xe0, G: 0xf0, B: 0xea, A: 0xff},
	}
)

func textures() map[string][]byte {
	res := map[string][]byte{
		"block/stone":            encodePNG(speckled(16, 16, StoneColor, 1)),
		"block/glass":            encodePNG(glass()),
		"block/dirt":             encodePNG(speckled(16, 16, color.NRGBA{R: 0x86, G: 0x60, B: 0x43, A: 0xff}, 2)),
		"block/grass_block_top":  encodePNG(speckled(16, 16, GrassTopColor, 3)),
		"block/grass_block_side": encodePNG(banded(color.NRGBA{R: 0x5d, G: 0x8c, B: 0x3c, A: 0xff}, color.NRGBA{R: 0x86, G: 0x60, B: 0x43, A: 0xff}, 4)),
		"block/grass_block_snow": encodePNG(banded(color.NRGBA{R: 0xf4, G: 0xfc, B: 0xfc, A: 0xff}, color.NRGBA{R: 0x86, G: 0x60, B: 0x43, A: 0xff}, 5)),
		"block/oak_planks":       encodePNG(speckled(16, 16, PlanksColor, 4)),
		"block/poppy":            encodePNG(poppy()),
		"block/sea_lantern":      encodePNG(strip(SeaLanternFrames[:])),
		"block/not_a_png":        []byte("this is not a png file\n"),
	}
	res["testmod:block/ruby"] = encodePNG(speckled(16, 16, color.NRGBA{R: 0xd0, G: 0x1c, B: 0x3a, A: 0xff}, 5))
	return res
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// speckled returns an opaque texture whose pixels vary slightly around c.
// The pattern is a fixed function of seed, so the generated pack is
// reproducible.
func speckled(w, h int, c color.NRGBA, seed uint32) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	state := seed*2654435761 + 1
	for y := range h {
		for x := range w {
			state = state*1664525 + 1013904223
			d := int(state>>28) - 8 // -8..7
			img.SetNRGBA(x, y, color.NRGBA{
				R: clampByte(int(c.R) + d),
				G: clampByte(int(c.G) + d),
				B: clampByte(int(c.B) + d),
				A: c.A,
			})
		}
	}
	return img
}

// banded returns a side texture with a top band of colour top, the rest
// filled with colour body.
func banded(top, body color.NRGBA, rows int) *image.NRGBA {
	img := solid(16, 16, body)
	for y := range rows {
		for x := range 16 {
			img.SetNRGBA(x, y, top)
		}
	}
	return img
}

// glass returns a texture with an opaque one-pixel frame, a clear interior,
// and a partially transparent diagonal streak.
func glass() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := range 16 {
		for x := range 16 {
			switch {
			case x == 0 || y == 0 || x == 15 || y == 15:
				img.SetNRGBA(x, y, GlassColor)
			case x == y || x == y+1:
				c := GlassColor
				c.A = GlassStreakAlpha
				img.SetNRGBA(x, y, c)
			}
		}
	}
	return img
}

// poppy returns a mostly transparent flower texture.
func poppy() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	stem := color.NRGBA{R: 0x2c, G: 0x6e, B: 0x1c, A: 0xff}
	petal := color.NRGBA{R: 0xd3, G: 0x1e, B: 0x1e, A: 0xff}
	for y := 8; y < 16; y++ {
		img.SetNRGBA(7, y, stem)
	}
	for y := 3; y < 8; y++ {
		for x := 5; x < 10; x++ {
			img.SetNRGBA(x, y, petal)
		}
	}
	return img
}

// strip returns a vertical animation strip with one 16×16 frame per colour.
func strip(frames []color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16*len(frames)))
	for i, c := range frames {
		for y := range 16 {
			for x := range 16 {
				img.SetNRGBA(x, 16*i+y, c)
			}
		}
	}
	return img
}

func encodePNG(img image.Image) []byte {
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		panic(err) // encoding to memory cannot fail for NRGBA images
	}
	return buf.Bytes()
}

func clampByte(v int) uint8 {
	return uint8(min(max(v, 0), 255))
}
