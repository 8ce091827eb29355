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

package blockrender

import (
	"image"
	"image/color"
	"math"
)

// over composites the colour c, with its RGB channels scaled by light and
// its alpha scaled by coverage, onto the pixel (x, y) of img.
// Both colours are non-premultiplied.
func over(img *image.NRGBA, x, y int, c color.NRGBA, light, coverage float64) {
	sa := float64(c.A) / 255 * coverage
	if sa <= 0 {
		return
	}
	i := img.PixOffset(x, y)
	pix := img.Pix[i : i+4 : i+4]

	da := float64(pix[3]) / 255
	outA := sa + da*(1-sa)
	if outA <= 0 {
		return
	}
	wd := da * (1 - sa)
	channel := func(src uint8, dst uint8) uint8 {
		s := float64(src) / 255 * light
		d := float64(dst) / 255
		return to8((s*sa + d*wd) / outA)
	}
	pix[0] = channel(c.R, pix[0])
	pix[1] = channel(c.G, pix[1])
	pix[2] = channel(c.B, pix[2])
	pix[3] = to8(outA)
}

// accumulator tracks, for every pixel, the alpha composited so far and the
// alpha which the same coverage would have produced with opaque colours.
type accumulator struct {
	stride int
	alpha  []float64
	cover  []float64
}

func newAccumulator(size int) *accumulator {
	return &accumulator{
		stride: size,
		alpha:  make([]float64, size*size),
		cover:  make([]float64, size*size),
	}
}

// add records that a colour with the given alpha was composited onto
// pixel (x, y) with the given coverage.
func (a *accumulator) add(x, y int, alpha, coverage float64) {
	i := y*a.stride + x
	a.alpha[i] += alpha * coverage * (1 - a.alpha[i])
	a.cover[i] += coverage * (1 - a.cover[i])
}

// closeSeam raises the alpha of pixel (x, y) to the opacity of the
// silhouette, which covers the given fraction of the pixel.  The ratio of
// composited to opaque alpha is kept, so transparent texels stay
// transparent.  Alpha is never lowered.
func (a *accumulator) closeSeam(img *image.NRGBA, x, y int, silhouette float64) {
	i := y*a.stride + x
	cover := a.cover[i]
	if cover <= 0 || silhouette <= cover {
		return
	}
	v := to8(a.alpha[i] / cover * silhouette)
	off := img.PixOffset(x, y)
	if v > img.Pix[off+3] {
		img.Pix[off+3] = v
	}
}

// to8 converts a value in [0, 1] to the range 0-255, rounding to the
// nearest integer.
func to8(v float64) uint8 {
	return uint8(math.Round(max(0, min(v, 1)) * 255))
}
