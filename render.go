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

// Package blockrender draws isometric pictures of voxel-game blocks.
//
// A [Session] reads block states, models and textures from a stack of
// resource archives.  [Session.RenderBlock] resolves a block id to its
// models and passes them to [Render], which projects all element faces,
// sorts them back to front, and composites the shaded texture samples into
// an NRGBA image.  The output depends only on the archive contents and the
// render options.
package blockrender

//go:generate go run ./internal/testpack/export -o testdata/testpack.zip
//go:generate go run ./cmd/genref -o testdata/reference

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/blockrender/model"
	"seehuhn.de/go/blockrender/raster"
	"seehuhn.de/go/blockrender/texture"
)

// package errors
var (
	ErrEmptyModel        = errors.New("model has no visible faces")
	ErrInvalidOutputSize = errors.New("invalid output size")
)

// FitMode selects how the drawing is scaled to the output image.
type FitMode int

const (
	// FitGeometry scales the drawing so that the projected faces fill the
	// image, and centres them.
	FitGeometry FitMode = iota

	// FitBlock uses the scale and position of a full block, so that
	// partial blocks like slabs keep their size and position.
	FitBlock
)

func (m FitMode) String() string {
	switch m {
	case FitGeometry:
		return "geometry"
	case FitBlock:
		return "block"
	}
	return fmt.Sprintf("FitMode(%d)", int(m))
}

// ParseFitMode converts the name of a fit mode to a FitMode.
func ParseFitMode(s string) (FitMode, error) {
	switch s {
	case "", "geometry":
		return FitGeometry, nil
	case "block":
		return FitBlock, nil
	}
	return 0, fmt.Errorf("unknown fit mode %q", s)
}

// Outline describes lines drawn along the face edges.
type Outline struct {
	Width      float64 // in output pixels
	Color      color.NRGBA
	Join       graphics.LineJoinStyle
	MiterLimit float64
}

// Options control the appearance of a rendered block.
// The zero value, and a nil *Options, select the defaults.
type Options struct {
	// Padding is the empty margin on each side, as a fraction of the
	// image size.  It must be in the range [0, 0.5).
	Padding float64

	Fit FitMode

	// Tint maps the tint indices of faces to colours.  If nil, faces are
	// drawn untinted.
	Tint texture.TintFunc

	// Outline, if set, draws the edges of every face.
	Outline *Outline
}

var defaultOptions = &Options{}

// Render draws the placed models into a new size×size image.
//
// Every face of every element is drawn, including faces turned away from
// the viewer; these are covered by the faces in front of them unless the
// textures are transparent.  Texture lookups which fail abort the render.
func Render(placements []model.Placement, textures texture.Source, size int, opts *Options) (*image.NRGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOutputSize, size)
	}
	if opts == nil {
		opts = defaultOptions
	}
	if opts.Padding < 0 || opts.Padding >= 0.5 {
		return nil, fmt.Errorf("%w: padding %g", ErrInvalidOutputSize, opts.Padding)
	}

	quads, err := buildScene(placements, textures, isometric)
	if err != nil {
		return nil, err
	}
	if len(quads) == 0 {
		return nil, ErrEmptyModel
	}

	ctm, ok := fitTransform(quads, size, opts)
	if !ok {
		return nil, ErrEmptyModel
	}

	tint := opts.Tint
	if tint == nil {
		tint = texture.NoTint
	}

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	acc := newAccumulator(size)
	silhouette := &path.Data{}
	clip := rect.Rect{URx: float64(size), URy: float64(size)}
	r := raster.New(clip)
	for i := range quads {
		q := &quads[i]
		if q.front {
			addFace(silhouette, q)
		}
		r.Reset(clip)
		r.CTM = ctm
		drawQuad(img, acc, r, q, ctm, tint)
		if opts.Outline != nil {
			drawOutline(img, acc, r, q, ctm, opts.Outline)
		}
	}

	// Faces are anti-aliased one at a time, which leaves pixels along
	// shared edges partly transparent.  The front faces together cover the
	// silhouette without overlap, and its coverage gives the true opacity.
	r.Reset(clip)
	r.CTM = ctm
	r.FillNonZero(silhouette, func(y, xMin int, coverage []float32) {
		for i, c := range coverage {
			if c > 0 {
				acc.closeSeam(img, xMin+i, y, float64(c))
			}
		}
	})
	return img, nil
}

// addFace appends the boundary of q to p as a closed subpath.  All
// subpaths are given the same orientation, so that the nonzero rule fills
// their union.
func addFace(p *path.Data, q *quad) {
	pts := q.pts
	var area float64
	for i, a := range pts {
		b := pts[(i+1)%4]
		area += a.X*b.Y - b.X*a.Y
	}
	if math.Abs(area) < 1e-12 {
		return
	}
	if area < 0 {
		pts[1], pts[3] = pts[3], pts[1]
	}
	p.MoveTo(pts[0]).LineTo(pts[1]).LineTo(pts[2]).LineTo(pts[3]).Close()
}

// fitTransform returns the map from the image plane to output pixels.
func fitTransform(quads []quad, size int, opts *Options) (matrix.Matrix, bool) {
	var pts []vec.Vec2
	for _, q := range quads {
		pts = append(pts, q.pts[:]...)
	}
	geom := bounds(pts)

	box := geom
	if opts.Fit == FitBlock {
		box = isometric.blockBounds()
	}
	extent := max(box.URx-box.LLx, box.URy-box.LLy)
	if extent < 1e-9 || max(geom.URx-geom.LLx, geom.URy-geom.LLy) < 1e-9 {
		return matrix.Matrix{}, false
	}

	s := float64(size)
	scale := s * (1 - 2*opts.Padding) / extent
	cx := (box.LLx + box.URx) / 2
	cy := (box.LLy + box.URy) / 2
	return matrix.Scale(scale, scale).Translate(s/2-scale*cx, s/2-scale*cy), true
}

// drawQuad composites one textured face onto img.
func drawQuad(img *image.NRGBA, acc *accumulator, r *raster.Rasteriser, q *quad, ctm matrix.Matrix, tint texture.TintFunc) {
	toUV, ok := textureMap(q, ctm)
	if !ok {
		return
	}
	tex := q.tex.Image
	tw, th := tex.Bounds().Dx(), tex.Bounds().Dy()
	tintColor := texture.White
	if q.tint >= 0 {
		tintColor = tint(q.tint)
	}

	r.FillPolygon(q.pts[:], raster.NonZero, func(y, xMin int, coverage []float32) {
		py := float64(y) + 0.5
		for i, c := range coverage {
			if c <= 0 {
				continue
			}
			x := xMin + i
			px := float64(x) + 0.5
			u := toUV[0]*px + toUV[2]*py + toUV[4]
			v := toUV[1]*px + toUV[3]*py + toUV[5]
			tx := clampIndex(int(math.Floor(u/16*float64(tw))), tw)
			ty := clampIndex(int(math.Floor(v/16*float64(th))), th)

			texel := tex.NRGBAAt(tex.Rect.Min.X+tx, tex.Rect.Min.Y+ty)
			acc.add(x, y, float64(texel.A)/255, float64(c))
			if texel.A == 0 {
				continue
			}
			if q.tint >= 0 {
				texel = texture.Multiply(texel, tintColor)
			}
			over(img, x, y, texel, q.light, float64(c))
		}
	})
}

// drawOutline strokes the edges of a face.
func drawOutline(img *image.NRGBA, acc *accumulator, r *raster.Rasteriser, q *quad, ctm matrix.Matrix, o *Outline) {
	scale := math.Sqrt(math.Abs(ctm[0]*ctm[3] - ctm[1]*ctm[2]))
	if o.Width <= 0 || scale == 0 {
		return
	}
	limit := o.MiterLimit
	if limit <= 0 {
		limit = 10
	}
	r.Outline([][]vec.Vec2{q.pts[:]}, o.Width/scale, o.Join, limit, func(y, xMin int, coverage []float32) {
		for i, c := range coverage {
			if c > 0 {
				acc.add(xMin+i, y, float64(o.Color.A)/255, float64(c))
				over(img, xMin+i, y, o.Color, 1, float64(c))
			}
		}
	})
}

// textureMap returns the affine map from output pixel coordinates to the
// texture coordinates of a face.  Faces seen edge-on have no such map.
func textureMap(q *quad, ctm matrix.Matrix) (matrix.Matrix, bool) {
	p0 := apply(ctm, q.pts[0])
	e1 := apply(ctm, q.pts[1]).Sub(p0)
	e2 := apply(ctm, q.pts[3]).Sub(p0)
	det := e1.X*e2.Y - e2.X*e1.Y
	if math.Abs(det) < 1e-9 {
		return matrix.Matrix{}, false
	}

	// pixel -> face parameters (a, b), with p = p0 + a*e1 + b*e2
	toFace := matrix.Matrix{
		e2.Y / det, -e1.Y / det,
		-e2.X / det, e1.X / det,
		0, 0,
	}
	toFace[4] = -(toFace[0]*p0.X + toFace[2]*p0.Y)
	toFace[5] = -(toFace[1]*p0.X + toFace[3]*p0.Y)

	// face parameters -> texture coordinates
	f1 := q.uv[1].Sub(q.uv[0])
	f2 := q.uv[3].Sub(q.uv[0])
	toTex := matrix.Matrix{f1.X, f1.Y, f2.X, f2.Y, q.uv[0].X, q.uv[0].Y}

	return compose(toFace, toTex), true
}

// apply transforms the point p by m.
func apply(m matrix.Matrix, p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// compose returns the transformation which applies first a, then b.
func compose(a, b matrix.Matrix) matrix.Matrix {
	return matrix.Matrix{
		a[0]*b[0] + a[1]*b[2],
		a[0]*b[1] + a[1]*b[3],
		a[2]*b[0] + a[3]*b[2],
		a[2]*b[1] + a[3]*b[3],
		a[4]*b[0] + a[5]*b[2] + b[4],
		a[4]*b[1] + a[5]*b[3] + b[5],
	}
}

func clampIndex(i, n int) int {
	return max(0, min(i, n-1))
}
