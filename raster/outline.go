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

package raster

import (
	"math"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// Outline strokes the boundaries of closed polygons with a line of the
// given width (in user space units).  Corners are drawn using the join
// style; miter joins whose miter length exceeds miterLimit times the line
// width are drawn as bevels.
//
// The stroke is assembled from one quadrilateral per polygon side plus
// one piece per corner.  All pieces are brought into the same orientation
// and filled together with the nonzero rule, so overlaps are painted once.
func (r *Rasteriser) Outline(polys [][]vec.Vec2, width float64, join graphics.LineJoinStyle, miterLimit float64, emit EmitFunc) {
	if width <= 0 {
		return
	}
	d := width / 2
	r.pieces = r.pieces[:0]
	r.pieceStart = r.pieceStart[:0]

	for _, poly := range polys {
		poly = dropRepeats(poly)
		n := len(poly)
		if n < 2 {
			continue
		}
		for i := range n {
			a, b, c := poly[i], poly[(i+1)%n], poly[(i+2)%n]
			t1, ok1 := unit(b.Sub(a))
			if !ok1 {
				continue
			}
			n1 := vec.Vec2{X: -t1.Y, Y: t1.X}
			r.addPiece(a.Add(n1.Mul(d)), b.Add(n1.Mul(d)), b.Sub(n1.Mul(d)), a.Sub(n1.Mul(d)))

			if t2, ok := unit(c.Sub(b)); ok && n > 2 {
				r.addJoin(b, t1, t2, d, join, miterLimit)
			}
		}
	}

	r.beginEdges()
	for i, start := range r.pieceStart {
		end := len(r.pieces)
		if i+1 < len(r.pieceStart) {
			end = r.pieceStart[i+1]
		}
		r.addPolygon(r.pieces[start:end])
	}
	r.sweep(NonZero, emit)
}

// addJoin adds the corner piece at p, where the direction changes from t1
// to t2.
func (r *Rasteriser) addJoin(p, t1, t2 vec.Vec2, d float64, join graphics.LineJoinStyle, miterLimit float64) {
	cos := t1.Dot(t2)
	sin := t1.X*t2.Y - t1.Y*t2.X
	if math.Abs(sin) < collinearityThreshold && cos > 0 {
		return
	}

	// the join is drawn on the outer side of the turn
	side := 1.0
	if sin > 0 {
		side = -1
	}
	o1 := vec.Vec2{X: -t1.Y, Y: t1.X}.Mul(side)
	o2 := vec.Vec2{X: -t2.Y, Y: t2.X}.Mul(side)
	p1 := p.Add(o1.Mul(d))
	p2 := p.Add(o2.Mul(d))

	switch join {
	case graphics.LineJoinRound:
		sweep := math.Acos(max(-1, min(1, cos)))
		if o1.X*o2.Y-o1.Y*o2.X < 0 {
			sweep = -sweep
		}
		steps := arcSteps(d, math.Abs(sweep))
		pts := make([]vec.Vec2, 0, steps+2)
		pts = append(pts, p)
		for i := 0; i <= steps; i++ {
			phi := sweep * float64(i) / float64(steps)
			s, c := math.Sincos(phi)
			dir := vec.Vec2{X: o1.X*c - o1.Y*s, Y: o1.X*s + o1.Y*c}
			pts = append(pts, p.Add(dir.Mul(d)))
		}
		r.addPiece(pts...)
		return

	case graphics.LineJoinMiter:
		// the miter length relative to the line width is 1/sin(φ/2), where
		// φ is the angle between the two sides at the corner
		sinHalf := math.Sqrt((1 + cos) / 2)
		if sinHalf > 0 && 1/sinHalf <= miterLimit+1e-10 {
			if bis, ok := unit(o1.Add(o2)); ok {
				r.addPiece(p, p1, p.Add(bis.Mul(d/sinHalf)), p2)
				return
			}
		}
	}

	// bevel
	r.addPiece(p, p1, p2)
}

// addPiece appends a convex polygon, reversing it if necessary so that all
// pieces have positive orientation.
func (r *Rasteriser) addPiece(pts ...vec.Vec2) {
	start := len(r.pieces)
	r.pieces = append(r.pieces, pts...)
	piece := r.pieces[start:]

	var area float64
	prev := piece[len(piece)-1]
	for _, q := range piece {
		area += prev.X*q.Y - q.X*prev.Y
		prev = q
	}
	if math.Abs(area) < zeroLengthThreshold {
		r.pieces = r.pieces[:start]
		return
	}
	if area < 0 {
		for i, j := 0, len(piece)-1; i < j; i, j = i+1, j-1 {
			piece[i], piece[j] = piece[j], piece[i]
		}
	}
	r.pieceStart = append(r.pieceStart, start)
}

// arcSteps returns the number of chords needed to approximate an arc of
// radius d to within outlineFlatness device pixels.
func arcSteps(d, sweep float64) int {
	if d <= outlineFlatness {
		return 1
	}
	step := 2 * math.Acos(1-outlineFlatness/d)
	return max(1, int(math.Ceil(sweep/step)))
}

func unit(v vec.Vec2) (vec.Vec2, bool) {
	l := v.Length()
	if l < zeroLengthThreshold {
		return vec.Vec2{}, false
	}
	return v.Mul(1 / l), true
}

// dropRepeats removes consecutive duplicate vertices, including a final
// vertex equal to the first.
func dropRepeats(poly []vec.Vec2) []vec.Vec2 {
	out := make([]vec.Vec2, 0, len(poly))
	for _, p := range poly {
		if len(out) == 0 || p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	for len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

const (
	// zeroLengthThreshold is the length below which a side is ignored.
	zeroLengthThreshold = 1e-10

	// collinearityThreshold is the sine of the angle below which two
	// consecutive sides are considered collinear.
	collinearityThreshold = 1e-6

	// outlineFlatness is the chord tolerance for round joins.
	outlineFlatness = 0.25
)
