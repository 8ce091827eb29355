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

// Package raster computes anti-aliased pixel coverage for polygons.
//
// Coverage is the exact area of the polygon inside each pixel, computed by
// accumulating signed edge contributions per scanline.  Results are
// delivered row by row through an [EmitFunc], so that callers can
// composite directly into their own pixel buffers.
package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// EmitFunc receives the coverage values for pixels xMin, xMin+1, ... of
// row y.  The slice is only valid for the duration of the call.
type EmitFunc func(y, xMin int, coverage []float32)

// Rule selects how overlapping parts of a path are filled.
type Rule int

// The two fill rules.
const (
	NonZero Rule = iota
	EvenOdd
)

// edge is a line segment in device coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64
}

func (e *edge) yMin() float64 { return min(e.y0, e.y1) }
func (e *edge) yMax() float64 { return max(e.y0, e.y1) }

// xAt returns the x coordinate of the edge's line at height y.
func (e *edge) xAt(y float64) float64 {
	return e.x0 + e.dxdy*(y-e.y0)
}

// Rasteriser converts polygons to pixel coverage values.
// A Rasteriser keeps its buffers between calls, so reusing one instance
// for many polygons avoids allocations.  It must not be used concurrently.
type Rasteriser struct {
	// CTM maps user coordinates to device coordinates.
	// It must be non-singular.
	CTM matrix.Matrix

	// Clip is the output region in device coordinates.  It must have
	// integer coordinates.
	Clip rect.Rect

	// bufferedLimit is the largest bounding box area (in pixels) for which
	// a full 2D accumulation buffer is used.  Larger polygons are swept
	// with an active edge list instead.
	bufferedLimit int

	edges     []edge
	active    []int
	cover     []float32
	area      []float32
	rowLo     []int
	rowHi     []int
	crossings []float64

	// device-space bounding box of r.edges
	bbox    rect.Rect
	bboxSet bool

	// outline pieces, see Outline
	pieces     []vec.Vec2
	pieceStart []int
}

// New returns a Rasteriser with the identity CTM.
func New(clip rect.Rect) *Rasteriser {
	return &Rasteriser{
		CTM:           matrix.Identity,
		Clip:          clip,
		bufferedLimit: bufferedLimit,
	}
}

// Reset restores the initial state for a new clip rectangle, keeping the
// capacity of the internal buffers.
func (r *Rasteriser) Reset(clip rect.Rect) {
	r.CTM = matrix.Identity
	r.Clip = clip
	r.edges = r.edges[:0]
	r.active = r.active[:0]
	r.pieces = r.pieces[:0]
	r.pieceStart = r.pieceStart[:0]
}

// FillNonZero fills p using the nonzero winding rule.
func (r *Rasteriser) FillNonZero(p *path.Data, emit EmitFunc) {
	r.Fill(p, NonZero, emit)
}

// Fill fills p using the given rule.  Every subpath is treated as closed.
// The path must consist of straight line segments; a curve segment is
// replaced by the straight line to its end point.
func (r *Rasteriser) Fill(p *path.Data, rule Rule, emit EmitFunc) {
	r.beginEdges()

	var cur, start vec.Vec2
	open := false
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			if open {
				r.addEdge(cur, start)
			}
			cur = p.Coords[k]
			start = cur
			open = true
			k++
		case path.CmdLineTo:
			r.addEdge(cur, p.Coords[k])
			cur = p.Coords[k]
			k++
		case path.CmdQuadTo:
			r.addEdge(cur, p.Coords[k+1])
			cur = p.Coords[k+1]
			k += 2
		case path.CmdCubeTo:
			r.addEdge(cur, p.Coords[k+2])
			cur = p.Coords[k+2]
			k += 3
		case path.CmdClose:
			r.addEdge(cur, start)
			cur = start
			open = false
		}
	}
	if open {
		r.addEdge(cur, start)
	}

	r.sweep(rule, emit)
}

// FillPolygon fills the closed polygon with the given vertices.
func (r *Rasteriser) FillPolygon(poly []vec.Vec2, rule Rule, emit EmitFunc) {
	r.beginEdges()
	r.addPolygon(poly)
	r.sweep(rule, emit)
}

func (r *Rasteriser) beginEdges() {
	r.edges = r.edges[:0]
	r.bboxSet = false
}

func (r *Rasteriser) addPolygon(poly []vec.Vec2) {
	if len(poly) < 3 {
		return
	}
	prev := poly[len(poly)-1]
	for _, p := range poly {
		r.addEdge(prev, p)
		prev = p
	}
}

// addEdge transforms a segment to device space and appends it to the edge
// list.  Horizontal segments carry no coverage and are dropped.
func (r *Rasteriser) addEdge(a, b vec.Vec2) {
	m := &r.CTM
	x0 := m[0]*a.X + m[2]*a.Y + m[4]
	y0 := m[1]*a.X + m[3]*a.Y + m[5]
	x1 := m[0]*b.X + m[2]*b.Y + m[4]
	y1 := m[1]*b.X + m[3]*b.Y + m[5]

	dy := y1 - y0
	if math.Abs(dy) < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{x0: x0, y0: y0, x1: x1, y1: y1, dxdy: (x1 - x0) / dy})

	box := rect.Rect{LLx: min(x0, x1), LLy: min(y0, y1), URx: max(x0, x1), URy: max(y0, y1)}
	if !r.bboxSet {
		r.bbox = box
		r.bboxSet = true
		return
	}
	r.bbox.LLx = min(r.bbox.LLx, box.LLx)
	r.bbox.LLy = min(r.bbox.LLy, box.LLy)
	r.bbox.URx = max(r.bbox.URx, box.URx)
	r.bbox.URy = max(r.bbox.URy, box.URy)
}

// pixelBounds returns the pixel range covered by the edges, clipped.
func (r *Rasteriser) pixelBounds() (x0, x1, y0, y1 int, ok bool) {
	if len(r.edges) == 0 {
		return 0, 0, 0, 0, false
	}
	x0 = max(int(math.Floor(r.bbox.LLx)), int(r.Clip.LLx))
	x1 = min(int(math.Floor(r.bbox.URx))+1, int(r.Clip.URx))
	y0 = max(int(math.Floor(r.bbox.LLy)), int(r.Clip.LLy))
	y1 = min(int(math.Floor(r.bbox.URy))+1, int(r.Clip.URy))
	return x0, x1, y0, y1, x0 < x1 && y0 < y1
}

func (r *Rasteriser) sweep(rule Rule, emit EmitFunc) {
	x0, x1, y0, y1, ok := r.pixelBounds()
	if !ok {
		return
	}
	if (x1-x0)*(y1-y0) < r.bufferedLimit {
		r.sweepBuffered(x0, x1, y0, y1, rule, emit)
	} else {
		r.sweepActive(x0, x1, y0, y1, rule, emit)
	}
}

// Each pixel accumulates two quantities while the edges are scanned:
//
//	cover: the signed vertical extent of all edge pieces inside the pixel
//	area:  the same, weighted by the fraction of the pixel to the right
//	       of the edge piece
//
// Walking a row from left to right, the coverage of a pixel is the sum of
// cover over all pixels to its left plus its own area value.  Edges left of
// the clip region are folded into the first pixel.

// accumulate adds the contribution of e to row y.
func (r *Rasteriser) accumulate(e *edge, y int, cover, area []float32, xMin, xMax int) {
	top := max(float64(y), e.yMin())
	bot := min(float64(y+1), e.yMax())
	if bot <= top {
		return
	}
	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xa, xb := e.xAt(top), e.xAt(bot)
	left := int(math.Floor(min(xa, xb)))
	right := int(math.Floor(max(xa, xb)))

	switch {
	case right < xMin:
		c := sign * float32(bot-top)
		cover[0] += c
		area[0] += c
		return
	case left >= xMax:
		return
	case left == right:
		r.deposit(e, top, bot, sign, cover, area, xMin, xMax)
		return
	}

	// split the piece where it crosses vertical pixel boundaries
	r.crossings = append(r.crossings[:0], top, bot)
	for x := left + 1; x <= right; x++ {
		yx := e.y0 + (float64(x)-e.x0)/e.dxdy
		if yx > top && yx < bot {
			r.crossings = append(r.crossings, yx)
		}
	}
	slices.Sort(r.crossings)
	for i := 1; i < len(r.crossings); i++ {
		r.deposit(e, r.crossings[i-1], r.crossings[i], sign, cover, area, xMin, xMax)
	}
}

// deposit adds an edge piece which lies within a single pixel column.
func (r *Rasteriser) deposit(e *edge, top, bot float64, sign float32, cover, area []float32, xMin, xMax int) {
	if bot <= top {
		return
	}
	c := sign * float32(bot-top)
	xm := e.xAt((top + bot) / 2)
	pix := int(math.Floor(xm))
	switch {
	case pix < xMin:
		cover[0] += c
		area[0] += c
	case pix < xMax:
		i := pix - xMin
		cover[i] += c
		area[i] += c * float32(1-(xm-float64(pix)))
	}
}

// integrate turns the accumulated values of one row into coverage,
// in place in cover.
func integrate(cover, area []float32, rule Rule) {
	var acc float32
	for i := range cover {
		v := acc + area[i]
		acc += cover[i]
		if v < 0 {
			v = -v
		}
		if rule == EvenOdd {
			v -= 2 * float32(int(v/2))
			if v > 1 {
				v = 2 - v
			}
		} else if v > 1 {
			v = 1
		}
		cover[i] = v
	}
}

// emitRow passes the non-zero part of a row to emit.
func emitRow(y, xMin int, coverage []float32, emit EmitFunc) {
	lo, hi := 0, len(coverage)
	for lo < hi && coverage[lo] == 0 {
		lo++
	}
	for hi > lo && coverage[hi-1] == 0 {
		hi--
	}
	if lo < hi {
		emit(y, xMin+lo, coverage[lo:hi])
	}
}

// xSpan returns the pixel column of the middle of e within row y, clamped
// to [xMin, xMax).
func (e *edge) xSpan(y, xMin, xMax int) (int, bool) {
	top := max(float64(y), e.yMin())
	bot := min(float64(y+1), e.yMax())
	if bot <= top {
		return 0, false
	}
	x := int(math.Floor(e.xAt((top + bot) / 2)))
	return min(max(x, xMin), xMax-1), true
}

// sweepBuffered accumulates all rows into one 2D buffer, then integrates.
func (r *Rasteriser) sweepBuffered(xMin, xMax, yMin, yMax int, rule Rule, emit EmitFunc) {
	w, h := xMax-xMin, yMax-yMin
	r.cover = slices.Grow(r.cover[:0], w*h)[:w*h]
	r.area = slices.Grow(r.area[:0], w*h)[:w*h]
	clear(r.cover)
	clear(r.area)
	r.rowLo = slices.Grow(r.rowLo[:0], h)[:h]
	r.rowHi = slices.Grow(r.rowHi[:0], h)[:h]
	for i := range h {
		r.rowLo[i] = xMax
		r.rowHi[i] = xMin - 1
	}

	for i := range r.edges {
		e := &r.edges[i]
		ya := max(int(math.Floor(e.yMin())), yMin)
		yb := min(int(math.Floor(e.yMax()))+1, yMax)
		for y := ya; y < yb; y++ {
			row := y - yMin
			off := row * w
			r.accumulate(e, y, r.cover[off:off+w], r.area[off:off+w], xMin, xMax)
			if x, ok := e.xSpan(y, xMin, xMax); ok {
				r.rowLo[row] = min(r.rowLo[row], x)
				r.rowHi[row] = max(r.rowHi[row], x)
			}
		}
	}

	for row := range h {
		if r.rowHi[row] < r.rowLo[row] {
			continue
		}
		off := row * w
		cov := r.cover[off : off+w]
		integrate(cov, r.area[off:off+w], rule)
		emitRow(yMin+row, xMin, cov, emit)
	}
}

// sweepActive processes one row at a time, keeping a list of the edges
// which intersect the current row.
func (r *Rasteriser) sweepActive(xMin, xMax, yMin, yMax int, rule Rule, emit EmitFunc) {
	w := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], w)[:w]
	r.area = slices.Grow(r.area[:0], w)[:w]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(a.yMin(), b.yMin())
	})
	r.active = r.active[:0]
	next := 0

	for y := yMin; y < yMax; y++ {
		for next < len(r.edges) && r.edges[next].yMin() < float64(y+1) {
			r.active = append(r.active, next)
			next++
		}
		if len(r.active) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		touched := false
		for i := 0; i < len(r.active); {
			e := &r.edges[r.active[i]]
			if e.yMax() <= float64(y) {
				last := len(r.active) - 1
				r.active[i] = r.active[last]
				r.active = r.active[:last]
				continue
			}
			r.accumulate(e, y, r.cover, r.area, xMin, xMax)
			if _, ok := e.xSpan(y, xMin, xMax); ok {
				touched = true
			}
			i++
		}
		if !touched {
			continue
		}

		integrate(r.cover, r.area, rule)
		emitRow(y, xMin, r.cover, emit)
	}
}

const (
	// horizontalEdgeThreshold is the smallest vertical extent for which an
	// edge contributes to coverage.
	horizontalEdgeThreshold = 1e-10

	// bufferedLimit is the default for Rasteriser.bufferedLimit.
	bufferedLimit = 65536
)
