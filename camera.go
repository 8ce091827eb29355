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
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// The fixed view direction.  The camera looks down at the block from the
// south-east, so that the top, south and east faces are visible.
const (
	cameraPitch = 30  // degrees below the horizon
	cameraYaw   = 225 // compass-style heading, 0 = south, 90 = east
)

// camera is an orthographic projection of centred block space (one unit
// per block, origin at the block centre) onto the image plane.
type camera struct {
	view mgl64.Mat4
}

func newCamera(pitch, yaw float64) camera {
	p, y := mgl64.DegToRad(pitch), mgl64.DegToRad(yaw)
	forward := mgl64.Vec3{
		math.Cos(p) * math.Sin(y),
		-math.Sin(p),
		math.Cos(p) * math.Cos(y),
	}
	eye := forward.Mul(-4)
	return camera{
		view: mgl64.LookAtV(eye, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}),
	}
}

var isometric = newCamera(cameraPitch, cameraYaw)

// project maps p to the image plane, with x pointing right and y pointing
// down.  The second return value is the distance from the camera plane.
func (c camera) project(p mgl64.Vec3) (vec.Vec2, float64) {
	q := c.view.Mul4x1(p.Vec4(1))
	return vec.Vec2{X: q[0], Y: -q[1]}, -q[2]
}

// facing reports whether a surface with normal n is turned towards the
// camera.
func (c camera) facing(n mgl64.Vec3) bool {
	return mgl64.TransformNormal(n, c.view)[2] > 1e-9
}

// blockBounds returns the image-plane bounding box of a full block.
func (c camera) blockBounds() rect.Rect {
	var pts []vec.Vec2
	for i := range 8 {
		corner := mgl64.Vec3{-0.5, -0.5, -0.5}
		for axis := range 3 {
			if i&(1<<axis) != 0 {
				corner[axis] = 0.5
			}
		}
		pt, _ := c.project(corner)
		pts = append(pts, pt)
	}
	return bounds(pts)
}

// bounds returns the smallest rectangle containing all points.
func bounds(pts []vec.Vec2) rect.Rect {
	if len(pts) == 0 {
		return rect.Rect{}
	}
	b := rect.Rect{LLx: pts[0].X, LLy: pts[0].Y, URx: pts[0].X, URy: pts[0].Y}
	for _, p := range pts[1:] {
		b.LLx = min(b.LLx, p.X)
		b.LLy = min(b.LLy, p.Y)
		b.URx = max(b.URx, p.X)
		b.URy = max(b.URy, p.Y)
	}
	return b
}
