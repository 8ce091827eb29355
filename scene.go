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
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/blockrender/model"
	"seehuhn.de/go/blockrender/texture"
)

// quad is one textured face of the scene, projected onto the image plane.
type quad struct {
	// pts are the corners in image-plane block units, in the order
	// top-left, top-right, bottom-right, bottom-left of the texture.
	pts [4]vec.Vec2

	// uv are the texture coordinates of the corners, in 0-16 texture
	// space.
	uv [4]vec.Vec2

	depth   float64
	element int // index of the element in the whole scene
	dir     model.Direction
	front   bool // turned towards the camera

	tex   *texture.Texture
	tint  int
	light float64
}

// buildScene converts the placed models into a list of projected faces,
// sorted into drawing order.
func buildScene(placements []model.Placement, textures texture.Source, cam camera) ([]quad, error) {
	var quads []quad
	element := 0
	for _, pl := range placements {
		if pl.Model == nil {
			continue
		}
		blockRot := blockRotation(pl.X, pl.Y)
		lockUV := pl.UVLock && (pl.X%360 != 0 || pl.Y%360 != 0)

		for _, el := range pl.Model.Elements {
			m := blockRot.Mul4(elementRotation(el.Rotation))

			for _, dir := range model.Directions {
				f := el.Faces[dir]
				if f == nil {
					continue
				}
				tex, err := textures.Resolve(pl.Model, f.Texture)
				if err != nil {
					return nil, fmt.Errorf("model %s, %s face: %w", pl.Model.Key, dir, err)
				}

				corners := faceCorners(dir, el.From, el.To)
				var world [4]mgl64.Vec3
				for i, c := range corners {
					world[i] = mgl64.TransformCoordinate(c, m)
				}
				normal := mgl64.TransformNormal(mgl64.Vec3(dir.Normal()), m).Normalize()

				q := quad{
					element: element,
					dir:     dir,
					tex:     tex,
					tint:    f.TintIndex,
					light:   1,
					front:   cam.facing(normal),
				}
				if el.Shade {
					q.light = lightLevel(normal)
				}
				if lockUV {
					q.uv = lockedUV(world, normal)
				} else {
					q.uv = faceUV(dir, el.From, el.To, f)
				}
				for i, w := range world {
					p := w.Mul(1.0 / 16).Sub(mgl64.Vec3{0.5, 0.5, 0.5})
					pt, d := cam.project(p)
					q.pts[i] = pt
					q.depth += d / 4
				}
				quads = append(quads, q)
			}
			element++
		}
	}

	sortQuads(quads)
	return quads, nil
}

// sortQuads puts the faces into painter's order: far faces first, ties
// broken by element order and then by face direction.
func sortQuads(quads []quad) {
	slices.SortStableFunc(quads, func(a, b quad) int {
		if c := cmp.Compare(b.depth, a.depth); c != 0 {
			return c
		}
		if c := cmp.Compare(a.element, b.element); c != 0 {
			return c
		}
		return cmp.Compare(a.dir, b.dir)
	})
}

// blockRotation returns the block-state rotation about the block centre,
// first x then y.  Positive angles turn clockwise when looking along the
// positive axis towards the origin.
func blockRotation(x, y int) mgl64.Mat4 {
	if x%360 == 0 && y%360 == 0 {
		return mgl64.Ident4()
	}
	rot := mgl64.HomogRotate3DY(-mgl64.DegToRad(float64(y))).
		Mul4(mgl64.HomogRotate3DX(-mgl64.DegToRad(float64(x))))
	return mgl64.Translate3D(8, 8, 8).Mul4(rot).Mul4(mgl64.Translate3D(-8, -8, -8))
}

// elementRotation returns the rotation of an element about its origin.
// With rescaling, the two axes orthogonal to the rotation axis are
// stretched so that the element keeps its extent across the block.
func elementRotation(r *model.Rotation) mgl64.Mat4 {
	if r == nil || r.Angle == 0 {
		return mgl64.Ident4()
	}
	var axis mgl64.Vec3
	axis[r.Axis] = 1
	angle := mgl64.DegToRad(r.Angle)
	rot := mgl64.HomogRotate3D(angle, axis)
	if r.Rescale {
		s := mgl64.Vec3{1, 1, 1}.Mul(1 / math.Cos(angle))
		s[r.Axis] = 1
		rot = mgl64.Scale3D(s[0], s[1], s[2]).Mul4(rot)
	}
	o := r.Origin
	return mgl64.Translate3D(o[0], o[1], o[2]).Mul4(rot).Mul4(mgl64.Translate3D(-o[0], -o[1], -o[2]))
}

// faceCorners returns the corners of one face of the box spanned by from
// and to, in 0-16 block space.  The corners are listed in the order
// top-left, top-right, bottom-right, bottom-left of the unrotated
// texture, seen from outside the box.
func faceCorners(dir model.Direction, from, to [3]float64) [4]mgl64.Vec3 {
	f, t := from, to
	switch dir {
	case model.Down:
		return [4]mgl64.Vec3{{f[0], f[1], t[2]}, {t[0], f[1], t[2]}, {t[0], f[1], f[2]}, {f[0], f[1], f[2]}}
	case model.Up:
		return [4]mgl64.Vec3{{f[0], t[1], f[2]}, {t[0], t[1], f[2]}, {t[0], t[1], t[2]}, {f[0], t[1], t[2]}}
	case model.North:
		return [4]mgl64.Vec3{{t[0], t[1], f[2]}, {f[0], t[1], f[2]}, {f[0], f[1], f[2]}, {t[0], f[1], f[2]}}
	case model.South:
		return [4]mgl64.Vec3{{f[0], t[1], t[2]}, {t[0], t[1], t[2]}, {t[0], f[1], t[2]}, {f[0], f[1], t[2]}}
	case model.West:
		return [4]mgl64.Vec3{{f[0], t[1], f[2]}, {f[0], t[1], t[2]}, {f[0], f[1], t[2]}, {f[0], f[1], f[2]}}
	default: // East
		return [4]mgl64.Vec3{{t[0], t[1], t[2]}, {t[0], t[1], f[2]}, {t[0], f[1], f[2]}, {t[0], f[1], t[2]}}
	}
}

// uvAt returns the texture coordinates which a point in 0-16 block space
// has on a face pointing in direction dir, when the texture is mapped
// straight onto the block.
func uvAt(dir model.Direction, p mgl64.Vec3) vec.Vec2 {
	switch dir {
	case model.Down:
		return vec.Vec2{X: p[0], Y: 16 - p[2]}
	case model.Up:
		return vec.Vec2{X: p[0], Y: p[2]}
	case model.North:
		return vec.Vec2{X: 16 - p[0], Y: 16 - p[1]}
	case model.South:
		return vec.Vec2{X: p[0], Y: 16 - p[1]}
	case model.West:
		return vec.Vec2{X: p[2], Y: 16 - p[1]}
	default: // East
		return vec.Vec2{X: 16 - p[2], Y: 16 - p[1]}
	}
}

// faceUV returns the texture coordinates of the face corners, as listed by
// faceCorners.  Without an explicit UV rectangle, the face shows the part
// of the texture which lies under the face.
func faceUV(dir model.Direction, from, to [3]float64, f *model.Face) [4]vec.Vec2 {
	var r [4]float64
	if f.UV != nil {
		r = *f.UV
	} else {
		c := faceCorners(dir, from, to)
		tl, br := uvAt(dir, c[0]), uvAt(dir, c[2])
		r = [4]float64{tl.X, tl.Y, br.X, br.Y}
	}
	rect := [4]vec.Vec2{{X: r[0], Y: r[1]}, {X: r[2], Y: r[1]}, {X: r[2], Y: r[3]}, {X: r[0], Y: r[3]}}

	k := (f.Rotation / 90) % 4
	var uv [4]vec.Vec2
	for i := range uv {
		uv[i] = rect[(i-k+4)%4]
	}
	return uv
}

// lockedUV returns texture coordinates for a face of a rotated block with
// locked UVs: the texture is aligned with the block grid after rotation.
func lockedUV(world [4]mgl64.Vec3, normal mgl64.Vec3) [4]vec.Vec2 {
	dir := nearestDirection(normal)
	var uv [4]vec.Vec2
	for i, p := range world {
		uv[i] = uvAt(dir, p)
	}
	return uv
}

// nearestDirection returns the face direction closest to the vector n.
func nearestDirection(n mgl64.Vec3) model.Direction {
	best := model.Up
	bestDot := math.Inf(-1)
	for _, dir := range model.Directions {
		if d := n.Dot(mgl64.Vec3(dir.Normal())); d > bestDot {
			best, bestDot = dir, d
		}
	}
	return best
}

// lightLevel returns the brightness of a face with outward normal n.
// Axis-aligned faces get 1.0 (up), 0.5 (down), 0.8 (north and south) and
// 0.6 (east and west); other normals are blended between these.
func lightLevel(n mgl64.Vec3) float64 {
	up := 1.0
	if n[1] < 0 {
		up = 0.5
	}
	return min(n[0]*n[0]*0.6+n[1]*n[1]*up+n[2]*n[2]*0.8, 1)
}
