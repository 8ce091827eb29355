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

// Command genref generates the reference images for the renderer tests.
// It renders every well-formed block of the synthetic test pack and stores
// the images as PNG files.  Run from the module root directory, and check
// the images by eye before committing them.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"seehuhn.de/go/blockrender"
	"seehuhn.de/go/blockrender/internal/testpack"
	"seehuhn.de/go/blockrender/resource"
)

func main() {
	refDir := flag.String("o", "testdata/reference", "output directory")
	flag.Parse()

	if err := os.MkdirAll(*refDir, 0755); err != nil {
		panic(err)
	}

	s := blockrender.NewSession(resource.NewPack(testpack.Layer()), nil)
	defer s.Close()

	for _, id := range testpack.Blocks {
		img, err := s.RenderBlock(id, nil, testpack.ReferenceSize, nil)
		if err != nil {
			panic(fmt.Errorf("%s: %w", id, err))
		}
		if err := writePNG(filepath.Join(*refDir, testpack.ImageName(id)), img); err != nil {
			panic(fmt.Errorf("%s: %w", id, err))
		}
		fmt.Println(id)
	}
}

func writePNG(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
