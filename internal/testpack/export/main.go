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

// Command export writes the synthetic test pack to a zip archive, for
// inspection or for use with the blockrender tool.
// Run from the module root directory.
package main

import (
	"flag"
	"os"
	"path/filepath"

	"seehuhn.de/go/blockrender/internal/testpack"
)

func main() {
	out := flag.String("o", "testdata/testpack.zip", "output file")
	override := flag.String("override", "", "also write the override pack to this file")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		panic(err)
	}
	if err := testpack.WriteZip(*out, testpack.Files()); err != nil {
		panic(err)
	}
	if *override != "" {
		if err := testpack.WriteZip(*override, testpack.OverrideFiles()); err != nil {
			panic(err)
		}
	}
}
