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

package resource

import (
	"errors"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/klauspost/compress/zip"
	"golang.org/x/exp/mmap"
)

// Layer is one archive in a [Pack]. Entries are addressed by their full
// slash-separated name, for example "assets/minecraft/models/block/stone.json".
//
// Implementations must be safe for concurrent readers.
type Layer interface {
	// Name identifies the layer in log messages and errors.
	Name() string

	// ReadFile returns the contents of an entry.  If the entry does not
	// exist, the returned error matches fs.ErrNotExist.
	ReadFile(name string) ([]byte, error)

	// Entries returns the names of all regular entries, sorted.
	Entries() []string

	// Close releases the resources held by the layer.
	Close() error
}

// OpenLayer opens a zip archive or an unpacked resource directory.
func OpenLayer(path string) (Layer, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return &dirLayer{root: path}, nil
	}
	return openZipLayer(path)
}

// zipLayer is a memory-mapped zip archive.  The central directory is read
// once; afterwards entries are decompressed straight from the mapping.
type zipLayer struct {
	path  string
	ra    *mmap.ReaderAt
	index map[string]*zip.File
}

func openZipLayer(path string) (*zipLayer, error) {
	ra, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(ra, int64(ra.Len()))
	if err != nil {
		ra.Close()
		return nil, err
	}

	index := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue // directory entry
		}
		// the first entry wins for duplicate names, as in java.util.zip
		if _, seen := index[f.Name]; !seen {
			index[f.Name] = f
		}
	}

	return &zipLayer{path: path, ra: ra, index: index}, nil
}

func (z *zipLayer) Name() string {
	return z.path
}

func (z *zipLayer) ReadFile(name string) ([]byte, error) {
	f, ok := z.index[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	r, err := f.Open()
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if cerr := r.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (z *zipLayer) Entries() []string {
	return slices.Sorted(maps.Keys(z.index))
}

func (z *zipLayer) Close() error {
	return z.ra.Close()
}

// dirLayer is a resource pack unpacked into a directory.
type dirLayer struct {
	root string
}

func (d *dirLayer) Name() string {
	return d.root
}

func (d *dirLayer) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	fname := filepath.Join(d.root, filepath.FromSlash(name))
	if fi, err := os.Stat(fname); err == nil && fi.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return os.ReadFile(fname)
}

func (d *dirLayer) Entries() []string {
	var names []string
	_ = fs.WalkDir(os.DirFS(d.root), ".", func(p string, e fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtrees are skipped
		}
		if e.Type().IsRegular() {
			names = append(names, p)
		}
		return nil
	})
	slices.Sort(names)
	return names
}

func (d *dirLayer) Close() error {
	return nil
}

// MemLayer is an in-memory layer, mostly useful for tests and for
// resources generated at run time.
type MemLayer struct {
	name  string
	files map[string][]byte
}

// NewMemLayer returns a layer serving the given entries.
// The map must not be modified afterwards.
func NewMemLayer(name string, files map[string][]byte) *MemLayer {
	return &MemLayer{name: name, files: files}
}

// Name implements the [Layer] interface.
func (m *MemLayer) Name() string {
	return m.name
}

// ReadFile implements the [Layer] interface.
func (m *MemLayer) ReadFile(name string) ([]byte, error) {
	data, ok := m.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return slices.Clone(data), nil
}

// Entries implements the [Layer] interface.
func (m *MemLayer) Entries() []string {
	return slices.Sorted(maps.Keys(m.files))
}

// Close implements the [Layer] interface.
func (m *MemLayer) Close() error {
	return nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
