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

// Package resource gives read access to layered game resource archives.
//
// A [Pack] is an ordered list of layers (zip archives such as the game
// client jar, or unpacked resource pack directories).  Layers listed later
// take priority: a lookup scans the layers from last to first and returns
// the first hit.  A Pack never writes to its layers, and after [Open]
// returns all methods are safe for concurrent use.
package resource

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// package errors
var (
	ErrNotFound    = errors.New("resource not found")
	ErrClosed      = errors.New("resource pack is closed")
	ErrArchiveOpen = errors.New("cannot open archive")
)

// ArchiveOpenError reports an archive which could not be opened.
// It matches [ErrArchiveOpen] as well as the underlying error.
type ArchiveOpenError struct {
	Path string
	Err  error
}

func (e *ArchiveOpenError) Error() string {
	return fmt.Sprintf("cannot open archive %q: %v", e.Path, e.Err)
}

// Unwrap returns both the sentinel and the cause.
func (e *ArchiveOpenError) Unwrap() []error {
	return []error{ErrArchiveOpen, e.Err}
}

// Source is implemented by everything which can look up raw resources.
// [*Pack] is the main implementation.
type Source interface {
	Lookup(key Key) ([]byte, error)
}

// Options configures [Open].  The zero value is valid.
type Options struct {
	// Logger receives debug output.  If nil, nothing is logged.
	Logger logrus.FieldLogger
}

// Pack is an open resource session over one or more layers.
type Pack struct {
	layers []Layer
	log    logrus.FieldLogger

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// Open opens the archives at the given paths, in increasing order of
// priority.  If any archive cannot be opened, all layers opened so far are
// closed again and an [*ArchiveOpenError] is returned.
func Open(paths []string, opt *Options) (p *Pack, err error) {
	if opt == nil {
		opt = &Options{}
	}
	log := opt.Logger
	if log == nil {
		log = DiscardLogger()
	}

	layers := make([]Layer, 0, len(paths))
	defer func() {
		if err != nil {
			for _, l := range layers {
				l.Close()
			}
		}
	}()

	for _, path := range paths {
		l, err := OpenLayer(path)
		if err != nil {
			return nil, &ArchiveOpenError{Path: path, Err: err}
		}
		layers = append(layers, l)
		log.WithField("archive", path).Debug("opened resource layer")
	}
	if len(layers) == 0 {
		return nil, &ArchiveOpenError{Err: errors.New("no archives given")}
	}

	return &Pack{layers: layers, log: log}, nil
}

// NewPack returns a Pack over already opened layers, in increasing order of
// priority.  The Pack takes ownership of the layers.
func NewPack(layers ...Layer) *Pack {
	return &Pack{
		layers: slices.Clone(layers),
		log:    DiscardLogger(),
	}
}

// Lookup returns the contents of the resource with the given key, taken from
// the highest-priority layer which has it.
func (p *Pack) Lookup(key Key) ([]byte, error) {
	if p.closed.Load() {
		return nil, fmt.Errorf("%s: %w", key, ErrClosed)
	}

	name := key.ArchivePath()
	for i := len(p.layers) - 1; i >= 0; i-- {
		l := p.layers[i]
		data, err := l.ReadFile(name)
		if err == nil {
			p.log.WithFields(logrus.Fields{"key": key, "layer": l.Name()}).Trace("lookup hit")
			return data, nil
		}
		if !isNotExist(err) {
			return nil, fmt.Errorf("%s: reading %s: %w", key, l.Name(), err)
		}
	}
	return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
}

// Has reports whether any layer contains the resource.
func (p *Pack) Has(key Key) bool {
	_, err := p.Lookup(key)
	return err == nil
}

// List returns the keys of all resources in the given category, over all
// layers, sorted and without duplicates.  If namespace is empty, all
// namespaces are included.
func (p *Pack) List(namespace, category string) ([]Key, error) {
	if p.closed.Load() {
		return nil, ErrClosed
	}

	seen := make(map[Key]bool)
	var keys []Key
	for _, l := range p.layers {
		for _, name := range l.Entries() {
			k, ok := ParseArchivePath(name)
			if !ok || k.Category != category || seen[k] {
				continue
			}
			if namespace != "" && k.Namespace != namespace {
				continue
			}
			seen[k] = true
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, compareKeys)
	return keys, nil
}

// Layers returns the names of the layers, in increasing priority.
func (p *Pack) Layers() []string {
	names := make([]string, len(p.layers))
	for i, l := range p.layers {
		names[i] = l.Name()
	}
	return names
}

// Close releases all layers.  It is safe to call Close more than once;
// later calls return the result of the first one.  Close must not be called
// while other goroutines are still using the Pack.
func (p *Pack) Close() error {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		var errs []error
		for _, l := range p.layers {
			if err := l.Close(); err != nil {
				errs = append(errs, fmt.Errorf("closing %s: %w", l.Name(), err))
			}
		}
		p.closeErr = errors.Join(errs...)
		p.log.Debug("resource pack closed")
	})
	return p.closeErr
}

func compareKeys(a, b Key) int {
	return cmp.Or(
		cmp.Compare(a.Namespace, b.Namespace),
		cmp.Compare(a.Category, b.Category),
		cmp.Compare(a.Path, b.Path),
	)
}

// DiscardLogger returns a logger which drops all messages.
func DiscardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
