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
	"fmt"
	"image"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"seehuhn.de/go/blockrender/model"
	"seehuhn.de/go/blockrender/resource"
	"seehuhn.de/go/blockrender/texture"
)

// SessionOptions configure a [Session].  The zero value is valid.
type SessionOptions struct {
	// Logger receives debug output.  If nil, nothing is logged.
	Logger logrus.FieldLogger

	// MaxDepth limits the length of model parent chains.  If zero,
	// [model.DefaultMaxDepth] is used.
	MaxDepth int
}

// Session renders blocks from one set of resource archives.  The parsed
// models and decoded textures are cached for the lifetime of the session.
// A Session is safe for concurrent use.
type Session struct {
	pack     *resource.Pack
	models   *model.Resolver
	textures *texture.Manager
	log      logrus.FieldLogger
	closed   atomic.Bool
}

// Open starts a session over the archives at the given paths.  Later
// archives override resources of earlier ones.
func Open(paths []string, opt *SessionOptions) (*Session, error) {
	if opt == nil {
		opt = &SessionOptions{}
	}
	pack, err := resource.Open(paths, &resource.Options{Logger: opt.Logger})
	if err != nil {
		return nil, err
	}
	return NewSession(pack, opt), nil
}

// NewSession starts a session over an open resource pack.  The session
// takes ownership of the pack.
func NewSession(pack *resource.Pack, opt *SessionOptions) *Session {
	if opt == nil {
		opt = &SessionOptions{}
	}
	log := opt.Logger
	if log == nil {
		log = resource.DiscardLogger()
	}
	ropts := []model.Option{model.WithLogger(log)}
	if opt.MaxDepth > 0 {
		ropts = append(ropts, model.WithMaxDepth(opt.MaxDepth))
	}
	return &Session{
		pack:     pack,
		models:   model.NewResolver(pack, ropts...),
		textures: texture.NewManager(pack, log),
		log:      log,
	}
}

// Pack returns the underlying resource pack.
func (s *Session) Pack() *resource.Pack {
	return s.pack
}

// Models returns the model resolver of the session.
func (s *Session) Models() *model.Resolver {
	return s.models
}

// Textures returns the texture manager of the session.
func (s *Session) Textures() *texture.Manager {
	return s.textures
}

// ResolveBlock returns the models which make up a block in the state
// given by props.
func (s *Session) ResolveBlock(id string, props map[string]string) ([]model.Placement, error) {
	if s.closed.Load() {
		return nil, resource.ErrClosed
	}
	return s.models.ResolveBlock(id, props)
}

// RenderBlock resolves a block and renders it into a size×size image.
func (s *Session) RenderBlock(id string, props map[string]string, size int, opts *Options) (*image.NRGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("block %s: %w: %d", id, ErrInvalidOutputSize, size)
	}
	placements, err := s.ResolveBlock(id, props)
	if err != nil {
		return nil, err
	}
	img, err := Render(placements, s.textures, size, opts)
	if err != nil {
		return nil, fmt.Errorf("block %s: %w", id, err)
	}
	s.log.WithFields(logrus.Fields{
		"block":  id,
		"models": len(placements),
		"size":   size,
	}).Debug("rendered block")
	return img, nil
}

// Close releases the archives and drops the cached models and textures.
// Afterwards, all methods which need to read resources fail with
// [resource.ErrClosed], including those of [Session.Models] and
// [Session.Textures].
func (s *Session) Close() error {
	s.closed.Store(true)
	err := s.pack.Close()
	s.log.WithFields(logrus.Fields{
		"layers":   s.pack.Layers(),
		"textures": s.textures.Len(),
	}).Debug("session closed")
	s.models.Reset()
	s.textures.Reset()
	return err
}
