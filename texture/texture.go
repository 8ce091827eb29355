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

// Package texture resolves texture references of block models to decoded
// images.
//
// Model faces refer to textures through variables ("#side"), which may in
// turn refer to other variables.  A [Manager] follows these references to
// a texture id, loads the PNG file, and caches the decoded image.
// Tint colours are applied by the renderer and never stored in the cache.
package texture

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"

	"seehuhn.de/go/blockrender/internal/memo"
	"seehuhn.de/go/blockrender/model"
	"seehuhn.de/go/blockrender/resource"
)

// package errors
var (
	ErrDecode           = errors.New("cannot decode texture")
	ErrCyclicTextureRef = errors.New("cyclic texture reference")
)

// MaxIndirections is the maximum number of variable references followed
// when resolving a texture.
const MaxIndirections = 16

// Texture is a decoded texture image.  Textures are shared between callers
// and must not be modified.
type Texture struct {
	Key   resource.Key
	Image *image.NRGBA

	// Frames is the number of animation frames in the source file.
	// Only the first frame is kept in Image.
	Frames int
}

// Source is implemented by everything which can supply textures for model
// faces.  [*Manager] is the main implementation.
type Source interface {
	Resolve(m *model.Resolved, ref string) (*Texture, error)
}

// Manager loads and caches textures.  A Manager is safe for concurrent use.
type Manager struct {
	src   resource.Source
	log   logrus.FieldLogger
	cache *memo.Cache[resource.Key, *Texture]
}

// NewManager returns a Manager which reads textures from src.
// If log is nil, nothing is logged.
func NewManager(src resource.Source, log logrus.FieldLogger) *Manager {
	if log == nil {
		log = resource.DiscardLogger()
	}
	return &Manager{
		src:   src,
		log:   log,
		cache: memo.New[resource.Key, *Texture](),
	}
}

// Resolve returns the texture for the reference ref of a face of m.
func (m *Manager) Resolve(mod *model.Resolved, ref string) (*Texture, error) {
	key, err := ResolveKey(mod, ref)
	if err != nil {
		return nil, err
	}
	return m.Load(key)
}

// ResolveKey follows texture variables until a texture id is reached.
//
// A reference which resolves to an undefined variable gives an error
// matching [resource.ErrNotFound].
func ResolveKey(mod *model.Resolved, ref string) (resource.Key, error) {
	cur := ref
	for range MaxIndirections + 1 {
		name, isVar := strings.CutPrefix(cur, "#")
		if !isVar {
			return resource.NewKey(resource.Textures, cur), nil
		}
		next, ok := mod.Textures[name]
		if !ok {
			return resource.Key{}, fmt.Errorf("model %s: texture variable %q: %w",
				mod.Key, cur, resource.ErrNotFound)
		}
		cur = next
	}
	return resource.Key{}, fmt.Errorf("model %s: texture %q: %w", mod.Key, ref, ErrCyclicTextureRef)
}

// Load returns the texture with the given key.
func (m *Manager) Load(key resource.Key) (*Texture, error) {
	return m.cache.Get(key, func() (*Texture, error) {
		data, err := m.src.Lookup(key)
		if err != nil {
			return nil, err
		}
		src, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %w", key, ErrDecode, err)
		}

		fw, fh := m.frameSize(key, src.Bounds())
		b := src.Bounds()
		frames := max(b.Dy()/fh, 1)
		img := image.NewNRGBA(image.Rect(0, 0, fw, fh))
		draw.Draw(img, img.Bounds(), src, b.Min, draw.Src)

		m.log.WithFields(logrus.Fields{
			"texture": key,
			"size":    fmt.Sprintf("%dx%d", fw, fh),
			"frames":  frames,
		}).Debug("loaded texture")
		return &Texture{Key: key, Image: img, Frames: frames}, nil
	})
}

// frameSize returns the size of the first animation frame.  Animated
// textures are vertical strips of frames; the frame size is taken from
// the texture's .mcmeta file if it gives one, and is square otherwise.
func (m *Manager) frameSize(key resource.Key, b image.Rectangle) (int, int) {
	w, h := b.Dx(), b.Dy()

	metaKey := key
	metaKey.Category = resource.TextureMeta
	data, err := m.src.Lookup(metaKey)
	if err != nil {
		return w, h
	}
	var meta struct {
		Animation *struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		} `json:"animation"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		m.log.WithError(err).WithField("texture", key).Warn("ignoring malformed texture metadata")
		return w, h
	}
	if meta.Animation == nil {
		return w, h
	}

	fw, fh := meta.Animation.Width, meta.Animation.Height
	switch {
	case fw == 0 && fh == 0:
		fw, fh = min(w, h), min(w, h)
	case fw == 0:
		fw = w
	case fh == 0:
		fh = fw
	}
	return min(fw, w), min(fh, h)
}

// Reset drops all cached textures.
func (m *Manager) Reset() {
	m.cache.Reset()
}

// Len returns the number of cached textures.
func (m *Manager) Len() int {
	return m.cache.Len()
}
