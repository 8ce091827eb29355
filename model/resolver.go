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

// Package model resolves block identifiers to flattened block models.
//
// A block-state file maps block properties to model references, either
// through a table of variants or through a list of conditional parts.
// Each model may name a parent; a [Resolver] walks the parent chain and
// merges the texture variables and elements into a single [Resolved]
// model.
package model

import (
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"seehuhn.de/go/blockrender/internal/memo"
	"seehuhn.de/go/blockrender/resource"
)

// package errors
var (
	ErrParse              = errors.New("malformed resource")
	ErrCyclicParent       = errors.New("cyclic parent chain")
	ErrTooDeepInheritance = errors.New("parent chain too deep")
	ErrNoMatchingVariant  = errors.New("no matching variant")
)

// DefaultMaxDepth is the default limit for the length of a parent chain,
// including the model itself.
const DefaultMaxDepth = 16

// Resolved is a model with its parent chain merged in.
// Resolved models are shared between callers and must not be modified.
type Resolved struct {
	Key resource.Key

	// Textures maps texture variable names to either a texture id or
	// another variable ("#name").
	Textures map[string]string

	Elements         []Element
	AmbientOcclusion bool

	// Chain lists the models which were merged, starting with Key and
	// ending at the root.
	Chain []resource.Key

	// Builtin names the built-in pseudo-model at the root of the chain,
	// if any.
	Builtin string
}

// Placement is a resolved model together with the block-state rotation.
type Placement struct {
	Model  *Resolved
	X, Y   int
	UVLock bool
}

// Resolver loads block states and models from a resource source.
// The results are cached for the lifetime of the Resolver.
// A Resolver is safe for concurrent use.
type Resolver struct {
	src      resource.Source
	maxDepth int
	log      logrus.FieldLogger

	states *memo.Cache[resource.Key, *BlockState]
	defs   *memo.Cache[resource.Key, *Definition]
	models *memo.Cache[resource.Key, *Resolved]
}

// Option configures a [Resolver].
type Option func(*Resolver)

// WithMaxDepth sets the maximum length of a parent chain.
func WithMaxDepth(n int) Option {
	return func(r *Resolver) {
		r.maxDepth = n
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Resolver) {
		r.log = log
	}
}

// NewResolver returns a Resolver reading from src.
func NewResolver(src resource.Source, opts ...Option) *Resolver {
	r := &Resolver{
		src:      src,
		maxDepth: DefaultMaxDepth,
		log:      resource.DiscardLogger(),
		states:   memo.New[resource.Key, *BlockState](),
		defs:     memo.New[resource.Key, *Definition](),
		models:   memo.New[resource.Key, *Resolved](),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reset drops all cached block states and models.
func (r *Resolver) Reset() {
	r.states.Reset()
	r.defs.Reset()
	r.models.Reset()
}

// BlockState returns the parsed block-state file for a block id.
func (r *Resolver) BlockState(id string) (*BlockState, error) {
	key := resource.NewKey(resource.BlockStates, id)
	return r.states.Get(key, func() (*BlockState, error) {
		data, err := r.src.Lookup(key)
		if err != nil {
			return nil, err
		}
		return ParseBlockState(key, data)
	})
}

// Definition returns a single model file, without merging its parents.
func (r *Resolver) Definition(key resource.Key) (*Definition, error) {
	return r.defs.Get(key, func() (*Definition, error) {
		data, err := r.src.Lookup(key)
		if err != nil {
			return nil, err
		}
		return ParseModel(key, data)
	})
}

// Model returns the model with the given key, merged with its parents.
func (r *Resolver) Model(key resource.Key) (*Resolved, error) {
	return r.models.Get(key, func() (*Resolved, error) {
		return r.resolve(key)
	})
}

func (r *Resolver) resolve(key resource.Key) (*Resolved, error) {
	var chain []*Definition
	visited := make(map[resource.Key]bool)
	cur := key
	for {
		if visited[cur] {
			return nil, fmt.Errorf("model %s: %w via %s", key, ErrCyclicParent, cur)
		}
		if len(chain) >= r.maxDepth {
			return nil, fmt.Errorf("model %s: %w (limit %d)", key, ErrTooDeepInheritance, r.maxDepth)
		}
		visited[cur] = true

		def, err := r.Definition(cur)
		if err != nil {
			if cur != key {
				return nil, fmt.Errorf("model %s: parent: %w", key, err)
			}
			return nil, err
		}
		chain = append(chain, def)
		if def.Parent == nil {
			break
		}
		cur = *def.Parent
	}

	res := &Resolved{
		Key:              key,
		Textures:         make(map[string]string),
		AmbientOcclusion: true,
		Chain:            make([]resource.Key, len(chain)),
	}
	for i, def := range chain {
		res.Chain[i] = def.Key
	}
	// merge from the root towards the leaf
	for i := len(chain) - 1; i >= 0; i-- {
		def := chain[i]
		maps.Copy(res.Textures, def.Textures)
		if len(def.Elements) > 0 {
			res.Elements = def.Elements
		}
		if def.AmbientOcclusion != nil {
			res.AmbientOcclusion = *def.AmbientOcclusion
		}
		if def.Builtin != "" {
			res.Builtin = def.Builtin
		}
	}

	r.log.WithFields(logrus.Fields{
		"model":    key,
		"depth":    len(chain),
		"elements": len(res.Elements),
	}).Debug("resolved model")
	return res, nil
}

// ResolveBlock returns the models to draw for a block in the state given
// by props.  If a variant lists several weighted models, the first one is
// used.
func (r *Resolver) ResolveBlock(id string, props map[string]string) ([]Placement, error) {
	return r.resolveBlock(id, props, func(refs []ModelRef) ModelRef {
		return refs[0]
	})
}

// ResolveBlockWeighted is like [Resolver.ResolveBlock], but chooses between
// weighted alternatives at random, with probabilities proportional to the
// weights.  The choice is a deterministic function of seed.
func (r *Resolver) ResolveBlockWeighted(id string, props map[string]string, seed uint64) ([]Placement, error) {
	rng := rand.New(rand.NewPCG(seed, 0x626c6f636b))
	return r.resolveBlock(id, props, func(refs []ModelRef) ModelRef {
		return pickWeighted(refs, rng)
	})
}

func (r *Resolver) resolveBlock(id string, props map[string]string, pick func([]ModelRef) ModelRef) ([]Placement, error) {
	bs, err := r.BlockState(id)
	if err != nil {
		return nil, fmt.Errorf("block %s: %w", id, err)
	}
	layers, err := bs.Form.Select(props)
	if err != nil {
		return nil, fmt.Errorf("block %s: %w", id, err)
	}

	res := make([]Placement, 0, len(layers))
	for _, refs := range layers {
		ref := pick(refs)
		m, err := r.Model(ref.Model)
		if err != nil {
			return nil, fmt.Errorf("block %s: %w", id, err)
		}
		res = append(res, Placement{Model: m, X: ref.X, Y: ref.Y, UVLock: ref.UVLock})
	}
	return res, nil
}

func pickWeighted(refs []ModelRef, rng *rand.Rand) ModelRef {
	total := 0
	for _, ref := range refs {
		total += ref.Weight
	}
	n := rng.IntN(total)
	for _, ref := range refs {
		n -= ref.Weight
		if n < 0 {
			return ref
		}
	}
	return refs[len(refs)-1]
}
