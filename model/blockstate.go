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

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"seehuhn.de/go/blockrender/resource"
)

// ModelRef is a reference from a block state to a model, together with the
// rotation to apply.
type ModelRef struct {
	Model  resource.Key
	X, Y   int // rotation in degrees, one of 0, 90, 180, 270
	UVLock bool
	Weight int
}

// BlockState describes how the properties of a block select its models.
// Form is either [Variants] or [Multipart].
type BlockState struct {
	Key  resource.Key
	Form Form
}

// Form is one of the two block-state forms.  Select returns the model
// layers for the given properties.  Each layer is a list of weighted
// alternatives, of which exactly one is drawn.
type Form interface {
	Select(props map[string]string) ([][]ModelRef, error)
}

// Variants maps property combinations to models.  The slice keeps the
// declaration order of the block-state file.
type Variants []Variant

// Variant is one entry of a [Variants] form.
type Variant struct {
	Props string // canonical property string, see [CanonicalProps]
	Refs  []ModelRef
}

// Select implements the [Form] interface.
//
// Without properties, the variant "" is used if present, then "default",
// then "normal" (used by older packs), then the first declared variant.  Otherwise an
// exact match of the canonical property string wins.  Failing that, the
// first variant which does not contradict any of the given properties is
// used, so callers may omit properties they do not care about.
func (v Variants) Select(props map[string]string) ([][]ModelRef, error) {
	if len(v) == 0 {
		return nil, ErrNoMatchingVariant
	}

	if len(props) == 0 {
		for _, name := range []string{"", "default", "normal"} {
			if i := slices.IndexFunc(v, func(x Variant) bool { return x.Props == name }); i >= 0 {
				return [][]ModelRef{v[i].Refs}, nil
			}
		}
		return [][]ModelRef{v[0].Refs}, nil
	}

	want := CanonicalProps(props)
	for _, x := range v {
		if x.Props == want {
			return [][]ModelRef{x.Refs}, nil
		}
	}
	for _, x := range v {
		if compatible(x.Props, props) {
			return [][]ModelRef{x.Refs}, nil
		}
	}
	return nil, fmt.Errorf("%w for %q", ErrNoMatchingVariant, want)
}

// compatible reports whether no property in the canonical string
// contradicts props.
func compatible(canonical string, props map[string]string) bool {
	for _, pair := range splitProps(canonical) {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		if have, set := props[k]; set && have != v {
			return false
		}
	}
	return true
}

// Multipart is a list of conditional model layers.  All parts whose
// condition matches are drawn, in declaration order.
type Multipart []Part

// Part is one entry of a [Multipart] form.  A nil When always matches.
type Part struct {
	When  Condition
	Apply []ModelRef
}

// Select implements the [Form] interface.
func (m Multipart) Select(props map[string]string) ([][]ModelRef, error) {
	var res [][]ModelRef
	for _, p := range m {
		if p.When == nil || p.When.Match(props) {
			res = append(res, p.Apply)
		}
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoMatchingVariant, CanonicalProps(props))
	}
	return res, nil
}

// Condition is a predicate over block properties.
type Condition interface {
	Match(props map[string]string) bool
}

// AnyOf matches if at least one of its conditions matches.
type AnyOf []Condition

// Match implements the [Condition] interface.
func (c AnyOf) Match(props map[string]string) bool {
	for _, sub := range c {
		if sub.Match(props) {
			return true
		}
	}
	return false
}

// AllOf matches if all of its conditions match.
type AllOf []Condition

// Match implements the [Condition] interface.
func (c AllOf) Match(props map[string]string) bool {
	for _, sub := range c {
		if !sub.Match(props) {
			return false
		}
	}
	return true
}

// PropertyIs matches if every named property has one of the listed values.
type PropertyIs map[string][]string

// Match implements the [Condition] interface.
func (c PropertyIs) Match(props map[string]string) bool {
	for k, values := range c {
		have, ok := props[k]
		if !ok || !slices.Contains(values, have) {
			return false
		}
	}
	return true
}

// CanonicalProps returns the canonical form of a property map:
// "key=value" pairs sorted by key and joined by commas.
func CanonicalProps(props map[string]string) string {
	keys := slices.Sorted(maps.Keys(props))
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + props[k]
	}
	return strings.Join(pairs, ",")
}

// ParseProps is the inverse of [CanonicalProps].  It accepts the pairs in
// any order.
func ParseProps(s string) (map[string]string, error) {
	props := make(map[string]string)
	for _, pair := range splitProps(s) {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("malformed property %q", pair)
		}
		props[k] = v
	}
	return props, nil
}

func splitProps(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// canonicalVariantKey sorts the pairs of a variant key.  Keys without
// "=" (such as "normal") are returned unchanged.
func canonicalVariantKey(s string) string {
	if !strings.Contains(s, "=") {
		return s
	}
	pairs := splitProps(s)
	slices.Sort(pairs)
	return strings.Join(pairs, ",")
}

type jsonModelRef struct {
	Model  string `json:"model"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	UVLock bool   `json:"uvlock"`
	Weight *int   `json:"weight"`
}

// ParseBlockState decodes a block-state file.  Errors match [ErrParse].
func ParseBlockState(key resource.Key, data []byte) (*BlockState, error) {
	var raw struct {
		Variants  json.RawMessage `json:"variants"`
		Multipart []struct {
			When  json.RawMessage `json:"when"`
			Apply json.RawMessage `json:"apply"`
		} `json:"multipart"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", key, ErrParse, err)
	}

	hasVariants := len(raw.Variants) > 0 && !bytes.Equal(raw.Variants, []byte("null"))
	switch {
	case hasVariants && raw.Multipart != nil:
		return nil, fmt.Errorf("%s: %w", key, parseErrorf("both variants and multipart given"))
	case !hasVariants && raw.Multipart == nil:
		return nil, fmt.Errorf("%s: %w", key, parseErrorf("neither variants nor multipart given"))
	}

	bs := &BlockState{Key: key}
	if hasVariants {
		members, err := orderedObject(raw.Variants)
		if err != nil {
			return nil, fmt.Errorf("%s: variants: %w", key, err)
		}
		vv := make(Variants, 0, len(members))
		for _, m := range members {
			refs, err := parseRefs(m.value)
			if err != nil {
				return nil, fmt.Errorf("%s: variant %q: %w", key, m.name, err)
			}
			vv = append(vv, Variant{Props: canonicalVariantKey(m.name), Refs: refs})
		}
		bs.Form = vv
		return bs, nil
	}

	mp := make(Multipart, 0, len(raw.Multipart))
	for i, part := range raw.Multipart {
		refs, err := parseRefs(part.Apply)
		if err != nil {
			return nil, fmt.Errorf("%s: part %d: %w", key, i, err)
		}
		var when Condition
		if len(part.When) > 0 && !bytes.Equal(part.When, []byte("null")) {
			when, err = parseCondition(part.When)
			if err != nil {
				return nil, fmt.Errorf("%s: part %d: %w", key, i, err)
			}
		}
		mp = append(mp, Part{When: when, Apply: refs})
	}
	bs.Form = mp
	return bs, nil
}

// parseRefs decodes a single model reference or a list of weighted ones.
func parseRefs(data json.RawMessage) ([]ModelRef, error) {
	var list []jsonModelRef
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
	} else {
		var single jsonModelRef
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		list = append(list, single)
	}
	if len(list) == 0 {
		return nil, parseErrorf("empty model list")
	}

	refs := make([]ModelRef, len(list))
	for i, r := range list {
		if r.Model == "" {
			return nil, parseErrorf("missing model")
		}
		x, ok1 := quarterTurn(r.X)
		y, ok2 := quarterTurn(r.Y)
		if !ok1 || !ok2 {
			return nil, parseErrorf("rotation x=%d y=%d is not a multiple of 90", r.X, r.Y)
		}
		weight := 1
		if r.Weight != nil {
			weight = *r.Weight
		}
		if weight < 1 {
			return nil, parseErrorf("invalid weight %d", weight)
		}
		refs[i] = ModelRef{
			Model:  blockModelKey(r.Model),
			X:      x,
			Y:      y,
			UVLock: r.UVLock,
			Weight: weight,
		}
	}
	return refs, nil
}

// blockModelKey converts a model name from a block-state file to a key.
// Packs from before the 1.13 flattening name block models without the
// "block/" directory.
func blockModelKey(name string) resource.Key {
	key := resource.NewKey(resource.Models, name)
	if !strings.Contains(key.Path, "/") {
		key.Path = "block/" + key.Path
	}
	return key
}

func quarterTurn(deg int) (int, bool) {
	if deg%90 != 0 {
		return 0, false
	}
	return ((deg % 360) + 360) % 360, true
}

func parseCondition(data json.RawMessage) (Condition, error) {
	members, err := orderedObject(data)
	if err != nil {
		return nil, err
	}

	if len(members) == 1 && (members[0].name == "OR" || members[0].name == "AND") {
		var subs []json.RawMessage
		if err := json.Unmarshal(members[0].value, &subs); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrParse, members[0].name, err)
		}
		conds := make([]Condition, len(subs))
		for i, sub := range subs {
			conds[i], err = parseCondition(sub)
			if err != nil {
				return nil, err
			}
		}
		if members[0].name == "OR" {
			return AnyOf(conds), nil
		}
		return AllOf(conds), nil
	}

	c := make(PropertyIs, len(members))
	for _, m := range members {
		s, err := scalarString(m.value)
		if err != nil {
			return nil, fmt.Errorf("condition %q: %w", m.name, err)
		}
		c[m.name] = strings.Split(s, "|")
	}
	return c, nil
}

// scalarString returns a JSON string, boolean or number as a string.
// Some packs write `"north": true` instead of `"north": "true"`.
func scalarString(data json.RawMessage) (string, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return "", fmt.Errorf("%w: %w", ErrParse, err)
	}
	switch v := v.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	}
	return "", parseErrorf("value %s is not a scalar", data)
}

type member struct {
	name  string
	value json.RawMessage
}

// orderedObject decodes a JSON object into its members, keeping the
// order of the file.
func orderedObject(data json.RawMessage) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if tok != json.Delim('{') {
		return nil, parseErrorf("expected an object")
	}

	var res []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		name := tok.(string) // object keys are always strings
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		res = append(res, member{name: name, value: value})
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return res, nil
}
