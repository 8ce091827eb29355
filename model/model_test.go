package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/blockrender/internal/testpack"
	"seehuhn.de/go/blockrender/resource"
)

func newTestResolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()
	p := resource.NewPack(testpack.Layer())
	t.Cleanup(func() { p.Close() })
	return NewResolver(p, opts...)
}

func TestResolveAllBlocks(t *testing.T) {
	r := newTestResolver(t)
	for _, id := range testpack.Blocks {
		pl, err := r.ResolveBlock(id, nil)
		require.NoError(t, err, id)
		require.NotEmpty(t, pl, id)
		for _, p := range pl {
			assert.NotEmpty(t, p.Model.Elements, id)
		}
	}
}

func TestResolveMissingBlock(t *testing.T) {
	r := newTestResolver(t)
	_, err := r.ResolveBlock("minecraft:unobtainium", nil)
	assert.ErrorIs(t, err, resource.ErrNotFound)
	assert.Contains(t, err.Error(), "minecraft:unobtainium")

	_, err = r.ResolveBlock("missing_model_block", nil)
	assert.ErrorIs(t, err, resource.ErrNotFound)
}

func TestResolveDeterministic(t *testing.T) {
	a := newTestResolver(t)
	b := newTestResolver(t)
	for _, id := range testpack.Blocks {
		pa, err := a.ResolveBlock(id, nil)
		require.NoError(t, err)
		pb, err := b.ResolveBlock(id, nil)
		require.NoError(t, err)
		assert.Equal(t, pa, pb, id)

		// cached results are shared
		again, err := a.ResolveBlock(id, nil)
		require.NoError(t, err)
		for i := range pa {
			assert.Same(t, pa[i].Model, again[i].Model)
		}
	}
}

func TestMerge(t *testing.T) {
	r := newTestResolver(t)
	m, err := r.Model(resource.NewKey(resource.Models, "block/stone"))
	require.NoError(t, err)

	assert.Equal(t, []resource.Key{
		resource.NewKey(resource.Models, "block/stone"),
		resource.NewKey(resource.Models, "block/cube_all"),
		resource.NewKey(resource.Models, "block/cube"),
		resource.NewKey(resource.Models, "block/block"),
	}, m.Chain)

	// child textures overlay the parent's
	assert.Equal(t, "minecraft:block/stone", m.Textures["all"])
	assert.Equal(t, "#all", m.Textures["north"])

	// elements are inherited from block/cube
	require.Len(t, m.Elements, 1)
	el := m.Elements[0]
	assert.Equal(t, [3]float64{0, 0, 0}, el.From)
	assert.Equal(t, [3]float64{16, 16, 16}, el.To)
	assert.Len(t, el.Faces, 6)
	assert.Equal(t, "#up", el.Faces[Up].Texture)
	assert.Equal(t, -1, el.Faces[Up].TintIndex)
	assert.True(t, el.Shade)
	assert.True(t, m.AmbientOcclusion)

	// the cross model switches ambient occlusion off and has its own elements
	poppy, err := r.Model(resource.NewKey(resource.Models, "block/poppy"))
	require.NoError(t, err)
	assert.False(t, poppy.AmbientOcclusion)
	require.Len(t, poppy.Elements, 2)
	require.NotNil(t, poppy.Elements[0].Rotation)
	assert.Equal(t, AxisY, poppy.Elements[0].Rotation.Axis)
	assert.Equal(t, 45.0, poppy.Elements[0].Rotation.Angle)
	assert.True(t, poppy.Elements[0].Rotation.Rescale)
	assert.False(t, poppy.Elements[0].Shade)
}

func TestCyclicParent(t *testing.T) {
	r := newTestResolver(t)
	_, err := r.ResolveBlock("cycle_block", nil)
	assert.ErrorIs(t, err, ErrCyclicParent)
	assert.Contains(t, err.Error(), "cycle_block")
}

func TestTooDeep(t *testing.T) {
	r := newTestResolver(t)
	_, err := r.ResolveBlock("deep_block", nil)
	assert.ErrorIs(t, err, ErrTooDeepInheritance)

	// with a larger limit the same chain resolves
	r = newTestResolver(t, WithMaxDepth(testpack.DeepChainLength))
	pl, err := r.ResolveBlock("deep_block", nil)
	require.NoError(t, err)
	assert.Len(t, pl[0].Model.Chain, testpack.DeepChainLength)

	r = newTestResolver(t, WithMaxDepth(testpack.DeepChainLength-1))
	_, err = r.ResolveBlock("deep_block", nil)
	assert.ErrorIs(t, err, ErrTooDeepInheritance)
}

func TestBrokenBlockState(t *testing.T) {
	r := newTestResolver(t)
	_, err := r.ResolveBlock("broken_block", nil)
	assert.ErrorIs(t, err, ErrParse)
}

func TestVariantSelection(t *testing.T) {
	r := newTestResolver(t)
	stairs := resource.NewKey(resource.Models, "block/oak_stairs")

	cases := []struct {
		props  map[string]string
		x, y   int
		uvlock bool
	}{
		{nil, 0, 0, false}, // first declared
		{map[string]string{"facing": "east", "half": "bottom", "shape": "straight"}, 0, 0, false},
		{map[string]string{"shape": "straight", "half": "bottom", "facing": "south"}, 0, 90, true},
		{map[string]string{"facing": "north"}, 0, 270, true}, // partial
		{map[string]string{"facing": "north", "half": "top"}, 180, 270, true},
		{map[string]string{"facing": "west", "waterlogged": "false"}, 0, 180, true},
	}
	for _, c := range cases {
		pl, err := r.ResolveBlock("oak_stairs", c.props)
		require.NoError(t, err, c.props)
		require.Len(t, pl, 1)
		assert.Equal(t, stairs, pl[0].Model.Key)
		assert.Equal(t, c.x, pl[0].X, c.props)
		assert.Equal(t, c.y, pl[0].Y, c.props)
		assert.Equal(t, c.uvlock, pl[0].UVLock, c.props)
	}

	_, err := r.ResolveBlock("oak_stairs", map[string]string{"facing": "up"})
	assert.ErrorIs(t, err, ErrNoMatchingVariant)
}

func TestDefaultVariant(t *testing.T) {
	r := newTestResolver(t)

	// "normal" is used by packs from before the flattening, and the model
	// name "stone" refers to block/stone
	pl, err := r.ResolveBlock("old_stone", nil)
	require.NoError(t, err)
	assert.Equal(t, resource.NewKey(resource.Models, "block/stone"), pl[0].Model.Key)

	// the first of several weighted models
	pl, err = r.ResolveBlock("weighted_stone", nil)
	require.NoError(t, err)
	assert.Equal(t, resource.NewKey(resource.Models, "block/stone"), pl[0].Model.Key)
	assert.Equal(t, 0, pl[0].Y)

	// snowy=false is declared first
	pl, err = r.ResolveBlock("grass_block", nil)
	require.NoError(t, err)
	assert.Equal(t, resource.NewKey(resource.Models, "block/grass_block"), pl[0].Model.Key)
	pl, err = r.ResolveBlock("grass_block", map[string]string{"snowy": "true"})
	require.NoError(t, err)
	assert.Equal(t, resource.NewKey(resource.Models, "block/grass_block_snow"), pl[0].Model.Key)
}

func TestDefaultVariantNames(t *testing.T) {
	ref := func(name string) []ModelRef {
		return []ModelRef{{Model: resource.NewKey(resource.Models, name)}}
	}
	cases := []struct {
		variants Variants
		want     string
	}{
		{Variants{{Props: "facing=east", Refs: ref("a")}, {Props: "default", Refs: ref("b")}}, "b"},
		{Variants{{Props: "normal", Refs: ref("a")}, {Props: "default", Refs: ref("b")}}, "b"},
		{Variants{{Props: "default", Refs: ref("a")}, {Props: "", Refs: ref("b")}}, "b"},
		{Variants{{Props: "facing=east", Refs: ref("a")}, {Props: "normal", Refs: ref("b")}}, "b"},
		{Variants{{Props: "facing=east", Refs: ref("a")}, {Props: "facing=west", Refs: ref("b")}}, "a"},
	}
	for i, c := range cases {
		sel, err := c.variants.Select(nil)
		require.NoError(t, err, i)
		require.Len(t, sel, 1)
		assert.Equal(t, c.want, sel[0][0].Model.Path, i)
	}
}

func TestWeighted(t *testing.T) {
	r := newTestResolver(t)

	a, err := r.ResolveBlockWeighted("weighted_stone", nil, 7)
	require.NoError(t, err)
	b, err := r.ResolveBlockWeighted("weighted_stone", nil, 7)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	counts := map[string]int{}
	for seed := range uint64(400) {
		pl, err := r.ResolveBlockWeighted("weighted_stone", nil, seed)
		require.NoError(t, err)
		counts[pl[0].Model.Key.Path]++
	}
	// weights are 1+2 for stone and 5 for glass
	assert.Greater(t, counts["block/glass"], counts["block/stone"])
	assert.Positive(t, counts["block/stone"])
}

func TestMultipart(t *testing.T) {
	r := newTestResolver(t)
	post := resource.NewKey(resource.Models, "block/oak_fence_post")
	side := resource.NewKey(resource.Models, "block/oak_fence_side")

	pl, err := r.ResolveBlock("oak_fence", nil)
	require.NoError(t, err)
	require.Len(t, pl, 1)
	assert.Equal(t, post, pl[0].Model.Key)

	pl, err = r.ResolveBlock("oak_fence", map[string]string{
		"north": "true", "east": "false", "south": "true", "west": "true",
	})
	require.NoError(t, err)
	require.Len(t, pl, 4)
	assert.Equal(t, post, pl[0].Model.Key)
	for i, y := range []int{0, 180, 270} {
		assert.Equal(t, side, pl[i+1].Model.Key)
		assert.Equal(t, y, pl[i+1].Y)
		assert.True(t, pl[i+1].UVLock)
	}

	lamp := func(props map[string]string) []string {
		pl, err := r.ResolveBlock("redstone_lamp_post", props)
		if errors.Is(err, ErrNoMatchingVariant) {
			return nil
		}
		require.NoError(t, err)
		var res []string
		for _, p := range pl {
			res = append(res, p.Model.Key.Path)
		}
		return res
	}
	assert.Nil(t, lamp(nil))
	assert.Equal(t, []string{"block/glass"}, lamp(map[string]string{"powered": "true"}))
	assert.Equal(t, []string{"block/stone"}, lamp(map[string]string{"facing": "south"}))
	assert.Equal(t, []string{"block/glass", "block/oak_slab"},
		lamp(map[string]string{"lit": "true", "facing": "east"}))
	assert.Equal(t, []string{"block/glass", "block/stone"},
		lamp(map[string]string{"lit": "true", "facing": "north"}))
}

func TestCanonicalProps(t *testing.T) {
	props := map[string]string{"half": "top", "facing": "north", "shape": "straight"}
	s := CanonicalProps(props)
	assert.Equal(t, "facing=north,half=top,shape=straight", s)

	back, err := ParseProps("shape=straight,facing=north,half=top")
	require.NoError(t, err)
	assert.Equal(t, props, back)

	assert.Equal(t, "", CanonicalProps(nil))
	_, err = ParseProps("facing")
	assert.Error(t, err)
}

func TestParseBlockStateErrors(t *testing.T) {
	key := resource.NewKey(resource.BlockStates, "test")
	bad := []string{
		`{}`,
		`{"variants": {"": {"model": "block/stone"}}, "multipart": []}`,
		`{"variants": {"": {"model": "block/stone", "y": 45}}}`,
		`{"variants": {"": {"x": 90}}}`,
		`{"variants": {"": []}}`,
		`{"variants": {"": {"model": "block/stone", "weight": 0}}}`,
		`{"multipart": [{"when": {"OR": {"a": "b"}}, "apply": {"model": "block/stone"}}]}`,
		`{"variants": [1, 2]}`,
		`not json`,
	}
	for _, js := range bad {
		_, err := ParseBlockState(key, []byte(js))
		assert.ErrorIs(t, err, ErrParse, js)
	}

	// variant keys are canonicalised and rotations normalised
	bs, err := ParseBlockState(key, []byte(`{"variants": {"b=2,a=1": {"model": "x:thing", "y": -90}}}`))
	require.NoError(t, err)
	vv := bs.Form.(Variants)
	assert.Equal(t, "a=1,b=2", vv[0].Props)
	assert.Equal(t, 270, vv[0].Refs[0].Y)
	assert.Equal(t, resource.NewKey(resource.Models, "x:block/thing"), vv[0].Refs[0].Model)

	// boolean condition values are accepted
	bs, err = ParseBlockState(key, []byte(`{"multipart": [{"when": {"up": true}, "apply": {"model": "block/a"}}]}`))
	require.NoError(t, err)
	assert.True(t, bs.Form.(Multipart)[0].When.Match(map[string]string{"up": "true"}))
}

func TestParseModelErrors(t *testing.T) {
	key := resource.NewKey(resource.Models, "block/test")
	bad := []string{
		`{"elements": [{"from": [0, 0], "to": [16, 16, 16], "faces": {}}]}`,
		`{"elements": [{"from": [0, 0, 0], "to": [16, 16, 16], "rotation": {"origin": [8, 8, 8], "axis": "y", "angle": 30}}]}`,
		`{"elements": [{"from": [0, 0, 0], "to": [16, 16, 16], "rotation": {"origin": [8, 8, 8], "axis": "w", "angle": 0}}]}`,
		`{"elements": [{"from": [0, 0, 0], "to": [16, 16, 16], "faces": {"sideways": {"texture": "#a"}}}]}`,
		`{"elements": [{"from": [0, 0, 0], "to": [16, 16, 16], "faces": {"up": {"texture": "#a", "rotation": 45}}}]}`,
		`{"elements": [{"from": [0, 0, 0], "to": [16, 16, 16], "faces": {"up": {"texture": "#a", "uv": [0, 0, 16]}}}]}`,
		`{"elements": [{"from": [0, 0, 0], "to": [48, 16, 16], "faces": {}}]}`,
		`{"textures": "oops"}`,
	}
	for _, js := range bad {
		_, err := ParseModel(key, []byte(js))
		assert.ErrorIs(t, err, ErrParse, js)
	}

	def, err := ParseModel(key, []byte(`{"parent": "builtin/generated", "textures": {"layer0": "item/stick"}}`))
	require.NoError(t, err)
	assert.Nil(t, def.Parent)
	assert.Equal(t, "builtin/generated", def.Builtin)

	def, err = ParseModel(key, []byte(`{"elements": [{"from": [0, 0, 0], "to": [16, 16, 16],
		"faces": {"bottom": {"texture": "#a", "cullface": "bottom", "tintindex": 2}}}]}`))
	require.NoError(t, err)
	f := def.Elements[0].Faces[Down]
	require.NotNil(t, f)
	assert.Equal(t, "down", f.CullFace)
	assert.Equal(t, 2, f.TintIndex)
	assert.Nil(t, f.UV)
}
