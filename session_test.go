package blockrender

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/blockrender/internal/testpack"
	"seehuhn.de/go/blockrender/model"
	"seehuhn.de/go/blockrender/resource"
	"seehuhn.de/go/blockrender/texture"
)

func newSession(t *testing.T, layers ...resource.Layer) *Session {
	t.Helper()
	layers = append([]resource.Layer{testpack.Layer()}, layers...)
	s := NewSession(resource.NewPack(layers...), nil)
	t.Cleanup(func() { s.Close() })
	return s
}

func render(t *testing.T, s *Session, id string, size int, opts *Options) *image.NRGBA {
	t.Helper()
	img, err := s.RenderBlock(id, nil, size, opts)
	require.NoError(t, err, id)
	return img
}

// Pixel positions inside the three visible faces of a full block, for
// 128×128 images.
var (
	topPixel   = image.Pt(64, 28)
	southPixel = image.Pt(35, 78)
	eastPixel  = image.Pt(92, 78)
)

func TestRenderAllBlocks(t *testing.T) {
	s := newSession(t)
	for _, id := range testpack.Blocks {
		for _, size := range []int{1, 16, 64} {
			img := render(t, s, id, size, nil)
			assert.Equal(t, image.Rect(0, 0, size, size), img.Bounds(), id)
		}
	}
}

func TestDeterministic(t *testing.T) {
	opts := &Options{Padding: 0.1, Tint: texture.Constant(color.NRGBA{R: 0x7f, G: 0xb2, B: 0x38, A: 0xff})}
	for _, id := range testpack.Blocks {
		a := render(t, newSession(t), id, 48, opts)
		b := render(t, newSession(t), id, 48, opts)
		assert.True(t, bytes.Equal(a.Pix, b.Pix), "%s: output differs between runs", id)
	}
}

func TestStoneSilhouette(t *testing.T) {
	s := newSession(t)
	img := render(t, s, "minecraft:stone", 128, nil)

	assert.Equal(t, uint8(0xff), img.NRGBAAt(64, 64).A, "centre")
	for _, p := range []image.Point{{0, 0}, {127, 0}, {0, 127}, {127, 127}} {
		assert.Equal(t, uint8(0), img.NRGBAAt(p.X, p.Y).A, "corner %v", p)
	}

	// the hexagon touches the top and bottom edges of the image
	assert.NotZero(t, img.NRGBAAt(64, 0).A)
	assert.NotZero(t, img.NRGBAAt(64, 127).A)
	assert.Zero(t, img.NRGBAAt(0, 64).A)

	// Away from the boundary of the silhouette, including along the edges
	// where faces meet, every pixel is opaque.
	inside := func(x, y int) bool {
		for dy := -2; dy <= 2; dy++ {
			for dx := -2; dx <= 2; dx++ {
				p := image.Pt(x+dx, y+dy)
				if !p.In(img.Rect) || img.NRGBAAt(p.X, p.Y).A == 0 {
					return false
				}
			}
		}
		return true
	}
	n := 0
	for y := range 128 {
		for x := range 128 {
			if inside(x, y) {
				n++
				assert.Equal(t, uint8(0xff), img.NRGBAAt(x, y).A, "pixel (%d, %d)", x, y)
			}
		}
	}
	assert.Greater(t, n, 8000)
}

func TestShading(t *testing.T) {
	s := newSession(t, resource.NewMemLayer("override", testpack.OverrideFiles()))
	img := render(t, s, "minecraft:stone", 128, nil)

	red := float64(testpack.OverrideColor.R)
	want := map[image.Point]float64{
		topPixel:   red,
		southPixel: red * 0.8,
		eastPixel:  red * 0.6,
	}
	for p, r := range want {
		c := img.NRGBAAt(p.X, p.Y)
		assert.InDelta(t, r, float64(c.R), 1, "pixel %v", p)
		assert.Equal(t, uint8(0), c.G)
		assert.Equal(t, uint8(0xff), c.A)
	}
}

func TestTransparency(t *testing.T) {
	s := newSession(t)
	count := func(img *image.NRGBA) (partial, opaque int) {
		for i := 3; i < len(img.Pix); i += 4 {
			switch a := img.Pix[i]; {
			case a == 0xff:
				opaque++
			case a > 0:
				partial++
			}
		}
		return partial, opaque
	}

	stonePartial, stoneOpaque := count(render(t, s, "minecraft:stone", 128, nil))
	glassPartial, glassOpaque := count(render(t, s, "minecraft:glass", 128, nil))
	assert.Greater(t, glassPartial, stonePartial)
	assert.Less(t, glassOpaque, stoneOpaque)
}

func TestTint(t *testing.T) {
	s := newSession(t)
	plain := render(t, s, "minecraft:grass_block", 128, nil)
	black := render(t, s, "minecraft:grass_block", 128, &Options{
		Tint: texture.Constant(color.NRGBA{A: 0xff}),
	})

	top := plain.NRGBAAt(topPixel.X, topPixel.Y)
	assert.NotZero(t, top.R)
	assert.Equal(t, color.NRGBA{A: 0xff}, black.NRGBAAt(topPixel.X, topPixel.Y))

	// the side faces have no tint index
	assert.Equal(t, plain.NRGBAAt(southPixel.X, southPixel.Y), black.NRGBAAt(southPixel.X, southPixel.Y))

	// tinting does not modify the cached texture
	again := render(t, s, "minecraft:grass_block", 128, nil)
	assert.Equal(t, plain.Pix, again.Pix)
}

func TestFitModes(t *testing.T) {
	s := newSession(t)

	stone := render(t, s, "minecraft:stone", 128, nil)
	stoneBlock := render(t, s, "minecraft:stone", 128, &Options{Fit: FitBlock})
	assert.Equal(t, stone.Pix, stoneBlock.Pix, "full blocks look the same in both modes")

	geom := render(t, s, "minecraft:oak_slab", 128, nil)
	block := render(t, s, "minecraft:oak_slab", 128, &Options{Fit: FitBlock})
	assert.Equal(t, uint8(0xff), geom.NRGBAAt(1, 64).A, "slab stretched to the image width")
	assert.Zero(t, block.NRGBAAt(1, 64).A, "slab drawn at full-block scale")
	assert.Zero(t, block.NRGBAAt(64, 10).A, "upper half of the block is empty")
}

func TestPadding(t *testing.T) {
	s := newSession(t)
	img := render(t, s, "minecraft:stone", 128, &Options{Padding: 0.25})
	assert.Zero(t, img.NRGBAAt(64, 20).A)
	assert.Equal(t, uint8(0xff), img.NRGBAAt(64, 64).A)

	for _, pad := range []float64{-0.1, 0.5, 2} {
		_, err := s.RenderBlock("minecraft:stone", nil, 32, &Options{Padding: pad})
		assert.ErrorIs(t, err, ErrInvalidOutputSize, "padding %g", pad)
	}
}

func TestOutlineOption(t *testing.T) {
	s := newSession(t)
	dark := func(img *image.NRGBA) int {
		n := 0
		for i := 0; i < len(img.Pix); i += 4 {
			if img.Pix[i+3] == 0xff && img.Pix[i] < 0x10 && img.Pix[i+1] < 0x10 && img.Pix[i+2] < 0x10 {
				n++
			}
		}
		return n
	}

	plain := render(t, s, "minecraft:stone", 128, nil)
	lined := render(t, s, "minecraft:stone", 128, &Options{
		Outline: &Outline{Width: 3, Color: color.NRGBA{A: 0xff}, Join: graphics.LineJoinRound},
	})
	assert.Zero(t, dark(plain))
	assert.Greater(t, dark(lined), 100)
	assert.Equal(t, plain.NRGBAAt(topPixel.X, topPixel.Y), lined.NRGBAAt(topPixel.X, topPixel.Y))
}

func TestInvalidSize(t *testing.T) {
	s := newSession(t)
	for _, size := range []int{0, -1, math.MinInt} {
		_, err := s.RenderBlock("minecraft:stone", nil, size, nil)
		assert.ErrorIs(t, err, ErrInvalidOutputSize)

		_, err = Render(nil, s.Textures(), size, nil)
		assert.ErrorIs(t, err, ErrInvalidOutputSize)
	}
}

func TestEmptyModel(t *testing.T) {
	s := newSession(t)
	_, err := Render(nil, s.Textures(), 16, nil)
	assert.ErrorIs(t, err, ErrEmptyModel)

	m, err := s.Models().Model(resource.NewKey(resource.Models, "block/block"))
	require.NoError(t, err)
	require.Empty(t, m.Elements)
	_, err = Render([]model.Placement{{Model: m}}, s.Textures(), 16, nil)
	assert.ErrorIs(t, err, ErrEmptyModel)
}

func TestBrokenBlocks(t *testing.T) {
	want := map[string]error{
		"minecraft:cycle_block":             model.ErrCyclicParent,
		"minecraft:deep_block":              model.ErrTooDeepInheritance,
		"minecraft:texcycle_block":          texture.ErrCyclicTextureRef,
		"minecraft:missing_texture_block":   resource.ErrNotFound,
		"minecraft:undefined_texture_block": resource.ErrNotFound,
		"minecraft:broken_block":            model.ErrParse,
		"minecraft:bad_texture_block":       texture.ErrDecode,
		"minecraft:missing_model_block":     resource.ErrNotFound,
	}
	require.Len(t, want, len(testpack.Broken))

	s := newSession(t)
	for id, sentinel := range want {
		img, err := s.RenderBlock(id, nil, 32, nil)
		assert.Nil(t, img, id)
		assert.ErrorIs(t, err, sentinel, id)
		assert.Contains(t, err.Error(), id)
	}

	_, err := s.RenderBlock("minecraft:no_such_block", nil, 32, nil)
	assert.ErrorIs(t, err, resource.ErrNotFound)
}

func TestLayerOverride(t *testing.T) {
	base := render(t, newSession(t), "minecraft:stone", 64, nil)
	over := render(t, newSession(t, resource.NewMemLayer("override", testpack.OverrideFiles())), "minecraft:stone", 64, nil)
	assert.NotEqual(t, base.Pix, over.Pix)

	glass := render(t, newSession(t), "minecraft:glass", 64, nil)
	glassOver := render(t, newSession(t, resource.NewMemLayer("override", testpack.OverrideFiles())), "minecraft:glass", 64, nil)
	assert.Equal(t, glass.Pix, glassOver.Pix, "unrelated blocks keep their textures")
}

func TestBlockStateRotation(t *testing.T) {
	s := newSession(t)
	east, err := s.RenderBlock("minecraft:oak_stairs", map[string]string{"facing": "east"}, 64, nil)
	require.NoError(t, err)
	west, err := s.RenderBlock("minecraft:oak_stairs", map[string]string{"facing": "west"}, 64, nil)
	require.NoError(t, err)
	assert.NotEqual(t, east.Pix, west.Pix)

	lamp, err := s.ResolveBlock("minecraft:redstone_lamp_post", map[string]string{"lit": "true", "facing": "east"})
	require.NoError(t, err)
	assert.Len(t, lamp, 2)
	img, err := Render(lamp, s.Textures(), 64, nil)
	require.NoError(t, err)
	assert.NotZero(t, img.NRGBAAt(32, 32).A)
}

func TestOpenArchives(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.zip")
	require.NoError(t, testpack.WriteZip(base, testpack.Files()))
	override := filepath.Join(dir, "override")
	require.NoError(t, testpack.WriteDir(override, testpack.OverrideFiles()))

	s, err := Open([]string{base, override}, nil)
	require.NoError(t, err)
	img, err := s.RenderBlock("minecraft:stone", nil, 128, nil)
	require.NoError(t, err)
	assert.Equal(t, testpack.OverrideColor, img.NRGBAAt(topPixel.X, topPixel.Y))

	require.NoError(t, s.Close())
	_, err = s.RenderBlock("minecraft:stone", nil, 128, nil)
	assert.ErrorIs(t, err, resource.ErrClosed)
	assert.NoError(t, s.Close())

	_, err = Open([]string{filepath.Join(dir, "missing.zip")}, nil)
	assert.ErrorIs(t, err, resource.ErrArchiveOpen)
}

func TestCloseDropsCaches(t *testing.T) {
	s := NewSession(resource.NewPack(testpack.Layer()), nil)
	placements, err := s.Models().ResolveBlock("stone", nil)
	require.NoError(t, err)
	_, err = Render(placements, s.Textures(), 16, nil)
	require.NoError(t, err)
	require.NotZero(t, s.Textures().Len())

	require.NoError(t, s.Close())
	assert.Zero(t, s.Textures().Len())

	_, err = s.Models().ResolveBlock("stone", nil)
	assert.ErrorIs(t, err, resource.ErrClosed)
	_, err = Render(placements, s.Textures(), 16, nil)
	assert.ErrorIs(t, err, resource.ErrClosed)
}

// TestGameArchive renders a few blocks from a real client archive, if one
// is named by the BLOCKRENDER_JAR environment variable.
func TestGameArchive(t *testing.T) {
	jar := os.Getenv("BLOCKRENDER_JAR")
	if jar == "" {
		t.Skip("BLOCKRENDER_JAR not set")
	}
	s, err := Open([]string{jar}, nil)
	require.NoError(t, err)
	defer s.Close()

	for _, id := range []string{"stone", "glass", "oak_stairs", "sea_lantern", "glowstone"} {
		img, err := s.RenderBlock(id, nil, 64, nil)
		if !assert.NoError(t, err, id) {
			continue
		}
		assert.Equal(t, uint8(0xff), img.NRGBAAt(32, 32).A, id)
	}
}
