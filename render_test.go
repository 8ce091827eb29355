package blockrender

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"seehuhn.de/go/blockrender/internal/testpack"
	"seehuhn.de/go/blockrender/resource"
)

func TestAgainstReference(t *testing.T) {
	s := NewSession(resource.NewPack(testpack.Layer()), nil)
	defer s.Close()

	for _, id := range testpack.Blocks {
		name := testpack.ImageName(id)
		t.Run(id, func(t *testing.T) {
			refPath := filepath.Join("testdata", "reference", name)
			ref, err := loadNRGBA(refPath)
			if err != nil {
				t.Fatalf("loading reference: %v", err)
			}

			actual, err := s.RenderBlock(id, nil, testpack.ReferenceSize, nil)
			if err != nil {
				t.Fatal(err)
			}
			if err := compareImages(name, ref, actual); err != nil {
				t.Error(err)
			}
		})
	}
}

func loadNRGBA(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	res := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := range bounds.Dy() {
		for x := range bounds.Dx() {
			c := color.NRGBAModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.NRGBA)
			res.SetNRGBA(x, y, c)
		}
	}
	return res, nil
}

// compareImages checks that at most a small fraction of the pixels differ
// by more than a small tolerance in any channel.  Colours are compared
// premultiplied, since the colour of a fully transparent pixel is
// arbitrary.
func compareImages(name string, expected, actual *image.NRGBA) error {
	const tolerance = 2
	const maxDiffPercent = 2

	if expected.Bounds().Size() != actual.Bounds().Size() {
		return fmt.Errorf("size mismatch: expected %v, got %v",
			expected.Bounds().Size(), actual.Bounds().Size())
	}
	w, h := actual.Bounds().Dx(), actual.Bounds().Dy()

	total := w * h
	diffCount := 0
	hasDiff := false
	for y := range h {
		for x := range w {
			e := premultiplied(expected.NRGBAAt(x, y))
			a := premultiplied(actual.NRGBAAt(x, y))
			worst := 0
			for i := range 4 {
				diff := e[i] - a[i]
				if diff < 0 {
					diff = -diff
				}
				worst = max(worst, diff)
			}
			if worst > 0 {
				hasDiff = true
				if worst > tolerance {
					diffCount++
				}
			}
		}
	}

	maxAllowed := total * maxDiffPercent / 100
	if diffCount > maxAllowed || hasDiff {
		writeDiffImage(name, expected, actual)
	}
	if diffCount > maxAllowed {
		return fmt.Errorf("%d pixels differ by >%d (max allowed: %d)",
			diffCount, tolerance, maxAllowed)
	}
	return nil
}

func premultiplied(c color.NRGBA) [4]int {
	a := int(c.A)
	return [4]int{
		(int(c.R)*a + 127) / 255,
		(int(c.G)*a + 127) / 255,
		(int(c.B)*a + 127) / 255,
		a,
	}
}

// writeDiffImage stores the alpha channels of both images side by side in
// debug/, for inspection after a failed comparison.
func writeDiffImage(name string, expected, actual *image.NRGBA) {
	os.MkdirAll("debug", 0755)

	w, h := actual.Bounds().Dx(), actual.Bounds().Dy()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{
				R: expected.NRGBAAt(x, y).A, // expected in red
				G: actual.NRGBAAt(x, y).A,   // actual in green
				B: 0,
				A: 255,
			})
		}
	}

	f, err := os.Create(filepath.Join("debug", name))
	if err != nil {
		return
	}
	defer f.Close()
	png.Encode(f, img)
}
