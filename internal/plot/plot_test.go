package plot

import (
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/ppguess/internal/histogram"
	"github.com/ironsheep/ppguess/internal/imaging"
)

func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

func TestHistogramChart(t *testing.T) {
	set, err := histogram.Build(gradientImage(64, 32))
	require.NoError(t, err)

	img, err := HistogramChart(set)
	require.NoError(t, err)
	assert.Equal(t, ChartWidth, img.Bounds().Dx())
	assert.Equal(t, ChartHeight, img.Bounds().Dy())
}

func TestDerivativeChart_FlatHistogram(t *testing.T) {
	var flat histogram.Hist
	img, err := DerivativeChart(flat)
	require.NoError(t, err)
	assert.Equal(t, ChartWidth, img.Bounds().Dx())
}

func TestHueChart_DrawsWedgeInHueColour(t *testing.T) {
	var p imaging.HueProfile
	for h := 340; h < imaging.HueBins; h++ {
		p.Bins[h] = 100
	}

	img, err := HueChart(&p)
	require.NoError(t, err)
	assert.Equal(t, HueChartSize, img.Bounds().Dx())

	// 120px out along 350 degrees, clear of rings and spokes.
	c := float64(HueChartSize) / 2
	x := int(c + 120*math.Cos(-10*math.Pi/180))
	y := int(c - 120*math.Sin(-10*math.Pi/180))
	r, g, b, _ := img.At(x, y).RGBA()
	assert.Greater(t, r>>8, uint32(200))
	assert.Less(t, g>>8, uint32(140))
	assert.Less(t, b>>8, uint32(160))
}

func TestHueChart_Empty(t *testing.T) {
	var p imaging.HueProfile
	img, err := HueChart(&p)
	require.NoError(t, err)
	assert.NotNil(t, img)
}

func TestRender_WithoutHue(t *testing.T) {
	set, err := histogram.Build(gradientImage(16, 16))
	require.NoError(t, err)

	p, err := Render(set, nil)
	require.NoError(t, err)
	assert.NotNil(t, p.Histogram)
	assert.NotNil(t, p.Derivative)
	assert.Nil(t, p.Hue)

	sheet := p.Sheet()
	assert.Equal(t, ChartWidth, sheet.Bounds().Dx())
	assert.Equal(t, 2*ChartHeight, sheet.Bounds().Dy())
}

func TestRender_WithHue(t *testing.T) {
	src := gradientImage(16, 16)
	set, err := histogram.Build(src)
	require.NoError(t, err)

	p, err := Render(set, imaging.ProfileHue(src))
	require.NoError(t, err)
	require.NotNil(t, p.Hue)
	assert.Equal(t, 2*ChartHeight+HueChartSize, p.Sheet().Bounds().Dy())
}

func TestPlots_Save(t *testing.T) {
	set, err := histogram.Build(gradientImage(16, 16))
	require.NoError(t, err)
	p, err := Render(set, nil)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "plots")
	paths, err := p.Save(dir, "photo")
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, "photo-histogram.png"),
		filepath.Join(dir, "photo-derivative.png"),
		filepath.Join(dir, "photo-sheet.png"),
	}
	assert.Equal(t, want, paths)
	for _, path := range paths {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestPlots_Encoded(t *testing.T) {
	src := gradientImage(8, 8)
	set, err := histogram.Build(src)
	require.NoError(t, err)
	p, err := Render(set, imaging.ProfileHue(src))
	require.NoError(t, err)

	enc, err := p.Encoded()
	require.NoError(t, err)
	for _, name := range []string{"histogram", "derivative", "hue", "sheet"} {
		assert.NotEmpty(t, enc[name], name)
	}
}
