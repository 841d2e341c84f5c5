package histogram

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/ppguess/internal/apperr"
)

// randomImage returns an opaque image filled from a fixed seed.
func randomImage(width, height int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

func TestBuild_SumInvariant(t *testing.T) {
	set, err := Build(randomImage(37, 23, 1))
	require.NoError(t, err)

	for k := 0; k < Bins; k++ {
		want := set.Channels[Blue][k] + set.Channels[Green][k] + set.Channels[Red][k]
		if set.Total[k] != want {
			t.Fatalf("Total[%d]: got %d, want %d", k, set.Total[k], want)
		}
	}
}

func TestBuild_Conservation(t *testing.T) {
	const w, h = 64, 48
	set, err := Build(randomImage(w, h, 2))
	require.NoError(t, err)

	for c := 0; c < Channels; c++ {
		assert.Equal(t, w*h, set.Channels[c].Sum(), "channel %s", ChannelNames[c])
	}
	assert.Equal(t, w*h*Channels, set.Total.Sum())
}

func TestBuild_ChannelOrder(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 10, A: 255})
		}
	}

	set, err := Build(img)
	require.NoError(t, err)
	assert.Equal(t, 16, set.Channels[Blue][10])
	assert.Equal(t, 16, set.Channels[Green][100])
	assert.Equal(t, 16, set.Channels[Red][200])
	assert.Equal(t, 16, set.Total[10])
	assert.Equal(t, 16, set.Total[100])
	assert.Equal(t, 16, set.Total[200])
}

func TestBuild_Grayscale(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range img.Pix {
		img.Pix[i] = 42
	}

	set, err := Build(img)
	require.NoError(t, err)
	for c := 0; c < Channels; c++ {
		assert.Equal(t, 100, set.Channels[c][42])
	}
	assert.Equal(t, 300, set.Total[42])
}

func TestBuild_IgnoresAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 64})
	img.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 0})

	set, err := Build(img)
	require.NoError(t, err)
	assert.Equal(t, 2, set.Channels[Red][200])
	assert.Equal(t, 2, set.Channels[Green][100])
	assert.Equal(t, 2, set.Channels[Blue][50])
}

func TestBuild_NonZeroOrigin(t *testing.T) {
	full := randomImage(20, 20, 3)
	sub := full.SubImage(image.Rect(5, 5, 15, 12))

	set, err := Build(sub)
	require.NoError(t, err)
	assert.Equal(t, 70, set.Channels[Red].Sum())
}

func TestBuild_Empty(t *testing.T) {
	_, err := Build(image.NewRGBA(image.Rect(0, 0, 0, 10)))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindShape))

	_, err = Build(nil)
	assert.True(t, apperr.IsKind(err, apperr.KindShape))
}

func TestFromChannels(t *testing.T) {
	var b, g, r Hist
	b[0], g[0], r[0] = 1, 2, 3
	r[255] = 7

	set := FromChannels(b, g, r)
	assert.Equal(t, 6, set.Total[0])
	assert.Equal(t, 7, set.Total[255])
}

func TestPixelWeight(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 30, 20))
	assert.Equal(t, 30*20*3, PixelWeight(img))
}

func TestDerivative(t *testing.T) {
	var h Hist
	h[0] = 10
	h[1] = 4
	h[2] = 9

	d := Derivative(h)
	require.Len(t, d, Bins-1)
	assert.Equal(t, -6, d[0])
	assert.Equal(t, 5, d[1])
	assert.Equal(t, -9, d[2])

	abs := AbsDerivative(h)
	require.Len(t, abs, Bins-1)
	assert.Equal(t, []float64{6, 5, 9, 0}, abs[:4])
}
