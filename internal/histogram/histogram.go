// Package histogram builds the per-channel intensity histograms that the
// exposure heuristics read.
//
// Channels are stored in blue, green, red order (indices 0, 1, 2). Alpha is
// not counted and grayscale sources contribute the same value to all three
// channels.
package histogram

import (
	"image"

	bildhist "github.com/anthonynsimon/bild/histogram"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/ppguess/internal/apperr"
)

// Bins is the number of intensity buckets per channel.
const Bins = 256

// Channels is the number of colour channels counted per pixel.
const Channels = 3

// Channel indices into Set.Channels.
const (
	Blue  = 0
	Green = 1
	Red   = 2
)

// ChannelNames labels Set.Channels by index.
var ChannelNames = [Channels]string{"blue", "green", "red"}

// Hist holds one count per 8-bit intensity value.
type Hist [Bins]int

// Sum returns the total count across all bins.
func (h *Hist) Sum() int {
	total := 0
	for _, v := range h {
		total += v
	}
	return total
}

// Floats returns the bins as float64 values.
func (h *Hist) Floats() []float64 {
	out := make([]float64, Bins)
	for i, v := range h {
		out[i] = float64(v)
	}
	return out
}

// Set is the full histogram data for one image.
type Set struct {
	// Channels holds the blue, green and red histograms.
	Channels [Channels]Hist `json:"channels"`

	// Total is the elementwise sum of the three channel histograms.
	Total Hist `json:"total"`
}

// Build counts every pixel of img into per-channel histograms.
//
// Returns a shape error for an image with zero width or height.
func Build(img image.Image) (*Set, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, apperr.NewShapeError("image has no pixels")
	}

	rgba := bildhist.NewRGBAHistogram(dropAlpha(img))

	var s Set
	copy(s.Channels[Blue][:], rgba.B.Bins)
	copy(s.Channels[Green][:], rgba.G.Bins)
	copy(s.Channels[Red][:], rgba.R.Bins)
	s.sumTotal()
	return &s, nil
}

// dropAlpha returns img with every pixel fully opaque, keeping the straight
// (non-premultiplied) colour of translucent pixels.
func dropAlpha(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	flat := imaging.Clone(img)
	for i := 3; i < len(flat.Pix); i += 4 {
		flat.Pix[i] = 0xff
	}
	return flat
}

// FromChannels assembles a Set from already-counted channel histograms.
func FromChannels(blue, green, red Hist) *Set {
	s := &Set{Channels: [Channels]Hist{blue, green, red}}
	s.sumTotal()
	return s
}

func (s *Set) sumTotal() {
	for k := 0; k < Bins; k++ {
		s.Total[k] = s.Channels[Blue][k] + s.Channels[Green][k] + s.Channels[Red][k]
	}
}

// PixelWeight returns height * width * Channels for img.
//
// This is the normalisation constant the exposure thresholds are calibrated
// against, not a pixel count.
func PixelWeight(img image.Image) int {
	b := img.Bounds()
	return b.Dx() * b.Dy() * Channels
}

// Derivative returns the Bins-1 first differences h[i+1]-h[i].
func Derivative(h Hist) []int {
	out := make([]int, Bins-1)
	for i := 0; i < Bins-1; i++ {
		out[i] = h[i+1] - h[i]
	}
	return out
}

// AbsDerivative returns the absolute first differences of h.
func AbsDerivative(h Hist) []float64 {
	d := Derivative(h)
	out := make([]float64, len(d))
	for i, v := range d {
		if v < 0 {
			v = -v
		}
		out[i] = float64(v)
	}
	return out
}
