package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HueBins is the number of one-degree buckets in a hue histogram.
const HueBins = 360

// HSVPixel is one pixel in HSV space, rounded to whole units.
type HSVPixel struct {
	H int `json:"h"` // Hue: 0-359 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	V int `json:"v"` // Value: 0-100 percent (0=black, 100=full brightness)
}

// HSVImage is an image-shaped grid of HSV pixels, stored row-major.
type HSVImage struct {
	Width  int
	Height int
	Pix    []HSVPixel
}

// At returns the pixel at (x, y), relative to the top-left corner.
func (m *HSVImage) At(x, y int) HSVPixel {
	return m.Pix[y*m.Width+x]
}

// ToHSV converts every pixel of img to HSV.
//
// The result is a newly allocated grid; img is only read. Alpha is ignored,
// so translucent pixels convert by their straight (non-premultiplied) colour.
func ToHSV(img image.Image) *HSVImage {
	bounds := img.Bounds()
	out := &HSVImage{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pix:    make([]HSVPixel, bounds.Dx()*bounds.Dy()),
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out.Pix[i] = rgbToHSV(c.R, c.G, c.B)
			i++
		}
	}
	return out
}

// rgbToHSV converts 8-bit RGB values to rounded HSV.
//
// Returns HSVPixel with:
//   - H: 0-359 (a hue that rounds to 360 wraps to 0)
//   - S: 0-100
//   - V: 0-100
func rgbToHSV(r, g, b uint8) HSVPixel {
	c := colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
	h, s, v := c.Hsv()

	return HSVPixel{
		H: int(math.Round(h)) % HueBins,
		S: int(math.Round(s * 100)),
		V: int(math.Round(v * 100)),
	}
}

// HueProfile summarises the hue distribution of an image.
type HueProfile struct {
	// Bins counts pixels per whole-degree hue. Achromatic pixels have hue 0
	// and are counted in Bins[0], so Bins sums to Pixels.
	Bins [HueBins]int `json:"bins"`

	// Pixels is the number of pixels profiled.
	Pixels int `json:"pixels"`

	// Chromatic is the number of pixels with non-zero saturation.
	Chromatic int `json:"chromatic"`

	// DominantHue is the most common hue among chromatic pixels, or -1 if
	// the image has none.
	DominantHue int `json:"dominant_hue"`

	// MeanHue is the circular mean hue of chromatic pixels in degrees
	// [0,360), or -1 if there are none or their hues cancel out.
	MeanHue float64 `json:"mean_hue"`
}

// ProfileHue converts img to HSV and summarises its hues.
func ProfileHue(img image.Image) *HueProfile {
	return HueHistogram(ToHSV(img))
}

// HueHistogram builds a HueProfile from an already converted image.
//
// The mean hue uses vector averaging so that hues either side of 0 degrees
// average to red rather than cyan.
func HueHistogram(hsv *HSVImage) *HueProfile {
	p := &HueProfile{
		Pixels:      len(hsv.Pix),
		DominantHue: -1,
		MeanHue:     -1,
	}

	var chromaticBins [HueBins]int
	var sumX, sumY float64

	for _, px := range hsv.Pix {
		p.Bins[px.H]++
		if px.S == 0 {
			continue
		}
		p.Chromatic++
		chromaticBins[px.H]++
		rad := float64(px.H) * math.Pi / 180
		sumX += math.Cos(rad)
		sumY += math.Sin(rad)
	}

	if p.Chromatic == 0 {
		return p
	}

	best := 0
	for h, n := range chromaticBins {
		if n > chromaticBins[best] {
			best = h
		}
	}
	p.DominantHue = best

	if math.Hypot(sumX, sumY) > 1e-9*float64(p.Chromatic) {
		mean := math.Atan2(sumY, sumX) * 180 / math.Pi
		if mean < 0 {
			mean += 360
		}
		p.MeanHue = mean
	}
	return p
}

// HueColor returns the fully saturated, full-value colour for a hue in degrees.
func HueColor(hue float64) color.Color {
	return colorful.Hsv(math.Mod(hue, 360), 1, 1).Clamped()
}
