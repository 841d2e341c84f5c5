package plot

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/ppguess/internal/apperr"
	"github.com/ironsheep/ppguess/internal/imaging"
)

// HueChartSize is the side length of the square polar hue chart.
const HueChartSize = 480

const (
	huePadding = 40
	hueRings   = 4
)

var gridColor = drawing.Color{R: 210, G: 210, B: 210, A: 255}

// HueChart draws the hue histogram as a polar bar chart: one wedge per
// degree, its length proportional to the bin count and its colour the hue
// itself. Angles run counter-clockwise from 0 degrees at the right.
func HueChart(p *imaging.HueProfile) (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, HueChartSize, HueChartSize))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	gc, err := drawing.NewRasterGraphicContext(img)
	if err != nil {
		return nil, apperr.NewRenderError("", "failed to create hue canvas", err)
	}

	cx := float64(HueChartSize) / 2
	cy := float64(HueChartSize) / 2
	maxR := float64(HueChartSize)/2 - huePadding

	maxCount := 0
	for _, n := range p.Bins {
		if n > maxCount {
			maxCount = n
		}
	}

	if maxCount > 0 {
		for h, n := range p.Bins {
			if n == 0 {
				continue
			}
			r := maxR * float64(n) / float64(maxCount)
			a1 := (float64(h) - 0.5) * math.Pi / 180
			a2 := (float64(h) + 0.5) * math.Pi / 180

			gc.BeginPath()
			gc.MoveTo(cx, cy)
			gc.LineTo(cx+r*math.Cos(a1), cy-r*math.Sin(a1))
			gc.LineTo(cx+r*math.Cos(a2), cy-r*math.Sin(a2))
			gc.Close()
			gc.SetFillColor(imaging.HueColor(float64(h)))
			gc.Fill()
		}
	}

	gc.SetStrokeColor(gridColor)
	gc.SetLineWidth(1)
	for i := 1; i <= hueRings; i++ {
		r := maxR * float64(i) / hueRings
		gc.BeginPath()
		gc.ArcTo(cx, cy, r, r, 0, 2*math.Pi)
		gc.Stroke()
	}
	for deg := 0; deg < 360; deg += 45 {
		a := float64(deg) * math.Pi / 180
		gc.BeginPath()
		gc.MoveTo(cx, cy)
		gc.LineTo(cx+maxR*math.Cos(a), cy-maxR*math.Sin(a))
		gc.Stroke()
	}

	for deg := 0; deg < 360; deg += 90 {
		a := float64(deg) * math.Pi / 180
		lx := cx + (maxR+14)*math.Cos(a)
		ly := cy - (maxR+14)*math.Sin(a)
		drawCenteredText(img, int(lx), int(ly)+4, strconv.Itoa(deg))
	}
	drawCenteredText(img, HueChartSize/2, 16, "Hue distribution")

	return img, nil
}

// drawCenteredText writes s horizontally centred on x with its baseline at y.
func drawCenteredText(img draw.Image, x, y int, s string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}
	w := d.MeasureString(s).Ceil()
	d.Dot = fixed.P(x-w/2, y)
	d.DrawString(s)
}
