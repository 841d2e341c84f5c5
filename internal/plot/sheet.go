package plot

import (
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/ppguess/internal/apperr"
	"github.com/ironsheep/ppguess/internal/histogram"
	ppimaging "github.com/ironsheep/ppguess/internal/imaging"
)

// Plots holds the rendered charts for one analysis.
type Plots struct {
	Histogram  image.Image
	Derivative image.Image
	// Hue is nil when no hue profile was computed.
	Hue image.Image
}

// Render draws every chart the inputs allow. hue may be nil.
func Render(set *histogram.Set, hue *ppimaging.HueProfile) (*Plots, error) {
	hist, err := HistogramChart(set)
	if err != nil {
		return nil, err
	}
	deriv, err := DerivativeChart(set.Total)
	if err != nil {
		return nil, err
	}

	p := &Plots{Histogram: hist, Derivative: deriv}
	if hue != nil {
		if p.Hue, err = HueChart(hue); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Sheet stacks all charts vertically on a white background, each centred.
func (p *Plots) Sheet() image.Image {
	charts := p.list()

	width, height := 0, 0
	for _, c := range charts {
		b := c.img.Bounds()
		if b.Dx() > width {
			width = b.Dx()
		}
		height += b.Dy()
	}

	sheet := imaging.New(width, height, color.White)
	y := 0
	for _, c := range charts {
		b := c.img.Bounds()
		sheet = imaging.Paste(sheet, c.img, image.Pt((width-b.Dx())/2, y))
		y += b.Dy()
	}
	return sheet
}

type namedChart struct {
	name string
	img  image.Image
}

func (p *Plots) list() []namedChart {
	charts := []namedChart{
		{"histogram", p.Histogram},
		{"derivative", p.Derivative},
	}
	if p.Hue != nil {
		charts = append(charts, namedChart{"hue", p.Hue})
	}
	return charts
}

// Save writes each chart and the contact sheet as PNG files into dir,
// creating it if needed. Files are named "<prefix>-<chart>.png", or
// "<chart>.png" when prefix is empty. Returns the written paths in order.
func (p *Plots) Save(dir, prefix string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperr.NewRenderError(dir, "failed to create plot directory", err)
	}

	charts := append(p.list(), namedChart{"sheet", p.Sheet()})
	paths := make([]string, 0, len(charts))
	for _, c := range charts {
		name := c.name + ".png"
		if prefix != "" {
			name = prefix + "-" + name
		}
		path := filepath.Join(dir, name)
		if err := imaging.Save(c.img, path); err != nil {
			return paths, apperr.NewRenderError(path, "failed to write plot", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Encoded returns every chart and the contact sheet as base64 PNG, keyed by
// chart name.
func (p *Plots) Encoded() (map[string]string, error) {
	charts := append(p.list(), namedChart{"sheet", p.Sheet()})
	out := make(map[string]string, len(charts))
	for _, c := range charts {
		s, err := ppimaging.EncodePNGBase64(c.img)
		if err != nil {
			return nil, apperr.NewRenderError("", "failed to encode "+c.name+" chart", err)
		}
		out[c.name] = s
	}
	return out, nil
}
