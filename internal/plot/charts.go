// Package plot renders the diagnostic charts for an exposure analysis.
//
// Charts are returned as images so callers can save them, embed them in a
// contact sheet, or base64-encode them for the MCP server. Nothing here is
// needed to compute findings.
package plot

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/ppguess/internal/apperr"
	"github.com/ironsheep/ppguess/internal/exposure"
	"github.com/ironsheep/ppguess/internal/histogram"
)

// Chart dimensions in pixels.
const (
	ChartWidth  = 800
	ChartHeight = 320
)

var channelColors = [histogram.Channels]drawing.Color{
	histogram.Blue:  chart.ColorBlue,
	histogram.Green: chart.ColorGreen,
	histogram.Red:   chart.ColorRed,
}

var totalColor = drawing.Color{R: 0, G: 0, B: 0, A: 255}

// lineStyle returns a style that renders a line only (no dots)
func lineStyle(col drawing.Color, width float64) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: width,
	}
}

// HistogramChart overlays the blue, green, red and total histograms.
func HistogramChart(set *histogram.Set) (image.Image, error) {
	xs := binAxis(histogram.Bins)

	series := make([]chart.Series, 0, histogram.Channels+1)
	for c := 0; c < histogram.Channels; c++ {
		series = append(series, chart.ContinuousSeries{
			Name:    histogram.ChannelNames[c],
			XValues: xs,
			YValues: set.Channels[c].Floats(),
			Style:   lineStyle(channelColors[c], 1.5),
		})
	}
	totals := set.Total.Floats()
	series = append(series, chart.ContinuousSeries{
		Name:    "total",
		XValues: xs,
		YValues: totals,
		Style:   lineStyle(totalColor, 2),
	})

	ch := chart.Chart{
		Title:      "Channel histograms",
		Width:      ChartWidth,
		Height:     ChartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "intensity", Range: &chart.ContinuousRange{Min: 0, Max: histogram.Bins}},
		YAxis:      chart.YAxis{Name: "pixels", Range: &chart.ContinuousRange{Min: 0, Max: yMax(totals)}},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return render(&ch, "histogram")
}

// DerivativeChart plots the absolute first difference of the total
// histogram, with the crushed-blacks limit drawn over the inspected window.
func DerivativeChart(total histogram.Hist) (image.Image, error) {
	slopes := histogram.AbsDerivative(total)
	limit := exposure.CrushLimit(total)
	start, end := exposure.SlopeWindow()

	ch := chart.Chart{
		Title:      "Absolute derivative of total histogram",
		Width:      ChartWidth,
		Height:     ChartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "intensity", Range: &chart.ContinuousRange{Min: 0, Max: histogram.Bins}},
		YAxis:      chart.YAxis{Name: "|slope|", Range: &chart.ContinuousRange{Min: 0, Max: yMax(append(slopes, limit))}},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "|slope|",
				XValues: binAxis(len(slopes)),
				YValues: slopes,
				Style:   lineStyle(totalColor, 1.5),
			},
			chart.ContinuousSeries{
				Name:    "crush limit",
				XValues: []float64{float64(start), float64(end - 1)},
				YValues: []float64{limit, limit},
				Style: chart.Style{
					StrokeColor:     chart.ColorRed,
					StrokeWidth:     1,
					StrokeDashArray: []float64{5, 5},
				},
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return render(&ch, "derivative")
}

func render(ch *chart.Chart, name string) (image.Image, error) {
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, apperr.NewRenderError("", "failed to render "+name+" chart", err)
	}
	img, err := imaging.Decode(&buf)
	if err != nil {
		return nil, apperr.NewRenderError("", "failed to decode "+name+" chart", err)
	}
	return img, nil
}

func binAxis(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}

// yMax pads the largest value so lines do not touch the top edge. go-chart
// rejects a zero-height range, so all-zero data still gets a range of 1.
func yMax(values []float64) float64 {
	m := floats.Max(values)
	if m <= 0 {
		return 1
	}
	return m * 1.05
}
