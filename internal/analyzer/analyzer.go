// Package analyzer runs the exposure pipeline for one image: load, optional
// region crop and downscale, histograms, heuristics, and an optional hue
// profile. The result is a Report; printing and plotting are left to callers.
package analyzer

import (
	"context"
	"image"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/ppguess/internal/exposure"
	"github.com/ironsheep/ppguess/internal/histogram"
	"github.com/ironsheep/ppguess/internal/imaging"
)

// Options control a single analysis.
type Options struct {
	// Region is a named sub-region (see imaging.RegionNames); empty means
	// the whole image.
	Region string
	// MaxDimension downscales the image so neither side exceeds it. 0 disables.
	MaxDimension int
	// HueProfile enables the HSV pass.
	HueProfile bool
	// IncludeHistogram keeps the histogram set in the report.
	IncludeHistogram bool
}

// Report is the structured result of an analysis.
type Report struct {
	Path        string              `json:"path,omitempty"`
	Width       int                 `json:"width"`
	Height      int                 `json:"height"`
	Channels    int                 `json:"channels"`
	PixelWeight int                 `json:"pixel_weight"`
	Region      string              `json:"region,omitempty"`
	Findings    []exposure.Finding  `json:"findings"`
	Histogram   *histogram.Set      `json:"histogram,omitempty"`
	Hue         *imaging.HueProfile `json:"hue,omitempty"`

	// set is always kept so plots can be rendered without recomputing.
	set *histogram.Set
}

// HistogramSet returns the histograms behind the findings, even when
// Options.IncludeHistogram was false.
func (r *Report) HistogramSet() *histogram.Set {
	return r.set
}

// Analyzer runs analyses against a shared image cache.
type Analyzer struct {
	cache *imaging.ImageCache
	opts  Options
	log   logrus.FieldLogger
}

// New creates an Analyzer. A nil cache gets a private one; a nil log
// discards output.
func New(cache *imaging.ImageCache, opts Options, log logrus.FieldLogger) *Analyzer {
	if cache == nil {
		cache = imaging.NewImageCache()
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Analyzer{cache: cache, opts: opts, log: log}
}

// Options returns the options the analyzer was created with.
func (a *Analyzer) Options() Options {
	return a.opts
}

// Analyze loads the image at path and analyzes it.
func (a *Analyzer) Analyze(ctx context.Context, path string) (*Report, error) {
	start := time.Now()
	log := a.log.WithField("path", path)

	img, err := a.cache.Load(path)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
	}).Debug("image loaded")

	report, err := a.analyze(ctx, img, log)
	if err != nil {
		return nil, err
	}
	report.Path = path

	log.WithFields(logrus.Fields{
		"findings": len(report.Findings),
		"elapsed":  time.Since(start).String(),
	}).Info("analysis complete")
	return report, nil
}

// AnalyzeImage analyzes an already decoded image.
func (a *Analyzer) AnalyzeImage(ctx context.Context, img image.Image) (*Report, error) {
	if err := imaging.ValidateShape(img); err != nil {
		return nil, err
	}
	return a.analyze(ctx, img, a.log)
}

func (a *Analyzer) analyze(ctx context.Context, img image.Image, log logrus.FieldLogger) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := imaging.CropNamed(img, a.opts.Region)
	if err != nil {
		return nil, err
	}
	if a.opts.MaxDimension > 0 {
		before := img.Bounds()
		img = imaging.Fit(img, a.opts.MaxDimension)
		if img.Bounds().Dx() != before.Dx() {
			log.WithFields(logrus.Fields{
				"from": before.Size().String(),
				"to":   img.Bounds().Size().String(),
			}).Debug("image downscaled")
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set, err := histogram.Build(img)
	if err != nil {
		return nil, err
	}
	weight := histogram.PixelWeight(img)
	findings := exposure.Evaluate(set.Total, float64(weight))

	report := &Report{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		Channels:    imaging.AnalysisChannels,
		PixelWeight: weight,
		Region:      a.opts.Region,
		Findings:    findings,
		set:         set,
	}
	if a.opts.IncludeHistogram {
		report.Histogram = set
	}

	if a.opts.HueProfile {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Hue = imaging.ProfileHue(img)
		log.WithField("dominant_hue", report.Hue.DominantHue).Debug("hue profile computed")
	}

	return report, nil
}
