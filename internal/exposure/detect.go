// Package exposure flags exposure defects from a total intensity histogram.
//
// The thresholds are empirical and must stay exactly as they are: the
// detectors were calibrated against a weight of height*width*3 and a total
// histogram that sums the blue, green and red channels.
//
// # Degenerate input
//
// A zero weight cannot reach these functions through the analyzer, because
// empty images are rejected before histograms are built. Every mean is taken
// over a fixed, non-empty window, so no NaN is produced. A perfectly flat
// histogram has a zero mean slope and therefore a zero crush limit; nothing
// exceeds it and no crushed blacks are reported.
package exposure

import (
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/ppguess/internal/histogram"
)

const (
	// clipWindow is the number of bins checked at each end of the range.
	clipWindow = 10
	// clipFactor times the uniform-bin expectation marks a clipped bin.
	clipFactor = 5.0

	// liftWindow is the number of shadow bins averaged.
	liftWindow = 20
	// liftDivisor scales the uniform-bin expectation down to the lift limit.
	liftDivisor = 30.0

	// slopeFactor times the mean absolute slope marks a crushing edge.
	slopeFactor = 11.0
	// The first slopes are skipped: near-black spikes are common and benign.
	slopeWindowStart = 5
	slopeWindowEnd   = 128
)

// ClipLimit is the per-bin count above which an end bin counts as clipped.
func ClipLimit(weight float64) float64 {
	return weight / histogram.Bins * clipFactor
}

// LiftLimit is the shadow mean below which blacks count as lifted.
func LiftLimit(weight float64) float64 {
	return weight / (histogram.Bins * liftDivisor)
}

// Clipped reports whether any of the darkest or brightest clipWindow bins of
// total exceeds ClipLimit. The two checks are independent.
func Clipped(total histogram.Hist, weight float64) (blacks, whites bool) {
	limit := ClipLimit(weight)
	for _, v := range total[:clipWindow] {
		if float64(v) > limit {
			blacks = true
			break
		}
	}
	for _, v := range total[histogram.Bins-clipWindow:] {
		if float64(v) > limit {
			whites = true
			break
		}
	}
	return blacks, whites
}

// Lifted reports whether the mean of the first liftWindow bins of total is
// strictly below LiftLimit.
func Lifted(total histogram.Hist, weight float64) bool {
	shadows := total.Floats()[:liftWindow]
	return stat.Mean(shadows, nil) < LiftLimit(weight)
}

// CrushLimit is slopeFactor times the mean absolute slope of total.
func CrushLimit(total histogram.Hist) float64 {
	return crushLimit(histogram.AbsDerivative(total))
}

func crushLimit(slopes []float64) float64 {
	return stat.Mean(slopes, nil) * slopeFactor
}

// SlopeWindow returns the half-open range of slope indices Crushed inspects.
func SlopeWindow() (start, end int) {
	return slopeWindowStart, slopeWindowEnd
}

// Crushed reports whether any absolute slope of total in
// [slopeWindowStart, slopeWindowEnd) exceeds CrushLimit.
func Crushed(total histogram.Hist) bool {
	slopes := histogram.AbsDerivative(total)
	limit := crushLimit(slopes)
	for _, v := range slopes[slopeWindowStart:slopeWindowEnd] {
		if v > limit {
			return true
		}
	}
	return false
}

// Evaluate runs every detector over total and returns the findings in the
// order clipped blacks, clipped whites, lifted blacks, crushed blacks.
func Evaluate(total histogram.Hist, weight float64) []Finding {
	findings := make([]Finding, 0, len(AllFindings))

	blacks, whites := Clipped(total, weight)
	if blacks {
		findings = append(findings, ClippedBlacks)
	}
	if whites {
		findings = append(findings, ClippedWhites)
	}
	if Lifted(total, weight) {
		findings = append(findings, LiftedBlacks)
	}
	if Crushed(total) {
		findings = append(findings, CrushedBlacks)
	}
	return findings
}
