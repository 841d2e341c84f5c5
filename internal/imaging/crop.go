package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/ppguess/internal/apperr"
)

// Region represents a rectangular region within an image.
//
// Coordinates follow the standard image convention:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// RegionNames lists the names accepted by NamedRegion.
var RegionNames = []string{
	"top-left", "top-right", "bottom-left", "bottom-right",
	"top-half", "bottom-half", "left-half", "right-half", "center",
}

// Crop extracts a rectangular region from an image.
//
// The returned image is a copy with its origin at (0,0); img is not modified.
// Returns an argument error if the region is empty or leaves the image bounds.
func Crop(img image.Image, r Region) (image.Image, error) {
	bounds := img.Bounds()

	if r.X1 < bounds.Min.X || r.Y1 < bounds.Min.Y || r.X2 > bounds.Max.X || r.Y2 > bounds.Max.Y {
		return nil, apperr.NewArgumentError(fmt.Sprintf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.X1, r.Y1, r.X2, r.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y), nil)
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return nil, apperr.NewArgumentError("invalid crop region: x1 must be < x2, y1 must be < y2", nil)
	}

	return imaging.Crop(img, r.Rect()), nil
}

// NamedRegion resolves a region name such as "top-left" or "center" to
// coordinates within img.
func NamedRegion(img image.Image, name string) (Region, error) {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	midX := w / 2
	midY := h / 2

	var x1, y1, x2, y2 int

	switch name {
	case "top-left":
		x1, y1, x2, y2 = 0, 0, midX, midY
	case "top-right":
		x1, y1, x2, y2 = midX, 0, w, midY
	case "bottom-left":
		x1, y1, x2, y2 = 0, midY, midX, h
	case "bottom-right":
		x1, y1, x2, y2 = midX, midY, w, h
	case "top-half":
		x1, y1, x2, y2 = 0, 0, w, midY
	case "bottom-half":
		x1, y1, x2, y2 = 0, midY, w, h
	case "left-half":
		x1, y1, x2, y2 = 0, 0, midX, h
	case "right-half":
		x1, y1, x2, y2 = midX, 0, w, h
	case "center":
		// Center 50% of the image
		qW := w / 4
		qH := h / 4
		x1, y1, x2, y2 = qW, qH, w-qW, h-qH
	default:
		return Region{}, apperr.NewArgumentError(fmt.Sprintf("unknown region: %s", name), nil)
	}

	return Region{
		X1: bounds.Min.X + x1,
		Y1: bounds.Min.Y + y1,
		X2: bounds.Min.X + x2,
		Y2: bounds.Min.Y + y2,
	}, nil
}

// CropNamed crops img to the named region. An empty name returns img unchanged.
func CropNamed(img image.Image, name string) (image.Image, error) {
	if name == "" {
		return img, nil
	}
	r, err := NamedRegion(img, name)
	if err != nil {
		return nil, err
	}
	return Crop(img, r)
}

// Fit downscales img so neither side exceeds maxSide, preserving aspect ratio.
//
// Box filtering averages source pixels, which keeps the histogram shape close
// to the original. A maxSide <= 0, or an image already within the limit, is
// returned as is.
func Fit(img image.Image, maxSide int) image.Image {
	if maxSide <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= maxSide && b.Dy() <= maxSide {
		return img
	}
	return imaging.Fit(img, maxSide, maxSide, imaging.Box)
}

// EncodePNGBase64 encodes img as PNG and returns it base64-encoded.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
