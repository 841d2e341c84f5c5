package imaging

import (
	"encoding/base64"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/ppguess/internal/apperr"
)

func TestCrop(t *testing.T) {
	img := createPatternImage(100, 100)

	cropped, err := Crop(img, Region{X1: 0, Y1: 0, X2: 50, Y2: 50})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	b := cropped.Bounds()
	if b.Dx() != 50 || b.Dy() != 50 {
		t.Errorf("dimensions: got %dx%d, want 50x50", b.Dx(), b.Dy())
	}
	if b.Min != (image.Point{}) {
		t.Errorf("origin: got %v, want (0,0)", b.Min)
	}

	// Top-left quadrant of the pattern is red
	r, g, bl, _ := cropped.At(25, 25).RGBA()
	if r>>8 != 255 || g>>8 != 0 || bl>>8 != 0 {
		t.Errorf("color at (25,25): got (%d,%d,%d), want (255,0,0)", r>>8, g>>8, bl>>8)
	}
}

func TestCrop_DoesNotModifySource(t *testing.T) {
	img := createPatternImage(20, 20)
	before := append([]uint8(nil), img.Pix...)

	if _, err := Crop(img, Region{X1: 5, Y1: 5, X2: 15, Y2: 15}); err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	for i := range before {
		if img.Pix[i] != before[i] {
			t.Fatalf("source pixel byte %d changed", i)
		}
	}
}

func TestCrop_OutOfBounds(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name string
		r    Region
	}{
		{"x1 negative", Region{-1, 0, 50, 50}},
		{"y1 negative", Region{0, -1, 50, 50}},
		{"x2 too large", Region{0, 0, 101, 50}},
		{"y2 too large", Region{0, 0, 50, 101}},
		{"all out of bounds", Region{-1, -1, 200, 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Crop(img, tt.r)
			if err == nil {
				t.Fatal("Crop should fail for out-of-bounds coordinates")
			}
			if !apperr.IsKind(err, apperr.KindArgument) {
				t.Errorf("expected argument error, got %v", err)
			}
		})
	}
}

func TestCrop_InvalidRegion(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name string
		r    Region
	}{
		{"x1 equals x2", Region{50, 0, 50, 50}},
		{"y1 equals y2", Region{0, 50, 50, 50}},
		{"x1 greater than x2", Region{60, 0, 50, 50}},
		{"y1 greater than y2", Region{0, 60, 50, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Crop(img, tt.r); err == nil {
				t.Error("Crop should fail for invalid region")
			}
		})
	}
}

func TestNamedRegion(t *testing.T) {
	img := createInMemoryImage(100, 80, color.RGBA{0, 0, 0, 255})

	tests := []struct {
		name string
		want Region
	}{
		{"top-left", Region{0, 0, 50, 40}},
		{"top-right", Region{50, 0, 100, 40}},
		{"bottom-left", Region{0, 40, 50, 80}},
		{"bottom-right", Region{50, 40, 100, 80}},
		{"top-half", Region{0, 0, 100, 40}},
		{"bottom-half", Region{0, 40, 100, 80}},
		{"left-half", Region{0, 0, 50, 80}},
		{"right-half", Region{50, 0, 100, 80}},
		{"center", Region{25, 20, 75, 60}},
	}

	if len(tests) != len(RegionNames) {
		t.Fatalf("test table covers %d regions, RegionNames has %d", len(tests), len(RegionNames))
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NamedRegion(img, tt.name)
			if err != nil {
				t.Fatalf("NamedRegion failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNamedRegion_Offset(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 40, 40))
	sub := base.SubImage(image.Rect(10, 10, 30, 30))

	got, err := NamedRegion(sub, "bottom-right")
	if err != nil {
		t.Fatalf("NamedRegion failed: %v", err)
	}
	want := Region{20, 20, 30, 30}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestNamedRegion_Unknown(t *testing.T) {
	img := createInMemoryImage(10, 10, color.RGBA{0, 0, 0, 255})
	_, err := NamedRegion(img, "middle-ish")
	if !apperr.IsKind(err, apperr.KindArgument) {
		t.Errorf("expected argument error, got %v", err)
	}
}

func TestCropNamed(t *testing.T) {
	img := createPatternImage(100, 100)

	same, err := CropNamed(img, "")
	if err != nil {
		t.Fatalf("CropNamed with empty name failed: %v", err)
	}
	if same != image.Image(img) {
		t.Error("empty region name should return the source image")
	}

	br, err := CropNamed(img, "bottom-right")
	if err != nil {
		t.Fatalf("CropNamed failed: %v", err)
	}
	if br.Bounds().Dx() != 50 || br.Bounds().Dy() != 50 {
		t.Errorf("dimensions: got %v", br.Bounds())
	}
	// Bottom-right quadrant of the pattern is white
	r, g, b, _ := br.At(10, 10).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("expected white, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestFit(t *testing.T) {
	img := createInMemoryImage(400, 200, color.RGBA{10, 20, 30, 255})

	tests := []struct {
		name         string
		maxSide      int
		wantW, wantH int
	}{
		{"disabled", 0, 400, 200},
		{"negative", -3, 400, 200},
		{"within limit", 500, 400, 200},
		{"downscale", 100, 100, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Fit(img, tt.maxSide)
			b := out.Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}

	// A solid image keeps its colour through box filtering
	r, g, b, _ := Fit(img, 100).At(50, 25).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("downscaled colour: got (%d,%d,%d), want (10,20,30)", r>>8, g>>8, b>>8)
	}
}

func TestEncodePNGBase64(t *testing.T) {
	img := createInMemoryImage(8, 8, color.RGBA{1, 2, 3, 255})

	encoded, err := EncodePNGBase64(img)
	if err != nil {
		t.Fatalf("EncodePNGBase64 failed: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	if len(raw) < 8 || string(raw[1:4]) != "PNG" {
		t.Error("payload is not a PNG")
	}
}
