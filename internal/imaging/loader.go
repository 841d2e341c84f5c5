package imaging

import (
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/ppguess/internal/apperr"
)

// AnalysisChannels is the channel count every decoded image is analyzed with.
// Grayscale and paletted sources are expanded to three equal channels and
// alpha is dropped.
const AnalysisChannels = 3

// ImageCache provides thread-safe caching of loaded images to avoid redundant disk reads.
//
// The cache stores decoded image.Image objects keyed by their file path. Once an image
// is loaded, subsequent Load() calls for the same path return the cached copy without
// disk I/O. Cached images are shared and must be treated as read-only.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or Clear().
// A one-shot CLI run never needs to evict; the MCP server keeps images across
// tool calls so that analyze, histogram and plot requests on the same file
// decode it once.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// Parameters:
//   - path: Absolute or relative file path to the image. Supported formats are
//     PNG, JPEG, GIF, BMP, TIFF and WebP.
//
// Returns:
//   - image.Image: The decoded image.
//   - error: A load error (apperr.KindLoad) naming the path if the file cannot
//     be opened or decoded, or a shape error (apperr.KindShape) if it decodes
//     to an image with no pixels. Failed loads are not cached.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, apperr.NewLoadError(path, "failed to open image", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, apperr.NewLoadError(path, "failed to decode image", err)
	}
	if err := ValidateShape(img); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// ValidateShape rejects images that have nothing to analyze.
func ValidateShape(img image.Image) error {
	if img == nil {
		return apperr.NewShapeError("no image")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return apperr.NewShapeError("image has no pixels")
	}
	return nil
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the image format derived from the file extension:
	// "png", "jpeg", "gif", "bmp", "tiff", "webp", or "unknown".
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	// Analysis always works on 8-bit values; 16-bit sources are truncated.
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the decoded image type carries alpha.
	// Alpha never contributes to histograms.
	HasAlpha bool `json:"has_alpha"`

	// Channels is the number of colour channels the analysis counts.
	Channels int `json:"channels"`

	// PixelWeight is Width * Height * Channels, the threshold normaliser.
	PixelWeight int `json:"pixel_weight"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image and returns metadata about it.
//
// The image is loaded into the cache if not already present.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, apperr.NewLoadError(path, "failed to stat file", err)
	}

	info := DescribeImage(img)
	info.Format = formatFromPath(path)
	info.FileSizeBytes = stat.Size()
	return info, nil
}

// DescribeImage returns the in-memory part of ImageInfo for img.
// Format and FileSizeBytes are left empty.
func DescribeImage(img image.Image) *ImageInfo {
	bounds := img.Bounds()

	hasAlpha := false
	colorDepth := "8-bit"
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	return &ImageInfo{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		Format:      "unknown",
		ColorDepth:  colorDepth,
		HasAlpha:    hasAlpha,
		Channels:    AnalysisChannels,
		PixelWeight: bounds.Dx() * bounds.Dy() * AnalysisChannels,
	}
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	case ".webp":
		return "webp"
	}
	return "unknown"
}
