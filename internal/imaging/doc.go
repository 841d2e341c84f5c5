// Package imaging loads photographs and prepares them for exposure analysis.
//
// It covers decoding (with a shared cache), shape validation, region
// cropping, optional downscaling, and the HSV conversion behind the hue
// profile. Everything here treats its input image as read-only: crops,
// downscales and HSV grids are always new allocations.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner of the
// image bounds. For regions, (x1,y1) is inclusive and (x2,y2) is exclusive.
//
// # Channels
//
// Analysis always works on three 8-bit channels. Alpha is dropped, grayscale
// and paletted sources expand to three equal channels, and 16-bit sources are
// truncated to their high byte.
//
// # Hue Representation
//
// HSV pixels use whole units: hue 0-359 degrees, saturation and value 0-100
// percent. Achromatic pixels get hue 0.
//
// # Error Handling
//
// Load failures return apperr.KindLoad errors naming the path, images with no
// pixels return apperr.KindShape, and bad crop requests return
// apperr.KindArgument.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The other functions are stateless.
package imaging
