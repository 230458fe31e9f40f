package imagebuf

import "fmt"

// Format represents a pixel storage layout with 8 bits per channel.
// The channel count of a format is the "bit depth" a texture upload sees.
type Format uint8

const (
	// FormatGray8 is a single luminance channel (1 byte per pixel).
	FormatGray8 Format = iota

	// FormatGrayAlpha8 is luminance plus alpha (2 bytes per pixel).
	FormatGrayAlpha8

	// FormatRGB8 is 24-bit RGB without alpha (3 bytes per pixel).
	FormatRGB8

	// FormatRGBA8 is 32-bit non-premultiplied RGBA (4 bytes per pixel).
	// This is the standard format for decoded images.
	FormatRGBA8

	// formatCount is the number of formats (for internal use).
	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	// Channels is the number of 8-bit channels per pixel.
	Channels int

	// HasAlpha indicates if the format has an alpha channel.
	HasAlpha bool

	// IsGrayscale indicates if color is stored as a single luminance value.
	IsGrayscale bool
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatGray8:      {Channels: 1, IsGrayscale: true},
	FormatGrayAlpha8: {Channels: 2, HasAlpha: true, IsGrayscale: true},
	FormatRGB8:       {Channels: 3},
	FormatRGBA8:      {Channels: 4, HasAlpha: true},
}

// FormatForChannels returns the format storing n channels per pixel.
// Returns ErrInvalidFormat wrapped with the count when n is outside 1..4.
func FormatForChannels(n int) (Format, error) {
	switch n {
	case 1:
		return FormatGray8, nil
	case 2:
		return FormatGrayAlpha8, nil
	case 3:
		return FormatRGB8, nil
	case 4:
		return FormatRGBA8, nil
	default:
		return 0, fmt.Errorf("%w: %d channels", ErrInvalidFormat, n)
	}
}

// Info returns the FormatInfo for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// Channels returns the number of channels, which is also the byte count per pixel.
func (f Format) Channels() int {
	return f.Info().Channels
}

// BytesPerPixel returns the number of bytes per pixel for this format.
func (f Format) BytesPerPixel() int {
	return f.Info().Channels
}

// HasAlpha returns true if this format has an alpha channel.
func (f Format) HasAlpha() bool {
	return f.Info().HasAlpha
}

// IsGrayscale returns true if this is a luminance format.
func (f Format) IsGrayscale() bool {
	return f.Info().IsGrayscale
}

// IsValid returns true if the format is a valid known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// RowBytes calculates the number of bytes needed for a row of the given width.
func (f Format) RowBytes(width int) int {
	return width * f.BytesPerPixel()
}

// ImageBytes calculates the total number of bytes needed for an image.
func (f Format) ImageBytes(width, height int) int {
	return f.RowBytes(width) * height
}

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatGray8:
		return "Gray8"
	case FormatGrayAlpha8:
		return "GrayAlpha8"
	case FormatRGB8:
		return "RGB8"
	case FormatRGBA8:
		return "RGBA8"
	default:
		return "Unknown"
	}
}
