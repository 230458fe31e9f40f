// Package imagebuf provides the decoded pixel buffers that textures upload.
//
// A Buf stores 8-bit pixels with one to four channels in a contiguous slice.
// Besides plain pixel access it supports the two operations texture creation
// relies on: pasting another image at the origin of a larger (padded) buffer,
// and halving itself in place to produce the next mipmap level.
package imagebuf

import (
	"errors"
	"image"
)

// Common errors for buffer operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("imagebuf: invalid dimensions")

	// ErrInvalidFormat is returned when the format or channel count is not recognized.
	ErrInvalidFormat = errors.New("imagebuf: invalid format")

	// ErrInvalidStride is returned when stride is less than minimum required.
	ErrInvalidStride = errors.New("imagebuf: stride too small for width")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("imagebuf: data buffer too small")

	// ErrOutOfBounds is returned when pixel coordinates are outside image bounds.
	ErrOutOfBounds = errors.New("imagebuf: coordinates out of bounds")
)

// Source is a read-only view of tightly packed pixel data.
// Pix holds Size().Y rows of Size().X*Channels() bytes each.
type Source interface {
	Size() image.Point
	Channels() int
	Pix() []byte
}

// Buf is a pixel buffer with an optional row stride.
//
// Buf is not safe for concurrent mutation. Paste, NextMipmap and the Set*
// methods require external synchronization.
type Buf struct {
	data   []byte
	width  int
	height int
	stride int
	format Format
}

// New creates a zeroed buffer with the given dimensions and format.
func New(width, height int, format Format) (*Buf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}

	stride := format.RowBytes(width)
	return &Buf{
		data:   make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// NewWithChannels creates a zeroed buffer storing the given number of channels.
func NewWithChannels(size image.Point, channels int) (*Buf, error) {
	format, err := FormatForChannels(channels)
	if err != nil {
		return nil, err
	}
	return New(size.X, size.Y, format)
}

// FromRaw creates a Buf from existing data without copying.
// The caller must ensure data remains valid for the lifetime of the Buf.
// Stride must be at least format.RowBytes(width).
func FromRaw(data []byte, width, height int, format Format, stride int) (*Buf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	if stride < format.RowBytes(width) {
		return nil, ErrInvalidStride
	}
	if len(data) < stride*height {
		return nil, ErrDataTooSmall
	}

	return &Buf{
		data:   data[:stride*height],
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// Clone creates a deep, tightly packed copy of the buffer.
func (b *Buf) Clone() *Buf {
	c := &Buf{
		width:  b.width,
		height: b.height,
		stride: b.format.RowBytes(b.width),
		format: b.format,
	}
	c.data = make([]byte, c.stride*c.height)
	for y := range b.height {
		copy(c.data[y*c.stride:], b.RowBytes(y))
	}
	return c
}

// Width returns the image width in pixels.
func (b *Buf) Width() int {
	return b.width
}

// Height returns the image height in pixels.
func (b *Buf) Height() int {
	return b.height
}

// Size returns the image dimensions.
func (b *Buf) Size() image.Point {
	return image.Pt(b.width, b.height)
}

// Stride returns the number of bytes per row (including padding).
func (b *Buf) Stride() int {
	return b.stride
}

// Format returns the pixel format.
func (b *Buf) Format() Format {
	return b.format
}

// Channels returns the number of channels per pixel.
func (b *Buf) Channels() int {
	return b.format.Channels()
}

// Data returns the raw pixel data slice, including any stride padding.
func (b *Buf) Data() []byte {
	return b.data
}

// Pix returns tightly packed pixel rows. For buffers whose stride equals the
// row size this is Data() itself; otherwise a packed copy is returned.
func (b *Buf) Pix() []byte {
	rowBytes := b.format.RowBytes(b.width)
	if b.stride == rowBytes {
		return b.data[:rowBytes*b.height]
	}
	out := make([]byte, rowBytes*b.height)
	for y := range b.height {
		copy(out[y*rowBytes:], b.RowBytes(y))
	}
	return out
}

// RowBytes returns a slice of the pixel data for row y.
// Returns nil if y is out of bounds.
func (b *Buf) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	return b.data[start : start+b.format.RowBytes(b.width)]
}

// PixelOffset returns the byte offset of pixel (x, y) in the data slice.
// Returns -1 if coordinates are out of bounds.
func (b *Buf) PixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.stride + x*b.format.BytesPerPixel()
}

// PixelBytes returns a slice of the raw bytes for pixel (x, y).
// Returns nil if coordinates are out of bounds.
func (b *Buf) PixelBytes(x, y int) []byte {
	offset := b.PixelOffset(x, y)
	if offset < 0 {
		return nil
	}
	return b.data[offset : offset+b.format.BytesPerPixel()]
}

// GetRGBA returns the color at (x, y) as (r, g, b, a) in 0-255 range.
// Luminance expands to r=g=b; formats without alpha report a=255.
// Returns (0,0,0,0) if coordinates are out of bounds.
func (b *Buf) GetRGBA(x, y int) (r, g, bl, a uint8) {
	pixel := b.PixelBytes(x, y)
	if pixel == nil {
		return 0, 0, 0, 0
	}

	switch b.format {
	case FormatGray8:
		v := pixel[0]
		return v, v, v, 255
	case FormatGrayAlpha8:
		v := pixel[0]
		return v, v, v, pixel[1]
	case FormatRGB8:
		return pixel[0], pixel[1], pixel[2], 255
	case FormatRGBA8:
		return pixel[0], pixel[1], pixel[2], pixel[3]
	default:
		return 0, 0, 0, 0
	}
}

// SetRGBA sets the color at (x, y) from (r, g, b, a) in 0-255 range.
// Luminance formats store 0.299*R + 0.587*G + 0.114*B.
// Returns ErrOutOfBounds if coordinates are outside image bounds.
func (b *Buf) SetRGBA(x, y int, r, g, bl, a uint8) error {
	offset := b.PixelOffset(x, y)
	if offset < 0 {
		return ErrOutOfBounds
	}

	switch b.format {
	case FormatGray8:
		b.data[offset] = luminance(r, g, bl)
	case FormatGrayAlpha8:
		b.data[offset] = luminance(r, g, bl)
		b.data[offset+1] = a
	case FormatRGB8:
		b.data[offset] = r
		b.data[offset+1] = g
		b.data[offset+2] = bl
	case FormatRGBA8:
		b.data[offset] = r
		b.data[offset+1] = g
		b.data[offset+2] = bl
		b.data[offset+3] = a
	}
	return nil
}

func luminance(r, g, b uint8) byte {
	return byte((int(r)*299 + int(g)*587 + int(b)*114) / 1000)
}

// Clear sets all pixels to zero.
func (b *Buf) Clear() {
	clear(b.data)
}

// Fill sets all pixels to the given RGBA color.
func (b *Buf) Fill(r, g, bl, a uint8) {
	for y := range b.height {
		for x := range b.width {
			_ = b.SetRGBA(x, y, r, g, bl, a)
		}
	}
}

// Paste copies src into b with src's top-left corner at b's origin.
// Pixels falling outside b are dropped; pixels of b not covered by src
// keep their previous contents. Channel layouts are converted when they
// differ.
func (b *Buf) Paste(src Source) {
	if src == nil {
		return
	}
	size := src.Size()
	w := min(size.X, b.width)
	h := min(size.Y, b.height)
	if w <= 0 || h <= 0 {
		return
	}

	srcFormat, err := FormatForChannels(src.Channels())
	if err != nil {
		return
	}
	srcRow := srcFormat.RowBytes(size.X)
	pix := src.Pix()

	if srcFormat == b.format {
		n := b.format.RowBytes(w)
		for y := range h {
			copy(b.data[y*b.stride:y*b.stride+n], pix[y*srcRow:y*srcRow+n])
		}
		return
	}

	view, err := FromRaw(pix, size.X, size.Y, srcFormat, srcRow)
	if err != nil {
		return
	}
	for y := range h {
		for x := range w {
			r, g, bl, a := view.GetRGBA(x, y)
			_ = b.SetRGBA(x, y, r, g, bl, a)
		}
	}
}

// SubImage returns a view into a rectangular region of the image.
// The returned Buf shares the underlying data with the original.
// Returns nil if the bounds are invalid or outside the image.
func (b *Buf) SubImage(r image.Rectangle) *Buf {
	if r.Empty() || r.Min.X < 0 || r.Min.Y < 0 || r.Max.X > b.width || r.Max.Y > b.height {
		return nil
	}

	bpp := b.format.BytesPerPixel()
	offset := r.Min.Y*b.stride + r.Min.X*bpp
	end := (r.Max.Y-1)*b.stride + r.Max.X*bpp

	return &Buf{
		data:   b.data[offset:end],
		width:  r.Dx(),
		height: r.Dy(),
		stride: b.stride,
		format: b.format,
	}
}

// ByteSize returns the total size of the image data in bytes.
func (b *Buf) ByteSize() int {
	return len(b.data)
}

// IsEmpty returns true if the image has zero dimensions.
func (b *Buf) IsEmpty() bool {
	return b.width == 0 || b.height == 0
}
