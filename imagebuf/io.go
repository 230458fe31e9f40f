package imagebuf

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp" // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the data is not a known image container.
	ErrUnsupportedFormat = errors.New("imagebuf: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("imagebuf: empty data")
)

// sniffLen is the number of header bytes filetype needs to identify a container.
const sniffLen = 262

// Load decodes the image file at path.
// Supported containers: PNG, JPEG, GIF, BMP, TIFF and WebP.
func Load(path string) (*Buf, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("imagebuf: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// DecodeBytes decodes an image held in memory.
func DecodeBytes(data []byte) (*Buf, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Decode sniffs the container type of r and decodes it into a Buf whose
// channel count follows the source: grayscale images keep one channel,
// opaque YCbCr images (JPEG) become RGB and everything else RGBA.
func Decode(r io.Reader) (*Buf, error) {
	br := bufio.NewReaderSize(r, 4096)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("imagebuf: read header: %w", err)
	}
	if len(head) == 0 {
		return nil, ErrEmptyData
	}

	kind, _ := filetype.Match(head)
	if kind == filetype.Unknown || !filetype.IsImage(head) {
		return nil, ErrUnsupportedFormat
	}

	img, _, err := image.Decode(br)
	if err != nil {
		return nil, fmt.Errorf("imagebuf: decode %s: %w", kind.Extension, err)
	}
	return FromStdImage(img), nil
}

// FromStdImage converts a standard library image into a Buf.
func FromStdImage(img image.Image) *Buf {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return &Buf{format: FormatRGBA8}
	}

	switch src := img.(type) {
	case *image.Gray:
		buf, _ := New(width, height, FormatGray8)
		for y := range height {
			start := (y+bounds.Min.Y-src.Rect.Min.Y)*src.Stride + (bounds.Min.X - src.Rect.Min.X)
			copy(buf.RowBytes(y), src.Pix[start:start+width])
		}
		return buf

	case *image.NRGBA:
		buf, _ := New(width, height, FormatRGBA8)
		for y := range height {
			start := (y+bounds.Min.Y-src.Rect.Min.Y)*src.Stride + (bounds.Min.X-src.Rect.Min.X)*4
			copy(buf.RowBytes(y), src.Pix[start:start+width*4])
		}
		return buf

	case *image.YCbCr:
		nrgba := toNRGBA(src)
		buf, _ := New(width, height, FormatRGB8)
		for y := range height {
			row := buf.RowBytes(y)
			in := nrgba.Pix[y*nrgba.Stride:]
			for x := range width {
				row[x*3] = in[x*4]
				row[x*3+1] = in[x*4+1]
				row[x*3+2] = in[x*4+2]
			}
		}
		return buf
	}

	nrgba := toNRGBA(img)
	buf, _ := New(width, height, FormatRGBA8)
	for y := range height {
		copy(buf.RowBytes(y), nrgba.Pix[y*nrgba.Stride:y*nrgba.Stride+width*4])
	}
	return buf
}

// toNRGBA draws img into a zero-origin non-premultiplied RGBA image.
func toNRGBA(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Copy(dst, image.Point{}, img, bounds, draw.Src, nil)
	return dst
}

// ToStdImage converts the buffer to a standard library image.
// Returns *image.Gray for FormatGray8 and *image.NRGBA otherwise.
func (b *Buf) ToStdImage() image.Image {
	rect := image.Rect(0, 0, b.width, b.height)

	if b.format == FormatGray8 {
		gray := image.NewGray(rect)
		for y := range b.height {
			copy(gray.Pix[y*gray.Stride:], b.RowBytes(y))
		}
		return gray
	}

	nrgba := image.NewNRGBA(rect)
	for y := range b.height {
		for x := range b.width {
			r, g, bl, a := b.GetRGBA(x, y)
			off := y*nrgba.Stride + x*4
			nrgba.Pix[off] = r
			nrgba.Pix[off+1] = g
			nrgba.Pix[off+2] = bl
			nrgba.Pix[off+3] = a
		}
	}
	return nrgba
}

// EncodePNG writes the buffer to w as PNG.
func (b *Buf) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, b.ToStdImage()); err != nil {
		return fmt.Errorf("imagebuf: encode PNG: %w", err)
	}
	return nil
}

// SavePNG writes the buffer to a PNG file.
func (b *Buf) SavePNG(path string) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("imagebuf: create file: %w", err)
	}
	if err := b.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
