package tex

import (
	"image"

	"github.com/gogpu/tex/imagebuf"
)

// Handle names a texture allocated by a Device. Zero is never a valid
// allocation.
type Handle uint32

// Device is the GPU backend a Context drives. Apart from GenTexture and
// DeleteTexture, every method acts on the texture most recently passed to
// BindTexture, mirroring the single binding slot of the GPU context.
//
// Implementations live under backend/: soft (in-memory), wgpu and opengl.
type Device interface {
	// GenTexture allocates a new texture name.
	GenTexture() (Handle, error)

	// DeleteTexture releases a texture allocated by GenTexture.
	DeleteTexture(h Handle)

	// BindTexture makes h current. Binding 0 unbinds.
	BindTexture(h Handle)

	// TexImage2D defines mip level of the bound texture with the given size.
	// pix holds tightly packed rows in format, or is nil to allocate the
	// level without initializing it.
	TexImage2D(level int, size image.Point, format PixelFormat, pix []byte) error

	// SetWrap applies the address modes of s to the bound texture.
	SetWrap(s SamplerState)

	// SetFilter applies the filters of s to the bound texture.
	SetFilter(s SamplerState)

	// CopyFromScreen copies region of the current render target into
	// level 0 of the bound texture, with region.Min landing on texel (0, 0).
	CopyFromScreen(region image.Rectangle) error

	// GenerateMipmap derives all levels below 0 of the bound texture.
	GenerateMipmap() error
}

// Painter is the rendering component that draws with the bound texture.
// It is told about every bind so its own cached texture state stays
// consistent with the GPU.
type Painter interface {
	SetTexture(t *Texture)
}

// Image is a decoded image a texture can be created from. *imagebuf.Buf
// implements it.
type Image interface {
	imagebuf.Source

	// Paste copies src into this image with its top-left at the origin.
	Paste(src imagebuf.Source)

	// NextMipmap replaces the contents with the next, half-sized mipmap
	// level and reports whether there was one.
	NextMipmap() bool
}

// ImageFactory allocates a blank image of the given size and channel count.
// Textures use it for power-of-two padding and for mipmap scratch copies.
type ImageFactory func(size image.Point, channels int) (Image, error)

func newImageBuf(size image.Point, channels int) (Image, error) {
	buf, err := imagebuf.NewWithChannels(size, channels)
	if err != nil {
		return nil, err
	}
	return buf, nil
}
