//go:build opengl

package opengl

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gogpu/tex"
	"github.com/gogpu/tex/backend"
)

var (
	// ErrNoTextureBound is returned by operations issued with binding 0.
	ErrNoTextureBound = errors.New("opengl: no texture bound")

	// ErrShortPixels is returned when pixel data is smaller than the level.
	ErrShortPixels = errors.New("opengl: pixel data too small for level")
)

func init() {
	backend.Register(backend.BackendOpenGL, func() (tex.Device, tex.Capabilities, error) {
		d, err := New()
		if err != nil {
			return nil, nil, err
		}
		return d, d.Capabilities(), nil
	})
}

// Device is a tex.Device on the current GL context.
type Device struct {
	caps  tex.StaticCapabilities
	bound tex.Handle
}

// New initializes the GL function pointers of the current context and
// probes its limits.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("opengl: init: %w", err)
	}
	return &Device{caps: Probe()}, nil
}

// Probe reports the capabilities of the current context. The 4.1 core
// profile guarantees every optional feature; only the maximum size varies.
func Probe() tex.StaticCapabilities {
	var maxSize int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxSize)
	return tex.StaticCapabilities{
		MaxSize:          int(maxSize),
		NPOT:             true,
		Bilinear:         true,
		ClampEdge:        true,
		MipmapGeneration: true,
	}
}

// Capabilities returns the profile probed by New.
func (d *Device) Capabilities() tex.StaticCapabilities {
	return d.caps
}

// GenTexture implements tex.Device.
func (d *Device) GenTexture() (tex.Handle, error) {
	var id uint32
	gl.GenTextures(1, &id)
	if id == 0 {
		return 0, fmt.Errorf("opengl: glGenTextures: %w", glError())
	}
	return tex.Handle(id), nil
}

// DeleteTexture implements tex.Device.
func (d *Device) DeleteTexture(h tex.Handle) {
	id := uint32(h)
	gl.DeleteTextures(1, &id)
	if d.bound == h {
		d.bound = 0
	}
}

// BindTexture implements tex.Device.
func (d *Device) BindTexture(h tex.Handle) {
	gl.BindTexture(gl.TEXTURE_2D, uint32(h))
	d.bound = h
}

// TexImage2D implements tex.Device.
func (d *Device) TexImage2D(level int, size image.Point, format tex.PixelFormat, pix []byte) error {
	if d.bound == 0 {
		return ErrNoTextureBound
	}
	uf, ok := uploadFormatFor(format)
	if !ok {
		return fmt.Errorf("opengl: level %d: %w", level, tex.ErrUnsupportedChannels)
	}

	var ptr unsafe.Pointer
	if pix != nil {
		need := size.X * size.Y * format.Channels()
		if need == 0 || len(pix) < need {
			return fmt.Errorf("%w: level %d needs %d bytes, got %d", ErrShortPixels, level, need, len(pix))
		}
		ptr = gl.Ptr(pix)
	}

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, uf.align)
	gl.TexImage2D(gl.TEXTURE_2D, int32(level), uf.internal,
		int32(size.X), int32(size.Y), 0, uf.external, gl.UNSIGNED_BYTE, ptr)
	if err := glError(); err != nil {
		return fmt.Errorf("opengl: glTexImage2D level %d: %w", level, err)
	}
	if level == 0 {
		gl.TexParameteriv(gl.TEXTURE_2D, gl.TEXTURE_SWIZZLE_RGBA, &uf.swizzle[0])
	}
	return nil
}

// SetWrap implements tex.Device.
func (d *Device) SetWrap(s tex.SamplerState) {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrapParam(s.AddressModeU))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrapParam(s.AddressModeV))
}

// SetFilter implements tex.Device.
func (d *Device) SetFilter(s tex.SamplerState) {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilterParam(s))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilterParam(s))
}

// CopyFromScreen implements tex.Device. region is in top-left origin
// window coordinates and is flipped against the current viewport.
func (d *Device) CopyFromScreen(region image.Rectangle) error {
	if d.bound == 0 {
		return ErrNoTextureBound
	}
	var viewport [4]int32
	gl.GetIntegerv(gl.VIEWPORT, &viewport[0])

	y := viewport[3] - int32(region.Max.Y)
	gl.CopyTexSubImage2D(gl.TEXTURE_2D, 0, 0, 0,
		int32(region.Min.X), y, int32(region.Dx()), int32(region.Dy()))
	if err := glError(); err != nil {
		return fmt.Errorf("opengl: glCopyTexSubImage2D: %w", err)
	}
	return nil
}

// GenerateMipmap implements tex.Device.
func (d *Device) GenerateMipmap() error {
	if d.bound == 0 {
		return ErrNoTextureBound
	}
	gl.GenerateMipmap(gl.TEXTURE_2D)
	if err := glError(); err != nil {
		return fmt.Errorf("opengl: glGenerateMipmap: %w", err)
	}
	return nil
}

// glError drains the GL error queue and reports the first error.
func glError() error {
	first := gl.GetError()
	if first == gl.NO_ERROR {
		return nil
	}
	for gl.GetError() != gl.NO_ERROR {
	}
	return fmt.Errorf("glGetError: %#x", first)
}
