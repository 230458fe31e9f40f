package wgpu

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/tex"
	"github.com/gogpu/tex/backend"
	"github.com/gogpu/tex/imagebuf"
)

// Device errors.
var (
	// ErrNoTextureBound is returned by operations issued with binding 0.
	ErrNoTextureBound = errors.New("wgpu: no texture bound")

	// ErrLevelMissing is returned when level 0 has not been defined yet.
	ErrLevelMissing = errors.New("wgpu: level 0 not defined")

	// ErrLevelSize is returned when a mip level does not match the size
	// derived from level 0.
	ErrLevelSize = errors.New("wgpu: mip level size mismatch")

	// ErrShortPixels is returned when pixel data is smaller than the level.
	ErrShortPixels = errors.New("wgpu: pixel data too small for level")

	// ErrNoScreenReader is returned by CopyFromScreen before SetScreenReader.
	ErrNoScreenReader = errors.New("wgpu: no screen reader attached")

	// ErrNoHALProvider is returned when a DeviceProvider does not expose
	// its HAL device and queue.
	ErrNoHALProvider = errors.New("wgpu: provider does not expose HAL types")
)

// BackendName is the registry name of the wgpu device.
const BackendName = "wgpu"

// textureUsage is the usage every texture is created with.
const textureUsage = gputypes.TextureUsageTextureBinding |
	gputypes.TextureUsageCopyDst |
	gputypes.TextureUsageCopySrc

// HALDevice is the part of hal.Device the texture device needs.
type HALDevice interface {
	CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error)
	DestroyTexture(texture hal.Texture)
	CreateSampler(desc *hal.SamplerDescriptor) (hal.Sampler, error)
	DestroySampler(sampler hal.Sampler)
}

// WriteFunc uploads data into a texture. It has the shape of
// hal.Queue.WriteTexture.
type WriteFunc func(dst *hal.ImageCopyTexture, data []byte, layout *hal.ImageDataLayout, size *hal.Extent3D) error

// ScreenReader reads back pixels of the current render target.
type ScreenReader interface {
	// ReadPixels returns the pixels of region as tightly packed rows of
	// four bytes each, in the surface format.
	ReadPixels(region image.Rectangle) ([]byte, error)
}

type texture struct {
	tex     hal.Texture
	sampler hal.Sampler
	size    image.Point
	levels  int
	state   tex.SamplerState

	// base mirrors level 0 in RGBA; mipmap generation and texture
	// reallocation read from it.
	base *imagebuf.Buf
}

// Device is a tex.Device on top of a HAL device and queue. Like the GPU
// context it stands in for, it is not safe for concurrent use.
type Device struct {
	device HALDevice
	write  WriteFunc
	caps   tex.StaticCapabilities

	screen       ScreenReader
	screenFormat gputypes.TextureFormat

	textures map[tex.Handle]*texture
	next     tex.Handle
	bound    tex.Handle
}

// New creates a device issuing resource calls to device and uploads to
// write. A zero caps uses tex.DefaultCapabilities.
func New(device HALDevice, write WriteFunc, caps tex.StaticCapabilities) *Device {
	if caps.MaxSize == 0 {
		caps = tex.DefaultCapabilities()
	}
	return &Device{
		device:       device,
		write:        write,
		caps:         caps,
		screenFormat: gputypes.TextureFormatRGBA8Unorm,
		textures:     make(map[tex.Handle]*texture),
		next:         1,
	}
}

// NewFromProvider creates a device sharing the GPU of a host application.
// The provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue. Screen reads are interpreted in the provider's
// surface format.
func NewFromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALProvider)
	}

	write := func(dst *hal.ImageCopyTexture, data []byte, layout *hal.ImageDataLayout, size *hal.Extent3D) error {
		return queue.WriteTexture(dst, data, layout, size)
	}
	d := New(device, write, tex.DefaultCapabilities())
	d.screenFormat = provider.SurfaceFormat()
	return d, nil
}

// Register makes provider's GPU available as the "wgpu" backend.
func Register(provider gpucontext.DeviceProvider) {
	backend.Register(BackendName, func() (tex.Device, tex.Capabilities, error) {
		d, err := NewFromProvider(provider)
		if err != nil {
			return nil, nil, err
		}
		return d, d.Capabilities(), nil
	})
}

// Capabilities returns the profile textures on this device negotiate
// against.
func (d *Device) Capabilities() tex.StaticCapabilities {
	return d.caps
}

// SetScreenReader attaches the render target CopyFromScreen reads from.
// format is the layout ReadPixels returns; BGRA formats are swizzled.
func (d *Device) SetScreenReader(r ScreenReader, format gputypes.TextureFormat) {
	d.screen = r
	d.screenFormat = format
}

// Texture returns the HAL texture of h, or nil before level 0 is defined.
func (d *Device) Texture(h tex.Handle) hal.Texture {
	if t := d.textures[h]; t != nil {
		return t.tex
	}
	return nil
}

// Sampler returns the HAL sampler of h, or nil before any wrap or filter
// state was applied.
func (d *Device) Sampler(h tex.Handle) hal.Sampler {
	if t := d.textures[h]; t != nil {
		return t.sampler
	}
	return nil
}

// LevelCount returns the number of mip levels allocated for h.
func (d *Device) LevelCount(h tex.Handle) int {
	if t := d.textures[h]; t != nil {
		return t.levels
	}
	return 0
}

// Close releases every texture still alive.
func (d *Device) Close() {
	for h := range d.textures {
		d.DeleteTexture(h)
	}
}

// GenTexture implements tex.Device. The HAL texture itself is created by
// the first level 0 upload, once the size is known.
func (d *Device) GenTexture() (tex.Handle, error) {
	h := d.next
	d.next++
	d.textures[h] = &texture{}
	return h, nil
}

// DeleteTexture implements tex.Device.
func (d *Device) DeleteTexture(h tex.Handle) {
	t, ok := d.textures[h]
	if !ok {
		tex.Logger().Warn("wgpu: deleting unknown texture", "handle", h)
		return
	}
	if t.sampler != nil {
		d.device.DestroySampler(t.sampler)
	}
	if t.tex != nil {
		d.device.DestroyTexture(t.tex)
	}
	delete(d.textures, h)
	if d.bound == h {
		d.bound = 0
	}
}

// BindTexture implements tex.Device.
func (d *Device) BindTexture(h tex.Handle) {
	d.bound = h
}

func (d *Device) current() (*texture, error) {
	t, ok := d.textures[d.bound]
	if !ok {
		return nil, ErrNoTextureBound
	}
	return t, nil
}

// TexImage2D implements tex.Device. Defining level 0 (re)allocates the
// texture; defining a level beyond the allocated chain grows it.
func (d *Device) TexImage2D(level int, size image.Point, format tex.PixelFormat, pix []byte) error {
	t, err := d.current()
	if err != nil {
		return err
	}

	var rgba []byte
	if pix != nil {
		need := size.X * size.Y * format.Channels()
		if need == 0 || len(pix) < need {
			return fmt.Errorf("%w: level %d needs %d bytes, got %d", ErrShortPixels, level, need, len(pix))
		}
		rgba = tex.ExpandToRGBA(format, pix[:need])
	}

	if level == 0 {
		return d.define(t, size, rgba)
	}

	if t.tex == nil {
		return ErrLevelMissing
	}
	if want := mipSize(t.size, level); size != want {
		return fmt.Errorf("%w: level %d is %v, want %v", ErrLevelSize, level, size, want)
	}
	if level >= t.levels {
		if err := d.grow(t); err != nil {
			return err
		}
	}
	if rgba != nil {
		return d.upload(t, level, size, rgba)
	}
	return nil
}

// define allocates a single-level texture of size holding rgba, or zeroes
// when rgba is nil.
func (d *Device) define(t *texture, size image.Point, rgba []byte) error {
	base, err := imagebuf.New(size.X, size.Y, imagebuf.FormatRGBA8)
	if err != nil {
		return fmt.Errorf("wgpu: level 0: %w", err)
	}
	if rgba != nil {
		copy(base.Data(), rgba)
	}

	halTex, err := d.createTexture(size, 1)
	if err != nil {
		return err
	}
	if t.tex != nil {
		d.device.DestroyTexture(t.tex)
	}
	t.tex = halTex
	t.size = size
	t.levels = 1
	t.base = base

	if rgba != nil {
		return d.upload(t, 0, size, rgba)
	}
	return nil
}

// grow reallocates t with a full mip chain and restores level 0.
func (d *Device) grow(t *texture) error {
	n := tex.MipLevelCount(t.size)
	if n <= t.levels {
		return nil
	}
	halTex, err := d.createTexture(t.size, n)
	if err != nil {
		return err
	}
	d.device.DestroyTexture(t.tex)
	t.tex = halTex
	t.levels = n
	tex.Logger().Debug("wgpu: texture grown to full mip chain", "size", t.size, "levels", n)
	return d.upload(t, 0, t.size, t.base.Pix())
}

func (d *Device) createTexture(size image.Point, levels int) (hal.Texture, error) {
	halTex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         fmt.Sprintf("tex_%dx%d", size.X, size.Y),
		Size:          extent(size),
		MipLevelCount: uint32(levels), //nolint:gosec // at most 32 levels
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        tex.FormatRGBA.GPUFormat(),
		Usage:         textureUsage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %dx%d texture: %w", size.X, size.Y, err)
	}
	return halTex, nil
}

func (d *Device) upload(t *texture, level int, size image.Point, rgba []byte) error {
	ext := extent(size)
	err := d.write(
		&hal.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: uint32(level), //nolint:gosec // level < MipLevelCount
		},
		rgba,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  ext.Width * 4,
			RowsPerImage: ext.Height,
		},
		&ext,
	)
	if err != nil {
		return fmt.Errorf("wgpu: write level %d (%dx%d): %w", level, size.X, size.Y, err)
	}
	return nil
}

// SetWrap implements tex.Device.
func (d *Device) SetWrap(s tex.SamplerState) {
	t, err := d.current()
	if err != nil {
		return
	}
	t.state.AddressModeU = s.AddressModeU
	t.state.AddressModeV = s.AddressModeV
	d.rebuildSampler(t)
}

// SetFilter implements tex.Device.
func (d *Device) SetFilter(s tex.SamplerState) {
	t, err := d.current()
	if err != nil {
		return
	}
	t.state.MinFilter = s.MinFilter
	t.state.MagFilter = s.MagFilter
	t.state.MipmapFilter = s.MipmapFilter
	t.state.Mipmapped = s.Mipmapped
	d.rebuildSampler(t)
}

// rebuildSampler replaces the sampler of t; HAL samplers are immutable.
func (d *Device) rebuildSampler(t *texture) {
	desc := samplerDescriptor(t.state)
	sampler, err := d.device.CreateSampler(&desc)
	if err != nil {
		tex.Logger().Warn("wgpu: sampler creation failed", "sampler", t.state, "err", err)
		return
	}
	if t.sampler != nil {
		d.device.DestroySampler(t.sampler)
	}
	t.sampler = sampler
}

func samplerDescriptor(s tex.SamplerState) hal.SamplerDescriptor {
	mip := s.MipmapFilter
	if !s.Mipmapped {
		mip = gputypes.FilterModeNearest
	}
	return hal.SamplerDescriptor{
		Label:        "tex_sampler_" + s.String(),
		AddressModeU: s.AddressModeU,
		AddressModeV: s.AddressModeV,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    s.MagFilter,
		MinFilter:    s.MinFilter,
		MipmapFilter: mip,
	}
}

// CopyFromScreen implements tex.Device.
func (d *Device) CopyFromScreen(region image.Rectangle) error {
	t, err := d.current()
	if err != nil {
		return err
	}
	if t.base == nil {
		return ErrLevelMissing
	}
	if d.screen == nil {
		return ErrNoScreenReader
	}
	if region.Empty() || region.Dx() > t.size.X || region.Dy() > t.size.Y {
		return fmt.Errorf("wgpu: region %v does not fit %v texture", region, t.size)
	}

	pix, err := d.screen.ReadPixels(region)
	if err != nil {
		return fmt.Errorf("wgpu: read screen: %w", err)
	}
	size := region.Size()
	if need := size.X * size.Y * 4; len(pix) < need {
		return fmt.Errorf("%w: screen region needs %d bytes, got %d", ErrShortPixels, need, len(pix))
	}
	if isBGRA(d.screenFormat) {
		pix = swizzleBGRA(pix[:size.X*size.Y*4])
	}

	src, err := imagebuf.FromRaw(pix, size.X, size.Y, imagebuf.FormatRGBA8, size.X*4)
	if err != nil {
		return fmt.Errorf("wgpu: screen pixels: %w", err)
	}
	if err := d.upload(t, 0, size, src.Pix()); err != nil {
		return err
	}
	t.base.Paste(src)
	return nil
}

// GenerateMipmap implements tex.Device by box-filtering the CPU copy of
// level 0 and uploading every level below it.
func (d *Device) GenerateMipmap() error {
	t, err := d.current()
	if err != nil {
		return err
	}
	if t.base == nil {
		return ErrLevelMissing
	}
	if err := d.grow(t); err != nil {
		return err
	}

	chain := imagebuf.GenerateMipmaps(t.base)
	defer chain.Release()
	for i := 1; i < chain.NumLevels() && i < t.levels; i++ {
		lvl := chain.Level(i)
		if err := d.upload(t, i, lvl.Size(), lvl.Pix()); err != nil {
			return err
		}
	}
	return nil
}

func extent(size image.Point) hal.Extent3D {
	return hal.Extent3D{
		Width:              uint32(size.X), //nolint:gosec // bounded by MaxTextureDimension2D
		Height:             uint32(size.Y), //nolint:gosec // bounded by MaxTextureDimension2D
		DepthOrArrayLayers: 1,
	}
}

func mipSize(base image.Point, level int) image.Point {
	return image.Pt(max(1, base.X>>level), max(1, base.Y>>level))
}

func isBGRA(f gputypes.TextureFormat) bool {
	return f == gputypes.TextureFormatBGRA8Unorm || f == gputypes.TextureFormatBGRA8UnormSrgb
}

func swizzleBGRA(pix []byte) []byte {
	out := make([]byte, len(pix))
	for i := 0; i+3 < len(pix); i += 4 {
		out[i], out[i+1], out[i+2], out[i+3] = pix[i+2], pix[i+1], pix[i], pix[i+3]
	}
	return out
}
