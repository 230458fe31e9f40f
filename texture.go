package tex

import (
	"fmt"
	"image"
)

// noCopy lets go vet flag accidental copies of a Texture; a copy would
// share the handle and release it twice.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Texture is a 2D texture living in a Context's device.
//
// The texture exclusively owns its handle. Creation never panics: when the
// requested size cannot be allocated, the constructor returns an inert
// texture (handle 0) together with the error, and every GPU-touching method
// on it reports Invalid. An inert texture binds as 0 and renders blank.
//
// A texture's size is fixed at creation; to change content size create a
// new texture.
type Texture struct {
	_ noCopy

	ctx    *Context
	handle Handle

	size    image.Point // requested by the caller
	storage image.Point // allocated on the device

	hasMipmaps bool
	smooth     bool
	repeat     bool
	upsideDown bool

	transform Matrix3
}

// NewTexture creates a blank RGBA texture of the given size. Level 0 is
// allocated uninitialized.
func NewTexture(ctx *Context, size image.Point) (*Texture, error) {
	t := newInert(ctx)
	if ctx == nil {
		return t, ErrNilContext
	}

	if err := t.setupSize(size, false); err != nil {
		return t, err
	}
	if err := t.create(); err != nil {
		return t, err
	}

	t.Bind()
	if err := t.setupPixels(0, t.storage, FormatRGBA, nil); err != nil {
		return t, t.abort(err)
	}
	t.setupWrap()
	t.setupFilters()
	return t, nil
}

// NewTextureFromImage creates a texture holding img. When buildMipmaps is
// set the storage is forced to power-of-two dimensions and a complete
// mipmap chain is uploaded. img itself is never modified.
func NewTextureFromImage(ctx *Context, img Image, buildMipmaps bool) (*Texture, error) {
	t := newInert(ctx)
	if ctx == nil {
		return t, ErrNilContext
	}
	if img == nil {
		return t, ErrNilImage
	}

	channels := img.Channels()
	format, err := FormatForChannels(channels)
	if err != nil {
		Logger().Warn("tex: rejecting image", "size", img.Size(), "channels", channels)
		return t, err
	}

	if err := t.setupSize(img.Size(), buildMipmaps); err != nil {
		return t, err
	}
	if err := t.create(); err != nil {
		return t, err
	}

	// Mipmap generation halves the image in place, so it always works on
	// a copy, which doubles as the power-of-two padded buffer.
	src := img
	if t.storage != t.size || buildMipmaps {
		padded, err := ctx.newImage(t.storage, channels)
		if err != nil {
			return t, t.abort(fmt.Errorf("tex: allocate %dx%d image: %w", t.storage.X, t.storage.Y, err))
		}
		padded.Paste(img)
		src = padded
	}

	t.Bind()

	if buildMipmaps {
		level := 0
		for {
			if err := t.setupPixels(level, src.Size(), format, src.Pix()); err != nil {
				return t, t.abort(err)
			}
			level++
			if !src.NextMipmap() {
				break
			}
		}
		t.hasMipmaps = true
	} else if err := t.setupPixels(0, src.Size(), format, src.Pix()); err != nil {
		return t, t.abort(err)
	}

	t.setupWrap()
	t.setupFilters()
	return t, nil
}

func newInert(ctx *Context) *Texture {
	return &Texture{ctx: ctx, transform: Identity3()}
}

// Close releases the GPU allocation. It is safe to call more than once and
// on inert textures.
func (t *Texture) Close() {
	if t.handle == 0 {
		return
	}
	Logger().Debug("tex: texture released", "handle", t.handle)
	t.ctx.release(t.handle)
	t.handle = 0
}

// Bind makes this texture current in its context and notifies the painter.
func (t *Texture) Bind() {
	if t.ctx == nil {
		return
	}
	t.ctx.Bind(t)
}

// CopyFromScreen captures region of the current render target into level 0,
// region.Min landing on the texture origin. region must fit the storage size.
func (t *Texture) CopyFromScreen(region image.Rectangle) Result {
	if t.handle == 0 {
		return Invalid
	}
	if region.Empty() || region.Dx() > t.storage.X || region.Dy() > t.storage.Y {
		Logger().Debug("tex: screen region does not fit texture",
			"region", region, "storage", t.storage)
		return Failed
	}

	t.Bind()
	if err := t.ctx.device.CopyFromScreen(region); err != nil {
		Logger().Warn("tex: copy from screen failed", "handle", t.handle, "err", err)
		return Failed
	}
	return Applied
}

// BuildHardwareMipmaps asks the GPU to derive the mipmap chain from level 0.
// It reports Unsupported when the hardware cannot generate mipmaps. On
// Failed the texture keeps its previous mipmap state.
func (t *Texture) BuildHardwareMipmaps() Result {
	if !t.caps().HardwareMipmaps() {
		return Unsupported
	}
	if t.handle == 0 {
		return Invalid
	}

	t.Bind()
	if err := t.ctx.device.GenerateMipmap(); err != nil {
		Logger().Warn("tex: mipmap generation failed", "handle", t.handle, "err", err)
		return Failed
	}

	if !t.hasMipmaps {
		t.hasMipmaps = true
		t.setupFilters()
	}
	return Applied
}

// SetSmooth switches between bilinear and nearest sampling. Requesting
// smoothing without bilinear filtering support is Unsupported.
func (t *Texture) SetSmooth(smooth bool) Result {
	if smooth && !t.caps().BilinearFiltering() {
		return Unsupported
	}
	if smooth == t.smooth {
		return Unchanged
	}
	if t.handle == 0 {
		return Invalid
	}

	t.smooth = smooth
	t.Bind()
	t.setupFilters()
	return Applied
}

// SetRepeat switches between tiling and clamp-to-edge wrapping.
func (t *Texture) SetRepeat(repeat bool) Result {
	if repeat == t.repeat {
		return Unchanged
	}
	if t.handle == 0 {
		return Invalid
	}

	t.repeat = repeat
	t.Bind()
	t.setupWrap()
	return Applied
}

// SetUpsideDown flips the Y axis of the transform. No GPU call is made.
// An inert texture reports Invalid and keeps its identity transform.
func (t *Texture) SetUpsideDown(upsideDown bool) Result {
	if upsideDown == t.upsideDown {
		return Unchanged
	}
	if t.handle == 0 {
		return Invalid
	}

	t.upsideDown = upsideDown
	t.setupTransform()
	return Applied
}

// Handle returns the device handle, 0 for an inert texture.
func (t *Texture) Handle() Handle { return t.handle }

// Valid reports whether the texture holds a GPU allocation.
func (t *Texture) Valid() bool { return t.handle != 0 }

// Size returns the size requested at creation.
func (t *Texture) Size() image.Point { return t.size }

// Width returns the requested width.
func (t *Texture) Width() int { return t.size.X }

// Height returns the requested height.
func (t *Texture) Height() int { return t.size.Y }

// StorageSize returns the size allocated on the device, which is at least
// Size in both dimensions.
func (t *Texture) StorageSize() image.Point { return t.storage }

// Transform maps texel coordinates to normalized sample coordinates.
func (t *Texture) Transform() Matrix3 { return t.transform }

// HasMipmaps reports whether a complete mipmap chain is present.
func (t *Texture) HasMipmaps() bool { return t.hasMipmaps }

// Smooth reports whether bilinear sampling is in effect.
func (t *Texture) Smooth() bool { return t.smooth }

// Repeat reports whether tiling was requested.
func (t *Texture) Repeat() bool { return t.repeat }

// UpsideDown reports whether the Y axis is flipped.
func (t *Texture) UpsideDown() bool { return t.upsideDown }

// Sampler returns the sampler configuration last applied to the device.
func (t *Texture) Sampler() SamplerState {
	return samplerState(t.caps(), t.smooth, t.repeat, t.hasMipmaps)
}

// String returns a short description for logs and debugging.
func (t *Texture) String() string {
	if t.handle == 0 {
		return "Texture[inert]"
	}
	return fmt.Sprintf("Texture[#%d %dx%d storage %dx%d %s]",
		t.handle, t.size.X, t.size.Y, t.storage.X, t.storage.Y, t.Sampler())
}

func (t *Texture) caps() Capabilities {
	if t.ctx == nil {
		return StaticCapabilities{}
	}
	return t.ctx.caps
}

func (t *Texture) setupSize(size image.Point, forcePOT bool) error {
	storage, err := negotiateSize(t.ctx.caps, size, forcePOT)
	if err != nil {
		return err
	}
	t.size = size
	t.storage = storage
	t.setupTransform()
	return nil
}

func (t *Texture) create() error {
	h, err := t.ctx.device.GenTexture()
	if err != nil || h == 0 {
		Logger().Warn("tex: texture allocation failed", "size", t.size, "err", err)
		if err == nil {
			return ErrAllocationFailed
		}
		return fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}
	t.handle = h
	Logger().Debug("tex: texture created", "handle", h, "size", t.size, "storage", t.storage)
	return nil
}

// abort releases a partially initialized texture and returns err.
func (t *Texture) abort(err error) error {
	Logger().Warn("tex: texture upload failed", "handle", t.handle, "err", err)
	t.Close()
	t.hasMipmaps = false
	return err
}

func (t *Texture) setupTransform() {
	t.transform = textureTransform(t.storage, t.size, t.upsideDown)
}

func (t *Texture) setupPixels(level int, size image.Point, format PixelFormat, pix []byte) error {
	if err := t.ctx.device.TexImage2D(level, size, format, pix); err != nil {
		return fmt.Errorf("tex: upload level %d (%dx%d %s): %w", level, size.X, size.Y, format, err)
	}
	return nil
}

func (t *Texture) setupWrap() {
	t.ctx.device.SetWrap(t.Sampler())
}

func (t *Texture) setupFilters() {
	t.ctx.device.SetFilter(t.Sampler())
}
