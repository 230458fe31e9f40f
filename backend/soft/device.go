// Package soft provides an in-memory tex.Device.
//
// The soft device stores every texture level as an RGBA imagebuf.Buf and
// keeps per-call statistics. It backs the command-line tools and the test
// suites, and serves as the reference for what the GPU backends must do.
package soft

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/tex"
	"github.com/gogpu/tex/backend"
	"github.com/gogpu/tex/imagebuf"
)

// Device errors.
var (
	// ErrNoTextureBound is returned by operations issued with binding 0.
	ErrNoTextureBound = errors.New("soft: no texture bound")

	// ErrShortPixels is returned when pixel data is smaller than the level.
	ErrShortPixels = errors.New("soft: pixel data too small for level")

	// ErrNoScreen is returned by CopyFromScreen before SetScreen.
	ErrNoScreen = errors.New("soft: no screen attached")

	// ErrRegionOutOfBounds is returned when a screen region exceeds the screen.
	ErrRegionOutOfBounds = errors.New("soft: region outside screen")

	// ErrLevelMissing is returned when level 0 has not been defined yet.
	ErrLevelMissing = errors.New("soft: level 0 not defined")

	// ErrGenFailed is returned by GenTexture when FailGen is set.
	ErrGenFailed = errors.New("soft: texture names exhausted")

	// ErrMipmapFailed is returned by GenerateMipmap when FailMipmap is set.
	ErrMipmapFailed = errors.New("soft: mipmap generation failed")
)

// BackendName is the registry name of the soft device.
const BackendName = "soft"

func init() {
	backend.Register(BackendName, func() (tex.Device, tex.Capabilities, error) {
		return New(), tex.DefaultCapabilities(), nil
	})
}

// Stats counts calls per device operation.
type Stats struct {
	GenTexture     int
	DeleteTexture  int
	BindTexture    int
	TexImage2D     int
	SetWrap        int
	SetFilter      int
	CopyFromScreen int
	GenerateMipmap int
}

// Texture is the device-side state of one texture name.
type Texture struct {
	// Levels holds the defined mip levels as RGBA buffers; undefined
	// levels are nil.
	Levels []*imagebuf.Buf

	// Formats records the pixel format each level was uploaded with.
	Formats []tex.PixelFormat

	// Sampler is the merged result of the last SetWrap and SetFilter calls.
	Sampler tex.SamplerState
}

// Device is an in-memory tex.Device. It is not safe for concurrent use,
// matching the single-threaded GPU context it stands in for.
type Device struct {
	textures map[tex.Handle]*Texture
	next     tex.Handle
	bound    tex.Handle
	screen   *imagebuf.Buf

	// FailGen makes GenTexture fail, simulating exhausted GPU names.
	FailGen bool

	// FailMipmap makes GenerateMipmap fail.
	FailMipmap bool

	// Stats counts calls since creation or the last ResetStats.
	Stats Stats

	// Binds records every handle passed to BindTexture, in order.
	Binds []tex.Handle
}

// New creates an empty device.
func New() *Device {
	return &Device{
		textures: make(map[tex.Handle]*Texture),
		next:     1,
	}
}

// SetScreen attaches the render target CopyFromScreen reads from.
func (d *Device) SetScreen(screen *imagebuf.Buf) {
	d.screen = screen
}

// ResetStats zeroes the call counters and the bind log.
func (d *Device) ResetStats() {
	d.Stats = Stats{}
	d.Binds = nil
}

// Texture returns the state of h, or nil if h is not allocated.
func (d *Device) Texture(h tex.Handle) *Texture {
	return d.textures[h]
}

// Bound returns the currently bound handle.
func (d *Device) Bound() tex.Handle {
	return d.bound
}

// Live returns the number of allocated textures.
func (d *Device) Live() int {
	return len(d.textures)
}

// GenTexture implements tex.Device.
func (d *Device) GenTexture() (tex.Handle, error) {
	d.Stats.GenTexture++
	if d.FailGen {
		return 0, ErrGenFailed
	}
	h := d.next
	d.next++
	d.textures[h] = &Texture{}
	return h, nil
}

// DeleteTexture implements tex.Device.
func (d *Device) DeleteTexture(h tex.Handle) {
	d.Stats.DeleteTexture++
	t, ok := d.textures[h]
	if !ok {
		tex.Logger().Warn("soft: deleting unknown texture", "handle", h)
		return
	}
	for _, lvl := range t.Levels {
		imagebuf.PutToDefault(lvl)
	}
	delete(d.textures, h)
	if d.bound == h {
		d.bound = 0
	}
}

// BindTexture implements tex.Device.
func (d *Device) BindTexture(h tex.Handle) {
	d.Stats.BindTexture++
	d.Binds = append(d.Binds, h)
	d.bound = h
}

func (d *Device) current() (*Texture, error) {
	t, ok := d.textures[d.bound]
	if !ok {
		return nil, ErrNoTextureBound
	}
	return t, nil
}

// TexImage2D implements tex.Device.
func (d *Device) TexImage2D(level int, size image.Point, format tex.PixelFormat, pix []byte) error {
	d.Stats.TexImage2D++
	t, err := d.current()
	if err != nil {
		return err
	}

	buf := imagebuf.GetFromDefault(size.X, size.Y, imagebuf.FormatRGBA8)
	if buf == nil {
		return fmt.Errorf("soft: level %d: %w", level, imagebuf.ErrInvalidDimensions)
	}
	if pix != nil {
		need := size.X * size.Y * format.Channels()
		if len(pix) < need {
			imagebuf.PutToDefault(buf)
			return fmt.Errorf("%w: level %d needs %d bytes, got %d", ErrShortPixels, level, need, len(pix))
		}
		copy(buf.Data(), tex.ExpandToRGBA(format, pix[:need]))
	}

	for len(t.Levels) <= level {
		t.Levels = append(t.Levels, nil)
		t.Formats = append(t.Formats, 0)
	}
	imagebuf.PutToDefault(t.Levels[level])
	t.Levels[level] = buf
	t.Formats[level] = format
	return nil
}

// SetWrap implements tex.Device.
func (d *Device) SetWrap(s tex.SamplerState) {
	d.Stats.SetWrap++
	if t, err := d.current(); err == nil {
		t.Sampler.AddressModeU = s.AddressModeU
		t.Sampler.AddressModeV = s.AddressModeV
	}
}

// SetFilter implements tex.Device.
func (d *Device) SetFilter(s tex.SamplerState) {
	d.Stats.SetFilter++
	if t, err := d.current(); err == nil {
		t.Sampler.MinFilter = s.MinFilter
		t.Sampler.MagFilter = s.MagFilter
		t.Sampler.MipmapFilter = s.MipmapFilter
		t.Sampler.Mipmapped = s.Mipmapped
	}
}

// CopyFromScreen implements tex.Device.
func (d *Device) CopyFromScreen(region image.Rectangle) error {
	d.Stats.CopyFromScreen++
	t, err := d.current()
	if err != nil {
		return err
	}
	if d.screen == nil {
		return ErrNoScreen
	}
	if len(t.Levels) == 0 || t.Levels[0] == nil {
		return ErrLevelMissing
	}
	src := d.screen.SubImage(region)
	if src == nil {
		return fmt.Errorf("%w: %v", ErrRegionOutOfBounds, region)
	}
	t.Levels[0].Paste(src)
	return nil
}

// GenerateMipmap implements tex.Device. Levels below 0 are rebuilt with a
// box filter.
func (d *Device) GenerateMipmap() error {
	d.Stats.GenerateMipmap++
	if d.FailMipmap {
		return ErrMipmapFailed
	}
	t, err := d.current()
	if err != nil {
		return err
	}
	if len(t.Levels) == 0 || t.Levels[0] == nil {
		return ErrLevelMissing
	}

	for _, lvl := range t.Levels[1:] {
		imagebuf.PutToDefault(lvl)
	}
	t.Levels = t.Levels[:1]
	t.Formats = t.Formats[:1]

	work := t.Levels[0].Clone()
	for work.NextMipmap() {
		t.Levels = append(t.Levels, work.Clone())
		t.Formats = append(t.Formats, tex.FormatRGBA)
	}
	return nil
}

// LevelCount returns the number of defined levels of h.
func (d *Device) LevelCount(h tex.Handle) int {
	t := d.textures[h]
	if t == nil {
		return 0
	}
	n := 0
	for _, lvl := range t.Levels {
		if lvl != nil {
			n++
		}
	}
	return n
}
