package tex

// Context is the GPU context textures are created in. It owns the device,
// the capability profile and the explicit "currently bound texture" slot.
//
// A Context is not safe for concurrent use. Every texture operation issues
// a bind followed by parameter or pixel calls that must not interleave with
// another texture's calls; run all of them on the goroutine that owns the
// GPU context, or serialize access externally.
type Context struct {
	device   Device
	caps     Capabilities
	painter  Painter
	newImage ImageFactory
	bound    Handle
}

// ContextOption configures a Context during creation.
//
// Example:
//
//	ctx := tex.NewContext(dev, caps, tex.WithPainter(painter))
type ContextOption func(*Context)

// WithPainter registers the painter to notify on every bind.
func WithPainter(p Painter) ContextOption {
	return func(c *Context) {
		c.painter = p
	}
}

// WithImageFactory replaces the allocator used for padded and scratch
// images. The default allocates *imagebuf.Buf.
func WithImageFactory(f ImageFactory) ContextOption {
	return func(c *Context) {
		if f != nil {
			c.newImage = f
		}
	}
}

// NewContext creates a context driving device under the given capabilities.
// A nil caps uses DefaultCapabilities.
func NewContext(device Device, caps Capabilities, opts ...ContextOption) *Context {
	if caps == nil {
		caps = DefaultCapabilities()
	}
	c := &Context{
		device:   device,
		caps:     caps,
		newImage: newImageBuf,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Device returns the backend device.
func (c *Context) Device() Device {
	return c.device
}

// Capabilities returns the capability profile textures negotiate against.
func (c *Context) Capabilities() Capabilities {
	return c.caps
}

// Bound returns the handle in the binding slot.
func (c *Context) Bound() Handle {
	return c.bound
}

// Bind makes t the current texture: the painter is notified first, then the
// device binding slot is updated. A nil or invalid texture binds 0.
func (c *Context) Bind(t *Texture) {
	if c.painter != nil {
		c.painter.SetTexture(t)
	}
	var h Handle
	if t != nil {
		h = t.handle
	}
	c.device.BindTexture(h)
	c.bound = h
}

// release deletes h, clearing the binding slot if it held h.
func (c *Context) release(h Handle) {
	if c.bound == h {
		c.bound = 0
	}
	c.device.DeleteTexture(h)
}
