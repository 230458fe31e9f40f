package imagebuf

import "math/bits"

// NextMipmap replaces the buffer contents with the next mipmap level: half
// the width and height (each clamped to 1), every pixel the 2x2 box average
// of the level above. It returns false, leaving the buffer untouched, once
// the buffer is already 1x1.
//
// The buffer is repacked tightly; a SubImage view stops sharing memory with
// its parent after the first call.
func (b *Buf) NextMipmap() bool {
	if b.width <= 1 && b.height <= 1 {
		return false
	}

	dst := downsample(b)
	defer PutToDefault(dst)

	n := len(dst.data)
	if b.stride != b.format.RowBytes(b.width) || cap(b.data) < n {
		b.data = make([]byte, n)
	}
	b.data = b.data[:n]
	copy(b.data, dst.data)
	b.width = dst.width
	b.height = dst.height
	b.stride = dst.stride
	return true
}

// MipLevelCount returns the number of levels in a full chain for the given
// dimensions: floor(log2(max(width, height))) + 1.
func MipLevelCount(width, height int) int {
	maxDim := max(width, height)
	if maxDim <= 1 {
		return 1
	}
	return bits.Len(uint(maxDim))
}

// MipmapChain holds pre-computed downscaled versions of an image.
// Level 0 is the original full-resolution image.
type MipmapChain struct {
	levels []*Buf
}

// GenerateMipmaps creates a mipmap chain from the source image without
// modifying it. The source becomes level 0 and is not copied.
//
// Returns nil if src is nil or empty.
func GenerateMipmaps(src *Buf) *MipmapChain {
	if src == nil || src.IsEmpty() {
		return nil
	}

	chain := &MipmapChain{
		levels: make([]*Buf, MipLevelCount(src.width, src.height)),
	}
	chain.levels[0] = src
	for i := 1; i < len(chain.levels); i++ {
		chain.levels[i] = downsample(chain.levels[i-1])
	}
	return chain
}

// downsample creates a half-size version of src using a box filter applied
// to every channel independently. Returns a buffer from the default pool.
func downsample(src *Buf) *Buf {
	srcW, srcH := src.width, src.height
	dstW := max(1, srcW/2)
	dstH := max(1, srcH/2)
	bpp := src.format.BytesPerPixel()

	dst := GetFromDefault(dstW, dstH, src.format)
	for dy := range dstH {
		sy0 := min(dy*2, srcH-1)
		sy1 := min(dy*2+1, srcH-1)
		row0 := src.RowBytes(sy0)
		row1 := src.RowBytes(sy1)
		out := dst.RowBytes(dy)
		for dx := range dstW {
			sx0 := min(dx*2, srcW-1) * bpp
			sx1 := min(dx*2+1, srcW-1) * bpp
			for c := range bpp {
				sum := uint16(row0[sx0+c]) + uint16(row0[sx1+c]) +
					uint16(row1[sx0+c]) + uint16(row1[sx1+c])
				out[dx*bpp+c] = byte(sum / 4)
			}
		}
	}
	return dst
}

// Level returns the mipmap at the specified level.
// Returns nil if level is out of range.
func (m *MipmapChain) Level(n int) *Buf {
	if m == nil || n < 0 || n >= len(m.levels) {
		return nil
	}
	return m.levels[n]
}

// NumLevels returns the total number of mipmap levels in the chain.
func (m *MipmapChain) NumLevels() int {
	if m == nil {
		return 0
	}
	return len(m.levels)
}

// Release returns all levels except level 0 to the pool.
// The chain must not be used afterwards.
func (m *MipmapChain) Release() {
	if m == nil {
		return
	}
	for i := 1; i < len(m.levels); i++ {
		if m.levels[i] != nil {
			PutToDefault(m.levels[i])
			m.levels[i] = nil
		}
	}
}
