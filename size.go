package tex

import (
	"fmt"
	"image"
	"math/bits"

	"github.com/gogpu/tex/imagebuf"
)

// NextPowerOfTwo returns the smallest power of two >= n. Values below 1
// round up to 1. The result overflows for n above 1<<62; negotiation
// rejects such sizes before rounding.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// MipLevelCount returns the number of levels in a complete mipmap chain for
// the given size: floor(log2(max(w, h))) + 1.
func MipLevelCount(size image.Point) int {
	return imagebuf.MipLevelCount(size.X, size.Y)
}

// StorageSize returns the size a texture of the requested logical size
// occupies on the GPU: each dimension is rounded up to a power of two when
// the hardware requires it or forcePOT is set, and kept as is otherwise.
func StorageSize(caps Capabilities, size image.Point, forcePOT bool) image.Point {
	if forcePOT || !caps.NonPowerOfTwo() {
		return image.Pt(NextPowerOfTwo(size.X), NextPowerOfTwo(size.Y))
	}
	return size
}

// negotiateSize computes the storage size for size and checks it against
// the hardware maximum. An oversized request is logged once at error level.
func negotiateSize(caps Capabilities, size image.Point, forcePOT bool) (image.Point, error) {
	if size.X <= 0 || size.Y <= 0 {
		return image.Point{}, fmt.Errorf("%w: %dx%d", ErrInvalidSize, size.X, size.Y)
	}

	// Rounding only grows a dimension, so anything already above the
	// maximum is rejected before NextPowerOfTwo can overflow.
	maxSize := caps.MaxTextureSize()
	if size.X > maxSize || size.Y > maxSize {
		return image.Point{}, tooLarge(size, maxSize)
	}

	storage := StorageSize(caps, size, forcePOT)
	if max(storage.X, storage.Y) > maxSize || storage.X < size.X || storage.Y < size.Y {
		return image.Point{}, tooLarge(size, maxSize)
	}
	return storage, nil
}

// tooLarge logs the oversize diagnostic and returns the matching error.
func tooLarge(size image.Point, maxSize int) error {
	Logger().Error(fmt.Sprintf("loading texture with size %dx%d failed, "+
		"the maximum size allowed by the graphics card is %dx%d, "+
		"to prevent crashes the texture will be displayed as a blank texture",
		size.X, size.Y, maxSize, maxSize))
	return fmt.Errorf("%w: requested %dx%d, maximum %dx%d",
		ErrTextureTooLarge, size.X, size.Y, maxSize, maxSize)
}
