package tex

import (
	"errors"
	"fmt"
)

// Construction errors. A constructor returning one of these still returns a
// usable, inert *Texture whose handle is zero.
var (
	// ErrTextureTooLarge is returned when the storage size exceeds the
	// maximum texture dimension reported by the capabilities.
	ErrTextureTooLarge = errors.New("tex: texture exceeds maximum size")

	// ErrInvalidSize is returned for non-positive texture dimensions.
	ErrInvalidSize = errors.New("tex: invalid texture size")

	// ErrUnsupportedChannels is returned for images whose channel count
	// is outside 1..4.
	ErrUnsupportedChannels = errors.New("tex: unsupported channel count")

	// ErrAllocationFailed is returned when the device cannot create a handle.
	ErrAllocationFailed = errors.New("tex: texture allocation failed")

	// ErrNilImage is returned when constructing from a nil image.
	ErrNilImage = errors.New("tex: image is nil")

	// ErrNilContext is returned when constructing without a context.
	ErrNilContext = errors.New("tex: context is nil")
)

// Result reports the outcome of a texture mutator.
type Result uint8

const (
	// Applied means the state changed and the GPU was updated.
	Applied Result = iota

	// Unchanged means the requested value was already in effect.
	Unchanged

	// Unsupported means the capabilities do not allow the request.
	Unsupported

	// Invalid means the texture holds no GPU allocation.
	Invalid

	// Failed means the device rejected the operation.
	Failed
)

// OK reports whether the requested state is now in effect.
func (r Result) OK() bool {
	return r == Applied || r == Unchanged
}

// String returns a human-readable name for the result.
func (r Result) String() string {
	switch r {
	case Applied:
		return "Applied"
	case Unchanged:
		return "Unchanged"
	case Unsupported:
		return "Unsupported"
	case Invalid:
		return "Invalid"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("Result(%d)", r)
	}
}
