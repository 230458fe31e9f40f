package tex

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// SamplerState is the wrap and filter configuration of a texture, expressed
// with WebGPU sampler enums. Mipmapped selects the mipmap-aware minification
// variants; MipmapFilter is only meaningful when it is set.
type SamplerState struct {
	AddressModeU gputypes.AddressMode
	AddressModeV gputypes.AddressMode
	MinFilter    gputypes.FilterMode
	MagFilter    gputypes.FilterMode
	MipmapFilter gputypes.FilterMode
	Mipmapped    bool
}

// wrapModes resolves the wrap mode for both axes. Clamp-to-edge is used only
// when tiling is off and the hardware supports it; everything else tiles.
func wrapModes(repeat, clampSupported bool) (u, v gputypes.AddressMode) {
	if !repeat && clampSupported {
		return gputypes.AddressModeClampToEdge, gputypes.AddressModeClampToEdge
	}
	return gputypes.AddressModeRepeat, gputypes.AddressModeRepeat
}

// filterModes resolves min, mag and mipmap filters. A smooth mipmapped
// texture samples linear-mipmap-linear, a sharp one nearest-mipmap-nearest.
func filterModes(smooth bool) (minF, magF, mipF gputypes.FilterMode) {
	if smooth {
		return gputypes.FilterModeLinear, gputypes.FilterModeLinear, gputypes.FilterModeLinear
	}
	return gputypes.FilterModeNearest, gputypes.FilterModeNearest, gputypes.FilterModeNearest
}

// samplerState builds the full sampler configuration for the given flags.
func samplerState(caps Capabilities, smooth, repeat, mipmapped bool) SamplerState {
	u, v := wrapModes(repeat, caps.ClampToEdge())
	minF, magF, mipF := filterModes(smooth)
	return SamplerState{
		AddressModeU: u,
		AddressModeV: v,
		MinFilter:    minF,
		MagFilter:    magF,
		MipmapFilter: mipF,
		Mipmapped:    mipmapped,
	}
}

// Clamped reports whether both axes clamp to edge.
func (s SamplerState) Clamped() bool {
	return s.AddressModeU == gputypes.AddressModeClampToEdge &&
		s.AddressModeV == gputypes.AddressModeClampToEdge
}

// Linear reports whether magnification is bilinear.
func (s SamplerState) Linear() bool {
	return s.MagFilter == gputypes.FilterModeLinear
}

// String returns a compact description such as "clamp/linear+mip".
func (s SamplerState) String() string {
	wrap := "repeat"
	if s.Clamped() {
		wrap = "clamp"
	}
	filter := "nearest"
	if s.Linear() {
		filter = "linear"
	}
	if s.Mipmapped {
		filter += "+mip"
	}
	return fmt.Sprintf("%s/%s", wrap, filter)
}
