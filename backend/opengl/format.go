//go:build opengl

package opengl

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/tex"
)

// uploadFormat describes how a tex.PixelFormat is handed to glTexImage2D.
type uploadFormat struct {
	internal int32
	external uint32
	swizzle  [4]int32
	align    int32
}

func uploadFormatFor(f tex.PixelFormat) (uploadFormat, bool) {
	identity := [4]int32{gl.RED, gl.GREEN, gl.BLUE, gl.ALPHA}
	switch f {
	case tex.FormatLuminance:
		return uploadFormat{gl.R8, gl.RED, [4]int32{gl.RED, gl.RED, gl.RED, gl.ONE}, 1}, true
	case tex.FormatLuminanceAlpha:
		return uploadFormat{gl.RG8, gl.RG, [4]int32{gl.RED, gl.RED, gl.RED, gl.GREEN}, 1}, true
	case tex.FormatRGB:
		return uploadFormat{gl.RGB8, gl.RGB, identity, 1}, true
	case tex.FormatRGBA:
		return uploadFormat{gl.RGBA8, gl.RGBA, identity, 4}, true
	default:
		return uploadFormat{}, false
	}
}

func wrapParam(m gputypes.AddressMode) int32 {
	if m == gputypes.AddressModeClampToEdge {
		return gl.CLAMP_TO_EDGE
	}
	return gl.REPEAT
}

func magFilterParam(s tex.SamplerState) int32 {
	if s.MagFilter == gputypes.FilterModeLinear {
		return gl.LINEAR
	}
	return gl.NEAREST
}

func minFilterParam(s tex.SamplerState) int32 {
	linear := s.MinFilter == gputypes.FilterModeLinear
	if !s.Mipmapped {
		if linear {
			return gl.LINEAR
		}
		return gl.NEAREST
	}
	mipLinear := s.MipmapFilter == gputypes.FilterModeLinear
	switch {
	case linear && mipLinear:
		return gl.LINEAR_MIPMAP_LINEAR
	case linear:
		return gl.LINEAR_MIPMAP_NEAREST
	case mipLinear:
		return gl.NEAREST_MIPMAP_LINEAR
	default:
		return gl.NEAREST_MIPMAP_NEAREST
	}
}
