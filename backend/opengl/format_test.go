//go:build opengl

package opengl

import (
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/tex"
)

func TestUploadFormatFor(t *testing.T) {
	tests := []struct {
		format   tex.PixelFormat
		internal int32
		external uint32
		swizzleA int32
	}{
		{tex.FormatLuminance, gl.R8, gl.RED, gl.ONE},
		{tex.FormatLuminanceAlpha, gl.RG8, gl.RG, gl.GREEN},
		{tex.FormatRGB, gl.RGB8, gl.RGB, gl.ALPHA},
		{tex.FormatRGBA, gl.RGBA8, gl.RGBA, gl.ALPHA},
	}
	for _, tt := range tests {
		uf, ok := uploadFormatFor(tt.format)
		if !ok {
			t.Fatalf("uploadFormatFor(%v) not supported", tt.format)
		}
		if uf.internal != tt.internal || uf.external != tt.external || uf.swizzle[3] != tt.swizzleA {
			t.Errorf("uploadFormatFor(%v) = %+v", tt.format, uf)
		}
	}
	if _, ok := uploadFormatFor(tex.PixelFormat(0)); ok {
		t.Error("uploadFormatFor(0) reported support")
	}
}

func TestFilterParams(t *testing.T) {
	smooth := tex.SamplerState{
		MinFilter:    gputypes.FilterModeLinear,
		MagFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	}
	if got := minFilterParam(smooth); got != gl.LINEAR {
		t.Errorf("min filter = %#x, want LINEAR", got)
	}
	smooth.Mipmapped = true
	if got := minFilterParam(smooth); got != gl.LINEAR_MIPMAP_LINEAR {
		t.Errorf("mipmapped min filter = %#x, want LINEAR_MIPMAP_LINEAR", got)
	}
	if got := magFilterParam(smooth); got != gl.LINEAR {
		t.Errorf("mag filter = %#x, want LINEAR", got)
	}

	sharp := tex.SamplerState{
		MinFilter:    gputypes.FilterModeNearest,
		MagFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
		Mipmapped:    true,
	}
	if got := minFilterParam(sharp); got != gl.NEAREST_MIPMAP_NEAREST {
		t.Errorf("mipmapped min filter = %#x, want NEAREST_MIPMAP_NEAREST", got)
	}
	if got := magFilterParam(sharp); got != gl.NEAREST {
		t.Errorf("mag filter = %#x, want NEAREST", got)
	}
}

func TestWrapParam(t *testing.T) {
	if got := wrapParam(gputypes.AddressModeClampToEdge); got != gl.CLAMP_TO_EDGE {
		t.Errorf("wrapParam(clamp) = %#x", got)
	}
	if got := wrapParam(gputypes.AddressModeRepeat); got != gl.REPEAT {
		t.Errorf("wrapParam(repeat) = %#x", got)
	}
}
