package tex

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// PixelFormat is the layout of pixel data handed to Device.TexImage2D.
// Each backend picks its own storage: the soft and wgpu devices expand
// every layout to RGBA8, while the OpenGL device keeps one and two channel
// data in R8 and RG8 with a swizzle so sampling still yields gray.
type PixelFormat uint8

const (
	// FormatLuminance is one gray channel per pixel.
	FormatLuminance PixelFormat = iota + 1

	// FormatLuminanceAlpha is gray plus alpha.
	FormatLuminanceAlpha

	// FormatRGB is three color channels without alpha.
	FormatRGB

	// FormatRGBA is four channels with straight alpha.
	FormatRGBA
)

// FormatForChannels maps an image channel count to an upload format.
func FormatForChannels(channels int) (PixelFormat, error) {
	switch channels {
	case 4:
		return FormatRGBA, nil
	case 3:
		return FormatRGB, nil
	case 2:
		return FormatLuminanceAlpha, nil
	case 1:
		return FormatLuminance, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedChannels, channels)
	}
}

// Channels returns the number of bytes per pixel.
func (f PixelFormat) Channels() int {
	switch f {
	case FormatLuminance:
		return 1
	case FormatLuminanceAlpha:
		return 2
	case FormatRGB:
		return 3
	case FormatRGBA:
		return 4
	default:
		return 0
	}
}

// GPUFormat returns the WebGPU format uploads in f are expanded to. WebGPU
// has no luminance or three channel formats, so this is RGBA8Unorm for
// every layout.
func (f PixelFormat) GPUFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// String returns a human-readable name for the format.
func (f PixelFormat) String() string {
	switch f {
	case FormatLuminance:
		return "Luminance"
	case FormatLuminanceAlpha:
		return "LuminanceAlpha"
	case FormatRGB:
		return "RGB"
	case FormatRGBA:
		return "RGBA"
	default:
		return fmt.Sprintf("PixelFormat(%d)", f)
	}
}

// ExpandToRGBA converts pix from format f to tightly packed RGBA, for
// devices whose upload path only accepts four channels. RGBA input is
// returned as is. Luminance replicates into R, G and B; missing alpha
// becomes 255.
func ExpandToRGBA(f PixelFormat, pix []byte) []byte {
	n := f.Channels()
	if f == FormatRGBA || n == 0 {
		return pix
	}

	count := len(pix) / n
	out := make([]byte, count*4)
	for i := range count {
		in := pix[i*n : i*n+n]
		o := out[i*4 : i*4+4]
		switch f {
		case FormatLuminance:
			o[0], o[1], o[2], o[3] = in[0], in[0], in[0], 255
		case FormatLuminanceAlpha:
			o[0], o[1], o[2], o[3] = in[0], in[0], in[0], in[1]
		case FormatRGB:
			o[0], o[1], o[2], o[3] = in[0], in[1], in[2], 255
		}
	}
	return out
}
