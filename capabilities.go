package tex

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gogpu/gputypes"
	"github.com/pelletier/go-toml/v2"
)

// Capabilities reports the hardware limits and optional features a texture
// negotiates against. Implementations must be side-effect free.
type Capabilities interface {
	// NonPowerOfTwo reports whether texture dimensions may be arbitrary.
	NonPowerOfTwo() bool

	// BilinearFiltering reports whether linear filtering may be requested.
	BilinearFiltering() bool

	// ClampToEdge reports whether the clamp-to-edge wrap mode exists.
	ClampToEdge() bool

	// HardwareMipmaps reports whether the GPU can generate mip levels.
	HardwareMipmaps() bool

	// MaxTextureSize is the largest allowed width or height in pixels.
	MaxTextureSize() int
}

// StaticCapabilities is a fixed capability profile. It is what backends
// report after probing a device, and what capability profile files decode
// into.
//
// Example profile:
//
//	max_texture_size = 2048
//	non_power_of_two = false
//	bilinear_filtering = true
//	clamp_to_edge = true
//	hardware_mipmaps = false
type StaticCapabilities struct {
	MaxSize          int  `toml:"max_texture_size"`
	NPOT             bool `toml:"non_power_of_two"`
	Bilinear         bool `toml:"bilinear_filtering"`
	ClampEdge        bool `toml:"clamp_to_edge"`
	MipmapGeneration bool `toml:"hardware_mipmaps"`
}

func (c StaticCapabilities) NonPowerOfTwo() bool     { return c.NPOT }
func (c StaticCapabilities) BilinearFiltering() bool { return c.Bilinear }
func (c StaticCapabilities) ClampToEdge() bool       { return c.ClampEdge }
func (c StaticCapabilities) HardwareMipmaps() bool   { return c.MipmapGeneration }
func (c StaticCapabilities) MaxTextureSize() int     { return c.MaxSize }

// CapabilitiesFromLimits builds a profile from WebGPU adapter limits.
// WebGPU-class hardware supports every optional feature; only the maximum
// dimension varies.
func CapabilitiesFromLimits(limits gputypes.Limits) StaticCapabilities {
	return StaticCapabilities{
		MaxSize:          int(limits.MaxTextureDimension2D),
		NPOT:             true,
		Bilinear:         true,
		ClampEdge:        true,
		MipmapGeneration: true,
	}
}

// DefaultCapabilities returns the profile of a baseline WebGPU device.
func DefaultCapabilities() StaticCapabilities {
	return CapabilitiesFromLimits(gputypes.DefaultLimits())
}

// ParseCapabilities decodes a TOML capability profile. Keys missing from
// data keep their DefaultCapabilities value; unknown keys are an error.
func ParseCapabilities(data []byte) (StaticCapabilities, error) {
	caps := DefaultCapabilities()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&caps); err != nil {
		return StaticCapabilities{}, fmt.Errorf("tex: parse capabilities: %w", err)
	}
	if caps.MaxSize <= 0 {
		return StaticCapabilities{}, fmt.Errorf("tex: parse capabilities: max_texture_size must be positive, got %d", caps.MaxSize)
	}
	return caps, nil
}

// LoadCapabilities reads a TOML capability profile from path.
func LoadCapabilities(path string) (StaticCapabilities, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return StaticCapabilities{}, fmt.Errorf("tex: read capabilities: %w", err)
	}
	return ParseCapabilities(data)
}
