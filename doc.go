// Package tex manages 2D textures on a GPU.
//
// # Overview
//
// A Texture is a GPU-resident image: it owns a device handle, the size the
// caller asked for, the storage size actually allocated, and the sampling
// state (smoothing, tiling, vertical flip) used when drawing with it.
// Creation negotiates the storage size against the hardware Capabilities:
// dimensions are rounded up to powers of two when the hardware or a mipmap
// chain needs it, and requests above the maximum texture size produce an
// inert texture that renders blank instead of failing the program.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/tex"
//	    "github.com/gogpu/tex/backend"
//	    _ "github.com/gogpu/tex/backend/soft"
//	    "github.com/gogpu/tex/imagebuf"
//	)
//
//	dev, caps, err := backend.Default()
//	ctx := tex.NewContext(dev, caps)
//
//	img, err := imagebuf.Load("sprite.png")
//	t, err := tex.NewTextureFromImage(ctx, img, true)
//	defer t.Close()
//
//	t.SetSmooth(true)
//	t.Bind()
//
// # Binding
//
// The GPU context has a single "currently bound texture" slot. Context
// models it explicitly: Bind notifies the Painter, then updates the device
// binding. Every GPU-touching Texture method binds first, so a sequence of
// texture calls never leaks state between textures.
//
// # Results
//
// Mutators return a Result instead of failing silently. Unchanged and
// Unsupported are routine outcomes and are not logged; Invalid means the
// texture holds no allocation. Constructors return an error together with
// an inert, still usable *Texture.
//
// # Coordinate System
//
// Transform maps texel coordinates of the requested image to normalized
// sample coordinates of the storage allocation:
//   - Origin (0,0) at the top-left texel
//   - X increases right, Y increases down
//   - With SetUpsideDown(true), Y is flipped around the requested height,
//     so padding added for power-of-two storage stays invisible
//
// # Backends
//
// Devices live under backend/: soft keeps textures in memory and backs the
// tests and tools, wgpu shares a WebGPU device through gpucontext, and
// opengl (build tag "opengl") drives the current GL 4.1 context.
package tex

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
