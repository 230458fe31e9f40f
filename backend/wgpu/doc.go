// Package wgpu provides a tex.Device backed by gogpu/wgpu HAL resources.
//
// WebGPU has no binding slot and no texture parameters, so the device keeps
// both on the CPU side: each texture handle maps to a hal.Texture plus a
// hal.Sampler rebuilt whenever the wrap or filter state changes. Pixel
// uploads go through queue.WriteTexture, converting every PixelFormat to
// RGBA8Unorm on the way.
//
// # Usage
//
// The device shares the GPU of a host application through
// gpucontext.DeviceProvider. The provider must also expose HalDevice() and
// HalQueue():
//
//	dev, err := wgpu.NewFromProvider(provider)
//	if err != nil {
//	    return err
//	}
//	ctx := tex.NewContext(dev, dev.Capabilities())
//
// # Mipmaps
//
// WebGPU offers no mipmap generation command. GenerateMipmap keeps a CPU
// copy of level 0, box-filters it with imagebuf and uploads every level,
// reallocating the texture with a full mip chain the first time.
//
// # Screen capture
//
// CopyFromScreen needs a ScreenReader, attached with SetScreenReader. BGRA
// surfaces are swizzled to RGBA before the upload.
package wgpu
