// Package opengl provides a tex.Device on the OpenGL 4.1 core profile
// through go-gl.
//
// The device drives the GL context current on the calling thread, so it
// must only be used from the goroutine that locked that thread. Because
// go-gl links against the system GL library, the implementation is only
// compiled with the "opengl" build tag:
//
//	go build -tags opengl ./...
//
// Importing the package registers the "opengl" backend. Opening it probes
// the current context with gl.Init; without one the registry falls back to
// the next backend.
//
// Luminance formats have no GL 4.1 core counterpart. They are uploaded as
// RED or RG textures and expanded with a texture swizzle, so shaders always
// sample RGBA.
package opengl
