// Command texprobe creates a texture the way a renderer would and reports
// how it was negotiated against a capability profile.
//
// Usage:
//
//	texprobe -size 300x200 -caps gles2.toml
//	texprobe -image photo.jpg -mipmaps -smooth -dump level0.png
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"

	"github.com/gogpu/tex"
	"github.com/gogpu/tex/backend"
	"github.com/gogpu/tex/backend/soft"
	"github.com/gogpu/tex/imagebuf"
)

type options struct {
	capsPath   string
	backend    string
	imagePath  string
	size       string
	mipmaps    bool
	hwMipmaps  bool
	smooth     bool
	repeat     bool
	upsideDown bool
	dump       string
	verbose    bool
}

// step is the outcome of one mutator applied after creation.
type step struct {
	name   string
	result tex.Result
}

func main() {
	var opts options
	flag.StringVar(&opts.capsPath, "caps", "", "TOML capability profile (default: the backend's own)")
	flag.StringVar(&opts.backend, "backend", "", "device backend (default: best available)")
	flag.StringVar(&opts.imagePath, "image", "", "create the texture from this image")
	flag.StringVar(&opts.size, "size", "256x256", "blank texture size when -image is not given")
	flag.BoolVar(&opts.mipmaps, "mipmaps", false, "upload a full mipmap chain (requires -image)")
	flag.BoolVar(&opts.hwMipmaps, "hw-mipmaps", false, "ask the device to generate mipmaps")
	flag.BoolVar(&opts.smooth, "smooth", false, "enable bilinear filtering")
	flag.BoolVar(&opts.repeat, "repeat", false, "enable tiling")
	flag.BoolVar(&opts.upsideDown, "upside-down", false, "flip the texture transform vertically")
	flag.StringVar(&opts.dump, "dump", "", "write level 0 to this PNG (soft backend only)")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	tex.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(opts, os.Stdout); err != nil {
		slog.Error("texprobe failed", "err", err)
		os.Exit(1)
	}
}

func run(opts options, out io.Writer) error {
	dev, caps, err := openDevice(opts.backend)
	if err != nil {
		return err
	}
	if opts.capsPath != "" {
		profile, err := tex.LoadCapabilities(opts.capsPath)
		if err != nil {
			return err
		}
		caps = profile
	}

	ctx := tex.NewContext(dev, caps)
	t, err := createTexture(ctx, opts)
	if err != nil {
		return err
	}
	defer t.Close()

	results := []step{
		{"smooth", t.SetSmooth(opts.smooth)},
		{"repeat", t.SetRepeat(opts.repeat)},
		{"upside-down", t.SetUpsideDown(opts.upsideDown)},
	}
	if opts.hwMipmaps {
		results = append(results, step{"hw-mipmaps", t.BuildHardwareMipmaps()})
	}

	storage := t.StorageSize()
	m := t.Transform()
	fmt.Fprintf(out, "%-12s %s\n", "texture:", t)
	fmt.Fprintf(out, "%-12s %dx%d\n", "size:", t.Width(), t.Height())
	fmt.Fprintf(out, "%-12s %dx%d\n", "storage:", storage.X, storage.Y)
	fmt.Fprintf(out, "%-12s %d (mipmapped %v)\n", "mip levels:", tex.MipLevelCount(storage), t.HasMipmaps())
	fmt.Fprintf(out, "%-12s %s\n", "sampler:", t.Sampler())
	fmt.Fprintf(out, "%-12s [%g %g %g; %g %g %g; %g %g %g]\n", "transform:",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8])
	for _, res := range results {
		fmt.Fprintf(out, "%-12s %s\n", res.name+":", res.result)
	}

	if opts.dump != "" {
		return dumpLevel0(dev, t, opts.dump)
	}
	return nil
}

func openDevice(name string) (tex.Device, tex.Capabilities, error) {
	if name == "" {
		return backend.Default()
	}
	return backend.Open(name)
}

func createTexture(ctx *tex.Context, opts options) (*tex.Texture, error) {
	if opts.imagePath != "" {
		img, err := imagebuf.Load(opts.imagePath)
		if err != nil {
			return nil, err
		}
		return tex.NewTextureFromImage(ctx, img, opts.mipmaps)
	}
	if opts.mipmaps {
		return nil, errors.New("-mipmaps requires -image")
	}
	size, err := parseSize(opts.size)
	if err != nil {
		return nil, err
	}
	return tex.NewTexture(ctx, size)
}

func parseSize(s string) (image.Point, error) {
	var p image.Point
	if _, err := fmt.Sscanf(s, "%dx%d", &p.X, &p.Y); err != nil {
		return image.Point{}, fmt.Errorf("invalid size %q, want WxH: %w", s, err)
	}
	return p, nil
}

func dumpLevel0(dev tex.Device, t *tex.Texture, path string) error {
	sd, ok := dev.(*soft.Device)
	if !ok {
		return errors.New("-dump needs the soft backend")
	}
	st := sd.Texture(t.Handle())
	if st == nil || len(st.Levels) == 0 || st.Levels[0] == nil {
		return errors.New("texture has no level 0")
	}
	return st.Levels[0].SavePNG(path)
}
