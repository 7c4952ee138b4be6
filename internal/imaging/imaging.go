// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging inspects uploaded product images before they are stored.
// Only the image header is decoded, so large files are checked cheaply.
package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"

	_ "golang.org/x/image/webp" // register WebP decoder
)

// MaxPixels caps the number of pixels of an accepted image.
// 10000x10000 = 100 million pixels, ~400 MB decoded in RGBA.
const MaxPixels = 100_000_000

var (
	// ErrUnsupported is returned for data that is not a PNG, JPEG, GIF, or
	// WebP image.
	ErrUnsupported = errors.New("not a supported image")

	// ErrTooLarge is returned when the image exceeds MaxPixels.
	ErrTooLarge = errors.New("image dimensions are too large")
)

var contentTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// Info describes an inspected image.
type Info struct {
	Format string // decoder name: "png", "jpeg", "gif", "webp"
	Width  int
	Height int
}

// ContentType returns the MIME type of the detected format.
func (i Info) ContentType() string { return contentTypes[i.Format] }

// Inspect decodes the image header from r and rewinds r to the start, so
// the same reader can be uploaded afterwards.
func Inspect(r io.ReadSeeker) (Info, error) {
	cfg, format, err := image.DecodeConfig(r)
	if _, serr := r.Seek(0, io.SeekStart); serr != nil {
		return Info{}, fmt.Errorf("imaging: rewind: %w", serr)
	}
	if err != nil {
		return Info{}, fmt.Errorf("imaging: %w: %v", ErrUnsupported, err)
	}

	info := Info{Format: format, Width: cfg.Width, Height: cfg.Height}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return info, fmt.Errorf("imaging: %w: empty dimensions", ErrUnsupported)
	}
	if cfg.Width*cfg.Height > MaxPixels {
		return info, fmt.Errorf("imaging: %dx%d: %w", cfg.Width, cfg.Height, ErrTooLarge)
	}
	return info, nil
}
