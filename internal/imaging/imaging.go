// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging provides the best-effort upload image pipeline for
// the local persistence backend: a size-capped "optimized" rendition
// and a square thumbnail. Optimization failures never fail an upload;
// the original bytes are stored verbatim instead.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif" // register GIF decoder
	_ "image/png" // register PNG decoder

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// Optimized rendition bounds: fit inside, never enlarge.
	optimizeMaxWidth  = 1920
	optimizeMaxHeight = 1080
	optimizeQuality   = 85

	// Thumbnail: square centre crop.
	thumbSize    = 300
	thumbQuality = 80

	// maxImagePixels caps decoded size to prevent memory bombs.
	maxImagePixels = 100_000_000
)

// Optimize returns a JPEG rendition of the image constrained to
// 1920x1080, preserving aspect ratio and never enlarging. Inputs that
// do not decode as a supported raster image are returned unchanged
// (SVG and video bytes pass straight through).
func Optimize(original []byte) ([]byte, error) {
	img, err := decodeChecked(original)
	if err != nil {
		return original, nil
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	scale := 1.0
	if s := float64(w) / float64(optimizeMaxWidth); s > scale {
		scale = s
	}
	if s := float64(h) / float64(optimizeMaxHeight); s > scale {
		scale = s
	}

	dst := img
	if scale > 1.0 {
		nw := int(float64(w) / scale)
		nh := int(float64(h) / scale)
		scaled := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)
		dst = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: optimizeQuality}); err != nil {
		return nil, fmt.Errorf("imaging: encode optimized: %w", err)
	}
	return buf.Bytes(), nil
}

// Thumbnail returns a 300x300 JPEG centre crop, or (nil, nil) when the
// input is not a decodable raster image; callers fall back to the
// optimized rendition for previews.
func Thumbnail(original []byte) ([]byte, error) {
	img, err := decodeChecked(original)
	if err != nil {
		return nil, nil
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	// Centre square crop region in source coordinates.
	side := w
	if h < side {
		side = h
	}
	x0 := bounds.Min.X + (w-side)/2
	y0 := bounds.Min.Y + (h-side)/2
	crop := image.Rect(x0, y0, x0+side, y0+side)

	dst := image.NewRGBA(image.Rect(0, 0, thumbSize, thumbSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("imaging: encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeChecked decodes a raster image after a header-only config read
// rejects pixel bombs.
func decodeChecked(data []byte) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode config: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("imaging: image too large: %dx%d", cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}
	return img, nil
}
