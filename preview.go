package main

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// scaleNearest resizes img to size×size without smoothing, so each icon pixel
// becomes a crisp block.
func scaleNearest(img image.Image, size int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// encodePNG encodes an image as PNG bytes.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// writePreview writes img scaled to size as a PNG file at path.
func writePreview(path string, img image.Image, size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: preview size %d", ErrInvalidDimensions, size)
	}
	data, err := encodePNG(scaleNearest(img, size))
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}
