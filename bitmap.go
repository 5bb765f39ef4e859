package main

import (
	"fmt"
	"image"
	"image/color"
)

var channelNames = [4]string{"R", "G", "B", "A"}

// bitmapFromRows builds a square NRGBA bitmap from rows of (R, G, B, A)
// tuples, top row first. Every row must be as long as there are rows and
// every channel must fit in a byte.
func bitmapFromRows(rows [][][4]int) (*image.NRGBA, error) {
	side := len(rows)
	if side == 0 {
		return nil, fmt.Errorf("%w: no pixel rows", ErrInvalidDimensions)
	}
	if side > icoMaxSize {
		return nil, fmt.Errorf("%w: %d rows (max %d)", ErrInvalidDimensions, side, icoMaxSize)
	}

	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	for y, row := range rows {
		if len(row) != side {
			return nil, fmt.Errorf("%w: row %d has %d pixels, want %d", ErrInvalidDimensions, y, len(row), side)
		}
		for x, px := range row {
			for i, v := range px {
				if v < 0 || v > 255 {
					return nil, fmt.Errorf("%w: pixel (%d,%d) channel %s = %d", ErrChannelRange, x, y, channelNames[i], v)
				}
			}
			img.SetNRGBA(x, y, color.NRGBA{uint8(px[0]), uint8(px[1]), uint8(px[2]), uint8(px[3])})
		}
	}
	return img, nil
}
