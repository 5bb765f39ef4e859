package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
)

const (
	icoHeaderSize   = 6
	icoEntrySize    = 16
	bmpInfoSize     = 40
	icoImageOffset  = icoHeaderSize + icoEntrySize
	icoBitsPerPixel = 32
	icoMaxSize      = 256
)

var (
	ErrInvalidDimensions = errors.New("invalid icon dimensions")
	ErrChannelRange      = errors.New("channel value out of range [0,255]")
	ErrWriteFailure      = errors.New("cannot write icon file")
)

// maskRowBytes returns the AND mask row stride for width w: one bit per pixel,
// padded to a 32-bit boundary.
func maskRowBytes(w int) int {
	return (w + 31) / 32 * 4
}

// maskBit locates the AND mask bit for pixel (x, y) of a w-wide image, where y
// counts rows as stored (bottom-up). Bits are packed MSB first.
func maskBit(x, y, w int) (int, byte) {
	return y*maskRowBytes(w) + x/8, 0x80 >> (x % 8)
}

// icoSize returns the total file size and the image payload size for a
// single side×side 32 bpp image.
func icoSize(side int) (total, payload int) {
	payload = bmpInfoSize + side*side*4 + maskRowBytes(side)*side
	return icoImageOffset + payload, payload
}

// checkDimensions verifies that b describes a square icon the encoder can write.
func checkDimensions(b image.Rectangle) error {
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 || w != h || w > icoMaxSize {
		return fmt.Errorf("%w: %dx%d (want square, 1-%d pixels)", ErrInvalidDimensions, w, h, icoMaxSize)
	}
	return nil
}

// encodeICO encodes img as a single-image ICO: 32 bpp BGRA color data stored
// bottom-up, followed by the 1 bpp AND mask marking fully transparent pixels.
func encodeICO(img image.Image) ([]byte, error) {
	b := img.Bounds()
	if err := checkDimensions(b); err != nil {
		return nil, err
	}
	side := b.Dx()
	total, payload := icoSize(side)
	buf := make([]byte, total)

	// ICO dimensions: 0 means 256.
	dim := byte(side)
	if side >= icoMaxSize {
		dim = 0
	}

	// ICONDIR header
	binary.LittleEndian.PutUint16(buf[0:], 0) // reserved
	binary.LittleEndian.PutUint16(buf[2:], 1) // type: ICO
	binary.LittleEndian.PutUint16(buf[4:], 1) // count: 1 image

	// ICONDIRENTRY
	off := icoHeaderSize
	buf[off+0] = dim                                            // width
	buf[off+1] = dim                                            // height
	buf[off+2] = 0                                              // color count (0 for truecolor)
	buf[off+3] = 0                                              // reserved
	binary.LittleEndian.PutUint16(buf[off+4:], 1)               // planes
	binary.LittleEndian.PutUint16(buf[off+6:], icoBitsPerPixel) // bits per pixel
	binary.LittleEndian.PutUint32(buf[off+8:], uint32(payload)) // data size
	binary.LittleEndian.PutUint32(buf[off+12:], icoImageOffset) // data offset

	// BITMAPINFOHEADER; height covers XOR and AND masks. Compression, image
	// size, resolution and palette fields stay zero.
	off = icoImageOffset
	binary.LittleEndian.PutUint32(buf[off+0:], bmpInfoSize)
	binary.LittleEndian.PutUint32(buf[off+4:], uint32(side))
	binary.LittleEndian.PutUint32(buf[off+8:], uint32(side*2))
	binary.LittleEndian.PutUint16(buf[off+12:], 1)
	binary.LittleEndian.PutUint16(buf[off+14:], icoBitsPerPixel)

	pixels := buf[icoImageOffset+bmpInfoSize:]
	mask := pixels[side*side*4:]
	for row := 0; row < side; row++ {
		y := b.Min.Y + side - 1 - row
		for x := 0; x < side; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, y)).(color.NRGBA)
			p := pixels[(row*side+x)*4:]
			p[0], p[1], p[2], p[3] = c.B, c.G, c.R, c.A
			if c.A == 0 {
				i, bit := maskBit(x, row, side)
				mask[i] |= bit
			}
		}
	}
	return buf, nil
}

// writeICO encodes img and replaces path with the result. The file is written
// to a sibling temp file first, so a failure never leaves a partial icon.
func writeICO(path string, img image.Image) error {
	data, err := encodeICO(img)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// writeFileAtomic writes data to a temp file next to path and renames it into
// place, keeping the permissions of a file it replaces. Errors wrap
// ErrWriteFailure.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: create dir %s: %v", ErrWriteFailure, dir, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	tmp := f.Name()
	defer os.Remove(tmp) // no-op after a successful rename

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("%w: write %s: %v", ErrWriteFailure, tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrWriteFailure, tmp, err)
	}
	mode := os.FileMode(0644)
	if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
		mode = fi.Mode().Perm()
	}
	if err := os.Chmod(tmp, mode); err != nil {
		return fmt.Errorf("%w: chmod %s: %v", ErrWriteFailure, tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: rename to %s: %v", ErrWriteFailure, path, err)
	}
	return nil
}
