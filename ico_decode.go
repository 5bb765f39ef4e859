package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
)

var ErrInvalidICO = errors.New("invalid ICO file")

// IcoHeader holds the fixed-layout fields of an ICO file's first image.
type IcoHeader struct {
	// ICONDIR
	Reserved uint16
	Type     uint16
	Count    uint16

	// ICONDIRENTRY
	Width      int // 0 in the file means 256
	Height     int
	ColorCount uint8
	Planes     uint16
	BitCount   uint16
	BytesInRes uint32
	Offset     uint32

	// BITMAPINFOHEADER (zero when the payload is PNG)
	DIBSize     uint32
	DIBWidth    int32
	DIBHeight   int32 // XOR and AND masks combined
	DIBBitCount uint16
	Compression uint32

	PNG bool
}

var pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

func invalidICO(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidICO, fmt.Sprintf(format, args...))
}

// decodeICOHeaders parses the header, the first directory entry and, for DIB
// payloads, the BITMAPINFOHEADER.
func decodeICOHeaders(data []byte) (IcoHeader, error) {
	var h IcoHeader
	if len(data) < icoHeaderSize {
		return h, invalidICO("too short for header (%d bytes)", len(data))
	}
	h.Reserved = binary.LittleEndian.Uint16(data[0:])
	h.Type = binary.LittleEndian.Uint16(data[2:])
	h.Count = binary.LittleEndian.Uint16(data[4:])
	if h.Reserved != 0 || h.Type != 1 {
		return h, invalidICO("bad magic number (reserved=%d, type=%d)", h.Reserved, h.Type)
	}
	if h.Count == 0 {
		return h, invalidICO("no images")
	}
	if len(data) < icoHeaderSize+int(h.Count)*icoEntrySize {
		return h, invalidICO("too short for %d directory entries", h.Count)
	}

	e := data[icoHeaderSize:]
	h.Width, h.Height = int(e[0]), int(e[1])
	if h.Width == 0 {
		h.Width = icoMaxSize
	}
	if h.Height == 0 {
		h.Height = icoMaxSize
	}
	h.ColorCount = e[2]
	h.Planes = binary.LittleEndian.Uint16(e[4:])
	h.BitCount = binary.LittleEndian.Uint16(e[6:])
	h.BytesInRes = binary.LittleEndian.Uint32(e[8:])
	h.Offset = binary.LittleEndian.Uint32(e[12:])

	end := uint64(h.Offset) + uint64(h.BytesInRes)
	if h.BytesInRes == 0 || end > uint64(len(data)) {
		return h, invalidICO("image data [%d,%d) outside file of %d bytes", h.Offset, end, len(data))
	}

	img := data[h.Offset:end]
	if bytes.HasPrefix(img, pngMagic) {
		h.PNG = true
		return h, nil
	}
	if len(img) < bmpInfoSize {
		return h, invalidICO("image data too short for BITMAPINFOHEADER")
	}
	h.DIBSize = binary.LittleEndian.Uint32(img[0:])
	if h.DIBSize < bmpInfoSize {
		return h, invalidICO("unsupported DIB header size %d", h.DIBSize)
	}
	h.DIBWidth = int32(binary.LittleEndian.Uint32(img[4:]))
	h.DIBHeight = int32(binary.LittleEndian.Uint32(img[8:]))
	h.DIBBitCount = binary.LittleEndian.Uint16(img[14:])
	h.Compression = binary.LittleEndian.Uint32(img[16:])
	return h, nil
}

// decodeICO decodes the first image of a 32 bpp uncompressed ICO file. It
// returns the pixels top-down and the raw AND mask rows as stored (bottom-up).
func decodeICO(data []byte) (*image.NRGBA, []byte, error) {
	h, err := decodeICOHeaders(data)
	if err != nil {
		return nil, nil, err
	}
	if h.PNG {
		return nil, nil, invalidICO("PNG payloads are not supported")
	}
	if h.DIBBitCount != icoBitsPerPixel || h.Compression != 0 {
		return nil, nil, invalidICO("unsupported format: %d bpp, compression %d", h.DIBBitCount, h.Compression)
	}

	w, ht := int(h.DIBWidth), int(h.DIBHeight)/2
	if w <= 0 || ht <= 0 || w > icoMaxSize || ht > icoMaxSize {
		return nil, nil, invalidICO("bad DIB dimensions %dx%d", h.DIBWidth, h.DIBHeight)
	}

	if h.DIBSize > h.BytesInRes {
		return nil, nil, invalidICO("DIB header size %d exceeds image data size %d", h.DIBSize, h.BytesInRes)
	}
	body := data[int(h.Offset)+int(h.DIBSize) : int(h.Offset)+int(h.BytesInRes)]
	colorBytes := w * ht * 4
	maskBytes := maskRowBytes(w) * ht
	if len(body) < colorBytes+maskBytes {
		return nil, nil, invalidICO("pixel data truncated: have %d bytes, want %d", len(body), colorBytes+maskBytes)
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, ht))
	for row := 0; row < ht; row++ {
		y := ht - 1 - row // bottom-up
		for x := 0; x < w; x++ {
			p := body[(row*w+x)*4:]
			img.SetNRGBA(x, y, color.NRGBA{R: p[2], G: p[1], B: p[0], A: p[3]})
		}
	}
	mask := make([]byte, maskBytes)
	copy(mask, body[colorBytes:])
	return img, mask, nil
}
