package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"testing"
)

// wrapPNGInICO builds a minimal ICO whose only image is a PNG payload.
func wrapPNGInICO(pngData []byte, size int) []byte {
	buf := make([]byte, icoImageOffset+len(pngData))
	binary.LittleEndian.PutUint16(buf[2:], 1)
	binary.LittleEndian.PutUint16(buf[4:], 1)
	buf[6], buf[7] = byte(size), byte(size)
	binary.LittleEndian.PutUint16(buf[10:], 1)
	binary.LittleEndian.PutUint16(buf[12:], 32)
	binary.LittleEndian.PutUint32(buf[14:], uint32(len(pngData)))
	binary.LittleEndian.PutUint32(buf[18:], icoImageOffset)
	copy(buf[icoImageOffset:], pngData)
	return buf
}

func TestDecodeICOHeaders_Encoded(t *testing.T) {
	data, _ := encodeICO(renderGlyphIcon(32, defaultPalette()))
	h, err := decodeICOHeaders(data)
	if err != nil {
		t.Fatalf("decodeICOHeaders error: %v", err)
	}
	if h.Type != 1 || h.Count != 1 {
		t.Errorf("type/count = %d/%d, want 1/1", h.Type, h.Count)
	}
	if h.Width != 32 || h.Height != 32 {
		t.Errorf("entry size = %dx%d, want 32x32", h.Width, h.Height)
	}
	if h.BitCount != 32 || h.Planes != 1 {
		t.Errorf("bpp/planes = %d/%d, want 32/1", h.BitCount, h.Planes)
	}
	if h.Offset != 22 || h.BytesInRes != 4264 {
		t.Errorf("offset/size = %d/%d, want 22/4264", h.Offset, h.BytesInRes)
	}
	if h.DIBSize != 40 || h.DIBWidth != 32 || h.DIBHeight != 64 {
		t.Errorf("DIB = %d %dx%d, want 40 32x64", h.DIBSize, h.DIBWidth, h.DIBHeight)
	}
	if h.PNG {
		t.Error("PNG = true for a DIB payload")
	}
}

func TestDecodeICOHeaders_PNG(t *testing.T) {
	data := wrapPNGInICO([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0}, 0)
	h, err := decodeICOHeaders(data)
	if err != nil {
		t.Fatalf("decodeICOHeaders error: %v", err)
	}
	if !h.PNG {
		t.Error("PNG = false, want true")
	}
	if h.Width != 256 || h.Height != 256 {
		t.Errorf("entry size = %dx%d, want 256x256", h.Width, h.Height)
	}

	if _, _, err := decodeICO(data); !errors.Is(err, ErrInvalidICO) {
		t.Errorf("decodeICO(PNG) error = %v, want ErrInvalidICO", err)
	}
}

func TestDecodeICOHeaders_Invalid(t *testing.T) {
	valid, _ := encodeICO(solidImage(8, color.NRGBA{1, 2, 3, 255}))

	badMagic := bytes.Clone(valid)
	badMagic[2] = 2 // cursor

	noImages := bytes.Clone(valid)
	noImages[4] = 0

	badOffset := bytes.Clone(valid)
	binary.LittleEndian.PutUint32(badOffset[18:], uint32(len(valid)))

	badDIB := bytes.Clone(valid)
	binary.LittleEndian.PutUint32(badDIB[22:], 12)

	tests := map[string][]byte{
		"empty":      nil,
		"short":      valid[:4],
		"bad magic":  badMagic,
		"no images":  noImages,
		"no entry":   valid[:10],
		"bad offset": badOffset,
		"truncated":  valid[:len(valid)-1],
		"bad DIB":    badDIB,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := decodeICOHeaders(data); !errors.Is(err, ErrInvalidICO) {
				t.Errorf("decodeICOHeaders error = %v, want ErrInvalidICO", err)
			}
		})
	}
}

func TestDecodeICO_Mask(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 17, 17))
	img.SetNRGBA(0, 16, color.NRGBA{255, 255, 255, 255}) // bottom-left opaque
	data, _ := encodeICO(img)

	got, mask, err := decodeICO(data)
	if err != nil {
		t.Fatalf("decodeICO error: %v", err)
	}
	if got.Bounds().Dx() != 17 || got.Bounds().Dy() != 17 {
		t.Errorf("decoded size = %v, want 17x17", got.Bounds())
	}
	if len(mask) != 4*17 {
		t.Fatalf("mask length = %d, want %d", len(mask), 4*17)
	}
	// Stored row 0 is the bottom row; its first pixel is opaque.
	if mask[0] != 0x7F {
		t.Errorf("mask[0] = %#x, want 0x7f", mask[0])
	}
	if mask[4] != 0xFF {
		t.Errorf("mask[4] = %#x, want 0xff", mask[4])
	}
}

func TestDecodeICO_Unsupported(t *testing.T) {
	data, _ := encodeICO(solidImage(8, color.NRGBA{A: 255}))
	binary.LittleEndian.PutUint16(data[22+14:], 8) // 8 bpp
	if _, _, err := decodeICO(data); !errors.Is(err, ErrInvalidICO) {
		t.Errorf("decodeICO(8 bpp) error = %v, want ErrInvalidICO", err)
	}
}

func TestDecodeICO_TruncatedPixels(t *testing.T) {
	data, _ := encodeICO(solidImage(8, color.NRGBA{A: 255}))
	// Claim a larger image than the payload holds.
	binary.LittleEndian.PutUint32(data[22+4:], 16)
	binary.LittleEndian.PutUint32(data[22+8:], 32)
	if _, _, err := decodeICO(data); !errors.Is(err, ErrInvalidICO) {
		t.Errorf("decodeICO(truncated) error = %v, want ErrInvalidICO", err)
	}
}

func TestDecodeICO_HugeDimensions(t *testing.T) {
	data, _ := encodeICO(solidImage(1, color.NRGBA{A: 255}))
	if len(data) != 70 {
		t.Fatalf("len = %d, want 70", len(data))
	}
	// Dimensions whose buffer sizes overflow int.
	binary.LittleEndian.PutUint32(data[22+4:], 0x7fffffff)
	binary.LittleEndian.PutUint32(data[22+8:], 0x7ffffffe)
	if _, _, err := decodeICO(data); !errors.Is(err, ErrInvalidICO) {
		t.Errorf("decodeICO(huge) error = %v, want ErrInvalidICO", err)
	}

	binary.LittleEndian.PutUint32(data[22+4:], 257)
	binary.LittleEndian.PutUint32(data[22+8:], 2)
	if _, _, err := decodeICO(data); !errors.Is(err, ErrInvalidICO) {
		t.Errorf("decodeICO(width 257) error = %v, want ErrInvalidICO", err)
	}
}
