package main

import (
	"fmt"
	"image"
	"strings"

	"github.com/dustin/go-humanize"
)

// PixelStats counts pixels of a decoded icon by transparency.
type PixelStats struct {
	Opaque      int // alpha 255
	Translucent int // alpha 1-254
	Transparent int // alpha 0
	Masked      int // AND mask bit set
}

// countPixels tallies alpha classes of img and set bits of its AND mask.
func countPixels(img *image.NRGBA, mask []byte) PixelStats {
	var st PixelStats
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch a := img.NRGBAAt(b.Min.X+x, b.Min.Y+y).A; {
			case a == 255:
				st.Opaque++
			case a == 0:
				st.Transparent++
			default:
				st.Translucent++
			}
			i, bit := maskBit(x, h-1-y, w)
			if i < len(mask) && mask[i]&bit != 0 {
				st.Masked++
			}
		}
	}
	return st
}

// formatHeader renders the parsed ICO header fields, one per line.
func formatHeader(h IcoHeader) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Type: %d, images: %d", h.Type, h.Count)
	if h.Count > 1 {
		sb.WriteString(" (showing first)")
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Entry: %dx%d, %d bpp, %d planes, colors %d\n", h.Width, h.Height, h.BitCount, h.Planes, h.ColorCount)
	fmt.Fprintf(&sb, "Data: %s at offset %d\n", formatBytes(int64(h.BytesInRes)), h.Offset)
	if h.PNG {
		sb.WriteString("Payload: PNG\n")
		return sb.String()
	}
	fmt.Fprintf(&sb, "DIB: header %d, %dx%d (x2), %d bpp, compression %d\n",
		h.DIBSize, h.DIBWidth, h.DIBHeight/2, h.DIBBitCount, h.Compression)
	return sb.String()
}

// formatStats renders pixel counts as a single line.
func formatStats(st PixelStats) string {
	return fmt.Sprintf("Pixels: %d opaque, %d translucent, %d transparent, %d masked",
		st.Opaque, st.Translucent, st.Transparent, st.Masked)
}

// formatBytes returns "N bytes" below 1 KiB and "N bytes (X.Y KiB)" above.
func formatBytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d bytes", n)
	}
	return fmt.Sprintf("%d bytes (%s)", n, humanize.IBytes(uint64(n)))
}
