package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// Icon styles.
const (
	StyleGlyph = "glyph" // per-pixel circle and letter, no font needed
	StyleFont  = "font"  // antialiased circle with outline and a font-rendered letter
)

// ValidStyle reports whether name is a known icon style.
func ValidStyle(name string) bool {
	return name == StyleGlyph || name == StyleFont
}

// Palette holds the icon colors.
type Palette struct {
	Background color.NRGBA
	Accent     color.NRGBA
	Text       color.NRGBA
}

func defaultPalette() Palette {
	return Palette{
		Background: color.NRGBA{45, 85, 255, 255},
		Accent:     color.NRGBA{200, 155, 60, 255},
		Text:       color.NRGBA{255, 255, 255, 255},
	}
}

// parseHexColor parses "#rrggbb" or "#rrggbbaa" (leading # optional).
func parseHexColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 && len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("bad color %q: want #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// formatHexColor is the inverse of parseHexColor; alpha is omitted when opaque.
func formatHexColor(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// renderIcon draws the icon for the given options.
func renderIcon(opts RenderOptions) (*image.NRGBA, error) {
	switch opts.Style {
	case StyleFont:
		return renderFontIcon(opts.Size, opts.Palette, opts.Letter)
	case StyleGlyph, "":
		return renderGlyphIcon(opts.Size, opts.Palette), nil
	}
	return nil, fmt.Errorf("unknown icon style %q", opts.Style)
}

// RenderOptions controls icon rendering.
type RenderOptions struct {
	Size    int
	Style   string
	Letter  string
	Palette Palette
}

// renderGlyphIcon draws a filled circle with a blocky "A" decided per pixel.
// The geometry is laid out on a 32 pixel grid and scaled to size.
func renderGlyphIcon(size int, pal Palette) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	center := size / 2
	scale := float64(size) / 32
	radius := 14 * scale

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := x-center, y-center
			if math.Sqrt(float64(dx*dx+dy*dy)) > radius {
				continue // transparent
			}
			if inGlyphA(math.Abs(float64(dx))/scale, math.Abs(float64(dy))/scale) {
				img.SetNRGBA(x, y, pal.Text)
			} else {
				img.SetNRGBA(x, y, pal.Background)
			}
		}
	}
	return img
}

// inGlyphA reports whether the absolute offsets from the icon center, in 32
// grid units, fall on the letter: a stem broken by a wider crossbar.
func inGlyphA(ax, ay float64) bool {
	if ax >= 6 || ay >= 8 {
		return false
	}
	vertical := ay > 2 && ax < 3
	crossbar := ay > 0 && ay < 3 && ax < 5
	return vertical || crossbar
}

const minFontSize = 8

// renderFontIcon draws an outlined circle with the letter centered in it.
// Below 32 pixels a letter is unreadable, so a checkmark is drawn instead.
// Below 8 pixels the margin leaves no room for the circle and the glyph
// rendering is used.
func renderFontIcon(size int, pal Palette, letter string) (*image.NRGBA, error) {
	if size < minFontSize {
		return renderGlyphIcon(size, pal), nil
	}
	dc := gg.NewContext(size, size)
	dc.SetColor(color.NRGBA{0, 0, 0, 0})
	dc.Clear()

	s := float64(size)
	margin := float64(max(2, size/16))
	outline := float64(max(1, size/32))
	center := s / 2
	radius := (s - 2*margin) / 2

	dc.SetColor(pal.Background)
	dc.DrawCircle(center, center, radius)
	dc.Fill()

	// The outline sits inside the circle's edge.
	dc.SetColor(pal.Accent)
	dc.SetLineWidth(outline)
	dc.DrawCircle(center, center, radius-outline/2)
	dc.Stroke()

	if size >= 32 {
		face, err := loadFontFace(math.Max(8, float64(size/3)))
		if err != nil {
			return nil, err
		}
		dc.SetFontFace(face)
		dc.SetColor(pal.Text)
		dc.DrawStringAnchored(letter, center, center, 0.5, 0.5)
	} else {
		drawCheckmark(dc, size, pal.Text)
	}

	out := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(out, out.Bounds(), dc.Image(), image.Point{}, draw.Src)
	return out, nil
}

// drawCheckmark strokes a two-segment check through the icon center.
func drawCheckmark(dc *gg.Context, size int, col color.Color) {
	inner := size - 2*max(2, size/16)
	check := float64(inner / 3)
	c := float64(size / 2)

	dc.SetColor(col)
	dc.SetLineWidth(float64(max(1, size/16)))
	dc.SetLineCap(gg.LineCapRound)
	dc.MoveTo(c-check/2, c)
	dc.LineTo(c-check/4, c+check/2)
	dc.LineTo(c+check/2, c-check/2)
	dc.Stroke()
}

// loadFontFace loads the embedded Go Bold font at the given size.
func loadFontFace(size float64) (font.Face, error) {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	return face, nil
}
