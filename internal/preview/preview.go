// Package preview draws a preset as an image, the way the layout would look
// on a canvas of the given size.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/mj1618/arrange/internal/assign"
	"github.com/mj1618/arrange/internal/layout"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// basicfont.Face7x13 glyph metrics.
const (
	glyphWidth  = 7
	glyphHeight = 13
)

var (
	background   = color.RGBA{R: 30, G: 30, B: 34, A: 255}
	outlineColor = color.RGBA{R: 0, G: 0, B: 0, A: 200}
	textColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	borderColor  = color.RGBA{R: 200, G: 200, B: 210, A: 255}
)

// Fill returns the slot fill colour for an accent level.
func Fill(a layout.AccentLevel) color.RGBA {
	switch a {
	case layout.AccentPrimary:
		return color.RGBA{R: 64, G: 120, B: 220, A: 255}
	case layout.AccentSecondary:
		return color.RGBA{R: 70, G: 160, B: 120, A: 255}
	default:
		return color.RGBA{R: 90, G: 90, B: 100, A: 255}
	}
}

// Render draws p resolved on a w×h canvas with the given gutter. Each slot is
// filled by its accent, outlined, and labelled with its occupant's app name
// or, when empty, its position.
func Render(p layout.Preset, a assign.Assignment, w, h int, gutter float64) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("preview size must be positive, got %dx%d", w, h)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	rects := layout.NewResolver(gutter).Resolve(p, layout.Rect{Width: float64(w), Height: float64(h)})
	for _, r := range rects {
		b := r.Rect.Bounds()
		box := image.Rect(b[0], b[1], b[0]+b[2], b[1]+b[3]).Intersect(img.Bounds())
		if box.Empty() {
			continue
		}
		draw.Draw(img, box, image.NewUniform(Fill(layout.Accent(p, r.Position))), image.Point{}, draw.Src)
		drawRectangle(img, box, borderColor)

		label := r.Position.String()
		if win := a.Window(r.Position); win != nil {
			label = win.App
		}
		label = fit(label, box.Dx())
		if label != "" {
			drawTextWithOutline(img, label, box.Min.X+box.Dx()/2, box.Min.Y+box.Dy()/2)
		}
	}
	return img, nil
}

// WritePNG renders and encodes to w.
func WritePNG(out io.Writer, p layout.Preset, a assign.Assignment, w, h int, gutter float64) error {
	img, err := Render(p, a, w, h, gutter)
	if err != nil {
		return err
	}
	return Encode(out, img)
}

// Encode writes img as PNG.
func Encode(out io.Writer, img image.Image) error {
	return png.Encode(out, img)
}

// fit truncates label to the glyphs that fit in width, marking the cut.
func fit(label string, width int) string {
	runes := []rune(label)
	n := (width - 4) / glyphWidth
	if n <= 0 {
		return ""
	}
	if len(runes) <= n {
		return label
	}
	if n == 1 {
		return string(runes[:1])
	}
	return string(runes[:n-1]) + "~"
}

func drawRectangle(img *image.RGBA, r image.Rectangle, c color.Color) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}

// drawTextWithOutline centres text on (x, y) with a one-pixel outline.
func drawTextWithOutline(img *image.RGBA, text string, x, y int) {
	offsetX := x - len([]rune(text))*glyphWidth/2
	// Dot is the baseline; shift down so the glyph box is centred.
	offsetY := y + glyphHeight/2 - 2

	d := &font.Drawer{Dst: img, Face: basicfont.Face7x13}
	d.Src = image.NewUniform(outlineColor)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			d.Dot = fixed.P(offsetX+dx, offsetY+dy)
			d.DrawString(text)
		}
	}
	d.Src = image.NewUniform(textColor)
	d.Dot = fixed.P(offsetX, offsetY)
	d.DrawString(text)
}
