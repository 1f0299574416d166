package overlay

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	placeholderWidth  = 960
	placeholderHeight = 720
)

var (
	placeholderBackground = color.NRGBA{R: 0xF8, G: 0xF9, B: 0xFA, A: 255}
	placeholderBorder     = color.NRGBA{R: 0xDE, G: 0xE2, B: 0xE6, A: 255}
	placeholderTextColor  = color.NRGBA{R: 0x66, G: 0x66, B: 0x66, A: 255}
)

// Placeholder renders a slide preview placeholder: a bordered light canvas
// with the slide number and a short notice, encoded as PNG.
func Placeholder(slideNumber int) ([]byte, error) {
	canvas := imaging.New(placeholderWidth, placeholderHeight, placeholderBackground)

	drawBorder(canvas, placeholderBorder, 3)

	lines := []string{
		fmt.Sprintf("Slide %d", slideNumber+1),
		"",
		"Preview not available",
		"",
		"(Download file to see presentation)",
	}

	face, err := newFace(18)
	if err != nil {
		return nil, fmt.Errorf("overlay: failed to create placeholder face: %w", err)
	}
	defer face.Close() //nolint:errcheck

	y := 280
	for _, line := range lines {
		drawCenteredLine(canvas, face, line, y)
		y += 40
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, fmt.Errorf("overlay: failed to encode placeholder: %w", err)
	}
	return buf.Bytes(), nil
}

func drawBorder(canvas *image.NRGBA, c color.NRGBA, width int) {
	b := canvas.Bounds()
	src := image.NewUniform(c)
	draw.Draw(canvas, image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+width), src, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(b.Min.X, b.Max.Y-width, b.Max.X, b.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(b.Min.X, b.Min.Y, b.Min.X+width, b.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(b.Max.X-width, b.Min.Y, b.Max.X, b.Max.Y), src, image.Point{}, draw.Src)
}

func drawCenteredLine(canvas *image.NRGBA, face font.Face, line string, y int) {
	if line == "" {
		return
	}
	width := font.MeasureString(face, line).Ceil()
	x := (canvas.Bounds().Dx() - width) / 2
	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(placeholderTextColor),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(line)
}
