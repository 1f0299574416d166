package overlay

import (
	"image"
	"image/color"
	"math"
)

// minContrastRatio is the lowest acceptable WCAG-style contrast ratio between
// the sampled background and the chosen text color.
const minContrastRatio = 1.5

var (
	pureBlack = color.NRGBA{A: 255}
	pureWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// modalColor returns the most frequent pixel color inside rect, which is a
// good estimate of the background behind a line of text.
func modalColor(img image.Image, rect image.Rectangle) color.NRGBA {
	rect = rect.Intersect(img.Bounds())
	counts := make(map[color.NRGBA]int)
	var best color.NRGBA
	bestCount := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			counts[c]++
			if counts[c] > bestCount {
				best, bestCount = c, counts[c]
			}
		}
	}
	if bestCount == 0 {
		return pureWhite
	}
	return best
}

// isLight classifies a color as light when its mean channel value exceeds the
// midpoint.
func isLight(c color.NRGBA) bool {
	mean := (int(c.R) + int(c.G) + int(c.B)) / 3
	return mean > 128
}

// hasExtremalPixels scans rect for near-black or near-white pixels,
// confirming that the region really contains dark or light glyphs.
func hasExtremalPixels(img image.Image, rect image.Rectangle, dark bool) bool {
	rect = rect.Intersect(img.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if dark && c.R < 60 && c.G < 60 && c.B < 60 {
				return true
			}
			if !dark && c.R > 200 && c.G > 200 && c.B > 200 {
				return true
			}
		}
	}
	return false
}

// relativeLuminance computes the WCAG relative luminance of a color.
func relativeLuminance(c color.NRGBA) float64 {
	lin := func(v uint8) float64 {
		s := float64(v) / 255.0
		if s <= 0.03928 {
			return s / 12.92
		}
		return math.Pow((s+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.R) + 0.7152*lin(c.G) + 0.0722*lin(c.B)
}

// contrastRatio computes the WCAG contrast ratio between two colors.
func contrastRatio(a, b color.NRGBA) float64 {
	la, lb := relativeLuminance(a), relativeLuminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// pickTextColor chooses pure black or pure white text for the given region:
// black on light backgrounds, white on dark, confirmed against the pixels
// actually present, with the opposite color forced when the contrast ratio
// against the background falls under the minimum.
func pickTextColor(img image.Image, rect image.Rectangle, background color.NRGBA) color.NRGBA {
	text := pureWhite
	if isLight(background) {
		text = pureBlack
	}

	// Prefer the polarity of the glyphs that were really there.
	if text == pureBlack && !hasExtremalPixels(img, rect, true) && hasExtremalPixels(img, rect, false) {
		text = pureWhite
	} else if text == pureWhite && !hasExtremalPixels(img, rect, false) && hasExtremalPixels(img, rect, true) {
		text = pureBlack
	}

	if contrastRatio(background, text) < minContrastRatio {
		if text == pureBlack {
			text = pureWhite
		} else {
			text = pureBlack
		}
	}
	return text
}
