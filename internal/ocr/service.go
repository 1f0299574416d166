// Package ocr locates text inside raster images through external OCR
// backends.
//
// Two implementations of the TextLocator contract are provided: the Azure
// Computer Vision Read API (asynchronous submit/poll) and Google Cloud Vision
// document text detection. Both produce the same lazy-free, one-shot sequence
// of text blocks with pixel-coordinate bounding boxes and confidence scores.
package ocr

import "context"

// BoundingBox is an axis-aligned rectangle in source-image pixel coordinates.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TextBlock is one detected line of text with its location and confidence.
type TextBlock struct {
	Text       string      `json:"text"`
	BBox       BoundingBox `json:"bbox"`
	Confidence float64     `json:"confidence"`
}

// TextLocator extracts text blocks from an image. An empty slice means no
// text was found; OCR failures degrade to "no text found" rather than errors
// so image handling can always continue.
type TextLocator interface {
	ExtractText(ctx context.Context, imageBytes []byte, contentType string) []TextBlock
}

// KeepText reports whether a detected line is worth keeping. Empty lines and
// lines shorter than two characters are dropped, except single characters in
// CJK scripts where one character is a meaningful word.
func KeepText(text string) bool {
	runes := []rune(text)
	if len(runes) == 0 {
		return false
	}
	if len(runes) == 1 {
		return isCJK(runes[0])
	}
	return true
}

// isCJK reports whether r falls in the Han, Hiragana, Katakana, or Hangul
// code-point ranges. Single non-CJK characters are almost always OCR noise.
func isCJK(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF: // CJK Unified Ideographs
		return true
	case r >= 0x3040 && r <= 0x309F: // Hiragana
		return true
	case r >= 0x30A0 && r <= 0x30FF: // Katakana
		return true
	case r >= 0xAC00 && r <= 0xD7AF: // Hangul Syllables
		return true
	}
	return false
}

// polygonToBBox converts a 4-point polygon, given as interleaved x/y
// coordinates, to an axis-aligned bounding box.
func polygonToBBox(coords []float64) (BoundingBox, bool) {
	if len(coords) < 8 {
		return BoundingBox{}, false
	}
	minX, maxX := coords[0], coords[0]
	minY, maxY := coords[1], coords[1]
	for i := 2; i+1 < len(coords); i += 2 {
		x, y := coords[i], coords[i+1]
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	return BoundingBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}
