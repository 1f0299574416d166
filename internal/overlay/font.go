package overlay

import (
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const (
	minFontSize = 10
	maxFontSize = 50
)

// fontPaths are tried in order before falling back to the embedded default
// face.
var fontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/Library/Fonts/Arial.ttf",
	"C:\\Windows\\Fonts\\arial.ttf",
}

var (
	fontOnce   sync.Once
	loadedFont *opentype.Font
)

// loadFont resolves a usable font, falling back to the embedded Go Regular
// face when no system font is found. Parsing happens once per process.
func loadFont() *opentype.Font {
	fontOnce.Do(func() {
		for _, path := range fontPaths {
			data, err := os.ReadFile(path) //nolint:gosec // fixed face path list
			if err != nil {
				continue
			}
			if f, parseErr := opentype.Parse(data); parseErr == nil {
				loadedFont = f
				return
			}
		}
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			// goregular is embedded and known-good; a parse failure here
			// means a corrupted toolchain.
			panic(err)
		}
		loadedFont = f
	})
	return loadedFont
}

// newFace creates a font face at the given pixel size.
func newFace(size float64) (font.Face, error) {
	return opentype.NewFace(loadFont(), &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// fitFontSize computes a font size for text constrained to a bounding box:
// clamp(min(boxWidth/len(text) * 1.5, boxHeight * 0.8), 10, 50).
func fitFontSize(text string, boxWidth, boxHeight float64) float64 {
	runes := len([]rune(text))
	if runes == 0 {
		return minFontSize
	}
	size := boxWidth / float64(runes) * 1.5
	if h := boxHeight * 0.8; h < size {
		size = h
	}
	if size < minFontSize {
		return minFontSize
	}
	if size > maxFontSize {
		return maxFontSize
	}
	return size
}
