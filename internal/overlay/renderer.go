// Package overlay rewrites in-image text: it locates text blocks through an
// OCR backend, translates each block, and draws the translation over the
// original glyphs with colors sampled from the surrounding pixels.
//
// The renderer never inpaints; it covers the original text with a solid
// rectangle in the sampled background color. Overlapping OCR boxes are drawn
// independently in OCR-reported order.
package overlay

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/Insular1s/document-translation-app/internal/logger"
	"github.com/Insular1s/document-translation-app/internal/ocr"
	"github.com/Insular1s/document-translation-app/internal/translation"
)

const (
	// boxPadding extends the cover rectangle past the OCR box on every side.
	boxPadding = 5
	// defaultPacing is the courtesy delay between per-block translation calls.
	defaultPacing = 100 * time.Millisecond
	// maxGrowthFactor rejects translations disproportionately longer than the
	// source, which usually means OCR noise confused the backend.
	maxGrowthFactor = 5
)

// refusalPhrases flags LLM output that is an apology or clarification request
// rather than a translation. OCR noise fed into a chat model produces these.
var refusalPhrases = []string{
	"I don't see any",
	"I don't see",
	"Please share",
	"Please provide",
	"provided to translate",
	"following your instructions",
	"following your specified",
}

// Renderer translates text inside images.
type Renderer struct {
	locator ocr.TextLocator
	pacing  time.Duration
	log     zerolog.Logger
}

// NewRenderer creates an image text overlay renderer.
func NewRenderer(locator ocr.TextLocator) *Renderer {
	return &Renderer{
		locator: locator,
		pacing:  defaultPacing,
		log:     logger.WithComponent("image-overlay"),
	}
}

// Options carries per-call translation parameters.
type Options struct {
	TargetLanguage string
	SourceLanguage string
	ForceLLM       bool
	Model          string
}

// translatedBlock pairs an OCR block with its accepted translation.
type translatedBlock struct {
	original   string
	translated string
	bbox       ocr.BoundingBox
}

// Translate rewrites the text in an image. It returns nil bytes when nothing
// needed rewriting, signalling the caller to leave the image untouched.
func (r *Renderer) Translate(ctx context.Context, imageBytes []byte, contentType string, processor *translation.Processor, opts Options) ([]byte, error) {
	const op = "Translate"

	blocks := r.locator.ExtractText(ctx, imageBytes, contentType)
	if len(blocks) == 0 {
		r.log.Info().Msg("No text found in image, returning original")
		return nil, nil
	}

	accepted := r.translateBlocks(ctx, blocks, processor, opts)
	if len(accepted) == 0 {
		r.log.Info().Msg("All text already in target language, no image modification needed")
		return nil, nil
	}

	img, err := imaging.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("overlay: %s: failed to decode image: %w", op, err)
	}

	canvas := imaging.Clone(img)
	for _, block := range accepted {
		r.drawBlock(canvas, block)
	}
	r.log.Info().Int("blocks", len(accepted)).Msg("Drew translated text blocks on image")

	return encodeMirroringInput(canvas, contentType)
}

// translateBlocks routes each OCR block through the translation processor and
// filters out blocks that must not be drawn.
func (r *Renderer) translateBlocks(ctx context.Context, blocks []ocr.TextBlock, processor *translation.Processor, opts Options) []translatedBlock {
	var accepted []translatedBlock
	for i, block := range blocks {
		if i > 0 && r.pacing > 0 {
			// Courtesy delay so per-block calls do not hammer the backend.
			time.Sleep(r.pacing)
		}

		result := processor.Translate(ctx, translation.Request{
			Text:           block.Text,
			TargetLanguage: opts.TargetLanguage,
			SourceLanguage: opts.SourceLanguage,
			ForceLLM:       opts.ForceLLM,
			Model:          opts.Model,
		})

		if !result.Success {
			r.log.Warn().
				Str("text", truncate(block.Text, 50)).
				Str("error", result.Error).
				Msg("Translation failed for image block, skipping")
			continue
		}
		if result.Skipped() {
			r.log.Debug().Str("text", truncate(block.Text, 50)).Msg("Text already in target language")
			continue
		}
		if looksLikeRefusal(result.Translation) {
			r.log.Warn().
				Str("translation", truncate(result.Translation, 100)).
				Msg("Skipping translation that looks like an error message")
			continue
		}
		originalLen := len([]rune(block.Text))
		translatedLen := len([]rune(result.Translation))
		if translatedLen > originalLen*maxGrowthFactor {
			r.log.Warn().
				Int("original_len", originalLen).
				Int("translated_len", translatedLen).
				Msg("Skipping translation that's too long compared to original")
			continue
		}

		accepted = append(accepted, translatedBlock{
			original:   block.Text,
			translated: result.Translation,
			bbox:       block.BBox,
		})
		r.log.Info().
			Str("original", truncate(block.Text, 50)).
			Str("translated", truncate(result.Translation, 50)).
			Msg("Translated in image")
	}
	return accepted
}

// drawBlock covers the original glyphs with the sampled background color and
// draws the translated text on top.
func (r *Renderer) drawBlock(canvas *image.NRGBA, block translatedBlock) {
	rect := image.Rect(
		int(block.bbox.X),
		int(block.bbox.Y),
		int(block.bbox.X+block.bbox.Width),
		int(block.bbox.Y+block.bbox.Height),
	)

	background := modalColor(canvas, rect)
	textColor := pickTextColor(canvas, rect, background)

	padded := image.Rect(
		rect.Min.X-boxPadding, rect.Min.Y-boxPadding,
		rect.Max.X+boxPadding, rect.Max.Y+boxPadding,
	).Intersect(canvas.Bounds())
	draw.Draw(canvas, padded, image.NewUniform(background), image.Point{}, draw.Src)

	size := fitFontSize(block.translated, block.bbox.Width, block.bbox.Height)
	face, err := newFace(size)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to create font face, skipping block")
		return
	}
	defer face.Close() //nolint:errcheck

	drawText(canvas, face, block.translated, rect.Min.X, rect.Min.Y, textColor)
}

// drawText renders text with its top-left corner at (x, y).
func drawText(dst draw.Image, face font.Face, text string, x, y int, c color.NRGBA) {
	metrics := face.Metrics()
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+metrics.Ascent.Ceil()),
	}
	drawer.DrawString(text)
}

// encodeMirroringInput encodes the canvas in the input's format when it was
// JPEG or PNG, defaulting to PNG otherwise. JPEG has no alpha channel, so any
// transparency is flattened onto white first.
func encodeMirroringInput(canvas *image.NRGBA, contentType string) ([]byte, error) {
	var buf bytes.Buffer
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		flat := imaging.New(canvas.Bounds().Dx(), canvas.Bounds().Dy(), color.White)
		flat = imaging.Overlay(flat, canvas, image.Point{}, 1.0)
		if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(92)); err != nil {
			return nil, fmt.Errorf("overlay: failed to encode JPEG: %w", err)
		}
	default:
		if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
			return nil, fmt.Errorf("overlay: failed to encode PNG: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// OutputContentType reports the content type Translate encodes for a given
// input content type, mirroring JPEG and PNG and defaulting to PNG otherwise.
func OutputContentType(inputContentType string) string {
	switch strings.ToLower(inputContentType) {
	case "image/jpeg", "image/jpg":
		return "image/jpeg"
	default:
		return "image/png"
	}
}

func looksLikeRefusal(text string) bool {
	for _, phrase := range refusalPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
