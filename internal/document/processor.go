// Package document walks a presentation's shape tree, translating text
// frames, table cells, and embedded images in place.
//
// The processor is the orchestrator: it owns one document at a time and
// routes every discovered text unit through the translation processor,
// committing results via format-preserving replacement. Shapes are visited
// strictly sequentially; independent documents may be processed concurrently
// by independent processor instances.
package document

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Insular1s/document-translation-app/internal/logger"
	"github.com/Insular1s/document-translation-app/internal/overlay"
	"github.com/Insular1s/document-translation-app/internal/pptx"
	"github.com/Insular1s/document-translation-app/internal/translation"
)

// Stats are the per-run counters of one document walk. Partial success is
// reported as populated stats even when some shapes failed.
type Stats struct {
	Filename             string `json:"filename"`
	SlidesProcessed      int    `json:"slides_processed"`
	TextFramesTranslated int    `json:"text_frames_translated"`
	TablesTranslated     int    `json:"tables_translated"`
	ImagesTranslated     int    `json:"images_translated"`
	ShapeFailures        int    `json:"shape_failures"`
	SourceLanguage       string `json:"source_language,omitempty"`
	TargetLanguage       string `json:"target_language"`
	Method               string `json:"method"`
}

// Options control one processing run.
type Options struct {
	TargetLanguage     string
	SourceLanguage     string
	UseLLM             bool
	Model              string
	PreserveFormatting bool
}

// Processor walks presentations and translates their content.
type Processor struct {
	translator      *translation.Processor
	renderer        *overlay.Renderer
	translateImages bool
	log             zerolog.Logger
}

// NewProcessor creates a document processor. renderer may be nil; image
// translation is only active when a renderer is present and enabled.
func NewProcessor(translator *translation.Processor, renderer *overlay.Renderer, translateImages bool) *Processor {
	return &Processor{
		translator:      translator,
		renderer:        renderer,
		translateImages: translateImages && renderer != nil,
		log:             logger.WithComponent("document-processor"),
	}
}

// Process translates inputPath into outputPath and persists the original-text
// ledger next to the output. Unrecoverable document errors abort the whole
// run with no output written; failures local to one shape are isolated,
// counted, and processing continues.
func (p *Processor) Process(ctx context.Context, inputPath, outputPath string, opts Options) (*Stats, error) {
	const op = "Process"

	log := p.log.With().Str("document", filepath.Base(inputPath)).Logger()
	log.Info().Str("target", opts.TargetLanguage).Msg("Processing presentation")

	stats := &Stats{
		Filename:       filepath.Base(inputPath),
		SourceLanguage: opts.SourceLanguage,
		TargetLanguage: opts.TargetLanguage,
		Method:         translation.MethodAzure,
	}
	if opts.UseLLM {
		stats.Method = translation.MethodLLM
	}

	doc, err := pptx.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("document: %s: %w", op, err)
	}

	ledger := NewLedger()
	slides := doc.Slides()
	for slideIdx, slide := range slides {
		log.Info().Int("slide", slideIdx+1).Int("total", len(slides)).Msg("Processing slide")

		// Replacing an image mutates the slide's underlying structure, so
		// the shape list is frozen once per slide before any mutation.
		snapshot := slide.Shapes()
		seenImages := make(map[string]bool)
		for shapeIdx, shape := range snapshot {
			id := fmt.Sprintf("slide_%d_shape_%d", slideIdx, shapeIdx)
			p.processShape(ctx, shape, id, seenImages, ledger, stats, opts, log)
		}
		stats.SlidesProcessed++
	}

	if err := doc.Save(outputPath); err != nil {
		return nil, fmt.Errorf("document: %s: %w", op, err)
	}
	if err := ledger.Save(LedgerPath(outputPath)); err != nil {
		return nil, fmt.Errorf("document: %s: %w", op, err)
	}

	log.Info().
		Int("text_frames", stats.TextFramesTranslated).
		Int("tables", stats.TablesTranslated).
		Int("images", stats.ImagesTranslated).
		Int("failures", stats.ShapeFailures).
		Str("output", outputPath).
		Msg("Translated presentation saved")
	return stats, nil
}

// processShape dispatches one shape, first match wins: group recursion,
// picture overlay, text frame, table. Failures are confined to the shape.
func (p *Processor) processShape(ctx context.Context, shape *pptx.Shape, id string, seenImages map[string]bool, ledger *Ledger, stats *Stats, opts Options, log zerolog.Logger) {
	switch {
	case shape.IsGroup():
		// The group itself is never treated as text or image; only its
		// members are, each with an extended identifier.
		for nestedIdx, nested := range shape.GroupShapes() {
			p.processShape(ctx, nested, fmt.Sprintf("%s_group_%d", id, nestedIdx), seenImages, ledger, stats, opts, log)
		}

	case shape.IsPicture() && p.translateImages:
		// A picture is excluded from text handling even when it also
		// exposes a text frame, whether or not the overlay succeeds.
		if err := p.processPicture(ctx, shape, seenImages, stats, opts); err != nil {
			log.Error().Err(err).Str("shape", id).Msg("Image translation failed, continuing")
			stats.ShapeFailures++
		}

	case shape.HasTextFrame():
		if err := p.processTextFrame(ctx, shape.TextFrame(), id, ledger, stats, opts); err != nil {
			log.Error().Err(err).Str("shape", id).Msg("Text frame translation failed, continuing")
			stats.ShapeFailures++
		}

	case shape.HasTable():
		if err := p.processTable(ctx, shape.Table(), stats, opts); err != nil {
			log.Error().Err(err).Str("shape", id).Msg("Table translation failed, continuing")
			stats.ShapeFailures++
		}
	}
}

func (p *Processor) processPicture(ctx context.Context, shape *pptx.Shape, seenImages map[string]bool, stats *Stats, opts Options) error {
	imageBytes, contentType, err := shape.ImageBytes()
	if err != nil {
		return err
	}

	// The same embedded image is often referenced by several shapes on a
	// slide; translate it at most once.
	sum := sha256.Sum256(imageBytes)
	hash := hex.EncodeToString(sum[:])
	if seenImages[hash] {
		p.log.Debug().Str("hash", hash[:12]).Msg("Duplicate image on slide, skipping")
		return nil
	}
	seenImages[hash] = true

	translated, err := p.renderer.Translate(ctx, imageBytes, contentType, p.translator, overlay.Options{
		TargetLanguage: opts.TargetLanguage,
		SourceLanguage: opts.SourceLanguage,
		ForceLLM:       opts.UseLLM,
		Model:          opts.Model,
	})
	if err != nil {
		return err
	}
	if translated == nil {
		// Nothing needed rewriting; the picture stays byte for byte.
		return nil
	}

	if err := shape.ReplaceImage(translated, overlay.OutputContentType(contentType)); err != nil {
		return err
	}
	stats.ImagesTranslated++
	return nil
}

func (p *Processor) processTextFrame(ctx context.Context, frame *pptx.TextFrame, id string, ledger *Ledger, stats *Stats, opts Options) error {
	originalText := strings.TrimSpace(frame.Text())
	if originalText == "" {
		return nil
	}

	// The original is recorded before translation is attempted so edits can
	// be re-applied against it later.
	ledger.Record(id, originalText)

	result := p.translator.Translate(ctx, translation.Request{
		Text:           originalText,
		TargetLanguage: opts.TargetLanguage,
		SourceLanguage: opts.SourceLanguage,
		ForceLLM:       opts.UseLLM,
		Model:          opts.Model,
	})
	if !result.Success || result.Translation == "" {
		if result.Error != "" {
			return fmt.Errorf("translate %q: %s", truncateForLog(originalText), result.Error)
		}
		return nil
	}

	if opts.PreserveFormatting {
		frame.SetTextPreserveFormat(result.Translation)
	} else {
		frame.SetText(result.Translation)
	}
	stats.TextFramesTranslated++
	return nil
}

func (p *Processor) processTable(ctx context.Context, table *pptx.Table, stats *Stats, opts Options) error {
	translatedAny := false
	for _, row := range table.Rows() {
		for _, cell := range row.Cells() {
			frame := cell.TextFrame()
			if frame == nil {
				continue
			}
			cellText := strings.TrimSpace(frame.Text())
			if cellText == "" {
				continue
			}

			result := p.translator.Translate(ctx, translation.Request{
				Text:           cellText,
				TargetLanguage: opts.TargetLanguage,
				SourceLanguage: opts.SourceLanguage,
				ForceLLM:       opts.UseLLM,
				Model:          opts.Model,
			})
			if !result.Success || result.Translation == "" {
				continue
			}
			// Table cells get plain text; per-run formatting is only
			// preserved for text frames.
			frame.SetText(result.Translation)
			translatedAny = true
		}
	}
	if translatedAny {
		stats.TablesTranslated++
	}
	return nil
}

func truncateForLog(s string) string {
	runes := []rune(s)
	if len(runes) > 50 {
		return string(runes[:50]) + "..."
	}
	return s
}
