package document

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Insular1s/document-translation-app/internal/logger"
	"github.com/Insular1s/document-translation-app/internal/pptx"
)

// Edit is one user edit to apply back onto a translated document.
type Edit struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// TextFrameContent is one editable text frame with its stable identifier.
type TextFrameContent struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// SlideContent groups the text frames of one slide.
type SlideContent struct {
	SlideNumber int                `json:"slide_number"` // 1-indexed
	TextFrames  []TextFrameContent `json:"text_frames"`
}

// Content is the full editable view of a document.
type Content struct {
	Filename    string         `json:"filename"`
	TotalSlides int            `json:"total_slides"`
	Slides      []SlideContent `json:"slides"`
}

// Editor applies user edits back onto previously translated documents and
// extracts their editable content. Identifiers use the exact
// slide/shape/group derivation of the processing walk, so edits round-trip.
type Editor struct {
	cache *PreviewCache
	log   zerolog.Logger
}

// NewEditor creates an editor. cache may be nil when no preview cache is in
// use.
func NewEditor(cache *PreviewCache) *Editor {
	return &Editor{
		cache: cache,
		log:   logger.WithComponent("editor"),
	}
}

// ApplyEdits overwrites the text of every shape whose identifier appears in
// edits, saving the document in place. Formatting is whatever the previous
// translation pass left after clearing; the edit payload carries text only.
// Cached previews for the document are invalidated.
func (e *Editor) ApplyEdits(documentPath string, edits []Edit) error {
	const op = "ApplyEdits"

	if len(edits) == 0 {
		return fmt.Errorf("editor: %s: no edits provided", op)
	}

	doc, err := pptx.Open(documentPath)
	if err != nil {
		return fmt.Errorf("editor: %s: %w", op, err)
	}

	editsByID := make(map[string]string, len(edits))
	for _, edit := range edits {
		editsByID[edit.ID] = edit.Text
	}

	applied := 0
	for slideIdx, slide := range doc.Slides() {
		for shapeIdx, shape := range slide.Shapes() {
			id := fmt.Sprintf("slide_%d_shape_%d", slideIdx, shapeIdx)
			applied += applyToShape(shape, id, editsByID)
		}
	}

	if err := doc.Save(documentPath); err != nil {
		return fmt.Errorf("editor: %s: %w", op, err)
	}

	if e.cache != nil {
		e.cache.InvalidatePrefix(filepath.Base(documentPath) + "_")
	}

	e.log.Info().
		Int("edits", len(edits)).
		Int("applied", applied).
		Str("document", filepath.Base(documentPath)).
		Msg("Document updated with edits")
	return nil
}

func applyToShape(shape *pptx.Shape, id string, editsByID map[string]string) int {
	applied := 0
	if shape.IsGroup() {
		for nestedIdx, nested := range shape.GroupShapes() {
			applied += applyToShape(nested, fmt.Sprintf("%s_group_%d", id, nestedIdx), editsByID)
		}
		return applied
	}
	if !shape.HasTextFrame() {
		return 0
	}
	if newText, ok := editsByID[id]; ok {
		shape.TextFrame().SetText(newText)
		applied++
	}
	return applied
}

// ExtractContent returns every text frame of the document keyed by its
// stable identifier, for editing.
func (e *Editor) ExtractContent(documentPath string) (*Content, error) {
	const op = "ExtractContent"

	doc, err := pptx.Open(documentPath)
	if err != nil {
		return nil, fmt.Errorf("editor: %s: %w", op, err)
	}

	content := &Content{
		Filename:    filepath.Base(documentPath),
		TotalSlides: len(doc.Slides()),
	}
	for slideIdx, slide := range doc.Slides() {
		var frames []TextFrameContent
		for shapeIdx, shape := range slide.Shapes() {
			id := fmt.Sprintf("slide_%d_shape_%d", slideIdx, shapeIdx)
			frames = append(frames, collectFrames(shape, id)...)
		}
		if len(frames) > 0 {
			content.Slides = append(content.Slides, SlideContent{
				SlideNumber: slideIdx + 1,
				TextFrames:  frames,
			})
		}
	}
	return content, nil
}

func collectFrames(shape *pptx.Shape, id string) []TextFrameContent {
	if shape.IsGroup() {
		var frames []TextFrameContent
		for nestedIdx, nested := range shape.GroupShapes() {
			frames = append(frames, collectFrames(nested, fmt.Sprintf("%s_group_%d", id, nestedIdx))...)
		}
		return frames
	}
	if !shape.HasTextFrame() {
		return nil
	}
	text := shape.TextFrame().Text()
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return []TextFrameContent{{ID: id, Text: text}}
}
