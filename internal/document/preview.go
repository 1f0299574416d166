package document

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/Insular1s/document-translation-app/internal/logger"
	"github.com/Insular1s/document-translation-app/internal/overlay"
	"github.com/Insular1s/document-translation-app/internal/pptx"
)

// PreviewService renders slide preview images through a bounded cache. Cache
// keys include the document's modification time, so a re-translated or
// re-edited file naturally misses the stale entry.
type PreviewService struct {
	cache *PreviewCache
	log   zerolog.Logger
}

// NewPreviewService creates a preview service backed by cache.
func NewPreviewService(cache *PreviewCache) *PreviewService {
	return &PreviewService{
		cache: cache,
		log:   logger.WithComponent("preview"),
	}
}

// SlidePreview returns a PNG preview for the given slide (0-indexed).
func (s *PreviewService) SlidePreview(documentPath string, slideNumber int) ([]byte, error) {
	const op = "SlidePreview"

	info, err := os.Stat(documentPath)
	if err != nil {
		return nil, fmt.Errorf("preview: %s: %w", op, err)
	}

	doc, err := pptx.Open(documentPath)
	if err != nil {
		return nil, fmt.Errorf("preview: %s: %w", op, err)
	}
	if slideNumber < 0 || slideNumber >= len(doc.Slides()) {
		return nil, fmt.Errorf("preview: %s: invalid slide number %d", op, slideNumber)
	}

	key := fmt.Sprintf("%s_%d_%d", filepath.Base(documentPath), slideNumber, info.ModTime().Unix())
	if cached, ok := s.cache.Get(key); ok {
		s.log.Debug().Str("key", key).Msg("Serving cached preview")
		return cached, nil
	}

	rendered, err := overlay.Placeholder(slideNumber)
	if err != nil {
		return nil, fmt.Errorf("preview: %s: %w", op, err)
	}
	s.cache.Put(key, rendered)
	return rendered, nil
}
