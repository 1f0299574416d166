package ocr

import (
	"context"
	"os"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/Insular1s/document-translation-app/internal/logger"
)

// GoogleVisionLocator implements TextLocator using Google Cloud Vision
// document text detection. It is an alternative to the Azure Read backend
// for deployments on Google Cloud credentials; Vision detection is
// synchronous, so there is no poll loop.
type GoogleVisionLocator struct {
	client *vision.ImageAnnotatorClient
	log    zerolog.Logger
}

// NewGoogleVisionLocator creates a Vision-based text locator with credentials
// from the environment. It expects either GOOGLE_APPLICATION_CREDENTIALS path
// or GOOGLE_CREDENTIALS JSON in env, falling back to application default
// credentials.
func NewGoogleVisionLocator(ctx context.Context) (*GoogleVisionLocator, error) {
	const op = "NewGoogleVisionLocator"

	var client *vision.ImageAnnotatorClient
	var err error

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, WrapOCRError(op, err, "failed to create client with GOOGLE_CREDENTIALS")
		}
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credFile))
		if err != nil {
			return nil, WrapOCRError(op, err, "failed to create client with GOOGLE_APPLICATION_CREDENTIALS")
		}
	} else {
		client, err = vision.NewImageAnnotatorClient(ctx)
		if err != nil {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
	}

	return &GoogleVisionLocator{
		client: client,
		log:    logger.WithComponent("google-vision"),
	}, nil
}

// ExtractText runs document text detection and returns the detected blocks.
// Failures degrade to an empty result, matching the TextLocator contract.
func (g *GoogleVisionLocator) ExtractText(ctx context.Context, imageBytes []byte, contentType string) []TextBlock {
	const op = "ExtractText"

	if metafileContentTypes[contentType] {
		converted, err := convertToPNG(imageBytes)
		if err != nil {
			g.log.Error().Err(err).Str("content_type", contentType).Msg("Failed to convert metafile for OCR")
			return nil
		}
		imageBytes = converted
	}

	// Prepare the request
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{
					Content: imageBytes,
				},
				Features: []*visionpb.Feature{
					{
						Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION,
					},
				},
			},
		},
	}

	resp, err := g.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		g.log.Error().Err(WrapOCRError(op, err, "Vision API call failed")).Msg("OCR failed")
		return nil
	}
	if len(resp.Responses) == 0 {
		g.log.Warn().Msg("No response from Vision API")
		return nil
	}

	imageResp := resp.Responses[0]
	if imageResp.Error != nil {
		g.log.Error().Err(WrapOCRError(op, ErrOperationFailed, imageResp.Error.Message)).Msg("OCR failed")
		return nil
	}
	if imageResp.FullTextAnnotation == nil {
		return nil
	}

	blocks := parseDocumentText(imageResp.FullTextAnnotation)
	g.log.Info().Int("blocks", len(blocks)).Msg("Extracted text blocks from image")
	return blocks
}

// parseDocumentText flattens a Vision full-text annotation into per-paragraph
// text blocks, applying the same noise filter as the Read backend.
func parseDocumentText(annotation *visionpb.TextAnnotation) []TextBlock {
	var blocks []TextBlock
	for _, page := range annotation.Pages {
		for _, block := range page.Blocks {
			for _, paragraph := range block.Paragraphs {
				text := strings.TrimSpace(paragraphText(paragraph))
				if !KeepText(text) {
					continue
				}
				bbox, ok := verticesToBBox(paragraph.BoundingBox)
				if !ok {
					continue
				}
				blocks = append(blocks, TextBlock{
					Text:       text,
					BBox:       bbox,
					Confidence: float64(paragraph.Confidence),
				})
			}
		}
	}
	return blocks
}

func paragraphText(paragraph *visionpb.Paragraph) string {
	var b strings.Builder
	for _, word := range paragraph.Words {
		for _, symbol := range word.Symbols {
			b.WriteString(symbol.Text)
			if brk := symbolBreak(symbol); brk != "" {
				b.WriteString(brk)
			}
		}
	}
	return b.String()
}

func symbolBreak(symbol *visionpb.Symbol) string {
	if symbol.Property == nil || symbol.Property.DetectedBreak == nil {
		return ""
	}
	switch symbol.Property.DetectedBreak.Type {
	case visionpb.TextAnnotation_DetectedBreak_SPACE,
		visionpb.TextAnnotation_DetectedBreak_SURE_SPACE:
		return " "
	case visionpb.TextAnnotation_DetectedBreak_LINE_BREAK,
		visionpb.TextAnnotation_DetectedBreak_EOL_SURE_SPACE:
		return "\n"
	}
	return ""
}

func verticesToBBox(poly *visionpb.BoundingPoly) (BoundingBox, bool) {
	if poly == nil || len(poly.Vertices) < 4 {
		return BoundingBox{}, false
	}
	coords := make([]float64, 0, len(poly.Vertices)*2)
	for _, v := range poly.Vertices {
		coords = append(coords, float64(v.X), float64(v.Y))
	}
	return polygonToBBox(coords)
}

// Close closes the underlying Vision client.
func (g *GoogleVisionLocator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
