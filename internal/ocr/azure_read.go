package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/Insular1s/document-translation-app/internal/logger"
)

const (
	// readAnalyzePath is the Azure Computer Vision Read API endpoint path.
	readAnalyzePath = "/vision/v3.2/read/analyze"

	// submitTimeout bounds the initial analyze submission.
	submitTimeout = 30 * time.Second
	// pollTimeout bounds a single status poll.
	pollTimeout = 10 * time.Second
	// maxPollAttempts caps the number of status polls per image.
	maxPollAttempts = 10
	// defaultPollInterval is the fixed delay between status polls.
	defaultPollInterval = time.Second
)

// metafileContentTypes lists vector-embedded metafile formats that must be
// converted to a raster format before OCR submission.
var metafileContentTypes = map[string]bool{
	"image/x-wmf": true,
	"image/x-emf": true,
	"image/wmf":   true,
	"image/emf":   true,
}

// AzureReadLocator implements TextLocator against the Azure Computer Vision
// Read API. Submission is asynchronous: the image is posted, then the
// returned operation is polled at fixed intervals until it succeeds, fails,
// or the attempt ceiling is reached.
type AzureReadLocator struct {
	endpoint     string
	key          string
	client       *http.Client
	pollClient   *http.Client
	pollInterval time.Duration
	log          zerolog.Logger
}

// NewAzureReadLocator creates a Read API text locator.
func NewAzureReadLocator(endpoint, key string) *AzureReadLocator {
	return &AzureReadLocator{
		endpoint:     strings.TrimRight(endpoint, "/"),
		key:          key,
		client:       &http.Client{Timeout: submitTimeout},
		pollClient:   &http.Client{Timeout: pollTimeout},
		pollInterval: defaultPollInterval,
		log:          logger.WithComponent("azure-read"),
	}
}

// readOperationResult mirrors the Read API operation status response.
type readOperationResult struct {
	Status        string `json:"status"`
	AnalyzeResult struct {
		ReadResults []struct {
			Lines []struct {
				Text        string    `json:"text"`
				BoundingBox []float64 `json:"boundingBox"`
				Appearance  struct {
					Style struct {
						Confidence float64 `json:"confidence"`
					} `json:"style"`
				} `json:"appearance"`
			} `json:"lines"`
		} `json:"readResults"`
	} `json:"analyzeResult"`
}

// ExtractText submits the image for OCR and returns the detected text blocks.
// Every failure mode degrades to an empty result: a missing configuration,
// an unconvertible metafile, a submission error, or a poll timeout all mean
// "no text found" to the caller.
func (a *AzureReadLocator) ExtractText(ctx context.Context, imageBytes []byte, contentType string) []TextBlock {
	const op = "ExtractText"

	if a.key == "" || a.endpoint == "" {
		a.log.Warn().Msg("Azure Vision credentials not configured, skipping OCR")
		return nil
	}

	if metafileContentTypes[contentType] {
		converted, err := convertToPNG(imageBytes)
		if err != nil {
			a.log.Error().Err(err).Str("content_type", contentType).Msg("Failed to convert metafile for OCR")
			return nil
		}
		imageBytes = converted
		contentType = "image/png"
	}

	operationURL, err := a.submit(ctx, imageBytes)
	if err != nil {
		a.log.Error().Err(WrapOCRError(op, err, "")).Msg("OCR submission failed")
		return nil
	}

	result, err := a.poll(ctx, operationURL)
	if err != nil {
		a.log.Warn().Err(err).Msg("OCR did not complete")
		return nil
	}

	blocks := parseReadResult(result)
	a.log.Info().Int("blocks", len(blocks)).Msg("Extracted text blocks from image")
	return blocks
}

func (a *AzureReadLocator) submit(ctx context.Context, imageBytes []byte) (string, error) {
	const op = "submit"

	url := a.endpoint + readAnalyzePath + "?model-version=latest"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(imageBytes))
	if err != nil {
		return "", WrapOCRError(op, err, "failed to build request")
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", a.key)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", WrapOCRError(op, ErrSubmitFailed, err.Error())
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", WrapOCRError(op, ErrSubmitFailed,
			fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data))))
	}

	operationURL := resp.Header.Get("Operation-Location")
	if operationURL == "" {
		return "", WrapOCRError(op, ErrSubmitFailed, "no Operation-Location in response")
	}
	return operationURL, nil
}

func (a *AzureReadLocator) poll(ctx context.Context, operationURL string) (*readOperationResult, error) {
	const op = "poll"

	for attempt := 0; attempt < maxPollAttempts; attempt++ {
		select {
		case <-time.After(a.pollInterval):
		case <-ctx.Done():
			return nil, WrapOCRError(op, ctx.Err(), "")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, operationURL, nil)
		if err != nil {
			return nil, WrapOCRError(op, err, "failed to build poll request")
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", a.key)

		resp, err := a.pollClient.Do(req)
		if err != nil {
			return nil, WrapOCRError(op, err, "poll request failed")
		}

		var result readOperationResult
		decodeErr := json.NewDecoder(resp.Body).Decode(&result)
		resp.Body.Close() //nolint:errcheck
		if decodeErr != nil {
			return nil, WrapOCRError(op, decodeErr, "failed to decode poll response")
		}

		switch result.Status {
		case "succeeded":
			return &result, nil
		case "failed":
			return nil, WrapOCRError(op, ErrOperationFailed, "")
		}
		// "notStarted" or "running": keep polling.
	}

	return nil, WrapOCRError(op, ErrPollTimeout, fmt.Sprintf("after %d attempts", maxPollAttempts))
}

// parseReadResult flattens the Read API response into filtered text blocks.
// Drawing order downstream is the OCR-reported order kept here.
func parseReadResult(result *readOperationResult) []TextBlock {
	var blocks []TextBlock
	for _, page := range result.AnalyzeResult.ReadResults {
		for _, line := range page.Lines {
			text := strings.TrimSpace(line.Text)
			if !KeepText(text) {
				continue
			}
			bbox, ok := polygonToBBox(line.BoundingBox)
			if !ok {
				continue
			}
			confidence := line.Appearance.Style.Confidence
			if confidence == 0 {
				confidence = 1.0
			}
			blocks = append(blocks, TextBlock{
				Text:       text,
				BBox:       bbox,
				Confidence: confidence,
			})
		}
	}
	return blocks
}

// convertToPNG re-encodes image data as PNG for backends that reject the
// original container format.
func convertToPNG(imageBytes []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, WrapOCRError("convertToPNG", ErrUnsupportedFormat, err.Error())
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, WrapOCRError("convertToPNG", err, "failed to encode PNG")
	}
	return buf.Bytes(), nil
}
