package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Insular1s/document-translation-app/internal/logger"
)

const (
	// azureAPIVersion is the Translator Text API version in use.
	azureAPIVersion = "3.0"
	// DefaultAzureTimeout bounds a single standard-translation round trip.
	DefaultAzureTimeout = 30 * time.Second
)

// StandardResult is the per-item outcome of a standard translation call,
// including the auto-detected source language when none was declared.
type StandardResult struct {
	TranslatedText   string
	DetectedLanguage string
}

// StandardTranslator is the contract for the standard machine-translation
// backend. Batch calls return one result per input text, preserving order.
type StandardTranslator interface {
	Translate(ctx context.Context, text, targetLanguage, sourceLanguage string) (*StandardResult, error)
	BatchTranslate(ctx context.Context, texts []string, targetLanguage, sourceLanguage string) ([]StandardResult, error)
}

// AzureTranslator talks to the Azure Translator Text REST API.
type AzureTranslator struct {
	endpoint string
	key      string
	region   string
	client   *http.Client
	log      zerolog.Logger
}

// NewAzureTranslator creates a client for the Azure Translator service.
func NewAzureTranslator(endpoint, key, region string) *AzureTranslator {
	return &AzureTranslator{
		endpoint: strings.TrimRight(endpoint, "/"),
		key:      key,
		region:   region,
		client:   &http.Client{Timeout: DefaultAzureTimeout},
		log:      logger.WithComponent("azure-translator"),
	}
}

// azureRequestItem is one element of the translate request body.
type azureRequestItem struct {
	Text string `json:"text"`
}

// azureResponseItem is one element of the translate response body.
type azureResponseItem struct {
	DetectedLanguage struct {
		Language string  `json:"language"`
		Score    float64 `json:"score"`
	} `json:"detectedLanguage"`
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

// Translate translates a single text, auto-detecting the source language
// when sourceLanguage is empty.
func (a *AzureTranslator) Translate(ctx context.Context, text, targetLanguage, sourceLanguage string) (*StandardResult, error) {
	const op = "Translate"

	results, err := a.request(ctx, op, []string{text}, targetLanguage, sourceLanguage)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, WrapTranslationError(op, ErrNoTranslation, "empty response")
	}
	return &results[0], nil
}

// BatchTranslate translates several independent texts in one round trip.
func (a *AzureTranslator) BatchTranslate(ctx context.Context, texts []string, targetLanguage, sourceLanguage string) ([]StandardResult, error) {
	const op = "BatchTranslate"

	if len(texts) == 0 {
		return nil, nil
	}
	results, err := a.request(ctx, op, texts, targetLanguage, sourceLanguage)
	if err != nil {
		return nil, err
	}
	if len(results) != len(texts) {
		return nil, WrapTranslationError(op, ErrNoTranslation,
			fmt.Sprintf("expected %d results, got %d", len(texts), len(results)))
	}
	return results, nil
}

func (a *AzureTranslator) request(ctx context.Context, op string, texts []string, targetLanguage, sourceLanguage string) ([]StandardResult, error) {
	params := url.Values{}
	params.Set("api-version", azureAPIVersion)
	params.Set("to", targetLanguage)
	if sourceLanguage != "" {
		params.Set("from", sourceLanguage)
	}

	body := make([]azureRequestItem, len(texts))
	for i, t := range texts {
		body[i] = azureRequestItem{Text: t}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, WrapTranslationError(op, err, "failed to encode request body")
	}

	endpoint := a.endpoint + "/translate?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, WrapTranslationError(op, err, "failed to build request")
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", a.key)
	req.Header.Set("Ocp-Apim-Subscription-Region", a.region)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, WrapTranslationError(op, ErrRequestFailed, err.Error())
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			a.log.Warn().Err(closeErr).Msg("Failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, WrapTranslationError(op, ErrRequestFailed,
			fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data))))
	}

	var items []azureResponseItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, WrapTranslationError(op, err, "failed to decode response")
	}

	results := make([]StandardResult, 0, len(items))
	for _, item := range items {
		if len(item.Translations) == 0 {
			a.log.Error().Msg("No translations found in response for one of the texts")
			results = append(results, StandardResult{})
			continue
		}
		results = append(results, StandardResult{
			TranslatedText:   item.Translations[0].Text,
			DetectedLanguage: item.DetectedLanguage.Language,
		})
	}
	return results, nil
}
