// Package translation routes text through the standard Azure Translator
// backend with optional LLM enhancement via OpenRouter.
//
// The Processor is the only component that talks to translation backends.
// Every call issues a standard translation first (which also yields language
// auto-detection), skips text already in the target language, optionally
// escalates to the enhancement backend, and wraps the whole operation in
// retries with exponential backoff. Failures never propagate as errors to
// callers: a failed Result carries the original text as a fail-safe
// passthrough.
package translation

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Insular1s/document-translation-app/internal/logger"
)

// DefaultRetryAttempts is the ceiling on full translation attempts.
const DefaultRetryAttempts = 3

// DefaultRetryDelay is the base backoff delay; attempt n waits delay * 2^n.
const DefaultRetryDelay = time.Second

// Request carries the parameters for a single translation.
type Request struct {
	Text           string
	TargetLanguage string
	SourceLanguage string // optional, auto-detected when empty
	Context        string // optional free-text context for the LLM
	ForceLLM       bool   // escalate to the LLM even if enhancement is disabled
	Model          string // optional LLM model override
}

// Processor combines the standard translator with the optional enhancement
// backend. Enhancement availability is computed once at construction.
type Processor struct {
	standard       StandardTranslator
	enhancer       Enhancer
	useEnhancement bool
	attempts       int
	retryDelay     time.Duration
	log            zerolog.Logger
}

// Option customises a Processor.
type Option func(*Processor)

// WithRetry overrides the retry attempt ceiling and base backoff delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(p *Processor) {
		if attempts > 0 {
			p.attempts = attempts
		}
		p.retryDelay = delay
	}
}

// NewProcessor creates a translation processor. enhancer may be nil;
// enhancement is only active when a backend is present and enabled.
func NewProcessor(standard StandardTranslator, enhancer Enhancer, useEnhancement bool, opts ...Option) *Processor {
	p := &Processor{
		standard:       standard,
		enhancer:       enhancer,
		useEnhancement: useEnhancement && enhancer != nil,
		attempts:       DefaultRetryAttempts,
		retryDelay:     DefaultRetryDelay,
		log:            logger.WithComponent("translation-processor"),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log.Info().Bool("llm_enhancement", p.useEnhancement).Msg("Translation processor initialized")
	return p
}

// Translate translates a single text. The returned Result is never nil and
// never carries an empty Translation for non-empty input: on failure the
// original text is passed through with Success=false.
func (p *Processor) Translate(ctx context.Context, req Request) *Result {
	if strings.TrimSpace(req.Text) == "" {
		return &Result{
			Success:        false,
			Translation:    req.Text,
			TargetLanguage: req.TargetLanguage,
			Method:         MethodFailed,
			Error:          ErrEmptyText.Error(),
		}
	}

	var lastErr error
	for attempt := 0; attempt < p.attempts; attempt++ {
		if attempt > 0 {
			delay := p.retryDelay * (1 << uint(attempt))
			p.log.Warn().
				Err(lastErr).
				Int("attempt", attempt+1).
				Dur("delay", delay).
				Msg("Retrying translation")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return p.failed(req, ctx.Err())
			}
		}

		result, err := p.translateOnce(ctx, req)
		if err != nil {
			lastErr = err
			continue
		}
		return result
	}

	p.log.Error().Err(lastErr).Str("target", req.TargetLanguage).Msg("Translation failed after all retries")
	return p.failed(req, lastErr)
}

func (p *Processor) failed(req Request, err error) *Result {
	msg := "translation failed"
	if err != nil {
		msg = err.Error()
	}
	return &Result{
		Success:        false,
		Translation:    req.Text,
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
		Method:         MethodFailed,
		Error:          msg,
	}
}

// translateOnce performs one full attempt: standard call, skip check, and
// optional enhancement escalation.
func (p *Processor) translateOnce(ctx context.Context, req Request) (*Result, error) {
	azureResult, err := p.standard.Translate(ctx, req.Text, req.TargetLanguage, req.SourceLanguage)
	if err != nil {
		return nil, err
	}

	detected := azureResult.DetectedLanguage
	if detected == "" {
		detected = req.SourceLanguage
	}

	// Text already in the target language is returned verbatim so the caller
	// leaves the original formatting and content untouched.
	if SameLanguage(detected, req.TargetLanguage) {
		p.log.Debug().
			Str("language", detected).
			Msg("Source language matches target, skipping translation")
		return &Result{
			Success:        true,
			Translation:    req.Text,
			SourceLanguage: detected,
			TargetLanguage: req.TargetLanguage,
			Method:         MethodSkipped,
		}, nil
	}

	if (p.useEnhancement || req.ForceLLM) && p.enhancer != nil {
		enhanced, llmErr := p.enhancer.TranslateWithContext(ctx, req.Text, req.TargetLanguage, detected, req.Context, req.Model)
		if llmErr == nil {
			return &Result{
				Success:          true,
				Translation:      enhanced,
				SourceLanguage:   detected,
				TargetLanguage:   req.TargetLanguage,
				Method:           MethodLLM,
				AzureTranslation: azureResult.TranslatedText,
			}, nil
		}
		// Enhancement is best effort: fall back to the standard translation.
		p.log.Warn().Err(llmErr).Msg("LLM enhancement failed, falling back to Azure translation")
	}

	return &Result{
		Success:        true,
		Translation:    azureResult.TranslatedText,
		SourceLanguage: detected,
		TargetLanguage: req.TargetLanguage,
		Method:         MethodAzure,
	}, nil
}

// BatchTranslate translates several independent texts in one backend round
// trip. Batch calls intentionally keep single-round-trip semantics: there is
// no per-item skip detection or retry wrapping at this level.
func (p *Processor) BatchTranslate(ctx context.Context, texts []string, targetLanguage, sourceLanguage string) ([]Result, error) {
	const op = "BatchTranslate"

	azureResults, err := p.standard.BatchTranslate(ctx, texts, targetLanguage, sourceLanguage)
	if err != nil {
		return nil, WrapTranslationError(op, err, "")
	}

	results := make([]Result, len(azureResults))
	for i, r := range azureResults {
		results[i] = Result{
			Success:        true,
			Translation:    r.TranslatedText,
			SourceLanguage: r.DetectedLanguage,
			TargetLanguage: targetLanguage,
			Method:         MethodAzure,
		}
	}
	return results, nil
}

// Improve refines an existing translation through the enhancement backend.
// When no backend is configured the current translation is returned unchanged
// with an explanatory error.
func (p *Processor) Improve(ctx context.Context, originalText, currentTranslation, targetLanguage, feedback, model string) *Result {
	if p.enhancer == nil {
		return &Result{
			Success:        false,
			Translation:    currentTranslation,
			TargetLanguage: targetLanguage,
			Method:         MethodFailed,
			Error:          ErrBackendUnavailable.Error(),
		}
	}

	improved, err := p.enhancer.ImproveTranslation(ctx, originalText, currentTranslation, targetLanguage, feedback, model)
	if err != nil {
		p.log.Error().Err(err).Msg("Translation improvement failed")
		return &Result{
			Success:        false,
			Translation:    currentTranslation,
			TargetLanguage: targetLanguage,
			Method:         MethodFailed,
			Error:          err.Error(),
		}
	}

	return &Result{
		Success:        true,
		Translation:    improved,
		TargetLanguage: targetLanguage,
		Method:         MethodLLM,
	}
}
