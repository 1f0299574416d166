package translation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/Insular1s/document-translation-app/internal/logger"
)

const (
	// DefaultLLMModel is used when the caller does not request a specific model.
	DefaultLLMModel = "anthropic/claude-3.5-sonnet"
	// DefaultEnhancementTimeout bounds a single LLM round trip.
	DefaultEnhancementTimeout = 60 * time.Second

	llmTemperature = 0.3
	llmMaxTokens   = 2000
)

// Enhancer is the contract for the context-aware LLM translation backend.
type Enhancer interface {
	// TranslateWithContext translates text with optional source language and
	// free-text context for better quality.
	TranslateWithContext(ctx context.Context, text, targetLanguage, sourceLanguage, extraContext, model string) (string, error)

	// ImproveTranslation refines an existing translation, optionally guided by
	// user feedback.
	ImproveTranslation(ctx context.Context, originalText, translatedText, targetLanguage, feedback, model string) (string, error)
}

// OpenRouterService implements Enhancer against the OpenRouter chat
// completions API through the OpenAI-compatible client.
type OpenRouterService struct {
	client       *openai.Client
	defaultModel string
	timeout      time.Duration
	log          zerolog.Logger
}

// NewOpenRouterService creates an enhancement backend client. baseURL and
// defaultModel may be empty to use the OpenRouter defaults.
func NewOpenRouterService(apiKey, baseURL, defaultModel string) *OpenRouterService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	if defaultModel == "" {
		defaultModel = DefaultLLMModel
	}
	return &OpenRouterService{
		client:       openai.NewClientWithConfig(cfg),
		defaultModel: defaultModel,
		timeout:      DefaultEnhancementTimeout,
		log:          logger.WithComponent("openrouter"),
	}
}

// TranslateWithContext translates text using the LLM with context awareness.
func (s *OpenRouterService) TranslateWithContext(ctx context.Context, text, targetLanguage, sourceLanguage, extraContext, model string) (string, error) {
	const op = "TranslateWithContext"

	var b strings.Builder
	sourceInfo := ""
	if sourceLanguage != "" {
		sourceInfo = fmt.Sprintf(" from %s", LanguageName(sourceLanguage))
	}
	fmt.Fprintf(&b, "Translate the following text%s to %s.\n\n", sourceInfo, LanguageName(targetLanguage))
	b.WriteString("Instructions:\n")
	b.WriteString("- Preserve proper nouns, brand names, and company names\n")
	b.WriteString("- Keep technical terms accurate\n")
	b.WriteString("- Maintain the original formatting and structure\n")
	b.WriteString("- Preserve URLs, emails, and numbers\n")
	b.WriteString("- Use natural, fluent language in the target language\n")
	if extraContext != "" {
		fmt.Fprintf(&b, "\nContext: %s\n", extraContext)
	}
	fmt.Fprintf(&b, "\nText to translate:\n%s\n\nProvide only the translated text without explanations.", text)

	return s.complete(ctx, op, b.String(), model)
}

// ImproveTranslation refines an existing translation based on feedback.
func (s *OpenRouterService) ImproveTranslation(ctx context.Context, originalText, translatedText, targetLanguage, feedback, model string) (string, error) {
	const op = "ImproveTranslation"

	var b strings.Builder
	fmt.Fprintf(&b, "Review and improve the following %s translation.\n\n", LanguageName(targetLanguage))
	fmt.Fprintf(&b, "Original text:\n%s\n\nCurrent translation:\n%s\n", originalText, translatedText)
	if feedback != "" {
		fmt.Fprintf(&b, "\nFeedback/Instructions:\n%s\n", feedback)
	}
	b.WriteString("\nProvide only the improved translation without explanations.")

	return s.complete(ctx, op, b.String(), model)
}

func (s *OpenRouterService) complete(ctx context.Context, op, prompt, model string) (string, error) {
	if model == "" {
		model = s.defaultModel
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: llmTemperature,
		MaxTokens:   llmMaxTokens,
	})
	if err != nil {
		return "", WrapTranslationError(op, ErrRequestFailed, err.Error())
	}
	if len(resp.Choices) == 0 {
		return "", WrapTranslationError(op, ErrNoTranslation, "no choices in response")
	}

	translation := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translation == "" {
		return "", WrapTranslationError(op, ErrNoTranslation, "empty completion")
	}

	s.log.Debug().Str("model", model).Int("chars", len(translation)).Msg("LLM completion received")
	return translation, nil
}
