package translation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStandard is a scriptable StandardTranslator. Calls are counted; failUntil
// makes the first N calls fail before succeeding.
type stubStandard struct {
	calls     int
	failUntil int
	detected  string
	translate func(text string) string
}

func (s *stubStandard) Translate(_ context.Context, text, _, _ string) (*StandardResult, error) {
	s.calls++
	if s.calls <= s.failUntil {
		return nil, ErrRequestFailed
	}
	translated := text
	if s.translate != nil {
		translated = s.translate(text)
	}
	return &StandardResult{TranslatedText: translated, DetectedLanguage: s.detected}, nil
}

func (s *stubStandard) BatchTranslate(ctx context.Context, texts []string, target, source string) ([]StandardResult, error) {
	results := make([]StandardResult, len(texts))
	for i, text := range texts {
		r, err := s.Translate(ctx, text, target, source)
		if err != nil {
			return nil, err
		}
		results[i] = *r
	}
	return results, nil
}

// stubEnhancer is a scriptable Enhancer.
type stubEnhancer struct {
	calls   int
	fail    bool
	improve string
	output  string
}

func (s *stubEnhancer) TranslateWithContext(_ context.Context, text, _, _, _, _ string) (string, error) {
	s.calls++
	if s.fail {
		return "", errors.New("llm unavailable")
	}
	return s.output, nil
}

func (s *stubEnhancer) ImproveTranslation(_ context.Context, _, _, _, _, _ string) (string, error) {
	s.calls++
	if s.fail {
		return "", errors.New("llm unavailable")
	}
	return s.improve, nil
}

func TestProcessor_Translate_EmptyText(t *testing.T) {
	standard := &stubStandard{}
	p := NewProcessor(standard, nil, false)

	result := p.Translate(context.Background(), Request{Text: "   ", TargetLanguage: "es"})

	assert.False(t, result.Success)
	assert.Equal(t, "   ", result.Translation, "failed results pass the original through")
	assert.Equal(t, MethodFailed, result.Method)
	assert.Equal(t, ErrEmptyText.Error(), result.Error)
	assert.Zero(t, standard.calls, "empty text must not reach the backend")
}

func TestProcessor_Translate_Standard(t *testing.T) {
	standard := &stubStandard{
		detected:  "en",
		translate: func(string) string { return "Hola mundo" },
	}
	p := NewProcessor(standard, nil, false)

	result := p.Translate(context.Background(), Request{Text: "Hello world", TargetLanguage: "es"})

	require.True(t, result.Success)
	assert.Equal(t, "Hola mundo", result.Translation)
	assert.Equal(t, "en", result.SourceLanguage)
	assert.Equal(t, "es", result.TargetLanguage)
	assert.Equal(t, MethodAzure, result.Method)
	assert.Equal(t, 1, standard.calls)
}

func TestProcessor_Translate_SkipsSameLanguage(t *testing.T) {
	standard := &stubStandard{
		detected:  "fr",
		translate: func(string) string { return "should not be used" },
	}
	p := NewProcessor(standard, nil, false)

	result := p.Translate(context.Background(), Request{Text: "Bonjour", TargetLanguage: "fr"})

	require.True(t, result.Success)
	assert.Equal(t, "Bonjour", result.Translation, "skipped text stays verbatim")
	assert.Equal(t, MethodSkipped, result.Method)
	assert.True(t, result.Skipped())
}

func TestProcessor_Translate_SkipNormalizesLanguageTags(t *testing.T) {
	standard := &stubStandard{detected: "en-US"}
	p := NewProcessor(standard, nil, false)

	result := p.Translate(context.Background(), Request{Text: "Hello", TargetLanguage: "EN"})

	require.True(t, result.Success)
	assert.Equal(t, MethodSkipped, result.Method)
}

func TestProcessor_Translate_RetriesUntilSuccess(t *testing.T) {
	standard := &stubStandard{
		failUntil: 2,
		detected:  "en",
		translate: func(string) string { return "Hallo" },
	}
	p := NewProcessor(standard, nil, false, WithRetry(3, time.Millisecond))

	result := p.Translate(context.Background(), Request{Text: "Hello", TargetLanguage: "de"})

	require.True(t, result.Success)
	assert.Equal(t, "Hallo", result.Translation)
	assert.Equal(t, 3, standard.calls, "two failures then one success")
}

func TestProcessor_Translate_FailsAfterAllRetries(t *testing.T) {
	standard := &stubStandard{failUntil: 100}
	p := NewProcessor(standard, nil, false, WithRetry(3, time.Millisecond))

	result := p.Translate(context.Background(), Request{Text: "Hello", TargetLanguage: "de"})

	assert.False(t, result.Success)
	assert.Equal(t, "Hello", result.Translation, "failed results pass the original through")
	assert.Equal(t, MethodFailed, result.Method)
	assert.NotEmpty(t, result.Error)
	assert.Equal(t, 3, standard.calls)
}

func TestProcessor_Translate_EnhancementPreferred(t *testing.T) {
	standard := &stubStandard{
		detected:  "en",
		translate: func(string) string { return "machine output" },
	}
	enhancer := &stubEnhancer{output: "polished output"}
	p := NewProcessor(standard, enhancer, true)

	result := p.Translate(context.Background(), Request{Text: "Hello", TargetLanguage: "ja"})

	require.True(t, result.Success)
	assert.Equal(t, "polished output", result.Translation)
	assert.Equal(t, MethodLLM, result.Method)
	assert.Equal(t, "machine output", result.AzureTranslation, "standard output kept for comparison")
	assert.Equal(t, 1, standard.calls, "detection still goes through the standard backend")
}

func TestProcessor_Translate_EnhancementFailureFallsBack(t *testing.T) {
	standard := &stubStandard{
		detected:  "en",
		translate: func(string) string { return "machine output" },
	}
	enhancer := &stubEnhancer{fail: true}
	p := NewProcessor(standard, enhancer, true)

	result := p.Translate(context.Background(), Request{Text: "Hello", TargetLanguage: "ja"})

	require.True(t, result.Success, "enhancement failure must not fail the translation")
	assert.Equal(t, "machine output", result.Translation)
	assert.Equal(t, MethodAzure, result.Method)
}

func TestProcessor_Translate_ForceLLMOverridesDisabledEnhancement(t *testing.T) {
	standard := &stubStandard{detected: "en", translate: func(string) string { return "machine" }}
	enhancer := &stubEnhancer{output: "forced"}
	p := NewProcessor(standard, enhancer, false)

	result := p.Translate(context.Background(), Request{Text: "Hello", TargetLanguage: "ja", ForceLLM: true})

	require.True(t, result.Success)
	assert.Equal(t, "forced", result.Translation)
	assert.Equal(t, MethodLLM, result.Method)
}

func TestProcessor_Translate_EnhancementFlagWithoutBackend(t *testing.T) {
	standard := &stubStandard{detected: "en", translate: func(string) string { return "machine" }}
	p := NewProcessor(standard, nil, true)

	result := p.Translate(context.Background(), Request{Text: "Hello", TargetLanguage: "ja"})

	require.True(t, result.Success)
	assert.Equal(t, MethodAzure, result.Method, "enhancement without a backend degrades to standard")
}

func TestProcessor_BatchTranslate(t *testing.T) {
	standard := &stubStandard{
		detected:  "en",
		translate: func(text string) string { return "x:" + text },
	}
	p := NewProcessor(standard, nil, false)

	results, err := p.BatchTranslate(context.Background(), []string{"one", "two"}, "de", "")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "x:one", results[0].Translation)
	assert.Equal(t, "x:two", results[1].Translation)
	for _, r := range results {
		assert.True(t, r.Success)
		assert.Equal(t, MethodAzure, r.Method)
	}
}

func TestProcessor_BatchTranslate_BackendError(t *testing.T) {
	standard := &stubStandard{failUntil: 100}
	p := NewProcessor(standard, nil, false)

	_, err := p.BatchTranslate(context.Background(), []string{"one"}, "de", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestProcessor_Improve(t *testing.T) {
	standard := &stubStandard{}
	enhancer := &stubEnhancer{improve: "better translation"}
	p := NewProcessor(standard, enhancer, true)

	result := p.Improve(context.Background(), "original", "current", "ja", "too literal", "")

	require.True(t, result.Success)
	assert.Equal(t, "better translation", result.Translation)
	assert.Equal(t, MethodLLM, result.Method)
}

func TestProcessor_Improve_WithoutEnhancer(t *testing.T) {
	p := NewProcessor(&stubStandard{}, nil, false)

	result := p.Improve(context.Background(), "original", "current", "ja", "", "")

	assert.False(t, result.Success)
	assert.Equal(t, "current", result.Translation, "current translation survives the failure")
	assert.Equal(t, ErrBackendUnavailable.Error(), result.Error)
}

func TestProcessor_Translate_ContextCancelledDuringBackoff(t *testing.T) {
	standard := &stubStandard{failUntil: 100}
	p := NewProcessor(standard, nil, false, WithRetry(3, 50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := p.Translate(ctx, Request{Text: "Hello", TargetLanguage: "de"})

	assert.False(t, result.Success)
	assert.Equal(t, "Hello", result.Translation)
	assert.Equal(t, 1, standard.calls, "cancellation stops the retry loop")
}
