package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AZURE_TRANSLATOR_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.cognitive.microsofttranslator.com/", cfg.AzureTranslatorEndpoint)
	assert.Equal(t, "japaneast", cfg.AzureTranslatorRegion)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.OpenRouterBaseURL)
	assert.True(t, cfg.UseLLMEnhancement)
	assert.True(t, cfg.TranslateImages)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.Equal(t, "uploads", cfg.UploadFolder)
	assert.Equal(t, "outputs", cfg.OutputFolder)
	assert.Contains(t, cfg.SupportedLanguages, "ja")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AZURE_TRANSLATOR_KEY", "test-key")
	t.Setenv("AZURE_TRANSLATOR_REGION", "westeurope")
	t.Setenv("USE_LLM_ENHANCEMENT", "false")
	t.Setenv("TRANSLATION_RETRY_ATTEMPTS", "5")
	t.Setenv("TRANSLATION_RETRY_DELAY", "0.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "westeurope", cfg.AzureTranslatorRegion)
	assert.False(t, cfg.UseLLMEnhancement)
	assert.Equal(t, 5, cfg.RetryAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryDelay, "bare numbers are read as seconds")
}

func TestLoad_RetryDelayDurationSyntax(t *testing.T) {
	t.Setenv("AZURE_TRANSLATOR_KEY", "test-key")
	t.Setenv("TRANSLATION_RETRY_DELAY", "250ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)
}

func TestLoad_MissingTranslatorKey(t *testing.T) {
	t.Setenv("AZURE_TRANSLATOR_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AZURE_TRANSLATOR_KEY")
}

func TestEnhancementAvailable(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.EnhancementAvailable())

	cfg.OpenRouterAPIKey = "sk-or-test"
	assert.True(t, cfg.EnhancementAvailable())
}

func TestGetEnvBool_Invalid(t *testing.T) {
	t.Setenv("SOME_FLAG", "not-a-bool")
	assert.True(t, getEnvBool("SOME_FLAG", true), "unparseable values fall back to the default")
}
