package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Insular1s/document-translation-app/internal/logger"
)

// Config holds all settings for the document translation application.
// Values are read from the environment; a .env file is loaded by main.
type Config struct {
	// Azure Translator Configuration
	AzureTranslatorEndpoint string
	AzureTranslatorKey      string
	AzureTranslatorRegion   string

	// Azure Computer Vision Configuration (image OCR)
	AzureVisionEndpoint string
	AzureVisionKey      string

	// OpenRouter Configuration (LLM enhancement)
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	DefaultLLMModel   string

	// Translation behaviour
	UseLLMEnhancement  bool
	TranslateImages    bool
	RetryAttempts      int
	RetryDelay         time.Duration
	SupportedLanguages []string

	// File handling
	UploadFolder string
	OutputFolder string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		AzureTranslatorEndpoint: getEnv("AZURE_TRANSLATOR_ENDPOINT", "https://api.cognitive.microsofttranslator.com/"),
		AzureTranslatorKey:      getEnv("AZURE_TRANSLATOR_KEY", ""),
		AzureTranslatorRegion:   getEnv("AZURE_TRANSLATOR_REGION", "japaneast"),
		AzureVisionEndpoint:     getEnv("AZURE_VISION_ENDPOINT", ""),
		AzureVisionKey:          getEnv("AZURE_VISION_KEY", ""),
		OpenRouterAPIKey:        getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterBaseURL:       getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		DefaultLLMModel:         getEnv("DEFAULT_LLM_MODEL", "anthropic/claude-3.5-sonnet"),
		UseLLMEnhancement:       getEnvBool("USE_LLM_ENHANCEMENT", true),
		TranslateImages:         getEnvBool("TRANSLATE_IMAGES", true),
		RetryAttempts:           getEnvInt("TRANSLATION_RETRY_ATTEMPTS", 3),
		RetryDelay:              getEnvDuration("TRANSLATION_RETRY_DELAY", time.Second),
		SupportedLanguages:      []string{"en", "id", "ja", "fr", "de", "es", "zh", "ko"},
		UploadFolder:            getEnv("UPLOAD_FOLDER", "uploads"),
		OutputFolder:            getEnv("OUTPUT_FOLDER", "outputs"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFormat:               getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:           getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:               getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.AzureTranslatorKey == "" {
		return fmt.Errorf("AZURE_TRANSLATOR_KEY is required")
	}
	if c.AzureTranslatorEndpoint == "" {
		return fmt.Errorf("AZURE_TRANSLATOR_ENDPOINT is required")
	}
	// The Vision and OpenRouter backends are optional capabilities; warn so a
	// misconfigured deployment is visible without refusing to start.
	log := logger.WithComponent("config")
	if c.AzureVisionKey == "" || c.AzureVisionEndpoint == "" {
		log.Warn().Msg("Azure Vision credentials not set, image translation will be disabled unless Google Vision credentials are available")
	}
	if c.OpenRouterAPIKey == "" {
		log.Warn().Msg("OPENROUTER_API_KEY not set, LLM enhancement will be disabled")
	}
	return nil
}

// EnhancementAvailable reports whether the LLM enhancement backend is configured.
func (c *Config) EnhancementAvailable() bool {
	return c.OpenRouterAPIKey != ""
}

// EnsureDirectories creates the upload and output folders if missing.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.UploadFolder, c.OutputFolder} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if seconds, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(seconds * float64(time.Second))
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	return defaultValue
}
