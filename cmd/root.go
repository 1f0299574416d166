package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Insular1s/document-translation-app/internal/config"
	"github.com/Insular1s/document-translation-app/internal/logger"
	"github.com/Insular1s/document-translation-app/internal/ocr"
	"github.com/Insular1s/document-translation-app/internal/overlay"
	"github.com/Insular1s/document-translation-app/internal/translation"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "doctrans",
	Short: "Translate PowerPoint presentations while preserving layout and formatting",
	Long: `doctrans translates presentation documents from one language to another
while preserving layout, formatting, and in-image text.

Text frames, tables, and nested groups are translated in place; embedded
images are run through OCR and the detected text is redrawn in the target
language. Translation uses Azure Translator, optionally enhanced with a
context-aware LLM via OpenRouter.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Use --help to see available commands and options.")
	},
}

// Execute runs the root command.
func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

// buildTranslationProcessor wires the translation router from configuration.
func buildTranslationProcessor(cfg *config.Config) *translation.Processor {
	standard := translation.NewAzureTranslator(cfg.AzureTranslatorEndpoint, cfg.AzureTranslatorKey, cfg.AzureTranslatorRegion)

	var enhancer translation.Enhancer
	if cfg.EnhancementAvailable() {
		enhancer = translation.NewOpenRouterService(cfg.OpenRouterAPIKey, cfg.OpenRouterBaseURL, cfg.DefaultLLMModel)
	}

	return translation.NewProcessor(standard, enhancer, cfg.UseLLMEnhancement,
		translation.WithRetry(cfg.RetryAttempts, cfg.RetryDelay))
}

// buildOverlayRenderer wires the image text renderer, preferring Azure Read
// and falling back to Google Vision credentials when present. Returns nil
// when no OCR backend is configured.
func buildOverlayRenderer(ctx context.Context, cfg *config.Config) *overlay.Renderer {
	log := logger.WithComponent("cmd")

	if cfg.AzureVisionEndpoint != "" && cfg.AzureVisionKey != "" {
		return overlay.NewRenderer(ocr.NewAzureReadLocator(cfg.AzureVisionEndpoint, cfg.AzureVisionKey))
	}
	if os.Getenv("GOOGLE_CREDENTIALS") != "" || os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" {
		locator, err := ocr.NewGoogleVisionLocator(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to create Google Vision locator, image translation disabled")
			return nil
		}
		return overlay.NewRenderer(locator)
	}
	return nil
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
