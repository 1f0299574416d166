package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Insular1s/document-translation-app/internal/config"
	"github.com/Insular1s/document-translation-app/internal/document"
	"github.com/Insular1s/document-translation-app/internal/logger"
)

var translateCmd = &cobra.Command{
	Use:   "translate [pptx-file]",
	Short: "Translate a PowerPoint presentation",
	Long: `Translate every text frame, table, and embedded image of a presentation
into the target language, writing a new file and an original-text ledger
next to it.

Required environment variables:
  AZURE_TRANSLATOR_KEY      - Azure Translator subscription key
  AZURE_TRANSLATOR_ENDPOINT - Azure Translator endpoint (has a default)

Optional:
  AZURE_VISION_ENDPOINT / AZURE_VISION_KEY - enable in-image text translation
  OPENROUTER_API_KEY                       - enable LLM enhancement`,
	Example: `  # Translate deck.pptx to Spanish
  doctrans translate deck.pptx --target es

  # Translate from Japanese with LLM enhancement and a specific model
  doctrans translate deck.pptx --target en --source ja --llm --model anthropic/claude-3.5-sonnet

  # Skip image translation and print stats as JSON
  doctrans translate deck.pptx --target fr --images=false --json`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringP("target", "t", "", "Target language code (required)")
	translateCmd.Flags().StringP("source", "s", "", "Source language code (auto-detected when empty)")
	translateCmd.Flags().StringP("output", "o", "", "Output file path (default: <input>_<target>.pptx)")
	translateCmd.Flags().Bool("llm", false, "Force LLM enhancement for every text unit")
	translateCmd.Flags().String("model", "", "LLM model override")
	translateCmd.Flags().Bool("images", true, "Translate text inside embedded images")
	translateCmd.Flags().Bool("preserve-formatting", true, "Preserve first-run font attributes in text frames")
	translateCmd.Flags().Bool("json", false, "Print processing stats as JSON")
	_ = translateCmd.MarkFlagRequired("target")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("translate")

	targetLang, _ := cmd.Flags().GetString("target")
	sourceLang, _ := cmd.Flags().GetString("source")
	outputPath, _ := cmd.Flags().GetString("output")
	useLLM, _ := cmd.Flags().GetBool("llm")
	model, _ := cmd.Flags().GetString("model")
	translateImages, _ := cmd.Flags().GetBool("images")
	preserveFormatting, _ := cmd.Flags().GetBool("preserve-formatting")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	inputPath := args[0]
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file not accessible: %w", err)
	}
	if outputPath == "" {
		base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		outputPath = fmt.Sprintf("%s_%s.pptx", base, targetLang)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log.Info().
		Str("input", inputPath).
		Str("output", outputPath).
		Str("target", targetLang).
		Bool("llm", useLLM).
		Bool("images", translateImages).
		Msg("Starting presentation translation")

	ctx := cmd.Context()
	translator := buildTranslationProcessor(cfg)
	renderer := buildOverlayRenderer(ctx, cfg)

	processor := document.NewProcessor(translator, renderer, cfg.TranslateImages && translateImages)
	stats, err := processor.Process(ctx, inputPath, outputPath, document.Options{
		TargetLanguage:     targetLang,
		SourceLanguage:     sourceLang,
		UseLLM:             useLLM,
		Model:              model,
		PreserveFormatting: preserveFormatting,
	})
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	if jsonOutput {
		encoded, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
		return nil
	}

	fmt.Printf("Translated %s -> %s\n", inputPath, outputPath)
	fmt.Printf("  Slides processed:       %d\n", stats.SlidesProcessed)
	fmt.Printf("  Text frames translated: %d\n", stats.TextFramesTranslated)
	fmt.Printf("  Tables translated:      %d\n", stats.TablesTranslated)
	fmt.Printf("  Images translated:      %d\n", stats.ImagesTranslated)
	if stats.ShapeFailures > 0 {
		fmt.Printf("  Shape failures:         %d\n", stats.ShapeFailures)
	}
	fmt.Printf("  Ledger: %s\n", document.LedgerPath(outputPath))
	return nil
}
