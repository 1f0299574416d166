package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Insular1s/document-translation-app/internal/config"
	"github.com/Insular1s/document-translation-app/internal/logger"
)

var improveCmd = &cobra.Command{
	Use:   "improve",
	Short: "Get an LLM-suggested improvement for a translation",
	Long: `Ask the enhancement backend to refine an existing translation, optionally
guided by free-text feedback. Requires OPENROUTER_API_KEY.`,
	Example: `  doctrans improve --original "Quarterly results" --current "Resultados trimestral" \
      --target es --feedback "fix the adjective agreement"`,
	RunE: runImprove,
}

func init() {
	rootCmd.AddCommand(improveCmd)

	improveCmd.Flags().String("original", "", "Original source text (required)")
	improveCmd.Flags().String("current", "", "Current translation to improve (required)")
	improveCmd.Flags().StringP("target", "t", "", "Target language code (required)")
	improveCmd.Flags().String("feedback", "", "Improvement feedback or instructions")
	improveCmd.Flags().String("model", "", "LLM model override")
	_ = improveCmd.MarkFlagRequired("original")
	_ = improveCmd.MarkFlagRequired("current")
	_ = improveCmd.MarkFlagRequired("target")
}

func runImprove(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("improve")

	original, _ := cmd.Flags().GetString("original")
	current, _ := cmd.Flags().GetString("current")
	targetLang, _ := cmd.Flags().GetString("target")
	feedback, _ := cmd.Flags().GetString("feedback")
	model, _ := cmd.Flags().GetString("model")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	processor := buildTranslationProcessor(cfg)
	result := processor.Improve(cmd.Context(), original, current, targetLang, feedback, model)
	if !result.Success {
		log.Warn().Str("error", result.Error).Msg("Improvement not available")
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
