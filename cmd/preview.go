package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Insular1s/document-translation-app/internal/document"
)

var previewCmd = &cobra.Command{
	Use:   "preview [pptx-file] [slide-number]",
	Short: "Render a slide preview image",
	Long: `Render a preview PNG for one slide of a presentation (0-indexed).
Previews are served through a bounded in-process cache keyed by filename,
slide, and file modification time.`,
	Example: `  # Render the first slide's preview
  doctrans preview deck_es.pptx 0 -o slide0.png`,
	Args: cobra.ExactArgs(2),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringP("output", "o", "preview.png", "Output PNG path")
}

func runPreview(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")

	slideNumber, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid slide number %q: %w", args[1], err)
	}

	service := document.NewPreviewService(document.NewPreviewCache(0))
	rendered, err := service.SlidePreview(args[0], slideNumber)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, rendered, 0o644); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	fmt.Printf("Preview written to %s\n", outputPath)
	return nil
}
