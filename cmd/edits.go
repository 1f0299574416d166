package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Insular1s/document-translation-app/internal/document"
	"github.com/Insular1s/document-translation-app/internal/logger"
)

var applyEditsCmd = &cobra.Command{
	Use:   "apply-edits [pptx-file] [edits-file]",
	Short: "Apply saved user edits back onto a translated presentation",
	Long: `Apply a batch of text edits onto a previously translated presentation.

The edits file is a JSON array of {"id": ..., "text": ...} objects, where id
is the stable shape identifier reported by the extract command and recorded
in the translation ledger (e.g. "slide_0_shape_2" or
"slide_1_shape_0_group_3" for shapes inside groups).`,
	Example: `  # Apply edits.json onto translated deck
  doctrans apply-edits deck_es.pptx edits.json`,
	Args: cobra.ExactArgs(2),
	RunE: runApplyEdits,
}

var extractCmd = &cobra.Command{
	Use:   "extract [pptx-file]",
	Short: "Extract editable text content keyed by stable shape identifiers",
	Example: `  # Dump editable content as JSON
  doctrans extract deck_es.pptx

  # Save to a file
  doctrans extract deck_es.pptx -o content.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(applyEditsCmd)
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
}

func runApplyEdits(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("apply-edits")

	documentPath, editsPath := args[0], args[1]

	data, err := os.ReadFile(editsPath) //nolint:gosec // user-provided edits file
	if err != nil {
		return fmt.Errorf("failed to read edits file: %w", err)
	}
	var edits []document.Edit
	if err := json.Unmarshal(data, &edits); err != nil {
		return fmt.Errorf("failed to parse edits file: %w", err)
	}

	log.Info().
		Str("document", documentPath).
		Int("edits", len(edits)).
		Msg("Applying edits")

	editor := document.NewEditor(nil)
	if err := editor.ApplyEdits(documentPath, edits); err != nil {
		return err
	}

	fmt.Printf("Applied %d edits to %s\n", len(edits), documentPath)
	return nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")

	editor := document.NewEditor(nil)
	content, err := editor.ExtractContent(args[0])
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return err
	}

	if outputPath == "" {
		fmt.Println(string(encoded))
		return nil
	}
	if err := os.WriteFile(outputPath, encoded, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Printf("Content written to %s\n", outputPath)
	return nil
}
