package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/listing-copywriter/internal/observability"
	"github.com/jonathan/listing-copywriter/internal/scoring"
	"github.com/jonathan/listing-copywriter/internal/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score existing listing copy",
	Long: "Score a description for readability and SEO without calling the model. The text is read " +
		"from --in or stdin; property data comes from --property or the field flags.",
	Example: `  listing_agent score --in description.txt --property property.json
  cat description.txt | listing_agent score --type House --location "Lekki, Lagos" --features "pool, gym"`,
	RunE: runScore,
}

var (
	scoreInputFile string
	scoreProperty  propertyInput
	scoreJSON      bool
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreInputFile, "in", "i", "", "Path to the description text (default: stdin)")
	scoreProperty.bind(scoreCmd)
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	text, err := readDescription(scoreInputFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	property, err := scoreProperty.resolve()
	if err != nil {
		return err
	}

	result := scoring.Score(text, property)
	return printScore(cmd.OutOrStdout(), result, scoreJSON)
}

// readDescription reads the text to score from path, or from stdin when path is empty.
// Only the single line terminator ending the file is dropped; every other character is
// scored, so counts match POST /score for the same text.
func readDescription(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = io.ReadAll(stdin)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read description: %w", err)
	}
	text := string(data)
	if trimmed, ok := strings.CutSuffix(text, "\n"); ok {
		text = strings.TrimSuffix(trimmed, "\r")
	}
	return text, nil
}

func printScore(out io.Writer, result types.ScoreResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	observability.NewPrinter(out).PrintScoreReport("SCORES", result)
	return nil
}
