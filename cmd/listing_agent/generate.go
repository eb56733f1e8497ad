package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/listing-copywriter/internal/observability"
	"github.com/jonathan/listing-copywriter/internal/pipeline"
	"github.com/jonathan/listing-copywriter/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate and score a listing description",
	Long: "Generate a listing description for a property with Gemini, print it with a score report " +
		"and save it to history when a database is configured.",
	Example: `  listing_agent generate --title "Luxury 5-Bedroom Duplex" --type House \
    --location "Lekki Phase 1, Lagos" --price 85000000 \
    --features "Swimming pool, 24/7 security, modern kitchen" --tone casual`,
	RunE: runGenerate,
}

var (
	generateProperty propertyInput
	generateTone     string
	generateNoSave   bool
	generateJSON     bool
)

func init() {
	generateProperty.bind(generateCmd)
	generateCmd.Flags().StringVar(&generateTone, "tone", string(types.DefaultTone), "Tone: formal or casual")
	generateCmd.Flags().BoolVar(&generateNoSave, "no-save", false, "Do not save the result to history")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	property, err := generateProperty.resolve()
	if err != nil {
		return err
	}

	req := types.GenerateRequest{Property: property, Tone: types.Tone(generateTone)}
	// fail fast on bad input before connecting to anything
	if err := req.Validate(); err != nil {
		return describeError(&pipeline.ValidationError{Cause: err})
	}

	ctx := contextOrBackground(cmd)
	svc, cleanup, err := newService(ctx, app.cfg, !generateNoSave)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := svc.Generate(ctx, req)
	if err != nil {
		return describeError(err)
	}

	out := cmd.OutOrStdout()
	if generateJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printer := observability.NewPrinter(out)
	printer.PrintDescription(fmt.Sprintf("%s (%s)", property.Title, result.Description.Tone), result.Description.GeneratedDescription)
	printer.PrintScoreReport("SCORES", result.Scores)
	if result.Saved {
		fmt.Fprintf(out, "Saved to history as %s\n", result.Description.ID) //nolint:errcheck
	}
	return nil
}

