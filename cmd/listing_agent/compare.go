package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/listing-copywriter/internal/observability"
	"github.com/jonathan/listing-copywriter/internal/pipeline"
	"github.com/jonathan/listing-copywriter/internal/scoring"
	"github.com/jonathan/listing-copywriter/internal/types"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Generate formal and casual variants side by side",
	Long:  "Generate one description per tone concurrently and print each with its score report. Variants are not saved.",
	RunE:  runCompare,
}

var compareProperty propertyInput

func init() {
	compareProperty.bind(compareCmd)
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, _ []string) error {
	property, err := compareProperty.resolve()
	if err != nil {
		return err
	}
	if err := property.Validate(); err != nil {
		return describeError(&pipeline.ValidationError{Cause: err})
	}

	ctx := contextOrBackground(cmd)
	gen, closeGen, err := newGenerator(ctx, app.cfg)
	if err != nil {
		return err
	}
	defer closeGen()

	variants, err := gen.GenerateVariants(ctx, property, []types.Tone{types.ToneFormal, types.ToneCasual})
	if err != nil {
		return describeError(err)
	}

	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)
	best, bestScore := "", -1
	for _, v := range variants {
		result := scoring.Score(v.Description, property)
		app.metrics.ObserveScore(result)
		printer.PrintDescription(strings.ToUpper(string(v.Tone)), v.Description)
		printer.PrintScoreReport(strings.ToUpper(string(v.Tone))+" SCORES", result)
		if result.OverallScore > bestScore {
			best, bestScore = string(v.Tone), result.OverallScore
		}
	}
	fmt.Fprintf(out, "Highest overall score: %s (%d)\n", best, bestScore) //nolint:errcheck
	return nil
}
