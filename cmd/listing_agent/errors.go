package main

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/listing-copywriter/internal/generation"
	"github.com/jonathan/listing-copywriter/internal/pipeline"
)

// describeError rewrites service errors for the terminal. Validation failures become a
// per-field list; terminal generation failures keep the user message and add the cause.
func describeError(err error) error {
	var verr *pipeline.ValidationError
	if errors.As(err, &verr) {
		fields := verr.Fields()
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)

		var sb strings.Builder
		sb.WriteString("invalid property data:")
		for _, name := range names {
			sb.WriteString("\n  ")
			sb.WriteString(fields[name])
		}
		return errors.New(sb.String())
	}

	var terminal *generation.TerminalError
	if errors.As(err, &terminal) {
		return errors.New(terminal.Error() + " (" + terminal.Detail() + ")")
	}
	return err
}

func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
