// Package generation produces listing descriptions through the text-generation backend.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jonathan/listing-copywriter/internal/llm"
	"github.com/jonathan/listing-copywriter/internal/observability"
	"github.com/jonathan/listing-copywriter/internal/prompts"
	"github.com/jonathan/listing-copywriter/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options controls retry behaviour and model choice
type Options struct {
	// MaxAttempts is the total number of backend calls, first try included
	MaxAttempts int
	// InitialInterval is the wait after the first failure; it doubles after each one
	InitialInterval time.Duration
	// AttemptTimeout bounds a single backend call. Zero means no per-call timeout.
	AttemptTimeout time.Duration
	Tier           llm.ModelTier
}

// DefaultOptions returns 3 attempts with 2s then 4s waits and a 30s per-call timeout
func DefaultOptions() Options {
	return Options{
		MaxAttempts:     3,
		InitialInterval: 2 * time.Second,
		AttemptTimeout:  30 * time.Second,
		Tier:            llm.TierStandard,
	}
}

// Generator turns property data into listing copy
type Generator struct {
	client  llm.Client
	logger  *zap.Logger
	metrics *observability.Metrics
	opts    Options
}

// NewGenerator creates a Generator. logger and metrics may be nil.
func NewGenerator(client llm.Client, opts Options, logger *zap.Logger, metrics *observability.Metrics) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	return &Generator{client: client, logger: logger, metrics: metrics, opts: opts}
}

// BuildPrompt renders the user prompt for a property and tone
func BuildPrompt(property types.PropertyData, tone types.Tone) (string, error) {
	return prompts.Render(prompts.DescriptionFile, "listing", map[string]string{
		"Title":            property.Title,
		"Type":             property.Type,
		"Location":         property.Location,
		"Price":            property.FormattedPrice(),
		"Features":         property.Features,
		"ToneInstructions": ToneInstructions(tone),
	})
}

// ToneInstructions returns the style guidance for a tone. Unknown tones get a balanced default.
func ToneInstructions(tone types.Tone) string {
	key := "tone-default"
	switch types.Tone(strings.ToLower(string(tone))) {
	case types.ToneFormal:
		key = "tone-formal"
	case types.ToneCasual:
		key = "tone-casual"
	}
	return prompts.MustGet(prompts.DescriptionFile, key)
}

// Generate produces a cleaned description. Transient backend failures are retried with
// exponential backoff; the final failure is always a *TerminalError.
func (g *Generator) Generate(ctx context.Context, property types.PropertyData, tone types.Tone) (string, error) {
	prompt, err := BuildPrompt(property, tone)
	if err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}

	req := llm.Request{
		Prompt:            prompt,
		SystemInstruction: prompts.MustGet(prompts.DescriptionFile, "system"),
		Tier:              g.opts.Tier,
	}

	attempt := 0
	operation := func() (string, error) {
		attempt++
		text, err := g.call(ctx, req)
		if err == nil {
			g.metrics.ObserveAttempt(observability.AttemptSuccess)
			return text, nil
		}

		g.logger.Warn("generation attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(err),
			zap.Int("prompt_length", len(prompt)),
		)

		if !llm.IsTransient(err) || ctx.Err() != nil {
			g.metrics.ObserveAttempt(observability.AttemptTerminal)
			return "", backoff.Permanent(err)
		}
		g.metrics.ObserveAttempt(observability.AttemptTransient)
		return "", &TransientError{Attempt: attempt, Cause: err}
	}

	text, err := backoff.RetryWithData(operation, g.policy(ctx))
	if err != nil {
		terminal := &TerminalError{Attempts: attempt, Cause: err}
		g.logger.Error("generation failed",
			zap.Int("attempts", attempt),
			zap.Error(err),
		)
		return "", terminal
	}

	return text, nil
}

// call performs one backend request and cleans the answer. Text that is empty after
// cleaning counts as an empty response.
func (g *Generator) call(ctx context.Context, req llm.Request) (string, error) {
	if g.opts.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.AttemptTimeout)
		defer cancel()
	}

	raw, err := g.client.GenerateText(ctx, req)
	if err != nil {
		return "", err
	}

	text := llm.CleanDescription(raw)
	if text == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}

// policy waits InitialInterval, then doubles, for at most MaxAttempts calls in total
func (g *Generator) policy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = g.opts.InitialInterval
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = g.opts.InitialInterval << max(0, g.opts.MaxAttempts-2)
	b.MaxElapsedTime = 0

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(g.opts.MaxAttempts-1)), ctx)
}

// Variant is the result of one tone in GenerateVariants
type Variant struct {
	Tone        types.Tone
	Description string
}

// GenerateVariants generates one description per tone concurrently. The first failure
// cancels the remaining calls and is returned.
func (g *Generator) GenerateVariants(ctx context.Context, property types.PropertyData, tones []types.Tone) ([]Variant, error) {
	if len(tones) == 0 {
		return nil, errors.New("at least one tone is required")
	}

	variants := make([]Variant, len(tones))
	group, ctx := errgroup.WithContext(ctx)
	for i, tone := range tones {
		group.Go(func() error {
			text, err := g.Generate(ctx, property, tone)
			if err != nil {
				return fmt.Errorf("%s variant: %w", tone, err)
			}
			variants[i] = Variant{Tone: tone, Description: text}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return variants, nil
}
