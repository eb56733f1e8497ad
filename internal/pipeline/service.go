// Package pipeline orchestrates generation, scoring and history for listing descriptions.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/listing-copywriter/internal/db"
	"github.com/jonathan/listing-copywriter/internal/observability"
	"github.com/jonathan/listing-copywriter/internal/scoring"
	"github.com/jonathan/listing-copywriter/internal/types"
	"go.uber.org/zap"
)

// Progress steps
const (
	StepValidate = "validate"
	StepGenerate = "generate"
	StepScore    = "score"
	StepSave     = "save"
)

// ProgressEvent represents a progress update during a generation
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when generation progress occurs
type ProgressCallback func(event ProgressEvent)

// Generator produces description text for a property
type Generator interface {
	Generate(ctx context.Context, property types.PropertyData, tone types.Tone) (string, error)
}

// Result is a generated, scored description
type Result struct {
	Description *db.Description   `json:"description"`
	Scores      types.ScoreResult `json:"scores"`
	// Saved is false when history is disabled or the save failed
	Saved bool `json:"saved"`
}

// Service ties the generator, the scoring engine and history storage together
type Service struct {
	generator Generator
	store     db.Store
	logger    *zap.Logger
	metrics   *observability.Metrics
}

// NewService creates a Service. store may be nil to disable history; logger and metrics may be nil.
func NewService(generator Generator, store db.Store, logger *zap.Logger, metrics *observability.Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{generator: generator, store: store, logger: logger, metrics: metrics}
}

// HistoryEnabled reports whether a store is configured
func (s *Service) HistoryEnabled() bool {
	return s.store != nil
}

// Generate validates the request, generates a description, scores it and saves it
func (s *Service) Generate(ctx context.Context, req types.GenerateRequest) (*Result, error) {
	return s.GenerateWithProgress(ctx, req, nil)
}

// GenerateWithProgress is Generate with a progress callback, called synchronously for each step
func (s *Service) GenerateWithProgress(ctx context.Context, req types.GenerateRequest, onProgress ProgressCallback) (*Result, error) {
	emit := func(step, message string, content any) {
		if onProgress != nil {
			onProgress(ProgressEvent{Step: step, Message: message, Content: content})
		}
	}
	tone := req.ToneOrDefault()
	start := time.Now()

	emit(StepValidate, "Validating property details", nil)
	if err := req.Validate(); err != nil {
		s.metrics.ObserveGeneration(observability.OutcomeInvalid, tone, 0)
		return nil, &ValidationError{Cause: err}
	}

	emit(StepGenerate, "Generating description", nil)
	text, err := s.generator.Generate(ctx, req.Property, tone)
	if err != nil {
		s.metrics.ObserveGeneration(observability.OutcomeFailure, tone, time.Since(start))
		s.logger.Error("description generation failed",
			zap.Error(err),
			zap.String("property", req.Property.Title),
		)
		return nil, err
	}

	emit(StepScore, "Scoring description", nil)
	scores := s.Score(text, req.Property)
	record := db.NewDescription(req.Property, tone, text, scores)
	emit(StepScore, "Scored description", scores)

	saved := false
	if s.store != nil {
		emit(StepSave, "Saving to history", nil)
		saved = s.save(ctx, record)
	}

	s.metrics.ObserveGeneration(observability.OutcomeSuccess, tone, time.Since(start))
	s.logger.Info("description generated",
		zap.String("id", record.ID.String()),
		zap.String("tone", string(tone)),
		zap.Int("overall_score", scores.OverallScore),
		zap.Bool("saved", saved),
	)

	return &Result{Description: record, Scores: scores, Saved: saved}, nil
}

// save writes a record to history. Failures are logged, never returned.
func (s *Service) save(ctx context.Context, record *db.Description) bool {
	if err := s.store.SaveDescription(ctx, record); err != nil {
		s.metrics.ObserveHistorySaveFailure()
		s.logger.Warn("failed to save to history",
			zap.String("id", record.ID.String()),
			zap.Error(err),
		)
		return false
	}
	return true
}

// Regenerate generates a new description from a stored record's property data. An empty
// tone keeps the stored tone. The new description becomes a new history entry.
func (s *Service) Regenerate(ctx context.Context, id uuid.UUID, tone types.Tone) (*Result, error) {
	previous, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	if tone == "" {
		tone = types.Tone(previous.Tone)
	}
	return s.Generate(ctx, types.GenerateRequest{Property: previous.Property(), Tone: tone})
}

// Load returns a stored description
func (s *Service) Load(ctx context.Context, id uuid.UUID) (*db.Description, error) {
	if s.store == nil {
		return nil, ErrHistoryDisabled
	}

	record, err := s.store.GetDescription(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load from history: %w", err)
	}
	if record == nil {
		return nil, ErrNotFound
	}
	return record, nil
}

// History returns the most recent descriptions, newest first. limit <= 0 means the default of 20.
func (s *Service) History(ctx context.Context, limit int) ([]db.Description, error) {
	if s.store == nil {
		return nil, ErrHistoryDisabled
	}

	records, err := s.store.ListRecentDescriptions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	if records == nil {
		records = []db.Description{}
	}
	return records, nil
}

// Delete removes one history entry
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if s.store == nil {
		return ErrHistoryDisabled
	}

	deleted, err := s.store.DeleteDescription(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// Clear removes all history and returns the number of entries removed
func (s *Service) Clear(ctx context.Context) (int64, error) {
	if s.store == nil {
		return 0, ErrHistoryDisabled
	}

	n, err := s.store.ClearDescriptions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	s.logger.Info("history cleared", zap.Int64("removed", n))
	return n, nil
}

// Score scores an arbitrary description against property data. It never fails.
func (s *Service) Score(description string, property types.PropertyData) types.ScoreResult {
	result := scoring.Score(description, property)
	s.metrics.ObserveScore(result)
	return result
}

// IsNotFound reports whether err means a missing history entry
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
