package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/listing-copywriter/internal/db"
	"github.com/jonathan/listing-copywriter/internal/generation"
	"github.com/jonathan/listing-copywriter/internal/observability"
	"github.com/jonathan/listing-copywriter/internal/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const sampleDescription = "This beautiful property in Lekki Phase 1 offers exceptional value. " +
	"The spacious 5-bedroom house features a modern kitchen, swimming pool, and 24/7 security. " +
	"Located in a prime area of Lagos, this house is perfect for families. " +
	"Contact us today to schedule a viewing."

type fakeGenerator struct {
	text  string
	err   error
	calls []types.Tone
}

func (f *fakeGenerator) Generate(_ context.Context, _ types.PropertyData, tone types.Tone) (string, error) {
	f.calls = append(f.calls, tone)
	return f.text, f.err
}

// memoryStore is an in-memory db.Store
type memoryStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]db.Description
	saveErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: map[uuid.UUID]db.Description{}}
}

func (m *memoryStore) EnsureSchema(context.Context) error { return nil }

func (m *memoryStore) SaveDescription(_ context.Context, d *db.Description) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records[d.ID] = *d
	return nil
}

func (m *memoryStore) GetDescription(_ context.Context, id uuid.UUID) (*db.Description, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *memoryStore) ListRecentDescriptions(_ context.Context, limit int) ([]db.Description, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Description
	for _, d := range m.records {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryStore) DeleteDescription(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[id]
	delete(m.records, id)
	return ok, nil
}

func (m *memoryStore) ClearDescriptions(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.records))
	m.records = map[uuid.UUID]db.Description{}
	return n, nil
}

func (m *memoryStore) Close() error { return nil }

func validRequest() types.GenerateRequest {
	return types.GenerateRequest{
		Property: types.PropertyData{
			Title:    "Luxury 5-Bedroom Duplex",
			Type:     "House",
			Location: "Lekki Phase 1, Lagos",
			Price:    85000000,
			Features: "Swimming pool, 24/7 security, modern kitchen",
		},
		Tone: types.ToneCasual,
	}
}

func TestGenerate_ScoresAndSaves(t *testing.T) {
	gen := &fakeGenerator{text: sampleDescription}
	store := newMemoryStore()
	svc := NewService(gen, store, nil, nil)

	var steps []string
	result, err := svc.GenerateWithProgress(context.Background(), validRequest(), func(e ProgressEvent) {
		steps = append(steps, e.Step)
	})
	require.NoError(t, err)

	assert.True(t, result.Saved)
	assert.Equal(t, 65, result.Scores.OverallScore)
	assert.Equal(t, 75, result.Scores.SEOScore)
	assert.Equal(t, 50, result.Scores.ReadabilityScore)
	assert.Equal(t, sampleDescription, result.Description.GeneratedDescription)
	assert.Equal(t, "casual", result.Description.Tone)
	assert.Equal(t, []types.Tone{types.ToneCasual}, gen.calls)
	assert.Equal(t, []string{StepValidate, StepGenerate, StepScore, StepScore, StepSave}, steps)

	stored, err := store.GetDescription(context.Background(), result.Description.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, result.Scores, stored.Scores())
}

func TestGenerate_DefaultTone(t *testing.T) {
	gen := &fakeGenerator{text: "A home."}
	svc := NewService(gen, nil, nil, nil)

	req := validRequest()
	req.Tone = ""
	result, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []types.Tone{types.ToneFormal}, gen.calls)
	assert.Equal(t, "formal", result.Description.Tone)
	assert.False(t, result.Saved)
}

func TestGenerate_ValidationFailure(t *testing.T) {
	gen := &fakeGenerator{text: "unused"}
	svc := NewService(gen, newMemoryStore(), nil, nil)

	req := validRequest()
	req.Property.Title = ""
	req.Property.Features = "short"
	req.Tone = "sarcastic"

	_, err := svc.Generate(context.Background(), req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, gen.calls)

	fields := verr.Fields()
	assert.Equal(t, "The title field is required.", fields["title"])
	assert.Equal(t, "The features must be at least 10 characters.", fields["features"])
	assert.Equal(t, "The selected tone is invalid.", fields["tone"])
}

func TestGenerate_InvalidTonesShareOneSeries(t *testing.T) {
	metrics := observability.NewMetrics()
	svc := NewService(&fakeGenerator{text: sampleDescription}, nil, nil, metrics)

	for i := 0; i < 50; i++ {
		req := validRequest()
		req.Tone = types.Tone(fmt.Sprintf("junk-%d", i))
		_, err := svc.Generate(context.Background(), req)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	}

	count, err := testutil.GatherAndCount(metrics.Registry(), "listing_generations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGenerate_GenerationFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	gen := &fakeGenerator{err: &generation.TerminalError{Attempts: 3, Cause: errors.New("down")}}
	store := newMemoryStore()
	svc := NewService(gen, store, zap.New(core), nil)

	_, err := svc.Generate(context.Background(), validRequest())
	require.Error(t, err)
	assert.True(t, generation.IsTerminal(err))
	assert.Equal(t, generation.UserMessage, err.Error())
	assert.Empty(t, store.records)

	entries := logs.FilterMessage("description generation failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Luxury 5-Bedroom Duplex", entries[0].ContextMap()["property"])
}

func TestGenerate_SaveFailureDoesNotFail(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	store := newMemoryStore()
	store.saveErr = errors.New("disk full")
	svc := NewService(&fakeGenerator{text: sampleDescription}, store, zap.New(core), nil)

	result, err := svc.Generate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.False(t, result.Saved)
	assert.Equal(t, sampleDescription, result.Description.GeneratedDescription)
	assert.Len(t, logs.FilterMessage("failed to save to history").All(), 1)
}

func TestRegenerate(t *testing.T) {
	gen := &fakeGenerator{text: "First version."}
	store := newMemoryStore()
	svc := NewService(gen, store, nil, nil)
	ctx := context.Background()

	first, err := svc.Generate(ctx, validRequest())
	require.NoError(t, err)

	gen.text = "Second version."
	second, err := svc.Regenerate(ctx, first.Description.ID, "")
	require.NoError(t, err)
	assert.NotEqual(t, first.Description.ID, second.Description.ID)
	assert.Equal(t, "casual", second.Description.Tone)
	assert.Equal(t, first.Description.Property(), second.Description.Property())

	third, err := svc.Regenerate(ctx, first.Description.ID, types.ToneFormal)
	require.NoError(t, err)
	assert.Equal(t, "formal", third.Description.Tone)

	assert.Len(t, store.records, 3)
	assert.Equal(t, []types.Tone{types.ToneCasual, types.ToneCasual, types.ToneFormal}, gen.calls)
}

func TestRegenerate_Missing(t *testing.T) {
	svc := NewService(&fakeGenerator{}, newMemoryStore(), nil, nil)
	_, err := svc.Regenerate(context.Background(), uuid.New(), "")
	assert.True(t, IsNotFound(err))
}

func TestHistoryOperations(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(&fakeGenerator{text: "A home."}, store, nil, nil)
	ctx := context.Background()

	history, err := svc.History(ctx, 0)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)

	a, err := svc.Generate(ctx, validRequest())
	require.NoError(t, err)
	_, err = svc.Generate(ctx, validRequest())
	require.NoError(t, err)

	loaded, err := svc.Load(ctx, a.Description.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Description.ID, loaded.ID)

	history, err = svc.History(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	require.NoError(t, svc.Delete(ctx, a.Description.ID))
	assert.True(t, IsNotFound(svc.Delete(ctx, a.Description.ID)))

	_, err = svc.Load(ctx, a.Description.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := svc.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestHistoryDisabled(t *testing.T) {
	svc := NewService(&fakeGenerator{}, nil, nil, nil)
	ctx := context.Background()

	assert.False(t, svc.HistoryEnabled())

	_, err := svc.History(ctx, 0)
	assert.ErrorIs(t, err, ErrHistoryDisabled)
	_, err = svc.Load(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrHistoryDisabled)
	assert.ErrorIs(t, svc.Delete(ctx, uuid.New()), ErrHistoryDisabled)
	_, err = svc.Clear(ctx)
	assert.ErrorIs(t, err, ErrHistoryDisabled)
	_, err = svc.Regenerate(ctx, uuid.New(), "")
	assert.ErrorIs(t, err, ErrHistoryDisabled)
}

func TestScore_MatchesEngine(t *testing.T) {
	svc := NewService(&fakeGenerator{}, nil, nil, nil)
	result := svc.Score(sampleDescription, validRequest().Property)

	assert.Equal(t, 65, result.OverallScore)
	assert.Equal(t, 3, result.KeywordMentions)
	assert.Equal(t, "Good", result.SEOLabel)
}

func TestValidationError_NonValidatorCause(t *testing.T) {
	err := &ValidationError{Cause: errors.New("malformed JSON")}
	assert.Equal(t, map[string]string{"request": "malformed JSON"}, err.Fields())
	assert.Equal(t, "invalid request: malformed JSON", err.Error())
}
