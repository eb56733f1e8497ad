package db

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jonathan/listing-copywriter/internal/scoring"
	"github.com/jonathan/listing-copywriter/internal/types"
)

const (
	// DefaultHistoryLimit is the number of records returned when no limit is given
	DefaultHistoryLimit = 20
	// MaxHistoryLimit caps a single history page
	MaxHistoryLimit = 200
	// shortDescriptionLength is the preview length in characters
	shortDescriptionLength = 100
)

// Description is one generated listing description with the property data it was
// generated from and its scores at generation time.
type Description struct {
	ID                    uuid.UUID `json:"id"`
	Title                 string    `json:"title"`
	PropertyType          string    `json:"property_type"`
	Location              string    `json:"location"`
	Price                 float64   `json:"price"`
	KeyFeatures           string    `json:"key_features"`
	Tone                  string    `json:"tone"`
	GeneratedDescription  string    `json:"generated_description"`
	ReadabilityScore      int       `json:"readability_score"`
	SEOScore              int       `json:"seo_score"`
	OverallScore          int       `json:"overall_score"`
	WordCount             int       `json:"word_count"`
	CharacterCount        int       `json:"character_count"`
	SentenceCount         int       `json:"sentence_count"`
	AverageSentenceLength float64   `json:"average_sentence_length"`
	KeywordMentions       int       `json:"keyword_mentions"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// NewDescription builds a record ready to be saved, with a fresh ID and timestamps
func NewDescription(property types.PropertyData, tone types.Tone, text string, result types.ScoreResult) *Description {
	now := time.Now().UTC()
	if tone == "" {
		tone = types.DefaultTone
	}
	return &Description{
		ID:                    uuid.New(),
		Title:                 property.Title,
		PropertyType:          property.Type,
		Location:              property.Location,
		Price:                 property.Price,
		KeyFeatures:           property.Features,
		Tone:                  string(tone),
		GeneratedDescription:  text,
		ReadabilityScore:      result.ReadabilityScore,
		SEOScore:              result.SEOScore,
		OverallScore:          result.OverallScore,
		WordCount:             result.WordCount,
		CharacterCount:        result.CharacterCount,
		SentenceCount:         result.SentenceCount,
		AverageSentenceLength: result.AverageSentenceLength,
		KeywordMentions:       result.KeywordMentions,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// Property returns the property data the description was generated from
func (d *Description) Property() types.PropertyData {
	return types.PropertyData{
		Title:    d.Title,
		Type:     d.PropertyType,
		Location: d.Location,
		Price:    d.Price,
		Features: d.KeyFeatures,
	}
}

// Scores returns the stored scores. Labels are derived from the stored numbers
// rather than persisted, so they always follow the current bands.
func (d *Description) Scores() types.ScoreResult {
	return types.ScoreResult{
		ReadabilityScore:      d.ReadabilityScore,
		SEOScore:              d.SEOScore,
		OverallScore:          d.OverallScore,
		WordCount:             d.WordCount,
		CharacterCount:        d.CharacterCount,
		SentenceCount:         d.SentenceCount,
		AverageSentenceLength: d.AverageSentenceLength,
		KeywordMentions:       d.KeywordMentions,
		ReadabilityLabel:      scoring.ReadabilityLabel(d.ReadabilityScore),
		SEOLabel:              scoring.SEOLabel(d.SEOScore),
	}
}

// ShortDescription returns the first 100 characters of the generated text followed by "..."
// when it is longer than that.
func (d *Description) ShortDescription() string {
	text := d.GeneratedDescription
	if utf8.RuneCountInString(text) <= shortDescriptionLength {
		return text
	}
	return string([]rune(text)[:shortDescriptionLength]) + "..."
}

// clampLimit applies the default and maximum history page sizes
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	return min(limit, MaxHistoryLimit)
}
