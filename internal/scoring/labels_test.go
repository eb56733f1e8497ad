package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadabilityLabel_Boundaries(t *testing.T) {
	tests := []struct {
		score    int
		expected string
	}{
		{100, "Very Easy"}, {80, "Very Easy"},
		{79, "Easy"}, {70, "Easy"},
		{69, "Standard"}, {60, "Standard"},
		{59, "Moderate"}, {50, "Moderate"},
		{49, "Difficult"}, {30, "Difficult"},
		{29, "Very Difficult"}, {0, "Very Difficult"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ReadabilityLabel(tt.score), "score=%d", tt.score)
	}
}

func TestSEOLabel_Boundaries(t *testing.T) {
	tests := []struct {
		score    int
		expected string
	}{
		{100, "Excellent"}, {90, "Excellent"},
		{89, "Good"}, {75, "Good"},
		{74, "Fair"}, {60, "Fair"},
		{59, "Needs Improvement"}, {40, "Needs Improvement"},
		{39, "Poor"}, {0, "Poor"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, SEOLabel(tt.score), "score=%d", tt.score)
	}
}

func TestScoreColor_Boundaries(t *testing.T) {
	assert.Equal(t, "green", ScoreColor(85))
	assert.Equal(t, "blue", ScoreColor(70))
	assert.Equal(t, "yellow", ScoreColor(50))
	assert.Equal(t, "red", ScoreColor(30))

	assert.Equal(t, "green", ScoreColor(80))
	assert.Equal(t, "blue", ScoreColor(79))
	assert.Equal(t, "blue", ScoreColor(60))
	assert.Equal(t, "yellow", ScoreColor(59))
	assert.Equal(t, "yellow", ScoreColor(40))
	assert.Equal(t, "red", ScoreColor(39))
	assert.Equal(t, "red", ScoreColor(0))
}

// Every score from 0 to 100 maps to exactly one band, and bands never go back up.
func TestLabels_CoverEveryScore(t *testing.T) {
	sets := map[string]struct {
		bands    []band
		fallback string
		fn       func(int) string
	}{
		"readability": {readabilityBands, lowestReadabilityLabel, ReadabilityLabel},
		"seo":         {seoBands, lowestSEOLabel, SEOLabel},
		"color":       {colorBands, lowestColor, ScoreColor},
	}

	for name, set := range sets {
		t.Run(name, func(t *testing.T) {
			order := make(map[string]int, len(set.bands)+1)
			for i, b := range set.bands {
				order[b.label] = i
			}
			order[set.fallback] = len(set.bands)

			prev := -1
			for score := 100; score >= 0; score-- {
				label := set.fn(score)
				rank, ok := order[label]
				assert.True(t, ok, "score %d produced unknown label %q", score, label)
				assert.GreaterOrEqual(t, rank, prev, "score %d went back up a band", score)
				prev = rank
			}
		})
	}
}
