package scoring

// band maps every score at or above threshold to label
type band struct {
	threshold int
	label     string
}

// Bands are scanned top-down; the first satisfied threshold wins.
var (
	readabilityBands = []band{
		{80, "Very Easy"},
		{70, "Easy"},
		{60, "Standard"},
		{50, "Moderate"},
		{30, "Difficult"},
	}
	seoBands = []band{
		{90, "Excellent"},
		{75, "Good"},
		{60, "Fair"},
		{40, "Needs Improvement"},
	}
	colorBands = []band{
		{80, "green"},
		{60, "blue"},
		{40, "yellow"},
	}
)

const (
	lowestReadabilityLabel = "Very Difficult"
	lowestSEOLabel         = "Poor"
	lowestColor            = "red"
)

func lookup(bands []band, score int, fallback string) string {
	for _, b := range bands {
		if score >= b.threshold {
			return b.label
		}
	}
	return fallback
}

// ReadabilityLabel returns the human-readable band for a readability score
func ReadabilityLabel(score int) string {
	return lookup(readabilityBands, score, lowestReadabilityLabel)
}

// SEOLabel returns the human-readable band for an SEO score
func SEOLabel(score int) string {
	return lookup(seoBands, score, lowestSEOLabel)
}

// ScoreColor returns the display color for any 0-100 score
func ScoreColor(score int) string {
	return lookup(colorBands, score, lowestColor)
}
