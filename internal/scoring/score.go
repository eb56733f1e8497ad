package scoring

import (
	"math"
	"strings"

	"github.com/jonathan/listing-copywriter/internal/types"
)

// Score evaluates a generated description against the property it describes.
// It never fails: empty or malformed text yields low scores, not errors.
func Score(description string, property types.PropertyData) types.ScoreResult {
	words := CountWords(description)
	sentences := CountSentences(description)
	syllables := CountSyllables(description)
	avgSentence := averageSentenceLength(words, sentences)
	descLower := strings.ToLower(description)

	readability := readabilityScore(words, sentences, syllables)
	seo := seoScore(descLower, words, avgSentence, property)

	return types.ScoreResult{
		ReadabilityScore:      readability,
		SEOScore:              seo,
		OverallScore:          OverallScore(readability, seo),
		WordCount:             words,
		CharacterCount:        CountCharacters(description),
		SentenceCount:         sentences,
		AverageSentenceLength: avgSentence,
		KeywordMentions:       keywordMentions(descLower, property),
		ReadabilityLabel:      ReadabilityLabel(readability),
		SEOLabel:              SEOLabel(seo),
	}
}

// OverallScore blends readability and SEO scores with fixed weights.
func OverallScore(readability, seo int) int {
	return int(math.Round(float64(readability)*readabilityWeight + float64(seo)*seoWeight))
}
