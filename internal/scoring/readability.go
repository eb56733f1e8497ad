package scoring

import "math"

// ReadabilityScore computes a Flesch Reading Ease score clamped to [0,100].
// Text without words scores 0.
func ReadabilityScore(text string) int {
	return readabilityScore(CountWords(text), CountSentences(text), CountSyllables(text))
}

func readabilityScore(words, sentences, syllables int) int {
	if words == 0 {
		return 0
	}

	w := float64(words)
	score := fleschBase -
		fleschSentenceCoef*(w/float64(max(1, sentences))) -
		fleschSyllableCoef*(float64(syllables)/w)

	return clamp(int(math.Round(score)))
}

func clamp(score int) int {
	return min(maxScore, max(minScore, score))
}
