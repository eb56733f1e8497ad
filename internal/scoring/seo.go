package scoring

import (
	"strings"
	"unicode"

	"github.com/jonathan/listing-copywriter/internal/types"
)

// SEOScore computes the additive SEO heuristic for a description, capped at 100.
func SEOScore(description string, property types.PropertyData) int {
	words := CountWords(description)
	return seoScore(strings.ToLower(description), words, averageSentenceLength(words, CountSentences(description)), property)
}

func seoScore(descLower string, words int, avgSentence float64, property types.PropertyData) int {
	score := lengthPoints(words)

	if mentionsType(descLower, property.Type) {
		score += typeMentionPoints
	}
	if countLocationMentions(descLower, property.Location, true) > 0 {
		score += locationMentionPoints
	}
	if containsAny(descLower, valueKeywords) {
		score += valueLanguagePoints
	}
	if containsAny(descLower, callToActionKeywords) {
		score += callToActionPoints
	}
	score += featurePoints(descLower, property.Features)
	score += sentenceStructurePoints(avgSentence)

	return min(maxScore, score)
}

func lengthPoints(words int) int {
	switch {
	case words >= optimalMinWords && words <= optimalMaxWords:
		return optimalLengthPoints
	case words >= shortMinWords && words < optimalMinWords:
		return shortLengthPoints
	case words > optimalMaxWords && words <= longMaxWords:
		return longLengthPoints
	default:
		return otherLengthPoints
	}
}

// mentionsType reports whether the lower-cased description contains the property type.
// An empty type is never a mention.
func mentionsType(descLower, propertyType string) bool {
	needle := strings.ToLower(strings.TrimSpace(propertyType))
	return needle != "" && strings.Contains(descLower, needle)
}

// countLocationMentions counts comma-separated location parts found in the description.
// With firstOnly set it stops at the first match.
func countLocationMentions(descLower, location string, firstOnly bool) int {
	count := 0
	for _, part := range strings.Split(location, ",") {
		needle := strings.ToLower(strings.TrimSpace(part))
		if needle == "" || !strings.Contains(descLower, needle) {
			continue
		}
		count++
		if firstOnly {
			break
		}
	}
	return count
}

func containsAny(descLower string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(descLower, keyword) {
			return true
		}
	}
	return false
}

// featurePoints rewards descriptions that echo the listed features. Only feature words
// longer than four letters are considered; repeated words count each time.
func featurePoints(descLower, features string) int {
	matched := 0
	for _, word := range featureWords(features) {
		if len([]rune(word)) >= featureMinWordLength && strings.Contains(descLower, word) {
			matched++
		}
	}

	switch {
	case matched >= featureStrongMatchCount:
		return featureStrongPoints
	case matched >= 1:
		return featureWeakPoints
	default:
		return 0
	}
}

// featureWords splits a feature list on whitespace and commas into lower-cased words
// tokenized like Words, so "Self-contained, 24/7 security" yields self-contained, security.
func featureWords(features string) []string {
	var words []string
	fields := strings.FieldsFunc(strings.ToLower(features), func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	for _, f := range fields {
		word := strings.TrimFunc(f, func(r rune) bool { return !isWordRune(r) })
		if strings.IndexFunc(word, unicode.IsLetter) >= 0 {
			words = append(words, word)
		}
	}
	return words
}

func sentenceStructurePoints(avg float64) int {
	switch {
	case avg >= idealSentenceMin && avg <= idealSentenceMax:
		return idealSentencePoints
	case avg >= acceptableSentenceMin && avg <= acceptableSentenceMax:
		return acceptableSentencePts
	default:
		return 0
	}
}
