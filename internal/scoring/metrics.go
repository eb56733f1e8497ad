package scoring

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Words splits text into whitespace-delimited tokens that contain at least one letter or digit.
// Hyphenated and apostrophed tokens count as a single word.
func Words(text string) []string {
	fields := strings.Fields(text)
	words := fields[:0]
	for _, f := range fields {
		if strings.IndexFunc(f, isWordRune) >= 0 {
			words = append(words, f)
		}
	}
	return words
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// CountWords returns the number of word tokens in text
func CountWords(text string) int {
	return len(Words(text))
}

// CountCharacters returns the number of Unicode code points in text, whitespace included
func CountCharacters(text string) int {
	return utf8.RuneCountInString(text)
}

// SplitSentences splits text on whitespace that follows '.', '!' or '?'.
// Fragments are trimmed and empty ones dropped.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	var prev rune
	inBreak := false

	for i, r := range text {
		switch {
		case unicode.IsSpace(r) && (inBreak || isTerminal(prev)):
			if !inBreak {
				sentences = appendTrimmed(sentences, text[start:i])
				inBreak = true
			}
			start = i + utf8.RuneLen(r)
		default:
			inBreak = false
		}
		if !inBreak {
			prev = r
		}
	}
	return appendTrimmed(sentences, text[start:])
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func appendTrimmed(sentences []string, fragment string) []string {
	if s := strings.TrimSpace(fragment); s != "" {
		return append(sentences, s)
	}
	return sentences
}

// CountSentences returns the number of sentences in text. Empty text has zero sentences.
func CountSentences(text string) int {
	return len(SplitSentences(text))
}

// AverageSentenceLength returns words per sentence rounded to one decimal place.
func AverageSentenceLength(text string) float64 {
	return averageSentenceLength(CountWords(text), CountSentences(text))
}

func averageSentenceLength(words, sentences int) float64 {
	avg := float64(words) / float64(max(1, sentences))
	return math.Round(avg*averageLengthPrecision) / averageLengthPrecision
}

// CountSyllables approximates the number of syllables in text.
//
// Each word is lower-cased and reduced to its letters, then scored as the number of
// [aeiouy] runs, minus one for a trailing consonant+"e", with a floor of one. This is a
// heuristic: loanwords, abbreviations and vowel clusters spanning syllables are misjudged.
func CountSyllables(text string) int {
	total := 0
	for _, word := range Words(text) {
		total += wordSyllables(word)
	}
	return total
}

func wordSyllables(word string) int {
	letters := []rune(strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, word))

	count := 0
	inGroup := false
	for _, r := range letters {
		vowel := isSyllableVowel(r)
		if vowel && !inGroup {
			count++
		}
		inGroup = vowel
	}

	if n := len(letters); n >= 2 && letters[n-1] == 'e' && !isSilentEVowel(letters[n-2]) {
		count--
	}

	return max(1, count)
}

func isSyllableVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

// isSilentEVowel reports whether r prevents a trailing "e" from being silent. 'y' is
// deliberately absent: "bye" loses its final e.
func isSilentEVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
