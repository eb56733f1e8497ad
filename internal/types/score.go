//nolint:revive // types is a standard Go package name pattern
package types

// ScoreResult is the output of the scoring engine. It is built once per call and never mutated.
type ScoreResult struct {
	ReadabilityScore      int     `json:"readability_score"`
	SEOScore              int     `json:"seo_score"`
	OverallScore          int     `json:"overall_score"`
	WordCount             int     `json:"word_count"`
	CharacterCount        int     `json:"character_count"`
	SentenceCount         int     `json:"sentence_count"`
	AverageSentenceLength float64 `json:"average_sentence_length"`
	KeywordMentions       int     `json:"keyword_mentions"`
	ReadabilityLabel      string  `json:"readability_label"`
	SEOLabel              string  `json:"seo_label"`
}
