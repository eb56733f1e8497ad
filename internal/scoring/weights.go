// Package scoring computes readability, SEO and text statistics for generated listing copy.
//
// Every function in this package is pure and total: it performs no I/O, keeps no state,
// and returns a result for any input, including empty text.
package scoring

// Aggregation weights. They sum to 1 so the overall score stays in [0,100].
const (
	readabilityWeight = 0.4
	seoWeight         = 0.6
)

// Flesch Reading Ease coefficients
const (
	fleschBase             = 206.835
	fleschSentenceCoef     = 1.015
	fleschSyllableCoef     = 84.6
	minScore               = 0
	maxScore               = 100
	averageLengthPrecision = 10 // one decimal place
)

// SEO length factor
const (
	optimalMinWords = 150
	optimalMaxWords = 250
	shortMinWords   = 100
	longMaxWords    = 300

	optimalLengthPoints = 30
	shortLengthPoints   = 20
	longLengthPoints    = 25
	otherLengthPoints   = 10
)

// SEO keyword factors
const (
	typeMentionPoints     = 15
	locationMentionPoints = 15
	valueLanguagePoints   = 10
	callToActionPoints    = 10
)

// SEO feature echo factor
const (
	featureMinWordLength    = 5 // words must be longer than 4 characters
	featureStrongMatchCount = 3
	featureStrongPoints     = 10
	featureWeakPoints       = 5
)

// SEO sentence structure factor
const (
	idealSentenceMin      = 15.0
	idealSentenceMax      = 25.0
	acceptableSentenceMin = 10.0
	acceptableSentenceMax = 30.0
	idealSentencePoints   = 10
	acceptableSentencePts = 5
)

var (
	valueKeywords        = []string{"investment", "value", "price", "affordable", "premium", "luxury"}
	callToActionKeywords = []string{"contact", "call", "schedule", "visit", "inquire", "reach out"}
)
