package scoring

import (
	"strings"

	"github.com/jonathan/listing-copywriter/internal/types"
)

// KeywordMentions counts identity terms found in the description: one for the property
// type and one for every location part present. Unlike the SEO location factor, every
// matching part is counted.
func KeywordMentions(description string, property types.PropertyData) int {
	return keywordMentions(strings.ToLower(description), property)
}

func keywordMentions(descLower string, property types.PropertyData) int {
	mentions := 0
	if mentionsType(descLower, property.Type) {
		mentions++
	}
	return mentions + countLocationMentions(descLower, property.Location, false)
}
