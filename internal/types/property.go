// Package types provides type definitions for structured data used throughout the listing-copywriter system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// PropertyType enumerates the listing categories accepted by the generator.
type PropertyType string

const (
	PropertyTypeHouse      PropertyType = "House"
	PropertyTypeFlat       PropertyType = "Flat"
	PropertyTypeLand       PropertyType = "Land"
	PropertyTypeCommercial PropertyType = "Commercial"
)

// Tone is the style hint forwarded to the generation backend
type Tone string

const (
	ToneFormal Tone = "formal"
	ToneCasual Tone = "casual"
)

// DefaultTone is used when a request does not specify one
const DefaultTone = ToneFormal

// Option is a value/label pair used to populate selection lists
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// PropertyTypes returns the selectable property types in display order
func PropertyTypes() []Option {
	return []Option{
		{Value: string(PropertyTypeHouse), Label: "House"},
		{Value: string(PropertyTypeFlat), Label: "Flat"},
		{Value: string(PropertyTypeLand), Label: "Land"},
		{Value: string(PropertyTypeCommercial), Label: "Commercial"},
	}
}

// Tones returns the selectable tones in display order
func Tones() []Option {
	return []Option{
		{Value: string(ToneFormal), Label: "Professional & Formal"},
		{Value: string(ToneCasual), Label: "Friendly & Casual"},
	}
}

// PropertyData describes a listing. Title and Price are used by the prompt only;
// scoring reads Type, Location and Features.
type PropertyData struct {
	Title    string  `json:"title" validate:"required,max=255"`
	Type     string  `json:"type" validate:"required,oneof=House Flat Land Commercial"`
	Location string  `json:"location" validate:"required,max=255"`
	Price    float64 `json:"price" validate:"gte=0"`
	Features string  `json:"features" validate:"required,min=10"`
}

// Validate validates the PropertyData using the validator.
func (p *PropertyData) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// GenerateRequest is the input to a generation run
type GenerateRequest struct {
	Property PropertyData `json:"property"`
	Tone     Tone         `json:"tone" validate:"omitempty,oneof=formal casual"`
}

// Validate validates the GenerateRequest using the validator.
func (r *GenerateRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ToneOrDefault returns the requested tone, falling back to DefaultTone
func (r *GenerateRequest) ToneOrDefault() Tone {
	if r.Tone == "" {
		return DefaultTone
	}
	return r.Tone
}

// ScoreRequest asks for a score of an existing description
type ScoreRequest struct {
	Description string       `json:"description"`
	Property    PropertyData `json:"property"`
}
