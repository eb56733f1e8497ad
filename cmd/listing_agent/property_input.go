package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/listing-copywriter/internal/schemas"
	"github.com/jonathan/listing-copywriter/internal/types"
	embedded "github.com/jonathan/listing-copywriter/schemas"
)

// propertyInput collects property data either from a JSON file or from flags
type propertyInput struct {
	file     string
	title    string
	kind     string
	location string
	price    float64
	features string
}

func (p *propertyInput) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.file, "property", "p", "", "Path to a property JSON file (validated against the property schema)")
	cmd.Flags().StringVar(&p.title, "title", "", "Property title")
	cmd.Flags().StringVar(&p.kind, "type", "", "Property type: House, Flat, Land or Commercial")
	cmd.Flags().StringVar(&p.location, "location", "", "Property location")
	cmd.Flags().Float64Var(&p.price, "price", 0, "Asking price in naira")
	cmd.Flags().StringVar(&p.features, "features", "", "Key features, comma separated")
}

// usesFlags reports whether any field flag was given
func (p *propertyInput) usesFlags() bool {
	return p.title != "" || p.kind != "" || p.location != "" || p.price != 0 || p.features != ""
}

// resolve returns the property. A file and field flags are mutually exclusive.
func (p *propertyInput) resolve() (types.PropertyData, error) {
	if p.file != "" {
		if p.usesFlags() {
			return types.PropertyData{}, fmt.Errorf("--property cannot be combined with --title/--type/--location/--price/--features")
		}
		return loadPropertyFile(p.file)
	}
	return types.PropertyData{
		Title:    p.title,
		Type:     p.kind,
		Location: p.location,
		Price:    p.price,
		Features: p.features,
	}, nil
}

// loadPropertyFile reads and schema-validates a property JSON file
func loadPropertyFile(path string) (types.PropertyData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.PropertyData{}, fmt.Errorf("failed to read property file: %w", err)
	}
	if err := schemas.Validate(embedded.PropertyData, data); err != nil {
		return types.PropertyData{}, fmt.Errorf("invalid property file %s: %w", path, err)
	}

	var property types.PropertyData
	if err := json.Unmarshal(data, &property); err != nil {
		return types.PropertyData{}, fmt.Errorf("failed to parse property file: %w", err)
	}
	return property, nil
}
