// Package schemas embeds the JSON Schemas for listing input files.
package schemas

import "embed"

// Schema file names
const (
	PropertyData    = "property_data.schema.json"
	GenerateRequest = "generate_request.schema.json"
)

// FS holds every *.schema.json file in this directory
//
//go:embed *.schema.json
var FS embed.FS
