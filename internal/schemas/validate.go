// Package schemas validates listing input files against the embedded JSON Schemas.
package schemas

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	embedded "github.com/jonathan/listing-copywriter/schemas"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var (
	compileOnce sync.Once
	compiled    map[string]*gojsonschema.Schema
	compileErr  error
)

// compileEmbedded compiles every embedded schema once. All schemas are registered
// with the loader first so cross-file $refs resolve without network access.
func compileEmbedded() (map[string]*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		names, err := fs.Glob(embedded.FS, "*.schema.json")
		if err != nil {
			compileErr = err
			return
		}
		sort.Strings(names)

		raw := make(map[string][]byte, len(names))
		for _, name := range names {
			data, err := embedded.FS.ReadFile(name)
			if err != nil {
				compileErr = &SchemaLoadError{Path: name, Message: "read failed", Cause: err}
				return
			}
			raw[name] = data
		}

		compiled = make(map[string]*gojsonschema.Schema, len(names))
		for _, name := range names {
			loader := gojsonschema.NewSchemaLoader()
			for other, data := range raw {
				if other == name {
					continue
				}
				if err := loader.AddSchemas(gojsonschema.NewBytesLoader(data)); err != nil {
					compileErr = &SchemaLoadError{Path: other, Message: "invalid schema", Cause: err}
					return
				}
			}
			schema, err := loader.Compile(gojsonschema.NewBytesLoader(raw[name]))
			if err != nil {
				compileErr = &SchemaLoadError{Path: name, Message: "compile failed", Cause: err}
				return
			}
			compiled[name] = schema
		}
	})
	return compiled, compileErr
}

// Names lists the embedded schema files
func Names() ([]string, error) {
	schemas, err := compileEmbedded()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Validate checks a JSON document against one of the embedded schemas
func Validate(schemaName string, document []byte) error {
	schemas, err := compileEmbedded()
	if err != nil {
		return err
	}
	schema, ok := schemas[schemaName]
	if !ok {
		return &SchemaLoadError{Path: schemaName, Message: "unknown schema"}
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}
	return resultError(result)
}

// ValidateFile reads path and validates it against an embedded schema
func ValidateFile(schemaName, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Validate(schemaName, data)
}

// ValidateJSON validates a JSON file against a JSON Schema file on disk
func ValidateJSON(schemaPath, jsonPath string) error {
	schemaAbsPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to resolve schema path: %w", err)
	}
	jsonAbsPath, err := filepath.Abs(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}

	if _, err := os.Stat(schemaAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("schema file not found: %s", schemaAbsPath)
	}
	if _, err := os.Stat(jsonAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("JSON file not found: %s", jsonAbsPath)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewReferenceLoader("file://"+schemaAbsPath),
		gojsonschema.NewReferenceLoader("file://"+jsonAbsPath),
	)
	if err != nil {
		return &SchemaLoadError{Path: schemaAbsPath, Message: "schema validation failed during load", Cause: err}
	}
	return resultError(result)
}

func resultError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
