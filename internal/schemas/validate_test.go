package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	embedded "github.com/jonathan/listing-copywriter/schemas"
)

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	names := make([]string, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		names = append(names, fe.Field)
	}
	return names
}

func TestNames(t *testing.T) {
	names, err := Names()
	require.NoError(t, err)
	assert.Equal(t, []string{embedded.GenerateRequest, embedded.PropertyData}, names)
}

func TestValidate_Property(t *testing.T) {
	tests := []struct {
		name       string
		doc        string
		wantFields []string
	}{
		{
			name: "valid",
			doc:  `{"title":"Duplex","type":"House","location":"Lekki","price":1000,"features":"Swimming pool, gym"}`,
		},
		{
			name: "price optional",
			doc:  `{"title":"Duplex","type":"Flat","location":"Lekki","features":"Swimming pool, gym"}`,
		},
		{
			name:       "missing title",
			doc:        `{"type":"House","location":"Lekki","features":"Swimming pool, gym"}`,
			wantFields: []string{"(root)"},
		},
		{
			name:       "unknown type",
			doc:        `{"title":"Duplex","type":"Castle","location":"Lekki","features":"Swimming pool, gym"}`,
			wantFields: []string{"type"},
		},
		{
			name:       "short features",
			doc:        `{"title":"Duplex","type":"House","location":"Lekki","features":"pool"}`,
			wantFields: []string{"features"},
		},
		{
			name:       "negative price",
			doc:        `{"title":"Duplex","type":"House","location":"Lekki","price":-1,"features":"Swimming pool, gym"}`,
			wantFields: []string{"price"},
		},
		{
			name:       "price as string",
			doc:        `{"title":"Duplex","type":"House","location":"Lekki","price":"1000","features":"Swimming pool, gym"}`,
			wantFields: []string{"price"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(embedded.PropertyData, []byte(tt.doc))
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantFields, fieldNames(t, err))
		})
	}
}

func TestValidate_GenerateRequestResolvesPropertyRef(t *testing.T) {
	valid := `{"property":{"title":"Duplex","type":"House","location":"Lekki","features":"Swimming pool, gym"},"tone":"casual"}`
	assert.NoError(t, Validate(embedded.GenerateRequest, []byte(valid)))

	badProperty := `{"property":{"title":"Duplex","type":"Castle","location":"Lekki","features":"Swimming pool, gym"}}`
	assert.Equal(t, []string{"property.type"}, fieldNames(t, Validate(embedded.GenerateRequest, []byte(badProperty))))

	badTone := `{"property":{"title":"Duplex","type":"House","location":"Lekki","features":"Swimming pool, gym"},"tone":"loud"}`
	assert.Equal(t, []string{"tone"}, fieldNames(t, Validate(embedded.GenerateRequest, []byte(badTone))))
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("missing.schema.json", []byte(`{}`))
	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, err.Error(), "unknown schema")
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := Validate(embedded.PropertyData, []byte(`{not json`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse document")
}

func TestValidateFile(t *testing.T) {
	assert.NoError(t, ValidateFile(embedded.PropertyData, filepath.Join("testdata", "property.json")))

	err := ValidateFile(embedded.PropertyData, filepath.Join("testdata", "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestValidateJSON_ValidJSON(t *testing.T) {
	err := ValidateJSON(filepath.Join("testdata", "valid_schema.json"), filepath.Join("testdata", "valid_json.json"))
	assert.NoError(t, err)
}

func TestValidateJSON_InvalidJSON(t *testing.T) {
	for _, doc := range []string{"invalid_json.json", "type_mismatch.json"} {
		t.Run(doc, func(t *testing.T) {
			err := ValidateJSON(filepath.Join("testdata", "valid_schema.json"), filepath.Join("testdata", doc))
			assert.NotEmpty(t, fieldNames(t, err))
		})
	}
}

func TestValidateJSON_NotFound(t *testing.T) {
	err := ValidateJSON("testdata/nonexistent_schema.json", filepath.Join("testdata", "valid_json.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = ValidateJSON(filepath.Join("testdata", "valid_schema.json"), "testdata/nonexistent_json.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "type", Message: "must be one of the following"},
		{Field: "features", Message: "too short"},
	}}
	assert.Equal(t, "validation failed:\n  1. type: must be one of the following\n  2. features: too short\n", err.Error())
}
