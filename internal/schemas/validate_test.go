package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contactSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name", "email"],
	"properties": {
		"name": {"type": "string"},
		"email": {"type": "string"},
		"company": {"type": "string"}
	}
}`

func TestValidateJSON(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")

	tests := []struct {
		name     string
		jsonFile string
		wantErr  bool
	}{
		{"conforming document", "valid_json.json", false},
		{"missing required field", "invalid_json.json", true},
		{"wrong field type", "type_mismatch.json", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(schemaPath, filepath.Join("testdata", tt.jsonFile))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.NotEmpty(t, ve.Errors)
		})
	}
}

func TestValidateJSON_MissingFiles(t *testing.T) {
	err := ValidateJSON("testdata/no_such_schema.json", filepath.Join("testdata", "valid_json.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = ValidateJSON(filepath.Join("testdata", "valid_schema.json"), "testdata/no_such_document.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_MalformedDocument(t *testing.T) {
	malformed := filepath.Join(t.TempDir(), "malformed.json")
	require.NoError(t, os.WriteFile(malformed, []byte("{ invalid json }"), 0644))

	err := ValidateJSON(filepath.Join("testdata", "valid_schema.json"), malformed)
	assert.Error(t, err)
}

func TestValidateJSON_TemplateSchema(t *testing.T) {
	schemaPath := "../../schemas/email_template.schema.json"
	dir := t.TempDir()

	good := filepath.Join(dir, "template.json")
	require.NoError(t, os.WriteFile(good,
		[]byte(`{"name": "intro", "subject": "Hi [first name]", "body": "Hello"}`), 0644))
	assert.NoError(t, ValidateJSON(schemaPath, good))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"name": "intro"}`), 0644))

	var ve *ValidationError
	require.ErrorAs(t, ValidateJSON(schemaPath, bad), &ve)
	assert.NotEmpty(t, ve.Errors)
}

func TestValidateJSONString(t *testing.T) {
	assert.NoError(t, ValidateJSONString(contactSchema, `{"name": "Ada", "email": "ada@acme.com"}`))

	var ve *ValidationError
	err := ValidateJSONString(contactSchema, `{"company": "Acme"}`)
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 2)
}

func TestValidateJSONString_BrokenSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)
	require.Error(t, err)

	var le *SchemaLoadError
	if errors.As(err, &le) {
		assert.Contains(t, le.Error(), "failed to load schema")
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "name", Message: "is required"},
		{Field: "email", Message: "must be a string"},
	}}
	msg := err.Error()
	assert.Contains(t, msg, "validation failed")
	assert.Contains(t, msg, "name")
	assert.Contains(t, msg, "email")
}

func TestResolveSchemaPath(t *testing.T) {
	// Reachable from this package's directory by walking up to the repo root.
	assert.NotEmpty(t, ResolveSchemaPath(filepath.Join("schemas", "email_template.schema.json")))
	assert.Empty(t, ResolveSchemaPath("schemas/no_such_schema.json"))
}
