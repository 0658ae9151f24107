// Package schemas provides JSON Schema validation for the documents accepted by the CLI.
package schemas

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Names of the embedded schemas
const (
	Dataset      = "dataset"
	MatchRequest = "match_request"
)

//go:embed json/*.schema.json
var embedded embed.FS

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
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

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Schema returns the raw content of an embedded schema
func Schema(name string) ([]byte, error) {
	data, err := embedded.ReadFile("json/" + name + ".schema.json")
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "unknown schema", Cause: err}
	}
	return data, nil
}

// Validate validates a JSON document against the named embedded schema
func Validate(name string, document []byte) error {
	schema, err := Schema(name)
	if err != nil {
		return err
	}
	return validate(name, gojsonschema.NewBytesLoader(schema), gojsonschema.NewBytesLoader(document))
}

// ValidateFile validates a JSON file against the named embedded schema and returns its content
func ValidateFile(name, jsonPath string) ([]byte, error) {
	jsonAbsPath, err := filepath.Abs(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve JSON path: %w", err)
	}

	data, err := os.ReadFile(jsonAbsPath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("JSON file not found: %s", jsonAbsPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", jsonAbsPath, err)
	}

	if err := Validate(name, data); err != nil {
		return nil, err
	}
	return data, nil
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	return validate("(string schema)",
		gojsonschema.NewStringLoader(schemaContent),
		gojsonschema.NewStringLoader(jsonContent))
}

func validate(schemaName string, schemaLoader, documentLoader gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		// Either the schema or the document could not be parsed
		return &SchemaLoadError{
			Path:    schemaName,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	// Build structured error
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
