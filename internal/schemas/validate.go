// Package schemas validates JSON documents against the embedded wire-format schemas.
package schemas

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	schemafiles "github.com/jonathan/profile-optimizer/schemas"
)

// Schema names
const (
	ProfileInput    = "profile_input"
	JobContext      = "job_context"
	AnalysisReport  = "analysis_report"
	AnalysisRequest = "analysis_request"
	Policy          = "policy"
)

const schemaSuffix = ".schema.json"

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s validation failed:", ve.Schema)
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "\n  %d. %s: %s", i+1, err.Field, err.Message)
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or compiling the schema itself
type SchemaLoadError struct {
	Schema  string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Schema, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Schema, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var (
	compiled   = make(map[string]*gojsonschema.Schema)
	compiledMu sync.Mutex
)

// Names lists the embedded schemas.
func Names() ([]string, error) {
	entries, err := fs.Glob(schemafiles.FS, "*"+schemaSuffix)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e, schemaSuffix))
	}
	sort.Strings(names)
	return names, nil
}

// load compiles a schema once, registering every other embedded schema for $ref resolution.
func load(name string) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()
	if s, ok := compiled[name]; ok {
		return s, nil
	}

	main, err := schemafiles.FS.ReadFile(name + schemaSuffix)
	if err != nil {
		return nil, &SchemaLoadError{Schema: name, Message: "schema not found", Cause: err}
	}

	names, err := Names()
	if err != nil {
		return nil, &SchemaLoadError{Schema: name, Message: "failed to list schemas", Cause: err}
	}
	loader := gojsonschema.NewSchemaLoader()
	for _, other := range names {
		if other == name {
			continue
		}
		data, err := schemafiles.FS.ReadFile(other + schemaSuffix)
		if err != nil {
			return nil, &SchemaLoadError{Schema: other, Message: "failed to read schema", Cause: err}
		}
		if err := loader.AddSchemas(gojsonschema.NewBytesLoader(data)); err != nil {
			return nil, &SchemaLoadError{Schema: other, Message: "failed to register schema", Cause: err}
		}
	}

	schema, err := loader.Compile(gojsonschema.NewBytesLoader(main))
	if err != nil {
		return nil, &SchemaLoadError{Schema: name, Message: "failed to compile schema", Cause: err}
	}
	compiled[name] = schema
	return schema, nil
}

// Validate validates a JSON document against the named schema.
func Validate(name string, document []byte) error {
	schema, err := load(name)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("failed to read %s document: %w", name, err)
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: name,
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

// ValidateValue marshals v and validates it against the named schema.
func ValidateValue(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	return Validate(name, data)
}

// ValidateFile validates a JSON file against the named schema.
func ValidateFile(name, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Validate(name, data)
}
