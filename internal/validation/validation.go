package validation

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed *.json
var schemaFS embed.FS

// Embedded schema names
const (
	ConfigSchema   = "langid-config.json"
	ManifestSchema = "languages-manifest.json"
)

// ValidationError represents a schema validation error
type ValidationError struct {
	Errors []string
}

func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation failed: %s", e.Errors[0])
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// ValidateJSON validates a decoded document against an embedded JSON schema.
// data may come from any decoder; it is normalized through JSON first so
// integer types from YAML and TOML decoders are accepted.
func ValidateJSON(schemaName string, data interface{}) error {
	schemaData, err := schemaFS.ReadFile(schemaName)
	if err != nil {
		return fmt.Errorf("failed to load schema %s: %w", schemaName, err)
	}

	schema, err := jsonschema.CompileString(schemaName, string(schemaData))
	if err != nil {
		return fmt.Errorf("failed to compile schema %s: %w", schemaName, err)
	}

	normalized, err := toJSONValue(data)
	if err != nil {
		return err
	}

	if err := schema.Validate(normalized); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return ValidationError{Errors: collectMessages(validationErr)}
		}
		return ValidationError{Errors: []string{err.Error()}}
	}

	return nil
}

// collectMessages flattens nested causes into leaf messages
func collectMessages(err *jsonschema.ValidationError) []string {
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		return []string{fmt.Sprintf("%s: %s", location, err.Message)}
	}
	var messages []string
	for _, cause := range err.Causes {
		messages = append(messages, collectMessages(cause)...)
	}
	return messages
}

func toJSONValue(data interface{}) (interface{}, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize document: %w", err)
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to normalize document: %w", err)
	}
	return out, nil
}

// ValidateYAML validates YAML (or JSON, which is valid YAML) content
func ValidateYAML(schemaName string, content []byte) error {
	var data interface{}
	if err := yaml.Unmarshal(content, &data); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	return ValidateJSON(schemaName, data)
}

// ValidateTOML validates TOML content
func ValidateTOML(schemaName string, content []byte) error {
	var data map[string]interface{}
	if err := toml.Unmarshal(content, &data); err != nil {
		return fmt.Errorf("failed to parse TOML: %w", err)
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	return ValidateJSON(schemaName, data)
}

// ValidateContent picks the parser from the file extension of path.
// Unknown extensions are parsed as YAML.
func ValidateContent(schemaName, path string, content []byte) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ValidateTOML(schemaName, content)
	}
	return ValidateYAML(schemaName, content)
}

// Schema returns the content of an embedded schema
func Schema(name string) ([]byte, error) {
	data, err := schemaFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("unknown schema %s: %w", name, err)
	}
	return data, nil
}

// ListAvailableSchemas returns a list of available schema filenames
func ListAvailableSchemas() ([]string, error) {
	entries, err := schemaFS.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema directory: %w", err)
	}

	var schemas []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			schemas = append(schemas, entry.Name())
		}
	}

	return schemas, nil
}
