package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed policy-schema.json
var policySchema []byte

// ValidatePolicy validates raw policy file content (YAML or JSON) against
// the embedded policy schema before it is unmarshalled.
func ValidatePolicy(raw []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid policy document: %w", err)
	}
	if doc == nil {
		// An empty policy file means "all defaults".
		return nil
	}

	jsonDoc, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to normalize policy document: %w", err)
	}

	schemaLoader := gojsonschema.NewBytesLoader(policySchema)
	documentLoader := gojsonschema.NewBytesLoader(jsonDoc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		var errors []string
		for _, desc := range result.Errors() {
			errors = append(errors, desc.String())
		}
		return fmt.Errorf("policy validation failed:\n%s", strings.Join(errors, "\n"))
	}
	return nil
}
