package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
)

const schemaFilePerm = 0o644

// GenerateSchemaFile generates a JSON schema file for the configuration
// so editors can validate and complete config files.
func GenerateSchemaFile() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}

	schemaFile := filepath.Join(configDir, "config.schema.json")

	r := new(jsonschema.Reflector)
	schema := r.Reflect(&Config{})

	schema.ID = "https://github.com/bnema/tabtree/config.schema.json"
	schema.Title = "Tabtree Configuration"
	schema.Description = "Configuration schema for tabtree, the tree-tabs engine"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema: %w", err)
	}

	if err := os.WriteFile(schemaFile, data, schemaFilePerm); err != nil {
		return "", fmt.Errorf("failed to write schema file: %w", err)
	}

	return schemaFile, nil
}
