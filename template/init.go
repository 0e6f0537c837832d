package template

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Lumos-Labs-HQ/mockforge/internal/schema"
	"gopkg.in/yaml.v3"
)

// DefaultSchemaJSON exercises every supported type, including nested
// object and array specifications.
const DefaultSchemaJSON = `{
    "primitive_string": {
        "type": "string"
    },
    "string_with_regex": {
        "type": "string",
        "regex": "^[A-Z]{3}[0-9]{2}$"
    },
    "string_with_enum": {
        "type": "string",
        "enum": [
            "red",
            "green",
            "blue"
        ]
    },
    "integer_basic": {
        "type": "integer"
    },
    "integer_with_range": {
        "type": "integer",
        "min": 10,
        "max": 100
    },
    "float_basic": {
        "type": "float"
    },
    "float_with_range": {
        "type": "float",
        "min": 0.5,
        "max": 99.9
    },
    "boolean_field": {
        "type": "boolean"
    },
    "uuid_field": {
        "type": "uuid",
        "unique": true
    },
    "name_field": {
        "type": "name"
    },
    "email_field": {
        "type": "email"
    },
    "phone_field": {
        "type": "phone"
    },
    "date_field": {
        "type": "date",
        "min": "2000-01-01",
        "max": "2030-12-31"
    },
    "image_url_field": {
        "type": "image_url"
    },
    "file_url_field": {
        "type": "file_url"
    },
    "array_of_integers": {
        "type": "array",
        "length": 5,
        "items": {
            "type": "integer",
            "min": 1,
            "max": 50
        }
    },
    "array_of_strings": {
        "type": "array",
        "length": 3,
        "items": {
            "type": "string",
            "enum": [
                "apple",
                "banana",
                "cherry"
            ]
        }
    },
    "nested_object": {
        "type": "object",
        "schema": {
            "street": {
                "type": "string"
            },
            "city": {
                "type": "string"
            },
            "zipcode": {
                "type": "integer",
                "min": 10000,
                "max": 99999
            },
            "coordinates": {
                "type": "object",
                "schema": {
                    "lat": {
                        "type": "float",
                        "min": -90,
                        "max": 90
                    },
                    "lng": {
                        "type": "float",
                        "min": -180,
                        "max": 180
                    }
                }
            }
        }
    }
}
`

func DefaultSchema() (schema.Schema, error) {
	return schema.Decode([]byte(DefaultSchemaJSON))
}

// RenderDefaultSchema returns the default schema document, as YAML when
// asYAML is set.
func RenderDefaultSchema(asYAML bool) ([]byte, error) {
	if !asYAML {
		return []byte(DefaultSchemaJSON), nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(DefaultSchemaJSON), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse default schema: %w", err)
	}
	blockStyle(&doc)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("failed to render default schema: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// blockStyle drops the flow style the JSON source was parsed with, keeping
// the quoting of scalars that need it.
func blockStyle(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style = 0
	}
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" && n.Style == yaml.DoubleQuotedStyle {
		n.Style = 0
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// EnsureSchemaFile writes the default schema to path unless a file already
// exists there. It reports whether the file was created.
func EnsureSchemaFile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to check schema file: %w", err)
	}

	if err := WriteSchemaFile(path); err != nil {
		return false, err
	}
	return true, nil
}

// WriteSchemaFile writes the default schema to path, replacing any existing
// file. The format follows the file extension.
func WriteSchemaFile(path string) error {
	content, err := RenderDefaultSchema(schema.IsYAML(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to create schema file: %w", err)
	}
	return nil
}

func GetConfig(schemaPath string, port int) string {
	return fmt.Sprintf(`{
  "schema_path": %q,
  "count": 1,
  "endpoints": [],
  "generation": {
    "max_unique_attempts": 500,
    "array_length": 3,
    "float_precision": 2,
    "integer": {
      "min": 0,
      "max": 100000
    },
    "float": {
      "min": 0,
      "max": 100
    },
    "date": {
      "min": "2000-01-01",
      "max": "2030-12-31"
    }
  },
  "sink": {
    "timeout": "30s"
  },
  "server": {
    "port": %d
  }
}
`, schemaPath, port)
}

// GetEnvTemplate lists the environment overrides the CLI understands.
func GetEnvTemplate() string {
	return `# MOCKFORGE_SCHEMA_PATH=example-schema.json
# MOCKFORGE_COUNT=10
# MOCKFORGE_ENDPOINTS=http://localhost:8080/ingest
# MOCKFORGE_SEED=42
`
}
