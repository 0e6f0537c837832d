package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

// DefaultCount is the record count of a request that does not name one.
const DefaultCount = 1

// Request is a generation request: a schema and the number of records.
type Request struct {
	Schema Schema
	Count  int
}

// DecodeRequest parses {"schema": {...}, "count": N}. A missing count
// defaults to DefaultCount; a non-positive count is kept and yields an empty
// batch.
func DecodeRequest(data []byte) (Request, error) {
	var raw struct {
		Schema json.RawMessage `json:"schema"`
		Count  json.RawMessage `json:"count"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Request{}, &SchemaError{Reason: fmt.Sprintf("malformed request: %v", err)}
	}
	if absent(raw.Schema) {
		return Request{}, &SchemaError{Reason: `request requires "schema"`}
	}

	s, err := Decode(raw.Schema)
	if err != nil {
		return Request{}, err
	}

	count := DefaultCount
	if n, err := parseIntBound(raw.Count, "count", Path{}); err != nil {
		return Request{}, err
	} else if n != nil {
		count = int(*n)
	}

	return Request{Schema: s, Count: count}, nil
}

// IsYAML reports whether path names a YAML document.
func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads a schema file. YAML is selected by extension, anything else is
// read as JSON.
func Load(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	var s Schema
	if IsYAML(path) {
		s, err = DecodeYAML(data)
	} else {
		s, err = Decode(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema file %s: %w", path, err)
	}
	return s, nil
}
