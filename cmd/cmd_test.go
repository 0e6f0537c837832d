package cmd

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Lumos-Labs-HQ/mockforge/internal/config"
	"github.com/Lumos-Labs-HQ/mockforge/internal/generator"
	"github.com/goccy/go-json"
)

func TestPipeWritesCompactBatch(t *testing.T) {
	in := strings.NewReader(`{"schema": {"id": {"type": "uuid"}, "age": {"type": "integer", "min": 18, "max": 18}}, "count": 3}`)
	var out, errOut bytes.Buffer

	if err := pipe(context.Background(), in, &out, &errOut, generator.DefaultOptions()); err != nil {
		t.Fatalf("pipe failed: %v (stderr: %s)", err, errOut.String())
	}
	if errOut.Len() != 0 {
		t.Errorf("Expected no stderr output, got %q", errOut.String())
	}

	line := strings.TrimSuffix(out.String(), "\n")
	if strings.Contains(line, "\n") || strings.Contains(line, "    ") {
		t.Errorf("Expected compact single-line output, got %q", out.String())
	}
	var records []map[string]any
	if err := json.Unmarshal([]byte(line), &records); err != nil {
		t.Fatalf("Invalid output: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("Expected 3 records, got %d", len(records))
	}
}

func TestPipeReportsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"malformed", `not json`, "ERROR: schema error"},
		{"unsupported type", `{"schema": {"a": {"type": "money"}}}`, `ERROR: unsupported type "money" at a`},
		{"exhausted", `{"schema": {"t": {"type": "string", "enum": ["a", "b"], "unique": true}}, "count": 3}`, "ERROR: record 3: uniqueness exhausted at t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			err := pipe(context.Background(), strings.NewReader(tt.input), &out, &errOut, generator.DefaultOptions())
			if !errors.Is(err, ErrReported) {
				t.Fatalf("Expected ErrReported, got %v", err)
			}
			if out.Len() != 0 {
				t.Errorf("Expected no stdout output, got %q", out.String())
			}
			if !strings.HasPrefix(errOut.String(), tt.want) {
				t.Errorf("Expected stderr to start with %q, got %q", tt.want, errOut.String())
			}
		})
	}
}

func TestGenerateCreatesSchemaAndDelivers(t *testing.T) {
	var hits atomic.Int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer api.Close()

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.SchemaPath = filepath.Join(dir, "example-schema.json")
	cfg.Count = 4
	cfg.Endpoints = []string{down.URL, api.URL}

	var stdout bytes.Buffer
	if err := generate(context.Background(), cfg, "", &stdout); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := os.Stat(cfg.SchemaPath); err != nil {
		t.Errorf("Expected the example schema to be created: %v", err)
	}
	var records []map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &records); err != nil {
		t.Fatalf("Invalid output: %v", err)
	}
	if len(records) != 4 {
		t.Errorf("Expected 4 records, got %d", len(records))
	}
	if !strings.Contains(stdout.String(), "\n    {") {
		t.Errorf("Expected indented output, got %s", stdout.String())
	}
	if hits.Load() != 1 {
		t.Errorf("Expected the healthy endpoint to receive the batch once, got %d", hits.Load())
	}
}

func TestGenerateWritesOutputFile(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "users.yaml")
	if err := os.WriteFile(schemaPath, []byte("id:\n  type: uuid\nemail:\n  type: email\n"), 0644); err != nil {
		t.Fatalf("Failed to write schema: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.SchemaPath = schemaPath
	cfg.Count = 2
	output := filepath.Join(dir, "out.json")

	var stdout bytes.Buffer
	if err := generate(context.Background(), cfg, output, &stdout); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("Expected nothing on stdout, got %q", stdout.String())
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("Invalid output: %v", err)
	}
	if len(records) != 2 || records[0]["email"] == nil {
		t.Errorf("Unexpected records: %v", records)
	}
}

func TestInitializeProject(t *testing.T) {
	dir := t.TempDir()

	if err := initializeProject(dir, "example-schema.yaml", false); err != nil {
		t.Fatalf("initializeProject failed: %v", err)
	}
	for _, name := range []string{"example-schema.yaml", config.FileName, ".env.example"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected %s to be created: %v", name, err)
		}
	}

	if err := initializeProject(dir, "example-schema.yaml", false); err == nil {
		t.Error("Expected second initialization to fail, but it succeeded")
	}
	if err := initializeProject(dir, "example-schema.yaml", true); err != nil {
		t.Errorf("Expected --force to succeed, got %v", err)
	}
}
