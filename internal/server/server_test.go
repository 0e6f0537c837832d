package server

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Lumos-Labs-HQ/mockforge/internal/config"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := New(config.DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return srv
}

func do(t *testing.T, srv *Server, method, target, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := srv.App().Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return resp.StatusCode, data
}

func TestGenerate(t *testing.T) {
	srv := newTestServer(t)
	status, body := do(t, srv, "POST", "/generate",
		`{"schema": {"id": {"type": "uuid"}, "age": {"type": "integer", "min": 18, "max": 18}}, "count": 3}`)

	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", status, body)
	}
	var records []map[string]any
	if err := json.Unmarshal(body, &records); err != nil {
		t.Fatalf("Invalid response: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	for _, rec := range records {
		if rec["age"] != float64(18) {
			t.Errorf("Expected age 18, got %v", rec["age"])
		}
	}
	if !strings.HasPrefix(string(body), `[{"id":`) {
		t.Errorf("Expected keys in schema order, got %s", body)
	}
}

func TestGenerateSeedIsReproducible(t *testing.T) {
	srv := newTestServer(t)
	req := `{"schema": {"name": {"type": "name"}, "n": {"type": "float"}}, "count": 4}`

	_, first := do(t, srv, "POST", "/generate?seed=7", req)
	_, second := do(t, srv, "POST", "/generate?seed=7", req)
	if string(first) != string(second) {
		t.Errorf("Expected identical responses:\n%s\n%s", first, second)
	}

	status, _ := do(t, srv, "POST", "/generate?seed=abc", req)
	if status != fiber.StatusBadRequest {
		t.Errorf("Expected 400 for a bad seed, got %d", status)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed body", `{"schema":`, fiber.StatusBadRequest},
		{"missing schema", `{"count": 2}`, fiber.StatusBadRequest},
		{"unknown type", `{"schema": {"a": {"type": "money"}}}`, fiber.StatusBadRequest},
		{"invalid range", `{"schema": {"a": {"type": "integer", "min": 3, "max": 1}}}`, fiber.StatusBadRequest},
		{"exhausted", `{"schema": {"t": {"type": "string", "enum": ["a", "b"], "unique": true}}, "count": 3}`, fiber.StatusUnprocessableEntity},
		{"too many", `{"schema": {}, "count": 10001}`, fiber.StatusBadRequest},
	}

	srv := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, srv, "POST", "/generate", tt.body)
			if status != tt.status {
				t.Fatalf("Expected %d, got %d: %s", tt.status, status, body)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(body, &resp); err != nil || resp.Error == "" {
				t.Errorf("Expected an error message, got %s", body)
			}
		})
	}
}

func TestGenerateNonPositiveCount(t *testing.T) {
	status, body := do(t, newTestServer(t), "POST", "/generate", `{"schema": {"id": {"type": "uuid"}}, "count": 0}`)
	if status != fiber.StatusOK || string(body) != "[]" {
		t.Errorf("Expected 200 with [], got %d %s", status, body)
	}
}

func TestDefaultSchemaAndHealth(t *testing.T) {
	srv := newTestServer(t)

	status, body := do(t, srv, "GET", "/schema/default", "")
	if status != fiber.StatusOK || !strings.Contains(string(body), `"nested_object"`) {
		t.Errorf("Unexpected default schema response: %d %s", status, body)
	}

	status, body = do(t, srv, "GET", "/health", "")
	if status != fiber.StatusOK || string(body) != `{"status":"ok"}` {
		t.Errorf("Unexpected health response: %d %s", status, body)
	}
}
