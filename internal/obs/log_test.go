package obs

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLogWritesJSONLine(t *testing.T) {
	logger := Logger()
	original := logger.Writer()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(original)

	Error("api request failed", map[string]any{
		"endpoint": "GET /api/organizations",
		"error":    errors.New("connection refused"),
		"level":    "ignored",
	})

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
		t.Fatalf("log not valid JSON: %v", err)
	}
	if entry["level"] != "error" {
		t.Fatalf("unexpected level: %v", entry["level"])
	}
	if entry["msg"] != "api request failed" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry["error"] != "connection refused" {
		t.Fatalf("error field not stringified: %v", entry["error"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatal("expected ts key")
	}
}
