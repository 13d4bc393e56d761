// ABOUTME: Tests for the health command
// ABOUTME: Verifies health check output formatting and exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/freelancehub/freelancehub-cli/internal/client"
)

func TestFormatHealthHuman(t *testing.T) {
	resp := &client.HealthResponse{Message: "Welcome"}

	output := formatHealthHuman("http://localhost:8000", "/tmp/fh", resp)

	if !strings.Contains(output, "http://localhost:8000") {
		t.Error("expected output to contain backend URL")
	}
	if !strings.Contains(output, "Message:") || !strings.Contains(output, "Welcome") {
		t.Error("expected output to contain the welcome message")
	}
	if !strings.Contains(output, "/tmp/fh") {
		t.Error("expected output to contain config dir")
	}
}

func TestFormatHealthJSON(t *testing.T) {
	resp := &client.HealthResponse{Message: "Welcome"}

	output := formatHealthJSON("http://localhost:8000", "/tmp/fh", resp)

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(output), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["backend"] != "http://localhost:8000" {
		t.Errorf("expected backend URL in JSON, got %v", parsed["backend"])
	}
	if parsed["config_dir"] != "/tmp/fh" {
		t.Errorf("expected config dir in JSON, got %v", parsed["config_dir"])
	}
}

func TestHealthCommand_Success(t *testing.T) {
	srv := useServer(t)

	var buf bytes.Buffer
	exitCode := runHealth(context.Background(), &buf)

	if exitCode != 0 {
		t.Errorf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !strings.Contains(buf.String(), "Welcome to the Freelance Project Marketplace API") {
		t.Errorf("expected welcome message in output, got %s", buf.String())
	}
	if srv.Calls("GET /") != 1 {
		t.Errorf("expected one call to the API root, got %d", srv.Calls("GET /"))
	}
}

func TestHealthCommand_Mock(t *testing.T) {
	useMock(t)

	var buf bytes.Buffer
	exitCode := runHealth(context.Background(), &buf)

	if exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "Serving built-in mock data") {
		t.Errorf("expected mock message, got %s", buf.String())
	}
}

func TestHealthCommand_ConnectionError(t *testing.T) {
	isolate(t)
	apiURL = "http://127.0.0.1:1"

	var buf bytes.Buffer
	exitCode := runHealth(context.Background(), &buf)

	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "Error:") {
		t.Error("expected error message in output")
	}
}

func TestHealthCommand_InvalidConfig(t *testing.T) {
	isolate(t)
	apiURL = "ftp://example.com"

	var buf bytes.Buffer
	if exitCode := runHealth(context.Background(), &buf); exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
}
