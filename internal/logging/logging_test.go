package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func restoreLogger(t *testing.T) {
	t.Helper()
	prev := log.Logger
	level := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(level)
	})
}

func TestSetup_WritesJSONToFile(t *testing.T) {
	restoreLogger(t)
	path := filepath.Join(t.TempDir(), "logs", "skyglass.log")

	closer, err := Setup(Options{File: path})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	log.Info().Str("subscription", "proj-a").Msg("inventory fallback")
	log.Debug().Msg("hidden")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line (debug filtered), got %d: %q", len(lines), data)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["subscription"] != "proj-a" || entry["message"] != "inventory fallback" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if entry["service"] != "skyglass" {
		t.Errorf("service = %v, want skyglass", entry["service"])
	}
}

func TestSetup_DebugWritesConsole(t *testing.T) {
	restoreLogger(t)
	var buf bytes.Buffer

	closer, err := Setup(Options{Debug: true, Stderr: &buf})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer closer.Close()

	log.Debug().Msg("refresh started")
	if !strings.Contains(buf.String(), "refresh started") {
		t.Errorf("expected debug message on stderr, got %q", buf.String())
	}
}
