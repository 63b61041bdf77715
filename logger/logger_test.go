package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestWithComponent(t *testing.T) {
	log := New()
	entry := log.WithComponent("bootstrap").WithFields(Fields{"knots": 3})
	if v, ok := entry.Entry.Data["component"]; !ok || v != "bootstrap" {
		t.Fatalf("component field missing: %v", entry.Entry.Data)
	}
	if v := entry.Entry.Data["knots"]; v != 3 {
		t.Fatalf("knots field missing: %v", entry.Entry.Data)
	}
}

func TestJSONOutput(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	log := New()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.WithComponent("refine").WithError(errors.New("boom")).Info("knot solved")

	var rec map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if rec["message"] != "knot solved" || rec["component"] != "refine" || rec["error"] != "boom" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestConfigureInvalid(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	log := New()
	if err := log.Configure("invalid", "json", "discard", 0); err == nil {
		t.Fatalf("expected error for invalid level")
	}
	if err := log.Configure("info", "xml", "discard", 0); err == nil {
		t.Fatalf("expected error for invalid format")
	}
}

func TestConfigureEnvOverridesLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	log := New()
	if err := log.Configure("warn", "text", "discard", 0); err != nil {
		t.Fatalf("Configure error: %v", err)
	}
	if log.GetLevel() != logrus.DebugLevel {
		t.Fatalf("level mismatch: got %s", log.GetLevel())
	}
}

func TestConfigureFileOutput(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "brcurve.log")
	log := New()
	if err := log.Configure("info", "json", path, 0); err != nil {
		t.Fatalf("Configure error: %v", err)
	}
	log.WithComponent("test").Info("written")

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(raw), "written") {
		t.Fatalf("log file missing entry: %q", raw)
	}
}

func TestSetLogger(t *testing.T) {
	orig := GetLogger()
	defer SetLogger(orig)

	l := New()
	SetLogger(l)
	if GetLogger() != l {
		t.Fatalf("SetLogger did not replace the global logger")
	}
}
