package logger

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	SetOutput(buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		_ = Configure("", "text")
	})
	return buf
}

func TestVerboseGate(t *testing.T) {
	buf := captureOutput(t)
	verbose := false
	log := NewWithCallback("dataset", func() bool { return verbose })

	log.Debug("hidden %d", 1)
	log.Info("hidden too")
	if buf.Len() != 0 {
		t.Errorf("Expected no output when not verbose, got %q", buf.String())
	}

	log.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("Expected warning to be written, got %q", buf.String())
	}

	verbose = true
	log.Debug("now visible %s", "debug")
	if !strings.Contains(buf.String(), "now visible debug") {
		t.Errorf("Expected debug message once verbose, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "dataset") {
		t.Errorf("Expected component prefix in output, got %q", buf.String())
	}
}

func TestFieldsAreRendered(t *testing.T) {
	buf := captureOutput(t)
	log := New("chart", nil)

	log.WarnWithFields("export failed", []Field{F("type", "pie"), Count(3), Error(errors.New("boom"))})

	out := buf.String()
	for _, want := range []string{"export failed", "type=pie", "count=3", "boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got %q", want, out)
		}
	}
}

func TestConfigureLevelOverridesVerbose(t *testing.T) {
	buf := captureOutput(t)
	if err := Configure("debug", "logfmt"); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	log := New("cli", nil)
	log.Debug("forced debug")
	if !strings.Contains(buf.String(), "forced debug") {
		t.Errorf("Expected debug output with forced level, got %q", buf.String())
	}

	buf.Reset()
	if err := Configure("error", "text"); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	log = New("cli", nil)
	log.Warn("suppressed")
	if buf.Len() != 0 {
		t.Errorf("Expected warn to be suppressed at error level, got %q", buf.String())
	}
}

func TestConfigureRejectsUnknownValues(t *testing.T) {
	captureOutput(t)
	if err := Configure("loud", "text"); err == nil {
		t.Error("Expected error for unknown level")
	}
	if err := Configure("", "xml"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestWithComponent(t *testing.T) {
	buf := captureOutput(t)
	base := New("root", nil)
	child := base.WithComponent("stats")
	child.Error("bad column")
	if !strings.Contains(buf.String(), "stats") {
		t.Errorf("Expected child component in output, got %q", buf.String())
	}
}
