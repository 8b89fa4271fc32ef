package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	log := New(false, &buf)
	if log.GetLevel() != logrus.InfoLevel {
		t.Errorf("Expected info level, got %v", log.GetLevel())
	}
	log.Debug("hidden")
	log.WithField("pass", 3).Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected debug output to be suppressed, got %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "pass=3") {
		t.Errorf("Expected info line with fields, got %q", out)
	}

	if New(true, &buf).GetLevel() != logrus.DebugLevel {
		t.Errorf("Expected debug level when verbose")
	}
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Error("nothing")
}
