package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLevelMapping(t *testing.T) {
	cases := []struct {
		verbosity int
		want      logrus.Level
	}{
		{0, logrus.ErrorLevel},
		{1, logrus.InfoLevel},
		{2, logrus.DebugLevel},
		{5, logrus.DebugLevel},
		{-1, logrus.ErrorLevel},
	}

	for _, c := range cases {
		if got := level(c.verbosity); got != c.want {
			t.Errorf("level(%d) = %v, want %v", c.verbosity, got, c.want)
		}
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wasget.log")

	logger, closer, err := New(Options{Verbosity: 1, Path: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("hello from test")
	logger.Debug("should be filtered")
	if err := closer.Close(); err != nil {
		t.Fatalf("close log: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("log file missing info entry: %q", data)
	}
	if strings.Contains(string(data), "should be filtered") {
		t.Errorf("debug entry leaked at info verbosity: %q", data)
	}
}

func TestNewAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wasget.log")

	for _, msg := range []string{"first", "second"} {
		logger, closer, err := New(Options{Path: path})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		logger.Error(msg)
		closer.Close()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "first") || !strings.Contains(string(data), "second") {
		t.Errorf("expected both runs appended, got %q", data)
	}
}

func TestNewBadPath(t *testing.T) {
	if _, _, err := New(Options{Path: filepath.Join(t.TempDir(), "missing", "wasget.log")}); err == nil {
		t.Error("expected error for unopenable log path")
	}
}
