package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		log     func(l *Logger)
		want    string
	}{
		{name: "info plain", log: func(l *Logger) { l.Info("hello %d", 1) }, want: "hello 1\n"},
		{name: "warn prefixed", log: func(l *Logger) { l.Warn("careful") }, want: "[WARN] careful\n"},
		{name: "error prefixed", log: func(l *Logger) { l.Error("boom") }, want: "[ERROR] boom\n"},
		{name: "debug hidden", log: func(l *Logger) { l.Debug("details") }, want: ""},
		{name: "debug verbose", verbose: true, log: func(l *Logger) { l.Debug("details") }, want: "[DEBUG] details\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewWithWriter(tt.verbose, &buf))
			if buf.String() != tt.want {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestProgressBarSuppressesConsole(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(false, &buf)
	l.SetProgressBar(true)

	l.Info("quiet")
	l.Warn("quiet")
	l.Error("loud")

	if buf.String() != "[ERROR] loud\n" {
		t.Errorf("output = %q, want only the error", buf.String())
	}
}

func TestFileLogReceivesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "musicreco.log")
	l := NewWithWriter(false, &bytes.Buffer{})
	if err := l.SetFileLog(path); err != nil {
		t.Fatalf("SetFileLog failed: %v", err)
	}

	l.Debug("scanned %d files", 3)
	l.Info("done")
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, "[DEBUG] scanned 3 files") || !strings.Contains(got, "done") {
		t.Errorf("log file = %q", got)
	}
}
