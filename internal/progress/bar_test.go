package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{42 * time.Second, "42s"},
		{3*time.Minute + 5*time.Second, "3m5s"},
		{2*time.Hour + 7*time.Minute, "2h7m"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatDuration(tt.in); got != tt.want {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLine(t *testing.T) {
	b := New(&bytes.Buffer{}, "scan", 4)
	b.current = 2
	got := b.line(10 * time.Second)

	if !strings.HasPrefix(got, "scan [") {
		t.Errorf("line should start with label, got %q", got)
	}
	if !strings.Contains(got, "2/4 (50.0%)") {
		t.Errorf("line missing counts, got %q", got)
	}
	if !strings.Contains(got, "ETA: 10s") {
		t.Errorf("line missing ETA, got %q", got)
	}
	if n := strings.Count(got, "█"); n != barWidth/2 {
		t.Errorf("filled cells = %d, want %d", n, barWidth/2)
	}
}

func TestLineZeroTotal(t *testing.T) {
	b := New(&bytes.Buffer{}, "scan", 0)
	got := b.line(0)
	if !strings.Contains(got, "0/0 (0.0%)") {
		t.Errorf("unexpected line for empty bar: %q", got)
	}
}

func TestSetAndFinish(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf, "scan", 3)

	b.Set(3, 3)
	if !strings.Contains(buf.String(), "3/3") {
		t.Errorf("completed bar should render immediately, got %q", buf.String())
	}

	b.Finish()
	b.Finish()
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("Finish should end the line")
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Error("Finish should only run once")
	}
}

func TestIncrement(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf, "scan", 2)
	b.Increment()
	b.Increment()

	if b.current != 2 {
		t.Errorf("current = %d, want 2", b.current)
	}
	if !strings.Contains(buf.String(), "2/2") {
		t.Errorf("final increment should render, got %q", buf.String())
	}
}
