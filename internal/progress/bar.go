// Package progress renders a terminal progress bar for library scans.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const barWidth = 40

// Bar is a single-line progress bar redrawn in place on its writer.
type Bar struct {
	out       io.Writer
	label     string
	total     int
	current   int
	mu        sync.Mutex
	startTime time.Time
	lastPrint time.Time
	interval  time.Duration
	done      bool
}

// New creates a bar that counts up to total and draws to out.
func New(out io.Writer, label string, total int) *Bar {
	now := time.Now()
	return &Bar{
		out:       out,
		label:     label,
		total:     total,
		startTime: now,
		lastPrint: now,
		interval:  500 * time.Millisecond,
	}
}

// Set moves the bar to done out of total. It matches the scan progress
// callback signature.
func (b *Bar) Set(done, total int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = done
	b.total = total

	now := time.Now()
	if now.Sub(b.lastPrint) > b.interval || b.current >= b.total {
		b.render()
		b.lastPrint = now
	}
}

// Increment advances the bar by one.
func (b *Bar) Increment() {
	b.mu.Lock()
	total := b.total
	current := b.current + 1
	b.mu.Unlock()
	b.Set(current, total)
}

// Finish draws the final state and ends the line.
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.done {
		return
	}
	b.current = b.total
	b.render()
	fmt.Fprintln(b.out)
	b.done = true
}

func (b *Bar) render() {
	if b.done {
		return
	}
	fmt.Fprintf(b.out, "\r%s", b.line(time.Since(b.startTime)))
}

func (b *Bar) line(elapsed time.Duration) string {
	var percentage float64
	filled := 0
	if b.total > 0 {
		percentage = float64(b.current) / float64(b.total) * 100
		filled = barWidth * b.current / b.total
	}
	if filled > barWidth {
		filled = barWidth
	}

	var eta time.Duration
	if b.current > 0 && b.current < b.total {
		eta = elapsed / time.Duration(b.current) * time.Duration(b.total-b.current)
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	return fmt.Sprintf("%s [%s] %d/%d (%.1f%%) - Elapsed: %s - ETA: %s   ",
		b.label,
		bar,
		b.current,
		b.total,
		percentage,
		formatDuration(elapsed),
		formatDuration(eta),
	)
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
