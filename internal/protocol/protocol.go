// Package protocol implements the line-oriented pipe contract between the
// host application and the recommendation engine: positional arguments,
// pipe-delimited rows on stdin and a marker-framed JSON document on stdout.
package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"musicreco/internal/corpus"
	"musicreco/internal/recommend"
)

// Frame markers surrounding the JSON payload.
const (
	BeginMarker = "RECOMMENDATIONS_BEGIN"
	EndMarker   = "RECOMMENDATIONS_END"
)

// Separator between row fields.
const Separator = "|"

const maxLineSize = 1024 * 1024

// Request holds the positional arguments of one invocation.
type Request struct {
	SongID  int
	AlbumID int
}

// ParseRequest reads the song and album identifiers from positional
// arguments. Missing arguments default to 0.
func ParseRequest(args []string) (Request, error) {
	var req Request
	if len(args) > 0 {
		id, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil {
			return Request{}, fmt.Errorf("invalid song id %q", args[0])
		}
		req.SongID = id
	}
	if len(args) > 1 {
		id, err := strconv.Atoi(strings.TrimSpace(args[1]))
		if err != nil {
			return Request{}, fmt.Errorf("invalid album id %q", args[1])
		}
		req.AlbumID = id
	}
	return req, nil
}

// ReadRows reads one record per line. Lines are trimmed and blank lines
// ignored. Lines with fewer than corpus.FieldCount fields are discarded
// silently; extra separators are folded back into the file path, the last
// field.
func ReadRows(r io.Reader) ([]corpus.Row, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var rows []corpus.Row
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if row, ok := ParseLine(line); ok {
			rows = append(rows, row)
		}
	}
	if err := scanner.Err(); err != nil {
		return rows, fmt.Errorf("failed to read rows: %w", err)
	}
	return rows, nil
}

// ParseLine splits a single record line. ok is false when the line has too
// few fields.
func ParseLine(line string) (corpus.Row, bool) {
	parts := strings.SplitN(line, Separator, corpus.FieldCount)
	if len(parts) < corpus.FieldCount {
		return nil, false
	}
	return corpus.Row(parts), true
}

var fieldReplacer = strings.NewReplacer(Separator, " ", "\r\n", " ", "\n", " ", "\r", " ")

// FormatRow renders a row as a record line, replacing separators and line
// breaks inside fields with spaces.
func FormatRow(row corpus.Row) string {
	fields := make([]string, len(row))
	for i, f := range row {
		fields[i] = fieldReplacer.Replace(f)
	}
	return strings.Join(fields, Separator)
}

// WriteRows writes rows as record lines.
func WriteRows(w io.Writer, rows []corpus.Row) error {
	bw := bufio.NewWriter(w)
	for _, row := range rows {
		if _, err := bw.WriteString(FormatRow(row) + "\n"); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return bw.Flush()
}

// WriteResult writes res as a marker-framed JSON document indented by two
// spaces.
func WriteResult(w io.Writer, res recommend.Result) error {
	if res.ArtistRecommendations == nil {
		res.ArtistRecommendations = []recommend.ArtistRecommendation{}
	}
	if res.GenreRecommendations == nil {
		res.GenreRecommendations = []recommend.TrackRecommendation{}
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	var b strings.Builder
	b.WriteString(BeginMarker + "\n")
	b.Write(data)
	b.WriteString("\n" + EndMarker + "\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

// ExtractPayload returns the JSON between the frame markers of output, which
// may contain unrelated lines before and after the frame.
func ExtractPayload(output string) (string, error) {
	var lines []string
	inside, closed := false, false
	for _, line := range strings.Split(output, "\n") {
		switch strings.TrimSpace(line) {
		case BeginMarker:
			inside = true
			lines = lines[:0]
			continue
		case EndMarker:
			if inside {
				closed = true
				inside = false
			}
			continue
		}
		if inside {
			lines = append(lines, line)
		}
	}
	if !closed {
		return "", fmt.Errorf("no framed recommendations found")
	}
	return strings.Join(lines, "\n"), nil
}

// ReadResult decodes the framed document in output.
func ReadResult(output string) (recommend.Result, error) {
	payload, err := ExtractPayload(output)
	if err != nil {
		return recommend.Result{}, err
	}
	var res recommend.Result
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return recommend.Result{}, fmt.Errorf("failed to decode recommendations: %w", err)
	}
	return res, nil
}
