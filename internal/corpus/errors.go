package corpus

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when a request carries no usable rows.
var ErrEmptyInput = errors.New("no data to process")

// MalformedRecordError reports a row whose numeric field could not be parsed.
type MalformedRecordError struct {
	Row   int // 1-based position in the input table
	Field string
	Value string
	Err   error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("row %d: invalid %s %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// SongNotFoundError reports a reference id that matches no track in the corpus.
type SongNotFoundError struct {
	ID int
}

func (e *SongNotFoundError) Error() string {
	return fmt.Sprintf("song ID %d not found in data", e.ID)
}
