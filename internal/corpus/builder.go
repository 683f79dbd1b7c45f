package corpus

import (
	"fmt"
	"strconv"
	"strings"
)

// MalformedPolicy selects how rows with non-numeric id/albumId are handled.
type MalformedPolicy string

const (
	// SkipMalformed drops the offending row and records it in Corpus.Rejected.
	SkipMalformed MalformedPolicy = "skip"
	// RejectMalformed fails the whole batch on the first offending row.
	RejectMalformed MalformedPolicy = "reject"
)

// Valid reports whether p names a known policy.
func (p MalformedPolicy) Valid() bool {
	return p == SkipMalformed || p == RejectMalformed
}

// Build validates rows, parses them into tracks and resolves the reference
// track by exact id match. The first track with a matching id wins.
//
// Errors: ErrEmptyInput when no usable rows remain, *MalformedRecordError
// under RejectMalformed, *SongNotFoundError when songID is absent.
func Build(rows []Row, songID, albumID int, policy MalformedPolicy) (*Corpus, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}
	if policy == "" {
		policy = SkipMalformed
	}

	c := &Corpus{
		Tracks:  make([]Track, 0, len(rows)),
		AlbumID: albumID,
	}

	for i, row := range rows {
		t, err := ParseRow(row, i+1)
		if err != nil {
			if policy == RejectMalformed {
				return nil, err
			}
			c.Rejected = append(c.Rejected, err)
			continue
		}
		c.Tracks = append(c.Tracks, t)
	}

	if len(c.Tracks) == 0 {
		return nil, fmt.Errorf("%w: all %d rows were malformed", ErrEmptyInput, len(rows))
	}

	idx, ok := c.IndexOf(songID)
	if !ok {
		return nil, &SongNotFoundError{ID: songID}
	}
	c.Reference = idx

	return c, nil
}

// ParseRow converts a raw row into a Track. pos is the 1-based row position
// used in error reports.
func ParseRow(row Row, pos int) (Track, *MalformedRecordError) {
	if len(row) < FieldCount {
		return Track{}, &MalformedRecordError{
			Row:   pos,
			Field: "row",
			Value: strings.Join(row, "|"),
			Err:   fmt.Errorf("expected %d fields, got %d", FieldCount, len(row)),
		}
	}

	id, err := parseInt(row[FieldID])
	if err != nil {
		return Track{}, &MalformedRecordError{Row: pos, Field: "id", Value: row[FieldID], Err: err}
	}
	albumID, err := parseInt(row[FieldAlbumID])
	if err != nil {
		return Track{}, &MalformedRecordError{Row: pos, Field: "albumId", Value: row[FieldAlbumID], Err: err}
	}

	return Track{
		ID:       id,
		Title:    row[FieldTitle],
		Artist:   row[FieldArtist],
		Genre:    row[FieldGenre],
		Album:    row[FieldAlbum],
		AlbumID:  albumID,
		FilePath: row[FieldPath],
	}, nil
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("not an integer")
	}
	return n, nil
}
