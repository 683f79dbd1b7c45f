// Package corpus turns the raw library table of one recommendation request into
// typed tracks and resolves the reference track.
package corpus

import "strings"

// Field positions of a raw library row.
const (
	FieldID = iota
	FieldTitle
	FieldArtist
	FieldGenre
	FieldAlbum
	FieldAlbumID
	FieldPath

	// FieldCount is the number of fields every row must carry.
	FieldCount
)

// Row is one raw library record in wire order: id, title, artist, genre,
// album, albumId, filePath.
type Row []string

// Track is a single library entry. It is immutable once built.
type Track struct {
	ID       int
	Title    string
	Artist   string
	Genre    string
	Album    string
	AlbumID  int
	FilePath string
}

// FeatureText joins the textual fields in fixed order with single spaces.
// Empty fields still contribute their separator.
func (t Track) FeatureText() string {
	return strings.Join([]string{t.Title, t.Artist, t.Genre, t.Album}, " ")
}

// Corpus is the ordered set of tracks available to one request.
type Corpus struct {
	Tracks []Track

	// Reference is the index of the reference track in Tracks.
	Reference int

	// AlbumID is the album identifier supplied with the request. Ranking
	// does not consume it.
	AlbumID int

	// Rejected lists rows dropped under the skip policy.
	Rejected []*MalformedRecordError
}

// Len returns the number of tracks.
func (c *Corpus) Len() int {
	return len(c.Tracks)
}

// Ref returns the reference track.
func (c *Corpus) Ref() Track {
	return c.Tracks[c.Reference]
}

// IndexOf returns the position of the first track with the given id.
func (c *Corpus) IndexOf(id int) (int, bool) {
	for i, t := range c.Tracks {
		if t.ID == id {
			return i, true
		}
	}
	return -1, false
}
