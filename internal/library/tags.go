package library

import (
	"errors"
	"fmt"
	"strings"

	"go.senan.xyz/taglib"
)

// ErrNoAudio is returned for files taglib opens but finds no audio stream in.
var ErrNoAudio = errors.New("no audio data")

// Tags holds the textual tags the catalog records for a file.
type Tags struct {
	Title  string
	Artist string
	Album  string
	Genre  string
}

// ReadTags reads title, artist, album and genre from an audio file.
// A file without decodable audio properties is reported as unreadable.
func ReadTags(path string) (Tags, error) {
	props, err := taglib.ReadProperties(path)
	if err != nil {
		return Tags{}, fmt.Errorf("failed to read properties from %s: %w", path, err)
	}
	if props.Length == 0 || props.SampleRate == 0 {
		return Tags{}, fmt.Errorf("%w: %s", ErrNoAudio, path)
	}

	tags, err := taglib.ReadTags(path)
	if err != nil {
		return Tags{}, fmt.Errorf("failed to read tags from %s: %w", path, err)
	}
	return Tags{
		Title:  firstTag(tags, taglib.Title),
		Artist: firstTag(tags, taglib.Artist),
		Album:  firstTag(tags, taglib.Album),
		Genre:  firstTag(tags, taglib.Genre),
	}, nil
}

// GenreFromFile returns the genre tag of path, or "" when it cannot be read.
func GenreFromFile(path string) string {
	if path == "" {
		return ""
	}
	tags, err := taglib.ReadTags(path)
	if err != nil {
		return ""
	}
	return firstTag(tags, taglib.Genre)
}

func firstTag(tags map[string][]string, key string) string {
	if vals, ok := tags[key]; ok && len(vals) > 0 {
		return strings.TrimSpace(vals[0])
	}
	return ""
}
