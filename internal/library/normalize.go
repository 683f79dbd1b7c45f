package library

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Release annotations that do not help identify a song
var titleCleanupPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*[\(\[][^\)\]]*\bremaster(?:ed)?\b[^\)\]]*[\)\]]`),
	regexp.MustCompile(`(?i)\s*[\(\[]\s*(?:radio|single|album)\s+(?:edit|version)\s*[\)\]]`),
	regexp.MustCompile(`(?i)\s*[\(\[]\s*(?:explicit|clean|mono|stereo|bonus\s+track)\s*[\)\]]`),
	regexp.MustCompile(`(?i)\s*[\(\[]\s*(?:official\s+)?(?:audio|lyrics?|video)\s*[\)\]]`),
}

// Featuring credits in titles
var featuringPattern = regexp.MustCompile(`(?i)\s*[\(\[]\s*(?:feat\.?|ft\.?|featuring)\s+([^\)\]]+)[\)\]]`)

// "Artist - Title" file names
var artistTitleSeparator = regexp.MustCompile(`^(.+?)\s+[-–—]\s+(.+)$`)

// Leading track numbers such as "01 ", "1. " or "03 - "
var trackNumberPrefix = regexp.MustCompile(`^\d{1,3}(?:\s*[-.]\s*|\s+)`)

// CleanTitle strips release annotations and featuring credits.
func CleanTitle(title string) string {
	title = strings.TrimSpace(title)
	for _, p := range titleCleanupPatterns {
		title = p.ReplaceAllString(title, "")
	}
	title = featuringPattern.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}

// tagsFromFileName fills missing title and artist from the file name.
func tagsFromFileName(path string, tags Tags) Tags {
	if tags.Title != "" && tags.Artist != "" {
		return tags
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name = strings.TrimSpace(trackNumberPrefix.ReplaceAllString(name, ""))

	artist, title := "", name
	if m := artistTitleSeparator.FindStringSubmatch(name); m != nil {
		artist = strings.TrimSpace(m[1])
		title = strings.TrimSpace(m[2])
	}

	if tags.Title == "" {
		tags.Title = title
	}
	if tags.Artist == "" {
		tags.Artist = artist
	}
	return tags
}

// matchKey is the lower-cased, cleaned form used for fuzzy lookup.
func matchKey(s string) string {
	return strings.ToLower(CleanTitle(s))
}
