// Package library scans a music directory into a catalog and serves the
// catalog as input rows for the recommendation engine.
package library

import (
	"context"
	"fmt"
	"path/filepath"

	"musicreco/internal/logger"
	"musicreco/pkg/utils"
)

// Album is a directory holding audio files.
type Album struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// Song is a catalogued audio file.
type Song struct {
	ID      int    `json:"id"`
	AlbumID int    `json:"album_id"`
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	Album   string `json:"album"`
	Genre   string `json:"genre"`
	Path    string `json:"path"`
}

// ScanResult is the output of one scan. Song.AlbumID indexes Albums until the
// result is saved to a Store.
type ScanResult struct {
	Albums  []Album
	Songs   []Song
	Skipped int
}

// ScanOptions configures Scan.
type ScanOptions struct {
	// UnknownGenre replaces empty genre tags.
	UnknownGenre string
	// OnProgress is called after every file with the running count.
	OnProgress func(done, total int)
	// ReadTags overrides tag reading, mainly for tests.
	ReadTags func(path string) (Tags, error)
}

// Scan walks dir and records every audio file with readable tags. Each
// directory that directly contains audio files becomes an album named after
// the directory.
func Scan(ctx context.Context, dir string, opts ScanOptions, log *logger.Logger) (*ScanResult, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	files, err := utils.FindAudioFiles(root)
	if err != nil {
		return nil, fmt.Errorf("failed to find audio files: %w", err)
	}
	log.Debug("Found %d audio files in %s", len(files), root)

	read := opts.ReadTags
	if read == nil {
		read = ReadTags
	}

	res := &ScanResult{}
	dirs, groups := utils.GroupByDir(files)
	done := 0
	for _, albumDir := range dirs {
		albumIdx := len(res.Albums)
		res.Albums = append(res.Albums, Album{
			Name: filepath.Base(albumDir),
			Path: albumDir,
		})

		for _, path := range groups[albumDir] {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("scan cancelled: %w", err)
			}

			tags, err := read(path)
			if err != nil {
				log.Debug("Skipping %s: %v", path, err)
				res.Skipped++
			} else {
				tags = tagsFromFileName(path, tags)
				genre := tags.Genre
				if genre == "" {
					genre = opts.UnknownGenre
				}
				res.Songs = append(res.Songs, Song{
					AlbumID: albumIdx,
					Title:   tags.Title,
					Artist:  tags.Artist,
					Album:   tags.Album,
					Genre:   genre,
					Path:    path,
				})
			}

			done++
			if opts.OnProgress != nil {
				opts.OnProgress(done, len(files))
			}
		}
	}

	log.Info("Scanned %d songs in %d albums (%d skipped)", len(res.Songs), len(res.Albums), res.Skipped)
	return res, nil
}
