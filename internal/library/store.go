package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"musicreco/internal/corpus"
)

// ErrSongNotFound is returned when a song id is not in the catalog.
var ErrSongNotFound = errors.New("song not found")

const schema = `
CREATE TABLE IF NOT EXISTS albums (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	path TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS songs (
	id       INTEGER PRIMARY KEY,
	album_id INTEGER NOT NULL DEFAULT 0,
	name     TEXT NOT NULL DEFAULT '',
	artist   TEXT NOT NULL DEFAULT '',
	album    TEXT NOT NULL DEFAULT '',
	genre    TEXT NOT NULL DEFAULT '',
	path     TEXT NOT NULL DEFAULT ''
);`

// Store is the sqlite-backed library catalog.
type Store struct {
	db *sql.DB

	// GenreFallback supplies a genre for songs stored without one.
	GenreFallback func(path string) string
}

// Open opens (or creates) the catalog at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open library db: %w", err)
	}
	// a single connection keeps ":memory:" databases coherent
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping library db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate library db: %w", err)
	}

	return &Store{db: db, GenreFallback: GenreFromFile}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveScan replaces the catalog contents with res in a single transaction and
// returns the number of songs written.
func (s *Store) SaveScan(ctx context.Context, res *ScanResult) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM songs"); err != nil {
		return 0, fmt.Errorf("failed to clear songs: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM albums"); err != nil {
		return 0, fmt.Errorf("failed to clear albums: %w", err)
	}

	albumIDs := make([]int64, len(res.Albums))
	for i, a := range res.Albums {
		r, err := tx.ExecContext(ctx, "INSERT INTO albums (name, path) VALUES (?, ?)", a.Name, a.Path)
		if err != nil {
			return 0, fmt.Errorf("failed to insert album %s: %w", a.Name, err)
		}
		if albumIDs[i], err = r.LastInsertId(); err != nil {
			return 0, fmt.Errorf("failed to read album id: %w", err)
		}
	}

	for _, song := range res.Songs {
		if song.AlbumID < 0 || song.AlbumID >= len(albumIDs) {
			return 0, fmt.Errorf("song %s references unknown album %d", song.Path, song.AlbumID)
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO songs (album_id, name, artist, album, genre, path) VALUES (?, ?, ?, ?, ?, ?)",
			albumIDs[song.AlbumID], song.Title, song.Artist, song.Album, song.Genre, song.Path)
		if err != nil {
			return 0, fmt.Errorf("failed to insert song %s: %w", song.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit scan: %w", err)
	}
	return len(res.Songs), nil
}

// Songs returns every catalogued song ordered by id.
func (s *Store) Songs(ctx context.Context) ([]Song, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, album_id, name, artist, album, genre, path FROM songs ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []Song
	for rows.Next() {
		var song Song
		if err := rows.Scan(&song.ID, &song.AlbumID, &song.Title, &song.Artist, &song.Album, &song.Genre, &song.Path); err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate songs: %w", err)
	}
	return songs, nil
}

// Song returns a single song by id.
func (s *Store) Song(ctx context.Context, id int) (Song, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, album_id, name, artist, album, genre, path FROM songs WHERE id = ?", id)
	var song Song
	if err := row.Scan(&song.ID, &song.AlbumID, &song.Title, &song.Artist, &song.Album, &song.Genre, &song.Path); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Song{}, fmt.Errorf("%w: %d", ErrSongNotFound, id)
		}
		return Song{}, fmt.Errorf("failed to load song %d: %w", id, err)
	}
	return song, nil
}

// Rows returns the catalog as engine input rows. Songs without a genre get
// one from GenreFallback when it yields a value. Field separators inside
// values are replaced with spaces.
func (s *Store) Rows(ctx context.Context) ([]corpus.Row, error) {
	songs, err := s.Songs(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]corpus.Row, 0, len(songs))
	for _, song := range songs {
		genre := song.Genre
		if genre == "" && s.GenreFallback != nil {
			genre = s.GenreFallback(song.Path)
		}
		rows = append(rows, corpus.Row{
			strconv.Itoa(song.ID),
			sanitize(song.Title),
			sanitize(song.Artist),
			sanitize(genre),
			sanitize(song.Album),
			strconv.Itoa(song.AlbumID),
			sanitize(song.Path),
		})
	}
	return rows, nil
}

// fieldReplacer blanks the characters that delimit fields and rows in the
// pipe-separated export.
var fieldReplacer = strings.NewReplacer("|", " ", "\r\n", " ", "\n", " ", "\r", " ")

func sanitize(v string) string {
	return fieldReplacer.Replace(v)
}
