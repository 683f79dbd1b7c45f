package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"musicreco/internal/corpus"
	"musicreco/internal/recommend"
)

// Config contains the program configuration
type Config struct {
	Verbose       bool   `yaml:"verbose"`
	ArtistLimit   int    `yaml:"artist_limit"`
	TrackLimit    int    `yaml:"track_limit"`
	MalformedRows string `yaml:"malformed_rows"`
	UnknownGenre  string `yaml:"unknown_genre"`
	LibraryDB     string `yaml:"library_db"`
	MusicDir      string `yaml:"music_dir"`
	LogDir        string `yaml:"log_dir"`
	WebPort       int    `yaml:"web_port"`

	// Album suggestions
	AlbumLookup    bool   `yaml:"album_lookup"`
	AlbumLimit     int    `yaml:"album_limit"`
	MusicBrainzURL string `yaml:"musicbrainz_url"`
}

const maxLimit = 100

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		ArtistLimit:   recommend.DefaultArtistLimit,
		TrackLimit:    recommend.DefaultTrackLimit,
		MalformedRows: string(corpus.SkipMalformed),
		UnknownGenre:  "Unknown",
		LibraryDB:     filepath.Join(dataDir(), "library.db"),
		MusicDir:      filepath.Join(homeDir(), "Music"),
		LogDir:        filepath.Join(dataDir(), "logs"),
		WebPort:       8080,

		AlbumLimit:     recommend.DefaultAlbumLimit,
		MusicBrainzURL: "https://musicbrainz.org/ws/2",
	}
}

// LoadConfigFile loads configuration from a YAML file.
// If path is empty, searches standard locations. Returns defaults if no file found.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.LibraryDB = ExpandHome(cfg.LibraryDB)
	cfg.MusicDir = ExpandHome(cfg.MusicDir)
	cfg.LogDir = ExpandHome(cfg.LogDir)

	return cfg, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() string {
	home := homeDir()
	locations := []string{
		"./musicreco.yaml",
		"./musicreco.yml",
		filepath.Join(home, ".config", "musicreco", "config.yaml"),
		filepath.Join(home, ".config", "musicreco", "config.yml"),
		filepath.Join(home, ".musicreco.yaml"),
		filepath.Join(home, ".musicreco.yml"),
	}

	for _, path := range locations {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// SaveConfigFile saves the current configuration to a YAML file
func SaveConfigFile(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default config file path
func GetDefaultConfigPath() string {
	return filepath.Join(homeDir(), ".config", "musicreco", "config.yaml")
}

func dataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "musicreco")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.ArtistLimit < 1 || c.ArtistLimit > maxLimit {
		return fmt.Errorf("artist_limit must be between 1 and %d, got %d", maxLimit, c.ArtistLimit)
	}
	if c.TrackLimit < 1 || c.TrackLimit > maxLimit {
		return fmt.Errorf("track_limit must be between 1 and %d, got %d", maxLimit, c.TrackLimit)
	}
	if !corpus.MalformedPolicy(c.MalformedRows).Valid() {
		return fmt.Errorf("malformed_rows must be %q or %q, got %q", corpus.SkipMalformed, corpus.RejectMalformed, c.MalformedRows)
	}
	if c.WebPort < 1 || c.WebPort > 65535 {
		return fmt.Errorf("web_port must be between 1 and 65535, got %d", c.WebPort)
	}
	if c.LibraryDB == "" {
		return fmt.Errorf("library_db cannot be empty")
	}
	if c.AlbumLimit < 1 || c.AlbumLimit > maxLimit {
		return fmt.Errorf("album_limit must be between 1 and %d, got %d", maxLimit, c.AlbumLimit)
	}
	if c.AlbumLookup && !strings.HasPrefix(c.MusicBrainzURL, "http://") && !strings.HasPrefix(c.MusicBrainzURL, "https://") {
		return fmt.Errorf("musicbrainz_url must be an http(s) URL, got %q", c.MusicBrainzURL)
	}
	return nil
}

// EngineOptions maps the configuration onto recommendation engine options.
func (c *Config) EngineOptions() recommend.Options {
	return recommend.Options{
		ArtistLimit: c.ArtistLimit,
		TrackLimit:  c.TrackLimit,
		Malformed:   corpus.MalformedPolicy(c.MalformedRows),
	}
}
