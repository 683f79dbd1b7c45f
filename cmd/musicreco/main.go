package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"musicreco/internal/config"
	"musicreco/internal/library"
	"musicreco/internal/logger"
	"musicreco/internal/progress"
	"musicreco/internal/protocol"
	"musicreco/internal/provider/musicbrainz"
	"musicreco/internal/recommend"
	"musicreco/internal/shutdown"
)

const findLimit = 10

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args)
	if err != nil {
		if len(args) > 0 && looksLikeRecommend(args) {
			// the host parses stdout, so argument errors still get a framed result
			protocol.WriteResult(stdout, recommend.EmptyResult(err.Error()))
		}
		fmt.Fprintf(stderr, "[ERROR] %v\n", err)
		return 1
	}

	switch opts.command {
	case cmdHelp:
		printUsage(stdout)
		return 0
	case cmdInitConfig:
		if err := initConfigFile(stdout, config.GetDefaultConfigPath()); err != nil {
			fmt.Fprintf(stderr, "[ERROR] %v\n", err)
			return 1
		}
		return 0
	}

	cfg := opts.cfg
	log := logger.NewWithWriter(cfg.Verbose, stderr)
	defer log.Close()

	if cfg.Verbose && opts.configPath != "" {
		log.Debug("Loaded configuration from: %s", opts.configPath)
	}

	if err := cfg.Validate(); err != nil {
		log.Error("Configuration error: %v", err)
		if opts.command == cmdRecommend {
			protocol.WriteResult(stdout, recommend.EmptyResult(err.Error()))
		}
		return 1
	}

	sh := shutdown.New()
	sh.Listen()
	defer sh.Shutdown()

	switch opts.command {
	case cmdRecommend:
		err = runRecommend(cfg, opts.args, stdin, stdout, log)
	case cmdScan:
		setupFileLog(cfg, log)
		err = runScan(sh.Context(), cfg, opts.args, stderr, log)
	case cmdExport:
		err = runExport(sh.Context(), cfg, stdout)
	case cmdFind:
		err = runFind(sh.Context(), cfg, strings.Join(opts.args, " "), stdout)
	case cmdAlbums:
		err = runAlbums(sh.Context(), cfg, opts.args[0], stdout, log)
	}
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	return 0
}

func looksLikeRecommend(args []string) bool {
	for _, a := range args {
		switch a {
		case cmdScan, cmdExport, cmdFind, cmdAlbums:
			return false
		}
	}
	return true
}

// runRecommend implements the pipe protocol. Request-level failures are
// reported inside the framed document; only output failures are errors.
func runRecommend(cfg config.Config, args []string, stdin io.Reader, stdout io.Writer, log *logger.Logger) error {
	req, err := protocol.ParseRequest(args)
	if err != nil {
		log.Error("%v", err)
		return protocol.WriteResult(stdout, recommend.EmptyResult(err.Error()))
	}

	rows, err := protocol.ReadRows(stdin)
	if err != nil {
		log.Error("%v", err)
		return protocol.WriteResult(stdout, recommend.EmptyResult(err.Error()))
	}
	log.Debug("Read %d rows for song %d (album %d)", len(rows), req.SongID, req.AlbumID)

	engine := recommend.NewEngine(cfg.EngineOptions(), log)
	// A failed request is already logged and carried in res.Error, which
	// the caller reads from the framed output.
	res, _ := engine.Recommend(rows, req.SongID, req.AlbumID)
	return protocol.WriteResult(stdout, res)
}

func runScan(ctx context.Context, cfg config.Config, args []string, stderr io.Writer, log *logger.Logger) error {
	dir := cfg.MusicDir
	if len(args) > 0 {
		dir = config.ExpandHome(args[0])
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	var bar *progress.Bar
	scanOpts := library.ScanOptions{UnknownGenre: cfg.UnknownGenre}
	if !cfg.Verbose {
		scanOpts.OnProgress = func(done, total int) {
			if bar == nil {
				bar = progress.New(stderr, "Scanning", total)
				log.SetProgressBar(true)
			}
			bar.Set(done, total)
		}
	}

	res, err := library.Scan(ctx, dir, scanOpts, log)
	if bar != nil {
		bar.Finish()
		log.SetProgressBar(false)
	}
	if err != nil {
		return err
	}

	saved, err := store.SaveScan(ctx, res)
	if err != nil {
		return err
	}
	log.Info("=== Catalog updated: %d songs in %d albums (%d unreadable) ===", saved, len(res.Albums), res.Skipped)
	return nil
}

func runExport(ctx context.Context, cfg config.Config, stdout io.Writer) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	rows, err := store.Rows(ctx)
	if err != nil {
		return err
	}
	return protocol.WriteRows(stdout, rows)
}

func runFind(ctx context.Context, cfg config.Config, query string, stdout io.Writer) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	matches, err := store.Find(ctx, query, findLimit)
	if err != nil {
		return err
	}
	for _, m := range matches {
		fmt.Fprintf(stdout, "%d|%s|%s\n", m.Song.ID, m.Song.Title, m.Song.Artist)
	}
	return nil
}

// runAlbums prints album suggestions for a catalog song as indented JSON.
func runAlbums(ctx context.Context, cfg config.Config, arg string, stdout io.Writer, log *logger.Logger) error {
	songID, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("invalid song id %q", arg)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	song, err := store.Song(ctx, songID)
	if err != nil {
		return err
	}
	rows, err := store.Rows(ctx)
	if err != nil {
		return err
	}

	engine := recommend.NewEngine(cfg.EngineOptions(), log)
	res, err := engine.Recommend(rows, song.ID, song.AlbumID)
	if err != nil {
		return err
	}

	var source recommend.AlbumSource
	if cfg.AlbumLookup {
		source = musicbrainz.New(cfg.MusicBrainzURL)
	}
	report := recommend.NewAlbumSuggester(source, cfg.AlbumLimit, log).Suggest(ctx, res, song.Artist)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode album suggestions: %w", err)
	}
	_, err = fmt.Fprintln(stdout, string(data))
	return err
}

func openStore(cfg config.Config) (*library.Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LibraryDB), 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}
	return library.Open(cfg.LibraryDB)
}

// setupFileLog mirrors long-running output into a timestamped file under
// the log directory.
func setupFileLog(cfg config.Config, log *logger.Logger) {
	if cfg.Verbose || cfg.LogDir == "" {
		return
	}
	if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
		log.Warn("Failed to create log directory: %v", err)
		return
	}
	logFile := filepath.Join(cfg.LogDir, fmt.Sprintf("musicreco_%s.log", time.Now().Format("2006-01-02_15-04-05")))
	if err := log.SetFileLog(logFile); err != nil {
		log.Warn("Failed to setup file logging: %v", err)
		return
	}
	log.Debug("Logging to file: %s", logFile)
}
