package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"musicreco/internal/config"
	"musicreco/internal/library"
	"musicreco/internal/logger"
	"musicreco/internal/shutdown"
	"musicreco/internal/web"
)

func main() {
	var (
		port       int
		configPath string
		dbPath     string
		verbose    bool
	)

	flag.IntVar(&port, "port", 0, "HTTP server port (overrides web_port)")
	flag.StringVar(&configPath, "config", "", "Config file path")
	flag.StringVar(&dbPath, "db", "", "Library catalog path (overrides library_db)")
	flag.BoolVar(&verbose, "verbose", false, "Show detailed output")
	flag.Parse()

	cfg, err := config.LoadConfigFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if port != 0 {
		cfg.WebPort = port
	}
	if dbPath != "" {
		cfg.LibraryDB = config.ExpandHome(dbPath)
	}
	cfg.Verbose = cfg.Verbose || verbose
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	l := logger.New(cfg.Verbose)
	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, 0755); err == nil {
			logPath := filepath.Join(cfg.LogDir, fmt.Sprintf("musicreco-web-%d.log", time.Now().Unix()))
			if err := l.SetFileLog(logPath); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to setup file logging: %v\n", err)
			}
		}
	}
	defer l.Close()

	if err := os.MkdirAll(filepath.Dir(cfg.LibraryDB), 0755); err != nil {
		l.Error("Failed to create catalog directory: %v", err)
		os.Exit(1)
	}
	store, err := library.Open(cfg.LibraryDB)
	if err != nil {
		l.Error("%v", err)
		os.Exit(1)
	}
	defer store.Close()

	sh := shutdown.New()
	sh.Listen()

	jobMgr := web.NewJobManager()
	jobMgr.StartCleanup(sh.Context())
	server := web.NewServer(sh.Context(), jobMgr, store, cfg, l)
	if cfg.AlbumLookup {
		l.Info("Album lookup enabled via %s", cfg.MusicBrainzURL)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.WebPort),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		// album lookups wait out the MusicBrainz rate limit
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sh.AddCleanup(func() {
		l.Info("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			l.Error("Server shutdown error: %v", err)
		}
	})

	l.Info("Starting web server on port %d (catalog %s)", cfg.WebPort, cfg.LibraryDB)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error("Server error: %v", err)
		os.Exit(1)
	}

	// ListenAndServe returns as soon as Shutdown starts
	<-sh.Context().Done()
	sh.Shutdown()
	l.Info("Server stopped")
}
