// Package web serves recommendations, catalog lookup and background library
// scans over HTTP.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"musicreco/internal/config"
	"musicreco/internal/corpus"
	"musicreco/internal/library"
	"musicreco/internal/logger"
	"musicreco/internal/provider/musicbrainz"
	"musicreco/internal/recommend"
)

// Catalog is the part of the library store the server needs.
type Catalog interface {
	Rows(ctx context.Context) ([]corpus.Row, error)
	Find(ctx context.Context, query string, limit int) ([]library.Match, error)
	Song(ctx context.Context, id int) (library.Song, error)
	SaveScan(ctx context.Context, res *library.ScanResult) (int, error)
}

// ScanFunc scans a directory. It is library.Scan outside of tests.
type ScanFunc func(ctx context.Context, dir string, opts library.ScanOptions, log *logger.Logger) (*library.ScanResult, error)

type Server struct {
	ctx     context.Context
	jobMgr  *JobManager
	catalog Catalog
	engine  *recommend.Engine
	albums  *recommend.AlbumSuggester
	scan    ScanFunc
	config  config.Config
	logger  *logger.Logger
}

func NewServer(ctx context.Context, jobMgr *JobManager, catalog Catalog, cfg config.Config, log *logger.Logger) *Server {
	var source recommend.AlbumSource
	if cfg.AlbumLookup {
		source = musicbrainz.New(cfg.MusicBrainzURL)
	}
	return &Server{
		ctx:     ctx,
		jobMgr:  jobMgr,
		catalog: catalog,
		engine:  recommend.NewEngine(cfg.EngineOptions(), log),
		albums:  recommend.NewAlbumSuggester(source, cfg.AlbumLimit, log),
		scan:    library.Scan,
		config:  cfg,
		logger:  log,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.loggingMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/recommend", s.handleRecommend)
		r.Get("/albums", s.handleAlbums)
		r.Get("/tracks", s.handleTracks)
		r.Post("/scan", s.handleScan)
		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", s.handleListJobs)
			r.Get("/{id}", s.handleGetJob)
			r.Post("/{id}/cancel", s.handleCancelJob)
		})
	})
	r.Get("/ws", s.handleWebSocket)

	return r
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("[%s] %s %s (%s)", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, time.Since(start))
	})
}
