package recommend

import (
	"errors"

	"musicreco/internal/corpus"
	"musicreco/internal/logger"
)

// Options bounds the result lists and selects the malformed-row policy.
type Options struct {
	ArtistLimit int
	TrackLimit  int
	Malformed   corpus.MalformedPolicy
}

// DefaultOptions returns the standard bounds with malformed rows skipped.
func DefaultOptions() Options {
	return Options{
		ArtistLimit: DefaultArtistLimit,
		TrackLimit:  DefaultTrackLimit,
		Malformed:   corpus.SkipMalformed,
	}
}

// Engine answers recommendation requests. It holds no state between calls
// and is safe for concurrent use.
type Engine struct {
	opts   Options
	logger *logger.Logger
}

// NewEngine creates an Engine. Zero limits fall back to the defaults.
func NewEngine(opts Options, log *logger.Logger) *Engine {
	if opts.ArtistLimit <= 0 {
		opts.ArtistLimit = DefaultArtistLimit
	}
	if opts.TrackLimit <= 0 {
		opts.TrackLimit = DefaultTrackLimit
	}
	if opts.Malformed == "" {
		opts.Malformed = corpus.SkipMalformed
	}
	return &Engine{opts: opts, logger: log}
}

// Recommend builds the corpus from rows and computes both suggestion lists.
//
// Corpus errors are returned alongside an empty Result whose Error field holds
// the diagnostic, so callers can always emit a well-formed document.
func (e *Engine) Recommend(rows []corpus.Row, songID, albumID int) (Result, error) {
	c, err := corpus.Build(rows, songID, albumID, e.opts.Malformed)
	if err != nil {
		e.logRequestError(err)
		return EmptyResult(err.Error()), err
	}

	for _, r := range c.Rejected {
		e.logger.Warn("Skipping malformed row: %v", r)
	}
	e.logger.Debug("Corpus built: %d tracks, reference %d (%q by %q)", c.Len(), songID, c.Ref().Title, c.Ref().Artist)

	res := Result{
		ArtistRecommendations: MatchArtists(c, e.opts.ArtistLimit),
		GenreRecommendations:  RankSimilar(c, e.opts.TrackLimit),
	}
	e.logger.Debug("Recommended %d artists and %d tracks", len(res.ArtistRecommendations), len(res.GenreRecommendations))
	return res, nil
}

func (e *Engine) logRequestError(err error) {
	var notFound *corpus.SongNotFoundError
	var malformed *corpus.MalformedRecordError
	switch {
	case errors.Is(err, corpus.ErrEmptyInput), errors.As(err, &notFound):
		e.logger.Warn("%v", err)
	case errors.As(err, &malformed):
		e.logger.Error("Rejecting input: %v", err)
	default:
		e.logger.Error("%v", err)
	}
}
