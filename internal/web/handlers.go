package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"musicreco/internal/corpus"
	"musicreco/internal/library"
	"musicreco/internal/recommend"
)

const (
	defaultFindLimit = 10
	maxFindLimit     = 100
)

type RecommendRequest struct {
	SongID  int `json:"song_id"`
	AlbumID int `json:"album_id"`
}

type ScanRequest struct {
	Dir string `json:"dir"`
}

type JobResponse struct {
	ID          string    `json:"id"`
	Dir         string    `json:"dir"`
	Status      JobStatus `json:"status"`
	Progress    int       `json:"progress"`
	Total       int       `json:"total"`
	Songs       int       `json:"songs"`
	Skipped     int       `json:"skipped"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   string    `json:"created_at"`
	StartedAt   *string   `json:"started_at,omitempty"`
	CompletedAt *string   `json:"completed_at,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, recommend.EmptyResult("invalid request body"))
		return
	}

	rows, err := s.catalog.Rows(r.Context())
	if err != nil {
		s.logger.Error("Failed to load catalog: %v", err)
		writeJSON(w, http.StatusInternalServerError, recommend.EmptyResult("failed to load catalog"))
		return
	}

	res, err := s.engine.Recommend(rows, req.SongID, req.AlbumID)
	writeJSON(w, recommendStatus(err), res)
}

func recommendStatus(err error) int {
	var notFound *corpus.SongNotFoundError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, corpus.ErrEmptyInput):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// handleAlbums suggests albums for the catalog song given by song_id. Online
// lookup failures are reported in the report's error field with status 200.
func (s *Server) handleAlbums(w http.ResponseWriter, r *http.Request) {
	songID, err := strconv.Atoi(r.URL.Query().Get("song_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "song_id must be an integer")
		return
	}

	song, err := s.catalog.Song(r.Context(), songID)
	if errors.Is(err, library.ErrSongNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("Failed to load song %d: %v", songID, err)
		writeError(w, http.StatusInternalServerError, "failed to load song")
		return
	}

	rows, err := s.catalog.Rows(r.Context())
	if err != nil {
		s.logger.Error("Failed to load catalog: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load catalog")
		return
	}

	res, err := s.engine.Recommend(rows, song.ID, song.AlbumID)
	if err != nil {
		writeError(w, recommendStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.albums.Suggest(r.Context(), res, song.Artist))
}

func (s *Server) handleTracks(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	limit := defaultFindLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxFindLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	matches, err := s.catalog.Find(r.Context(), query, limit)
	if err != nil {
		s.logger.Error("Track lookup failed: %v", err)
		writeError(w, http.StatusInternalServerError, "track lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if req.Dir == "" {
		req.Dir = s.config.MusicDir
	}
	if req.Dir == "" {
		writeError(w, http.StatusBadRequest, "dir is required")
		return
	}

	ctx, cancel := context.WithCancel(s.ctx)
	job := s.jobMgr.CreateJob(req.Dir, cancel)
	s.logger.Info("Created scan job %s for %s", job.ID, req.Dir)

	go s.processJob(ctx, cancel, job.ID, req.Dir)

	writeJSON(w, http.StatusAccepted, jobToResponse(job))
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := s.jobMgr.ListJobs()
	responses := make([]*JobResponse, len(jobs))
	for i, job := range jobs {
		responses[i] = jobToResponse(job)
	}
	writeJSON(w, http.StatusOK, responses)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobMgr.GetJob(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, jobToResponse(job))
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, err := s.jobMgr.GetJob(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if job.Status.Finished() {
		writeError(w, http.StatusConflict, "job already "+string(job.Status))
		return
	}

	if job.Cancel != nil {
		job.Cancel()
	}
	s.jobMgr.UpdateJob(id, func(j *Job) {
		j.Status = StatusCancelled
	})

	writeJSON(w, http.StatusOK, map[string]string{"status": string(StatusCancelled)})
}

// processJob runs the scan for job id. ctx is cancelled by handleCancelJob,
// which may happen before the job starts.
func (s *Server) processJob(ctx context.Context, cancel context.CancelFunc, id, dir string) {
	defer cancel()

	started := false
	s.jobMgr.UpdateJob(id, func(j *Job) {
		if j.Status.Finished() {
			return
		}
		if ctx.Err() != nil {
			j.Status = StatusCancelled
			return
		}
		j.Status = StatusRunning
		started = true
	})
	if !started {
		s.logger.Info("Scan job %s cancelled before start", id)
		return
	}
	s.logger.Info("Starting scan job %s", id)

	fail := func(err error) {
		s.logger.Error("Scan job %s failed: %v", id, err)
		s.jobMgr.UpdateJob(id, func(j *Job) {
			if ctx.Err() != nil {
				j.Status = StatusCancelled
				return
			}
			j.Status = StatusFailed
			j.Error = err.Error()
		})
	}

	res, err := s.scan(ctx, dir, library.ScanOptions{
		UnknownGenre: s.config.UnknownGenre,
		OnProgress: func(done, total int) {
			s.jobMgr.UpdateJob(id, func(j *Job) {
				j.Progress = done
				j.Total = total
			})
		},
	}, s.logger)
	if err != nil {
		fail(err)
		return
	}
	if err := ctx.Err(); err != nil {
		fail(err)
		return
	}

	saved, err := s.catalog.SaveScan(ctx, res)
	if err != nil {
		fail(err)
		return
	}

	s.jobMgr.UpdateJob(id, func(j *Job) {
		j.Songs = saved
		j.Skipped = res.Skipped
		j.Status = StatusCompleted
	})
	s.logger.Info("Scan job %s completed: %d songs", id, saved)
}

func jobToResponse(job Job) *JobResponse {
	resp := &JobResponse{
		ID:        job.ID,
		Dir:       job.Dir,
		Status:    job.Status,
		Progress:  job.Progress,
		Total:     job.Total,
		Songs:     job.Songs,
		Skipped:   job.Skipped,
		Error:     job.Error,
		CreatedAt: job.CreatedAt.Format(time.RFC3339),
	}

	if job.StartedAt != nil {
		started := job.StartedAt.Format(time.RFC3339)
		resp.StartedAt = &started
	}

	if job.CompletedAt != nil {
		completed := job.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &completed
	}

	return resp
}
