package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/statmap/pkg/buildinfo"
	"github.com/matzehuels/statmap/pkg/errors"
	"github.com/matzehuels/statmap/pkg/pipeline"
	"github.com/matzehuels/statmap/pkg/render/sink"
	"github.com/matzehuels/statmap/pkg/store"
	"github.com/matzehuels/statmap/pkg/thematic"
)

// ClassifyResponse is the body of a successful classify request.
type ClassifyResponse struct {
	ID        string                          `json:"id"`
	Map       *thematic.Result                `json:"map"`
	Datasets  map[string]pipeline.DatasetInfo `json:"datasets"`
	Stats     pipeline.Stats                  `json:"stats"`
	CacheInfo pipeline.CacheInfo              `json:"cache_info"`
	Stored    bool                            `json:"stored"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}
	// Legend artifacts are served by /v1/legend; geometry is in the map.
	opts.Formats = []string{string(sink.FormatJSON)}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := ClassifyResponse{
		ID:        res.ID,
		Map:       res.Map,
		Datasets:  res.Datasets,
		Stats:     res.Stats,
		CacheInfo: res.CacheInfo,
	}
	if s.store != nil {
		rec, err := store.NewRecord(res)
		if err == nil {
			err = s.store.Save(r.Context(), rec)
		}
		if err != nil {
			s.writeError(w, err)
			return
		}
		resp.Stored = true
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLegend(w http.ResponseWriter, r *http.Request) {
	format := sink.FormatSVG
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := sink.ParseFormat(q)
		if err != nil {
			s.writeError(w, err)
			return
		}
		format = f
	}
	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}
	opts.Formats = []string{string(format)}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Result-ID", res.ID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[string(format)])
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "result storage is disabled"))
		return
	}
	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", q))
			return
		}
		limit = n
	}
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if recs == nil {
		recs = []*store.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "result storage is disabled"))
		return
	}
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) decodeOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, bool) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return pipeline.Options{}, false
	}
	// Paths would let clients read server files.
	for role, ds := range opts.Datasets {
		if ds.Path != "" {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "dataset %q: path is not allowed over HTTP, send data inline", role))
			return pipeline.Options{}, false
		}
	}
	return opts, true
}

// StatusCode maps an error code to an HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.IsConfig(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeNetwork):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := StatusCode(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "err", err)
	}
	writeJSON(w, status, ErrorResponse{Code: string(code), Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
