package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"wlcheck/internal/batch"
	"wlcheck/internal/engine"
	"wlcheck/internal/report"
	"wlcheck/internal/schemadiff"
	"wlcheck/internal/snapshot"
)

// errorResponse is the JSON body of every API error.
type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), RequestID: middleware.GetReqID(r.Context())})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

// upload is the file carried by a request.
type upload struct {
	body     io.Reader
	filename string
	closer   io.Closer
	// form is set for multipart requests, whose fields join the query.
	form bool
}

func (u upload) Close() {
	if u.closer != nil {
		_ = u.closer.Close()
	}
}

// readUpload takes the multipart "file" field when the request is a form,
// and the raw body otherwise.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (upload, error) {
	if s.cfg.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return upload{body: r.Body}, nil
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return upload{}, err
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		return upload{}, err
	}
	return upload{body: f, filename: hdr.Filename, closer: f, form: true}, nil
}

// params returns the query, merged with the form fields of multipart
// requests. Raw bodies are never parsed as forms.
func params(r *http.Request, up upload) url.Values {
	if up.form {
		return r.Form
	}
	return r.URL.Query()
}

// existingParam returns nil when the parameter is absent, so the snapshot
// store is consulted, and the parsed list (possibly empty) otherwise.
func existingParam(r *http.Request, up upload) []string {
	vals, ok := params(r, up)["existing"]
	if !ok {
		return nil
	}
	cols := []string{}
	for _, v := range vals {
		cols = append(cols, schemadiff.ParseList(v)...)
	}
	return cols
}

func watchlistName(r *http.Request, up upload) string {
	if name := strings.TrimSpace(params(r, up).Get("name")); name != "" {
		return name
	}
	if up.filename != "" {
		base := filepath.Base(up.filename)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return ""
}

// faultStatus maps a validation fault onto an HTTP status.
func faultStatus(res batch.FileResult) int {
	var mbe *http.MaxBytesError
	switch {
	case errors.Is(res.Err, engine.ErrInputTooLarge), errors.As(res.Err, &mbe):
		return http.StatusRequestEntityTooLarge
	case errors.Is(res.Err, snapshot.ErrInvalidName):
		return http.StatusBadRequest
	case res.Stage == batch.StageSnapshot:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) (batch.FileResult, bool) {
	up, err := s.readUpload(w, r)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge, err)
		} else {
			s.writeError(w, r, http.StatusBadRequest, err)
		}
		return batch.FileResult{}, false
	}
	defer up.Close()

	name := watchlistName(r, up)
	input := up.filename
	if input == "" {
		input = "request-body"
	}
	res := s.deps.ValidateReader(r.Context(), input, name, existingParam(r, up), up.body)
	if res.Err != nil {
		s.writeError(w, r, faultStatus(res), res.Err)
		return res, false
	}
	return res, true
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	res, ok := s.validate(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Wlcheck-Verdict", string(res.Report.Verdict))
	if err := report.Render(w, res.Report); err != nil {
		s.log.Error("render report", zap.Error(err))
	}
}

// diffRequest is the body of POST /api/v1/diff.
type diffRequest struct {
	Existing []string `json:"existing"`
	New      []string `json:"new"`
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	if s.cfg.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	}
	var req diffRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, schemadiff.Decide(req.Existing, req.New))
}

// snapshotResponse is the body of GET /api/v1/snapshots/{name}.
type snapshotResponse struct {
	Watchlist string   `json:"watchlist"`
	Columns   []string `json:"columns"`
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if s.deps.Store == nil {
		s.writeError(w, r, http.StatusNotFound, errors.New("no snapshot store configured"))
		return
	}
	cols, err := s.deps.Store.Columns(r.Context(), name)
	switch {
	case errors.Is(err, snapshot.ErrInvalidName):
		s.writeError(w, r, http.StatusBadRequest, err)
	case err != nil:
		s.writeError(w, r, http.StatusBadGateway, err)
	case cols == nil:
		s.writeError(w, r, http.StatusNotFound, errors.New("watchlist "+name+" has no snapshot"))
	default:
		writeJSON(w, http.StatusOK, snapshotResponse{Watchlist: name, Columns: cols})
	}
}

// indexData feeds index.tmpl.html.
type indexData struct {
	Name     string
	Existing string
	Error    string
	Result   *batch.FileResult
	JSON     string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, indexData{}); err != nil {
		s.log.Error("template error", zap.Error(err))
	}
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	data := indexData{}
	up, err := s.readUpload(w, r)
	if err != nil {
		data.Error = err.Error()
	} else {
		defer up.Close()
		data.Name = watchlistName(r, up)
		data.Existing = params(r, up).Get("existing")
		var existing []string
		if strings.TrimSpace(data.Existing) != "" {
			existing = schemadiff.ParseList(data.Existing)
		}
		res := s.deps.ValidateReader(r.Context(), up.filename, data.Name, existing, up.body)
		if res.Err != nil {
			data.Error = res.Err.Error()
		} else {
			data.Result = &res
			var sb strings.Builder
			if err := report.Render(&sb, res.Report); err == nil {
				data.JSON = sb.String()
			}
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if data.Error != "" {
		w.WriteHeader(http.StatusBadRequest)
	}
	if err := s.tmpl.Execute(w, data); err != nil {
		s.log.Error("template error", zap.Error(err))
	}
}

