// Package api serves the export pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz            liveness and build version
//	POST /v1/preflight       project checks without exporting
//	POST /v1/exports         export one or more views
//	GET  /v1/exports/{key}   download a stored artifact
//
// Export requests carry the project inline. Failures use the same error
// codes as the CLI and map to HTTP statuses by [StatusFor].
package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/furnidraw/pkg/buildinfo"
	"github.com/matzehuels/furnidraw/pkg/cache"
	"github.com/matzehuels/furnidraw/pkg/errors"
	"github.com/matzehuels/furnidraw/pkg/furniture"
	"github.com/matzehuels/furnidraw/pkg/geom"
	fio "github.com/matzehuels/furnidraw/pkg/io"
	"github.com/matzehuels/furnidraw/pkg/observability"
	"github.com/matzehuels/furnidraw/pkg/pipeline"
	"github.com/matzehuels/furnidraw/pkg/storage"
)

// DefaultMaxBodyBytes limits request bodies.
const DefaultMaxBodyBytes = 8 << 20

// DefaultTimeout bounds one request, exports included.
const DefaultTimeout = 60 * time.Second

// Server holds the HTTP handlers.
type Server struct {
	Runner       *pipeline.Runner
	Logger       *log.Logger
	MaxBodyBytes int64
	Timeout      time.Duration
}

// NewServer returns a server exporting through runner.
func NewServer(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		Runner:       runner,
		Logger:       logger,
		MaxBodyBytes: DefaultMaxBodyBytes,
		Timeout:      DefaultTimeout,
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.Timeout))

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/preflight", s.preflight)
		r.Post("/exports", s.createExport)
		r.Get("/exports/*", s.getArtifact)
	})
	return r
}

// logRequests reports each request to the HTTP hooks and the logger.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// The pattern is known only after routing.
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, dur)
		s.Logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", dur,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// =============================================================================
// Requests and responses
// =============================================================================

// ExportRequest is the body of POST /v1/exports. View and Views are
// alternatives; Views wins when both are set.
type ExportRequest struct {
	Space      furniture.SpaceEnvelope  `json:"space"`
	Modules    []furniture.PlacedModule `json:"modules"`
	View       string                   `json:"view,omitempty"`
	Views      []string                 `json:"views,omitempty"`
	Formats    []string                 `json:"formats,omitempty"`
	Strategy   string                   `json:"strategy,omitempty"`
	SideFilter string                   `json:"side_filter,omitempty"`
	Sanitize   string                   `json:"sanitize,omitempty"`
	SVGWidth   float64                  `json:"svg_width,omitempty"`
	PNGWidth   int                      `json:"png_width,omitempty"`
	Check      bool                     `json:"check,omitempty"`
	Refresh    bool                     `json:"refresh,omitempty"`
	// Inline returns artifact bytes in the response even when stored.
	Inline bool `json:"inline,omitempty"`
}

// ArtifactResponse is an artifact with its bytes when they are not
// retrievable from a store.
type ArtifactResponse struct {
	pipeline.Artifact
	Data []byte `json:"data,omitempty"`
}

// ResultResponse is one view's export result.
type ResultResponse struct {
	*pipeline.Result
	Artifacts []ArtifactResponse `json:"artifacts,omitempty"`
}

// ExportResponse is the body returned by POST /v1/exports.
type ExportResponse struct {
	Success bool             `json:"success"`
	Results []ResultResponse `json:"results"`
}

// PreflightResponse is the body returned by POST /v1/preflight.
type PreflightResponse struct {
	OK      bool   `json:"ok"`
	Summary string `json:"summary"`
	pipeline.Preflight
}

// ErrorResponse is the body of every non-export failure.
type ErrorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidView, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeInvalidSpace, errors.ErrCodeInvalidProject, errors.ErrCodeNoScene:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	info := buildinfo.Current()
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": info.Version,
		"commit":  info.Commit,
	})
}

func (s *Server) preflight(w http.ResponseWriter, r *http.Request) {
	project, err := fio.ReadProject(http.MaxBytesReader(w, r.Body, s.MaxBodyBytes), fio.FormatJSON)
	if err != nil {
		writeError(w, err)
		return
	}
	report := s.Runner.Preflight(project)
	writeJSON(w, http.StatusOK, PreflightResponse{
		OK:        report.OK(),
		Summary:   report.Summary(),
		Preflight: report,
	})
}

func (s *Server) createExport(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode export request"))
		return
	}
	views, err := parseViews(req)
	if err != nil {
		writeError(w, err)
		return
	}

	opts := pipeline.Options{
		Space:      req.Space,
		Modules:    req.Modules,
		Strategy:   req.Strategy,
		SideFilter: req.SideFilter,
		Sanitize:   req.Sanitize,
		Formats:    req.Formats,
		SVGWidth:   req.SVGWidth,
		PNGWidth:   req.PNGWidth,
		Check:      req.Check,
		Refresh:    req.Refresh,
		Logger:     s.Logger.With("request_id", middleware.GetReqID(r.Context())),
	}
	var results []*pipeline.Result
	if len(views) == 1 {
		opts.View = string(views[0])
		results = []*pipeline.Result{s.Runner.Export(r.Context(), opts)}
	} else {
		results = s.Runner.ExportViews(r.Context(), opts, views)
	}

	resp := ExportResponse{Success: true}
	status := http.StatusOK
	for _, res := range results {
		if !res.Success {
			resp.Success = false
			if status == http.StatusOK {
				status = StatusFor(res.Code)
			}
		}
		resp.Results = append(resp.Results, toResultResponse(res, req.Inline))
	}
	writeJSON(w, status, resp)
}

func (s *Server) getArtifact(w http.ResponseWriter, r *http.Request) {
	if s.Runner.Store == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "no artifact store configured"))
		return
	}
	key := storage.KeyPrefix + "/" + strings.TrimPrefix(chi.URLParam(r, "*"), storage.KeyPrefix+"/")
	data, err := s.Runner.Store.Get(r.Context(), key)
	if err != nil {
		if stderrors.Is(err, cache.ErrNotFound) {
			err = errors.Wrap(errors.ErrCodeNotFound, err, "artifact not found: %s", key)
		}
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypeFor(key))
	w.Header().Set("Content-Disposition", `attachment; filename="`+path.Base(key)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// =============================================================================
// Helpers
// =============================================================================

func parseViews(req ExportRequest) ([]geom.View, error) {
	names := req.Views
	if len(names) == 0 {
		names = []string{req.View}
	}
	views := make([]geom.View, 0, len(names))
	for _, n := range names {
		if n == "" {
			views = append(views, pipeline.DefaultView)
			continue
		}
		v, err := geom.ParseView(n)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

func toResultResponse(res *pipeline.Result, inline bool) ResultResponse {
	out := ResultResponse{Result: res}
	for _, a := range res.Artifacts {
		ar := ArtifactResponse{Artifact: a}
		if inline || a.Location == nil {
			ar.Data = a.Data
		}
		out.Artifacts = append(out.Artifacts, ar)
	}
	return out
}

// contentTypeFor picks the content type from a stored key's extension.
func contentTypeFor(key string) string {
	if strings.HasSuffix(key, ".slots.svg") {
		return storage.ContentType(pipeline.FormatSlotMap)
	}
	return storage.ContentType(strings.TrimPrefix(path.Ext(key), "."))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, StatusFor(code), ErrorResponse{Code: code, Message: errors.UserMessage(err)})
}
