// Package server exposes the diagram pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                 liveness and build information
//	GET  /v1/kinds                recognized diagram kinds
//	POST /v1/scene                diagram text → scene JSON
//	POST /v1/render?format=svg    diagram text → svg, json, dot, dot.svg, png or pdf
//
// Request bodies are JSON:
//
//	{"text": "flowchart LR\nA-->B", "kind": "flowchart", "name": "a.md#1", "fallback": true}
//
// Only text is required. Errors are reported as
// {"error": {"code": "INVALID_FORMAT", "message": "..."}} with a status
// derived from the code.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/deckdown/diagramscene/pkg/buildinfo"
	"github.com/deckdown/diagramscene/pkg/diagram"
	errs "github.com/deckdown/diagramscene/pkg/errors"
	"github.com/deckdown/diagramscene/pkg/pipeline"
)

// maxBodyBytes leaves room for the JSON envelope around the largest text.
const maxBodyBytes = pipeline.MaxInputBytes + 64<<10

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",

	pipeline.FormatDOTSVG: "image/svg+xml",
}

// Server serves the pipeline over HTTP.
type Server struct {
	runner  *pipeline.Runner
	base    pipeline.Options
	logger  *log.Logger
	timeout time.Duration
}

// New creates a server. base supplies the theme and defaults shared by all
// requests; per-request fields override FallbackOnEmpty, Formats, Scale
// and Detailed. A zero timeout disables the per-request deadline.
func New(runner *pipeline.Runner, base pipeline.Options, timeout time.Duration, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, base: base, logger: logger, timeout: timeout}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	if s.timeout > 0 {
		r.Use(middleware.Timeout(s.timeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/kinds", s.handleKinds)
		r.Post("/scene", s.handleScene)
		r.Post("/render", s.handleRender)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// =============================================================================
// Handlers
// =============================================================================

type request struct {
	pipeline.Input
	Fallback bool `json:"fallback,omitempty"`
}

type kindInfo struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleKinds(w http.ResponseWriter, _ *http.Request) {
	kinds := make([]kindInfo, 0, len(diagram.Kinds()))
	for _, k := range diagram.Kinds() {
		kinds = append(kinds, kindInfo{Name: k.String(), Title: diagram.StyleFor(k).Title})
	}
	writeJSON(w, http.StatusOK, kinds)
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, pipeline.FormatJSON)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	s.serve(w, r, format)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request, format string) {
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.base
	opts.FallbackOnEmpty = opts.FallbackOnEmpty || req.Fallback
	opts.Formats = []string{format}
	q := r.URL.Query()
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 || scale > 8 {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "scale must be in (0, 8], got %q", v))
			return
		}
		opts.Scale = scale
	}
	if v := q.Get("detailed"); v != "" {
		detailed, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "detailed must be a boolean, got %q", v))
			return
		}
		opts.Detailed = detailed
	}

	res, err := s.runner.Execute(r.Context(), req.Input, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", contentTypes[format])
	h.Set("X-Scene-Hash", res.SceneHash)
	h.Set("X-Scene-Kind", res.Scene.Kind.String())
	h.Set("X-Cache", cacheStatus(res.CacheInfo.SceneHit && res.CacheInfo.RenderHit))
	if res.Stats.Fallback {
		h.Set("X-Scene-Fallback", "true")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (request, error) {
	var req request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, errs.New(errs.ErrCodeInputTooLarge, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return req, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request body")
	}
	return req, nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error struct {
		Code      errs.Code `json:"code"`
		Message   string    `json:"message"`
		RequestID string    `json:"requestId,omitempty"`
	} `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errs.HTTPStatus(err)
	var body errorBody
	body.Error.Code = errs.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = errs.ErrCodeInternal
	}
	body.Error.Message = errs.UserMessage(err)
	body.Error.RequestID = RequestIDFrom(r.Context())

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", body.Error.RequestID, "error", err)
	} else {
		s.logger.Debug("request rejected", "id", body.Error.RequestID, "error", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
