// Package httpapi exposes the layout pipeline over HTTP.
//
// The API stores layout documents and renders them on demand:
//
//	GET    /healthz                       liveness probe
//	GET    /api/algorithms                available algorithms
//	GET    /api/documents                 list stored documents
//	POST   /api/documents                 store a document
//	GET    /api/documents/{id}            fetch a document
//	DELETE /api/documents/{id}            remove a document
//	GET    /api/documents/{id}/render     run the pipeline, return the artifact
//	POST   /api/render                    one-shot render without storing
//
// Render options travel as query parameters (algorithm, format, leading,
// translate-wraps, simplify); errors come back as JSON with the structured
// error code.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/raggedblocks/pkg/errors"
	"github.com/matzehuels/raggedblocks/pkg/layout"
	"github.com/matzehuels/raggedblocks/pkg/pipeline"
	"github.com/matzehuels/raggedblocks/pkg/store"
)

// maxDocumentSize bounds uploaded documents.
const maxDocumentSize = 4 << 20

// Server wires the pipeline runner and document store into an http.Handler.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// New creates the API server.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: st, logger: logger}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(maxDocumentSize))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/algorithms", s.handleAlgorithms)
		r.Post("/render", s.handleRenderOnce)
		r.Route("/documents", func(r chi.Router) {
			r.Get("/", s.handleList)
			r.Post("/", s.handleCreate)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGet)
				r.Delete("/", s.handleDelete)
				r.Get("/render", s.handleRender)
			})
		})
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"algorithms": layout.Names()})
}

// createRequest is the POST /api/documents body.
type createRequest struct {
	Name string          `json:"name"`
	Tree json.RawMessage `json:"tree"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if len(req.Tree) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "missing tree"))
		return
	}
	// Validate the tree before persisting it.
	if _, err := s.runner.Parse(r.Context(), req.Tree, pipeline.Options{Source: pipeline.SourceJSON}); err != nil {
		s.writeError(w, err)
		return
	}

	doc := store.NewDocument(req.Name, req.Tree)
	if err := s.store.Put(r.Context(), doc); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": doc.ID})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": infos})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":         doc.ID,
		"name":       doc.Name,
		"tree":       json.RawMessage(doc.Tree),
		"created_at": doc.CreatedAt,
		"updated_at": doc.UpdatedAt,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.renderSource(w, r, doc.Tree)
}

func (s *Server) handleRenderOnce(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if len(req.Tree) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "missing tree"))
		return
	}
	s.renderSource(w, r, req.Tree)
}

func (s *Server) renderSource(w http.ResponseWriter, r *http.Request, source []byte) {
	opts, format, err := optionsFromQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), source, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	switch format {
	case pipeline.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
	default:
		w.Header().Set("Content-Type", "image/svg+xml")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// optionsFromQuery maps query parameters onto pipeline options.
func optionsFromQuery(r *http.Request) (pipeline.Options, string, error) {
	q := r.URL.Query()
	opts := pipeline.Options{Source: pipeline.SourceJSON}

	if alg := q.Get("algorithm"); alg != "" {
		opts.Algorithm = alg
	}
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts.Formats = []string{format}

	if v := q.Get("leading"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, format, errors.New(errors.ErrCodeInvalidInput, "bad leading %q", v)
		}
		opts.IdealLeading = &f
	}
	if v := q.Get("translate-wraps"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, format, errors.New(errors.ErrCodeInvalidInput, "bad translate-wraps %q", v)
		}
		opts.TranslateWraps = &b
	}
	if v := q.Get("simplify"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, format, errors.New(errors.ErrCodeInvalidInput, "bad simplify %q", v)
		}
		opts.EnableSimplification = &b
	}
	return opts, format, nil
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.CodeOf(err)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound) || code == errors.ErrCodeNotFound || code == errors.ErrCodeDocumentNotFound:
		status = http.StatusNotFound
	case code == errors.ErrCodeInvalidInput || code == errors.ErrCodeInvalidDocument ||
		code == errors.ErrCodeInvalidAlgorithm || code == errors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case code == errors.ErrCodeAborted:
		status = http.StatusRequestTimeout
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Code: string(code), Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
