// Package httpapi exposes the rendering service over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/alexisbeaulieu97/stackrender/internal/app/rendering"
	"github.com/alexisbeaulieu97/stackrender/internal/config"
	"github.com/alexisbeaulieu97/stackrender/internal/diagnostics"
	"github.com/alexisbeaulieu97/stackrender/internal/logger"
	"github.com/alexisbeaulieu97/stackrender/internal/ports"
	"github.com/alexisbeaulieu97/stackrender/internal/render"
	stackerrors "github.com/alexisbeaulieu97/stackrender/pkg/errors"
)

// CorrelationHeader carries the correlation id of a request in both directions.
const CorrelationHeader = "X-Correlation-ID"

const maxBodyBytes = 1 << 20

// Options configures the router.
type Options struct {
	CORSOrigins []string
	Timeout     time.Duration
	Logger      ports.Logger
}

// RenderResponse is the JSON body returned by POST /render/{mode}.
type RenderResponse struct {
	Mode             string                `json:"mode"`
	Text             string                `json:"text"`
	Diagnostics      []DiagnosticResponse  `json:"diagnostics"`
	InputsToValidate []string              `json:"inputs_to_validate"`
	Bootstrap        ports.BootstrapConfig `json:"bootstrap"`
}

// DiagnosticResponse is one diagnostic in a RenderResponse.
type DiagnosticResponse struct {
	Kind    string                 `json:"kind"`
	Name    string                 `json:"name,omitempty"`
	Message string                 `json:"message"`
	Warning bool                   `json:"warning"`
	Context map[string]interface{} `json:"context,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Line  int    `json:"line,omitempty"`
}

// NewRouter builds the HTTP handler:
//
//	GET  /healthz
//	GET  /modes
//	POST /render/{mode}?feedback=true&scope=<scope>
func NewRouter(svc *rendering.Service, opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOp()
	}
	log = log.With("component", "server")

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(correlation)
	r.Use(requestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", CorrelationHeader},
		ExposedHeaders: []string{CorrelationHeader},
		MaxAge:         300,
	}))

	h := &handlers{svc: svc, log: log}
	r.Get("/healthz", h.health)
	r.Get("/modes", h.modes)
	r.Post("/render/{mode}", h.render)
	return r
}

type handlers struct {
	svc *rendering.Service
	log ports.Logger
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) modes(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(render.Modes()))
	for _, m := range render.Modes() {
		names = append(names, m.Name)
	}
	writeJSON(w, http.StatusOK, map[string][]string{"modes": names})
}

func (h *handlers) render(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	mode := chi.URLParam(r, "mode")

	feedback := true
	if raw := r.URL.Query().Get("feedback"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "feedback must be a boolean", Field: "feedback"})
			return
		}
		feedback = parsed
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error()})
		return
	}

	doc, err := config.DecodeDocument(body, "request body")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.svc.Render(ctx, rendering.Request{
		Mode:     mode,
		Document: doc,
		Feedback: feedback,
		Scope:    r.URL.Query().Get("scope"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, NewRenderResponse(res))
}

// NewRenderResponse converts a render result into its JSON shape.
func NewRenderResponse(res render.Result) RenderResponse {
	out := RenderResponse{
		Mode:             res.Mode,
		Text:             res.Text,
		Diagnostics:      make([]DiagnosticResponse, 0, len(res.Diagnostics)),
		InputsToValidate: res.InputsToValidate,
		Bootstrap:        res.Bootstrap,
	}
	if out.InputsToValidate == nil {
		out.InputsToValidate = []string{}
	}
	for _, d := range res.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, diagnosticResponse(d))
	}
	return out
}

func diagnosticResponse(d diagnostics.Diagnostic) DiagnosticResponse {
	return DiagnosticResponse{
		Kind:    string(d.Kind),
		Name:    d.Name,
		Message: d.Message,
		Warning: d.Warning(),
		Context: d.Context,
	}
}

func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		parseErr      *stackerrors.ParseError
		validationErr *stackerrors.ValidationError
	)
	switch {
	case errors.As(err, &parseErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Line: parseErr.Line})
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Field: validationErr.Field})
	case errors.Is(err, stackerrors.ErrUnknownMode):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		h.log.Error(r.Context(), "render request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func correlation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(CorrelationHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(CorrelationHeader, id)
		next.ServeHTTP(w, r.WithContext(ports.WithCorrelationID(r.Context(), id)))
	})
}

func requestLogger(log ports.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
