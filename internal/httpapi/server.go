package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mlserve/internal/inference"
	"mlserve/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	PredictImage(ctx context.Context, img inference.ImageBuffer) ([]types.Record, error)
	Generate(ctx context.Context, prompt string) ([]types.Record, error)
	Status() types.StatusResponse
	Ready() bool
	Loader() inference.LoaderIdentity
	Task() inference.TaskKind
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(corsOptions()))
	}

	h := &handlers{svc: svc}
	r.Post("/predict", h.predict)
	r.Post("/generate", h.generate)
	r.Get("/test", h.test)
	r.Get("/status", h.status)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

func corsOptions() cors.Options {
	o := cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: corsAllowedMethods,
		AllowedHeaders: corsAllowedHeaders,
		MaxAge:         300,
	}
	if len(o.AllowedOrigins) == 0 {
		o.AllowedOrigins = []string{"*"}
	}
	if len(o.AllowedMethods) == 0 {
		o.AllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	}
	if len(o.AllowedHeaders) == 0 {
		o.AllowedHeaders = []string{"Content-Type", "X-Log-Level"}
	}
	return o
}

type handlers struct {
	svc Service
}

// predict godoc
// @Summary      Run the configured model on an image
// @Description  Accepts a multipart upload (field image_file) or a JSON body with image_base64 or image_url.
// @Tags         predict
// @Accept       multipart/form-data,json
// @Produce      json
// @Param        image_file  formData  file                 false  "Image file"
// @Param        request     body      types.PredictRequest false  "Base64 image or URL"
// @Success      200  {object}  types.PredictResponse
// @Failure      400  {object}  types.ErrorResponse
// @Failure      415  {object}  types.ErrorResponse
// @Failure      500  {object}  types.ErrorResponse
// @Failure      503  {object}  types.ErrorResponse
// @Router       /predict [post]
func (h *handlers) predict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	lvl := requestLogLevel(r)
	logStart(r, lvl, "predict start")
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	ctx, cancel := requestContext(r)
	defer cancel()
	img, err := imageFromRequest(ctx, r)
	if err != nil {
		h.fail(w, r, lvl, "predict end", start, err)
		return
	}
	out, err := h.svc.PredictImage(ctx, img)
	if err != nil {
		h.fail(w, r, lvl, "predict end", start, err)
		return
	}
	h.ok(w, r, lvl, "predict end", start, h.svc.Task(), out)
}

// generate godoc
// @Summary      Complete a prompt with the configured causal language model
// @Tags         generate
// @Accept       json
// @Produce      json
// @Param        request  body      types.GenerateRequest  true  "Prompt"
// @Success      200  {object}  types.PredictResponse
// @Failure      400  {object}  types.ErrorResponse
// @Failure      415  {object}  types.ErrorResponse
// @Failure      500  {object}  types.ErrorResponse
// @Failure      503  {object}  types.ErrorResponse
// @Router       /generate [post]
func (h *handlers) generate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	lvl := requestLogLevel(r)
	logStart(r, lvl, "generate start")
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		h.fail(w, r, lvl, "generate end", start, unsupportedMedia("Content-Type must be application/json"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req types.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, lvl, "generate end", start, badRequest("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		h.fail(w, r, lvl, "generate end", start, badRequest("prompt is required"))
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	out, err := h.svc.Generate(ctx, req.Prompt)
	if err != nil {
		h.fail(w, r, lvl, "generate end", start, err)
		return
	}
	h.ok(w, r, lvl, "generate end", start, inference.TaskGenerator, out)
}

// test godoc
// @Summary      Self-test with the configured example image
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse
// @Failure      503  {object}  types.HealthResponse
// @Router       /test [get]
func (h *handlers) test(w http.ResponseWriter, r *http.Request) {
	if testInputPath == "" {
		if h.svc.Ready() {
			writeJSON(w, http.StatusOK, types.HealthResponse{Status: true})
			return
		}
		writeJSON(w, http.StatusServiceUnavailable, types.HealthResponse{Status: false, Error: "model not loaded"})
		return
	}
	img, err := LoadImageFile(testInputPath)
	if err == nil {
		ctx, cancel := requestContext(r)
		defer cancel()
		_, err = h.svc.PredictImage(ctx, img)
	}
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, types.HealthResponse{Status: false, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, types.HealthResponse{Status: true})
}

// status godoc
// @Summary      Model and server status
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /status [get]
func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Status())
}

func (h *handlers) ok(w http.ResponseWriter, r *http.Request, lvl LogLevel, msg string, start time.Time, task inference.TaskKind, out []types.Record) {
	id := uuid.NewString()
	w.Header().Set("X-Prediction-ID", id)
	writeJSON(w, http.StatusOK, types.PredictResponse{
		ID:     id,
		Loader: string(h.svc.Loader()),
		Task:   string(task),
		Result: out,
	})
	logEnd(r, lvl, msg, http.StatusOK, start, nil)
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, lvl LogLevel, msg string, start time.Time, err error) {
	// Client went away; nothing to write.
	if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
		return
	}
	status := statusForError(err)
	writeJSONError(w, status, err.Error())
	logEnd(r, lvl, msg, status, start, err)
}
