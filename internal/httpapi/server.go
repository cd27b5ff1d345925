package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"inferd/pkg/types"
)

// Service defines the methods required by the HTTP API layer. The transport
// hands over parsed requests and maps the core's typed errors to statuses;
// everything else is the gateway's business.
type Service interface {
	ListModels() []*types.ModelMetadata
	Metadata(name string) (*types.ModelMetadata, bool)
	Infer(ctx context.Context, name string, req *types.InferenceRequest) (*types.InferenceResponse, error)
	Ready() bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	r.Use(MetricsMiddleware)
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/v2/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.ModelsResponse{Models: svc.ListModels()})
	})

	r.Get("/v2/models/{model}", func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "model")
		meta, ok := svc.Metadata(name)
		if !ok {
			writeJSONError(w, http.StatusNotFound, "model not found: "+name)
			return
		}
		writeJSON(w, meta)
	})

	r.Post("/v2/models/{model}/infer", func(w http.ResponseWriter, r *http.Request) {
		handleInfer(svc, w, r)
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/v2/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	readyHandler := func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		writeJSONError(w, http.StatusServiceUnavailable, "no models loaded")
	}
	r.Get("/readyz", readyHandler)
	r.Get("/v2/health/ready", readyHandler)

	return r
}

// statusClientClosedRequest mirrors nginx's non-standard 499 for requests
// abandoned by the client before a response was written.
const statusClientClosedRequest = 499

func handleInfer(svc Service, w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	// Limit body size (configurable, default 1MiB)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req types.InferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Inputs) == 0 {
		writeJSONError(w, http.StatusBadRequest, "at least one input is required")
		return
	}
	name := chi.URLParam(r, "model")
	lvl := requestLogLevel(r)
	start := time.Now()
	logInfer(r, lvl, "infer start", name, 0, 0, nil)

	// Join server base context with request context so shutdown cancels work too.
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	if inferTimeout > 0 {
		var tcancel context.CancelFunc
		ctx, tcancel = context.WithTimeout(ctx, time.Duration(inferTimeout)*time.Second)
		defer tcancel()
	}

	resp, err := svc.Infer(ctx, name, &req)
	if err != nil {
		// Client gone or server shutting down: no response body is useful,
		// but record a real status so metrics don't count the call as a 200.
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			w.WriteHeader(statusClientClosedRequest)
			return
		}
		status := statusForError(err)
		writeJSONError(w, status, err.Error())
		logInfer(r, lvl, "infer end", name, status, time.Since(start), err)
		return
	}
	writeJSON(w, resp)
	logInfer(r, lvl, "infer end", name, http.StatusOK, time.Since(start), nil)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

func logInfer(r *http.Request, lvl LogLevel, msg, model string, status int, dur time.Duration, err error) {
	if lvl < LevelInfo {
		return
	}
	if zlog != nil {
		z := zlog.Info().Str("path", r.URL.Path).Str("model", model)
		if status != 0 {
			z = z.Int("status", status).Dur("dur", dur)
		}
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			z = z.Str("request_id", rid)
		}
		if err != nil {
			z = z.Err(err)
		}
		z.Msg(msg)
		return
	}
	if status != 0 {
		log.Printf("%s model=%s status=%d dur=%s err=%v", msg, model, status, dur, err)
		return
	}
	log.Printf("%s model=%s", msg, model)
}
