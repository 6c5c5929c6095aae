package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"premiumd/internal/dataset"
	"premiumd/internal/encode"
	"premiumd/internal/service"
	"premiumd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListModels() []types.Model
	Status() types.StatusResponse
	Predict(ctx context.Context, req types.PredictRequest) (types.PredictResponse, error)
	Ready() bool
}

var validate = validator.New()

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON and HTML endpoints
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}

	// Dashboard pages
	r.Get("/", handleHome)
	r.Get("/predict", handlePredictPage)
	r.Post("/predict", handlePredictForm(svc))
	r.Get("/analytics", handleAnalyticsPage)
	r.Get("/upload", handleUploadPage)
	r.Post("/upload", handleUploadForm)

	// JSON API
	r.Route("/v1", func(r chi.Router) {
		r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(types.ModelsResponse{Models: svc.ListModels()}); err != nil {
				writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			}
		})
		r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(svc.Status()); err != nil {
				writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			}
		})
		r.Post("/predict", handlePredictJSON(svc))
		r.Post("/upload", handleUploadJSON)
		r.Get("/animation", handleAnimation)
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/summary", analyticsHandler(func(recs []dataset.Record) any {
				return dataset.Summary(recs)
			}))
			r.Get("/age-charges", analyticsHandler(func(recs []dataset.Record) any {
				return dataset.AgeChargesBySex(recs)
			}))
			r.Get("/bmi-charges", analyticsHandler(func(recs []dataset.Record) any {
				return dataset.BMIChargesBySmoker(recs)
			}))
			r.Get("/smoker-impact", analyticsHandler(func(recs []dataset.Record) any {
				return dataset.SmokerBoxStats(recs)
			}))
		})
	})

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

func handlePredictJSON(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.PredictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeJSONError(w, http.StatusBadRequest, validationMessage(err))
			return
		}

		start := time.Now()
		resp, err := svc.Predict(r.Context(), req)
		if err != nil {
			if r.Context().Err() != nil {
				return
			}
			status := predictErrorStatus(err)
			countPrediction(req.Model, "error")
			writeJSONError(w, status, err.Error())
			logPredict(r, status, time.Since(start), err)
			return
		}
		countPrediction(req.Model, "ok")
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
		logPredict(r, http.StatusOK, time.Since(start), nil)
	}
}

// predictErrorStatus maps well-known service errors to HTTP status codes.
func predictErrorStatus(err error) int {
	var pe encode.ParseError
	if errors.As(err, &pe) {
		return http.StatusBadRequest
	}
	if service.IsModelNotFound(err) {
		return http.StatusNotFound
	}
	if service.IsArtifactUnavailable(err) {
		return http.StatusServiceUnavailable
	}
	var he HTTPError
	if errors.As(err, &he) {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

func logPredict(r *http.Request, status int, dur time.Duration, err error) {
	if requestLogLevel(r) < LevelInfo || zlog == nil {
		return
	}
	z := zlog.Info().Int("status", status).Dur("dur", dur).Str("path", r.URL.Path)
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	if err != nil {
		z = z.Err(err)
	}
	z.Msg("predict")
}

// validationMessage flattens a validator error into one readable line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return "invalid value for: " + strings.Join(fields, ", ")
}

// analyticsHandler wraps a series builder with the shared dataset
// loading and error fallback behavior: absent dataset answers 404 with
// a hint, a malformed one answers 422. Never a crash.
func analyticsHandler(build func([]dataset.Record) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, status, msg := loadDataset()
		if status != 0 {
			writeJSONError(w, status, msg)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(build(recs)); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		}
	}
}

// loadDataset reads the reference CSV fresh per request (open, read,
// close). A zero status means success.
func loadDataset() ([]dataset.Record, int, string) {
	if datasetPath == "" {
		return nil, http.StatusNotFound, "no dataset configured"
	}
	recs, err := dataset.Load(datasetPath)
	if err != nil {
		if dataset.IsMalformed(err) {
			return nil, http.StatusUnprocessableEntity, err.Error()
		}
		return nil, http.StatusNotFound, "dataset not found; place the insurance CSV at " + datasetPath
	}
	return recs, 0, ""
}

func handleUploadJSON(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()
	resp, err := dataset.Preview(file, previewRows)
	if err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

// handleAnimation serves the decorative animation JSON when present.
// Missing or corrupt files degrade to 404; the pages render without it.
func handleAnimation(w http.ResponseWriter, r *http.Request) {
	b, ok := loadAnimation()
	if !ok {
		writeJSONError(w, http.StatusNotFound, "animation not available")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(b)
}

func loadAnimation() ([]byte, bool) {
	if animationPath == "" {
		return nil, false
	}
	b, err := os.ReadFile(animationPath)
	if err != nil || !json.Valid(b) {
		return nil, false
	}
	return b, true
}
