package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"woopm.dev/internal/api"
	"woopm.dev/internal/backend"
	"woopm.dev/internal/obs"
)

const serviceName = "wpm-api"

// ReadyProbe is a readiness check, such as a database ping.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer of the development backend.
type API struct {
	router     chi.Router
	readyProbe ReadyProbe
	version    string
	backend    backend.Service

	rateBurst  int
	ratePerSec int
	tracing    bool
}

// Option configures an API.
type Option func(*API)

// WithRateLimit sets the per-client token bucket. Zero values keep the defaults.
func WithRateLimit(burst, perSecond int) Option {
	return func(a *API) {
		if burst > 0 {
			a.rateBurst = burst
		}
		if perSecond > 0 {
			a.ratePerSec = perSecond
		}
	}
}

// WithTracing wraps the handler in an OpenTelemetry server span.
func WithTracing(enabled bool) Option {
	return func(a *API) { a.tracing = enabled }
}

func New(rp ReadyProbe, version string, svc backend.Service, opts ...Option) *API {
	a := &API{
		router:     chi.NewRouter(),
		readyProbe: rp,
		version:    version,
		backend:    svc,
		rateBurst:  20,
		ratePerSec: 10,
	}
	for _, opt := range opts {
		opt(a)
	}

	r := a.router
	r.Use(middleware.Recoverer)

	r.Get("/healthz", a.Healthz)
	r.Get("/readyz", a.Ready)
	r.Get("/v1/info", a.Info)
	r.Method(http.MethodGet, "/metrics", obs.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", a.handleLogin)
		r.Post("/auth/register", a.handleRegister)

		r.Group(func(r chi.Router) {
			r.Use(a.withAuth)

			r.Get("/dashboard/{orgID}", a.handleDashboard)
			r.Get("/dashboard/summary/{orgID}", a.handleDashboard)

			r.Get("/organizations", a.handleOrganizations)
			r.Get("/organizations/{orgID}", a.handleOrganization)

			r.Get("/sales-forecasts/{orgID}", a.handleForecasts)
			r.Post("/sales-forecasts", a.handleCreateForecast)
			r.Put("/sales-forecasts/{id}", a.handleUpdateForecast)
			r.Delete("/sales-forecasts/{id}", a.handleDeleteForecast)

			r.Post("/woocommerce/sync/{orgID}", a.handleSync)
			r.Get("/woocommerce/products/{orgID}", a.handleProducts)
			r.Get("/woocommerce/orders/{orgID}", a.handleOrders)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	return a
}

// Handler returns the router wrapped with the middleware chain.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.router
	h = obs.Instrument(h)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	if a.tracing {
		h = otelhttp.NewHandler(h, serviceName)
	}
	return h
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": serviceName,
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    serviceName,
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// respond writes a successful envelope.
func respond[T any](w http.ResponseWriter, code int, data T) {
	writeJSON(w, code, api.Envelope[T]{Success: true, Data: data})
}

// writeError writes a failed envelope; the HTTP status carries the class of failure.
func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"success": false,
		"error":   msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

func handleBackendError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, backend.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, backend.ErrInvalidCredentials):
		writeError(w, r, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, backend.ErrEmailTaken):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, backend.ErrOrgNotFound):
		writeError(w, r, http.StatusNotFound, "Organization not found")
	case errors.Is(err, backend.ErrForecastNotFound):
		writeError(w, r, http.StatusNotFound, "Sales forecast not found")
	case errors.Is(err, backend.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	default:
		obs.Error("backend failure", map[string]any{
			"request_id": RequestIDFromContext(r.Context()),
			"path":       r.URL.Path,
			"error":      err,
		})
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

// intParam reads a positive integer path parameter.
func intParam(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, errors.New(name + " must be a positive integer")
	}
	return v, nil
}
