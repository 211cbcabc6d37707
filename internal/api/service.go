package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"woopm.dev/internal/session"
)

// DefaultBaseURL is used when Config.BaseURL is empty.
const DefaultBaseURL = "http://localhost:3001"

const defaultTimeout = 30 * time.Second

// Service is the surface the presentation layer consumes. Every network
// method resolves to an Envelope and never returns a Go error.
type Service interface {
	Login(ctx context.Context, creds LoginCredentials) Envelope[AuthResponse]
	Register(ctx context.Context, data RegisterData) Envelope[AuthResponse]
	Logout()
	IsAuthenticated() bool

	DashboardData(ctx context.Context, orgID int) Envelope[DashboardData]
	DashboardSummary(ctx context.Context, orgID int) Envelope[DashboardData]

	Organizations(ctx context.Context) Envelope[[]Organization]
	Organization(ctx context.Context, id int) Envelope[Organization]

	SalesForecasts(ctx context.Context, orgID int) Envelope[[]SalesForecast]
	CreateSalesForecast(ctx context.Context, in SalesForecastInput) Envelope[SalesForecast]
	UpdateSalesForecast(ctx context.Context, id int, patch SalesForecastPatch) Envelope[SalesForecast]
	DeleteSalesForecast(ctx context.Context, id int) Envelope[Empty]

	SyncWooCommerce(ctx context.Context, orgID int) Envelope[SyncResult]
	WooCommerceProducts(ctx context.Context, orgID int) Envelope[[]WooCommerceProduct]
	WooCommerceOrders(ctx context.Context, orgID int) Envelope[[]WooCommerceOrder]

	BaseURL() string
}

// Config is the explicit client configuration.
type Config struct {
	// BaseURL of the backend; DefaultBaseURL when empty.
	BaseURL string
	// UseMock swaps the HTTP client for the in-process mock catalog.
	UseMock bool

	// Timeout bounds each HTTP call when HTTPClient is nil.
	Timeout    time.Duration
	HTTPClient *http.Client
	// Tracing wraps the transport with OpenTelemetry spans.
	Tracing bool

	MockLatency     time.Duration
	MockFailureRate float64
}

func (c Config) baseURL() string {
	u := strings.TrimSpace(c.BaseURL)
	if u == "" {
		u = DefaultBaseURL
	}
	return strings.TrimSuffix(u, "/")
}

// New returns the Service selected by cfg. A nil store behaves as session.NoopStore.
func New(cfg Config, store session.TokenStore) Service {
	if cfg.UseMock {
		return NewMock(cfg, store)
	}
	return NewClient(cfg, store)
}
