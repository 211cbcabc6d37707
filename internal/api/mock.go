package api

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"woopm.dev/internal/ids"
	"woopm.dev/internal/session"
)

// Mock serves a fixed development catalog in-process. It honours the same
// token contract as Client: login/register write the store, logout clears it.
type Mock struct {
	store       session.TokenStore
	latency     time.Duration
	failureRate float64

	mu        sync.Mutex
	orgs      []Organization
	forecasts []SalesForecast
	products  []WooCommerceProduct
	orders    []WooCommerceOrder
	nextID    int
}

var _ Service = (*Mock)(nil)

// NewMock returns a mock seeded with the development catalog.
func NewMock(cfg Config, store session.TokenStore) *Mock {
	if store == nil {
		store = session.NoopStore{}
	}
	rate := cfg.MockFailureRate
	if rate < 0 {
		rate = 0
	}
	return &Mock{
		store:       store,
		latency:     cfg.MockLatency,
		failureRate: rate,
		orgs: []Organization{
			{ID: 1, Name: "TechStore Italia", StripeCustomerID: "cus_techstore_001", CreatedAt: "2024-01-15T10:30:00Z", UpdatedAt: "2024-03-20T14:45:00Z"},
			{ID: 2, Name: "Fashion Boutique Milano", StripeCustomerID: "cus_fashion_002", CreatedAt: "2024-02-10T09:15:00Z", UpdatedAt: "2024-03-18T16:20:00Z"},
		},
		forecasts: []SalesForecast{
			{ID: 1, ProductID: 101, ForecastedSales: 1250.00, ForecastDate: "2024-04-01T00:00:00Z", OrganizationID: 1},
			{ID: 2, ProductID: 102, ForecastedSales: 890.50, ForecastDate: "2024-04-01T00:00:00Z", OrganizationID: 1},
			{ID: 3, ProductID: 103, ForecastedSales: 2100.75, ForecastDate: "2024-04-01T00:00:00Z", OrganizationID: 1},
		},
		products: []WooCommerceProduct{
			{ID: 101, Name: "iPhone 15 Pro Max", Price: "1299.00", Status: "publish", StockQuantity: intPtr(25)},
			{ID: 102, Name: "MacBook Air M3", Price: "1199.00", Status: "publish", StockQuantity: intPtr(15)},
			{ID: 103, Name: "AirPods Pro", Price: "249.00", Status: "publish", StockQuantity: intPtr(50)},
			{ID: 104, Name: "iPad Air", Price: "599.00", Status: "publish", StockQuantity: intPtr(30)},
		},
		orders: []WooCommerceOrder{
			{ID: 1001, Status: "completed", Total: "1548.00", DateCreated: "2024-03-20T10:30:00Z", CustomerID: intPtr(201)},
			{ID: 1002, Status: "processing", Total: "599.00", DateCreated: "2024-03-19T14:15:00Z", CustomerID: intPtr(202)},
			{ID: 1003, Status: "completed", Total: "249.00", DateCreated: "2024-03-18T09:45:00Z", CustomerID: intPtr(203)},
		},
		nextID: 100,
	}
}

func (m *Mock) BaseURL() string { return "mock://" }

func (m *Mock) Login(ctx context.Context, creds LoginCredentials) Envelope[AuthResponse] {
	if err := m.wait(ctx); err != nil {
		return failure[AuthResponse](err.Error())
	}
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return failure[AuthResponse](errInvalidCredential)
	}
	return m.issue(User{ID: 1, Email: creds.Email, Name: "Admin User", OrganizationID: 1})
}

func (m *Mock) Register(ctx context.Context, data RegisterData) Envelope[AuthResponse] {
	if err := m.wait(ctx); err != nil {
		return failure[AuthResponse](err.Error())
	}
	if strings.TrimSpace(data.Email) == "" || data.Password == "" || strings.TrimSpace(data.Name) == "" {
		return failure[AuthResponse]("email, password and name are required")
	}
	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.mu.Unlock()
	return m.issue(User{ID: id, Email: data.Email, Name: data.Name, OrganizationID: 1})
}

func (m *Mock) issue(u User) Envelope[AuthResponse] {
	resp := AuthResponse{AccessToken: "mock-" + ids.New(), TokenType: "bearer", User: u}
	m.store.Set(resp.AccessToken)
	return success(resp)
}

func (m *Mock) Logout() { m.store.Clear() }

func (m *Mock) IsAuthenticated() bool {
	_, ok := m.store.Get()
	return ok
}

func (m *Mock) DashboardData(ctx context.Context, orgID int) Envelope[DashboardData] {
	if err := m.wait(ctx); err != nil {
		return failure[DashboardData](err.Error())
	}
	if m.fail() {
		return failure[DashboardData](errDashboardFetch)
	}
	return success(m.summary(orgID))
}

func (m *Mock) DashboardSummary(ctx context.Context, orgID int) Envelope[DashboardData] {
	if err := m.wait(ctx); err != nil {
		return failure[DashboardData](err.Error())
	}
	return success(m.summary(orgID))
}

func (m *Mock) summary(orgID int) DashboardData {
	return DashboardData{TotalProducts: 156, TotalForecastedSales: 45280.50, OrganizationID: orgID}
}

func (m *Mock) Organizations(ctx context.Context) Envelope[[]Organization] {
	if err := m.wait(ctx); err != nil {
		return failure[[]Organization](err.Error())
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return success(append([]Organization(nil), m.orgs...))
}

func (m *Mock) Organization(ctx context.Context, id int) Envelope[Organization] {
	if err := m.wait(ctx); err != nil {
		return failure[Organization](err.Error())
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, org := range m.orgs {
		if org.ID == id {
			return success(org)
		}
	}
	return failure[Organization](errOrgNotFound)
}

func (m *Mock) SalesForecasts(ctx context.Context, orgID int) Envelope[[]SalesForecast] {
	if err := m.wait(ctx); err != nil {
		return failure[[]SalesForecast](err.Error())
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []SalesForecast{}
	for _, f := range m.forecasts {
		if f.OrganizationID == orgID {
			out = append(out, f)
		}
	}
	return success(out)
}

func (m *Mock) CreateSalesForecast(ctx context.Context, in SalesForecastInput) Envelope[SalesForecast] {
	if err := m.wait(ctx); err != nil {
		return failure[SalesForecast](err.Error())
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	f := SalesForecast{
		ID:              m.nextID,
		ProductID:       in.ProductID,
		ForecastedSales: in.ForecastedSales,
		ForecastDate:    time.Now().UTC().Format(time.RFC3339),
		OrganizationID:  in.OrganizationID,
	}
	m.forecasts = append(m.forecasts, f)
	return success(f)
}

func (m *Mock) UpdateSalesForecast(ctx context.Context, id int, patch SalesForecastPatch) Envelope[SalesForecast] {
	if err := m.wait(ctx); err != nil {
		return failure[SalesForecast](err.Error())
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.forecasts {
		if m.forecasts[i].ID != id {
			continue
		}
		patch.Apply(&m.forecasts[i])
		return success(m.forecasts[i])
	}
	return failure[SalesForecast](errForecastNotFound)
}

func (m *Mock) DeleteSalesForecast(ctx context.Context, id int) Envelope[Empty] {
	if err := m.wait(ctx); err != nil {
		return failure[Empty](err.Error())
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.forecasts {
		if m.forecasts[i].ID == id {
			m.forecasts = append(m.forecasts[:i], m.forecasts[i+1:]...)
			return Envelope[Empty]{Success: true}
		}
	}
	return failure[Empty](errForecastNotFound)
}

func (m *Mock) SyncWooCommerce(ctx context.Context, orgID int) Envelope[SyncResult] {
	if err := m.wait(ctx); err != nil {
		return failure[SyncResult](err.Error())
	}
	if m.fail() {
		return failure[SyncResult](errSyncFailed)
	}
	m.mu.Lock()
	products, orders := len(m.products), len(m.orders)
	m.mu.Unlock()
	return success(SyncResult{
		Message: fmt.Sprintf("Successfully synced %d products and %d orders for organization %d", products, orders, orgID),
	})
}

func (m *Mock) WooCommerceProducts(ctx context.Context, orgID int) Envelope[[]WooCommerceProduct] {
	if err := m.wait(ctx); err != nil {
		return failure[[]WooCommerceProduct](err.Error())
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return success(append([]WooCommerceProduct(nil), m.products...))
}

func (m *Mock) WooCommerceOrders(ctx context.Context, orgID int) Envelope[[]WooCommerceOrder] {
	if err := m.wait(ctx); err != nil {
		return failure[[]WooCommerceOrder](err.Error())
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return success(append([]WooCommerceOrder(nil), m.orders...))
}

func (m *Mock) wait(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if m.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (m *Mock) fail() bool {
	return m.failureRate > 0 && rand.Float64() < m.failureRate
}

func intPtr(v int) *int { return &v }
