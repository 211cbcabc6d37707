package backend

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"woopm.dev/internal/api"
	"woopm.dev/internal/auth"
)

// Service defines the operations served by the development backend.
type Service interface {
	Authenticate(ctx context.Context, email, password string) (api.User, error)
	Register(ctx context.Context, data api.RegisterData) (api.User, error)
	User(ctx context.Context, id int) (api.User, error)

	DashboardSummary(ctx context.Context, orgID int) (api.DashboardData, error)
	Organizations(ctx context.Context) ([]api.Organization, error)
	Organization(ctx context.Context, id int) (api.Organization, error)

	SalesForecasts(ctx context.Context, orgID int) ([]api.SalesForecast, error)
	CreateSalesForecast(ctx context.Context, in api.SalesForecastInput) (api.SalesForecast, error)
	UpdateSalesForecast(ctx context.Context, id int, patch api.SalesForecastPatch) (api.SalesForecast, error)
	DeleteSalesForecast(ctx context.Context, id int) error

	SyncWooCommerce(ctx context.Context, orgID int) (api.SyncResult, error)
	Products(ctx context.Context, orgID int) ([]api.WooCommerceProduct, error)
	Orders(ctx context.Context, orgID int) ([]api.WooCommerceOrder, error)
}

type user struct {
	api.User
	hash string
}

// InMemory implements Service with in-process concurrency safety.
type InMemory struct {
	mu        sync.RWMutex
	users     map[int]*user
	byEmail   map[string]int
	orgs      map[int]api.Organization
	forecasts map[int]api.SalesForecast
	products  map[int][]api.WooCommerceProduct
	orders    map[int][]api.WooCommerceOrder
	syncedAt  map[int]time.Time

	nextUserID     int
	nextForecastID int
	now            func() time.Time
}

var _ Service = (*InMemory)(nil)

// NewInMemory creates a backend holding the seeded development data.
func NewInMemory() (*InMemory, error) {
	s := &InMemory{
		users:     make(map[int]*user),
		byEmail:   make(map[string]int),
		orgs:      make(map[int]api.Organization),
		forecasts: make(map[int]api.SalesForecast),
		products:  make(map[int][]api.WooCommerceProduct),
		orders:    make(map[int][]api.WooCommerceOrder),
		syncedAt:  make(map[int]time.Time),
		now:       func() time.Time { return time.Now().UTC() },
	}
	if err := s.seed(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *InMemory) Authenticate(ctx context.Context, email, password string) (api.User, error) {
	s.mu.RLock()
	id, ok := s.byEmail[normalizeEmail(email)]
	var u user
	if ok {
		u = *s.users[id]
	}
	s.mu.RUnlock()
	if !ok {
		return api.User{}, ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(u.hash, password); err != nil {
		return api.User{}, ErrInvalidCredentials
	}
	return u.User, nil
}

// Register creates a user in the default organization.
func (s *InMemory) Register(ctx context.Context, data api.RegisterData) (api.User, error) {
	email := normalizeEmail(data.Email)
	name := strings.TrimSpace(data.Name)
	if email == "" || name == "" || data.Password == "" {
		return api.User{}, ErrInvalidInput
	}
	hash, err := auth.HashPassword(data.Password)
	if err != nil {
		return api.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[email]; taken {
		return api.User{}, ErrEmailTaken
	}
	s.nextUserID++
	u := &user{
		User: api.User{ID: s.nextUserID, Email: email, Name: name, OrganizationID: defaultOrgID},
		hash: hash,
	}
	s.users[u.ID] = u
	s.byEmail[email] = u.ID
	return u.User, nil
}

func (s *InMemory) User(ctx context.Context, id int) (api.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return api.User{}, ErrNotFound
	}
	return u.User, nil
}

// DashboardSummary aggregates the stored forecasts: distinct products and
// the sum of forecasted sales.
func (s *InMemory) DashboardSummary(ctx context.Context, orgID int) (api.DashboardData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.orgs[orgID]; !ok {
		return api.DashboardData{}, ErrOrgNotFound
	}
	products := map[int]struct{}{}
	var total float64
	for _, f := range s.forecasts {
		if f.OrganizationID != orgID {
			continue
		}
		products[f.ProductID] = struct{}{}
		total += f.ForecastedSales
	}
	return api.DashboardData{
		TotalProducts:        len(products),
		TotalForecastedSales: total,
		OrganizationID:       orgID,
	}, nil
}

func (s *InMemory) Organizations(ctx context.Context) ([]api.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]api.Organization, 0, len(s.orgs))
	for _, o := range s.orgs {
		res = append(res, o)
	}
	sortByID(res, func(o api.Organization) int { return o.ID })
	return res, nil
}

func (s *InMemory) Organization(ctx context.Context, id int) (api.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orgs[id]
	if !ok {
		return api.Organization{}, ErrOrgNotFound
	}
	return o, nil
}

func (s *InMemory) SalesForecasts(ctx context.Context, orgID int) ([]api.SalesForecast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.orgs[orgID]; !ok {
		return nil, ErrOrgNotFound
	}
	res := []api.SalesForecast{}
	for _, f := range s.forecasts {
		if f.OrganizationID == orgID {
			res = append(res, f)
		}
	}
	sortByID(res, func(f api.SalesForecast) int { return f.ID })
	return res, nil
}

func (s *InMemory) CreateSalesForecast(ctx context.Context, in api.SalesForecastInput) (api.SalesForecast, error) {
	if in.ProductID <= 0 || in.ForecastedSales < 0 {
		return api.SalesForecast{}, ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[in.OrganizationID]; !ok {
		return api.SalesForecast{}, ErrOrgNotFound
	}
	s.nextForecastID++
	f := api.SalesForecast{
		ID:              s.nextForecastID,
		ProductID:       in.ProductID,
		ForecastedSales: in.ForecastedSales,
		ForecastDate:    s.now().Format(time.RFC3339),
		OrganizationID:  in.OrganizationID,
	}
	s.forecasts[f.ID] = f
	return f, nil
}

func (s *InMemory) UpdateSalesForecast(ctx context.Context, id int, patch api.SalesForecastPatch) (api.SalesForecast, error) {
	if patch.ForecastedSales != nil && *patch.ForecastedSales < 0 {
		return api.SalesForecast{}, ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.forecasts[id]
	if !ok {
		return api.SalesForecast{}, ErrForecastNotFound
	}
	patch.Apply(&f)
	if _, ok := s.orgs[f.OrganizationID]; !ok {
		return api.SalesForecast{}, ErrOrgNotFound
	}
	s.forecasts[id] = f
	return f, nil
}

func (s *InMemory) DeleteSalesForecast(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.forecasts[id]; !ok {
		return ErrForecastNotFound
	}
	delete(s.forecasts, id)
	return nil
}

// SyncWooCommerce records a sync for the organization. The catalog is
// static, so the sync reports what is already held.
func (s *InMemory) SyncWooCommerce(ctx context.Context, orgID int) (api.SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[orgID]; !ok {
		return api.SyncResult{}, ErrOrgNotFound
	}
	s.syncedAt[orgID] = s.now()
	return api.SyncResult{
		Message: fmt.Sprintf("Successfully synced %d products and %d orders for organization %d",
			len(s.products[orgID]), len(s.orders[orgID]), orgID),
	}, nil
}

// LastSync reports when the organization was last synced.
func (s *InMemory) LastSync(orgID int) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.syncedAt[orgID]
	return t, ok
}

func (s *InMemory) Products(ctx context.Context, orgID int) ([]api.WooCommerceProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.orgs[orgID]; !ok {
		return nil, ErrOrgNotFound
	}
	return append([]api.WooCommerceProduct{}, s.products[orgID]...), nil
}

func (s *InMemory) Orders(ctx context.Context, orgID int) ([]api.WooCommerceOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.orgs[orgID]; !ok {
		return nil, ErrOrgNotFound
	}
	return append([]api.WooCommerceOrder{}, s.orders[orgID]...), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
