package backend

import (
	"slices"

	"woopm.dev/internal/api"
	"woopm.dev/internal/auth"
)

const (
	defaultOrgID = 1

	// SeedEmail and SeedPassword log in to a freshly seeded backend.
	SeedEmail    = "admin@example.com"
	SeedPassword = "admin123"
)

func (s *InMemory) seed() error {
	hash, err := auth.HashPassword(SeedPassword)
	if err != nil {
		return err
	}
	s.nextUserID = 1
	s.users[1] = &user{
		User: api.User{ID: 1, Email: SeedEmail, Name: "Admin User", OrganizationID: defaultOrgID},
		hash: hash,
	}
	s.byEmail[SeedEmail] = 1

	for _, o := range []api.Organization{
		{ID: 1, Name: "TechStore Italia", StripeCustomerID: "cus_techstore_001", CreatedAt: "2024-01-15T10:30:00Z", UpdatedAt: "2024-03-20T14:45:00Z"},
		{ID: 2, Name: "Fashion Boutique Milano", StripeCustomerID: "cus_fashion_002", CreatedAt: "2024-02-10T09:15:00Z", UpdatedAt: "2024-03-18T16:20:00Z"},
	} {
		s.orgs[o.ID] = o
	}

	for _, f := range []api.SalesForecast{
		{ID: 1, ProductID: 101, ForecastedSales: 1250.00, ForecastDate: "2024-04-01T00:00:00Z", OrganizationID: 1},
		{ID: 2, ProductID: 102, ForecastedSales: 890.50, ForecastDate: "2024-04-01T00:00:00Z", OrganizationID: 1},
		{ID: 3, ProductID: 103, ForecastedSales: 2100.75, ForecastDate: "2024-04-01T00:00:00Z", OrganizationID: 1},
	} {
		s.forecasts[f.ID] = f
	}
	s.nextForecastID = 3

	stock := func(n int) *int { return &n }
	s.products[1] = []api.WooCommerceProduct{
		{ID: 101, Name: "iPhone 15 Pro Max", Price: "1299.00", Status: "publish", StockQuantity: stock(25)},
		{ID: 102, Name: "MacBook Air M3", Price: "1199.00", Status: "publish", StockQuantity: stock(15)},
		{ID: 103, Name: "AirPods Pro", Price: "249.00", Status: "publish", StockQuantity: stock(50)},
		{ID: 104, Name: "iPad Air", Price: "599.00", Status: "publish", StockQuantity: stock(30)},
	}
	s.orders[1] = []api.WooCommerceOrder{
		{ID: 1001, Status: "completed", Total: "1548.00", DateCreated: "2024-03-20T10:30:00Z", CustomerID: stock(201)},
		{ID: 1002, Status: "processing", Total: "599.00", DateCreated: "2024-03-19T14:15:00Z", CustomerID: stock(202)},
		{ID: 1003, Status: "completed", Total: "249.00", DateCreated: "2024-03-18T09:45:00Z", CustomerID: stock(203)},
	}
	return nil
}

func sortByID[T any](items []T, id func(T) int) {
	slices.SortFunc(items, func(a, b T) int { return id(a) - id(b) })
}
