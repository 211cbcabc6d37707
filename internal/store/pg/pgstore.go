package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"woopm.dev/internal/api"
)

// ErrNotFound is returned when the summary view has no row for an organization.
var ErrNotFound = errors.New("pg: not found")

// Store reads the dashboard tables directly.
type Store struct {
	db *sql.DB
}

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// Dashboard traffic is light; keep the pool small
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// New wraps an existing handle.
func New(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// Version reports the server version string.
func (s *Store) Version(ctx context.Context) (string, error) {
	var v string
	if err := s.db.QueryRowContext(ctx, `select version()`).Scan(&v); err != nil {
		return "", err
	}
	return v, nil
}

// DashboardSummary reads the materialized view as it stands; it does not refresh it.
func (s *Store) DashboardSummary(ctx context.Context, orgID int) (api.DashboardData, error) {
	var (
		d     api.DashboardData
		total sql.NullFloat64
	)
	err := s.db.QueryRowContext(ctx, `
		select "organizationId", "totalProducts", "totalForecastedSales"
		from dashboard_summary
		where "organizationId" = $1
	`, orgID).Scan(&d.OrganizationID, &d.TotalProducts, &total)
	if errors.Is(err, sql.ErrNoRows) {
		return api.DashboardData{}, ErrNotFound
	}
	if err != nil {
		return api.DashboardData{}, err
	}
	d.TotalForecastedSales = total.Float64
	return d, nil
}

func (s *Store) RefreshDashboardSummary(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `refresh materialized view dashboard_summary`)
	return err
}

func (s *Store) Organizations(ctx context.Context) ([]api.Organization, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, name, coalesce(stripe_customer_id, '')
		from organizations
		order by id asc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []api.Organization{}
	for rows.Next() {
		var o api.Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.StripeCustomerID); err != nil {
			return nil, err
		}
		res = append(res, o)
	}
	return res, rows.Err()
}

func (s *Store) SalesForecasts(ctx context.Context, orgID int) ([]api.SalesForecast, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, product_id, forecasted_sales, forecast_date, organization_id
		from sales_forecasts
		where organization_id = $1
		order by id asc
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []api.SalesForecast{}
	for rows.Next() {
		var (
			f    api.SalesForecast
			date sql.NullTime
		)
		if err := rows.Scan(&f.ID, &f.ProductID, &f.ForecastedSales, &date, &f.OrganizationID); err != nil {
			return nil, err
		}
		f.ForecastDate = formatTime(date)
		res = append(res, f)
	}
	return res, rows.Err()
}

func (s *Store) CreateOrganization(ctx context.Context, name, stripeCustomerID string) (api.Organization, error) {
	o := api.Organization{Name: name, StripeCustomerID: stripeCustomerID}
	err := s.db.QueryRowContext(ctx, `
		insert into organizations(name, stripe_customer_id)
		values ($1, nullif($2, ''))
		returning id
	`, name, stripeCustomerID).Scan(&o.ID)
	if err != nil {
		return api.Organization{}, err
	}
	return o, nil
}

func (s *Store) CreateSalesForecast(ctx context.Context, in api.SalesForecastInput) (api.SalesForecast, error) {
	f := api.SalesForecast{
		ProductID:       in.ProductID,
		ForecastedSales: in.ForecastedSales,
		OrganizationID:  in.OrganizationID,
	}
	var date sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		insert into sales_forecasts(product_id, forecasted_sales, organization_id)
		values ($1, $2, $3)
		returning id, forecast_date
	`, in.ProductID, in.ForecastedSales, in.OrganizationID).Scan(&f.ID, &date)
	if err != nil {
		return api.SalesForecast{}, err
	}
	f.ForecastDate = formatTime(date)
	return f, nil
}

func formatTime(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.UTC().Format(time.RFC3339)
}
