package pg

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"woopm.dev/internal/api"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	return New(db), mock
}

func TestDashboardSummary(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(`select "organizationId", "totalProducts", "totalForecastedSales"\s+from dashboard_summary`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"organizationId", "totalProducts", "totalForecastedSales"}).AddRow(1, 3, 4241.25))

	got, err := s.DashboardSummary(context.Background(), 1)
	if err != nil {
		t.Fatalf("DashboardSummary: %v", err)
	}
	want := api.DashboardData{TotalProducts: 3, TotalForecastedSales: 4241.25, OrganizationID: 1}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestDashboardSummaryMissingRow(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery("from dashboard_summary").WithArgs(42).WillReturnError(sql.ErrNoRows)

	if _, err := s.DashboardSummary(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDashboardSummaryNullTotal(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery("from dashboard_summary").WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"organizationId", "totalProducts", "totalForecastedSales"}).AddRow(2, 0, nil))

	got, err := s.DashboardSummary(context.Background(), 2)
	if err != nil {
		t.Fatalf("DashboardSummary: %v", err)
	}
	if got.TotalForecastedSales != 0 {
		t.Fatalf("expected zero total, got %v", got.TotalForecastedSales)
	}
}

func TestRefreshDashboardSummary(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("refresh materialized view dashboard_summary").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.RefreshDashboardSummary(context.Background()); err != nil {
		t.Fatalf("RefreshDashboardSummary: %v", err)
	}
}

func TestOrganizations(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery("select id, name, coalesce\\(stripe_customer_id, ''\\)\\s+from organizations").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "stripe_customer_id"}).
			AddRow(1, "TechStore Italia", "cus_techstore_001").
			AddRow(2, "Fashion Boutique Milano", ""))

	orgs, err := s.Organizations(context.Background())
	if err != nil {
		t.Fatalf("Organizations: %v", err)
	}
	if len(orgs) != 2 || orgs[0].StripeCustomerID != "cus_techstore_001" || orgs[1].Name != "Fashion Boutique Milano" {
		t.Fatalf("unexpected organizations: %+v", orgs)
	}
}

func TestSalesForecasts(t *testing.T) {
	s, mock := newMock(t)
	when := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("from sales_forecasts\\s+where organization_id = \\$1").WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "forecasted_sales", "forecast_date", "organization_id"}).
			AddRow(1, 101, 1250.0, when, 1).
			AddRow(2, 102, 890.5, nil, 1))

	got, err := s.SalesForecasts(context.Background(), 1)
	if err != nil {
		t.Fatalf("SalesForecasts: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 forecasts, got %d", len(got))
	}
	if got[0].ForecastDate != "2024-04-01T00:00:00Z" {
		t.Fatalf("unexpected date: %q", got[0].ForecastDate)
	}
	if got[1].ForecastDate != "" {
		t.Fatalf("expected empty date for null, got %q", got[1].ForecastDate)
	}
}

func TestSalesForecastsEmpty(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery("from sales_forecasts").WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "forecasted_sales", "forecast_date", "organization_id"}))

	got, err := s.SalesForecasts(context.Background(), 9)
	if err != nil {
		t.Fatalf("SalesForecasts: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestCreateOrganization(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery("insert into organizations").WithArgs("Test Company", "cus_test123").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	o, err := s.CreateOrganization(context.Background(), "Test Company", "cus_test123")
	if err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}
	if o.ID != 7 || o.Name != "Test Company" {
		t.Fatalf("unexpected organization: %+v", o)
	}
}

func TestCreateSalesForecast(t *testing.T) {
	s, mock := newMock(t)
	when := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("insert into sales_forecasts").WithArgs(1, 1000.0, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "forecast_date"}).AddRow(11, when))

	f, err := s.CreateSalesForecast(context.Background(), api.SalesForecastInput{ProductID: 1, ForecastedSales: 1000, OrganizationID: 7})
	if err != nil {
		t.Fatalf("CreateSalesForecast: %v", err)
	}
	if f.ID != 11 || f.ForecastDate != "2024-05-02T12:00:00Z" {
		t.Fatalf("unexpected forecast: %+v", f)
	}
}

func TestQueryErrorPropagates(t *testing.T) {
	s, mock := newMock(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery("from organizations").WillReturnError(boom)

	if _, err := s.Organizations(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
}

func TestVersion(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(`select version\(\)`).WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("PostgreSQL 16.2"))

	v, err := s.Version(context.Background())
	if err != nil || v != "PostgreSQL 16.2" {
		t.Fatalf("Version: %q %v", v, err)
	}
}
