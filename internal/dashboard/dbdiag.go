package dashboard

import (
	"context"
	"fmt"
	"time"

	"woopm.dev/internal/api"
	"woopm.dev/internal/store/pg"
)

// DBStore is the part of pg.Store read by the database probe.
type DBStore interface {
	Version(ctx context.Context) (string, error)
	Organizations(ctx context.Context) ([]api.Organization, error)
	SalesForecasts(ctx context.Context, orgID int) ([]api.SalesForecast, error)
}

// DBWriter is the part of pg.Store used to insert probe rows.
type DBWriter interface {
	CreateOrganization(ctx context.Context, name, stripeCustomerID string) (api.Organization, error)
	CreateSalesForecast(ctx context.Context, in api.SalesForecastInput) (api.SalesForecast, error)
}

var (
	_ DBStore  = (*pg.Store)(nil)
	_ DBWriter = (*pg.Store)(nil)
)

// Probe rows written by InsertProbeRows.
const (
	ProbeOrgName        = "Test Company"
	ProbeStripeCustomer = "cus_test123"
)

type DBCounts struct {
	Organizations  int `json:"organizations"`
	SalesForecasts int `json:"salesForecasts"`
}

// DBReport is the result of a database probe.
type DBReport struct {
	Version        string              `json:"version"`
	Organizations  []api.Organization  `json:"organizations"`
	SalesForecasts []api.SalesForecast `json:"salesForecasts"`
	Counts         DBCounts            `json:"counts"`
	Timestamp      time.Time           `json:"timestamp"`
}

// DiagnoseDB reads the server version, every organization and the sales
// forecasts of each of them.
func DiagnoseDB(ctx context.Context, store DBStore) (DBReport, error) {
	version, err := store.Version(ctx)
	if err != nil {
		return DBReport{}, fmt.Errorf("database version: %w", err)
	}
	orgs, err := store.Organizations(ctx)
	if err != nil {
		return DBReport{}, fmt.Errorf("list organizations: %w", err)
	}
	forecasts := []api.SalesForecast{}
	for _, o := range orgs {
		list, err := store.SalesForecasts(ctx, o.ID)
		if err != nil {
			return DBReport{}, fmt.Errorf("list forecasts for organization %d: %w", o.ID, err)
		}
		forecasts = append(forecasts, list...)
	}
	return DBReport{
		Version:        version,
		Organizations:  orgs,
		SalesForecasts: forecasts,
		Counts:         DBCounts{Organizations: len(orgs), SalesForecasts: len(forecasts)},
		Timestamp:      time.Now().UTC(),
	}, nil
}

// InsertProbeRows writes one organization and one forecast for it, proving
// the schema accepts inserts.
func InsertProbeRows(ctx context.Context, w DBWriter) (api.Organization, api.SalesForecast, error) {
	org, err := w.CreateOrganization(ctx, ProbeOrgName, ProbeStripeCustomer)
	if err != nil {
		return api.Organization{}, api.SalesForecast{}, fmt.Errorf("insert organization: %w", err)
	}
	f, err := w.CreateSalesForecast(ctx, api.SalesForecastInput{ProductID: 1, ForecastedSales: 1000, OrganizationID: org.ID})
	if err != nil {
		return org, api.SalesForecast{}, fmt.Errorf("insert forecast: %w", err)
	}
	return org, f, nil
}
