// Package dashboard resolves the dashboard summary for the current
// organization from either the HTTP backend or the database.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"woopm.dev/internal/api"
	"woopm.dev/internal/store/pg"
)

var (
	// ErrNoOrganization means the resolver had no organization for the caller.
	ErrNoOrganization = errors.New("dashboard: no organization")
	// ErrSyncUnavailable is returned by SyncWooCommerce when no syncer is wired.
	ErrSyncUnavailable = errors.New("dashboard: woocommerce sync unavailable")
)

// DataSource yields dashboard summaries.
type DataSource interface {
	// Summary returns the current aggregate, possibly stale.
	Summary(ctx context.Context, orgID int) (api.DashboardData, error)
	// Refresh forces recomputation where the source supports it.
	Refresh(ctx context.Context, orgID int) (api.DashboardData, error)
	Name() string
}

// RemoteAPI reads the summary through the HTTP backend. It never touches
// the materialized view.
type RemoteAPI struct {
	svc api.Service
}

func NewRemoteAPI(svc api.Service) *RemoteAPI { return &RemoteAPI{svc: svc} }

func (r *RemoteAPI) Name() string { return "remote" }

func (r *RemoteAPI) Summary(ctx context.Context, orgID int) (api.DashboardData, error) {
	env := r.svc.DashboardSummary(ctx, orgID)
	if err := env.Err(); err != nil {
		return api.DashboardData{}, err
	}
	return env.Data, nil
}

// Refresh calls the full dashboard endpoint, which the backend recomputes per call.
func (r *RemoteAPI) Refresh(ctx context.Context, orgID int) (api.DashboardData, error) {
	env := r.svc.DashboardData(ctx, orgID)
	if err := env.Err(); err != nil {
		return api.DashboardData{}, err
	}
	return env.Data, nil
}

// SummaryStore is the part of pg.Store used by DirectQuery.
type SummaryStore interface {
	DashboardSummary(ctx context.Context, orgID int) (api.DashboardData, error)
	RefreshDashboardSummary(ctx context.Context) error
}

var _ SummaryStore = (*pg.Store)(nil)

// DirectQuery reads the dashboard_summary view. Summary returns whatever the
// view held at its last refresh, so its figures can be stale until Refresh
// runs; only Refresh recomputes it.
type DirectQuery struct {
	store SummaryStore
	now   func() time.Time

	mu          sync.Mutex
	lastRefresh time.Time
}

func NewDirectQuery(store SummaryStore) *DirectQuery {
	return &DirectQuery{store: store, now: time.Now}
}

func (d *DirectQuery) Name() string { return "direct" }

func (d *DirectQuery) Summary(ctx context.Context, orgID int) (api.DashboardData, error) {
	return d.store.DashboardSummary(ctx, orgID)
}

func (d *DirectQuery) Refresh(ctx context.Context, orgID int) (api.DashboardData, error) {
	if err := d.store.RefreshDashboardSummary(ctx); err != nil {
		return api.DashboardData{}, err
	}
	d.mu.Lock()
	d.lastRefresh = d.now()
	d.mu.Unlock()
	return d.store.DashboardSummary(ctx, orgID)
}

// LastRefresh is the time of the last successful Refresh through d, zero if none.
func (d *DirectQuery) LastRefresh() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastRefresh
}
