package dashboard

import (
	"context"

	"woopm.dev/internal/api"
	"woopm.dev/internal/obs"
)

// Syncer triggers a WooCommerce synchronisation. api.Service implements it.
type Syncer interface {
	SyncWooCommerce(ctx context.Context, orgID int) api.Envelope[api.SyncResult]
}

// Service holds the dashboard actions: read, refresh and sync.
type Service struct {
	source   DataSource
	resolver OrgResolver
	syncer   Syncer
}

// Option configures a Service.
type Option func(*Service)

// WithResolver replaces the default FixedOrg(DefaultOrgID) resolver.
func WithResolver(r OrgResolver) Option {
	return func(s *Service) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithSyncer enables SyncWooCommerce.
func WithSyncer(sy Syncer) Option {
	return func(s *Service) { s.syncer = sy }
}

func NewService(source DataSource, opts ...Option) *Service {
	s := &Service{source: source, resolver: FixedOrg(DefaultOrgID)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Source returns the configured data source.
func (s *Service) Source() DataSource { return s.source }

// Current returns the summary for the resolved organization. Failures are
// logged and returned; callers show an empty state on error.
func (s *Service) Current(ctx context.Context) (api.DashboardData, error) {
	return s.run(ctx, "current", s.source.Summary)
}

// Refresh forces recomputation and returns the new summary.
func (s *Service) Refresh(ctx context.Context) (api.DashboardData, error) {
	return s.run(ctx, "refresh", s.source.Refresh)
}

func (s *Service) run(ctx context.Context, action string, fn func(context.Context, int) (api.DashboardData, error)) (api.DashboardData, error) {
	orgID, err := s.resolver.OrganizationID(ctx)
	if err != nil {
		obs.Warn("dashboard organization unresolved", map[string]any{"action": action, "error": err})
		return api.DashboardData{}, err
	}
	data, err := fn(ctx, orgID)
	if err != nil {
		obs.Error("dashboard "+action+" failed", map[string]any{
			"source":          s.source.Name(),
			"organization_id": orgID,
			"error":           err,
		})
		return api.DashboardData{}, err
	}
	return data, nil
}

// SyncWooCommerce asks the backend to pull WooCommerce data for the
// resolved organization and returns its message.
func (s *Service) SyncWooCommerce(ctx context.Context) (string, error) {
	if s.syncer == nil {
		return "", ErrSyncUnavailable
	}
	orgID, err := s.resolver.OrganizationID(ctx)
	if err != nil {
		return "", err
	}
	env := s.syncer.SyncWooCommerce(ctx, orgID)
	if err := env.Err(); err != nil {
		obs.Error("woocommerce sync failed", map[string]any{"organization_id": orgID, "error": err})
		return "", err
	}
	obs.Info("woocommerce sync finished", map[string]any{"organization_id": orgID, "message": env.Data.Message})
	return env.Data.Message, nil
}
