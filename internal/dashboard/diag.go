package dashboard

import (
	"context"
	"time"

	"woopm.dev/internal/api"
)

// Report is the result of a backend integration probe. Both calls are
// reported verbatim, failed or not.
type Report struct {
	Dashboard     api.Envelope[api.DashboardData]  `json:"dashboard"`
	Organizations api.Envelope[[]api.Organization] `json:"organizations"`
	APIBaseURL    string                           `json:"apiBaseUrl"`
	Timestamp     time.Time                        `json:"timestamp"`
}

// OK reports whether both probe calls succeeded.
func (r Report) OK() bool { return r.Dashboard.Success && r.Organizations.Success }

// Diagnose probes the backend with the summary and organization list calls.
func Diagnose(ctx context.Context, svc api.Service, resolver OrgResolver) (Report, error) {
	if resolver == nil {
		resolver = FixedOrg(DefaultOrgID)
	}
	orgID, err := resolver.OrganizationID(ctx)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Dashboard:     svc.DashboardSummary(ctx, orgID),
		Organizations: svc.Organizations(ctx),
		APIBaseURL:    svc.BaseURL(),
		Timestamp:     time.Now().UTC(),
	}, nil
}
