package api

// Error strings surfaced inside envelopes. Callers match on these only for
// display; none of them is retryable.
const (
	MsgAuthRequired      = "Authentication required"
	httpErrorFormat      = "HTTP error! status: %d"
	errOrgNotFound       = "Organization not found"
	errForecastNotFound  = "Sales forecast not found"
	errDashboardFetch    = "Failed to fetch dashboard data"
	errSyncFailed        = "WooCommerce sync failed"
	errInvalidCredential = "Invalid credentials"
)
