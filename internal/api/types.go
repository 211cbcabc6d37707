package api

// DashboardData is the aggregated view of one organization.
type DashboardData struct {
	TotalProducts        int     `json:"totalProducts"`
	TotalForecastedSales float64 `json:"totalForecastedSales"`
	OrganizationID       int     `json:"organizationId"`
}

type Organization struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	StripeCustomerID string `json:"stripeCustomerId,omitempty"`
	CreatedAt        string `json:"createdAt"`
	UpdatedAt        string `json:"updatedAt"`
}

type SalesForecast struct {
	ID              int     `json:"id"`
	ProductID       int     `json:"productId"`
	ForecastedSales float64 `json:"forecastedSales"`
	ForecastDate    string  `json:"forecastDate"`
	OrganizationID  int     `json:"organizationId"`
}

// SalesForecastInput is the create payload; id and date are assigned by the backend.
type SalesForecastInput struct {
	ProductID       int     `json:"productId"`
	ForecastedSales float64 `json:"forecastedSales"`
	OrganizationID  int     `json:"organizationId"`
}

// SalesForecastPatch is a partial update; nil fields are left untouched.
type SalesForecastPatch struct {
	ProductID       *int     `json:"productId,omitempty"`
	ForecastedSales *float64 `json:"forecastedSales,omitempty"`
	ForecastDate    *string  `json:"forecastDate,omitempty"`
	OrganizationID  *int     `json:"organizationId,omitempty"`
}

// Apply copies the set fields of p onto f.
func (p SalesForecastPatch) Apply(f *SalesForecast) {
	if p.ProductID != nil {
		f.ProductID = *p.ProductID
	}
	if p.ForecastedSales != nil {
		f.ForecastedSales = *p.ForecastedSales
	}
	if p.ForecastDate != nil {
		f.ForecastDate = *p.ForecastDate
	}
	if p.OrganizationID != nil {
		f.OrganizationID = *p.OrganizationID
	}
}

type WooCommerceProduct struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Price         string `json:"price"`
	Status        string `json:"status"`
	StockQuantity *int   `json:"stockQuantity,omitempty"`
}

type WooCommerceOrder struct {
	ID          int    `json:"id"`
	Status      string `json:"status"`
	Total       string `json:"total"`
	DateCreated string `json:"dateCreated"`
	CustomerID  *int   `json:"customerId,omitempty"`
}

type User struct {
	ID             int    `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	OrganizationID int    `json:"organizationId"`
}

type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// AuthResponse is the payload of a successful login or registration.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// SyncResult reports a WooCommerce synchronisation.
type SyncResult struct {
	Message string `json:"message"`
}

// Empty is the payload of calls that return no data.
type Empty struct{}
