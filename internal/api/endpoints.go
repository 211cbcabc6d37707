package api

import (
	"context"
	"fmt"
	"net/http"
)

// Login posts the credentials and, on success, stores the returned token.
// This and Register are the only paths that write a token.
func (c *Client) Login(ctx context.Context, creds LoginCredentials) Envelope[AuthResponse] {
	env := Do[AuthResponse](ctx, c, http.MethodPost, "/api/auth/login", WithBody(creds))
	c.keepToken(env)
	return env
}

func (c *Client) Register(ctx context.Context, data RegisterData) Envelope[AuthResponse] {
	env := Do[AuthResponse](ctx, c, http.MethodPost, "/api/auth/register", WithBody(data))
	c.keepToken(env)
	return env
}

func (c *Client) keepToken(env Envelope[AuthResponse]) {
	if env.Success && env.Data.AccessToken != "" {
		c.store.Set(env.Data.AccessToken)
	}
}

// Logout drops the local token. It makes no network call.
func (c *Client) Logout() { c.store.Clear() }

// IsAuthenticated reports token presence only; the server is not consulted.
func (c *Client) IsAuthenticated() bool {
	_, ok := c.store.Get()
	return ok
}

func (c *Client) DashboardData(ctx context.Context, orgID int) Envelope[DashboardData] {
	return Do[DashboardData](ctx, c, http.MethodGet, fmt.Sprintf("/api/dashboard/%d", orgID))
}

func (c *Client) DashboardSummary(ctx context.Context, orgID int) Envelope[DashboardData] {
	return Do[DashboardData](ctx, c, http.MethodGet, fmt.Sprintf("/api/dashboard/summary/%d", orgID))
}

func (c *Client) Organizations(ctx context.Context) Envelope[[]Organization] {
	return Do[[]Organization](ctx, c, http.MethodGet, "/api/organizations")
}

func (c *Client) Organization(ctx context.Context, id int) Envelope[Organization] {
	return Do[Organization](ctx, c, http.MethodGet, fmt.Sprintf("/api/organizations/%d", id))
}

func (c *Client) SalesForecasts(ctx context.Context, orgID int) Envelope[[]SalesForecast] {
	return Do[[]SalesForecast](ctx, c, http.MethodGet, fmt.Sprintf("/api/sales-forecasts/%d", orgID))
}

func (c *Client) CreateSalesForecast(ctx context.Context, in SalesForecastInput) Envelope[SalesForecast] {
	return Do[SalesForecast](ctx, c, http.MethodPost, "/api/sales-forecasts", WithBody(in))
}

func (c *Client) UpdateSalesForecast(ctx context.Context, id int, patch SalesForecastPatch) Envelope[SalesForecast] {
	return Do[SalesForecast](ctx, c, http.MethodPut, fmt.Sprintf("/api/sales-forecasts/%d", id), WithBody(patch))
}

func (c *Client) DeleteSalesForecast(ctx context.Context, id int) Envelope[Empty] {
	return Do[Empty](ctx, c, http.MethodDelete, fmt.Sprintf("/api/sales-forecasts/%d", id))
}

func (c *Client) SyncWooCommerce(ctx context.Context, orgID int) Envelope[SyncResult] {
	return Do[SyncResult](ctx, c, http.MethodPost, fmt.Sprintf("/api/woocommerce/sync/%d", orgID))
}

func (c *Client) WooCommerceProducts(ctx context.Context, orgID int) Envelope[[]WooCommerceProduct] {
	return Do[[]WooCommerceProduct](ctx, c, http.MethodGet, fmt.Sprintf("/api/woocommerce/products/%d", orgID))
}

func (c *Client) WooCommerceOrders(ctx context.Context, orgID int) Envelope[[]WooCommerceOrder] {
	return Do[[]WooCommerceOrder](ctx, c, http.MethodGet, fmt.Sprintf("/api/woocommerce/orders/%d", orgID))
}
