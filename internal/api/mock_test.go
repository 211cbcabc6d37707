package api

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"woopm.dev/internal/session"
)

func TestMockLoginWritesToken(t *testing.T) {
	store := session.NewMemoryStore()
	m := NewMock(Config{}, store)

	env := m.Login(context.Background(), LoginCredentials{Email: "admin@example.com", Password: "admin123"})

	require.True(t, env.Success)
	assert.Equal(t, "bearer", env.Data.TokenType)
	assert.True(t, strings.HasPrefix(env.Data.AccessToken, "mock-"))
	tok, ok := store.Get()
	assert.True(t, ok)
	assert.Equal(t, env.Data.AccessToken, tok)
	assert.True(t, m.IsAuthenticated())

	m.Logout()
	m.Logout()
	assert.False(t, m.IsAuthenticated())
}

func TestMockLoginRejectsBlankCredentials(t *testing.T) {
	m := NewMock(Config{}, session.NewMemoryStore())

	env := m.Login(context.Background(), LoginCredentials{Email: " ", Password: "x"})

	assert.False(t, env.Success)
	assert.Equal(t, errInvalidCredential, env.Error)
	assert.False(t, m.IsAuthenticated())
}

func TestMockRegisterAssignsFreshIDs(t *testing.T) {
	m := NewMock(Config{}, session.NewMemoryStore())
	ctx := context.Background()

	a := m.Register(ctx, RegisterData{Email: "a@x.io", Password: "p", Name: "A"})
	b := m.Register(ctx, RegisterData{Email: "b@x.io", Password: "p", Name: "B"})

	require.True(t, a.Success)
	require.True(t, b.Success)
	assert.NotEqual(t, a.Data.User.ID, b.Data.User.ID)

	bad := m.Register(ctx, RegisterData{Email: "c@x.io", Password: "p"})
	assert.False(t, bad.Success)
}

func TestMockCatalog(t *testing.T) {
	m := NewMock(Config{}, nil)
	ctx := context.Background()

	orgs := m.Organizations(ctx)
	require.True(t, orgs.Success)
	assert.Len(t, orgs.Data, 2)

	org := m.Organization(ctx, 2)
	require.True(t, org.Success)
	assert.Equal(t, "Fashion Boutique Milano", org.Data.Name)

	missing := m.Organization(ctx, 99)
	assert.False(t, missing.Success)
	assert.Equal(t, errOrgNotFound, missing.Error)

	sum := m.DashboardSummary(ctx, 1)
	require.True(t, sum.Success)
	assert.Equal(t, DashboardData{TotalProducts: 156, TotalForecastedSales: 45280.50, OrganizationID: 1}, sum.Data)

	assert.Len(t, m.WooCommerceProducts(ctx, 1).Data, 4)
	assert.Len(t, m.WooCommerceOrders(ctx, 1).Data, 3)
	assert.Len(t, m.SalesForecasts(ctx, 1).Data, 3)
	assert.Empty(t, m.SalesForecasts(ctx, 2).Data)
	assert.Equal(t, "mock://", m.BaseURL())
}

func TestMockForecastLifecycle(t *testing.T) {
	m := NewMock(Config{}, nil)
	ctx := context.Background()

	created := m.CreateSalesForecast(ctx, SalesForecastInput{ProductID: 104, ForecastedSales: 300, OrganizationID: 2})
	require.True(t, created.Success)
	assert.NotZero(t, created.Data.ID)
	assert.NotEmpty(t, created.Data.ForecastDate)
	assert.Len(t, m.SalesForecasts(ctx, 2).Data, 1)

	sales := 450.25
	updated := m.UpdateSalesForecast(ctx, created.Data.ID, SalesForecastPatch{ForecastedSales: &sales})
	require.True(t, updated.Success)
	assert.Equal(t, 450.25, updated.Data.ForecastedSales)
	assert.Equal(t, 104, updated.Data.ProductID)

	assert.True(t, m.DeleteSalesForecast(ctx, created.Data.ID).Success)
	assert.Empty(t, m.SalesForecasts(ctx, 2).Data)

	gone := m.DeleteSalesForecast(ctx, created.Data.ID)
	assert.False(t, gone.Success)
	assert.Equal(t, errForecastNotFound, gone.Error)
	assert.False(t, m.UpdateSalesForecast(ctx, created.Data.ID, SalesForecastPatch{}).Success)
}

func TestMockSyncMessage(t *testing.T) {
	m := NewMock(Config{}, nil)

	env := m.SyncWooCommerce(context.Background(), 1)

	require.True(t, env.Success)
	assert.Equal(t, "Successfully synced 4 products and 3 orders for organization 1", env.Data.Message)
}

func TestMockFailureRate(t *testing.T) {
	m := NewMock(Config{MockFailureRate: 1}, nil)
	ctx := context.Background()

	dash := m.DashboardData(ctx, 1)
	assert.False(t, dash.Success)
	assert.Equal(t, errDashboardFetch, dash.Error)

	sync := m.SyncWooCommerce(ctx, 1)
	assert.False(t, sync.Success)
	assert.Equal(t, errSyncFailed, sync.Error)

	// the summary endpoint never fails
	assert.True(t, m.DashboardSummary(ctx, 1).Success)
}

func TestMockLatencyHonoursContext(t *testing.T) {
	m := NewMock(Config{MockLatency: time.Hour}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	env := m.Organizations(ctx)

	assert.False(t, env.Success)
	assert.Equal(t, context.DeadlineExceeded.Error(), env.Error)
}

func TestMockReturnsCopies(t *testing.T) {
	m := NewMock(Config{}, nil)
	ctx := context.Background()

	orgs := m.Organizations(ctx).Data
	orgs[0].Name = "changed"

	assert.Equal(t, "TechStore Italia", m.Organizations(ctx).Data[0].Name)
}
