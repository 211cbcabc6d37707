package httpapi

import (
	"context"
	"net/http"
	"testing"

	"woopm.dev/internal/api"
	"woopm.dev/internal/backend"
	"woopm.dev/internal/dashboard"
	"woopm.dev/internal/session"
)

// The client and server must agree on the wire: envelopes, camelCase fields
// and the token lifecycle.
func TestClientAgainstServer(t *testing.T) {
	srv := newTestServer(t)
	store := session.NewMemoryStore()
	client := api.NewClient(api.Config{BaseURL: srv.URL, HTTPClient: srv.Client()}, store)
	ctx := context.Background()

	anon := client.Organizations(ctx)
	if anon.Success || anon.Error != api.MsgAuthRequired {
		t.Fatalf("anonymous call: success=%t error=%q", anon.Success, anon.Error)
	}

	s := api.NewSession(client)
	if !s.Login(ctx, backend.SeedEmail, backend.SeedPassword) {
		t.Fatal("seed login rejected")
	}
	u, ok := s.User()
	if !ok || u.OrganizationID != 1 {
		t.Fatalf("unexpected session user: %+v ok=%t", u, ok)
	}

	orgs := client.Organizations(ctx)
	if err := orgs.Err(); err != nil {
		t.Fatalf("organizations: %v", err)
	}
	if len(orgs.Data) != 2 {
		t.Fatalf("expected 2 organizations, got %d", len(orgs.Data))
	}

	missing := client.Organization(ctx, 99)
	if missing.Error != "HTTP error! status: 404" {
		t.Fatalf("unexpected error for missing org: %q", missing.Error)
	}
	if !client.IsAuthenticated() {
		t.Fatal("404 must keep the session")
	}

	created := client.CreateSalesForecast(ctx, api.SalesForecastInput{ProductID: 101, ForecastedSales: 99.5, OrganizationID: 2})
	if err := created.Err(); err != nil {
		t.Fatalf("create forecast: %v", err)
	}
	if created.Data.OrganizationID != 2 {
		t.Fatalf("forecast stored under org %d", created.Data.OrganizationID)
	}

	svc := dashboard.NewService(dashboard.NewRemoteAPI(client), dashboard.WithResolver(dashboard.FixedOrg(2)), dashboard.WithSyncer(client))
	sum, err := svc.Current(ctx)
	if err != nil {
		t.Fatalf("current summary: %v", err)
	}
	want := api.DashboardData{TotalProducts: 1, TotalForecastedSales: 99.5, OrganizationID: 2}
	if sum != want {
		t.Fatalf("summary = %+v, want %+v", sum, want)
	}

	msg, err := svc.SyncWooCommerce(ctx)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if msg != "Successfully synced 0 products and 0 orders for organization 2" {
		t.Fatalf("unexpected sync message: %q", msg)
	}

	if !client.DeleteSalesForecast(ctx, created.Data.ID).Success {
		t.Fatal("delete forecast failed")
	}

	products := client.WooCommerceProducts(ctx, 1)
	if err := products.Err(); err != nil {
		t.Fatalf("products: %v", err)
	}
	if len(products.Data) != 4 || products.Data[0].StockQuantity == nil {
		t.Fatalf("unexpected products: %+v", products.Data)
	}

	rep, err := dashboard.Diagnose(ctx, client, nil)
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	if !rep.OK() {
		t.Fatalf("diagnose report not ok: %+v", rep)
	}

	store.Set("forged")
	forged := client.DashboardSummary(ctx, 1)
	if forged.Error != api.MsgAuthRequired {
		t.Fatalf("forged token: error=%q", forged.Error)
	}
	if client.IsAuthenticated() || s.IsAuthenticated() {
		t.Fatal("401 must end the session")
	}

	s.Logout()
	s.Logout()
}

func TestClientBadLogin(t *testing.T) {
	srv := newTestServer(t)
	client := api.NewClient(api.Config{BaseURL: srv.URL}, session.NewMemoryStore())

	env := client.Login(context.Background(), api.LoginCredentials{Email: backend.SeedEmail, Password: "wrong"})

	if env.Success {
		t.Fatal("wrong password accepted")
	}
	if client.IsAuthenticated() {
		t.Fatal("rejected login stored a token")
	}
}

func TestClientRegister(t *testing.T) {
	srv := newTestServer(t)
	store := session.NewMemoryStore()
	client := api.NewClient(api.Config{BaseURL: srv.URL}, store)

	env := client.Register(context.Background(), api.RegisterData{Email: "n@example.com", Password: "pw", Name: "N"})
	if err := env.Err(); err != nil {
		t.Fatalf("register: %v", err)
	}
	if env.Data.User.Email != "n@example.com" {
		t.Fatalf("unexpected user: %+v", env.Data.User)
	}
	if !client.IsAuthenticated() {
		t.Fatal("register did not store the token")
	}

	dup := client.Register(context.Background(), api.RegisterData{Email: "n@example.com", Password: "pw", Name: "N"})
	if want := "HTTP error! status: " + itoa(http.StatusConflict); dup.Error != want {
		t.Fatalf("duplicate register error = %q, want %q", dup.Error, want)
	}
}
