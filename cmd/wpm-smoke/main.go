package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"woopm.dev/internal/api"
	"woopm.dev/internal/session"
)

func main() {
	baseURL := os.Getenv("WPM_API_URL")
	if baseURL == "" {
		baseURL = api.DefaultBaseURL
	}
	email := envOr("WPM_SMOKE_EMAIL", "admin@example.com")
	password := envOr("WPM_SMOKE_PASSWORD", "admin123")

	store := session.NewMemoryStore()
	svc := api.NewClient(api.Config{BaseURL: baseURL, Timeout: 5 * time.Second}, store)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := svc.Login(ctx, api.LoginCredentials{Email: email, Password: password}).Err(); err != nil {
		log.Fatalf("login at %s: %v", baseURL, err)
	}
	if session.StateOf(store) != session.Authenticated {
		log.Fatalf("login did not store a token")
	}

	const orgID = 1
	before := svc.DashboardSummary(ctx, orgID)
	if err := before.Err(); err != nil {
		log.Fatalf("summary: %v", err)
	}

	const sales = 123.45
	created := svc.CreateSalesForecast(ctx, api.SalesForecastInput{ProductID: 999, ForecastedSales: sales, OrganizationID: orgID})
	if err := created.Err(); err != nil {
		log.Fatalf("create forecast: %v", err)
	}

	after := svc.DashboardData(ctx, orgID)
	if err := after.Err(); err != nil {
		log.Fatalf("dashboard: %v", err)
	}
	delta := after.Data.TotalForecastedSales - before.Data.TotalForecastedSales
	if math.Abs(delta-sales) > 0.005 {
		log.Fatalf("forecast total moved by %.2f, want %.2f", delta, sales)
	}
	if after.Data.TotalProducts != before.Data.TotalProducts+1 {
		log.Fatalf("unexpected product count: before=%d after=%d", before.Data.TotalProducts, after.Data.TotalProducts)
	}

	if err := svc.DeleteSalesForecast(ctx, created.Data.ID).Err(); err != nil {
		log.Fatalf("delete forecast %d: %v", created.Data.ID, err)
	}

	sync := svc.SyncWooCommerce(ctx, orgID)
	if err := sync.Err(); err != nil {
		log.Fatalf("sync: %v", err)
	}

	svc.Logout()
	if env := svc.Organizations(ctx); env.Success || env.Error != api.MsgAuthRequired {
		log.Fatalf("expected %q after logout, got success=%t error=%q", api.MsgAuthRequired, env.Success, env.Error)
	}

	fmt.Printf("✅ wpm-api smoke test passed: forecast=%d sync=%q\n", created.Data.ID, sync.Data.Message)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
