package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"woopm.dev/internal/auth"
	"woopm.dev/internal/backend"
	"woopm.dev/internal/config"
	"woopm.dev/internal/httpapi"
	"woopm.dev/internal/obs"
	"woopm.dev/internal/store/pg"
)

var (
	version = "0.1.0"
	commit  = "unknown"
)

func main() {
	configFile := flag.String("config", "", "YAML config file (default $WPM_CONFIG)")
	envFile := flag.String("env-file", ".env", "dotenv file")
	flag.Parse()

	cfg, err := config.Load(config.Options{EnvFile: *envFile, ConfigFile: *configFile})
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	obs.Init()
	obs.InitBuildInfo(version, commit)
	shutdownTracing := obs.SetupTracing(context.Background(), "wpm-api", cfg.TracingConfig())

	if cfg.AuthSecret == "" {
		log.Fatalf("auth: WPM_AUTH_SECRET must be set")
	}
	auth.SetSecret(cfg.AuthSecret)

	// Optional database so /readyz reflects Postgres health.
	var db *sql.DB
	if cfg.DatabaseURL != "" {
		store, err := pg.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db = store.DB()
	}

	svc, err := backend.NewInMemory()
	if err != nil {
		log.Fatalf("seed backend: %v", err)
	}

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, svc,
		httpapi.WithRateLimit(cfg.RateBurst, cfg.RatePerSec),
		httpapi.WithTracing(cfg.Tracing),
	)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting wpm-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	_ = shutdownTracing(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}
