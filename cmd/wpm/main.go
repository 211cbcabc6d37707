package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"woopm.dev/internal/api"
	"woopm.dev/internal/config"
	"woopm.dev/internal/dashboard"
	"woopm.dev/internal/obs"
	"woopm.dev/internal/session"
	"woopm.dev/internal/store/pg"
)

var version = "dev"

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

var errUsage = errors.New("usage")

// openStore is replaced in tests.
var openStore = pg.Open

type app struct {
	cfg     config.Config
	store   session.TokenStore
	svc     api.Service
	session *api.Session
	dash    *dashboard.Service
	db      *pg.Store
	closers []func() error

	out      io.Writer
	jsonMode bool
}

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"login":           {"log in and store the access token", cmdLogin},
	"register":        {"create an account and log in", cmdRegister},
	"logout":          {"forget the stored access token", cmdLogout},
	"status":          {"show session and configuration", cmdStatus},
	"dashboard":       {"show the dashboard summary (direct: as of the last refresh)", cmdDashboard},
	"refresh":         {"recompute and show the dashboard summary", cmdRefresh},
	"sync":            {"synchronise WooCommerce data", cmdSync},
	"orgs":            {"list organizations", cmdOrgs},
	"org":             {"show one organization", cmdOrg},
	"forecasts":       {"list sales forecasts", cmdForecasts},
	"forecast-create": {"create a sales forecast", cmdForecastCreate},
	"forecast-update": {"update a sales forecast", cmdForecastUpdate},
	"forecast-delete": {"delete a sales forecast", cmdForecastDelete},
	"products":        {"list WooCommerce products", cmdProducts},
	"orders":          {"list WooCommerce orders", cmdOrders},
	"diag":            {"probe the backend, and the database with -db", cmdDiag},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wpm", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "YAML config file (default $WPM_CONFIG)")
	envFile := fs.String("env-file", ".env", "dotenv file")
	jsonMode := fs.Bool("json", false, "print raw JSON")
	mock := fs.Bool("mock", false, "use the in-process mock backend")
	fs.Usage = func() { usage(fs, stderr) }
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}
	name, rest := fs.Arg(0), fs.Args()[1:]
	if name == "version" {
		fmt.Fprintf(stdout, "wpm %s\n", version)
		return exitOK
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", name)
		fs.Usage()
		return exitUsage
	}

	cfg, err := config.Load(config.Options{EnvFile: *envFile, ConfigFile: *configFile})
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitFail
	}
	if *mock {
		cfg.UseMock = true
	}

	shutdown := obs.SetupTracing(ctx, "wpm", cfg.TracingConfig())
	defer func() { _ = shutdown(context.Background()) }()

	a, err := newApp(cfg, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return exitFail
	}
	defer a.close()
	a.jsonMode = *jsonMode

	if err := cmd.run(ctx, a, rest); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		if errors.Is(err, errUsage) {
			return exitUsage
		}
		return exitFail
	}
	return exitOK
}

func newApp(cfg config.Config, out io.Writer) (*app, error) {
	store, err := session.NewFileStore(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("token store: %w", err)
	}
	a := &app{cfg: cfg, store: store, out: out}
	a.svc = api.New(cfg.Client(), a.store)
	a.session = api.NewSession(a.svc)

	var source dashboard.DataSource = dashboard.NewRemoteAPI(a.svc)
	if cfg.DataSource == config.SourceDirect {
		db, err := a.database()
		if err != nil {
			return nil, err
		}
		source = dashboard.NewDirectQuery(db)
	}
	a.dash = dashboard.NewService(source,
		dashboard.WithResolver(dashboard.FixedOrg(cfg.OrgID)),
		dashboard.WithSyncer(a.svc),
	)
	return a, nil
}

// database opens the configured Postgres store once.
func (a *app) database() (*pg.Store, error) {
	if a.db != nil {
		return a.db, nil
	}
	if a.cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	db, err := openStore(a.cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.db = db
	a.closers = append(a.closers, db.Close)
	return db, nil
}

func (a *app) close() {
	for _, c := range a.closers {
		_ = c()
	}
}

func usage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "usage: wpm [flags] <command> [args]\n\ncommands:\n")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-16s %s\n", name, commands[name].summary)
	}
	fmt.Fprintf(w, "\nflags:\n")
	fs.PrintDefaults()
}
