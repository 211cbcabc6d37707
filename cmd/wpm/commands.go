package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"woopm.dev/internal/api"
	"woopm.dev/internal/config"
	"woopm.dev/internal/dashboard"
	"woopm.dev/internal/session"
)

const passwordEnv = "WPM_PASSWORD"

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

func credentials(fs *flag.FlagSet) (*string, *string) {
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (default $"+passwordEnv+")")
	return email, password
}

func passwordOr(p string) string {
	if p != "" {
		return p
	}
	return os.Getenv(passwordEnv)
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlags("login")
	email, password := credentials(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	if !a.session.Login(ctx, *email, passwordOr(*password)) {
		return errors.New("login failed")
	}
	u, _ := a.session.User()
	return a.print(u, func(w io.Writer) {
		fmt.Fprintf(w, "Logged in as %s <%s>\n", u.Name, u.Email)
	})
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlags("register")
	email, password := credentials(fs)
	name := fs.String("name", "", "display name")
	if err := parse(fs, args); err != nil {
		return err
	}
	if !a.session.Register(ctx, *email, passwordOr(*password), *name) {
		return errors.New("registration failed")
	}
	u, _ := a.session.User()
	return a.print(u, func(w io.Writer) {
		fmt.Fprintf(w, "Registered %s <%s> (id %d)\n", u.Name, u.Email, u.ID)
	})
}

func cmdLogout(_ context.Context, a *app, _ []string) error {
	a.session.Logout()
	return a.print(map[string]string{"state": session.Unauthenticated.String()}, func(w io.Writer) {
		fmt.Fprintln(w, "Logged out")
	})
}

type statusReport struct {
	State      string `json:"state"`
	APIBaseURL string `json:"apiBaseUrl"`
	DataSource string `json:"dataSource"`
	OrgID      int    `json:"organizationId"`
	Mock       bool   `json:"mock"`
}

func cmdStatus(_ context.Context, a *app, _ []string) error {
	st := statusReport{
		State:      a.session.State().String(),
		APIBaseURL: a.svc.BaseURL(),
		DataSource: a.dash.Source().Name(),
		OrgID:      a.cfg.OrgID,
		Mock:       a.cfg.UseMock,
	}
	return a.print(st, func(w io.Writer) {
		tw := table(w)
		fmt.Fprintf(tw, "state\t%s\n", st.State)
		fmt.Fprintf(tw, "api\t%s\n", st.APIBaseURL)
		fmt.Fprintf(tw, "source\t%s\n", st.DataSource)
		fmt.Fprintf(tw, "organization\t%d\n", st.OrgID)
		fmt.Fprintf(tw, "mock\t%t\n", st.Mock)
		tw.Flush()
	})
}

func cmdDashboard(ctx context.Context, a *app, _ []string) error {
	data, err := a.dash.Current(ctx)
	if err != nil {
		return err
	}
	return a.printSummary(data)
}

type refreshReport struct {
	api.DashboardData
	RefreshedAt *time.Time `json:"refreshedAt,omitempty"`
}

func cmdRefresh(ctx context.Context, a *app, _ []string) error {
	data, err := a.dash.Refresh(ctx)
	if err != nil {
		return err
	}
	dq, ok := a.dash.Source().(*dashboard.DirectQuery)
	if !ok {
		return a.printSummary(data)
	}
	at := dq.LastRefresh().UTC()
	return a.print(refreshReport{DashboardData: data, RefreshedAt: &at}, func(w io.Writer) {
		tw := table(w)
		fmt.Fprintf(tw, "organization\t%d\n", data.OrganizationID)
		fmt.Fprintf(tw, "products\t%d\n", data.TotalProducts)
		fmt.Fprintf(tw, "forecasted sales\t%.2f\n", data.TotalForecastedSales)
		fmt.Fprintf(tw, "view refreshed\t%s\n", at.Format(time.RFC3339))
		tw.Flush()
	})
}

func (a *app) printSummary(d api.DashboardData) error {
	return a.print(d, func(w io.Writer) {
		tw := table(w)
		fmt.Fprintf(tw, "organization\t%d\n", d.OrganizationID)
		fmt.Fprintf(tw, "products\t%d\n", d.TotalProducts)
		fmt.Fprintf(tw, "forecasted sales\t%.2f\n", d.TotalForecastedSales)
		tw.Flush()
	})
}

func cmdSync(ctx context.Context, a *app, _ []string) error {
	msg, err := a.dash.SyncWooCommerce(ctx)
	if err != nil {
		return err
	}
	return a.print(api.SyncResult{Message: msg}, func(w io.Writer) {
		fmt.Fprintln(w, msg)
	})
}

func cmdOrgs(ctx context.Context, a *app, _ []string) error {
	env := a.svc.Organizations(ctx)
	if err := env.Err(); err != nil {
		return err
	}
	return a.print(env.Data, func(w io.Writer) {
		tw := table(w)
		fmt.Fprintln(tw, "ID\tNAME\tSTRIPE CUSTOMER\tUPDATED")
		for _, o := range env.Data {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", o.ID, o.Name, o.StripeCustomerID, o.UpdatedAt)
		}
		tw.Flush()
	})
}

func cmdOrg(ctx context.Context, a *app, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	env := a.svc.Organization(ctx, id)
	if err := env.Err(); err != nil {
		return err
	}
	o := env.Data
	return a.print(o, func(w io.Writer) {
		tw := table(w)
		fmt.Fprintf(tw, "id\t%d\n", o.ID)
		fmt.Fprintf(tw, "name\t%s\n", o.Name)
		fmt.Fprintf(tw, "stripe customer\t%s\n", o.StripeCustomerID)
		fmt.Fprintf(tw, "created\t%s\n", o.CreatedAt)
		fmt.Fprintf(tw, "updated\t%s\n", o.UpdatedAt)
		tw.Flush()
	})
}

func orgFlag(fs *flag.FlagSet, a *app) *int {
	return fs.Int("org", a.cfg.OrgID, "organization id")
}

func cmdForecasts(ctx context.Context, a *app, args []string) error {
	fs := newFlags("forecasts")
	org := orgFlag(fs, a)
	if err := parse(fs, args); err != nil {
		return err
	}
	env := a.svc.SalesForecasts(ctx, *org)
	if err := env.Err(); err != nil {
		return err
	}
	return a.print(env.Data, func(w io.Writer) {
		tw := table(w)
		fmt.Fprintln(tw, "ID\tPRODUCT\tSALES\tDATE")
		for _, f := range env.Data {
			fmt.Fprintf(tw, "%d\t%d\t%.2f\t%s\n", f.ID, f.ProductID, f.ForecastedSales, f.ForecastDate)
		}
		tw.Flush()
	})
}

func cmdForecastCreate(ctx context.Context, a *app, args []string) error {
	fs := newFlags("forecast-create")
	org := orgFlag(fs, a)
	product := fs.Int("product", 0, "product id")
	sales := fs.Float64("sales", 0, "forecasted sales")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *product <= 0 {
		return fmt.Errorf("%w: -product is required", errUsage)
	}
	env := a.svc.CreateSalesForecast(ctx, api.SalesForecastInput{
		ProductID:       *product,
		ForecastedSales: *sales,
		OrganizationID:  *org,
	})
	if err := env.Err(); err != nil {
		return err
	}
	return a.printForecast(env.Data)
}

func cmdForecastUpdate(ctx context.Context, a *app, args []string) error {
	fs := newFlags("forecast-update")
	org := fs.Int("org", 0, "organization id")
	product := fs.Int("product", 0, "product id")
	sales := fs.Float64("sales", 0, "forecasted sales")
	date := fs.String("date", "", "forecast date (RFC 3339)")
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := idArg(fs.Args())
	if err != nil {
		return err
	}
	var patch api.SalesForecastPatch
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "org":
			patch.OrganizationID = org
		case "product":
			patch.ProductID = product
		case "sales":
			patch.ForecastedSales = sales
		case "date":
			patch.ForecastDate = date
		}
	})
	env := a.svc.UpdateSalesForecast(ctx, id, patch)
	if err := env.Err(); err != nil {
		return err
	}
	return a.printForecast(env.Data)
}

func (a *app) printForecast(f api.SalesForecast) error {
	return a.print(f, func(w io.Writer) {
		tw := table(w)
		fmt.Fprintf(tw, "id\t%d\n", f.ID)
		fmt.Fprintf(tw, "product\t%d\n", f.ProductID)
		fmt.Fprintf(tw, "sales\t%.2f\n", f.ForecastedSales)
		fmt.Fprintf(tw, "date\t%s\n", f.ForecastDate)
		fmt.Fprintf(tw, "organization\t%d\n", f.OrganizationID)
		tw.Flush()
	})
}

func cmdForecastDelete(ctx context.Context, a *app, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	env := a.svc.DeleteSalesForecast(ctx, id)
	if err := env.Err(); err != nil {
		return err
	}
	return a.print(env, func(w io.Writer) {
		fmt.Fprintf(w, "Deleted forecast %d\n", id)
	})
}

func cmdProducts(ctx context.Context, a *app, args []string) error {
	fs := newFlags("products")
	org := orgFlag(fs, a)
	if err := parse(fs, args); err != nil {
		return err
	}
	env := a.svc.WooCommerceProducts(ctx, *org)
	if err := env.Err(); err != nil {
		return err
	}
	return a.print(env.Data, func(w io.Writer) {
		tw := table(w)
		fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTATUS\tSTOCK")
		for _, p := range env.Data {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Price, p.Status, optInt(p.StockQuantity))
		}
		tw.Flush()
	})
}

func cmdOrders(ctx context.Context, a *app, args []string) error {
	fs := newFlags("orders")
	org := orgFlag(fs, a)
	if err := parse(fs, args); err != nil {
		return err
	}
	env := a.svc.WooCommerceOrders(ctx, *org)
	if err := env.Err(); err != nil {
		return err
	}
	return a.print(env.Data, func(w io.Writer) {
		tw := table(w)
		fmt.Fprintln(tw, "ID\tSTATUS\tTOTAL\tCREATED\tCUSTOMER")
		for _, o := range env.Data {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", o.ID, o.Status, o.Total, o.DateCreated, optInt(o.CustomerID))
		}
		tw.Flush()
	})
}

type diagReport struct {
	Backend  dashboard.Report    `json:"backend"`
	Database *dashboard.DBReport `json:"database,omitempty"`
	Inserted *insertedRows       `json:"inserted,omitempty"`
}

type insertedRows struct {
	Organization  api.Organization  `json:"organization"`
	SalesForecast api.SalesForecast `json:"salesForecast"`
}

func cmdDiag(ctx context.Context, a *app, args []string) error {
	fs := newFlags("diag")
	withDB := fs.Bool("db", a.cfg.DataSource == config.SourceDirect, "also probe the database")
	insert := fs.Bool("insert", false, "insert a test organization and forecast (implies -db)")
	if err := parse(fs, args); err != nil {
		return err
	}

	rep, err := dashboard.Diagnose(ctx, a.svc, dashboard.FixedOrg(a.cfg.OrgID))
	if err != nil {
		return err
	}
	out := diagReport{Backend: rep}

	if *withDB || *insert {
		db, err := a.database()
		if err != nil {
			return err
		}
		if *insert {
			org, f, err := dashboard.InsertProbeRows(ctx, db)
			if err != nil {
				return err
			}
			out.Inserted = &insertedRows{Organization: org, SalesForecast: f}
		}
		dbRep, err := dashboard.DiagnoseDB(ctx, db)
		if err != nil {
			return err
		}
		out.Database = &dbRep
	}

	if err := a.print(out, func(w io.Writer) {
		tw := table(w)
		fmt.Fprintf(tw, "api\t%s\n", rep.APIBaseURL)
		fmt.Fprintf(tw, "dashboard\t%s\n", outcome(rep.Dashboard.Success, rep.Dashboard.Error))
		fmt.Fprintf(tw, "organizations\t%s\n", outcome(rep.Organizations.Success, rep.Organizations.Error))
		if out.Inserted != nil {
			fmt.Fprintf(tw, "inserted\torganization %d, forecast %d\n", out.Inserted.Organization.ID, out.Inserted.SalesForecast.ID)
		}
		if d := out.Database; d != nil {
			fmt.Fprintf(tw, "database\t%s\n", d.Version)
			fmt.Fprintf(tw, "db organizations\t%d\n", d.Counts.Organizations)
			fmt.Fprintf(tw, "db sales forecasts\t%d\n", d.Counts.SalesForecasts)
		}
		tw.Flush()
	}); err != nil {
		return err
	}
	if !rep.OK() {
		return errors.New("backend probe failed")
	}
	return nil
}

func idArg(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: expected exactly one id", errUsage)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", errUsage, args[0])
	}
	return id, nil
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func outcome(ok bool, msg string) string {
	if ok {
		return "ok"
	}
	return "failed: " + msg
}
