// Command rateview is a line-oriented terminal frontend over the client
// core. All session, routing and list-synchronization logic lives in
// internal/views; this file only parses commands and prints tables.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"rateview/internal/apierr"
	"rateview/internal/client"
	"rateview/internal/config"
	"rateview/internal/logger"
	"rateview/internal/models"
	"rateview/internal/session"
	"rateview/internal/views"
)

func main() {
	cfg := config.LoadConfig()
	log := logger.InitLogger()

	sessions, err := session.NewStore(cfg.StateDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Session storage unavailable")
	}
	api := client.New(cfg.APIBaseURL, cfg.HTTPTimeout, log)
	app := views.NewApp(api, sessions, log)

	ctx := context.Background()
	if err := app.EnterActiveView(ctx); err != nil {
		fmt.Println("! " + apierr.DisplayMessage(err))
	}

	fmt.Println("rateview — type 'help' for commands")
	printState(app)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}
		if err := dispatch(ctx, app, line); err != nil {
			fmt.Println("! " + apierr.DisplayMessage(err))
		}
		printState(app)
	}
}

func dispatch(ctx context.Context, app *views.App, line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	if cmd == "help" {
		printHelp(app)
		return nil
	}

	if app.Router.ActiveView() == views.ViewAuth {
		return dispatchAuth(ctx, app, cmd, args)
	}

	switch cmd {
	case "logout":
		return app.Router.Logout()
	case "passwd":
		if len(args) != 2 {
			return fmt.Errorf("usage: passwd <old> <new>")
		}
		if err := app.Auth.ChangePassword(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("password updated")
		return nil
	}

	switch app.Router.ActiveView() {
	case views.ViewAdmin:
		return dispatchAdmin(ctx, app, cmd, args)
	case views.ViewStores:
		return dispatchStores(ctx, app, cmd, args)
	case views.ViewOwner:
		return dispatchOwner(ctx, app, cmd)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func dispatchAuth(ctx context.Context, app *views.App, cmd string, args []string) error {
	switch cmd {
	case "login":
		if app.Router.PreAuthScreen() == views.ScreenSignup && len(args) == 0 {
			app.Router.ShowLogin()
			return nil
		}
		if len(args) != 2 {
			return fmt.Errorf("usage: login <email> <password>")
		}
		if err := app.Auth.Login(ctx, args[0], args[1]); err != nil {
			return err
		}
		return app.EnterActiveView(ctx)
	case "signup":
		app.Router.ShowSignup()
		fmt.Println("signup screen: submit <name>;<email>;<address>;<password>")
		return nil
	case "submit":
		if app.Router.PreAuthScreen() != views.ScreenSignup {
			return fmt.Errorf("switch to the signup screen first")
		}
		parts := strings.SplitN(strings.Join(args, " "), ";", 4)
		if len(parts) != 4 {
			return fmt.Errorf("usage: submit <name>;<email>;<address>;<password>")
		}
		req := models.SignupRequest{
			Name:     strings.TrimSpace(parts[0]),
			Email:    strings.TrimSpace(parts[1]),
			Address:  strings.TrimSpace(parts[2]),
			Password: parts[3],
		}
		// Advisory only; the backend has the final word.
		for _, msg := range app.Auth.SignupAdvisories(req) {
			fmt.Println("note: " + msg)
		}
		if err := app.Auth.Signup(ctx, req); err != nil {
			return err
		}
		return app.EnterActiveView(ctx)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func dispatchAdmin(ctx context.Context, app *views.App, cmd string, args []string) error {
	switch cmd {
	case "stats":
		stats := app.Admin.Stats()
		if msg := app.Admin.StatsError(); msg != "" {
			fmt.Println("! " + msg)
		}
		fmt.Printf("users=%d stores=%d ratings=%d\n", stats.TotalUsers, stats.TotalStores, stats.TotalRatings)
		return nil
	case "filter", "sort":
		if len(args) < 1 {
			return fmt.Errorf("usage: %s <users|stores> ...", cmd)
		}
		switch args[0] {
		case "users":
			return applyCriteria(ctx, app.Admin.Users, cmd, args[1:])
		case "stores":
			return applyCriteria(ctx, app.Admin.Stores, cmd, args[1:])
		}
		return fmt.Errorf("usage: %s <users|stores> ...", cmd)
	case "users", "stores":
		return nil // tables reprint after every command
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func dispatchStores(ctx context.Context, app *views.App, cmd string, args []string) error {
	switch cmd {
	case "filter", "sort":
		return applyCriteria(ctx, app.StoreList.List, cmd, args)
	case "rate":
		if len(args) != 2 {
			return fmt.Errorf("usage: rate <store-id> <1..5>")
		}
		storeID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid store id %q", args[0])
		}
		score, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid score %q", args[1])
		}
		return app.StoreList.Rate(ctx, storeID, score)
	case "list":
		return app.StoreList.List.Refresh(ctx)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func dispatchOwner(ctx context.Context, app *views.App, cmd string) error {
	switch cmd {
	case "list", "refresh":
		return app.Owner.List.Refresh(ctx)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

// applyCriteria mutates a controller's criteria as one whole-value
// replacement, which is what triggers (at most) one fetch.
func applyCriteria[T any](ctx context.Context, ctrl *views.ListController[T], cmd string, args []string) error {
	q := ctrl.Criteria()
	if cmd == "sort" {
		if len(args) < 1 {
			return fmt.Errorf("usage: sort [users|stores] <field> [asc|desc]")
		}
		q.Sort.By = args[0]
		q.Sort.Order = models.SortAsc
		if len(args) > 1 && args[1] == "desc" {
			q.Sort.Order = models.SortDesc
		}
		return ctrl.SetCriteria(ctx, q)
	}

	filter := models.FilterCriteria{}
	for _, pair := range args {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return fmt.Errorf("filters look like name=coffee")
		}
		switch key {
		case "name":
			filter.Name = value
		case "email":
			filter.Email = value
		case "address":
			filter.Address = value
		case "role":
			filter.Role = value
		default:
			return fmt.Errorf("unknown filter field %q", key)
		}
	}
	q.Filter = filter
	return ctrl.SetCriteria(ctx, q)
}

func printState(app *views.App) {
	switch app.Router.ActiveView() {
	case views.ViewAuth:
		fmt.Printf("[%s screen]\n", app.Router.PreAuthScreen())
	case views.ViewAdmin:
		printAdmin(app)
	case views.ViewStores:
		printStores(app)
	case views.ViewOwner:
		printOwner(app)
	}
}

func printAdmin(app *views.App) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tADDRESS\tROLE")
	for _, u := range app.Admin.Users.Items() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Address, u.Role)
	}
	fmt.Fprintln(w, "\nID\tSTORE\tEMAIL\tADDRESS\tAVG\t#")
	for _, s := range app.Admin.Stores.Items() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\n", s.ID, s.Name, s.Email, s.Address, ratingText(s.AverageRating), s.RatingCount)
	}
	w.Flush()
	printFetchError(app.Admin.Users.LastError())
	printFetchError(app.Admin.Stores.LastError())
}

func printStores(app *views.App) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTORE\tADDRESS\tOVERALL\tMINE\t#")
	for _, s := range app.StoreList.List.Items() {
		mine := "-"
		if s.MyRating != nil {
			mine = strconv.Itoa(*s.MyRating)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\n", s.ID, s.Name, s.Address, ratingText(s.OverallRating), mine, s.RatingCount)
	}
	w.Flush()
	printFetchError(app.StoreList.List.LastError())
	printFetchError(app.StoreList.RatingError())
}

func printOwner(app *views.App) {
	for _, entry := range app.Owner.Entries() {
		fmt.Printf("%s (avg %s)\n", entry.Store.Name, ratingText(entry.AverageRating))
		for _, r := range entry.Ratings {
			fmt.Printf("  %d  %s <%s>\n", r.Score, r.UserName, r.UserEmail)
		}
	}
	printFetchError(app.Owner.List.LastError())
}

func printFetchError(msg string) {
	if msg != "" {
		fmt.Println("! " + msg)
	}
}

func ratingText(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

func printHelp(app *views.App) {
	switch app.Router.ActiveView() {
	case views.ViewAuth:
		fmt.Println("login <email> <password> | signup | submit <name>;<email>;<address>;<password> | quit")
	case views.ViewAdmin:
		fmt.Println("stats | filter <users|stores> k=v... | sort <users|stores> <field> [asc|desc] | passwd <old> <new> | logout | quit")
	case views.ViewStores:
		fmt.Println("list | filter k=v... | sort <field> [asc|desc] | rate <id> <1..5> | passwd <old> <new> | logout | quit")
	case views.ViewOwner:
		fmt.Println("list | passwd <old> <new> | logout | quit")
	}
}
