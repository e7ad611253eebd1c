package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dompet/finance-gateway/internal/app"
	"github.com/dompet/finance-gateway/internal/core/domain"
	"github.com/dompet/finance-gateway/internal/core/ports"
	"github.com/dompet/finance-gateway/internal/infrastructure/queue"
)

// newFlags returns a flag set for a subcommand that reports errors instead of
// exiting.
func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

// required fails when any of the named flags is empty.
func required(fs *flag.FlagSet, names ...string) error {
	var missing []string
	for _, n := range names {
		if f := fs.Lookup(n); f == nil || f.Value.String() == "" {
			missing = append(missing, "-"+n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: missing %s", fs.Name(), strings.Join(missing, ", "))
	}
	return nil
}

// isSet reports whether flag name was given on the command line.
func isSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func printAck(out io.Writer, ack *domain.Ack, fallback string) {
	msg := ack.Message
	if msg == "" {
		msg = fallback
	}
	fmt.Fprintln(out, msg)
}

// --- Session ---

func runLogin(ctx context.Context, a *app.Application, out io.Writer, args []string) error {
	fs := newFlags("login")
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "u", "p"); err != nil {
		return err
	}

	res, err := a.Auth.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Signed in as %s (%s)\n", res.User.Username, res.User.Email)
	return nil
}

func runRegister(ctx context.Context, a *app.Application, out io.Writer, args []string) error {
	fs := newFlags("register")
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "u", "p", "name", "email"); err != nil {
		return err
	}

	ack, err := a.Auth.Register(ctx, *username, *password, *name, *email)
	if err != nil {
		return err
	}
	printAck(out, ack, "Registered. Sign in with: financectl login -u "+*username)
	return nil
}

func runLogout(ctx context.Context, a *app.Application, out io.Writer, args []string) error {
	if err := a.Auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "Signed out")
	return nil
}

func runWhoami(ctx context.Context, a *app.Application, out io.Writer, args []string) error {
	session, err := a.Auth.CurrentSession(ctx)
	if errors.Is(err, domain.ErrNoSession) {
		fmt.Fprintln(out, "Not signed in")
		return nil
	}
	if err != nil {
		return err
	}
	printProfile(out, &session.User)
	if session.ExpiresAt != nil {
		state := "valid until"
		if session.ExpiresAt.Before(time.Now()) {
			state = "expired at"
		}
		fmt.Fprintf(out, "Token     %s %s\n", state, session.ExpiresAt.Local().Format(time.DateTime))
	}
	return nil
}

// --- Profile ---

func runProfile(ctx context.Context, a *app.Application, out io.Writer, args []string) error {
	res, err := a.Profile.GetProfile(ctx)
	if err != nil {
		return err
	}
	if res.User == nil {
		return fmt.Errorf("profile unavailable: %s", res.Message)
	}
	printProfile(out, res.User)
	return nil
}

func runUpdateProfile(ctx context.Context, a *app.Application, out io.Writer, args []string) error {
	fs := newFlags("update-profile")
	name := fs.String("name", "", "new full name")
	email := fs.String("email", "", "new email address")
	username := fs.String("u", "", "new username")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var update ports.ProfileUpdate
	if isSet(fs, "name") {
		update.Name = name
	}
	if isSet(fs, "email") {
		update.Email = email
	}
	if isSet(fs, "u") {
		update.Username = username
	}
	if update.Name == nil && update.Email == nil && update.Username == nil {
		return errors.New("update-profile: nothing to change, pass -name, -email or -u")
	}

	res, err := a.Profile.UpdateProfile(ctx, update)
	if err != nil {
		return err
	}
	if res.Message != "" {
		fmt.Fprintln(out, res.Message)
	}
	cached, err := a.Sessions.ReadProfile(ctx)
	if err != nil {
		return err
	}
	if cached != nil {
		printProfile(out, cached)
	}
	return nil
}

func runPasswd(ctx context.Context, a *app.Application, out io.Writer, args []string) error {
	fs := newFlags("passwd")
	current := fs.String("current", "", "current password")
	next := fs.String("new", "", "new password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "current", "new"); err != nil {
		return err
	}

	ack, err := a.Auth.ChangePassword(ctx, *current, *next)
	if err != nil {
		return err
	}
	printAck(out, ack, "Password changed")
	return nil
}

// --- Transactions ---

func runTx(ctx context.Context, a *app.Application, out io.Writer, args []string) error {
	if len(args) == 0 {
		return errors.New("tx: expected list, add, edit, import or rm")
	}
	switch args[0] {
	case "list", "ls":
		return runTxList(ctx, a, out, args[1:])
	case "add":
		return runTxWrite(ctx, a, out, "", args[1:])
	case "edit":
		if len(args) < 2 {
			return errors.New("tx edit: expected a transaction id")
		}
		return runTxWrite(ctx, a, out, args[1], args[2:])
	case "import":
		return runTxImport(ctx, a, out, args[1:])
	case "rm":
		if len(args) < 2 {
			return errors.New("tx rm: expected a transaction id")
		}
		ack, err := a.Transactions.DeleteTransaction(ctx, args[1])
		if err != nil {
			return err
		}
		printAck(out, ack, "Deleted")
		return nil
	default:
		return fmt.Errorf("tx: unknown action %q", args[0])
	}
}

func runTxList(ctx context.Context, a *app.Application, out io.Writer, args []string) error {
	fs := newFlags("tx list")
	typ := fs.String("type", "", "income or expense")
	if err := fs.Parse(args); err != nil {
		return err
	}
	filter := domain.TransactionFilter{Type: domain.TransactionType(*typ)}
	if filter.Type != "" && !filter.Type.Valid() {
		return fmt.Errorf("tx list: -type must be income or expense")
	}

	list := a.Transactions.FetchTransactions(ctx, filter)
	if !list.Success {
		return errors.New(list.Message)
	}
	printTransactions(out, list.Transactions)
	fmt.Fprintln(out)
	printSummary(out, list.Summary)
	return nil
}

// runTxWrite creates a transaction, or replaces transaction id when set.
func runTxWrite(ctx context.Context, a *app.Application, out io.Writer, id string, args []string) error {
	name := "tx add"
	if id != "" {
		name = "tx edit"
	}
	fs := newFlags(name)
	typ := fs.String("type", "expense", "income or expense")
	amount := fs.String("amount", "", "amount, e.g. 150000 or 12500.50")
	desc := fs.String("desc", "", "description")
	date := fs.String("date", "", "date as YYYY-MM-DD (default today)")
	category := fs.String("category", "", "category id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "amount"); err != nil {
		return err
	}

	in, err := transactionInput(*typ, *amount, *desc, *date, *category)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	var res *domain.TransactionResult
	if id == "" {
		res, err = a.Transactions.CreateTransaction(ctx, in)
	} else {
		res, err = a.Transactions.UpdateTransaction(ctx, id, in)
	}
	if err != nil {
		return err
	}
	if res.Message != "" {
		fmt.Fprintln(out, res.Message)
	}
	if res.Transaction != nil {
		printTransactions(out, []domain.Transaction{*res.Transaction})
	}
	return nil
}

// runTxImport creates the transactions of a CSV file with a header row of
// date,type,amount,description,category.
func runTxImport(ctx context.Context, a *app.Application, out io.Writer, args []string) error {
	fs := newFlags("tx import")
	file := fs.String("file", "", "CSV file to import")
	workers := fs.Int("workers", 4, "concurrent requests")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "file"); err != nil {
		return err
	}

	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	defer f.Close()

	jobs, err := queue.ParseCSV(f, time.Local)
	if err != nil {
		return fmt.Errorf("tx import: %w", err)
	}

	importer := queue.NewImporter(*workers, a.Transactions, a.Logger.With().Str("component", "import").Logger())
	failed := 0
	for _, r := range importer.Run(ctx, jobs) {
		if r.Err != nil {
			failed++
			fmt.Fprintf(out, "line %d: %v\n", r.Line, r.Err)
		}
	}
	fmt.Fprintf(out, "Imported %d of %d transactions\n", len(jobs)-failed, len(jobs))
	if failed > 0 {
		return fmt.Errorf("tx import: %d rows failed", failed)
	}
	return nil
}

func transactionInput(typ, amount, desc, date, category string) (domain.TransactionInput, error) {
	t := domain.TransactionType(typ)
	if !t.Valid() {
		return domain.TransactionInput{}, errors.New("-type must be income or expense")
	}
	amt, err := decimal.NewFromString(amount)
	if err != nil || !amt.IsPositive() {
		return domain.TransactionInput{}, errors.New("-amount must be a positive number")
	}
	in := domain.TransactionInput{Type: t, Amount: amt, Description: desc, CategoryID: category}
	if date != "" {
		d, err := time.ParseInLocation(time.DateOnly, date, time.Local)
		if err != nil {
			return domain.TransactionInput{}, errors.New("-date must be YYYY-MM-DD")
		}
		in.Date = d
	}
	return in, nil
}

func runDashboard(ctx context.Context, a *app.Application, out io.Writer, args []string) error {
	dash := a.Transactions.GetDashboardData(ctx)
	if !dash.Success {
		return errors.New(dash.Message)
	}
	printSummary(out, dash.Summary)
	fmt.Fprintln(out, "\nRecent transactions")
	printTransactions(out, dash.RecentTransactions)
	return nil
}

// --- Categories ---

func runCategories(ctx context.Context, a *app.Application, out io.Writer, args []string) error {
	action := "list"
	if len(args) > 0 {
		action, args = args[0], args[1:]
	}

	switch action {
	case "list", "ls":
		list, err := a.Categories.FetchCategories(ctx)
		if err != nil {
			return err
		}
		printCategories(out, list.Categories)
		return nil

	case "add":
		fs := newFlags("categories add")
		name := fs.String("name", "", "category name")
		typ := fs.String("type", "", "income or expense (optional)")
		icon := fs.String("icon", "", "icon name (optional)")
		color := fs.String("color", "", "hex color, e.g. #ff8800 (optional)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := required(fs, "name"); err != nil {
			return err
		}
		res, err := a.Categories.CreateCategory(ctx, domain.CategoryInput{Name: *name, Type: *typ, Icon: *icon, Color: *color})
		if err != nil {
			return err
		}
		if res.Message != "" {
			fmt.Fprintln(out, res.Message)
		}
		if res.Category != nil {
			printCategories(out, []domain.Category{*res.Category})
		}
		return nil

	case "rm":
		if len(args) == 0 {
			return errors.New("categories rm: expected a category id")
		}
		ack, err := a.Categories.DeleteCategory(ctx, args[0])
		if err != nil {
			return err
		}
		printAck(out, ack, "Deleted")
		return nil

	default:
		return fmt.Errorf("categories: unknown action %q", action)
	}
}

// --- Overview ---

func runOverview(ctx context.Context, a *app.Application, out io.Writer, args []string) error {
	ov, err := a.Overview.Load(ctx)
	if err != nil {
		return err
	}
	if ov.Profile != nil {
		printProfile(out, ov.Profile)
		fmt.Fprintln(out)
	}
	if ov.Dashboard.Success {
		printSummary(out, ov.Dashboard.Summary)
		fmt.Fprintln(out, "\nRecent transactions")
		printTransactions(out, ov.Dashboard.RecentTransactions)
	} else {
		fmt.Fprintln(out, "Dashboard unavailable:", ov.Dashboard.Message)
	}
	fmt.Fprintln(out, "\nCategories")
	printCategories(out, ov.Categories)
	return nil
}
