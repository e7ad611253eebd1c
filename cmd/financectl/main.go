// Command financectl is a terminal front end for the finance gateway.
//
//	financectl [-api URL] [-store BACKEND] [-v] <command> [flags]
//
// Run "financectl help" for the command list.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dompet/finance-gateway/internal/app"
	"github.com/dompet/finance-gateway/internal/infrastructure/config"
	"github.com/dompet/finance-gateway/pkg/logger"
)

// command runs one subcommand against an initialized gateway.
type command struct {
	name    string
	summary string
	run     func(ctx context.Context, a *app.Application, out io.Writer, args []string) error
}

var commands = []command{
	{"login", "sign in and remember the session", runLogin},
	{"register", "create an account", runRegister},
	{"logout", "forget the stored session", runLogout},
	{"whoami", "show the stored session", runWhoami},
	{"profile", "show the profile held by the service", runProfile},
	{"update-profile", "change name, email or username", runUpdateProfile},
	{"passwd", "change the password", runPasswd},
	{"tx", "list|add|edit|import|rm transactions", runTx},
	{"categories", "list|add|rm categories", runCategories},
	{"dashboard", "show totals and recent transactions", runDashboard},
	{"overview", "show profile, dashboard and categories together", runOverview},
}

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(argv []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("financectl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	apiURL := fs.String("api", "", "finance service base URL (overrides FINANCE_API_URL)")
	backend := fs.String("store", "", "session store backend (overrides STORE_BACKEND)")
	verbose := fs.Bool("v", false, "log at LOG_LEVEL instead of warn")
	fs.Usage = func() { usage(stderr, fs) }
	if err := fs.Parse(argv); err != nil {
		return 2
	}
	if fs.NArg() == 0 || fs.Arg(0) == "help" {
		usage(stderr, fs)
		return 2
	}

	cmd, ok := lookup(fs.Arg(0))
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", fs.Arg(0))
		usage(stderr, fs)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *apiURL != "" {
		_ = os.Setenv("FINANCE_API_URL", *apiURL)
	}
	if *backend != "" {
		_ = os.Setenv("STORE_BACKEND", *backend)
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}

	level := "warn"
	if *verbose {
		level = cfg.LogLevel
	}
	log := logger.Init(logger.Options{Level: level, Pretty: cfg.Pretty(), Output: stderr, Service: "financectl"})

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn().Err(err).Msg("closing session store")
		}
	}()

	if err := cmd.run(ctx, a, stdout, fs.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 2
		}
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "usage: financectl [flags] <command> [command flags]")
	fmt.Fprintln(w, "\ncommands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-15s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w, "\nflags:")
	fs.PrintDefaults()
}
