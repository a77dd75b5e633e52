// Command stationery-admin is the shop staff client for the campus stationery
// API: sign in, watch and complete orders and print jobs, and manage the
// catalog from a terminal, or serve the same views as a local JSON API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/campusprint/stationery-admin/internal/pkg/config"
	"github.com/campusprint/stationery-admin/pkg/logger"
)

const serviceName = "stationery-admin"

// globalFlags override the matching environment settings when set.
type globalFlags struct {
	apiURL   string
	profile  string
	backend  string
	envFile  string
	logLevel string
	pretty   bool
}

// cli carries state shared by every subcommand of one invocation.
type cli struct {
	flags globalFlags
	cfg   *config.Config
	app   *app
}

// run executes one command line. The service graph, when one was built, is
// closed afterwards whether or not the command failed.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	c := &cli{}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	return errors.Join(err, c.teardown(ctx))
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Campus stationery shop admin client",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `stationery-admin signs shop staff in to the campus stationery API and
shows incoming orders and print jobs, marks them complete and manages the
item catalog.

Credentials are kept between runs in the configured credential backend
(a YAML file under your user config directory by default).`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.apiURL, "api", "", "Upstream API base URL (or set API_BASE_URL)")
	pf.StringVar(&c.flags.profile, "profile", "", "Credential profile name (or set PROFILE)")
	pf.StringVar(&c.flags.backend, "backend", "", "Credential backend: file, redis, mongo, memory (or set CREDENTIAL_BACKEND)")
	pf.StringVar(&c.flags.envFile, "env-file", "", "Load environment variables from this file first")
	pf.StringVar(&c.flags.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error (or set LOG_LEVEL)")
	pf.BoolVar(&c.flags.pretty, "pretty", false, "Human-friendly log output on stderr")

	root.AddCommand(
		c.loginCmd(),
		c.registerCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.sessionCmd(),
		c.dashboardCmd(),
		c.ordersCmd(),
		c.printoutsCmd(),
		c.itemsCmd(),
		c.serveCmd(),
		c.demoAPICmd(),
	)
	return root
}

// setup loads configuration and initialises logging. Building the service
// graph is left to the commands that need it.
func (c *cli) setup(cmd *cobra.Command) error {
	if c.flags.envFile != "" {
		if err := godotenv.Load(c.flags.envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", c.flags.envFile, err)
		}
	}

	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if c.flags.apiURL != "" {
		cfg.API.BaseURL = c.flags.apiURL
	}
	if c.flags.profile != "" {
		cfg.Credentials.Profile = c.flags.profile
	}
	if c.flags.backend != "" {
		cfg.Credentials.Backend = c.flags.backend
	}
	if c.flags.logLevel != "" {
		cfg.LogLevel = c.flags.logLevel
	}
	if c.flags.pretty {
		cfg.Pretty = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg

	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Pretty,
		Output:  cmd.ErrOrStderr(),
		Service: serviceName,
	})
	return nil
}

func (c *cli) teardown(ctx context.Context) error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close(ctx)
	c.app = nil
	return err
}

// services builds the service graph on first use.
func (c *cli) services(ctx context.Context) (*app, error) {
	if c.app != nil {
		return c.app, nil
	}
	log := logger.Get()
	a, err := newApp(ctx, c.cfg, log, cliNavigator{log: log})
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

// signedIn restores the persisted session and fails when there is none.
func (c *cli) signedIn(ctx context.Context) (*app, error) {
	a, err := c.services(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.session.Bootstrap(ctx); err != nil {
		return nil, err
	}
	if a.session.Identity() == nil {
		return nil, errNotSignedIn
	}
	return a, nil
}

var errNotSignedIn = errors.New("not signed in; run `stationery-admin login` first")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
