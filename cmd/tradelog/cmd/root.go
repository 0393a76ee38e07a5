package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rustyeddy/tradelog/auth"
	"github.com/rustyeddy/tradelog/config"
	"github.com/rustyeddy/tradelog/internal/logging"
	"github.com/rustyeddy/tradelog/journal"
	"github.com/rustyeddy/tradelog/ledger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tradelog",
	Short: "Trading-session bookkeeping with a running balance chain",
	Long: `Tradelog keeps a journal of stake-and-outcome trades grouped into
numbered sessions.

It provides tools for:
  - Opening sessions and switching the active one
  - Logging stakes and settling them as wins or losses
  - Keeping every running balance consistent when a trade changes
  - Session statistics, streaks and risk alerts
  - CSV export of the trade journal
  - A local HTTP/WebSocket bridge for the desktop client`,
	SilenceUsage: true,
}

var (
	cfgFile  string
	envFile  string
	dbPath   string
	logLevel string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file with TRADELOG_* overrides")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to SQLite database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// app bundles what the subcommands need.
type app struct {
	cfg    *config.Config
	log    *logging.SlogLogger
	store  *journal.Store
	ledger *ledger.Service
	auth   *auth.Service
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		var err error
		if cfg, err = config.LoadFromFile(cfgFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(envFile); err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

func openApp(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.Logging.Level, cfg.Logging.Format, logOut)

	store, err := journal.Open(ctx, cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:   cfg,
		log:   log,
		store: store,
		ledger: ledger.New(store,
			ledger.WithLogger(log),
			ledger.WithDefaultPayout(cfg.Defaults.PayoutPercent)),
		auth: auth.New(store, cfg.Defaults.Settings(), auth.WithLogger(log)),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// withApp opens the app for the duration of fn, logging to stderr.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

// userEmail is shared by every command that acts on one user's books.
var userEmail string

func addUserFlag(c *cobra.Command) {
	c.PersistentFlags().StringVarP(&userEmail, "user", "u", os.Getenv("TRADELOG_USER"), "email of the user to act as")
}

func (a *app) user(ctx context.Context) (*journal.User, error) {
	if userEmail == "" {
		return nil, fmt.Errorf("--user is required")
	}
	return a.store.GetUserByEmail(ctx, userEmail)
}
