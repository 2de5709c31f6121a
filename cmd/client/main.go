package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/iudanet/freelancehub/internal/client/api"
	"github.com/iudanet/freelancehub/internal/client/auth"
	"github.com/iudanet/freelancehub/internal/client/cli"
	"github.com/iudanet/freelancehub/internal/client/guard"
	"github.com/iudanet/freelancehub/internal/client/iocli"
	"github.com/iudanet/freelancehub/internal/client/metrics"
	"github.com/iudanet/freelancehub/internal/client/session"
	"github.com/iudanet/freelancehub/internal/client/storage"
	"github.com/iudanet/freelancehub/internal/client/storage/boltdb"
	"github.com/iudanet/freelancehub/internal/client/storage/memory"
	"github.com/iudanet/freelancehub/internal/client/storage/sealed"
	"github.com/iudanet/freelancehub/internal/client/storage/sqlite"
	"github.com/iudanet/freelancehub/internal/config"
	"github.com/iudanet/freelancehub/internal/crypto"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// options - глобальные флаги, перекрывающие конфиг
type options struct {
	configPath  string
	server      string
	dbPath      string
	driver      string
	logLevel    string
	guardMode   string
	metricsFile string
}

func (o *options) register(fs *pflag.FlagSet) {
	fs.StringVar(&o.configPath, "config", config.DefaultConfigPath(), "Config file path (YAML)")
	fs.StringVar(&o.server, "server", "", "Server URL")
	fs.StringVar(&o.dbPath, "db", "", "Path to the local session database")
	fs.StringVar(&o.driver, "driver", "", "Session storage driver: bolt, sqlite or memory")
	fs.StringVar(&o.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&o.guardMode, "guard", "", "Session check mode: remote or local")
	fs.StringVar(&o.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")
}

// apply переносит заданные флаги в конфиг
func (o *options) apply(cfg *config.Config) {
	if o.server != "" {
		cfg.Server = o.server
	}
	if o.dbPath != "" {
		cfg.Storage.Path = o.dbPath
	}
	if o.driver != "" {
		cfg.Storage.Driver = o.driver
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.guardMode != "" {
		cfg.Guard.Mode = o.guardMode
	}
	if o.metricsFile != "" {
		cfg.Metrics.File = o.metricsFile
	}
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// глобальные флаги нужны до построения команд
	var opts options
	pre := pflag.NewFlagSet("global", pflag.ContinueOnError)
	pre.ParseErrorsWhitelist.UnknownFlags = true
	pre.SetOutput(io.Discard)
	opts.register(pre)
	_ = pre.Parse(args)

	cfg, err := config.Load(opts.configPath, os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		return 1
	}

	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	deps, err := newApp(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer deps.close()

	root := rootCmd(&opts, deps.cli.Commands())
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func rootCmd(opts *options, commands []*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "freelancehub",
		Short: "Freelance marketplace client",
		Long: `freelancehub is a terminal client for the freelance marketplace.

Clients post jobs and review applications, freelancers browse jobs and apply,
admins manage users and skills. The session is kept locally and refreshed
transparently when the access token expires.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.register(cmd.PersistentFlags())

	cmd.AddCommand(commands...)
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			printVersion()
		},
	})
	return cmd
}

// app - собранные зависимости клиента
type app struct {
	cli         *cli.Cli
	logger      *slog.Logger
	closers     []func() error
	registry    *prometheus.Registry
	metricsFile string
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{logger: logger, metricsFile: cfg.Metrics.File}

	store, err := a.openStorage(ctx, cfg.Storage)
	if err != nil {
		a.close()
		return nil, err
	}

	sess := session.New(store, logger)
	if _, err := sess.Load(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var recorder metrics.Recorder = metrics.Nop{}
	if cfg.Metrics.File != "" {
		a.registry = prometheus.NewRegistry()
		p, err := metrics.NewPrometheus(a.registry)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		recorder = p
	}

	term := iocli.NewStdio()
	screen := cli.NewScreen(term, os.Stderr)

	apiClient := api.NewClient(cfg.Server, sess,
		api.WithTimeout(cfg.Timeout),
		api.WithNavigator(screen),
		api.WithNotifier(screen),
		api.WithLogger(logger),
		api.WithMetrics(recorder),
		api.WithFallbackRedirect(cfg.Session.FallbackRedirect),
	)
	g := guard.New(sess, apiClient,
		guard.WithMode(guard.Mode(cfg.Guard.Mode)),
		guard.WithNavigator(screen),
		guard.WithLoading(screen.Loading),
		guard.WithLogger(logger),
	)
	authService := auth.NewAuthService(apiClient, sess, screen, logger)

	a.cli = cli.New(term, authService, apiClient, g, logger)
	return a, nil
}

// openStorage открывает хранилище сессии; с паролем токены шифруются
func (a *app) openStorage(ctx context.Context, cfg config.StorageConfig) (storage.AuthStorage, error) {
	var store storage.AuthStorage

	switch cfg.Driver {
	case config.DriverMemory:
		store = memory.New()
	case config.DriverBolt, config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		if cfg.Driver == config.DriverBolt {
			s, err := boltdb.New(ctx, cfg.Path)
			if err != nil {
				return nil, fmt.Errorf("failed to open database: %w", err)
			}
			a.closers = append(a.closers, s.Close)
			store = s
		} else {
			s, err := sqlite.New(ctx, cfg.Path)
			if err != nil {
				return nil, fmt.Errorf("failed to open database: %w", err)
			}
			a.closers = append(a.closers, s.Close)
			store = s
		}
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}

	if cfg.Passphrase == "" {
		return store, nil
	}

	// соль хранится рядом с базой; для memory живет до конца процесса
	var (
		salt []byte
		err  error
	)
	if cfg.Driver == config.DriverMemory {
		salt, err = crypto.GenerateSalt()
	} else {
		salt, err = crypto.LoadOrCreateSalt(cfg.Path + ".salt")
	}
	if err != nil {
		return nil, err
	}
	return sealStore(store, cfg.Passphrase, salt)
}

func sealStore(store storage.AuthStorage, passphrase string, salt []byte) (storage.AuthStorage, error) {
	key, err := crypto.DeriveStorageKey(passphrase, salt)
	if err != nil {
		return nil, fmt.Errorf("failed to derive storage key: %w", err)
	}
	s, err := sealed.New(store, key)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (a *app) close() {
	if a.registry != nil && a.metricsFile != "" {
		if err := prometheus.WriteToTextfile(a.metricsFile, a.registry); err != nil {
			a.logger.Error("failed to write metrics", "error", err)
		}
	}

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Error("failed to close database", "error", err)
	}
}

func printVersion() {
	fmt.Printf("freelancehub client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
