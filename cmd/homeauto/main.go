// Home automation shell.
//
// homeauto builds a device fleet from configuration, registers the built-in
// routines plus any from a routine definition file, and drives both from a
// numbered menu on standard input.
//
// Flags may also be set through HOMEAUTO_* environment variables, for
// example HOMEAUTO_CONFIG or HOMEAUTO_NO_HISTORY=true.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v3"

	_ "github.com/kalviumcommunity/S56-Shreyas-OOP-Home-Automation-System/migrations"

	"github.com/kalviumcommunity/S56-Shreyas-OOP-Home-Automation-System/internal/automation"
	"github.com/kalviumcommunity/S56-Shreyas-OOP-Home-Automation-System/internal/device"
	"github.com/kalviumcommunity/S56-Shreyas-OOP-Home-Automation-System/internal/infrastructure/config"
	"github.com/kalviumcommunity/S56-Shreyas-OOP-Home-Automation-System/internal/infrastructure/database"
	"github.com/kalviumcommunity/S56-Shreyas-OOP-Home-Automation-System/internal/infrastructure/logging"
	"github.com/kalviumcommunity/S56-Shreyas-OOP-Home-Automation-System/internal/shell"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the parsed command line.
type options struct {
	configPath     string
	configExplicit bool
	routinesFile   string
	logLevel       string
	noHistory      bool
	migrateDown    bool
	showVersion    bool
}

func parseFlags(args []string, out io.Writer) (*options, error) {
	fset := flag.NewFlagSet("homeauto", flag.ContinueOnError)
	fset.SetOutput(out)

	opts := &options{}
	fset.StringVar(&opts.configPath, "config", defaultConfigPath, "path to the YAML configuration file")
	fset.StringVar(&opts.routinesFile, "routines", "", "YAML routine definition file (overrides routines.file)")
	fset.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	fset.BoolVar(&opts.noHistory, "no-history", false, "keep routine history in memory only")
	fset.BoolVar(&opts.migrateDown, "migrate-down", false, "roll back the latest history database migration and exit")
	fset.BoolVar(&opts.showVersion, "version", false, "print version and exit")

	if err := ff.Parse(fset, args, ff.WithEnvVarPrefix(config.EnvPrefix)); err != nil {
		return nil, err
	}

	fset.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			opts.configExplicit = true
		}
	})
	return opts, nil
}

// run is the application logic, separated from main for testability.
// It returns when the shell exits or ctx is cancelled.
func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	opts, err := parseFlags(args, stdout)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}
	if opts.showVersion {
		fmt.Fprintf(stdout, "homeauto %s (commit %s, built %s)\n", version, commit, date) //nolint:errcheck // terminal output
		return nil
	}

	// Use the default logger until config is loaded
	boot := logging.Default()
	cfg, err := loadConfig(opts, boot)
	if err != nil {
		boot.Error("configuration failed", "path", opts.configPath, "error", err)
		return err
	}

	log := logging.New(cfg.Logging, version)
	defer func() {
		if closeErr := log.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "closing log: %v\n", closeErr)
		}
	}()
	log.Info("starting homeauto",
		"version", version,
		"commit", commit,
		"build_date", date,
		"site", cfg.Site.Name,
	)

	if opts.migrateDown {
		return migrateDown(ctx, cfg.History, stdout, log)
	}

	// Device fleet
	specs, err := cfg.DeviceSpecs()
	if err != nil {
		return fmt.Errorf("building fleet: %w", err)
	}
	fleet := device.NewRegistry()
	fleet.SetLogger(log.With("component", "device"))
	if err := fleet.RegisterAll(specs); err != nil {
		return fmt.Errorf("registering devices: %w", err)
	}
	log.Info("device registry initialised", "devices", fleet.Summary().TotalDevices)

	// Execution history
	history, closeHistory, err := openHistory(ctx, cfg.History, opts.noHistory, log)
	if err != nil {
		return err
	}
	defer closeHistory()

	// Routines
	engine := automation.NewEngine(
		automation.WithLogger(log.With("component", "automation")),
		automation.WithHistory(history),
	)
	if cfg.Routines.Builtins {
		if err := automation.DefineBuiltins(engine); err != nil {
			return fmt.Errorf("defining built-in routines: %w", err)
		}
	}
	if cfg.Routines.File != "" {
		routines, loadErr := automation.LoadRoutineFile(cfg.Routines.File)
		if loadErr != nil {
			return fmt.Errorf("loading routines: %w", loadErr)
		}
		if err := engine.DefineAll(routines); err != nil {
			return fmt.Errorf("defining routines: %w", err)
		}
		log.Info("routine file loaded", "path", cfg.Routines.File, "routines", len(routines))
	}
	log.Info("routines ready", "routines", engine.Routines())

	sh := shell.New(fleet, engine, history, stdin, stdout,
		shell.WithPrompt(cfg.Shell.Prompt),
		shell.WithRecentLimit(cfg.Shell.RecentLimit),
		shell.WithLogger(log.With("component", "shell")),
	)
	if err := sh.Run(ctx); err != nil {
		return fmt.Errorf("shell: %w", err)
	}

	log.Info("homeauto stopped")
	return nil
}

// loadConfig reads the configuration file and applies flag overrides.
// A missing file at the default path falls back to the built-in defaults.
func loadConfig(opts *options, log *logging.Logger) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if errors.Is(err, fs.ErrNotExist) && !opts.configExplicit {
		log.Debug("config file not found, using built-in defaults", "path", opts.configPath)
		cfg, err = config.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.routinesFile != "" {
		cfg.Routines.File = opts.routinesFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating flags: %w", err)
	}
	return cfg, nil
}

// openHistory returns the execution history store and a function releasing it.
// A disabled or bypassed store keeps history in process memory.
func openHistory(ctx context.Context, cfg config.HistoryConfig, bypass bool, log *logging.Logger) (automation.History, func(), error) {
	if !cfg.Enabled || bypass {
		log.Info("routine history kept in memory", "capacity", cfg.Capacity)
		return automation.NewMemoryHistory(cfg.Capacity), func() {}, nil
	}

	db, err := database.Open(database.Config{
		Path:        cfg.Path,
		WALMode:     cfg.WALMode,
		BusyTimeout: cfg.BusyTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("opening history database: %w", err)
	}
	closeDB := func() {
		log.Info("closing history database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing history database", "error", closeErr)
		}
	}

	if err := db.Migrate(ctx); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("history database health check: %w", err)
	}

	history := automation.NewSQLiteHistory(db.DB, cfg.Capacity)
	if cfg.RetentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -cfg.RetentionDays)
		pruned, pruneErr := history.Prune(ctx, cutoff)
		if pruneErr != nil {
			closeDB()
			return nil, nil, fmt.Errorf("pruning history: %w", pruneErr)
		}
		log.Info("history pruned", "before", cutoff, "removed", pruned)
	}
	if cfg.Capacity > 0 {
		trimmed, trimErr := history.Trim(ctx, cfg.Capacity)
		if trimErr != nil {
			closeDB()
			return nil, nil, fmt.Errorf("trimming history: %w", trimErr)
		}
		log.Info("history trimmed", "capacity", cfg.Capacity, "removed", trimmed)
	}
	log.Info("history database ready", "path", db.Path(), "in_memory", db.InMemory())

	return history, closeDB, nil
}

// migrateDown rolls back the latest migration of a file-backed history database.
func migrateDown(ctx context.Context, cfg config.HistoryConfig, out io.Writer, log *logging.Logger) error {
	dbCfg := database.Config{Path: cfg.Path, WALMode: cfg.WALMode, BusyTimeout: cfg.BusyTimeout}
	if dbCfg.IsMemory() {
		return errors.New("migrate-down needs a file-backed history.path")
	}

	db, err := database.Open(dbCfg)
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing history database", "error", closeErr)
		}
	}()

	if err := db.MigrateDown(ctx); err != nil {
		return fmt.Errorf("rolling back migration: %w", err)
	}
	applied, _, err := db.MigrationStatus(ctx)
	if err != nil {
		return fmt.Errorf("reading migration status: %w", err)
	}
	log.Info("migration rolled back", "path", db.Path(), "applied", len(applied))
	fmt.Fprintf(out, "Rolled back latest migration; %d still applied.\n", len(applied)) //nolint:errcheck // terminal output
	return nil
}
