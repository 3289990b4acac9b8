package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"climbcheck/internal/analysis"
	"climbcheck/internal/config"
	"climbcheck/internal/service"
	"climbcheck/internal/store"
	"climbcheck/internal/tui"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	rider := &riderFlags{}

	rootCmd := &cobra.Command{
		Use:           "climbcheck",
		Short:         "Rate climbs for a rider's power, weight and gearing",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, rider)
		},
	}
	rider.register(rootCmd.PersistentFlags())

	rootCmd.AddCommand(&cobra.Command{
		Use:   "tui",
		Short: "Browse climbs interactively (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, rider)
		},
	})
	rootCmd.AddCommand(listCmd(rider))
	rootCmd.AddCommand(showCmd(rider))
	rootCmd.AddCommand(importCmd(rider))
	rootCmd.AddCommand(profileCmd(rider))
	rootCmd.AddCommand(convertCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

// env holds everything a command needs once config is loaded
type env struct {
	cfg     *config.Config
	logger  *log.Logger
	logFile *lumberjack.Logger
	db      *store.Store
	climbs  *service.ClimbService
}

func (e *env) Close() {
	if e.db != nil {
		e.db.Close()
	}
	if e.logFile != nil {
		e.logFile.Close()
	}
}

// loadConfig reads the config file, creating the example one on first run
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		if err := config.CreateExample(); err != nil {
			return nil, fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		fmt.Fprintf(os.Stderr, "Created a default config at %s/config.json\n", configDir)
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		return nil, fmt.Errorf("invalid config at %s/config.json: %w", configDir, err)
	}
	return cfg, nil
}

func newLogger(cfg config.LogConfig) (*log.Logger, *lumberjack.Logger) {
	sink := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
	return log.New(sink, "climbcheck: ", log.LstdFlags), sink
}

// openEnv loads config, opens the database and loads the catalogue. When no
// catalogue is stored yet the configured catalogue file is imported if present.
// Rider flags that were set override the active profile without saving it.
func openEnv(cmd *cobra.Command, rider *riderFlags) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg}
	e.logger, e.logFile = newLogger(cfg.Log)

	e.db, err = store.OpenPath(cfg.Data.DatabasePath)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	physics := analysis.Physics{
		Crr:        cfg.Physics.Crr,
		CdA:        cfg.Physics.CdA,
		AirDensity: cfg.Physics.AirDensity,
	}
	e.climbs = service.NewClimbService(e.db, physics, cfg.Rider.Profile(), e.logger)
	e.climbs.SetPathsDir(cfg.Data.PathsDir)

	err = e.climbs.Load()
	if errors.Is(err, store.ErrNoCatalogue) && cfg.Data.CataloguePath != "" {
		if _, statErr := os.Stat(cfg.Data.CataloguePath); statErr == nil {
			_, err = e.climbs.Import(cfg.Data.CataloguePath)
		}
	}
	if err != nil && !errors.Is(err, store.ErrNoCatalogue) {
		e.Close()
		return nil, err
	}

	if rider != nil && rider.changed(cmd.Flags()) {
		e.climbs.OverrideRider(rider.apply(cmd.Flags(), e.climbs.Rider()))
	}
	return e, nil
}

func runTUI(cmd *cobra.Command, rider *riderFlags) error {
	e, err := openEnv(cmd, rider)
	if err != nil {
		return err
	}
	defer e.Close()

	app := tui.NewApp(e.climbs, tui.NewUnits(e.cfg.Display))
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
