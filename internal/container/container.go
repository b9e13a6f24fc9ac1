// Package container wires the application from configuration.
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"zoostat/adapters/excel"
	"zoostat/adapters/jsonrows"
	"zoostat/adapters/memory"
	"zoostat/adapters/postgres"
	"zoostat/app"
	"zoostat/domain/metrics"
	"zoostat/domain/reference"
	"zoostat/internal"
	"zoostat/internal/analysis/correlation"
	"zoostat/internal/config"
	"zoostat/internal/errors"
	"zoostat/internal/migration"
	"zoostat/internal/monitoring"
	"zoostat/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure; DB is nil when reports are kept in memory
	DB       *sqlx.DB
	Recorder *monitoring.Recorder

	Reports ports.ReportRepository
	Service *app.AnalysisService
	Loader  *app.DatasetLoader
}

// New creates a container without opening any connection. Call InitWithDatabase
// or InitInMemory before use.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	c := &Container{Config: cfg, Logger: logger.OrNop()}
	if cfg.Metrics.Enabled {
		c.Recorder = monitoring.NewRecorder(monitoring.Config{Namespace: "zoostat", WithRuntime: true})
	}
	return c, nil
}

// Init opens the configured storage and builds the service
func (c *Container) Init(ctx context.Context) error {
	if c.Config.Database.Driver == "" {
		return c.InitInMemory()
	}
	db, err := OpenDatabase(ctx, c.Config.Database)
	if err != nil {
		return err
	}
	return c.InitWithDatabase(ctx, db)
}

// InitWithDatabase stores reports through db, migrating the schema first when configured
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	c.DB = db

	if c.Config.Database.RunMigrations {
		runner := migration.NewRunner(c.Logger)
		if err := runner.Run(ctx, db); err != nil {
			return errors.Wrap(err, "database migration failed")
		}
	}
	c.Reports = postgres.NewReportRepository(db)
	c.Logger.Info("Report storage: %s", db.DriverName())
	return c.initService()
}

// InitInMemory keeps reports in process memory
func (c *Container) InitInMemory() error {
	c.Reports = memory.NewReportRepository()
	c.Logger.Info("Report storage: in memory")
	return c.initService()
}

func (c *Container) initService() error {
	registry, err := metrics.LoadCatalog()
	if err != nil {
		return errors.Wrap(err, "failed to load metric catalog")
	}
	tables, err := reference.LoadTables()
	if err != nil {
		return errors.Wrap(err, "failed to load reference tables")
	}

	ac := c.Config.Analysis
	corr := correlation.DefaultOptions()
	corr.SignificanceLevel = ac.SignificanceLevel
	corr.MinDataPoints = ac.MinDataPoints
	corr.MaxCorrelations = ac.MaxCorrelations

	opts := app.DefaultOptions()
	opts.MaxRows = ac.MaxRows
	opts.Workers = ac.Workers
	opts.Correlation = corr

	c.Service, err = app.NewAnalysisService(app.Dependencies{
		Registry: registry,
		Tables:   tables,
		Reports:  c.Reports,
		Recorder: c.Recorder,
		Logger:   c.Logger,
	}, opts)
	if err != nil {
		return err
	}

	tabular := excel.DefaultConfig()
	tabular.MaxRows = ac.MaxRows
	c.Loader = app.NewDatasetLoader(
		excel.NewDataReader(tabular, c.Logger),
		jsonrows.NewReader("", ac.MaxRows, c.Logger),
	)
	return nil
}

// OpenDatabase connects with the configured driver and verifies the connection
func OpenDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open(cfg.Driver, cfg.URL)
	if err != nil {
		return nil, errors.DatabaseError("failed to open database", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.Driver == "sqlite3" {
		// sqlite3 allows one writer at a time
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.DatabaseError("failed to ping database", err)
	}
	return db, nil
}

// Shutdown releases the database connection
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
