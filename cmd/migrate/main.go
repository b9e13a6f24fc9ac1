package main

import (
	"context"
	"flag"
	"log"
	"time"

	"zoostat/internal"
	"zoostat/internal/config"
	"zoostat/internal/container"
	"zoostat/internal/migration"
)

func main() {
	cfgFile := flag.String("config", "", "optional YAML configuration file")
	status := flag.Bool("status", false, "list applied migrations without running new ones")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Database.Driver == "" {
		log.Fatal("No database configured; set ZOOSTAT_DATABASE_URL or DATABASE_URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := container.OpenDatabase(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	runner := migration.NewRunner(internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level)))
	if !*status {
		if err := runner.Run(ctx, db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
	}

	applied, err := runner.Applied(ctx, db)
	if err != nil {
		log.Fatalf("Failed to read migration state: %v", err)
	}
	log.Printf("Schema version %s (%d migrations applied on %s)", runner.Version(), len(applied), db.DriverName())
	for _, v := range applied {
		log.Printf("  %s", v)
	}
}
