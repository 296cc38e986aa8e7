package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/akulov/oddsgrid/internal/ingest"
	"github.com/akulov/oddsgrid/internal/pkg/config"
	"github.com/akulov/oddsgrid/internal/pkg/flatten"
	"github.com/akulov/oddsgrid/internal/pkg/health"
	"github.com/akulov/oddsgrid/internal/pkg/logging"
	"github.com/akulov/oddsgrid/internal/pkg/publish"
	"github.com/akulov/oddsgrid/internal/pkg/snapshot"
	"github.com/akulov/oddsgrid/internal/pkg/sources"
	"github.com/akulov/oddsgrid/internal/pkg/store"
	"github.com/akulov/oddsgrid/internal/pkg/teams"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "configs/config.yaml", "Path to config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if _, err := logging.Setup(logging.Options{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Service: "collector",
	}); err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	norm, err := loadNormalizer(cfg.AliasFile)
	if err != nil {
		log.Fatalf("Failed to load team aliases: %v", err)
	}

	categories, err := loadCategories(cfg.MarketTableFile)
	if err != nil {
		log.Fatalf("Failed to load market category table: %v", err)
	}

	srcs, err := sources.Build(cfg.Sources, cfg.Ingest.FetchTimeout)
	if err != nil {
		log.Fatalf("Failed to build sources: %v", err)
	}

	writers := []snapshot.Storage{}
	fileWriter, err := snapshot.NewFileWriter(cfg.Snapshot.Path)
	if err != nil {
		log.Fatalf("Failed to create snapshot writer: %v", err)
	}
	writers = append(writers, fileWriter)

	if cfg.Postgres.DSN != "" {
		pg, err := snapshot.NewPostgresStorage(cfg.Postgres.DSN)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer pg.Close()
		writers = append(writers, pg)
	}

	var publisher publish.Publisher
	if cfg.Redis.Addr != "" {
		pub, err := publish.NewRedisPublisher(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer pub.Close()
		publisher = pub
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st := store.New()
	if cfg.Health.Port > 0 {
		health.Run(ctx, health.AddrFor(cfg.Health.Port), "collector", st, cfg.Health.ReadHeaderTimeout)
	}

	runID := uuid.NewString()
	loop := ingest.NewLoop(runID, ingest.Options{
		Interval:         cfg.Ingest.Interval,
		Workers:          cfg.Ingest.Workers,
		FetchTimeout:     cfg.Ingest.FetchTimeout,
		PerMatchSnapshot: cfg.Snapshot.PerMatch,
		Retention:        cfg.Retention,
	}, srcs, norm, flatten.New(categories), st, writers, publisher)

	if err := loop.Run(ctx); err != nil {
		log.Fatalf("Collector failed: %v", err)
	}
	slog.Info("Collector stopped", "run_id", runID)
}

func loadNormalizer(path string) (*teams.Normalizer, error) {
	if path == "" {
		return teams.NewNormalizer(teams.BuiltinAliases()), nil
	}
	return teams.LoadNormalizer(path)
}

func loadCategories(path string) (*flatten.CategoryTable, error) {
	if path == "" {
		return nil, nil
	}
	return flatten.LoadCategoryTable(path)
}
