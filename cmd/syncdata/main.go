// syncdata pushes locally cached demo reports into the hosted store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/sculptbody/cierre-backend/internal/common"
	"github.com/sculptbody/cierre-backend/internal/localcache"
	"github.com/sculptbody/cierre-backend/internal/reconcile"
	"github.com/sculptbody/cierre-backend/internal/repository"
)

func main() {
	purge := flag.Bool("purge", false, "remove migrated records from the local cache")
	flag.Parse()

	_ = godotenv.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if cfg.Database.DSN == "" {
		fmt.Fprintln(os.Stderr, "Error: DB_URL is required")
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        4,
		MinConns:        1,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer repository.Close(pool, logger)

	cache, err := localcache.OpenSQLite(cfg.Cache.Path, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening local cache %s: %v\n", cfg.Cache.Path, err)
		os.Exit(1)
	}
	defer func() { _ = cache.Close() }()

	svc := reconcile.NewService(
		repository.NewBranchRepository(pool, logger),
		repository.NewProfessionalRepository(pool, logger),
		repository.NewReportRepository(pool, logger),
		cache,
		*purge || cfg.Reconcile.PurgeLocal,
		logger,
	)

	out, err := svc.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(out.Message)
	if !out.Success {
		os.Exit(1)
	}
}
