// Command seed fills the Postgres database with demo customers, cards and
// purchases. It does nothing when customers already exist.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/onecard-bot/onecard_bot/internal/card"
	"github.com/onecard-bot/onecard_bot/internal/config"
	"github.com/onecard-bot/onecard_bot/internal/infra"
	"github.com/onecard-bot/onecard_bot/internal/ledger"
	"github.com/onecard-bot/onecard_bot/internal/logging"
	"github.com/onecard-bot/onecard_bot/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	count := flag.Int("customers", cfg.SeedCustomers, "number of customers to create")
	random := flag.Int64("seed", cfg.SeedRandom, "random seed for the generator")
	flag.Parse()

	logger := logging.New(cfg.LogLevel)
	ctx := context.Background()

	db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := infra.Migrate(ctx, db); err != nil {
		logger.Error("migrate", "error", err)
		os.Exit(1)
	}

	seeder := seed.New(ledger.NewPostgresStore(db), card.NewPostgresRepository(db), nil, logger, *random)
	created, err := seeder.Run(ctx, *count)
	if err != nil {
		logger.Error("seed", "error", err, "created", created)
		os.Exit(1)
	}
	logger.Info("seed finished", "created", created)
}
