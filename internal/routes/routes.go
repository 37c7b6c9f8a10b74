package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/onecard-bot/onecard_bot/internal/account"
	"github.com/onecard-bot/onecard_bot/internal/card"
	"github.com/onecard-bot/onecard_bot/internal/config"
	"github.com/onecard-bot/onecard_bot/internal/emi"
	"github.com/onecard-bot/onecard_bot/internal/ledger"
	"github.com/onecard-bot/onecard_bot/internal/middleware"
	"github.com/onecard-bot/onecard_bot/internal/notification"
	"github.com/onecard-bot/onecard_bot/internal/seed"
	"github.com/onecard-bot/onecard_bot/internal/tools"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
	// Clock defaults to the wall clock.
	Clock ledger.Clock
	// Store and Cards override the storage picked from DB.
	Store ledger.Store
	Cards card.Repository
}

// Setup configures middlewares and all application routes. Without a
// database the in-memory store is used and seeded with demo customers.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}
	if d.Clock == nil {
		d.Clock = ledger.SystemClock
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	app.Use(cors.New())
	app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))

	// Storage
	var (
		store     = d.Store
		cardRepo  = d.Cards
		storeName = "custom"
	)
	switch {
	case store != nil && cardRepo != nil:
	case d.DB != nil:
		store = ledger.NewPostgresStore(d.DB)
		cardRepo = card.NewPostgresRepository(d.DB)
		storeName = "postgres"
	default:
		store = ledger.NewMemoryStore()
		cardRepo = card.NewMemoryRepository()
		storeName = "memory"
		seeder := seed.New(store, cardRepo, d.Clock, d.Logger, d.Cfg.SeedRandom)
		if _, err := seeder.Run(context.Background(), d.Cfg.SeedCustomers); err != nil {
			return fmt.Errorf("seed memory store: %w", err)
		}
	}

	// Services and handlers
	notifier := notification.NewLoggerNotifier(d.Logger)
	accountSvc := account.NewService(store, d.Clock, notifier)
	cardSvc := card.NewService(cardRepo, d.Clock)
	emiSvc := emi.NewService(store, notifier)
	dispatcher := tools.NewDispatcher(accountSvc, cardSvc, emiSvc)

	accountHandler := account.NewHandler(accountSvc)
	cardHandler := card.NewHandler(cardSvc)
	emiHandler := emi.NewHandler(emiSvc)
	toolsHandler := tools.NewHandler(dispatcher)
	openLimiter := middleware.OpenAccountRateLimit(d.Cache, d.Cfg.OpenAccountRate, d.Logger)

	RegisterHealthRoutes(app, d, storeName)

	// The agent tools call the backend at the root; /api/v1 carries the same routes.
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.RequestIDFrom(c),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
	RegisterToolRoutes(api, toolsHandler)

	for _, r := range []fiber.Router{app, api} {
		RegisterAccountRoutes(r, accountHandler, openLimiter)
		RegisterCardRoutes(r, cardHandler)
		RegisterTransactionRoutes(r, emiHandler)
	}

	return nil
}
