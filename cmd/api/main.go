package main

import (
	"context"
	"net/http"
	"os"

	"github.com/dquinterov/mesacompras-backend/api/routes"
	"github.com/dquinterov/mesacompras-backend/internal/auth"
	"github.com/dquinterov/mesacompras-backend/internal/catalog"
	"github.com/dquinterov/mesacompras-backend/internal/importer"
	"github.com/dquinterov/mesacompras-backend/internal/invoices"
	"github.com/dquinterov/mesacompras-backend/internal/mixbox"
	"github.com/dquinterov/mesacompras-backend/internal/orders"
	"github.com/dquinterov/mesacompras-backend/internal/parties"
	"github.com/dquinterov/mesacompras-backend/internal/users"
	"github.com/dquinterov/mesacompras-backend/internal/weights"
	"github.com/dquinterov/mesacompras-backend/pkg/config"
	"github.com/dquinterov/mesacompras-backend/pkg/db"
	"github.com/dquinterov/mesacompras-backend/pkg/logger"
	"github.com/dquinterov/mesacompras-backend/pkg/migrate"
	pkgredis "github.com/dquinterov/mesacompras-backend/pkg/redis"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gormDB := dbClient.DB()
	catalogRepo := catalog.NewRepository(gormDB)
	partiesRepo := parties.NewRepository(gormDB)
	invoicesRepo := invoices.NewRepository(gormDB)
	ordersRepo := orders.NewRepository(gormDB)

	authService, err := auth.NewService(users.NewRepository(gormDB), cfg.JWT, cfg.Password)
	if err != nil {
		fail(logg, "failed to create auth service", err)
	}
	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		fail(logg, "failed to create catalog service", err)
	}
	partiesService, err := parties.NewService(partiesRepo)
	if err != nil {
		fail(logg, "failed to create parties service", err)
	}
	invoicesService, err := invoices.NewService(invoicesRepo, dbClient, logg)
	if err != nil {
		fail(logg, "failed to create invoices service", err)
	}
	ordersService, err := orders.NewService(ordersRepo)
	if err != nil {
		fail(logg, "failed to create orders service", err)
	}
	weightsService, err := weights.NewService(gormDB, catalogRepo, logg)
	if err != nil {
		fail(logg, "failed to create weights service", err)
	}
	mixboxService, err := mixbox.NewService(dbClient)
	if err != nil {
		fail(logg, "failed to create mixbox service", err)
	}

	genericAdapter, err := importer.NewGenericAdapter(catalogService, partiesService)
	if err != nil {
		fail(logg, "failed to create generic adapter", err)
	}
	vilniusAdapter, err := importer.NewVilniusAdapter(catalogService)
	if err != nil {
		fail(logg, "failed to create vilnius adapter", err)
	}
	importerService, err := importer.NewService(genericAdapter, vilniusAdapter, ordersRepo, invoicesService, cfg.Import, logg)
	if err != nil {
		fail(logg, "failed to create importer service", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, routes.Services{
			Auth:     authService,
			Catalog:  catalogService,
			Parties:  partiesService,
			Invoices: invoicesService,
			Orders:   ordersService,
			Importer: importerService,
			Weights:  weightsService,
			Mixbox:   mixboxService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func fail(logg *logger.Logger, msg string, err error) {
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
