package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/mgarzon/almacen-api/internal/application/backup"
	"github.com/mgarzon/almacen-api/internal/application/usecase"
	httpRouter "github.com/mgarzon/almacen-api/internal/interfaces/http"
	"github.com/mgarzon/almacen-api/internal/system"
	"github.com/mgarzon/almacen-api/pkg/config"
	"github.com/mgarzon/almacen-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	sys, err := system.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicialización del sistema")
	}
	defer sys.Close()

	repos := sys.Persistence()
	notifier := sys.Notifier()

	articleUC := usecase.NewArticleUsecase(repos.Articles, repos.Attributes, repos.Images, repos.TableStats, notifier, log)
	storeUC := usecase.NewStoreUsecase(repos.Stores, repos.Sections, repos.TableStats, notifier, log)
	catalogueUC := usecase.NewCatalogueUsecase(repos.Manufacturers, repos.Receivers, repos.Hashtags, repos.CostUnits, repos.TableStats, notifier, log)
	ledgerUC := usecase.NewLedgerUsecase(repos.Receipts, repos.Emissions, repos.TableStats, notifier, log)
	authUC := usecase.NewAuthUsecase(repos.Users, cfg.JWT, log)
	backupSvc := backup.NewService(repos.BackupRepos(), repos.TableStats, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    64 * 1024 * 1024, // volcados de respaldo
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almacén Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthHandler:      httpRouter.NewAuthHandler(authUC),
		ArticleHandler:   httpRouter.NewArticleHandler(articleUC),
		StoreHandler:     httpRouter.NewStoreHandler(storeUC),
		CatalogueHandler: httpRouter.NewCatalogueHandler(catalogueUC),
		LedgerHandler:    httpRouter.NewLedgerHandler(ledgerUC),
		StockHandler:     httpRouter.NewStockHandler(sys.ArticleStock()),
		AdminHandler:     httpRouter.NewAdminHandler(sys, backupSvc, log),
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
