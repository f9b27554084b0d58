package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/serial-track/internal/application/coordinator"
	"github.com/jhoicas/serial-track/internal/application/events"
	"github.com/jhoicas/serial-track/internal/application/lifecycle"
	"github.com/jhoicas/serial-track/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/serial-track/internal/interfaces/http"
	"github.com/jhoicas/serial-track/pkg/config"
	"github.com/jhoicas/serial-track/pkg/logger"
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
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	itemRepo := postgres.NewSerialItemRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	attributeRepo := postgres.NewAttributeRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	engine := lifecycle.NewEngine(txRunner, itemRepo, movementRepo, attributeRepo, lifecycle.Options{
		SoldLocation:     cfg.Serial.SoldLocation,
		DisposalLocation: cfg.Serial.DisposalLocation,
		ReversalMode:     cfg.Serial.ReversalMode,
		GenerateRetries:  cfg.Serial.GenerateRetries,
	}, log)

	gateway := events.NewGateway(log)

	coord := coordinator.NewCoordinator(engine, gateway, log)
	coord.Register()

	translator := events.NewAssetsTranslator(engine, gateway, log)
	translator.Register()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Engine:      engine,
		Coordinator: coord,
		Gateway:     gateway,
		JWTSecret:   cfg.JWT.Secret,
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
