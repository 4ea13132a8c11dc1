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

	"github.com/jhoicas/Tablas-api/internal/application/auth"
	"github.com/jhoicas/Tablas-api/internal/application/commerce"
	"github.com/jhoicas/Tablas-api/internal/application/pubapi"
	"github.com/jhoicas/Tablas-api/internal/application/schema"
	"github.com/jhoicas/Tablas-api/internal/application/stats"
	"github.com/jhoicas/Tablas-api/internal/application/token"
	"github.com/jhoicas/Tablas-api/internal/application/typechange"
	"github.com/jhoicas/Tablas-api/internal/domain/coltype"
	"github.com/jhoicas/Tablas-api/internal/domain/validation"
	"github.com/jhoicas/Tablas-api/internal/infrastructure/export"
	infrapdf "github.com/jhoicas/Tablas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Tablas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Tablas-api/internal/interfaces/http"
	"github.com/jhoicas/Tablas-api/internal/modules/phone"
	"github.com/jhoicas/Tablas-api/pkg/config"
	"github.com/jhoicas/Tablas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
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

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("crear esquema de la base de datos")
	}

	// Registro de tipos de columna: los builtin más los módulos extra.
	types := coltype.Builtin()
	if err := phone.Register(types); err != nil {
		log.Fatal().Err(err).Msg("registrar módulos de tipos de columna")
	}
	validator := validation.New(types)

	userRepo := postgres.NewUserRepository(pool)
	tableRepo := postgres.NewTableRepository(pool)
	colRepo := postgres.NewColumnRepository(pool)
	rowRepo := postgres.NewRowRepository(pool)
	tokenRepo := postgres.NewTokenRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	rentalRepo := postgres.NewRentalRepository(pool)
	invRepo := postgres.NewInventoryTransactionRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	zl := log.Zerolog()
	tableUC := schema.NewTableUseCase(tableRepo, colRepo, rowRepo)
	columnUC := schema.NewColumnUseCase(tableRepo, colRepo, types, txRunner, zl)
	rowUC := schema.NewRowUseCase(tableRepo, colRepo, rowRepo, validator, types, txRunner, zl)
	exportUC := schema.NewExportUseCase(tableRepo, colRepo, rowRepo, export.NewEtreeTableExporter())
	typeChangeUC := typechange.NewUseCase(tableRepo, colRepo, txRunner, zl)
	commerceUC := commerce.NewUseCase(tableRepo, rowRepo, saleRepo, rentalRepo, invRepo, txRunner, zl)
	receiptUC := commerce.NewReceiptUseCase(saleRepo, tableRepo, infrapdf.NewMarotoReceiptGenerator())
	publicUC := pubapi.NewUseCase(tokenRepo, tableRepo, colRepo, rowRepo, zl)
	tokenUC := token.NewUseCase(tokenRepo, zl)
	statsUC := stats.NewUseCase(statsRepo)
	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Tablas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		TableUC:      tableUC,
		ColumnUC:     columnUC,
		RowUC:        rowUC,
		ExportUC:     exportUC,
		TypeChangeUC: typeChangeUC,
		CommerceUC:   commerceUC,
		ReceiptUC:    receiptUC,
		PublicUC:     publicUC,
		AuthUC:       authUC,
		TokenUC:      tokenUC,
		StatsUC:      statsUC,
		JWTSecret:    cfg.JWT.Secret,
		ServiceName:  cfg.App.Name,
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
