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

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/inventory"
	"github.com/jhoicas/Facturacion-api/internal/application/quota"
	"github.com/jhoicas/Facturacion-api/internal/application/report"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/notify"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Facturacion-api/internal/interfaces/http"
	"github.com/jhoicas/Facturacion-api/pkg/config"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("base_currency", cfg.Ledger.BaseCurrency).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	tenantRepo := postgres.NewTenantRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	logRepo := postgres.NewInventoryLogRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	repos := billing.Repositories{
		Tenants:   tenantRepo,
		Customers: customerRepo,
		Products:  productRepo,
		Invoices:  invoiceRepo,
		Payments:  paymentRepo,
	}
	limits := quota.NewLimits(cfg.Plans.FreeMaxInvoices, cfg.Plans.FreeMaxCustomers, cfg.Plans.ProMaxInvoices, cfg.Plans.ProMaxCustomers)
	gate := quota.NewGate(tenantRepo, invoiceRepo, customerRepo, limits, log.WithComponent("quota"))
	stock := inventory.NewStockKeeper(cfg.Ledger.AllowNegativeStock)
	projector := billing.NewProjector(repos, cfg.Ledger.PaymentEpsilon)
	notifier := notify.NewLogNotifier(log.WithComponent("notifier"))

	engine := billing.NewInvoiceEngine(
		txRunner, repos, gate, stock, inventory.NewResolver(stock), projector, notifier,
		log.WithComponent("invoices"), cfg.Ledger.BaseCurrency,
	)
	paymentLedger := billing.NewPaymentLedger(
		txRunner, repos, projector, notifier,
		log.WithComponent("payments"), cfg.Ledger.PaymentEpsilon, cfg.Ledger.BaseCurrency,
	)

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
		Title:    "Facturación API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Engine:        engine,
		Projector:     projector,
		Payments:      paymentLedger,
		Customers:     billing.NewCustomerUseCase(txRunner, customerRepo, gate, engine, log.WithComponent("customers")),
		Products:      inventory.NewProductUseCase(txRunner, productRepo, stock, cfg.Ledger.BaseCurrency, log.WithComponent("products")),
		Audit:         inventory.NewAuditUseCase(txRunner, productRepo, logRepo),
		Reports:       report.NewProductReportUseCase(productRepo, reportRepo),
		Tenants:       quota.NewTenantUseCase(tenantRepo, cfg.Ledger.BaseCurrency, log.WithComponent("tenants")),
		Gate:          gate,
		AppName:       cfg.App.Name,
		JWTSecret:     cfg.JWT.Secret,
		WebhookSecret: cfg.Webhook.PaymentSecret,
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
