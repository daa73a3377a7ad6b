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
	"github.com/shopspring/decimal"

	"github.com/fakturahaus/faktura-api/internal/application/auth"
	"github.com/fakturahaus/faktura-api/internal/application/billing"
	"github.com/fakturahaus/faktura-api/internal/application/inventory"
	"github.com/fakturahaus/faktura-api/internal/application/usecase"
	"github.com/fakturahaus/faktura-api/internal/infrastructure/mail"
	infrapdf "github.com/fakturahaus/faktura-api/internal/infrastructure/pdf"
	"github.com/fakturahaus/faktura-api/internal/infrastructure/postgres"
	"github.com/fakturahaus/faktura-api/internal/infrastructure/xrechnung"
	httpRouter "github.com/fakturahaus/faktura-api/internal/interfaces/http"
	"github.com/fakturahaus/faktura-api/pkg/config"
	"github.com/fakturahaus/faktura-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Konfiguration laden: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("Anwendung startet")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Verbindung zu PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	minStockRepo := postgres.NewMinimumStockRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	offerRepo := postgres.NewOfferRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	stockSvc := inventory.NewService(
		movementRepo, warehouseRepo, minStockRepo,
		postgres.NewLedgerBootstrapper(pool),
		inventory.Config{
			PreventNegativeStock: cfg.Inventory.PreventNegativeStock,
			DefaultWarehouseID:   cfg.Inventory.DefaultWarehouseID,
		},
		log,
	)

	offerUC := billing.NewOfferUsecase(offerRepo, productRepo, customerRepo, stockSvc, txRunner, log)
	invoiceUC := billing.NewInvoiceUsecase(invoiceRepo, offerRepo, productRepo, stockSvc, txRunner, cfg.Billing.DueDays, log)

	productUC := usecase.NewProductUseCase(productRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	dunningUC := usecase.NewDunningUseCase(invoiceRepo, usecase.DunningConfig{
		GraceDays: cfg.Billing.DunningGraceDays,
		Fees:      dunningFees(cfg.Billing, log),
	}, log)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	pdfGenerator := infrapdf.NewGenerator(infrapdf.Seller{
		Name:   cfg.Company.Name,
		Street: cfg.Company.Street,
		ZIP:    cfg.Company.ZIP,
		City:   cfg.Company.City,
		Email:  cfg.Company.Email,
		Phone:  cfg.Company.Phone,
		VATID:  cfg.Company.VATID,
		IBAN:   cfg.Company.IBAN,
		BIC:    cfg.Company.BIC,
	})
	xmlBuilder := xrechnung.NewBuilder(xrechnung.Seller{
		Name:   cfg.Company.Name,
		Street: cfg.Company.Street,
		ZIP:    cfg.Company.ZIP,
		City:   cfg.Company.City,
		Email:  cfg.Company.Email,
		VATID:  cfg.Company.VATID,
		IBAN:   cfg.Company.IBAN,
		BIC:    cfg.Company.BIC,
	})

	// Mailversand nur, wenn SMTP konfiguriert ist.
	var mailer *mail.Sender
	if cfg.SMTP.Host != "" {
		mailer = mail.NewSender(mail.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, log)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger-UI lokal: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Faktura API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   productUC,
		CustomerUC:  customerUC,
		WarehouseUC: warehouseUC,
		DunningUC:   dunningUC,
		Stock:       stockSvc,
		OfferUC:     offerUC,
		InvoiceUC:   invoiceUC,
		Customers:   customerRepo,
		PDF:         pdfGenerator,
		XRechnung:   xmlBuilder,
		Mailer:      mailer,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP-Server beendet")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutdown-Signal empfangen, Server wird beendet...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server-Shutdown")
	}

	log.Info().Msg("Anwendung gestoppt")
}

// dunningFees parst die Mahngebühren aus der Konfiguration. Stufe 1 ist
// gebührenfrei; unparsbare Werte fallen auf 0 zurück.
func dunningFees(cfg config.BillingConfig, log *logger.Logger) [usecase.MaxDunningLevel]decimal.Decimal {
	var fees [usecase.MaxDunningLevel]decimal.Decimal
	for i, raw := range []string{"", cfg.DunningFee2, cfg.DunningFee3} {
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			log.Warn().Str("value", raw).Int("level", i+1).Msg("Mahngebühr nicht parsbar, benutze 0")
			continue
		}
		fees[i] = d
	}
	return fees
}
