package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fakturahaus/faktura-api/internal/application/auth"
	"github.com/fakturahaus/faktura-api/internal/application/billing"
	"github.com/fakturahaus/faktura-api/internal/application/inventory"
	"github.com/fakturahaus/faktura-api/internal/application/usecase"
	"github.com/fakturahaus/faktura-api/internal/domain/entity"
	"github.com/fakturahaus/faktura-api/internal/domain/repository"
	"github.com/fakturahaus/faktura-api/internal/infrastructure/mail"
	"github.com/fakturahaus/faktura-api/internal/infrastructure/pdf"
	"github.com/fakturahaus/faktura-api/internal/infrastructure/xrechnung"
)

// RouterDeps sind die Abhängigkeiten des Routers.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProductUC   *usecase.ProductUseCase
	CustomerUC  *usecase.CustomerUseCase
	WarehouseUC *usecase.WarehouseUseCase
	DunningUC   *usecase.DunningUseCase
	Stock       *inventory.Service
	OfferUC     *billing.OfferUsecase
	InvoiceUC   *billing.InvoiceUsecase
	Customers   repository.CustomerRepository
	PDF         *pdf.Generator
	XRechnung   *xrechnung.Builder
	Mailer      *mail.Sender
	JWTSecret   string
}

// Router registriert alle API-Routen. Registrierung und Login sind öffentlich,
// alles andere verlangt ein Bearer-Token; Lager- und Mahnwesen zusätzlich eine
// passende Rolle.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (öffentlich)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Geschützte Routen (Bearer-Token erforderlich)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Artikelkatalog
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Kunden
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)

	// Lager (Anlegen und Löschen nur für Admins)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", RequireRole(entity.RoleAdmin), warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", RequireRole(entity.RoleAdmin), warehouseHandler.Update)
	warehouses.Delete("/:id", RequireRole(entity.RoleAdmin), warehouseHandler.Delete)

	// Lagerjournal
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Stock)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.History)
	invGroup.Get("/stock", inventoryHandler.GetStock)
	invGroup.Post("/reservations/release", RequireRole(entity.RoleAdmin, entity.RoleBuchhalter), inventoryHandler.ReleaseReservations)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)
	invGroup.Put("/min-stock", inventoryHandler.SetMinimumStock)
	invGroup.Delete("/min-stock", inventoryHandler.RemoveMinimumStock)

	// Angebote
	offers := protected.Group("/offers")
	offerHandler := NewOfferHandler(deps.OfferUC, deps.Customers, deps.PDF)
	offers.Post("/", offerHandler.Create)
	offers.Get("/", offerHandler.List)
	offers.Get("/:id", offerHandler.GetByID)
	offers.Get("/:id/pdf", offerHandler.PDF)
	offers.Post("/:id/send", offerHandler.Send)
	offers.Post("/:id/accept", offerHandler.Accept)
	offers.Post("/:id/reject", offerHandler.Reject)

	// Rechnungen
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.Customers, deps.PDF, deps.XRechnung, deps.Mailer)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
	invoices.Get("/:id/delivery-note", invoiceHandler.DeliveryNote)
	invoices.Get("/:id/xrechnung", invoiceHandler.XRechnung)
	invoices.Post("/:id/send", invoiceHandler.SendMail)
	invoices.Post("/:id/cancel", RequireRole(entity.RoleAdmin, entity.RoleBuchhalter), invoiceHandler.Cancel)
	invoices.Post("/:id/pay", RequireRole(entity.RoleAdmin, entity.RoleBuchhalter), invoiceHandler.MarkPaid)

	// Rechnung aus Angebot
	offers.Post("/:id/invoice", invoiceHandler.CreateFromOffer)

	// Mahnwesen (nur Admin und Buchhaltung)
	dunning := protected.Group("/dunning", RequireRole(entity.RoleAdmin, entity.RoleBuchhalter))
	dunningHandler := NewDunningHandler(deps.DunningUC)
	dunning.Post("/run", dunningHandler.Run)
	dunning.Get("/invoices/:id/letters", dunningHandler.Letters)
}
