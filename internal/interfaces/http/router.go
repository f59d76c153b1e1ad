package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/inventory"
	"github.com/jhoicas/Facturacion-api/internal/application/quota"
	"github.com/jhoicas/Facturacion-api/internal/application/report"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine        *billing.InvoiceEngine
	Projector     *billing.Projector
	Payments      *billing.PaymentLedger
	Customers     *billing.CustomerUseCase
	Products      *inventory.ProductUseCase
	Audit         *inventory.AuditUseCase
	Reports       *report.ProductReportUseCase
	Tenants       *quota.TenantUseCase
	Gate          *quota.Gate
	AppName       string
	JWTSecret     string
	WebhookSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	api := app.Group("/api")

	// Webhook (público, autenticado con secreto compartido)
	tenantHandler := NewTenantHandler(deps.Tenants, deps.Gate, deps.WebhookSecret)
	api.Post("/webhooks/payment-confirmed", tenantHandler.PaymentConfirmed)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	tenant := protected.Group("/tenant")
	tenant.Get("/", tenantHandler.Get)
	tenant.Get("/usage", tenantHandler.Usage)

	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.Customers)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Delete("/:id", RequireRole(entity.RoleAdmin), customerHandler.Delete)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.Products, deps.Reports)
	inventoryHandler := NewInventoryHandler(deps.Audit)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/:id/adjust", productHandler.Adjust)
	products.Get("/:id/logs", inventoryHandler.Logs)
	products.Get("/:id/audit", inventoryHandler.VerifyProduct)
	products.Get("/:id/report", RequireFeature(entity.FeatureReports, deps.Gate), productHandler.Report)

	protected.Get("/inventory/audit", RequireRole(entity.RoleAdmin), inventoryHandler.VerifyTenant)

	invoiceHandler := NewInvoiceHandler(deps.Engine, deps.Projector)
	protected.Post("/purchases", invoiceHandler.CreatePurchase)

	invoices := protected.Group("/invoices")
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/view", invoiceHandler.View)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Patch("/:id/status", invoiceHandler.UpdateStatus)

	paymentHandler := NewPaymentHandler(deps.Payments)
	invoices.Get("/:id/balance", paymentHandler.Balance)
	invoices.Get("/:id/payments", paymentHandler.List)
	invoices.Post("/:id/payments", paymentHandler.Add)
	invoices.Post("/:id/payments/complete", paymentHandler.Complete)
	invoices.Delete("/:id/payments/:paymentId", paymentHandler.Delete)
}
