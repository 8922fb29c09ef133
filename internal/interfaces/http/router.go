package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/retail-backoffice/internal/application/auth"
	"github.com/tu-usuario/retail-backoffice/internal/application/changefeed"
	"github.com/tu-usuario/retail-backoffice/internal/application/ledger"
	"github.com/tu-usuario/retail-backoffice/internal/application/report"
	"github.com/tu-usuario/retail-backoffice/internal/application/sales"
	"github.com/tu-usuario/retail-backoffice/internal/application/usecase"
	"github.com/tu-usuario/retail-backoffice/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ProductUC  *usecase.ProductUseCase
	StockUC    *ledger.StockLedger
	CountUC    *ledger.StockCountUseCase
	Mirror     *ledger.CashMirror
	Repair     *ledger.BalanceRepair
	SalesUC    *sales.UseCase
	Projector  *report.Projector
	LowStock   *changefeed.LowStockCache
	DailyCash  *changefeed.DailyCashCache
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.LowStock)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Libro de stock y conteos (protegido; conteos solo admin/bodeguero)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC, deps.CountUC)
	stock.Post("/mutations", stockHandler.ApplyMutation)
	stock.Get("/mutations", stockHandler.ListMutations)
	stock.Post("/counts", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), stockHandler.RecordCount)
	stock.Get("/counts", stockHandler.ListCounts)

	// Caja (protegido; reintento de réplicas solo admin)
	cash := protected.Group("/cash")
	cashHandler := NewCashHandler(deps.Mirror, deps.DailyCash)
	cash.Post("/", cashHandler.Record)
	cash.Post("/mirror/retry", RequireRole(entity.RoleAdmin), cashHandler.RetryMirrors)
	cash.Get("/today", cashHandler.Today)

	// Ventas, pagos y compras (protegido)
	salesHandler := NewSalesHandler(deps.SalesUC)
	protected.Post("/sales", salesHandler.RecordSale)
	protected.Post("/payments", salesHandler.RecordPayment)
	protected.Post("/settlements", salesHandler.RecordSettlement)
	protected.Post("/purchases", salesHandler.RecordPurchase)

	// Terceros y reparación de saldos (protegido; reparación solo admin)
	parties := protected.Group("/parties")
	partyHandler := NewPartyHandler(deps.SalesUC, deps.Repair)
	parties.Post("/", partyHandler.Create)
	parties.Get("/", partyHandler.List)
	parties.Get("/:id/balance", partyHandler.GetBalance)
	parties.Get("/:id/history", partyHandler.History)
	parties.Post("/:id/repair-balance", RequireRole(entity.RoleAdmin), partyHandler.RepairBalance)

	// Reportes (protegido)
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.Projector)
	reports.Get("/summary", reportHandler.Summary)
}
